package publish

import (
	"encoding/json"
	"log"

	"StreamSpectra/internal/config"
	"StreamSpectra/internal/model"

	"github.com/nats-io/nats.go"
)

// Publisher publishes dataset records to a NATS subject so a remote ingester
// can persist them.
type Publisher struct {
	nc      *nats.Conn
	subject string
}

// NewPublisher creates a new NATS publisher.
func NewPublisher(cfg config.NATSConfig) (*Publisher, error) {
	nc, err := nats.Connect(cfg.URL)
	if err != nil {
		return nil, err
	}
	log.Printf("Connected to NATS server at %s", cfg.URL)
	return &Publisher{nc: nc, subject: cfg.Subject}, nil
}

// Publish serializes a record to JSON and publishes it to the configured subject.
func (p *Publisher) Publish(record *model.Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return p.nc.Publish(p.subject, data)
}

// Close drains and closes the NATS connection.
func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Drain()
		log.Println("NATS connection drained and closed.")
	}
}
