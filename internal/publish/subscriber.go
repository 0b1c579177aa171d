package publish

import (
	"encoding/json"
	"log"

	"StreamSpectra/internal/config"
	"StreamSpectra/internal/model"

	"github.com/nats-io/nats.go"
)

// RecordHandler is a function that processes a received dataset record.
type RecordHandler func(record *model.Record)

// Subscriber subscribes to a NATS subject and decodes dataset records.
type Subscriber struct {
	nc      *nats.Conn
	sub     *nats.Subscription
	subject string
}

// NewSubscriber creates a new NATS subscriber.
func NewSubscriber(cfg config.NATSConfig) (*Subscriber, error) {
	nc, err := nats.Connect(cfg.URL)
	if err != nil {
		return nil, err
	}
	log.Printf("Connected to NATS server at %s", cfg.URL)
	return &Subscriber{nc: nc, subject: cfg.Subject}, nil
}

// Start subscribes to the configured subject and processes each message with
// the provided handler. Malformed messages are logged and dropped.
func (s *Subscriber) Start(handler RecordHandler) error {
	sub, err := s.nc.Subscribe(s.subject, func(msg *nats.Msg) {
		var record model.Record
		if err := json.Unmarshal(msg.Data, &record); err != nil {
			log.Printf("Error unmarshalling record: %v", err)
			return
		}
		handler(&record)
	})
	if err != nil {
		return err
	}
	s.sub = sub
	log.Printf("Subscribed to '%s'. Waiting for records...", s.subject)
	return nil
}

// Close unsubscribes and closes the NATS connection.
func (s *Subscriber) Close() {
	if s.sub != nil {
		s.sub.Unsubscribe()
	}
	if s.nc != nil {
		s.nc.Close()
		log.Println("NATS connection closed.")
	}
}
