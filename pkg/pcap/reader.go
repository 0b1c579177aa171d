package pcap

import (
	"StreamSpectra/internal/capture"
	"StreamSpectra/internal/model"

	"github.com/google/gopacket"
	"github.com/google/gopacket/pcap"
)

// Reader reads packet observations from a pcap file.
type Reader struct {
	handle *pcap.Handle
}

// NewReader creates a new pcap reader for the given file path.
func NewReader(filePath string) (*Reader, error) {
	handle, err := pcap.OpenOffline(filePath)
	if err != nil {
		return nil, err
	}
	return &Reader{handle: handle}, nil
}

// Close closes the pcap handle.
func (r *Reader) Close() {
	r.handle.Close()
}

// ReadCapture reads every packet in the file and returns the observations in
// stored order. The file's own timestamps become the arrival times, so the
// extracted features match what a live capture would have produced.
func (r *Reader) ReadCapture() []model.PacketObservation {
	var observations []model.PacketObservation
	packetSource := gopacket.NewPacketSource(r.handle, r.handle.LinkType())
	for packet := range packetSource.Packets() {
		observations = append(observations, capture.Observation(packet.Metadata().CaptureInfo))
	}
	return observations
}
