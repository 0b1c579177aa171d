package capture

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"StreamSpectra/internal/config"
	"StreamSpectra/internal/model"

	"github.com/google/gopacket"
	"github.com/google/gopacket/pcap"
	"github.com/google/gopacket/pcapgo"
)

const defaultSnapshotLen int32 = 1600

// DefaultBPFFilter keeps only the TLS traffic a streaming session rides on.
const DefaultBPFFilter = "tcp port 443"

// Sniffer collects packet observations from a live interface.
type Sniffer struct {
	iface       string
	bpfFilter   string
	snapshotLen int32
	promiscuous bool
	pcapDir     string
}

// NewSniffer creates a sniffer for the configured interface, applying the
// default snapshot length and BPF filter where the config leaves them unset.
func NewSniffer(cfg config.CaptureConfig) *Sniffer {
	snaplen := cfg.SnapshotLen
	if snaplen <= 0 {
		snaplen = defaultSnapshotLen
	}
	filter := cfg.BPFFilter
	if filter == "" {
		filter = DefaultBPFFilter
	}
	return &Sniffer{
		iface:       cfg.Interface,
		bpfFilter:   filter,
		snapshotLen: snaplen,
		promiscuous: cfg.Promiscuous,
		pcapDir:     cfg.PcapDir,
	}
}

// Capture sniffs the interface for the given duration and returns the packet
// observations in arrival order. When archive is non-empty and a pcap
// directory is configured, the raw packets are also written to
// <pcap_dir>/<archive>.pcap for later offline re-extraction.
func (s *Sniffer) Capture(ctx context.Context, duration time.Duration, archive string) ([]model.PacketObservation, error) {
	handle, err := pcap.OpenLive(s.iface, s.snapshotLen, s.promiscuous, pcap.BlockForever)
	if err != nil {
		return nil, fmt.Errorf("failed to open device %s: %w", s.iface, err)
	}
	defer handle.Close()

	if err := handle.SetBPFFilter(s.bpfFilter); err != nil {
		return nil, fmt.Errorf("failed to set BPF filter %q: %w", s.bpfFilter, err)
	}

	var pcapWriter *pcapgo.Writer
	if archive != "" && s.pcapDir != "" {
		if err := os.MkdirAll(s.pcapDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create pcap directory: %w", err)
		}
		path := filepath.Join(s.pcapDir, archive+".pcap")
		file, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("failed to create pcap file '%s': %w", path, err)
		}
		defer file.Close()

		pcapWriter = pcapgo.NewWriter(file)
		if err := pcapWriter.WriteFileHeader(uint32(s.snapshotLen), handle.LinkType()); err != nil {
			return nil, fmt.Errorf("failed to write pcap file header: %w", err)
		}
	}

	deadline := time.NewTimer(duration)
	defer deadline.Stop()

	var observations []model.PacketObservation
	packetSource := gopacket.NewPacketSource(handle, handle.LinkType())
	packets := packetSource.Packets()
	for {
		select {
		case packet, ok := <-packets:
			if !ok {
				return observations, nil
			}
			ci := packet.Metadata().CaptureInfo
			observations = append(observations, Observation(ci))
			if pcapWriter != nil {
				if err := pcapWriter.WritePacket(ci, packet.Data()); err != nil {
					// Archiving is best-effort; the observation is already recorded.
					log.Printf("Error archiving packet: %v", err)
				}
			}
		case <-deadline.C:
			return observations, nil
		case <-ctx.Done():
			return observations, ctx.Err()
		}
	}
}

// Observation reduces capture metadata to the arrival-time/size pair the
// feature extractor consumes. Arrival times are epoch seconds so captures
// taken on the same host stay on one clock.
func Observation(ci gopacket.CaptureInfo) model.PacketObservation {
	return model.PacketObservation{
		ArrivalTime: float64(ci.Timestamp.UnixNano()) / float64(time.Second),
		PayloadSize: ci.Length,
	}
}
