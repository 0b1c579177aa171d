package capture

import (
	"testing"
	"time"

	"StreamSpectra/internal/config"

	"github.com/google/gopacket"
)

func TestObservation(t *testing.T) {
	ts := time.Unix(1700000000, 250000000) // .25s into the second
	ci := gopacket.CaptureInfo{Timestamp: ts, CaptureLength: 96, Length: 1400}

	obs := Observation(ci)

	if obs.PayloadSize != 1400 {
		t.Errorf("Expected payload size 1400 (wire length, not capture length), got %d", obs.PayloadSize)
	}
	expected := 1700000000.25
	if diff := obs.ArrivalTime - expected; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("Expected arrival time %v, got %v", expected, obs.ArrivalTime)
	}
}

func TestObservation_OrderPreserved(t *testing.T) {
	base := time.Unix(1700000000, 0)
	var last float64
	for i := 0; i < 5; i++ {
		obs := Observation(gopacket.CaptureInfo{Timestamp: base.Add(time.Duration(i) * 50 * time.Millisecond), Length: 200})
		if i > 0 && obs.ArrivalTime <= last {
			t.Fatalf("arrival times not increasing at packet %d: %v <= %v", i, obs.ArrivalTime, last)
		}
		last = obs.ArrivalTime
	}
}

func TestNewSniffer_Defaults(t *testing.T) {
	s := NewSniffer(config.CaptureConfig{Interface: "eth0"})
	if s.snapshotLen != defaultSnapshotLen {
		t.Errorf("Expected default snapshot length %d, got %d", defaultSnapshotLen, s.snapshotLen)
	}
	if s.bpfFilter != DefaultBPFFilter {
		t.Errorf("Expected default BPF filter %q, got %q", DefaultBPFFilter, s.bpfFilter)
	}

	s = NewSniffer(config.CaptureConfig{Interface: "eth0", BPFFilter: "udp port 53", SnapshotLen: 256})
	if s.bpfFilter != "udp port 53" || s.snapshotLen != 256 {
		t.Errorf("Config values should override defaults, got filter %q snaplen %d", s.bpfFilter, s.snapshotLen)
	}
}
