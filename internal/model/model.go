package model

import "time"

// PacketObservation is a single captured packet reduced to the two values the
// feature extractor consumes: when it arrived and how large it was.
// ArrivalTime is in seconds on the capture source's clock. Observations are
// kept in arrival order and are never re-sorted; merging differently-clocked
// sources is the caller's job.
type PacketObservation struct {
	ArrivalTime float64 `json:"arrival_time"`
	PayloadSize int     `json:"payload_size"`
}

// FeatureRecord is the fixed-shape numeric summary of one capture's traffic.
// It is a pure function of the packet sequence it was extracted from and is
// not mutated after creation. Every field is finite; degenerate inputs
// (empty or single-packet captures) yield zeros, never NaN or Inf.
type FeatureRecord struct {
	NumPackets     int     `json:"num_packets"`
	PktSizeMean    float64 `json:"pkt_size_mean"`
	PktSizeStd     float64 `json:"pkt_size_std"`
	PktSizeCV      float64 `json:"pkt_size_cv"`
	InterMean      float64 `json:"inter_mean"`
	InterStd       float64 `json:"inter_std"`
	InterCV        float64 `json:"inter_cv"`
	P95Inter       float64 `json:"p95_inter"`
	BurstMean      float64 `json:"burst_mean"`
	BurstMax       float64 `json:"burst_max"`
	NumSilenceGaps int     `json:"num_silence_gaps"`
	SilenceRatio   float64 `json:"silence_ratio"`
	FlowDuration   float64 `json:"flow_duration"`
	PktRate        float64 `json:"pkt_rate"`
}

// Capture is the full ordered packet sequence collected during one playback
// session, together with the labels supplied by the metadata lookup.
type Capture struct {
	ContentType string
	ContentID   string
	Genre       string
	CapturedAt  time.Time
	Packets     []PacketObservation
}

// Record is one row of the generated dataset: the capture's labels plus the
// features extracted from its packet sequence.
type Record struct {
	ContentType string        `json:"content_type"`
	ContentID   string        `json:"content_id"`
	Genre       string        `json:"genre"`
	CapturedAt  time.Time     `json:"captured_at"`
	Features    FeatureRecord `json:"features"`
}
