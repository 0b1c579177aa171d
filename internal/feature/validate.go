package feature

import (
	"fmt"

	"StreamSpectra/internal/model"
)

// InvalidCaptureError reports a malformed capture. Extraction itself never
// fails; validation is opt-in for callers that want to skip a bad capture
// instead of folding its arithmetic into the dataset.
type InvalidCaptureError struct {
	Index  int
	Reason string
}

func (e *InvalidCaptureError) Error() string {
	return fmt.Sprintf("invalid capture at packet %d: %s", e.Index, e.Reason)
}

// ValidateCapture checks that payload sizes are non-negative and that arrival
// times never decrease. A nil return means Extract sees well-formed input.
func ValidateCapture(packets []model.PacketObservation) error {
	for i, p := range packets {
		if p.PayloadSize < 0 {
			return &InvalidCaptureError{Index: i, Reason: fmt.Sprintf("negative payload size %d", p.PayloadSize)}
		}
		if i > 0 && p.ArrivalTime < packets[i-1].ArrivalTime {
			return &InvalidCaptureError{Index: i, Reason: "arrival time decreased"}
		}
	}
	return nil
}
