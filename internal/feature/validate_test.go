package feature

import (
	"errors"
	"testing"

	"StreamSpectra/internal/model"
)

func TestValidateCapture(t *testing.T) {
	valid := []model.PacketObservation{
		{ArrivalTime: 0.0, PayloadSize: 100},
		{ArrivalTime: 0.1, PayloadSize: 0},
		{ArrivalTime: 0.1, PayloadSize: 1400},
	}
	if err := ValidateCapture(valid); err != nil {
		t.Fatalf("expected valid capture, got %v", err)
	}
	if err := ValidateCapture(nil); err != nil {
		t.Fatalf("expected empty capture to be valid, got %v", err)
	}

	negative := []model.PacketObservation{
		{ArrivalTime: 0.0, PayloadSize: 100},
		{ArrivalTime: 0.1, PayloadSize: -1},
	}
	err := ValidateCapture(negative)
	if err == nil {
		t.Fatal("expected error for negative payload size")
	}
	var capErr *InvalidCaptureError
	if !errors.As(err, &capErr) {
		t.Fatalf("expected *InvalidCaptureError, got %T", err)
	}
	if capErr.Index != 1 {
		t.Errorf("expected offending packet index 1, got %d", capErr.Index)
	}

	backwards := []model.PacketObservation{
		{ArrivalTime: 5.0, PayloadSize: 100},
		{ArrivalTime: 4.9, PayloadSize: 100},
	}
	if err := ValidateCapture(backwards); err == nil {
		t.Fatal("expected error for decreasing arrival time")
	}
}
