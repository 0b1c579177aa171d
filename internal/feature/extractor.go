package feature

import (
	"math"
	"sort"

	"StreamSpectra/internal/model"
)

// Fixed thresholds of the feature design. A trailing window of BurstWindow
// seconds measures local packet density; inter-arrival gaps strictly greater
// than SilenceThreshold seconds count as silence.
const (
	BurstWindow      = 0.5
	SilenceThreshold = 2.0
)

// Extract computes the feature record for one capture using the fixed
// thresholds above. The input is treated as already being in arrival order;
// the function holds no state between calls, so independent captures can be
// extracted in parallel.
func Extract(packets []model.PacketObservation) model.FeatureRecord {
	return ExtractWithThresholds(packets, BurstWindow, SilenceThreshold)
}

// ExtractWithThresholds is Extract with explicit burst-window and
// silence-threshold parameters, for callers that need non-default windows.
//
// Every would-be division by zero resolves to 0: an empty capture yields the
// all-zero record, a single-packet capture yields size statistics with all
// inter-arrival-derived fields zero, and no field is ever NaN or Inf.
func ExtractWithThresholds(packets []model.PacketObservation, burstWindow, silenceThreshold float64) model.FeatureRecord {
	var rec model.FeatureRecord
	rec.NumPackets = len(packets)
	if len(packets) == 0 {
		return rec
	}

	sizes := make([]float64, len(packets))
	for i, p := range packets {
		sizes[i] = float64(p.PayloadSize)
	}
	rec.PktSizeMean, rec.PktSizeStd = meanStd(sizes)
	rec.PktSizeCV = safeDiv(rec.PktSizeStd, rec.PktSizeMean)

	inter := make([]float64, 0, len(packets)-1)
	for i := 1; i < len(packets); i++ {
		inter = append(inter, packets[i].ArrivalTime-packets[i-1].ArrivalTime)
	}
	if len(inter) > 0 {
		rec.InterMean, rec.InterStd = meanStd(inter)
		rec.InterCV = safeDiv(rec.InterStd, rec.InterMean)
		rec.P95Inter = percentile(inter, 95)
	}

	rec.BurstMean, rec.BurstMax = burstStats(packets, burstWindow)

	var gapSum, interSum float64
	for _, v := range inter {
		interSum += v
		if v > silenceThreshold {
			rec.NumSilenceGaps++
			gapSum += v
		}
	}
	rec.SilenceRatio = safeDiv(gapSum, interSum)

	if len(packets) > 1 {
		rec.FlowDuration = packets[len(packets)-1].ArrivalTime - packets[0].ArrivalTime
	}
	rec.PktRate = safeDiv(float64(len(packets)), rec.FlowDuration)

	return rec
}

// burstStats sweeps a trailing window over the arrival times: for each packet
// at time t it counts the packets, itself included, whose arrival time falls
// within [t-window, t]. The start pointer only advances, so the sweep is
// linear in the packet count.
func burstStats(packets []model.PacketObservation, window float64) (mean, max float64) {
	var sum float64
	start := 0
	for i := range packets {
		t := packets[i].ArrivalTime
		for t-packets[start].ArrivalTime > window {
			start++
		}
		count := float64(i - start + 1)
		sum += count
		if count > max {
			max = count
		}
	}
	if len(packets) == 0 {
		return 0, 0
	}
	return sum / float64(len(packets)), max
}

// meanStd returns the arithmetic mean and population standard deviation.
func meanStd(values []float64) (mean, std float64) {
	if len(values) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(len(values))
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	std = math.Sqrt(sq / float64(len(values)))
	return mean, std
}

// percentile returns the p-th percentile of values using the conventional
// linear-interpolation definition over the sorted sample.
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// safeDiv resolves division by zero to 0 so no feature is ever NaN or Inf.
func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
