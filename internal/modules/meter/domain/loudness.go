package domain

import "math"

// rmsEpsilon keeps the logarithm defined for silent frames. After the +100
// shift a silent frame lands well below zero and clamps to the floor.
const rmsEpsilon = 1e-7

// Loudness converts one frame of unsigned 8-bit amplitude samples (center
// 128) into a value on a 0-100 scale: normalize to [-1,1], take the RMS,
// convert with 20*log10 and shift by +100. The scale is a display heuristic,
// not calibrated SPL.
func Loudness(frame []byte) float64 {
	if len(frame) == 0 {
		return 0
	}
	var sum float64
	for _, b := range frame {
		v := (float64(b) - 128) / 128
		sum += v * v
	}
	rms := math.Sqrt(sum / float64(len(frame)))
	db := 20 * math.Log10(math.Max(rms, rmsEpsilon))
	return clamp(db+100, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
