package domain_test

import (
	"testing"

	"soundcheck/internal/modules/meter/domain"
)

func TestAggregateMaxAndMeanBounds(t *testing.T) {
	t.Parallel()
	samples := []float64{12.5, 80.1, 43, 0, 99.9, 55.5}
	agg := domain.Aggregate{}
	lo, hi := samples[0], samples[0]
	for _, s := range samples {
		agg.Observe(s)
		if s < lo {
			lo = s
		}
		if s > hi {
			hi = s
		}
	}
	if agg.Max != hi {
		t.Fatalf("max must equal largest sample: got %f want %f", agg.Max, hi)
	}
	for _, s := range samples {
		if agg.Max < s {
			t.Fatalf("max %f smaller than sample %f", agg.Max, s)
		}
	}
	mean := agg.Mean()
	if mean < lo || mean > hi {
		t.Fatalf("mean %f outside sample range [%f, %f]", mean, lo, hi)
	}
}

func TestAggregateEmptyMeanIsZero(t *testing.T) {
	t.Parallel()
	agg := domain.Aggregate{}
	if agg.Mean() != 0 {
		t.Fatalf("empty aggregate mean must be 0")
	}
}

func TestWindowMeanStaysWithinRecentSamples(t *testing.T) {
	t.Parallel()
	w := domain.NewWindow(8)
	samples := []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100, 5}
	for i, s := range samples {
		w.Push(s)
		start := 0
		if i >= 8 {
			start = i - 7
		}
		lo, hi := samples[start], samples[start]
		for _, r := range samples[start : i+1] {
			if r < lo {
				lo = r
			}
			if r > hi {
				hi = r
			}
		}
		mean := w.Mean()
		if mean < lo || mean > hi {
			t.Fatalf("window mean %f outside [%f, %f] after sample %d", mean, lo, hi, i)
		}
	}
	if w.Len() != 8 {
		t.Fatalf("window must hold at most 8 samples, got %d", w.Len())
	}
}

func TestWindowCapacityFloor(t *testing.T) {
	t.Parallel()
	w := domain.NewWindow(0)
	w.Push(1)
	w.Push(2)
	if w.Len() != 1 || w.Mean() != 2 {
		t.Fatalf("degenerate window must keep exactly the last sample")
	}
}
