package domain_test

import (
	"math"
	"testing"
	"time"

	"soundcheck/internal/modules/meter/domain"
)

func trendOf(values ...float64) []domain.TrendPoint {
	points := make([]domain.TrendPoint, len(values))
	for i, v := range values {
		points[i] = domain.TrendPoint{Offset: time.Duration(i) * time.Second, Value: v}
	}
	return points
}

func TestScaleTrendInvertsAndSpreadsEvenly(t *testing.T) {
	t.Parallel()
	scaled := domain.ScaleTrend(trendOf(10, 30, 20), 100, 50)
	if len(scaled) != 3 {
		t.Fatalf("expected 3 points, got %d", len(scaled))
	}
	if scaled[0].X != 0 || scaled[1].X != 50 || scaled[2].X != 100 {
		t.Fatalf("x must be evenly spaced by index: %+v", scaled)
	}
	// min maps to the bottom, max to the top (SVG y grows downward)
	if scaled[0].Y != 50 {
		t.Fatalf("min value must sit at the bottom, got %f", scaled[0].Y)
	}
	if scaled[1].Y != 0 {
		t.Fatalf("max value must sit at the top, got %f", scaled[1].Y)
	}
	if scaled[2].Y <= scaled[1].Y || scaled[2].Y >= scaled[0].Y {
		t.Fatalf("mid value must land between top and bottom, got %f", scaled[2].Y)
	}
}

func TestScaleTrendFlatLineUsesRangeFloor(t *testing.T) {
	t.Parallel()
	scaled := domain.ScaleTrend(trendOf(42, 42, 42), 100, 50)
	for _, p := range scaled {
		if math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
			t.Fatalf("flat trend must not divide by zero: %+v", p)
		}
		if p.Y != 50 {
			t.Fatalf("flat trend sits on the baseline, got %f", p.Y)
		}
	}
}

func TestScaleTrendSinglePoint(t *testing.T) {
	t.Parallel()
	scaled := domain.ScaleTrend(trendOf(7), 100, 50)
	if len(scaled) != 1 || scaled[0].X != 0 {
		t.Fatalf("single point must sit at x=0: %+v", scaled)
	}
}

func TestScaleTrendEmpty(t *testing.T) {
	t.Parallel()
	if got := domain.ScaleTrend(nil, 100, 50); got != nil {
		t.Fatalf("empty trend must scale to nil, got %+v", got)
	}
}
