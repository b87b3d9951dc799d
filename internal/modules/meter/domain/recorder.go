package domain

import "time"

// TrendPoint is one coarse-interval loudness snapshot, kept only for the
// post-session trend graph.
type TrendPoint struct {
	Offset time.Duration
	Value  float64
}

// Recorder appends one point per fixed wall-clock interval, independent of
// the per-frame sampling rate and the display throttle.
type Recorder struct {
	interval time.Duration
	start    time.Time
	next     time.Time
	points   []TrendPoint
}

func NewRecorder(interval time.Duration) *Recorder {
	return &Recorder{interval: interval}
}

func (r *Recorder) Reset(now time.Time) {
	r.start = now
	r.next = now.Add(r.interval)
	r.points = nil
}

func (r *Recorder) Observe(v float64, now time.Time) {
	if now.Before(r.next) {
		return
	}
	r.points = append(r.points, TrendPoint{Offset: now.Sub(r.start), Value: v})
	r.next = r.next.Add(r.interval)
	// Catch up after a stall rather than emitting a burst of stale points.
	if now.After(r.next) {
		r.next = now.Add(r.interval)
	}
}

func (r *Recorder) Points() []TrendPoint {
	out := make([]TrendPoint, len(r.points))
	copy(out, r.points)
	return out
}
