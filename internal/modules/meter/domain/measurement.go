package domain

import "time"

const SchemaVersion = 1

// Measurement is a completed session fixed into a record: final statistics
// plus the coarse trend used for graphing.
type Measurement struct {
	ID          string
	StartedAt   time.Time
	EndedAt     time.Time
	Duration    time.Duration
	MaxLevel    float64
	AvgLevel    float64
	SampleCount int
	Trend       []TrendPoint
	NotePath    string
	SVGPath     string
}
