package dto

import "time"

type BeginInput struct {
	Backend  string
	Device   string
	Duration time.Duration
}

type MeasureInput struct {
	Backend  string
	Device   string
	Duration time.Duration
	SVGPath  string
}

type TrendPointOutput struct {
	Offset time.Duration
	Value  float64
}

type MeasurementOutput struct {
	ID          string
	StartedAt   time.Time
	EndedAt     time.Time
	Duration    time.Duration
	MaxLevel    float64
	AvgLevel    float64
	SampleCount int
	Trend       []TrendPointOutput
	NotePath    string
	SVGPath     string
}

// SnapshotOutput is one frame's view of the running measurement. Completed is
// set exactly once, on the frame that crossed into the complete phase.
type SnapshotOutput struct {
	Phase     string
	Current   float64
	Display   float64
	MaxLevel  float64
	AvgLevel  float64
	Elapsed   time.Duration
	Remaining time.Duration
	Backend   string
	Completed *MeasurementOutput
}

type ExportInput struct {
	MeasurementID string
	Path          string
}

type ExportOutput struct {
	MeasurementID string
	Path          string
}
