package out

import (
	"context"

	"soundcheck/internal/modules/meter/domain"
)

// ReportStore writes the human-readable measurement note and returns its path.
type ReportStore interface {
	Save(ctx context.Context, measurement domain.Measurement) (string, error)
}

// MeasurementProjector maintains the queryable index of past measurements.
type MeasurementProjector interface {
	Upsert(ctx context.Context, measurement domain.Measurement) error
	List(ctx context.Context) ([]domain.Measurement, error)
	Get(ctx context.Context, id string) (domain.Measurement, error)
	Reset(ctx context.Context) error
}

// TrendWriter renders a measurement's trend graph and returns the written path.
type TrendWriter interface {
	Write(ctx context.Context, measurement domain.Measurement, path string) (string, error)
}
