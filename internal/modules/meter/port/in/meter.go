package in

import (
	"context"

	"soundcheck/internal/modules/meter/dto"
)

type Usecase interface {
	Begin(ctx context.Context, input dto.BeginInput) (dto.SnapshotOutput, error)
	Step(ctx context.Context) (dto.SnapshotOutput, error)
	Abort(ctx context.Context) error
	Measure(ctx context.Context, input dto.MeasureInput) (dto.MeasurementOutput, error)
	List(ctx context.Context) ([]dto.MeasurementOutput, error)
	Get(ctx context.Context, id string) (dto.MeasurementOutput, error)
	ExportSVG(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error)
}
