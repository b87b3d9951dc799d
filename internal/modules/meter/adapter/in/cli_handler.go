package in

import (
	"context"
	"time"

	meterdto "soundcheck/internal/modules/meter/dto"
	meterin "soundcheck/internal/modules/meter/port/in"
)

type CLIHandler struct {
	usecase meterin.Usecase
}

func NewCLIHandler(usecase meterin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Measure(ctx context.Context, backend, device string, duration time.Duration, svgPath string) (meterdto.MeasurementOutput, error) {
	return h.usecase.Measure(ctx, meterdto.MeasureInput{
		Backend:  backend,
		Device:   device,
		Duration: duration,
		SVGPath:  svgPath,
	})
}

func (h CLIHandler) List(ctx context.Context) ([]meterdto.MeasurementOutput, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Get(ctx context.Context, id string) (meterdto.MeasurementOutput, error) {
	return h.usecase.Get(ctx, id)
}

func (h CLIHandler) ExportSVG(ctx context.Context, id, path string) (meterdto.ExportOutput, error) {
	return h.usecase.ExportSVG(ctx, meterdto.ExportInput{MeasurementID: id, Path: path})
}
