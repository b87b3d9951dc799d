package in

import (
	"context"

	meterdto "soundcheck/internal/modules/meter/dto"
	meterin "soundcheck/internal/modules/meter/port/in"
)

// TUIHandler exposes the frame-driven surface the terminal UI steps through.
type TUIHandler struct {
	usecase meterin.Usecase
}

func NewTUIHandler(usecase meterin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) Begin(ctx context.Context, input meterdto.BeginInput) (meterdto.SnapshotOutput, error) {
	return h.usecase.Begin(ctx, input)
}

func (h TUIHandler) Step(ctx context.Context) (meterdto.SnapshotOutput, error) {
	return h.usecase.Step(ctx)
}

func (h TUIHandler) Abort(ctx context.Context) error {
	return h.usecase.Abort(ctx)
}

func (h TUIHandler) List(ctx context.Context) ([]meterdto.MeasurementOutput, error) {
	return h.usecase.List(ctx)
}

func (h TUIHandler) ExportSVG(ctx context.Context, input meterdto.ExportInput) (meterdto.ExportOutput, error) {
	return h.usecase.ExportSVG(ctx, input)
}
