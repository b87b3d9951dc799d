package in

import (
	"context"

	"soundcheck/internal/modules/capture/dto"
	capturein "soundcheck/internal/modules/capture/port/in"
)

type CLIHandler struct {
	usecase capturein.Usecase
}

func NewCLIHandler(usecase capturein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Devices(ctx context.Context) ([]dto.DeviceOutput, error) {
	return h.usecase.Devices(ctx)
}

func (h CLIHandler) Doctor(ctx context.Context) ([]dto.CheckOutput, error) {
	return h.usecase.Doctor(ctx)
}
