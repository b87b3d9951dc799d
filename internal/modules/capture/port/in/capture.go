package in

import (
	"context"

	"soundcheck/internal/modules/capture/dto"
)

type Usecase interface {
	Open(ctx context.Context, input dto.OpenInput) (dto.OpenOutput, error)
	Read(ctx context.Context, streamID string) (dto.FrameOutput, error)
	Close(ctx context.Context, streamID string) error
	Devices(ctx context.Context) ([]dto.DeviceOutput, error)
	Doctor(ctx context.Context) ([]dto.CheckOutput, error)
}
