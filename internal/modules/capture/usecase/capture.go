package usecase

import (
	"context"
	"fmt"
	"sync"

	"soundcheck/internal/modules/capture/domain"
	"soundcheck/internal/modules/capture/dto"
	capturein "soundcheck/internal/modules/capture/port/in"
	captureout "soundcheck/internal/modules/capture/port/out"
	"soundcheck/internal/modules/capture/service"
	apperrors "soundcheck/internal/platform/errors"
	"soundcheck/internal/platform/id"
)

// Interactor keeps open streams behind opaque ids so other modules only ever
// see DTOs, never adapter types.
type Interactor struct {
	svc   *service.CaptureService
	idGen id.Generator

	mu      sync.Mutex
	streams map[string]captureout.Stream
}

func NewInteractor(svc *service.CaptureService, idGen id.Generator) capturein.Usecase {
	return &Interactor{svc: svc, idGen: idGen, streams: map[string]captureout.Stream{}}
}

func (i *Interactor) Open(ctx context.Context, input dto.OpenInput) (dto.OpenOutput, error) {
	cfg := domain.Config{
		Backend:    input.Backend,
		Device:     input.Device,
		SampleRate: input.SampleRate,
		FrameSize:  input.FrameSize,
	}
	if cfg.Backend == "" {
		cfg.Backend = domain.BackendAuto
	}
	stream, backend, err := i.svc.Open(ctx, cfg)
	if err != nil {
		return dto.OpenOutput{}, err
	}
	streamID := i.idGen.New()
	i.mu.Lock()
	i.streams[streamID] = stream
	i.mu.Unlock()
	return dto.OpenOutput{StreamID: streamID, Backend: backend}, nil
}

func (i *Interactor) Read(ctx context.Context, streamID string) (dto.FrameOutput, error) {
	i.mu.Lock()
	stream, ok := i.streams[streamID]
	i.mu.Unlock()
	if !ok {
		return dto.FrameOutput{}, apperrors.ErrStreamClosed
	}
	frame, err := stream.Read(ctx)
	if err != nil {
		return dto.FrameOutput{}, fmt.Errorf("read frame: %w", err)
	}
	return dto.FrameOutput{Samples: frame}, nil
}

func (i *Interactor) Close(_ context.Context, streamID string) error {
	i.mu.Lock()
	stream, ok := i.streams[streamID]
	delete(i.streams, streamID)
	i.mu.Unlock()
	if !ok {
		return nil
	}
	return stream.Close()
}

func (i *Interactor) Devices(ctx context.Context) ([]dto.DeviceOutput, error) {
	devices, err := i.svc.Devices(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DeviceOutput, 0, len(devices))
	for _, d := range devices {
		out = append(out, dto.DeviceOutput{ID: d.ID, Label: d.Label, Backend: d.Backend})
	}
	return out, nil
}

func (i *Interactor) Doctor(ctx context.Context) ([]dto.CheckOutput, error) {
	checks := i.svc.Doctor(ctx)
	out := make([]dto.CheckOutput, 0, len(checks))
	for _, c := range checks {
		out = append(out, dto.CheckOutput{Backend: c.Backend, OK: c.OK, Details: c.Details})
	}
	return out, nil
}
