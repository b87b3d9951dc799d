package service

import (
	"context"
	"fmt"

	"soundcheck/internal/modules/capture/domain"
	captureout "soundcheck/internal/modules/capture/port/out"
	apperrors "soundcheck/internal/platform/errors"
)

// CaptureService owns the backend registry. Sources are tried in
// registration order when the configured backend is "auto".
type CaptureService struct {
	sources []captureout.Source
}

func NewCaptureService(sources ...captureout.Source) *CaptureService {
	return &CaptureService{sources: sources}
}

func (s *CaptureService) Open(ctx context.Context, cfg domain.Config) (captureout.Stream, string, error) {
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	if cfg.Backend != domain.BackendAuto {
		source := s.lookup(cfg.Backend)
		if source == nil {
			return nil, "", fmt.Errorf("%w: %s", domain.ErrUnknownBackend, cfg.Backend)
		}
		stream, err := source.Open(ctx, cfg)
		if err != nil {
			return nil, "", fmt.Errorf("open %s capture: %w", source.Name(), err)
		}
		return stream, source.Name(), nil
	}

	var lastErr error
	for _, source := range s.sources {
		if err := source.Check(ctx); err != nil {
			lastErr = err
			continue
		}
		stream, err := source.Open(ctx, cfg)
		if err != nil {
			lastErr = err
			continue
		}
		return stream, source.Name(), nil
	}
	if lastErr != nil {
		return nil, "", fmt.Errorf("%w: %v", apperrors.ErrCaptureUnavailable, lastErr)
	}
	return nil, "", apperrors.ErrCaptureUnavailable
}

func (s *CaptureService) Devices(ctx context.Context) ([]domain.Device, error) {
	var out []domain.Device
	for _, source := range s.sources {
		if err := source.Check(ctx); err != nil {
			continue
		}
		devices, err := source.Devices(ctx)
		if err != nil {
			continue
		}
		out = append(out, devices...)
	}
	return out, nil
}

type Check struct {
	Backend string
	OK      bool
	Details string
}

func (s *CaptureService) Doctor(ctx context.Context) []Check {
	checks := make([]Check, 0, len(s.sources))
	for _, source := range s.sources {
		check := Check{Backend: source.Name(), OK: true, Details: "ready"}
		if err := source.Check(ctx); err != nil {
			check.OK = false
			check.Details = err.Error()
		}
		checks = append(checks, check)
	}
	return checks
}

func (s *CaptureService) lookup(name string) captureout.Source {
	for _, source := range s.sources {
		if source.Name() == name {
			return source
		}
	}
	return nil
}
