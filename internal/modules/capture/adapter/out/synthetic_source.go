package out

import (
	"context"
	"math"
	"strconv"
	"strings"
	"sync"

	"soundcheck/internal/modules/capture/domain"
	captureout "soundcheck/internal/modules/capture/port/out"
	apperrors "soundcheck/internal/platform/errors"
)

const defaultToneHz = 440

// SyntheticSource generates deterministic frames without touching audio
// hardware. Devices: "sine", "sine:<hz>", "silence".
type SyntheticSource struct{}

func NewSyntheticSource() captureout.Source {
	return &SyntheticSource{}
}

func (s *SyntheticSource) Name() string {
	return domain.BackendSynthetic
}

func (s *SyntheticSource) Check(_ context.Context) error {
	return nil
}

func (s *SyntheticSource) Devices(_ context.Context) ([]domain.Device, error) {
	return []domain.Device{
		{ID: "sine", Label: "440 Hz test tone", Backend: domain.BackendSynthetic},
		{ID: "silence", Label: "Silence", Backend: domain.BackendSynthetic},
	}, nil
}

func (s *SyntheticSource) Open(_ context.Context, cfg domain.Config) (captureout.Stream, error) {
	freq := float64(defaultToneHz)
	silent := false
	switch {
	case cfg.Device == "" || cfg.Device == "sine":
	case cfg.Device == "silence":
		silent = true
	case strings.HasPrefix(cfg.Device, "sine:"):
		parsed, err := strconv.ParseFloat(strings.TrimPrefix(cfg.Device, "sine:"), 64)
		if err != nil || parsed <= 0 {
			return nil, domain.ErrNoDevice
		}
		freq = parsed
	default:
		return nil, domain.ErrNoDevice
	}
	return &syntheticStream{
		frameSize:  cfg.FrameSize,
		sampleRate: cfg.SampleRate,
		freq:       freq,
		silent:     silent,
	}, nil
}

type syntheticStream struct {
	mu         sync.Mutex
	frameSize  int
	sampleRate int
	freq       float64
	silent     bool
	phase      int
	closed     bool
}

func (s *syntheticStream) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, apperrors.ErrStreamClosed
	}
	frame := make([]byte, s.frameSize)
	if s.silent {
		for i := range frame {
			frame[i] = 128
		}
		return frame, nil
	}
	step := 2 * math.Pi * s.freq / float64(s.sampleRate)
	for i := range frame {
		frame[i] = byte(128 + 127*math.Sin(float64(s.phase+i)*step))
	}
	s.phase += s.frameSize
	return frame, nil
}

func (s *syntheticStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
