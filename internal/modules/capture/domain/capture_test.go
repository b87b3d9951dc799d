package domain_test

import (
	"errors"
	"testing"

	"soundcheck/internal/modules/capture/domain"
)

func TestConfigValidate(t *testing.T) {
	t.Parallel()
	base := domain.Config{Backend: domain.BackendSynthetic, SampleRate: 8000, FrameSize: 2048}
	if err := base.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	bad := base
	bad.Backend = "pulse"
	if err := bad.Validate(); !errors.Is(err, domain.ErrUnknownBackend) {
		t.Fatalf("expected unknown backend error, got %v", err)
	}

	bad = base
	bad.SampleRate = 0
	if err := bad.Validate(); err == nil {
		t.Fatalf("zero sample rate must be rejected")
	}

	bad = base
	bad.FrameSize = 0
	if err := bad.Validate(); err == nil {
		t.Fatalf("zero frame size must be rejected")
	}
}
