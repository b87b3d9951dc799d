package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownBackend = errors.New("unknown capture backend")
	ErrNoDevice       = errors.New("no capture device")
)

const (
	BackendAuto      = "auto"
	BackendExec      = "exec"
	BackendPlugin    = "plugin"
	BackendSynthetic = "synthetic"
)

// Config describes one capture stream: frames of FrameSize unsigned 8-bit
// mono samples at SampleRate.
type Config struct {
	Backend    string
	Device     string
	SampleRate int
	FrameSize  int
}

func (c Config) Validate() error {
	switch c.Backend {
	case BackendAuto, BackendExec, BackendPlugin, BackendSynthetic:
	default:
		return fmt.Errorf("%w: %s", ErrUnknownBackend, c.Backend)
	}
	if c.SampleRate < 1 {
		return fmt.Errorf("sample rate must be positive")
	}
	if c.FrameSize < 1 {
		return fmt.Errorf("frame size must be positive")
	}
	return nil
}

type Device struct {
	ID      string
	Label   string
	Backend string
}
