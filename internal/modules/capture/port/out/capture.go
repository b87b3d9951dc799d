package out

import (
	"context"

	"soundcheck/internal/modules/capture/domain"
)

// Stream delivers frames of unsigned 8-bit mono samples until closed.
type Stream interface {
	Read(ctx context.Context) ([]byte, error)
	Close() error
}

// Source is one capture backend (subprocess, plugin, synthetic).
type Source interface {
	Name() string
	Check(ctx context.Context) error
	Devices(ctx context.Context) ([]domain.Device, error)
	Open(ctx context.Context, cfg domain.Config) (Stream, error)
}
