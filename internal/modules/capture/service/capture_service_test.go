package service_test

import (
	"context"
	"errors"
	"testing"

	"soundcheck/internal/modules/capture/domain"
	captureout "soundcheck/internal/modules/capture/port/out"
	"soundcheck/internal/modules/capture/service"
	apperrors "soundcheck/internal/platform/errors"
)

type fakeStream struct {
	frame  []byte
	closed bool
}

func (s *fakeStream) Read(context.Context) ([]byte, error) {
	if s.closed {
		return nil, apperrors.ErrStreamClosed
	}
	return s.frame, nil
}

func (s *fakeStream) Close() error {
	s.closed = true
	return nil
}

type fakeSource struct {
	name     string
	checkErr error
	openErr  error
	stream   *fakeStream
	opened   int
}

func (s *fakeSource) Name() string                { return s.name }
func (s *fakeSource) Check(context.Context) error { return s.checkErr }
func (s *fakeSource) Devices(context.Context) ([]domain.Device, error) {
	return []domain.Device{{ID: "default", Label: s.name, Backend: s.name}}, nil
}
func (s *fakeSource) Open(context.Context, domain.Config) (captureout.Stream, error) {
	if s.openErr != nil {
		return nil, s.openErr
	}
	s.opened++
	return s.stream, nil
}

func testCfg(backend string) domain.Config {
	return domain.Config{Backend: backend, SampleRate: 8000, FrameSize: 64}
}

func TestOpenExplicitBackend(t *testing.T) {
	t.Parallel()
	wanted := &fakeSource{name: "synthetic", stream: &fakeStream{}}
	other := &fakeSource{name: "exec", stream: &fakeStream{}}
	svc := service.NewCaptureService(other, wanted)

	_, backend, err := svc.Open(context.Background(), testCfg("synthetic"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if backend != "synthetic" || wanted.opened != 1 || other.opened != 0 {
		t.Fatalf("explicit backend must bypass fallback order")
	}
}

func TestOpenAutoSkipsUnavailableSources(t *testing.T) {
	t.Parallel()
	broken := &fakeSource{name: "exec", checkErr: errors.New("no recorder")}
	working := &fakeSource{name: "synthetic", stream: &fakeStream{}}
	svc := service.NewCaptureService(broken, working)

	_, backend, err := svc.Open(context.Background(), testCfg(domain.BackendAuto))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if backend != "synthetic" {
		t.Fatalf("auto must fall through to the first healthy source, got %s", backend)
	}
}

func TestOpenAutoFailsWhenNothingAvailable(t *testing.T) {
	t.Parallel()
	svc := service.NewCaptureService(&fakeSource{name: "exec", checkErr: errors.New("no recorder")})
	if _, _, err := svc.Open(context.Background(), testCfg(domain.BackendAuto)); !errors.Is(err, apperrors.ErrCaptureUnavailable) {
		t.Fatalf("expected capture unavailable, got %v", err)
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	t.Parallel()
	svc := service.NewCaptureService(&fakeSource{name: "synthetic", stream: &fakeStream{}})
	if _, _, err := svc.Open(context.Background(), testCfg("pulse")); !errors.Is(err, domain.ErrUnknownBackend) {
		t.Fatalf("expected unknown backend, got %v", err)
	}
}

func TestDoctorReportsEverySource(t *testing.T) {
	t.Parallel()
	svc := service.NewCaptureService(
		&fakeSource{name: "exec", checkErr: errors.New("no recorder in PATH")},
		&fakeSource{name: "synthetic"},
	)
	checks := svc.Doctor(context.Background())
	if len(checks) != 2 {
		t.Fatalf("expected 2 checks, got %d", len(checks))
	}
	if checks[0].OK || checks[0].Backend != "exec" {
		t.Fatalf("broken source must report not ok: %+v", checks[0])
	}
	if !checks[1].OK || checks[1].Backend != "synthetic" {
		t.Fatalf("healthy source must report ok: %+v", checks[1])
	}
}
