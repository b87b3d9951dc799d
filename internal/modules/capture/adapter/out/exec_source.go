package out

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"

	"soundcheck/internal/modules/capture/domain"
	captureout "soundcheck/internal/modules/capture/port/out"
	apperrors "soundcheck/internal/platform/errors"
)

// ExecSource shells out to arecord (preferred) or ffmpeg and reads raw
// unsigned 8-bit mono samples from its stdout.
type ExecSource struct {
	lookPath func(string) (string, error)
}

func NewExecSource() captureout.Source {
	return &ExecSource{lookPath: exec.LookPath}
}

func (s *ExecSource) Name() string {
	return domain.BackendExec
}

func (s *ExecSource) Check(_ context.Context) error {
	if _, err := s.lookPath("arecord"); err == nil {
		return nil
	}
	if _, err := s.lookPath("ffmpeg"); err == nil {
		return nil
	}
	return fmt.Errorf("%w: neither arecord nor ffmpeg found in PATH", apperrors.ErrCaptureUnavailable)
}

func (s *ExecSource) Devices(_ context.Context) ([]domain.Device, error) {
	return []domain.Device{
		{ID: "default", Label: "System default input", Backend: domain.BackendExec},
	}, nil
}

func (s *ExecSource) Open(_ context.Context, cfg domain.Config) (captureout.Stream, error) {
	argv, err := s.recordArgv(cfg)
	if err != nil {
		return nil, err
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("capture stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: start %s: %v", apperrors.ErrCaptureUnavailable, argv[0], err)
	}
	return &execStream{cmd: cmd, stdout: stdout, frameSize: cfg.FrameSize}, nil
}

func (s *ExecSource) recordArgv(cfg domain.Config) ([]string, error) {
	device := cfg.Device
	if device == "" {
		device = "default"
	}
	if _, err := s.lookPath("arecord"); err == nil {
		return []string{
			"arecord", "-q",
			"-D", device,
			"-f", "U8",
			"-c", "1",
			"-r", strconv.Itoa(cfg.SampleRate),
			"-t", "raw",
		}, nil
	}
	if _, err := s.lookPath("ffmpeg"); err == nil {
		return []string{
			"ffmpeg", "-hide_banner", "-loglevel", "error",
			"-f", "alsa", "-i", device,
			"-ac", "1",
			"-ar", strconv.Itoa(cfg.SampleRate),
			"-f", "u8", "-",
		}, nil
	}
	return nil, fmt.Errorf("%w: neither arecord nor ffmpeg found in PATH", apperrors.ErrCaptureUnavailable)
}

type execStream struct {
	cmd       *exec.Cmd
	stdout    io.ReadCloser
	frameSize int
	closed    bool
}

func (s *execStream) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.closed {
		return nil, apperrors.ErrStreamClosed
	}
	frame := make([]byte, s.frameSize)
	if _, err := io.ReadFull(s.stdout, frame); err != nil {
		return nil, fmt.Errorf("read capture process: %w", err)
	}
	return frame, nil
}

func (s *execStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	_ = s.stdout.Close()
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	_ = s.cmd.Wait()
	return nil
}
