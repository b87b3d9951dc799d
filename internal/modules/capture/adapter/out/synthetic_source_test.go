package out_test

import (
	"context"
	"errors"
	"testing"

	captureout "soundcheck/internal/modules/capture/adapter/out"
	"soundcheck/internal/modules/capture/domain"
	apperrors "soundcheck/internal/platform/errors"
)

func TestSyntheticSilenceIsCentered(t *testing.T) {
	t.Parallel()
	source := captureout.NewSyntheticSource()
	stream, err := source.Open(context.Background(), domain.Config{
		Backend: domain.BackendSynthetic, Device: "silence", SampleRate: 8000, FrameSize: 128,
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer stream.Close()
	frame, err := stream.Read(context.Background())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	for i, b := range frame {
		if b != 128 {
			t.Fatalf("silence sample %d is %d, want 128", i, b)
		}
	}
}

func TestSyntheticSineIsDeterministicAndContinuous(t *testing.T) {
	t.Parallel()
	source := captureout.NewSyntheticSource()
	open := func() ([]byte, []byte) {
		stream, err := source.Open(context.Background(), domain.Config{
			Backend: domain.BackendSynthetic, Device: "sine:440", SampleRate: 8000, FrameSize: 64,
		})
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		defer stream.Close()
		first, err := stream.Read(context.Background())
		if err != nil {
			t.Fatalf("first read: %v", err)
		}
		second, err := stream.Read(context.Background())
		if err != nil {
			t.Fatalf("second read: %v", err)
		}
		return first, second
	}

	a1, a2 := open()
	b1, b2 := open()
	if string(a1) != string(b1) || string(a2) != string(b2) {
		t.Fatalf("synthetic streams must be deterministic")
	}
	if string(a1) == string(a2) {
		t.Fatalf("consecutive frames must advance the phase")
	}
}

func TestSyntheticUnknownDevice(t *testing.T) {
	t.Parallel()
	source := captureout.NewSyntheticSource()
	if _, err := source.Open(context.Background(), domain.Config{
		Backend: domain.BackendSynthetic, Device: "microphone-7", SampleRate: 8000, FrameSize: 64,
	}); !errors.Is(err, domain.ErrNoDevice) {
		t.Fatalf("expected no device error, got %v", err)
	}
}

func TestSyntheticReadAfterClose(t *testing.T) {
	t.Parallel()
	source := captureout.NewSyntheticSource()
	stream, err := source.Open(context.Background(), domain.Config{
		Backend: domain.BackendSynthetic, SampleRate: 8000, FrameSize: 64,
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := stream.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := stream.Read(context.Background()); !errors.Is(err, apperrors.ErrStreamClosed) {
		t.Fatalf("expected stream closed, got %v", err)
	}
}
