package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"soundcheck/internal/platform/config"
)

func TestDefaultsWithoutConfigFile(t *testing.T) {
	t.Parallel()
	cfg, err := config.New(t.TempDir())
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.Capture.Backend != "auto" {
		t.Fatalf("expected auto backend, got %s", cfg.Capture.Backend)
	}
	if cfg.Capture.FrameSize != 2048 {
		t.Fatalf("expected frame size 2048, got %d", cfg.Capture.FrameSize)
	}
	if cfg.Session.Duration != 15*time.Second {
		t.Fatalf("expected 15s duration, got %s", cfg.Session.Duration)
	}
	if cfg.Session.HistoryInterval < cfg.Session.FrameInterval {
		t.Fatalf("history interval must be coarser than frame interval")
	}
}

func TestConfigFileOverrides(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	payload := "capture:\n  backend: synthetic\n  frame_size: 1024\nsession:\n  duration: 5s\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(payload), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := config.New(dir)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.Capture.Backend != "synthetic" || cfg.Capture.FrameSize != 1024 {
		t.Fatalf("capture overrides not applied: %+v", cfg.Capture)
	}
	if cfg.Session.Duration != 5*time.Second {
		t.Fatalf("expected 5s duration, got %s", cfg.Session.Duration)
	}
	// untouched keys keep defaults
	if cfg.Session.SmoothingWindow != 8 {
		t.Fatalf("expected default smoothing window, got %d", cfg.Session.SmoothingWindow)
	}
}

func TestInvalidConfigRejected(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	payload := "session:\n  frame_interval: 2s\n  history_interval: 1s\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(payload), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := config.New(dir); err == nil {
		t.Fatalf("expected validation error for history < frame interval")
	}
}
