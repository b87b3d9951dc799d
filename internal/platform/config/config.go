package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type CaptureConfig struct {
	// Backend is one of auto|exec|plugin|synthetic.
	Backend    string `yaml:"backend"`
	Device     string `yaml:"device"`
	SampleRate int    `yaml:"sample_rate"`
	FrameSize  int    `yaml:"frame_size"`
}

type SessionConfig struct {
	Duration        time.Duration `yaml:"duration"`
	FrameInterval   time.Duration `yaml:"frame_interval"`
	DisplayInterval time.Duration `yaml:"display_interval"`
	HistoryInterval time.Duration `yaml:"history_interval"`
	SmoothingWindow int           `yaml:"smoothing_window"`
}

type GraphConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type Config struct {
	DataDir string        `yaml:"-"`
	DBPath  string        `yaml:"-"`
	Capture CaptureConfig `yaml:"capture"`
	Session SessionConfig `yaml:"session"`
	Graph   GraphConfig   `yaml:"graph"`
}

// New resolves the data dir and applies config.yaml overrides when present.
func New(dataDir string) (Config, error) {
	if dataDir == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	cfg := Config{
		DataDir: dataDir,
		DBPath:  filepath.Join(dataDir, ".soundcheck", "soundcheck.db"),
		Capture: CaptureConfig{
			Backend:    "auto",
			SampleRate: 8000,
			FrameSize:  2048,
		},
		Session: SessionConfig{
			Duration:        15 * time.Second,
			FrameInterval:   33 * time.Millisecond,
			DisplayInterval: 200 * time.Millisecond,
			HistoryInterval: time.Second,
			SmoothingWindow: 8,
		},
		Graph: GraphConfig{Width: 640, Height: 160},
	}

	raw, err := os.ReadFile(filepath.Join(dataDir, "config.yaml"))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.Capture.FrameSize < 1 {
		return fmt.Errorf("capture frame_size must be positive")
	}
	if c.Capture.SampleRate < 1 {
		return fmt.Errorf("capture sample_rate must be positive")
	}
	if c.Session.Duration <= 0 {
		return fmt.Errorf("session duration must be positive")
	}
	if c.Session.FrameInterval <= 0 {
		return fmt.Errorf("session frame_interval must be positive")
	}
	if c.Session.HistoryInterval < c.Session.FrameInterval {
		return fmt.Errorf("history_interval must not be shorter than frame_interval")
	}
	if c.Session.SmoothingWindow < 1 {
		return fmt.Errorf("smoothing_window must be positive")
	}
	if c.Graph.Width < 2 || c.Graph.Height < 2 {
		return fmt.Errorf("graph dimensions must be at least 2x2")
	}
	return nil
}
