package domain_test

import (
	"testing"
	"time"

	"soundcheck/internal/modules/meter/domain"
)

func testConfig() domain.SessionConfig {
	return domain.SessionConfig{
		Duration:        2 * time.Second,
		DisplayInterval: 200 * time.Millisecond,
		HistoryInterval: 500 * time.Millisecond,
		SmoothingWindow: 8,
	}
}

func loudFrame() []byte {
	frame := make([]byte, 64)
	for i := range frame {
		if i%2 == 0 {
			frame[i] = 28
		} else {
			frame[i] = 228
		}
	}
	return frame
}

func TestSessionPhases(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := domain.NewSession(testConfig())

	if s.Phase() != domain.PhaseIdle {
		t.Fatalf("new session must be idle")
	}
	if got := s.Observe(loudFrame(), start); got != domain.PhaseIdle {
		t.Fatalf("observing while idle must not start the session, got %s", got)
	}
	if s.SampleCount() != 0 {
		t.Fatalf("idle observe must not record samples")
	}

	s.Start(start)
	if s.Phase() != domain.PhaseRunning {
		t.Fatalf("start must transition to running")
	}

	now := start
	for s.Phase() == domain.PhaseRunning {
		now = now.Add(50 * time.Millisecond)
		s.Observe(loudFrame(), now)
	}
	if s.Phase() != domain.PhaseComplete {
		t.Fatalf("session must complete when the window elapses")
	}
	if s.Remaining(now) != 0 {
		t.Fatalf("remaining must be 0 after completion, got %s", s.Remaining(now))
	}
	if s.MaxLevel() <= 0 || s.AvgLevel() <= 0 {
		t.Fatalf("final stats must be derived from observed frames")
	}
	if s.AvgLevel() > s.MaxLevel() {
		t.Fatalf("avg %f must not exceed max %f", s.AvgLevel(), s.MaxLevel())
	}

	// A frame after completion changes nothing.
	count := s.SampleCount()
	s.Observe(loudFrame(), now.Add(time.Second))
	if s.SampleCount() != count {
		t.Fatalf("complete session must ignore frames")
	}
}

func TestRestartResetsDerivedState(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := domain.NewSession(testConfig())
	s.Start(start)
	now := start
	for s.Phase() == domain.PhaseRunning {
		now = now.Add(50 * time.Millisecond)
		s.Observe(loudFrame(), now)
	}

	s.Start(now)
	if s.Phase() != domain.PhaseRunning {
		t.Fatalf("restart must re-enter running")
	}
	if s.SampleCount() != 0 || s.MaxLevel() != 0 || s.AvgLevel() != 0 {
		t.Fatalf("restart must reset statistics before the first sample")
	}
	if len(s.Trend()) != 0 {
		t.Fatalf("restart must clear history")
	}
	if s.Display() != 0 || s.Current() != 0 {
		t.Fatalf("restart must clear displayed values")
	}
}

func TestDisplayThrottleDecoupledFromFrameRate(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := domain.NewSession(testConfig())
	s.Start(start)

	// First frame seeds the display immediately.
	s.Observe(loudFrame(), start)
	seeded := s.Display()
	if seeded <= 0 {
		t.Fatalf("first frame must seed the display value")
	}

	// Louder frames inside the throttle interval must not move the display.
	hot := make([]byte, 64)
	for i := range hot {
		if i%2 == 0 {
			hot[i] = 0
		} else {
			hot[i] = 255
		}
	}
	s.Observe(hot, start.Add(50*time.Millisecond))
	s.Observe(hot, start.Add(100*time.Millisecond))
	if s.Display() != seeded {
		t.Fatalf("display must hold between throttle ticks")
	}

	// Past the interval the display catches up to the window mean.
	s.Observe(hot, start.Add(250*time.Millisecond))
	if s.Display() <= seeded {
		t.Fatalf("display must update at the throttle cadence")
	}
}

func TestHistoryLengthBoundedByDuration(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := domain.NewSession(cfg)
	s.Start(start)
	now := start
	for s.Phase() == domain.PhaseRunning {
		now = now.Add(33 * time.Millisecond)
		s.Observe(loudFrame(), now)
	}
	trend := s.Trend()
	if len(trend) == 0 {
		t.Fatalf("a full session must record history points")
	}
	budget := cfg.Duration + cfg.HistoryInterval
	if time.Duration(len(trend))*cfg.HistoryInterval > budget {
		t.Fatalf("history too dense: %d points at %s for %s window", len(trend), cfg.HistoryInterval, cfg.Duration)
	}
	for i := 1; i < len(trend); i++ {
		if trend[i].Offset <= trend[i-1].Offset {
			t.Fatalf("history offsets must be strictly increasing")
		}
	}
}
