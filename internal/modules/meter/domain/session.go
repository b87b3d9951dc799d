package domain

import "time"

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhaseComplete:
		return "complete"
	default:
		return "idle"
	}
}

type SessionConfig struct {
	Duration        time.Duration
	DisplayInterval time.Duration
	HistoryInterval time.Duration
	SmoothingWindow int
}

// Session is the measurement state machine: Idle -> Running -> Complete.
// Every derived statistic lives here; Start resets all of it atomically.
type Session struct {
	cfg       SessionConfig
	phase     Phase
	startedAt time.Time

	agg      Aggregate
	window   *Window
	recorder *Recorder
	current  float64

	display       float64
	nextDisplayAt time.Time
}

func NewSession(cfg SessionConfig) *Session {
	return &Session{
		cfg:      cfg,
		phase:    PhaseIdle,
		window:   NewWindow(cfg.SmoothingWindow),
		recorder: NewRecorder(cfg.HistoryInterval),
	}
}

// Start arms the session. Re-entering from Complete is a fresh start: max,
// average, history and the displayed value are all reset before the first
// sample arrives.
func (s *Session) Start(now time.Time) {
	s.phase = PhaseRunning
	s.startedAt = now
	s.agg = Aggregate{}
	s.window = NewWindow(s.cfg.SmoothingWindow)
	s.recorder.Reset(now)
	s.current = 0
	s.display = 0
	s.nextDisplayAt = now
}

// Observe ingests one frame: it feeds the full-session aggregate, the
// smoothing window, the throttled display value and the history recorder,
// then recomputes remaining time. It returns the phase after the frame, so
// the caller sees the Running -> Complete edge.
func (s *Session) Observe(frame []byte, now time.Time) Phase {
	if s.phase != PhaseRunning {
		return s.phase
	}
	v := Loudness(frame)
	s.current = v
	s.agg.Observe(v)
	s.window.Push(v)
	if !now.Before(s.nextDisplayAt) {
		s.display = s.window.Mean()
		s.nextDisplayAt = now.Add(s.cfg.DisplayInterval)
	}
	s.recorder.Observe(v, now)
	if s.Remaining(now) <= 0 {
		s.phase = PhaseComplete
	}
	return s.phase
}

func (s *Session) Phase() Phase {
	return s.phase
}

func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

func (s *Session) Elapsed(now time.Time) time.Duration {
	if s.phase == PhaseIdle {
		return 0
	}
	elapsed := now.Sub(s.startedAt)
	if elapsed > s.cfg.Duration {
		return s.cfg.Duration
	}
	return elapsed
}

func (s *Session) Remaining(now time.Time) time.Duration {
	remaining := s.cfg.Duration - now.Sub(s.startedAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Current is the loudness of the last frame; Display is the throttled
// smoothed value shown to the user.
func (s *Session) Current() float64 { return s.current }
func (s *Session) Display() float64 { return s.display }
func (s *Session) MaxLevel() float64 {
	return s.agg.Max
}

func (s *Session) AvgLevel() float64 {
	return s.agg.Mean()
}

func (s *Session) SampleCount() int {
	return s.agg.Count
}

func (s *Session) Trend() []TrendPoint {
	return s.recorder.Points()
}
