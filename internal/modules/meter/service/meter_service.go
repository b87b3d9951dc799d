package service

import (
	"time"

	"soundcheck/internal/modules/meter/domain"
	"soundcheck/internal/platform/clock"
	"soundcheck/internal/platform/id"
)

// MeterService builds sessions from the configured sampling policy and fixes
// completed sessions into measurement records.
type MeterService struct {
	clock clock.Clock
	idGen id.Generator
	cfg   domain.SessionConfig
}

func NewMeterService(clock clock.Clock, idGen id.Generator, cfg domain.SessionConfig) *MeterService {
	return &MeterService{clock: clock, idGen: idGen, cfg: cfg}
}

// StartSession arms a fresh session. A zero duration falls back to the
// configured measurement window.
func (s *MeterService) StartSession(duration time.Duration) *domain.Session {
	cfg := s.cfg
	if duration > 0 {
		cfg.Duration = duration
	}
	session := domain.NewSession(cfg)
	session.Start(s.clock.Now())
	return session
}

// Finalize stamps a completed session into an immutable measurement.
func (s *MeterService) Finalize(session *domain.Session) domain.Measurement {
	endedAt := s.clock.Now()
	return domain.Measurement{
		ID:          s.idGen.New(),
		StartedAt:   session.StartedAt(),
		EndedAt:     endedAt,
		Duration:    endedAt.Sub(session.StartedAt()),
		MaxLevel:    session.MaxLevel(),
		AvgLevel:    session.AvgLevel(),
		SampleCount: session.SampleCount(),
		Trend:       session.Trend(),
	}
}
