package service

import (
	"context"
	"time"

	relaygov "relay_governor"
	"relay_governor/internal/repository"
)

type MonitoringService struct {
	stateRepo repository.StateRepo
	relayCfg  RelayConfig
}

func NewMonitoringService(stateRepo repository.StateRepo, relayCfg RelayConfig) *MonitoringService {
	return &MonitoringService{stateRepo: stateRepo, relayCfg: relayCfg}
}

// GetState returns the latest persisted relay snapshot.
// If nothing is persisted yet, returns a baseline built from the startup
// configuration.
func (s *MonitoringService) GetState(ctx context.Context) (relaygov.RelaySnapshot, error) {
	state, err := s.stateRepo.Load(ctx)
	if err != nil {
		return relaygov.RelaySnapshot{}, err
	}
	if state.ID == 0 {
		return s.baselineState(), nil
	}
	state.UpdatedAt = toUTC(state.UpdatedAt)
	return state, nil
}

// baselineState is the snapshot before any switch attempt has been made.
func (s *MonitoringService) baselineState() relaygov.RelaySnapshot {
	return relaygov.RelaySnapshot{
		ID:        1, // DB schema enforces single-row state with id=1
		On:        s.relayCfg.InitialOn,
		MinOnMs:   int(s.relayCfg.MinimumOn / time.Millisecond),
		MinOffMs:  int(s.relayCfg.MinimumOff / time.Millisecond),
		UpdatedAt: time.Now().UTC(),
	}
}

// toUTC normalizes non-zero time to UTC, preserving zero values.
func toUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
