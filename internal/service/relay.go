package service

import (
	"context"
	"errors"
	"sync"
	"time"

	relaygov "relay_governor"
	"relay_governor/internal/bangbang"
	"relay_governor/internal/logger"
	"relay_governor/internal/repository"

	"github.com/google/uuid"
)

// Event types recorded in the relay log.
const (
	EventSwitchOn  = "SWITCH_ON"
	EventSwitchOff = "SWITCH_OFF"
	EventRejected  = "REJECTED"
	EventError     = "ERROR"
	EventTelemetry = "TELEMETRY"
)

// RelayConfig describes how the controller is built at startup. The
// controller always starts from this configuration; the persisted snapshot
// is observational and never restored.
type RelayConfig struct {
	InitialOn  bool
	MinimumOn  time.Duration  // 0 = unconstrained
	MinimumOff time.Duration  // 0 = unconstrained
	Now        bangbang.Clock // nil = wall clock
}

// RelayService owns the dwell-constrained controller. The controller
// itself is single-threaded by contract, so every transition attempt runs
// under the service mutex.
type RelayService struct {
	mu        sync.Mutex
	ctrl      *bangbang.TimedOnOff
	cfg       RelayConfig
	stateRepo repository.StateRepo
	eventRepo repository.EventRepo
	log       *logger.Logger

	switches   int
	rejections int
}

func NewRelayService(cfg RelayConfig, stateRepo repository.StateRepo, eventRepo repository.EventRepo, log *logger.Logger) *RelayService {
	s := &RelayService{
		cfg:       cfg,
		stateRepo: stateRepo,
		eventRepo: eventRepo,
		log:       log,
	}
	// Actuation handlers run inside the controller, before a transition
	// commits. Here the actuator is just the structured log; a real
	// deployment would drive GPIO/MQTT from these and may return an error
	// to veto the switch.
	handleOn := func() error {
		if log != nil {
			log.Infow("relay_energized")
		}
		return nil
	}
	handleOff := func() error {
		if log != nil {
			log.Infow("relay_released")
		}
		return nil
	}
	s.ctrl = bangbang.NewTimedOnOff(cfg.InitialOn, handleOn, handleOff, cfg.MinimumOn, cfg.MinimumOff, cfg.Now, log)
	return s
}

// IsOn reports the current relay position.
func (s *RelayService) IsOn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.IsOn()
}

// TurnOn requests a transition to the on state.
func (s *RelayService) TurnOn(ctx context.Context) error {
	return s.request(ctx, bangbang.StateB)
}

// TurnOff requests a transition to the off state.
func (s *RelayService) TurnOff(ctx context.Context) error {
	return s.request(ctx, bangbang.StateA)
}

// Toggle requests a transition to the opposite of the current state.
func (s *RelayService) Toggle(ctx context.Context) error {
	s.mu.Lock()
	target := s.ctrl.State().Opposite()
	s.mu.Unlock()
	return s.request(ctx, target)
}

// request performs one transition attempt and records the outcome. The
// controller error, if any, is returned to the caller unchanged.
func (s *RelayService) request(ctx context.Context, target bangbang.State) error {
	now := time.Now().UTC()

	s.mu.Lock()
	from := s.ctrl.State()
	err := s.ctrl.Set(target)
	switch {
	case err == nil:
		s.switches++
	default:
		var constrained *bangbang.ConstraintError
		if errors.As(err, &constrained) {
			s.rejections++
		}
	}
	snap := s.snapshotLocked(now)
	s.mu.Unlock()

	if err != nil {
		var constrained *bangbang.ConstraintError
		if errors.As(err, &constrained) {
			if aerr := s.appendEvent(ctx, now, EventRejected, "Switch rejected: dwell time not elapsed", map[string]any{
				"from": constrained.From.String(),
				"to":   constrained.To.String(),
				"code": constrained.Code,
			}); aerr != nil && s.log != nil {
				s.log.Errorw("relay_event_append_failed", "err", aerr)
			}
			if serr := s.stateRepo.Save(ctx, snap); serr != nil && s.log != nil {
				s.log.Errorw("relay_snapshot_save_failed", "err", serr)
			}
			return err
		}
		// actuation handler failure; relay stayed put
		if aerr := s.appendEvent(ctx, now, EventError, "Switch aborted by actuation handler", map[string]any{
			"target": target.String(),
			"reason": err.Error(),
		}); aerr != nil && s.log != nil {
			s.log.Errorw("relay_event_append_failed", "err", aerr)
		}
		return err
	}

	if serr := s.stateRepo.Save(ctx, snap); serr != nil {
		return serr
	}

	typ := EventSwitchOff
	desc := "Relay switched off"
	if target == bangbang.StateB {
		typ = EventSwitchOn
		desc = "Relay switched on"
	}
	return s.appendEvent(ctx, now, typ, desc, map[string]any{
		"from": from.String(),
		"to":   target.String(),
	})
}

// snapshotLocked builds the observability snapshot; callers hold s.mu.
func (s *RelayService) snapshotLocked(now time.Time) relaygov.RelaySnapshot {
	return relaygov.RelaySnapshot{
		ID:            1,
		On:            s.ctrl.IsOn(),
		MinOnMs:       int(s.cfg.MinimumOn / time.Millisecond),
		MinOffMs:      int(s.cfg.MinimumOff / time.Millisecond),
		SwitchCount:   s.switches,
		RejectedCount: s.rejections,
		UpdatedAt:     now,
	}
}

func (s *RelayService) appendEvent(ctx context.Context, now time.Time, typ, desc string, meta map[string]any) error {
	return s.eventRepo.Append(ctx, relaygov.RelayEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  now,
		Type:        typ,
		Description: desc,
		Metadata:    meta,
	})
}
