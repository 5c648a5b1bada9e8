package bangbang

import (
	"time"

	"relay_governor/internal/logger"
)

// Clock returns the current time as an unsigned millisecond counter. The
// counter may wrap around (a 32-bit width allows ~49.7 days of continuous
// range) or be reset externally; TimedOnOff tolerates both.
type Clock func() uint32

// TimedOnOff wraps OnOff and additionally rejects transitions that would
// leave a state before its configured minimum dwell time has passed.
//
// It performs no locking and no timing of its own: callers sharing a
// controller across goroutines must serialize access, and constraints are
// re-evaluated only when a transition is requested.
type TimedOnOff struct {
	machine     *OnOff
	minimumOn   time.Duration
	minimumOff  time.Duration
	lastChanged uint32
	now         Clock
	log         *logger.Logger
}

// wallClock is the default Clock: wall time truncated to a wrapping
// 32-bit millisecond counter.
func wallClock() uint32 {
	return uint32(time.Now().UnixMilli())
}

// NewTimedOnOff builds a controller starting in the given position.
//
// A minimum of zero (or below) leaves that state unconstrained. Handlers
// are not invoked for the initial state. The clock is sampled once here to
// seed the last-changed stamp; a nil clock falls back to the wall clock.
// The logger may be nil.
func NewTimedOnOff(on bool, handleOn, handleOff Handler, minimumOn, minimumOff time.Duration, now Clock, log *logger.Logger) *TimedOnOff {
	if now == nil {
		now = wallClock
	}
	t := &TimedOnOff{
		machine:     NewOnOff(on, handleOn, handleOff),
		minimumOn:   minimumOn,
		minimumOff:  minimumOff,
		lastChanged: now(),
		now:         now,
		log:         log,
	}
	if log != nil {
		log.Debugw("timed_on_off_created",
			"state", t.State().String(),
			"minimum_on", minimumOn, "minimum_off", minimumOff,
			"last_changed_ms", t.lastChanged)
	}
	return t
}

// State returns the current position.
func (t *TimedOnOff) State() State { return t.machine.State() }

func (t *TimedOnOff) IsOn() bool  { return t.machine.IsOn() }
func (t *TimedOnOff) IsOff() bool { return t.machine.IsOff() }

// Set requests a transition to target.
//
// The minimum dwell of the state being left governs the attempt: if it has
// not fully elapsed (equality satisfies the constraint) the request fails
// with *ConstraintError and nothing changes: no handler runs and the
// last-changed stamp keeps its value. Otherwise the underlying machine
// takes over; a handler failure propagates verbatim, again with no local
// mutation. On success the clock is sampled a second time for the new
// last-changed stamp, so time spent inside the handler counts against the
// next dwell period instead of being absorbed.
func (t *TimedOnOff) Set(target State) error {
	current := t.machine.State()
	delta := assessDelta(t.log, t.lastChanged, t.now())

	var minimum time.Duration
	switch current {
	case StateA:
		minimum = t.minimumOff
	case StateB:
		minimum = t.minimumOn
	}
	if minimum > time.Duration(delta)*time.Millisecond {
		return &ConstraintError{From: current, To: target}
	}

	if err := t.machine.Set(target); err != nil {
		return err
	}
	t.lastChanged = t.now()

	return nil
}

// Bang toggles to the opposite of the current state, subject to the same
// dwell constraints as Set.
func (t *TimedOnOff) Bang() error {
	return t.Set(t.machine.State().Opposite())
}
