package bangbang

// Handler runs immediately before a transition to its associated state
// commits. Returning a non-nil error aborts the transition and leaves the
// machine unchanged; the error is propagated to the caller as-is.
type Handler func() error

// OnOff is an unconstrained two-state machine with an optional handler per
// target state. It is the underlying machine that TimedOnOff wraps; it can
// also be used on its own when no dwell limits are needed.
type OnOff struct {
	state     State
	handleOn  Handler
	handleOff Handler
}

// NewOnOff returns a machine starting in the given position. Handlers are
// not invoked for the initial state.
func NewOnOff(on bool, handleOn, handleOff Handler) *OnOff {
	state := StateA
	if on {
		state = StateB
	}
	return &OnOff{state: state, handleOn: handleOn, handleOff: handleOff}
}

// State returns the current position.
func (m *OnOff) State() State { return m.state }

func (m *OnOff) IsOn() bool  { return m.state == StateB }
func (m *OnOff) IsOff() bool { return m.state == StateA }

// Set transitions to target, running the target's handler first if one is
// registered. Requesting the current state is not special-cased: the
// handler still runs.
func (m *OnOff) Set(target State) error {
	handler := m.handleOff
	if target == StateB {
		handler = m.handleOn
	}
	if handler != nil {
		if err := handler(); err != nil {
			return err
		}
	}
	m.state = target
	return nil
}

// Bang toggles to the opposite of the current state.
func (m *OnOff) Bang() error {
	return m.Set(m.state.Opposite())
}
