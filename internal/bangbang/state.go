package bangbang

// State is one of the two logical positions of a bang-bang controller.
// StateA is "off" and StateB is "on", but callers are free to attach any
// binary meaning to the pair.
type State int

const (
	StateA State = iota // off
	StateB              // on
)

// Opposite returns the other state.
func (s State) Opposite() State {
	if s == StateA {
		return StateB
	}
	return StateA
}

func (s State) String() string {
	if s == StateB {
		return "on"
	}
	return "off"
}
