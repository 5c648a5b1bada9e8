package bangbang

import "fmt"

// ConstraintError reports a transition that was rejected because the
// minimum dwell time for the state being left has not yet elapsed. The
// attempt has no effect; retrying after enough time has passed will
// succeed.
type ConstraintError struct {
	From State
	To   State
	Code int // diagnostic code, reserved for future refinement
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("state change from %s to %s temporarily constrained (code %d)", e.From, e.To, e.Code)
}
