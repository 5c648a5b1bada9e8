package relay_governor

import "time"

// RelaySnapshot is the last observed position of the relay plus the dwell
// configuration it runs under. A single row (id=1) is kept for monitoring;
// the controller itself never reads it back.
type RelaySnapshot struct {
	ID            int       `json:"id"`
	On            bool      `json:"on"`
	MinOnMs       int       `json:"min_on_ms,omitempty"`  // minimum dwell in the on state, 0 = unconstrained
	MinOffMs      int       `json:"min_off_ms,omitempty"` // minimum dwell in the off state, 0 = unconstrained
	SwitchCount   int       `json:"switch_count"`
	RejectedCount int       `json:"rejected_count"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// RelayEvent is a single log entry.
type RelayEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // SWITCH_ON | SWITCH_OFF | REJECTED | ERROR | TELEMETRY
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}

type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // don't expose hash
}
