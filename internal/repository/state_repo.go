package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	relaygov "relay_governor"
)

type StateSQLite struct {
	db *sql.DB
}

func NewStateSQLite(db *sql.DB) *StateSQLite {
	return &StateSQLite{db: db}
}

const (
	relayStateRowID = 1

	insertOrUpdateStateSQL = `
		INSERT INTO relay_state (id, relay_on, min_on_ms, min_off_ms, switches, rejections, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			relay_on=excluded.relay_on,
			min_on_ms=excluded.min_on_ms,
			min_off_ms=excluded.min_off_ms,
			switches=excluded.switches,
			rejections=excluded.rejections,
			updated_at=excluded.updated_at
	`

	selectStateSQL = `
		SELECT id, relay_on, min_on_ms, min_off_ms, switches, rejections, updated_at
		FROM relay_state WHERE id=?
	`
)

// Save updates or inserts the relay_state row (id always 1).
func (r *StateSQLite) Save(ctx context.Context, s relaygov.RelaySnapshot) error {
	// UpdatedAt is always persisted as UTC; set if zero
	tsUTC := s.UpdatedAt
	if tsUTC.IsZero() {
		tsUTC = time.Now().UTC()
	} else {
		tsUTC = tsUTC.UTC()
	}

	_, err := r.db.ExecContext(ctx, insertOrUpdateStateSQL,
		relayStateRowID,
		s.On,
		s.MinOnMs,
		s.MinOffMs,
		s.SwitchCount,
		s.RejectedCount,
		tsUTC,
	)
	return err
}

// Load fetches the single relay_state row (id=1).
func (r *StateSQLite) Load(ctx context.Context) (relaygov.RelaySnapshot, error) {
	row := r.db.QueryRowContext(ctx, selectStateSQL, relayStateRowID)

	var s relaygov.RelaySnapshot
	if err := row.Scan(
		&s.ID,
		&s.On,
		&s.MinOnMs,
		&s.MinOffMs,
		&s.SwitchCount,
		&s.RejectedCount,
		&s.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return relaygov.RelaySnapshot{}, nil // no snapshot yet
		}
		return relaygov.RelaySnapshot{}, err
	}

	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, nil
}
