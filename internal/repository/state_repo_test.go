package repository_test

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	relaygov "relay_governor"
	"relay_governor/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
)

// sqlmockArgumentFunc adapts a predicate to sqlmock.Argument.
type sqlmockArgumentFunc func(driver.Value) bool

func (f sqlmockArgumentFunc) Match(v driver.Value) bool { return f(v) }

// isRecentUTC matches a time.Time in UTC within a small window around now.
var isRecentUTC = sqlmockArgumentFunc(func(v driver.Value) bool {
	tm, ok := v.(time.Time)
	if !ok {
		return false
	}
	if tm.Location() != time.UTC {
		return false
	}
	now := time.Now().UTC()
	return !tm.Before(now.Add(-5*time.Second)) && !tm.After(now.Add(5*time.Second))
})

func TestStateSQLite_Save_SetsUTCNowWhenTimeZero(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewStateSQLite(db)

	snap := relaygov.RelaySnapshot{
		On:            true,
		MinOnMs:       5000,
		MinOffMs:      10000,
		SwitchCount:   3,
		RejectedCount: 1,
		// UpdatedAt is zero
	}

	mock.ExpectExec("INSERT INTO relay_state").
		WithArgs(1, true, 5000, 10000, 3, 1, isRecentUTC).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Save(context.Background(), snap); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStateSQLite_Save_NormalizesProvidedTimeToUTC(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewStateSQLite(db)

	loc := time.FixedZone("UTC+2", 2*3600)
	provided := time.Date(2026, 8, 23, 14, 30, 0, 0, loc)

	isProvidedUTC := sqlmockArgumentFunc(func(v driver.Value) bool {
		tm, ok := v.(time.Time)
		return ok && tm.Location() == time.UTC && tm.Equal(provided)
	})

	mock.ExpectExec("INSERT INTO relay_state").
		WithArgs(1, false, 0, 0, 0, 0, isProvidedUTC).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Save(context.Background(), relaygov.RelaySnapshot{UpdatedAt: provided}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStateSQLite_Load_ReturnsRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewStateSQLite(db)

	updated := time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "relay_on", "min_on_ms", "min_off_ms", "switches", "rejections", "updated_at"}).
		AddRow(1, true, 5000, 10000, 7, 2, updated)

	mock.ExpectQuery("SELECT id, relay_on, min_on_ms, min_off_ms, switches, rejections, updated_at").
		WithArgs(1).
		WillReturnRows(rows)

	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := relaygov.RelaySnapshot{
		ID: 1, On: true, MinOnMs: 5000, MinOffMs: 10000,
		SwitchCount: 7, RejectedCount: 2, UpdatedAt: updated,
	}
	if got != want {
		t.Fatalf("Load = %+v, want %+v", got, want)
	}
}

func TestStateSQLite_Load_NoRowsReturnsZeroSnapshot(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewStateSQLite(db)

	mock.ExpectQuery("SELECT id, relay_on, min_on_ms, min_off_ms, switches, rejections, updated_at").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "relay_on", "min_on_ms", "min_off_ms", "switches", "rejections", "updated_at"}))

	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != (relaygov.RelaySnapshot{}) {
		t.Fatalf("expected zero snapshot, got %+v", got)
	}
}
