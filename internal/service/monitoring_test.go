package service

import (
	"context"
	"errors"
	"testing"
	"time"

	relaygov "relay_governor"
)

func TestMonitoringService_GetState_ReturnsPersistedSnapshotInUTC(t *testing.T) {
	loc := time.FixedZone("UTC-4", -4*3600)
	srepo := &fakeStateRepo{
		loadResp: relaygov.RelaySnapshot{
			ID:        1,
			On:        true,
			UpdatedAt: time.Date(2026, 8, 23, 9, 0, 0, 0, loc),
		},
	}
	s := NewMonitoringService(srepo, RelayConfig{})

	got, err := s.GetState(context.Background())
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if !got.On {
		t.Fatalf("unexpected snapshot: %+v", got)
	}
	if got.UpdatedAt.Location() != time.UTC {
		t.Fatalf("UpdatedAt not normalized to UTC: %v", got.UpdatedAt)
	}
}

func TestMonitoringService_GetState_BaselineWhenEmpty(t *testing.T) {
	srepo := &fakeStateRepo{} // Load returns zero snapshot
	s := NewMonitoringService(srepo, RelayConfig{
		InitialOn:  true,
		MinimumOn:  5 * time.Second,
		MinimumOff: 10 * time.Second,
	})

	got, err := s.GetState(context.Background())
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if got.ID != 1 {
		t.Fatalf("baseline must use row id 1, got %d", got.ID)
	}
	if !got.On || got.MinOnMs != 5000 || got.MinOffMs != 10000 {
		t.Fatalf("baseline does not reflect startup config: %+v", got)
	}
	if got.SwitchCount != 0 || got.RejectedCount != 0 {
		t.Fatalf("baseline counters must be zero: %+v", got)
	}
}

func TestMonitoringService_GetState_PropagatesLoadError(t *testing.T) {
	srepo := &fakeStateRepo{loadErr: errors.New("db down")}
	s := NewMonitoringService(srepo, RelayConfig{})

	if _, err := s.GetState(context.Background()); err == nil {
		t.Fatalf("expected load error to propagate")
	}
}
