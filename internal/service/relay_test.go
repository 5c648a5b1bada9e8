package service

import (
	"context"
	"errors"
	"testing"
	"time"

	relaygov "relay_governor"
	"relay_governor/internal/bangbang"
)

type fakeStateRepo struct {
	loadResp   relaygov.RelaySnapshot
	loadErr    error
	saveErr    error
	savedCalls []relaygov.RelaySnapshot
}

func (f *fakeStateRepo) Load(ctx context.Context) (relaygov.RelaySnapshot, error) {
	return f.loadResp, f.loadErr
}
func (f *fakeStateRepo) Save(ctx context.Context, s relaygov.RelaySnapshot) error {
	f.savedCalls = append(f.savedCalls, s)
	return f.saveErr
}

type fakeEventRepo struct {
	appendErr error
	events    []relaygov.RelayEvent
	listErr   error
}

func (f *fakeEventRepo) Append(ctx context.Context, e relaygov.RelayEvent) error {
	f.events = append(f.events, e)
	return f.appendErr
}
func (f *fakeEventRepo) List(ctx context.Context, from, to time.Time, typ string) ([]relaygov.RelayEvent, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []relaygov.RelayEvent
	for _, e := range f.events {
		if !e.OccurredAt.Before(from) && !e.OccurredAt.After(to) {
			if typ == "" || e.Type == typ {
				out = append(out, e)
			}
		}
	}
	return out, nil
}

func lastSavedSnapshot(t *testing.T, f *fakeStateRepo) relaygov.RelaySnapshot {
	t.Helper()
	if len(f.savedCalls) == 0 {
		t.Fatalf("expected at least one Save call")
	}
	return f.savedCalls[len(f.savedCalls)-1]
}

// settable millisecond counter for deterministic dwell checks
type testClock struct {
	ms uint32
}

func (c *testClock) now() uint32 { return c.ms }

func newTestRelay(t *testing.T, cfg RelayConfig, srepo *fakeStateRepo, erepo *fakeEventRepo) *RelayService {
	t.Helper()
	return NewRelayService(cfg, srepo, erepo, nil)
}

func TestRelayService_TurnOn_PersistsSnapshotAndAppendsEvent(t *testing.T) {
	srepo := &fakeStateRepo{}
	erepo := &fakeEventRepo{}
	clock := &testClock{}
	s := newTestRelay(t, RelayConfig{
		InitialOn:  false,
		MinimumOn:  5 * time.Second,
		MinimumOff: 0,
		Now:        clock.now,
	}, srepo, erepo)

	if err := s.TurnOn(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.IsOn() {
		t.Fatalf("expected relay on")
	}

	snap := lastSavedSnapshot(t, srepo)
	if !snap.On || snap.SwitchCount != 1 || snap.RejectedCount != 0 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if snap.ID != 1 {
		t.Fatalf("expected snapshot row id 1, got %d", snap.ID)
	}
	if snap.MinOnMs != 5000 || snap.MinOffMs != 0 {
		t.Fatalf("dwell config not reflected: %+v", snap)
	}

	if len(erepo.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(erepo.events))
	}
	ev := erepo.events[0]
	if ev.Type != EventSwitchOn {
		t.Fatalf("expected %s event, got %s", EventSwitchOn, ev.Type)
	}
	if ev.EventID == "" {
		t.Fatalf("expected non-empty EventID")
	}
}

func TestRelayService_DwellRejection_RecordsAndReturnsConstraintError(t *testing.T) {
	srepo := &fakeStateRepo{}
	erepo := &fakeEventRepo{}
	clock := &testClock{}
	s := newTestRelay(t, RelayConfig{
		InitialOn:  true,
		MinimumOn:  time.Second,
		MinimumOff: 0,
		Now:        clock.now,
	}, srepo, erepo)

	err := s.TurnOff(context.Background())
	var constrained *bangbang.ConstraintError
	if !errors.As(err, &constrained) {
		t.Fatalf("expected *bangbang.ConstraintError, got %v", err)
	}
	if !s.IsOn() {
		t.Fatalf("rejected switch changed the relay position")
	}

	snap := lastSavedSnapshot(t, srepo)
	if snap.RejectedCount != 1 || snap.SwitchCount != 0 || !snap.On {
		t.Fatalf("unexpected snapshot after rejection: %+v", snap)
	}

	if len(erepo.events) != 1 || erepo.events[0].Type != EventRejected {
		t.Fatalf("expected one REJECTED event, got %+v", erepo.events)
	}

	// enough dwell time later the same request succeeds
	clock.ms += 1000
	if err := s.TurnOff(context.Background()); err != nil {
		t.Fatalf("expected success after dwell elapsed: %v", err)
	}
	if s.IsOn() {
		t.Fatalf("expected relay off")
	}
}

func TestRelayService_Toggle_Alternates(t *testing.T) {
	srepo := &fakeStateRepo{}
	erepo := &fakeEventRepo{}
	clock := &testClock{}
	s := newTestRelay(t, RelayConfig{InitialOn: false, Now: clock.now}, srepo, erepo)

	wantOn := true
	for i := 0; i < 4; i++ {
		if err := s.Toggle(context.Background()); err != nil {
			t.Fatalf("toggle %d: %v", i, err)
		}
		if s.IsOn() != wantOn {
			t.Fatalf("toggle %d: IsOn=%v, want %v", i, s.IsOn(), wantOn)
		}
		wantOn = !wantOn
	}

	// alternating SWITCH_ON / SWITCH_OFF events
	wantTypes := []string{EventSwitchOn, EventSwitchOff, EventSwitchOn, EventSwitchOff}
	if len(erepo.events) != len(wantTypes) {
		t.Fatalf("expected %d events, got %d", len(wantTypes), len(erepo.events))
	}
	for i, want := range wantTypes {
		if erepo.events[i].Type != want {
			t.Fatalf("event %d: type=%s, want %s", i, erepo.events[i].Type, want)
		}
	}
}

func TestRelayService_SnapshotSaveErrorPropagates(t *testing.T) {
	srepo := &fakeStateRepo{saveErr: errors.New("db down")}
	erepo := &fakeEventRepo{}
	clock := &testClock{}
	s := newTestRelay(t, RelayConfig{InitialOn: false, Now: clock.now}, srepo, erepo)

	if err := s.TurnOn(context.Background()); err == nil {
		t.Fatalf("expected save error to propagate")
	}
}
