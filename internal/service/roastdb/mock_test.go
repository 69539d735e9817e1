package roastdb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/janisto/roastlog/internal/roast"
)

func testProfile(name string, startedAt time.Time) roast.Profile {
	return roast.Profile{
		Name:       name,
		Bean:       "Bourbon",
		RoastLevel: roast.LevelMedium,
		StartTime:  startedAt,
		EndTime:    startedAt.Add(10 * time.Minute),
		Duration:   600,
		Weight:     roast.Weight{Green: 250, Roasted: 215},
	}
}

func TestMockInsertAssignsID(t *testing.T) {
	m := NewMockStore()
	ctx := context.Background()

	id, err := m.Insert(ctx, "alice", testProfile("Kenya AA", time.Now()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == "" {
		t.Fatal("expected a generated id")
	}

	snap := m.Profiles("alice")
	if len(snap) != 1 || snap[0].ID != id {
		t.Errorf("expected stored profile with id %s, got %+v", id, snap)
	}
}

func TestMockSnapshotOrdering(t *testing.T) {
	m := NewMockStore()
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	_, _ = m.Insert(ctx, "alice", testProfile("Oldest", base))
	_, _ = m.Insert(ctx, "alice", testProfile("Newest", base.Add(2*time.Hour)))
	_, _ = m.Insert(ctx, "alice", testProfile("Middle", base.Add(time.Hour)))

	snap := m.Profiles("alice")
	want := []string{"Newest", "Middle", "Oldest"}
	for i, name := range want {
		if snap[i].Name != name {
			t.Errorf("position %d: expected %q, got %q", i, name, snap[i].Name)
		}
	}
}

func TestMockPatchUnknownID(t *testing.T) {
	m := NewMockStore()
	name := "New Name"
	err := m.Patch(context.Background(), "alice", "missing", roast.UpdateParams{Name: &name})
	if !errors.Is(err, roast.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMockRemoveUnknownID(t *testing.T) {
	m := NewMockStore()
	err := m.Remove(context.Background(), "alice", "missing")
	if !errors.Is(err, roast.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMockSubscribeDeliveries(t *testing.T) {
	m := NewMockStore()
	ctx := context.Background()

	var deliveries []roast.Snapshot
	cancel, err := m.Subscribe(ctx, "alice", func(snap roast.Snapshot, err error) {
		if err != nil {
			t.Errorf("unexpected feed error: %v", err)
			return
		}
		deliveries = append(deliveries, snap)
	})
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	defer cancel()

	if len(deliveries) != 1 || len(deliveries[0]) != 0 {
		t.Fatalf("expected an empty initial snapshot, got %+v", deliveries)
	}

	id, _ := m.Insert(ctx, "alice", testProfile("Kenya AA", time.Now()))
	if len(deliveries) != 2 || len(deliveries[1]) != 1 {
		t.Fatalf("expected a snapshot after insert, got %d deliveries", len(deliveries))
	}

	_ = m.Remove(ctx, "alice", id)
	if len(deliveries) != 3 || len(deliveries[2]) != 0 {
		t.Fatalf("expected an empty snapshot after remove, got %+v", deliveries)
	}
}

func TestMockSubscribeScopedToUID(t *testing.T) {
	m := NewMockStore()
	ctx := context.Background()

	var aliceDeliveries int
	cancel, _ := m.Subscribe(ctx, "alice", func(roast.Snapshot, error) { aliceDeliveries++ })
	defer cancel()

	_, _ = m.Insert(ctx, "bob", testProfile("Bob Roast", time.Now()))
	if aliceDeliveries != 1 {
		t.Errorf("bob's insert must not notify alice's feed; got %d deliveries", aliceDeliveries)
	}
}

func TestMockSubscribeStopsOnContextCancel(t *testing.T) {
	m := NewMockStore()
	ctx, cancel := context.WithCancel(context.Background())

	var deliveries int
	if _, err := m.Subscribe(ctx, "alice", func(roast.Snapshot, error) { deliveries++ }); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	if deliveries != 1 {
		t.Fatalf("expected the initial snapshot, got %d deliveries", deliveries)
	}

	cancel()
	_, _ = m.Insert(context.Background(), "alice", testProfile("Kenya AA", time.Now()))
	if deliveries != 1 {
		t.Errorf("feed delivered after its context was cancelled; got %d deliveries", deliveries)
	}
	if m.ActiveSubscriptions("alice") != 0 {
		t.Error("expected the dead feed pruned")
	}

	m.Fail("alice", errors.New("listener dropped"))
	if deliveries != 1 {
		t.Errorf("feed error delivered after cancel; got %d deliveries", deliveries)
	}
}

func TestMockCancelIdempotent(t *testing.T) {
	m := NewMockStore()
	cancel, _ := m.Subscribe(context.Background(), "alice", func(roast.Snapshot, error) {})

	cancel()
	cancel()

	if m.Cancels != 1 {
		t.Errorf("expected 1 cancel, got %d", m.Cancels)
	}
	if m.ActiveSubscriptions("alice") != 0 {
		t.Error("expected no active subscriptions")
	}
}

func TestMockFailDeliversError(t *testing.T) {
	m := NewMockStore()
	feedErr := errors.New("listener dropped")

	var got error
	cancel, _ := m.Subscribe(context.Background(), "alice", func(_ roast.Snapshot, err error) {
		if err != nil {
			got = err
		}
	})
	defer cancel()

	m.Fail("alice", feedErr)
	if !errors.Is(got, feedErr) {
		t.Errorf("expected injected feed error, got %v", got)
	}
}

func TestMockInjectedErrors(t *testing.T) {
	m := NewMockStore()
	ctx := context.Background()
	boom := errors.New("boom")

	m.InsertErr = boom
	if _, err := m.Insert(ctx, "alice", testProfile("x", time.Now())); !errors.Is(err, boom) {
		t.Errorf("expected injected insert error, got %v", err)
	}
	m.InsertErr = nil

	id, _ := m.Insert(ctx, "alice", testProfile("x", time.Now()))
	m.PatchErr = boom
	if err := m.Patch(ctx, "alice", id, roast.UpdateParams{}); !errors.Is(err, boom) {
		t.Errorf("expected injected patch error, got %v", err)
	}
	m.RemoveErr = boom
	if err := m.Remove(ctx, "alice", id); !errors.Is(err, boom) {
		t.Errorf("expected injected remove error, got %v", err)
	}
}
