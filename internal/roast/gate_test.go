package roast_test

import (
	"context"
	"testing"
	"time"

	"github.com/janisto/roastlog/internal/roast"
	"github.com/janisto/roastlog/internal/service/roastdb"
)

func TestGateSignInOpensFeed(t *testing.T) {
	mock := roastdb.NewMockStore()
	ctx := context.Background()
	_, _ = mock.Insert(ctx, "alice", seedProfile("Alice Roast", time.Now()))

	store := roast.NewProfileStore(mock)
	defer store.Close()
	gate := roast.NewGate(store)

	if err := gate.Set(ctx, roast.Identity{UID: "alice", DisplayName: "Alice"}); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if mock.Subscribes != 1 {
		t.Errorf("expected 1 subscribe, got %d", mock.Subscribes)
	}
	if got := gate.Current().UID; got != "alice" {
		t.Errorf("expected current uid alice, got %q", got)
	}
	if len(store.Snapshot()) != 1 {
		t.Error("expected alice's collection mirrored")
	}
}

func TestGateSameIdentityIsNoop(t *testing.T) {
	mock := roastdb.NewMockStore()
	ctx := context.Background()
	store := roast.NewProfileStore(mock)
	defer store.Close()
	gate := roast.NewGate(store)

	_ = gate.Set(ctx, roast.Identity{UID: "alice", DisplayName: "Alice"})
	_ = gate.Set(ctx, roast.Identity{UID: "alice", DisplayName: "Alice L."})

	if mock.Subscribes != 1 {
		t.Errorf("same uid must not re-subscribe; got %d subscribes", mock.Subscribes)
	}
	if mock.Cancels != 0 {
		t.Errorf("same uid must not cancel; got %d cancels", mock.Cancels)
	}
	// The display label still refreshes.
	if got := gate.Current().DisplayName; got != "Alice L." {
		t.Errorf("expected refreshed display name, got %q", got)
	}
}

func TestGateIdentitySwitchSwapsFeedOnce(t *testing.T) {
	mock := roastdb.NewMockStore()
	ctx := context.Background()
	store := roast.NewProfileStore(mock)
	defer store.Close()
	gate := roast.NewGate(store)

	_ = gate.Set(ctx, roast.Identity{UID: "alice"})
	_ = gate.Set(ctx, roast.Identity{UID: "bob"})

	if mock.Subscribes != 2 {
		t.Errorf("expected 2 subscribes, got %d", mock.Subscribes)
	}
	if mock.Cancels != 1 {
		t.Errorf("expected 1 cancel, got %d", mock.Cancels)
	}
	if mock.ActiveSubscriptions("alice") != 0 || mock.ActiveSubscriptions("bob") != 1 {
		t.Error("expected exactly one live feed, on bob")
	}
}

func TestGateClear(t *testing.T) {
	mock := roastdb.NewMockStore()
	ctx := context.Background()
	_, _ = mock.Insert(ctx, "alice", seedProfile("Alice Roast", time.Now()))

	store := roast.NewProfileStore(mock)
	gate := roast.NewGate(store)
	_ = gate.Set(ctx, roast.Identity{UID: "alice"})

	if err := gate.Clear(ctx); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if gate.Current().UID != "" {
		t.Error("expected no identity after clear")
	}
	if len(store.Snapshot()) != 0 {
		t.Error("expected collection emptied after clear")
	}
	if mock.ActiveSubscriptions("alice") != 0 {
		t.Error("expected feed cancelled after clear")
	}

	// Clearing again is a no-op, not a second unsubscribe.
	cancels := mock.Cancels
	_ = gate.Clear(ctx)
	if mock.Cancels != cancels {
		t.Errorf("repeated clear should not cancel again; got %d cancels", mock.Cancels)
	}
}
