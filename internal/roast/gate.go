package roast

import (
	"context"
	"sync"

	"go.uber.org/zap"

	applog "github.com/janisto/roastlog/internal/platform/logging"
)

// Identity is the signed-in user as the core sees it: an opaque key
// plus a display label. Everything else the identity provider knows is
// irrelevant here.
type Identity struct {
	UID         string
	DisplayName string
}

// Gate tracks signed-in identity transitions and drives the profile
// store's subscription lifecycle: exactly one re-subscribe (or
// unsubscribe) per transition, never two feeds active, never zero while
// an identity is present. Setting the same UID again is a no-op.
type Gate struct {
	mu      sync.Mutex
	store   *ProfileStore
	current Identity
}

// NewGate creates a gate with no identity; the store stays
// unsubscribed until Set is called.
func NewGate(store *ProfileStore) *Gate {
	return &Gate{store: store}
}

// Current returns the identity the gate last applied.
func (g *Gate) Current() Identity {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current
}

// Set applies an identity transition. none→present and
// present→different open a fresh feed (the store cancels the old one
// first); present→same is a no-op.
func (g *Gate) Set(ctx context.Context, id Identity) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if id.UID == g.current.UID {
		g.current = id // display name may still change
		return nil
	}
	prev := g.current
	g.current = id
	applog.LogInfo(ctx, "identity changed",
		zap.String("from", prev.UID), zap.String("to", id.UID))
	return g.store.Subscribe(ctx, id.UID)
}

// Clear applies the present→none transition: the feed is cancelled and
// the collection emptied. No-op when already signed out.
func (g *Gate) Clear(ctx context.Context) error {
	return g.Set(ctx, Identity{})
}
