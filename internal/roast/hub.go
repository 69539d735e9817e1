package roast

import (
	"context"
	"sync"
)

// Runtime bundles everything one signed-in user needs: the gate, the
// subscribed profile store, and the single active session. It is the
// injected service object the presentation layer works against; there
// is exactly one Runtime per identity and one Session per Runtime.
type Runtime struct {
	Gate    *Gate
	Store   *ProfileStore
	Session *Session
}

// Hub hands out per-identity runtimes, creating them lazily on first
// use and tearing them down on sign-out. The backend and clock are
// shared; subscriptions are per-runtime and bound to the hub's own
// context, so a feed outlives the request that happened to open it.
type Hub struct {
	mu        sync.Mutex
	backend   Backend
	clock     Clock
	feedCtx   context.Context
	stopFeeds context.CancelFunc
	runtimes  map[string]*Runtime
}

// NewHub creates an empty hub over the given backend.
func NewHub(backend Backend, clock Clock) *Hub {
	if clock == nil {
		clock = SystemClock{}
	}
	feedCtx, stopFeeds := context.WithCancel(context.Background())
	return &Hub{
		backend:   backend,
		clock:     clock,
		feedCtx:   feedCtx,
		stopFeeds: stopFeeds,
		runtimes:  make(map[string]*Runtime),
	}
}

// Runtime returns the runtime for id, creating and subscribing it on
// first use. The feed is opened on the hub's context, never the
// request's: a runtime lives until sign-out or Close, and cancelling
// the request that created it must not kill its subscription.
func (h *Hub) Runtime(_ context.Context, id Identity) (*Runtime, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if rt, ok := h.runtimes[id.UID]; ok {
		return rt, nil
	}
	store := NewProfileStore(h.backend)
	rt := &Runtime{
		Gate:    NewGate(store),
		Store:   store,
		Session: NewSession(h.clock, store),
	}
	if err := rt.Gate.Set(h.feedCtx, id); err != nil {
		return nil, err
	}
	h.runtimes[id.UID] = rt
	return rt, nil
}

// SignOut drops the identity's runtime: the gate clears, the feed is
// cancelled, and any in-progress session is discarded. No-op for an
// unknown uid.
func (h *Hub) SignOut(ctx context.Context, uid string) error {
	h.mu.Lock()
	rt, ok := h.runtimes[uid]
	delete(h.runtimes, uid)
	h.mu.Unlock()
	if !ok {
		return nil
	}
	rt.Session.Discard()
	return rt.Gate.Clear(ctx)
}

// Close tears down every runtime and ends all feeds. Used on server
// shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stopFeeds()
	for uid, rt := range h.runtimes {
		rt.Session.Discard()
		rt.Store.Close()
		delete(h.runtimes, uid)
	}
}
