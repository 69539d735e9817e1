package roast

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	applog "github.com/janisto/roastlog/internal/platform/logging"
)

// Snapshot is a full, ordered copy of the remote collection for one
// identity, ordered by start time descending.
type Snapshot []Profile

// UpdateParams holds the optional fields of a profile update. Nil
// fields are left untouched.
//
// Weight is replaced wholesale, never deep-merged: an update carrying
// Weight must include both green and roasted values or the sibling is
// lost. Callers editing one side must send the complete pair.
type UpdateParams struct {
	Name        *string
	Bean        *string
	RoastLevel  *Level
	Notes       *string
	FlavorNotes *string
	IsFavorite  *bool
	Weight      *Weight
	EndTime     *time.Time
}

// Backend is the remote document store boundary. Implementations scope
// every operation to the owning identity and deliver full-collection
// snapshots, already ordered by start time descending, through the
// subscription callback. A nil error with a snapshot is a delivery; a
// non-nil error is a subscription failure (the previous snapshot
// remains valid).
type Backend interface {
	Insert(ctx context.Context, uid string, p Profile) (string, error)
	Patch(ctx context.Context, uid, id string, params UpdateParams) error
	Remove(ctx context.Context, uid, id string) error
	Subscribe(ctx context.Context, uid string, fn func(Snapshot, error)) (cancel func(), err error)
}

// ProfileStore mirrors the remote collection for the current identity.
//
// The in-memory collection is a pure function of the latest snapshot
// the subscription delivered: create, update, and delete never patch it
// locally, so there is a propagation delay between a mutating call
// returning and the change appearing in Snapshot(). This removes any
// divergence between optimistic local edits and the remote state.
type ProfileStore struct {
	mu       sync.RWMutex
	backend  Backend
	uid      string
	cancel   func()
	profiles Snapshot
	watchers map[int]chan Snapshot
	nextID   int
}

// NewProfileStore creates a store with an empty collection and no
// subscription.
func NewProfileStore(backend Backend) *ProfileStore {
	return &ProfileStore{
		backend:  backend,
		watchers: make(map[int]chan Snapshot),
	}
}

// Subscribe switches the store to the given identity. Any previous
// subscription is cancelled first; exactly one is active at a time.
// An empty uid clears the collection and opens nothing.
func (s *ProfileStore) Subscribe(ctx context.Context, uid string) error {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.uid = uid
	s.profiles = nil
	if uid == "" {
		s.broadcastLocked(nil)
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	cancel, err := s.backend.Subscribe(ctx, uid, func(snap Snapshot, err error) {
		if err != nil {
			// Subscription failures never clear the collection; the last
			// delivered snapshot stays valid.
			applog.LogError(ctx, "roast feed error", err, zap.String("uid", uid))
			return
		}
		s.mu.Lock()
		if s.uid != uid {
			// Stale delivery from a feed cancelled during an identity
			// switch; B's collection must never mix with A's.
			s.mu.Unlock()
			return
		}
		s.profiles = snap
		s.broadcastLocked(snap)
		s.mu.Unlock()
	})
	if err != nil {
		applog.LogError(ctx, "roast feed subscribe failed", err, zap.String("uid", uid))
		return err
	}

	s.mu.Lock()
	if s.uid != uid {
		// Identity changed while the feed was being opened; the newer
		// subscription wins and this one is torn down immediately.
		s.mu.Unlock()
		cancel()
		return nil
	}
	s.cancel = cancel
	s.mu.Unlock()
	return nil
}

// Close cancels the active subscription, if any. Safe to call twice.
func (s *ProfileStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Identity returns the uid the store is currently scoped to.
func (s *ProfileStore) Identity() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.uid
}

// Snapshot returns a copy of the current collection.
func (s *ProfileStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(Snapshot, len(s.profiles))
	copy(out, s.profiles)
	return out
}

// Get returns the profile with the given id from the current snapshot.
func (s *ProfileStore) Get(id string) (Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.profiles {
		if p.ID == id {
			return p, true
		}
	}
	return Profile{}, false
}

// Watch registers an observer that receives every snapshot replacement
// until ctx is cancelled. The current snapshot is delivered first.
// Slow observers drop stale snapshots rather than block the feed.
func (s *ProfileStore) Watch(ctx context.Context) <-chan Snapshot {
	ch := make(chan Snapshot, 1)
	s.mu.Lock()
	current := make(Snapshot, len(s.profiles))
	copy(current, s.profiles)
	ch <- current
	id := s.nextID
	s.nextID++
	s.watchers[id] = ch
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.watchers, id)
		close(ch)
		s.mu.Unlock()
	}()
	return ch
}

// broadcastLocked fans a snapshot out to watchers. Each watcher channel
// holds one pending snapshot; an undelivered older one is replaced.
func (s *ProfileStore) broadcastLocked(snap Snapshot) {
	for _, ch := range s.watchers {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

// Create sends a full profile to the remote store tagged with the
// owning identity. The collection is not touched; the new record
// appears once the subscription delivers it.
func (s *ProfileStore) Create(ctx context.Context, p Profile) error {
	uid := s.Identity()
	if uid == "" {
		return ErrNoIdentity
	}
	p.StartTime = p.StartTime.UTC()
	p.EndTime = p.EndTime.UTC()
	id, err := s.backend.Insert(ctx, uid, p)
	if err != nil {
		applog.LogError(ctx, "roast create failed", err, zap.String("uid", uid))
		return err
	}
	applog.LogAuditEvent(ctx, "create", uid, "roast", id, "success", nil)
	return nil
}

// Update patches fields of an owned profile. Time fields are normalized
// to UTC before transmission; Weight is a wholesale replacement (see
// UpdateParams).
func (s *ProfileStore) Update(ctx context.Context, id string, params UpdateParams) error {
	uid := s.Identity()
	if uid == "" {
		return ErrNoIdentity
	}
	if params.EndTime != nil {
		t := params.EndTime.UTC()
		params.EndTime = &t
	}
	if err := s.backend.Patch(ctx, uid, id, params); err != nil {
		applog.LogError(ctx, "roast update failed", err,
			zap.String("uid", uid), zap.String("id", id))
		return err
	}
	applog.LogAuditEvent(ctx, "update", uid, "roast", id, "success", nil)
	return nil
}

// Delete removes an owned profile. Irreversible; asking the user for
// confirmation is the caller's concern, not the store's.
func (s *ProfileStore) Delete(ctx context.Context, id string) error {
	uid := s.Identity()
	if uid == "" {
		return ErrNoIdentity
	}
	if err := s.backend.Remove(ctx, uid, id); err != nil {
		applog.LogError(ctx, "roast delete failed", err,
			zap.String("uid", uid), zap.String("id", id))
		return err
	}
	applog.LogAuditEvent(ctx, "delete", uid, "roast", id, "success", nil)
	return nil
}

// ToggleFavorite flips the favorite flag from the caller's last-seen
// value. Invoked from list views without re-reading the record; last
// write wins on concurrent toggles.
func (s *ProfileStore) ToggleFavorite(ctx context.Context, id string, current bool) error {
	next := !current
	return s.Update(ctx, id, UpdateParams{IsFavorite: &next})
}
