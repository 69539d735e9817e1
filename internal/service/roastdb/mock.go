package roastdb

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/janisto/roastlog/internal/roast"
)

// MockStore implements roast.Backend in memory for unit tests. Every
// mutation synchronously delivers a fresh ordered snapshot to the
// identity's subscribers, which makes propagation deterministic in
// tests. Like the real listener, a feed stops delivering once its
// subscriber's context is done. Failures are injected per operation
// via the error fields.
type MockStore struct {
	mu      sync.Mutex
	docs    map[string]map[string]roast.Profile // uid -> id -> profile
	subs    map[string]map[int]mockSub
	nextSub int

	InsertErr    error
	PatchErr     error
	RemoveErr    error
	SubscribeErr error

	// Counters for asserting subscription lifecycle.
	Subscribes int
	Cancels    int
}

// mockSub pairs a subscriber callback with the context it was opened
// under; a done context ends the feed.
type mockSub struct {
	ctx context.Context
	fn  func(roast.Snapshot, error)
}

// NewMockStore creates an empty mock backend.
func NewMockStore() *MockStore {
	return &MockStore{
		docs: make(map[string]map[string]roast.Profile),
		subs: make(map[string]map[int]mockSub),
	}
}

func (m *MockStore) Insert(_ context.Context, uid string, p roast.Profile) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertErr != nil {
		return "", m.InsertErr
	}
	if m.docs[uid] == nil {
		m.docs[uid] = make(map[string]roast.Profile)
	}
	p.ID = uuid.NewString()
	m.docs[uid][p.ID] = p
	m.deliverLocked(uid)
	return p.ID, nil
}

func (m *MockStore) Patch(_ context.Context, uid, id string, params roast.UpdateParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PatchErr != nil {
		return m.PatchErr
	}
	p, ok := m.docs[uid][id]
	if !ok {
		return roast.ErrNotFound
	}
	if params.Name != nil {
		p.Name = *params.Name
	}
	if params.Bean != nil {
		p.Bean = *params.Bean
	}
	if params.RoastLevel != nil {
		p.RoastLevel = *params.RoastLevel
	}
	if params.Notes != nil {
		p.Notes = *params.Notes
	}
	if params.FlavorNotes != nil {
		p.FlavorNotes = *params.FlavorNotes
	}
	if params.IsFavorite != nil {
		p.IsFavorite = *params.IsFavorite
	}
	if params.Weight != nil {
		p.Weight = *params.Weight
	}
	if params.EndTime != nil {
		p.EndTime = params.EndTime.UTC()
	}
	m.docs[uid][id] = p
	m.deliverLocked(uid)
	return nil
}

func (m *MockStore) Remove(_ context.Context, uid, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	if _, ok := m.docs[uid][id]; !ok {
		return roast.ErrNotFound
	}
	delete(m.docs[uid], id)
	m.deliverLocked(uid)
	return nil
}

func (m *MockStore) Subscribe(ctx context.Context, uid string, fn func(roast.Snapshot, error)) (func(), error) {
	m.mu.Lock()
	if m.SubscribeErr != nil {
		err := m.SubscribeErr
		m.mu.Unlock()
		return nil, err
	}
	m.Subscribes++
	id := m.nextSub
	m.nextSub++
	if m.subs[uid] == nil {
		m.subs[uid] = make(map[int]mockSub)
	}
	m.subs[uid][id] = mockSub{ctx: ctx, fn: fn}
	snap := m.snapshotLocked(uid)
	m.mu.Unlock()

	// Initial delivery mirrors Firestore: the first snapshot arrives
	// right after the listener opens.
	if ctx.Err() == nil {
		fn(snap, nil)
	}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs[uid], id)
			m.Cancels++
			m.mu.Unlock()
		})
	}
	return cancel, nil
}

// Fail pushes a subscription error to every live subscriber of uid, as
// a broken feed would.
func (m *MockStore) Fail(uid string, err error) {
	m.mu.Lock()
	fns := make([]func(roast.Snapshot, error), 0, len(m.subs[uid]))
	for id, sub := range m.subs[uid] {
		if sub.ctx.Err() != nil {
			delete(m.subs[uid], id)
			continue
		}
		fns = append(fns, sub.fn)
	}
	m.mu.Unlock()
	for _, fn := range fns {
		fn(nil, err)
	}
}

// ActiveSubscriptions reports how many live feeds are open for uid.
func (m *MockStore) ActiveSubscriptions(uid string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, sub := range m.subs[uid] {
		if sub.ctx.Err() != nil {
			delete(m.subs[uid], id)
			continue
		}
		n++
	}
	return n
}

// Profiles returns the stored collection for uid, ordered like a
// delivered snapshot.
func (m *MockStore) Profiles(uid string) roast.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked(uid)
}

func (m *MockStore) snapshotLocked(uid string) roast.Snapshot {
	snap := make(roast.Snapshot, 0, len(m.docs[uid]))
	for _, p := range m.docs[uid] {
		snap = append(snap, p)
	}
	sort.Slice(snap, func(i, j int) bool {
		if snap[i].StartTime.Equal(snap[j].StartTime) {
			return snap[i].ID < snap[j].ID
		}
		return snap[i].StartTime.After(snap[j].StartTime)
	})
	return snap
}

func (m *MockStore) deliverLocked(uid string) {
	snap := m.snapshotLocked(uid)
	for id, sub := range m.subs[uid] {
		if sub.ctx.Err() != nil {
			delete(m.subs[uid], id)
			continue
		}
		sub.fn(snap, nil)
	}
}

// Compile-time interface check
var _ roast.Backend = (*MockStore)(nil)
