package roast

import (
	"context"
	"sync"
	"time"
)

// SessionState is the lifecycle state of an active roast session.
type SessionState string

const (
	// StateIdle means no roast template has been selected.
	StateIdle SessionState = "idle"
	// StateReady means a template is present but the timer has not started.
	StateReady SessionState = "ready"
	// StateRunning means the timer has started. Pausing the stopwatch is
	// a sub-state of Running, not a session state of its own.
	StateRunning SessionState = "running"
)

// ProfileCreator persists a finalized roast profile. Implemented by
// *ProfileStore; sessions only need the create half of the store.
type ProfileCreator interface {
	Create(ctx context.Context, p Profile) error
}

// Session is the in-progress, not-yet-persisted roast recording. It
// owns its stopwatch and temperature log exclusively: nothing else
// mutates them. On a successful Stop the finalized profile is handed
// to the store as one create call and the session returns to Idle;
// the local session data is discarded, never merged with the remote
// collection.
//
// Lifecycle misuse (starting without a template, stopping without
// samples) is a silent no-op reported through the returned boolean,
// not an error. The presentation layer decides how to surface it.
type Session struct {
	mu         sync.Mutex
	clock      Clock
	store      ProfileCreator
	state      SessionState
	template   *Template
	startTime  time.Time
	watch      *Stopwatch
	log        *TemperatureLog
	committing bool
}

// NewSession creates an idle session that persists through store.
func NewSession(clock Clock, store ProfileCreator) *Session {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Session{
		clock: clock,
		store: store,
		state: StateIdle,
		watch: NewStopwatch(clock),
		log:   NewTemperatureLog(),
	}
}

// State returns the current lifecycle state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Template returns a copy of the prepared template, or nil when idle.
func (s *Session) Template() *Template {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.template == nil {
		return nil
	}
	t := *s.template
	return &t
}

// Stopwatch exposes the session's stopwatch for read access (elapsed,
// running sub-state) and tick observation. State transitions go
// through the session, not the stopwatch.
func (s *Session) Stopwatch() *Stopwatch {
	return s.watch
}

// StartTime returns when the session entered Running, zero if it has not.
func (s *Session) StartTime() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startTime
}

// Samples returns a copy of the accumulated temperature log.
func (s *Session) Samples() []TemperaturePoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.Points()
}

// Prepare installs the roast template, moving Idle or Ready to Ready.
// Rejected while Running. Validation failures leave the state unchanged.
func (s *Session) Prepare(t Template) error {
	if err := t.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateRunning {
		return ErrInvalidProfile
	}
	s.template = &t
	s.state = StateReady
	return nil
}

// Start begins the roast: resets the stopwatch and temperature log,
// records the start time, and starts the timer. Returns false without
// side effects when no template is present.
func (s *Session) Start() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady || s.template == nil {
		return false
	}
	s.watch.Reset()
	s.log.Clear()
	s.startTime = s.clock.Now()
	s.state = StateRunning
	s.watch.Start()
	return true
}

// Pause suspends the stopwatch. The session stays Running and can resume.
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateRunning {
		s.watch.Pause()
	}
}

// Resume restarts the stopwatch after a pause.
func (s *Session) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateRunning {
		s.watch.Start()
	}
}

// Record appends a temperature sample at the current elapsed second.
// Only valid while Running; temperature must be finite.
func (s *Session) Record(temperature float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRunning {
		return ErrInvalidProfile
	}
	return s.log.Append(TemperaturePoint{
		Time:        s.watch.Elapsed(),
		Temperature: temperature,
		Timestamp:   s.clock.Now().UTC(),
	})
}

// Stop finalizes the roast and hands it to the store as a single create
// call. Returns (false, nil) when not Running or when no samples were
// recorded. At most one commit is in flight at a time: a concurrent
// Stop while the create call is outstanding is a no-op, so a double
// stop can never persist the roast twice. On create failure the session
// stays Running with its data intact so nothing is lost, and the
// stopwatch resumes if it was advancing when Stop was called; on
// success the stopwatch is reset, the log cleared, and the session
// returns to Idle.
func (s *Session) Stop(ctx context.Context) (bool, error) {
	s.mu.Lock()
	if s.state != StateRunning || s.committing || s.log.Len() == 0 {
		s.mu.Unlock()
		return false, nil
	}
	s.committing = true
	wasRunning := s.watch.Running()
	s.watch.Pause()
	profile := Profile{
		Name:           s.template.Name,
		Bean:           s.template.Bean,
		RoastLevel:     s.template.RoastLevel,
		Notes:          s.template.Notes,
		Weight:         s.template.Weight,
		StartTime:      s.startTime,
		EndTime:        s.clock.Now().UTC(),
		Duration:       s.watch.Elapsed(),
		TemperatureLog: s.log.Points(),
	}
	s.mu.Unlock()

	if err := s.store.Create(ctx, profile); err != nil {
		s.mu.Lock()
		s.committing = false
		if wasRunning && s.state == StateRunning {
			s.watch.Start()
		}
		s.mu.Unlock()
		return false, err
	}

	s.mu.Lock()
	s.committing = false
	s.watch.Reset()
	s.log.Clear()
	s.template = nil
	s.startTime = time.Time{}
	s.state = StateIdle
	s.mu.Unlock()
	return true, nil
}

// Discard abandons the session without persisting anything and returns
// it to Idle.
func (s *Session) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watch.Reset()
	s.log.Clear()
	s.template = nil
	s.startTime = time.Time{}
	s.state = StateIdle
}
