package roast

import (
	"sync"
	"time"
)

// Stopwatch counts whole seconds of running time. Pausing retains the
// elapsed value; Reset zeroes it from any state. Elapsed never
// decreases except through Reset.
//
// A single ticker goroutine drives the registered per-second observers
// while running; Start on an already-running stopwatch is a no-op and
// never creates a second tick source.
type Stopwatch struct {
	mu          sync.Mutex
	clock       Clock
	running     bool
	startedAt   time.Time
	accumulated time.Duration
	stopTick    chan struct{}
	observers   map[int]func(elapsed int)
	nextObs     int
}

// NewStopwatch creates a stopped, zeroed stopwatch.
func NewStopwatch(clock Clock) *Stopwatch {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Stopwatch{clock: clock}
}

// OnTick registers an observer invoked with the current elapsed value
// once per second while running. The live session stream attaches here
// to push elapsed-time updates. The returned func removes the observer;
// removal is idempotent.
func (s *Stopwatch) OnTick(fn func(elapsed int)) (remove func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.observers == nil {
		s.observers = make(map[int]func(elapsed int))
	}
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// Start begins advancing elapsed time. No-op if already running.
func (s *Stopwatch) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.startedAt = s.clock.Now()
	s.stopTick = make(chan struct{})
	go s.tickLoop(s.clock.NewTicker(time.Second), s.stopTick)
}

// Pause stops advancing elapsed time, retaining the current value.
// No-op if not running.
func (s *Stopwatch) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.accumulated += s.clock.Now().Sub(s.startedAt)
	s.running = false
	close(s.stopTick)
	s.stopTick = nil
}

// Reset zeroes elapsed time and stops the stopwatch, from any state.
func (s *Stopwatch) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		close(s.stopTick)
		s.stopTick = nil
	}
	s.running = false
	s.accumulated = 0
	s.startedAt = time.Time{}
}

// Running reports whether the stopwatch is advancing.
func (s *Stopwatch) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Elapsed returns the accumulated running time in whole seconds.
func (s *Stopwatch) Elapsed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int(s.elapsedLocked() / time.Second)
}

func (s *Stopwatch) elapsedLocked() time.Duration {
	d := s.accumulated
	if s.running {
		d += s.clock.Now().Sub(s.startedAt)
	}
	return d
}

// tickLoop drives the observer callbacks. It owns the ticker and stops
// it on exit so no recurring callback outlives a pause or reset.
func (s *Stopwatch) tickLoop(ticker Ticker, stop <-chan struct{}) {
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C():
			s.mu.Lock()
			fns := make([]func(int), 0, len(s.observers))
			for _, fn := range s.observers {
				fns = append(fns, fn)
			}
			elapsed := int(s.elapsedLocked() / time.Second)
			s.mu.Unlock()
			for _, fn := range fns {
				fn(elapsed)
			}
		}
	}
}
