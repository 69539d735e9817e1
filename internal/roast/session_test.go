package roast

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"
)

// createRecorder captures profiles handed to the store on Stop.
type createRecorder struct {
	profiles []Profile
	err      error
}

func (r *createRecorder) Create(_ context.Context, p Profile) error {
	if r.err != nil {
		return r.err
	}
	r.profiles = append(r.profiles, p)
	return nil
}

func newTestSession() (*Session, *fakeClock, *createRecorder) {
	clock := newFakeClock()
	rec := &createRecorder{}
	return NewSession(clock, rec), clock, rec
}

func TestSessionFullRoast(t *testing.T) {
	s, clock, rec := newTestSession()
	ctx := context.Background()

	if s.State() != StateIdle {
		t.Fatalf("expected idle, got %s", s.State())
	}

	if err := s.Prepare(validTemplate()); err != nil {
		t.Fatalf("prepare failed: %v", err)
	}
	if s.State() != StateReady {
		t.Fatalf("expected ready, got %s", s.State())
	}

	startAt := clock.Now()
	if !s.Start() {
		t.Fatal("start should succeed with a prepared template")
	}
	if s.State() != StateRunning {
		t.Fatalf("expected running, got %s", s.State())
	}
	if !s.StartTime().Equal(startAt) {
		t.Errorf("expected start time %v, got %v", startAt, s.StartTime())
	}

	clock.Advance(60 * time.Second)
	if err := s.Record(150.0); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	clock.Advance(4 * time.Minute)
	if err := s.Record(185.5); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	clock.Advance(5 * time.Minute)
	if err := s.Record(205.0); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	committed, err := s.Stop(ctx)
	if err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if !committed {
		t.Fatal("expected stop to commit")
	}
	if len(rec.profiles) != 1 {
		t.Fatalf("expected exactly one create call, got %d", len(rec.profiles))
	}

	p := rec.profiles[0]
	if p.Name != "Ethiopia Yirgacheffe" {
		t.Errorf("expected name from template, got %q", p.Name)
	}
	if p.RoastLevel != LevelLight {
		t.Errorf("expected roast level Light, got %s", p.RoastLevel)
	}
	if p.Duration != 600 {
		t.Errorf("expected duration 600s, got %d", p.Duration)
	}
	if !p.StartTime.Equal(startAt) {
		t.Errorf("expected start time %v, got %v", startAt, p.StartTime)
	}
	if !p.EndTime.Equal(startAt.Add(10 * time.Minute)) {
		t.Errorf("unexpected end time %v", p.EndTime)
	}
	if len(p.TemperatureLog) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(p.TemperatureLog))
	}
	if p.TemperatureLog[0].Time != 60 || p.TemperatureLog[0].Temperature != 150.0 {
		t.Errorf("unexpected first sample %+v", p.TemperatureLog[0])
	}
	if p.TemperatureLog[2].Time != 600 || p.TemperatureLog[2].Temperature != 205.0 {
		t.Errorf("unexpected last sample %+v", p.TemperatureLog[2])
	}
	if p.Weight != (Weight{Green: 250, Roasted: 215}) {
		t.Errorf("unexpected weight %+v", p.Weight)
	}

	// The session is fully reset for the next roast.
	if s.State() != StateIdle {
		t.Errorf("expected idle after stop, got %s", s.State())
	}
	if s.Template() != nil {
		t.Error("expected template cleared after stop")
	}
	if got := s.Stopwatch().Elapsed(); got != 0 {
		t.Errorf("expected stopwatch reset, elapsed %d", got)
	}
	if len(s.Samples()) != 0 {
		t.Error("expected sample log cleared after stop")
	}
}

func TestSessionMediumRoastScenario(t *testing.T) {
	s, clock, rec := newTestSession()

	tpl := Template{
		Name:       "Ethiopia Yirgacheffe",
		Bean:       "Arabica",
		RoastLevel: LevelMedium,
		Weight:     Weight{Green: 100, Roasted: 85},
	}
	if err := s.Prepare(tpl); err != nil {
		t.Fatalf("prepare failed: %v", err)
	}
	startAt := clock.Now()
	s.Start()

	clock.Advance(60 * time.Second)
	_ = s.Record(180)
	clock.Advance(4 * time.Minute)
	_ = s.Record(205)
	clock.Advance(20 * time.Second)

	committed, err := s.Stop(context.Background())
	if err != nil || !committed {
		t.Fatalf("expected committed stop, got (%v, %v)", committed, err)
	}

	p := rec.profiles[0]
	if p.Duration != 320 {
		t.Errorf("expected duration 320, got %d", p.Duration)
	}
	if !p.EndTime.Equal(startAt.Add(320 * time.Second)) {
		t.Errorf("unexpected end time %v", p.EndTime)
	}
	if len(p.TemperatureLog) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(p.TemperatureLog))
	}
	if p.TemperatureLog[0].Time != 60 || p.TemperatureLog[0].Temperature != 180 {
		t.Errorf("unexpected first sample %+v", p.TemperatureLog[0])
	}
	if p.TemperatureLog[1].Time != 300 || p.TemperatureLog[1].Temperature != 205 {
		t.Errorf("unexpected second sample %+v", p.TemperatureLog[1])
	}
	if p.IsFavorite {
		t.Error("new roasts must not start favorited")
	}
	if p.Weight != (Weight{Green: 100, Roasted: 85}) {
		t.Errorf("unexpected weight %+v", p.Weight)
	}
}

func TestSessionStartWithoutTemplate(t *testing.T) {
	s, _, _ := newTestSession()
	if s.Start() {
		t.Error("start without a template should be a no-op")
	}
	if s.State() != StateIdle {
		t.Errorf("expected idle, got %s", s.State())
	}
}

func TestSessionPrepareRejectedWhileRunning(t *testing.T) {
	s, _, _ := newTestSession()
	if err := s.Prepare(validTemplate()); err != nil {
		t.Fatalf("prepare failed: %v", err)
	}
	s.Start()

	tpl := validTemplate()
	tpl.Name = "Second Batch"
	if err := s.Prepare(tpl); !errors.Is(err, ErrInvalidProfile) {
		t.Errorf("expected prepare to be rejected while running, got %v", err)
	}
	if got := s.Template().Name; got != "Ethiopia Yirgacheffe" {
		t.Errorf("running session's template changed to %q", got)
	}
}

func TestSessionPauseResume(t *testing.T) {
	s, clock, _ := newTestSession()
	_ = s.Prepare(validTemplate())
	s.Start()

	clock.Advance(30 * time.Second)
	s.Pause()
	if s.State() != StateRunning {
		t.Errorf("pause is a stopwatch sub-state; expected running, got %s", s.State())
	}
	if s.Stopwatch().Running() {
		t.Error("expected stopwatch suspended")
	}

	clock.Advance(time.Hour)
	s.Resume()
	clock.Advance(15 * time.Second)
	if got := s.Stopwatch().Elapsed(); got != 45 {
		t.Errorf("expected elapsed 45, got %d", got)
	}
}

func TestSessionRecordWhenNotRunning(t *testing.T) {
	s, _, _ := newTestSession()
	if err := s.Record(180); !errors.Is(err, ErrInvalidProfile) {
		t.Errorf("expected record to fail while idle, got %v", err)
	}
	_ = s.Prepare(validTemplate())
	if err := s.Record(180); !errors.Is(err, ErrInvalidProfile) {
		t.Errorf("expected record to fail while ready, got %v", err)
	}
}

func TestSessionRecordRejectsNonFinite(t *testing.T) {
	s, _, _ := newTestSession()
	_ = s.Prepare(validTemplate())
	s.Start()
	if err := s.Record(math.NaN()); !errors.Is(err, ErrBadTemperature) {
		t.Errorf("expected ErrBadTemperature, got %v", err)
	}
	if len(s.Samples()) != 0 {
		t.Error("rejected sample must not be recorded")
	}
}

func TestSessionStopWithoutSamples(t *testing.T) {
	s, clock, rec := newTestSession()
	_ = s.Prepare(validTemplate())
	s.Start()
	clock.Advance(time.Minute)

	committed, err := s.Stop(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if committed {
		t.Error("stop without samples should not commit")
	}
	if len(rec.profiles) != 0 {
		t.Errorf("expected no create call, got %d", len(rec.profiles))
	}
	if s.State() != StateRunning {
		t.Errorf("session should keep running after a no-op stop, got %s", s.State())
	}
}

func TestSessionStopWhenIdle(t *testing.T) {
	s, _, rec := newTestSession()
	committed, err := s.Stop(context.Background())
	if err != nil || committed {
		t.Errorf("expected (false, nil), got (%v, %v)", committed, err)
	}
	if len(rec.profiles) != 0 {
		t.Error("idle stop must not persist anything")
	}
}

func TestSessionStopCreateFailureKeepsData(t *testing.T) {
	s, clock, rec := newTestSession()
	_ = s.Prepare(validTemplate())
	s.Start()
	clock.Advance(2 * time.Minute)
	_ = s.Record(190)

	rec.err = errors.New("store unavailable")
	committed, err := s.Stop(context.Background())
	if committed || err == nil {
		t.Fatalf("expected failed stop, got (%v, %v)", committed, err)
	}
	if s.State() != StateRunning {
		t.Errorf("failed stop must leave the session running, got %s", s.State())
	}
	if len(s.Samples()) != 1 {
		t.Error("failed stop must not lose recorded samples")
	}
	if !s.Stopwatch().Running() {
		t.Error("failed stop must resume the stopwatch")
	}

	// The timer keeps counting until the retry lands.
	clock.Advance(30 * time.Second)
	if got := s.Stopwatch().Elapsed(); got != 150 {
		t.Errorf("expected elapsed 150 after the failed stop, got %d", got)
	}

	// Retry once the store recovers.
	rec.err = nil
	committed, err = s.Stop(context.Background())
	if err != nil || !committed {
		t.Fatalf("retry should commit, got (%v, %v)", committed, err)
	}
	if len(rec.profiles) != 1 {
		t.Fatalf("expected one persisted profile, got %d", len(rec.profiles))
	}
}

func TestSessionStopCreateFailureWhilePaused(t *testing.T) {
	s, clock, rec := newTestSession()
	_ = s.Prepare(validTemplate())
	s.Start()
	clock.Advance(2 * time.Minute)
	_ = s.Record(190)
	s.Pause()

	rec.err = errors.New("store unavailable")
	if committed, err := s.Stop(context.Background()); committed || err == nil {
		t.Fatalf("expected failed stop, got (%v, %v)", committed, err)
	}
	if s.Stopwatch().Running() {
		t.Error("a stopwatch paused by the user must stay paused after a failed stop")
	}
	if got := s.Stopwatch().Elapsed(); got != 120 {
		t.Errorf("expected elapsed 120 retained, got %d", got)
	}
}

// blockingCreator holds each create call until released, counting calls.
type blockingCreator struct {
	mu      sync.Mutex
	creates int
	release chan struct{}
}

func (r *blockingCreator) Create(context.Context, Profile) error {
	r.mu.Lock()
	r.creates++
	r.mu.Unlock()
	<-r.release
	return nil
}

func TestSessionConcurrentStopCommitsOnce(t *testing.T) {
	clock := newFakeClock()
	rec := &blockingCreator{release: make(chan struct{})}
	s := NewSession(clock, rec)
	_ = s.Prepare(validTemplate())
	s.Start()
	clock.Advance(time.Minute)
	_ = s.Record(190)

	results := make(chan bool, 2)
	for range 2 {
		go func() {
			committed, err := s.Stop(context.Background())
			if err != nil {
				t.Errorf("stop failed: %v", err)
			}
			results <- committed
		}()
	}

	// Give both stops time to race before the store call completes.
	time.Sleep(50 * time.Millisecond)
	close(rec.release)

	committedCount := 0
	for range 2 {
		if <-results {
			committedCount++
		}
	}
	if committedCount != 1 {
		t.Errorf("expected exactly one committed stop, got %d", committedCount)
	}
	rec.mu.Lock()
	creates := rec.creates
	rec.mu.Unlock()
	if creates != 1 {
		t.Fatalf("a double stop must persist the roast once; got %d create calls", creates)
	}
	if s.State() != StateIdle {
		t.Errorf("expected idle after the committed stop, got %s", s.State())
	}
}

func TestSessionDiscard(t *testing.T) {
	s, clock, rec := newTestSession()
	_ = s.Prepare(validTemplate())
	s.Start()
	clock.Advance(time.Minute)
	_ = s.Record(170)

	s.Discard()

	if s.State() != StateIdle {
		t.Errorf("expected idle after discard, got %s", s.State())
	}
	if s.Template() != nil {
		t.Error("expected template cleared")
	}
	if len(s.Samples()) != 0 {
		t.Error("expected samples cleared")
	}
	if len(rec.profiles) != 0 {
		t.Error("discard must not persist anything")
	}
}
