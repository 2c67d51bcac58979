package challenge_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ollav12/DAT251/internal/challenge"
)

// fakeAwarder records point awards.
type fakeAwarder struct {
	mu     sync.Mutex
	awards map[string]int
}

func newFakeAwarder() *fakeAwarder {
	return &fakeAwarder{awards: make(map[string]int)}
}

func (f *fakeAwarder) AddPoints(_ context.Context, userID string, points int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.awards[userID] += points
	return nil
}

func (f *fakeAwarder) total(userID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.awards[userID]
}

type engineFixture struct {
	engine  *challenge.Engine
	repo    *challenge.InMemoryRepository
	awarder *fakeAwarder
	now     time.Time
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()
	f := &engineFixture{
		repo:    challenge.NewInMemoryRepository(),
		awarder: newFakeAwarder(),
		now:     time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.engine = challenge.NewEngine(challenge.EngineConfig{
		Repo:   f.repo,
		Points: f.awarder,
		Logger: zerolog.Nop(),
		Now:    func() time.Time { return f.now },
	})
	return f
}

func (f *engineFixture) addChallenge(t *testing.T, c challenge.Challenge) *challenge.Challenge {
	t.Helper()
	if err := f.repo.CreateChallenge(context.Background(), &c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return &c
}

func metricChallenge(id string, target float64, points int) challenge.Challenge {
	return challenge.Challenge{
		ID:           id,
		Title:        "Save CO2",
		RewardPoints: points,
		DurationDays: 7,
		Type:         challenge.TypeMetric,
		TargetValue:  target,
		MetricUnit:   challenge.MetricUnitKgCO2,
	}
}

func actionChallenge(id string, target float64, points int) challenge.Challenge {
	return challenge.Challenge{
		ID:           id,
		Title:        "Take green trips",
		RewardPoints: points,
		DurationDays: 7,
		Type:         challenge.TypeAction,
		TargetValue:  target,
	}
}

func TestEngine_Assign_Idempotent(t *testing.T) {
	f := newEngineFixture(t)
	f.addChallenge(t, metricChallenge("chl_1", 10, 100))
	ctx := context.Background()

	first, err := f.engine.Assign(ctx, "usr_1", "chl_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Status != challenge.StatusNotStarted {
		t.Errorf("status = %s, want NOT_STARTED", first.Status)
	}

	second, err := f.engine.Assign(ctx, "usr_1", "chl_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("expected same status row, got %s and %s", first.ID, second.ID)
	}
}

func TestEngine_Assign_UnknownChallenge(t *testing.T) {
	f := newEngineFixture(t)

	_, err := f.engine.Assign(context.Background(), "usr_1", "chl_missing")
	if !errors.Is(err, challenge.ErrChallengeNotFound) {
		t.Fatalf("expected ErrChallengeNotFound, got %v", err)
	}
}

// Two 6 kg increments against a 10 kg target: the first starts the
// challenge, the second clamps at the target and pays out once.
func TestEngine_Progress_MetricClampAndAward(t *testing.T) {
	f := newEngineFixture(t)
	f.addChallenge(t, metricChallenge("chl_1", 10, 100))
	ctx := context.Background()

	if _, err := f.engine.Assign(ctx, "usr_1", "chl_1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	update := challenge.Update{MetricUnit: challenge.MetricUnitKgCO2, Value: 6}

	status, err := f.engine.Progress(ctx, "usr_1", "chl_1", update)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.Status != challenge.StatusInProgress {
		t.Errorf("status = %s, want IN_PROGRESS", status.Status)
	}
	if status.CurrentValue != 6 {
		t.Errorf("current value = %v, want 6", status.CurrentValue)
	}

	status, err = f.engine.Progress(ctx, "usr_1", "chl_1", update)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.Status != challenge.StatusCompleted {
		t.Errorf("status = %s, want COMPLETED", status.Status)
	}
	if status.CurrentValue != 10 {
		t.Errorf("current value = %v, want clamped 10", status.CurrentValue)
	}
	if got := f.awarder.total("usr_1"); got != 100 {
		t.Errorf("points = %d, want 100", got)
	}

	// A completed status is frozen; further progress changes nothing
	// and pays nothing.
	status, err = f.engine.Progress(ctx, "usr_1", "chl_1", update)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.CurrentValue != 10 {
		t.Errorf("current value = %v, want 10", status.CurrentValue)
	}
	if got := f.awarder.total("usr_1"); got != 100 {
		t.Errorf("points = %d, want still 100", got)
	}
}

// flakyStatusRepository fails UpdateStatus a set number of times
// before delegating, simulating a transient write failure.
type flakyStatusRepository struct {
	*challenge.InMemoryRepository
	failures int
}

func (r *flakyStatusRepository) UpdateStatus(ctx context.Context, s *challenge.ChallengeStatus) error {
	if r.failures > 0 {
		r.failures--
		return errors.New("write timeout")
	}
	return r.InMemoryRepository.UpdateStatus(ctx, s)
}

// A transient write failure at the completing increment must not leave
// paid points behind an un-completed status: the failed call pays
// nothing, and the retry completes and pays the reward exactly once.
func TestEngine_Progress_RetryAfterWriteFailurePaysOnce(t *testing.T) {
	repo := &flakyStatusRepository{InMemoryRepository: challenge.NewInMemoryRepository()}
	awarder := newFakeAwarder()
	engine := challenge.NewEngine(challenge.EngineConfig{
		Repo:   repo,
		Points: awarder,
		Logger: zerolog.Nop(),
	})
	ctx := context.Background()

	c := metricChallenge("chl_1", 10, 50)
	if err := repo.CreateChallenge(ctx, &c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := engine.Assign(ctx, "usr_1", "chl_1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	update := challenge.Update{MetricUnit: challenge.MetricUnitKgCO2, Value: 6}
	if _, err := engine.Progress(ctx, "usr_1", "chl_1", update); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The write persisting the completed state fails once.
	repo.failures = 1
	if _, err := engine.Progress(ctx, "usr_1", "chl_1", update); err == nil {
		t.Fatal("expected error from failed status write")
	}
	if got := awarder.total("usr_1"); got != 0 {
		t.Errorf("points after failed write = %d, want 0", got)
	}

	status, err := engine.Progress(ctx, "usr_1", "chl_1", update)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.Status != challenge.StatusCompleted {
		t.Errorf("status = %s, want COMPLETED", status.Status)
	}
	if got := awarder.total("usr_1"); got != 50 {
		t.Errorf("points = %d, want exactly 50", got)
	}
}

func TestEngine_Progress_UnitMismatch(t *testing.T) {
	f := newEngineFixture(t)
	f.addChallenge(t, metricChallenge("chl_1", 10, 100))
	ctx := context.Background()

	if _, err := f.engine.Assign(ctx, "usr_1", "chl_1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := f.engine.Progress(ctx, "usr_1", "chl_1", challenge.Update{MetricUnit: "liters", Value: 3})
	if !errors.Is(err, challenge.ErrUnitMismatch) {
		t.Fatalf("expected ErrUnitMismatch, got %v", err)
	}

	// The mismatched update is a no-op.
	status, err := f.repo.GetStatus(ctx, "usr_1", "chl_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.CurrentValue != 0 || status.Status != challenge.StatusNotStarted {
		t.Errorf("status mutated by invalid update: %+v", status)
	}
}

func TestEngine_Progress_NoStatusRow(t *testing.T) {
	f := newEngineFixture(t)
	f.addChallenge(t, metricChallenge("chl_1", 10, 100))

	_, err := f.engine.Progress(context.Background(), "usr_1", "chl_1",
		challenge.Update{MetricUnit: challenge.MetricUnitKgCO2, Value: 3})
	if !errors.Is(err, challenge.ErrStatusNotFound) {
		t.Fatalf("expected ErrStatusNotFound, got %v", err)
	}
}

func TestEngine_Progress_NegativeMetricSkipped(t *testing.T) {
	f := newEngineFixture(t)
	f.addChallenge(t, metricChallenge("chl_1", 10, 100))
	ctx := context.Background()

	if _, err := f.engine.Assign(ctx, "usr_1", "chl_1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.engine.Progress(ctx, "usr_1", "chl_1",
		challenge.Update{MetricUnit: challenge.MetricUnitKgCO2, Value: 4}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A negative saving (dirty vehicle trip) never decreases progress.
	status, err := f.engine.Progress(ctx, "usr_1", "chl_1",
		challenge.Update{MetricUnit: challenge.MetricUnitKgCO2, Value: -2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.CurrentValue != 4 {
		t.Errorf("current value = %v, want 4", status.CurrentValue)
	}
}

func TestEngine_Complete(t *testing.T) {
	f := newEngineFixture(t)
	f.addChallenge(t, actionChallenge("chl_1", 2, 50))
	ctx := context.Background()

	// No status row yet.
	if _, err := f.engine.Complete(ctx, "usr_1", "chl_1"); !errors.Is(err, challenge.ErrStatusNotFound) {
		t.Fatalf("expected ErrStatusNotFound, got %v", err)
	}

	if _, err := f.engine.Assign(ctx, "usr_1", "chl_1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Target not met yet.
	if _, err := f.engine.Complete(ctx, "usr_1", "chl_1"); !errors.Is(err, challenge.ErrTargetNotMet) {
		t.Fatalf("expected ErrTargetNotMet, got %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := f.engine.Progress(ctx, "usr_1", "chl_1", challenge.Update{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// Progress already completed it at the target; an explicit
	// complete is rejected, not re-paid.
	if _, err := f.engine.Complete(ctx, "usr_1", "chl_1"); !errors.Is(err, challenge.ErrAlreadyCompleted) {
		t.Fatalf("expected ErrAlreadyCompleted, got %v", err)
	}
	if got := f.awarder.total("usr_1"); got != 50 {
		t.Errorf("points = %d, want 50", got)
	}
}

// Concurrent trips against the same ACTION challenge must not lose
// increments.
func TestEngine_RecordTrip_ConcurrentIncrements(t *testing.T) {
	f := newEngineFixture(t)
	f.addChallenge(t, actionChallenge("chl_1", 100, 10))
	ctx := context.Background()

	const trips = 20
	var wg sync.WaitGroup
	errs := make(chan error, trips)
	for i := 0; i < trips; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- f.engine.RecordTrip(ctx, "usr_1", 1.5)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	status, err := f.repo.GetStatus(ctx, "usr_1", "chl_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.CurrentValue != trips {
		t.Errorf("current value = %v, want %d", status.CurrentValue, trips)
	}
}

func TestEngine_RecordTrip_CreditsMatchingChallenges(t *testing.T) {
	f := newEngineFixture(t)
	f.addChallenge(t, metricChallenge("chl_metric", 100, 10))
	f.addChallenge(t, actionChallenge("chl_action", 100, 10))
	other := metricChallenge("chl_other_unit", 100, 10)
	other.MetricUnit = "trips"
	f.addChallenge(t, other)
	ctx := context.Background()

	if err := f.engine.RecordTrip(ctx, "usr_1", 2.5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	metricStatus, err := f.repo.GetStatus(ctx, "usr_1", "chl_metric")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if metricStatus.CurrentValue != 2.5 {
		t.Errorf("metric value = %v, want 2.5", metricStatus.CurrentValue)
	}

	actionStatus, err := f.repo.GetStatus(ctx, "usr_1", "chl_action")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if actionStatus.CurrentValue != 1 {
		t.Errorf("action value = %v, want 1", actionStatus.CurrentValue)
	}

	// A metric challenge measured in another unit gets no trip credit.
	if _, err := f.repo.GetStatus(ctx, "usr_1", "chl_other_unit"); !errors.Is(err, challenge.ErrStatusNotFound) {
		t.Fatalf("expected no status for other-unit challenge, got %v", err)
	}
}

func TestEngine_PeriodicReset(t *testing.T) {
	f := newEngineFixture(t)
	f.addChallenge(t, actionChallenge("chl_1", 1, 10))
	ctx := context.Background()

	if _, err := f.engine.Assign(ctx, "usr_1", "chl_1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	status, err := f.engine.Progress(ctx, "usr_1", "chl_1", challenge.Update{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.Status != challenge.StatusCompleted {
		t.Fatalf("status = %s, want COMPLETED", status.Status)
	}

	// Within the rest period the challenge stays completed.
	f.now = f.now.Add(6 * 24 * time.Hour)
	list, err := f.engine.ListForUser(ctx, "usr_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list[0].Status.Status != challenge.StatusCompleted {
		t.Errorf("status = %s, want COMPLETED", list[0].Status.Status)
	}

	// Past the rest period it resets to NOT_STARTED from scratch.
	f.now = f.now.Add(2 * 24 * time.Hour)
	list, err = f.engine.ListForUser(ctx, "usr_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list[0].Status.Status != challenge.StatusNotStarted {
		t.Errorf("status = %s, want NOT_STARTED", list[0].Status.Status)
	}
	if list[0].Status.CurrentValue != 0 {
		t.Errorf("current value = %v, want 0", list[0].Status.CurrentValue)
	}

	// Completing it again pays again.
	if _, err := f.engine.Progress(ctx, "usr_1", "chl_1", challenge.Update{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := f.awarder.total("usr_1"); got != 20 {
		t.Errorf("points = %d, want 20", got)
	}
}

func TestEngine_ListForUser_LazyAssign(t *testing.T) {
	f := newEngineFixture(t)
	f.addChallenge(t, metricChallenge("chl_1", 10, 100))
	f.addChallenge(t, actionChallenge("chl_2", 5, 50))

	list, err := f.engine.ListForUser(context.Background(), "usr_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 challenges, got %d", len(list))
	}
	for _, uc := range list {
		if uc.Status.Status != challenge.StatusNotStarted {
			t.Errorf("challenge %s: status = %s, want NOT_STARTED", uc.Challenge.ID, uc.Status.Status)
		}
		if uc.Status.UserID != "usr_1" {
			t.Errorf("status user = %s, want usr_1", uc.Status.UserID)
		}
	}
}
