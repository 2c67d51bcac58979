package challenge

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// lockStripes is the number of mutexes progress updates are sharded
// over. Collisions only cost unnecessary serialization, never
// correctness.
const lockStripes = 64

// PointsAwarder credits reward points to a user's balance.
// Satisfied by user.Service.
type PointsAwarder interface {
	AddPoints(ctx context.Context, userID string, points int) error
}

// Update is a progress increment. MetricUnit and Value apply to METRIC
// challenges; ACTION challenges always advance by one.
type Update struct {
	MetricUnit string
	Value      float64
}

// EngineConfig holds the dependencies of the progress engine.
type EngineConfig struct {
	Repo   Repository
	Points PointsAwarder
	Logger zerolog.Logger

	// Now overrides the clock, for tests. Defaults to time.Now.
	Now func() time.Time
}

// Engine is the challenge progress state machine. All writes to a
// (user, challenge) status are serialized through a striped lock so
// concurrent trips cannot lose increments.
type Engine struct {
	repo   Repository
	points PointsAwarder
	logger zerolog.Logger
	now    func() time.Time

	locks [lockStripes]sync.Mutex
}

// NewEngine creates a new challenge progress engine.
func NewEngine(cfg EngineConfig) *Engine {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		repo:   cfg.Repo,
		points: cfg.Points,
		logger: cfg.Logger,
		now:    now,
	}
}

// lock acquires the stripe for a (user, challenge) pair and returns
// its unlock func.
func (e *Engine) lock(userID, challengeID string) func() {
	h := fnv.New32a()
	h.Write([]byte(userID))
	h.Write([]byte{'|'})
	h.Write([]byte(challengeID))
	mu := &e.locks[h.Sum32()%lockStripes]
	mu.Lock()
	return mu.Unlock
}

// Assign creates a NOT_STARTED status for a (user, challenge) pair.
// Assigning an already-assigned pair returns the existing status.
func (e *Engine) Assign(ctx context.Context, userID, challengeID string) (*ChallengeStatus, error) {
	if _, err := e.repo.GetChallenge(ctx, challengeID); err != nil {
		return nil, err
	}

	unlock := e.lock(userID, challengeID)
	defer unlock()

	status, err := e.repo.GetStatus(ctx, userID, challengeID)
	if err == nil {
		return status, nil
	}
	if !errors.Is(err, ErrStatusNotFound) {
		return nil, err
	}

	now := e.now()
	status = &ChallengeStatus{
		ID:          "cst_" + uuid.New().String()[:22],
		UserID:      userID,
		ChallengeID: challengeID,
		Status:      StatusNotStarted,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := e.repo.CreateStatus(ctx, status); err != nil {
		return nil, err
	}

	return status, nil
}

// Progress advances a (user, challenge) pair by one update. A pair
// with no status row is a not-found error. A metric update whose unit
// does not match the challenge is a validation error and changes
// nothing. A COMPLETED status is frozen; progress on it is a no-op.
func (e *Engine) Progress(ctx context.Context, userID, challengeID string, update Update) (*ChallengeStatus, error) {
	c, err := e.repo.GetChallenge(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	unlock := e.lock(userID, challengeID)
	defer unlock()

	status, err := e.loadStatus(ctx, c, userID)
	if err != nil {
		return nil, err
	}

	if status.Status == StatusCompleted {
		return status, nil
	}

	increment := 1.0
	if c.Type == TypeMetric {
		if update.MetricUnit != c.MetricUnit {
			return nil, ErrUnitMismatch
		}
		increment = update.Value
	}

	return e.advance(ctx, c, status, increment)
}

// advance applies one increment under the stripe lock, clamping at the
// target. The status write lands before any points move, so a failed
// write never leaves a paid reward behind an un-completed row.
func (e *Engine) advance(ctx context.Context, c *Challenge, status *ChallengeStatus, increment float64) (*ChallengeStatus, error) {
	now := e.now()

	if status.Status == StatusNotStarted {
		status.Status = StatusInProgress
		status.StartedAt = &now
	}

	// Negative or zero metric increments would break monotonicity.
	if increment > 0 {
		status.CurrentValue += increment
	}

	completed := false
	if status.CurrentValue >= c.TargetValue {
		status.CurrentValue = c.TargetValue
		status.Status = StatusCompleted
		status.CompletedAt = &now
		status.RewardedAt = &now
		completed = true
	}

	status.UpdatedAt = now
	if err := e.repo.UpdateStatus(ctx, status); err != nil {
		return nil, err
	}

	if completed {
		// The reward claim is durable before any points move. A failed
		// write above means no claim and no payment, so the caller can
		// retry; a points failure here is logged rather than surfaced,
		// since a retry would find the claim and must not pay twice.
		if err := e.points.AddPoints(ctx, status.UserID, c.RewardPoints); err != nil {
			e.logger.Error().
				Err(err).
				Str("user_id", status.UserID).
				Str("challenge_id", c.ID).
				Int("reward_points", c.RewardPoints).
				Msg("failed to pay challenge reward")
		} else {
			e.logger.Info().
				Str("user_id", status.UserID).
				Str("challenge_id", c.ID).
				Int("reward_points", c.RewardPoints).
				Msg("challenge completed")
		}
	}

	return status, nil
}

// Complete explicitly completes a challenge. The target must already
// be met; completion never pays reward points twice.
func (e *Engine) Complete(ctx context.Context, userID, challengeID string) (*ChallengeStatus, error) {
	c, err := e.repo.GetChallenge(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	unlock := e.lock(userID, challengeID)
	defer unlock()

	status, err := e.loadStatus(ctx, c, userID)
	if err != nil {
		return nil, err
	}

	if status.Status == StatusCompleted {
		return nil, ErrAlreadyCompleted
	}
	if status.CurrentValue < c.TargetValue {
		return nil, ErrTargetNotMet
	}

	return e.advance(ctx, c, status, 0)
}

// RecordTrip credits every challenge of the user for one recorded
// trip: METRIC challenges measured in kg CO2 advance by the trip's
// saved emissions, ACTION challenges by one. Statuses are created
// lazily for challenges the user has not touched yet.
func (e *Engine) RecordTrip(ctx context.Context, userID string, savedKg float64) error {
	challenges, err := e.repo.ListChallenges(ctx)
	if err != nil {
		return err
	}

	for _, c := range challenges {
		update := Update{}
		if c.Type == TypeMetric {
			if c.MetricUnit != MetricUnitKgCO2 {
				continue
			}
			update = Update{MetricUnit: MetricUnitKgCO2, Value: savedKg}
		}

		if _, err := e.Assign(ctx, userID, c.ID); err != nil {
			return err
		}
		if _, err := e.Progress(ctx, userID, c.ID, update); err != nil {
			return err
		}
	}

	return nil
}

// UserChallenge pairs a challenge definition with the user's status.
type UserChallenge struct {
	Challenge *Challenge
	Status    *ChallengeStatus
}

// ListForUser returns every challenge with the user's status, creating
// NOT_STARTED statuses for challenges the user has not touched and
// resetting completed periodic challenges whose rest period has
// elapsed.
func (e *Engine) ListForUser(ctx context.Context, userID string) ([]UserChallenge, error) {
	challenges, err := e.repo.ListChallenges(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]UserChallenge, 0, len(challenges))
	for _, c := range challenges {
		status, err := e.Assign(ctx, userID, c.ID)
		if err != nil {
			return nil, err
		}

		unlock := e.lock(userID, c.ID)
		status, err = e.loadStatus(ctx, c, userID)
		unlock()
		if err != nil {
			return nil, err
		}

		result = append(result, UserChallenge{Challenge: c, Status: status})
	}

	return result, nil
}

// loadStatus fetches a status and applies the periodic reset if the
// challenge was completed more than DurationDays ago. Must be called
// with the stripe lock held.
func (e *Engine) loadStatus(ctx context.Context, c *Challenge, userID string) (*ChallengeStatus, error) {
	status, err := e.repo.GetStatus(ctx, userID, c.ID)
	if err != nil {
		return nil, err
	}

	if status.Status != StatusCompleted || c.DurationDays <= 0 || status.CompletedAt == nil {
		return status, nil
	}
	resetAt := status.CompletedAt.AddDate(0, 0, c.DurationDays)
	if !e.now().After(resetAt) {
		return status, nil
	}

	// A reset challenge restarts from scratch; carrying the old value
	// over would complete it again immediately.
	status.Status = StatusNotStarted
	status.CurrentValue = 0
	status.StartedAt = nil
	status.CompletedAt = nil
	status.RewardedAt = nil
	status.UpdatedAt = e.now()

	if err := e.repo.UpdateStatus(ctx, status); err != nil {
		return nil, err
	}

	e.logger.Debug().
		Str("user_id", userID).
		Str("challenge_id", c.ID).
		Msg("periodic challenge reset")

	return status, nil
}
