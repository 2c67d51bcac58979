// Package challenge provides gamified challenge definitions and the
// per-user progress state machine.
package challenge

import (
	"errors"
	"time"
)

// Repository and engine errors.
var (
	ErrChallengeNotFound = errors.New("challenge not found")
	ErrStatusNotFound    = errors.New("challenge status not found")

	// ErrAlreadyCompleted is returned when completing a challenge whose
	// status is already COMPLETED.
	ErrAlreadyCompleted = errors.New("challenge already completed")
	// ErrTargetNotMet is returned when completing a challenge whose
	// accumulated value is below the target.
	ErrTargetNotMet = errors.New("challenge target not met")
	// ErrUnitMismatch is returned when a metric update names a unit
	// that does not match the challenge's metric unit.
	ErrUnitMismatch = errors.New("metric unit does not match challenge")
)

// MetricUnitKgCO2 is the metric unit credited by recorded trips.
const MetricUnitKgCO2 = "kg CO2"

// Type distinguishes cumulative-value challenges from count-based ones.
type Type string

// Challenge types.
const (
	// TypeMetric challenges accumulate a measured quantity toward the
	// target, e.g. kilograms of CO2e saved.
	TypeMetric Type = "METRIC"
	// TypeAction challenges count qualifying events, one unit each.
	TypeAction Type = "ACTION"
)

// ParseType parses a challenge type name.
func ParseType(s string) (Type, bool) {
	switch Type(s) {
	case TypeMetric, TypeAction:
		return Type(s), true
	}
	return "", false
}

// Status is the state of a (user, challenge) pair.
type Status string

// Challenge status states.
const (
	StatusNotStarted Status = "NOT_STARTED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

// ParseStatus parses a status name.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return Status(s), true
	}
	return "", false
}

// Challenge is a static challenge definition.
type Challenge struct {
	ID           string
	Title        string
	Description  string
	RewardPoints int
	// DurationDays is the period after completion before the challenge
	// resets and can be done again.
	DurationDays int
	Type         Type
	TargetValue  float64
	// MetricUnit is set for METRIC challenges only.
	MetricUnit string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ChallengeStatus is the progress of one user on one challenge.
// The engine is the sole writer of Status and CurrentValue.
type ChallengeStatus struct {
	ID          string
	UserID      string
	ChallengeID string
	Status      Status
	// CurrentValue never decreases while Status is not COMPLETED, and
	// is frozen once it is.
	CurrentValue float64
	StartedAt    *time.Time
	CompletedAt  *time.Time
	// RewardedAt marks that the reward for the current completion has
	// been claimed. It is cleared on periodic reset.
	RewardedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
