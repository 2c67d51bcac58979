package models

import "time"

// Challenge is the API representation of a challenge definition.
type Challenge struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	RewardPoints int     `json:"rewardPoints"`
	DurationDays int     `json:"durationDays"`
	Type         string  `json:"type"`
	TargetValue  float64 `json:"targetValue"`
	MetricUnit   string  `json:"metricUnit,omitempty"`
}

// ChallengeCreateRequest defines a new challenge.
type ChallengeCreateRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	RewardPoints int     `json:"rewardPoints"`
	DurationDays int     `json:"durationDays"`
	Type         string  `json:"type"`
	TargetValue  float64 `json:"targetValue"`
	MetricUnit   string  `json:"metricUnit,omitempty"`
}

// ChallengeStatus is a user's progress on one challenge.
type ChallengeStatus struct {
	ChallengeID  string     `json:"challengeId"`
	Status       string     `json:"status"`
	CurrentValue float64    `json:"currentValue"`
	StartedAt    *time.Time `json:"startedAt,omitempty"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

// UserChallenge pairs a challenge definition with the user's status.
type UserChallenge struct {
	Challenge Challenge       `json:"challenge"`
	Status    ChallengeStatus `json:"status"`
}

// ChallengeProgressRequest advances a user's challenge. MetricUnit and
// Value apply to METRIC challenges; ACTION challenges advance by one.
type ChallengeProgressRequest struct {
	MetricUnit string  `json:"metricUnit,omitempty"`
	Value      float64 `json:"value,omitempty"`
}
