package challenge

import "context"

// Repository defines the interface for challenge data persistence.
type Repository interface {
	// GetChallenge retrieves a challenge by ID.
	GetChallenge(ctx context.Context, id string) (*Challenge, error)

	// ListChallenges retrieves all challenge definitions.
	ListChallenges(ctx context.Context) ([]*Challenge, error)

	// CreateChallenge creates a new challenge definition.
	CreateChallenge(ctx context.Context, c *Challenge) error

	// DeleteChallenge deletes a challenge and every status belonging
	// to it.
	DeleteChallenge(ctx context.Context, id string) error

	// GetStatus retrieves the status of a (user, challenge) pair.
	GetStatus(ctx context.Context, userID, challengeID string) (*ChallengeStatus, error)

	// ListStatusesByUser retrieves all statuses of a user.
	ListStatusesByUser(ctx context.Context, userID string) ([]*ChallengeStatus, error)

	// CreateStatus creates a new challenge status.
	CreateStatus(ctx context.Context, s *ChallengeStatus) error

	// UpdateStatus updates an existing challenge status.
	UpdateStatus(ctx context.Context, s *ChallengeStatus) error
}
