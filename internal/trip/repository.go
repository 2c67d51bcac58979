package trip

import (
	"context"
	"time"
)

// Repository defines the interface for trip data persistence.
type Repository interface {
	// Get retrieves a trip by ID.
	Get(ctx context.Context, id string) (*Trip, error)

	// ListByUser retrieves all trips for a user, newest first.
	ListByUser(ctx context.Context, userID string) ([]*Trip, error)

	// Create creates a new trip.
	Create(ctx context.Context, t *Trip) error

	// Update updates an existing trip.
	Update(ctx context.Context, t *Trip) error

	// Delete deletes a trip by ID.
	Delete(ctx context.Context, id string) error

	// Statistics computes the per-user rollup over all trips.
	Statistics(ctx context.Context, userID string) (*Statistics, error)

	// Leaderboard aggregates the given metric per user over trips
	// created at or after since. A zero since means all trips.
	// Rows are ordered best-first for the metric.
	Leaderboard(ctx context.Context, metric LeaderboardMetric, since time.Time) ([]LeaderboardRow, error)
}
