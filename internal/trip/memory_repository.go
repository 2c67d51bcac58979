package trip

import (
	"context"
	"sort"
	"sync"
	"time"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu    sync.RWMutex
	trips map[string]*Trip
}

// NewInMemoryRepository creates a new in-memory trip repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		trips: make(map[string]*Trip),
	}
}

// Get retrieves a trip by ID.
func (r *InMemoryRepository) Get(_ context.Context, id string) (*Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.trips[id]
	if !ok {
		return nil, ErrTripNotFound
	}

	cpy := *t
	return &cpy, nil
}

// ListByUser retrieves all trips for a user, newest first.
func (r *InMemoryRepository) ListByUser(_ context.Context, userID string) ([]*Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var trips []*Trip
	for _, t := range r.trips {
		if t.UserID == userID {
			cpy := *t
			trips = append(trips, &cpy)
		}
	}

	sort.Slice(trips, func(i, j int) bool {
		return trips[i].CreatedAt.After(trips[j].CreatedAt)
	})

	return trips, nil
}

// Create creates a new trip.
func (r *InMemoryRepository) Create(_ context.Context, t *Trip) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *t
	r.trips[t.ID] = &cpy
	return nil
}

// Update updates an existing trip.
func (r *InMemoryRepository) Update(_ context.Context, t *Trip) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.trips[t.ID]; !ok {
		return ErrTripNotFound
	}

	cpy := *t
	r.trips[t.ID] = &cpy
	return nil
}

// Delete deletes a trip by ID.
func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.trips, id)
	return nil
}

// Statistics computes the per-user rollup over all trips.
func (r *InMemoryRepository) Statistics(_ context.Context, userID string) (*Statistics, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var stats Statistics
	for _, t := range r.trips {
		if t.UserID != userID {
			continue
		}
		stats.TripCount++
		stats.TotalDistanceKm += t.DistanceKm
		stats.TotalDurationSeconds += t.DurationSeconds
		stats.TotalEmissionsCO2eKg += t.EmissionsCO2eKg
		stats.TotalSavedCO2eKg += t.SavedEmissionsCO2eKg
	}

	return &stats, nil
}

// Leaderboard aggregates the given metric per user.
func (r *InMemoryRepository) Leaderboard(_ context.Context, metric LeaderboardMetric, since time.Time) ([]LeaderboardRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type bucket struct {
		emissions float64
		saved     float64
		duration  float64
		distance  float64
	}

	buckets := make(map[string]*bucket)
	for _, t := range r.trips {
		if t.CreatedAt.Before(since) {
			continue
		}
		b, ok := buckets[t.UserID]
		if !ok {
			b = &bucket{}
			buckets[t.UserID] = b
		}
		b.emissions += t.EmissionsCO2eKg
		b.saved += t.SavedEmissionsCO2eKg
		b.duration += float64(t.DurationSeconds)
		b.distance += t.DistanceKm
	}

	ascending := metric == MetricTotalEmissions || metric == MetricAverageCO2ePerKm

	var rows []LeaderboardRow
	for userID, b := range buckets {
		var value float64
		switch metric {
		case MetricTotalEmissions:
			value = b.emissions
		case MetricTotalSavedEmissions:
			value = b.saved
		case MetricTotalDuration:
			value = b.duration
		case MetricTotalDistance:
			value = b.distance
		case MetricAverageCO2ePerKm:
			if b.distance > 0 {
				value = b.emissions / b.distance
			}
		}
		rows = append(rows, LeaderboardRow{UserID: userID, Value: value})
	}

	sort.Slice(rows, func(i, j int) bool {
		if ascending {
			return rows[i].Value < rows[j].Value
		}
		return rows[i].Value > rows[j].Value
	})

	return rows, nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
