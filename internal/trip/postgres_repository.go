package trip

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ollav12/DAT251/internal/database"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	db database.DB
}

// NewPostgresRepository creates a new PostgreSQL trip repository.
// The db may be a pool or an open transaction.
func NewPostgresRepository(db database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const tripColumns = `
	id, user_id, origin, destination, mode, vehicle_id,
	distance_km, duration_seconds, emissions_co2e_kg, saved_emissions_co2e_kg,
	created_at, updated_at
`

// Get retrieves a trip by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Trip, error) {
	query := `SELECT` + tripColumns + `FROM trips WHERE id = $1`

	var t Trip
	err := r.db.QueryRow(ctx, query, id).Scan(
		&t.ID,
		&t.UserID,
		&t.Origin,
		&t.Destination,
		&t.Mode,
		&t.VehicleID,
		&t.DistanceKm,
		&t.DurationSeconds,
		&t.EmissionsCO2eKg,
		&t.SavedEmissionsCO2eKg,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}

	return &t, nil
}

// ListByUser retrieves all trips for a user, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*Trip, error) {
	query := `SELECT` + tripColumns + `FROM trips WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*Trip
	for rows.Next() {
		var t Trip
		err := rows.Scan(
			&t.ID,
			&t.UserID,
			&t.Origin,
			&t.Destination,
			&t.Mode,
			&t.VehicleID,
			&t.DistanceKm,
			&t.DurationSeconds,
			&t.EmissionsCO2eKg,
			&t.SavedEmissionsCO2eKg,
			&t.CreatedAt,
			&t.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		trips = append(trips, &t)
	}

	return trips, rows.Err()
}

// Create creates a new trip.
func (r *PostgresRepository) Create(ctx context.Context, t *Trip) error {
	query := `
		INSERT INTO trips (
			id, user_id, origin, destination, mode, vehicle_id,
			distance_km, duration_seconds, emissions_co2e_kg, saved_emissions_co2e_kg,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(ctx, query,
		t.ID, t.UserID, t.Origin, t.Destination, t.Mode, t.VehicleID,
		t.DistanceKm, t.DurationSeconds, t.EmissionsCO2eKg, t.SavedEmissionsCO2eKg,
		t.CreatedAt, t.UpdatedAt,
	)
	return err
}

// Update updates an existing trip.
func (r *PostgresRepository) Update(ctx context.Context, t *Trip) error {
	query := `
		UPDATE trips SET
			origin = $2, destination = $3, mode = $4, vehicle_id = $5,
			distance_km = $6, duration_seconds = $7,
			emissions_co2e_kg = $8, saved_emissions_co2e_kg = $9, updated_at = $10
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		t.ID, t.Origin, t.Destination, t.Mode, t.VehicleID,
		t.DistanceKm, t.DurationSeconds,
		t.EmissionsCO2eKg, t.SavedEmissionsCO2eKg, t.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTripNotFound
	}
	return nil
}

// Delete deletes a trip by ID.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM trips WHERE id = $1`, id)
	return err
}

// Statistics computes the per-user rollup over all trips.
func (r *PostgresRepository) Statistics(ctx context.Context, userID string) (*Statistics, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(distance_km), 0),
			COALESCE(SUM(duration_seconds), 0),
			COALESCE(SUM(emissions_co2e_kg), 0),
			COALESCE(SUM(saved_emissions_co2e_kg), 0)
		FROM trips
		WHERE user_id = $1
	`

	var stats Statistics
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&stats.TripCount,
		&stats.TotalDistanceKm,
		&stats.TotalDurationSeconds,
		&stats.TotalEmissionsCO2eKg,
		&stats.TotalSavedCO2eKg,
	)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

// leaderboardAggregates maps metrics to their SQL aggregate and sort
// direction. Emission metrics rank ascending since lower is greener.
var leaderboardAggregates = map[LeaderboardMetric]struct {
	expr      string
	direction string
}{
	MetricTotalEmissions:      {"COALESCE(SUM(emissions_co2e_kg), 0)", "ASC"},
	MetricTotalSavedEmissions: {"COALESCE(SUM(saved_emissions_co2e_kg), 0)", "DESC"},
	MetricTotalDuration:       {"COALESCE(SUM(duration_seconds), 0)", "DESC"},
	MetricTotalDistance:       {"COALESCE(SUM(distance_km), 0)", "DESC"},
	MetricAverageCO2ePerKm:    {"COALESCE(SUM(emissions_co2e_kg) / NULLIF(SUM(distance_km), 0), 0)", "ASC"},
}

// Leaderboard aggregates the given metric per user.
func (r *PostgresRepository) Leaderboard(ctx context.Context, metric LeaderboardMetric, since time.Time) ([]LeaderboardRow, error) {
	agg, ok := leaderboardAggregates[metric]
	if !ok {
		return nil, fmt.Errorf("unknown leaderboard metric %q", metric)
	}

	query := fmt.Sprintf(`
		SELECT user_id, %s AS value
		FROM trips
		WHERE created_at >= $1
		GROUP BY user_id
		ORDER BY value %s
		LIMIT 100
	`, agg.expr, agg.direction)

	rows, err := r.db.Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []LeaderboardRow
	for rows.Next() {
		var row LeaderboardRow
		if err := rows.Scan(&row.UserID, &row.Value); err != nil {
			return nil, err
		}
		result = append(result, row)
	}

	return result, rows.Err()
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
