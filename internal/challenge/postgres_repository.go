package challenge

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/ollav12/DAT251/internal/database"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	db database.DB
}

// NewPostgresRepository creates a new PostgreSQL challenge repository.
// The db may be a pool or an open transaction.
func NewPostgresRepository(db database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const challengeColumns = `
	id, title, description, reward_points, duration_days, type,
	target_value, metric_unit, created_at, updated_at
`

const statusColumns = `
	id, user_id, challenge_id, status, current_value,
	started_at, completed_at, rewarded_at, created_at, updated_at
`

// GetChallenge retrieves a challenge by ID.
func (r *PostgresRepository) GetChallenge(ctx context.Context, id string) (*Challenge, error) {
	query := `SELECT` + challengeColumns + `FROM challenges WHERE id = $1`

	var c Challenge
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.Title,
		&c.Description,
		&c.RewardPoints,
		&c.DurationDays,
		&c.Type,
		&c.TargetValue,
		&c.MetricUnit,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrChallengeNotFound
		}
		return nil, err
	}

	return &c, nil
}

// ListChallenges retrieves all challenge definitions.
func (r *PostgresRepository) ListChallenges(ctx context.Context) ([]*Challenge, error) {
	query := `SELECT` + challengeColumns + `FROM challenges ORDER BY created_at`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var challenges []*Challenge
	for rows.Next() {
		var c Challenge
		err := rows.Scan(
			&c.ID,
			&c.Title,
			&c.Description,
			&c.RewardPoints,
			&c.DurationDays,
			&c.Type,
			&c.TargetValue,
			&c.MetricUnit,
			&c.CreatedAt,
			&c.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		challenges = append(challenges, &c)
	}

	return challenges, rows.Err()
}

// CreateChallenge creates a new challenge definition.
func (r *PostgresRepository) CreateChallenge(ctx context.Context, c *Challenge) error {
	query := `
		INSERT INTO challenges (
			id, title, description, reward_points, duration_days, type,
			target_value, metric_unit, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		c.ID, c.Title, c.Description, c.RewardPoints, c.DurationDays, c.Type,
		c.TargetValue, c.MetricUnit, c.CreatedAt, c.UpdatedAt,
	)
	return err
}

// DeleteChallenge deletes a challenge and every status belonging to it.
func (r *PostgresRepository) DeleteChallenge(ctx context.Context, id string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM challenge_statuses WHERE challenge_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM challenges WHERE id = $1`, id); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetStatus retrieves the status of a (user, challenge) pair.
func (r *PostgresRepository) GetStatus(ctx context.Context, userID, challengeID string) (*ChallengeStatus, error) {
	query := `SELECT` + statusColumns + `FROM challenge_statuses WHERE user_id = $1 AND challenge_id = $2`
	return r.scanStatus(ctx, query, userID, challengeID)
}

// scanStatus scans a challenge status from a query result.
func (r *PostgresRepository) scanStatus(ctx context.Context, query string, args ...interface{}) (*ChallengeStatus, error) {
	var s ChallengeStatus

	err := r.db.QueryRow(ctx, query, args...).Scan(
		&s.ID,
		&s.UserID,
		&s.ChallengeID,
		&s.Status,
		&s.CurrentValue,
		&s.StartedAt,
		&s.CompletedAt,
		&s.RewardedAt,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStatusNotFound
		}
		return nil, err
	}

	return &s, nil
}

// ListStatusesByUser retrieves all statuses of a user.
func (r *PostgresRepository) ListStatusesByUser(ctx context.Context, userID string) ([]*ChallengeStatus, error) {
	query := `SELECT` + statusColumns + `FROM challenge_statuses WHERE user_id = $1 ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statuses []*ChallengeStatus
	for rows.Next() {
		var s ChallengeStatus
		err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.ChallengeID,
			&s.Status,
			&s.CurrentValue,
			&s.StartedAt,
			&s.CompletedAt,
			&s.RewardedAt,
			&s.CreatedAt,
			&s.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, &s)
	}

	return statuses, rows.Err()
}

// CreateStatus creates a new challenge status.
func (r *PostgresRepository) CreateStatus(ctx context.Context, s *ChallengeStatus) error {
	query := `
		INSERT INTO challenge_statuses (
			id, user_id, challenge_id, status, current_value,
			started_at, completed_at, rewarded_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		s.ID, s.UserID, s.ChallengeID, s.Status, s.CurrentValue,
		s.StartedAt, s.CompletedAt, s.RewardedAt, s.CreatedAt, s.UpdatedAt,
	)
	return err
}

// UpdateStatus updates an existing challenge status.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, s *ChallengeStatus) error {
	query := `
		UPDATE challenge_statuses SET
			status = $2, current_value = $3,
			started_at = $4, completed_at = $5, rewarded_at = $6, updated_at = $7
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		s.ID, s.Status, s.CurrentValue, s.StartedAt, s.CompletedAt, s.RewardedAt, s.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStatusNotFound
	}
	return nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
