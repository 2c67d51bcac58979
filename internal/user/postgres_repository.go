package user

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ollav12/DAT251/internal/database"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	db database.DB
}

// NewPostgresRepository creates a new PostgreSQL user repository.
// The db may be a pool or an open transaction.
func NewPostgresRepository(db database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `
	id, username, first_name, last_name, password_hash, points,
	created_at, updated_at
`

// Get retrieves a user by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*User, error) {
	query := `SELECT` + userColumns + `FROM users WHERE id = $1`
	return r.scanUser(ctx, query, id)
}

// GetByUsername retrieves a user by username.
func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	query := `SELECT` + userColumns + `FROM users WHERE username = $1`
	return r.scanUser(ctx, query, username)
}

// scanUser scans a user from a query result.
func (r *PostgresRepository) scanUser(ctx context.Context, query string, args ...interface{}) (*User, error) {
	var u User

	err := r.db.QueryRow(ctx, query, args...).Scan(
		&u.ID,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&u.PasswordHash,
		&u.Points,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &u, nil
}

// Create creates a new user.
func (r *PostgresRepository) Create(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (
			id, username, first_name, last_name, password_hash, points,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		u.ID, u.Username, u.FirstName, u.LastName, u.PasswordHash, u.Points,
		u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505 is unique_violation; the only unique constraint beside
		// the primary key is on username.
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrUsernameTaken
		}
		return err
	}
	return nil
}

// Update updates an existing user.
func (r *PostgresRepository) Update(ctx context.Context, u *User) error {
	query := `
		UPDATE users SET
			username = $2, first_name = $3, last_name = $4,
			password_hash = $5, points = $6, updated_at = $7
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		u.ID, u.Username, u.FirstName, u.LastName, u.PasswordHash, u.Points, u.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// AddPoints atomically adds points to the user's balance.
func (r *PostgresRepository) AddPoints(ctx context.Context, id string, points int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET points = points + $2, updated_at = now() WHERE id = $1`, id, points)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Delete deletes a user by ID.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
