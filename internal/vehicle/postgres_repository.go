package vehicle

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

// NewPostgresRepository creates a new PostgreSQL vehicle repository.
// The db may be a pool or an open transaction.
func NewPostgresRepository(db database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const vehicleColumns = `
	id, owner_id, make, model, year, type,
	emissions_grams_per_km, is_default, created_at, updated_at
`

// Get retrieves a vehicle by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Vehicle, error) {
	query := `SELECT` + vehicleColumns + `FROM vehicles WHERE id = $1`
	return r.scanVehicle(ctx, query, id)
}

// GetByOwnerAndID retrieves a vehicle by owner ID and vehicle ID.
func (r *PostgresRepository) GetByOwnerAndID(ctx context.Context, ownerID, vehicleID string) (*Vehicle, error) {
	query := `SELECT` + vehicleColumns + `FROM vehicles WHERE id = $1 AND owner_id = $2`
	return r.scanVehicle(ctx, query, vehicleID, ownerID)
}

// GetDefault retrieves the owner's default vehicle.
func (r *PostgresRepository) GetDefault(ctx context.Context, ownerID string) (*Vehicle, error) {
	query := `SELECT` + vehicleColumns + `FROM vehicles WHERE owner_id = $1 AND is_default`
	return r.scanVehicle(ctx, query, ownerID)
}

// scanVehicle scans a vehicle from a query result.
func (r *PostgresRepository) scanVehicle(ctx context.Context, query string, args ...interface{}) (*Vehicle, error) {
	var v Vehicle

	err := r.db.QueryRow(ctx, query, args...).Scan(
		&v.ID,
		&v.OwnerID,
		&v.Make,
		&v.Model,
		&v.Year,
		&v.Type,
		&v.EmissionsGramsPerKm,
		&v.IsDefault,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}

	return &v, nil
}

// List retrieves all vehicles for an owner.
func (r *PostgresRepository) List(ctx context.Context, ownerID string) ([]*Vehicle, error) {
	query := `SELECT` + vehicleColumns + `FROM vehicles WHERE owner_id = $1 ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []*Vehicle
	for rows.Next() {
		var v Vehicle
		err := rows.Scan(
			&v.ID,
			&v.OwnerID,
			&v.Make,
			&v.Model,
			&v.Year,
			&v.Type,
			&v.EmissionsGramsPerKm,
			&v.IsDefault,
			&v.CreatedAt,
			&v.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, &v)
	}

	return vehicles, rows.Err()
}

// Create creates a new vehicle.
func (r *PostgresRepository) Create(ctx context.Context, v *Vehicle) error {
	query := `
		INSERT INTO vehicles (
			id, owner_id, make, model, year, type,
			emissions_grams_per_km, is_default, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		v.ID, v.OwnerID, v.Make, v.Model, v.Year, v.Type,
		v.EmissionsGramsPerKm, v.IsDefault, v.CreatedAt, v.UpdatedAt,
	)
	return err
}

// Update updates an existing vehicle.
func (r *PostgresRepository) Update(ctx context.Context, v *Vehicle) error {
	query := `
		UPDATE vehicles SET
			make = $2, model = $3, year = $4, type = $5,
			emissions_grams_per_km = $6, is_default = $7, updated_at = $8
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		v.ID, v.Make, v.Model, v.Year, v.Type,
		v.EmissionsGramsPerKm, v.IsDefault, v.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrVehicleNotFound
	}
	return nil
}

// SetDefault marks the given vehicle as the owner's default.
func (r *PostgresRepository) SetDefault(ctx context.Context, ownerID, vehicleID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE vehicles SET is_default = false WHERE owner_id = $1`, ownerID); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx,
		`UPDATE vehicles SET is_default = true WHERE id = $1 AND owner_id = $2`, vehicleID, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrVehicleNotFound
	}

	return tx.Commit(ctx)
}

// Delete deletes a vehicle by ID.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	return err
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
