package vehicle

import "context"

// Repository defines the interface for vehicle data persistence.
type Repository interface {
	// Get retrieves a vehicle by ID.
	Get(ctx context.Context, id string) (*Vehicle, error)

	// GetByOwnerAndID retrieves a vehicle by owner ID and vehicle ID.
	// Returns ErrVehicleNotFound if the vehicle doesn't exist or doesn't belong to the owner.
	GetByOwnerAndID(ctx context.Context, ownerID, vehicleID string) (*Vehicle, error)

	// GetDefault retrieves the owner's default vehicle.
	// Returns ErrVehicleNotFound if no default is set.
	GetDefault(ctx context.Context, ownerID string) (*Vehicle, error)

	// List retrieves all vehicles for an owner.
	List(ctx context.Context, ownerID string) ([]*Vehicle, error)

	// Create creates a new vehicle.
	Create(ctx context.Context, v *Vehicle) error

	// Update updates an existing vehicle.
	Update(ctx context.Context, v *Vehicle) error

	// SetDefault marks the given vehicle as the owner's default and
	// clears the flag on every other vehicle of the owner.
	SetDefault(ctx context.Context, ownerID, vehicleID string) error

	// Delete deletes a vehicle by ID.
	Delete(ctx context.Context, id string) error
}
