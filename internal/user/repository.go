package user

import "context"

// Repository defines the interface for user data persistence.
type Repository interface {
	// Get retrieves a user by ID.
	Get(ctx context.Context, id string) (*User, error)

	// GetByUsername retrieves a user by username.
	GetByUsername(ctx context.Context, username string) (*User, error)

	// Create creates a new user. Returns ErrUsernameTaken if the
	// username is already registered.
	Create(ctx context.Context, u *User) error

	// Update updates an existing user.
	Update(ctx context.Context, u *User) error

	// AddPoints atomically adds points to the user's balance.
	AddPoints(ctx context.Context, id string, points int) error

	// Delete deletes a user by ID.
	Delete(ctx context.Context, id string) error
}
