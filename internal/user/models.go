// Package user provides user account management and reward points.
package user

import (
	"errors"
	"time"
)

// Repository and service errors.
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
)

// User represents a registered user.
type User struct {
	// ID is the unique user identifier (format: usr_XXXX).
	ID string

	// Username is the unique login name.
	Username string

	FirstName string
	LastName  string

	// PasswordHash is the bcrypt hash of the user's password.
	// Never exposed at the API boundary.
	PasswordHash string

	// Points is the reward point balance earned from completed challenges.
	Points int

	CreatedAt time.Time
	UpdatedAt time.Time
}
