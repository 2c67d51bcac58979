package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ollav12/DAT251/internal/api/models"
)

// Service errors.
var (
	// ErrInvalidCredentials is returned when a username/password pair
	// does not match a registered user.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Validation constants.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 40
	MinPasswordLength = 8
)

// RegisterInput is the input to Register.
type RegisterInput struct {
	Username  string
	FirstName string
	LastName  string
	Password  string
}

// UpdateInput is the input to Update. Nil fields are left unchanged.
type UpdateInput struct {
	FirstName *string
	LastName  *string
	Password  *string
}

// ValidationError represents validation errors.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// Service provides user account operations.
type Service struct {
	repo Repository
}

// NewService creates a new user service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a new user account with a hashed password.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	if fieldErrors := s.validateRegisterInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u := &User{
		ID:           "usr_" + uuid.New().String()[:22],
		Username:     input.Username,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

// validateRegisterInput validates a registration request.
func (s *Service) validateRegisterInput(input RegisterInput) []models.FieldError {
	var fieldErrors []models.FieldError

	if len(input.Username) < MinUsernameLength || len(input.Username) > MaxUsernameLength {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field:   "username",
			Message: "username must be between 3 and 40 characters",
		})
	}
	if len(input.Password) < MinPasswordLength {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field:   "password",
			Message: "password must be at least 8 characters",
		})
	}

	return fieldErrors
}

// Authenticate checks a username/password pair and returns the user.
// The same error is returned for unknown usernames and wrong passwords.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

// Get retrieves a user by ID.
func (s *Service) Get(ctx context.Context, userID string) (*User, error) {
	return s.repo.Get(ctx, userID)
}

// Update applies partial updates to a user account.
func (s *Service) Update(ctx context.Context, userID string, input UpdateInput) (*User, error) {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		u.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		u.LastName = *input.LastName
	}
	if input.Password != nil {
		if len(*input.Password) < MinPasswordLength {
			return nil, &ValidationError{Errors: []models.FieldError{{
				Field:   "password",
				Message: "password must be at least 8 characters",
			}}}
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = string(hash)
	}
	u.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

// AddPoints credits reward points to a user.
func (s *Service) AddPoints(ctx context.Context, userID string, points int) error {
	return s.repo.AddPoints(ctx, userID, points)
}

// Delete deletes a user account.
func (s *Service) Delete(ctx context.Context, userID string) error {
	return s.repo.Delete(ctx, userID)
}
