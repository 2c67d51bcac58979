package vehicle

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ollav12/DAT251/internal/api/models"
)

// Service errors.
var (
	// ErrDefaultVehicle is returned when deleting the vehicle currently
	// marked as the owner's default.
	ErrDefaultVehicle = errors.New("cannot delete default vehicle")
)

// CreateInput is the input to Create.
type CreateInput struct {
	Make                string
	Model               string
	Year                int
	Type                string
	EmissionsGramsPerKm float64
}

// ValidationError represents validation errors.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// Service provides vehicle operations.
type Service struct {
	repo Repository
}

// NewService creates a new vehicle service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create creates a new vehicle for an owner. The owner's first vehicle
// becomes their default.
func (s *Service) Create(ctx context.Context, ownerID string, input CreateInput) (*Vehicle, error) {
	fieldErrors, vehicleType := s.validateCreateInput(input)
	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	existing, err := s.repo.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	v := &Vehicle{
		ID:                  "veh_" + uuid.New().String()[:22],
		OwnerID:             ownerID,
		Make:                input.Make,
		Model:               input.Model,
		Year:                input.Year,
		Type:                vehicleType,
		EmissionsGramsPerKm: input.EmissionsGramsPerKm,
		IsDefault:           len(existing) == 0,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.repo.Create(ctx, v); err != nil {
		return nil, err
	}

	return v, nil
}

// validateCreateInput validates a create request.
func (s *Service) validateCreateInput(input CreateInput) ([]models.FieldError, VehicleType) {
	var fieldErrors []models.FieldError

	if input.Make == "" {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "make", Message: "make is required"})
	}
	if input.Model == "" {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "model", Message: "model is required"})
	}

	vehicleType, ok := ParseVehicleType(input.Type)
	if !ok {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "type", Message: "unknown vehicle type"})
	}

	if input.EmissionsGramsPerKm < 0 {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "emissionsGramsPerKm", Message: "must not be negative"})
	}

	return fieldErrors, vehicleType
}

// Get retrieves a vehicle by ID for an owner.
func (s *Service) Get(ctx context.Context, ownerID, vehicleID string) (*Vehicle, error) {
	return s.repo.GetByOwnerAndID(ctx, ownerID, vehicleID)
}

// List retrieves all vehicles for an owner.
func (s *Service) List(ctx context.Context, ownerID string) ([]*Vehicle, error) {
	return s.repo.List(ctx, ownerID)
}

// GetDefault retrieves the owner's default vehicle.
func (s *Service) GetDefault(ctx context.Context, ownerID string) (*Vehicle, error) {
	return s.repo.GetDefault(ctx, ownerID)
}

// SetDefault marks a vehicle as the owner's default.
func (s *Service) SetDefault(ctx context.Context, ownerID, vehicleID string) error {
	return s.repo.SetDefault(ctx, ownerID, vehicleID)
}

// Delete deletes a vehicle. The owner's default vehicle cannot be
// deleted; another default must be chosen first.
func (s *Service) Delete(ctx context.Context, ownerID, vehicleID string) error {
	v, err := s.repo.GetByOwnerAndID(ctx, ownerID, vehicleID)
	if err != nil {
		return err
	}
	if v.IsDefault {
		return ErrDefaultVehicle
	}
	return s.repo.Delete(ctx, vehicleID)
}
