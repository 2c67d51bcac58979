package challenge

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ollav12/DAT251/internal/api/models"
)

// CreateInput is the input to Create.
type CreateInput struct {
	Title        string
	Description  string
	RewardPoints int
	DurationDays int
	Type         string
	TargetValue  float64
	MetricUnit   string
}

// ValidationError represents validation errors.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// Service provides challenge definition management.
type Service struct {
	repo Repository
}

// NewService creates a new challenge service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create creates a new challenge definition.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Challenge, error) {
	fieldErrors, challengeType := s.validateCreateInput(input)
	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	now := time.Now()
	c := &Challenge{
		ID:           "chl_" + uuid.New().String()[:22],
		Title:        input.Title,
		Description:  input.Description,
		RewardPoints: input.RewardPoints,
		DurationDays: input.DurationDays,
		Type:         challengeType,
		TargetValue:  input.TargetValue,
		MetricUnit:   input.MetricUnit,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.CreateChallenge(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// validateCreateInput validates a create request.
func (s *Service) validateCreateInput(input CreateInput) ([]models.FieldError, Type) {
	var fieldErrors []models.FieldError

	if input.Title == "" {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "title", Message: "title is required"})
	}
	if input.RewardPoints < 0 {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "rewardPoints", Message: "must not be negative"})
	}
	if input.TargetValue <= 0 {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "targetValue", Message: "must be positive"})
	}

	challengeType, ok := ParseType(input.Type)
	if !ok {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "type", Message: "type must be METRIC or ACTION"})
	}
	if challengeType == TypeMetric && input.MetricUnit == "" {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "metricUnit", Message: "metric unit is required for METRIC challenges"})
	}

	return fieldErrors, challengeType
}

// Get retrieves a challenge by ID.
func (s *Service) Get(ctx context.Context, challengeID string) (*Challenge, error) {
	return s.repo.GetChallenge(ctx, challengeID)
}

// List retrieves all challenge definitions.
func (s *Service) List(ctx context.Context) ([]*Challenge, error) {
	return s.repo.ListChallenges(ctx)
}

// Delete deletes a challenge and every user's status on it.
func (s *Service) Delete(ctx context.Context, challengeID string) error {
	if _, err := s.repo.GetChallenge(ctx, challengeID); err != nil {
		return err
	}
	return s.repo.DeleteChallenge(ctx, challengeID)
}
