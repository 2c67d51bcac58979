package trip

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ollav12/DAT251/internal/emission"
	"github.com/ollav12/DAT251/internal/routing"
	"github.com/ollav12/DAT251/internal/user"
	"github.com/ollav12/DAT251/internal/vehicle"
)

// ErrUnknownMode is returned for an unrecognized travel mode name.
var ErrUnknownMode = errors.New("unknown travel mode")

// ProgressRecorder credits challenge progress for a recorded trip.
// Satisfied by challenge.Engine.
type ProgressRecorder interface {
	RecordTrip(ctx context.Context, userID string, savedKg float64) error
}

// CreateInput is the input to Create. Exactly one of Mode and
// VehicleID must be set.
type CreateInput struct {
	Origin      string
	Destination string
	Mode        string
	VehicleID   string
}

// UpdateInput is the input to Update. Every field overwrites the
// stored value.
type UpdateInput struct {
	Origin               string
	Destination          string
	Mode                 string
	DistanceKm           float64
	DurationSeconds      int64
	EmissionsCO2eKg      float64
	SavedEmissionsCO2eKg float64
}

// LeaderboardEntry is one ranked leaderboard row with user details.
type LeaderboardEntry struct {
	UserID    string  `json:"userId"`
	Username  string  `json:"username"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Value     float64 `json:"value"`
}

// ServiceConfig holds the dependencies of the trip service.
type ServiceConfig struct {
	Repo       Repository
	Vehicles   vehicle.Repository
	Users      user.Repository
	Aggregator *Aggregator
	Progress   ProgressRecorder
	Logger     zerolog.Logger
}

// Service provides trip estimation, recording and rollups.
type Service struct {
	repo       Repository
	vehicles   vehicle.Repository
	users      user.Repository
	aggregator *Aggregator
	progress   ProgressRecorder
	logger     zerolog.Logger
}

// NewService creates a new trip service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		repo:       cfg.Repo,
		vehicles:   cfg.Vehicles,
		users:      cfg.Users,
		aggregator: cfg.Aggregator,
		progress:   cfg.Progress,
		logger:     cfg.Logger,
	}
}

// Estimate computes the best estimate per travel mode for a journey.
// When vehicleID is set, the vehicle's own per-km factor is used for
// the mode the vehicle travels by.
func (s *Service) Estimate(ctx context.Context, ownerID, origin, destination, vehicleID string) (map[routing.TravelMode]emission.Estimate, error) {
	var override *emission.Override
	if vehicleID != "" {
		v, err := s.vehicles.GetByOwnerAndID(ctx, ownerID, vehicleID)
		if err != nil {
			return nil, err
		}
		override = &emission.Override{
			Mode:  v.Type.TravelMode(),
			PerKm: v.EmissionsKgPerKm(),
		}
	}

	return s.aggregator.Estimate(ctx, origin, destination, override)
}

// Create records a trip. Exactly one of mode and vehicle must be
// given; savings are computed against the driving baseline and may be
// negative for vehicles dirtier than an average car. After the trip is
// written, challenge progress for the user is credited.
func (s *Service) Create(ctx context.Context, userID string, input CreateInput) (*Trip, error) {
	if input.Mode != "" && input.VehicleID != "" {
		return nil, ErrModeAndVehicle
	}
	if input.Mode == "" && input.VehicleID == "" {
		return nil, ErrModeOrVehicleRequired
	}

	var (
		mode      routing.TravelMode
		vehicleID *string
		override  *emission.Override
	)
	if input.VehicleID != "" {
		v, err := s.vehicles.GetByOwnerAndID(ctx, userID, input.VehicleID)
		if err != nil {
			return nil, err
		}
		mode = v.Type.TravelMode()
		vehicleID = &v.ID
		override = &emission.Override{Mode: mode, PerKm: v.EmissionsKgPerKm()}
	} else {
		parsed, ok := routing.ParseTravelMode(input.Mode)
		if !ok {
			return nil, ErrUnknownMode
		}
		mode = parsed
	}

	estimates, err := s.aggregator.Estimate(ctx, input.Origin, input.Destination, override)
	if err != nil {
		return nil, err
	}

	selected, ok := estimates[mode]
	if !ok {
		return nil, ErrNoRouteForMode
	}
	driving, ok := estimates[routing.ModeDriving]
	if !ok {
		return nil, ErrNoDrivingBaseline
	}
	// A driving vehicle's own factor must not shift the baseline the
	// savings are measured against. The route source caches, so this
	// does not hit the provider twice.
	if override != nil && override.Mode == routing.ModeDriving {
		driving, err = s.aggregator.DrivingBaseline(ctx, input.Origin, input.Destination)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	t := &Trip{
		ID:                   "trp_" + uuid.New().String()[:22],
		UserID:               userID,
		Origin:               input.Origin,
		Destination:          input.Destination,
		Mode:                 mode,
		VehicleID:            vehicleID,
		DistanceKm:           selected.DistanceKm,
		DurationSeconds:      selected.DurationSeconds,
		EmissionsCO2eKg:      selected.EmissionsCO2eKg,
		SavedEmissionsCO2eKg: driving.EmissionsCO2eKg - selected.EmissionsCO2eKg,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	// Challenge credit runs after the trip row is written. A credit
	// failure leaves the trip recorded; it is logged, not propagated.
	if err := s.progress.RecordTrip(ctx, userID, t.SavedEmissionsCO2eKg); err != nil {
		s.logger.Error().Err(err).
			Str("user_id", userID).
			Str("trip_id", t.ID).
			Msg("failed to credit challenge progress for trip")
	}

	return t, nil
}

// Get retrieves a trip by ID.
func (s *Service) Get(ctx context.Context, tripID string) (*Trip, error) {
	return s.repo.Get(ctx, tripID)
}

// List retrieves all trips for a user, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]*Trip, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Update overwrites the stored fields of a trip.
func (s *Service) Update(ctx context.Context, tripID string, input UpdateInput) (*Trip, error) {
	t, err := s.repo.Get(ctx, tripID)
	if err != nil {
		return nil, err
	}

	mode, ok := routing.ParseTravelMode(input.Mode)
	if !ok {
		return nil, ErrUnknownMode
	}

	t.Origin = input.Origin
	t.Destination = input.Destination
	t.Mode = mode
	t.DistanceKm = input.DistanceKm
	t.DurationSeconds = input.DurationSeconds
	t.EmissionsCO2eKg = input.EmissionsCO2eKg
	t.SavedEmissionsCO2eKg = input.SavedEmissionsCO2eKg
	t.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}

// Delete deletes a trip.
func (s *Service) Delete(ctx context.Context, tripID string) error {
	return s.repo.Delete(ctx, tripID)
}

// Statistics computes the per-user rollup over recorded trips.
func (s *Service) Statistics(ctx context.Context, userID string) (*Statistics, error) {
	return s.repo.Statistics(ctx, userID)
}

// Leaderboard ranks users by the given metric over the given period.
// Rows for users that no longer exist are dropped.
func (s *Service) Leaderboard(ctx context.Context, metric LeaderboardMetric, period LeaderboardPeriod) ([]LeaderboardEntry, error) {
	rows, err := s.repo.Leaderboard(ctx, metric, period.Since(time.Now()))
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		u, err := s.users.Get(ctx, row.UserID)
		if err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				continue
			}
			return nil, err
		}
		entries = append(entries, LeaderboardEntry{
			UserID:    u.ID,
			Username:  u.Username,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Value:     row.Value,
		})
	}

	return entries, nil
}
