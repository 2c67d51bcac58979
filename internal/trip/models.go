// Package trip provides trip estimation, recording and rollups.
package trip

import (
	"errors"
	"time"

	"github.com/ollav12/DAT251/internal/routing"
)

// Repository and service errors.
var (
	ErrTripNotFound = errors.New("trip not found")

	// ErrModeAndVehicle is returned when a trip request supplies both a
	// travel mode and a vehicle.
	ErrModeAndVehicle = errors.New("supply either a travel mode or a vehicle, not both")
	// ErrModeOrVehicleRequired is returned when a trip request supplies
	// neither a travel mode nor a vehicle.
	ErrModeOrVehicleRequired = errors.New("either a travel mode or a vehicle is required")
	// ErrNoRouteForMode is returned when no route exists for the
	// selected travel mode.
	ErrNoRouteForMode = errors.New("no route found for the selected travel mode")
	// ErrNoDrivingBaseline is returned when no driving route exists, so
	// savings cannot be computed.
	ErrNoDrivingBaseline = errors.New("no driving route found to compute savings against")
)

// Trip represents a recorded trip.
type Trip struct {
	ID          string
	UserID      string
	Origin      string
	Destination string

	// Mode is the travel mode the trip was made with.
	Mode routing.TravelMode
	// VehicleID is set when the trip was made with a personal vehicle.
	VehicleID *string

	DistanceKm           float64
	DurationSeconds      int64
	EmissionsCO2eKg      float64
	SavedEmissionsCO2eKg float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Statistics is the per-user rollup over recorded trips.
type Statistics struct {
	TripCount            int64   `json:"tripCount"`
	TotalDistanceKm      float64 `json:"totalDistanceKilometers"`
	TotalDurationSeconds int64   `json:"totalDurationSeconds"`
	TotalEmissionsCO2eKg float64 `json:"totalEmissionsCO2eKg"`
	TotalSavedCO2eKg     float64 `json:"totalSavedEmissionsCO2eKg"`
}

// LeaderboardMetric selects the aggregate a leaderboard ranks by.
type LeaderboardMetric string

// Supported leaderboard metrics.
const (
	MetricTotalEmissions      LeaderboardMetric = "total_emissions"
	MetricTotalSavedEmissions LeaderboardMetric = "total_saved_emissions"
	MetricTotalDuration       LeaderboardMetric = "total_duration_seconds"
	MetricTotalDistance       LeaderboardMetric = "total_distance_kilometers"
	MetricAverageCO2ePerKm    LeaderboardMetric = "average_co2e_per_kilometer"
)

// ParseLeaderboardMetric parses a leaderboard metric name.
func ParseLeaderboardMetric(s string) (LeaderboardMetric, bool) {
	switch LeaderboardMetric(s) {
	case MetricTotalEmissions, MetricTotalSavedEmissions, MetricTotalDuration,
		MetricTotalDistance, MetricAverageCO2ePerKm:
		return LeaderboardMetric(s), true
	}
	return "", false
}

// LeaderboardPeriod bounds a leaderboard to a trailing time window.
type LeaderboardPeriod string

// Supported leaderboard periods.
const (
	PeriodLifetime  LeaderboardPeriod = "lifetime"
	PeriodPastYear  LeaderboardPeriod = "past_year"
	PeriodPastMonth LeaderboardPeriod = "past_month"
	PeriodPastWeek  LeaderboardPeriod = "past_week"
)

// ParseLeaderboardPeriod parses a leaderboard period name.
func ParseLeaderboardPeriod(s string) (LeaderboardPeriod, bool) {
	switch LeaderboardPeriod(s) {
	case PeriodLifetime, PeriodPastYear, PeriodPastMonth, PeriodPastWeek:
		return LeaderboardPeriod(s), true
	}
	return "", false
}

// Since returns the start of the period's window relative to now.
// A zero time means no lower bound.
func (p LeaderboardPeriod) Since(now time.Time) time.Time {
	switch p {
	case PeriodPastYear:
		return now.AddDate(-1, 0, 0)
	case PeriodPastMonth:
		return now.AddDate(0, -1, 0)
	case PeriodPastWeek:
		return now.AddDate(0, 0, -7)
	}
	return time.Time{}
}

// LeaderboardRow is one ranked aggregate for a user.
type LeaderboardRow struct {
	UserID string
	Value  float64
}
