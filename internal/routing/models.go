// Package routing provides directions lookup across travel modes with
// response caching.
package routing

import (
	"context"
	"errors"
)

// Sentinel errors for routing operations.
var (
	// ErrProviderUnavailable indicates the directions provider is down or unreachable.
	ErrProviderUnavailable = errors.New("directions provider unavailable")
	// ErrQuotaExceeded indicates the API quota or rate limit has been exceeded.
	ErrQuotaExceeded = errors.New("directions quota exceeded")
	// ErrAccessDenied indicates the API key was rejected.
	ErrAccessDenied = errors.New("directions access denied")
	// ErrInvalidRequest indicates the provider rejected the request parameters.
	ErrInvalidRequest = errors.New("invalid directions request")
)

// TravelMode is a top-level mode of transport.
type TravelMode string

// Supported travel modes.
const (
	ModeWalking   TravelMode = "walking"
	ModeBicycling TravelMode = "bicycling"
	ModeTransit   TravelMode = "transit"
	ModeDriving   TravelMode = "driving"
)

// AllModes returns every supported travel mode, in estimation order.
func AllModes() []TravelMode {
	return []TravelMode{ModeWalking, ModeBicycling, ModeTransit, ModeDriving}
}

// ParseTravelMode parses a lower-case mode name.
func ParseTravelMode(s string) (TravelMode, bool) {
	switch TravelMode(s) {
	case ModeWalking, ModeBicycling, ModeTransit, ModeDriving:
		return TravelMode(s), true
	}
	return "", false
}

// TransitVehicle is the vehicle category of a transit step, as reported
// by the directions provider.
type TransitVehicle string

// Transit vehicle categories.
const (
	VehicleBus               TransitVehicle = "BUS"
	VehicleIntercityBus      TransitVehicle = "INTERCITY_BUS"
	VehicleTrolleybus        TransitVehicle = "TROLLEYBUS"
	VehicleTram              TransitVehicle = "TRAM"
	VehicleSubway            TransitVehicle = "SUBWAY"
	VehicleMetroRail         TransitVehicle = "METRO_RAIL"
	VehicleMonorail          TransitVehicle = "MONORAIL"
	VehicleRail              TransitVehicle = "RAIL"
	VehicleHeavyRail         TransitVehicle = "HEAVY_RAIL"
	VehicleCommuterTrain     TransitVehicle = "COMMUTER_TRAIN"
	VehicleHighSpeedTrain    TransitVehicle = "HIGH_SPEED_TRAIN"
	VehicleLongDistanceTrain TransitVehicle = "LONG_DISTANCE_TRAIN"
	VehicleCableCar          TransitVehicle = "CABLE_CAR"
	VehicleGondolaLift       TransitVehicle = "GONDOLA_LIFT"
	VehicleFunicular         TransitVehicle = "FUNICULAR"
	VehicleFerry             TransitVehicle = "FERRY"
	VehicleShareTaxi         TransitVehicle = "SHARE_TAXI"
	VehicleOther             TransitVehicle = "OTHER"
)

// Step is the finest-grained unit of a route. A step carries its own
// travel mode: a transit route typically mixes walking steps with
// transit steps.
type Step struct {
	DistanceMeters  float64
	DurationSeconds int64
	Mode            TravelMode
	// TransitVehicle is set only when Mode is ModeTransit.
	TransitVehicle TransitVehicle
}

// Leg is an ordered sequence of steps between two waypoints.
type Leg struct {
	Steps []Step
}

// Route is one candidate route returned by the provider.
type Route struct {
	Summary string
	Legs    []Leg
}

// Steps iterates every step of the route in order.
func (r Route) Steps() []Step {
	var steps []Step
	for _, leg := range r.Legs {
		steps = append(steps, leg.Steps...)
	}
	return steps
}

// Provider is the interface to an external directions service.
//
// GetRoutes returns zero or more candidate routes for the given mode.
// An empty slice with a nil error means the provider found no route;
// that is a normal outcome, not a failure. A non-nil error always means
// a hard failure (network, auth, quota) and is never cached.
type Provider interface {
	GetRoutes(ctx context.Context, origin, destination string, mode TravelMode) ([]Route, error)

	// Name returns the provider identifier for logging.
	Name() string
}

// Error provides detailed error information from the directions provider.
type Error struct {
	Provider string
	Code     string
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}
