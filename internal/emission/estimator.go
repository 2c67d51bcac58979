package emission

import "github.com/ollav12/DAT251/internal/routing"

// Estimate is the aggregate of one route: total travel time, total
// distance and total CO2e emissions.
type Estimate struct {
	DurationSeconds int64   `json:"durationSeconds"`
	DistanceKm      float64 `json:"distanceKilometers"`
	EmissionsCO2eKg float64 `json:"emissionsCO2eKg"`
}

// Override substitutes the table factor for steps of a single mode,
// typically to price a trip with the user's own vehicle.
type Override struct {
	// Mode is the travel mode the override applies to.
	Mode routing.TravelMode
	// PerKm is the replacement factor in kg CO2e per kilometer.
	PerKm float64
}

// Estimator computes route estimates from an emission factor table.
// The table is copied at construction and never mutated afterwards, so
// a single Estimator is safe for concurrent use.
type Estimator struct {
	factors Factors
}

// NewEstimator creates an Estimator with the given factor table.
func NewEstimator(factors Factors) *Estimator {
	transit := make(map[routing.TransitVehicle]float64, len(factors.Transit))
	for k, v := range factors.Transit {
		transit[k] = v
	}
	factors.Transit = transit
	return &Estimator{factors: factors}
}

// EstimateRoute sums duration, distance and emissions over every step
// of the route. When override is non-nil, steps whose mode matches the
// override are priced with its factor instead of the table's.
func (e *Estimator) EstimateRoute(route routing.Route, override *Override) Estimate {
	var est Estimate
	for _, step := range route.Steps() {
		distanceKm := step.DistanceMeters / 1000
		perKm := e.factors.PerKm(step.Mode, step.TransitVehicle)
		if override != nil && step.Mode == override.Mode {
			perKm = override.PerKm
		}

		est.DurationSeconds += step.DurationSeconds
		est.DistanceKm += distanceKm
		est.EmissionsCO2eKg += distanceKm * perKm
	}
	return est
}
