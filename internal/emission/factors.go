// Package emission estimates greenhouse-gas output for routes using a
// data-driven table of per-kilometer factors.
package emission

import "github.com/ollav12/DAT251/internal/routing"

// Factors holds CO2e emission factors in kilograms per kilometer.
// Modes or transit vehicles absent from the table emit zero.
type Factors struct {
	// Walking is the factor for walking steps.
	Walking float64
	// Bicycling is the factor for cycling steps.
	Bicycling float64
	// Driving is the factor for private car steps.
	Driving float64
	// Transit maps transit vehicle categories to their factors.
	Transit map[routing.TransitVehicle]float64
}

// DefaultFactors returns the built-in emission factor table.
// Values are average per-passenger figures in kg CO2e per kilometer.
func DefaultFactors() Factors {
	return Factors{
		Walking:   0,
		Bicycling: 0,
		Driving:   0.118,
		Transit: map[routing.TransitVehicle]float64{
			routing.VehicleBus:       0.089,
			routing.VehicleTram:      0.001,
			routing.VehicleHeavyRail: 0.005,
		},
	}
}

// PerKm returns the factor for a single step.
func (f Factors) PerKm(mode routing.TravelMode, vehicle routing.TransitVehicle) float64 {
	switch mode {
	case routing.ModeWalking:
		return f.Walking
	case routing.ModeBicycling:
		return f.Bicycling
	case routing.ModeDriving:
		return f.Driving
	case routing.ModeTransit:
		return f.Transit[vehicle]
	}
	return 0
}
