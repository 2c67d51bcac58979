package emission

import (
	"math"
	"testing"

	"github.com/ollav12/DAT251/internal/routing"
)

const tolerance = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

func singleLegRoute(steps ...routing.Step) routing.Route {
	return routing.Route{Legs: []routing.Leg{{Steps: steps}}}
}

func TestEstimateRoute_PerStepFactors(t *testing.T) {
	estimator := NewEstimator(DefaultFactors())

	tests := []struct {
		name          string
		route         routing.Route
		wantEmissions float64
		wantDistance  float64
		wantDuration  int64
	}{
		{
			name: "pure driving",
			route: singleLegRoute(
				routing.Step{DistanceMeters: 10000, DurationSeconds: 900, Mode: routing.ModeDriving},
			),
			wantEmissions: 10 * 0.118,
			wantDistance:  10,
			wantDuration:  900,
		},
		{
			name: "walking emits nothing",
			route: singleLegRoute(
				routing.Step{DistanceMeters: 2500, DurationSeconds: 1800, Mode: routing.ModeWalking},
			),
			wantEmissions: 0,
			wantDistance:  2.5,
			wantDuration:  1800,
		},
		{
			name: "bicycling emits nothing",
			route: singleLegRoute(
				routing.Step{DistanceMeters: 5000, DurationSeconds: 1200, Mode: routing.ModeBicycling},
			),
			wantEmissions: 0,
			wantDistance:  5,
			wantDuration:  1200,
		},
		{
			name: "mixed transit route",
			route: singleLegRoute(
				routing.Step{DistanceMeters: 500, DurationSeconds: 360, Mode: routing.ModeWalking},
				routing.Step{DistanceMeters: 8000, DurationSeconds: 1100, Mode: routing.ModeTransit, TransitVehicle: routing.VehicleBus},
				routing.Step{DistanceMeters: 3000, DurationSeconds: 420, Mode: routing.ModeTransit, TransitVehicle: routing.VehicleTram},
			),
			wantEmissions: 8*0.089 + 3*0.001,
			wantDistance:  11.5,
			wantDuration:  1880,
		},
		{
			name: "heavy rail",
			route: singleLegRoute(
				routing.Step{DistanceMeters: 40000, DurationSeconds: 2400, Mode: routing.ModeTransit, TransitVehicle: routing.VehicleHeavyRail},
			),
			wantEmissions: 40 * 0.005,
			wantDistance:  40,
			wantDuration:  2400,
		},
		{
			name: "ferry not in table emits zero",
			route: singleLegRoute(
				routing.Step{DistanceMeters: 12000, DurationSeconds: 1500, Mode: routing.ModeTransit, TransitVehicle: routing.VehicleFerry},
			),
			wantEmissions: 0,
			wantDistance:  12,
			wantDuration:  1500,
		},
		{
			name:          "empty route",
			route:         routing.Route{},
			wantEmissions: 0,
			wantDistance:  0,
			wantDuration:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := estimator.EstimateRoute(tt.route, nil)
			if !almostEqual(got.EmissionsCO2eKg, tt.wantEmissions) {
				t.Errorf("emissions = %v, want %v", got.EmissionsCO2eKg, tt.wantEmissions)
			}
			if !almostEqual(got.DistanceKm, tt.wantDistance) {
				t.Errorf("distance = %v, want %v", got.DistanceKm, tt.wantDistance)
			}
			if got.DurationSeconds != tt.wantDuration {
				t.Errorf("duration = %d, want %d", got.DurationSeconds, tt.wantDuration)
			}
		})
	}
}

func TestEstimateRoute_Override(t *testing.T) {
	estimator := NewEstimator(DefaultFactors())

	route := singleLegRoute(
		routing.Step{DistanceMeters: 1000, DurationSeconds: 700, Mode: routing.ModeWalking},
		routing.Step{DistanceMeters: 15000, DurationSeconds: 1200, Mode: routing.ModeDriving},
	)

	// Electric car at 50 g/km replaces only the driving steps.
	got := estimator.EstimateRoute(route, &Override{Mode: routing.ModeDriving, PerKm: 0.050})
	want := 15 * 0.050
	if !almostEqual(got.EmissionsCO2eKg, want) {
		t.Errorf("emissions = %v, want %v", got.EmissionsCO2eKg, want)
	}

	// An override for another mode leaves the route untouched.
	got = estimator.EstimateRoute(route, &Override{Mode: routing.ModeBicycling, PerKm: 0.5})
	want = 15 * 0.118
	if !almostEqual(got.EmissionsCO2eKg, want) {
		t.Errorf("emissions = %v, want %v", got.EmissionsCO2eKg, want)
	}
}

func TestNewEstimator_CopiesFactorTable(t *testing.T) {
	factors := DefaultFactors()
	estimator := NewEstimator(factors)

	// Mutating the caller's map must not leak into the estimator.
	factors.Transit[routing.VehicleBus] = 99

	route := singleLegRoute(
		routing.Step{DistanceMeters: 1000, DurationSeconds: 60, Mode: routing.ModeTransit, TransitVehicle: routing.VehicleBus},
	)
	got := estimator.EstimateRoute(route, nil)
	if !almostEqual(got.EmissionsCO2eKg, 0.089) {
		t.Errorf("emissions = %v, want 0.089", got.EmissionsCO2eKg)
	}
}
