package models

import "time"

// Trip is the API representation of a recorded trip.
type Trip struct {
	ID                   string    `json:"id"`
	UserID               string    `json:"userId"`
	Origin               string    `json:"origin"`
	Destination          string    `json:"destination"`
	Mode                 string    `json:"mode"`
	VehicleID            *string   `json:"vehicleId,omitempty"`
	DistanceKm           float64   `json:"distanceKilometers"`
	DurationSeconds      int64     `json:"durationSeconds"`
	EmissionsCO2eKg      float64   `json:"emissionsCO2eKg"`
	SavedEmissionsCO2eKg float64   `json:"savedEmissionsCO2eKg"`
	CreatedAt            time.Time `json:"createdAt"`
}

// TripCreateRequest records a new trip. Exactly one of Mode and
// VehicleID must be set.
type TripCreateRequest struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Mode        string `json:"mode,omitempty"`
	VehicleID   string `json:"vehicleId,omitempty"`
}

// TripUpdateRequest overwrites the stored fields of a trip.
type TripUpdateRequest struct {
	Origin               string  `json:"origin"`
	Destination          string  `json:"destination"`
	Mode                 string  `json:"mode"`
	DistanceKm           float64 `json:"distanceKilometers"`
	DurationSeconds      int64   `json:"durationSeconds"`
	EmissionsCO2eKg      float64 `json:"emissionsCO2eKg"`
	SavedEmissionsCO2eKg float64 `json:"savedEmissionsCO2eKg"`
}

// TripEstimate is one mode's best route estimate.
type TripEstimate struct {
	DurationSeconds int64   `json:"durationSeconds"`
	DistanceKm      float64 `json:"distanceKilometers"`
	EmissionsCO2eKg float64 `json:"emissionsCO2eKg"`
}

// TripEstimateResponse maps each travel mode with at least one route
// to its best estimate.
type TripEstimateResponse struct {
	Alternatives map[string]TripEstimate `json:"alternatives"`
}

// Statistics is the per-user rollup over recorded trips.
type Statistics struct {
	TripCount            int64   `json:"tripCount"`
	TotalDistanceKm      float64 `json:"totalDistanceKilometers"`
	TotalDurationSeconds int64   `json:"totalDurationSeconds"`
	TotalEmissionsCO2eKg float64 `json:"totalEmissionsCO2eKg"`
	TotalSavedCO2eKg     float64 `json:"totalSavedEmissionsCO2eKg"`
}
