package models

import "time"

// Vehicle is the API representation of a personal vehicle.
type Vehicle struct {
	ID                  string    `json:"id"`
	Make                string    `json:"make"`
	Model               string    `json:"model"`
	Year                int       `json:"year"`
	Type                string    `json:"type"`
	EmissionsGramsPerKm float64   `json:"emissionsGramsPerKm"`
	IsDefault           bool      `json:"isDefault"`
	CreatedAt           time.Time `json:"createdAt"`
}

// VehicleCreateRequest adds a vehicle to a user's garage.
type VehicleCreateRequest struct {
	Make                string  `json:"make"`
	Model               string  `json:"model"`
	Year                int     `json:"year"`
	Type                string  `json:"type"`
	EmissionsGramsPerKm float64 `json:"emissionsGramsPerKm"`
}
