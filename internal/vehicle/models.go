// Package vehicle provides personal vehicle management services.
package vehicle

import (
	"errors"
	"time"

	"github.com/ollav12/DAT251/internal/routing"
)

// Repository errors.
var (
	ErrVehicleNotFound = errors.New("vehicle not found")
)

// VehicleType categorizes a personal vehicle.
type VehicleType string

// Supported vehicle types.
const (
	TypeBicycle         VehicleType = "BICYCLE"
	TypeElectricBike    VehicleType = "ELECTRIC_BIKE"
	TypeElectricScooter VehicleType = "ELECTRIC_SCOOTER"
	TypeCar             VehicleType = "CAR"
	TypeElectricCar     VehicleType = "ELECTRIC_CAR"
	TypeMotorcycle      VehicleType = "MOTORCYCLE"
)

// ParseVehicleType parses an upper-case vehicle type name.
func ParseVehicleType(s string) (VehicleType, bool) {
	switch VehicleType(s) {
	case TypeBicycle, TypeElectricBike, TypeElectricScooter, TypeCar, TypeElectricCar, TypeMotorcycle:
		return VehicleType(s), true
	}
	return "", false
}

// TravelMode returns the directions travel mode a vehicle of this type
// is routed with. Motorized vehicles drive; everything else cycles.
func (t VehicleType) TravelMode() routing.TravelMode {
	switch t {
	case TypeCar, TypeElectricCar, TypeMotorcycle:
		return routing.ModeDriving
	default:
		return routing.ModeBicycling
	}
}

// Vehicle represents a vehicle owned by a user.
type Vehicle struct {
	ID                  string
	OwnerID             string
	Make                string
	Model               string
	Year                int
	Type                VehicleType
	EmissionsGramsPerKm float64
	IsDefault           bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// EmissionsKgPerKm returns the vehicle's factor in kg CO2e per kilometer.
func (v *Vehicle) EmissionsKgPerKm() float64 {
	return v.EmissionsGramsPerKm / 1000
}
