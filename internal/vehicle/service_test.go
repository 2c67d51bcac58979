package vehicle_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ollav12/DAT251/internal/routing"
	"github.com/ollav12/DAT251/internal/vehicle"
)

func TestService_Create_FirstVehicleBecomesDefault(t *testing.T) {
	svc := vehicle.NewService(vehicle.NewInMemoryRepository())
	ctx := context.Background()

	first, err := svc.Create(ctx, "usr_1", vehicle.CreateInput{
		Make:                "Toyota",
		Model:               "Corolla",
		Year:                2019,
		Type:                "CAR",
		EmissionsGramsPerKm: 118,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first.IsDefault {
		t.Error("expected first vehicle to be default")
	}

	second, err := svc.Create(ctx, "usr_1", vehicle.CreateInput{
		Make:  "Brompton",
		Model: "C Line",
		Year:  2022,
		Type:  "BICYCLE",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.IsDefault {
		t.Error("expected second vehicle to not be default")
	}
}

func TestService_Create_Validation(t *testing.T) {
	svc := vehicle.NewService(vehicle.NewInMemoryRepository())

	tests := []struct {
		name  string
		input vehicle.CreateInput
	}{
		{
			name:  "missing make and model",
			input: vehicle.CreateInput{Type: "CAR"},
		},
		{
			name:  "unknown type",
			input: vehicle.CreateInput{Make: "Tesla", Model: "3", Type: "HOVERCRAFT"},
		},
		{
			name: "negative emissions",
			input: vehicle.CreateInput{
				Make: "Tesla", Model: "3", Type: "ELECTRIC_CAR",
				EmissionsGramsPerKm: -5,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), "usr_1", tt.input)
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			var validationErr *vehicle.ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			if len(validationErr.Errors) == 0 {
				t.Error("expected field errors to be present")
			}
		})
	}
}

func TestService_Delete_DefaultVehicleRejected(t *testing.T) {
	svc := vehicle.NewService(vehicle.NewInMemoryRepository())
	ctx := context.Background()

	v, err := svc.Create(ctx, "usr_1", vehicle.CreateInput{
		Make: "Toyota", Model: "Corolla", Year: 2019, Type: "CAR",
		EmissionsGramsPerKm: 118,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.Delete(ctx, "usr_1", v.ID); !errors.Is(err, vehicle.ErrDefaultVehicle) {
		t.Fatalf("expected ErrDefaultVehicle, got %v", err)
	}

	// After moving the default, the old default can go.
	other, err := svc.Create(ctx, "usr_1", vehicle.CreateInput{
		Make: "Brompton", Model: "C Line", Year: 2022, Type: "BICYCLE",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.SetDefault(ctx, "usr_1", other.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Delete(ctx, "usr_1", v.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Get(ctx, "usr_1", v.ID); !errors.Is(err, vehicle.ErrVehicleNotFound) {
		t.Fatalf("expected ErrVehicleNotFound, got %v", err)
	}
}

func TestService_Delete_OtherOwnersVehicle(t *testing.T) {
	svc := vehicle.NewService(vehicle.NewInMemoryRepository())
	ctx := context.Background()

	v, err := svc.Create(ctx, "usr_1", vehicle.CreateInput{
		Make: "Toyota", Model: "Corolla", Year: 2019, Type: "CAR",
		EmissionsGramsPerKm: 118,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.Delete(ctx, "usr_2", v.ID); !errors.Is(err, vehicle.ErrVehicleNotFound) {
		t.Fatalf("expected ErrVehicleNotFound, got %v", err)
	}
}

func TestVehicleType_TravelMode(t *testing.T) {
	tests := []struct {
		vehicleType vehicle.VehicleType
		want        routing.TravelMode
	}{
		{vehicle.TypeCar, routing.ModeDriving},
		{vehicle.TypeElectricCar, routing.ModeDriving},
		{vehicle.TypeMotorcycle, routing.ModeDriving},
		{vehicle.TypeBicycle, routing.ModeBicycling},
		{vehicle.TypeElectricBike, routing.ModeBicycling},
		{vehicle.TypeElectricScooter, routing.ModeBicycling},
	}

	for _, tt := range tests {
		if got := tt.vehicleType.TravelMode(); got != tt.want {
			t.Errorf("%s: travel mode = %s, want %s", tt.vehicleType, got, tt.want)
		}
	}
}
