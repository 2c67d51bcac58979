package vehicle

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu       sync.RWMutex
	vehicles map[string]*Vehicle
}

// NewInMemoryRepository creates a new in-memory vehicle repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		vehicles: make(map[string]*Vehicle),
	}
}

// Get retrieves a vehicle by ID.
func (r *InMemoryRepository) Get(_ context.Context, id string) (*Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.vehicles[id]
	if !ok {
		return nil, ErrVehicleNotFound
	}

	cpy := *v
	return &cpy, nil
}

// GetByOwnerAndID retrieves a vehicle by owner ID and vehicle ID.
func (r *InMemoryRepository) GetByOwnerAndID(_ context.Context, ownerID, vehicleID string) (*Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.vehicles[vehicleID]
	if !ok || v.OwnerID != ownerID {
		return nil, ErrVehicleNotFound
	}

	cpy := *v
	return &cpy, nil
}

// GetDefault retrieves the owner's default vehicle.
func (r *InMemoryRepository) GetDefault(_ context.Context, ownerID string) (*Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, v := range r.vehicles {
		if v.OwnerID == ownerID && v.IsDefault {
			cpy := *v
			return &cpy, nil
		}
	}
	return nil, ErrVehicleNotFound
}

// List retrieves all vehicles for an owner.
func (r *InMemoryRepository) List(_ context.Context, ownerID string) ([]*Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var vehicles []*Vehicle
	for _, v := range r.vehicles {
		if v.OwnerID == ownerID {
			cpy := *v
			vehicles = append(vehicles, &cpy)
		}
	}

	sort.Slice(vehicles, func(i, j int) bool {
		return vehicles[i].CreatedAt.Before(vehicles[j].CreatedAt)
	})

	return vehicles, nil
}

// Create creates a new vehicle.
func (r *InMemoryRepository) Create(_ context.Context, v *Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *v
	r.vehicles[v.ID] = &cpy
	return nil
}

// Update updates an existing vehicle.
func (r *InMemoryRepository) Update(_ context.Context, v *Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.vehicles[v.ID]; !ok {
		return ErrVehicleNotFound
	}

	cpy := *v
	r.vehicles[v.ID] = &cpy
	return nil
}

// SetDefault marks the given vehicle as the owner's default.
func (r *InMemoryRepository) SetDefault(_ context.Context, ownerID, vehicleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	target, ok := r.vehicles[vehicleID]
	if !ok || target.OwnerID != ownerID {
		return ErrVehicleNotFound
	}

	for _, v := range r.vehicles {
		if v.OwnerID == ownerID {
			v.IsDefault = false
		}
	}
	target.IsDefault = true
	return nil
}

// Delete deletes a vehicle by ID.
func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.vehicles, id)
	return nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
