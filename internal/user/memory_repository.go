package user

import (
	"context"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu         sync.RWMutex
	users      map[string]*User
	byUsername map[string]string
}

// NewInMemoryRepository creates a new in-memory user repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		users:      make(map[string]*User),
		byUsername: make(map[string]string),
	}
}

// Get retrieves a user by ID.
func (r *InMemoryRepository) Get(_ context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}

	cpy := *u
	return &cpy, nil
}

// GetByUsername retrieves a user by username.
func (r *InMemoryRepository) GetByUsername(_ context.Context, username string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return nil, ErrUserNotFound
	}

	cpy := *r.users[id]
	return &cpy, nil
}

// Create creates a new user.
func (r *InMemoryRepository) Create(_ context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUsername[u.Username]; ok {
		return ErrUsernameTaken
	}

	cpy := *u
	r.users[u.ID] = &cpy
	r.byUsername[u.Username] = u.ID
	return nil
}

// Update updates an existing user.
func (r *InMemoryRepository) Update(_ context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.users[u.ID]
	if !ok {
		return ErrUserNotFound
	}

	if old.Username != u.Username {
		delete(r.byUsername, old.Username)
		r.byUsername[u.Username] = u.ID
	}

	cpy := *u
	r.users[u.ID] = &cpy
	return nil
}

// AddPoints atomically adds points to the user's balance.
func (r *InMemoryRepository) AddPoints(_ context.Context, id string, points int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}

	u.Points += points
	return nil
}

// Delete deletes a user by ID.
func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.users[id]; ok {
		delete(r.byUsername, u.Username)
		delete(r.users, id)
	}
	return nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
