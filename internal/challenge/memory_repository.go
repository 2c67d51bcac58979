package challenge

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu         sync.RWMutex
	challenges map[string]*Challenge
	// statuses is keyed by userID + "|" + challengeID.
	statuses map[string]*ChallengeStatus
}

// NewInMemoryRepository creates a new in-memory challenge repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		challenges: make(map[string]*Challenge),
		statuses:   make(map[string]*ChallengeStatus),
	}
}

func statusKey(userID, challengeID string) string {
	return userID + "|" + challengeID
}

// GetChallenge retrieves a challenge by ID.
func (r *InMemoryRepository) GetChallenge(_ context.Context, id string) (*Challenge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.challenges[id]
	if !ok {
		return nil, ErrChallengeNotFound
	}

	cpy := *c
	return &cpy, nil
}

// ListChallenges retrieves all challenge definitions.
func (r *InMemoryRepository) ListChallenges(_ context.Context) ([]*Challenge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var challenges []*Challenge
	for _, c := range r.challenges {
		cpy := *c
		challenges = append(challenges, &cpy)
	}

	sort.Slice(challenges, func(i, j int) bool {
		return challenges[i].CreatedAt.Before(challenges[j].CreatedAt)
	})

	return challenges, nil
}

// CreateChallenge creates a new challenge definition.
func (r *InMemoryRepository) CreateChallenge(_ context.Context, c *Challenge) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *c
	r.challenges[c.ID] = &cpy
	return nil
}

// DeleteChallenge deletes a challenge and every status belonging to it.
func (r *InMemoryRepository) DeleteChallenge(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.challenges, id)
	for key, s := range r.statuses {
		if s.ChallengeID == id {
			delete(r.statuses, key)
		}
	}
	return nil
}

// GetStatus retrieves the status of a (user, challenge) pair.
func (r *InMemoryRepository) GetStatus(_ context.Context, userID, challengeID string) (*ChallengeStatus, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.statuses[statusKey(userID, challengeID)]
	if !ok {
		return nil, ErrStatusNotFound
	}

	cpy := *s
	return &cpy, nil
}

// ListStatusesByUser retrieves all statuses of a user.
func (r *InMemoryRepository) ListStatusesByUser(_ context.Context, userID string) ([]*ChallengeStatus, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var statuses []*ChallengeStatus
	for _, s := range r.statuses {
		if s.UserID == userID {
			cpy := *s
			statuses = append(statuses, &cpy)
		}
	}

	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].CreatedAt.Before(statuses[j].CreatedAt)
	})

	return statuses, nil
}

// CreateStatus creates a new challenge status.
func (r *InMemoryRepository) CreateStatus(_ context.Context, s *ChallengeStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *s
	r.statuses[statusKey(s.UserID, s.ChallengeID)] = &cpy
	return nil
}

// UpdateStatus updates an existing challenge status.
func (r *InMemoryRepository) UpdateStatus(_ context.Context, s *ChallengeStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := statusKey(s.UserID, s.ChallengeID)
	if _, ok := r.statuses[key]; !ok {
		return ErrStatusNotFound
	}

	cpy := *s
	r.statuses[key] = &cpy
	return nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
