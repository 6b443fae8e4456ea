package profile

import (
	"context"
	"sync"

	"github.com/nutrilog/nutrilog/internal/nutrition"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu       sync.RWMutex
	profiles map[string]*nutrition.Profile
}

// NewInMemoryRepository creates a new in-memory profile repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		profiles: make(map[string]*nutrition.Profile),
	}
}

// Get retrieves the profile of a user.
func (r *InMemoryRepository) Get(_ context.Context, userID string) (*nutrition.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return copyProfile(p), nil
}

// Upsert creates or replaces a profile.
func (r *InMemoryRepository) Upsert(_ context.Context, p *nutrition.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.profiles[p.UserID] = copyProfile(p)
	return nil
}

// copyProfile creates a deep copy of a profile.
func copyProfile(p *nutrition.Profile) *nutrition.Profile {
	cpy := *p
	if p.DesiredWeight != nil {
		val := *p.DesiredWeight
		cpy.DesiredWeight = &val
	}
	if p.GoalDuration != nil {
		val := *p.GoalDuration
		cpy.GoalDuration = &val
	}
	return &cpy
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
