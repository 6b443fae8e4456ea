package target

import (
	"context"
	"sync"

	"github.com/nutrilog/nutrilog/internal/nutrition"
)

// InMemoryRepository is an in-memory implementation of Repository.
type InMemoryRepository struct {
	mu      sync.RWMutex
	targets map[string]nutrition.Target
}

// NewInMemoryRepository creates a new in-memory target repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		targets: make(map[string]nutrition.Target),
	}
}

// Get retrieves the target of a user.
func (r *InMemoryRepository) Get(_ context.Context, userID string) (*nutrition.Target, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.targets[userID]
	if !ok {
		return nil, ErrTargetNotFound
	}
	return &t, nil
}

// Upsert replaces the target of a user.
func (r *InMemoryRepository) Upsert(_ context.Context, t *nutrition.Target) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.targets[t.UserID] = *t
	return nil
}

var _ Repository = (*InMemoryRepository)(nil)
