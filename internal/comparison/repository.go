package comparison

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// Repository errors.
var (
	ErrComparisonNotFound = errors.New("comparison not found")
)

// Repository defines the interface for comparison persistence.
type Repository interface {
	// Get retrieves a comparison owned by userID.
	Get(ctx context.Context, userID, id string) (*Comparison, error)

	// ListByFood retrieves the comparisons of one entry, newest first.
	ListByFood(ctx context.Context, userID, foodID string) ([]*Comparison, error)

	// Insert stores a new comparison.
	Insert(ctx context.Context, c *Comparison) error
}

// InMemoryRepository is an in-memory implementation of Repository.
type InMemoryRepository struct {
	mu          sync.RWMutex
	comparisons map[string]*Comparison
}

// NewInMemoryRepository creates a new in-memory comparison repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		comparisons: make(map[string]*Comparison),
	}
}

// Get retrieves a comparison owned by userID.
func (r *InMemoryRepository) Get(_ context.Context, userID, id string) (*Comparison, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.comparisons[id]
	if !ok || c.UserID != userID {
		return nil, ErrComparisonNotFound
	}
	cpy := *c
	return &cpy, nil
}

// ListByFood retrieves the comparisons of one entry, newest first.
func (r *InMemoryRepository) ListByFood(_ context.Context, userID, foodID string) ([]*Comparison, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*Comparison
	for _, c := range r.comparisons {
		if c.UserID == userID && c.FoodID == foodID {
			cpy := *c
			result = append(result, &cpy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// Insert stores a new comparison.
func (r *InMemoryRepository) Insert(_ context.Context, c *Comparison) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *c
	r.comparisons[c.ID] = &cpy
	return nil
}

var _ Repository = (*InMemoryRepository)(nil)
