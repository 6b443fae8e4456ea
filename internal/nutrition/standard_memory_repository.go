package nutrition

import (
	"context"
	"sort"
	"sync"
)

// InMemoryStandardRepository keeps the standard table in process memory.
type InMemoryStandardRepository struct {
	mu        sync.RWMutex
	standards map[MealType]*MealTypeStandard
}

// NewInMemoryStandardRepository creates a repository seeded with DefaultStandards.
func NewInMemoryStandardRepository() *InMemoryStandardRepository {
	return &InMemoryStandardRepository{standards: DefaultStandards()}
}

// Get returns a copy of the stored standard.
func (r *InMemoryStandardRepository) Get(_ context.Context, mealType MealType) (*MealTypeStandard, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	std, ok := r.standards[mealType]
	if !ok {
		return nil, ErrStandardNotFound
	}
	return std.Clone(), nil
}

// List returns all standards in display order.
func (r *InMemoryStandardRepository) List(_ context.Context) ([]*MealTypeStandard, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*MealTypeStandard, 0, len(r.standards))
	for _, std := range r.standards {
		result = append(result, std.Clone())
	}
	sortStandards(result)
	return result, nil
}

// Upsert stores a copy of std.
func (r *InMemoryStandardRepository) Upsert(_ context.Context, std *MealTypeStandard) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.standards[std.MealType] = std.Clone()
	return nil
}

func sortStandards(standards []*MealTypeStandard) {
	order := make(map[MealType]int)
	for i, t := range MealTypes() {
		order[t] = i
	}
	sort.SliceStable(standards, func(i, j int) bool {
		return order[standards[i].MealType] < order[standards[j].MealType]
	})
}

var _ StandardRepository = (*InMemoryStandardRepository)(nil)
