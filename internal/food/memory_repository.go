package food

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewInMemoryRepository creates a new in-memory food entry repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		entries: make(map[string]*Entry),
	}
}

// Get retrieves an entry owned by userID.
func (r *InMemoryRepository) Get(_ context.Context, userID, id string) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[id]
	if !ok || e.UserID != userID {
		return nil, ErrEntryNotFound
	}
	return copyEntry(e), nil
}

// List retrieves a user's entries ordered by eating time.
func (r *InMemoryRepository) List(_ context.Context, userID string, opts ListOptions) ([]*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var entries []*Entry
	for _, e := range r.entries {
		if e.UserID == userID && opts.matches(e) {
			entries = append(entries, copyEntry(e))
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].EatingTime.Equal(entries[j].EatingTime) {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].EatingTime.Before(entries[j].EatingTime)
	})
	return entries, nil
}

// Create creates a new entry.
func (r *InMemoryRepository) Create(_ context.Context, e *Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[e.ID] = copyEntry(e)
	return nil
}

// Update replaces an existing entry.
func (r *InMemoryRepository) Update(_ context.Context, e *Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.entries[e.ID]
	if !ok || existing.UserID != e.UserID {
		return ErrEntryNotFound
	}
	r.entries[e.ID] = copyEntry(e)
	return nil
}

// Delete deletes an entry owned by userID.
func (r *InMemoryRepository) Delete(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok || e.UserID != userID {
		return ErrEntryNotFound
	}
	delete(r.entries, id)
	return nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
