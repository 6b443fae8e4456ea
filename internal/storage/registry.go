package storage

import (
	"sort"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
)

// StoreHealth represents the health status of a guarded store.
type StoreHealth struct {
	Name          string           `json:"name"`
	CircuitState  gobreaker.State  `json:"-"`
	State         string           `json:"state"`
	Counts        gobreaker.Counts `json:"-"`
	LastSuccessAt *time.Time       `json:"lastSuccessAt,omitempty"`
	LastFailureAt *time.Time       `json:"lastFailureAt,omitempty"`
	LastError     string           `json:"lastError,omitempty"`
}

// IsHealthy returns true if the store's circuit is closed.
func (h *StoreHealth) IsHealthy() bool {
	return h.CircuitState == gobreaker.StateClosed
}

// IsDegraded returns true if the store is probing recovery (half-open).
func (h *StoreHealth) IsDegraded() bool {
	return h.CircuitState == gobreaker.StateHalfOpen
}

// IsUnhealthy returns true if the store's circuit is open.
func (h *StoreHealth) IsUnhealthy() bool {
	return h.CircuitState == gobreaker.StateOpen
}

// Registry tracks executors and the outcome of their latest calls.
type Registry struct {
	mu     sync.RWMutex
	stores map[string]*registeredStore
	now    func() time.Time
}

type registeredStore struct {
	executor      *Executor
	lastSuccessAt *time.Time
	lastFailureAt *time.Time
	lastError     string
}

// NewRegistry creates a new store registry.
func NewRegistry() *Registry {
	return &Registry{
		stores: make(map[string]*registeredStore),
		now:    time.Now,
	}
}

// NewExecutor creates an executor and registers it under cfg.Name.
func (r *Registry) NewExecutor(cfg ExecutorConfig) *Executor {
	e := NewExecutor(cfg)
	r.Register(e)
	return e
}

// Register adds an executor to the registry. Its calls are recorded from now on.
func (r *Registry) Register(e *Executor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.registry = r
	r.stores[e.Name()] = &registeredStore{executor: e}
}

// Unregister removes a store from the registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.stores[name]; ok {
		s.executor.registry = nil
		delete(r.stores, name)
	}
}

// RecordSuccess records a successful call for a store.
func (r *Registry) RecordSuccess(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.stores[name]; ok {
		now := r.now()
		s.lastSuccessAt = &now
	}
}

// RecordFailure records a failed call for a store.
func (r *Registry) RecordFailure(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.stores[name]; ok {
		now := r.now()
		s.lastFailureAt = &now
		if err != nil {
			s.lastError = err.Error()
		}
	}
}

// GetHealth returns the health of one store, or nil if it is not registered.
func (r *Registry) GetHealth(name string) *StoreHealth {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.stores[name]
	if !ok {
		return nil
	}
	return s.health(name)
}

// GetAllHealth returns the health of every store ordered by name.
func (r *Registry) GetAllHealth() []*StoreHealth {
	r.mu.RLock()
	defer r.mu.RUnlock()

	health := make([]*StoreHealth, 0, len(r.stores))
	for name, s := range r.stores {
		health = append(health, s.health(name))
	}
	sort.Slice(health, func(i, j int) bool { return health[i].Name < health[j].Name })
	return health
}

// Healthy reports whether no registered store has an open circuit.
func (r *Registry) Healthy() bool {
	for _, h := range r.GetAllHealth() {
		if h.IsUnhealthy() {
			return false
		}
	}
	return true
}

// StoreCount returns the number of registered stores.
func (r *Registry) StoreCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.stores)
}

func (s *registeredStore) health(name string) *StoreHealth {
	state := s.executor.CircuitBreakerState()
	return &StoreHealth{
		Name:          name,
		CircuitState:  state,
		State:         state.String(),
		Counts:        s.executor.CircuitBreakerCounts(),
		LastSuccessAt: s.lastSuccessAt,
		LastFailureAt: s.lastFailureAt,
		LastError:     s.lastError,
	}
}
