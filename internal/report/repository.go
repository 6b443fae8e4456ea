package report

import (
	"context"
	"errors"
	"sync"
)

// Repository errors.
var (
	ErrReportNotFound = errors.New("report not found")
)

// Repository stores generated daily reports keyed by (user, date).
type Repository interface {
	// Get returns ErrReportNotFound if the report was never generated.
	Get(ctx context.Context, userID, date string) (*DailyReport, error)

	// Upsert overwrites the stored report of (r.UserID, r.Date).
	Upsert(ctx context.Context, r *DailyReport) error
}

type reportKey struct {
	userID string
	date   string
}

// InMemoryRepository is an in-memory implementation of Repository.
type InMemoryRepository struct {
	mu      sync.RWMutex
	reports map[reportKey]DailyReport
}

// NewInMemoryRepository creates a new in-memory report repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		reports: make(map[reportKey]DailyReport),
	}
}

// Get retrieves a stored daily report.
func (r *InMemoryRepository) Get(_ context.Context, userID, date string) (*DailyReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rep, ok := r.reports[reportKey{userID, date}]
	if !ok {
		return nil, ErrReportNotFound
	}
	return copyReport(&rep), nil
}

// Upsert overwrites a stored daily report.
func (r *InMemoryRepository) Upsert(_ context.Context, rep *DailyReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.reports[reportKey{rep.UserID, rep.Date}] = *copyReport(rep)
	return nil
}

var _ Repository = (*InMemoryRepository)(nil)

func copyReport(rep *DailyReport) *DailyReport {
	out := *rep
	if rep.Target != nil {
		t := *rep.Target
		out.Target = &t
	}
	if rep.Percentages != nil {
		p := *rep.Percentages
		out.Percentages = &p
	}
	out.Meals = make([]MealBreakdown, len(rep.Meals))
	for i, m := range rep.Meals {
		m.Foods = append([]FoodRef(nil), m.Foods...)
		out.Meals[i] = m
	}
	return &out
}
