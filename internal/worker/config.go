// Package worker provides background report regeneration for NutriLog.
package worker

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Refresh request errors.
var (
	ErrMissingUser   = errors.New("user_id is required")
	ErrInvalidRange  = errors.New("invalid date range")
	ErrRangeTooLarge = errors.New("date range too large")
)

// RefreshConfig holds configuration for the report refresh job.
type RefreshConfig struct {
	// Concurrency is the number of days regenerated in parallel.
	// Default: 3
	Concurrency int

	// Timeout is the timeout for regenerating one day.
	// Default: 30 seconds
	Timeout time.Duration

	// MaxDays bounds the span of one refresh request.
	// Default: 366
	MaxDays int
}

// DefaultRefreshConfig returns the default refresh configuration.
func DefaultRefreshConfig() RefreshConfig {
	return RefreshConfig{
		Concurrency: 3,
		Timeout:     30 * time.Second,
		MaxDays:     366,
	}
}

// RefreshConfigFromEnv reads WORKER_CONCURRENCY, WORKER_TIMEOUT and
// WORKER_MAX_DAYS on top of the defaults.
func RefreshConfigFromEnv() (RefreshConfig, error) {
	cfg := DefaultRefreshConfig()

	if v := os.Getenv("WORKER_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return cfg, fmt.Errorf("invalid WORKER_CONCURRENCY %q", v)
		}
		cfg.Concurrency = n
	}
	if v := os.Getenv("WORKER_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("invalid WORKER_TIMEOUT %q", v)
		}
		cfg.Timeout = d
	}
	if v := os.Getenv("WORKER_MAX_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return cfg, fmt.Errorf("invalid WORKER_MAX_DAYS %q", v)
		}
		cfg.MaxDays = n
	}
	return cfg, nil
}

// RefreshRequest asks for the daily reports of one user over an inclusive
// range of UTC days to be regenerated.
type RefreshRequest struct {
	UserID string
	From   time.Time
	To     time.Time
}

// Validate checks the request against the configured span limit.
func (r RefreshRequest) Validate(maxDays int) error {
	if r.UserID == "" {
		return ErrMissingUser
	}
	if r.From.IsZero() || r.To.IsZero() || r.To.Before(r.From) {
		return ErrInvalidRange
	}
	if maxDays > 0 && len(r.Days()) > maxDays {
		return fmt.Errorf("%w: more than %d days", ErrRangeTooLarge, maxDays)
	}
	return nil
}

// Days returns midnight UTC of every day in the range.
func (r RefreshRequest) Days() []time.Time {
	from := truncateDay(r.From)
	to := truncateDay(r.To)

	var days []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
