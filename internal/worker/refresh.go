package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/nutrilog/nutrilog/internal/report"
)

// DailyUpdater regenerates one daily report.
type DailyUpdater interface {
	UpdateDaily(ctx context.Context, userID string, date time.Time) (*report.DailyReport, error)
}

// RefreshJob regenerates daily reports with a bounded worker pool.
type RefreshJob struct {
	config  RefreshConfig
	logger  zerolog.Logger
	reports DailyUpdater
	metrics *RefreshMetrics
}

// RefreshMetrics tracks refresh job statistics.
type RefreshMetrics struct {
	mu sync.RWMutex

	TotalRuns      int64
	SuccessfulDays int64
	FailedDays     int64

	LastRefreshAt       time.Time
	LastRefreshDuration time.Duration
	TotalDuration       time.Duration
}

// RefreshJobConfig holds configuration for creating a RefreshJob.
type RefreshJobConfig struct {
	Config  RefreshConfig
	Reports DailyUpdater
	Logger  zerolog.Logger
}

// NewRefreshJob creates a new refresh job processor.
func NewRefreshJob(cfg RefreshJobConfig) *RefreshJob {
	defaults := DefaultRefreshConfig()
	config := cfg.Config
	if config.Concurrency <= 0 {
		config.Concurrency = defaults.Concurrency
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}

	return &RefreshJob{
		config:  config,
		logger:  cfg.Logger,
		reports: cfg.Reports,
		metrics: &RefreshMetrics{},
	}
}

// RefreshResult contains the result of a refresh operation.
type RefreshResult struct {
	UserID     string
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalDays  int
	Successful int
	Failed     int
	Errors     []RefreshError
}

// RefreshError represents the failure of one day.
type RefreshError struct {
	Date  string
	Error string
}

// Run regenerates every day of req with at most Concurrency days in flight.
// Days are independent: a failed day does not stop the others, and days not
// started before ctx ends are reported as failed with the context error.
func (j *RefreshJob) Run(ctx context.Context, req RefreshRequest) *RefreshResult {
	days := req.Days()
	result := &RefreshResult{
		UserID:    req.UserID,
		StartTime: time.Now(),
		TotalDays: len(days),
	}

	logger := j.logger.With().Str("user_id", req.UserID).Logger()
	logger.Info().
		Int("total_days", result.TotalDays).
		Int("concurrency", j.config.Concurrency).
		Msg("starting report refresh job")

	// Each goroutine owns one slot, so errs needs no lock.
	errs := make([]error, len(days))
	var g errgroup.Group
	g.SetLimit(j.config.Concurrency)
	for i, d := range days {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			errs[i] = j.refreshDay(ctx, logger, req.UserID, d)
			return nil
		})
	}
	_ = g.Wait()

	for i, err := range errs {
		if err == nil {
			result.Successful++
			continue
		}
		result.Failed++
		result.Errors = append(result.Errors, RefreshError{
			Date:  days[i].Format(time.DateOnly),
			Error: err.Error(),
		})
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	j.updateMetrics(result)

	event := logger.Info()
	if result.Failed > 0 {
		event = logger.Warn()
	}
	event.
		Dur("duration", result.Duration).
		Int("successful", result.Successful).
		Int("failed", result.Failed).
		Msg("report refresh job completed")

	return result
}

func (j *RefreshJob) refreshDay(ctx context.Context, logger zerolog.Logger, userID string, day time.Time) error {
	dayCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	if _, err := j.reports.UpdateDaily(dayCtx, userID, day); err != nil {
		logger.Warn().
			Err(err).
			Str("date", day.Format(time.DateOnly)).
			Msg("failed to regenerate daily report")
		return err
	}
	return nil
}

func (j *RefreshJob) updateMetrics(result *RefreshResult) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalRuns++
	j.metrics.SuccessfulDays += int64(result.Successful)
	j.metrics.FailedDays += int64(result.Failed)
	j.metrics.LastRefreshAt = result.EndTime
	j.metrics.LastRefreshDuration = result.Duration
	j.metrics.TotalDuration += result.Duration
}

// GetMetrics returns a copy of the current metrics.
func (j *RefreshJob) GetMetrics() RefreshMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return RefreshMetrics{
		TotalRuns:           j.metrics.TotalRuns,
		SuccessfulDays:      j.metrics.SuccessfulDays,
		FailedDays:          j.metrics.FailedDays,
		LastRefreshAt:       j.metrics.LastRefreshAt,
		LastRefreshDuration: j.metrics.LastRefreshDuration,
		TotalDuration:       j.metrics.TotalDuration,
	}
}

// MetricsSnapshot returns a snapshot of the current metrics as a map.
func (j *RefreshJob) MetricsSnapshot() map[string]interface{} {
	m := j.GetMetrics()
	return map[string]interface{}{
		"total_runs":            m.TotalRuns,
		"successful_days":       m.SuccessfulDays,
		"failed_days":           m.FailedDays,
		"last_refresh_at":       m.LastRefreshAt,
		"last_refresh_duration": m.LastRefreshDuration.String(),
		"total_duration":        m.TotalDuration.String(),
	}
}
