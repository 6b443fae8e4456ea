package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"

	"github.com/nutrilog/nutrilog/internal/food"
)

// Job types understood by the worker.
const (
	JobFoodEntryChanged = food.JobFoodEntryChanged
	JobReportRefresh    = "report_refresh"
	JobHealthCheck      = "health_check"
)

// Dispatch errors.
var (
	// ErrUnknownJobType marks messages no handler exists for.
	ErrUnknownJobType = errors.New("unknown job type")

	// ErrInvalidMessage marks messages that can never succeed.
	ErrInvalidMessage = errors.New("invalid job message")

	// ErrStoresUnhealthy is returned by health checks while a store circuit is open.
	ErrStoresUnhealthy = errors.New("storage unhealthy")
)

// JobMessage is the JSON body of a worker message. Date is used by
// food_entry_changed; From and To by report_refresh. Dates are YYYY-MM-DD.
type JobMessage struct {
	JobType string `json:"job_type"`
	UserID  string `json:"user_id,omitempty"`
	Date    string `json:"date,omitempty"`
	From    string `json:"from,omitempty"`
	To      string `json:"to,omitempty"`
}

// HealthChecker reports whether the stores are reachable.
type HealthChecker interface {
	Healthy() bool
}

// Dispatcher routes decoded job messages to the refresh job.
type Dispatcher struct {
	refreshJob *RefreshJob
	health     HealthChecker
	maxDays    int
	logger     zerolog.Logger
}

// DispatcherConfig holds configuration for the Dispatcher.
type DispatcherConfig struct {
	RefreshJob *RefreshJob
	Health     HealthChecker
	MaxDays    int
	Logger     zerolog.Logger
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	maxDays := cfg.MaxDays
	if maxDays <= 0 {
		maxDays = DefaultRefreshConfig().MaxDays
	}
	return &Dispatcher{
		refreshJob: cfg.RefreshJob,
		health:     cfg.Health,
		maxDays:    maxDays,
		logger:     cfg.Logger,
	}
}

// Dispatch decodes and runs one message. Errors wrapping ErrUnknownJobType
// or ErrInvalidMessage are final; any other error is worth a redelivery.
func (d *Dispatcher) Dispatch(ctx context.Context, data []byte) (string, error) {
	var msg JobMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}

	switch msg.JobType {
	case JobFoodEntryChanged:
		return msg.JobType, d.handleEntryChanged(ctx, msg)
	case JobReportRefresh:
		return msg.JobType, d.handleReportRefresh(ctx, msg)
	case JobHealthCheck:
		return msg.JobType, d.handleHealthCheck()
	default:
		return msg.JobType, fmt.Errorf("%w: %q", ErrUnknownJobType, msg.JobType)
	}
}

func (d *Dispatcher) handleEntryChanged(ctx context.Context, msg JobMessage) error {
	day, err := parseDay(msg.Date)
	if err != nil {
		return err
	}
	return d.refresh(ctx, RefreshRequest{UserID: msg.UserID, From: day, To: day})
}

func (d *Dispatcher) handleReportRefresh(ctx context.Context, msg JobMessage) error {
	from, err := parseDay(msg.From)
	if err != nil {
		return err
	}
	to, err := parseDay(msg.To)
	if err != nil {
		return err
	}
	return d.refresh(ctx, RefreshRequest{UserID: msg.UserID, From: from, To: to})
}

func (d *Dispatcher) refresh(ctx context.Context, req RefreshRequest) error {
	if err := req.Validate(d.maxDays); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}

	result := d.refreshJob.Run(ctx, req)

	if result.Failed > 0 {
		return fmt.Errorf("report refresh failed for %d/%d days", result.Failed, result.TotalDays)
	}
	return nil
}

func (d *Dispatcher) handleHealthCheck() error {
	d.logger.Debug().Msg("running health check")

	if d.health != nil && !d.health.Healthy() {
		return ErrStoresUnhealthy
	}

	d.logger.Debug().Msg("health check passed")
	return nil
}

func parseDay(s string) (time.Time, error) {
	day, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrInvalidMessage, s)
	}
	return day, nil
}

// PubSubHandler handles Pub/Sub messages for the worker.
type PubSubHandler struct {
	client           *pubsub.Client
	subscriber       *pubsub.Subscriber
	subscriptionName string
	dispatcher       *Dispatcher
	logger           zerolog.Logger
}

// PubSubConfig holds configuration for the Pub/Sub handler.
type PubSubConfig struct {
	ProjectID        string
	SubscriptionName string
	Dispatcher       *Dispatcher
	Logger           zerolog.Logger
}

// NewPubSubHandler creates a new Pub/Sub handler.
func NewPubSubHandler(ctx context.Context, cfg PubSubConfig) (*PubSubHandler, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	subscriber := client.Subscriber(cfg.SubscriptionName)

	subscriber.ReceiveSettings.MaxOutstandingMessages = 10
	subscriber.ReceiveSettings.MaxExtension = 10 * time.Minute

	return &PubSubHandler{
		client:           client,
		subscriber:       subscriber,
		subscriptionName: cfg.SubscriptionName,
		dispatcher:       cfg.Dispatcher,
		logger:           cfg.Logger,
	}, nil
}

// Start begins processing Pub/Sub messages. It blocks until ctx is done.
func (h *PubSubHandler) Start(ctx context.Context) error {
	h.logger.Info().
		Str("subscription", h.subscriptionName).
		Msg("starting pubsub handler")

	return h.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		h.handleMessage(ctx, msg)
	})
}

// Close closes the Pub/Sub client.
func (h *PubSubHandler) Close() error {
	return h.client.Close()
}

func (h *PubSubHandler) handleMessage(ctx context.Context, msg *pubsub.Message) {
	startTime := time.Now()

	logger := h.logger.With().
		Str("message_id", msg.ID).
		Str("publish_time", msg.PublishTime.Format(time.RFC3339)).
		Logger()

	logger.Debug().Msg("received pubsub message")

	jobType, err := h.dispatcher.Dispatch(ctx, msg.Data)
	switch {
	case errors.Is(err, ErrUnknownJobType):
		logger.Warn().Str("job_type", jobType).Msg("unknown job type")
		msg.Ack() // Ack unknown messages to prevent redelivery
		return
	case errors.Is(err, ErrInvalidMessage):
		logger.Error().Err(err).Str("job_type", jobType).Msg("dropping invalid message")
		msg.Ack()
		return
	case err != nil:
		logger.Error().Err(err).Str("job_type", jobType).Msg("job failed")
		msg.Nack()
		return
	}

	logger.Info().
		Str("job_type", jobType).
		Dur("duration", time.Since(startTime)).
		Msg("job completed successfully")

	msg.Ack()
}
