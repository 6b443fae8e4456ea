package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/httprate"

	"github.com/nutrilog/nutrilog/internal/api/models"
)

// RateLimitConfig holds configuration for one rate limit tier.
type RateLimitConfig struct {
	// Name identifies the tier in problem responses.
	Name string
	// Requests per window
	RequestLimit int
	// Window duration
	WindowLength time.Duration
}

// Rate limit tiers.
var (
	// AdminRateLimit applies to meal type standard administration (10 req/min).
	AdminRateLimit = RateLimitConfig{
		Name:         "admin",
		RequestLimit: 10,
		WindowLength: time.Minute,
	}

	// ExpensiveRateLimit applies to weekly aggregation endpoints (30 req/min).
	ExpensiveRateLimit = RateLimitConfig{
		Name:         "weekly aggregation",
		RequestLimit: 30,
		WindowLength: time.Minute,
	}

	// StandardRateLimit applies to standard endpoints (100 req/min).
	StandardRateLimit = RateLimitConfig{
		Name:         "standard",
		RequestLimit: 100,
		WindowLength: time.Minute,
	}
)

// RateLimitByIP limits requests per client IP. Run chi's RealIP middleware
// first so proxied requests are keyed by the original client.
func RateLimitByIP(cfg RateLimitConfig) func(http.Handler) http.Handler {
	return httprate.Limit(
		cfg.RequestLimit,
		cfg.WindowLength,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(limitExceededHandler(cfg)),
	)
}

// RateLimitByUser limits requests per authenticated user, falling back to
// the client IP for unauthenticated requests.
func RateLimitByUser(cfg RateLimitConfig) func(http.Handler) http.Handler {
	return httprate.Limit(
		cfg.RequestLimit,
		cfg.WindowLength,
		httprate.WithKeyFuncs(keyByUserOrIP),
		httprate.WithLimitHandler(limitExceededHandler(cfg)),
	)
}

func keyByUserOrIP(r *http.Request) (string, error) {
	if userID := GetUserID(r.Context()); userID != "" {
		return "user:" + userID, nil
	}
	return httprate.KeyByRealIP(r)
}

// limitExceededHandler answers a 429 problem. httprate does not expose the
// window reset time, so Retry-After is the full window length.
func limitExceededHandler(cfg RateLimitConfig) http.HandlerFunc {
	retryAfter := strconv.Itoa(int(math.Ceil(cfg.WindowLength.Seconds())))
	detail := "Rate limit exceeded. Please try again later."
	if cfg.Name != "" {
		detail = fmt.Sprintf("Rate limit exceeded for %s requests (%d per %s). Please try again later.",
			cfg.Name, cfg.RequestLimit, cfg.WindowLength)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", retryAfter)
		models.NewTooManyRequests(GetRequestID(r.Context()), detail).WriteFor(w, r)
	}
}
