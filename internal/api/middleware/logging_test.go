package middleware_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrilog/nutrilog/internal/api/middleware"
)

// logLines decodes every JSON line written to buf.
func logLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var lines []map[string]interface{}
	for _, raw := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &entry))
		lines = append(lines, entry)
	}
	return lines
}

func TestLogger_AccessLine(t *testing.T) {
	var buf bytes.Buffer

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Logger(zerolog.New(&buf)))
	r.Get("/v1/me/foods/{foodId}", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":"fd_1"}`))
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/me/foods/fd_1", http.NoBody)
	req.Header.Set("User-Agent", "nutrilog-ios")
	req.Header.Set("X-Request-Id", "req_access")
	r.ServeHTTP(httptest.NewRecorder(), req)

	lines := logLines(t, &buf)
	require.Len(t, lines, 1)
	entry := lines[0]

	assert.Equal(t, "request completed", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "req_access", entry["request_id"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/v1/me/foods/fd_1", entry["path"])
	assert.Equal(t, "/v1/me/foods/{foodId}", entry["route"])
	assert.Equal(t, float64(200), entry["status"])
	assert.Equal(t, float64(len(`{"id":"fd_1"}`)), entry["bytes"])
	assert.Equal(t, "nutrilog-ios", entry["user_agent"])
	assert.Contains(t, entry, "duration")
	assert.NotContains(t, entry, "trace_id")
}

func TestLogger_LevelFollowsStatus(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{status: http.StatusNoContent, level: "info"},
		{status: http.StatusNotFound, level: "warn"},
		{status: http.StatusUnprocessableEntity, level: "warn"},
		{status: http.StatusServiceUnavailable, level: "error"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			var buf bytes.Buffer
			handler := middleware.Logger(zerolog.New(&buf))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))

			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/v1/me/foods", http.NoBody))

			entry := logLines(t, &buf)[0]
			assert.Equal(t, tt.level, entry["level"])
			assert.Equal(t, float64(tt.status), entry["status"])
			assert.Equal(t, "unmatched", entry["route"])
		})
	}
}

func TestLogger_DefaultStatusCode(t *testing.T) {
	var buf bytes.Buffer
	handler := middleware.Logger(zerolog.New(&buf))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody))

	assert.Equal(t, float64(200), logLines(t, &buf)[0]["status"])
}

func TestLogger_SharesRequestLoggerWithHandlers(t *testing.T) {
	var buf bytes.Buffer
	svc := createTestAuthService(t)

	handler := middleware.RequestID(middleware.Logger(zerolog.New(&buf))(
		middleware.Auth(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			zerolog.Ctx(r.Context()).Warn().Msg("store failed")
			w.WriteHeader(http.StatusInternalServerError)
		})),
	))

	req := httptest.NewRequest(http.MethodGet, "/v1/me/profile", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, svc, "usr_shared"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	lines := logLines(t, &buf)
	require.Len(t, lines, 2)

	requestID := rec.Header().Get("X-Request-Id")
	for _, entry := range lines {
		assert.Equal(t, requestID, entry["request_id"])
		assert.Equal(t, "usr_shared", entry["user_id"])
	}
	assert.Equal(t, "store failed", lines[0]["message"])
	assert.Equal(t, "error", lines[1]["level"])
}

func TestLogger_IncludesTraceID(t *testing.T) {
	setupTestTracer(t)

	var buf bytes.Buffer
	handler := middleware.Tracing()(
		middleware.Logger(zerolog.New(&buf))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})),
	)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/me/targets", http.NoBody))

	entry := logLines(t, &buf)[0]
	assert.Len(t, entry["trace_id"], 32)
	assert.Len(t, entry["span_id"], 16)
}
