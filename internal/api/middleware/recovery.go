package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog"

	"github.com/nutrilog/nutrilog/internal/api/models"
)

// Recovery returns a middleware that recovers from panics and returns a 500 error.
// It logs through the request logger attached by Logger when there is one,
// and through log otherwise.
func Recovery(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}

					logger := zerolog.Ctx(r.Context())
					if logger.GetLevel() == zerolog.Disabled {
						fallback := log.With().Str("request_id", GetRequestID(r.Context())).Logger()
						logger = &fallback
					}
					logger.Error().
						Str("method", r.Method).
						Str("path", r.URL.Path).
						Interface("error", err).
						Str("stack", string(debug.Stack())).
						Msg("panic recovered")

					models.NewInternalError(GetRequestID(r.Context()), "an unexpected error occurred").WriteFor(w, r)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
