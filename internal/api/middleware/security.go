package middleware

import (
	"net/http"

	"github.com/nutrilog/nutrilog/internal/api/models"
)

// securityHeaders are set on every response. Responses carry personal
// health data, so they must never be stored by shared caches.
var securityHeaders = map[string]string{
	"X-Content-Type-Options":    "nosniff",
	"X-Frame-Options":           "DENY",
	"Strict-Transport-Security": "max-age=31536000; includeSubDomains",
	"Content-Security-Policy":   "default-src 'none'; frame-ancestors 'none'",
	"Referrer-Policy":           "no-referrer",
	"Permissions-Policy":        "geolocation=(), microphone=()",
	"Cache-Control":             "no-store",
}

// SecurityHeaders adds the security headers to all HTTP responses.
// Handlers may still override any of them.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for name, value := range securityHeaders {
			w.Header().Set(name, value)
		}
		next.ServeHTTP(w, r)
	})
}

// RequireTLS rejects plain HTTP requests when enabled. It trusts the
// X-Forwarded-Proto header set by the load balancer; requests without the
// header are direct connections and pass.
func RequireTLS(enabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !enabled {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" && proto != "https" {
				models.NewProblem(
					models.ProblemTypeTLSRequired,
					GetRequestID(r.Context()),
					"This endpoint requires HTTPS",
				).WriteFor(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
