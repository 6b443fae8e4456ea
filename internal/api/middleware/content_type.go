package middleware

import (
	"mime"
	"net/http"

	"github.com/nutrilog/nutrilog/internal/api/models"
)

// ContentTypeJSON defaults the response Content-Type to application/json.
// Handlers may override it, as problem responses do.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", "application/json")
		}
		next.ServeHTTP(w, r)
	})
}

// RequireJSON rejects POST, PUT and PATCH requests whose declared body is not
// JSON with a 415 problem. Requests without a Content-Type pass, since
// several POST endpoints (recalculate, comparisons, daily report refresh)
// take no body.
func RequireJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			if contentType := r.Header.Get("Content-Type"); contentType != "" {
				mediaType, _, err := mime.ParseMediaType(contentType)
				if err != nil || mediaType != "application/json" {
					models.NewProblem(
						models.ProblemTypeUnsupportedMediaType,
						GetRequestID(r.Context()),
						"Content-Type must be application/json",
					).WriteFor(w, r)
					return
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}
