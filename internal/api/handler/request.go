package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nutrilog/nutrilog/internal/api/middleware"
	"github.com/nutrilog/nutrilog/internal/api/models"
	"github.com/nutrilog/nutrilog/internal/api/response"
)

// decodeJSON decodes the request body into v, answering 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return false
	}
	return true
}

// dateParam parses a YYYY-MM-DD value, answering 400 naming field on failure.
func dateParam(w http.ResponseWriter, r *http.Request, field, value string) (time.Time, bool) {
	d, err := models.ParseDate(value)
	if err != nil {
		response.BadRequest(w, r, "invalid date", []models.FieldError{
			{Field: field, Message: "must be a date in YYYY-MM-DD format", Code: "INVALID_FORMAT"},
		})
		return time.Time{}, false
	}
	return d, true
}

// urlDate parses the named chi URL parameter as a date.
func urlDate(w http.ResponseWriter, r *http.Request, name string) (time.Time, bool) {
	return dateParam(w, r, name, chi.URLParam(r, name))
}

// requireUser returns the authenticated user, answering 401 when absent.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "user not authenticated")
		return "", false
	}
	return userID, true
}
