// Package response writes NutriLog API responses.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/nutrilog/nutrilog/internal/api/middleware"
	"github.com/nutrilog/nutrilog/internal/api/models"
)

// JSON writes a JSON response with the given status code.
// Includes X-Request-Id header for correlation.
func JSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	write(w, r, status, "", data)
}

// Created writes a 201 response for a newly created entry or comparison,
// with its URL in the Location header.
func Created(w http.ResponseWriter, r *http.Request, location string, data interface{}) {
	write(w, r, http.StatusCreated, location, data)
}

// NoContent writes a 204 No Content response.
func NoContent(w http.ResponseWriter, r *http.Request) {
	setRequestID(w, r)
	w.WriteHeader(http.StatusNoContent)
}

func write(w http.ResponseWriter, r *http.Request, status int, location string, data interface{}) {
	setRequestID(w, r)
	w.Header().Set("Content-Type", "application/json")
	if location != "" {
		w.Header().Set("Location", location)
	}
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func setRequestID(w http.ResponseWriter, r *http.Request) {
	if requestID := middleware.GetRequestID(r.Context()); requestID != "" {
		w.Header().Set("X-Request-Id", requestID)
	}
}

// BadRequest writes a 400 problem with optional field errors.
func BadRequest(w http.ResponseWriter, r *http.Request, detail string, errors []models.FieldError) {
	models.NewBadRequest(middleware.GetRequestID(r.Context()), detail, errors).WriteFor(w, r)
}

// Unauthorized writes a 401 problem.
func Unauthorized(w http.ResponseWriter, r *http.Request, detail string) {
	models.NewUnauthorized(middleware.GetRequestID(r.Context()), detail).WriteFor(w, r)
}

// NotFound writes a 404 problem.
func NotFound(w http.ResponseWriter, r *http.Request, detail string) {
	models.NewNotFound(middleware.GetRequestID(r.Context()), detail).WriteFor(w, r)
}

// InternalError writes a 500 problem.
func InternalError(w http.ResponseWriter, r *http.Request, detail string) {
	models.NewInternalError(middleware.GetRequestID(r.Context()), detail).WriteFor(w, r)
}

// StorageUnavailable writes a 503 problem while a storage circuit is open.
func StorageUnavailable(w http.ResponseWriter, r *http.Request, detail string) {
	models.NewStorageUnavailable(middleware.GetRequestID(r.Context()), detail).WriteFor(w, r)
}
