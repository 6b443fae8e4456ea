package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/nutrilog/nutrilog/internal/api/models"
	"github.com/nutrilog/nutrilog/internal/api/response"
	"github.com/nutrilog/nutrilog/internal/comparison"
	"github.com/nutrilog/nutrilog/internal/food"
	"github.com/nutrilog/nutrilog/internal/nutrition"
	"github.com/nutrilog/nutrilog/internal/profile"
	"github.com/nutrilog/nutrilog/internal/report"
	"github.com/nutrilog/nutrilog/internal/storage"
	"github.com/nutrilog/nutrilog/internal/target"
)

// notFoundDetails maps lookup errors to the resource named in the 404 detail.
var notFoundDetails = []struct {
	err    error
	detail string
}{
	{profile.ErrProfileNotFound, "profile"},
	{profile.ErrNoWeightGoal, "weight goal"},
	{target.ErrTargetNotFound, "nutrition target"},
	{food.ErrEntryNotFound, "food entry"},
	{comparison.ErrComparisonNotFound, "comparison"},
	{report.ErrReportNotFound, "daily report"},
	{nutrition.ErrStandardNotFound, "meal type standard"},
}

// writeServiceError maps a service error to its problem response.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	for _, nf := range notFoundDetails {
		if errors.Is(err, nf.err) {
			response.NotFound(w, r, nf.detail)
			return
		}
	}

	var validationErr *nutrition.ValidationError
	switch {
	case errors.As(err, &validationErr):
		response.BadRequest(w, r, "validation failed", models.FieldErrors(validationErr.Errors))
	case errors.Is(err, nutrition.ErrIncompleteProfile):
		response.BadRequest(w, r, "profile is incomplete", nil)
	case errors.Is(err, nutrition.ErrInvalidMealType):
		response.BadRequest(w, r, "invalid meal type", []models.FieldError{
			{Field: "mealType", Message: "is not a known meal type", Code: "INVALID_VALUE"},
		})
	case errors.Is(err, storage.ErrCircuitOpen):
		response.StorageUnavailable(w, r, "storage temporarily unavailable")
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		response.InternalError(w, r, "internal server error")
	}
}
