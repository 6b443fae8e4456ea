package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nutrilog/nutrilog/internal/api/response"
	"github.com/nutrilog/nutrilog/internal/nutrition"
)

// MealTypeHandler serves the meal-type standard table.
type MealTypeHandler struct {
	standards *nutrition.StandardCache
}

// NewMealTypeHandler creates a new MealTypeHandler.
func NewMealTypeHandler(standards *nutrition.StandardCache) *MealTypeHandler {
	return &MealTypeHandler{standards: standards}
}

// ListMealTypes handles GET /v1/metadata/meal-types.
func (h *MealTypeHandler) ListMealTypes(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, map[string]interface{}{
		"items": h.standards.List(r.Context()),
	})
}

// GetMealType handles GET /v1/metadata/meal-types/{mealType}.
func (h *MealTypeHandler) GetMealType(w http.ResponseWriter, r *http.Request) {
	std, err := h.standards.Get(r.Context(), nutrition.MealType(chi.URLParam(r, "mealType")))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, std)
}

// PutMealType handles PUT /v1/admin/meal-types/{mealType}. The path meal
// type wins over the one in the body.
func (h *MealTypeHandler) PutMealType(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}

	mealType := nutrition.MealType(chi.URLParam(r, "mealType"))
	if !mealType.Valid() {
		writeServiceError(w, r, nutrition.ErrInvalidMealType)
		return
	}

	var std nutrition.MealTypeStandard
	if !decodeJSON(w, r, &std) {
		return
	}
	std.MealType = mealType

	if err := h.standards.Update(r.Context(), &std); err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, &std)
}

// InvalidateMealTypes handles POST /v1/admin/meal-types/invalidate.
func (h *MealTypeHandler) InvalidateMealTypes(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}

	h.standards.Invalidate()
	response.NoContent(w, r)
}
