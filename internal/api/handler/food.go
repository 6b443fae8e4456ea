package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nutrilog/nutrilog/internal/api/models"
	"github.com/nutrilog/nutrilog/internal/api/response"
	"github.com/nutrilog/nutrilog/internal/comparison"
	"github.com/nutrilog/nutrilog/internal/food"
	"github.com/nutrilog/nutrilog/internal/nutrition"
)

// FoodHandler handles food entry, evaluation and comparison endpoints.
type FoodHandler struct {
	foods       *food.Service
	comparisons *comparison.Service
}

// NewFoodHandler creates a new FoodHandler.
func NewFoodHandler(foods *food.Service, comparisons *comparison.Service) *FoodHandler {
	return &FoodHandler{foods: foods, comparisons: comparisons}
}

// ListFoods handles GET /v1/me/foods. Optional query parameters: date
// (YYYY-MM-DD) and mealType.
func (h *FoodHandler) ListFoods(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var opts food.ListOptions
	q := r.URL.Query()
	if v := q.Get("date"); v != "" {
		d, ok := dateParam(w, r, "date", v)
		if !ok {
			return
		}
		opts.From, opts.To = food.DayWindow(d)
	}
	if v := q.Get("mealType"); v != "" {
		opts.MealType = nutrition.MealType(v)
		if !opts.MealType.Valid() {
			writeServiceError(w, r, nutrition.ErrInvalidMealType)
			return
		}
	}

	entries, err := h.foods.List(r.Context(), userID, opts)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if entries == nil {
		entries = []*food.Entry{}
	}

	response.JSON(w, r, http.StatusOK, models.FoodEntryList{Items: entries})
}

// CreateFood handles POST /v1/me/foods.
func (h *FoodHandler) CreateFood(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var input models.FoodEntryInput
	if !decodeJSON(w, r, &input) {
		return
	}

	entry, err := h.foods.Create(r.Context(), userID, input.ToEntryInput())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.Created(w, r, "/v1/me/foods/"+entry.ID, entry)
}

// GetFood handles GET /v1/me/foods/{foodId}.
func (h *FoodHandler) GetFood(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	entry, err := h.foods.Get(r.Context(), userID, chi.URLParam(r, "foodId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, entry)
}

// UpdateFood handles PUT /v1/me/foods/{foodId}.
func (h *FoodHandler) UpdateFood(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var input models.FoodEntryInput
	if !decodeJSON(w, r, &input) {
		return
	}

	entry, err := h.foods.Update(r.Context(), userID, chi.URLParam(r, "foodId"), input.ToEntryInput())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, entry)
}

// DeleteFood handles DELETE /v1/me/foods/{foodId}.
func (h *FoodHandler) DeleteFood(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.foods.Delete(r.Context(), userID, chi.URLParam(r, "foodId")); err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.NoContent(w, r)
}

// EvaluateFood handles GET /v1/me/foods/{foodId}/evaluation.
func (h *FoodHandler) EvaluateFood(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	eval, err := h.foods.Evaluate(r.Context(), userID, chi.URLParam(r, "foodId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, eval)
}

// CreateComparison handles POST /v1/me/foods/{foodId}/comparisons.
func (h *FoodHandler) CreateComparison(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	c, err := h.comparisons.Create(r.Context(), userID, chi.URLParam(r, "foodId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.Created(w, r, "/v1/me/comparisons/"+c.ID, c)
}

// ListComparisons handles GET /v1/me/foods/{foodId}/comparisons.
func (h *FoodHandler) ListComparisons(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	foodID := chi.URLParam(r, "foodId")
	if _, err := h.foods.Get(r.Context(), userID, foodID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	items, err := h.comparisons.ListByFood(r.Context(), userID, foodID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []*comparison.Comparison{}
	}

	response.JSON(w, r, http.StatusOK, models.ComparisonList{Items: items})
}

// GetComparison handles GET /v1/me/comparisons/{comparisonId}.
func (h *FoodHandler) GetComparison(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	c, err := h.comparisons.Get(r.Context(), userID, chi.URLParam(r, "comparisonId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, c)
}

// MealCalories handles GET /v1/me/meals/{mealType}/calories?date=YYYY-MM-DD.
func (h *FoodHandler) MealCalories(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	d, ok := dateParam(w, r, "date", r.URL.Query().Get("date"))
	if !ok {
		return
	}

	meal, err := h.foods.MealCalories(r.Context(), userID, d, nutrition.MealType(chi.URLParam(r, "mealType")))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, meal)
}
