package handler

import (
	"net/http"

	"github.com/nutrilog/nutrilog/internal/api/response"
	"github.com/nutrilog/nutrilog/internal/target"
)

// TargetHandler handles nutrition target endpoints.
type TargetHandler struct {
	targets *target.Service
}

// NewTargetHandler creates a new TargetHandler.
func NewTargetHandler(targets *target.Service) *TargetHandler {
	return &TargetHandler{targets: targets}
}

// GetTarget handles GET /v1/me/nutrition-target.
func (h *TargetHandler) GetTarget(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	t, err := h.targets.Get(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, t)
}

// Recalculate handles POST /v1/me/nutrition-target:recalculate.
func (h *TargetHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	t, err := h.targets.Recalculate(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, t)
}
