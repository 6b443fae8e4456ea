package handler

import (
	"net/http"

	"github.com/nutrilog/nutrilog/internal/api/models"
	"github.com/nutrilog/nutrilog/internal/api/response"
	"github.com/nutrilog/nutrilog/internal/profile"
)

// ProfileHandler handles user profile endpoints.
type ProfileHandler struct {
	profiles *profile.Service
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profiles *profile.Service) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// GetProfile handles GET /v1/me/profile.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	p, err := h.profiles.Get(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, models.NewProfileResponse(p))
}

// UpsertProfile handles PUT /v1/me/profile. Storing a profile recomputes the
// nutrition target.
func (h *ProfileHandler) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var input models.ProfileInput
	if !decodeJSON(w, r, &input) {
		return
	}

	p, fieldErrors := input.ToProfile()
	if len(fieldErrors) > 0 {
		response.BadRequest(w, r, "validation failed", fieldErrors)
		return
	}

	stored, err := h.profiles.Upsert(r.Context(), userID, p)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, models.NewProfileResponse(stored))
}

// PatchProfile handles PATCH /v1/me/profile, the step-by-step onboarding
// flow. The target is recomputed once the profile is complete.
func (h *ProfileHandler) PatchProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var input models.ProfilePatchInput
	if !decodeJSON(w, r, &input) {
		return
	}

	patch, fieldErrors := input.ToPatch()
	if len(fieldErrors) > 0 {
		response.BadRequest(w, r, "validation failed", fieldErrors)
		return
	}

	stored, err := h.profiles.Patch(r.Context(), userID, patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, models.NewProfileResponse(stored))
}

// GetProgress handles GET /v1/me/progress.
func (h *ProfileHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	progress, err := h.profiles.Progress(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, progress)
}
