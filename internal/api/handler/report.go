package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/nutrilog/nutrilog/internal/api/models"
	"github.com/nutrilog/nutrilog/internal/api/response"
	"github.com/nutrilog/nutrilog/internal/report"
)

// ReportHandler handles daily and weekly report endpoints.
type ReportHandler struct {
	reports *report.Service
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reports *report.Service) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// UpdateDaily handles POST /v1/me/reports/daily/{date}.
func (h *ReportHandler) UpdateDaily(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	d, ok := urlDate(w, r, "date")
	if !ok {
		return
	}

	rep, err := h.reports.UpdateDaily(r.Context(), userID, d)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, rep)
}

// GetDaily handles GET /v1/me/reports/daily/{date}.
func (h *ReportHandler) GetDaily(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	d, ok := urlDate(w, r, "date")
	if !ok {
		return
	}

	rep, err := h.reports.GetDaily(r.Context(), userID, d)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, rep)
}

// Weekly handles GET /v1/me/reports/weekly/{weekStart}.
func (h *ReportHandler) Weekly(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	weekStart, ok := urlDate(w, r, "weekStart")
	if !ok {
		return
	}

	rep, err := h.reports.Weekly(r.Context(), userID, weekStart)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, rep)
}

// WeeklyStatistics handles GET /v1/me/reports/weekly-statistics. Without a
// weekStart query parameter the current week is used; top picks how many
// ingredients the diversity histogram lists.
func (h *ReportHandler) WeeklyStatistics(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var weekStart time.Time
	if v := r.URL.Query().Get("weekStart"); v != "" {
		if weekStart, ok = dateParam(w, r, "weekStart", v); !ok {
			return
		}
	}

	top := report.DefaultTopIngredients
	if v := r.URL.Query().Get("top"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			response.BadRequest(w, r, "invalid top", []models.FieldError{
				{Field: "top", Message: "must be a positive integer", Code: "INVALID_VALUE"},
			})
			return
		}
		top = n
	}

	stats, err := h.reports.WeeklyStatistics(r.Context(), userID, weekStart, top)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, stats)
}
