// Package handler provides HTTP handlers for the NutriLog API.
package handler

import (
	"net/http"
	"time"

	"github.com/nutrilog/nutrilog/internal/api/models"
	"github.com/nutrilog/nutrilog/internal/api/response"
	"github.com/nutrilog/nutrilog/internal/storage"
)

// StoreHealthReporter reports the circuit state of storage collaborators.
type StoreHealthReporter interface {
	GetAllHealth() []*storage.StoreHealth
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	stores    StoreHealthReporter
}

// NewOpsHandler creates a new OpsHandler. stores may be nil, in which case
// readiness only reports the process as up.
func NewOpsHandler(version, buildTime string, stores StoreHealthReporter) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		stores:    stores,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready. Any open circuit fails readiness
// with 503; a half-open one reports DEGRADED.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	readiness := models.Readiness{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Stores: []models.StoreStatus{},
	}

	if h.stores != nil {
		for _, sh := range h.stores.GetAllHealth() {
			status := storeStatus(sh)
			readiness.Stores = append(readiness.Stores, status)

			switch status.Status {
			case models.HealthStatusFail:
				readiness.Status = models.HealthStatusFail
			case models.HealthStatusDegraded:
				if readiness.Status == models.HealthStatusOK {
					readiness.Status = models.HealthStatusDegraded
				}
			}
		}
	}

	code := http.StatusOK
	if readiness.Status == models.HealthStatusFail {
		code = http.StatusServiceUnavailable
	}
	response.JSON(w, r, code, readiness)
}

func storeStatus(sh *storage.StoreHealth) models.StoreStatus {
	status := models.StoreStatus{
		Name:         sh.Name,
		Status:       models.HealthStatusOK,
		CircuitState: sh.State,
	}
	switch {
	case sh.IsUnhealthy():
		status.Status = models.HealthStatusFail
	case sh.IsDegraded():
		status.Status = models.HealthStatusDegraded
	}

	if sh.LastSuccessAt != nil {
		ts := models.Timestamp(*sh.LastSuccessAt)
		status.LastSuccessAt = &ts
	}
	if sh.LastFailureAt != nil {
		ts := models.Timestamp(*sh.LastFailureAt)
		status.LastFailureAt = &ts
	}
	if sh.LastError != "" {
		msg := sh.LastError
		status.Message = &msg
	}
	return status
}
