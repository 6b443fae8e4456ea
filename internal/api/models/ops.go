package models

// Health represents the health status of the service.
type Health struct {
	Status  HealthStatus           `json:"status"`
	Time    Timestamp              `json:"time"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Readiness reports whether the storage collaborators accept traffic.
type Readiness struct {
	Status HealthStatus  `json:"status"`
	Time   Timestamp     `json:"time"`
	Stores []StoreStatus `json:"stores"`
}

// StoreStatus represents the circuit state of one storage collaborator.
type StoreStatus struct {
	Name          string       `json:"name"`
	Status        HealthStatus `json:"status"`
	CircuitState  string       `json:"circuitState"`
	LastSuccessAt *Timestamp   `json:"lastSuccessAt,omitempty"`
	LastFailureAt *Timestamp   `json:"lastFailureAt,omitempty"`
	Message       *string      `json:"message,omitempty"`
}
