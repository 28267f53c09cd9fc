// Package health contiene DTOs para health checks.
package health

import "time"

// HealthStatus es el estado de un componente.
type HealthStatus struct {
	Status string `json:"status"` // "ok", "error", "disabled"
	Error  string `json:"error,omitempty"`
}

// HealthResponse es la respuesta de /readyz.
type HealthResponse struct {
	Status     string                  `json:"status"` // "ready", "unavailable"
	Version    string                  `json:"version,omitempty"`
	Commit     string                  `json:"commit,omitempty"`
	Components map[string]HealthStatus `json:"components"`
	Timestamp  time.Time               `json:"timestamp"`
}
