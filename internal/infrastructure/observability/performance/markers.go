// Package performance provides performance monitoring data structures and utilities
// for tracking operation performance across Praxis.
package performance

import (
	"time"
)

// Marker represents a single performance measurement for an operation
type Marker struct {
	Operation string         `json:"operation"`       // e.g., "leads:submit", "auth:sign_in"
	Scope     string         `json:"scope"`           // visitor session, admin email or "system"
	StartTime time.Time      `json:"startTime"`       // When the operation started
	EndTime   time.Time      `json:"endTime"`         // When the operation completed
	Duration  time.Duration  `json:"duration"`        // Total operation duration
	Success   bool           `json:"success"`         // Whether the operation completed successfully
	Error     string         `json:"error,omitempty"` // Error message if operation failed
	Metadata  map[string]any `json:"metadata"`        // Additional operation-specific data
	Completed bool           `json:"completed"`       // Whether Complete() has been called

	onComplete func(*Marker)
}

// Complete marks the operation as finished and calculates final metrics
func (m *Marker) Complete() {
	if m.Completed {
		return
	}

	m.EndTime = time.Now()
	m.Duration = m.EndTime.Sub(m.StartTime)
	m.Completed = true

	if m.onComplete != nil {
		m.onComplete(m)
	}
}

// SetSuccess marks the operation as successful or failed
func (m *Marker) SetSuccess(success bool) {
	m.Success = success
}

// SetError sets an error message and marks the operation as failed
func (m *Marker) SetError(err error) {
	if err != nil {
		m.Error = err.Error()
		m.Success = false
	}
}

// AddMetadata adds key-value metadata to the marker
func (m *Marker) AddMetadata(key string, value any) {
	if m.Metadata == nil {
		m.Metadata = make(map[string]any)
	}
	m.Metadata[key] = value
}

// HealthStatus represents the overall health of the service
type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthDegraded  HealthStatus = "degraded"
	HealthUnhealthy HealthStatus = "unhealthy"
	HealthUnknown   HealthStatus = "unknown"
)

// Snapshot is a point-in-time summary of recently completed operations
type Snapshot struct {
	Timestamp           time.Time               `json:"timestamp"`
	CompletedOperations int                     `json:"completedOperations"`
	FailedOperations    int                     `json:"failedOperations"`
	SlowOperations      int                     `json:"slowOperations"`
	AverageDuration     time.Duration           `json:"averageDuration"`
	ByOperation         map[string]OperationSum `json:"byOperation"`
	OverallHealth       HealthStatus            `json:"overallHealth"`
}

// OperationSum aggregates markers sharing an operation name
type OperationSum struct {
	Count       int           `json:"count"`
	Failures    int           `json:"failures"`
	MaxDuration time.Duration `json:"maxDuration"`
}
