package models

import "time"

// Run status constants
const (
	RunStatusPending   = "pending"
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// ReconciliationRun tracks the lifecycle of one batch reconciliation
type ReconciliationRun struct {
	ID          string     `json:"id"`
	Status      string     `json:"status"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	Error       string     `json:"error,omitempty"`
}

// MayStart returns true if the run can begin processing
func (r *ReconciliationRun) MayStart() bool {
	return r.Status == RunStatusPending
}

// MayFinish returns true if the run can transition to a terminal state
func (r *ReconciliationRun) MayFinish() bool {
	return r.Status == RunStatusRunning
}

// IsTerminal returns true once the run has completed or failed
func (r *ReconciliationRun) IsTerminal() bool {
	return r.Status == RunStatusCompleted || r.Status == RunStatusFailed
}

// RunResponse is the JSON response format for runs
type RunResponse struct {
	ID          string     `json:"id"`
	Status      string     `json:"status"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	Error       string     `json:"error,omitempty"`
	DurationMS  int64      `json:"duration_ms"`
}

// ToResponse converts ReconciliationRun to RunResponse
func (r *ReconciliationRun) ToResponse() RunResponse {
	resp := RunResponse{
		ID:          r.ID,
		Status:      r.Status,
		StartedAt:   r.StartedAt,
		CompletedAt: r.CompletedAt,
		Error:       r.Error,
	}
	if r.CompletedAt != nil {
		resp.DurationMS = r.CompletedAt.Sub(r.StartedAt).Milliseconds()
	}
	return resp
}
