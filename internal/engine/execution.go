package engine

import "time"

// ExecutionStatus tracks the lifecycle of one stage execution.
type ExecutionStatus string

const (
	ExecRunning   ExecutionStatus = "running"
	ExecCompleted ExecutionStatus = "completed"
	ExecSkipped   ExecutionStatus = "skipped"
	ExecFailed    ExecutionStatus = "failed"
	ExecCancelled ExecutionStatus = "cancelled"
)

// ExecutionRecord is the persisted trace of one stage run.
type ExecutionRecord struct {
	ID           string          `json:"id"`
	ProjectID    string          `json:"project_id"`
	Stage        Stage           `json:"stage"`
	Status       ExecutionStatus `json:"status"`
	TokensIn     int64           `json:"tokens_in"`
	TokensOut    int64           `json:"tokens_out"`
	DurationMS   int64           `json:"duration_ms"`
	ErrorMessage string          `json:"error_message,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
