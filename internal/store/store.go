package store

import (
	"time"

	"github.com/vibeworks/forge/internal/engine"
)

// ProjectSummary is a lightweight representation for listing persisted
// projects.
type ProjectSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	Progress  float64   `json:"progress"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is the run-log persistence interface. The in-memory registry stays
// the source of truth for live status; the store is an audit trail that
// survives restarts.
type Store interface {
	CreateProject(p *engine.Project) error
	UpdateProject(id string, status engine.Status, progress float64, errMsg string) error
	DeleteProject(id string) error
	ListProjects() ([]ProjectSummary, error)

	CreateExecution(rec engine.ExecutionRecord) error
	ListExecutions(projectID string) ([]engine.ExecutionRecord, error)

	Close() error
}
