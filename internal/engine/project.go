package engine

import (
	"strings"
	"time"
)

// Status represents the current pipeline stage of a project.
type Status string

const (
	StatusInitializing          Status = "initializing"
	StatusPlanning              Status = "planning"
	StatusDesigningArchitecture Status = "designing_architecture"
	StatusCreatingFrontend      Status = "creating_frontend"
	StatusCreatingBackend       Status = "creating_backend"
	StatusCreatingAIComponents  Status = "creating_ai_components"
	StatusCreatingDocumentation Status = "creating_documentation"
	StatusFinalizing            Status = "finalizing"
	StatusCompleted             Status = "completed"
	StatusError                 Status = "error"
)

// Terminal reports whether no further transitions can occur.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// Progress checkpoints reached as the pipeline advances. Progress only ever
// increases; the AI checkpoint is reached whether or not the AI stage runs.
const (
	ProgressSubmitted    = 0.0
	ProgressPlanned      = 0.1
	ProgressArchitected  = 0.2
	ProgressFrontendDone = 0.3
	ProgressBackendDone  = 0.5
	ProgressAIDone       = 0.7
	ProgressDocsDone     = 0.8
	ProgressFinalizing   = 0.9
	ProgressCompleted    = 1.0
)

// Request describes a project submission. Zero-valued fields are filled in
// by ApplyDefaults before the pipeline starts.
type Request struct {
	ProjectName       string `json:"project_name"`
	Description       string `json:"description"`
	FrontendFramework string `json:"frontend_framework"`
	BackendFramework  string `json:"backend_framework"`
	Database          string `json:"database"`
	IncludeAI         bool   `json:"include_ai"`
	DeploymentTarget  string `json:"deployment_target"`
}

// Defaults used when a submission omits a stack choice.
type Defaults struct {
	Frontend   string
	Backend    string
	Database   string
	Deployment string
}

// ApplyDefaults fills empty stack fields and trims the name.
func (r *Request) ApplyDefaults(d Defaults) {
	r.ProjectName = strings.TrimSpace(r.ProjectName)
	if r.FrontendFramework == "" {
		r.FrontendFramework = d.Frontend
	}
	if r.BackendFramework == "" {
		r.BackendFramework = d.Backend
	}
	if r.Database == "" {
		r.Database = d.Database
	}
	if r.DeploymentTarget == "" {
		r.DeploymentTarget = d.Deployment
	}
}

// Project is the tracked state of one submission. Only the owning pipeline
// goroutine mutates it (through Registry.Update); everyone else sees
// snapshots.
type Project struct {
	ID        string         `json:"project_id"`
	Name      string         `json:"project_name"`
	Request   Request        `json:"request"`
	Status    Status         `json:"status"`
	Progress  float64        `json:"progress"`
	Details   map[string]any `json:"details"`
	Namespace string         `json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Clone returns a deep copy safe to hand to readers.
func (p *Project) Clone() *Project {
	cp := *p
	cp.Details = cloneMap(p.Details)
	return &cp
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch t := v.(type) {
		case map[string]any:
			out[k] = cloneMap(t)
		case []string:
			out[k] = append([]string(nil), t...)
		case []any:
			out[k] = append([]any(nil), t...)
		default:
			out[k] = v
		}
	}
	return out
}
