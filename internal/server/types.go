package server

import "github.com/vibeworks/forge/internal/engine"

// SubmitRequest is the POST /project payload. Empty stack fields fall back
// to the configured defaults.
type SubmitRequest struct {
	ProjectName       string `json:"project_name"`
	Description       string `json:"description"`
	FrontendFramework string `json:"frontend_framework,omitempty"`
	BackendFramework  string `json:"backend_framework,omitempty"`
	Database          string `json:"database,omitempty"`
	IncludeAI         bool   `json:"include_ai,omitempty"`
	DeploymentTarget  string `json:"deployment_target,omitempty"`
}

// SubmitResponse acknowledges an accepted submission.
type SubmitResponse struct {
	ProjectID      string `json:"project_id"`
	Message        string `json:"message"`
	StatusEndpoint string `json:"status_endpoint"`
}

// StatusResponse is the GET /project/:id/status payload.
type StatusResponse struct {
	ProjectID string         `json:"project_id"`
	Name      string         `json:"project_name"`
	Status    engine.Status  `json:"status"`
	Progress  float64        `json:"progress"`
	Details   map[string]any `json:"details"`
}

// ProjectListItem is one entry of GET /projects.
type ProjectListItem struct {
	ProjectID string        `json:"project_id"`
	Name      string        `json:"project_name"`
	Status    engine.Status `json:"status"`
	Progress  float64       `json:"progress"`
}

// FrameworksResponse lists the supported stack choices.
type FrameworksResponse struct {
	Frontend []string `json:"frontend"`
	Backend  []string `json:"backend"`
}

// ProblemDetail follows RFC 7807 for error responses.
type ProblemDetail struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}
