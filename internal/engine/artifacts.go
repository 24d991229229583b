package engine

import "strings"

// TaskKind classifies a plan task so downstream stages dispatch on a
// declared variant instead of sniffing description text.
type TaskKind string

const (
	// Frontend kinds.
	KindComponent TaskKind = "component"
	KindPage      TaskKind = "page"
	KindStyle     TaskKind = "style"
	KindService   TaskKind = "service"

	// Backend kinds.
	KindEndpoint TaskKind = "endpoint"
	KindModel    TaskKind = "model"
	KindAuth     TaskKind = "auth"

	// AI kinds.
	KindMLModel     TaskKind = "ml_model"
	KindPipeline    TaskKind = "pipeline"
	KindIntegration TaskKind = "integration"

	KindGeneric TaskKind = "generic"
)

// TaskSpec is a single unit of work in the project plan.
type TaskSpec struct {
	ID           string   `json:"task_id"`
	Description  string   `json:"description"`
	Kind         TaskKind `json:"kind"`
	Priority     string   `json:"priority"`
	Dependencies []string `json:"dependencies,omitempty"`
}

// Normalize lowercases the kind and priority and maps unknown values to
// their generic fallbacks.
func (t *TaskSpec) Normalize() {
	t.Kind = TaskKind(strings.ToLower(strings.TrimSpace(string(t.Kind))))
	switch t.Kind {
	case KindComponent, KindPage, KindStyle, KindService,
		KindEndpoint, KindModel, KindAuth,
		KindMLModel, KindPipeline, KindIntegration:
	default:
		t.Kind = KindGeneric
	}
	t.Priority = strings.ToLower(strings.TrimSpace(t.Priority))
	switch t.Priority {
	case "high", "medium", "low":
	default:
		t.Priority = "medium"
	}
}

// PriorityRank orders tasks high before medium before low.
func (t *TaskSpec) PriorityRank() int {
	switch t.Priority {
	case "high":
		return 0
	case "low":
		return 2
	default:
		return 1
	}
}

// TechnicalStack lists the technologies per tier.
type TechnicalStack struct {
	Frontend   []string `json:"frontend"`
	Backend    []string `json:"backend"`
	Database   []string `json:"database"`
	AI         []string `json:"ai,omitempty"`
	Deployment []string `json:"deployment"`
}

// ProjectPlan is the planning stage artifact.
type ProjectPlan struct {
	ProjectOverview           string         `json:"project_overview"`
	CoreFeatures              []string       `json:"core_features"`
	TechnicalStack            TechnicalStack `json:"technical_stack"`
	FrontendTasks             []TaskSpec     `json:"frontend_tasks"`
	BackendTasks              []TaskSpec     `json:"backend_tasks"`
	AITasks                   []TaskSpec     `json:"ai_tasks,omitempty"`
	DocumentationRequirements []string       `json:"documentation_requirements"`
}

// Normalize cleans every task in the plan.
func (p *ProjectPlan) Normalize() {
	for i := range p.FrontendTasks {
		p.FrontendTasks[i].Normalize()
	}
	for i := range p.BackendTasks {
		p.BackendTasks[i].Normalize()
	}
	for i := range p.AITasks {
		p.AITasks[i].Normalize()
	}
}

// ArchComponent is one logical component in the architecture.
type ArchComponent struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Responsibilities []string `json:"responsibilities"`
}

// DataFlowStep describes one hop of data through the system.
type DataFlowStep struct {
	Step          string `json:"step"`
	FromComponent string `json:"from_component"`
	ToComponent   string `json:"to_component"`
	Data          string `json:"data"`
}

// FrontendArch describes the client-side architecture.
type FrontendArch struct {
	Components      []string `json:"components"`
	StateManagement string   `json:"state_management"`
	Routing         string   `json:"routing"`
	APIIntegration  string   `json:"api_integration"`
}

// BackendArch describes the server-side architecture.
type BackendArch struct {
	APIStructure []string `json:"api_structure"`
	Services     []string `json:"services"`
	Middleware   []string `json:"middleware"`
}

// SchemaField is a column in a table definition.
type SchemaField struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Constraints []string `json:"constraints,omitempty"`
}

// SchemaTable is one table in the database schema.
type SchemaTable struct {
	TableName   string        `json:"table_name"`
	Description string        `json:"description"`
	Fields      []SchemaField `json:"fields"`
}

// DatabaseArch holds the proposed schema.
type DatabaseArch struct {
	Schema []SchemaTable `json:"schema"`
}

// AIModelSpec describes one model in the AI architecture.
type AIModelSpec struct {
	Name    string   `json:"name"`
	Purpose string   `json:"purpose"`
	Inputs  []string `json:"inputs"`
	Outputs []string `json:"outputs"`
}

// DataPipelineSpec describes one data pipeline in the AI architecture.
type DataPipelineSpec struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Steps       []string `json:"steps"`
}

// AIArch describes the AI tier.
type AIArch struct {
	Models        []AIModelSpec      `json:"models"`
	DataPipelines []DataPipelineSpec `json:"data_pipelines"`
}

// DeploymentArch describes containers and scaling.
type DeploymentArch struct {
	Containers      []string `json:"containers"`
	Services        []string `json:"services"`
	ScalingStrategy string   `json:"scaling_strategy"`
}

// Architecture is the architecture stage artifact.
type Architecture struct {
	SystemOverview string          `json:"system_overview"`
	Components     []ArchComponent `json:"components"`
	DataFlow       []DataFlowStep  `json:"data_flow"`
	Frontend       FrontendArch    `json:"frontend"`
	Backend        BackendArch     `json:"backend"`
	Database       DatabaseArch    `json:"database"`
	AI             *AIArch         `json:"ai,omitempty"`
	Deployment     DeploymentArch  `json:"deployment"`
}

// StageResult summarizes a code-generation stage (frontend, backend, AI).
type StageResult struct {
	CompletedTasks []string `json:"completed_tasks"`
	CreatedFiles   []string `json:"created_files"`
	TokensIn       int64    `json:"tokens_in"`
	TokensOut      int64    `json:"tokens_out"`
}

// DocFile is one generated documentation file.
type DocFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// DocsResult is the documentation stage artifact.
type DocsResult struct {
	Files []DocFile `json:"files"`
}

// FinalReport is the finalize stage artifact.
type FinalReport struct {
	ExecutiveSummary    string   `json:"executive_summary"`
	FeaturesImplemented []string `json:"features_implemented"`
	TechnicalOverview   string   `json:"technical_overview"`
	ProjectStructure    string   `json:"project_structure"`
	SetupInstructions   string   `json:"setup_instructions"`
	NextSteps           []string `json:"next_steps"`
}
