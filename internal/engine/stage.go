package engine

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/vibeworks/forge/internal/catalog"
	"github.com/vibeworks/forge/internal/gen"
	"github.com/vibeworks/forge/internal/workspace"
)

// Stage names the pipeline stages in execution order.
type Stage string

const (
	StagePlan         Stage = "plan"
	StageArchitecture Stage = "architecture"
	StageFrontend     Stage = "frontend"
	StageBackend      Stage = "backend"
	StageAI           Stage = "ai"
	StageDocs         Stage = "docs"
	StageFinalize     Stage = "finalize"
)

// Runner executes a single stage of the pipeline.
type Runner interface {
	Name() Stage
	Run(ctx context.Context, sc *StageContext) error
}

// StageContext carries the shared dependencies and accumulating artifacts
// of one pipeline run. Each stage reads the artifacts of its predecessors
// and fills in its own before returning.
type StageContext struct {
	ProjectID string
	Namespace string
	Request   Request

	Gen       gen.Generator
	Workspace *workspace.Manager
	Catalog   *catalog.Catalog
	Log       zerolog.Logger
	Tokens    *gen.TokenTracker

	Plan         *ProjectPlan
	Architecture *Architecture
	Frontend     *StageResult
	Backend      *StageResult
	AI           *StageResult
	Docs         *DocsResult
	Report       *FinalReport
}
