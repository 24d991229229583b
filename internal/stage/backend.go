package stage

import (
	"context"
	"fmt"
	"path"

	"github.com/vibeworks/forge/internal/engine"
	"github.com/vibeworks/forge/internal/prompts"
)

// Backend generates the server-side source tree: starter files for the
// chosen framework and database, then one file per plan task.
type Backend struct{}

func (*Backend) Name() engine.Stage { return engine.StageBackend }

func (*Backend) Run(ctx context.Context, sc *engine.StageContext) error {
	if sc.Plan == nil {
		return fmt.Errorf("backend stage: no plan available")
	}
	framework := sc.Request.BackendFramework
	result := &engine.StageResult{}
	inBefore, outBefore := sc.Tokens.Total()

	created, err := starterFiles(ctx, sc, engine.StageBackend, prompts.PersonaBackend,
		framework, "backend", sc.Catalog.BackendFiles(framework))
	result.CreatedFiles = append(result.CreatedFiles, created...)
	if err != nil {
		return err
	}
	created, err = starterFiles(ctx, sc, engine.StageBackend, prompts.PersonaBackend,
		sc.Request.Database, "backend", sc.Catalog.DatabaseFiles(sc.Request.Database))
	result.CreatedFiles = append(result.CreatedFiles, created...)
	if err != nil {
		return err
	}

	for _, task := range byPriority(sc.Plan.BackendTasks) {
		if err := ctx.Err(); err != nil {
			return err
		}
		rel := backendTaskFile(framework, task)
		full := path.Join("backend", rel)
		prompt := prompts.TaskFile(framework, rel, task.Description, archSummary(sc.Architecture, "backend"))
		if err := generateFile(ctx, sc, engine.StageBackend, prompts.PersonaBackend, prompt, full); err != nil {
			return err
		}
		result.CreatedFiles = append(result.CreatedFiles, full)
		result.CompletedTasks = append(result.CompletedTasks, task.ID)
	}

	inAfter, outAfter := sc.Tokens.Total()
	result.TokensIn, result.TokensOut = inAfter-inBefore, outAfter-outBefore
	sc.Backend = result
	return sc.Workspace.WriteJSON(sc.Namespace, "backend/backend_results.json", result)
}

// backendTaskFile maps a task to its target path inside backend/.
func backendTaskFile(framework string, task engine.TaskSpec) string {
	if p := pathOverride(task.Description); p != "" {
		return p
	}

	switch task.Kind {
	case engine.KindEndpoint:
		name := extractName(task.Description, "api", false, "endpoint", "route", "router", "api")
		switch framework {
		case "flask":
			return "routes/" + name + ".py"
		case "django":
			return "app/views/" + name + ".py"
		default: // fastapi
			return "app/routers/" + name + ".py"
		}
	case engine.KindModel:
		name := extractName(task.Description, "models", false, "model", "schema", "table", "entity")
		if framework == "flask" {
			return "models/" + name + ".py"
		}
		return "app/models/" + name + ".py"
	case engine.KindService:
		name := extractName(task.Description, "core", false, "service", "logic", "handler")
		if framework == "flask" {
			return "services/" + name + "_service.py"
		}
		return "app/services/" + name + "_service.py"
	case engine.KindAuth:
		if framework == "flask" {
			return "auth/auth.py"
		}
		return "app/auth/auth.py"
	default:
		if framework == "flask" {
			return "misc/" + task.ID + ".py"
		}
		return "app/misc/" + task.ID + ".py"
	}
}
