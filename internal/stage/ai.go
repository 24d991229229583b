package stage

import (
	"context"
	"fmt"
	"path"

	"github.com/vibeworks/forge/internal/engine"
	"github.com/vibeworks/forge/internal/prompts"
)

// AI generates the machine-learning tier. Only runs when the request asks
// for AI components; the coordinator skips it otherwise.
type AI struct{}

func (*AI) Name() engine.Stage { return engine.StageAI }

func (*AI) Run(ctx context.Context, sc *engine.StageContext) error {
	if sc.Plan == nil {
		return fmt.Errorf("ai stage: no plan available")
	}
	result := &engine.StageResult{}
	inBefore, outBefore := sc.Tokens.Total()

	// NLP-flavored plans get the nlp starter set, everything else ml_basic.
	kind := "ml_basic"
	for _, t := range sc.Plan.TechnicalStack.AI {
		if containsWord(t, "nlp") || containsWord(t, "language") {
			kind = "nlp"
			break
		}
	}
	created, err := starterFiles(ctx, sc, engine.StageAI, prompts.PersonaAI,
		"python", "ai", sc.Catalog.AIFiles(kind))
	result.CreatedFiles = append(result.CreatedFiles, created...)
	if err != nil {
		return err
	}

	for _, task := range byPriority(sc.Plan.AITasks) {
		if err := ctx.Err(); err != nil {
			return err
		}
		rel := aiTaskFile(task)
		full := path.Join("ai", rel)
		prompt := prompts.TaskFile("python", rel, task.Description, archSummary(sc.Architecture, "ai"))
		if err := generateFile(ctx, sc, engine.StageAI, prompts.PersonaAI, prompt, full); err != nil {
			return err
		}
		result.CreatedFiles = append(result.CreatedFiles, full)
		result.CompletedTasks = append(result.CompletedTasks, task.ID)
	}

	inAfter, outAfter := sc.Tokens.Total()
	result.TokensIn, result.TokensOut = inAfter-inBefore, outAfter-outBefore
	sc.AI = result
	return sc.Workspace.WriteJSON(sc.Namespace, "ai/ai_results.json", result)
}

func aiTaskFile(task engine.TaskSpec) string {
	if p := pathOverride(task.Description); p != "" {
		return p
	}
	switch task.Kind {
	case engine.KindMLModel:
		name := extractName(task.Description, "model", false, "model", "classifier", "predictor")
		return "models/" + name + ".py"
	case engine.KindPipeline:
		name := extractName(task.Description, "pipeline", false, "pipeline", "etl")
		return "pipelines/" + name + ".py"
	case engine.KindIntegration:
		name := extractName(task.Description, "integration", false, "integration", "client")
		return "integrations/" + name + ".py"
	default:
		return task.ID + ".py"
	}
}
