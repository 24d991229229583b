package stage

import (
	"context"
	"fmt"

	"github.com/vibeworks/forge/internal/engine"
	"github.com/vibeworks/forge/internal/prompts"
)

// Plan asks the project-manager persona for the full project plan.
type Plan struct{}

func (*Plan) Name() engine.Stage { return engine.StagePlan }

func (*Plan) Run(ctx context.Context, sc *engine.StageContext) error {
	prompt := prompts.ProjectPlan(prompts.PlanRequest{
		ProjectName:       sc.Request.ProjectName,
		Description:       sc.Request.Description,
		FrontendFramework: sc.Request.FrontendFramework,
		BackendFramework:  sc.Request.BackendFramework,
		Database:          sc.Request.Database,
		IncludeAI:         sc.Request.IncludeAI,
		DeploymentTarget:  sc.Request.DeploymentTarget,
	})

	var plan engine.ProjectPlan
	if err := generateJSON(ctx, sc, engine.StagePlan, prompts.PersonaProjectManager, prompt, &plan); err != nil {
		return err
	}
	plan.Normalize()

	if len(plan.FrontendTasks) == 0 && len(plan.BackendTasks) == 0 {
		return fmt.Errorf("plan stage: plan contains no tasks")
	}

	sc.Plan = &plan
	return sc.Workspace.WriteJSON(sc.Namespace, "plan.json", plan)
}
