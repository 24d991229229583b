package stage

import (
	"context"
	"fmt"

	"github.com/vibeworks/forge/internal/engine"
	"github.com/vibeworks/forge/internal/prompts"
)

// Architecture turns the project plan into a system architecture.
type Architecture struct{}

func (*Architecture) Name() engine.Stage { return engine.StageArchitecture }

func (*Architecture) Run(ctx context.Context, sc *engine.StageContext) error {
	if sc.Plan == nil {
		return fmt.Errorf("architecture stage: no plan available")
	}

	prompt := prompts.Architecture(compactJSON(sc.Plan), sc.Request.IncludeAI)

	var arch engine.Architecture
	if err := generateJSON(ctx, sc, engine.StageArchitecture, prompts.PersonaProjectManager, prompt, &arch); err != nil {
		return err
	}

	sc.Architecture = &arch
	return sc.Workspace.WriteJSON(sc.Namespace, "architecture.json", arch)
}
