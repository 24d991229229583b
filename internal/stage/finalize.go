package stage

import (
	"context"
	"fmt"
	"strings"

	"github.com/vibeworks/forge/internal/engine"
	"github.com/vibeworks/forge/internal/prompts"
)

// Finalize writes the deployment starter files, asks for the final project
// report and renders the top-level README.
type Finalize struct{}

func (*Finalize) Name() engine.Stage { return engine.StageFinalize }

func (*Finalize) Run(ctx context.Context, sc *engine.StageContext) error {
	if sc.Plan == nil {
		return fmt.Errorf("finalize stage: no plan available")
	}

	target := sc.Request.DeploymentTarget
	if _, err := starterFiles(ctx, sc, engine.StageFinalize, prompts.PersonaBackend,
		target, "", sc.Catalog.DeploymentFiles(target)); err != nil {
		return err
	}

	files, err := sc.Workspace.ListFiles(sc.Namespace)
	if err != nil {
		return err
	}

	prompt := prompts.FinalReport(sc.Request.ProjectName, compactJSON(files))

	var report engine.FinalReport
	if err := generateJSON(ctx, sc, engine.StageFinalize, prompts.PersonaProjectManager, prompt, &report); err != nil {
		return err
	}

	sc.Report = &report
	if err := sc.Workspace.WriteJSON(sc.Namespace, "final_report.json", report); err != nil {
		return err
	}
	return sc.Workspace.WriteFile(sc.Namespace, "README.md", renderReadme(sc.Request.ProjectName, &report))
}

// renderReadme turns the final report into the project README.
func renderReadme(name string, r *engine.FinalReport) string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "# %s\n\n", name)
	if r.ExecutiveSummary != "" {
		fmt.Fprintf(b, "%s\n\n", r.ExecutiveSummary)
	}
	if len(r.FeaturesImplemented) > 0 {
		b.WriteString("## Features\n\n")
		for _, f := range r.FeaturesImplemented {
			fmt.Fprintf(b, "- %s\n", f)
		}
		b.WriteString("\n")
	}
	if r.TechnicalOverview != "" {
		fmt.Fprintf(b, "## Technical Overview\n\n%s\n\n", r.TechnicalOverview)
	}
	if r.ProjectStructure != "" {
		fmt.Fprintf(b, "## Project Structure\n\n%s\n\n", r.ProjectStructure)
	}
	if r.SetupInstructions != "" {
		fmt.Fprintf(b, "## Setup\n\n%s\n\n", r.SetupInstructions)
	}
	if len(r.NextSteps) > 0 {
		b.WriteString("## Next Steps\n\n")
		for _, s := range r.NextSteps {
			fmt.Fprintf(b, "- %s\n", s)
		}
	}
	return b.String()
}
