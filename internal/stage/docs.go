package stage

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/vibeworks/forge/internal/engine"
	"github.com/vibeworks/forge/internal/prompts"
)

// Docs asks the technical-writer persona for the documentation set and
// writes it under docs/.
type Docs struct{}

func (*Docs) Name() engine.Stage { return engine.StageDocs }

func (*Docs) Run(ctx context.Context, sc *engine.StageContext) error {
	if sc.Plan == nil {
		return fmt.Errorf("docs stage: no plan available")
	}

	overview := ""
	if sc.Architecture != nil {
		overview = sc.Architecture.SystemOverview
	}
	prompt := prompts.Documentation(sc.Request.ProjectName, compactJSON(sc.Plan), overview,
		sc.Plan.DocumentationRequirements)

	var docs engine.DocsResult
	if err := generateJSON(ctx, sc, engine.StageDocs, prompts.PersonaTechnicalWriter, prompt, &docs); err != nil {
		return err
	}

	for _, f := range docs.Files {
		rel := safeDocPath(f.Path)
		if rel == "" {
			continue
		}
		if err := sc.Workspace.WriteFile(sc.Namespace, path.Join("docs", rel), f.Content); err != nil {
			return err
		}
	}

	sc.Docs = &docs
	return sc.Workspace.WriteJSON(sc.Namespace, "docs/documentation_results.json", docs)
}

// safeDocPath rejects absolute paths and parent traversal in model-chosen
// file names.
func safeDocPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || strings.HasPrefix(p, "/") {
		return ""
	}
	clean := path.Clean(p)
	if clean == "." || strings.HasPrefix(clean, "..") {
		return ""
	}
	return clean
}
