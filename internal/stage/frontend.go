package stage

import (
	"context"
	"fmt"
	"path"

	"github.com/vibeworks/forge/internal/engine"
	"github.com/vibeworks/forge/internal/prompts"
)

// Frontend generates the client-side source tree from the plan's frontend
// tasks plus the framework's starter files.
type Frontend struct{}

func (*Frontend) Name() engine.Stage { return engine.StageFrontend }

func (*Frontend) Run(ctx context.Context, sc *engine.StageContext) error {
	if sc.Plan == nil {
		return fmt.Errorf("frontend stage: no plan available")
	}
	framework := sc.Request.FrontendFramework
	result := &engine.StageResult{}
	inBefore, outBefore := sc.Tokens.Total()

	for _, task := range byPriority(sc.Plan.FrontendTasks) {
		if err := ctx.Err(); err != nil {
			return err
		}
		files := frontendTaskFiles(framework, task)
		for _, rel := range files {
			full := path.Join("frontend", rel)
			prompt := prompts.TaskFile(framework, rel, task.Description, archSummary(sc.Architecture, "frontend"))
			if err := generateFile(ctx, sc, engine.StageFrontend, prompts.PersonaFrontend, prompt, full); err != nil {
				return err
			}
			result.CreatedFiles = append(result.CreatedFiles, full)
		}
		result.CompletedTasks = append(result.CompletedTasks, task.ID)
	}

	created, err := starterFiles(ctx, sc, engine.StageFrontend, prompts.PersonaFrontend,
		framework, "frontend", sc.Catalog.FrontendFiles(framework))
	result.CreatedFiles = append(result.CreatedFiles, created...)
	if err != nil {
		return err
	}

	inAfter, outAfter := sc.Tokens.Total()
	result.TokensIn, result.TokensOut = inAfter-inBefore, outAfter-outBefore
	sc.Frontend = result
	return sc.Workspace.WriteJSON(sc.Namespace, "frontend/frontend_results.json", result)
}

// frontendTaskFiles maps a task to the file paths it produces. Angular
// components and pages get the three-file split; other frameworks get one
// file per task.
func frontendTaskFiles(framework string, task engine.TaskSpec) []string {
	if p := pathOverride(task.Description); p != "" {
		return []string{p}
	}

	ext := frontendExt(framework)
	switch task.Kind {
	case engine.KindComponent:
		name := extractName(task.Description, "DefaultComponent", true, "component", "widget", "element")
		if framework == "angular" {
			base := "src/app/components/" + name + "/" + name
			return []string{base + ".component.ts", base + ".component.html", base + ".component.css"}
		}
		return []string{"src/components/" + name + ext}
	case engine.KindPage:
		name := extractName(task.Description, "DefaultPage", true, "page", "screen", "view")
		if framework == "angular" {
			base := "src/app/pages/" + name + "/" + name
			return []string{base + ".component.ts", base + ".component.html", base + ".component.css"}
		}
		return []string{"src/pages/" + name + ext}
	case engine.KindStyle:
		if containsWord(task.Description, "scss") {
			return []string{"src/styles/main.scss"}
		}
		return []string{"src/styles/main.css"}
	case engine.KindService:
		name := extractName(task.Description, "api", false, "service", "api", "client")
		if framework == "angular" {
			return []string{"src/services/" + name + ".service.ts"}
		}
		return []string{"src/services/" + name + ".service.js"}
	default:
		if framework == "angular" {
			return []string{"src/utils/" + task.ID + ".ts"}
		}
		return []string{"src/utils/" + task.ID + ".js"}
	}
}

func frontendExt(framework string) string {
	switch framework {
	case "react":
		return ".jsx"
	case "vue":
		return ".vue"
	default:
		return ".ts"
	}
}
