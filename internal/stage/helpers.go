package stage

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"
	"unicode"

	"github.com/vibeworks/forge/internal/catalog"
	"github.com/vibeworks/forge/internal/engine"
	apperrors "github.com/vibeworks/forge/internal/errors"
	"github.com/vibeworks/forge/internal/gen"
	"github.com/vibeworks/forge/internal/normalize"
	"github.com/vibeworks/forge/internal/prompts"
)

// byPriority returns a copy of tasks ordered high, medium, low. The sort is
// stable so tasks of equal priority keep their plan order.
func byPriority(tasks []engine.TaskSpec) []engine.TaskSpec {
	out := append([]engine.TaskSpec(nil), tasks...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PriorityRank() < out[j].PriorityRank()
	})
	return out
}

// generateFile runs one model call and writes the fenced-or-bare code output
// to rel inside the project workspace.
func generateFile(ctx context.Context, sc *engine.StageContext, stage engine.Stage, system, prompt, rel string) error {
	res, err := sc.Gen.Generate(ctx, gen.Request{System: system, Prompt: prompt})
	if err != nil {
		return apperrors.NewAdapterError(string(stage), "generate "+rel, err)
	}
	sc.Tokens.Add(res.TokensIn, res.TokensOut)
	code := normalize.StripFences(res.Output)
	return sc.Workspace.WriteFile(sc.Namespace, rel, code)
}

// generateJSON runs one model call and parses the response into v.
func generateJSON(ctx context.Context, sc *engine.StageContext, stage engine.Stage, system, prompt string, v any) error {
	res, err := sc.Gen.Generate(ctx, gen.Request{System: system, Prompt: prompt})
	if err != nil {
		return apperrors.NewAdapterError(string(stage), "generate", err)
	}
	sc.Tokens.Add(res.TokensIn, res.TokensOut)
	if err := normalize.Into(res.Output, v); err != nil {
		return fmt.Errorf("%s stage: %w", stage, err)
	}
	return nil
}

// starterFiles generates every starter file of a framework choice under dir.
func starterFiles(ctx context.Context, sc *engine.StageContext, stage engine.Stage, system, framework, dir string, files []catalog.StarterFile) ([]string, error) {
	overview := ""
	if sc.Plan != nil {
		overview = sc.Plan.ProjectOverview
	}
	var created []string
	for _, f := range files {
		rel := path.Join(dir, f.Path)
		prompt := prompts.StarterFile(framework, f.Path, f.Purpose, overview)
		if err := generateFile(ctx, sc, stage, system, prompt, rel); err != nil {
			return created, err
		}
		created = append(created, rel)
	}
	return created, nil
}

// extractName picks the word preceding the first trigger word found in the
// description. Frontend names are PascalCased, backend names lowercased.
func extractName(description, fallback string, capitalize bool, triggers ...string) string {
	words := strings.Fields(description)
	name := fallback
	for i, w := range words {
		lw := strings.ToLower(strings.Trim(w, ".,:;"))
		for _, trig := range triggers {
			if lw == trig && i > 0 {
				candidate := cleanName(words[i-1])
				if candidate == "" {
					continue
				}
				if capitalize {
					name = strings.ToUpper(candidate[:1]) + candidate[1:]
				} else {
					name = strings.ToLower(candidate)
				}
				return name
			}
		}
	}
	return name
}

func cleanName(w string) string {
	var b strings.Builder
	for _, r := range w {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// containsWord does a case-insensitive substring check.
func containsWord(s, word string) bool {
	return strings.Contains(strings.ToLower(s), word)
}

// pathOverride honors an explicit "file:" or "path:" line in a task
// description. Absolute paths and parent traversal are ignored.
func pathOverride(description string) string {
	for _, line := range strings.Split(description, "\n") {
		lower := strings.ToLower(line)
		idx := -1
		if strings.Contains(lower, "file:") {
			idx = strings.Index(lower, "file:") + len("file:")
		} else if strings.Contains(lower, "path:") {
			idx = strings.Index(lower, "path:") + len("path:")
		}
		if idx < 0 {
			continue
		}
		p := strings.TrimSpace(line[idx:])
		if p == "" || strings.HasPrefix(p, "/") || strings.Contains(p, "..") {
			continue
		}
		return path.Clean(p)
	}
	return ""
}

// compactJSON marshals v for embedding in a prompt.
func compactJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

// archSummary renders the architecture sections relevant to code-generation
// prompts.
func archSummary(arch *engine.Architecture, tier string) string {
	if arch == nil {
		return ""
	}
	switch tier {
	case "frontend":
		return fmt.Sprintf("State management: %s\nRouting: %s\nAPI integration: %s",
			arch.Frontend.StateManagement, arch.Frontend.Routing, arch.Frontend.APIIntegration)
	case "backend":
		parts := []string{}
		if len(arch.Backend.APIStructure) > 0 {
			parts = append(parts, "API structure: "+strings.Join(arch.Backend.APIStructure, ", "))
		}
		if len(arch.Backend.Services) > 0 {
			parts = append(parts, "Services: "+strings.Join(arch.Backend.Services, ", "))
		}
		return strings.Join(parts, "\n")
	default:
		return arch.SystemOverview
	}
}
