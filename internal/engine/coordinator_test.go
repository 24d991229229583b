package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibeworks/forge/internal/catalog"
	apperrors "github.com/vibeworks/forge/internal/errors"
	"github.com/vibeworks/forge/internal/workspace"
)

type fakeStage struct {
	name Stage
	run  func(ctx context.Context, sc *StageContext) error
}

func (f *fakeStage) Name() Stage { return f.name }

func (f *fakeStage) Run(ctx context.Context, sc *StageContext) error {
	if f.run != nil {
		return f.run(ctx, sc)
	}
	return nil
}

// registerFakes wires a full set of pass-through runners. overrides replace
// the default behavior for individual stages.
func registerFakes(c *Coordinator, overrides map[Stage]func(ctx context.Context, sc *StageContext) error) {
	defaults := map[Stage]func(ctx context.Context, sc *StageContext) error{
		StagePlan: func(_ context.Context, sc *StageContext) error {
			sc.Plan = &ProjectPlan{
				ProjectOverview: "a demo project",
				CoreFeatures:    []string{"feature one"},
				FrontendTasks:   []TaskSpec{{ID: "fe-1", Description: "shell", Kind: KindComponent, Priority: "high"}},
				BackendTasks:    []TaskSpec{{ID: "be-1", Description: "api", Kind: KindEndpoint, Priority: "high"}},
			}
			return nil
		},
		StageArchitecture: func(_ context.Context, sc *StageContext) error {
			sc.Architecture = &Architecture{
				SystemOverview: "two tiers",
				Components:     []ArchComponent{{Name: "web"}, {Name: "api"}},
			}
			return nil
		},
		StageFrontend: func(_ context.Context, sc *StageContext) error {
			sc.Frontend = &StageResult{CompletedTasks: []string{"fe-1"}, CreatedFiles: []string{"frontend/src/App.jsx"}}
			return nil
		},
		StageBackend: func(_ context.Context, sc *StageContext) error {
			sc.Backend = &StageResult{CompletedTasks: []string{"be-1"}, CreatedFiles: []string{"backend/app/main.py"}}
			return nil
		},
		StageAI: func(_ context.Context, sc *StageContext) error {
			sc.AI = &StageResult{CompletedTasks: []string{"ai-1"}}
			return nil
		},
		StageDocs: func(_ context.Context, sc *StageContext) error {
			sc.Docs = &DocsResult{Files: []DocFile{{Path: "README.md", Content: "# demo"}}}
			return nil
		},
		StageFinalize: func(_ context.Context, sc *StageContext) error {
			sc.Report = &FinalReport{ExecutiveSummary: "done"}
			return nil
		},
	}
	for stage, fn := range overrides {
		defaults[stage] = fn
	}
	for stage, fn := range defaults {
		c.RegisterStage(&fakeStage{name: stage, run: fn})
	}
}

func newTestCoordinator(t *testing.T) *Coordinator {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	ws, err := workspace.NewManager(t.TempDir())
	require.NoError(t, err)
	return NewCoordinator(Options{
		Gen:       nil, // fake stages never call the generator
		Workspace: ws,
		Catalog:   cat,
		Log:       zerolog.Nop(),
		Defaults:  Defaults{Frontend: "react", Backend: "fastapi", Database: "postgresql", Deployment: "docker"},
	})
}

func validRequest() Request {
	return Request{ProjectName: "Task Tracker", Description: "a task tracking app"}
}

func TestSubmitReturnsInitializing(t *testing.T) {
	c := newTestCoordinator(t)
	registerFakes(c, nil)

	p, err := c.Submit(validRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, StatusInitializing, p.Status)
	assert.Equal(t, ProgressSubmitted, p.Progress)
	assert.Equal(t, "react", p.Request.FrontendFramework)
	assert.Equal(t, "fastapi", p.Request.BackendFramework)

	c.Wait()
}

func TestSubmitValidation(t *testing.T) {
	c := newTestCoordinator(t)
	registerFakes(c, nil)

	_, err := c.Submit(Request{Description: "no name"})
	assert.Error(t, err)

	_, err = c.Submit(Request{ProjectName: "x"})
	assert.Error(t, err)

	_, err = c.Submit(Request{ProjectName: "x", Description: "y", FrontendFramework: "svelte"})
	assert.ErrorContains(t, err, "unsupported frontend")

	_, err = c.Submit(Request{ProjectName: "x", Description: "y", BackendFramework: "rails"})
	assert.ErrorContains(t, err, "unsupported backend")
}

func TestPipelineCheckpointTrace(t *testing.T) {
	c := newTestCoordinator(t)
	registerFakes(c, nil)
	events := c.Events().Subscribe()
	defer c.Events().Unsubscribe(events)

	p, err := c.Submit(validRequest())
	require.NoError(t, err)
	c.Wait()

	var trace []string
	skipped := false
deadline:
	for {
		select {
		case evt := <-events:
			switch evt.Type {
			case EventProjectProgress:
				trace = append(trace, evt.Data["status"]+"@"+evt.Data["progress"])
			case EventStageSkipped:
				skipped = true
			case EventProjectCompleted:
				break deadline
			case EventProjectFailed:
				t.Fatalf("pipeline failed: %v", evt.Data)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for completion event")
		}
	}

	assert.True(t, skipped, "AI stage should be skipped when include_ai is false")
	assert.Equal(t, []string{
		"planning@0.00",
		"planning@0.10",
		"designing_architecture@0.10",
		"designing_architecture@0.20",
		"creating_frontend@0.20",
		"creating_frontend@0.30",
		"creating_backend@0.30",
		"creating_backend@0.50",
		"creating_backend@0.70", // AI checkpoint reached by the skip
		"creating_documentation@0.70",
		"creating_documentation@0.80",
		"finalizing@0.90",
		"finalizing@1.00",
		"completed@1.00",
	}, trace)

	final, err := c.Status(p.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, final.Status)
	assert.Equal(t, ProgressCompleted, final.Progress)
	assert.Contains(t, final.Details, "plan")
	assert.Contains(t, final.Details, "architecture")
	assert.Contains(t, final.Details, "frontend")
	assert.Contains(t, final.Details, "backend")
	assert.Contains(t, final.Details, "final_report")
	assert.NotContains(t, final.Details, "ai_components")
}

func TestPipelineRunsAIStageWhenRequested(t *testing.T) {
	c := newTestCoordinator(t)
	ran := false
	registerFakes(c, map[Stage]func(ctx context.Context, sc *StageContext) error{
		StageAI: func(_ context.Context, sc *StageContext) error {
			ran = true
			sc.AI = &StageResult{CompletedTasks: []string{"ai-1"}}
			return nil
		},
	})

	req := validRequest()
	req.IncludeAI = true
	p, err := c.Submit(req)
	require.NoError(t, err)
	c.Wait()

	assert.True(t, ran)
	final, err := c.Status(p.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, final.Status)
	assert.Contains(t, final.Details, "ai_components")
}

func TestPipelineFailureRecordsErrorVerbatim(t *testing.T) {
	c := newTestCoordinator(t)
	boom := fmt.Errorf("backend stage: %w", apperrors.NewMalformedResponse("no JSON document found", "I cannot help with that"))
	registerFakes(c, map[Stage]func(ctx context.Context, sc *StageContext) error{
		StageBackend: func(context.Context, *StageContext) error { return boom },
	})

	p, err := c.Submit(validRequest())
	require.NoError(t, err)
	c.Wait()

	final, err := c.Status(p.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusError, final.Status)
	assert.Equal(t, boom.Error(), final.Details["error"])
	// Progress freezes at the last completed checkpoint.
	assert.Equal(t, ProgressFrontendDone, final.Progress)

	// Completed artifacts from earlier stages stay visible.
	assert.Contains(t, final.Details, "plan")
	assert.Contains(t, final.Details, "frontend")
	assert.NotContains(t, final.Details, "backend")
}

func TestDownloadPathGating(t *testing.T) {
	c := newTestCoordinator(t)
	release := make(chan struct{})
	registerFakes(c, map[Stage]func(ctx context.Context, sc *StageContext) error{
		StageFinalize: func(_ context.Context, sc *StageContext) error {
			<-release
			sc.Report = &FinalReport{}
			return nil
		},
	})

	p, err := c.Submit(validRequest())
	require.NoError(t, err)

	// Not completed yet.
	require.Eventually(t, func() bool {
		snap, err := c.Status(p.ID)
		return err == nil && snap.Status == StatusFinalizing
	}, 2*time.Second, 5*time.Millisecond)
	_, err = c.DownloadPath(p.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	close(release)
	c.Wait()

	path, err := c.DownloadPath(p.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, path)
	assert.DirExists(t, path)
}

func TestDeleteCancelsRunningPipeline(t *testing.T) {
	c := newTestCoordinator(t)
	entered := make(chan struct{})
	registerFakes(c, map[Stage]func(ctx context.Context, sc *StageContext) error{
		StageBackend: func(ctx context.Context, _ *StageContext) error {
			close(entered)
			<-ctx.Done()
			return ctx.Err()
		},
	})

	p, err := c.Submit(validRequest())
	require.NoError(t, err)

	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("pipeline never reached the backend stage")
	}

	require.NoError(t, c.Delete(p.ID))
	c.Wait()

	_, err = c.Status(p.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, c.Delete(p.ID), apperrors.ErrNotFound)
}

func TestStatusUnknownProject(t *testing.T) {
	c := newTestCoordinator(t)
	_, err := c.Status("missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSameNameProjectsGetDistinctNamespaces(t *testing.T) {
	c := newTestCoordinator(t)
	registerFakes(c, nil)

	a, err := c.Submit(validRequest())
	require.NoError(t, err)
	b, err := c.Submit(validRequest())
	require.NoError(t, err)
	c.Wait()

	pa, err := c.DownloadPath(a.ID)
	require.NoError(t, err)
	pb, err := c.DownloadPath(b.ID)
	require.NoError(t, err)
	assert.NotEqual(t, pa, pb)
}
