package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vibeworks/forge/internal/catalog"
	apperrors "github.com/vibeworks/forge/internal/errors"
	"github.com/vibeworks/forge/internal/gen"
	"github.com/vibeworks/forge/internal/workspace"
)

// RunLog is the subset of store.Store the coordinator needs (avoids import
// cycle). The registry stays the source of truth for status reads; the run
// log is an audit trail.
type RunLog interface {
	CreateProject(p *Project) error
	UpdateProject(id string, status Status, progress float64, errMsg string) error
	DeleteProject(id string) error
	CreateExecution(rec ExecutionRecord) error
	ListExecutions(projectID string) ([]ExecutionRecord, error)
}

// Recorder receives pipeline metrics.
type Recorder interface {
	ProjectSubmitted()
	ProjectCompleted()
	ProjectFailed()
	StageDurationSeconds(stage string, seconds float64)
	AddTokens(in, out int64)
}

// Options configures a Coordinator. Gen, Workspace and Catalog are
// required; Store and Metrics may be nil.
type Options struct {
	Gen       gen.Generator
	Workspace *workspace.Manager
	Catalog   *catalog.Catalog
	Store     RunLog
	Metrics   Recorder
	Log       zerolog.Logger
	Defaults  Defaults
}

// Coordinator owns the project registry and drives each submission through
// the pipeline on its own goroutine.
type Coordinator struct {
	registry *Registry
	events   *EventBus
	stages   map[Stage]Runner
	opts     Options
	wg       sync.WaitGroup
}

// NewCoordinator creates a coordinator with no stages registered.
func NewCoordinator(opts Options) *Coordinator {
	return &Coordinator{
		registry: NewRegistry(),
		events:   NewEventBus(),
		stages:   make(map[Stage]Runner),
		opts:     opts,
	}
}

// RegisterStage adds a stage runner.
func (c *Coordinator) RegisterStage(r Runner) {
	c.stages[r.Name()] = r
}

// Events returns the coordinator's event bus.
func (c *Coordinator) Events() *EventBus {
	return c.events
}

// Registry exposes the project registry for read paths.
func (c *Coordinator) Registry() *Registry {
	return c.registry
}

// Submit validates the request, registers the project and starts its
// pipeline goroutine. The returned snapshot has status "initializing".
func (c *Coordinator) Submit(req Request) (*Project, error) {
	req.ApplyDefaults(c.opts.Defaults)
	if req.ProjectName == "" {
		return nil, fmt.Errorf("project_name is required")
	}
	if req.Description == "" {
		return nil, fmt.Errorf("description is required")
	}
	if !c.opts.Catalog.SupportsFrontend(req.FrontendFramework) {
		return nil, fmt.Errorf("unsupported frontend framework: %s", req.FrontendFramework)
	}
	if !c.opts.Catalog.SupportsBackend(req.BackendFramework) {
		return nil, fmt.Errorf("unsupported backend framework: %s", req.BackendFramework)
	}

	id := uuid.New().String()
	ns := workspace.Slug(req.ProjectName) + "-" + id[:8]
	if err := c.opts.Workspace.Init(ns); err != nil {
		return nil, err
	}

	now := time.Now()
	p := &Project{
		ID:        id,
		Name:      req.ProjectName,
		Request:   req,
		Status:    StatusInitializing,
		Progress:  ProgressSubmitted,
		Details:   map[string]any{},
		Namespace: ns,
		CreatedAt: now,
		UpdatedAt: now,
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.registry.Put(p, cancel)

	if c.opts.Store != nil {
		if err := c.opts.Store.CreateProject(p); err != nil {
			c.opts.Log.Warn().Err(err).Str("project_id", id).Msg("run log create failed")
		}
	}
	if c.opts.Metrics != nil {
		c.opts.Metrics.ProjectSubmitted()
	}
	c.events.Publish(Event{
		Type:      EventProjectSubmitted,
		ProjectID: id,
		Data:      map[string]string{"name": req.ProjectName},
	})

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer cancel()
		c.run(ctx, id, req, ns)
	}()

	return p.Clone(), nil
}

// Status returns a snapshot of the project, or ErrNotFound.
func (c *Coordinator) Status(id string) (*Project, error) {
	return c.registry.Snapshot(id)
}

// List returns snapshots of all projects, newest first.
func (c *Coordinator) List() []*Project {
	return c.registry.List()
}

// Delete cancels a running pipeline, removes the project from the registry
// and deletes its workspace directory.
func (c *Coordinator) Delete(id string) error {
	p, err := c.registry.Snapshot(id)
	if err != nil {
		return err
	}
	if err := c.registry.Delete(id); err != nil {
		return err
	}
	if err := c.opts.Workspace.Remove(p.Namespace); err != nil {
		c.opts.Log.Warn().Err(err).Str("project_id", id).Msg("workspace cleanup failed")
	}
	if c.opts.Store != nil {
		if err := c.opts.Store.DeleteProject(id); err != nil {
			c.opts.Log.Warn().Err(err).Str("project_id", id).Msg("run log delete failed")
		}
	}
	c.events.Publish(Event{Type: EventProjectDeleted, ProjectID: id})
	return nil
}

// DownloadPath returns the workspace directory of a completed project.
// Projects that are still running or failed return ErrInvalidState.
func (c *Coordinator) DownloadPath(id string) (string, error) {
	p, err := c.registry.Snapshot(id)
	if err != nil {
		return "", err
	}
	if p.Status != StatusCompleted {
		return "", apperrors.ErrInvalidState
	}
	return c.opts.Workspace.Path(p.Namespace), nil
}

// Executions returns the persisted stage trace for a project.
func (c *Coordinator) Executions(id string) ([]ExecutionRecord, error) {
	if _, err := c.registry.Snapshot(id); err != nil {
		return nil, err
	}
	if c.opts.Store == nil {
		return nil, nil
	}
	return c.opts.Store.ListExecutions(id)
}

// Wait blocks until all pipeline goroutines have finished.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

type pipelineStep struct {
	stage         Stage
	enter         Status
	enterProgress float64 // <0 means leave progress alone
	done          float64
	optional      bool // runs only when the request asks for AI components
}

var pipelineOrder = []pipelineStep{
	{stage: StagePlan, enter: StatusPlanning, enterProgress: -1, done: ProgressPlanned},
	{stage: StageArchitecture, enter: StatusDesigningArchitecture, enterProgress: -1, done: ProgressArchitected},
	{stage: StageFrontend, enter: StatusCreatingFrontend, enterProgress: -1, done: ProgressFrontendDone},
	{stage: StageBackend, enter: StatusCreatingBackend, enterProgress: -1, done: ProgressBackendDone},
	{stage: StageAI, enter: StatusCreatingAIComponents, enterProgress: -1, done: ProgressAIDone, optional: true},
	{stage: StageDocs, enter: StatusCreatingDocumentation, enterProgress: -1, done: ProgressDocsDone},
	{stage: StageFinalize, enter: StatusFinalizing, enterProgress: ProgressFinalizing, done: ProgressCompleted},
}

// run drives one project through every stage. It is the only goroutine that
// mutates the project; all updates go through the registry so a concurrent
// delete turns them into no-ops.
func (c *Coordinator) run(ctx context.Context, id string, req Request, ns string) {
	log := c.opts.Log.With().Str("project_id", id).Str("project", req.ProjectName).Logger()

	sc := &StageContext{
		ProjectID: id,
		Namespace: ns,
		Request:   req,
		Gen:       c.opts.Gen,
		Workspace: c.opts.Workspace,
		Catalog:   c.opts.Catalog,
		Log:       log,
		Tokens:    &gen.TokenTracker{},
	}

	for _, step := range pipelineOrder {
		if ctx.Err() != nil {
			log.Info().Msg("pipeline cancelled")
			return
		}

		if step.optional && !req.IncludeAI {
			c.setProgress(id, step.done)
			c.events.Publish(Event{
				Type:      EventStageSkipped,
				ProjectID: id,
				Data:      map[string]string{"stage": string(step.stage)},
			})
			c.logExecution(id, step.stage, ExecSkipped, 0, 0, 0, "")
			continue
		}

		runner, ok := c.stages[step.stage]
		if !ok {
			c.fail(id, log, fmt.Errorf("no runner registered for stage %s", step.stage))
			return
		}

		c.setStatus(id, step.enter, step.enterProgress)
		c.events.Publish(Event{
			Type:      EventStageStarted,
			ProjectID: id,
			Data:      map[string]string{"stage": string(step.stage)},
		})

		inBefore, outBefore := sc.Tokens.Total()
		start := time.Now()
		err := runner.Run(ctx, sc)
		elapsed := time.Since(start)
		inTotal, outTotal := sc.Tokens.Total()
		in, out := inTotal-inBefore, outTotal-outBefore

		if c.opts.Metrics != nil {
			c.opts.Metrics.StageDurationSeconds(string(step.stage), elapsed.Seconds())
			c.opts.Metrics.AddTokens(in, out)
		}

		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				log.Info().Str("stage", string(step.stage)).Msg("pipeline cancelled")
				c.logExecution(id, step.stage, ExecCancelled, in, out, elapsed.Milliseconds(), "")
				return
			}
			c.logExecution(id, step.stage, ExecFailed, in, out, elapsed.Milliseconds(), err.Error())
			c.fail(id, log, err)
			return
		}

		c.recordDetails(id, step.stage, sc)
		c.setProgress(id, step.done)
		c.logExecution(id, step.stage, ExecCompleted, in, out, elapsed.Milliseconds(), "")
		c.events.Publish(Event{
			Type:      EventStageCompleted,
			ProjectID: id,
			Data: map[string]string{
				"stage":       string(step.stage),
				"duration_ms": fmt.Sprintf("%d", elapsed.Milliseconds()),
			},
		})
		log.Info().
			Str("stage", string(step.stage)).
			Dur("elapsed", elapsed).
			Int64("tokens_in", in).
			Int64("tokens_out", out).
			Msg("stage completed")
	}

	c.registry.Update(id, func(p *Project) {
		p.Status = StatusCompleted
		p.Progress = ProgressCompleted
		p.Details["output_dir"] = c.opts.Workspace.Path(ns)
	})
	c.persistState(id)
	c.publishProgress(id)
	if c.opts.Metrics != nil {
		c.opts.Metrics.ProjectCompleted()
	}
	c.events.Publish(Event{Type: EventProjectCompleted, ProjectID: id})
	totalIn, totalOut := sc.Tokens.Total()
	log.Info().Int64("tokens_in", totalIn).Int64("tokens_out", totalOut).Msg("project completed")
}

// setStatus moves the project into a stage. Progress is only touched when
// the step declares an entry checkpoint; it never decreases.
func (c *Coordinator) setStatus(id string, status Status, progress float64) {
	c.registry.Update(id, func(p *Project) {
		p.Status = status
		if progress >= 0 && progress > p.Progress {
			p.Progress = progress
		}
	})
	c.persistState(id)
	c.publishProgress(id)
}

func (c *Coordinator) setProgress(id string, progress float64) {
	c.registry.Update(id, func(p *Project) {
		if progress > p.Progress {
			p.Progress = progress
		}
	})
	c.persistState(id)
	c.publishProgress(id)
}

func (c *Coordinator) fail(id string, log zerolog.Logger, err error) {
	c.registry.Update(id, func(p *Project) {
		p.Status = StatusError
		p.Details["error"] = err.Error()
	})
	c.persistState(id)
	if c.opts.Metrics != nil {
		c.opts.Metrics.ProjectFailed()
	}
	c.events.Publish(Event{
		Type:      EventProjectFailed,
		ProjectID: id,
		Data:      map[string]string{"error": err.Error()},
	})
	log.Error().Err(err).Msg("pipeline failed")
}

func (c *Coordinator) publishProgress(id string) {
	p, err := c.registry.Snapshot(id)
	if err != nil {
		return
	}
	c.events.Publish(Event{
		Type:      EventProjectProgress,
		ProjectID: id,
		Data: map[string]string{
			"status":   string(p.Status),
			"progress": fmt.Sprintf("%.2f", p.Progress),
		},
	})
}

func (c *Coordinator) persistState(id string) {
	if c.opts.Store == nil {
		return
	}
	p, err := c.registry.Snapshot(id)
	if err != nil {
		return
	}
	errMsg := ""
	if v, ok := p.Details["error"].(string); ok {
		errMsg = v
	}
	if err := c.opts.Store.UpdateProject(id, p.Status, p.Progress, errMsg); err != nil {
		c.opts.Log.Warn().Err(err).Str("project_id", id).Msg("run log update failed")
	}
}

func (c *Coordinator) logExecution(id string, stage Stage, status ExecutionStatus, in, out, durationMS int64, errMsg string) {
	if c.opts.Store == nil {
		return
	}
	now := time.Now()
	rec := ExecutionRecord{
		ID:           uuid.New().String()[:12],
		ProjectID:    id,
		Stage:        stage,
		Status:       status,
		TokensIn:     in,
		TokensOut:    out,
		DurationMS:   durationMS,
		ErrorMessage: errMsg,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := c.opts.Store.CreateExecution(rec); err != nil {
		c.opts.Log.Warn().Err(err).Str("project_id", id).Msg("run log execution failed")
	}
}

// recordDetails copies a compact summary of the stage artifact into the
// project details map.
func (c *Coordinator) recordDetails(id string, stage Stage, sc *StageContext) {
	c.registry.Update(id, func(p *Project) {
		switch stage {
		case StagePlan:
			if sc.Plan != nil {
				p.Details["plan"] = map[string]any{
					"project_overview": sc.Plan.ProjectOverview,
					"core_features":    append([]string(nil), sc.Plan.CoreFeatures...),
					"frontend_tasks":   len(sc.Plan.FrontendTasks),
					"backend_tasks":    len(sc.Plan.BackendTasks),
					"ai_tasks":         len(sc.Plan.AITasks),
				}
			}
		case StageArchitecture:
			if sc.Architecture != nil {
				names := make([]string, 0, len(sc.Architecture.Components))
				for _, comp := range sc.Architecture.Components {
					names = append(names, comp.Name)
				}
				p.Details["architecture"] = map[string]any{
					"system_overview": sc.Architecture.SystemOverview,
					"components":      names,
				}
			}
		case StageFrontend:
			p.Details["frontend"] = stageDetails(sc.Frontend)
		case StageBackend:
			p.Details["backend"] = stageDetails(sc.Backend)
		case StageAI:
			p.Details["ai_components"] = stageDetails(sc.AI)
		case StageDocs:
			if sc.Docs != nil {
				paths := make([]string, 0, len(sc.Docs.Files))
				for _, f := range sc.Docs.Files {
					paths = append(paths, f.Path)
				}
				p.Details["documentation"] = map[string]any{"files": paths}
			}
		case StageFinalize:
			if sc.Report != nil {
				p.Details["final_report"] = map[string]any{
					"executive_summary":    sc.Report.ExecutiveSummary,
					"features_implemented": append([]string(nil), sc.Report.FeaturesImplemented...),
					"next_steps":           append([]string(nil), sc.Report.NextSteps...),
				}
			}
		}
	})
}

func stageDetails(res *StageResult) map[string]any {
	if res == nil {
		return map[string]any{}
	}
	return map[string]any{
		"completed_tasks": append([]string(nil), res.CompletedTasks...),
		"created_files":   append([]string(nil), res.CreatedFiles...),
	}
}
