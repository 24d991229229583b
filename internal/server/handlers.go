package server

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/vibeworks/forge/internal/catalog"
	"github.com/vibeworks/forge/internal/engine"
	apperrors "github.com/vibeworks/forge/internal/errors"
)

// Handlers bundles the HTTP handlers and their dependencies.
type Handlers struct {
	coord   *engine.Coordinator
	catalog *catalog.Catalog
	logger  zerolog.Logger
}

// NewHandlers creates the handler set.
func NewHandlers(coord *engine.Coordinator, cat *catalog.Catalog, logger zerolog.Logger) *Handlers {
	return &Handlers{coord: coord, catalog: cat, logger: logger.With().Str("component", "http").Logger()}
}

// SubmitProject accepts a scaffolding request and starts its pipeline.
func (h *Handlers) SubmitProject(c *fiber.Ctx) error {
	var req SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return problem(c, fiber.StatusBadRequest, "invalid_request", "Invalid Request Body", err.Error())
	}

	p, err := h.coord.Submit(engine.Request{
		ProjectName:       req.ProjectName,
		Description:       req.Description,
		FrontendFramework: req.FrontendFramework,
		BackendFramework:  req.BackendFramework,
		Database:          req.Database,
		IncludeAI:         req.IncludeAI,
		DeploymentTarget:  req.DeploymentTarget,
	})
	if err != nil {
		return problem(c, fiber.StatusBadRequest, "invalid_request", "Invalid Request", err.Error())
	}

	return c.Status(fiber.StatusAccepted).JSON(SubmitResponse{
		ProjectID:      p.ID,
		Message:        "Project creation started",
		StatusEndpoint: fmt.Sprintf("/project/%s/status", p.ID),
	})
}

// GetStatus returns the live snapshot of a project.
func (h *Handlers) GetStatus(c *fiber.Ctx) error {
	p, err := h.coord.Status(c.Params("id"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(StatusResponse{
		ProjectID: p.ID,
		Name:      p.Name,
		Status:    p.Status,
		Progress:  p.Progress,
		Details:   p.Details,
	})
}

// ListProjects returns every tracked project, newest first.
func (h *Handlers) ListProjects(c *fiber.Ctx) error {
	projects := h.coord.List()
	out := make([]ProjectListItem, 0, len(projects))
	for _, p := range projects {
		out = append(out, ProjectListItem{
			ProjectID: p.ID,
			Name:      p.Name,
			Status:    p.Status,
			Progress:  p.Progress,
		})
	}
	return c.JSON(out)
}

// DeleteProject cancels a running pipeline and removes the project.
func (h *Handlers) DeleteProject(c *fiber.Ctx) error {
	if err := h.coord.Delete(c.Params("id")); err != nil {
		return mapError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Project deleted"})
}

// DownloadProject streams a zip of the generated project tree. Only
// completed projects can be downloaded.
func (h *Handlers) DownloadProject(c *fiber.Ctx) error {
	id := c.Params("id")
	dir, err := h.coord.DownloadPath(id)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidState) {
			return problem(c, fiber.StatusBadRequest, "not_ready", "Project Not Ready",
				"Project not ready for download")
		}
		return mapError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/zip")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s.zip"`, id))

	buf, err := zipDir(dir)
	if err != nil {
		h.logger.Error().Err(err).Str("project_id", id).Msg("zip archive failed")
		return fiber.ErrInternalServerError
	}
	return c.Send(buf)
}

// GetExecutions returns the persisted stage trace for a project.
func (h *Handlers) GetExecutions(c *fiber.Ctx) error {
	recs, err := h.coord.Executions(c.Params("id"))
	if err != nil {
		return mapError(c, err)
	}
	if recs == nil {
		recs = []engine.ExecutionRecord{}
	}
	return c.JSON(recs)
}

// GetFrameworks lists the supported stack choices.
func (h *Handlers) GetFrameworks(c *fiber.Ctx) error {
	return c.JSON(FrameworksResponse{
		Frontend: h.catalog.SupportedFrontends(),
		Backend:  h.catalog.SupportedBackends(),
	})
}

// Liveness is the health probe.
func (h *Handlers) Liveness(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return problem(c, fiber.StatusNotFound, "not_found", "Project Not Found", "Project not found")
	case errors.Is(err, apperrors.ErrInvalidState):
		return problem(c, fiber.StatusBadRequest, "invalid_state", "Invalid Project State", err.Error())
	default:
		return err
	}
}

func problem(c *fiber.Ctx, status int, typ, title, detail string) error {
	return c.Status(status).JSON(ProblemDetail{
		Type:     typ,
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: c.Path(),
	})
}

// zipDir archives dir into an in-memory zip with paths relative to dir.
func zipDir(dir string) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		f, err := os.Open(p)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(w, f)
		return err
	})
	if err != nil {
		zw.Close()
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
