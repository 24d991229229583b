// Package server exposes the scaffolding pipeline over HTTP.
package server

import (
	"encoding/json"
	"strconv"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/vibeworks/forge/internal/catalog"
	"github.com/vibeworks/forge/internal/engine"
	"github.com/vibeworks/forge/internal/metrics"
)

// Config holds server configuration.
type Config struct {
	ListenAddr  string
	CORSOrigins string
}

// Server is the Fiber application fronting the coordinator.
type Server struct {
	app      *fiber.App
	handlers *Handlers
	logger   zerolog.Logger
	config   Config
}

// New creates and configures the HTTP server.
func New(cfg Config, coord *engine.Coordinator, cat *catalog.Catalog, m *metrics.Metrics, logger zerolog.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler(logger),
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
	})

	s := &Server{
		app:      app,
		handlers: NewHandlers(coord, cat, logger),
		logger:   logger.With().Str("component", "server").Logger(),
		config:   cfg,
	}

	s.setupMiddleware(cfg, m, logger)
	s.setupRoutes(m)

	return s
}

func (s *Server) setupMiddleware(cfg Config, m *metrics.Metrics, logger zerolog.Logger) {
	s.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	if cfg.CORSOrigins != "" {
		s.app.Use(cors.New(cors.Config{
			AllowOrigins: cfg.CORSOrigins,
			AllowHeaders: "Origin, Content-Type, Accept",
			AllowMethods: "GET, POST, DELETE, OPTIONS",
		}))
	}

	s.app.Use(func(c *fiber.Ctx) error {
		path := c.Path()
		err := c.Next()
		if path == "/healthz" || path == "/metrics" {
			return err
		}
		status := c.Response().StatusCode()
		if m != nil {
			m.RecordHTTP(c.Route().Path, strconv.Itoa(status))
		}
		logger.Info().
			Str("method", c.Method()).
			Str("path", path).
			Int("status", status).
			Msg("http request")
		return err
	})
}

func (s *Server) setupRoutes(m *metrics.Metrics) {
	h := s.handlers

	s.app.Get("/healthz", h.Liveness)
	if m != nil {
		s.app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	}

	s.app.Post("/project", h.SubmitProject)
	s.app.Get("/projects", h.ListProjects)
	s.app.Get("/project/:id/status", h.GetStatus)
	s.app.Get("/project/:id/download", h.DownloadProject)
	s.app.Get("/project/:id/executions", h.GetExecutions)
	s.app.Delete("/project/:id", h.DeleteProject)

	s.app.Get("/frameworks", h.GetFrameworks)
}

// Start starts the server. Blocks until stopped.
func (s *Server) Start() error {
	addr := s.config.ListenAddr
	if addr == "" {
		addr = ":8000"
	}
	s.logger.Info().Str("addr", addr).Msg("http server starting")
	return s.app.Listen(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	s.logger.Info().Msg("http server shutting down")
	return s.app.Shutdown()
}

// App returns the underlying Fiber app (useful for testing).
func (s *Server) App() *fiber.App {
	return s.app
}

func customErrorHandler(logger zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		logger.Error().
			Err(err).
			Int("status", code).
			Str("path", c.Path()).
			Str("method", c.Method()).
			Msg("unhandled error")

		detail := err.Error()
		if code == fiber.StatusInternalServerError {
			detail = "An internal error occurred"
		}

		return c.Status(code).JSON(ProblemDetail{
			Type:     "internal_error",
			Title:    "Internal Server Error",
			Status:   code,
			Detail:   detail,
			Instance: c.Path(),
		})
	}
}
