package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vibeworks/forge/internal/catalog"
	"github.com/vibeworks/forge/internal/config"
	"github.com/vibeworks/forge/internal/engine"
	"github.com/vibeworks/forge/internal/gen"
	"github.com/vibeworks/forge/internal/metrics"
	"github.com/vibeworks/forge/internal/server"
	"github.com/vibeworks/forge/internal/stage"
	"github.com/vibeworks/forge/internal/store"
	"github.com/vibeworks/forge/internal/workspace"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "forge",
		Short: "LLM-driven project scaffolding service",
	}
	root.AddCommand(serveCmd(), versionCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("forge", version)
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := newLogger(cfg)

			cat, err := catalog.Load(cfg.CatalogPath)
			if err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}

			ws, err := workspace.NewManager(cfg.ProjectsRoot)
			if err != nil {
				return fmt.Errorf("init workspace: %w", err)
			}

			st, err := store.NewSQLiteStore(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer st.Close()

			client, err := gen.NewClient(gen.ClientConfig{
				APIKey:      cfg.AnthropicAPIKey,
				Model:       anthropic.Model(cfg.GenModel),
				MaxTokens:   cfg.GenMaxTokens,
				Temperature: cfg.GenTemperature,
			})
			if err != nil {
				return fmt.Errorf("init model client: %w", err)
			}

			m := metrics.New()

			coord := engine.NewCoordinator(engine.Options{
				Gen:       client,
				Workspace: ws,
				Catalog:   cat,
				Store:     st,
				Metrics:   m,
				Log:       logger,
				Defaults: engine.Defaults{
					Frontend:   cfg.DefaultFrontend,
					Backend:    cfg.DefaultBackend,
					Database:   cfg.DefaultDatabase,
					Deployment: cfg.DefaultDeployment,
				},
			})
			stage.RegisterAll(coord)

			// Event log subscriber keeps a structured trace of pipeline
			// activity in the service log.
			go logEvents(coord.Events(), logger)

			srv := server.New(server.Config{
				ListenAddr:  ":" + strconv.Itoa(cfg.HTTPPort),
				CORSOrigins: cfg.CORSOrigins,
			}, coord, cat, m, logger)

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-stop
				logger.Info().Msg("shutdown signal received")
				srv.Shutdown()
			}()

			logger.Info().Int("port", cfg.HTTPPort).Str("env", cfg.Environment).Msg("forge starting")
			if err := srv.Start(); err != nil {
				return err
			}
			coord.Wait()
			return nil
		},
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	if !cfg.IsProduction() {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
	return logger
}

func logEvents(bus *engine.EventBus, logger zerolog.Logger) {
	ch := bus.Subscribe()
	for evt := range ch {
		logger.Debug().
			Str("event", string(evt.Type)).
			Str("project_id", evt.ProjectID).
			Fields(map[string]any{"data": evt.Data}).
			Msg("pipeline event")
	}
}
