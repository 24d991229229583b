package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.HTTPPort)
	assert.Equal(t, "projects", cfg.ProjectsRoot)
	assert.Equal(t, "react", cfg.DefaultFrontend)
	assert.Equal(t, "fastapi", cfg.DefaultBackend)
	assert.Equal(t, "postgresql", cfg.DefaultDatabase)
	assert.Equal(t, "docker", cfg.DefaultDeployment)
	assert.InDelta(t, 0.2, cfg.GenTemperature, 1e-9)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DEFAULT_FRONTEND", "vue")
	t.Setenv("ENVIRONMENT", "Production")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, "vue", cfg.DefaultFrontend)
	assert.True(t, cfg.IsProduction())
}

func TestValidate(t *testing.T) {
	cfg := &Config{AnthropicAPIKey: "sk-test", GenTemperature: 0.2, ProjectsRoot: "projects"}
	require.NoError(t, cfg.Validate())

	cfg.AnthropicAPIKey = ""
	assert.Error(t, cfg.Validate())

	cfg.AnthropicAPIKey = "sk-test"
	cfg.GenTemperature = 1.5
	assert.Error(t, cfg.Validate())
}
