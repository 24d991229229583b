package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskSpecNormalize(t *testing.T) {
	tests := []struct {
		name         string
		in           TaskSpec
		wantKind     TaskKind
		wantPriority string
	}{
		{"known kind kept", TaskSpec{Kind: "component", Priority: "high"}, KindComponent, "high"},
		{"kind case folded", TaskSpec{Kind: " Endpoint ", Priority: "LOW"}, KindEndpoint, "low"},
		{"unknown kind falls back", TaskSpec{Kind: "widget", Priority: "high"}, KindGeneric, "high"},
		{"empty kind falls back", TaskSpec{}, KindGeneric, "medium"},
		{"unknown priority falls back", TaskSpec{Kind: "page", Priority: "urgent"}, KindPage, "medium"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.Normalize()
			assert.Equal(t, tt.wantKind, tt.in.Kind)
			assert.Equal(t, tt.wantPriority, tt.in.Priority)
		})
	}
}

func TestPriorityRank(t *testing.T) {
	high := TaskSpec{Priority: "high"}
	med := TaskSpec{Priority: "medium"}
	low := TaskSpec{Priority: "low"}
	assert.Less(t, high.PriorityRank(), med.PriorityRank())
	assert.Less(t, med.PriorityRank(), low.PriorityRank())
}

func TestRequestApplyDefaults(t *testing.T) {
	d := Defaults{Frontend: "react", Backend: "fastapi", Database: "postgresql", Deployment: "docker"}

	r := Request{ProjectName: "  demo  ", Description: "x"}
	r.ApplyDefaults(d)
	assert.Equal(t, "demo", r.ProjectName)
	assert.Equal(t, "react", r.FrontendFramework)
	assert.Equal(t, "fastapi", r.BackendFramework)
	assert.Equal(t, "postgresql", r.Database)
	assert.Equal(t, "docker", r.DeploymentTarget)

	r = Request{ProjectName: "demo", Description: "x", FrontendFramework: "vue"}
	r.ApplyDefaults(d)
	assert.Equal(t, "vue", r.FrontendFramework)
}

func TestStatusTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusError.Terminal())
	assert.False(t, StatusPlanning.Terminal())
	assert.False(t, StatusFinalizing.Terminal())
}
