package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibeworks/forge/internal/engine"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "forge.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testProject(id string) *engine.Project {
	now := time.Now()
	return &engine.Project{
		ID:        id,
		Name:      "demo",
		Namespace: "demo-" + id,
		Request: engine.Request{
			ProjectName:       "demo",
			FrontendFramework: "react",
			BackendFramework:  "fastapi",
			Database:          "postgresql",
			DeploymentTarget:  "docker",
		},
		Status:    engine.StatusInitializing,
		Progress:  0,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestProjectLifecycle(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.CreateProject(testProject("p1")))
	require.NoError(t, s.UpdateProject("p1", engine.StatusPlanning, 0.1, ""))
	require.NoError(t, s.UpdateProject("p1", engine.StatusError, 0.1, "boom"))

	list, err := s.ListProjects()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "p1", list[0].ID)
	assert.Equal(t, string(engine.StatusError), list[0].Status)
	assert.Equal(t, 0.1, list[0].Progress)
	assert.Equal(t, "boom", list[0].Error)

	require.NoError(t, s.DeleteProject("p1"))
	list, err = s.ListProjects()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListProjectsNewestFirst(t *testing.T) {
	s := newTestStore(t)

	older := testProject("older")
	older.CreatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, s.CreateProject(older))
	require.NoError(t, s.CreateProject(testProject("newer")))

	list, err := s.ListProjects()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "newer", list[0].ID)
}

func TestExecutionsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateProject(testProject("p1")))

	base := time.Now()
	stages := []engine.Stage{engine.StagePlan, engine.StageArchitecture, engine.StageAI}
	statuses := []engine.ExecutionStatus{engine.ExecCompleted, engine.ExecCompleted, engine.ExecSkipped}
	for i, st := range stages {
		require.NoError(t, s.CreateExecution(engine.ExecutionRecord{
			ID:         "exec-" + string(st),
			ProjectID:  "p1",
			Stage:      st,
			Status:     statuses[i],
			TokensIn:   int64(100 * i),
			TokensOut:  int64(200 * i),
			DurationMS: int64(i),
			CreatedAt:  base.Add(time.Duration(i) * time.Second),
			UpdatedAt:  base.Add(time.Duration(i) * time.Second),
		}))
	}

	recs, err := s.ListExecutions("p1")
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, engine.StagePlan, recs[0].Stage)
	assert.Equal(t, engine.ExecSkipped, recs[2].Status)
	assert.EqualValues(t, 400, recs[2].TokensOut)

	recs, err = s.ListExecutions("unknown")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestDeleteProjectCascadesExecutions(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateProject(testProject("p1")))
	require.NoError(t, s.CreateExecution(engine.ExecutionRecord{
		ID: "e1", ProjectID: "p1", Stage: engine.StagePlan, Status: engine.ExecCompleted,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}))

	require.NoError(t, s.DeleteProject("p1"))
	recs, err := s.ListExecutions("p1")
	require.NoError(t, err)
	assert.Empty(t, recs)
}
