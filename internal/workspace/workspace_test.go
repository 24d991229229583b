package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndListFiles(t *testing.T) {
	m, err := NewManager(t.TempDir())
	require.NoError(t, err)

	ns := "demo-a1b2c3d4"
	require.NoError(t, m.Init(ns))
	require.NoError(t, m.WriteFile(ns, "frontend/src/App.jsx", "export default function App() {}\n"))
	require.NoError(t, m.WriteJSON(ns, "plan.json", map[string]string{"project_overview": "a todo app"}))

	files, err := m.ListFiles(ns)
	require.NoError(t, err)
	assert.Equal(t, []string{"frontend/src/App.jsx", "plan.json"}, files)

	var plan map[string]string
	require.NoError(t, m.ReadJSON(ns, "plan.json", &plan))
	assert.Equal(t, "a todo app", plan["project_overview"])
}

func TestInitClearsPreviousContent(t *testing.T) {
	m, err := NewManager(t.TempDir())
	require.NoError(t, err)

	ns := "demo"
	require.NoError(t, m.Init(ns))
	require.NoError(t, m.WriteFile(ns, "stale.txt", "old"))
	require.NoError(t, m.Init(ns))

	files, err := m.ListFiles(ns)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestRemove(t *testing.T) {
	m, err := NewManager(t.TempDir())
	require.NoError(t, err)

	ns := "gone"
	require.NoError(t, m.Init(ns))
	assert.True(t, m.Exists(ns))
	require.NoError(t, m.Remove(ns))
	assert.False(t, m.Exists(ns))

	// Removing an absent namespace is not an error.
	require.NoError(t, m.Remove(ns))
}

func TestReadJSONMissingFile(t *testing.T) {
	m, err := NewManager(t.TempDir())
	require.NoError(t, err)

	var v map[string]string
	err = m.ReadJSON("nope", "plan.json", &v)
	require.Error(t, err)
}

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"My Todo App":      "my-todo-app",
		"  spaced   out  ": "spaced-out",
		"Already-Fine":     "already-fine",
		"weird!!chars##":   "weird-chars",
		"UPPER":            "upper",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slug(in), "slug of %q", in)
	}
}
