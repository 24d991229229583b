package normalize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibeworks/forge/internal/errors"
)

const doc = `{"project_overview":"a todo app","core_features":["add","list"]}`

// The normalizer must recover the same document regardless of how the model
// chose to wrap it.
func TestExtractRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"bare", doc},
		{"generic fence", "```\n" + doc + "\n```"},
		{"tagged fence", "```json\n" + doc + "\n```"},
		{"fence with prose", "Here is the plan you asked for:\n\n```json\n" + doc + "\n```\n\nLet me know if you need changes."},
		{"bare with prose", "Sure! The plan:\n" + doc + "\nHope that helps."},
		{"windows newlines", "```json\r\n" + doc + "\r\n```"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Extract(tc.raw)
			require.NoError(t, err)

			var want, have map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(doc), &want))
			require.NoError(t, json.Unmarshal(got, &have))
			assert.Equal(t, want, have)
		})
	}
}

// Documentation content routinely embeds markdown code fences inside JSON
// string values; those fences must not be mistaken for a wrapper.
func TestExtractBareWithEmbeddedFence(t *testing.T) {
	raw := `{"files":[{"path":"setup.md","content":"# Setup\n\n` + "```bash\\nnpm start\\n```" + `\n"}]}`
	require.True(t, json.Valid([]byte(raw)), "test input must be a valid bare document")

	got, err := Extract(raw)
	require.NoError(t, err)

	var v struct {
		Files []struct {
			Path    string `json:"path"`
			Content string `json:"content"`
		} `json:"files"`
	}
	require.NoError(t, json.Unmarshal(got, &v))
	require.Len(t, v.Files, 1)
	assert.Equal(t, "setup.md", v.Files[0].Path)
	assert.Contains(t, v.Files[0].Content, "```bash\nnpm start\n```")
}

func TestExtractProseAndEmbeddedFences(t *testing.T) {
	inner := `{"note":"run ` + "```npm start```" + ` then ` + "```npm test```" + `","n":1}`
	raw := "Here you go:\n" + inner + "\nDone."

	got, err := Extract(raw)
	require.NoError(t, err)

	var v map[string]interface{}
	require.NoError(t, json.Unmarshal(got, &v))
	assert.Equal(t, "run ```npm start``` then ```npm test```", v["note"])
}

func TestExtractArray(t *testing.T) {
	raw := "```json\n[{\"task_id\":\"fe-1\"},{\"task_id\":\"fe-2\"}]\n```"
	got, err := Extract(raw)
	require.NoError(t, err)

	var tasks []map[string]string
	require.NoError(t, json.Unmarshal(got, &tasks))
	assert.Len(t, tasks, 2)
}

func TestExtractStringsWithBraces(t *testing.T) {
	raw := `prose {"note":"uses {braces} and \"quotes\" inside","n":1} trailing`
	got, err := Extract(raw)
	require.NoError(t, err)

	var v map[string]interface{}
	require.NoError(t, json.Unmarshal(got, &v))
	assert.Equal(t, `uses {braces} and "quotes" inside`, v["note"])
}

func TestExtractFailures(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace", "   \n\t "},
		{"prose only", "I could not produce a plan for that request."},
		{"unterminated object", `{"a": 1, "b": `},
		{"fenced garbage", "```json\nnot json at all\n```"},
		{"fenced truncated", "```json\n{\"a\": [1, 2\n```"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Extract(tc.raw)
			require.Error(t, err)
			assert.True(t, errors.IsMalformed(err), "expected MalformedResponseError, got %T", err)
		})
	}
}

func TestInto(t *testing.T) {
	var v struct {
		Overview string   `json:"project_overview"`
		Features []string `json:"core_features"`
	}
	require.NoError(t, Into("```json\n"+doc+"\n```", &v))
	assert.Equal(t, "a todo app", v.Overview)
	assert.Equal(t, []string{"add", "list"}, v.Features)
}

func TestIntoShapeMismatch(t *testing.T) {
	var v []string
	err := Into(doc, &v)
	require.Error(t, err)
	assert.True(t, errors.IsMalformed(err))
}

func TestStripFences(t *testing.T) {
	code := "import React from 'react';\n\nexport default function App() {\n  return <div />;\n}"

	assert.Equal(t, code, StripFences(code))
	assert.Equal(t, code, StripFences("```jsx\n"+code+"\n```"))
	assert.Equal(t, code, StripFences("```\n"+code+"\n```"))
}
