package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleReport() *Report {
	start := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	return &Report{
		RunID:      "5f0c6a52-1b7e-4c55-9b7a-0d3f7f6f2a11",
		ConfigPath: "cfg.cnf",
		OutputDir:  "output",
		Backend:    "dryrun",
		Wait:       "fixed",
		StartedAt:  start,
		FinishedAt: start.Add(10 * time.Second),
		Duration:   10 * time.Second,
		Status:     StatusFailed,
		Error:      "session: stop measurement: bus off",
		Steps: []Step{
			{Name: "open_session", StartedAt: start, Duration: 120 * time.Millisecond},
			{Name: "stop_measurement", StartedAt: start, Duration: 5 * time.Millisecond, Error: "bus off"},
		},
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		format string
		want   Saver
	}{
		{"none", Noop{}},
		{"json", JSON{}},
		{"yaml", YAML{}},
		{"markdown", Markdown{}},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			s, err := New(tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s)
		})
	}

	_, err := New("pdf")
	assert.ErrorContains(t, err, `unknown format "pdf"`)
}

func TestNoopWritesNothing(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Noop{}.Save(dir, sampleReport()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestJSONSave(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, JSON{}.Save(dir, sampleReport()))

	data, err := os.ReadFile(filepath.Join(dir, JSONFile))
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "failed", got["status"])
	assert.Equal(t, "dryrun", got["backend"])
	assert.Len(t, got["steps"], 2)
}

func TestYAMLSave(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, YAML{}.Save(dir, sampleReport()))

	data, err := os.ReadFile(filepath.Join(dir, YAMLFile))
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, "5f0c6a52-1b7e-4c55-9b7a-0d3f7f6f2a11", got["run_id"])
	assert.Equal(t, "cfg.cnf", got["config_path"])
}

func TestMarkdownSave(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Markdown{}.Save(dir, sampleReport()))

	data, err := os.ReadFile(filepath.Join(dir, MarkdownFile))
	require.NoError(t, err)
	md := string(data)
	assert.Contains(t, md, "# Test report 5f0c6a52-1b7e-4c55-9b7a-0d3f7f6f2a11")
	assert.Contains(t, md, "- Status: **failed**")
	assert.Contains(t, md, "| # | Step | Duration | Error |")
	assert.Contains(t, md, "| 2 | stop_measurement | 5ms | bus off |")
}

func TestSaveIntoMissingDirFails(t *testing.T) {
	err := JSON{}.Save(filepath.Join(t.TempDir(), "gone"), sampleReport())
	assert.ErrorContains(t, err, "report: write")
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(sampleReport())
	assert.Contains(t, out, "open_session")
	assert.Contains(t, out, "bus off")
	assert.Contains(t, out, "FAILED") // go-pretty upper-cases footers by default
}
