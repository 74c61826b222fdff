package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"
)

// File names written by the savers.
const (
	JSONFile     = "report.json"
	YAMLFile     = "report.yaml"
	MarkdownFile = "report.md"
)

// JSON writes report.json.
type JSON struct{}

func (JSON) Save(dir string, r *Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("report: encode json: %w", err)
	}
	return writeFile(filepath.Join(dir, JSONFile), append(data, '\n'))
}

// YAML writes report.yaml.
type YAML struct{}

func (YAML) Save(dir string, r *Report) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("report: encode yaml: %w", err)
	}
	return writeFile(filepath.Join(dir, YAMLFile), data)
}

// Markdown writes report.md: a summary followed by a table of steps.
type Markdown struct{}

func (Markdown) Save(dir string, r *Report) error {
	return writeFile(filepath.Join(dir, MarkdownFile), []byte(RenderMarkdown(r)))
}

// RenderMarkdown renders r as a Markdown document.
func RenderMarkdown(r *Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Test report %s\n\n", r.RunID)
	fmt.Fprintf(&b, "- Status: **%s**\n", r.Status)
	fmt.Fprintf(&b, "- Configuration: `%s`\n", r.ConfigPath)
	fmt.Fprintf(&b, "- Backend: %s\n", r.Backend)
	fmt.Fprintf(&b, "- Wait: %s\n", r.Wait)
	fmt.Fprintf(&b, "- Started: %s\n", r.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "- Duration: %s\n", r.Duration.Round(time.Millisecond))
	if r.Error != "" {
		fmt.Fprintf(&b, "- Error: %s\n", r.Error)
	}
	b.WriteString("\n## Steps\n\n")

	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Step", "Duration", "Error"})
	for i, s := range r.Steps {
		t.AppendRow(table.Row{i + 1, s.Name, s.Duration.Round(time.Millisecond).String(), s.Error})
	}
	b.WriteString(t.RenderMarkdown())
	b.WriteString("\n")
	return b.String()
}

// RenderTable renders the steps of r as a console table.
func RenderTable(r *Report) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Step", "Duration", "Result"})
	for _, s := range r.Steps {
		result := "ok"
		if s.Error != "" {
			result = s.Error
		}
		t.AppendRow(table.Row{s.Name, s.Duration.Round(time.Millisecond).String(), result})
	}
	t.AppendFooter(table.Row{"total", r.Duration.Round(time.Millisecond).String(), r.Status})
	return t.Render()
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	return nil
}
