// Package report describes the outcome of a run and persists it to the
// output directory in one of several formats.
package report

import (
	"fmt"
	"time"
)

// Run status values.
const (
	StatusPassed = "passed"
	StatusFailed = "failed"
)

// Report is the artifact of one run.
type Report struct {
	RunID      string        `json:"run_id" yaml:"run_id"`
	ConfigPath string        `json:"config_path" yaml:"config_path"`
	OutputDir  string        `json:"output_dir" yaml:"output_dir"`
	Backend    string        `json:"backend" yaml:"backend"`
	Wait       string        `json:"wait" yaml:"wait"`
	StartedAt  time.Time     `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time     `json:"finished_at" yaml:"finished_at"`
	Duration   time.Duration `json:"duration_ns" yaml:"duration"`
	Status     string        `json:"status" yaml:"status"`
	Error      string        `json:"error,omitempty" yaml:"error,omitempty"`
	Steps      []Step        `json:"steps" yaml:"steps"`
}

// Step records one stage of the pipeline.
type Step struct {
	Name      string        `json:"name" yaml:"name"`
	StartedAt time.Time     `json:"started_at" yaml:"started_at"`
	Duration  time.Duration `json:"duration_ns" yaml:"duration"`
	Error     string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// Saver persists a report into dir.
type Saver interface {
	Save(dir string, r *Report) error
}

// New returns the Saver for format: none, json, yaml or markdown.
func New(format string) (Saver, error) {
	switch format {
	case "none":
		return Noop{}, nil
	case "json":
		return JSON{}, nil
	case "yaml":
		return YAML{}, nil
	case "markdown":
		return Markdown{}, nil
	default:
		return nil, fmt.Errorf("report: unknown format %q", format)
	}
}

// Noop persists nothing and always succeeds. It stands in where the
// integrator has not chosen a report format.
type Noop struct{}

func (Noop) Save(string, *Report) error { return nil }
