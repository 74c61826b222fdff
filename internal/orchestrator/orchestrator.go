// Package orchestrator runs one measurement end to end: it prepares the
// inputs, drives the session through its lifecycle and saves a report.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/dmitriyb/canoerun/internal/measure"
	"github.com/dmitriyb/canoerun/internal/mutate"
	"github.com/dmitriyb/canoerun/internal/outdir"
	"github.com/dmitriyb/canoerun/internal/report"
	"github.com/dmitriyb/canoerun/internal/session"
)

// ErrInvalidInput means the run cannot start with the given inputs.
var ErrInvalidInput = errors.New("invalid input")

// Step names, in execution order.
const (
	StepValidate      = "validate_inputs"
	StepPrepareOutput = "prepare_output_dir"
	StepMutate        = "mutate_config"
	StepOpen          = "open_session"
	StepLoad          = "load_config"
	StepStart         = "start_measurement"
	StepWait          = "wait"
	StepStop          = "stop_measurement"
	StepClose         = "close_session"
)

// progress holds the user-facing message logged when a step begins.
var progress = map[string]string{
	StepValidate:      "Validating inputs",
	StepPrepareOutput: "Preparing output directory",
	StepMutate:        "Modifying configuration file",
	StepOpen:          "Starting session",
	StepLoad:          "Loading configuration",
	StepStart:         "Starting measurement",
	StepWait:          "Processing, please wait",
	StepStop:          "Stopping measurement",
	StepClose:         "Closing session",
}

// Options configures a run.
type Options struct {
	ConfigPath string
	OutputDir  string
	// CleanOutput deletes an existing output directory and its contents
	// before the run.
	CleanOutput bool
	// Mutator edits the configuration file; nil skips the step.
	Mutator *mutate.Mutator
	Waiter  measure.Waiter
	Saver   report.Saver
}

// Result is the outcome of Run.
type Result struct {
	Report *report.Report
	// SaveErr is the report persistence error. It does not fail the run.
	SaveErr error
}

// Orchestrator sequences one run against a session client.
type Orchestrator struct {
	client *session.Client
	opts   Options
	logger *slog.Logger
}

// New returns an Orchestrator. Waiter defaults to a 10 second fixed wait and
// Saver to report.Noop.
func New(client *session.Client, opts Options, logger *slog.Logger) *Orchestrator {
	if opts.Waiter == nil {
		opts.Waiter = measure.Fixed{Duration: 10 * time.Second}
	}
	if opts.Saver == nil {
		opts.Saver = report.Noop{}
	}
	return &Orchestrator{
		client: client,
		opts:   opts,
		logger: logger.With("component", "orchestrator"),
	}
}

// ValidateInputs checks that the configuration file exists.
func ValidateInputs(configPath string) error {
	if configPath == "" {
		return fmt.Errorf("orchestrator: configuration path is empty: %w", ErrInvalidInput)
	}
	if _, err := os.Stat(configPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("configuration file does not exist: %s: %w", configPath, ErrInvalidInput)
		}
		return fmt.Errorf("orchestrator: stat %s: %w: %w", configPath, ErrInvalidInput, err)
	}
	return nil
}

// Run executes the pipeline. Steps run strictly in order and the first
// failure aborts the rest. Once the session is open it is closed on every
// path; once the measurement is started it is stopped on every path.
//
// The returned Result is never nil.
func (o *Orchestrator) Run(ctx context.Context) (res *Result, err error) {
	rep := &report.Report{
		RunID:      uuid.NewString(),
		ConfigPath: o.opts.ConfigPath,
		OutputDir:  o.opts.OutputDir,
		Backend:    o.client.Name(),
		Wait:       o.opts.Waiter.Mode(),
		StartedAt:  time.Now(),
	}
	res = &Result{Report: rep}
	logger := o.logger.With("run_id", rep.RunID)

	prepared := false
	defer func() {
		if err == nil {
			return
		}
		o.finish(rep, err)
		if prepared {
			res.SaveErr = o.save(logger, rep)
		}
	}()

	if err := o.step(logger, rep, StepValidate, func() error {
		return ValidateInputs(o.opts.ConfigPath)
	}); err != nil {
		return res, err
	}

	if err := o.step(logger, rep, StepPrepareOutput, func() error {
		state, err := outdir.Prepare(o.opts.OutputDir, o.opts.CleanOutput)
		if err == nil {
			logger.Info("output directory ready", "dir", o.opts.OutputDir, "state", state)
		}
		return err
	}); err != nil {
		return res, err
	}
	prepared = true

	if o.opts.Mutator != nil {
		if err := o.step(logger, rep, StepMutate, func() error {
			n, err := o.opts.Mutator.Modify(o.opts.ConfigPath)
			if err == nil {
				logger.Debug("configuration modified", "path", o.opts.ConfigPath, "substitutions", n)
			}
			return err
		}); err != nil {
			return res, err
		}
	}

	if err := o.step(logger, rep, StepOpen, o.client.Open); err != nil {
		return res, err
	}
	defer func() {
		// No-op unless an earlier step failed before the close step.
		if cerr := o.client.Close(); cerr != nil {
			logger.Error("release session", "error", cerr)
		}
	}()

	if err := o.step(logger, rep, StepLoad, func() error {
		return o.client.LoadConfiguration(o.opts.ConfigPath)
	}); err != nil {
		return res, err
	}

	if err := o.step(logger, rep, StepStart, o.client.StartMeasurement); err != nil {
		return res, err
	}

	waitErr := o.step(logger, rep, StepWait, func() error {
		return o.opts.Waiter.Wait(ctx, o.client.Running)
	})
	stopErr := o.step(logger, rep, StepStop, o.client.StopMeasurement)
	if waitErr != nil {
		return res, waitErr
	}
	if stopErr != nil {
		return res, stopErr
	}

	if err := o.step(logger, rep, StepClose, o.client.Close); err != nil {
		return res, err
	}

	o.finish(rep, nil)
	res.SaveErr = o.save(logger, rep)
	return res, nil
}

// step runs fn as the named step and records it in rep.
func (o *Orchestrator) step(logger *slog.Logger, rep *report.Report, name string, fn func() error) error {
	logger.Info(progress[name], "step", name)
	s := report.Step{Name: name, StartedAt: time.Now()}
	err := fn()
	s.Duration = time.Since(s.StartedAt)
	if err != nil {
		s.Error = err.Error()
		logger.Error("step failed", "step", name, "error", err)
	}
	rep.Steps = append(rep.Steps, s)
	return err
}

func (o *Orchestrator) finish(rep *report.Report, err error) {
	rep.FinishedAt = time.Now()
	rep.Duration = rep.FinishedAt.Sub(rep.StartedAt)
	rep.Status = report.StatusPassed
	rep.Error = ""
	if err != nil {
		rep.Status = report.StatusFailed
		rep.Error = err.Error()
	}
}

func (o *Orchestrator) save(logger *slog.Logger, rep *report.Report) error {
	logger.Info("Saving test report", "dir", o.opts.OutputDir)
	if err := o.opts.Saver.Save(o.opts.OutputDir, rep); err != nil {
		logger.Error("save report", "error", err)
		return err
	}
	return nil
}
