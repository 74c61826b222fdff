// Package dryrun provides a session.Driver that performs no external calls.
// It lets the whole pipeline run on machines without the simulation tool.
package dryrun

import (
	"fmt"
	"log/slog"
	"os"
	"time"
)

// Driver logs every call and keeps only the state a real tool would expose.
// A started measurement reports itself running for Length, then finished.
type Driver struct {
	logger    *slog.Logger
	length    time.Duration
	config    string
	running   bool
	startedAt time.Time
}

// New returns a dry-run driver logging to logger whose measurements last
// length.
func New(logger *slog.Logger, length time.Duration) *Driver {
	return &Driver{logger: logger.With("component", "dryrun"), length: length}
}

func (d *Driver) Open() error {
	d.logger.Info("dry run: application acquired")
	return nil
}

// OpenConfiguration checks the file is readable, as the real tool would.
func (d *Driver) OpenConfiguration(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("dryrun: %w", err)
	}
	d.config = path
	d.logger.Info("dry run: configuration loaded", "path", path)
	return nil
}

func (d *Driver) StartMeasurement() error {
	d.running = true
	d.startedAt = time.Now()
	d.logger.Info("dry run: measurement started", "config", d.config)
	return nil
}

func (d *Driver) StopMeasurement() error {
	d.running = false
	d.logger.Info("dry run: measurement stopped")
	return nil
}

// Running reports whether a started measurement is within its length.
func (d *Driver) Running() (bool, error) {
	return d.running && time.Since(d.startedAt) < d.length, nil
}

func (d *Driver) Quit() error {
	d.logger.Info("dry run: application released")
	return nil
}
