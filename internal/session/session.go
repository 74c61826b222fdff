// Package session wraps the automation surface of an external, session-based
// simulation tool. A Client owns exactly one Driver and sequences its
// lifecycle: open, load configuration, start and stop measurement, close.
package session

import (
	"errors"
	"fmt"
	"log/slog"
)

var (
	// ErrSessionUnavailable means the external tool could not be instantiated,
	// e.g. it is not installed or its automation server is not registered.
	ErrSessionUnavailable = errors.New("session unavailable")
	// ErrConfigLoad means the external tool rejected the configuration.
	ErrConfigLoad = errors.New("configuration rejected")
	// ErrNotOpen is returned by operations invoked before Open succeeded
	// or after Close.
	ErrNotOpen = errors.New("session not open")
	// ErrStatusUnsupported is returned by Running when the driver cannot
	// report the measurement state.
	ErrStatusUnsupported = errors.New("measurement status not supported by driver")
)

// Driver is the raw automation surface of the external tool.
type Driver interface {
	// Open acquires the application instance.
	Open() error
	// OpenConfiguration loads the configuration file at path.
	OpenConfiguration(path string) error
	StartMeasurement() error
	StopMeasurement() error
	// Quit releases the application instance.
	Quit() error
}

// StatusReporter is implemented by drivers that can tell whether a
// measurement is still running.
type StatusReporter interface {
	Running() (bool, error)
}

// Client is a thin facade over one Driver. It is not safe for concurrent use.
type Client struct {
	driver Driver
	name   string
	logger *slog.Logger
	open   bool
}

// NewClient returns a Client for driver. name identifies the back end in
// logs and errors.
func NewClient(name string, driver Driver, logger *slog.Logger) *Client {
	return &Client{
		driver: driver,
		name:   name,
		logger: logger.With("component", "session", "backend", name),
	}
}

// Name returns the back end name.
func (c *Client) Name() string { return c.name }

// Open acquires the external application instance.
func (c *Client) Open() error {
	c.logger.Debug("opening session")
	if err := c.driver.Open(); err != nil {
		return fmt.Errorf("session: open %s: %w: %w", c.name, ErrSessionUnavailable, err)
	}
	c.open = true
	c.logger.Debug("session opened")
	return nil
}

// LoadConfiguration instructs the tool to load the configuration at path.
func (c *Client) LoadConfiguration(path string) error {
	if !c.open {
		return fmt.Errorf("session: load %s: %w", path, ErrNotOpen)
	}
	c.logger.Debug("loading configuration", "path", path)
	if err := c.driver.OpenConfiguration(path); err != nil {
		return fmt.Errorf("session: load %s: %w: %w", path, ErrConfigLoad, err)
	}
	return nil
}

// StartMeasurement starts a measurement. Repeated starts are passed to the
// tool unchecked.
func (c *Client) StartMeasurement() error {
	if !c.open {
		return fmt.Errorf("session: start measurement: %w", ErrNotOpen)
	}
	c.logger.Debug("starting measurement")
	if err := c.driver.StartMeasurement(); err != nil {
		return fmt.Errorf("session: start measurement: %w", err)
	}
	return nil
}

// StopMeasurement stops the measurement. Stopping without a prior start is
// passed to the tool unchecked.
func (c *Client) StopMeasurement() error {
	if !c.open {
		return fmt.Errorf("session: stop measurement: %w", ErrNotOpen)
	}
	c.logger.Debug("stopping measurement")
	if err := c.driver.StopMeasurement(); err != nil {
		return fmt.Errorf("session: stop measurement: %w", err)
	}
	return nil
}

// Running reports whether the measurement is still running.
func (c *Client) Running() (bool, error) {
	if !c.open {
		return false, fmt.Errorf("session: running: %w", ErrNotOpen)
	}
	sr, ok := c.driver.(StatusReporter)
	if !ok {
		return false, fmt.Errorf("session: running: %s: %w", c.name, ErrStatusUnsupported)
	}
	running, err := sr.Running()
	if err != nil {
		return false, fmt.Errorf("session: running: %w", err)
	}
	return running, nil
}

// Close releases the external resource. The driver's Quit runs at most once
// and only after a successful Open; later calls return nil.
func (c *Client) Close() error {
	if !c.open {
		return nil
	}
	c.open = false
	c.logger.Debug("closing session")
	if err := c.driver.Quit(); err != nil {
		return fmt.Errorf("session: close %s: %w", c.name, err)
	}
	return nil
}
