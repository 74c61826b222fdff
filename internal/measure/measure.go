// Package measure decides when a running measurement has finished.
package measure

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitriyb/canoerun/internal/config"
)

// ErrTimeout is returned when a measurement does not finish within the
// configured timeout.
var ErrTimeout = errors.New("measurement did not finish in time")

// StatusFunc reports whether the measurement is still running.
type StatusFunc func() (bool, error)

// Waiter blocks until the measurement is done, ctx is cancelled, or the
// waiter gives up.
type Waiter interface {
	Wait(ctx context.Context, running StatusFunc) error
	// Mode names the strategy for logs and reports.
	Mode() string
}

// New builds the Waiter described by cfg.
func New(cfg config.MeasurementConfig) (Waiter, error) {
	switch cfg.Wait {
	case "fixed", "":
		return Fixed{Duration: cfg.Duration}, nil
	case "poll":
		return Poll{Interval: cfg.PollInterval, Timeout: cfg.Timeout}, nil
	case "marker":
		return Marker{Path: cfg.Marker, Timeout: cfg.Timeout}, nil
	default:
		return nil, fmt.Errorf("measure: unknown wait mode %q", cfg.Wait)
	}
}

// Fixed lets the measurement run for a fixed duration.
type Fixed struct {
	Duration time.Duration
}

func (f Fixed) Mode() string { return "fixed" }

func (f Fixed) Wait(ctx context.Context, _ StatusFunc) error {
	timer := time.NewTimer(f.Duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Poll asks the session every Interval until it reports the measurement
// stopped. A zero Timeout waits indefinitely.
type Poll struct {
	Interval time.Duration
	Timeout  time.Duration
}

func (p Poll) Mode() string { return "poll" }

func (p Poll) Wait(ctx context.Context, running StatusFunc) error {
	if running == nil {
		return errors.New("measure: poll wait needs a status source")
	}
	ctx, cancel := withTimeout(ctx, p.Timeout)
	defer cancel()

	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()
	for {
		on, err := running()
		if err != nil {
			return fmt.Errorf("measure: poll: %w", err)
		}
		if !on {
			return nil
		}
		select {
		case <-ctx.Done():
			return timeoutErr(ctx)
		case <-ticker.C:
		}
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeoutCause(ctx, d, ErrTimeout)
}

// timeoutErr maps an expired wait to ErrTimeout and leaves cancellation of
// the parent context as is.
func timeoutErr(ctx context.Context) error {
	if cause := context.Cause(ctx); errors.Is(cause, ErrTimeout) {
		return ErrTimeout
	}
	return ctx.Err()
}
