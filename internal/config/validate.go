package config

import (
	"errors"
	"fmt"
)

var (
	validLevels   = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validBackends = map[string]bool{"canoe": true, "dryrun": true}
	validWaits    = map[string]bool{"fixed": true, "poll": true, "marker": true}
	validFormats  = map[string]bool{"none": true, "json": true, "yaml": true, "markdown": true}
)

// Validate checks all Config fields for completeness and consistency.
// It collects all errors and returns them via errors.Join. The configuration
// file path is checked by the caller, since its default depends on debug mode.
func Validate(cfg *Config) error {
	var errs []error
	check := func(cond bool, path, msg string) {
		if !cond {
			errs = append(errs, fmt.Errorf("%s: %s", path, msg))
		}
	}

	check(cfg.OutputDir != "", "output_dir", "required")
	check(validLevels[cfg.LogLevel], "log_level",
		fmt.Sprintf("must be one of: debug, info, warn, error (got %q)", cfg.LogLevel))

	check(validBackends[cfg.Session.Backend], "session.backend",
		fmt.Sprintf("must be one of: canoe, dryrun (got %q)", cfg.Session.Backend))
	if cfg.Session.Backend == "canoe" {
		check(cfg.Session.ProgID != "", "session.prog_id", "required for the canoe backend")
	}

	m := cfg.Measurement
	check(validWaits[m.Wait], "measurement.wait",
		fmt.Sprintf("must be one of: fixed, poll, marker (got %q)", m.Wait))
	check(m.Duration >= 0, "measurement.duration", "must not be negative")
	check(m.Timeout >= 0, "measurement.timeout", "must not be negative")
	switch m.Wait {
	case "poll":
		check(m.PollInterval > 0, "measurement.poll_interval", "must be positive for poll wait")
	case "marker":
		check(m.Marker != "", "measurement.marker", "required for marker wait")
	}

	for i, r := range cfg.Mutation.Replacements {
		check(r.Old != "", fmt.Sprintf("mutation.replacements[%d].old", i), "required")
	}

	check(validFormats[cfg.Report.Format], "report.format",
		fmt.Sprintf("must be one of: none, json, yaml, markdown (got %q)", cfg.Report.Format))

	return errors.Join(errs...)
}
