package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix is the prefix of environment variables that override settings.
// Nested keys use a double underscore: CANOERUN_MEASUREMENT__DURATION=30s.
const EnvPrefix = "CANOERUN_"

// flagKeys maps CLI flag names to config keys. Flags not listed here are
// not configuration (e.g. --profile).
var flagKeys = map[string]string{
	"log-level":     "log_level",
	"debug":         "debug",
	"output-dir":    "output_dir",
	"backend":       "session.backend",
	"prog-id":       "session.prog_id",
	"wait":          "measurement.wait",
	"duration":      "measurement.duration",
	"poll-interval": "measurement.poll_interval",
	"timeout":       "measurement.timeout",
	"marker":        "measurement.marker",
	"report":        "report.format",
}

// invertedFlags are boolean opt-out flags whose value is negated into the
// config key they control.
var invertedFlags = map[string]string{
	"keep-output": "output.clean",
	"no-mutate":   "mutation.enabled",
}

// ResolveProfile returns the run profile to read: the explicit path when
// given, else DefaultProfile if it exists in the working directory, else "".
func ResolveProfile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(DefaultProfile); err == nil {
		return DefaultProfile
	}
	return ""
}

// Load builds a Config from defaults, the run profile, the environment and
// the explicitly set flags, in increasing order of precedence. flags may be
// nil. It performs no validation; call Validate separately.
func Load(profile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	if path := ResolveProfile(profile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	// DEBUG is the historical toggle; any value that is not a recognised
	// boolean counts as on.
	if err := k.Load(env.ProviderWithValue("DEBUG", ".", func(key, value string) (string, any) {
		if key != "DEBUG" || value == "" {
			return "", nil
		}
		on, err := strconv.ParseBool(value)
		if err != nil {
			on = true
		}
		return "debug", on
	}), nil); err != nil {
		return nil, fmt.Errorf("config: load env: %w", err)
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, any) {
		if value == "" {
			return "", nil
		}
		return envKey(key), value
	}), nil); err != nil {
		return nil, fmt.Errorf("config: load env: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			if key, ok := invertedFlags[f.Name]; ok {
				on, _ := flags.GetBool(f.Name)
				return key, !on
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("config: load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	return &cfg, nil
}

// envKey turns CANOERUN_MEASUREMENT__DURATION into measurement.duration.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}
