package config

import "time"

// Config holds the settings of one canoerun invocation. It maps to the
// optional canoerun.yaml run profile.
type Config struct {
	ConfigPath  string            `koanf:"config_path" yaml:"config_path"`
	OutputDir   string            `koanf:"output_dir" yaml:"output_dir"`
	Debug       bool              `koanf:"debug" yaml:"debug"`
	LogLevel    string            `koanf:"log_level" yaml:"log_level"` // debug | info | warn | error
	Session     SessionConfig     `koanf:"session" yaml:"session"`
	Measurement MeasurementConfig `koanf:"measurement" yaml:"measurement"`
	Mutation    MutationConfig    `koanf:"mutation" yaml:"mutation"`
	Output      OutputConfig      `koanf:"output" yaml:"output"`
	Report      ReportConfig      `koanf:"report" yaml:"report"`
}

// SessionConfig selects the automation back end.
type SessionConfig struct {
	Backend string `koanf:"backend" yaml:"backend"` // canoe | dryrun
	ProgID  string `koanf:"prog_id" yaml:"prog_id"` // COM ProgID for the canoe back end
}

// MeasurementConfig controls how long a measurement runs.
type MeasurementConfig struct {
	Wait         string        `koanf:"wait" yaml:"wait"` // fixed | poll | marker
	Duration     time.Duration `koanf:"duration" yaml:"duration"`
	PollInterval time.Duration `koanf:"poll_interval" yaml:"poll_interval"`
	Timeout      time.Duration `koanf:"timeout" yaml:"timeout"` // 0 = no timeout
	Marker       string        `koanf:"marker" yaml:"marker"`
}

// MutationConfig lists the literal edits applied to the configuration file
// before it is handed to the tool.
type MutationConfig struct {
	Enabled      bool          `koanf:"enabled" yaml:"enabled"`
	Replacements []Replacement `koanf:"replacements" yaml:"replacements"`
}

// Replacement replaces every occurrence of Old with New.
type Replacement struct {
	Old string `koanf:"old" yaml:"old"`
	New string `koanf:"new" yaml:"new"`
}

// OutputConfig controls the output directory preparation.
type OutputConfig struct {
	Clean bool `koanf:"clean" yaml:"clean"` // remove and recreate on every run
}

// ReportConfig selects the report format.
type ReportConfig struct {
	Format string `koanf:"format" yaml:"format"` // none | json | yaml | markdown
}

// Default values.
const (
	DefaultOutputDir       = "./output/"
	DefaultDebugConfigPath = "./debug_config.cnf"
	DefaultProfile         = "canoerun.yaml"
	DefaultLogLevel        = "info"
	DefaultBackend         = "canoe"
	DefaultProgID          = "CANoe.Application"
	DefaultWait            = "fixed"
	DefaultDuration        = 10 * time.Second
	DefaultPollInterval    = 500 * time.Millisecond
	DefaultReportFormat    = "json"
)

// defaults returns the flattened default settings, keyed the way koanf
// addresses them.
func defaults() map[string]any {
	return map[string]any{
		"config_path":               "",
		"output_dir":                DefaultOutputDir,
		"debug":                     false,
		"log_level":                 DefaultLogLevel,
		"session.backend":           DefaultBackend,
		"session.prog_id":           DefaultProgID,
		"measurement.wait":          DefaultWait,
		"measurement.duration":      DefaultDuration.String(),
		"measurement.poll_interval": DefaultPollInterval.String(),
		"measurement.timeout":       "0s",
		"measurement.marker":        "",
		"mutation.enabled":          true,
		"mutation.replacements": []map[string]any{
			{"old": "old_value", "new": "new_value"},
		},
		"output.clean":  true,
		"report.format": DefaultReportFormat,
	}
}
