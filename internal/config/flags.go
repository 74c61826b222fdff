package config

import "github.com/spf13/pflag"

// BindGlobalFlags registers the flags shared by every command. Defaults are
// shown for help only; Load reads a flag only when it was set explicitly.
func BindGlobalFlags(fs *pflag.FlagSet) {
	fs.String("profile", "", "run profile file (default: ./"+DefaultProfile+" if present)")
	fs.String("log-level", DefaultLogLevel, "log level: debug, info, warn, error")
	fs.Bool("debug", false, "debug mode: the configuration path defaults to "+DefaultDebugConfigPath)
}

// BindRunFlags registers the flags of the run command.
func BindRunFlags(fs *pflag.FlagSet) {
	fs.String("output-dir", DefaultOutputDir, "directory where the test report is saved")
	fs.String("backend", DefaultBackend, "automation backend: canoe, dryrun")
	fs.String("prog-id", DefaultProgID, "COM ProgID of the automation server")
	fs.String("wait", DefaultWait, "measurement end condition: fixed, poll, marker")
	fs.Duration("duration", DefaultDuration, "measurement duration for the fixed wait")
	fs.Duration("poll-interval", DefaultPollInterval, "status poll interval for the poll wait")
	fs.Duration("timeout", 0, "upper bound for the poll and marker waits (0 = none)")
	fs.String("marker", "", "file whose creation ends the measurement (marker wait)")
	fs.String("report", DefaultReportFormat, "report format: none, json, yaml, markdown")
	fs.Bool("keep-output", false, "do not delete an existing output directory")
	fs.Bool("no-mutate", false, "do not rewrite the configuration file")
}
