// Package cli provides the command-line interface for canoerun.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dmitriyb/canoerun/internal/config"
	"github.com/dmitriyb/canoerun/internal/session"
	"github.com/dmitriyb/canoerun/internal/session/canoe"
	"github.com/dmitriyb/canoerun/internal/session/dryrun"
)

// Version is set at build time.
var Version = "0.1.0"

// DriverFactory builds the automation driver selected by cfg.
type DriverFactory func(cfg *config.Config, logger *slog.Logger) (session.Driver, error)

// DefaultDriverFactory supports the canoe and dryrun back ends.
func DefaultDriverFactory(cfg *config.Config, logger *slog.Logger) (session.Driver, error) {
	switch cfg.Session.Backend {
	case "canoe":
		return canoe.New(cfg.Session.ProgID), nil
	case "dryrun":
		return dryrun.New(logger, cfg.Measurement.Duration), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Session.Backend)
	}
}

type options struct {
	newDriver DriverFactory
}

// Option customises the root command.
type Option func(*options)

// WithDriverFactory replaces the driver construction, e.g. with a fake.
func WithDriverFactory(f DriverFactory) Option {
	return func(o *options) { o.newDriver = f }
}

// NewRootCmd creates the root command and its subcommands.
func NewRootCmd(opts ...Option) *cobra.Command {
	o := &options{newDriver: DefaultDriverFactory}
	for _, opt := range opts {
		opt(o)
	}

	root := &cobra.Command{
		Use:   "canoerun",
		Short: "Run a CANoe measurement from the command line",
		Long: `canoerun opens the simulation tool through its automation interface, loads
a test configuration, runs a measurement, stops it and saves a report.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("{{.Name}} {{.Version}}\n")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err.Error())
	})
	config.BindGlobalFlags(root.PersistentFlags())

	root.AddCommand(newRunCommand(o))
	root.AddCommand(newConfigCommand())
	root.AddCommand(newVersionCommand())

	// After AddCommand so subcommands inherit it: --output_dir == --output-dir.
	root.SetGlobalNormalizationFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	return root
}

// Execute runs the root command with args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer, opts ...Option) int {
	root := NewRootCmd(opts...)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, err)
		return ExitCode(err)
	}
	return 0
}

// loadConfig reads the layered configuration for cmd.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	profile, _ := cmd.Flags().GetString("profile")
	cfg, err := config.Load(profile, cmd.Flags())
	if err != nil {
		return nil, usageError(err.Error())
	}
	return cfg, nil
}
