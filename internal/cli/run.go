package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitriyb/canoerun/internal/config"
	"github.com/dmitriyb/canoerun/internal/measure"
	"github.com/dmitriyb/canoerun/internal/mutate"
	"github.com/dmitriyb/canoerun/internal/orchestrator"
	"github.com/dmitriyb/canoerun/internal/report"
	"github.com/dmitriyb/canoerun/internal/session"
)

func newRunCommand(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [config_path]",
		Short: "Load a configuration, run a measurement and save a report",
		Long: `Run modifies the configuration file in place, opens the automation session,
loads the configuration, runs one measurement and saves a report to the
output directory.

WARNING: the configuration file is rewritten without a backup, and an existing
output directory is deleted with all its contents unless --keep-output is set.

config_path is required unless debug mode is on (--debug, CANOERUN_DEBUG or
DEBUG), in which case it defaults to ` + config.DefaultDebugConfigPath + `.`,
		Example: `  # Run a measurement for the default 10 seconds
  canoerun run ./tests/system.cfg

  # Save the report elsewhere and keep what is already there
  canoerun run ./tests/system.cfg --output_dir ./reports --keep-output

  # Stop when the test module writes its done marker
  canoerun run ./tests/system.cfg --wait marker --marker ./output/done.flag --timeout 5m

  # Exercise the pipeline without CANoe
  canoerun run ./tests/system.cfg --backend dryrun --duration 1s`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
				return usageError(err.Error())
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, args, o)
		},
	}
	config.BindRunFlags(cmd.Flags())
	return cmd
}

func runRun(cmd *cobra.Command, args []string, o *options) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		cfg.ConfigPath = args[0]
	}
	if cfg.ConfigPath == "" {
		if !cfg.Debug {
			return usageError("run: requires a configuration path (or --debug)")
		}
		cfg.ConfigPath = config.DefaultDebugConfigPath
	}
	if err := config.Validate(cfg); err != nil {
		return usageError(fmt.Sprintf("invalid settings:\n%v", err))
	}

	logger := config.InitLogging(cfg.LogLevel, cmd.ErrOrStderr())
	if cfg.Debug {
		logger.Info("running in debug mode", "config_path", cfg.ConfigPath)
	} else {
		logger.Debug("running in normal mode")
	}

	// Checked before anything touches the output directory or the session.
	if err := orchestrator.ValidateInputs(cfg.ConfigPath); err != nil {
		if errors.Is(err, orchestrator.ErrInvalidInput) {
			return failure("configuration file does not exist: " + cfg.ConfigPath)
		}
		return failure(err.Error())
	}

	waiter, err := measure.New(cfg.Measurement)
	if err != nil {
		return usageError(err.Error())
	}
	saver, err := report.New(cfg.Report.Format)
	if err != nil {
		return usageError(err.Error())
	}
	driver, err := o.newDriver(cfg, logger)
	if err != nil {
		return usageError(err.Error())
	}

	opts := orchestrator.Options{
		ConfigPath:  cfg.ConfigPath,
		OutputDir:   cfg.OutputDir,
		CleanOutput: cfg.Output.Clean,
		Waiter:      waiter,
		Saver:       saver,
	}
	if cfg.Mutation.Enabled {
		opts.Mutator = newMutator(cfg.Mutation)
	}

	client := session.NewClient(cfg.Session.Backend, driver, logger)
	res, err := orchestrator.New(client, opts, logger).Run(cmd.Context())

	out := cmd.OutOrStdout()
	if len(res.Report.Steps) > 0 {
		fmt.Fprintln(out, report.RenderTable(res.Report))
	}
	if err != nil {
		return failure(fmt.Sprintf("run failed: %v", err))
	}
	if res.SaveErr != nil {
		fmt.Fprintf(out, "Failed to save test report: %v\n", res.SaveErr)
	} else {
		fmt.Fprintln(out, "Test report saved successfully.")
	}
	return nil
}

func newMutator(cfg config.MutationConfig) *mutate.Mutator {
	m := &mutate.Mutator{}
	for _, r := range cfg.Replacements {
		m.Replacements = append(m.Replacements, mutate.Replacement{Old: r.Old, New: r.New})
	}
	return m
}
