package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dmitriyb/canoerun/internal/config"
)

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective settings as YAML",
		Long: `Config merges defaults, the run profile, CANOERUN_* environment variables and
the given flags, validates the result and prints it. The output is a valid
run profile.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Validate(cfg); err != nil {
				return usageError(fmt.Sprintf("invalid settings:\n%v", err))
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("config: encode: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	config.BindRunFlags(cmd.Flags())
	return cmd
}
