package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newConfigCmd creates the command that prints the effective configuration.
func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Long: `Loads the configuration file, applies TODODAEMON_ environment overrides and
defaults, validates the result and prints it as YAML.

Exits with code 3 when the configuration is invalid.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := setupLogging(); err != nil {
				return err
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			out, err := cfg.DaemonConfig.Marshal()
			if err != nil {
				return fmt.Errorf("failed to render configuration: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
