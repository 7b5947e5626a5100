package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"tododaemon/internal/app"
	"tododaemon/pkg/logging"
)

// Flags shared by every command.
var (
	configPath string
	logLevel   string
)

// setupLogging sends logs to stderr so stdout carries only operator output.
func setupLogging() error {
	level, err := logging.ParseLogLevel(logLevel)
	if err != nil {
		return err
	}
	logging.InitForCLI(level, os.Stderr)
	return nil
}

// loadConfig loads and validates the daemon configuration for cmd.
func loadConfig(cmd *cobra.Command) (*app.Config, error) {
	cfg := app.NewConfig(configPath)
	cfg.Stdout = cmd.OutOrStdout()
	if err := app.LoadDaemonConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
