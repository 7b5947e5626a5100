package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"tododaemon/internal/app"
	"tododaemon/internal/formatting"
)

var (
	runIterations int
	runDelay      time.Duration
	runOutput     string
	runColor      bool
)

// newRunCmd creates the command that runs the create-then-list cycles.
func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Create and list To Do items using certificate based authentication",
		Long: `Runs the daemon: each iteration acquires a token and creates an item,
waits, acquires a token and lists all items, then waits again.

Configuration is read from --config, or config.yaml in the working directory
or $HOME/.config/tododaemon. Every setting can be overridden with a
TODODAEMON_ environment variable, e.g. TODODAEMON_IDENTITY_CLIENTID.

Exit codes:
  0  all iterations ran (individual call failures are reported, not fatal)
  1  unexpected error
  2  no active certificate matched identity.certName
  3  invalid configuration

Send SIGINT or SIGTERM to stop after the current step.`,
		Args: cobra.NoArgs,
		RunE: runDaemon,
	}

	cmd.Flags().IntVar(&runIterations, "iterations", 0, "Number of iterations (overrides daemon.iterations)")
	cmd.Flags().DurationVar(&runDelay, "delay", 0, "Pause after every API call (overrides daemon.delay)")
	cmd.Flags().StringVarP(&runOutput, "output", "o", string(formatting.FormatTable), "Item list format: table, console, json or yaml")
	cmd.Flags().BoolVar(&runColor, "color", false, "Colorize table output")
	return cmd
}

func runDaemon(cmd *cobra.Command, args []string) error {
	if err := setupLogging(); err != nil {
		return err
	}

	format, err := formatting.ParseOutputFormat(runOutput)
	if err != nil {
		return err
	}

	cfg := app.NewConfig(configPath)
	cfg.Stdout = cmd.OutOrStdout()
	cfg.Output = formatting.Options{Format: format, Color: runColor}
	if cmd.Flags().Changed("iterations") {
		iterations := runIterations
		cfg.Iterations = &iterations
	}
	if cmd.Flags().Changed("delay") {
		delay := runDelay
		cfg.Delay = &delay
	}

	application, err := app.NewApplication(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary := application.Run(ctx)
	if summary.Cancelled {
		fmt.Fprintln(cmd.ErrOrStderr(), "Interrupted, stopping")
	}
	return nil
}
