package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"tododaemon/internal/config"
	"tododaemon/internal/daemon"
	"tododaemon/pkg/logging"
)

// Application represents the main application structure that bootstraps and
// runs the daemon.
//
// The Application follows a two-phase initialization pattern:
//  1. Bootstrap phase: load and validate configuration, locate the
//     certificate, wire the token acquirer, API client and loop
//  2. Execution phase: run the create-then-list cycles
//
// Example usage:
//
//	cfg := app.NewConfig("/etc/tododaemon/config.yaml")
//	application, err := app.NewApplication(cfg)
//	if err != nil {
//	    return fmt.Errorf("failed to create application: %w", err)
//	}
//	summary := application.Run(ctx)
type Application struct {
	config   *Config
	services *Services
}

// NewApplication loads configuration and initializes all services.
//
// Errors keep their cause for classification: a config.ValidationErrors
// for bad configuration and certstore.ErrCertificateNotFound when no usable
// certificate exists.
func NewApplication(cfg *Config) (*Application, error) {
	if err := LoadDaemonConfig(cfg); err != nil {
		return nil, err
	}

	services, err := InitializeServices(cfg)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return &Application{
		config:   cfg,
		services: services,
	}, nil
}

// LoadDaemonConfig loads cfg.DaemonConfig unless already set, applies the
// command line overrides and validates the result.
func LoadDaemonConfig(cfg *Config) error {
	if cfg.DaemonConfig == nil {
		daemonCfg, err := config.LoadConfig(cfg.ConfigPath)
		if err != nil {
			logging.Error("Bootstrap", err, "Failed to load configuration")
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg.DaemonConfig = &daemonCfg
	}
	cfg.applyOverrides()

	if err := cfg.DaemonConfig.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Services returns the initialized services.
func (a *Application) Services() *Services {
	return a.services
}

// Run executes the configured number of iterations and returns what they did.
// The service manager, if any, is told when the daemon is ready and when it
// stops.
func (a *Application) Run(ctx context.Context) daemon.Summary {
	loop := a.config.DaemonConfig.Daemon
	notify(readyState)
	logging.Info("Daemon", "Running %d iterations with %s delay (run %s)", loop.Iterations, loop.Delay, a.services.RunID)

	summary := a.services.Loop.Run(ctx, loop.Iterations, loop.Delay)

	notify(stoppingState)
	fmt.Fprintf(a.stdout(), "Completed %d iterations: %d created, %d listed, %d failed\n",
		summary.Iterations, summary.Created, summary.Listed, summary.Failures())
	return summary
}

func (a *Application) stdout() io.Writer {
	if a.config.Stdout != nil {
		return a.config.Stdout
	}
	return os.Stdout
}
