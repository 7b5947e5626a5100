package app

import (
	"io"
	"os"
	"time"

	"tododaemon/internal/config"
	"tododaemon/internal/formatting"
)

// Config holds the application configuration
type Config struct {
	// Custom configuration file (optional)
	// When empty, config.yaml is searched in the working directory and
	// ~/.config/tododaemon
	ConfigPath string

	// Iterations overrides daemon.iterations when set
	Iterations *int

	// Delay overrides daemon.delay when set
	Delay *time.Duration

	// Output selects how item lists are printed
	Output formatting.Options

	// Stdout receives operator output (defaults to os.Stdout)
	Stdout io.Writer

	// Daemon configuration, loaded from ConfigPath when nil
	DaemonConfig *config.DaemonConfig
}

// NewConfig creates a new application configuration
func NewConfig(configPath string) *Config {
	return &Config{
		ConfigPath: configPath,
		Output:     formatting.Options{Format: formatting.FormatTable},
		Stdout:     os.Stdout,
	}
}

// applyOverrides copies command line overrides onto the loaded configuration.
func (c *Config) applyOverrides() {
	if c.Iterations != nil {
		c.DaemonConfig.Daemon.Iterations = *c.Iterations
	}
	if c.Delay != nil {
		c.DaemonConfig.Daemon.Delay = *c.Delay
	}
}
