package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"tododaemon/internal/certstore"
	"tododaemon/internal/config"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeCertificateNotFound indicates no active client certificate matched the configured name.
	ExitCodeCertificateNotFound = 2
	// ExitCodeInvalidConfig indicates the configuration is incomplete or malformed.
	ExitCodeInvalidConfig = 3
)

// rootCmd represents the base command for the tododaemon application.
var rootCmd = &cobra.Command{
	Use:   "tododaemon",
	Short: "Call a protected To Do list API as a daemon application",
	Long: `tododaemon authenticates to an identity provider with a client certificate
(OAuth 2.0 client credentials with a signed JWT assertion) and repeatedly
creates and lists items in a remote To Do list service.

Every API call acquires a token first. Transient identity provider failures
are retried; API failures are reported and the daemon moves on.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "tododaemon version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and service managers.
func getExitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}

	if errors.Is(err, certstore.ErrCertificateNotFound) {
		return ExitCodeCertificateNotFound
	}

	var validationErrs config.ValidationErrors
	if errors.As(err, &validationErrs) {
		return ExitCodeInvalidConfig
	}

	return ExitCodeError
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default is ./config.yaml or $HOME/.config/tododaemon/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newCertCmd())
	rootCmd.AddCommand(newConfigCmd())
}
