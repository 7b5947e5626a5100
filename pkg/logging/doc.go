// Package logging provides the leveled, subsystem-tagged logging used across
// tododaemon.
//
// It is a thin layer over the standard slog package: InitForCLI installs a
// text handler once at startup and every helper attaches a "subsystem"
// attribute so that token acquisition, API calls and the daemon loop can be
// told apart in the output.
//
// # Usage
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Info("Daemon", "Starting %d iterations", n)
//	logging.Debug("Config", "Loaded configuration from %s", path)
//	logging.Warn("TodoList", "Request returned %s", status)
//	logging.Error("Auth", err, "Token acquisition failed")
//
// Attribute-rich entries go through InfoAttrs and WarnAttrs:
//
//	logging.InfoAttrs("Auth", "Token acquired",
//	    slog.Int("attempt", 1),
//	    slog.String("resource", resource))
//
// Diagnostics are written to the configured writer (stderr for the CLI);
// operator-facing output such as item listings is written by the commands
// themselves to stdout.
package logging
