// Package app wires configuration into a runnable daemon.
//
// # Bootstrap
//
// NewApplication performs every step that can fail before the first API call:
//
//  1. Load configuration with viper (file, TODODAEMON_* environment, defaults)
//  2. Apply command line overrides and validate
//  3. Select the newest active client certificate from the store
//  4. Build the client credential, token provider and retrying acquirer
//  5. Build the To Do list client and the create-then-list loop
//
// Errors keep their cause so the CLI can map them to exit codes:
// config.ValidationErrors for incomplete configuration and
// certstore.ErrCertificateNotFound when no usable certificate exists.
//
// # Running
//
// Application.Run executes the configured iterations. When started by
// systemd with Type=notify, READY=1 is sent before the first iteration and
// STOPPING=1 after the last.
package app
