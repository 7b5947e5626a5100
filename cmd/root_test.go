package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tododaemon/internal/certstore"
	"tododaemon/internal/config"
	"tododaemon/internal/testing/mock"
)

// executeRoot runs the root command with args and returns its stdout.
func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	rootCmd.SetVersionTemplate(`{{printf "tododaemon version %s\n" .Version}}`)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		configPath = ""
		logLevel = "info"
	})
	err := rootCmd.Execute()
	return out.String(), err
}

// writeConfig writes a complete configuration whose certificate store holds
// one active certificate for "daemon".
func writeConfig(t *testing.T, certName string) string {
	t.Helper()
	dir := t.TempDir()
	certDir := filepath.Join(dir, "certs")
	if err := os.Mkdir(certDir, 0o700); err != nil {
		t.Fatal(err)
	}
	cert, err := mock.GenerateCert(mock.CertSpec{
		CommonName: "daemon",
		NotBefore:  time.Now().Add(-time.Hour),
		NotAfter:   time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := cert.WritePair(certDir, "daemon"); err != nil {
		t.Fatal(err)
	}

	content := fmt.Sprintf(`identity:
  aadInstance: https://login.example.com/{0}
  tenant: contoso
  clientId: client-id
  certName: %s
  certStorePath: %s
todoList:
  resourceId: api://todo
  baseAddress: https://todo.example.com
`, certName, certDir)
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "tododaemon" {
		t.Errorf("Expected Use to be 'tododaemon', got %s", rootCmd.Use)
	}
	if rootCmd.Short == "" || rootCmd.Long == "" {
		t.Error("Expected Short and Long descriptions to be set")
	}
	if !rootCmd.SilenceUsage {
		t.Error("Expected SilenceUsage to be true")
	}
}

func TestSubcommands(t *testing.T) {
	found := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		found[cmd.Name()] = true
	}
	for _, expected := range []string{"version", "run", "cert", "config"} {
		if !found[expected] {
			t.Errorf("Expected subcommand %s to be registered", expected)
		}
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil", nil, ExitCodeSuccess},
		{"generic", errors.New("boom"), ExitCodeError},
		{"certificate not found", fmt.Errorf("locate: %w", certstore.ErrCertificateNotFound), ExitCodeCertificateNotFound},
		{"validation", fmt.Errorf("invalid configuration: %w", config.ValidationErrors{{Field: "identity.clientId", Message: "is required"}}), ExitCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := getExitCode(tt.err); got != tt.expected {
				t.Errorf("Expected exit code %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestConfigCommand(t *testing.T) {
	path := writeConfig(t, "daemon")

	out, err := executeRoot(t, "config", "--config", path, "--log-level", "error")
	if err != nil {
		t.Fatalf("config command failed: %v", err)
	}
	for _, want := range []string{"clientId: client-id", "resourceId: api://todo", "iterations: 10"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q. Got: %q", want, out)
		}
	}
}

func TestConfigCommand_InvalidConfiguration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("daemon:\n  iterations: 3\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := executeRoot(t, "config", "--config", path, "--log-level", "error")
	if got := getExitCode(err); got != ExitCodeInvalidConfig {
		t.Errorf("Expected exit code %d, got %d (%v)", ExitCodeInvalidConfig, got, err)
	}
}

func TestCertCommand(t *testing.T) {
	path := writeConfig(t, "daemon")

	out, err := executeRoot(t, "cert", "--config", path, "--log-level", "error", "--output", "console")
	if err != nil {
		t.Fatalf("cert command failed: %v", err)
	}
	if !strings.Contains(out, "CN=daemon") {
		t.Errorf("Expected certificate subject in output. Got: %q", out)
	}
}

func TestCertCommand_NotFound(t *testing.T) {
	path := writeConfig(t, "somebody-else")

	_, err := executeRoot(t, "cert", "--config", path, "--log-level", "error", "--output", "console")
	if got := getExitCode(err); got != ExitCodeCertificateNotFound {
		t.Errorf("Expected exit code %d, got %d (%v)", ExitCodeCertificateNotFound, got, err)
	}
}

func TestCertCommand_MissingStore(t *testing.T) {
	path := writeConfig(t, "daemon")
	if err := os.RemoveAll(filepath.Join(filepath.Dir(path), "certs")); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"cert", "run"} {
		_, err := executeRoot(t, name, "--config", path, "--log-level", "error")
		if got := getExitCode(err); got != ExitCodeCertificateNotFound {
			t.Errorf("%s: expected exit code %d, got %d (%v)", name, ExitCodeCertificateNotFound, got, err)
		}
	}
}

func TestRunCommand_ZeroIterations(t *testing.T) {
	t.Cleanup(func() {
		runIterations = 0
		if run, _, err := rootCmd.Find([]string{"run"}); err == nil {
			run.Flags().Lookup("iterations").Changed = false
		}
	})
	path := writeConfig(t, "daemon")

	_, err := executeRoot(t, "run", "--config", path, "--iterations", "0", "--log-level", "error")
	if got := getExitCode(err); got != ExitCodeInvalidConfig {
		t.Errorf("Expected exit code %d, got %d (%v)", ExitCodeInvalidConfig, got, err)
	}
}

func TestRunCommand_RejectsUnknownOutput(t *testing.T) {
	t.Cleanup(func() { runOutput = "table" })

	_, err := executeRoot(t, "run", "--output", "xml", "--log-level", "error")
	if err == nil || !strings.Contains(err.Error(), "unknown output format") {
		t.Errorf("Expected unknown output format error, got %v", err)
	}
}
