package cmd

import (
	"bytes"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	originalVersion := rootCmd.Version
	defer func() { rootCmd.Version = originalVersion }()

	tests := []struct {
		version  string
		expected string
	}{
		{version: "1.2.3", expected: "tododaemon version 1.2.3\n"},
		{version: "", expected: "tododaemon version \n"},
	}
	for _, tt := range tests {
		rootCmd.Version = tt.version

		versionCmd := newVersionCmd()
		var buf bytes.Buffer
		versionCmd.SetOut(&buf)
		versionCmd.Run(versionCmd, []string{})

		if buf.String() != tt.expected {
			t.Errorf("version %q: expected output %q, got %q", tt.version, tt.expected, buf.String())
		}
	}
}

func TestVersionFlag(t *testing.T) {
	originalVersion := rootCmd.Version
	defer func() { rootCmd.Version = originalVersion }()
	SetVersion("0.4.0")

	out, err := executeRoot(t, "--version")
	if err != nil {
		t.Fatalf("Error executing --version: %v", err)
	}
	if out != "tododaemon version 0.4.0\n" {
		t.Errorf("Expected version template output, got %q", out)
	}
	if GetVersion() != "0.4.0" {
		t.Errorf("Expected GetVersion to return 0.4.0, got %q", GetVersion())
	}
}
