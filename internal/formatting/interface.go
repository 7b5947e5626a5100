// Package formatting renders operator output for the daemon and the CLI.
//
// The daemon prints the To Do list after every list call and the cert command
// prints the selected certificate. Both go through a Formatter so the same
// data can be shown as a table, plain console lines, JSON or YAML.
package formatting

import (
	"fmt"
	"time"
)

// OutputFormat represents the desired output format
type OutputFormat string

const (
	FormatConsole OutputFormat = "console" // Simple console output
	FormatJSON    OutputFormat = "json"    // JSON output
	FormatYAML    OutputFormat = "yaml"    // YAML output
	FormatTable   OutputFormat = "table"   // Rich table output
)

// Options configures the formatter behavior
type Options struct {
	Format OutputFormat
	Color  bool // Enable colored output
}

// ItemList is the result of one list call.
type ItemList struct {
	Items []string `json:"items" yaml:"items"`
	Count int      `json:"count" yaml:"count"`
}

// NewItemList builds an ItemList from titles.
func NewItemList(titles []string) ItemList {
	if titles == nil {
		titles = []string{}
	}
	return ItemList{Items: titles, Count: len(titles)}
}

// CertificateInfo describes the certificate the daemon authenticates with.
type CertificateInfo struct {
	Subject    string    `json:"subject" yaml:"subject"`
	Serial     string    `json:"serial" yaml:"serial"`
	Thumbprint string    `json:"thumbprint" yaml:"thumbprint"`
	NotBefore  time.Time `json:"notBefore" yaml:"notBefore"`
	NotAfter   time.Time `json:"notAfter" yaml:"notAfter"`
	Source     string    `json:"source" yaml:"source"`
}

// Formatter renders operator output.
type Formatter interface {
	FormatItems(list ItemList) string
	FormatCertificate(info CertificateInfo) string
}

// ParseOutputFormat validates a --output flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(s); f {
	case FormatConsole, FormatJSON, FormatYAML, FormatTable:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (valid: table, console, json, yaml)", s)
	}
}

// New creates the formatter for options.Format. Unknown formats fall back to
// the console formatter.
func New(options Options) Formatter {
	switch options.Format {
	case FormatJSON:
		return &jsonFormatter{}
	case FormatYAML:
		return &yamlFormatter{}
	case FormatTable:
		return &tableFormatter{options: options}
	default:
		return &consoleFormatter{}
	}
}

// totalLine is printed after every human-readable item list.
func totalLine(count int) string {
	return fmt.Sprintf("Total item count: %d", count)
}
