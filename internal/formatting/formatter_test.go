package formatting

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseOutputFormat(t *testing.T) {
	for _, s := range []string{"table", "console", "json", "yaml"} {
		f, err := ParseOutputFormat(s)
		require.NoError(t, err)
		assert.Equal(t, OutputFormat(s), f)
	}

	_, err := ParseOutputFormat("xml")
	assert.ErrorContains(t, err, "unknown output format")
}

func TestNew_FallsBackToConsole(t *testing.T) {
	_, ok := New(Options{Format: "bogus"}).(*consoleFormatter)
	assert.True(t, ok)
}

func TestFormatItems(t *testing.T) {
	list := NewItemList([]string{"Task A", "Task B"})

	t.Run("table", func(t *testing.T) {
		out := New(Options{Format: FormatTable}).FormatItems(list)
		assert.Contains(t, out, "TITLE")
		assert.Contains(t, out, "Task A")
		assert.Contains(t, out, "Task B")
		assert.Less(t, strings.Index(out, "Task A"), strings.Index(out, "Task B"))
		assert.True(t, strings.HasSuffix(out, "Total item count: 2\n"))
		assert.NotContains(t, out, "\x1b[")
	})

	t.Run("table with color", func(t *testing.T) {
		text.EnableColors()
		out := New(Options{Format: FormatTable, Color: true}).FormatItems(list)
		assert.Contains(t, out, "\x1b[")
	})

	t.Run("table clips long titles", func(t *testing.T) {
		long := strings.Repeat("x", 100)
		out := New(Options{Format: FormatTable}).FormatItems(NewItemList([]string{long}))
		assert.NotContains(t, out, long)
		assert.Contains(t, out, strings.Repeat("x", 57)+"...")
	})

	t.Run("empty table", func(t *testing.T) {
		out := New(Options{Format: FormatTable}).FormatItems(NewItemList(nil))
		assert.Equal(t, "No items found\nTotal item count: 0\n", out)
	})

	t.Run("console", func(t *testing.T) {
		out := New(Options{Format: FormatConsole}).FormatItems(list)
		assert.Equal(t, "Task A\nTask B\nTotal item count: 2\n", out)
	})

	t.Run("json", func(t *testing.T) {
		out := New(Options{Format: FormatJSON}).FormatItems(list)
		var decoded ItemList
		require.NoError(t, json.Unmarshal([]byte(out), &decoded))
		assert.Equal(t, list, decoded)
	})

	t.Run("yaml", func(t *testing.T) {
		out := New(Options{Format: FormatYAML}).FormatItems(NewItemList(nil))
		assert.Equal(t, "items: []\ncount: 0\n", out)
	})
}

func TestFormatCertificate(t *testing.T) {
	info := CertificateInfo{
		Subject:    "CN=daemon",
		Serial:     "42",
		Thumbprint: "abc",
		NotBefore:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		NotAfter:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Source:     "/certs/daemon.pem",
	}

	for _, format := range []OutputFormat{FormatTable, FormatConsole} {
		out := New(Options{Format: format}).FormatCertificate(info)
		assert.Contains(t, out, "CN=daemon", format)
		assert.Contains(t, out, "2026-01-01T00:00:00Z", format)
		assert.Contains(t, out, "/certs/daemon.pem", format)
	}

	var decoded CertificateInfo
	require.NoError(t, yaml.Unmarshal([]byte(New(Options{Format: FormatYAML}).FormatCertificate(info)), &decoded))
	assert.Equal(t, info, decoded)
}
