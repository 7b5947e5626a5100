package formatting

import (
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	textutil "tododaemon/pkg/strings"
)

type tableFormatter struct {
	options Options
}

func (f *tableFormatter) FormatItems(list ItemList) string {
	var b strings.Builder
	if list.Count == 0 {
		b.WriteString(f.colorize(text.FgYellow, "No items found"))
	} else {
		t := f.createTable()
		t.AppendHeader(table.Row{f.colorize(text.FgHiCyan, "#"), f.colorize(text.FgHiCyan, "TITLE")})
		for i, title := range list.Items {
			t.AppendRow(table.Row{i + 1, textutil.SingleLine(title, textutil.DefaultTitleWidth)})
		}
		b.WriteString(t.Render())
	}
	b.WriteString("\n")
	b.WriteString(totalLine(list.Count))
	b.WriteString("\n")
	return b.String()
}

func (f *tableFormatter) FormatCertificate(info CertificateInfo) string {
	t := f.createTable()
	t.AppendHeader(table.Row{f.colorize(text.FgHiCyan, "FIELD"), f.colorize(text.FgHiCyan, "VALUE")})
	t.AppendRows([]table.Row{
		{"Subject", info.Subject},
		{"Serial", info.Serial},
		{"Thumbprint", info.Thumbprint},
		{"Not before", info.NotBefore.Format(time.RFC3339)},
		{"Not after", info.NotAfter.Format(time.RFC3339)},
		{"Source", info.Source},
	})
	return t.Render() + "\n"
}

// createTable creates a new table with standard styling
func (f *tableFormatter) createTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	return t
}

func (f *tableFormatter) colorize(color text.Color, s string) string {
	if !f.options.Color {
		return s
	}
	return color.Sprint(s)
}
