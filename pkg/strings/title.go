// Package strings holds text helpers shared by the CLI output paths.
package strings

import (
	"strings"
	"unicode/utf8"
)

// DefaultTitleWidth is the widest item title shown in table output.
const DefaultTitleWidth = 60

// ellipsis marks a clipped title.
const ellipsis = "..."

// SingleLine collapses every run of whitespace in s to one space and clips
// the result to width runes, ending clipped text with "...". Widths too
// small to hold one rune plus the ellipsis are raised to that minimum.
func SingleLine(s string, width int) string {
	if minWidth := len(ellipsis) + 1; width < minWidth {
		width = minWidth
	}

	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-len(ellipsis)]) + ellipsis
}
