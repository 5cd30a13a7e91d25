// Package util provides shared text helpers for the viewers and the agent.
package util

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
)

// TruncateString truncates a string to maxLen runes, adding "..." if truncated.
// It does not account for ANSI escape codes or wide characters; use
// TruncateANSI for styled terminal output.
func TruncateString(s string, maxLen int) string {
	if maxLen <= 3 {
		return "..."
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

// TruncateANSI truncates a string to maxWidth visual columns, adding "..." if
// truncated. Escape sequences are preserved.
func TruncateANSI(s string, maxWidth int) string {
	if maxWidth <= 3 {
		return "..."
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	return ansi.Truncate(s, maxWidth, "...")
}

// Wrap word-wraps s at width columns. Words longer than width are broken so
// no line exceeds width. A width below 1 returns s unchanged.
func Wrap(s string, width int) string {
	if width < 1 {
		return s
	}
	return wrap.String(wordwrap.String(s, width), width)
}

// WrapIndent wraps s at width and indents every line by n spaces.
func WrapIndent(s string, width int, n uint) string {
	return indent.String(Wrap(s, width), n)
}

// StripANSI removes terminal escape sequences.
func StripANSI(s string) string {
	return ansi.Strip(s)
}

// CompactWhitespace collapses runs of whitespace, including newlines, into
// single spaces.
func CompactWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
