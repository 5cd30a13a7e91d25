package util

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{"short string unchanged", "hello", 10, "hello"},
		{"exact length unchanged", "hello", 5, "hello"},
		{"long string truncated", "hello world", 8, "hello..."},
		{"small maxLen returns ellipsis", "hello", 3, "..."},
		{"negative maxLen returns ellipsis", "hello", -5, "..."},
		{"empty string unchanged", "", 10, ""},
		{"unicode counted by rune", "日本語テスト", 5, "日本..."},
		{"mixed ascii and unicode", "hello日本語world", 10, "hello日本..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateString(tt.input, tt.maxLen)
			if got != tt.expected {
				t.Errorf("TruncateString(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.expected)
			}
		})
	}
}

func TestTruncateANSI(t *testing.T) {
	red := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	if got := TruncateANSI("hello world", 8); got != "hello..." {
		t.Errorf("TruncateANSI(plain) = %q, want %q", got, "hello...")
	}
	if got := TruncateANSI("hello", 2); got != "..." {
		t.Errorf("TruncateANSI(tiny) = %q, want %q", got, "...")
	}

	styled := red.Render("hi")
	if got := TruncateANSI(styled, 10); got != styled {
		t.Errorf("styled string was modified when it fits")
	}
	if got := TruncateANSI(red.Render("hello world"), 8); lipgloss.Width(got) > 8 {
		t.Errorf("result width %d exceeds 8", lipgloss.Width(got))
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		input string
		width int
		want  string
	}{
		{"fits", "git status", 20, "git status"},
		{"breaks on words", "show the working tree status", 10, "show the\nworking\ntree\nstatus"},
		{"breaks long words", "abcdefghijkl", 5, "abcde\nfghij\nkl"},
		{"zero width unchanged", "a b c", 0, "a b c"},
		{"keeps newlines", "one\ntwo", 10, "one\ntwo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Wrap(tt.input, tt.width); got != tt.want {
				t.Errorf("Wrap(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.want)
			}
		})
	}
}

func TestWrap_NoLineExceedsWidth(t *testing.T) {
	text := strings.Repeat("Ctrl+Shift+P opens the command palette in most editors. ", 10)
	for _, width := range []int{12, 30, 80} {
		for _, line := range strings.Split(Wrap(text, width), "\n") {
			if lipgloss.Width(line) > width {
				t.Errorf("width %d: line %q is %d columns", width, line, lipgloss.Width(line))
			}
		}
	}
}

func TestWrapIndent(t *testing.T) {
	got := WrapIndent("alpha beta", 5, 2)
	if got != "  alpha\n  beta" {
		t.Errorf("WrapIndent() = %q", got)
	}
}

func TestStripANSI(t *testing.T) {
	styled := "\x1b[31mred\x1b[0m and \x1b[1;32mgreen\x1b[0m"
	if got := StripANSI(styled); got != "red and green" {
		t.Errorf("StripANSI() = %q", got)
	}
}

func TestCompactWhitespace(t *testing.T) {
	if got := CompactWhitespace("  a\n\tb   c  "); got != "a b c" {
		t.Errorf("CompactWhitespace() = %q", got)
	}
}
