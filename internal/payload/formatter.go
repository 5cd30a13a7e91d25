// Package payload renders LLM request and response payloads for the
// terminal: JSON, markdown, XML, diffs and plain text, colored by theme.
package payload

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Kind is the detected shape of a text payload.
type Kind int

const (
	KindText Kind = iota
	KindJSON
	KindMarkdown
	KindXML
	KindDiff
)

func (k Kind) String() string {
	switch k {
	case KindJSON:
		return "json"
	case KindMarkdown:
		return "markdown"
	case KindXML:
		return "xml"
	case KindDiff:
		return "diff"
	default:
		return "text"
	}
}

var (
	xmlTagRe    = regexp.MustCompile(`</?\w+[^>]*>`)
	anyTagRe    = regexp.MustCompile(`</?[^>]+>`)
	codeBlockRe = regexp.MustCompile("(?s)```(?:[^\n]*\n)?(.*?)```")
	headerRe    = regexp.MustCompile(`(?m)^#+.*$`)
	codeTokenRe = regexp.MustCompile(`"[^"]*"|\b\d+\b`)
)

// Detect classifies text the same way Render does.
func Detect(text string) Kind {
	if json.Valid([]byte(text)) {
		return KindJSON
	}
	trimmed := strings.TrimSpace(text)
	if strings.Contains(text, "```") || strings.HasPrefix(trimmed, "#") {
		return KindMarkdown
	}
	if strings.HasPrefix(trimmed, "--- ") || strings.HasPrefix(trimmed, "diff ") || strings.HasPrefix(trimmed, "@@") {
		return KindDiff
	}
	if strings.Contains(text, "<") && strings.Contains(text, ">") && xmlTagRe.MatchString(text) {
		return KindXML
	}
	return KindText
}

// Formatter colors payloads with a theme. Colors are emitted only when the
// renderer's output supports them.
type Formatter struct {
	theme    Theme
	indent   string
	renderer *lipgloss.Renderer
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithIndent sets the JSON indent width (default 2).
func WithIndent(n int) Option {
	return func(f *Formatter) {
		if n >= 0 {
			f.indent = strings.Repeat(" ", n)
		}
	}
}

// WithRenderer sets the lipgloss renderer, which decides the color profile.
func WithRenderer(r *lipgloss.Renderer) Option {
	return func(f *Formatter) {
		if r != nil {
			f.renderer = r
		}
	}
}

// NewFormatter creates a Formatter for the named theme writing to w.
func NewFormatter(theme string, w io.Writer, opts ...Option) (*Formatter, error) {
	t, err := ThemeByName(theme)
	if err != nil {
		return nil, err
	}
	if w == nil {
		w = os.Stdout
	}
	f := &Formatter{
		theme:    t,
		indent:   "  ",
		renderer: lipgloss.NewRenderer(w),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// paint styles each line separately so multi-line text is not padded to a
// common width.
func (f *Formatter) paint(c lipgloss.Color, s string) string {
	style := f.renderer.NewStyle().Foreground(c)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

// Render auto-detects the payload kind. Maps, slices and other non-string
// values are rendered as JSON.
func (f *Formatter) Render(payload any) string {
	switch v := payload.(type) {
	case string:
		return f.RenderText(v)
	case []byte:
		return f.RenderText(string(v))
	case json.RawMessage:
		return f.RenderJSON(v)
	default:
		return f.RenderJSON(v)
	}
}

// RenderText detects the kind of text and renders accordingly.
func (f *Formatter) RenderText(text string) string {
	switch Detect(text) {
	case KindJSON:
		return f.RenderJSON(text)
	case KindMarkdown:
		return f.RenderMarkdown(text)
	case KindDiff:
		return f.RenderDiff(text)
	case KindXML:
		return f.RenderXML(text)
	default:
		return text
	}
}

// RenderJSON pretty-prints and colors data. A string that is not valid JSON
// is returned unchanged. JSON text keeps its key order.
func (f *Formatter) RenderJSON(data any) string {
	var raw []byte
	switch v := data.(type) {
	case string:
		if !json.Valid([]byte(v)) {
			return v
		}
		raw = []byte(v)
	case []byte:
		raw = v
	case json.RawMessage:
		raw = v
	default:
		b, err := marshal(v)
		if err != nil {
			return ""
		}
		raw = b
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", f.indent); err != nil {
		return string(raw)
	}
	return f.colorizeJSON(buf.String())
}

func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// colorizeJSON walks indented JSON text token by token.
func (f *Formatter) colorizeJSON(text string) string {
	var sb strings.Builder
	n := len(text)
	for i := 0; i < n; {
		c := text[i]
		switch {
		case c == '"':
			end := scanString(text, i)
			tok := text[i:end]
			j := end
			for j < n && (text[j] == ' ' || text[j] == '\t') {
				j++
			}
			if j < n && text[j] == ':' {
				sb.WriteString(f.paint(f.theme.Key, tok))
			} else {
				sb.WriteString(f.paint(f.theme.String, tok))
			}
			i = end
		case strings.IndexByte("{}[]", c) >= 0:
			sb.WriteString(f.paint(f.theme.Bracket, string(c)))
			i++
		case c == '-' || (c >= '0' && c <= '9'):
			j := i + 1
			for j < n && strings.IndexByte("0123456789.eE+-", text[j]) >= 0 {
				j++
			}
			sb.WriteString(f.paint(f.theme.Number, text[i:j]))
			i = j
		case strings.HasPrefix(text[i:], "true"):
			sb.WriteString(f.paint(f.theme.Boolean, "true"))
			i += 4
		case strings.HasPrefix(text[i:], "false"):
			sb.WriteString(f.paint(f.theme.Boolean, "false"))
			i += 5
		case strings.HasPrefix(text[i:], "null"):
			sb.WriteString(f.paint(f.theme.Null, "null"))
			i += 4
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return sb.String()
}

// scanString returns the index just past the string literal starting at i.
func scanString(text string, i int) int {
	for j := i + 1; j < len(text); j++ {
		switch text[j] {
		case '\\':
			j++
		case '"':
			return j + 1
		}
	}
	return len(text)
}

// RenderMarkdown colors headers and unwraps fenced code blocks.
func (f *Formatter) RenderMarkdown(text string) string {
	text = headerRe.ReplaceAllStringFunc(text, func(h string) string {
		return f.paint(f.theme.MDHeader, h)
	})
	return codeBlockRe.ReplaceAllStringFunc(text, func(block string) string {
		m := codeBlockRe.FindStringSubmatch(block)
		return f.paint(f.theme.Code, m[1])
	})
}

// RenderXML colors tags.
func (f *Formatter) RenderXML(text string) string {
	return anyTagRe.ReplaceAllStringFunc(text, func(tag string) string {
		return f.paint(f.theme.XMLTag, tag)
	})
}

// RenderCode applies light highlighting to a code snippet: strings,
// numbers and # comments.
func (f *Formatter) RenderCode(code string) string {
	lines := strings.Split(code, "\n")
	for i, line := range lines {
		var comment string
		if pos := commentStart(line); pos >= 0 {
			comment = f.paint(f.theme.Comment, line[pos:])
			line = line[:pos]
		}
		line = codeTokenRe.ReplaceAllStringFunc(line, func(tok string) string {
			if tok[0] == '"' {
				return f.paint(f.theme.Code, tok)
			}
			return f.paint(f.theme.Number, tok)
		})
		lines[i] = line + comment
	}
	return strings.Join(lines, "\n")
}

// commentStart returns the index of the first # outside double quotes, or -1.
func commentStart(line string) int {
	inQuotes := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"':
			inQuotes = !inQuotes
		case '#':
			if !inQuotes {
				return i
			}
		}
	}
	return -1
}

// RenderDiff colors added and removed lines of a unified diff.
func (f *Formatter) RenderDiff(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++"):
			lines[i] = f.paint(f.theme.DiffAdd, line)
		case strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---"):
			lines[i] = f.paint(f.theme.DiffDel, line)
		}
	}
	return strings.Join(lines, "\n")
}

// Title renders a section title.
func (f *Formatter) Title(text string) string {
	return f.renderer.NewStyle().Foreground(f.theme.Title).Bold(true).Render(text)
}

// Success renders a status line for a step that passed.
func (f *Formatter) Success(text string) string { return f.paint(f.theme.DiffAdd, text) }

// Warning renders a status line for a step the user declined or skipped.
func (f *Formatter) Warning(text string) string { return f.paint(f.theme.Number, text) }

// Failure renders a status line for a step that failed.
func (f *Formatter) Failure(text string) string { return f.paint(f.theme.DiffDel, text) }

// Info renders a neutral status line.
func (f *Formatter) Info(text string) string { return f.paint(f.theme.Key, text) }

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
