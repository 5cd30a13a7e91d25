package payload

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/go-cmp/cmp"
	"github.com/muesli/termenv"

	"github.com/Iron-Ham/shortcuts/internal/util"
)

// colorFormatter forces ANSI output regardless of the test's stdout.
func colorFormatter(t *testing.T, theme string) *Formatter {
	t.Helper()
	var buf bytes.Buffer
	r := lipgloss.NewRenderer(&buf)
	r.SetColorProfile(termenv.ANSI)
	f, err := NewFormatter(theme, &buf, WithRenderer(r))
	if err != nil {
		t.Fatalf("NewFormatter() error = %v", err)
	}
	return f
}

func plainFormatter(t *testing.T) *Formatter {
	t.Helper()
	f, err := NewFormatter("chatgpt", &bytes.Buffer{})
	if err != nil {
		t.Fatalf("NewFormatter() error = %v", err)
	}
	return f
}

func TestThemes(t *testing.T) {
	if diff := cmp.Diff([]string{"chatgpt", "matrix", "monokai"}, ThemeNames()); diff != "" {
		t.Errorf("ThemeNames() mismatch (-want +got):\n%s", diff)
	}
	if _, err := ThemeByName("solarized"); err == nil {
		t.Error("ThemeByName(unknown) should fail")
	}
	if _, err := NewFormatter("solarized", nil); err == nil {
		t.Error("NewFormatter(unknown) should fail")
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		input string
		want  Kind
	}{
		{`{"a": 1}`, KindJSON},
		{`[1, 2]`, KindJSON},
		{"# Heading\ntext", KindMarkdown},
		{"see ```code```", KindMarkdown},
		{"--- a/x\n+++ b/x\n@@ -1 +1 @@\n-a\n+b", KindDiff},
		{"<item id=\"1\">x</item>", KindXML},
		{"a < b > c", KindText},
		{"plain words", KindText},
	}
	for _, tt := range tests {
		if got := Detect(tt.input); got != tt.want {
			t.Errorf("Detect(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestRenderJSON_KeepsOrderAndIndents(t *testing.T) {
	f := plainFormatter(t)
	got := util.StripANSI(f.Render(`{"z":1,"a":{"b":[true,null,"x"]}}`))
	want := `{
  "z": 1,
  "a": {
    "b": [
      true,
      null,
      "x"
    ]
  }
}`
	if got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderJSON_Values(t *testing.T) {
	f := plainFormatter(t)

	got := util.StripANSI(f.RenderJSON(map[string]any{"cmd": "a && b"}))
	if got != "{\n  \"cmd\": \"a && b\"\n}" {
		t.Errorf("RenderJSON(map) = %q", got)
	}
	if got := f.RenderJSON("not json"); got != "not json" {
		t.Errorf("RenderJSON(invalid) = %q, want input unchanged", got)
	}
}

func TestRenderJSON_WithIndent(t *testing.T) {
	f, err := NewFormatter("monokai", &bytes.Buffer{}, WithIndent(4))
	if err != nil {
		t.Fatal(err)
	}
	if got := util.StripANSI(f.RenderJSON(`{"a":1}`)); got != "{\n    \"a\": 1\n}" {
		t.Errorf("RenderJSON() = %q", got)
	}
}

func TestRenderJSON_Colors(t *testing.T) {
	f := colorFormatter(t, "chatgpt")
	out := f.RenderJSON(`{"command":"ls","n":-2.5,"ok":false}`)

	for _, want := range []string{
		"\x1b[96m\"command\"\x1b[0m", // key
		"\x1b[92m\"ls\"\x1b[0m",      // string
		"\x1b[93m-2.5\x1b[0m",        // number
		"\x1b[95mfalse\x1b[0m",       // boolean
	} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderJSON() missing %q in %q", want, out)
		}
	}
}

func TestRenderJSON_EscapedQuotes(t *testing.T) {
	f := plainFormatter(t)
	in := `{"say":"he said \"hi\": ok"}`
	got := util.StripANSI(f.RenderJSON(in))
	if got != "{\n  \"say\": \"he said \\\"hi\\\": ok\"\n}" {
		t.Errorf("RenderJSON() = %q", got)
	}
}

func TestRenderMarkdown(t *testing.T) {
	f := plainFormatter(t)
	in := "# Title\nSome text\n```go\nfmt.Println(1)\n```\n"
	got := util.StripANSI(f.Render(in))
	want := "# Title\nSome text\nfmt.Println(1)\n\n"
	if got != want {
		t.Errorf("Render(markdown) = %q, want %q", got, want)
	}
}

func TestRenderXML(t *testing.T) {
	f := colorFormatter(t, "monokai")
	out := f.Render(`<cmd name="x">ls</cmd>`)
	if util.StripANSI(out) != `<cmd name="x">ls</cmd>` {
		t.Errorf("Render(xml) text changed: %q", util.StripANSI(out))
	}
	if !strings.Contains(out, "\x1b[33m<cmd name=\"x\">\x1b[0m") {
		t.Errorf("Render(xml) did not color the tag: %q", out)
	}
}

func TestRenderDiff(t *testing.T) {
	f := colorFormatter(t, "chatgpt")
	out := f.RenderDiff("--- a\n+++ b\n-old\n+new\n same")
	lines := strings.Split(out, "\n")

	if lines[0] != "--- a" || lines[1] != "+++ b" || lines[4] != " same" {
		t.Errorf("header or context lines were colored: %q", lines)
	}
	if lines[2] != "\x1b[91m-old\x1b[0m" {
		t.Errorf("removed line = %q", lines[2])
	}
	if lines[3] != "\x1b[92m+new\x1b[0m" {
		t.Errorf("added line = %q", lines[3])
	}
}

func TestRenderCode(t *testing.T) {
	f := plainFormatter(t)
	in := "x = \"a # b\" # note\ny = 42"
	if got := util.StripANSI(f.RenderCode(in)); got != in {
		t.Errorf("RenderCode() changed text: %q", got)
	}

	c := colorFormatter(t, "chatgpt")
	out := c.RenderCode(in)
	if !strings.Contains(out, "\x1b[90m# note\x1b[0m") {
		t.Errorf("comment not colored: %q", out)
	}
	if !strings.Contains(out, "\x1b[93m42\x1b[0m") {
		t.Errorf("number not colored: %q", out)
	}
}

func TestPaint_MultilineNotPadded(t *testing.T) {
	f := colorFormatter(t, "chatgpt")
	out := util.StripANSI(f.paint(brightGreen, "a\nlonger line"))
	if out != "a\nlonger line" {
		t.Errorf("paint() = %q", out)
	}
}

func TestKind_String(t *testing.T) {
	for kind, want := range map[Kind]string{
		KindText: "text", KindJSON: "json", KindMarkdown: "markdown", KindXML: "xml", KindDiff: "diff",
	} {
		if kind.String() != want {
			t.Errorf("Kind(%d).String() = %q, want %q", kind, kind.String(), want)
		}
	}
}

func TestStatusLines(t *testing.T) {
	f := colorFormatter(t, "chatgpt")
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"success", f.Success("ok"), "\x1b[92mok\x1b[0m"},
		{"failure", f.Failure("bad"), "\x1b[91mbad\x1b[0m"},
		{"warning", f.Warning("hmm"), "\x1b[93mhmm\x1b[0m"},
		{"info", f.Info("note"), "\x1b[96mnote\x1b[0m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}

	plain := plainFormatter(t)
	if got := plain.Success("ok"); got != "ok" {
		t.Errorf("plain Success() = %q, want %q", got, "ok")
	}
}
