package agent

import (
	"strings"
	"testing"

	"github.com/Iron-Ham/shortcuts/internal/store"
)

func TestBuildPrompt(t *testing.T) {
	s, err := store.Parse([]byte(gitStore))
	if err != nil {
		t.Fatal(err)
	}
	prompt, err := BuildPrompt("  git stash pop  ", s)
	if err != nil {
		t.Fatalf("BuildPrompt() error = %v", err)
	}

	for _, want := range []string{
		`Raw command provided by the user: "git stash pop"`,
		"[\n  \"GIT\",\n  \"NOTES\"\n]",
		`"description": "Show status"`,
		`"usage example"`,
		"uppercase",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPrompt_EmptyStore(t *testing.T) {
	prompt, err := BuildPrompt("ls", store.New())
	if err != nil {
		t.Fatalf("BuildPrompt() error = %v", err)
	}
	if !strings.Contains(prompt, "Existing categories for reference:\n[]") {
		t.Error("empty store should list no categories as []")
	}
}

func TestRequest_DisplayPayload(t *testing.T) {
	long := strings.Repeat("word  \n", 100)
	req := Request{Model: "gpt-4o", System: "sys", Prompt: long, Temperature: 0.5}

	full := req.Payload().(chatPayload)
	if full.Messages[1].Content != long {
		t.Error("Payload() should carry the full prompt")
	}

	shown := req.DisplayPayload().(chatPayload)
	content := shown.Messages[1].Content
	if !strings.HasSuffix(content, "...") {
		t.Errorf("preview %q should end with ...", content)
	}
	if got := len([]rune(strings.TrimSuffix(content, "..."))); got != PromptPreviewLength {
		t.Errorf("preview length = %d, want %d", got, PromptPreviewLength)
	}
	if strings.Contains(content, "\n") || strings.Contains(content, "  ") {
		t.Error("preview should be a single compacted line")
	}
	if req.Payload().(chatPayload).Messages[1].Content != long {
		t.Error("DisplayPayload() must not change the request")
	}
	if shown.Messages[0].Content != "sys" || shown.Model != "gpt-4o" {
		t.Errorf("DisplayPayload() = %+v", shown)
	}
}

func TestPreviewPrompt_Short(t *testing.T) {
	if got := previewPrompt("a\n b"); got != "a b..." {
		t.Errorf("previewPrompt() = %q, want %q", got, "a b...")
	}
}
