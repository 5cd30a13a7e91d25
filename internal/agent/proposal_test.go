package agent

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Iron-Ham/shortcuts/internal/errors"
)

func TestStripFence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"fence with spaces", "  ```json\n  {\"a\":1}\n```  \n", `{"a":1}`},
		{"single line fence", "```{\"a\":1}```", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripFence(tt.input); got != tt.want {
				t.Errorf("StripFence() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseProposal(t *testing.T) {
	p, err := ParseProposal(checkoutReply)
	if err != nil {
		t.Fatalf("ParseProposal() error = %v", err)
	}
	if p.Category != "GIT" {
		t.Errorf("Category = %q, want GIT", p.Category)
	}
	if p.Entry.Command() != "git checkout -b <branch_name>" {
		t.Errorf("Command() = %q", p.Entry.Command())
	}
	if _, ok := p.Entry.Get(CategoryField); ok {
		t.Error("Entry should not carry the category field")
	}
	if _, ok := p.Record.Get(CategoryField); !ok {
		t.Error("Record should keep the category field")
	}

	raw, err := p.Entry.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	want := `{"command":"git checkout -b <branch_name>","description":"Creates a branch and switches to it.","usage example":"git checkout -b feature"}`
	if diff := cmp.Diff(want, string(raw)); diff != "" {
		t.Errorf("Entry JSON mismatch (-want +got):\n%s", diff)
	}
}

func TestParseProposal_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{"invalid json", "not json", "valid JSON"},
		{"missing category", `{"command":"x"}`, "'category'"},
		{"non-string category", `{"category": 5}`, "'category'"},
		{"trailing text", `{"category":"GIT"} thanks!`, "valid JSON"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProposal(tt.content)
			if !errors.Is(err, errors.ErrLLMResponse) {
				t.Fatalf("ParseProposal() error = %v, want ErrLLMResponse", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q should mention %q", err.Error(), tt.wantMsg)
			}
		})
	}
}
