package store

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantValid bool
		wantMsg   string
	}{
		{"valid object", `{"a": [1]}`, true, ValidMessage},
		{"valid array", `[1, 2]`, true, ValidMessage},
		{"bad token", "{\n  \"a\": x\n}", false, "at line 2 column 8"},
		{"truncated", `{"a": [`, false, "unexpected end of JSON input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, msg := Validate(writeStore(t, tt.content))
			if valid != tt.wantValid {
				t.Errorf("Validate() valid = %v, want %v (%s)", valid, tt.wantValid, msg)
			}
			if !strings.Contains(msg, tt.wantMsg) {
				t.Errorf("Validate() message = %q, want it to contain %q", msg, tt.wantMsg)
			}
		})
	}
}

func TestValidate_MissingFile(t *testing.T) {
	valid, msg := Validate(filepath.Join(t.TempDir(), "missing.json"))
	if valid || !strings.HasPrefix(msg, "File not found:") {
		t.Errorf("Validate() = (%v, %q)", valid, msg)
	}
}
