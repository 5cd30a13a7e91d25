package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Iron-Ham/shortcuts/internal/errors"
)

func TestCountLines(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"a\n", 1},
		{"a\nb", 2},
		{"a\nb\n", 2},
		{"\n\n", 2},
	}
	for _, tt := range tests {
		if got := CountLines([]byte(tt.in)); got != tt.want {
			t.Errorf("CountLines(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSaveSafely_GrowingUpdate(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	s := New()
	if err := s.AddEntry("GIT", NewEntry("command", "git status")); err != nil {
		t.Fatal(err)
	}

	delta, err := SaveSafely(path, s)
	if err != nil {
		t.Fatalf("SaveSafely() error = %v", err)
	}
	if delta != 7 {
		t.Errorf("first SaveSafely() delta = %d, want 7", delta)
	}

	if err := s.AddEntry("GIT", NewEntry("command", "git log", "description", "History")); err != nil {
		t.Fatal(err)
	}
	delta, err = SaveSafely(path, s)
	if err != nil {
		t.Fatalf("SaveSafely() error = %v", err)
	}
	if delta != 4 {
		t.Errorf("second SaveSafely() delta = %d, want 4", delta)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !loaded.HasCommand("GIT", "git log") {
		t.Error("saved store is missing the new entry")
	}
}

func TestSaveSafely_RefusesShrink(t *testing.T) {
	original := strings.Repeat("line\n", 50)
	path := writeStore(t, original)

	s := New()
	s.EnsureCategory("ONLY")
	_, err := SaveSafely(path, s)
	if !errors.Is(err, errors.ErrShrinkingUpdate) {
		t.Fatalf("SaveSafely() error = %v, want ErrShrinkingUpdate", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != original {
		t.Error("file must be unchanged after a refused update")
	}
}

func TestWriteSafely_EqualLengthAllowed(t *testing.T) {
	path := writeStore(t, "a\nb\n")
	delta, err := WriteSafely(path, []byte("c\nd"))
	if err != nil {
		t.Fatalf("WriteSafely() error = %v", err)
	}
	if delta != 0 {
		t.Errorf("delta = %d, want 0", delta)
	}
}

func TestWriteAtomic_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFileName)
	if err := WriteAtomic(path, []byte("{}")); err != nil {
		t.Fatalf("WriteAtomic() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != DefaultFileName {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory contents = %v, want only %s", names, DefaultFileName)
	}
}
