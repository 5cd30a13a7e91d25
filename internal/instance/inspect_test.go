package instance

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func TestInspect(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing", func(t *testing.T) {
		owner, err := Inspect(filepath.Join(dir, "none.lock"))
		if err != nil {
			t.Fatalf("Inspect() error = %v", err)
		}
		if owner.Exists || owner.Stale() {
			t.Errorf("Inspect() = %+v, want absent and not stale", owner)
		}
	})

	t.Run("self", func(t *testing.T) {
		path := filepath.Join(dir, "self.lock")
		writeLock(t, path, strconv.Itoa(os.Getpid()))

		owner, err := Inspect(path)
		if err != nil {
			t.Fatalf("Inspect() error = %v", err)
		}
		if !owner.Valid || !owner.Alive || owner.Stale() {
			t.Errorf("Inspect() = %+v, want valid live owner", owner)
		}
		if owner.PID != os.Getpid() {
			t.Errorf("PID = %d, want %d", owner.PID, os.Getpid())
		}
	})

	t.Run("malformed", func(t *testing.T) {
		path := filepath.Join(dir, "bad.lock")
		writeLock(t, path, "abc\n")

		owner, err := Inspect(path)
		if err != nil {
			t.Fatalf("Inspect() error = %v", err)
		}
		if owner.Valid || !owner.Stale() || owner.Raw != "abc" {
			t.Errorf("Inspect() = %+v, want stale malformed lock", owner)
		}
	})
}

func TestCleanStale(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		alive       bool
		wantRemoved bool
	}{
		{"dead owner", "123", false, true},
		{"malformed", "x", true, true},
		{"live owner", "123", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), DefaultLockFileName)
			writeLock(t, path, tt.content)

			removed, err := cleanStale(path, func(int) bool { return tt.alive }, nil)
			if err != nil {
				t.Fatalf("cleanStale() error = %v", err)
			}
			if removed != tt.wantRemoved {
				t.Errorf("cleanStale() = %v, want %v", removed, tt.wantRemoved)
			}
			_, statErr := os.Stat(path)
			if exists := statErr == nil; exists == tt.wantRemoved {
				t.Errorf("lock exists = %v after cleanStale() = %v", exists, removed)
			}
		})
	}

	t.Run("no lock", func(t *testing.T) {
		removed, err := CleanStale(filepath.Join(t.TempDir(), "none"), nil)
		if err != nil || removed {
			t.Errorf("CleanStale() = (%v, %v), want (false, nil)", removed, err)
		}
	})
}
