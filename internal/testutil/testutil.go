// Package testutil provides testing utilities for shortcuts tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Iron-Ham/shortcuts/internal/config"
)

// SampleStore is a small store covering list categories, entries with
// every field kind and a scalar category.
const SampleStore = `{
  "GIT": [
    {"command": "git status", "description": "Show the working tree status"},
    {"command": "git rebase -i HEAD~3", "description": "Interactive rebase"}
  ],
  "Docker": [
    {"command": "docker ps", "usage example": "docker ps -a"}
  ],
  "Docker Compose": [
    {"command": "docker compose up -d"}
  ],
  "VS Code": [
    {"shortcut": "Ctrl+P", "description": "Quick open"}
  ],
  "Notes": "sync before editing"
}`

// NewConfig returns the default configuration with the store and lock
// files placed in a fresh temporary directory.
func NewConfig(t *testing.T) *config.Config {
	t.Helper()

	dir := t.TempDir()
	cfg := config.Default()
	cfg.Store.Path = filepath.Join(dir, "shortcuts.json")
	cfg.Lock.Path = filepath.Join(dir, "app.lock")
	cfg.Agent.CommandFile = filepath.Join(dir, "command.txt")
	cfg.Logging.Enabled = false
	return cfg
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
}

// WriteStore writes content to the configured store file. Empty content
// leaves the store missing.
func WriteStore(t *testing.T, cfg *config.Config, content string) string {
	t.Helper()

	path := cfg.StorePath()
	if content != "" {
		WriteFile(t, path, content)
	}
	return path
}

// IsolateEnv points the config directory and every file path the CLI
// reads at a temporary directory through SHORTCUTS_* variables, and
// clears the cloud and agent credentials. It returns that directory.
func IsolateEnv(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv(config.EnvPrefix+"_STORE_PATH", filepath.Join(dir, "shortcuts.json"))
	t.Setenv(config.EnvPrefix+"_LOCK_PATH", filepath.Join(dir, "app.lock"))
	t.Setenv(config.EnvPrefix+"_AGENT_COMMAND_FILE", filepath.Join(dir, "command.txt"))
	t.Setenv(config.EnvPrefix+"_LOGGING_ENABLED", "false")
	for _, name := range []string{"BIN_URL", "MASTER_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY"} {
		t.Setenv(name, "")
	}
	return dir
}
