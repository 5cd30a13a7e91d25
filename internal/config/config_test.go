package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/viper"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Store.Path != "shortcuts.json" {
		t.Errorf("Store.Path = %q, want %q", cfg.Store.Path, "shortcuts.json")
	}
	if cfg.Lock.Path != "app.lock" {
		t.Errorf("Lock.Path = %q, want %q", cfg.Lock.Path, "app.lock")
	}
	if cfg.Agent.Provider != "openai" || cfg.Agent.Model != "gpt-4o" {
		t.Errorf("Agent = %s/%s, want openai/gpt-4o", cfg.Agent.Provider, cfg.Agent.Model)
	}
	if cfg.Agent.Temperature != 0.5 {
		t.Errorf("Agent.Temperature = %v, want 0.5", cfg.Agent.Temperature)
	}
	if cfg.Cloud.MaxRetries != 3 {
		t.Errorf("Cloud.MaxRetries = %d, want 3", cfg.Cloud.MaxRetries)
	}
	if cfg.Hotkey.Combination != "ctrl+shift+k" {
		t.Errorf("Hotkey.Combination = %q", cfg.Hotkey.Combination)
	}
	if cfg.Cloud.Configured() {
		t.Error("Cloud.Configured() should be false without URL and key")
	}
}

func TestConfigDir(t *testing.T) {
	t.Run("with XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		if got := ConfigDir(); got != "/custom/config/shortcuts" {
			t.Errorf("ConfigDir() = %q, want %q", got, "/custom/config/shortcuts")
		}
		if got := ConfigFile(); got != "/custom/config/shortcuts/config.yaml" {
			t.Errorf("ConfigFile() = %q", got)
		}
	})

	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		home, _ := os.UserHomeDir()
		want := filepath.Join(home, ".config", "shortcuts")
		if got := ConfigDir(); got != want {
			t.Errorf("ConfigDir() = %q, want %q", got, want)
		}
	})
}

func TestResolvePath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		name string
		path string
		want string
	}{
		{"relative", "shortcuts.json", "/base/shortcuts.json"},
		{"nested relative", "data/app.lock", "/base/data/app.lock"},
		{"absolute", "/var/lib/app.lock", "/var/lib/app.lock"},
		{"home", "~/notes.json", filepath.Join(home, "notes.json")},
		{"empty", "", "/base"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolvePath(tt.path, "/base"); got != tt.want {
				t.Errorf("ResolvePath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestConfig_Paths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	cfg := Default()

	if got := cfg.StorePath(); got != "/xdg/shortcuts/shortcuts.json" {
		t.Errorf("StorePath() = %q", got)
	}
	if got := cfg.LockPath(); got != "/xdg/shortcuts/app.lock" {
		t.Errorf("LockPath() = %q", got)
	}
	if got := cfg.CommandFilePath(); got != "/xdg/shortcuts/new_command.txt" {
		t.Errorf("CommandFilePath() = %q", got)
	}
	if got := cfg.LogDir(); got != "/xdg/shortcuts/logs" {
		t.Errorf("LogDir() = %q", got)
	}
	if got := cfg.CollaboratorDir(); got != "" {
		t.Errorf("CollaboratorDir() = %q, want inherited", got)
	}
	cfg.Collaborators.Dir = "scripts"
	if got := cfg.CollaboratorDir(); got != "/xdg/shortcuts/scripts" {
		t.Errorf("CollaboratorDir() = %q", got)
	}

	cfg.Logging.Dir = "/tmp/logs"
	if got := cfg.LogDir(); got != "/tmp/logs" {
		t.Errorf("LogDir() with override = %q", got)
	}
}

func TestCollaborators(t *testing.T) {
	c := Default().Collaborators

	if diff := cmp.Diff([]string{"/bin/shortcuts", "sync", "pull"}, c.SyncCommand("/bin/shortcuts")); diff != "" {
		t.Errorf("SyncCommand() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"/bin/shortcuts", "agent", "manual"}, c.AgentCommand("/bin/shortcuts")); diff != "" {
		t.Errorf("AgentCommand() mismatch (-want +got):\n%s", diff)
	}

	c.Sync = []string{"python", "sync_cloud_to_local.py"}
	c.Agent = []string{"python", "agent.py", "--manual"}
	c.Terminal = []string{"x-terminal-emulator", "-e"}

	if diff := cmp.Diff([]string{"python", "sync_cloud_to_local.py"}, c.SyncCommand("self")); diff != "" {
		t.Errorf("SyncCommand() mismatch (-want +got):\n%s", diff)
	}
	want := []string{"x-terminal-emulator", "-e", "python", "agent.py", "--manual"}
	if diff := cmp.Diff(want, c.AgentCommand("self")); diff != "" {
		t.Errorf("AgentCommand() mismatch (-want +got):\n%s", diff)
	}
}

func TestAgentConfig_APIKey(t *testing.T) {
	a := AgentConfig{Provider: "openai", OpenAIAPIKey: "sk-1", GeminiAPIKey: "g-1"}
	if a.APIKey() != "sk-1" {
		t.Errorf("APIKey() = %q, want sk-1", a.APIKey())
	}
	a.Provider = "gemini"
	if a.APIKey() != "g-1" {
		t.Errorf("APIKey() = %q, want g-1", a.APIKey())
	}
}

func TestLoad_FromViper(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	SetDefaults()
	viper.Set("agent.provider", "gemini")
	viper.Set("agent.model", "gemini-2.0-flash")
	viper.Set("collaborators.sync", []string{"sync-tool"})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Agent.Provider != "gemini" || cfg.Agent.Model != "gemini-2.0-flash" {
		t.Errorf("Agent = %+v", cfg.Agent)
	}
	if diff := cmp.Diff([]string{"sync-tool"}, cfg.Collaborators.Sync); diff != "" {
		t.Errorf("Collaborators.Sync mismatch (-want +got):\n%s", diff)
	}
	if cfg.GUI.Width != 900 {
		t.Errorf("GUI.Width = %d, want default 900", cfg.GUI.Width)
	}
}

func TestLoad_InvalidFallsBackInGet(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	SetDefaults()
	viper.Set("agent.provider", "claude")

	if _, err := Load(); err == nil {
		t.Error("Load() should fail for an unknown provider")
	}
	if got := Get().Agent.Provider; got != "openai" {
		t.Errorf("Get().Agent.Provider = %q, want default", got)
	}
}
