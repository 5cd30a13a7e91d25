package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		loaded, err := LoadDotEnv(filepath.Join(dir, "nope.env"))
		if err != nil || loaded {
			t.Errorf("LoadDotEnv() = (%v, %v), want (false, nil)", loaded, err)
		}
	})

	t.Run("sets unset variables only", func(t *testing.T) {
		path := filepath.Join(dir, ".env")
		content := "SHORTCUTS_TEST_NEW=from-file\nSHORTCUTS_TEST_SET=from-file\n"
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
		t.Setenv("SHORTCUTS_TEST_SET", "from-env")
		t.Setenv("SHORTCUTS_TEST_NEW", "")
		_ = os.Unsetenv("SHORTCUTS_TEST_NEW")

		loaded, err := LoadDotEnv(path)
		if err != nil || !loaded {
			t.Fatalf("LoadDotEnv() = (%v, %v), want (true, nil)", loaded, err)
		}
		if got := os.Getenv("SHORTCUTS_TEST_NEW"); got != "from-file" {
			t.Errorf("SHORTCUTS_TEST_NEW = %q, want from-file", got)
		}
		if got := os.Getenv("SHORTCUTS_TEST_SET"); got != "from-env" {
			t.Errorf("SHORTCUTS_TEST_SET = %q, existing value must win", got)
		}
	})
}

func TestBindEnvAliases(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("MASTER_KEY", "bare-key")
	t.Setenv("BIN_URL", "https://bare.example/b/1")
	t.Setenv("SHORTCUTS_CLOUD_BIN_URL", "https://prefixed.example/b/2")

	if err := BindEnvAliases(); err != nil {
		t.Fatalf("BindEnvAliases() error = %v", err)
	}

	if got := viper.GetString("cloud.master_key"); got != "bare-key" {
		t.Errorf("cloud.master_key = %q, want bare-key", got)
	}
	if got := viper.GetString("cloud.bin_url"); got != "https://prefixed.example/b/2" {
		t.Errorf("cloud.bin_url = %q, prefixed variable should win", got)
	}
}

func TestEnvKey(t *testing.T) {
	if got := envKey("agent.openai_api_key"); got != "AGENT_OPENAI_API_KEY" {
		t.Errorf("envKey() = %q", got)
	}
	if len(EnvAliases()) != 4 {
		t.Errorf("EnvAliases() has %d entries, want 4", len(EnvAliases()))
	}
}
