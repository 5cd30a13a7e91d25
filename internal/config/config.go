package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete shortcuts configuration
type Config struct {
	Store         StoreConfig         `mapstructure:"store" yaml:"store"`
	Lock          LockConfig          `mapstructure:"lock" yaml:"lock"`
	Cloud         CloudConfig         `mapstructure:"cloud" yaml:"cloud"`
	Agent         AgentConfig         `mapstructure:"agent" yaml:"agent"`
	Hotkey        HotkeyConfig        `mapstructure:"hotkey" yaml:"hotkey"`
	GUI           GUIConfig           `mapstructure:"gui" yaml:"gui"`
	TUI           TUIConfig           `mapstructure:"tui" yaml:"tui"`
	Collaborators CollaboratorsConfig `mapstructure:"collaborators" yaml:"collaborators"`
	Logging       LoggingConfig       `mapstructure:"logging" yaml:"logging"`
}

// StoreConfig locates the shortcut store
type StoreConfig struct {
	// Path to the store file. Relative paths resolve against the config directory.
	Path string `mapstructure:"path" yaml:"path"`
}

// LockConfig locates the single-instance lock file
type LockConfig struct {
	// Path to the lock file. Relative paths resolve against the config directory.
	Path string `mapstructure:"path" yaml:"path"`
}

// CloudConfig controls synchronization with the JSON bin
type CloudConfig struct {
	// BinURL is the bin endpoint, e.g. https://api.jsonbin.io/v3/b/<id>
	BinURL string `mapstructure:"bin_url" yaml:"bin_url"`
	// MasterKey is sent as the X-Master-Key header
	MasterKey string `mapstructure:"master_key" yaml:"master_key"`
	// TimeoutSeconds bounds each HTTP request (default: 30)
	TimeoutSeconds int `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	// MaxRetries caps attempts per request when the bin answers 429 or 5xx (default: 3)
	MaxRetries int `mapstructure:"max_retries" yaml:"max_retries"`
	// SyncOnStartup pulls from the cloud when the viewer starts (default: true)
	SyncOnStartup bool `mapstructure:"sync_on_startup" yaml:"sync_on_startup"`
}

// AgentConfig controls the natural-language shortcut agent
type AgentConfig struct {
	// Provider is "openai" or "gemini" (default: "openai")
	Provider string `mapstructure:"provider" yaml:"provider"`
	// Model name passed to the provider (default: "gpt-4o")
	Model string `mapstructure:"model" yaml:"model"`
	// Temperature for generation (default: 0.5)
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"`
	// OpenAIAPIKey also reads OPENAI_API_KEY
	OpenAIAPIKey string `mapstructure:"openai_api_key" yaml:"openai_api_key"`
	// OpenAIBaseURL for compatible endpoints (default: https://api.openai.com/v1)
	OpenAIBaseURL string `mapstructure:"openai_base_url" yaml:"openai_base_url"`
	// GeminiAPIKey also reads GEMINI_API_KEY
	GeminiAPIKey string `mapstructure:"gemini_api_key" yaml:"gemini_api_key"`
	// CommandFile is watched in watch mode and read in process mode (default: "new_command.txt")
	CommandFile string `mapstructure:"command_file" yaml:"command_file"`
	// TimeoutSeconds bounds one LLM request (default: 60)
	TimeoutSeconds int `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	// PullBeforeRun syncs from the cloud before handling a command (default: true)
	PullBeforeRun bool `mapstructure:"pull_before_run" yaml:"pull_before_run"`
	// PushAfterSave syncs to the cloud after a successful save (default: true)
	PushAfterSave bool `mapstructure:"push_after_save" yaml:"push_after_save"`
	// Theme for payload display: "chatgpt", "matrix", "monokai" (default: "chatgpt")
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// HotkeyConfig controls the global show/hide hotkey
type HotkeyConfig struct {
	// Enabled registers the hotkey when the desktop viewer starts (default: true)
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Combination such as "ctrl+shift+k" (default: "ctrl+shift+k")
	Combination string `mapstructure:"combination" yaml:"combination"`
}

// GUIConfig controls the desktop viewer window
type GUIConfig struct {
	Title  string `mapstructure:"title" yaml:"title"`
	Width  int    `mapstructure:"width" yaml:"width"`
	Height int    `mapstructure:"height" yaml:"height"`
	// WrapWidth is the column width entry text is wrapped at (default: 80)
	WrapWidth int `mapstructure:"wrap_width" yaml:"wrap_width"`
	// AutoReload reloads the store when the file changes on disk (default: true)
	AutoReload bool `mapstructure:"auto_reload" yaml:"auto_reload"`
}

// TUIConfig controls the terminal viewer
type TUIConfig struct {
	// SidebarWidth is the width of the category list in columns (default: 28, min: 16, max: 60)
	SidebarWidth int `mapstructure:"sidebar_width" yaml:"sidebar_width"`
}

// CollaboratorsConfig names the external programs the viewer launches.
// An empty command means this binary's own subcommand.
type CollaboratorsConfig struct {
	// Sync runs at startup and on the Sync button (default: <self> sync pull)
	Sync []string `mapstructure:"sync" yaml:"sync"`
	// Agent runs interactively from the Agent button (default: <self> agent manual)
	Agent []string `mapstructure:"agent" yaml:"agent"`
	// Terminal wraps the agent command so it gets its own window, e.g. ["x-terminal-emulator", "-e"]
	Terminal []string `mapstructure:"terminal" yaml:"terminal"`
	// Dir is the working directory for collaborators (default: inherited)
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// LoggingConfig controls the JSON log file
type LoggingConfig struct {
	// Enabled controls whether logs are written to a file (default: true)
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level" yaml:"level"`
	// Dir holds shortcuts.log. Empty means <config dir>/logs.
	Dir string `mapstructure:"dir" yaml:"dir"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation (default: 5)
	MaxSizeMB int `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	// MaxBackups is the number of backup log files to keep (default: 2)
	MaxBackups int `mapstructure:"max_backups" yaml:"max_backups"`
	// Compress gzips rotated log files (default: false)
	Compress bool `mapstructure:"compress" yaml:"compress"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Path: "shortcuts.json",
		},
		Lock: LockConfig{
			Path: "app.lock",
		},
		Cloud: CloudConfig{
			TimeoutSeconds: 30,
			MaxRetries:     3,
			SyncOnStartup:  true,
		},
		Agent: AgentConfig{
			Provider:       "openai",
			Model:          "gpt-4o",
			Temperature:    0.5,
			OpenAIBaseURL:  "https://api.openai.com/v1",
			CommandFile:    "new_command.txt",
			TimeoutSeconds: 60,
			PullBeforeRun:  true,
			PushAfterSave:  true,
			Theme:          "chatgpt",
		},
		Hotkey: HotkeyConfig{
			Enabled:     true,
			Combination: "ctrl+shift+k",
		},
		GUI: GUIConfig{
			Title:      "Shortcuts",
			Width:      900,
			Height:     600,
			WrapWidth:  80,
			AutoReload: true,
		},
		TUI: TUIConfig{
			SidebarWidth: 28,
		},
		Collaborators: CollaboratorsConfig{
			Sync:     []string{},
			Agent:    []string{},
			Terminal: []string{},
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			MaxSizeMB:  5,
			MaxBackups: 2,
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("store.path", defaults.Store.Path)
	viper.SetDefault("lock.path", defaults.Lock.Path)

	viper.SetDefault("cloud.bin_url", defaults.Cloud.BinURL)
	viper.SetDefault("cloud.master_key", defaults.Cloud.MasterKey)
	viper.SetDefault("cloud.timeout_seconds", defaults.Cloud.TimeoutSeconds)
	viper.SetDefault("cloud.max_retries", defaults.Cloud.MaxRetries)
	viper.SetDefault("cloud.sync_on_startup", defaults.Cloud.SyncOnStartup)

	viper.SetDefault("agent.provider", defaults.Agent.Provider)
	viper.SetDefault("agent.model", defaults.Agent.Model)
	viper.SetDefault("agent.temperature", defaults.Agent.Temperature)
	viper.SetDefault("agent.openai_api_key", defaults.Agent.OpenAIAPIKey)
	viper.SetDefault("agent.openai_base_url", defaults.Agent.OpenAIBaseURL)
	viper.SetDefault("agent.gemini_api_key", defaults.Agent.GeminiAPIKey)
	viper.SetDefault("agent.command_file", defaults.Agent.CommandFile)
	viper.SetDefault("agent.timeout_seconds", defaults.Agent.TimeoutSeconds)
	viper.SetDefault("agent.pull_before_run", defaults.Agent.PullBeforeRun)
	viper.SetDefault("agent.push_after_save", defaults.Agent.PushAfterSave)
	viper.SetDefault("agent.theme", defaults.Agent.Theme)

	viper.SetDefault("hotkey.enabled", defaults.Hotkey.Enabled)
	viper.SetDefault("hotkey.combination", defaults.Hotkey.Combination)

	viper.SetDefault("gui.title", defaults.GUI.Title)
	viper.SetDefault("gui.width", defaults.GUI.Width)
	viper.SetDefault("gui.height", defaults.GUI.Height)
	viper.SetDefault("gui.wrap_width", defaults.GUI.WrapWidth)
	viper.SetDefault("gui.auto_reload", defaults.GUI.AutoReload)

	viper.SetDefault("tui.sidebar_width", defaults.TUI.SidebarWidth)

	viper.SetDefault("collaborators.sync", defaults.Collaborators.Sync)
	viper.SetDefault("collaborators.agent", defaults.Collaborators.Agent)
	viper.SetDefault("collaborators.terminal", defaults.Collaborators.Terminal)
	viper.SetDefault("collaborators.dir", defaults.Collaborators.Dir)

	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
	viper.SetDefault("logging.compress", defaults.Logging.Compress)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "shortcuts")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".shortcuts"
	}
	return filepath.Join(home, ".config", "shortcuts")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// ResolvePath expands ~ and resolves a relative path against baseDir.
func ResolvePath(path, baseDir string) string {
	if path == "" {
		return baseDir
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	return path
}

// StorePath returns the absolute store file path.
func (c *Config) StorePath() string {
	return ResolvePath(c.Store.Path, ConfigDir())
}

// LockPath returns the absolute lock file path.
func (c *Config) LockPath() string {
	return ResolvePath(c.Lock.Path, ConfigDir())
}

// CommandFilePath returns the absolute path of the agent command file.
func (c *Config) CommandFilePath() string {
	return ResolvePath(c.Agent.CommandFile, ConfigDir())
}

// CollaboratorDir returns the absolute collaborator working directory, or
// "" to inherit the viewer's.
func (c *Config) CollaboratorDir() string {
	if c.Collaborators.Dir == "" {
		return ""
	}
	return ResolvePath(c.Collaborators.Dir, ConfigDir())
}

// LogDir returns the directory holding the log file.
func (c *Config) LogDir() string {
	if c.Logging.Dir == "" {
		return filepath.Join(ConfigDir(), "logs")
	}
	return ResolvePath(c.Logging.Dir, ConfigDir())
}

// Timeout returns the per-request cloud timeout
func (c *CloudConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Configured reports whether both the bin URL and key are set.
func (c *CloudConfig) Configured() bool {
	return c.BinURL != "" && c.MasterKey != ""
}

// Timeout returns the per-request LLM timeout
func (c *AgentConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// APIKey returns the key for the configured provider.
func (c *AgentConfig) APIKey() string {
	if c.Provider == "gemini" {
		return c.GeminiAPIKey
	}
	return c.OpenAIAPIKey
}

// SyncCommand returns the sync collaborator command line.
// self is the path of the running executable.
func (c *CollaboratorsConfig) SyncCommand(self string) []string {
	if len(c.Sync) > 0 {
		return c.Sync
	}
	return []string{self, "sync", "pull"}
}

// AgentCommand returns the agent collaborator command line, wrapped in the
// terminal launcher when one is configured.
func (c *CollaboratorsConfig) AgentCommand(self string) []string {
	cmd := c.Agent
	if len(cmd) == 0 {
		cmd = []string{self, "agent", "manual"}
	}
	if len(c.Terminal) == 0 {
		return cmd
	}
	out := make([]string, 0, len(c.Terminal)+len(cmd))
	out = append(out, c.Terminal...)
	return append(out, cmd...)
}

// ValidProviders returns the supported LLM providers
func ValidProviders() []string {
	return []string{"openai", "gemini"}
}

// ValidThemes returns the payload display themes
func ValidThemes() []string {
	return []string{"chatgpt", "matrix", "monokai"}
}
