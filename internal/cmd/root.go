package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/shortcuts/internal/config"
	"github.com/Iron-Ham/shortcuts/internal/errors"
	"github.com/Iron-Ham/shortcuts/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "shortcuts",
	Short: "Keyboard shortcut and command cheat-sheet viewer",
	Long: `Shortcuts keeps a categorized cheat-sheet of keyboard shortcuts and
shell commands in a JSON file, shows it in a desktop window toggled by a
global hotkey, syncs it with a cloud JSON bin and grows it with an LLM agent.

Run without a subcommand to open the desktop viewer.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runGUI,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

// FormatError renders a command failure for stderr. The prefix follows the
// error's severity, and errors not written for end users point at the log.
func FormatError(err error) string {
	prefix := "Error"
	switch errors.GetSeverity(err) {
	case errors.SeverityWarning:
		prefix = "Warning"
	case errors.SeverityCritical:
		prefix = "Fatal"
	}
	msg := fmt.Sprintf("%s: %v", prefix, err)
	if !errors.IsUserFacing(err) {
		msg += "\nRun 'shortcuts logs' for details."
	}
	return msg
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $XDG_CONFIG_HOME/shortcuts/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	rootCmd.PersistentFlags().String("store", "", "shortcut store file (overrides store.path)")
	_ = viper.BindPFlag("store.path", rootCmd.PersistentFlags().Lookup("store"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if _, err := config.LoadDotEnv(config.DotEnvFile); err != nil {
		fmt.Fprintf(os.Stderr, "warning: cannot read %s: %v\n", config.DotEnvFile, err)
	}

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix(config.EnvPrefix)
	// e.g. SHORTCUTS_CLOUD_BIN_URL for cloud.bin_url
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := config.BindEnvAliases(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: cannot bind environment aliases: %v\n", err)
	}

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

// loadConfig returns the validated configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newLogger opens the JSON log file. Logging problems never stop a command:
// the fallback is a logger that discards everything.
func newLogger(cfg *config.Config) *logging.Logger {
	if !cfg.Logging.Enabled {
		return logging.NopLogger()
	}
	rotation := logging.RotationConfig{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		Compress:   cfg.Logging.Compress,
	}
	logger, err := logging.NewLogger(cfg.LogDir(), cfg.Logging.Level, rotation)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: logging disabled: %v\n", err)
		return logging.NopLogger()
	}
	return logger
}

// setup loads the configuration and opens the logger. The caller closes
// the logger.
func setup() (*config.Config, *logging.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	return cfg, newLogger(cfg), nil
}
