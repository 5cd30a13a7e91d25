package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "cloud.timeout_seconds")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validatePaths()...)
	errors = append(errors, c.validateCloud()...)
	errors = append(errors, c.validateAgent()...)
	errors = append(errors, c.validateHotkey()...)
	errors = append(errors, c.validateGUI()...)
	errors = append(errors, c.validateTUI()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

// validatePaths validates store, lock, and command file paths
func (c *Config) validatePaths() []ValidationError {
	var errors []ValidationError

	fields := []struct {
		name  string
		value string
	}{
		{"store.path", c.Store.Path},
		{"lock.path", c.Lock.Path},
		{"agent.command_file", c.Agent.CommandFile},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			errors = append(errors, ValidationError{
				Field:   f.name,
				Value:   f.value,
				Message: "must not be empty",
			})
			continue
		}
		if strings.ContainsRune(f.value, '\x00') {
			errors = append(errors, ValidationError{
				Field:   f.name,
				Value:   f.value,
				Message: "contains invalid null character",
			})
		}
	}

	if c.Store.Path != "" && c.Store.Path == c.Lock.Path {
		errors = append(errors, ValidationError{
			Field:   "lock.path",
			Value:   c.Lock.Path,
			Message: "must differ from store.path",
		})
	}

	return errors
}

// validateCloud validates the CloudConfig
func (c *Config) validateCloud() []ValidationError {
	var errors []ValidationError

	if c.Cloud.BinURL != "" {
		u, err := url.Parse(c.Cloud.BinURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errors = append(errors, ValidationError{
				Field:   "cloud.bin_url",
				Value:   c.Cloud.BinURL,
				Message: "must be an http(s) URL",
			})
		}
	}

	if c.Cloud.TimeoutSeconds <= 0 {
		errors = append(errors, ValidationError{
			Field:   "cloud.timeout_seconds",
			Value:   c.Cloud.TimeoutSeconds,
			Message: "must be positive",
		})
	}

	if c.Cloud.MaxRetries < 0 || c.Cloud.MaxRetries > 10 {
		errors = append(errors, ValidationError{
			Field:   "cloud.max_retries",
			Value:   c.Cloud.MaxRetries,
			Message: "must be between 0 and 10",
		})
	}

	return errors
}

// validateAgent validates the AgentConfig
func (c *Config) validateAgent() []ValidationError {
	var errors []ValidationError

	if !slices.Contains(ValidProviders(), c.Agent.Provider) {
		errors = append(errors, ValidationError{
			Field:   "agent.provider",
			Value:   c.Agent.Provider,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidProviders(), ", ")),
		})
	}

	if strings.TrimSpace(c.Agent.Model) == "" {
		errors = append(errors, ValidationError{
			Field:   "agent.model",
			Value:   c.Agent.Model,
			Message: "must not be empty",
		})
	}

	if c.Agent.Temperature < 0 || c.Agent.Temperature > 2 {
		errors = append(errors, ValidationError{
			Field:   "agent.temperature",
			Value:   c.Agent.Temperature,
			Message: "must be between 0 and 2",
		})
	}

	if c.Agent.TimeoutSeconds <= 0 {
		errors = append(errors, ValidationError{
			Field:   "agent.timeout_seconds",
			Value:   c.Agent.TimeoutSeconds,
			Message: "must be positive",
		})
	}

	if c.Agent.Theme != "" && !slices.Contains(ValidThemes(), c.Agent.Theme) {
		errors = append(errors, ValidationError{
			Field:   "agent.theme",
			Value:   c.Agent.Theme,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidThemes(), ", ")),
		})
	}

	return errors
}

// validateHotkey validates the HotkeyConfig. The combination itself is parsed
// by the hotkey package; here we only reject obviously empty values.
func (c *Config) validateHotkey() []ValidationError {
	var errors []ValidationError

	if c.Hotkey.Enabled && strings.TrimSpace(c.Hotkey.Combination) == "" {
		errors = append(errors, ValidationError{
			Field:   "hotkey.combination",
			Value:   c.Hotkey.Combination,
			Message: "must be set when the hotkey is enabled",
		})
	}

	return errors
}

// validateGUI validates the GUIConfig
func (c *Config) validateGUI() []ValidationError {
	var errors []ValidationError

	if c.GUI.Width < 200 {
		errors = append(errors, ValidationError{
			Field:   "gui.width",
			Value:   c.GUI.Width,
			Message: "must be at least 200",
		})
	}
	if c.GUI.Height < 150 {
		errors = append(errors, ValidationError{
			Field:   "gui.height",
			Value:   c.GUI.Height,
			Message: "must be at least 150",
		})
	}
	if c.GUI.WrapWidth < 20 {
		errors = append(errors, ValidationError{
			Field:   "gui.wrap_width",
			Value:   c.GUI.WrapWidth,
			Message: "must be at least 20",
		})
	}

	return errors
}

// validateTUI validates the TUIConfig
func (c *Config) validateTUI() []ValidationError {
	var errors []ValidationError

	const minSidebar, maxSidebar = 16, 60
	if c.TUI.SidebarWidth < minSidebar || c.TUI.SidebarWidth > maxSidebar {
		errors = append(errors, ValidationError{
			Field:   "tui.sidebar_width",
			Value:   c.TUI.SidebarWidth,
			Message: fmt.Sprintf("must be between %d and %d", minSidebar, maxSidebar),
		})
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	if c.Logging.MaxSizeMB <= 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be positive",
		})
	}

	const maxLogSizeMB = 1000
	if c.Logging.MaxSizeMB > maxLogSizeMB {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: fmt.Sprintf("exceeds maximum of %dMB", maxLogSizeMB),
		})
	}

	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	return errors
}
