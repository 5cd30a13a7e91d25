package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/shortcuts/internal/errors"
	"github.com/Iron-Ham/shortcuts/internal/instance"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which process holds the instance lock",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var unlockCmd = &cobra.Command{
	Use:   "unlock",
	Short: "Remove a stale instance lock",
	Long: `Remove the instance lock when the process that wrote it is gone or the
file does not hold a valid process ID. A lock held by a running viewer is
never removed.`,
	Args: cobra.NoArgs,
	RunE: runUnlock,
}

var statusFormat string

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(unlockCmd)

	statusCmd.Flags().StringVarP(&statusFormat, "format", "f", "text", "Output format: text, json, yaml")
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	owner, err := instance.Inspect(cfg.LockPath())
	if err != nil {
		return fmt.Errorf("failed to read lock: %w", err)
	}
	return writeOwner(cmd.OutOrStdout(), owner, statusFormat)
}

func writeOwner(w io.Writer, owner instance.Owner, format string) error {
	switch strings.ToLower(format) {
	case "text":
		fmt.Fprintf(w, "Lock: %s\n", owner.Path)
		fmt.Fprintf(w, "State: %s\n", describeOwner(owner))
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(owner)
	case "yaml":
		return yaml.NewEncoder(w).Encode(owner)
	default:
		return errors.NewValidationError("unsupported format (supported: text, json, yaml)").
			WithField("format").WithValue(format)
	}
}

// describeOwner summarizes a lock in one line.
func describeOwner(o instance.Owner) string {
	switch {
	case !o.Exists:
		return "free"
	case !o.Valid:
		return fmt.Sprintf("stale (content %q is not a process ID)", o.Raw)
	case !o.Alive:
		return fmt.Sprintf("stale (process %d is not running)", o.PID)
	}

	desc := fmt.Sprintf("held by process %d", o.PID)
	if o.Name != "" {
		desc += " (" + o.Name + ")"
	}
	if !o.StartedAt.IsZero() {
		desc += ", started " + o.StartedAt.Format("2006-01-02 15:04:05")
	}
	return desc
}

func runUnlock(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	path := cfg.LockPath()
	removed, err := instance.CleanStale(path, logger)
	if err != nil {
		return fmt.Errorf("failed to clean lock: %w", err)
	}

	out := cmd.OutOrStdout()
	if removed {
		fmt.Fprintf(out, "Removed stale lock %s\n", path)
		return nil
	}
	owner, err := instance.Inspect(path)
	if err != nil {
		return fmt.Errorf("failed to read lock: %w", err)
	}
	if !owner.Exists {
		fmt.Fprintln(out, "No lock to remove.")
		return nil
	}
	return errors.NewLockError("lock is held by a running process", errors.ErrDuplicateInstance).
		WithPID(owner.PID).WithPath(path)
}
