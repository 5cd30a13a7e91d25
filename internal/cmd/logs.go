package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/shortcuts/internal/logging"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View the application log",
	Long: `View and filter the JSON log written by the viewer, the agent and the
sync commands.

Examples:
  # Show the last 50 entries
  shortcuts logs

  # Show every warning and error from the agent
  shortcuts logs -n 0 --level warn --component agent

  # Show entries from the last hour mentioning the cloud
  shortcuts logs --since 1h --grep "cloud|sync"`,
	Args: cobra.NoArgs,
	RunE: runLogs,
}

var (
	logsTail      int
	logsLevel     string
	logsSince     string
	logsComponent string
	logsGrep      string
	logsFormat    string
)

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().IntVarP(&logsTail, "tail", "n", 50, "Number of entries to show (0 for all)")
	logsCmd.Flags().StringVar(&logsLevel, "level", "", "Filter by minimum level (debug/info/warn/error)")
	logsCmd.Flags().StringVar(&logsSince, "since", "", "Show entries since duration ago (e.g., 1h, 30m)")
	logsCmd.Flags().StringVar(&logsComponent, "component", "", "Only entries from this component (agent, cloud, gui, ...)")
	logsCmd.Flags().StringVar(&logsGrep, "grep", "", "Filter entries matching pattern (regex)")
	logsCmd.Flags().StringVarP(&logsFormat, "format", "f", "text", "Output format: text, json")
}

func runLogs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logPath := filepath.Join(cfg.LogDir(), logging.FileName)
	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		fmt.Fprintln(cmd.OutOrStdout(), "No logs found.")
		fmt.Fprintln(cmd.OutOrStdout(), "Logs are stored at:", logPath)
		return nil
	}

	filter, err := buildLogFilter()
	if err != nil {
		return err
	}

	entries, err := logging.ReadLogs(logPath)
	if err != nil {
		return err
	}
	entries = logging.Tail(logging.FilterLogs(entries, filter), logsTail)
	return logging.WriteEntries(cmd.OutOrStdout(), entries, logsFormat)
}

func buildLogFilter() (logging.LogFilter, error) {
	filter := logging.LogFilter{Component: logsComponent}
	if logsLevel != "" {
		filter.Level = logging.ParseLevel(logsLevel)
	}
	if logsSince != "" {
		duration, err := time.ParseDuration(logsSince)
		if err != nil {
			return filter, fmt.Errorf("invalid duration format: %w", err)
		}
		filter.Since = time.Now().Add(-duration)
	}
	if logsGrep != "" {
		re, err := regexp.Compile(logsGrep)
		if err != nil {
			return filter, fmt.Errorf("invalid grep pattern: %w", err)
		}
		filter.Pattern = re
	}
	return filter, nil
}
