package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/shortcuts/internal/errors"
	"github.com/Iron-Ham/shortcuts/internal/store"
	"github.com/Iron-Ham/shortcuts/internal/util"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the shortcut store",
	Long: `Print the shortcut store, optionally limited to categories whose name
matches a glob pattern.

Examples:
  shortcuts list
  shortcuts list --app 'docker*'
  shortcuts list --format yaml`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Fuzzy-search categories and entries",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check that a store file is valid JSON",
	Long: `Check that a store file is syntactically valid JSON and report the line
and column of the first error. Defaults to the configured store.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

var (
	listApp     string
	listFormat  string
	listWidth   int
	searchLimit int
)

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(validateCmd)

	listCmd.Flags().StringVar(&listApp, "app", "", "Only categories matching this glob (case-insensitive)")
	listCmd.Flags().StringVarP(&listFormat, "format", "f", "text", "Output format: text, json, yaml")
	listCmd.Flags().IntVarP(&listWidth, "width", "w", 80, "Wrap text output at this column")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "Maximum number of results (0 for all)")
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := store.Load(cfg.StorePath())
	if err != nil {
		return err
	}
	s, err = s.Filter(listApp)
	if err != nil {
		return errors.NewValidationError("invalid glob pattern").WithField("app").WithValue(listApp).WithCause(err)
	}

	out := cmd.OutOrStdout()
	switch strings.ToLower(listFormat) {
	case "text":
		writeStoreText(out, s, listWidth)
		return nil
	case "json":
		data, err := store.Marshal(s)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	case "yaml":
		data, err := store.MarshalYAML(s)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	default:
		return errors.NewValidationError("unsupported format (supported: text, json, yaml)").
			WithField("format").WithValue(listFormat)
	}
}

// writeStoreText prints each category followed by its indented entries.
func writeStoreText(w io.Writer, s *store.Store, width int) {
	if s.Len() == 0 {
		fmt.Fprintln(w, "No categories.")
		return
	}
	for i, c := range s.Categories() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, c.Name)
		if !c.IsList() {
			fmt.Fprintln(w, util.WrapIndent(c.ScalarText(), width-2, 2))
			continue
		}
		if len(c.Entries) == 0 {
			fmt.Fprintln(w, "  (empty)")
			continue
		}
		for _, e := range c.Entries {
			writeEntryText(w, e, width)
		}
	}
}

func writeEntryText(w io.Writer, e store.Entry, width int) {
	for j, f := range e.DisplayFields() {
		bullet := "    "
		if j == 0 {
			bullet = "  - "
		}
		text := f.Value
		if f.Label != "" {
			text = f.Label + ": " + f.Value
		}
		lines := strings.Split(util.Wrap(text, width-len(bullet)), "\n")
		fmt.Fprintln(w, bullet+lines[0])
		for _, l := range lines[1:] {
			fmt.Fprintln(w, "    "+l)
		}
	}
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := store.Load(cfg.StorePath())
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	hits := s.Search(query)
	out := cmd.OutOrStdout()
	if len(hits) == 0 {
		fmt.Fprintf(out, "No matches for %q.\n", query)
		return nil
	}
	if searchLimit > 0 && len(hits) > searchLimit {
		hits = hits[:searchLimit]
	}
	for _, h := range hits {
		fmt.Fprintln(out, formatHit(h))
	}
	return nil
}

// formatHit renders a search hit on one line.
func formatHit(h store.Hit) string {
	if h.Index < 0 {
		return fmt.Sprintf("%s (category)", h.Category)
	}
	var parts []string
	for _, f := range h.Entry.DisplayFields() {
		parts = append(parts, f.Value)
	}
	return fmt.Sprintf("%s: %s", h.Category, util.TruncateString(strings.Join(parts, " | "), 120))
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	} else {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		path = cfg.StorePath()
	}

	ok, msg := store.Validate(path)
	if !ok {
		return errors.NewStoreError(msg, errors.ErrStoreMalformed).WithPath(path)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %s\n", path, msg)
	return nil
}
