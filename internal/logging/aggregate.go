package logging

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"
)

// LogEntry is one parsed JSON log line.
type LogEntry struct {
	Timestamp time.Time      `json:"time"`
	Level     string         `json:"level"`
	Message   string         `json:"msg"`
	Component string         `json:"component,omitempty"`
	Attrs     map[string]any `json:"attrs,omitempty"`
}

// LogFilter selects entries; set criteria are combined with AND.
type LogFilter struct {
	// Level keeps entries at or above this level (DEBUG < INFO < WARN < ERROR).
	Level string
	// Since keeps entries at or after this time.
	Since time.Time
	// Component keeps entries from one component ("agent", "guard", ...).
	Component string
	// Pattern keeps entries whose message or attributes match.
	Pattern *regexp.Regexp
}

var levelOrder = map[string]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// ReadLogs parses every JSON line in the log file at path, sorted by time.
// Lines that are not valid JSON are skipped.
func ReadLogs(path string) ([]LogEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no log file at %s: %w", path, err)
		}
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return ParseLogs(file)
}

// ParseLogs parses JSON log lines from r, sorted by time.
func ParseLogs(r io.Reader) ([]LogEntry, error) {
	var entries []LogEntry
	scanner := bufio.NewScanner(r)

	const maxLine = 1024 * 1024
	scanner.Buffer(make([]byte, 64*1024), maxLine)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		entry, err := parseLogEntry(line)
		if err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading log file: %w", err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
	return entries, nil
}

func parseLogEntry(line string) (LogEntry, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return LogEntry{}, fmt.Errorf("invalid JSON: %w", err)
	}

	entry := LogEntry{Attrs: make(map[string]any)}
	for k, v := range raw {
		s, _ := v.(string)
		switch k {
		case "time":
			if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
				entry.Timestamp = t
			}
		case "level":
			entry.Level = s
		case "msg":
			entry.Message = s
		case "component":
			entry.Component = s
		default:
			entry.Attrs[k] = v
		}
	}
	return entry, nil
}

// FilterLogs returns the entries matching filter.
func FilterLogs(entries []LogEntry, filter LogFilter) []LogEntry {
	var out []LogEntry
	for _, entry := range entries {
		if matchesFilter(entry, filter) {
			out = append(out, entry)
		}
	}
	return out
}

func matchesFilter(entry LogEntry, filter LogFilter) bool {
	if filter.Level != "" {
		want, okWant := levelOrder[strings.ToUpper(filter.Level)]
		got, okGot := levelOrder[entry.Level]
		if okWant && okGot && got < want {
			return false
		}
	}
	if !filter.Since.IsZero() && entry.Timestamp.Before(filter.Since) {
		return false
	}
	if filter.Component != "" && entry.Component != filter.Component {
		return false
	}
	if filter.Pattern != nil {
		if filter.Pattern.MatchString(entry.Message) {
			return true
		}
		attrs, _ := json.Marshal(entry.Attrs)
		return filter.Pattern.Match(attrs)
	}
	return true
}

// Tail returns the last n entries; n <= 0 returns all of them.
func Tail(entries []LogEntry, n int) []LogEntry {
	if n <= 0 || n >= len(entries) {
		return entries
	}
	return entries[len(entries)-n:]
}

// FormatText renders an entry as one human-readable line:
// [TIMESTAMP] LEVEL component - MESSAGE {attrs}
func FormatText(entry LogEntry) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%s] %-5s", entry.Timestamp.Format("2006-01-02 15:04:05.000"), entry.Level))
	if entry.Component != "" {
		sb.WriteString(" " + entry.Component)
	}
	sb.WriteString(" - " + entry.Message)
	if len(entry.Attrs) > 0 {
		attrs, _ := json.Marshal(entry.Attrs)
		sb.WriteString(" " + string(attrs))
	}
	return sb.String()
}

// WriteEntries writes entries to w as "text" lines or a "json" array.
func WriteEntries(w io.Writer, entries []LogEntry, format string) error {
	switch strings.ToLower(format) {
	case "", "text":
		for _, entry := range entries {
			if _, err := fmt.Fprintln(w, FormatText(entry)); err != nil {
				return err
			}
		}
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	default:
		return fmt.Errorf("unsupported format: %s (supported: text, json)", format)
	}
}
