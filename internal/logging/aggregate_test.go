package logging

import (
	"bytes"
	"regexp"
	"strings"
	"testing"
	"time"
)

const sampleLog = `{"time":"2026-01-02T10:00:02Z","level":"WARN","msg":"stale lock removed","component":"guard","old_pid":99}
not json
{"time":"2026-01-02T10:00:01Z","level":"INFO","msg":"lock acquired","component":"guard","pid":7}

{"time":"2026-01-02T10:00:03Z","level":"ERROR","msg":"sync failed","component":"cloud","status":503}
{"time":"2026-01-02T10:00:04Z","level":"DEBUG","msg":"request","component":"agent"}
`

func TestParseLogs(t *testing.T) {
	entries, err := ParseLogs(strings.NewReader(sampleLog))
	if err != nil {
		t.Fatalf("ParseLogs() error = %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("got %d entries, want 4", len(entries))
	}
	if entries[0].Message != "lock acquired" {
		t.Errorf("entries not sorted by time: first = %q", entries[0].Message)
	}
	if entries[0].Component != "guard" {
		t.Errorf("Component = %q, want guard", entries[0].Component)
	}
	if entries[0].Attrs["pid"] != float64(7) {
		t.Errorf("Attrs[pid] = %v, want 7", entries[0].Attrs["pid"])
	}
}

func TestFilterLogs(t *testing.T) {
	entries, _ := ParseLogs(strings.NewReader(sampleLog))

	tests := []struct {
		name   string
		filter LogFilter
		want   []string
	}{
		{"empty", LogFilter{}, []string{"lock acquired", "stale lock removed", "sync failed", "request"}},
		{"level warn", LogFilter{Level: "warn"}, []string{"stale lock removed", "sync failed"}},
		{"component", LogFilter{Component: "guard"}, []string{"lock acquired", "stale lock removed"}},
		{"since", LogFilter{Since: time.Date(2026, 1, 2, 10, 0, 3, 0, time.UTC)}, []string{"sync failed", "request"}},
		{"pattern msg", LogFilter{Pattern: regexp.MustCompile("stale|sync")}, []string{"stale lock removed", "sync failed"}},
		{"pattern attrs", LogFilter{Pattern: regexp.MustCompile(`"status":503`)}, []string{"sync failed"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterLogs(entries, tt.filter)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d entries, want %d", len(got), len(tt.want))
			}
			for i, e := range got {
				if e.Message != tt.want[i] {
					t.Errorf("entry %d = %q, want %q", i, e.Message, tt.want[i])
				}
			}
		})
	}
}

func TestTail(t *testing.T) {
	entries, _ := ParseLogs(strings.NewReader(sampleLog))
	if got := Tail(entries, 2); len(got) != 2 || got[1].Message != "request" {
		t.Errorf("Tail(2) = %+v", got)
	}
	if got := Tail(entries, 0); len(got) != 4 {
		t.Errorf("Tail(0) returned %d entries, want 4", len(got))
	}
}

func TestWriteEntries(t *testing.T) {
	entries, _ := ParseLogs(strings.NewReader(sampleLog))

	var buf bytes.Buffer
	if err := WriteEntries(&buf, entries[:1], "text"); err != nil {
		t.Fatalf("WriteEntries(text) error = %v", err)
	}
	want := `[2026-01-02 10:00:01.000] INFO  guard - lock acquired {"pid":7}` + "\n"
	if buf.String() != want {
		t.Errorf("text = %q, want %q", buf.String(), want)
	}

	buf.Reset()
	if err := WriteEntries(&buf, entries[:1], "json"); err != nil {
		t.Fatalf("WriteEntries(json) error = %v", err)
	}
	if !strings.Contains(buf.String(), `"msg": "lock acquired"`) {
		t.Errorf("json output missing message: %s", buf.String())
	}

	if err := WriteEntries(&buf, entries, "csv"); err == nil {
		t.Error("WriteEntries(csv) should fail")
	}
}
