package agent

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Iron-Ham/shortcuts/internal/errors"
	"github.com/Iron-Ham/shortcuts/internal/store"
)

const gitStore = `{"GIT": [{"command": "git status", "description": "Show status"}], "NOTES": "see wiki"}`

type fakeClient struct {
	mu       sync.Mutex
	content  string
	err      error
	requests []Request
}

func (c *fakeClient) Name() string { return "fake" }

func (c *fakeClient) Complete(_ context.Context, req Request) (*Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, req)
	if c.err != nil {
		return nil, c.err
	}
	return &Response{Content: c.content}, nil
}

func (c *fakeClient) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.requests)
}

type scriptedPrompter struct {
	mu        sync.Mutex
	answers   []bool
	input     string
	questions []string
}

func (p *scriptedPrompter) Confirm(question string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.questions = append(p.questions, question)
	if len(p.answers) == 0 {
		return false, errors.New("unexpected question: " + question)
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	return a, nil
}

func (p *scriptedPrompter) Ask(question string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.questions = append(p.questions, question)
	return p.input, nil
}

// blockingPrompter holds every question until release is closed, like a
// user who never answers.
type blockingPrompter struct {
	asked   chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockingPrompter() *blockingPrompter {
	return &blockingPrompter{asked: make(chan struct{}), release: make(chan struct{})}
}

func (p *blockingPrompter) Confirm(string) (bool, error) {
	p.once.Do(func() { close(p.asked) })
	<-p.release
	return true, nil
}

func (p *blockingPrompter) Ask(string) (string, error) {
	<-p.release
	return "", nil
}

type fakeSyncer struct {
	mu      sync.Mutex
	pulls   int
	pushes  int
	pullErr error
	pushErr error
}

func (s *fakeSyncer) Pull(_ context.Context, _ string) (*store.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pulls++
	return nil, s.pullErr
}

func (s *fakeSyncer) Push(_ context.Context, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pushes++
	return s.pushErr
}

// writeStore writes content to a fresh store file, re-encoded the way the
// application saves it.
func writeStore(t *testing.T, content string) string {
	t.Helper()
	s, err := store.Parse([]byte(content))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	data, err := store.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	path := filepath.Join(t.TempDir(), "shortcuts.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestProcessor(t *testing.T, path string, client Client, opts ...Option) (*Processor, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	all := append([]Option{WithOutput(&out, nil)}, opts...)
	p, err := NewProcessor(path, client, all...)
	if err != nil {
		t.Fatalf("NewProcessor() error = %v", err)
	}
	return p, &out
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}
