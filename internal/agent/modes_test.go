package agent

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/Iron-Ham/shortcuts/internal/errors"
	"github.com/Iron-Ham/shortcuts/internal/store"
)

func TestSyncOnStart(t *testing.T) {
	tests := []struct {
		name      string
		pull      bool
		pullErr   error
		wantPulls int
		wantOut   string
	}{
		{"pull enabled", true, nil, 1, ""},
		{"pull disabled", false, nil, 0, ""},
		{"pull fails", true, errors.New("offline"), 1, "Cloud pull failed: offline"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			syncer := &fakeSyncer{pullErr: tt.pullErr}
			p, out := newTestProcessor(t, writeStore(t, gitStore), &fakeClient{}, WithSyncer(syncer, tt.pull, false))

			p.SyncOnStart(context.Background())
			if syncer.pulls != tt.wantPulls {
				t.Errorf("pulls = %d, want %d", syncer.pulls, tt.wantPulls)
			}
			if tt.wantOut != "" && !strings.Contains(out.String(), tt.wantOut) {
				t.Errorf("output = %q, want %q", out.String(), tt.wantOut)
			}
		})
	}
}

func TestProcessFile(t *testing.T) {
	path := writeStore(t, gitStore)
	cmdFile := filepath.Join(t.TempDir(), "new_command.txt")
	if err := os.WriteFile(cmdFile, []byte("git checkout -b feature\n"), 0644); err != nil {
		t.Fatal(err)
	}
	p, _ := newTestProcessor(t, path, &fakeClient{content: checkoutReply},
		WithPrompter(&scriptedPrompter{answers: []bool{true}}))

	res, err := p.ProcessFile(context.Background(), cmdFile)
	if err != nil {
		t.Fatalf("ProcessFile() error = %v", err)
	}
	if res.Category != "GIT" {
		t.Errorf("Category = %q", res.Category)
	}
	if got := readFile(t, cmdFile); got != "" {
		t.Errorf("command file = %q, want empty", got)
	}
}

func TestProcessFile_ClearsEvenOnFailure(t *testing.T) {
	cmdFile := filepath.Join(t.TempDir(), "new_command.txt")
	if err := os.WriteFile(cmdFile, []byte("git status"), 0644); err != nil {
		t.Fatal(err)
	}
	p, _ := newTestProcessor(t, writeStore(t, gitStore), &fakeClient{content: "nope"})

	if _, err := p.ProcessFile(context.Background(), cmdFile); !errors.Is(err, errors.ErrLLMResponse) {
		t.Errorf("ProcessFile() error = %v, want ErrLLMResponse", err)
	}
	if got := readFile(t, cmdFile); got != "" {
		t.Errorf("command file = %q, want empty", got)
	}
}

func TestProcessFile_EmptyFileUntouched(t *testing.T) {
	cmdFile := filepath.Join(t.TempDir(), "new_command.txt")
	if err := os.WriteFile(cmdFile, nil, 0644); err != nil {
		t.Fatal(err)
	}
	info, _ := os.Stat(cmdFile)
	client := &fakeClient{}
	p, _ := newTestProcessor(t, writeStore(t, gitStore), client)

	if _, err := p.ProcessFile(context.Background(), cmdFile); !errors.Is(err, errors.ErrEmptyCommand) {
		t.Errorf("ProcessFile() error = %v, want ErrEmptyCommand", err)
	}
	after, _ := os.Stat(cmdFile)
	if !after.ModTime().Equal(info.ModTime()) {
		t.Error("empty command file should not be rewritten")
	}
	if client.calls() != 0 {
		t.Error("client should not be called")
	}
}

func TestManual(t *testing.T) {
	prompter := &scriptedPrompter{input: "git checkout -b feature", answers: []bool{true}}
	p, _ := newTestProcessor(t, writeStore(t, gitStore), &fakeClient{content: checkoutReply}, WithPrompter(prompter))

	if _, err := p.Manual(context.Background()); err != nil {
		t.Fatalf("Manual() error = %v", err)
	}
	if prompter.questions[0] != "Please enter the command to process" {
		t.Errorf("first question = %q", prompter.questions[0])
	}

	noPrompter, _ := newTestProcessor(t, writeStore(t, gitStore), &fakeClient{})
	if _, err := noPrompter.Manual(context.Background()); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("Manual() without prompter error = %v, want ErrInvalidInput", err)
	}
}

func TestWatch_ProcessesUntilDeleted(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	path := writeStore(t, gitStore)
	cmdFile := filepath.Join(t.TempDir(), "new_command.txt")
	if err := os.WriteFile(cmdFile, nil, 0644); err != nil {
		t.Fatal(err)
	}
	p, _ := newTestProcessor(t, path, &fakeClient{content: checkoutReply},
		WithPrompter(&scriptedPrompter{answers: []bool{true}}))

	done := make(chan error, 1)
	go func() { done <- p.Watch(context.Background(), cmdFile) }()

	// Give the watcher a moment to register before writing.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(cmdFile, []byte("git checkout -b feature"), 0644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		s, err := store.Load(path)
		cmd, _ := os.ReadFile(cmdFile)
		if err == nil && s.EntryCount() == 2 && len(cmd) == 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for the command to be added")
		}
		time.Sleep(20 * time.Millisecond)
	}

	if err := os.Remove(cmdFile); err != nil {
		t.Fatal(err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch() did not stop after the file was deleted")
	}
}

func TestWatch_StopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	cmdFile := filepath.Join(t.TempDir(), "new_command.txt")
	if err := os.WriteFile(cmdFile, nil, 0644); err != nil {
		t.Fatal(err)
	}
	p, _ := newTestProcessor(t, writeStore(t, gitStore), &fakeClient{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Watch(ctx, cmdFile) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch() did not stop after cancel")
	}
}

func TestWatch_CancelWhileAwaitingApproval(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	path := writeStore(t, gitStore)
	cmdFile := filepath.Join(t.TempDir(), "new_command.txt")
	if err := os.WriteFile(cmdFile, nil, 0644); err != nil {
		t.Fatal(err)
	}
	prompter := newBlockingPrompter()
	defer close(prompter.release)
	p, _ := newTestProcessor(t, path, &fakeClient{content: checkoutReply}, WithPrompter(prompter))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- p.Watch(ctx, cmdFile) }()

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(cmdFile, []byte("git checkout -b feature"), 0644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-prompter.asked:
	case <-time.After(5 * time.Second):
		t.Fatal("approval was never requested")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch() did not stop while a question was pending")
	}

	s, err := store.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.EntryCount() != 1 {
		t.Errorf("EntryCount() = %d, want 1: nothing is added without an answer", s.EntryCount())
	}
}

func TestProcess_CancelledConfirmation(t *testing.T) {
	prompter := newBlockingPrompter()
	defer close(prompter.release)
	p, _ := newTestProcessor(t, writeStore(t, gitStore), &fakeClient{content: checkoutReply}, WithPrompter(prompter))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-prompter.asked
		cancel()
	}()

	_, err := p.Process(ctx, "git checkout -b feature")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Process() error = %v, want context.Canceled", err)
	}
}

func TestWatch_MissingFile(t *testing.T) {
	p, out := newTestProcessor(t, writeStore(t, gitStore), &fakeClient{})
	err := p.Watch(context.Background(), filepath.Join(t.TempDir(), "new_command.txt"))

	var notFound *errors.NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("Watch() error = %v, want *NotFoundError", err)
	}
	if !strings.Contains(out.String(), "Please create it") {
		t.Errorf("output = %q", out.String())
	}
}
