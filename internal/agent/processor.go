package agent

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Iron-Ham/shortcuts/internal/errors"
	"github.com/Iron-Ham/shortcuts/internal/logging"
	"github.com/Iron-Ham/shortcuts/internal/payload"
	"github.com/Iron-Ham/shortcuts/internal/store"
)

// Syncer moves the store to and from the cloud.
type Syncer interface {
	Pull(ctx context.Context, path string) (*store.Store, error)
	Push(ctx context.Context, path string) error
}

// Result describes a shortcut that was added.
type Result struct {
	Category        string
	Entry           store.Entry
	CreatedCategory bool
	LineDelta       int
	Pushed          bool
}

// Processor runs the add-a-shortcut workflow for one raw command at a time.
type Processor struct {
	storePath   string
	client      Client
	model       string
	temperature float64

	prompter Prompter
	syncer   Syncer
	pull     bool
	push     bool

	out        io.Writer
	formatter  *payload.Formatter
	transcript io.Writer
	logger     *logging.Logger
}

// Option configures a Processor.
type Option func(*Processor)

// WithModel sets the model name and sampling temperature.
func WithModel(model string, temperature float64) Option {
	return func(p *Processor) {
		p.model = model
		p.temperature = temperature
	}
}

// WithPrompter sets where confirmations and manual input come from.
func WithPrompter(pr Prompter) Option {
	return func(p *Processor) { p.prompter = pr }
}

// WithSyncer enables cloud sync: pull before a run and push after a save.
func WithSyncer(s Syncer, pull, push bool) Option {
	return func(p *Processor) {
		p.syncer = s
		p.pull = pull
		p.push = push
	}
}

// WithOutput sets where progress is printed and how payloads are colored.
func WithOutput(w io.Writer, f *payload.Formatter) Option {
	return func(p *Processor) {
		p.out = w
		p.formatter = f
	}
}

// WithTranscript appends every conversation with the model to w as a
// role-tagged log without escape sequences.
func WithTranscript(w io.Writer) Option {
	return func(p *Processor) { p.transcript = w }
}

// WithLogger attaches a logger. Full request and response payloads are
// logged at info level.
func WithLogger(l *logging.Logger) Option {
	return func(p *Processor) {
		if l != nil {
			p.logger = l.WithComponent("agent")
		}
	}
}

// NewProcessor creates a processor that adds shortcuts to the store at
// storePath.
func NewProcessor(storePath string, client Client, opts ...Option) (*Processor, error) {
	p := &Processor{
		storePath:   storePath,
		client:      client,
		model:       "gpt-4o",
		temperature: 0.5,
		out:         os.Stdout,
		logger:      logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.formatter == nil {
		f, err := payload.NewFormatter("chatgpt", p.out)
		if err != nil {
			return nil, err
		}
		p.formatter = f
	}
	return p, nil
}

func (p *Processor) say(line string) {
	fmt.Fprintln(p.out, line)
}

// confirm gives up when ctx ends. A prompter stuck reading the terminal is
// left behind and its answer dropped.
func (p *Processor) confirm(ctx context.Context, question string) (bool, error) {
	if p.prompter == nil {
		return false, nil
	}
	type answer struct {
		ok  bool
		err error
	}
	ch := make(chan answer, 1)
	go func() {
		ok, err := p.prompter.Confirm(question)
		ch <- answer{ok, err}
	}()
	select {
	case a := <-ch:
		return a.ok, a.err
	case <-ctx.Done():
		p.logger.Info("confirmation interrupted", "question", question)
		return false, errors.NewAgentError("confirmation interrupted", ctx.Err()).WithStage("confirm")
	}
}

// Process turns raw into a shortcut and adds it after the user approves.
// Every way of stopping early returns an error; ErrAborted means the user
// said no.
func (p *Processor) Process(ctx context.Context, raw string) (*Result, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		p.logger.Info("no command provided to process")
		p.say(p.formatter.Warning("No command provided to process."))
		return nil, errors.NewAgentError("nothing to process", errors.ErrEmptyCommand).WithStage("input")
	}
	p.say(p.formatter.Info("New command detected: " + raw))
	p.logger.Info("processing command", "raw", raw)

	s, err := store.Load(p.storePath)
	if err != nil {
		p.say(p.formatter.Failure("ERROR: " + err.Error()))
		return nil, err
	}

	content, err := p.complete(ctx, raw, s)
	if err != nil {
		p.say(p.formatter.Failure("ERROR: Failed to get formatted command from API. Aborting."))
		return nil, err
	}

	proposal, err := ParseProposal(content)
	if err != nil {
		p.logger.Error("unusable LLM reply", "error", err, "content", content)
		p.say(p.formatter.Failure(fmt.Sprintf("✗ ERROR: %v. Response was:\n%s", err, content)))
		return nil, err
	}
	p.say(p.formatter.Success("✓ LLM response is valid JSON."))
	p.say(p.formatter.Success("✓ 'category' key found in LLM response."))

	// The store may have changed while the LLM was thinking.
	s, err = store.Load(p.storePath)
	if err != nil {
		return nil, err
	}

	res := &Result{Category: proposal.Category, Entry: proposal.Entry}
	cat, exists := s.Get(proposal.Category)
	switch {
	case !exists:
		p.logger.Warn("category does not exist", "category", proposal.Category)
		ok, err := p.confirm(ctx, fmt.Sprintf("Category '%s' does not exist. Do you want to create it?", proposal.Category))
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, p.abort("user declined to create category", "Aborted by user.")
		}
		p.logger.Info("user approved new category", "category", proposal.Category)
		res.CreatedCategory = true
	case !cat.IsList():
		p.say(p.formatter.Failure(fmt.Sprintf("✗ '%s' is not a list of shortcuts. Aborting.", proposal.Category)))
		return nil, errors.NewStoreError("cannot add entry", errors.ErrNotAList).WithCategory(proposal.Category)
	}

	if s.HasCommand(proposal.Category, proposal.Entry.Command()) {
		p.logger.Warn("duplicate command", "category", proposal.Category, "command", proposal.Entry.Command())
		p.say(p.formatter.Warning(fmt.Sprintf("✗ This command already exists in the '%s' category. Aborting.", proposal.Category)))
		return nil, errors.NewStoreError("cannot add entry", errors.ErrDuplicateEntry).
			WithPath(p.storePath).WithCategory(proposal.Category)
	}
	p.say(p.formatter.Success("✓ Command is not a duplicate."))

	p.say("")
	p.say(p.formatter.Info("Proposed command to add:"))
	p.say(p.formatter.RenderJSON(proposal.Record))
	ok, err := p.confirm(ctx, "Do you approve this command?")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, p.abort("command not approved", "Command not approved. Aborting.")
	}
	p.logger.Info("user approved command", "category", proposal.Category)

	if err := s.AddEntry(proposal.Category, proposal.Entry); err != nil {
		return nil, err
	}
	delta, err := store.SaveSafely(p.storePath, s)
	if err != nil {
		p.logger.Error("safe update failed", "error", err)
		p.say(p.formatter.Failure(fmt.Sprintf("ERROR: Failed to update %s safely. Aborting.", filepath.Base(p.storePath))))
		return nil, err
	}
	res.LineDelta = delta

	if valid, msg := store.Validate(p.storePath); !valid {
		p.logger.Error("store validation failed", "message", msg)
		p.say(p.formatter.Failure(fmt.Sprintf("✗ ERROR: %s validation failed. Aborting.", filepath.Base(p.storePath))))
		return nil, errors.NewStoreError(msg, errors.ErrStoreMalformed).WithPath(p.storePath)
	}
	name := filepath.Base(p.storePath)
	p.say(p.formatter.Success(fmt.Sprintf("Successfully updated %s (%+d lines).", name, delta)))
	p.say(p.formatter.Success(fmt.Sprintf("✓ %s passed validation.", name)))
	p.logger.Info("shortcut added", "category", proposal.Category, "line_delta", delta)

	if p.syncer != nil && p.push {
		if err := p.syncer.Push(ctx, p.storePath); err != nil {
			p.logger.Warn("cloud push failed", "error", err)
			p.say(p.formatter.Warning("Cloud push failed: " + err.Error()))
		} else {
			res.Pushed = true
			p.logger.Info("pushed store to cloud")
		}
	}
	return res, nil
}

// complete sends the request and shows both payloads.
func (p *Processor) complete(ctx context.Context, raw string, s *store.Store) (string, error) {
	prompt, err := BuildPrompt(raw, s)
	if err != nil {
		return "", err
	}
	req := Request{Model: p.model, System: SystemPrompt, Prompt: prompt, Temperature: p.temperature}
	provider := p.client.Name()

	p.logger.Info("llm request", "provider", provider, "payload", req.Payload())
	p.say(p.formatter.Title(fmt.Sprintf("--- %s Request Payload ---", provider)))
	p.say(p.formatter.RenderJSON(req.DisplayPayload()))

	resp, err := p.client.Complete(ctx, req)
	if err != nil {
		p.logger.Error("llm request failed", "provider", provider, "error", err)
		return "", err
	}

	p.logger.Info("llm response", "provider", provider, "content", resp.Content, "payload", string(resp.Payload))
	p.say(p.formatter.Title(fmt.Sprintf("--- %s Response Payload ---", provider)))
	if len(resp.Payload) > 0 {
		p.say(p.formatter.RenderJSON(resp.Payload))
	} else {
		p.say(p.formatter.RenderText(resp.Content))
	}
	p.record(req, resp.Content)
	return resp.Content, nil
}

// record appends one request/reply exchange to the transcript. Write
// failures are logged only.
func (p *Processor) record(req Request, reply string) {
	if p.transcript == nil {
		return
	}
	h := payload.NewChatHistory(p.formatter)
	h.AddSystem(req.System)
	h.AddUser(req.Prompt)
	h.AddAssistant(reply)
	if err := h.Write(p.transcript, true); err != nil {
		p.logger.Warn("failed to write transcript", "error", err)
	}
}

func (p *Processor) abort(logMsg, userMsg string) error {
	p.logger.Warn(logMsg)
	p.say(p.formatter.Warning(userMsg))
	return errors.NewAgentError(logMsg, errors.ErrAborted).WithStage("confirm")
}
