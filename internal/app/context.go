// Package app holds the state shared by the viewers, the hotkey listener and
// background tasks. There are no package-level globals: everything hangs off
// a Context that is passed explicitly.
package app

import (
	"context"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"

	"github.com/Iron-Ham/shortcuts/internal/config"
	"github.com/Iron-Ham/shortcuts/internal/errors"
	"github.com/Iron-Ham/shortcuts/internal/instance"
	"github.com/Iron-Ham/shortcuts/internal/logging"
	"github.com/Iron-Ham/shortcuts/internal/runner"
	"github.com/Iron-Ham/shortcuts/internal/store"
)

// Runner launches collaborator programs.
type Runner interface {
	Run(args []string) (runner.Result, error)
}

// Context is the application's shared state.
type Context struct {
	cfg    *config.Config
	logger *logging.Logger
	guard  *instance.Guard
	runner Runner
	self   string

	mu      sync.RWMutex
	store   *store.Store
	loadErr error

	agentBusy atomic.Bool
	tasks     sync.WaitGroup
}

// Option configures a Context.
type Option func(*Context)

// WithGuard replaces the instance guard built from the config.
func WithGuard(g *instance.Guard) Option {
	return func(c *Context) { c.guard = g }
}

// WithRunner replaces the collaborator runner.
func WithRunner(r Runner) Option {
	return func(c *Context) { c.runner = r }
}

// WithExecutable sets the path used for the default collaborator commands.
func WithExecutable(path string) Option {
	return func(c *Context) { c.self = path }
}

// New creates a Context. The store starts empty until Reload is called.
func New(cfg *config.Config, logger *logging.Logger, opts ...Option) *Context {
	if logger == nil {
		logger = logging.NopLogger()
	}
	c := &Context{
		cfg:    cfg,
		logger: logger.WithComponent("app"),
		store:  store.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.guard == nil {
		c.guard = instance.NewGuard(cfg.LockPath(), instance.WithLogger(logger))
	}
	if c.runner == nil {
		c.runner = runner.New(logger, RunnerOptions(cfg)...)
	}
	if c.self == "" {
		if exe, err := os.Executable(); err == nil {
			c.self = exe
		} else {
			c.self = "shortcuts"
		}
	}
	return c
}

// RunnerOptions points collaborators at the same store as the viewer and
// runs them in the configured directory.
func RunnerOptions(cfg *config.Config) []runner.Option {
	return []runner.Option{
		runner.WithEnv(config.EnvPrefix + "_STORE_PATH=" + cfg.StorePath()),
		runner.WithDir(cfg.CollaboratorDir()),
	}
}

// Config returns the loaded configuration.
func (c *Context) Config() *config.Config { return c.cfg }

// Logger returns the application logger.
func (c *Context) Logger() *logging.Logger { return c.logger }

// Guard returns the instance guard.
func (c *Context) Guard() *instance.Guard { return c.guard }

// Executable returns the path used for the default collaborator commands.
func (c *Context) Executable() string { return c.self }

// AgentCommand returns the agent collaborator command line. A caller that
// already owns a terminal passes ownTerminal to skip the terminal launcher.
func (c *Context) AgentCommand(ownTerminal bool) []string {
	collab := c.cfg.Collaborators
	if ownTerminal {
		collab.Terminal = nil
	}
	return collab.AgentCommand(c.self)
}

// AgentExec prepares the agent for a caller that already owns a terminal.
// It runs in the collaborator directory with SHORTCUTS_STORE_PATH set.
func (c *Context) AgentExec() (*exec.Cmd, error) {
	return runner.New(c.logger, RunnerOptions(c.cfg)...).Command(c.AgentCommand(true))
}

// Start acquires the instance lock. A live duplicate fails with
// ErrDuplicateInstance; the caller should report it and exit 1.
func (c *Context) Start() error {
	if err := c.guard.Acquire(); err != nil {
		return err
	}
	c.guard.MarkRunning()
	c.logger.Info("application started", "lock", c.guard.Path(), "pid", c.guard.PID())
	return nil
}

// Store returns the current store. The returned value is replaced, never
// mutated, by Reload, so callers may keep reading it.
func (c *Context) Store() *store.Store {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store
}

// LoadError returns the error from the last Reload, if any.
func (c *Context) LoadError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadErr
}

// Reload reads the store file and swaps it in. On failure a placeholder
// store describing the problem is swapped in and the error is returned.
func (c *Context) Reload() (*store.Store, error) {
	path := c.cfg.StorePath()
	s, err := store.LoadOrPlaceholder(path)

	c.mu.Lock()
	c.store = s
	c.loadErr = err
	c.mu.Unlock()

	if err != nil {
		c.logger.Error("store load failed", "path", path, "error", err)
		return s, err
	}
	c.logger.Info("store loaded", "path", path, "categories", s.Len(), "entries", s.EntryCount())
	return s, nil
}

// SyncFromCloud runs the sync collaborator and then reloads. It blocks
// until the collaborator exits. A collaborator failure is logged and
// returned, and the reload still happens.
func (c *Context) SyncFromCloud() error {
	args := c.cfg.Collaborators.SyncCommand(c.self)
	_, runErr := c.runner.Run(args)
	if runErr != nil {
		c.logger.Warn("sync collaborator failed", "error", runErr)
	}
	if _, err := c.Reload(); err != nil && runErr == nil {
		return err
	}
	return runErr
}

// RunAgent starts the agent collaborator on a background goroutine and
// returns immediately. onDone always runs once the collaborator exits,
// whatever the outcome, and receives its error. RunAgent returns false
// without starting anything when an agent is already running or ctx is
// already done.
func (c *Context) RunAgent(ctx context.Context, onDone func(error)) bool {
	if ctx.Err() != nil {
		return false
	}
	if !c.agentBusy.CompareAndSwap(false, true) {
		c.logger.Info("agent already running")
		return false
	}

	args := c.AgentCommand(false)
	c.tasks.Add(1)
	go func() {
		var err error
		defer func() {
			c.agentBusy.Store(false)
			if onDone != nil {
				onDone(err)
			}
			c.tasks.Done()
		}()
		_, err = c.runner.Run(args)
		if err != nil {
			c.logger.Warn("agent collaborator failed", "error", err)
		} else {
			c.logger.Info("agent collaborator finished")
		}
	}()
	return true
}

// AgentRunning reports whether an agent collaborator is in flight.
func (c *Context) AgentRunning() bool {
	return c.agentBusy.Load()
}

// Wait blocks until background tasks have finished.
func (c *Context) Wait() {
	c.tasks.Wait()
}

// Close releases the instance lock. It is safe to call more than once and
// never fails; lock removal problems are only logged.
func (c *Context) Close() {
	c.guard.Release()
	c.logger.Info("application closed")
}

// IsDuplicate reports whether err means another instance holds the lock.
func IsDuplicate(err error) bool {
	return errors.Is(err, errors.ErrDuplicateInstance)
}
