// Package instance keeps a single copy of the application running by holding
// a lock file that records the owner's process id.
//
// The lock file contains only the decimal pid. A lock whose content does not
// parse as a positive integer, or whose pid is not a live process, is stale
// and is replaced on the next Acquire.
package instance

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/Iron-Ham/shortcuts/internal/errors"
	"github.com/Iron-Ham/shortcuts/internal/logging"
)

// DefaultLockFileName is used when the configuration does not name a lock path.
const DefaultLockFileName = "app.lock"

// State is the lifecycle position of a Guard.
type State int

const (
	StateUnstarted State = iota
	StateCheckingLock
	StateDuplicateDetected
	StateLockAcquired
	StateRunning
	StateReleased
)

func (s State) String() string {
	switch s {
	case StateUnstarted:
		return "unstarted"
	case StateCheckingLock:
		return "checking_lock"
	case StateDuplicateDetected:
		return "duplicate_detected"
	case StateLockAcquired:
		return "lock_acquired"
	case StateRunning:
		return "running"
	case StateReleased:
		return "released"
	default:
		return "unknown"
	}
}

// LivenessFunc reports whether pid names a running process.
// Implementations must not panic and treat any OS error as "not running".
type LivenessFunc func(pid int) bool

// Guard owns the lock file for one process.
type Guard struct {
	mu sync.Mutex

	path   string
	pid    int
	alive  LivenessFunc
	logger *logging.Logger
	state  State
}

// Option configures a Guard.
type Option func(*Guard)

// WithPID overrides the pid written to the lock file (defaults to os.Getpid).
func WithPID(pid int) Option {
	return func(g *Guard) { g.pid = pid }
}

// WithLiveness overrides the process liveness check.
func WithLiveness(fn LivenessFunc) Option {
	return func(g *Guard) {
		if fn != nil {
			g.alive = fn
		}
	}
}

// WithLogger attaches a logger. A nil logger discards output.
func WithLogger(logger *logging.Logger) Option {
	return func(g *Guard) {
		if logger != nil {
			g.logger = logger.WithComponent("guard")
		}
	}
}

// NewGuard creates a guard for the lock file at path.
func NewGuard(path string, opts ...Option) *Guard {
	g := &Guard{
		path:   path,
		pid:    os.Getpid(),
		alive:  IsProcessAlive,
		logger: logging.NopLogger(),
		state:  StateUnstarted,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Path returns the lock file path.
func (g *Guard) Path() string { return g.path }

// PID returns the pid this guard writes.
func (g *Guard) PID() int { return g.pid }

// State returns the current lifecycle state.
func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Acquire takes the lock. It returns an error matching
// errors.ErrDuplicateInstance when a live process already owns the lock; the
// lock file is left untouched in that case. Any other error is a filesystem
// failure that should abort startup.
//
// Calling Acquire while the lock is already held is a no-op.
func (g *Guard) Acquire() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == StateLockAcquired || g.state == StateRunning {
		return nil
	}
	g.state = StateCheckingLock

	// A stale lock that could not be deleted is overwritten in place.
	overwrite := false
	data, err := os.ReadFile(g.path)
	switch {
	case err == nil:
		raw := string(data)
		if pid, ok := ParsePID(raw); ok && g.alive(pid) {
			g.state = StateDuplicateDetected
			g.logger.Error("another instance holds the lock", "path", g.path, "owner_pid", pid)
			return errors.NewLockError("lock held by a running process", errors.ErrDuplicateInstance).
				WithPath(g.path).WithPID(pid)
		}
		overwrite = !g.removeStale(raw)
	case os.IsNotExist(err):
	default:
		g.logger.Warn("lock file unreadable, treating as stale", "path", g.path, "error", err)
		overwrite = !g.removeStale("")
	}

	if err := g.write(overwrite); err != nil {
		return err
	}

	g.state = StateLockAcquired
	g.logger.Info("lock acquired", "path", g.path, "pid", g.pid)
	return nil
}

// removeStale deletes a stale lock and reports whether the path is now free.
// Failure is logged and otherwise ignored.
func (g *Guard) removeStale(content string) bool {
	if err := os.Remove(g.path); err != nil && !os.IsNotExist(err) {
		g.logger.Error("failed to remove stale lock", "path", g.path, "error", err)
		return false
	}
	g.logger.Warn("stale lock removed", "path", g.path, "old_content", strings.TrimSpace(content))
	return true
}

// write creates the lock file exclusively so two processes racing past the
// liveness check cannot both succeed. With overwrite set the existing stale
// file is truncated instead.
func (g *Guard) write(overwrite bool) error {
	if dir := filepath.Dir(g.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			g.state = StateUnstarted
			return errors.NewLockError("failed to create lock directory", errors.Join(errors.ErrLockWrite, err)).
				WithPath(g.path)
		}
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(g.path, flags, 0644)
	if err != nil {
		if !overwrite && os.IsExist(err) {
			g.state = StateDuplicateDetected
			g.logger.Error("lock created by another process during startup", "path", g.path)
			return errors.NewLockError("lock file appeared during acquisition", errors.ErrDuplicateInstance).
				WithPath(g.path)
		}
		g.state = StateUnstarted
		return errors.NewLockError("failed to create lock file", errors.Join(errors.ErrLockWrite, err)).
			WithPath(g.path)
	}

	_, writeErr := f.WriteString(strconv.Itoa(g.pid))
	closeErr := f.Close()
	if writeErr != nil || closeErr != nil {
		_ = os.Remove(g.path)
		g.state = StateUnstarted
		cause := writeErr
		if cause == nil {
			cause = closeErr
		}
		return errors.NewLockError("failed to write lock file", errors.Join(errors.ErrLockWrite, cause)).
			WithPath(g.path).WithPID(g.pid)
	}
	return nil
}

// MarkRunning records that startup finished after the lock was acquired.
func (g *Guard) MarkRunning() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == StateLockAcquired {
		g.state = StateRunning
	}
}

// Release removes the lock file. It never fails; problems are logged.
// Safe to call more than once.
func (g *Guard) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == StateReleased {
		return
	}
	if g.state == StateDuplicateDetected {
		// The file belongs to the other instance.
		return
	}

	switch err := os.Remove(g.path); {
	case err == nil:
		g.logger.Info("lock released", "path", g.path)
	case os.IsNotExist(err):
		g.logger.Debug("lock already absent at release", "path", g.path)
	default:
		g.logger.Error("failed to remove lock file", "path", g.path, "error", err)
	}
	g.state = StateReleased
}

// ParsePID parses lock file content. Only a positive decimal integer is
// valid; surrounding whitespace is ignored.
func ParsePID(content string) (int, bool) {
	pid, err := strconv.Atoi(strings.TrimSpace(content))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}

// ReadPID reads and parses the lock file at path.
func ReadPID(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, ok := ParsePID(string(data))
	if !ok {
		return 0, fmt.Errorf("invalid lock content %q", strings.TrimSpace(string(data)))
	}
	return pid, nil
}
