// Package watch reports changes to a single file. It watches the parent
// directory so editors that save by rename are still seen, and coalesces
// bursts of events into one notification.
package watch

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Iron-Ham/shortcuts/internal/logging"
)

// DefaultDebounce is the quiet period before a burst of events is reported.
const DefaultDebounce = 50 * time.Millisecond

// Event is what happened to the watched file once a burst settled.
type Event int

const (
	// Changed means the file was written or recreated.
	Changed Event = iota
	// Removed means the file no longer exists.
	Removed
)

func (e Event) String() string {
	if e == Removed {
		return "removed"
	}
	return "changed"
}

// Watcher watches one file.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	logger   *logging.Logger

	mu       sync.Mutex
	callback func(Event)
	started  bool

	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithLogger attaches a logger.
func WithLogger(l *logging.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l.WithComponent("watch")
		}
	}
}

// New creates a watcher for path. The file's directory must exist; the
// file itself may not.
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, err
	}

	w := &Watcher{
		watcher:  fw,
		path:     abs,
		debounce: DefaultDebounce,
		logger:   logging.NopLogger(),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// OnEvent sets the function called after each settled burst. It runs on the
// watcher goroutine, so events are delivered one at a time.
func (w *Watcher) OnEvent(cb func(Event)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callback = cb
}

// Start begins delivering events. Only the first call has an effect, and
// none after Stop.
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return
	}
	w.started = true
	go w.loop()
}

// Stop ends the watch and waits for the goroutine to exit. It must not be
// called from the callback.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		_ = w.watcher.Close()

		w.mu.Lock()
		if !w.started {
			w.started = true
			close(w.doneCh)
		}
		w.mu.Unlock()
	})
	<-w.doneCh
}

func (w *Watcher) loop() {
	defer close(w.doneCh)

	debounceTimer := time.NewTimer(0)
	<-debounceTimer.C
	defer debounceTimer.Stop()

	pending := false
	for {
		select {
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			pending = true
			debounceTimer.Reset(w.debounce)

		case <-debounceTimer.C:
			if !pending {
				continue
			}
			pending = false
			w.emit(w.settle())

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "path", w.path, "error", err)
		}
	}
}

// settle decides what a burst amounted to by looking at the file now.
func (w *Watcher) settle() Event {
	if _, err := os.Stat(w.path); os.IsNotExist(err) {
		return Removed
	}
	return Changed
}

func (w *Watcher) emit(ev Event) {
	w.mu.Lock()
	cb := w.callback
	w.mu.Unlock()

	w.logger.Debug("file event", "path", w.path, "event", ev.String())
	if cb != nil {
		cb(ev)
	}
}
