// Package tui is the terminal rendition of the shortcut viewer.
package tui

import (
	"fmt"
	"os/exec"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/shortcuts/internal/logging"
	"github.com/Iron-Ham/shortcuts/internal/store"
)

// Backend is the application state the viewer reads and drives.
type Backend interface {
	Store() *store.Store
	LoadError() error
	Reload() (*store.Store, error)
	SyncFromCloud() error
	// AgentExec prepares the agent to run on the viewer's terminal.
	AgentExec() (*exec.Cmd, error)
}

// Layout constants
const (
	DefaultSidebarWidth = 28
	MinSidebarWidth     = 16
	MaxSidebarWidth     = 60

	headerHeight = 2
	footerHeight = 2

	// Rounded border plus horizontal padding
	paneChromeWidth  = 4
	paneChromeHeight = 2
)

type focus int

const (
	focusSidebar focus = iota
	focusEntries
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusSuccess
	statusWarning
	statusError
)

// Model is the bubbletea model for the viewer.
type Model struct {
	backend Backend
	logger  *logging.Logger
	keys    KeyMap
	help    help.Model
	search  textinput.Model
	pane    viewport.Model
	copy    func(string) error

	all   *store.Store
	shown *store.Store
	query string

	searching bool
	focus     focus
	category  int
	entry     int
	busy      bool

	width        int
	height       int
	sidebarWidth int

	status     string
	statusKind statusKind
}

// Option configures a Model.
type Option func(*Model)

// WithClipboard replaces the system clipboard writer.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) { m.copy = write }
}

// WithLogger sets the logger.
func WithLogger(logger *logging.Logger) Option {
	return func(m *Model) { m.logger = logger }
}

// WithSidebarWidth sets the category list width, clamped to the allowed range.
func WithSidebarWidth(width int) Option {
	return func(m *Model) {
		m.sidebarWidth = max(MinSidebarWidth, min(MaxSidebarWidth, width))
	}
}

// New creates a Model showing the backend's current store.
func New(backend Backend, opts ...Option) Model {
	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search categories and entries"

	m := Model{
		backend:      backend,
		logger:       logging.NopLogger(),
		keys:         DefaultKeyMap(),
		help:         help.New(),
		search:       search,
		pane:         viewport.New(0, 0),
		copy:         clipboard.WriteAll,
		sidebarWidth: DefaultSidebarWidth,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.logger = m.logger.WithComponent("tui")

	m.setStore(backend.Store())
	if err := backend.LoadError(); err != nil {
		m.setStatus(statusError, fmt.Sprintf("Could not load shortcuts: %v", err))
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// setStore swaps in a freshly loaded store, keeping the selected category
// when it still exists.
func (m *Model) setStore(s *store.Store) {
	selected := m.selectedName()
	m.all = s
	m.shown = s.Narrow(m.query)
	m.category = 0
	m.entry = 0
	for i, name := range m.shown.Names() {
		if name == selected {
			m.category = i
			break
		}
	}
	m.refreshPane()
}

func (m *Model) applyQuery(query string) {
	m.query = query
	m.shown = m.all.Narrow(query)
	m.category = 0
	m.entry = 0
	m.refreshPane()
}

func (m *Model) setStatus(kind statusKind, text string) {
	m.statusKind = kind
	m.status = text
}

func (m Model) selectedName() string {
	if m.shown == nil {
		return ""
	}
	names := m.shown.Names()
	if m.category < 0 || m.category >= len(names) {
		return ""
	}
	return names[m.category]
}

func (m Model) selectedCategory() (store.Category, bool) {
	name := m.selectedName()
	if name == "" {
		return store.Category{}, false
	}
	return m.shown.Get(name)
}

func (m Model) selectedEntry() (store.Entry, bool) {
	c, ok := m.selectedCategory()
	if !ok || !c.IsList() || m.entry < 0 || m.entry >= len(c.Entries) {
		return store.Entry{}, false
	}
	return c.Entries[m.entry], true
}

// Query returns the active search query.
func (m Model) Query() string { return m.query }

// Status returns the status line text.
func (m Model) Status() string { return m.status }

// SelectedCategory returns the name of the highlighted category.
func (m Model) SelectedCategory() string { return m.selectedName() }

// SelectedEntry returns the index of the highlighted entry.
func (m Model) SelectedEntry() int { return m.entry }

// copyText picks the most useful text of an entry for the clipboard.
func copyText(e store.Entry) string {
	for _, v := range []string{e.Command(), e.Keys(), e.Usage()} {
		if v != "" {
			return v
		}
	}
	if fields := e.DisplayFields(); len(fields) > 0 {
		return fields[0].Value
	}
	return ""
}
