package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/shortcuts/internal/store"
)

type storeLoadedMsg struct {
	store *store.Store
	err   error
}

type syncFinishedMsg struct {
	store   *store.Store
	loadErr error
	err     error
}

type agentFinishedMsg struct {
	err error
}

func reloadCmd(b Backend) tea.Cmd {
	return func() tea.Msg {
		s, err := b.Reload()
		return storeLoadedMsg{store: s, err: err}
	}
}

func syncCmd(b Backend) tea.Cmd {
	return func() tea.Msg {
		err := b.SyncFromCloud()
		return syncFinishedMsg{store: b.Store(), loadErr: b.LoadError(), err: err}
	}
}

// agentCmd suspends the viewer and hands the terminal to the agent.
func agentCmd(b Backend) tea.Cmd {
	c, err := b.AgentExec()
	if err != nil {
		return func() tea.Msg { return agentFinishedMsg{err: err} }
	}
	return tea.ExecProcess(c, func(err error) tea.Msg {
		return agentFinishedMsg{err: err}
	})
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.handleKey(msg)

	case storeLoadedMsg:
		m.setStore(msg.store)
		if msg.err != nil {
			m.setStatus(statusError, fmt.Sprintf("Could not load shortcuts: %v", msg.err))
		} else {
			m.setStatus(statusSuccess, fmt.Sprintf("Reloaded %d categories", msg.store.Len()))
		}
		return m, nil

	case syncFinishedMsg:
		m.busy = false
		m.setStore(msg.store)
		switch {
		case msg.err != nil:
			m.logger.Warn("sync failed", "error", msg.err)
			m.setStatus(statusError, fmt.Sprintf("Sync failed: %v", msg.err))
		case msg.loadErr != nil:
			m.setStatus(statusError, fmt.Sprintf("Could not load shortcuts: %v", msg.loadErr))
		default:
			m.setStatus(statusSuccess, "Synced from cloud")
		}
		return m, nil

	case agentFinishedMsg:
		m.busy = false
		if msg.err != nil {
			m.logger.Warn("agent failed", "error", msg.err)
			m.setStatus(statusWarning, fmt.Sprintf("Agent exited: %v", msg.err))
		} else {
			m.setStatus(statusInfo, "Agent finished")
		}
		return m, reloadCmd(m.backend)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.move(-1)
	case key.Matches(msg, m.keys.Down):
		m.move(1)

	case key.Matches(msg, m.keys.PageUp):
		m.pane.SetYOffset(m.pane.YOffset - m.pane.Height)
	case key.Matches(msg, m.keys.PageDown):
		m.pane.SetYOffset(m.pane.YOffset + m.pane.Height)

	case key.Matches(msg, m.keys.Focus):
		if m.focus == focusSidebar {
			m.focus = focusEntries
		} else {
			m.focus = focusSidebar
		}
		m.refreshPane()

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.SetValue(m.query)
		m.search.CursorEnd()
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.Clear):
		if m.query != "" {
			m.applyQuery("")
			m.setStatus(statusInfo, "")
		}

	case key.Matches(msg, m.keys.Copy):
		m.copySelected()

	case key.Matches(msg, m.keys.Reload):
		m.setStatus(statusInfo, "Reloading...")
		return m, reloadCmd(m.backend)

	case key.Matches(msg, m.keys.Sync):
		if m.busy {
			return m, nil
		}
		m.busy = true
		m.setStatus(statusInfo, "Syncing from cloud...")
		return m, syncCmd(m.backend)

	case key.Matches(msg, m.keys.Agent):
		if m.busy {
			return m, nil
		}
		m.busy = true
		m.setStatus(statusInfo, "Running agent...")
		return m, agentCmd(m.backend)
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		m.search.Reset()
		m.applyQuery("")
		return m, nil
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		if m.shown.Len() == 0 {
			m.setStatus(statusWarning, fmt.Sprintf("No matches for %q", m.query))
		}
		return m, nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if v := m.search.Value(); v != m.query {
		m.applyQuery(v)
	}
	return m, cmd
}

// move shifts the cursor of the focused pane by delta, clamped.
func (m *Model) move(delta int) {
	if m.focus == focusSidebar {
		n := m.shown.Len()
		if n == 0 {
			return
		}
		next := max(0, min(n-1, m.category+delta))
		if next != m.category {
			m.category = next
			m.entry = 0
			m.pane.GotoTop()
		}
		m.refreshPane()
		return
	}

	c, ok := m.selectedCategory()
	if !ok || !c.IsList() {
		m.pane.SetYOffset(m.pane.YOffset + delta)
		return
	}
	if len(c.Entries) == 0 {
		return
	}
	m.entry = max(0, min(len(c.Entries)-1, m.entry+delta))
	m.refreshPane()
}

func (m *Model) copySelected() {
	e, ok := m.selectedEntry()
	if !ok {
		m.setStatus(statusWarning, "Nothing to copy")
		return
	}
	text := copyText(e)
	if text == "" {
		m.setStatus(statusWarning, "Nothing to copy")
		return
	}
	if err := m.copy(text); err != nil {
		m.logger.Warn("clipboard write failed", "error", err)
		m.setStatus(statusError, fmt.Sprintf("Copy failed: %v", err))
		return
	}
	m.setStatus(statusSuccess, fmt.Sprintf("Copied: %s", text))
}
