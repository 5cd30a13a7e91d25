package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/shortcuts/internal/store"
	"github.com/Iron-Ham/shortcuts/internal/tui/styles"
	"github.com/Iron-Ham/shortcuts/internal/util"
)

const searchBarHeight = 1

// resize recomputes the pane dimensions after a window size change.
func (m *Model) resize() {
	bodyHeight := m.height - headerHeight - footerHeight - searchBarHeight
	m.pane.Width = max(10, m.width-m.sidebarWidth-paneChromeWidth)
	m.pane.Height = max(1, bodyHeight-paneChromeHeight)
	m.refreshPane()
}

// refreshPane re-renders the entries of the selected category into the
// viewport and scrolls the selected entry into view.
func (m *Model) refreshPane() {
	content, first, last := m.renderEntries(m.pane.Width)
	m.pane.SetContent(content)
	if m.pane.Height <= 0 || first < 0 {
		return
	}
	switch {
	case first < m.pane.YOffset:
		m.pane.SetYOffset(first)
	case last >= m.pane.YOffset+m.pane.Height:
		m.pane.SetYOffset(last - m.pane.Height + 1)
	}
}

// renderEntries returns the pane content and the first and last line of the
// selected entry, or -1 when no entry is selected.
func (m Model) renderEntries(width int) (string, int, int) {
	c, ok := m.selectedCategory()
	if !ok {
		if m.query != "" {
			return styles.Muted.Render(fmt.Sprintf("No matches for %q", m.query)), -1, -1
		}
		return styles.Muted.Render("No shortcuts yet"), -1, -1
	}
	if !c.IsList() {
		return styles.Scalar.Render(util.Wrap(c.ScalarText(), width)), -1, -1
	}
	if len(c.Entries) == 0 {
		return styles.Muted.Render("This category is empty"), -1, -1
	}

	divider := styles.CardDivider.Render(strings.Repeat("─", max(1, width)))
	var lines []string
	first, last := -1, -1
	for i, e := range c.Entries {
		if i > 0 {
			lines = append(lines, divider)
		}
		selected := i == m.entry
		if selected {
			first = len(lines)
		}
		marker := "  "
		if selected && m.focus == focusEntries {
			marker = styles.CardMarker.Render("▌ ")
		}
		for _, line := range renderCard(e, width-2) {
			lines = append(lines, marker+line)
		}
		if selected {
			last = len(lines) - 1
		}
	}
	return strings.Join(lines, "\n"), first, last
}

// renderCard lays out one entry with a hanging indent under each label.
func renderCard(e store.Entry, width int) []string {
	var lines []string
	for _, f := range e.DisplayFields() {
		if f.Label == "" {
			for _, l := range strings.Split(util.Wrap(f.Value, width), "\n") {
				lines = append(lines, styles.CardValue.Render(l))
			}
			continue
		}
		label := f.Label + ": "
		pad := len(label)
		wrapped := strings.Split(util.Wrap(f.Value, max(1, width-pad)), "\n")
		for i, l := range wrapped {
			prefix := strings.Repeat(" ", pad)
			if i == 0 {
				prefix = styles.CardLabel.Render(label)
			}
			lines = append(lines, prefix+styles.CardValue.Render(l))
		}
	}
	if len(lines) == 0 {
		lines = append(lines, styles.Muted.Render("(empty entry)"))
	}
	return lines
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	sidebar := m.renderSidebar()
	pane := styles.Pane
	if m.focus == focusEntries {
		pane = styles.PaneFocused
	}
	entries := pane.
		Width(m.pane.Width + paneChromeWidth - 2).
		Height(m.pane.Height).
		Render(m.pane.View())

	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, entries)
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderSearchBar(),
		m.renderFooter(),
	)
}

func (m Model) renderHeader() string {
	title := styles.Title.Render("Shortcuts")
	info := fmt.Sprintf("%d categories · %d entries", m.all.Len(), m.all.EntryCount())
	if m.query != "" {
		info += fmt.Sprintf(" · showing %d", m.shown.Len())
	}
	return styles.Header.Width(max(0, m.width)).Render(title + styles.SearchInfo.Render(info))
}

func (m Model) renderSidebar() string {
	inner := m.sidebarWidth - paneChromeWidth
	var b strings.Builder
	for i, name := range m.shown.Names() {
		label := util.TruncateString(name, max(4, inner-2))
		if i == m.category {
			b.WriteString(styles.SidebarItemActive.Width(inner).Render(label))
		} else {
			b.WriteString(styles.SidebarItem.Width(inner).Render(label))
		}
		if i < m.shown.Len()-1 {
			b.WriteString("\n")
		}
	}
	if m.shown.Len() == 0 {
		b.WriteString(styles.Muted.Render("(none)"))
	}

	box := styles.Pane
	if m.focus == focusSidebar {
		box = styles.PaneFocused
	}
	return box.Width(inner + 2).Height(m.pane.Height).Render(b.String())
}

func (m Model) renderSearchBar() string {
	if m.searching {
		return m.search.View()
	}
	if m.query != "" {
		return styles.SearchPrompt.Render("/ ") + m.query + styles.SearchInfo.Render("esc to clear")
	}
	return ""
}

func (m Model) renderFooter() string {
	if m.status == "" {
		return m.help.View(m.keys)
	}
	var style lipgloss.Style
	switch m.statusKind {
	case statusSuccess:
		style = styles.SuccessMsg
	case statusWarning:
		style = styles.WarningMsg
	case statusError:
		style = styles.ErrorMsg
	default:
		style = styles.Muted
	}
	return style.Render(util.TruncateANSI(m.status, max(4, m.width))) + "\n" + m.help.View(m.keys)
}
