package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the viewer on the alternate screen and blocks until the user
// quits.
func Run(backend Backend, opts ...Option) error {
	p := tea.NewProgram(New(backend, opts...), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
