// Package styles holds the lipgloss palette for the terminal viewer.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors meet WCAG AA contrast on both black and dark surfaces
	PrimaryColor   = lipgloss.Color("#A78BFA") // Purple
	SecondaryColor = lipgloss.Color("#10B981") // Green
	WarningColor   = lipgloss.Color("#F59E0B") // Amber
	ErrorColor     = lipgloss.Color("#F87171") // Red
	MutedColor     = lipgloss.Color("#9CA3AF") // Gray
	SurfaceColor   = lipgloss.Color("#1F2937") // Dark surface
	TextColor      = lipgloss.Color("#F9FAFB") // Light text
	BorderColor    = lipgloss.Color("#6B7280") // Gray
	AccentColor    = lipgloss.Color("#60A5FA") // Blue

	Muted = lipgloss.NewStyle().Foreground(MutedColor)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(PrimaryColor)

	Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(PrimaryColor).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(BorderColor)

	// Pane borders; the focused pane gets the primary color.
	Pane = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderColor).
		Padding(0, 1)

	PaneFocused = Pane.BorderForeground(PrimaryColor)

	SidebarItem = lipgloss.NewStyle().
			Padding(0, 1)

	SidebarItemActive = lipgloss.NewStyle().
				Bold(true).
				Foreground(TextColor).
				Background(PrimaryColor).
				Padding(0, 1)

	// Entry cards
	CardLabel = lipgloss.NewStyle().
			Bold(true).
			Foreground(SecondaryColor)

	CardValue = lipgloss.NewStyle().
			Foreground(TextColor)

	CardMarker = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	CardDivider = lipgloss.NewStyle().
			Foreground(BorderColor)

	Scalar = lipgloss.NewStyle().
		Foreground(AccentColor).
		Italic(true)

	// Search
	SearchPrompt = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true)

	SearchInfo = lipgloss.NewStyle().
			Foreground(MutedColor).
			MarginLeft(2)

	StatusBar = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(SurfaceColor).
			Padding(0, 1)

	ErrorMsg = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	SuccessMsg = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true)

	WarningMsg = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)
)
