package payload

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Theme assigns a color to each kind of token the formatter highlights.
type Theme struct {
	Key      lipgloss.Color
	String   lipgloss.Color
	Number   lipgloss.Color
	Boolean  lipgloss.Color
	Null     lipgloss.Color
	Bracket  lipgloss.Color
	Text     lipgloss.Color
	Title    lipgloss.Color
	MDHeader lipgloss.Color
	Code     lipgloss.Color
	Comment  lipgloss.Color
	XMLTag   lipgloss.Color
	DiffAdd  lipgloss.Color
	DiffDel  lipgloss.Color
}

// ANSI palette indexes.
const (
	red           = lipgloss.Color("1")
	green         = lipgloss.Color("2")
	yellow        = lipgloss.Color("3")
	magenta       = lipgloss.Color("5")
	white         = lipgloss.Color("7")
	brightBlack   = lipgloss.Color("8")
	brightRed     = lipgloss.Color("9")
	brightGreen   = lipgloss.Color("10")
	brightYellow  = lipgloss.Color("11")
	brightBlue    = lipgloss.Color("12")
	brightMagenta = lipgloss.Color("13")
	brightCyan    = lipgloss.Color("14")
	brightWhite   = lipgloss.Color("15")
)

var themes = map[string]Theme{
	"chatgpt": {
		Key:      brightCyan,
		String:   brightGreen,
		Number:   brightYellow,
		Boolean:  brightMagenta,
		Null:     brightBlack,
		Bracket:  brightWhite,
		Text:     white,
		Title:    brightCyan,
		MDHeader: brightMagenta,
		Code:     brightGreen,
		Comment:  brightBlack,
		XMLTag:   brightCyan,
		DiffAdd:  brightGreen,
		DiffDel:  brightRed,
	},
	"matrix": {
		Key:      green,
		String:   brightGreen,
		Number:   green,
		Boolean:  green,
		Null:     green,
		Bracket:  green,
		Text:     green,
		Title:    brightGreen,
		MDHeader: brightGreen,
		Code:     green,
		Comment:  green,
		XMLTag:   green,
		DiffAdd:  green,
		DiffDel:  red,
	},
	"monokai": {
		Key:      yellow,
		String:   green,
		Number:   magenta,
		Boolean:  red,
		Null:     brightBlack,
		Bracket:  white,
		Text:     white,
		Title:    yellow,
		MDHeader: magenta,
		Code:     green,
		Comment:  brightBlack,
		XMLTag:   yellow,
		DiffAdd:  green,
		DiffDel:  red,
	},
}

// roleColors tags chat history headers.
var roleColors = map[string]lipgloss.Color{
	RoleUser:      brightBlue,
	RoleAssistant: brightGreen,
	RoleSystem:    brightMagenta,
	RoleTool:      yellow,
}

// ThemeByName looks up a built-in theme.
func ThemeByName(name string) (Theme, error) {
	t, ok := themes[name]
	if !ok {
		return Theme{}, fmt.Errorf("unknown theme %q (available: %v)", name, ThemeNames())
	}
	return t, nil
}

// ThemeNames lists the built-in themes in sorted order.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
