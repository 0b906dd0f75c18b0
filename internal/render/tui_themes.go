package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TUITheme is the color scheme of the chat interface
type TUITheme struct {
	Name        string
	Description string

	Background lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color

	Primary   lipgloss.Color // user messages, focus
	Secondary lipgloss.Color // tutor messages
	Accent    lipgloss.Color // active conversation
	Warning   lipgloss.Color
	Error     lipgloss.Color

	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color
}

var (
	// TokyoNightTheme is the default theme
	TokyoNightTheme = TUITheme{
		Name:        "tokyonight",
		Description: "Tokyo Night - Dark theme with blue accents",

		Background: lipgloss.Color("#1a1b26"),
		Surface:    lipgloss.Color("#24283b"),
		Border:     lipgloss.Color("#414868"),

		Primary:   lipgloss.Color("#7aa2f7"),
		Secondary: lipgloss.Color("#9ece6a"),
		Accent:    lipgloss.Color("#bb9af7"),
		Warning:   lipgloss.Color("#e0af68"),
		Error:     lipgloss.Color("#f7768e"),

		Text:     lipgloss.Color("#c0caf5"),
		TextDim:  lipgloss.Color("#565f89"),
		TextMute: lipgloss.Color("#3b4261"),
	}

	// CatppuccinMochaTheme uses the Catppuccin Mocha palette
	CatppuccinMochaTheme = TUITheme{
		Name:        "catppuccin",
		Description: "Catppuccin Mocha - Warm dark theme with pastel colors",

		Background: lipgloss.Color("#1e1e2e"),
		Surface:    lipgloss.Color("#313244"),
		Border:     lipgloss.Color("#45475a"),

		Primary:   lipgloss.Color("#89b4fa"),
		Secondary: lipgloss.Color("#a6e3a1"),
		Accent:    lipgloss.Color("#cba6f7"),
		Warning:   lipgloss.Color("#f9e2af"),
		Error:     lipgloss.Color("#f38ba8"),

		Text:     lipgloss.Color("#cdd6f4"),
		TextDim:  lipgloss.Color("#6c7086"),
		TextMute: lipgloss.Color("#45475a"),
	}

	// ClassroomTheme is a light scheme for bright terminals
	ClassroomTheme = TUITheme{
		Name:        "classroom",
		Description: "Classroom - Light theme with blue and green accents",

		Background: lipgloss.Color("#ffffff"),
		Surface:    lipgloss.Color("#f1f5f9"),
		Border:     lipgloss.Color("#cbd5e1"),

		Primary:   lipgloss.Color("#2563eb"),
		Secondary: lipgloss.Color("#059669"),
		Accent:    lipgloss.Color("#7c3aed"),
		Warning:   lipgloss.Color("#d97706"),
		Error:     lipgloss.Color("#dc2626"),

		Text:     lipgloss.Color("#0f172a"),
		TextDim:  lipgloss.Color("#64748b"),
		TextMute: lipgloss.Color("#94a3b8"),
	}
)

// TUIThemeByName returns the theme with the given name, case-insensitively
func TUIThemeByName(name string) (TUITheme, bool) {
	for _, theme := range AvailableTUIThemes() {
		if strings.EqualFold(theme.Name, name) {
			return theme, true
		}
	}
	return TUITheme{}, false
}

// TUIThemeOrDefault returns the named theme or TokyoNightTheme
func TUIThemeOrDefault(name string) TUITheme {
	if theme, ok := TUIThemeByName(name); ok {
		return theme
	}
	return TokyoNightTheme
}

// AvailableTUIThemes lists the built-in themes
func AvailableTUIThemes() []TUITheme {
	return []TUITheme{
		TokyoNightTheme,
		CatppuccinMochaTheme,
		ClassroomTheme,
	}
}

// TUIThemeNames returns just the theme names
func TUIThemeNames() []string {
	themes := AvailableTUIThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
