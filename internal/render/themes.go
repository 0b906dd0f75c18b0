package render

import "strings"

// Markdown style names
const (
	ThemeDark       = "dark"
	ThemeLight      = "light"
	ThemeTokyoNight = "tokyonight"
	ThemeDracula    = "dracula"
	ThemeNoTTY      = "notty"
	ThemeASCII      = "ascii"
)

// styleAliases maps the names used in config to glamour's standard styles
var styleAliases = map[string]string{
	ThemeTokyoNight: "tokyo-night",
	"tokyo_night":   "tokyo-night",
	"plain":         ThemeNoTTY,
}

// ResolveStyle maps a configured style to something glamour.WithStylePath
// accepts. Unknown names are passed through as file paths; an empty name
// yields the dark style.
func ResolveStyle(style string) string {
	style = strings.TrimSpace(style)
	if style == "" {
		return ThemeDark
	}
	if alias, ok := styleAliases[strings.ToLower(style)]; ok {
		return alias
	}
	return style
}

// IsBuiltinStyle reports whether style names a bundled style rather than a file
func IsBuiltinStyle(style string) bool {
	for _, t := range AvailableThemes() {
		if strings.EqualFold(t.Name, style) {
			return true
		}
	}
	_, ok := styleAliases[strings.ToLower(style)]
	return ok
}

// ThemeInfo describes a markdown style for display
type ThemeInfo struct {
	Name        string
	Description string
}

// AvailableThemes lists the bundled markdown styles
func AvailableThemes() []ThemeInfo {
	return []ThemeInfo{
		{Name: ThemeDark, Description: "Dark theme (default)"},
		{Name: ThemeTokyoNight, Description: "Tokyo Night color scheme"},
		{Name: ThemeLight, Description: "Light theme for bright terminals"},
		{Name: ThemeDracula, Description: "Dracula color scheme"},
		{Name: ThemeNoTTY, Description: "Plain text (no styling)"},
		{Name: ThemeASCII, Description: "ASCII-only output"},
	}
}

// ThemeNames returns just the style names
func ThemeNames() []string {
	themes := AvailableThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
