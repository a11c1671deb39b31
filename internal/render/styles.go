package render

// Glamour standard styles used by repochat
const (
	StyleDark  = "dark"
	StyleLight = "light"
	StyleNoTTY = "notty"
	StyleASCII = "ascii"
)

// StyleForMode returns the markdown style matching the theme flag
func StyleForMode(dark bool) string {
	if dark {
		return StyleDark
	}
	return StyleLight
}

// IsStandardStyle reports whether style names one of glamour's bundled
// styles rather than a JSON file path.
func IsStandardStyle(style string) bool {
	switch style {
	case StyleDark, StyleLight, StyleNoTTY, StyleASCII, "dracula", "tokyo-night", "pink":
		return true
	default:
		return false
	}
}

// StyleInfo describes a style for `repochat config` output
type StyleInfo struct {
	Name        string
	Description string
}

// AvailableStyles lists the bundled markdown styles.
func AvailableStyles() []StyleInfo {
	return []StyleInfo{
		{Name: StyleDark, Description: "Dark terminals (dark mode)"},
		{Name: StyleLight, Description: "Light terminals (default)"},
		{Name: "dracula", Description: "Dracula color scheme"},
		{Name: "tokyo-night", Description: "Tokyo Night color scheme"},
		{Name: StyleNoTTY, Description: "Plain text (no styling)"},
		{Name: StyleASCII, Description: "ASCII-only output"},
	}
}
