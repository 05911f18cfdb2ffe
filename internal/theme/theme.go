package theme

import "strings"

// Theme is the page color scheme
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// PreferenceKey is the storage key the choice is saved under
const PreferenceKey = "theme"

// Parse accepts "light" or "dark" in any case
func Parse(s string) (Theme, bool) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, true
	case Dark:
		return Dark, true
	}
	return "", false
}

// Resolve picks the saved theme when there is one, otherwise follows the
// system preference.
func Resolve(saved string, systemDark bool) Theme {
	if t, ok := Parse(saved); ok {
		return t
	}
	if systemDark {
		return Dark
	}
	return Light
}

// Toggle flips between light and dark
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// SystemPrefersDark reads the Sec-CH-Prefers-Color-Scheme client hint
func SystemPrefersDark(hint string) bool {
	return strings.EqualFold(strings.Trim(strings.TrimSpace(hint), `"`), "dark")
}
