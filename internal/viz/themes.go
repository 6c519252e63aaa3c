package viz

import "github.com/charmbracelet/lipgloss"

// Theme is a colour scheme for the live view.
type Theme struct {
	Name       string
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
}

var (
	// ThemeGranite is the default: neutral greys with a red climber
	// accent, readable on dark and light terminals alike.
	ThemeGranite = Theme{
		Name:       "granite",
		Primary:    lipgloss.Color("#d4d4d4"),
		Secondary:  lipgloss.Color("#8fa5b5"),
		Accent:     lipgloss.Color("#e05252"),
		Background: lipgloss.Color("#1c1c1c"),
		Text:       lipgloss.Color("#e8e8e8"),
		Muted:      lipgloss.Color("#6b6b6b"),
		Success:    lipgloss.Color("#7bc96f"),
		Warning:    lipgloss.Color("#e5b567"),
		Error:      lipgloss.Color("#e05252"),
	}

	// ThemePhosphor is a single-hue green scheme for phosphor
	// nostalgia.
	ThemePhosphor = Theme{
		Name:       "phosphor",
		Primary:    lipgloss.Color("#33ff66"),
		Secondary:  lipgloss.Color("#22cc44"),
		Accent:     lipgloss.Color("#99ffbb"),
		Background: lipgloss.Color("#001100"),
		Text:       lipgloss.Color("#33ff66"),
		Muted:      lipgloss.Color("#116622"),
		Success:    lipgloss.Color("#99ffbb"),
		Warning:    lipgloss.Color("#ffff66"),
		Error:      lipgloss.Color("#ff5544"),
	}

	// ThemeAlpenglow leans warm: sandstone wall, sunset sky.
	ThemeAlpenglow = Theme{
		Name:       "alpenglow",
		Primary:    lipgloss.Color("#ff8c69"),
		Secondary:  lipgloss.Color("#ffb347"),
		Accent:     lipgloss.Color("#d98cff"),
		Background: lipgloss.Color("#2b1a2e"),
		Text:       lipgloss.Color("#fff0e8"),
		Muted:      lipgloss.Color("#8c6b7d"),
		Success:    lipgloss.Color("#6fd08c"),
		Warning:    lipgloss.Color("#ffc24d"),
		Error:      lipgloss.Color("#ff4d5e"),
	}

	CurrentTheme = ThemeGranite

	Themes = []Theme{ThemeGranite, ThemePhosphor, ThemeAlpenglow}
)

// GetTheme returns a theme by name, falling back to the default.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeGranite
}

// SetTheme changes the current theme.
func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// ThemeNames returns the available theme names in cycling order.
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
