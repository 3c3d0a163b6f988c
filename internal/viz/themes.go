package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines color scheme for the TUI
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Axes    lipgloss.Color
	// Trails colors trajectories in order, wrapping around.
	Trails []lipgloss.Color
}

// Available themes
var (
	ThemeCyberpunk = Theme{
		Name:    "cyberpunk",
		Primary: lipgloss.Color("#ff00ff"),
		Accent:  lipgloss.Color("#ffff00"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#666666"),
		Axes:    lipgloss.Color("#444466"),
		Trails:  []lipgloss.Color{"#00ffff", "#ff00ff", "#00ff88", "#ff8800", "#8888ff", "#ff4488", "#88ff00", "#ffffff"},
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Primary: lipgloss.Color("#00ff00"),
		Accent:  lipgloss.Color("#88ff88"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Axes:    lipgloss.Color("#004400"),
		Trails:  []lipgloss.Color{"#00ff00", "#00cc00", "#88ff88", "#009900"},
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Primary: lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#0088ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Axes:    lipgloss.Color("#ffffff"),
		Trails:  []lipgloss.Color{"#ffffff", "#cccccc", "#999999"},
	}

	ThemeOcean = Theme{
		Name:    "ocean",
		Primary: lipgloss.Color("#0077be"),
		Accent:  lipgloss.Color("#ffd700"),
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#4488aa"),
		Axes:    lipgloss.Color("#224466"),
		Trails:  []lipgloss.Color{"#00a8cc", "#0077be", "#00ff88", "#e0f0ff"},
	}

	ThemeSunset = Theme{
		Name:    "sunset",
		Primary: lipgloss.Color("#ff6b6b"),
		Accent:  lipgloss.Color("#ff9ff3"),
		Text:    lipgloss.Color("#fff5f5"),
		Muted:   lipgloss.Color("#8b6b8c"),
		Axes:    lipgloss.Color("#5d3b5e"),
		Trails:  []lipgloss.Color{"#feca57", "#ff6b6b", "#5fd068", "#ffc048"},
	}

	// All available themes
	Themes = []Theme{
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeMinimal,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to cyberpunk.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeCyberpunk
}

// NextTheme returns the theme after t in Themes.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// TrailColor is the color of trajectory i.
func (t Theme) TrailColor(i int) lipgloss.Color {
	if len(t.Trails) == 0 {
		return t.Primary
	}
	return t.Trails[i%len(t.Trails)]
}

// PenStyles maps canvas pens to styles for n trajectories.
func (t Theme) PenStyles(n int) []lipgloss.Style {
	n = min(n, maxTrailPens)
	styles := make([]lipgloss.Style, int(PenTrail)+n)
	styles[PenAxes] = lipgloss.NewStyle().Foreground(t.Axes)
	styles[PenMarker] = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	for i := 0; i < n; i++ {
		styles[int(PenTrail)+i] = lipgloss.NewStyle().Foreground(t.TrailColor(i))
	}
	return styles
}
