package tui

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-blast/internal/core"
)

// Theme holds the styles used to draw the screen buffer and the menus.
type Theme struct {
	Name string

	// Screen colors, keyed by the color a game draws with.
	Colors map[core.Color]lipgloss.Style

	// Menu and results styles
	MenuTitle       lipgloss.Style
	MenuItemNormal  lipgloss.Style
	MenuItemActive  lipgloss.Style
	MenuDescription lipgloss.Style
	MenuControls    lipgloss.Style
}

func fg(c string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
}

// paletteStyles styles every screen color with its own ANSI code.
func paletteStyles() map[core.Color]lipgloss.Style {
	out := make(map[core.Color]lipgloss.Style)
	for _, c := range core.Colors() {
		if code := c.ANSI(); code != "" {
			out[c] = fg(code)
		} else {
			out[c] = lipgloss.NewStyle()
		}
	}
	return out
}

// DefaultTheme uses the terminal's own ANSI palette.
func DefaultTheme() Theme {
	return Theme{
		Name:            "default",
		Colors:          paletteStyles(),
		MenuTitle:       fg("51").Bold(true),
		MenuItemNormal:  fg("252"),
		MenuItemActive:  fg("226").Bold(true),
		MenuDescription: fg("245"),
		MenuControls:    fg("241"),
	}
}

// NeonTheme swaps the tile colors for saturated 256-color ones.
func NeonTheme() Theme {
	t := DefaultTheme()
	t.Name = "neon"
	t.Colors = cloneColors(t.Colors)
	t.Colors[core.ColorBrightRed] = fg("197").Bold(true)
	t.Colors[core.ColorBrightGreen] = fg("118").Bold(true)
	t.Colors[core.ColorBrightBlue] = fg("45").Bold(true)
	t.Colors[core.ColorBrightYellow] = fg("227").Bold(true)
	t.Colors[core.ColorOrange] = fg("214").Bold(true)
	t.Colors[core.ColorMagenta] = fg("171").Bold(true)
	return t
}

// PastelTheme uses softer tile colors.
func PastelTheme() Theme {
	t := DefaultTheme()
	t.Name = "pastel"
	t.Colors = cloneColors(t.Colors)
	t.Colors[core.ColorBrightRed] = fg("217")
	t.Colors[core.ColorBrightGreen] = fg("157")
	t.Colors[core.ColorBrightBlue] = fg("153")
	t.Colors[core.ColorBrightYellow] = fg("229")
	t.Colors[core.ColorOrange] = fg("223")
	t.Colors[core.ColorMagenta] = fg("183")
	return t
}

func cloneColors(src map[core.Color]lipgloss.Style) map[core.Color]lipgloss.Style {
	out := make(map[core.Color]lipgloss.Style, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

var themes = map[string]func() Theme{
	"default": DefaultTheme,
	"neon":    NeonTheme,
	"pastel":  PastelTheme,
}

// ThemeNames lists the built-in themes.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ThemeByName returns a built-in theme. Empty means default.
func ThemeByName(name string) (Theme, error) {
	if name == "" {
		return DefaultTheme(), nil
	}
	f, ok := themes[name]
	if !ok {
		return Theme{}, fmt.Errorf("tui: unknown theme %q (have %v)", name, ThemeNames())
	}
	return f(), nil
}

var activeTheme = DefaultTheme()

// SetTheme sets the theme used by all views.
func SetTheme(t Theme) {
	activeTheme = t
}

// CurrentTheme returns the active theme.
func CurrentTheme() Theme {
	return activeTheme
}
