// Package core provides the board simulation engine for the Blast tile-matching game.
// This package is UI-agnostic and deterministic under a fixed seed.
package core

import "strings"

// Color is the color of a tile. ColorNone marks an empty cell.
type Color uint8

const (
	ColorNone Color = iota
	ColorRed
	ColorGreen
	ColorBlue
	ColorYellow
	ColorOrange
	ColorViolet
	colorEnd // Sentinel value for iteration
)

// String returns the string representation of a color.
func (c Color) String() string {
	switch c {
	case ColorNone:
		return "none"
	case ColorRed:
		return "red"
	case ColorGreen:
		return "green"
	case ColorBlue:
		return "blue"
	case ColorYellow:
		return "yellow"
	case ColorOrange:
		return "orange"
	case ColorViolet:
		return "violet"
	default:
		return "unknown"
	}
}

// Char returns the single letter used for the color in level files and ASCII output.
func (c Color) Char() rune {
	switch c {
	case ColorRed:
		return 'R'
	case ColorGreen:
		return 'G'
	case ColorBlue:
		return 'B'
	case ColorYellow:
		return 'Y'
	case ColorOrange:
		return 'O'
	case ColorViolet:
		return 'V'
	default:
		return '.'
	}
}

// Valid reports whether c is a tile color (not ColorNone).
func (c Color) Valid() bool {
	return c > ColorNone && c < colorEnd
}

// ParseColor converts a letter ("R") or name ("red") to a Color, case-insensitively.
// Returns ColorNone and false if the string is not recognized.
func ParseColor(s string) (Color, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "r", "red":
		return ColorRed, true
	case "g", "green":
		return ColorGreen, true
	case "b", "blue":
		return ColorBlue, true
	case "y", "yellow":
		return ColorYellow, true
	case "o", "orange":
		return ColorOrange, true
	case "v", "violet", "purple":
		return ColorViolet, true
	default:
		return ColorNone, false
	}
}

// AllColors returns every tile color in declaration order.
func AllColors() []Color {
	colors := make([]Color, 0, int(colorEnd)-1)
	for c := ColorRed; c < colorEnd; c++ {
		colors = append(colors, c)
	}
	return colors
}

// Palette is the ordered set of colors a level may generate.
type Palette []Color

// Contains reports whether c is part of the palette.
func (p Palette) Contains(c Color) bool {
	for _, pc := range p {
		if pc == c {
			return true
		}
	}
	return false
}
