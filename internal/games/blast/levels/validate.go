package levels

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-blast/internal/games/blast/core"
	"github.com/vovakirdan/tui-blast/internal/games/blast/levels/formats"
)

// Limits accepted by the level validator.
const (
	MinColorCount  = 4
	MaxColorCount  = 6
	MinGridLength  = 5
	MaxGridLength  = 9
	MinGoalCount   = 1
	MaxGoalCount   = 4
	MinGoalAmount  = 1
	MinMoveCount   = 1
	anyGoalCode    = "A"
	colorLetterSet = "RGBYOV"
)

// ValidationError contains details about validation failure.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Validate checks a level file against the authoring rules. It returns every
// problem found, in file order; an empty result means the level is playable.
func Validate(f formats.File) []ValidationError {
	var errs []ValidationError
	add := func(code, format string, args ...any) {
		errs = append(errs, ValidationError{Code: code, Message: fmt.Sprintf(format, args...)})
	}

	if f.ColorCount < MinColorCount || f.ColorCount > MaxColorCount {
		add("COLOR_COUNT", "color count %d outside %d..%d", f.ColorCount, MinColorCount, MaxColorCount)
	}
	if len(f.ColorPalette) != f.ColorCount {
		add("PALETTE_SIZE", "palette has %d colors, color count is %d", len(f.ColorPalette), f.ColorCount)
	}
	palette := make(map[string]bool, len(f.ColorPalette))
	for _, entry := range f.ColorPalette {
		switch {
		case !isColorLetter(entry):
			add("PALETTE_ENTRY", "palette entry %q is not one of %s", entry, colorLetterSet)
		case palette[entry]:
			add("PALETTE_REPEAT", "palette entry %q is repeated", entry)
		}
		palette[entry] = true
	}

	if f.GridLength < MinGridLength || f.GridLength > MaxGridLength {
		add("GRID_LENGTH", "grid length %d outside %d..%d", f.GridLength, MinGridLength, MaxGridLength)
	}

	if f.IsStartingGridFixed {
		want := f.GridLength * f.GridLength
		switch {
		case len(f.StartingGrid) == 0:
			add("GRID_MISSING", "starting grid is fixed but empty")
		case len(f.StartingGrid) != want:
			add("GRID_SIZE", "starting grid has %d entries, want %d", len(f.StartingGrid), want)
		default:
			for i, entry := range f.StartingGrid {
				if !palette[entry] {
					add("GRID_ENTRY", "starting grid entry %d (%q) is not in the palette", i, entry)
					break
				}
			}
		}
	}

	if len(f.Goals) < MinGoalCount || len(f.Goals) > MaxGoalCount {
		add("GOAL_COUNT", "%d goals, want %d..%d", len(f.Goals), MinGoalCount, MaxGoalCount)
	}
	seen := make(map[string]bool, len(f.Goals))
	for i, g := range f.Goals {
		if g.GoalType != anyGoalCode && !palette[g.GoalType] {
			add("GOAL_TYPE", "goal %d type %q is not in the palette and is not %q", i, g.GoalType, anyGoalCode)
		}
		if seen[g.GoalType] {
			add("GOAL_REPEAT", "goal type %q is repeated", g.GoalType)
		}
		seen[g.GoalType] = true
		if g.GoalAmount < MinGoalAmount {
			add("GOAL_AMOUNT", "goal %d amount %d must be positive", i, g.GoalAmount)
		}
	}

	if f.StartingMoveCount < MinMoveCount {
		add("MOVE_COUNT", "starting move count %d must be positive", f.StartingMoveCount)
	}
	if f.MaxShuffles < 0 {
		add("MAX_SHUFFLES", "max shuffles %d must not be negative", f.MaxShuffles)
	}

	return errs
}

func isColorLetter(s string) bool {
	return len(s) == 1 && strings.Contains(colorLetterSet, s)
}

// Decode converts a validated level file into the engine's level configuration.
func Decode(f formats.File) (core.LevelConfig, error) {
	if errs := Validate(f); len(errs) > 0 {
		return core.LevelConfig{}, fmt.Errorf("level %q: %w", f.Name, errs[0])
	}

	cfg := core.LevelConfig{
		Length:        f.GridLength,
		Palette:       make(core.Palette, len(f.ColorPalette)),
		StartingMoves: f.StartingMoveCount,
		Seed:          f.Seed,
		MaxShuffles:   f.MaxShuffles,
	}
	for i, entry := range f.ColorPalette {
		c, _ := core.ParseColor(entry)
		cfg.Palette[i] = c
	}
	if f.IsStartingGridFixed {
		cfg.StartingGrid = make([]core.Color, len(f.StartingGrid))
		for i, entry := range f.StartingGrid {
			c, _ := core.ParseColor(entry)
			cfg.StartingGrid[i] = c
		}
	}
	for _, g := range f.Goals {
		gt, _ := core.ParseGoalType(g.GoalType)
		cfg.Goals = append(cfg.Goals, core.GoalSpec{Type: gt, Amount: g.GoalAmount})
	}
	return cfg, nil
}

// Encode converts an engine configuration back to the file format.
func Encode(name string, cfg core.LevelConfig) formats.File {
	f := formats.File{
		Name:              name,
		Seed:              cfg.Seed,
		ColorCount:        len(cfg.Palette),
		GridLength:        cfg.Length,
		StartingMoveCount: cfg.StartingMoves,
		MaxShuffles:       cfg.MaxShuffles,
	}
	for _, c := range cfg.Palette {
		f.ColorPalette = append(f.ColorPalette, string(c.Char()))
	}
	if cfg.StartingGrid != nil {
		f.IsStartingGridFixed = true
		for _, c := range cfg.StartingGrid {
			f.StartingGrid = append(f.StartingGrid, string(c.Char()))
		}
	}
	for _, g := range cfg.Goals {
		f.Goals = append(f.Goals, formats.Goal{GoalType: g.Type.Code(), GoalAmount: g.Amount})
	}
	return f
}
