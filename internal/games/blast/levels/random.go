package levels

import (
	"fmt"

	"github.com/vovakirdan/tui-blast/internal/games/blast/core"
	"github.com/vovakirdan/tui-blast/internal/games/blast/levels/formats"
)

// Ranges bounds the parameters of generated levels. All bounds are inclusive.
type Ranges struct {
	MinColors     int `yaml:"min_colors"`
	MaxColors     int `yaml:"max_colors"`
	MinLength     int `yaml:"min_length"`
	MaxLength     int `yaml:"max_length"`
	MinMoves      int `yaml:"min_moves"`
	MaxMoves      int `yaml:"max_moves"`
	MinGoals      int `yaml:"min_goals"`
	MaxGoals      int `yaml:"max_goals"`
	MinGoalAmount int `yaml:"min_goal_amount"`
	MaxGoalAmount int `yaml:"max_goal_amount"`
}

// DefaultRanges returns the widest ranges the validator accepts.
func DefaultRanges() Ranges {
	return Ranges{
		MinColors:     MinColorCount,
		MaxColors:     MaxColorCount,
		MinLength:     MinGridLength,
		MaxLength:     MaxGridLength,
		MinMoves:      10,
		MaxMoves:      50,
		MinGoals:      MinGoalCount,
		MaxGoals:      MaxGoalCount,
		MinGoalAmount: 1,
		MaxGoalAmount: 20,
	}
}

// Check reports ranges that would produce levels the validator rejects.
func (r Ranges) Check() error {
	switch {
	case r.MinColors < MinColorCount || r.MaxColors > MaxColorCount || r.MinColors > r.MaxColors:
		return fmt.Errorf("colors %d..%d not within %d..%d", r.MinColors, r.MaxColors, MinColorCount, MaxColorCount)
	case r.MinLength < MinGridLength || r.MaxLength > MaxGridLength || r.MinLength > r.MaxLength:
		return fmt.Errorf("length %d..%d not within %d..%d", r.MinLength, r.MaxLength, MinGridLength, MaxGridLength)
	case r.MinMoves < MinMoveCount || r.MinMoves > r.MaxMoves:
		return fmt.Errorf("moves %d..%d", r.MinMoves, r.MaxMoves)
	case r.MinGoals < MinGoalCount || r.MaxGoals > MaxGoalCount || r.MinGoals > r.MaxGoals:
		return fmt.Errorf("goals %d..%d not within %d..%d", r.MinGoals, r.MaxGoals, MinGoalCount, MaxGoalCount)
	case r.MinGoalAmount < MinGoalAmount || r.MinGoalAmount > r.MaxGoalAmount:
		return fmt.Errorf("goal amount %d..%d", r.MinGoalAmount, r.MaxGoalAmount)
	}
	return nil
}

func between(rng core.Source, lo, hi int) int {
	return lo + rng.IntN(hi-lo+1)
}

// Generate draws a random level within r. The palette is the first colorCount
// colors; goals are distinct types drawn from the palette's collect goals plus
// collect-any. The starting grid is left random and the level gets its own
// non-zero seed so it can be replayed.
func Generate(rng core.Source, r Ranges, name string) formats.File {
	colors := between(rng, r.MinColors, r.MaxColors)
	all := core.AllColors()

	f := formats.File{
		Name:              name,
		ColorCount:        colors,
		GridLength:        between(rng, r.MinLength, r.MaxLength),
		StartingMoveCount: between(rng, r.MinMoves, r.MaxMoves),
	}
	candidates := make([]string, 0, colors+1)
	for _, c := range all[:colors] {
		f.ColorPalette = append(f.ColorPalette, string(c.Char()))
		candidates = append(candidates, string(c.Char()))
	}
	candidates = append(candidates, anyGoalCode)

	goals := between(rng, r.MinGoals, r.MaxGoals)
	for i := 0; i < goals && len(candidates) > 0; i++ {
		k := rng.IntN(len(candidates))
		f.Goals = append(f.Goals, formats.Goal{
			GoalType:   candidates[k],
			GoalAmount: between(rng, r.MinGoalAmount, r.MaxGoalAmount),
		})
		candidates = append(candidates[:k], candidates[k+1:]...)
	}

	f.Seed = int64(rng.IntN(1<<31-1)) + 1
	return f
}

// Random generates a level and decodes it, ready to play.
func Random(rng core.Source, r Ranges) (Level, error) {
	if err := r.Check(); err != nil {
		return Level{}, fmt.Errorf("random level ranges: %w", err)
	}
	f := Generate(rng, r, "Random")
	cfg, err := Decode(f)
	if err != nil {
		return Level{}, err
	}
	id := fmt.Sprintf("random-%d", f.Seed)
	f.ID = id
	return Level{ID: id, Name: f.Name, File: f, Config: cfg}, nil
}
