package config

import (
	"math"

	"github.com/vovakirdan/tui-blast/internal/games/blast/levels"
)

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// InitialLevelForPreset returns the difficulty level (0.0 to 1.0) for a preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset uses the configured ranges verbatim.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// IsValidPreset reports whether preset is one of the known presets.
func IsValidPreset(preset DifficultyPreset) bool {
	switch preset {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return true
	}
	return false
}

// RangesForLevel interpolates random level ranges between the easiest (0.0)
// and hardest (1.0) settings. Harder levels have more colors, bigger boards,
// fewer moves, and more and larger goals.
func RangesForLevel(level float64) levels.Ranges {
	level = clampF(level, 0.0, 1.0)
	return levels.Ranges{
		MinColors:     lerp(4, 5, level),
		MaxColors:     lerp(4, 6, level),
		MinLength:     lerp(5, 7, level),
		MaxLength:     lerp(7, 9, level),
		MinMoves:      lerp(30, 10, level),
		MaxMoves:      lerp(50, 25, level),
		MinGoals:      lerp(1, 2, level),
		MaxGoals:      lerp(2, 4, level),
		MinGoalAmount: lerp(1, 8, level),
		MaxGoalAmount: lerp(10, 20, level),
	}
}

// ApplyBlastPreset sets the random level difficulty.
func ApplyBlastPreset(cfg *BlastConfig, preset DifficultyPreset) {
	cfg.Random.Difficulty = preset
	if preset != DifficultyFixed {
		cfg.Random.Ranges = RangesForLevel(InitialLevelForPreset(preset))
	}
}

func lerp(from, to int, level float64) int {
	return int(math.Round(float64(from) + level*float64(to-from)))
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
