package config

import (
	_ "embed"

	"github.com/vovakirdan/tui-blast/internal/games/blast/core"
	"github.com/vovakirdan/tui-blast/internal/games/blast/levels"
)

//go:embed defaults/blast.yaml
var defaultBlastYAML []byte

// DefaultBlastConfig returns the default Blast configuration.
func DefaultBlastConfig() BlastConfig {
	return BlastConfig{
		Engine: EngineConfig{
			MaxShuffles: core.DefaultMaxShuffles,
		},
		Levels: LevelsConfig{
			Dir:     "",
			Default: "level01",
		},
		Play: PlayConfig{
			TickRate:  60,
			StepTicks: 8,
			ShowHints: true,
			Theme:     "default",
		},
		Random: RandomConfig{
			Difficulty: DifficultyNormal,
			Ranges:     levels.DefaultRanges(),
		},
		Simulate: SimulateConfig{
			Runs:       200,
			Workers:    0,
			Strategy:   "greedy",
			Confidence: 0.95,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
