// Package config provides YAML-based configuration loading and
// difficulty presets for Blast.
package config

import (
	"fmt"

	"github.com/vovakirdan/tui-blast/internal/games/blast/levels"
)

// BlastConfig contains all configuration for Blast.
type BlastConfig struct {
	Engine   EngineConfig   `yaml:"engine"`
	Levels   LevelsConfig   `yaml:"levels"`
	Play     PlayConfig     `yaml:"play"`
	Random   RandomConfig   `yaml:"random"`
	Simulate SimulateConfig `yaml:"simulate"`
	Log      LogConfig      `yaml:"log"`
}

// EngineConfig defines board engine parameters.
type EngineConfig struct {
	MaxShuffles int `yaml:"max_shuffles"` // Reshuffle budget when a level does not set one
}

// LevelsConfig defines where levels come from.
type LevelsConfig struct {
	Dir     string `yaml:"dir"`     // Extra level directory; empty means built-in levels only
	Default string `yaml:"default"` // Level started by "play" without an argument
}

// PlayConfig defines interactive play parameters.
type PlayConfig struct {
	TickRate  int    `yaml:"tick_rate"`  // Ticks per second
	StepTicks int    `yaml:"step_ticks"` // Ticks each resolution event stays on screen
	ShowHints bool   `yaml:"show_hints"` // Highlight the group under the cursor
	Theme     string `yaml:"theme"`      // default, neon or pastel
}

// RandomConfig defines random level generation.
type RandomConfig struct {
	Difficulty DifficultyPreset `yaml:"difficulty"`
	Ranges     levels.Ranges    `yaml:"ranges"` // Used as-is with the "fixed" preset
}

// SimulateConfig defines batch autoplay parameters.
type SimulateConfig struct {
	Runs       int     `yaml:"runs"`
	Workers    int     `yaml:"workers"`    // 0 means one per CPU
	Strategy   string  `yaml:"strategy"`   // "greedy" or "random"
	Confidence float64 `yaml:"confidence"` // Win-rate interval confidence, e.g. 0.95
}

// LogConfig defines logging parameters.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Validate reports settings that cannot work.
func (c BlastConfig) Validate() error {
	switch {
	case c.Engine.MaxShuffles < 0:
		return fmt.Errorf("engine.max_shuffles %d must not be negative", c.Engine.MaxShuffles)
	case c.Play.TickRate <= 0:
		return fmt.Errorf("play.tick_rate %d must be positive", c.Play.TickRate)
	case c.Play.StepTicks <= 0:
		return fmt.Errorf("play.step_ticks %d must be positive", c.Play.StepTicks)
	case c.Simulate.Runs <= 0:
		return fmt.Errorf("simulate.runs %d must be positive", c.Simulate.Runs)
	case c.Simulate.Workers < 0:
		return fmt.Errorf("simulate.workers %d must not be negative", c.Simulate.Workers)
	case c.Simulate.Confidence <= 0 || c.Simulate.Confidence >= 1:
		return fmt.Errorf("simulate.confidence %g must be in (0, 1)", c.Simulate.Confidence)
	}
	if !IsValidPreset(c.Random.Difficulty) {
		return fmt.Errorf("random.difficulty %q is not a preset", c.Random.Difficulty)
	}
	if err := c.Random.Ranges.Check(); err != nil {
		return fmt.Errorf("random.ranges: %w", err)
	}
	return nil
}

// RandomRanges returns the generator ranges for the configured preset.
func (c BlastConfig) RandomRanges() levels.Ranges {
	if c.Random.Difficulty == DifficultyFixed {
		return c.Random.Ranges
	}
	return RangesForLevel(InitialLevelForPreset(c.Random.Difficulty))
}
