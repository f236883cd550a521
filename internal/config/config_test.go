package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultsMatchCode(t *testing.T) {
	cfg := DefaultBlastConfig()
	require.NoError(t, yaml.Unmarshal(defaultBlastYAML, &cfg))
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultBlastConfig(), cfg)
}

func TestLoadBlastCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blast.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
engine:
  max_shuffles: 3
random:
  difficulty: hard
simulate:
  runs: 50
`), 0o600))

	cfg, err := LoadBlast(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Engine.MaxShuffles)
	assert.Equal(t, DifficultyHard, cfg.Random.Difficulty)
	assert.Equal(t, 50, cfg.Simulate.Runs)
	// Untouched keys keep their defaults.
	assert.Equal(t, 60, cfg.Play.TickRate)
	assert.Equal(t, "greedy", cfg.Simulate.Strategy)
}

func TestLoadBlastErrors(t *testing.T) {
	_, err := LoadBlast(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("play:\n  tick_rate: 0\n"), 0o600))
	_, err = LoadBlast(path)
	assert.ErrorContains(t, err, "tick_rate")

	require.NoError(t, os.WriteFile(path, []byte("random:\n  difficulty: brutal\n"), 0o600))
	_, err = LoadBlast(path)
	assert.ErrorContains(t, err, "brutal")
}

func TestRangesForLevel(t *testing.T) {
	for _, level := range []float64{-1, 0, 0.1, 0.3, 0.5, 0.7, 0.9, 1, 2} {
		r := RangesForLevel(level)
		assert.NoError(t, r.Check(), "level %v: %+v", level, r)
	}

	easy := RangesForLevel(InitialLevelForPreset(DifficultyEasy))
	hard := RangesForLevel(InitialLevelForPreset(DifficultyHard))
	assert.Less(t, hard.MaxMoves, easy.MaxMoves)
	assert.Greater(t, hard.MaxGoalAmount, easy.MaxGoalAmount)
	assert.GreaterOrEqual(t, hard.MaxColors, easy.MaxColors)
}

func TestApplyBlastPreset(t *testing.T) {
	cfg := DefaultBlastConfig()
	custom := cfg.Random.Ranges

	ApplyBlastPreset(&cfg, DifficultyEasy)
	assert.Equal(t, RangesForLevel(0), cfg.RandomRanges())

	cfg = DefaultBlastConfig()
	ApplyBlastPreset(&cfg, DifficultyFixed)
	assert.True(t, IsFixedPreset(cfg.Random.Difficulty))
	assert.Equal(t, custom, cfg.RandomRanges())
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "x.db"), ExpandHome("~/x.db"))
	assert.Equal(t, "/tmp/x.db", ExpandHome("/tmp/x.db"))
}
