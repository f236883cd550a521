package levels_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-blast/internal/games/blast/core"
	"github.com/vovakirdan/tui-blast/internal/games/blast/levels"
)

func TestGenerateStaysInRange(t *testing.T) {
	rng := core.NewSource(1)
	r := levels.DefaultRanges()

	for i := 0; i < 200; i++ {
		f := levels.Generate(rng, r, "gen")
		require.Empty(t, levels.Validate(f), "generated level %d: %+v", i, f)

		assert.False(t, f.IsStartingGridFixed)
		assert.NotZero(t, f.Seed)
		assert.GreaterOrEqual(t, f.StartingMoveCount, r.MinMoves)
		assert.LessOrEqual(t, f.StartingMoveCount, r.MaxMoves)
		for _, g := range f.Goals {
			assert.GreaterOrEqual(t, g.GoalAmount, r.MinGoalAmount)
			assert.LessOrEqual(t, g.GoalAmount, r.MaxGoalAmount)
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	a := levels.Generate(core.NewSource(5), levels.DefaultRanges(), "x")
	b := levels.Generate(core.NewSource(5), levels.DefaultRanges(), "x")
	assert.Equal(t, a, b)
}

func TestRandomLevelPlays(t *testing.T) {
	lvl, err := levels.Random(core.NewSource(12), levels.DefaultRanges())
	require.NoError(t, err)
	assert.Contains(t, lvl.ID, "random-")

	s, err := lvl.NewSession(0)
	require.NoError(t, err)
	assert.Equal(t, lvl.Config.Seed, s.Seed())
}

func TestRangesCheck(t *testing.T) {
	r := levels.DefaultRanges()
	r.MaxLength = 12
	_, err := levels.Random(core.NewSource(1), r)
	assert.Error(t, err)

	r = levels.DefaultRanges()
	r.MinGoals, r.MaxGoals = 3, 2
	assert.Error(t, r.Check())
	assert.NoError(t, levels.DefaultRanges().Check())
}
