package levels_test

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-blast/internal/games/blast/core"
	"github.com/vovakirdan/tui-blast/internal/games/blast/levels"
)

func TestLoaderLoadAll(t *testing.T) {
	loader := levels.NewLoader("testdata/levels")

	lvls, skipped, err := loader.Scan()
	require.NoError(t, err)
	require.Len(t, lvls, 2)
	assert.Equal(t, "alpha", lvls[0].ID)
	assert.Equal(t, "beta", lvls[1].ID)

	require.Len(t, skipped, 1)
	assert.Equal(t, "broken.yaml", skipped[0].Path)
}

func TestLoaderDecodesFixedGrid(t *testing.T) {
	lvl, err := levels.NewLoader("testdata/levels").LoadByID("alpha")
	require.NoError(t, err)

	cfg := lvl.Config
	assert.Equal(t, "Alpha", lvl.Name)
	assert.Equal(t, 5, cfg.Length)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, 12, cfg.StartingMoves)
	assert.Equal(t, core.Palette{core.ColorRed, core.ColorGreen, core.ColorBlue, core.ColorYellow}, cfg.Palette)
	require.Len(t, cfg.StartingGrid, 25)
	assert.Equal(t, core.ColorRed, cfg.StartingGrid[0])
	assert.Equal(t, core.ColorYellow, cfg.StartingGrid[4])
	assert.Equal(t, []core.GoalSpec{
		{Type: core.GoalCollectRed, Amount: 5},
		{Type: core.GoalCollectAny, Amount: 20},
	}, cfg.Goals)

	s, err := lvl.NewSession(0)
	require.NoError(t, err)
	// Top-left of the file is the top row of the board.
	assert.Equal(t, core.ColorRed, s.ColorAt(4, 0))
	assert.Equal(t, core.ColorRed, s.ColorAt(4, 1))
	assert.Equal(t, core.ColorRed, s.ColorAt(0, 4))
	assert.Equal(t, int64(7), s.Seed())
}

func TestLoaderJSONRandomGrid(t *testing.T) {
	lvl, err := levels.NewLoader("testdata/levels").LoadByID("beta")
	require.NoError(t, err)

	assert.Nil(t, lvl.Config.StartingGrid)
	assert.Equal(t, 6, lvl.Config.Length)

	a, err := lvl.NewSession(99)
	require.NoError(t, err)
	b, err := lvl.NewSession(99)
	require.NoError(t, err)
	assert.Equal(t, a.Snapshot().Hash(), b.Snapshot().Hash())
	assert.Zero(t, a.Board().EmptyCount())
}

func TestLoaderNotFound(t *testing.T) {
	_, err := levels.NewLoader("testdata/levels").LoadByID("missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, levels.ErrNotFound))
}

func TestEmbeddedLevels(t *testing.T) {
	loader := levels.NewEmbeddedLoader()

	lvls, skipped, err := loader.Scan()
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.NotEmpty(t, lvls)

	for _, lvl := range lvls {
		s, err := lvl.NewSession(0)
		require.NoError(t, err, lvl.ID)
		assert.Equal(t, core.PhaseAwaitingInput, s.Phase(), lvl.ID)
	}

	def := levels.Default()
	assert.Equal(t, levels.DefaultLevelID, def.ID)
	assert.Equal(t, 7, def.Config.Length)
}

func TestResolveFallsBackToDefault(t *testing.T) {
	loader := levels.NewLoader("testdata/levels")

	lvl, fallback, err := levels.Resolve(loader, "alpha")
	require.NoError(t, err)
	assert.False(t, fallback)
	assert.Equal(t, "alpha", lvl.ID)

	lvl, fallback, err = levels.Resolve(loader, "nope")
	require.NoError(t, err)
	assert.True(t, fallback)
	assert.Equal(t, levels.DefaultLevelID, lvl.ID)
}

func TestFSLoader(t *testing.T) {
	fsys := fstest.MapFS{
		"one.yml": {Data: []byte(`
name: One
colorCount: 4
colorPalette: [R, G, B, Y]
gridLength: 5
isStartingGridFixed: false
goals:
  - goalType: A
    goalAmount: 3
startingMoveCount: 4
`)},
		"ignored.md": {Data: []byte("# nothing")},
	}

	ids, err := levels.NewFSLoader("mem", fsys).ListIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"one"}, ids)
}
