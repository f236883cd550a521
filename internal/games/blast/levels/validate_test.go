package levels_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-blast/internal/games/blast/core"
	"github.com/vovakirdan/tui-blast/internal/games/blast/levels"
	"github.com/vovakirdan/tui-blast/internal/games/blast/levels/formats"
)

func validFile() formats.File {
	return formats.File{
		Name:         "ok",
		ColorCount:   4,
		ColorPalette: []string{"R", "G", "B", "Y"},
		GridLength:   5,
		Goals: []formats.Goal{
			{GoalType: "R", GoalAmount: 5},
			{GoalType: "A", GoalAmount: 10},
		},
		StartingMoveCount: 10,
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*formats.File)
		code   string
	}{
		{"valid", func(*formats.File) {}, ""},
		{"too few colors", func(f *formats.File) { f.ColorCount = 3; f.ColorPalette = f.ColorPalette[:3] }, "COLOR_COUNT"},
		{"palette size", func(f *formats.File) { f.ColorPalette = f.ColorPalette[:3] }, "PALETTE_SIZE"},
		{"palette entry", func(f *formats.File) { f.ColorPalette[3] = "X" }, "PALETTE_ENTRY"},
		{"palette repeat", func(f *formats.File) { f.ColorPalette[3] = "R" }, "PALETTE_REPEAT"},
		{"grid too small", func(f *formats.File) { f.GridLength = 4 }, "GRID_LENGTH"},
		{"grid too large", func(f *formats.File) { f.GridLength = 10 }, "GRID_LENGTH"},
		{"fixed grid missing", func(f *formats.File) { f.IsStartingGridFixed = true }, "GRID_MISSING"},
		{"fixed grid size", func(f *formats.File) {
			f.IsStartingGridFixed = true
			f.StartingGrid = []string{"R", "G"}
		}, "GRID_SIZE"},
		{"fixed grid entry", func(f *formats.File) {
			f.IsStartingGridFixed = true
			f.StartingGrid = make([]string, 25)
			for i := range f.StartingGrid {
				f.StartingGrid[i] = "R"
			}
			f.StartingGrid[24] = "O"
		}, "GRID_ENTRY"},
		{"no goals", func(f *formats.File) { f.Goals = nil }, "GOAL_COUNT"},
		{"too many goals", func(f *formats.File) {
			f.Goals = []formats.Goal{
				{GoalType: "R", GoalAmount: 1},
				{GoalType: "G", GoalAmount: 1},
				{GoalType: "B", GoalAmount: 1},
				{GoalType: "Y", GoalAmount: 1},
				{GoalType: "A", GoalAmount: 1},
			}
		}, "GOAL_COUNT"},
		{"goal outside palette", func(f *formats.File) { f.Goals[0].GoalType = "V" }, "GOAL_TYPE"},
		{"goal repeat", func(f *formats.File) { f.Goals[1].GoalType = "R" }, "GOAL_REPEAT"},
		{"goal amount", func(f *formats.File) { f.Goals[0].GoalAmount = 0 }, "GOAL_AMOUNT"},
		{"moves", func(f *formats.File) { f.StartingMoveCount = 0 }, "MOVE_COUNT"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := validFile()
			tc.mutate(&f)
			errs := levels.Validate(f)
			if tc.code == "" {
				assert.Empty(t, errs)
				return
			}
			require.NotEmpty(t, errs)
			codes := make([]string, len(errs))
			for i, e := range errs {
				codes[i] = e.Code
			}
			assert.Contains(t, codes, tc.code)
		})
	}
}

func TestDecodeRejectsInvalid(t *testing.T) {
	f := validFile()
	f.GridLength = 2

	_, err := levels.Decode(f)
	require.Error(t, err)
	var ve levels.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "GRID_LENGTH", ve.Code)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cfg := core.LevelConfig{
		Length:        5,
		Palette:       core.Palette{core.ColorRed, core.ColorGreen, core.ColorBlue, core.ColorViolet},
		Goals:         []core.GoalSpec{{Type: core.GoalCollectViolet, Amount: 4}, {Type: core.GoalCollectAny, Amount: 9}},
		StartingMoves: 8,
		Seed:          33,
	}

	data, err := formats.MarshalYAML(levels.Encode("trip", cfg))
	require.NoError(t, err)
	f, err := formats.ParseYAML(data)
	require.NoError(t, err)
	got, err := levels.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}
