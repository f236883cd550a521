package sim

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-blast/internal/games/blast/core"
	"github.com/vovakirdan/tui-blast/internal/games/blast/levels"
)

func defaultLevel(t *testing.T) levels.Level {
	t.Helper()
	return levels.Default()
}

func TestSimulateGreedy(t *testing.T) {
	lvl := defaultLevel(t)
	rep, runs, err := Simulate(context.Background(), lvl, Options{
		Runs:     24,
		Workers:  4,
		Strategy: "greedy",
		BaseSeed: 100,
	})
	require.NoError(t, err)
	require.Len(t, runs, 24)

	for i, r := range runs {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, int64(100+i), r.Seed)
		require.NoError(t, r.Err)
		assert.Equal(t, r.Outcome.MovesMade, len(r.Outcome.Taps))
		assert.LessOrEqual(t, r.Outcome.MovesMade, lvl.Config.StartingMoves)
	}

	assert.Equal(t, 24, rep.Runs)
	assert.Zero(t, rep.Failed)
	assert.Equal(t, "greedy", rep.Strategy)
	assert.Equal(t, lvl.ID, rep.LevelID)
	assert.InDelta(t, float64(rep.Wins)/24, rep.WinRate, 1e-9)
	assert.LessOrEqual(t, rep.WinCI.Lo, rep.WinRate)
	assert.GreaterOrEqual(t, rep.WinCI.Hi, rep.WinRate)
	assert.Greater(t, rep.MovesMean, 0.0)
	assert.LessOrEqual(t, rep.MovesP50, rep.MovesP90)
}

func TestSimulateIsDeterministicAcrossWorkerCounts(t *testing.T) {
	lvl := defaultLevel(t)
	_, one, err := Simulate(context.Background(), lvl, Options{Runs: 10, Workers: 1, Strategy: "random", BaseSeed: 9})
	require.NoError(t, err)
	_, many, err := Simulate(context.Background(), lvl, Options{Runs: 10, Workers: 5, Strategy: "random", BaseSeed: 9})
	require.NoError(t, err)

	for i := range one {
		assert.Equal(t, one[i].Outcome, many[i].Outcome, "run %d", i)
	}
}

func TestSimulateRejectsBadOptions(t *testing.T) {
	lvl := defaultLevel(t)

	_, _, err := Simulate(context.Background(), lvl, Options{Runs: 0})
	assert.Error(t, err)

	_, _, err = Simulate(context.Background(), lvl, Options{Runs: 3, Strategy: "psychic"})
	assert.ErrorContains(t, err, "unknown strategy")
}

func TestSimulateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := Simulate(ctx, defaultLevel(t), Options{Runs: 1000, Workers: 2, BaseSeed: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSimulateWritesProgress(t *testing.T) {
	var buf bytes.Buffer
	_, _, err := Simulate(context.Background(), defaultLevel(t), Options{Runs: 3, BaseSeed: 5, Progress: &buf})
	require.NoError(t, err)
	assert.NotZero(t, buf.Len())
}

func TestProportionCI(t *testing.T) {
	p, ci := proportionCI(0, 20, 0.95)
	assert.Zero(t, p)
	assert.Zero(t, ci.Lo)
	assert.Greater(t, ci.Hi, 0.0)
	assert.Less(t, ci.Hi, 0.2)

	p, ci = proportionCI(20, 20, 0.95)
	assert.Equal(t, 1.0, p)
	assert.Equal(t, 1.0, ci.Hi)
	assert.Greater(t, ci.Lo, 0.8)

	// 5/10 at 95%: exact interval is about [0.187, 0.813].
	p, ci = proportionCI(5, 10, 0.95)
	assert.Equal(t, 0.5, p)
	assert.InDelta(t, 0.187, ci.Lo, 0.002)
	assert.InDelta(t, 0.813, ci.Hi, 0.002)

	_, ci = proportionCI(0, 0, 0.95)
	assert.Equal(t, CI{Lo: 0, Hi: 1}, ci)
}

func TestSummarizeCountsFailures(t *testing.T) {
	runs := []Run{
		{Outcome: core.Outcome{Won: true, MovesMade: 4, MovesLeft: 6, Collected: 20}},
		{Outcome: core.Outcome{Won: false, MovesMade: 10, Collected: 31}},
		{Err: assert.AnError},
	}
	rep := Summarize("x", "greedy", runs, 0.9)
	assert.Equal(t, 3, rep.Runs)
	assert.Equal(t, 1, rep.Failed)
	assert.Equal(t, 1, rep.Wins)
	assert.Equal(t, 0.5, rep.WinRate)
	assert.Equal(t, 7.0, rep.MovesMean)
	assert.Equal(t, 6.0, rep.LeftOnWinMean)
	assert.InDelta(t, 25.5, rep.CollectedMean, 1e-9)
}

func TestReportTable(t *testing.T) {
	rep := Summarize("level01", "greedy", []Run{
		{Outcome: core.Outcome{Won: true, MovesMade: 1234}},
	}, 0.95)
	out := rep.Table()

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.NotEmpty(t, lines)
	width := len(lines[0])
	for _, l := range lines {
		assert.Equal(t, width, len(l), "line %q", l)
	}
	assert.Contains(t, out, "Blast simulation")
	assert.Contains(t, out, "Win rate 95% CI")
	assert.Contains(t, out, "1,234")
}
