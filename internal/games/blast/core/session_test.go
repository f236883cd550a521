package core_test

import (
	"errors"
	"testing"

	"github.com/vovakirdan/tui-blast/internal/games/blast/core"
)

// grid flattens rows written top row first into a starting grid.
func grid(t *testing.T, rows ...string) []core.Color {
	t.Helper()
	b, err := core.ParseBoard(rows...)
	if err != nil {
		t.Fatalf("ParseBoard failed: %v", err)
	}
	n := b.Length()
	out := make([]core.Color, 0, n*n)
	for row := n - 1; row >= 0; row-- {
		for col := 0; col < n; col++ {
			out = append(out, b.ColorAt(row, col))
		}
	}
	return out
}

func threeByThree(t *testing.T, moves int, goals ...core.GoalSpec) core.LevelConfig {
	return core.LevelConfig{
		Length:        3,
		Palette:       core.Palette{core.ColorRed, core.ColorGreen, core.ColorBlue},
		StartingGrid:  grid(t, "RRG", "BRG", "BBG"),
		Goals:         goals,
		StartingMoves: moves,
		Seed:          17,
	}
}

func kinds(events []core.Event) []core.EventKind {
	out := make([]core.EventKind, len(events))
	for i, ev := range events {
		out[i] = ev.Kind()
	}
	return out
}

func TestNewSessionFixedGrid(t *testing.T) {
	s, err := core.NewSession(threeByThree(t, 10, core.GoalSpec{Type: core.GoalCollectRed, Amount: 5}))
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	if s.Phase() != core.PhaseAwaitingInput {
		t.Errorf("expected awaiting input, got %v", s.Phase())
	}
	if s.OpeningShuffles() != 0 {
		t.Errorf("expected no opening shuffles, got %d", s.OpeningShuffles())
	}
	if s.ColorAt(2, 0) != core.ColorRed || s.ColorAt(0, 0) != core.ColorBlue || s.ColorAt(0, 2) != core.ColorGreen {
		t.Errorf("starting grid placed incorrectly:\n%s", core.RenderBoard(s.Board()))
	}
	if s.MovesLeft() != 10 {
		t.Errorf("expected 10 moves, got %d", s.MovesLeft())
	}
}

func TestSubmitTapEventOrder(t *testing.T) {
	s, err := core.NewSession(threeByThree(t, 10, core.GoalSpec{Type: core.GoalCollectRed, Amount: 5}))
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	res, err := s.SubmitTap(2, 0)
	if err != nil {
		t.Fatalf("SubmitTap failed: %v", err)
	}
	if !res.Valid() {
		t.Fatalf("expected valid move, got %v", kinds(res.Events))
	}

	expected := []core.EventKind{
		core.KindCellsCollected,
		core.KindCellsRemoved,
		core.KindCellsFellToFillHoles,
		core.KindRefillReady,
		core.KindGoalProgress,
		core.KindMoveResolved,
	}
	got := kinds(res.Events)
	if len(got) != len(expected) {
		t.Fatalf("expected events %v, got %v", expected, got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("event %d: expected %s, got %s", i, expected[i], got[i])
		}
	}

	collected := res.Events[0].(core.CellsCollected)
	if collected.Color != core.ColorRed || len(collected.Cells) != 3 {
		t.Errorf("expected 3 red cells, got %v %d", collected.Color, len(collected.Cells))
	}
	fell := res.Events[2].(core.CellsFellToFillHoles)
	if len(fell.Falls) != 0 {
		t.Errorf("expected no falls, got %v", fell.Falls)
	}
	refill := res.Events[3].(core.RefillReady)
	if refill.Refill.EmptyCount() != 6 {
		t.Errorf("expected 3 refill tiles, got %d", 9-refill.Refill.EmptyCount())
	}
	progress := res.Events[4].(core.GoalProgress)
	if progress.Type != core.GoalCollectRed || progress.Remaining != 2 {
		t.Errorf("expected red progress 2, got %v %d", progress.Type, progress.Remaining)
	}
	if mr := res.Events[5].(core.MoveResolved); mr.MovesLeft != 9 {
		t.Errorf("expected 9 moves left, got %d", mr.MovesLeft)
	}

	b := s.Board()
	if b.EmptyCount() != 0 {
		t.Errorf("board has %d empty cells after move", b.EmptyCount())
	}
	if s.MovesMade() != 1 || s.Collected() != 3 {
		t.Errorf("expected 1 move and 3 collected, got %d and %d", s.MovesMade(), s.Collected())
	}
	// Untouched columns keep their tiles.
	for row := 0; row < 3; row++ {
		if b.ColorAt(row, 2) != core.ColorGreen {
			t.Errorf("(%d,2): expected green, got %v", row, b.ColorAt(row, 2))
		}
	}
	if b.ColorAt(0, 0) != core.ColorBlue || b.ColorAt(1, 0) != core.ColorBlue || b.ColorAt(0, 1) != core.ColorBlue {
		t.Error("blue tiles moved")
	}
}

func TestSubmitTapRejects(t *testing.T) {
	cfg := threeByThree(t, 10, core.GoalSpec{Type: core.GoalCollectAny, Amount: 50})
	cfg.StartingGrid = grid(t, "RRG", "BRG", "BYG")
	s, err := core.NewSession(cfg)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	before := s.Snapshot().Hash()

	testCases := []struct {
		name     string
		row, col int
		reason   core.InvalidReason
	}{
		{"single tile", 0, 1, core.ReasonSingleTile},
		{"row too high", 3, 0, core.ReasonOutOfBounds},
		{"negative col", 0, -1, core.ReasonOutOfBounds},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := s.SubmitTap(tc.row, tc.col)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Valid() || len(res.Events) != 1 {
				t.Fatalf("expected a single invalid move event, got %v", kinds(res.Events))
			}
			inv := res.Events[0].(core.InvalidMove)
			if inv.Reason != tc.reason || inv.Pos != core.P(tc.row, tc.col) {
				t.Errorf("expected %s at (%d,%d), got %s at %v", tc.reason, tc.row, tc.col, inv.Reason, inv.Pos)
			}
			if s.Snapshot().Hash() != before {
				t.Error("rejected tap changed the session")
			}
		})
	}
}

func TestWinOnLastMove(t *testing.T) {
	s, err := core.NewSession(threeByThree(t, 1, core.GoalSpec{Type: core.GoalCollectRed, Amount: 3}))
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	res, err := s.SubmitTap(2, 0)
	if err != nil {
		t.Fatalf("SubmitTap failed: %v", err)
	}
	last := res.Events[len(res.Events)-1]
	ended, ok := last.(core.LevelEnded)
	if !ok || !ended.Won {
		t.Fatalf("expected LevelEnded{Won: true}, got %#v", last)
	}
	if res.Phase != core.PhaseLevelWon || s.Phase() != core.PhaseLevelWon {
		t.Errorf("expected won, got %v", s.Phase())
	}
	if s.MovesLeft() != 0 {
		t.Errorf("expected 0 moves left, got %d", s.MovesLeft())
	}

	var completed bool
	for _, ev := range res.Events {
		if gc, ok := ev.(core.GoalCompleted); ok && gc.Type == core.GoalCollectRed {
			completed = true
		}
	}
	if !completed {
		t.Error("expected GoalCompleted for red")
	}

	res, err = s.SubmitTap(0, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv, ok := res.Events[0].(core.InvalidMove); !ok || inv.Reason != core.ReasonLevelOver {
		t.Errorf("expected level-over rejection, got %#v", res.Events[0])
	}
}

func TestLoseWhenMovesRunOut(t *testing.T) {
	s, err := core.NewSession(threeByThree(t, 1, core.GoalSpec{Type: core.GoalCollectRed, Amount: 10}))
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	res, err := s.SubmitTap(0, 2)
	if err != nil {
		t.Fatalf("SubmitTap failed: %v", err)
	}
	ended, ok := res.Events[len(res.Events)-1].(core.LevelEnded)
	if !ok || ended.Won {
		t.Fatalf("expected LevelEnded{Won: false}, got %v", kinds(res.Events))
	}
	if s.Phase() != core.PhaseLevelLost {
		t.Errorf("expected lost, got %v", s.Phase())
	}
}

func TestNewSessionUnsolvable(t *testing.T) {
	cfg := core.LevelConfig{
		Length:        2,
		Palette:       core.Palette{core.ColorRed, core.ColorGreen, core.ColorBlue, core.ColorYellow},
		StartingGrid:  grid(t, "RG", "BY"),
		Goals:         []core.GoalSpec{{Type: core.GoalCollectAny, Amount: 4}},
		StartingMoves: 5,
		Seed:          9,
	}
	s, err := core.NewSession(cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if s != nil {
		t.Error("expected nil session")
	}
	if !errors.Is(err, core.ErrUnsolvable) {
		t.Errorf("expected ErrUnsolvable, got %v", err)
	}
}

func TestSubmitTapReshuffleExhausted(t *testing.T) {
	cfg := core.LevelConfig{
		Length:        2,
		Palette:       core.Palette{core.ColorRed, core.ColorGreen, core.ColorBlue, core.ColorYellow},
		StartingGrid:  grid(t, "RR", "GB"),
		Goals:         []core.GoalSpec{{Type: core.GoalCollectAny, Amount: 100}},
		StartingMoves: 5,
		MaxShuffles:   1,
	}

	// Whether the refill plus one reshuffle leaves a move depends on the seed.
	var s *core.Session
	var err error
	for seed := int64(1); seed <= 500; seed++ {
		cfg.Seed = seed
		s, err = core.NewSession(cfg)
		if err != nil {
			t.Fatalf("NewSession(seed %d) failed: %v", seed, err)
		}
		if _, err = s.SubmitTap(1, 0); err != nil {
			break
		}
	}
	if err == nil {
		t.Fatal("expected some seed to exhaust the reshuffle budget")
	}

	var cfgErr *core.ConfigError
	if !errors.As(err, &cfgErr) || !errors.Is(err, core.ErrUnsolvable) {
		t.Fatalf("expected ConfigError wrapping ErrUnsolvable, got %v", err)
	}
	if s.Err() != err {
		t.Errorf("expected Err() to return the tap error, got %v", s.Err())
	}
	if s.Phase() != core.PhaseResolving {
		t.Errorf("expected phase to stay resolving, got %v", s.Phase())
	}
	if s.MovesLeft() != 5 || s.MovesMade() != 0 || s.Collected() != 0 {
		t.Errorf("move counters changed: left %d made %d collected %d", s.MovesLeft(), s.MovesMade(), s.Collected())
	}
	if g := s.Goals()[0]; g.Remaining != 100 {
		t.Errorf("goal changed: %+v", g)
	}

	res, again := s.SubmitTap(0, 0)
	if again != err {
		t.Errorf("expected the same error on a later tap, got %v", again)
	}
	if len(res.Events) != 0 {
		t.Errorf("expected no events after a fatal error, got %v", kinds(res.Events))
	}
}

func TestNewSessionInvalidConfig(t *testing.T) {
	valid := func() core.LevelConfig {
		return core.LevelConfig{
			Length:        3,
			Palette:       core.Palette{core.ColorRed, core.ColorGreen},
			Goals:         []core.GoalSpec{{Type: core.GoalCollectAny, Amount: 5}},
			StartingMoves: 5,
			Seed:          1,
		}
	}

	testCases := []struct {
		name   string
		mutate func(*core.LevelConfig)
	}{
		{"zero length", func(c *core.LevelConfig) { c.Length = 0 }},
		{"empty palette", func(c *core.LevelConfig) { c.Palette = nil }},
		{"repeated palette color", func(c *core.LevelConfig) { c.Palette = core.Palette{core.ColorRed, core.ColorRed} }},
		{"none in palette", func(c *core.LevelConfig) { c.Palette = core.Palette{core.ColorNone} }},
		{"short grid", func(c *core.LevelConfig) { c.StartingGrid = []core.Color{core.ColorRed} }},
		{"hole in grid", func(c *core.LevelConfig) { c.StartingGrid = make([]core.Color, 9) }},
		{"no moves", func(c *core.LevelConfig) { c.StartingMoves = 0 }},
		{"no goals", func(c *core.LevelConfig) { c.Goals = nil }},
		{"negative shuffles", func(c *core.LevelConfig) { c.MaxShuffles = -1 }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			_, err := core.NewSession(cfg)
			if !errors.Is(err, core.ErrInvalidLevel) {
				t.Errorf("expected ErrInvalidLevel, got %v", err)
			}
			var cfgErr *core.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Errorf("expected *ConfigError, got %T", err)
			}
		})
	}
}

func randomLevel(seed int64) core.LevelConfig {
	return core.LevelConfig{
		Length:        7,
		Palette:       core.Palette{core.ColorRed, core.ColorGreen, core.ColorBlue, core.ColorYellow},
		Goals:         []core.GoalSpec{{Type: core.GoalCollectRed, Amount: 30}, {Type: core.GoalCollectAny, Amount: 80}},
		StartingMoves: 25,
		Seed:          seed,
	}
}

func TestSessionDeterminism(t *testing.T) {
	a, err := core.NewSession(randomLevel(1234))
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	b, err := core.NewSession(randomLevel(1234))
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	if a.Snapshot().Hash() != b.Snapshot().Hash() {
		t.Fatal("same seed produced different starting boards")
	}

	for step := 0; !a.Phase().Ended(); step++ {
		moves := a.Moves()
		if len(moves) == 0 {
			t.Fatalf("step %d: no legal move on a running level", step)
		}
		p := moves[len(moves)/2][0]
		ra, errA := a.SubmitTap(p.Row, p.Col)
		rb, errB := b.SubmitTap(p.Row, p.Col)
		if errA != nil || errB != nil {
			t.Fatalf("step %d: unexpected errors %v, %v", step, errA, errB)
		}
		if len(ra.Events) != len(rb.Events) {
			t.Fatalf("step %d: event counts differ: %v vs %v", step, kinds(ra.Events), kinds(rb.Events))
		}
		if a.Snapshot().Hash() != b.Snapshot().Hash() {
			t.Fatalf("step %d: sessions diverged\n%s\n%s", step, core.RenderSession(a), core.RenderSession(b))
		}
		if a.Board().EmptyCount() != 0 {
			t.Fatalf("step %d: board not full after move", step)
		}
	}
}

func TestRestartReplaysSameBoard(t *testing.T) {
	s, err := core.NewSession(randomLevel(0))
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	if s.Seed() == 0 {
		t.Fatal("expected a generated seed")
	}
	start := s.Snapshot().Hash()

	moves := s.Moves()
	if _, err := s.SubmitTap(moves[0][0].Row, moves[0][0].Col); err != nil {
		t.Fatalf("SubmitTap failed: %v", err)
	}

	fresh, err := s.Restart()
	if err != nil {
		t.Fatalf("Restart failed: %v", err)
	}
	if fresh.Seed() != s.Seed() {
		t.Errorf("expected seed %d, got %d", s.Seed(), fresh.Seed())
	}
	if fresh.Snapshot().Hash() != start {
		t.Error("restart did not reproduce the starting board")
	}
}

func TestAutoplay(t *testing.T) {
	for _, name := range []string{"greedy", "random"} {
		t.Run(name, func(t *testing.T) {
			s, err := core.NewSession(randomLevel(77))
			if err != nil {
				t.Fatalf("NewSession failed: %v", err)
			}
			st, err := core.StrategyByName(name, core.NewSource(5))
			if err != nil {
				t.Fatalf("StrategyByName failed: %v", err)
			}

			out, err := core.Autoplay(s, st)
			if err != nil {
				t.Fatalf("Autoplay failed: %v", err)
			}
			if !s.Phase().Ended() {
				t.Errorf("expected ended level, got %v", s.Phase())
			}
			if out.Won != (s.Phase() == core.PhaseLevelWon) {
				t.Errorf("outcome won=%v disagrees with phase %v", out.Won, s.Phase())
			}
			if len(out.Taps) != out.MovesMade || out.MovesMade+out.MovesLeft != 25 {
				t.Errorf("inconsistent outcome: %+v", out)
			}
			if !out.Won && out.MovesLeft != 0 {
				t.Errorf("lost with %d moves left", out.MovesLeft)
			}
		})
	}

	if _, err := core.StrategyByName("clever", nil); err == nil {
		t.Error("expected error for unknown strategy")
	}
}
