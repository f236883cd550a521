package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-blast/internal/core"
	"github.com/vovakirdan/tui-blast/internal/games/blast"
	"github.com/vovakirdan/tui-blast/internal/replay"
	"github.com/vovakirdan/tui-blast/internal/storage"
)

const testLevels = "../../games/blast/levels/testdata/levels"

const allRedLevel = `id: allred
name: All Red
seed: 3
colorCount: 4
colorPalette: [R, G, B, Y]
gridLength: 5
isStartingGridFixed: true
startingGrid: [
  R, R, R, R, R,
  R, R, R, R, R,
  R, R, R, R, R,
  R, R, R, R, R,
  R, R, R, R, R
]
goals:
  - goalType: A
    goalAmount: 1
startingMoveCount: 3
`

func useLevels(t *testing.T, dir string) {
	t.Helper()
	s := blast.DefaultSettings()
	s.LevelsDir = dir
	s.StepTicks = 0
	blast.Configure(s)
	t.Cleanup(func() { blast.Configure(blast.DefaultSettings()) })
}

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "results.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func allRedModel(t *testing.T, store *storage.Store) GameModel {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "allred.yaml"), []byte(allRedLevel), 0o644); err != nil {
		t.Fatal(err)
	}
	useLevels(t, dir)

	m := NewGameModel(blast.New(blast.ModeCampaign), core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60}, Options{Store: store})
	m.Init()
	return m
}

func update(t *testing.T, m GameModel, msg tea.Msg) GameModel {
	t.Helper()
	next, _ := m.Update(msg)
	gm, ok := next.(GameModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return gm
}

func tick(t *testing.T, m GameModel) GameModel {
	return update(t, m, TickMsg(time.Now()))
}

func TestGameModelSavesFinishedLevelOnce(t *testing.T) {
	store := openStore(t)
	m := allRedModel(t, store)

	m = update(t, m, runeKey(' '))
	m = tick(t, m)
	if !m.gameState.GameOver || !m.gameState.Won {
		t.Fatalf("expected a won level, got %+v", m.gameState)
	}
	m = tick(t, m)
	m = tick(t, m)

	results, err := store.TopResults("allred", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("stored %d results, expected 1", len(results))
	}
	r := results[0]
	if !r.Won || r.Source != "play" || r.Seed != 3 || r.MovesMade != 1 || r.Collected != 25 {
		t.Errorf("unexpected result %+v", r)
	}
	if want := 25*blast.PointsPerTile + 2*blast.PointsPerMoveLeft; r.Score != want {
		t.Errorf("score = %d, expected %d", r.Score, want)
	}

	if m.LastReplay() == "" {
		t.Fatal("expected a stored replay")
	}
	stored, err := store.LoadReplay(m.LastReplay())
	if err != nil {
		t.Fatal(err)
	}
	rec, err := replay.Decode(stored.Payload)
	if err != nil {
		t.Fatal(err)
	}
	if err := replay.Verify(rec); err != nil {
		t.Errorf("stored replay should verify: %v", err)
	}
}

func TestGameModelRestartAllowsNewSave(t *testing.T) {
	store := openStore(t)
	m := allRedModel(t, store)

	m = update(t, m, runeKey(' '))
	m = tick(t, m)
	m = update(t, m, runeKey('r'))
	m = tick(t, m)
	if m.gameState.GameOver {
		t.Fatal("restart should begin a new session")
	}
	m = update(t, m, runeKey(' '))
	m = tick(t, m)

	results, err := store.TopResults("allred", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Errorf("stored %d results, expected 2", len(results))
	}
}

func TestGameModelWithoutStore(t *testing.T) {
	m := allRedModel(t, nil)
	m = update(t, m, runeKey(' '))
	m = tick(t, m)
	if !m.gameState.GameOver {
		t.Fatal("level should end")
	}
	if m.LastReplay() != "" {
		t.Error("nothing is stored without a store")
	}
}

func TestGameModelBackOnlyWhenOverOrPaused(t *testing.T) {
	m := allRedModel(t, nil)
	m = tick(t, m)

	m = update(t, m, runeKey('b'))
	if m.BackToMenu() {
		t.Fatal("back must be ignored while playing")
	}

	m = update(t, m, runeKey('p'))
	m = tick(t, m)
	if !m.gameState.Paused {
		t.Fatal("expected pause")
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.BackToMenu() {
		t.Error("back should work while paused")
	}
}

func TestGameModelQuit(t *testing.T) {
	m := allRedModel(t, nil)
	next, cmd := m.Update(runeKey('q'))
	if !next.(GameModel).IsQuitting() {
		t.Error("q should quit")
	}
	if cmd == nil {
		t.Error("quit should return a command")
	}
	if next.(GameModel).View() != "" {
		t.Error("view should be empty after quitting")
	}
}

func TestGameModelResizeKeepsSession(t *testing.T) {
	m := allRedModel(t, nil)
	m = update(t, m, runeKey(' '))
	m = tick(t, m)
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	if m.screen.Width() != 100 || m.screen.Height() != 30 {
		t.Errorf("screen is %dx%d", m.screen.Width(), m.screen.Height())
	}
	if !m.gameState.GameOver {
		t.Error("resize must not reset the level")
	}
	if !strings.Contains(m.View(), "Level complete") {
		t.Error("view should show the end of level")
	}
}
