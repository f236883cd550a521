package storage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieveResults(t *testing.T) {
	store := openTestStore(t)

	results := []Result{
		{LevelID: "level01", Seed: 1, Won: true, Score: 300, MovesMade: 10, MovesLeft: 5, Collected: 40},
		{LevelID: "level01", Seed: 2, Won: false, Score: 120, MovesMade: 15, MovesLeft: 0, Collected: 12},
		{LevelID: "level01", Seed: 3, Won: true, Score: 450, MovesMade: 8, MovesLeft: 7, Collected: 50},
		{LevelID: "level02", Seed: 4, Won: false, Score: 90, MovesMade: 20, MovesLeft: 0, Collected: 9, Source: "simulate"},
	}
	for _, r := range results {
		if _, err := store.SaveResult(r); err != nil {
			t.Fatalf("SaveResult() failed: %v", err)
		}
	}

	top, err := store.TopResults("level01", 10)
	if err != nil {
		t.Fatalf("TopResults() failed: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(top))
	}
	expectedScores := []int{450, 300, 120}
	for i, want := range expectedScores {
		if top[i].Score != want {
			t.Errorf("Result %d: expected score %d, got %d", i, want, top[i].Score)
		}
	}
	if !top[0].Won || top[2].Won {
		t.Error("Won flag not round-tripped")
	}
	if top[0].Source != "play" {
		t.Errorf("Expected default source 'play', got %q", top[0].Source)
	}

	recent, err := store.RecentResults("", 2)
	if err != nil {
		t.Fatalf("RecentResults() failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Expected 2 recent results, got %d", len(recent))
	}
	if recent[0].LevelID != "level02" || recent[0].Source != "simulate" {
		t.Errorf("Expected newest result first, got %+v", recent[0])
	}
}

func TestStoreLevelStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.GetLevelStats("never")
	if err != nil {
		t.Fatalf("GetLevelStats() failed: %v", err)
	}
	if empty.Plays != 0 || empty.WinRate() != 0 {
		t.Errorf("Expected empty stats, got %+v", empty)
	}

	for i, won := range []bool{true, false, true, true} {
		_, err := store.SaveResult(Result{LevelID: "level03", Seed: int64(i), Won: won, Score: 100 * (i + 1), MovesMade: 10 + i})
		if err != nil {
			t.Fatalf("SaveResult() failed: %v", err)
		}
	}

	stats, err := store.GetLevelStats("level03")
	if err != nil {
		t.Fatalf("GetLevelStats() failed: %v", err)
	}
	if stats.Plays != 4 || stats.Wins != 3 {
		t.Errorf("Expected 4 plays and 3 wins, got %d and %d", stats.Plays, stats.Wins)
	}
	if stats.HighScore != 400 {
		t.Errorf("Expected high score 400, got %d", stats.HighScore)
	}
	if stats.AvgMoves != 11.5 {
		t.Errorf("Expected average moves 11.5, got %v", stats.AvgMoves)
	}
	if stats.WinRate() != 0.75 {
		t.Errorf("Expected win rate 0.75, got %v", stats.WinRate())
	}

	all, err := store.GetAllLevelStats()
	if err != nil {
		t.Fatalf("GetAllLevelStats() failed: %v", err)
	}
	if len(all) != 1 || all["level03"].Plays != 4 {
		t.Errorf("Unexpected all-level stats: %v", all)
	}
}

func TestStoreClearResults(t *testing.T) {
	store := openTestStore(t)

	store.SaveResult(Result{LevelID: "a", Score: 1})
	store.SaveResult(Result{LevelID: "b", Score: 2})

	if err := store.ClearResults("a"); err != nil {
		t.Fatalf("ClearResults() failed: %v", err)
	}

	a, _ := store.TopResults("a", 10)
	b, _ := store.TopResults("b", 10)
	if len(a) != 0 {
		t.Errorf("Expected level a cleared, got %d results", len(a))
	}
	if len(b) != 1 {
		t.Errorf("Expected level b untouched, got %d results", len(b))
	}
}

func TestStoreReplays(t *testing.T) {
	store := openTestStore(t)

	payload := []byte{0x28, 0xb5, 0x2f, 0xfd, 0x00, 0x01}
	id, err := store.SaveReplay(Replay{LevelID: "level01", Seed: 77, Taps: 12, Won: true, Payload: payload})
	if err != nil {
		t.Fatalf("SaveReplay() failed: %v", err)
	}
	if len(id) != 36 {
		t.Errorf("Expected a UUID, got %q", id)
	}

	got, err := store.LoadReplay(id)
	if err != nil {
		t.Fatalf("LoadReplay() failed: %v", err)
	}
	if got.LevelID != "level01" || got.Seed != 77 || got.Taps != 12 || !got.Won {
		t.Errorf("Replay metadata mismatch: %+v", got)
	}
	if !bytes.Equal(got.Payload, payload) {
		t.Errorf("Payload mismatch: %x", got.Payload)
	}

	byPrefix, err := store.LoadReplay(id[:8])
	if err != nil {
		t.Fatalf("LoadReplay(prefix) failed: %v", err)
	}
	if byPrefix.ID != id {
		t.Errorf("Expected %s, got %s", id, byPrefix.ID)
	}

	for _, pattern := range []string{"%", "_", id[:4] + "%"} {
		if _, err := store.LoadReplay(pattern); !errors.Is(err, ErrNotFound) {
			t.Errorf("LoadReplay(%q): expected ErrNotFound, got %v", pattern, err)
		}
	}

	_, err = store.LoadReplay("00000000-0000-0000-0000-000000000000")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	list, err := store.RecentReplays(5)
	if err != nil {
		t.Fatalf("RecentReplays() failed: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("Expected 1 replay, got %d", len(list))
	}
}
