package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-blast/internal/games/blast/core"
	"github.com/vovakirdan/tui-blast/internal/replay"
	"github.com/vovakirdan/tui-blast/internal/storage"
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "List, show, verify and export replays",
	Long: `Every finished level is stored as a replay: the level, the seed and the
taps. Replaying it must reproduce the recorded board exactly.

Examples:
  blast replay list
  blast replay show 3f2a
  blast replay verify 3f2a
  blast replay verify --all
  blast replay export 3f2a run.yaml
  blast replay verify run.yaml`,
}

var replayListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored replays",
	Args:  cobra.NoArgs,
	Run:   runReplayList,
}

var replayShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Play a replay back and print every move",
	Args:  cobra.ExactArgs(1),
	Run:   runReplayShow,
}

var replayVerifyCmd = &cobra.Command{
	Use:   "verify [id|file]",
	Short: "Check that replays reproduce their recorded outcome",
	Args:  cobra.MaximumNArgs(1),
	Run:   runReplayVerify,
}

var replayExportCmd = &cobra.Command{
	Use:   "export <id> <file>",
	Short: "Write a replay as plain YAML",
	Args:  cobra.ExactArgs(2),
	Run:   runReplayExport,
}

var (
	flagReplayLimit int
	flagVerifyAll   bool
)

func init() {
	replayListCmd.Flags().IntVar(&flagReplayLimit, "limit", 20, "Number of replays to list")
	replayVerifyCmd.Flags().BoolVar(&flagVerifyAll, "all", false, "Verify the latest stored replays")
	replayVerifyCmd.Flags().IntVar(&flagReplayLimit, "limit", 100, "Number of replays checked by --all")

	replayCmd.AddCommand(replayListCmd)
	replayCmd.AddCommand(replayShowCmd)
	replayCmd.AddCommand(replayVerifyCmd)
	replayCmd.AddCommand(replayExportCmd)
}

func mustOpenStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		exitf("opening results database: %v", err)
	}
	return store
}

// loadRecord reads a replay from a YAML file, or from the store by ID or ID prefix.
func loadRecord(arg string) (replay.Record, error) {
	if data, err := os.ReadFile(arg); err == nil {
		var rec replay.Record
		if err := yaml.Unmarshal(data, &rec); err != nil {
			return replay.Record{}, fmt.Errorf("parsing %s: %w", arg, err)
		}
		return rec, nil
	}

	store := mustOpenStore()
	defer store.Close()
	stored, err := store.LoadReplay(arg)
	if err != nil {
		return replay.Record{}, err
	}
	return replay.Decode(stored.Payload)
}

func runReplayList(_ *cobra.Command, _ []string) {
	store := mustOpenStore()
	defer store.Close()

	replays, err := store.RecentReplays(flagReplayLimit)
	if err != nil {
		store.Close()
		exitf("listing replays: %v", err)
	}
	if len(replays) == 0 {
		fmt.Println("No replays recorded yet.")
		return
	}

	rows := make([][]string, len(replays))
	for i, r := range replays {
		won := "no"
		if r.Won {
			won = "yes"
		}
		rows[i] = []string{
			shortID(r.ID),
			r.LevelID,
			strconv.FormatInt(r.Seed, 10),
			strconv.Itoa(r.Taps),
			won,
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
		}
	}
	printTable(os.Stdout, []string{"ID", "Level", "Seed", "Taps", "Won", "Date"}, rows)
}

func runReplayShow(_ *cobra.Command, args []string) {
	rec, err := loadRecord(args[0])
	if err != nil {
		exitf("%v", err)
	}

	fmt.Printf("Level %s (%s), seed %d, %d taps\n\n", rec.LevelID, rec.Level.Name, rec.Seed, len(rec.Taps))

	s, err := replay.Play(rec, func(i int, tap replay.Tap, res core.MoveResult) {
		collected := 0
		var notes string
		for _, ev := range res.Events {
			switch e := ev.(type) {
			case core.CellsCollected:
				collected = len(e.Cells)
			case core.GridShuffled:
				notes += " shuffled"
			case core.GoalCompleted:
				notes += " " + e.Type.String() + " done"
			}
		}
		fmt.Printf("%3d. tap (%d,%d): %d tiles%s\n", i+1, tap.Row, tap.Col, collected, notes)
	})
	if err != nil {
		exitf("%v", err)
	}

	fmt.Println()
	fmt.Println(core.RenderBoard(s.Board()))
	fmt.Println()
	fmt.Printf("Phase %s, %d moves left, %d tiles collected\n", s.Phase(), s.MovesLeft(), s.Collected())
}

func runReplayVerify(_ *cobra.Command, args []string) {
	if flagVerifyAll {
		verifyStored()
		return
	}
	if len(args) != 1 {
		exitf("verify needs a replay id or file, or --all")
	}

	rec, err := loadRecord(args[0])
	if err != nil {
		exitf("%v", err)
	}
	if err := replay.Verify(rec); err != nil {
		exitf("%v", err)
	}
	fmt.Printf("ok    %s: %d taps reproduce the recorded board\n", rec.LevelID, len(rec.Taps))
}

func verifyStored() {
	store := mustOpenStore()
	defer store.Close()

	replays, err := store.RecentReplays(flagReplayLimit)
	if err != nil {
		store.Close()
		exitf("listing replays: %v", err)
	}

	failed := 0
	for _, r := range replays {
		rec, err := replay.Decode(r.Payload)
		if err == nil {
			err = replay.Verify(rec)
		}
		switch {
		case err == nil:
			fmt.Printf("ok    %s %s\n", shortID(r.ID), r.LevelID)
		case errors.Is(err, replay.ErrMismatch):
			failed++
			fmt.Printf("DIFF  %s %s: %v\n", shortID(r.ID), r.LevelID, err)
		default:
			failed++
			fmt.Printf("FAIL  %s %s: %v\n", shortID(r.ID), r.LevelID, err)
		}
	}

	fmt.Printf("\n%d replays, %d failed\n", len(replays), failed)
	if failed > 0 {
		store.Close()
		os.Exit(1)
	}
}

func runReplayExport(_ *cobra.Command, args []string) {
	rec, err := loadRecord(args[0])
	if err != nil {
		exitf("%v", err)
	}
	data, err := yaml.Marshal(rec)
	if err != nil {
		exitf("encoding replay: %v", err)
	}
	if err := os.WriteFile(args[1], data, 0o644); err != nil {
		exitf("%v", err)
	}
	fmt.Printf("Replay written to %s\n", args[1])
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
