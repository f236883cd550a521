package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-blast/internal/games/blast"
	"github.com/vovakirdan/tui-blast/internal/games/blast/levels"
	"github.com/vovakirdan/tui-blast/internal/replay"
	"github.com/vovakirdan/tui-blast/internal/sim"
	"github.com/vovakirdan/tui-blast/internal/storage"
)

var (
	flagRuns       int
	flagWorkers    int
	flagStrategy   string
	flagConfidence float64
	flagQuiet      bool
	flagSave       bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate [level|file]",
	Short: "Estimate how hard a level is with bots",
	Long: `Play a level many times with an automated strategy and report the win
rate with a confidence interval and move statistics. Runs are spread over
worker goroutines; with --seed the batch is reproducible.

Strategies:
  greedy - always take the largest group
  random - take a random legal group

Examples:
  blast simulate level03
  blast simulate ./my-level.yaml --runs 2000 --strategy random
  blast simulate level05 --seed 1 --save`,
	Args: cobra.MaximumNArgs(1),
	Run:  runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagRuns, "runs", 0, "Number of plays (0 = from config)")
	simulateCmd.Flags().IntVar(&flagWorkers, "workers", -1, "Worker goroutines (0 = one per CPU, -1 = from config)")
	simulateCmd.Flags().StringVar(&flagStrategy, "strategy", "", "Strategy: greedy, random (default from config)")
	simulateCmd.Flags().Float64Var(&flagConfidence, "confidence", 0, "Win rate interval confidence (0 = from config)")
	simulateCmd.Flags().BoolVar(&flagQuiet, "quiet", false, "Hide the progress bar")
	simulateCmd.Flags().BoolVar(&flagSave, "save", false, "Store the results and the best winning replay")
}

func runSimulate(_ *cobra.Command, args []string) {
	levelID := blastCfg.Levels.Default
	if len(args) > 0 {
		levelID = args[0]
	}
	lvl, err := loadLevelArg(levelID)
	if err != nil {
		exitf("cannot load level %q: %v", levelID, err)
	}

	opts := sim.Options{
		Runs:       blastCfg.Simulate.Runs,
		Workers:    blastCfg.Simulate.Workers,
		Strategy:   blastCfg.Simulate.Strategy,
		BaseSeed:   flagSeed,
		Confidence: blastCfg.Simulate.Confidence,
		Progress:   os.Stderr,
		Logger:     logger,
	}
	if flagRuns > 0 {
		opts.Runs = flagRuns
	}
	if flagWorkers >= 0 {
		opts.Workers = flagWorkers
	}
	if flagStrategy != "" {
		opts.Strategy = flagStrategy
	}
	if flagConfidence > 0 {
		opts.Confidence = flagConfidence
	}
	if flagQuiet {
		opts.Progress = nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, runs, err := sim.Simulate(ctx, lvl, opts)
	if err != nil {
		exitf("%v", err)
	}

	fmt.Println(report.Table())

	if flagSave {
		if err := saveRuns(lvl, runs); err != nil {
			exitf("saving runs: %v", err)
		}
	}
}

// saveRuns stores every finished run and the best winning run as a replay.
func saveRuns(lvl levels.Level, runs []sim.Run) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	best := -1
	for i, r := range runs {
		if r.Err != nil {
			continue
		}
		out := r.Outcome
		score := blast.ScoreFor(out.Collected, out.MovesLeft, out.Won)
		if _, err := store.SaveResult(storage.Result{
			LevelID:   lvl.ID,
			Source:    "simulate",
			Seed:      r.Seed,
			Won:       out.Won,
			Score:     score,
			MovesMade: out.MovesMade,
			MovesLeft: out.MovesLeft,
			Collected: out.Collected,
		}); err != nil {
			return err
		}
		if out.Won && (best < 0 || out.MovesLeft > runs[best].Outcome.MovesLeft) {
			best = i
		}
	}
	if best < 0 {
		logger.Info("no winning run to store as a replay", "level", lvl.ID)
		return nil
	}

	id, err := saveRunReplay(store, lvl, runs[best])
	if err != nil {
		return err
	}
	fmt.Printf("Best run stored as replay %s\n", id)
	return nil
}

// saveRunReplay plays a run again to capture its final state and stores it.
func saveRunReplay(store *storage.Store, lvl levels.Level, r sim.Run) (string, error) {
	s, err := lvl.NewSession(r.Seed)
	if err != nil {
		return "", err
	}
	for _, p := range r.Outcome.Taps {
		if _, err := s.SubmitTap(p.Row, p.Col); err != nil {
			return "", err
		}
	}
	rec := replay.FromOutcome(lvl, s, r.Outcome)
	if err := replay.Verify(rec); err != nil {
		return "", err
	}
	payload, err := replay.Encode(rec)
	if err != nil {
		return "", err
	}
	return store.SaveReplay(storage.Replay{
		LevelID: lvl.ID,
		Seed:    r.Seed,
		Taps:    len(rec.Taps),
		Won:     rec.Won,
		Payload: payload,
	})
}
