// Package sim plays a level many times with an automated strategy and
// summarizes the outcomes.
package sim

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-blast/internal/games/blast/core"
	"github.com/vovakirdan/tui-blast/internal/games/blast/levels"
)

// Options configures a batch.
type Options struct {
	Runs       int
	Workers    int    // 0 means one per CPU
	Strategy   string // see core.StrategyByName
	BaseSeed   int64  // run i plays with seed BaseSeed+i; 0 picks a time-based base
	Confidence float64
	Progress   io.Writer // progress bar output; nil hides the bar
	Logger     *log.Logger
}

// Run is the outcome of one automated play.
type Run struct {
	Index   int
	Seed    int64
	Outcome core.Outcome
	Err     error
}

// Simulate plays lvl opts.Runs times across opts.Workers goroutines. Every run
// has its own session and strategy seeded from the run seed, so the result of
// each run does not depend on scheduling.
func Simulate(ctx context.Context, lvl levels.Level, opts Options) (*Report, []Run, error) {
	if opts.Runs < 1 {
		return nil, nil, fmt.Errorf("sim: runs must be positive, got %d", opts.Runs)
	}
	if opts.Confidence <= 0 || opts.Confidence >= 1 {
		opts.Confidence = 0.95
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > opts.Runs {
		workers = opts.Runs
	}
	if _, err := core.StrategyByName(opts.Strategy, nil); err != nil {
		return nil, nil, fmt.Errorf("sim: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	base := opts.BaseSeed
	if base == 0 {
		base = time.Now().UnixNano()
	}

	runs := make([]Run, opts.Runs)
	jobs := make(chan int)

	bar := pb.StartNew(opts.Runs)
	if opts.Progress == nil {
		bar.SetWriter(io.Discard)
	} else {
		bar.SetWriter(opts.Progress)
	}

	wg := new(sync.WaitGroup)
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				runs[i] = playOne(lvl, opts.Strategy, i, base+int64(i))
				if runs[i].Err != nil {
					logger.Debug("run failed", "run", i, "seed", runs[i].Seed, "err", runs[i].Err)
				}
				bar.Increment()
			}
		}()
	}

	var cancelled error
feed:
	for i := 0; i < opts.Runs; i++ {
		select {
		case <-ctx.Done():
			cancelled = ctx.Err()
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()

	if cancelled != nil {
		return nil, nil, fmt.Errorf("sim: %w", cancelled)
	}

	name := opts.Strategy
	if name == "" {
		name = core.Greedy{}.Name()
	}
	report := Summarize(lvl.ID, name, runs, opts.Confidence)
	report.Elapsed = used
	logger.Info("simulation finished", "level", lvl.ID, "runs", opts.Runs, "wins", report.Wins, "elapsed", used.Round(time.Millisecond))
	return report, runs, nil
}

func playOne(lvl levels.Level, strategy string, i int, seed int64) Run {
	run := Run{Index: i, Seed: seed}
	s, err := lvl.NewSession(seed)
	if err != nil {
		run.Err = err
		return run
	}
	st, err := core.StrategyByName(strategy, core.NewSource(seed))
	if err != nil {
		run.Err = err
		return run
	}
	run.Outcome, run.Err = core.Autoplay(s, st)
	return run
}
