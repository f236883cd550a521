package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/vovakirdan/tui-blast/internal/storage"
)

var (
	flagLimit  int
	flagRecent bool
	flagClear  bool
)

var resultsCmd = &cobra.Command{
	Use:   "results [level]",
	Short: "Show stored results",
	Long: `Without a level, show per-level statistics of every stored result.
With a level, show its best results (or the latest with --recent).

Examples:
  blast results
  blast results level02
  blast results level02 --recent --limit 20
  blast results level02 --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runResults,
}

func init() {
	resultsCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of results to show")
	resultsCmd.Flags().BoolVar(&flagRecent, "recent", false, "Show the latest results instead of the best")
	resultsCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the stored results of the level")
}

func runResults(_ *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		exitf("opening results database: %v", err)
	}
	defer store.Close()

	if len(args) == 0 {
		if flagClear {
			store.Close()
			exitf("--clear needs a level")
		}
		showAllStats(store)
		return
	}

	levelID := args[0]
	if flagClear {
		if err := store.ClearResults(levelID); err != nil {
			store.Close()
			exitf("clearing results: %v", err)
		}
		fmt.Printf("Results of %s cleared.\n", levelID)
		return
	}
	showLevelResults(store, levelID)
}

func showAllStats(store *storage.Store) {
	stats, err := store.GetAllLevelStats()
	if err != nil {
		store.Close()
		exitf("retrieving stats: %v", err)
	}
	if len(stats) == 0 {
		fmt.Println("No results recorded yet.")
		fmt.Println()
		fmt.Println("Play 'blast play' to record the first result!")
		return
	}

	ids := make([]string, 0, len(stats))
	for id := range stats {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	p := message.NewPrinter(language.English)
	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		st := stats[id]
		rows = append(rows, []string{
			id,
			p.Sprintf("%d", st.Plays),
			p.Sprintf("%d", st.Wins),
			p.Sprintf("%.1f%%", 100*st.WinRate()),
			p.Sprintf("%d", st.HighScore),
			p.Sprintf("%.1f", st.AvgMoves),
			st.LastPlayed.Local().Format("2006-01-02 15:04"),
		})
	}

	fmt.Println("Results by level")
	fmt.Println()
	printTable(os.Stdout, []string{"Level", "Plays", "Wins", "Win rate", "Best", "Avg moves", "Last played"}, rows)
}

func showLevelResults(store *storage.Store, levelID string) {
	var results []storage.Result
	var err error
	title := "Best results"
	if flagRecent {
		title = "Latest results"
		results, err = store.RecentResults(levelID, flagLimit)
	} else {
		results, err = store.TopResults(levelID, flagLimit)
	}
	if err != nil {
		store.Close()
		exitf("retrieving results: %v", err)
	}

	fmt.Printf("%s - %s\n", title, levelID)
	fmt.Println()

	if len(results) == 0 {
		fmt.Println("No results recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'blast play %s' to set the first score!\n", levelID)
		return
	}

	p := message.NewPrinter(language.English)
	rows := make([][]string, len(results))
	for i, r := range results {
		won := "no"
		if r.Won {
			won = "yes"
		}
		rows[i] = []string{
			fmt.Sprintf("%d", i+1),
			p.Sprintf("%d", r.Score),
			won,
			fmt.Sprintf("%d", r.MovesMade),
			fmt.Sprintf("%d", r.MovesLeft),
			r.Source,
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
		}
	}
	printTable(os.Stdout, []string{"Rank", "Score", "Won", "Moves", "Left", "Source", "Date"}, rows)

	if st, err := store.GetLevelStats(levelID); err == nil && st.Plays > 0 {
		fmt.Println()
		fmt.Print(p.Sprintf("Plays: %d  Wins: %d (%.1f%%)  Best: %d\n", st.Plays, st.Wins, 100*st.WinRate(), st.HighScore))
	}
}
