package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-blast/internal/games/blast"
	"github.com/vovakirdan/tui-blast/internal/games/blast/core"
	"github.com/vovakirdan/tui-blast/internal/games/blast/levels"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all levels",
	Long: `Shows the campaign levels: the built-in levels, or the levels of the
configured level directory. Files that fail to load are listed after the table.`,
	Run: runList,
}

func runList(_ *cobra.Command, _ []string) {
	settings := blast.CurrentSettings()
	lvls := settings.CampaignLevels()

	var skipped []levels.Skipped
	if settings.LevelsDir != "" {
		var err error
		_, skipped, err = settings.Loader().Scan()
		if err != nil {
			logger.Warn("cannot scan level directory", "dir", settings.LevelsDir, "err", err)
		}
	}

	rows := make([][]string, 0, len(lvls))
	for _, lvl := range lvls {
		rows = append(rows, []string{
			lvl.ID,
			lvl.Name,
			fmt.Sprintf("%dx%d", lvl.Config.Length, lvl.Config.Length),
			strconv.Itoa(len(lvl.Config.Palette)),
			strconv.Itoa(lvl.Config.StartingMoves),
			goalSummary(lvl.Config.Goals),
		})
	}

	fmt.Println("Levels:")
	fmt.Println()
	printTable(os.Stdout, []string{"ID", "Name", "Size", "Colors", "Moves", "Goals"}, rows)

	if len(skipped) > 0 {
		fmt.Println()
		fmt.Println("Skipped files:")
		for _, s := range skipped {
			fmt.Printf("  %s: %v\n", s.Path, s.Err)
		}
	}

	fmt.Println()
	fmt.Println("Run 'blast play <id>' to play a level.")
}

// goalSummary formats goals as "R10 A25".
func goalSummary(goals []core.GoalSpec) string {
	parts := make([]string, len(goals))
	for i, g := range goals {
		parts[i] = g.Type.Code() + strconv.Itoa(g.Amount)
	}
	return strings.Join(parts, " ")
}
