package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-blast/internal/games/blast"
	"github.com/vovakirdan/tui-blast/internal/platform/tui"
	"github.com/vovakirdan/tui-blast/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start Blast with a level picker",
	Long: `Start Blast in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to pick a level, Tab for results.
Press B or Esc after a level ends to come back to the menu.

Examples:
  blast menu
  blast menu --fps 30
  blast menu --levels ./my-levels`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	store := openStore()
	restore := logToFile()
	defer restore()

	cfg := terminalConfig()

	for {
		menuResult, err := tui.RunMenu(store, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}
		cfg = menuResult.Config

		if menuResult.Quit {
			break
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue
			}
			break
		}

		game, err := registry.Create(menuResult.GameID)
		if err != nil {
			logger.Error("cannot create game", "game", menuResult.GameID, "err", err)
			continue
		}
		if g, ok := game.(*blast.Game); ok && menuResult.LevelID != "" {
			g.StartAt(menuResult.LevelID)
		}

		back, err := tui.Run(game, cfg, tui.Options{
			Store:  store,
			Source: "play",
			Logger: logger,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}
		if !back {
			break
		}
	}

	if store != nil {
		store.Close()
	}
}
