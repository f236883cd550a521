package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-blast/internal/config"
	"github.com/vovakirdan/tui-blast/internal/games/blast"
	"github.com/vovakirdan/tui-blast/internal/games/blast/levels"
	"github.com/vovakirdan/tui-blast/internal/platform/tui"
	"github.com/vovakirdan/tui-blast/internal/registry"
)

var (
	flagRandom     bool
	flagDifficulty string
)

var playCmd = &cobra.Command{
	Use:   "play [level]",
	Short: "Play a level",
	Long: `Start playing a level. Without an argument the configured default level
is played. An unknown level falls back to the built-in default level.
Winning a level moves on to the next one with N.

Controls:
  Arrows/HJKL  - Move the cursor
  Space/Enter  - Tap the group under the cursor (or click it)
  ?            - Hint
  P            - Pause
  R            - Restart the level
  N            - Next level (after a win)
  B/Esc        - Back (after the level ends or while paused)
  Q/Ctrl+C     - Quit

Difficulty options (random levels):
  easy, normal, hard - generator presets
  fixed              - use the ranges from the config file

Examples:
  blast play
  blast play level04
  blast play --random --difficulty hard
  blast play level02 --seed 42`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagRandom, "random", false, "Play generated levels")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Random level preset: easy, normal, hard, fixed")
}

func runPlay(_ *cobra.Command, args []string) {
	if flagDifficulty != "" {
		preset := config.DifficultyPreset(flagDifficulty)
		if !config.IsValidPreset(preset) {
			exitf("unknown difficulty %q", flagDifficulty)
		}
		config.ApplyBlastPreset(&blastCfg, preset)
		configureGame(blastCfg)
	}

	gameID := "blast"
	levelID := blastCfg.Levels.Default
	if len(args) > 0 {
		levelID = args[0]
	}
	if flagRandom {
		gameID = "blast_random"
	} else {
		lvl, fellBack, err := levels.Resolve(blast.CurrentSettings().Loader(), levelID)
		if err != nil {
			exitf("cannot load level %q: %v", levelID, err)
		}
		if fellBack {
			logger.Warn("unknown level, playing the default level", "level", levelID, "default", lvl.ID)
		}
		levelID = lvl.ID
	}

	game, err := registry.Create(gameID)
	if err != nil {
		exitf("creating game: %v", err)
	}
	if g, ok := game.(*blast.Game); ok && !flagRandom {
		g.StartAt(levelID)
	}

	store := openStore()
	restore := logToFile()
	_, runErr := tui.Run(game, terminalConfig(), tui.Options{
		Store:  store,
		Source: "play",
		Logger: logger,
	})
	restore()

	if store != nil {
		store.Close()
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
