// blast is a tile-matching puzzle game and level toolkit for the terminal.
//
// Usage:
//
//	blast list                    - List levels
//	blast play [level]            - Play a level
//	blast menu                    - Pick levels interactively
//	blast validate <file>...      - Check level files
//	blast generate                - Write a random level file
//	blast simulate [level]        - Estimate how hard a level is with bots
//	blast results [level]         - Show stored results
//	blast replay list|show|verify - Inspect stored replays
//	blast serve                   - Start SSH server for remote play
//
// Global flags:
//
//	--config <path>     - Configuration file (default: ~/.blast/configs/blast.yaml)
//	--levels <dir>      - Extra level directory
//	--fps <rate>        - Set tick rate
//	--seed <value>      - Set RNG seed for reproducible boards
//	--db <path>         - Set database path (default: ~/.blast/results.db)
//	--log-level <level> - debug, info, warn, error
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-blast/internal/config"
	"github.com/vovakirdan/tui-blast/internal/core"
	"github.com/vovakirdan/tui-blast/internal/games/blast"
	"github.com/vovakirdan/tui-blast/internal/platform/tui"
	"github.com/vovakirdan/tui-blast/internal/storage"
)

var (
	// Global flags
	flagFPS       int
	flagSeed      int64
	flagDBPath    string
	flagConfig    string
	flagLevelsDir string
	flagLogLevel  string
	flagTheme     string

	// Loaded before every command
	blastCfg config.BlastConfig
	logger   = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "blast"})
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "blast",
	Short: "Blast - a tile-matching puzzle for your terminal",
	Long: `Blast is a tile-matching puzzle played in the terminal. Tap a group of
two or more touching tiles of one color to collect it; tiles above fall
down and new ones drop in. Reach every goal before the moves run out.

Available commands:
  list      - Show all levels
  play      - Play a level directly
  menu      - Interactive level picker
  validate  - Check level files
  generate  - Write a random level file
  simulate  - Estimate level difficulty with bots
  results   - View stored results
  replay    - List, show and verify replays
  serve     - Start SSH server for remote play

Examples:
  blast list
  blast play level03
  blast play --random --difficulty hard
  blast simulate level05 --runs 1000
  blast serve --ssh :2222`,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to configuration YAML")
	rootCmd.PersistentFlags().StringVar(&flagLevelsDir, "levels", "", "Extra level directory (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate (0 = from config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = level seed or time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.blast/results.db", "Path to results database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagTheme, "theme", "", "Color theme: default, neon, pastel")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadSettings reads the configuration, applies flag overrides and sets up
// logging, the theme and the game settings.
func loadSettings(_ *cobra.Command, _ []string) error {
	cfg, err := config.LoadBlast(flagConfig)
	if err != nil {
		return err
	}
	if flagFPS > 0 {
		cfg.Play.TickRate = flagFPS
	}
	if flagLevelsDir != "" {
		cfg.Levels.Dir = flagLevelsDir
	}
	if flagTheme != "" {
		cfg.Play.Theme = flagTheme
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	logger.SetLevel(level)

	theme, err := tui.ThemeByName(cfg.Play.Theme)
	if err != nil {
		return err
	}
	tui.SetTheme(theme)

	blastCfg = cfg
	configureGame(cfg)
	logger.Debug("configuration loaded", "levels", cfg.Levels.Dir, "difficulty", cfg.Random.Difficulty)
	return nil
}

// configureGame passes the configuration to games created from now on.
func configureGame(cfg config.BlastConfig) {
	blast.Configure(blast.Settings{
		LevelsDir:   config.ExpandHome(cfg.Levels.Dir),
		MaxShuffles: cfg.Engine.MaxShuffles,
		StepTicks:   cfg.Play.StepTicks,
		ShowHints:   cfg.Play.ShowHints,
		Ranges:      cfg.RandomRanges(),
		Logger:      logger,
	})
}

// terminalConfig builds the runtime config from the terminal size.
func terminalConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: blastCfg.Play.TickRate,
		Seed:     flagSeed,
	}
}

// logToFile moves logging to ~/.blast/blast.log while the terminal UI owns
// the screen. The returned function restores stderr.
func logToFile() func() {
	dir := config.HomeDir()
	if dir == "" {
		return func() {}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "blast.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return func() {}
	}
	logger.SetOutput(f)
	return func() {
		logger.SetOutput(os.Stderr)
		f.Close()
	}
}

// openStore opens the results database. Interactive commands keep working
// without it.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open results database", "path", flagDBPath, "err", err)
		return nil
	}
	return store
}

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
