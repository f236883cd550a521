package main

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vovakirdan/tui-blast/internal/games/blast"
	"github.com/vovakirdan/tui-blast/internal/games/blast/levels"
	"github.com/vovakirdan/tui-blast/internal/games/blast/levels/formats"
)

// loadLevelArg loads a level by ID, or from a file when arg names one.
func loadLevelArg(arg string) (levels.Level, error) {
	if slices.Contains(formats.FormatExtensions(), strings.ToLower(filepath.Ext(arg))) {
		if _, err := os.Stat(arg); err == nil {
			return levels.NewLoader(filepath.Dir(arg)).LoadFile(filepath.Base(arg))
		}
	}
	for _, lvl := range blast.CurrentSettings().CampaignLevels() {
		if lvl.ID == arg {
			return lvl, nil
		}
	}
	return levels.NewEmbeddedLoader().LoadByID(arg)
}
