package blast

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-blast/internal/games/blast/levels"
)

// Settings configures games created through the registry.
type Settings struct {
	LevelsDir   string        // extra level directory; empty means built-in levels
	StartLevel  string        // campaign level to start on; empty means the first
	MaxShuffles int           // reshuffle budget for levels that do not set one
	StepTicks   int           // ticks each resolution stage stays on screen
	ShowHints   bool          // highlight the group under the cursor
	Ranges      levels.Ranges // random level generator bounds
	Logger      *log.Logger
}

// DefaultSettings returns settings for built-in levels with a silent logger.
func DefaultSettings() Settings {
	return Settings{
		StepTicks: 8,
		ShowHints: true,
		Ranges:    levels.DefaultRanges(),
	}
}

var (
	settingsMu sync.RWMutex
	settings   = DefaultSettings()
)

// Configure replaces the settings used by games created afterwards.
func Configure(s Settings) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	settings = s
}

// CurrentSettings returns a copy of the active settings.
func CurrentSettings() Settings {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return settings
}

func (s Settings) logger() *log.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return log.New(io.Discard)
}

// Loader returns the level loader for these settings.
func (s Settings) Loader() *levels.Loader {
	if s.LevelsDir != "" {
		return levels.NewLoader(s.LevelsDir)
	}
	return levels.NewEmbeddedLoader()
}

// CampaignLevels returns the levels of the campaign in order. An unreadable or
// empty level directory falls back to the built-in levels.
func (s Settings) CampaignLevels() []levels.Level {
	all, err := s.Loader().LoadAll()
	if err == nil && len(all) > 0 {
		return all
	}
	if s.LevelsDir != "" {
		s.logger().Warn("no levels in directory, using built-in levels", "dir", s.LevelsDir, "err", err)
	}
	all, err = levels.NewEmbeddedLoader().LoadAll()
	if err != nil || len(all) == 0 {
		return []levels.Level{levels.Default()}
	}
	return all
}
