package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-blast/internal/config"
	"github.com/vovakirdan/tui-blast/internal/core"
	"github.com/vovakirdan/tui-blast/internal/games/blast"
	"github.com/vovakirdan/tui-blast/internal/registry"
	"github.com/vovakirdan/tui-blast/internal/replay"
	"github.com/vovakirdan/tui-blast/internal/storage"
)

// Options configures a game model.
type Options struct {
	Store  *storage.Store // nil disables saving
	Source string         // recorded with results: "play" or "ssh"
	Logger *log.Logger
}

// levelReporter is implemented by games that report finished levels.
type levelReporter interface {
	Finished() (blast.Finished, bool)
}

// GameModel runs one game: ticks, input, rendering, and saving finished levels.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	source     string
	logger     *log.Logger
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	quitting   bool
	backToMenu bool
	saved      bool   // whether the current finished level has been stored
	lastReplay string // id of the last stored replay
}

// NewGameModel creates a model for the given game.
func NewGameModel(game registry.Game, cfg core.RuntimeConfig, opts Options) GameModel {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	source := opts.Source
	if source == "" {
		source = "play"
	}
	return GameModel{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      opts.Store,
		source:     source,
		logger:     logger,
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
	}
}

// Init starts the game and the tick loop.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.keyMapper.MapMouseToFrame(msg, &m.inputFrame)
		return m, nil
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		if path, err := m.saveScreenshot(); err != nil {
			m.logger.Warn("screenshot failed", "err", err)
		} else {
			m.logger.Info("screenshot saved", "path", path)
		}
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}
	// Back to menu only once the level is over or paused.
	if action == core.ActionBack {
		if m.gameState.GameOver || m.gameState.Paused {
			m.backToMenu = true
		}
		return m, nil
	}
	if action != core.ActionNone {
		m.inputFrame.Set(action)
	}
	return m, nil
}

// handleTick processes simulation ticks.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	m.inputFrame.Clear()

	m.saveFinished()

	return m, tickCmd(m.config.TickRate)
}

// saveFinished stores the result and replay of a level once when it ends.
func (m *GameModel) saveFinished() {
	rep, ok := m.game.(levelReporter)
	if !ok {
		return
	}
	fin, ok := rep.Finished()
	if !ok {
		m.saved = false
		return
	}
	if m.saved {
		return
	}
	m.saved = true
	if m.store == nil {
		return
	}

	if _, err := m.store.SaveResult(storage.Result{
		LevelID:   fin.Level.ID,
		Source:    m.source,
		Seed:      fin.Seed,
		Won:       fin.Won,
		Score:     fin.Score,
		MovesMade: fin.MovesMade,
		MovesLeft: fin.MovesLeft,
		Collected: fin.Collected,
	}); err != nil {
		m.logger.Warn("could not save result", "level", fin.Level.ID, "err", err)
	}

	payload, err := replay.Encode(fin.Replay)
	if err != nil {
		m.logger.Warn("could not encode replay", "level", fin.Level.ID, "err", err)
		return
	}
	id, err := m.store.SaveReplay(storage.Replay{
		LevelID: fin.Level.ID,
		Seed:    fin.Seed,
		Taps:    len(fin.Replay.Taps),
		Won:     fin.Won,
		Payload: payload,
	})
	if err != nil {
		m.logger.Warn("could not save replay", "level", fin.Level.ID, "err", err)
		return
	}
	m.lastReplay = id
	m.logger.Debug("replay saved", "id", id, "level", fin.Level.ID)
}

// saveScreenshot writes the current screen as plain text under ~/.blast/screenshots.
func (m *GameModel) saveScreenshot() (string, error) {
	m.game.Render(m.screen)

	dir := filepath.Join(config.HomeDir(), "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	return path, os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}
	m.game.Render(m.screen)
	return RenderScreen(m.screen, CurrentTheme())
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// LastReplay returns the id of the last replay stored by this model.
func (m GameModel) LastReplay() string {
	return m.lastReplay
}

// Run plays game in the terminal until the player quits or goes back.
// It reports whether the player asked for the menu.
func Run(game registry.Game, cfg core.RuntimeConfig, opts Options) (backToMenu bool, err error) {
	model := gameRunner{NewGameModel(game, cfg, opts)}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	final, err := p.Run()
	if err != nil {
		return false, err
	}
	if r, ok := final.(gameRunner); ok {
		return r.BackToMenu(), nil
	}
	return false, nil
}

// gameRunner ends the program when the player goes back to the menu.
type gameRunner struct {
	GameModel
}

func (r gameRunner) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := r.GameModel.Update(msg)
	gm, _ := next.(GameModel)
	r.GameModel = gm
	if gm.BackToMenu() {
		return r, tea.Quit
	}
	return r, cmd
}
