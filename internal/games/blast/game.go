// Package blast provides the Blast tile-matching game for the platform.
package blast

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	platformcore "github.com/vovakirdan/tui-blast/internal/core"
	"github.com/vovakirdan/tui-blast/internal/games/blast/core"
	"github.com/vovakirdan/tui-blast/internal/games/blast/levels"
	"github.com/vovakirdan/tui-blast/internal/registry"
	"github.com/vovakirdan/tui-blast/internal/replay"
)

// Mode selects where levels come from.
type Mode int

const (
	ModeCampaign Mode = iota // level files in order
	ModeRandom               // generated levels
)

// Points awarded per collected tile and per move left on a win.
const (
	PointsPerTile     = 10
	PointsPerMoveLeft = 100
)

func init() {
	registry.Register("blast", func() registry.Game {
		return New(ModeCampaign)
	})
	registry.Register("blast_random", func() registry.Game {
		return New(ModeRandom)
	})
}

// Finished describes a level that has just ended.
type Finished struct {
	Level     levels.Level
	Seed      int64
	Won       bool
	Score     int
	MovesMade int
	MovesLeft int
	Collected int
	Replay    replay.Record
}

// Game adapts a level session to the platform: cursor and mouse taps go in,
// resolution events are played back over several ticks, and the board is drawn
// into the screen buffer.
type Game struct {
	mode     Mode
	settings Settings
	logger   *log.Logger
	rng      *rand.Rand

	startAt    string // campaign level chosen for this game; overrides settings
	campaign   []levels.Level
	levelIndex int
	level      levels.Level
	session    *core.Session
	recorder   *replay.Recorder
	seed       int64 // runtime seed override; 0 uses level seeds
	err        error

	cursor core.Pos
	play   *playback

	// Screen dimensions
	screenW int
	screenH int

	tick     uint64
	total    int // score of previously won levels in this run
	gameOver bool
	won      bool
	paused   bool
	tooSmall bool
	message  string
	finished *Finished

	layout layout
}

// New creates a game in the given mode.
func New(mode Mode) *Game {
	return &Game{mode: mode}
}

// StartAt makes the next Reset begin the campaign at the given level.
func (g *Game) StartAt(levelID string) {
	g.startAt = levelID
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModeRandom {
		return "blast_random"
	}
	return "blast"
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeRandom {
		return "Blast (random levels)"
	}
	return "Blast"
}

// Reset initializes the game and starts the first level.
func (g *Game) Reset(cfg platformcore.RuntimeConfig) {
	g.settings = CurrentSettings()
	g.logger = g.settings.logger()
	g.seed = cfg.Seed
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g.rng = core.NewSource(seed)
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.tick = 0
	g.total = 0
	g.err = nil
	g.levelIndex = 0
	g.campaign = nil

	if g.mode == ModeCampaign {
		g.campaign = g.settings.CampaignLevels()
		id := g.settings.StartLevel
		if g.startAt != "" {
			id = g.startAt
		}
		if id != "" {
			g.levelIndex = -1
			for i, lvl := range g.campaign {
				if lvl.ID == id {
					g.levelIndex = i
					break
				}
			}
			if g.levelIndex < 0 {
				g.logger.Warn("unknown level, playing the default level", "level", id)
				g.campaign = []levels.Level{levels.Default()}
				g.levelIndex = 0
			}
		}
		g.startLevel(g.campaign[g.levelIndex])
		return
	}
	g.startRandomLevel()
}

func (g *Game) startRandomLevel() {
	lvl, err := levels.Random(g.rng, g.settings.Ranges)
	if err != nil {
		g.fail(err)
		return
	}
	g.startLevel(lvl)
}

// startLevel begins a fresh session of lvl.
func (g *Game) startLevel(lvl levels.Level) {
	if lvl.Config.MaxShuffles == 0 && g.settings.MaxShuffles > 0 {
		lvl.Config.MaxShuffles = g.settings.MaxShuffles
		lvl.File.MaxShuffles = g.settings.MaxShuffles
	}
	g.level = lvl
	s, err := lvl.NewSession(g.seed)
	if err != nil {
		g.fail(fmt.Errorf("level %s: %w", lvl.ID, err))
		return
	}
	g.begin(s)
}

func (g *Game) begin(s *core.Session) {
	g.session = s
	g.recorder = replay.NewRecorder(g.level, s.Seed())
	g.err = nil
	g.gameOver = false
	g.won = false
	g.paused = false
	g.play = nil
	g.finished = nil
	g.message = ""
	n := s.Length()
	g.cursor = core.P(n/2, n/2)
	if s.OpeningShuffles() > 0 {
		g.message = "Board shuffled"
	}
	g.calculateLayout()
	g.logger.Debug("level started", "level", g.level.ID, "seed", s.Seed(), "shuffles", s.OpeningShuffles())
}

func (g *Game) fail(err error) {
	g.err = err
	g.session = nil
	g.gameOver = true
	g.won = false
	g.play = nil
	g.message = err.Error()
	g.logger.Error("level failed", "err", err)
}

// Step advances the game by one tick.
func (g *Game) Step(input platformcore.InputFrame) platformcore.StepResult {
	g.tick++

	if input.Has(platformcore.ActionRestart) {
		g.restart()
		return platformcore.StepResult{State: g.State()}
	}
	if input.Has(platformcore.ActionNext) && g.gameOver && g.won {
		g.nextLevel()
		return platformcore.StepResult{State: g.State()}
	}
	if input.Has(platformcore.ActionPause) && !g.gameOver {
		g.paused = !g.paused
	}

	if g.paused || g.session == nil {
		return platformcore.StepResult{State: g.State()}
	}

	// Input is ignored while a move is still being shown.
	if g.play != nil {
		g.advancePlayback()
		return platformcore.StepResult{State: g.State()}
	}
	if g.gameOver || g.tooSmall {
		return platformcore.StepResult{State: g.State()}
	}

	g.moveCursor(input)

	switch {
	case input.Click != nil:
		if p, ok := g.layout.cellAt(input.Click.X, input.Click.Y); ok {
			g.cursor = p
			g.tap(p)
		}
	case input.Has(platformcore.ActionTap):
		g.tap(g.cursor)
	case input.Has(platformcore.ActionHint):
		g.showHint()
	}

	return platformcore.StepResult{State: g.State()}
}

func (g *Game) moveCursor(input platformcore.InputFrame) {
	n := g.session.Length()
	row, col := g.cursor.Row, g.cursor.Col
	// Row 0 is the bottom of the board, so screen up is a higher row.
	if input.Has(platformcore.ActionUp) {
		row++
	}
	if input.Has(platformcore.ActionDown) {
		row--
	}
	if input.Has(platformcore.ActionLeft) {
		col--
	}
	if input.Has(platformcore.ActionRight) {
		col++
	}
	g.cursor = core.P(platformcore.Clamp(row, 0, n-1), platformcore.Clamp(col, 0, n-1))
}

// tap submits a tap and starts playing back its events.
func (g *Game) tap(p core.Pos) {
	before := g.session.Board()
	res, err := g.session.SubmitTap(p.Row, p.Col)
	if err != nil {
		g.fail(fmt.Errorf("level %s: %w", g.level.ID, err))
		return
	}
	if !res.Valid() {
		inv, _ := res.Events[0].(core.InvalidMove)
		g.message = invalidText(inv.Reason)
		g.logger.Debug("tap rejected", "level", g.level.ID, "tap", p, "reason", inv.Reason)
		return
	}

	g.recorder.Tap(p.Row, p.Col)
	g.message = ""
	g.play = newPlayback(before, res.Events, g.settings.StepTicks)
	g.logger.Debug("move resolved",
		"level", g.level.ID,
		"tap", p,
		"collected", collectedCount(res.Events),
		"moves_left", g.session.MovesLeft(),
		"phase", res.Phase,
	)
	g.advancePlayback()
}

func (g *Game) advancePlayback() {
	for g.play != nil {
		if g.play.ticks > 0 {
			g.play.ticks--
			return
		}
		ev, ok := g.play.next()
		if !ok {
			g.play = nil
			g.afterMove()
			return
		}
		switch e := ev.(type) {
		case core.GridShuffled:
			g.message = "No moves left: board shuffled"
		case core.GoalCompleted:
			g.message = "Goal complete: " + goalLabel(e.Type)
		}
	}
}

// afterMove runs once the playback of a move has finished.
func (g *Game) afterMove() {
	if !g.session.Phase().Ended() {
		return
	}
	g.gameOver = true
	g.won = g.session.Phase() == core.PhaseLevelWon
	score := Score(g.session)
	if g.won {
		g.message = "Level complete!"
	} else {
		g.message = "Out of moves"
	}
	g.finished = &Finished{
		Level:     g.level,
		Seed:      g.session.Seed(),
		Won:       g.won,
		Score:     score,
		MovesMade: g.session.MovesMade(),
		MovesLeft: g.session.MovesLeft(),
		Collected: g.session.Collected(),
		Replay:    g.recorder.Finish(g.session),
	}
	g.logger.Info("level ended", "level", g.level.ID, "won", g.won, "score", score, "moves", g.session.MovesMade())
}

func (g *Game) restart() {
	g.paused = false
	if g.session == nil {
		if g.level.ID != "" {
			g.startLevel(g.level)
		}
		return
	}
	s, err := g.session.Restart()
	if err != nil {
		g.fail(err)
		return
	}
	g.begin(s)
}

func (g *Game) nextLevel() {
	if g.mode == ModeCampaign && g.levelIndex+1 >= len(g.campaign) {
		g.message = "All levels cleared!"
		return
	}
	if g.finished != nil {
		g.total += g.finished.Score
	}
	if g.mode == ModeRandom {
		g.startRandomLevel()
		return
	}
	g.levelIndex++
	g.startLevel(g.campaign[g.levelIndex])
}

func (g *Game) showHint() {
	p, ok := core.Greedy{}.Choose(g.session)
	if !ok {
		return
	}
	g.cursor = p
	g.message = "Try here"
}

// Score returns the points earned so far in a session.
func Score(s *core.Session) int {
	return ScoreFor(s.Collected(), s.MovesLeft(), s.Phase() == core.PhaseLevelWon)
}

// ScoreFor scores collected tiles, plus the moves left when the level was won.
func ScoreFor(collected, movesLeft int, won bool) int {
	score := collected * PointsPerTile
	if won {
		score += movesLeft * PointsPerMoveLeft
	}
	return score
}

// State returns the current game state.
func (g *Game) State() platformcore.GameState {
	score := g.total
	if g.session != nil {
		score += Score(g.session)
	}
	return platformcore.GameState{
		Score:    score,
		GameOver: g.gameOver,
		Won:      g.won,
		Paused:   g.paused,
	}
}

// Finished returns the level that ended most recently, until the next level
// or restart begins.
func (g *Game) Finished() (Finished, bool) {
	if g.finished == nil {
		return Finished{}, false
	}
	return *g.finished, true
}

// Level returns the level being played.
func (g *Game) Level() levels.Level {
	return g.level
}

// Session returns the running session, or nil after a fatal level error.
func (g *Game) Session() *core.Session {
	return g.session
}

// Err returns the error that stopped the current level, if any.
func (g *Game) Err() error {
	return g.err
}

// Animating reports whether a move is still being played back.
func (g *Game) Animating() bool {
	return g.play != nil
}

func invalidText(r core.InvalidReason) string {
	switch r {
	case core.ReasonSingleTile:
		return "Needs two or more touching tiles"
	case core.ReasonEmptyCell:
		return "Nothing there"
	case core.ReasonOutOfBounds:
		return "Outside the board"
	default:
		return "Level is over"
	}
}

func collectedCount(events []core.Event) int {
	for _, ev := range events {
		if c, ok := ev.(core.CellsCollected); ok {
			return len(c.Cells)
		}
	}
	return 0
}
