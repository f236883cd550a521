package core

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"time"
)

// Phase is the state of a level session.
type Phase uint8

const (
	PhaseAwaitingInput Phase = iota
	PhaseResolving
	PhaseLevelWon
	PhaseLevelLost
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseAwaitingInput:
		return "awaiting_input"
	case PhaseResolving:
		return "resolving"
	case PhaseLevelWon:
		return "level_won"
	case PhaseLevelLost:
		return "level_lost"
	default:
		return "unknown"
	}
}

// Ended reports whether the level is over.
func (p Phase) Ended() bool {
	return p == PhaseLevelWon || p == PhaseLevelLost
}

// LevelConfig is a decoded level. Colors and goals are already closed enums.
type LevelConfig struct {
	Length        int
	Palette       Palette
	StartingGrid  []Color // top row first, left to right; nil means random
	Goals         []GoalSpec
	StartingMoves int
	Seed          int64 // 0 means unseeded
	MaxShuffles   int   // 0 means DefaultMaxShuffles
}

// MoveResult is the outcome of one tap: the ordered events and the phase after it.
type MoveResult struct {
	Events []Event
	Phase  Phase
}

// Valid reports whether the tap was accepted as a move.
func (r MoveResult) Valid() bool {
	if len(r.Events) == 0 {
		return false
	}
	_, invalid := r.Events[0].(InvalidMove)
	return !invalid
}

// Session owns everything mutable about one play of a level: the board, the
// goals, the move budget and the random source.
type Session struct {
	cfg   LevelConfig
	seed  int64
	rng   *rand.Rand
	phase Phase
	err   error

	board       *Board
	refill      *Board
	backup      *Board
	holes       HoleCounts
	refillHoles HoleCounts
	matcher     *Matcher
	goals       *Tracker

	movesLeft       int
	movesMade       int
	collected       int
	openingShuffles int
}

// NewSession validates cfg, builds the starting board and makes sure it has a
// legal move. Configuration problems are returned as *ConfigError.
func NewSession(cfg LevelConfig) (*Session, error) {
	if err := checkConfig(cfg); err != nil {
		return nil, err
	}
	goals, err := NewTracker(cfg.Goals)
	if err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	n := cfg.Length
	s := &Session{
		cfg:         cfg,
		seed:        seed,
		rng:         NewSource(seed),
		phase:       PhaseAwaitingInput,
		board:       NewBoard(n),
		refill:      NewBoard(n),
		backup:      NewBoard(n),
		holes:       NewHoleCounts(n),
		refillHoles: NewHoleCounts(n),
		matcher:     NewMatcher(n),
		goals:       goals,
		movesLeft:   cfg.StartingMoves,
	}
	if cfg.StartingGrid != nil {
		FillTopRowFirst(s.board, cfg.StartingGrid)
	} else {
		randomFill(s.board, cfg.Palette, s.rng)
	}
	shuffles, err := EnsureSolvable(s.board, s.maxShuffles(), s.rng)
	if err != nil {
		return nil, err
	}
	s.openingShuffles = shuffles
	return s, nil
}

func checkConfig(cfg LevelConfig) error {
	if cfg.Length < 1 {
		return invalidLevel("grid length %d", cfg.Length)
	}
	if len(cfg.Palette) == 0 {
		return invalidLevel("empty palette")
	}
	seen := make(map[Color]bool, len(cfg.Palette))
	for _, c := range cfg.Palette {
		if !c.Valid() {
			return invalidLevel("palette color %d", c)
		}
		if seen[c] {
			return invalidLevel("palette repeats %s", c)
		}
		seen[c] = true
	}
	if cfg.StartingGrid != nil {
		if len(cfg.StartingGrid) != cfg.Length*cfg.Length {
			return invalidLevel("starting grid has %d entries, want %d", len(cfg.StartingGrid), cfg.Length*cfg.Length)
		}
		for i, c := range cfg.StartingGrid {
			if !c.Valid() {
				return invalidLevel("starting grid entry %d is not a color", i)
			}
		}
	}
	if cfg.StartingMoves < 1 {
		return invalidLevel("starting moves %d", cfg.StartingMoves)
	}
	if cfg.MaxShuffles < 0 {
		return invalidLevel("max shuffles %d", cfg.MaxShuffles)
	}
	return nil
}

// FillTopRowFirst occupies b from a flat list ordered top row first, left to
// right: cell (row, col) takes flat[(length-1-row)*length + col].
func FillTopRowFirst(b *Board, flat []Color) {
	n := b.length
	if len(flat) != n*n {
		panic(&InvariantError{Op: "fill board", Detail: fmt.Sprintf("%d entries for %dx%d board", len(flat), n, n)})
	}
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			b.Set(row, col, flat[(n-1-row)*n+col])
		}
	}
}

func (s *Session) maxShuffles() int {
	if s.cfg.MaxShuffles > 0 {
		return s.cfg.MaxShuffles
	}
	return DefaultMaxShuffles
}

// SubmitTap resolves a tap at (row, col). Rejected taps produce a single
// InvalidMove event and leave the session unchanged. A non-nil error means the
// board could not be made playable: the level has ended, Err reports the
// error, and every later tap returns it again.
func (s *Session) SubmitTap(row, col int) (MoveResult, error) {
	if s.err != nil {
		return MoveResult{Phase: s.phase}, s.err
	}
	p := P(row, col)
	if s.phase != PhaseAwaitingInput {
		return s.reject(p, ReasonLevelOver), nil
	}
	cell := s.board.At(row, col)
	switch {
	case cell == nil:
		return s.reject(p, ReasonOutOfBounds), nil
	case !cell.Occupied:
		return s.reject(p, ReasonEmptyCell), nil
	}
	collected := s.matcher.CollectSameColor(s.board, p)
	if len(collected) < 2 {
		return s.reject(p, ReasonSingleTile), nil
	}

	s.phase = PhaseResolving
	events, err := s.resolve(collected)
	if err != nil {
		s.err = err
	}
	return MoveResult{Events: events, Phase: s.phase}, err
}

func (s *Session) reject(p Pos, reason InvalidReason) MoveResult {
	return MoveResult{Events: []Event{InvalidMove{Pos: p, Reason: reason}}, Phase: s.phase}
}

// resolve runs one valid move. If anything panics, the board is put back the
// way it was before the tap and the panic continues.
func (s *Session) resolve(collected []*Cell) (events []Event, err error) {
	s.backup.copyFrom(s.board)
	defer func() {
		if r := recover(); r != nil {
			s.board.copyFrom(s.backup)
			s.phase = PhaseAwaitingInput
			panic(r)
		}
	}()

	tiles := tilesOf(collected)
	events = append(events, CellsCollected{Color: tiles[0].Color, Cells: tiles})

	removed := make([]Pos, len(collected))
	for i, c := range collected {
		c.clear()
		removed[i] = c.pos
	}
	events = append(events, CellsRemoved{Cells: removed})

	ComputeHolesBelow(s.board, s.holes)
	falls := ApplyFall(s.board, CollectFillers(s.board, s.holes), s.holes)
	events = append(events, CellsFellToFillHoles{Falls: falls, Holes: s.holes.Clone()})

	PopulateRefill(s.board, s.refill, s.cfg.Palette, s.rng)
	ComputeHolesBelow(s.refill, s.refillHoles)
	events = append(events, RefillReady{Refill: s.refill.Clone(), Holes: s.refillHoles.Clone()})
	MergeRefillIntoMain(s.board, s.refill)
	s.board.checkConsistent("refill")
	if n := s.board.EmptyCount(); n != 0 {
		panic(&InvariantError{Op: "refill", Detail: fmt.Sprintf("%d empty cells after merge", n)})
	}

	shuffles, err := EnsureSolvable(s.board, s.maxShuffles(), s.rng)
	if shuffles > 0 {
		events = append(events, GridShuffled{Attempts: shuffles, Colors: s.board.Colors()})
	}
	if err != nil {
		return events, err
	}

	events = append(events, s.goals.OnMatched(tiles)...)
	s.movesLeft--
	s.movesMade++
	s.collected += len(tiles)
	events = append(events, MoveResolved{MovesLeft: s.movesLeft})

	switch {
	case s.goals.AllComplete():
		s.phase = PhaseLevelWon
		events = append(events, LevelEnded{Won: true})
	case s.movesLeft <= 0:
		s.phase = PhaseLevelLost
		events = append(events, LevelEnded{Won: false})
	default:
		s.phase = PhaseAwaitingInput
	}
	return events, nil
}

// Restart returns a fresh session for the same level and seed.
func (s *Session) Restart() (*Session, error) {
	cfg := s.cfg
	cfg.Seed = s.seed
	return NewSession(cfg)
}

// Phase returns the current phase. After a fatal error the phase stays
// PhaseResolving; callers check Err first.
func (s *Session) Phase() Phase { return s.phase }

// Err returns the fatal error that stopped the session, if any.
func (s *Session) Err() error { return s.err }

// Seed returns the seed actually used, which differs from the configured seed
// when that was 0.
func (s *Session) Seed() int64 { return s.seed }

// Config returns the level configuration.
func (s *Session) Config() LevelConfig { return s.cfg }

// Length returns the board side length.
func (s *Session) Length() int { return s.board.length }

// MovesLeft returns the remaining move budget.
func (s *Session) MovesLeft() int { return s.movesLeft }

// MovesMade returns the number of valid moves resolved so far.
func (s *Session) MovesMade() int { return s.movesMade }

// Collected returns the number of tiles collected so far.
func (s *Session) Collected() int { return s.collected }

// OpeningShuffles returns how many reshuffles the starting board needed.
func (s *Session) OpeningShuffles() int { return s.openingShuffles }

// ColorAt returns the color at (row, col).
func (s *Session) ColorAt(row, col int) Color { return s.board.ColorAt(row, col) }

// Board returns a copy of the current board.
func (s *Session) Board() *Board { return s.board.Clone() }

// Goals returns copies of the goals in configuration order.
func (s *Session) Goals() []Goal { return s.goals.Goals() }

// Moves returns every legal move as its component, ordered row-major by first cell.
func (s *Session) Moves() [][]Pos {
	return s.matcher.Components(s.board)
}

// Snapshot captures the observable session state for determinism checks.
type Snapshot struct {
	Phase     Phase
	MovesLeft int
	MovesMade int
	Collected int
	Length    int
	Colors    []Color // row-major, bottom row first
	Goals     []Goal
}

// Snapshot returns the current observable state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Phase:     s.phase,
		MovesLeft: s.movesLeft,
		MovesMade: s.movesMade,
		Collected: s.collected,
		Length:    s.board.length,
		Colors:    s.board.Colors(),
		Goals:     s.goals.Goals(),
	}
}

// Hash returns an FNV-64a hash of the snapshot.
func (sn Snapshot) Hash() uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d|%d|%d|%d|%d|", sn.Phase, sn.MovesLeft, sn.MovesMade, sn.Collected, sn.Length)
	for _, c := range sn.Colors {
		h.Write([]byte{byte(c)})
	}
	for _, g := range sn.Goals {
		fmt.Fprintf(h, "|%d:%d/%d", g.Type, g.Remaining, g.Total)
	}
	return h.Sum64()
}
