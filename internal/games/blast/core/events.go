package core

// EventKind names an event for logging and replay output.
type EventKind string

const (
	KindInvalidMove          EventKind = "invalid_move"
	KindCellsCollected       EventKind = "cells_collected"
	KindCellsRemoved         EventKind = "cells_removed"
	KindCellsFellToFillHoles EventKind = "cells_fell"
	KindRefillReady          EventKind = "refill_ready"
	KindGridShuffled         EventKind = "grid_shuffled"
	KindGoalProgress         EventKind = "goal_progress"
	KindGoalCompleted        EventKind = "goal_completed"
	KindMoveResolved         EventKind = "move_resolved"
	KindLevelEnded           EventKind = "level_ended"
)

// Event is one entry of the ordered list produced by a tap.
// Payloads are copies; no event shares memory with the session's board.
type Event interface {
	Kind() EventKind
}

// InvalidReason explains a rejected tap.
type InvalidReason string

const (
	ReasonOutOfBounds InvalidReason = "out-of-bounds"
	ReasonEmptyCell   InvalidReason = "empty-cell"
	ReasonSingleTile  InvalidReason = "single-tile"
	ReasonLevelOver   InvalidReason = "level-over"
)

// InvalidMove reports a rejected tap. The session did not change.
type InvalidMove struct {
	Pos    Pos
	Reason InvalidReason
}

// CellsCollected lists the matched component, starting with the tapped cell.
type CellsCollected struct {
	Color Color
	Cells []Tile
}

// CellsRemoved lists the cells emptied by the match.
type CellsRemoved struct {
	Cells []Pos
}

// CellsFellToFillHoles lists the tiles that dropped and the hole counts they used.
type CellsFellToFillHoles struct {
	Falls []Fall
	Holes HoleCounts
}

// RefillReady carries the refill board and its own hole counts, which a
// presentation layer can use to stage new tiles above the board.
type RefillReady struct {
	Refill *Board
	Holes  HoleCounts
}

// GridShuffled reports that the guard reshuffled the board to restore a legal move.
type GridShuffled struct {
	Attempts int
	Colors   []Color // row-major, bottom row first
}

// GoalProgress reports a goal that moved but is not yet complete.
type GoalProgress struct {
	Type      GoalType
	Remaining int
}

// GoalCompleted reports a goal that reached zero.
type GoalCompleted struct {
	Type GoalType
}

// MoveResolved closes a valid move.
type MoveResolved struct {
	MovesLeft int
}

// LevelEnded reports the end of the level.
type LevelEnded struct {
	Won bool
}

func (InvalidMove) Kind() EventKind          { return KindInvalidMove }
func (CellsCollected) Kind() EventKind       { return KindCellsCollected }
func (CellsRemoved) Kind() EventKind         { return KindCellsRemoved }
func (CellsFellToFillHoles) Kind() EventKind { return KindCellsFellToFillHoles }
func (RefillReady) Kind() EventKind          { return KindRefillReady }
func (GridShuffled) Kind() EventKind         { return KindGridShuffled }
func (GoalProgress) Kind() EventKind         { return KindGoalProgress }
func (GoalCompleted) Kind() EventKind        { return KindGoalCompleted }
func (MoveResolved) Kind() EventKind         { return KindMoveResolved }
func (LevelEnded) Kind() EventKind           { return KindLevelEnded }
