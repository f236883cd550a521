package core

import (
	"fmt"
	"hash/fnv"
)

// Board is a square grid of cells stored row-major with row 0 at the bottom:
// index = row*length + col. The cell slice is allocated once and never replaced.
type Board struct {
	length int
	cells  []Cell
}

// NewBoard creates a board of the given side length with every cell empty.
// Lengths below 1 are raised to 1.
func NewBoard(length int) *Board {
	if length < 1 {
		length = 1
	}
	b := &Board{
		length: length,
		cells:  make([]Cell, length*length),
	}
	for row := 0; row < length; row++ {
		for col := 0; col < length; col++ {
			b.cells[b.index(row, col)].pos = P(row, col)
		}
	}
	return b
}

// Length returns the side length of the board.
func (b *Board) Length() int {
	return b.length
}

func (b *Board) index(row, col int) int {
	return row*b.length + col
}

// InBounds returns true if (row, col) lies on the board.
func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && row < b.length && col >= 0 && col < b.length
}

// At returns the cell at (row, col), or nil if out of bounds.
func (b *Board) At(row, col int) *Cell {
	if !b.InBounds(row, col) {
		return nil
	}
	return &b.cells[b.index(row, col)]
}

// cell returns the cell at p without bounds checks.
func (b *Board) cell(p Pos) *Cell {
	return &b.cells[b.index(p.Row, p.Col)]
}

// neighborOffsets lists up, right, down, left.
var neighborOffsets = [4]Pos{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}

// Neighbors4 returns the in-bounds orthogonal neighbors of (row, col) in the
// order up, right, down, left. Out-of-bounds input yields nil.
func (b *Board) Neighbors4(row, col int) []Pos {
	if !b.InBounds(row, col) {
		return nil
	}
	out := make([]Pos, 0, 4)
	for _, d := range neighborOffsets {
		r, c := row+d.Row, col+d.Col
		if b.InBounds(r, c) {
			out = append(out, P(r, c))
		}
	}
	return out
}

// ColorAt returns the color at (row, col), or ColorNone when out of bounds.
func (b *Board) ColorAt(row, col int) Color {
	if c := b.At(row, col); c != nil {
		return c.Color
	}
	return ColorNone
}

// Set fills or clears the cell at (row, col). ColorNone clears it.
// Out-of-bounds coordinates are ignored.
func (b *Board) Set(row, col int, color Color) {
	c := b.At(row, col)
	if c == nil {
		return
	}
	if color == ColorNone {
		c.clear()
		return
	}
	c.fill(color)
}

// Colors returns the colors of all cells in row-major order (bottom row first).
func (b *Board) Colors() []Color {
	out := make([]Color, len(b.cells))
	for i, c := range b.cells {
		out[i] = c.Color
	}
	return out
}

// EmptyCount returns the number of unoccupied cells.
func (b *Board) EmptyCount() int {
	n := 0
	for _, c := range b.cells {
		if !c.Occupied {
			n++
		}
	}
	return n
}

// CountByColor returns the number of occupied cells per color.
func (b *Board) CountByColor() map[Color]int {
	counts := make(map[Color]int)
	for _, c := range b.cells {
		if c.Occupied {
			counts[c.Color]++
		}
	}
	return counts
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	cells := make([]Cell, len(b.cells))
	copy(cells, b.cells)
	return &Board{length: b.length, cells: cells}
}

// Equal returns true if both boards have the same size and contents.
func (b *Board) Equal(other *Board) bool {
	if other == nil || b.length != other.length {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// copyFrom overwrites occupancy and colors from src, which must have the same length.
func (b *Board) copyFrom(src *Board) {
	for i := range b.cells {
		b.cells[i].Occupied = src.cells[i].Occupied
		b.cells[i].Color = src.cells[i].Color
	}
}

// Hash returns an FNV-64a hash of the board contents.
func (b *Board) Hash() uint64 {
	h := fnv.New64a()
	buf := make([]byte, 0, len(b.cells)+1)
	buf = append(buf, byte(b.length))
	for _, c := range b.cells {
		buf = append(buf, byte(c.Color))
	}
	//nolint:errcheck // hash.Hash never returns an error
	h.Write(buf)
	return h.Sum64()
}

// checkConsistent panics if any cell breaks the occupied/color invariant.
func (b *Board) checkConsistent(op string) {
	for _, c := range b.cells {
		if !c.consistent() {
			panic(&InvariantError{Op: op, Detail: fmt.Sprintf("cell %v occupied=%v color=%v", c.pos, c.Occupied, c.Color)})
		}
	}
}
