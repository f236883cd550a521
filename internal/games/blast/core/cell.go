package core

import "fmt"

// Pos is a board position. Row 0 is the bottom row.
type Pos struct {
	Row int
	Col int
}

// P is a convenience constructor for Pos.
func P(row, col int) Pos {
	return Pos{Row: row, Col: col}
}

// String returns a string representation of the position.
func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Cell is one slot of a board. Its position is fixed for the lifetime of the board;
// only Occupied and Color change. Moving a tile means copying these two fields
// between slots.
type Cell struct {
	pos      Pos
	Occupied bool
	Color    Color
}

// Pos returns the position of the cell.
func (c Cell) Pos() Pos {
	return c.pos
}

// fill occupies the cell with the given color.
func (c *Cell) fill(color Color) {
	c.Occupied = true
	c.Color = color
}

// clear empties the cell.
func (c *Cell) clear() {
	c.Occupied = false
	c.Color = ColorNone
}

// consistent reports whether Occupied agrees with Color.
func (c Cell) consistent() bool {
	return c.Occupied == (c.Color != ColorNone)
}

// Tile is a value copy of a cell's position and color, used in event payloads.
type Tile struct {
	Pos   Pos
	Color Color
}

// tilesOf copies the visible state of cells into tiles.
func tilesOf(cells []*Cell) []Tile {
	tiles := make([]Tile, len(cells))
	for i, c := range cells {
		tiles[i] = Tile{Pos: c.pos, Color: c.Color}
	}
	return tiles
}
