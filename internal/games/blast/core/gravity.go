package core

import "fmt"

// HoleCounts holds, for every position, the number of empty cells below it in
// its column. Indexed [row][col].
type HoleCounts [][]int

// NewHoleCounts allocates a zeroed table for a board of the given side length.
func NewHoleCounts(length int) HoleCounts {
	h := make(HoleCounts, length)
	for row := range h {
		h[row] = make([]int, length)
	}
	return h
}

// At returns the hole count at p.
func (h HoleCounts) At(p Pos) int {
	return h[p.Row][p.Col]
}

// Clone returns a deep copy of the table.
func (h HoleCounts) Clone() HoleCounts {
	out := make(HoleCounts, len(h))
	for row := range h {
		out[row] = append([]int(nil), h[row]...)
	}
	return out
}

// ComputeHolesBelow fills dst for board b in one bottom-up pass. Row 0 is always 0
// whatever its occupancy. dst must be sized to the board.
func ComputeHolesBelow(b *Board, dst HoleCounts) HoleCounts {
	n := b.length
	for col := 0; col < n; col++ {
		dst[0][col] = 0
	}
	for row := 1; row < n; row++ {
		for col := 0; col < n; col++ {
			below := dst[row-1][col]
			if !b.cells[b.index(row-1, col)].Occupied {
				below++
			}
			dst[row][col] = below
		}
	}
	return dst
}

// CollectFillers returns every occupied cell above row 0 with at least one hole
// below it, in row-major order.
func CollectFillers(b *Board, holes HoleCounts) []*Cell {
	var fillers []*Cell
	for row := 1; row < b.length; row++ {
		for col := 0; col < b.length; col++ {
			c := &b.cells[b.index(row, col)]
			if c.Occupied && holes[row][col] > 0 {
				fillers = append(fillers, c)
			}
		}
	}
	return fillers
}

// Fall describes one tile dropping from From to To.
type Fall struct {
	From  Pos
	To    Pos
	Color Color
}

// ApplyFall moves every filler down by its hole count. All sources are read and
// all targets are checked before the board is touched, so the outcome does not
// depend on the order of fillers. A target that is occupied and is not itself
// vacated by another filler is a defect and panics with *InvariantError.
func ApplyFall(b *Board, fillers []*Cell, holes HoleCounts) []Fall {
	n := len(b.cells)
	leaving := make([]bool, n)
	for _, f := range fillers {
		if !f.Occupied {
			panic(&InvariantError{Op: "apply fall", Detail: fmt.Sprintf("filler %v is empty", f.pos)})
		}
		leaving[b.index(f.pos.Row, f.pos.Col)] = true
	}

	arriving := make([]bool, n)
	falls := make([]Fall, 0, len(fillers))
	for _, f := range fillers {
		d := holes.At(f.pos)
		to := P(f.pos.Row-d, f.pos.Col)
		if d <= 0 || to.Row < 0 {
			panic(&InvariantError{Op: "apply fall", Detail: fmt.Sprintf("filler %v has hole count %d", f.pos, d)})
		}
		ti := b.index(to.Row, to.Col)
		if arriving[ti] {
			panic(&InvariantError{Op: "apply fall", Detail: fmt.Sprintf("two fillers target %v", to)})
		}
		if b.cells[ti].Occupied && !leaving[ti] {
			panic(&InvariantError{Op: "apply fall", Detail: fmt.Sprintf("target %v of %v is occupied", to, f.pos)})
		}
		arriving[ti] = true
		falls = append(falls, Fall{From: f.pos, To: to, Color: f.Color})
	}

	for _, f := range falls {
		b.cell(f.From).clear()
	}
	for _, f := range falls {
		b.cell(f.To).fill(f.Color)
	}
	return falls
}
