package core

// Matcher finds same-color connected components. Its visited bitmap and queue
// are sized to the board once and cleared on each search.
type Matcher struct {
	visited []bool
	queue   []Pos
}

// NewMatcher creates a matcher for boards of the given side length.
func NewMatcher(length int) *Matcher {
	return &Matcher{
		visited: make([]bool, length*length),
		queue:   make([]Pos, 0, length*length),
	}
}

// fit grows the scratch buffers when used with a larger board.
func (m *Matcher) fit(b *Board) {
	if n := len(b.cells); len(m.visited) < n {
		m.visited = make([]bool, n)
		m.queue = make([]Pos, 0, n)
	}
}

// CollectSameColor returns the maximal 4-connected set of occupied cells that share
// start's color, in breadth-first order beginning with start. It returns nil if
// start is out of bounds or empty.
func (m *Matcher) CollectSameColor(b *Board, start Pos) []*Cell {
	origin := b.At(start.Row, start.Col)
	if origin == nil || !origin.Occupied || origin.Color == ColorNone {
		return nil
	}
	m.fit(b)
	clear(m.visited)

	color := origin.Color
	m.queue = append(m.queue[:0], start)
	m.visited[b.index(start.Row, start.Col)] = true

	var out []*Cell
	for head := 0; head < len(m.queue); head++ {
		p := m.queue[head]
		out = append(out, b.cell(p))
		for _, d := range neighborOffsets {
			r, c := p.Row+d.Row, p.Col+d.Col
			if !b.InBounds(r, c) {
				continue
			}
			idx := b.index(r, c)
			if m.visited[idx] {
				continue
			}
			n := &b.cells[idx]
			if !n.Occupied || n.Color != color {
				continue
			}
			m.visited[idx] = true
			m.queue = append(m.queue, P(r, c))
		}
	}
	return out
}

// IsValidMove reports whether tapping p would collect at least two cells.
func (m *Matcher) IsValidMove(b *Board, p Pos) bool {
	return len(m.CollectSameColor(b, p)) >= 2
}

// Components partitions the occupied cells into same-color groups of size two or
// more. Groups are ordered by their first cell in row-major order.
func (m *Matcher) Components(b *Board) [][]Pos {
	m.fit(b)
	seen := make([]bool, len(b.cells))
	var groups [][]Pos
	for i := range b.cells {
		c := &b.cells[i]
		if seen[i] || !c.Occupied {
			continue
		}
		cells := m.CollectSameColor(b, c.pos)
		group := make([]Pos, len(cells))
		for j, gc := range cells {
			group[j] = gc.pos
			seen[b.index(gc.pos.Row, gc.pos.Col)] = true
		}
		if len(group) >= 2 {
			groups = append(groups, group)
		}
	}
	return groups
}

// hasSameColorNeighbor reports whether the occupied cell at p touches a cell of its color.
func hasSameColorNeighbor(b *Board, p Pos) bool {
	c := b.cell(p)
	if !c.Occupied {
		return false
	}
	for _, d := range neighborOffsets {
		r, col := p.Row+d.Row, p.Col+d.Col
		if !b.InBounds(r, col) {
			continue
		}
		n := b.cell(P(r, col))
		if n.Occupied && n.Color == c.Color {
			return true
		}
	}
	return false
}
