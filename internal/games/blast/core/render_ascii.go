package core

import (
	"fmt"
	"strings"
)

// RenderBoard draws the board top row first, one letter per cell separated by
// spaces. Empty cells are '.'.
func RenderBoard(b *Board) string {
	var sb strings.Builder
	for row := b.length - 1; row >= 0; row-- {
		for col := 0; col < b.length; col++ {
			if col > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteRune(b.cells[b.index(row, col)].Color.Char())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// RenderSession draws a status line followed by the board.
func RenderSession(s *Session) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Moves: %d | Phase: %s | Goals:", s.movesLeft, s.phase))
	for _, g := range s.goals.Goals() {
		sb.WriteString(fmt.Sprintf(" %s %d/%d", g.Type.Code(), g.Total-g.Remaining, g.Total))
	}
	sb.WriteByte('\n')
	sb.WriteString(RenderBoard(s.board))
	return sb.String()
}

// ParseBoard builds a board from rows written top row first, as RenderBoard
// prints them. Spaces are ignored and '.' marks an empty cell.
func ParseBoard(rows ...string) (*Board, error) {
	n := len(rows)
	b := NewBoard(n)
	for i, line := range rows {
		row := n - 1 - i
		letters := strings.ReplaceAll(line, " ", "")
		if len(letters) != n {
			return nil, fmt.Errorf("core: row %d has %d cells, want %d", i, len(letters), n)
		}
		for col, r := range letters {
			if r == '.' {
				continue
			}
			c, ok := ParseColor(string(r))
			if !ok {
				return nil, fmt.Errorf("core: row %d col %d: unknown color %q", i, col, r)
			}
			b.Set(row, col, c)
		}
	}
	return b, nil
}
