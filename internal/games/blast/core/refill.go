package core

import "fmt"

// PopulateRefill writes into refill the structural complement of main: every
// position empty in main becomes occupied with a random palette color, and every
// position occupied in main becomes empty. Colors are drawn in row-major order.
func PopulateRefill(main, refill *Board, palette Palette, rng Source) {
	if len(palette) == 0 {
		panic(&InvariantError{Op: "populate refill", Detail: "empty palette"})
	}
	if main.length != refill.length {
		panic(&InvariantError{Op: "populate refill", Detail: "board size mismatch"})
	}
	for i := range main.cells {
		if main.cells[i].Occupied {
			refill.cells[i].clear()
			continue
		}
		refill.cells[i].fill(palette[rng.IntN(len(palette))])
	}
}

// MergeRefillIntoMain fills every empty cell of main with the color of the
// refill cell at the same position. Afterwards main has no empty cells.
func MergeRefillIntoMain(main, refill *Board) []Tile {
	var placed []Tile
	for i := range main.cells {
		if main.cells[i].Occupied {
			continue
		}
		src := refill.cells[i]
		if !src.Occupied {
			panic(&InvariantError{Op: "merge refill", Detail: fmt.Sprintf("no refill tile for hole %v", src.pos)})
		}
		main.cells[i].fill(src.Color)
		placed = append(placed, Tile{Pos: src.pos, Color: src.Color})
	}
	return placed
}

// randomFill occupies every cell of b with a random palette color in row-major order.
func randomFill(b *Board, palette Palette, rng Source) {
	for i := range b.cells {
		b.cells[i].fill(palette[rng.IntN(len(palette))])
	}
}
