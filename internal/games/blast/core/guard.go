package core

import "fmt"

// DefaultMaxShuffles is the reshuffle budget used when a level does not set one.
const DefaultMaxShuffles = 10

// HasAnyLegalMove reports whether some occupied cell has a same-colored neighbor.
func HasAnyLegalMove(b *Board) bool {
	for i := range b.cells {
		if hasSameColorNeighbor(b, b.cells[i].pos) {
			return true
		}
	}
	return false
}

// Shuffle permutes the colors of the occupied cells among the occupied positions
// (Fisher-Yates). The color multiset is unchanged.
func Shuffle(b *Board, rng Source) {
	idx := make([]int, 0, len(b.cells))
	colors := make([]Color, 0, len(b.cells))
	for i, c := range b.cells {
		if c.Occupied {
			idx = append(idx, i)
			colors = append(colors, c.Color)
		}
	}
	for i := len(colors) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		colors[i], colors[j] = colors[j], colors[i]
	}
	for k, i := range idx {
		b.cells[i].Color = colors[k]
	}
}

// EnsureSolvable reshuffles b until it has a legal move, at most maxAttempts times.
// It returns the number of shuffles performed. If the board is still stuck after
// the last attempt it returns a *ConfigError wrapping ErrUnsolvable.
func EnsureSolvable(b *Board, maxAttempts int, rng Source) (int, error) {
	if HasAnyLegalMove(b) {
		return 0, nil
	}
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		Shuffle(b, rng)
		if HasAnyLegalMove(b) {
			return attempt, nil
		}
	}
	return maxAttempts, &ConfigError{
		Op:  "ensure solvable",
		Err: ErrUnsolvable,
		Msg: fmt.Sprintf("%d attempts on %dx%d board", maxAttempts, b.length, b.length),
	}
}
