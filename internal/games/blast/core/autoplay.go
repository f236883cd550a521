package core

import "fmt"

// Strategy picks the next tap for an automated player.
type Strategy interface {
	Name() string
	Choose(s *Session) (Pos, bool)
}

// Greedy taps the largest component, preferring colors that still count toward
// an incomplete collect goal.
type Greedy struct{}

// Name implements Strategy.
func (Greedy) Name() string { return "greedy" }

// Choose implements Strategy.
func (Greedy) Choose(s *Session) (Pos, bool) {
	wanted := make(map[Color]bool)
	for _, g := range s.goals.Goals() {
		if !g.Complete() && g.Type.Color() != ColorNone {
			wanted[g.Type.Color()] = true
		}
	}
	best, bestScore := -1, -1
	moves := s.Moves()
	for i, group := range moves {
		score := len(group)
		if wanted[s.board.ColorAt(group[0].Row, group[0].Col)] {
			score += len(s.board.cells)
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return Pos{}, false
	}
	return moves[best][0], true
}

// RandomPlay taps a uniformly chosen legal move.
type RandomPlay struct {
	Rng Source
}

// Name implements Strategy.
func (RandomPlay) Name() string { return "random" }

// Choose implements Strategy.
func (r RandomPlay) Choose(s *Session) (Pos, bool) {
	moves := s.Moves()
	if len(moves) == 0 {
		return Pos{}, false
	}
	group := moves[r.Rng.IntN(len(moves))]
	return group[r.Rng.IntN(len(group))], true
}

// StrategyByName returns a strategy by its name. RandomPlay uses rng.
func StrategyByName(name string, rng Source) (Strategy, error) {
	switch name {
	case "greedy", "":
		return Greedy{}, nil
	case "random":
		return RandomPlay{Rng: rng}, nil
	default:
		return nil, fmt.Errorf("core: unknown strategy %q", name)
	}
}

// Outcome summarizes an automated play-through.
type Outcome struct {
	Won       bool
	MovesMade int
	MovesLeft int
	Collected int
	Taps      []Pos
}

// Autoplay drives s with st until the level ends. It fails if the strategy finds
// no move while the level is still running or the session hits a fatal error.
func Autoplay(s *Session, st Strategy) (Outcome, error) {
	var taps []Pos
	for !s.phase.Ended() {
		p, ok := st.Choose(s)
		if !ok {
			return Outcome{}, fmt.Errorf("core: %s strategy found no move", st.Name())
		}
		res, err := s.SubmitTap(p.Row, p.Col)
		if err != nil {
			return Outcome{}, err
		}
		if !res.Valid() {
			return Outcome{}, fmt.Errorf("core: %s strategy chose invalid tap %v", st.Name(), p)
		}
		taps = append(taps, p)
	}
	return Outcome{
		Won:       s.phase == PhaseLevelWon,
		MovesMade: s.movesMade,
		MovesLeft: s.movesLeft,
		Collected: s.collected,
		Taps:      taps,
	}, nil
}
