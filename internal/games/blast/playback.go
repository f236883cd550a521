package blast

import (
	"github.com/vovakirdan/tui-blast/internal/games/blast/core"
)

// playback replays the events of one move against a copy of the board taken
// before the tap, one stage every stepTicks ticks.
type playback struct {
	view      *core.Board
	flash     map[core.Pos]bool // cells just collected
	fresh     map[core.Pos]bool // cells just refilled
	queue     []core.Event
	stepTicks int
	ticks     int
}

func newPlayback(before *core.Board, events []core.Event, stepTicks int) *playback {
	if stepTicks < 0 {
		stepTicks = 0
	}
	return &playback{
		view:      before,
		queue:     events,
		stepTicks: stepTicks,
	}
}

// next applies the next event to the view and returns it.
func (p *playback) next() (core.Event, bool) {
	if len(p.queue) == 0 {
		return nil, false
	}
	ev := p.queue[0]
	p.queue = p.queue[1:]
	p.apply(ev)
	return ev, true
}

func (p *playback) apply(ev core.Event) {
	n := p.view.Length()
	switch e := ev.(type) {
	case core.CellsCollected:
		p.flash = make(map[core.Pos]bool, len(e.Cells))
		for _, t := range e.Cells {
			p.flash[t.Pos] = true
		}
		p.ticks = p.stepTicks
	case core.CellsRemoved:
		for _, pos := range e.Cells {
			p.view.Set(pos.Row, pos.Col, core.ColorNone)
		}
		p.flash = nil
		p.ticks = p.stepTicks
	case core.CellsFellToFillHoles:
		if len(e.Falls) == 0 {
			return
		}
		for _, f := range e.Falls {
			p.view.Set(f.From.Row, f.From.Col, core.ColorNone)
		}
		for _, f := range e.Falls {
			p.view.Set(f.To.Row, f.To.Col, f.Color)
		}
		p.ticks = p.stepTicks
	case core.RefillReady:
		p.fresh = make(map[core.Pos]bool)
		for row := 0; row < n; row++ {
			for col := 0; col < n; col++ {
				if p.view.ColorAt(row, col) != core.ColorNone {
					continue
				}
				p.view.Set(row, col, e.Refill.ColorAt(row, col))
				p.fresh[core.P(row, col)] = true
			}
		}
		p.ticks = p.stepTicks
	case core.GridShuffled:
		for i, c := range e.Colors {
			p.view.Set(i/n, i%n, c)
		}
		p.fresh = nil
		p.ticks = p.stepTicks
	}
}
