package core

import (
	"fmt"
	"strings"
)

// GoalType identifies what a goal counts.
type GoalType uint8

const (
	GoalNone GoalType = iota
	GoalCollectRed
	GoalCollectGreen
	GoalCollectBlue
	GoalCollectYellow
	GoalCollectOrange
	GoalCollectViolet
	GoalCollectAny
)

// GoalTypeForColor returns the collect goal for a color, or GoalNone.
func GoalTypeForColor(c Color) GoalType {
	if !c.Valid() {
		return GoalNone
	}
	return GoalType(c)
}

// Color returns the color a collect goal counts, or ColorNone for GoalCollectAny.
func (g GoalType) Color() Color {
	if g >= GoalCollectRed && g <= GoalCollectViolet {
		return Color(g)
	}
	return ColorNone
}

// Code returns the single-letter code used in level files.
func (g GoalType) Code() string {
	switch {
	case g == GoalCollectAny:
		return "A"
	case g.Color() != ColorNone:
		return string(g.Color().Char())
	default:
		return "?"
	}
}

// String returns a readable name such as "collect-red".
func (g GoalType) String() string {
	switch {
	case g == GoalCollectAny:
		return "collect-any"
	case g.Color() != ColorNone:
		return "collect-" + g.Color().String()
	default:
		return "none"
	}
}

// ParseGoalType converts a level file code ("R", "A", "any", "red") to a GoalType.
func ParseGoalType(s string) (GoalType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "a", "any":
		return GoalCollectAny, true
	}
	c, ok := ParseColor(s)
	if !ok {
		return GoalNone, false
	}
	return GoalTypeForColor(c), true
}

// GoalSpec is a goal as configured by a level.
type GoalSpec struct {
	Type   GoalType
	Amount int
}

// Goal tracks progress toward one goal. Remaining only decreases and stops at 0.
type Goal struct {
	Type      GoalType
	Total     int
	Remaining int
}

// Complete reports whether the goal has been reached.
func (g Goal) Complete() bool {
	return g.Remaining == 0
}

// Tracker owns the goals of a level session.
type Tracker struct {
	goals map[GoalType]*Goal
	order []GoalType
}

// NewTracker builds a tracker. Each goal type may appear once and every amount
// must be positive.
func NewTracker(specs []GoalSpec) (*Tracker, error) {
	if len(specs) == 0 {
		return nil, invalidLevel("no goals")
	}
	t := &Tracker{goals: make(map[GoalType]*Goal, len(specs))}
	for _, s := range specs {
		if s.Type == GoalNone || s.Type > GoalCollectAny {
			return nil, invalidLevel("unknown goal type %d", s.Type)
		}
		if _, dup := t.goals[s.Type]; dup {
			return nil, invalidLevel("duplicate goal %s", s.Type)
		}
		if s.Amount < 1 {
			return nil, invalidLevel("goal %s amount %d must be positive", s.Type, s.Amount)
		}
		t.goals[s.Type] = &Goal{Type: s.Type, Total: s.Amount, Remaining: s.Amount}
		t.order = append(t.order, s.Type)
	}
	return t, nil
}

// OnMatched applies one match to the goals and returns progress and completion
// events: first for the color's collect goal, then for collect-any. Completed
// goals are left untouched.
func (t *Tracker) OnMatched(collected []Tile) []Event {
	if len(collected) == 0 {
		return nil
	}
	color := collected[0].Color
	for _, c := range collected[1:] {
		if c.Color != color {
			panic(&InvariantError{Op: "goal update", Detail: fmt.Sprintf("mixed colors %v and %v in one match", color, c.Color)})
		}
	}

	var events []Event
	if ev := t.decrement(GoalTypeForColor(color), len(collected)); ev != nil {
		events = append(events, ev)
	}
	if ev := t.decrement(GoalCollectAny, len(collected)); ev != nil {
		events = append(events, ev)
	}
	return events
}

func (t *Tracker) decrement(gt GoalType, amount int) Event {
	g, ok := t.goals[gt]
	if !ok || g.Complete() {
		return nil
	}
	g.Remaining -= amount
	if g.Remaining <= 0 {
		g.Remaining = 0
		return GoalCompleted{Type: gt}
	}
	return GoalProgress{Type: gt, Remaining: g.Remaining}
}

// AllComplete reports whether every goal has been reached.
func (t *Tracker) AllComplete() bool {
	for _, g := range t.goals {
		if !g.Complete() {
			return false
		}
	}
	return true
}

// Goal returns a copy of the goal of the given type.
func (t *Tracker) Goal(gt GoalType) (Goal, bool) {
	g, ok := t.goals[gt]
	if !ok {
		return Goal{}, false
	}
	return *g, true
}

// Goals returns copies of all goals in configuration order.
func (t *Tracker) Goals() []Goal {
	out := make([]Goal, 0, len(t.order))
	for _, gt := range t.order {
		out = append(out, *t.goals[gt])
	}
	return out
}
