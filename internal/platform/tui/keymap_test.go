package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-blast/internal/core"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		msg    tea.KeyMsg
		action core.Action
		quit   bool
	}{
		{runeKey('q'), core.ActionQuit, true},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{tea.KeyMsg{Type: tea.KeyUp}, core.ActionUp, false},
		{runeKey('k'), core.ActionUp, false},
		{runeKey('j'), core.ActionDown, false},
		{tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft, false},
		{runeKey('l'), core.ActionRight, false},
		{runeKey(' '), core.ActionTap, false},
		{tea.KeyMsg{Type: tea.KeyEnter}, core.ActionTap, false},
		{runeKey('?'), core.ActionHint, false},
		{runeKey('n'), core.ActionNext, false},
		{tea.KeyMsg{Type: tea.KeyEsc}, core.ActionBack, false},
		{runeKey('p'), core.ActionPause, false},
		{runeKey('r'), core.ActionRestart, false},
		{runeKey('x'), core.ActionNone, false},
	}
	for _, tt := range tests {
		action, quit := km.MapKey(tt.msg)
		if action != tt.action || quit != tt.quit {
			t.Errorf("MapKey(%q) = %v, %v; expected %v, %v", tt.msg.String(), action, quit, tt.action, tt.quit)
		}
	}
}

func TestMapKeyToFrame(t *testing.T) {
	km := NewKeyMapper()
	frame := core.NewInputFrame()

	if km.MapKeyToFrame(runeKey(' '), &frame) {
		t.Error("space is not a quit key")
	}
	if !frame.Has(core.ActionTap) {
		t.Error("space should set a tap")
	}
	if !km.MapKeyToFrame(runeKey('q'), &frame) {
		t.Error("q should quit")
	}
}

func TestMapMouseToFrame(t *testing.T) {
	km := NewKeyMapper()
	frame := core.NewInputFrame()

	motion := tea.MouseMsg{X: 3, Y: 4, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone}
	if km.MapMouseToFrame(motion, &frame) || frame.Click != nil {
		t.Error("motion must not click")
	}
	right := tea.MouseMsg{X: 3, Y: 4, Action: tea.MouseActionPress, Button: tea.MouseButtonRight}
	if km.MapMouseToFrame(right, &frame) || frame.Click != nil {
		t.Error("right button must not click")
	}

	press := tea.MouseMsg{X: 3, Y: 4, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	if !km.MapMouseToFrame(press, &frame) {
		t.Fatal("left press should click")
	}
	if frame.Click == nil || frame.Click.X != 3 || frame.Click.Y != 4 {
		t.Errorf("click = %+v, expected (3, 4)", frame.Click)
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()
	tests := map[string]struct {
		msg  tea.KeyMsg
		want MenuAction
	}{
		"up":    {tea.KeyMsg{Type: tea.KeyUp}, MenuActionUp},
		"down":  {runeKey('j'), MenuActionDown},
		"enter": {tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		"esc":   {tea.KeyMsg{Type: tea.KeyEsc}, MenuActionBack},
		"tab":   {tea.KeyMsg{Type: tea.KeyTab}, MenuActionScoreboard},
		"quit":  {runeKey('q'), MenuActionQuit},
		"other": {runeKey('z'), MenuActionNone},
	}
	for name, tt := range tests {
		if got := km.MapKeyToMenuAction(tt.msg); got != tt.want {
			t.Errorf("%s: got %v, expected %v", name, got, tt.want)
		}
	}
}
