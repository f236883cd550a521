package blast

import (
	"strconv"
	"strings"

	platformcore "github.com/vovakirdan/tui-blast/internal/core"
	"github.com/vovakirdan/tui-blast/internal/games/blast/core"
)

const (
	hudHeight   = 4
	footerLines = 3
	cellW       = 3 // each tile is drawn as " ● " or "[●]"
)

// layout maps board positions to screen cells.
type layout struct {
	length  int
	originX int // screen column of the left edge of col 0
	originY int // screen row of the top board row
}

func (l layout) board() platformcore.Rect {
	return platformcore.NewRect(l.originX, l.originY, l.length*cellW, l.length)
}

// screenPos returns the screen cell of the tile glyph at p.
func (l layout) screenPos(p core.Pos) (int, int) {
	return l.originX + p.Col*cellW + 1, l.originY + (l.length - 1 - p.Row)
}

// cellAt converts a screen cell to a board position.
func (l layout) cellAt(x, y int) (core.Pos, bool) {
	if l.length == 0 || !l.board().Contains(x, y) {
		return core.Pos{}, false
	}
	col := (x - l.originX) / cellW
	row := l.length - 1 - (y - l.originY)
	return core.P(row, col), true
}

// calculateLayout centers the board below the HUD.
func (g *Game) calculateLayout() {
	if g.session == nil {
		return
	}
	n := g.session.Length()
	neededW := n*cellW + 4
	neededH := hudHeight + n + 2 + footerLines
	if g.screenW < neededW || g.screenH < neededH {
		g.tooSmall = true
		g.layout = layout{}
		return
	}
	g.tooSmall = false
	g.layout = layout{
		length:  n,
		originX: (g.screenW - n*cellW) / 2,
		originY: hudHeight + 1 + (g.screenH-neededH)/2,
	}
}

// Render draws the game to the screen.
func (g *Game) Render(dst *platformcore.Screen) {
	dst.Clear()

	if dst.Width() != g.screenW || dst.Height() != g.screenH {
		g.screenW, g.screenH = dst.Width(), dst.Height()
		g.calculateLayout()
	}

	g.renderHUD(dst)

	if g.session == nil {
		msg := "No level loaded"
		if g.err != nil {
			msg = g.err.Error()
		}
		g.renderOverlay(dst, "Level error", msg)
		return
	}
	if g.tooSmall {
		g.renderOverlay(dst, "Window too small", "Resize to continue")
		return
	}

	g.renderBoard(dst)
	g.renderFooter(dst)

	switch {
	case g.gameOver && g.won:
		g.renderOverlay(dst, "Level complete! Score "+strconv.Itoa(Score(g.session)), "N: next level | R: replay | B: menu")
	case g.gameOver:
		g.renderOverlay(dst, "Out of moves", "R: try again | B: menu")
	case g.paused:
		g.renderOverlay(dst, "Paused", "Press P to continue")
	}
}

// renderHUD draws the level line and the goal line.
func (g *Game) renderHUD(dst *platformcore.Screen) {
	hud := " " + g.Title()
	if g.level.ID != "" {
		hud += " | " + g.level.Name
		if g.mode == ModeCampaign && len(g.campaign) > 0 {
			hud += " (" + strconv.Itoa(g.levelIndex+1) + "/" + strconv.Itoa(len(g.campaign)) + ")"
		}
	}
	if g.session != nil {
		hud += " | Moves: " + strconv.Itoa(g.session.MovesLeft()) +
			" | Score: " + strconv.Itoa(g.State().Score)
	}
	dst.DrawTextWithColor(0, 0, hud, platformcore.ColorCyan)

	for x := 0; x < dst.Width(); x++ {
		dst.SetWithColor(x, 1, '─', platformcore.ColorGray)
	}

	x := 1
	dst.DrawTextWithColor(x, 2, "Goals:", platformcore.ColorGray)
	x += 7
	if g.session != nil {
		for _, goal := range g.session.Goals() {
			color := platformcore.ColorWhite
			glyph := '★'
			if c := goal.Type.Color(); c != core.ColorNone {
				color = tileColor(c)
				glyph = '●'
			}
			dst.SetWithColor(x, 2, glyph, color)
			text := strconv.Itoa(goal.Total-goal.Remaining) + "/" + strconv.Itoa(goal.Total)
			if goal.Complete() {
				text += " ✓"
				color = platformcore.ColorBrightGreen
			} else {
				color = platformcore.ColorWhite
			}
			dst.DrawTextWithColor(x+2, 2, text, color)
			x += 2 + len([]rune(text)) + 3
		}
	}

	for x := 0; x < dst.Width(); x++ {
		dst.SetWithColor(x, 3, '─', platformcore.ColorGray)
	}
}

// renderBoard draws the tiles, the cursor and any move being played back.
func (g *Game) renderBoard(dst *platformcore.Screen) {
	l := g.layout
	dst.DrawBoxWithColor(l.board().Grow(1), platformcore.ColorGray)

	view := g.session.Board()
	var flash, fresh map[core.Pos]bool
	if g.play != nil {
		view = g.play.view
		flash = g.play.flash
		fresh = g.play.fresh
	}

	var hint map[core.Pos]bool
	if g.settings.ShowHints && g.play == nil && !g.gameOver {
		hint = g.groupUnderCursor()
	}

	for row := 0; row < l.length; row++ {
		for col := 0; col < l.length; col++ {
			p := core.P(row, col)
			x, y := l.screenPos(p)
			c := view.ColorAt(row, col)
			switch {
			case flash[p]:
				dst.SetWithColor(x, y, '✦', platformcore.ColorBrightWhite)
			case c == core.ColorNone:
				dst.SetWithColor(x, y, '·', platformcore.ColorGray)
			case fresh[p]:
				dst.SetWithColor(x, y, '○', tileColor(c))
			case hint[p]:
				dst.SetWithColor(x, y, '◉', tileColor(c))
			default:
				dst.SetWithColor(x, y, '●', tileColor(c))
			}
		}
	}

	if g.play == nil && !g.gameOver {
		x, y := l.screenPos(g.cursor)
		dst.SetWithColor(x-1, y, '[', platformcore.ColorBrightYellow)
		dst.SetWithColor(x+1, y, ']', platformcore.ColorBrightYellow)
	}
}

// groupUnderCursor returns the component under the cursor when it is a legal move.
func (g *Game) groupUnderCursor() map[core.Pos]bool {
	for _, group := range g.session.Moves() {
		for _, p := range group {
			if p != g.cursor {
				continue
			}
			out := make(map[core.Pos]bool, len(group))
			for _, q := range group {
				out[q] = true
			}
			return out
		}
	}
	return nil
}

// renderFooter draws the message line and the controls.
func (g *Game) renderFooter(dst *platformcore.Screen) {
	y := g.layout.originY + g.layout.length + 1
	if g.message != "" {
		dst.DrawTextCenteredWithColor(y, g.message, platformcore.ColorBrightYellow)
	}
	controls := " Arrows/HJKL: move | Space/click: tap | ?: hint | R: restart | P: pause | Q: quit"
	dst.DrawTextWithColor(0, dst.Height()-1, controls, platformcore.ColorGray)
}

// renderOverlay draws a centered two-line box.
func (g *Game) renderOverlay(dst *platformcore.Screen, line1, line2 string) {
	w := len([]rune(line1))
	if n := len([]rune(line2)); n > w {
		w = n
	}
	box := platformcore.NewRect((dst.Width()-w-4)/2, (dst.Height()-5)/2, w+4, 5)
	dst.DrawRect(box, ' ')
	dst.DrawBox(box)
	dst.DrawTextCenteredWithColor(box.Y+1, line1, platformcore.ColorBrightWhite)
	dst.DrawTextCentered(box.Y+3, line2)
}

// tileColor maps tile colors to screen colors.
func tileColor(c core.Color) platformcore.Color {
	switch c {
	case core.ColorRed:
		return platformcore.ColorBrightRed
	case core.ColorGreen:
		return platformcore.ColorBrightGreen
	case core.ColorBlue:
		return platformcore.ColorBrightBlue
	case core.ColorYellow:
		return platformcore.ColorBrightYellow
	case core.ColorOrange:
		return platformcore.ColorOrange
	case core.ColorViolet:
		return platformcore.ColorMagenta
	default:
		return platformcore.ColorGray
	}
}

func goalLabel(t core.GoalType) string {
	return strings.TrimPrefix(t.String(), "collect-")
}
