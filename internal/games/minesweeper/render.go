package minesweeper

import (
	"fmt"

	"github.com/vovakirdan/tui-minesweeper/internal/core"
	"github.com/vovakirdan/tui-minesweeper/internal/engine"
)

const (
	cellWidth = 2 // Screen columns per board column
	hudHeight = 2
)

// numberColors is the palette for adjacency counts 1..8.
var numberColors = [...]core.Color{
	core.ColorBlue,
	core.ColorGreen,
	core.ColorRed,
	core.ColorMagenta,
	core.ColorYellow,
	core.ColorCyan,
	core.ColorBrightMagenta,
	core.ColorGray,
}

// Glyph returns how a cell is drawn. Hidden mines are shown only when peek is set.
func Glyph(c engine.Cell, peek bool) (rune, core.Color) {
	switch {
	case c.Exploded:
		return 'X', core.ColorBrightRed
	case c.Revealed && c.Mine && c.Flagged:
		return 'F', core.ColorBrightGreen
	case c.Revealed && c.Mine:
		return '*', core.ColorRed
	case c.Revealed && c.Adjacent == 0:
		return ' ', core.ColorDefault
	case c.Revealed:
		return rune('0' + c.Adjacent), numberColors[c.Adjacent-1]
	case c.Flagged:
		return 'F', core.ColorBrightYellow
	case peek && c.Mine:
		return '*', core.ColorMagenta
	default:
		return '·', core.ColorGray
	}
}

// Render draws the HUD, the board and the status line.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	g.grid = core.Rect{}

	if g.err != nil {
		g.renderOverlay(dst, "Invalid board", g.err.Error())
		return
	}
	if g.session == nil {
		return
	}

	cfg := g.session.Config()
	boxW := cfg.Cols*cellWidth + 3
	boxH := cfg.Rows + 2
	if dst.Width() < boxW || dst.Height() < boxH+hudHeight+1 {
		g.renderOverlay(dst, "Window too small", fmt.Sprintf("Need %dx%d", boxW, boxH+hudHeight+1))
		return
	}

	g.renderHUD(dst)

	box := core.NewRect((dst.Width()-boxW)/2, hudHeight, boxW, boxH)
	dst.DrawBox(box, core.ColorGray)
	g.grid = core.NewRect(box.X+1, box.Y+1, cfg.Cols*cellWidth+1, cfg.Rows)

	gameOver := g.session.GameOver()
	for r := 0; r < cfg.Rows; r++ {
		for c := 0; c < cfg.Cols; c++ {
			cell, _ := g.session.Cell(r, c)
			ch, color := Glyph(cell, g.peeking)
			if gameOver && cell.Flagged && !cell.Mine {
				ch, color = 'x', core.ColorGray
			}
			x := g.grid.X + 1 + c*cellWidth
			dst.SetColor(x, g.grid.Y+r, ch, color)
		}
	}

	if !gameOver {
		x := g.grid.X + 1 + g.cursor.Col*cellWidth
		y := g.grid.Y + g.cursor.Row
		dst.SetColor(x-1, y, '[', core.ColorBrightWhite)
		dst.SetColor(x+1, y, ']', core.ColorBrightWhite)
	}

	msg, color := g.statusMessage()
	dst.DrawTextCentered(box.Bottom(), msg, color)
}

// renderHUD draws the top status bar and its separator.
func (g *Game) renderHUD(dst *core.Screen) {
	st := g.State()
	best := "--"
	if g.hasBest {
		best = fmt.Sprintf("%ds", g.bestSeconds)
	}
	hud := fmt.Sprintf(" %s %s  Mines: %03d  Time: %03d  Best: %s",
		g.Title(), g.session.Config().Key(), st.MinesLeft, st.ElapsedSeconds, best)
	dst.DrawText(0, 0, hud)

	for x := range dst.Width() {
		dst.SetColor(x, 1, '─', core.ColorGray)
	}
}

func (g *Game) statusMessage() (string, core.Color) {
	st := g.State()
	switch {
	case st.Won && g.newRecord:
		return fmt.Sprintf("Cleared in %ds. New record!", st.ElapsedSeconds), core.ColorBrightGreen
	case st.Won:
		return fmt.Sprintf("Cleared in %ds.", st.ElapsedSeconds), core.ColorGreen
	case st.GameOver:
		return "Boom! Press R to play again.", core.ColorBrightRed
	case st.Peeking:
		return "Peeking at mines", core.ColorMagenta
	case !g.hasBest:
		return "No record yet for this board", core.ColorGray
	default:
		return "", core.ColorDefault
	}
}

// renderOverlay draws a two-line boxed message in the middle of the screen.
func (g *Game) renderOverlay(dst *core.Screen, line1, line2 string) {
	w := core.Max(len([]rune(line1)), len([]rune(line2))) + 4
	box := core.NewRect((dst.Width()-w)/2, (dst.Height()-5)/2, w, 5)
	dst.DrawBox(box, core.ColorDefault)
	dst.DrawTextCentered(box.Y+1, line1, core.ColorBrightWhite)
	dst.DrawTextCentered(box.Y+3, line2, core.ColorDefault)
}
