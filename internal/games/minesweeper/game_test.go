package minesweeper

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/tui-minesweeper/internal/core"
	"github.com/vovakirdan/tui-minesweeper/internal/engine"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// newCornerGame returns a 3x3 game with a single mine in the top-left corner.
// The cursor starts in the middle cell.
func newCornerGame(t *testing.T) (*Game, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	g := New(engine.WithMines(engine.Pos{Row: 0, Col: 0}), engine.WithClock(clock.Now))
	g.Reset(core.RuntimeConfig{
		ScreenW: 80,
		ScreenH: 24,
		Seed:    1,
		Board:   engine.Config{Rows: 3, Cols: 3, Mines: 1},
	})
	if err := g.Err(); err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}
	return g, clock
}

func step(g *Game, actions ...core.Action) core.StepResult {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return g.Step(in)
}

func TestCursorStaysOnBoard(t *testing.T) {
	g, _ := newCornerGame(t)

	if got := g.Cursor(); got != (engine.Pos{Row: 1, Col: 1}) {
		t.Fatalf("initial cursor = %+v, expected (1,1)", got)
	}

	for range 5 {
		step(g, core.ActionUp)
		step(g, core.ActionLeft)
	}
	if got := g.Cursor(); got != (engine.Pos{Row: 0, Col: 0}) {
		t.Errorf("cursor = %+v, expected clamped to (0,0)", got)
	}

	for range 5 {
		step(g, core.ActionDown)
		step(g, core.ActionRight)
	}
	if got := g.Cursor(); got != (engine.Pos{Row: 2, Col: 2}) {
		t.Errorf("cursor = %+v, expected clamped to (2,2)", got)
	}
}

func TestWinReportsFinishOnce(t *testing.T) {
	g, clock := newCornerGame(t)

	step(g, core.ActionDown)
	step(g, core.ActionRight)
	clock.Advance(5 * time.Second)

	res := step(g, core.ActionReveal)
	if res.Finished == nil {
		t.Fatal("revealing the zero corner should clear the board and finish")
	}
	if !res.Finished.Won {
		t.Error("Finished.Won should be true")
	}
	if res.Finished.ElapsedSeconds != 5 {
		t.Errorf("Finished.ElapsedSeconds = %d, expected 5", res.Finished.ElapsedSeconds)
	}
	if res.Finished.Board.Key() != "3x3-1" {
		t.Errorf("Finished.Board.Key() = %q", res.Finished.Board.Key())
	}
	if len(res.Changed) != 9 {
		t.Errorf("Changed = %v, expected the 8 safe cells and the disclosed mine", res.Changed)
	}
	if !res.State.GameOver || !res.State.Won {
		t.Errorf("State = %+v, expected won game over", res.State)
	}

	clock.Advance(10 * time.Second)
	res = step(g, core.ActionReveal)
	if res.Finished != nil {
		t.Error("Finished should be reported only once per session")
	}
	if len(res.Changed) != 0 {
		t.Errorf("Changed = %v after the game ended, expected none", res.Changed)
	}
	if res.State.ElapsedSeconds != 5 {
		t.Errorf("elapsed should stay frozen at 5, got %d", res.State.ElapsedSeconds)
	}
}

func TestLossReportsFinish(t *testing.T) {
	g, _ := newCornerGame(t)

	step(g, core.ActionUp)
	step(g, core.ActionLeft)
	res := step(g, core.ActionReveal)

	if res.Finished == nil || res.Finished.Won {
		t.Fatalf("Finished = %+v, expected a loss", res.Finished)
	}
	if res.State.Status != engine.StatusLost {
		t.Errorf("Status = %v, expected lost", res.State.Status)
	}

	snap := g.Snapshot()
	if got := []rune(snap.Rows[0])[0]; got != 'X' {
		t.Errorf("exploded mine glyph = %q, expected 'X'", got)
	}
}

func TestFlagAndMinesLeft(t *testing.T) {
	g, _ := newCornerGame(t)

	res := step(g, core.ActionFlag)
	if res.State.MinesLeft != 0 {
		t.Errorf("MinesLeft = %d, expected 0", res.State.MinesLeft)
	}
	if !reflect.DeepEqual(res.Changed, []engine.Pos{{Row: 1, Col: 1}}) {
		t.Errorf("Changed = %v, expected the flagged cell", res.Changed)
	}
	if got := []rune(g.Snapshot().Rows[1])[1]; got != 'F' {
		t.Errorf("flag glyph = %q, expected 'F'", got)
	}

	// A flagged cell refuses to reveal.
	res = step(g, core.ActionReveal)
	if res.State.GameOver || len(res.Changed) != 0 {
		t.Errorf("revealing a flagged cell should be a no-op, Changed = %v", res.Changed)
	}

	res = step(g, core.ActionFlag)
	if res.State.MinesLeft != 1 {
		t.Errorf("MinesLeft = %d after unflagging, expected 1", res.State.MinesLeft)
	}
}

func TestPeekToggle(t *testing.T) {
	g, _ := newCornerGame(t)

	if got := []rune(g.Snapshot().Rows[0])[0]; got != '·' {
		t.Fatalf("hidden mine glyph = %q before peeking", got)
	}

	res := step(g, core.ActionPeek)
	if !res.State.Peeking {
		t.Fatal("Peek should turn peek mode on")
	}
	if got := []rune(g.Snapshot().Rows[0])[0]; got != '*' {
		t.Errorf("peeked mine glyph = %q, expected '*'", got)
	}
	if g.Session().RevealedSafe() != 0 || g.Session().Status() != engine.StatusPlaying {
		t.Error("peeking must not change the session")
	}

	res = step(g, core.ActionPeek)
	if res.State.Peeking {
		t.Error("second Peek should turn peek mode off")
	}
}

func TestRestartStartsNewSession(t *testing.T) {
	g, _ := newCornerGame(t)

	step(g, core.ActionUp)
	step(g, core.ActionLeft)
	step(g, core.ActionReveal)
	if !g.State().GameOver {
		t.Fatal("expected game over")
	}

	res := step(g, core.ActionRestart)
	if res.State.GameOver || res.State.Status != engine.StatusPlaying {
		t.Errorf("State after restart = %+v", res.State)
	}
	if g.Cursor() != (engine.Pos{Row: 1, Col: 1}) {
		t.Errorf("cursor should be re-centred, got %+v", g.Cursor())
	}

	// The new session reports its own finish.
	step(g, core.ActionUp)
	step(g, core.ActionLeft)
	if res := step(g, core.ActionReveal); res.Finished == nil {
		t.Error("restarted session should report its finish")
	}
}

func TestSameSeedSameBoard(t *testing.T) {
	cfg := core.RuntimeConfig{Seed: 777, Board: engine.Config{Rows: 9, Cols: 9, Mines: 10}}

	g1 := New()
	g1.Reset(cfg)
	g2 := New()
	g2.Reset(cfg)

	if !reflect.DeepEqual(g1.Session().MineLocations(), g2.Session().MineLocations()) {
		t.Error("same seed should produce the same mine layout")
	}

	// Restart draws from the same stream, so the second boards match too.
	step(g1, core.ActionRestart)
	step(g2, core.ActionRestart)
	if !reflect.DeepEqual(g1.Session().MineLocations(), g2.Session().MineLocations()) {
		t.Error("restarted boards should match for the same seed")
	}
}

func TestInvalidBoard(t *testing.T) {
	g := New()
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Board: engine.Config{Rows: 2, Cols: 2, Mines: 4}})

	if g.Err() == nil {
		t.Fatal("Err() should report the invalid board")
	}
	res := step(g, core.ActionReveal)
	if res.Finished != nil || res.State.GameOver {
		t.Error("invalid game should ignore input")
	}

	s := core.NewScreen(80, 24)
	g.Render(s)
	if !strings.Contains(s.String(), "Invalid board") {
		t.Error("render should show the configuration error")
	}
}

func TestRenderHUDAndGrid(t *testing.T) {
	g, _ := newCornerGame(t)
	g.SetBestTime(42, true)

	s := core.NewScreen(80, 24)
	g.Render(s)

	hud := s.Row(0)
	for _, want := range []string{"3x3-1", "Mines: 001", "Time: 000", "Best: 42s"} {
		if !strings.Contains(hud, want) {
			t.Errorf("HUD %q missing %q", hud, want)
		}
	}

	// Cursor brackets around the middle cell.
	x := g.grid.X + 1 + 1*cellWidth
	y := g.grid.Y + 1
	if s.Get(x-1, y) != '[' || s.Get(x+1, y) != ']' {
		t.Errorf("cursor brackets missing on row %q", s.Row(y))
	}
	if s.Get(x, y) != '·' {
		t.Errorf("hidden cell glyph = %q", s.Get(x, y))
	}
}

func TestRenderTooSmall(t *testing.T) {
	g, _ := newCornerGame(t)

	s := core.NewScreen(6, 4)
	g.Render(s)
	if got := g.ClickCell(1, 1, false); got.State.GameOver {
		t.Error("clicks should be ignored when no grid was drawn")
	}
}

func TestClickCell(t *testing.T) {
	g, _ := newCornerGame(t)

	s := core.NewScreen(80, 24)
	g.Render(s)

	// Outside the grid.
	if res := g.ClickCell(0, 0, false); res.State.GameOver {
		t.Fatal("click outside the grid should do nothing")
	}

	// Right click flags (0,1).
	res := g.ClickCell(g.grid.X+1+1*cellWidth, g.grid.Y, true)
	if res.State.MinesLeft != 0 {
		t.Errorf("MinesLeft = %d after flag click, expected 0", res.State.MinesLeft)
	}
	if g.Cursor() != (engine.Pos{Row: 0, Col: 1}) {
		t.Errorf("cursor should follow the click, got %+v", g.Cursor())
	}

	// Left click on (2,2) clears the board.
	res = g.ClickCell(g.grid.X+1+2*cellWidth, g.grid.Y+2, false)
	if res.Finished != nil {
		t.Error("the flagged safe cell (0,1) is still hidden, the game cannot be won yet")
	}
	if res.State.GameOver {
		t.Fatal("revealing a safe cell should not end the game")
	}

	g.ClickCell(g.grid.X+1+1*cellWidth, g.grid.Y, true)
	res = g.ClickCell(g.grid.X+1+1*cellWidth, g.grid.Y, false)
	if res.Finished == nil || !res.Finished.Won {
		t.Errorf("Finished = %+v, expected a win", res.Finished)
	}
}

func TestGlyph(t *testing.T) {
	tests := []struct {
		name string
		cell engine.Cell
		peek bool
		want rune
	}{
		{"hidden", engine.Cell{}, false, '·'},
		{"hidden mine", engine.Cell{Mine: true}, false, '·'},
		{"peeked mine", engine.Cell{Mine: true}, true, '*'},
		{"flag", engine.Cell{Flagged: true}, false, 'F'},
		{"zero", engine.Cell{Revealed: true}, false, ' '},
		{"three", engine.Cell{Revealed: true, Adjacent: 3}, false, '3'},
		{"revealed mine", engine.Cell{Revealed: true, Mine: true}, false, '*'},
		{"exploded", engine.Cell{Revealed: true, Mine: true, Exploded: true}, false, 'X'},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got, _ := Glyph(tc.cell, tc.peek); got != tc.want {
				t.Errorf("Glyph() = %q, expected %q", got, tc.want)
			}
		})
	}
}
