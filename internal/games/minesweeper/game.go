// Package minesweeper adapts an engine session to the platform's
// Reset/Step/Render game loop: cursor movement, peek mode and finish reporting.
package minesweeper

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-minesweeper/internal/core"
	"github.com/vovakirdan/tui-minesweeper/internal/engine"
)

// ID is the identifier used for logs and storage.
const ID = "minesweeper"

// Game wraps one engine.Session for an interactive presentation.
type Game struct {
	cfg     core.RuntimeConfig
	rng     *rand.Rand
	opts    []engine.Option
	session *engine.Session
	err     error // Invalid board configuration, shown instead of a grid

	cursor   engine.Pos
	peeking  bool
	reported bool // Finished already handed out for this session

	bestSeconds int
	hasBest     bool
	newRecord   bool

	// Grid cell area of the last Render, used to map mouse clicks.
	grid core.Rect
}

// New creates a game. The engine options are applied to every session it starts,
// after the game's own RNG.
func New(opts ...engine.Option) *Game {
	return &Game{opts: opts}
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return ID
}

// Title returns the display name.
func (g *Game) Title() string {
	return "Minesweeper"
}

// Reset seeds the RNG from cfg and starts a fresh session on cfg.Board.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.cfg = cfg
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g.rng = rand.New(rand.NewSource(seed))
	g.newSession()
}

// newSession starts a new session with the current board and the next RNG draws.
func (g *Game) newSession() {
	opts := append([]engine.Option{engine.WithRand(g.rng)}, g.opts...)
	g.session, g.err = engine.NewGame(g.cfg.Board, opts...)
	g.peeking = false
	g.reported = false
	g.newRecord = false
	g.cursor = engine.Pos{Row: g.cfg.Board.Rows / 2, Col: g.cfg.Board.Cols / 2}
}

// Err returns the configuration error of the last Reset, if any.
func (g *Game) Err() error {
	return g.err
}

// Session returns the engine session being played. It is nil after an invalid Reset.
func (g *Game) Session() *engine.Session {
	return g.session
}

// Cursor returns the cell under the cursor.
func (g *Game) Cursor() engine.Pos {
	return g.cursor
}

// Step applies one input event.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.session == nil || in.Empty() {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionRestart) {
		g.newSession()
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPeek) {
		g.peeking = !g.peeking
	}

	g.moveCursor(in)

	out := core.StepResult{}
	switch {
	case in.Has(core.ActionReveal):
		// The cursor is always in bounds.
		if res, err := g.session.Reveal(g.cursor.Row, g.cursor.Col); err == nil {
			out.Changed = res.Changed
			out.Finished = g.finish(res)
		}
	case in.Has(core.ActionFlag):
		if res, err := g.session.ToggleFlag(g.cursor.Row, g.cursor.Col); err == nil && res.Changed {
			out.Changed = []engine.Pos{res.Pos}
		}
	}

	out.State = g.State()
	return out
}

func (g *Game) moveCursor(in core.InputFrame) {
	cfg := g.session.Config()
	switch {
	case in.Has(core.ActionUp):
		g.cursor.Row--
	case in.Has(core.ActionDown):
		g.cursor.Row++
	case in.Has(core.ActionLeft):
		g.cursor.Col--
	case in.Has(core.ActionRight):
		g.cursor.Col++
	}
	g.cursor.Row = core.Clamp(g.cursor.Row, 0, cfg.Rows-1)
	g.cursor.Col = core.Clamp(g.cursor.Col, 0, cfg.Cols-1)
}

// finish returns the outcome of the reveal that ended the session, once.
func (g *Game) finish(res engine.Result) *core.Finish {
	if g.reported || !res.Terminal {
		return nil
	}
	g.reported = true
	g.peeking = false
	return &core.Finish{
		Board:          g.session.Config(),
		Won:            res.Won,
		ElapsedSeconds: res.ElapsedSeconds,
	}
}

// ClickCell reveals (or flags) the cell drawn at screen position (x, y) by the last Render.
// Clicks outside the grid only return the current state.
func (g *Game) ClickCell(x, y int, flag bool) core.StepResult {
	if g.session == nil || !g.grid.Contains(x, y) {
		return core.StepResult{State: g.State()}
	}

	cfg := g.session.Config()
	g.cursor = engine.Pos{
		Row: core.Clamp(y-g.grid.Y, 0, cfg.Rows-1),
		Col: core.Clamp((x-g.grid.X)/cellWidth, 0, cfg.Cols-1),
	}

	in := core.NewInputFrame()
	if flag {
		in.Set(core.ActionFlag)
	} else {
		in.Set(core.ActionReveal)
	}
	return g.Step(in)
}

// SetBestTime sets the stored record shown in the HUD.
func (g *Game) SetBestTime(seconds int, ok bool) {
	g.bestSeconds = seconds
	g.hasBest = ok
}

// MarkNewRecord records that the finished session set a new best time.
func (g *Game) MarkNewRecord(seconds int) {
	g.SetBestTime(seconds, true)
	g.newRecord = true
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.session == nil {
		return core.GameState{}
	}
	status := g.session.Status()
	return core.GameState{
		Status:         status,
		MinesLeft:      g.session.MinesLeft(),
		ElapsedSeconds: g.session.ElapsedSeconds(),
		GameOver:       status.Terminal(),
		Won:            status == engine.StatusWon,
		Peeking:        g.peeking,
	}
}
