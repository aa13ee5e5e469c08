package web

import (
	"github.com/samber/lo"

	"github.com/vovakirdan/tui-minesweeper/internal/engine"
	"github.com/vovakirdan/tui-minesweeper/internal/games/minesweeper"
)

// Cell states sent to clients.
const (
	CellHidden  = "hidden"
	CellFlagged = "flagged"
	CellOpened  = "opened"
)

// CellView is the client view of one cell. Count and IsMine are only
// filled once the cell is opened.
type CellView struct {
	State    string `json:"state"`
	Count    int    `json:"count"`
	IsMine   bool   `json:"is_mine"`
	Exploded bool   `json:"exploded,omitempty"`
}

// GameView is the JSON body returned for a game.
type GameView struct {
	ID             string       `json:"id"`
	Board          string       `json:"board"`
	Rows           int          `json:"rows"`
	Cols           int          `json:"cols"`
	Mines          int          `json:"mines"`
	Status         string       `json:"status"`
	Cells          [][]CellView `json:"cells"`
	Text           []string     `json:"text"` // Plain rendering, one string per row
	MinesRemaining int          `json:"mines_remaining"`
	RevealedSafe   int          `json:"revealed_safe"`
	ElapsedSeconds int          `json:"elapsed_seconds"`
	IsGameOver     bool         `json:"is_game_over"`
	IsGameClear    bool         `json:"is_game_clear"`
	BestSeconds    *int         `json:"best_seconds,omitempty"`
	NewRecord      bool         `json:"new_record,omitempty"`
}

// ResultView reports what a reveal changed.
type ResultView struct {
	Changed        []engine.Pos `json:"changed"`
	Status         string       `json:"status"`
	Terminal       bool         `json:"terminal"`
	Won            bool         `json:"won"`
	ElapsedSeconds int          `json:"elapsed_seconds"`
}

// FlagView reports the outcome of a flag toggle.
type FlagView struct {
	Pos     engine.Pos `json:"pos"`
	Flagged bool       `json:"flagged"`
	Changed bool       `json:"changed"`
}

func newCellView(c engine.Cell) CellView {
	switch {
	case c.Revealed:
		v := CellView{State: CellOpened, IsMine: c.Mine, Exploded: c.Exploded}
		if !c.Mine {
			v.Count = c.Adjacent
		}
		return v
	case c.Flagged:
		return CellView{State: CellFlagged}
	default:
		return CellView{State: CellHidden}
	}
}

// newGameView renders a session without exposing unrevealed mines.
func newGameView(id string, s *engine.Session) GameView {
	cfg := s.Config()
	cells := make([][]CellView, cfg.Rows)
	for r := range cells {
		cells[r] = make([]CellView, cfg.Cols)
		for c := range cells[r] {
			cell, _ := s.Cell(r, c)
			cells[r][c] = newCellView(cell)
		}
	}

	status := s.Status()
	return GameView{
		ID:             id,
		Board:          cfg.Key(),
		Rows:           cfg.Rows,
		Cols:           cfg.Cols,
		Mines:          cfg.Mines,
		Status:         status.String(),
		Cells:          cells,
		Text:           minesweeper.Rows(s, false),
		MinesRemaining: s.MinesLeft(),
		RevealedSafe:   s.RevealedSafe(),
		ElapsedSeconds: s.ElapsedSeconds(),
		IsGameOver:     status.Terminal(),
		IsGameClear:    status == engine.StatusWon,
	}
}

func newResultView(r engine.Result) ResultView {
	changed := r.Changed
	if changed == nil {
		changed = []engine.Pos{}
	}
	return ResultView{
		Changed:        changed,
		Status:         r.Status.String(),
		Terminal:       r.Terminal,
		Won:            r.Won,
		ElapsedSeconds: r.ElapsedSeconds,
	}
}

// hiddenMines lists the mines that are not revealed yet.
func hiddenMines(s *engine.Session) []engine.Pos {
	return lo.Filter(s.MineLocations(), func(p engine.Pos, _ int) bool {
		cell, _ := s.Cell(p.Row, p.Col)
		return !cell.Revealed
	})
}
