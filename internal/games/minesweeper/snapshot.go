package minesweeper

import (
	"strings"

	"github.com/vovakirdan/tui-minesweeper/internal/engine"
)

// Snapshot captures the visible game state for tests and text views.
type Snapshot struct {
	Board          string     `json:"board"`
	Status         string     `json:"status"`
	Cursor         engine.Pos `json:"cursor"`
	Peeking        bool       `json:"peeking"`
	MinesLeft      int        `json:"mines_left"`
	RevealedSafe   int        `json:"revealed_safe"`
	ElapsedSeconds int        `json:"elapsed_seconds"`
	BestSeconds    int        `json:"best_seconds,omitempty"`
	Rows           []string   `json:"rows"` // One string per board row, drawn with Glyph
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	if g.session == nil {
		return Snapshot{Board: g.cfg.Board.Key(), Status: engine.StatusSetup.String()}
	}

	st := g.State()
	snap := Snapshot{
		Board:          g.session.Config().Key(),
		Status:         st.Status.String(),
		Cursor:         g.cursor,
		Peeking:        st.Peeking,
		MinesLeft:      st.MinesLeft,
		RevealedSafe:   g.session.RevealedSafe(),
		ElapsedSeconds: st.ElapsedSeconds,
		Rows:           Rows(g.session, g.peeking),
	}
	if g.hasBest {
		snap.BestSeconds = g.bestSeconds
	}
	return snap
}

// Rows draws every board row of s as a string of glyphs.
func Rows(s *engine.Session, peek bool) []string {
	rows := make([]string, s.Rows())
	var sb strings.Builder
	for r := range rows {
		sb.Reset()
		for c := 0; c < s.Cols(); c++ {
			cell, _ := s.Cell(r, c)
			ch, _ := Glyph(cell, peek)
			sb.WriteRune(ch)
		}
		rows[r] = sb.String()
	}
	return rows
}
