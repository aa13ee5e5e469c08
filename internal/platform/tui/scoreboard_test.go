package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-minesweeper/internal/core"
	"github.com/vovakirdan/tui-minesweeper/internal/engine"
)

func TestScoreboardRows(t *testing.T) {
	store := openStore(t)
	finishes := []core.Finish{
		{Board: engine.Config{Rows: 9, Cols: 9, Mines: 10}, Won: true, ElapsedSeconds: 40},
		{Board: engine.Config{Rows: 9, Cols: 9, Mines: 10}, Won: false, ElapsedSeconds: 8},
		{Board: engine.Config{Rows: 3, Cols: 3, Mines: 1}, Won: true, ElapsedSeconds: 2},
	}
	for _, f := range finishes {
		if _, err := store.RecordFinish(f); err != nil {
			t.Fatalf("RecordFinish() failed: %v", err)
		}
	}

	m := NewScoreboardModel(store, 80, 24)
	rows := m.Rows()
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0][0] != "3x3-1" || rows[1][0] != "9x9-10" {
		t.Errorf("rows should be ordered by board, got %q, %q", rows[0][0], rows[1][0])
	}
	if rows[1][1] != "40s" {
		t.Errorf("best = %q, want 40s", rows[1][1])
	}
	if rows[1][2] != "1/2" {
		t.Errorf("won = %q, want 1/2", rows[1][2])
	}
}

func TestScoreboardClear(t *testing.T) {
	store := openStore(t)
	for _, f := range []core.Finish{
		{Board: engine.Config{Rows: 3, Cols: 3, Mines: 1}, Won: true, ElapsedSeconds: 2},
		{Board: engine.Config{Rows: 9, Cols: 9, Mines: 10}, Won: true, ElapsedSeconds: 30},
	} {
		if _, err := store.RecordFinish(f); err != nil {
			t.Fatalf("RecordFinish() failed: %v", err)
		}
	}

	m := NewScoreboardModel(store, 80, 24)
	next, _ := m.Update(runeKey('x'))
	m = next.(ScoreboardModel)

	rows := m.Rows()
	if len(rows) != 1 || rows[0][0] != "9x9-10" {
		t.Fatalf("clearing the first board should leave 9x9-10, got %v", rows)
	}
	if _, ok, _ := store.BestTime("3x3-1"); ok {
		t.Error("cleared board should have no best time")
	}
}

func TestScoreboardEmptyAndBack(t *testing.T) {
	m := NewScoreboardModel(nil, 80, 24)
	if len(m.Rows()) != 0 {
		t.Error("scoreboard without a store should be empty")
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(ScoreboardModel)
	if !m.IsGoingBack() || cmd != nil {
		t.Error("esc should go back without quitting")
	}

	m = NewScoreboardModel(nil, 80, 24)
	m.standalone = true
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Error("esc should quit the standalone scoreboard")
	}
}
