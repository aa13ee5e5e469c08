package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func updateSession(m SessionModel, msgs ...tea.Msg) SessionModel {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(SessionModel)
	}
	return m
}

func TestSessionFlow(t *testing.T) {
	m := NewSessionModel(nil, cornerConfig(), false)
	if m.current != screenSetup {
		t.Fatalf("session should start on the form, got %v", m.current)
	}

	m = updateSession(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.current != screenGame {
		t.Fatalf("enter should start a game, got %v", m.current)
	}
	if got := m.game.Game().Session().Config().Key(); got != "3x3-1" {
		t.Errorf("game board = %q, want 3x3-1", got)
	}

	m = updateSession(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.current != screenSetup {
		t.Fatalf("esc in game should return to the form, got %v", m.current)
	}

	m = updateSession(m, tea.KeyMsg{Type: tea.KeyCtrlR})
	if m.current != screenScores {
		t.Fatalf("ctrl+r should open the best times, got %v", m.current)
	}

	m = updateSession(m, runeKey('b'))
	if m.current != screenSetup {
		t.Errorf("b should return from the best times, got %v", m.current)
	}
}

func TestSessionStartInGame(t *testing.T) {
	m := NewSessionModel(nil, cornerConfig(), true)
	if m.current != screenGame {
		t.Fatal("startInGame should skip the form")
	}

	m = updateSession(m, tea.WindowSizeMsg{Width: 100, Height: 30})
	if m.config.ScreenW != 100 || m.config.ScreenH != 30 {
		t.Errorf("session config = %dx%d, want 100x30", m.config.ScreenW, m.config.ScreenH)
	}

	m = updateSession(m, runeKey('q'))
	if !m.quitting || m.View() != "" {
		t.Error("q should quit the session")
	}
}

func TestSessionLastGame(t *testing.T) {
	m := NewSessionModel(nil, cornerConfig(), false)
	if _, ok := m.LastGame(); ok {
		t.Error("LastGame() should report no game before one started")
	}

	m = updateSession(m, tea.KeyMsg{Type: tea.KeyEnter})
	snap, ok := m.LastGame()
	if !ok {
		t.Fatal("LastGame() should report the started game")
	}
	if snap.Board != "3x3-1" || len(snap.Rows) != 3 || snap.Status != "playing" {
		t.Errorf("snapshot = %+v, want a 3x3-1 game in progress", snap)
	}
}
