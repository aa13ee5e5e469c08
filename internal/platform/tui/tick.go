// Package tui provides the Bubble Tea integration for minesweeper.
// It handles the terminal UI loop, input mapping, best-time bookkeeping and the SSH server.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg refreshes the timer display of the game model with the matching ID.
type TickMsg struct {
	At time.Time
	ID int64
}

var lastModelID atomic.Int64

// nextModelID returns a process-unique ID so stale tick chains can be dropped.
func nextModelID() int64 {
	return lastModelID.Add(1)
}

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int, id int64) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 1
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{At: t, ID: id}
	})
}
