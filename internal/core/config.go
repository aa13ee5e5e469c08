package core

import "github.com/vovakirdan/tui-minesweeper/internal/engine"

// RuntimeConfig contains configuration passed to the game at initialization.
type RuntimeConfig struct {
	ScreenW  int           // Screen width in characters
	ScreenH  int           // Screen height in characters
	TickRate int           // Timer refreshes per second
	Seed     int64         // RNG seed for mine placement
	Board    engine.Config // Rows, columns and mines of the next session
	Limits   engine.Limits // Largest board the setup form accepts
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 4,
		Seed:     0, // 0 means use current time in platform layer
		Board:    engine.Config{Rows: 9, Cols: 9, Mines: 10},
		Limits:   engine.Limits{MaxRows: 100, MaxCols: 100},
	}
}

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Status         engine.Status
	MinesLeft      int  // Mines minus flags
	ElapsedSeconds int  // Session clock, frozen at game over
	GameOver       bool // Won or lost
	Won            bool
	Peeking        bool // Mine preview is shown
}

// Finish describes a session that just reached a terminal state.
// Presentation layers hand it to the best-time store.
type Finish struct {
	Board          engine.Config
	Won            bool
	ElapsedSeconds int
}

// StepResult is returned by Game.Step() after each input event.
// Finished is non-nil only on the step that ended the session.
type StepResult struct {
	State    GameState
	Changed  []engine.Pos // Cells whose visible state changed in this step
	Finished *Finish
}
