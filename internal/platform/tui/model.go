package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-minesweeper/internal/core"
	"github.com/vovakirdan/tui-minesweeper/internal/engine"
	"github.com/vovakirdan/tui-minesweeper/internal/games/minesweeper"
	"github.com/vovakirdan/tui-minesweeper/internal/storage"
)

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// Model is the Bubble Tea model for one minesweeper game screen.
type Model struct {
	id         int64
	game       *minesweeper.Game
	screen     *core.Screen
	store      *storage.Store // May be nil; best times are then not tracked
	config     core.RuntimeConfig
	keys       KeyMap
	help       help.Model
	gameState  core.GameState
	width      int
	height     int
	quitting   bool
	backToMenu bool
}

// NewModel creates a game model and starts its first session.
// The engine options are passed to every session, mainly for tests.
func NewModel(store *storage.Store, cfg core.RuntimeConfig, opts ...engine.Option) Model {
	m := Model{
		id:     nextModelID(),
		game:   minesweeper.New(opts...),
		screen: core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:  store,
		config: cfg,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		width:  cfg.ScreenW,
		height: cfg.ScreenH,
	}
	m.help.Width = cfg.ScreenW
	m.game.Reset(cfg)
	m.gameState = m.game.State()
	m.loadBestTime()
	return m
}

// Init starts the timer refresh loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate, m.id)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if msg.ID != m.id || m.quitting || m.backToMenu {
			return m, nil
		}
		m.gameState = m.game.State()
		return m, tickCmd(m.config.TickRate, m.id)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	action := m.keys.Action(msg)
	switch action {
	case core.ActionNone:
		return m, nil
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case core.ActionBack:
		m.backToMenu = true
		return m, nil
	}

	frame := core.NewInputFrame()
	frame.Set(action)
	m.applyStep(m.game.Step(frame))

	if action == core.ActionRestart {
		m.loadBestTime()
	}
	return m, nil
}

// handleMouse reveals on left click and flags on right click.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress {
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonLeft:
		m.applyStep(m.game.ClickCell(msg.X, msg.Y, false))
	case tea.MouseButtonRight:
		m.applyStep(m.game.ClickCell(msg.X, msg.Y, true))
	}
	return m, nil
}

// applyStep stores the new state and records a finished session.
func (m *Model) applyStep(res core.StepResult) {
	m.gameState = res.State
	if res.Finished == nil || m.store == nil {
		return
	}

	// Best-effort save, game continues regardless
	improved, _ := m.store.RecordFinish(*res.Finished)
	if improved {
		m.game.MarkNewRecord(res.Finished.ElapsedSeconds)
	}
}

// loadBestTime shows the stored record of the current board.
func (m *Model) loadBestTime() {
	if m.store == nil {
		m.game.SetBestTime(0, false)
		return
	}
	secs, ok, err := m.store.BestTime(m.config.Board.Key())
	if err != nil {
		ok = false
	}
	m.game.SetBestTime(secs, ok)
}

// View renders the game and the help bar.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	helpView := helpStyle.Render(m.help.View(m.keys))
	m.screen.Resize(m.width, core.Max(1, m.height-lipgloss.Height(helpView)))
	m.game.Render(m.screen)

	return RenderScreen(m.screen) + "\n" + helpView
}

// Game returns the underlying game.
func (m Model) Game() *minesweeper.Game {
	return m.game
}

// Snapshot returns the visible state of the current session.
func (m Model) Snapshot() minesweeper.Snapshot {
	return m.game.Snapshot()
}

// State returns the game state after the last update.
func (m Model) State() core.GameState {
	return m.gameState
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to the setup form.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}
