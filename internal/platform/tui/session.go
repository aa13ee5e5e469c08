package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-minesweeper/internal/core"
	"github.com/vovakirdan/tui-minesweeper/internal/engine"
	"github.com/vovakirdan/tui-minesweeper/internal/games/minesweeper"
	"github.com/vovakirdan/tui-minesweeper/internal/storage"
)

type screenKind int

const (
	screenSetup screenKind = iota
	screenGame
	screenScores
)

// SessionModel manages the full flow of one terminal: setup form -> game -> setup,
// with the best-times table reachable from the form. Local play and every SSH
// connection run one SessionModel each.
type SessionModel struct {
	store    *storage.Store
	config   core.RuntimeConfig
	opts     []engine.Option
	current  screenKind
	setup    SetupModel
	game     Model
	scores   ScoreboardModel
	quitting bool
}

// NewSessionModel creates a session. With startInGame the first game starts
// immediately on cfg.Board, otherwise the setup form is shown first.
func NewSessionModel(store *storage.Store, cfg core.RuntimeConfig, startInGame bool, opts ...engine.Option) SessionModel {
	m := SessionModel{
		store:  store,
		config: cfg,
		opts:   opts,
		setup:  NewSetupModel(cfg.Board, cfg.Limits, cfg.ScreenW, cfg.ScreenH),
	}
	if startInGame {
		m.current = screenGame
		m.game = NewModel(store, cfg, opts...)
	}
	return m
}

// Init initializes the current screen.
func (m SessionModel) Init() tea.Cmd {
	if m.current == screenGame {
		return m.game.Init()
	}
	return m.setup.Init()
}

// Update routes messages to the current screen and switches screens.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.current {
	case screenGame:
		return m.updateGame(msg)
	case screenScores:
		return m.updateScores(msg)
	default:
		return m.updateSetup(msg)
	}
}

func (m SessionModel) updateSetup(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.setup.Update(msg)
	if setup, ok := next.(SetupModel); ok {
		m.setup = setup
	}

	switch {
	case m.setup.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.setup.WantsScoreboard():
		m.scores = NewScoreboardModel(m.store, m.config.ScreenW, m.config.ScreenH)
		m.current = screenScores
		return m, m.scores.Init()

	case m.setup.Submitted():
		m.config.Board = m.setup.Board()
		m.game = NewModel(m.store, m.config, m.opts...)
		m.current = screenGame
		return m, m.game.Init()
	}

	return m, cmd
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	if game, ok := next.(Model); ok {
		m.game = game
	}

	switch {
	case m.game.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.game.BackToMenu():
		return m, m.showSetup()
	}

	return m, cmd
}

func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.scores.Update(msg)
	if scores, ok := next.(ScoreboardModel); ok {
		m.scores = scores
	}

	switch {
	case m.scores.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.scores.IsGoingBack():
		return m, m.showSetup()
	}

	return m, cmd
}

// showSetup resets the form to the last played board.
func (m *SessionModel) showSetup() tea.Cmd {
	m.setup = NewSetupModel(m.config.Board, m.config.Limits, m.config.ScreenW, m.config.ScreenH)
	m.current = screenSetup
	return m.setup.Init()
}

// LastGame returns the snapshot of the most recent game, if one was started.
func (m SessionModel) LastGame() (minesweeper.Snapshot, bool) {
	if m.game.game == nil {
		return minesweeper.Snapshot{}, false
	}
	return m.game.Snapshot(), true
}

// View renders the current screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.current {
	case screenGame:
		return m.game.View()
	case screenScores:
		return m.scores.View()
	default:
		return m.setup.View()
	}
}

// Run starts a local terminal session and returns the last game played, if any.
func Run(store *storage.Store, cfg core.RuntimeConfig, startInGame bool) (*minesweeper.Snapshot, error) {
	model := NewSessionModel(store, cfg, startInGame)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	if sm, ok := final.(SessionModel); ok {
		if snap, played := sm.LastGame(); played {
			return &snap, nil
		}
	}
	return nil, nil
}
