package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-minesweeper/internal/engine"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// SetupKeyMap defines the key bindings of the board setup form.
type SetupKeyMap struct {
	Next      key.Binding
	Prev      key.Binding
	Start     key.Binding
	BestTimes key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k SetupKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Start, k.BestTimes, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k SetupKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Next, k.Prev}, {k.Start, k.BestTimes, k.Quit}}
}

// DefaultSetupKeyMap returns default key bindings.
func DefaultSetupKeyMap() SetupKeyMap {
	return SetupKeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("S-tab", "prev field"),
		),
		Start: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "start"),
		),
		BestTimes: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "best times"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// SetupModel is the form that picks rows, columns and mines for a new game.
type SetupModel struct {
	inputs         []textinput.Model
	focus          int
	keys           SetupKeyMap
	help           help.Model
	width          int
	height         int
	err            string
	board          engine.Config
	limits         engine.Limits
	submitted      bool
	openScoreboard bool
	quitting       bool
}

// NewSetupModel creates the form prefilled with board. Boards larger than limits are refused.
func NewSetupModel(board engine.Config, limits engine.Limits, width, height int) SetupModel {
	m := SetupModel{
		inputs: []textinput.Model{
			newNumberInput("Rows:  ", board.Rows),
			newNumberInput("Cols:  ", board.Cols),
			newNumberInput("Mines: ", board.Mines),
		},
		limits: limits,
		keys:   DefaultSetupKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.help.Width = width
	m.inputs[0].Focus()
	return m
}

func newNumberInput(prompt string, value int) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 5
	input.Width = 6
	input.SetValue(strconv.Itoa(value))
	return input
}

// Init initializes the setup model.
func (m SetupModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the form.
func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.BestTimes):
			m.openScoreboard = true
			return m, nil
		case key.Matches(msg, m.keys.Next):
			return m, m.moveFocus(1)
		case key.Matches(msg, m.keys.Prev):
			return m, m.moveFocus(-1)
		case key.Matches(msg, m.keys.Start):
			m.submit()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *SetupModel) moveFocus(delta int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	return m.inputs[m.focus].Focus()
}

// submit parses the form; the board is accepted only when it fits the limits.
func (m *SetupModel) submit() {
	values := make([]int, len(m.inputs))
	for i, in := range m.inputs {
		n, err := strconv.Atoi(strings.TrimSpace(in.Value()))
		if err != nil {
			m.err = fmt.Sprintf("%s must be a whole number", strings.TrimSuffix(strings.TrimSpace(in.Prompt), ":"))
			return
		}
		values[i] = n
	}

	board := engine.Config{Rows: values[0], Cols: values[1], Mines: values[2]}
	if err := m.limits.Check(board); err != nil {
		m.err = err.Error()
		return
	}
	m.err = ""
	m.board = board
	m.submitted = true
}

// View renders the form.
func (m SetupModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("M I N E S W E E P E R"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("New game", m.width))
	b.WriteString("\n\n")

	for _, in := range m.inputs {
		b.WriteString(centerText(in.View(), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.err != "" {
		b.WriteString(centerText(errorStyle.Render(m.err), m.width))
	}
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// Submitted returns true once a valid board was entered.
func (m SetupModel) Submitted() bool {
	return m.submitted
}

// Board returns the accepted board configuration.
func (m SetupModel) Board() engine.Config {
	return m.board
}

// Err returns the validation message shown under the form.
func (m SetupModel) Err() string {
	return m.err
}

// WantsScoreboard returns true if user requested the best times.
func (m SetupModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// IsQuitting returns true if user requested to quit.
func (m SetupModel) IsQuitting() bool {
	return m.quitting
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
