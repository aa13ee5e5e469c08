package engine

import (
	"fmt"
	"math/rand"
	"time"
)

// Status is the session state machine position.
type Status int

const (
	StatusSetup Status = iota
	StatusPlaying
	StatusWon
	StatusLost
)

// String returns a lower-case name for the status.
func (s Status) String() string {
	switch s {
	case StatusSetup:
		return "setup"
	case StatusPlaying:
		return "playing"
	case StatusWon:
		return "won"
	case StatusLost:
		return "lost"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status is Won or Lost.
func (s Status) Terminal() bool {
	return s == StatusWon || s == StatusLost
}

// Result describes what a Reveal changed.
// Changed lists every cell whose Revealed flag flipped, in reveal order.
// ElapsedSeconds is set once the session is terminal.
type Result struct {
	Changed        []Pos
	Status         Status
	Terminal       bool
	Won            bool
	ElapsedSeconds int
}

// FlagResult describes the outcome of ToggleFlag.
type FlagResult struct {
	Pos     Pos
	Flagged bool // Flag state after the call
	Changed bool // False when the call was absorbed as a no-op
}

// Option customises NewGame.
type Option func(*options)

type options struct {
	rng    *rand.Rand
	clock  func() time.Time
	layout []Pos
}

// WithSeed seeds the mine placement RNG.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRand sets the RNG used for mine placement.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) {
		o.rng = rng
	}
}

// WithClock replaces time.Now for the session clock.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithMines places mines at fixed positions instead of randomly.
// The layout must contain exactly cfg.Mines distinct in-bounds positions.
func WithMines(layout ...Pos) Option {
	return func(o *options) {
		o.layout = layout
	}
}

// Session is one playthrough from NewGame to a terminal state.
// A Session is not safe for concurrent use.
type Session struct {
	board        *board
	status       Status
	revealedSafe int
	flags        int
	clock        func() time.Time
	startedAt    time.Time
	endedAt      time.Time
}

// NewGame validates cfg, places mines, computes adjacency counts and starts the clock.
func NewGame(cfg Config, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	b := newBoard(cfg)
	if o.layout != nil {
		if err := b.placeFixed(o.layout); err != nil {
			return nil, err
		}
	} else {
		b.placeRandom(o.rng)
	}
	b.computeAdjacent()

	return &Session{
		board:     b,
		status:    StatusPlaying,
		clock:     o.clock,
		startedAt: o.clock(),
	}, nil
}

// Reveal uncovers the cell at (row, col).
// Revealing a flagged or already revealed cell, or any cell after the game
// ended, is absorbed and returns the current status with no changes.
func (s *Session) Reveal(row, col int) (Result, error) {
	if err := s.check(row, col); err != nil {
		return Result{Status: s.status}, err
	}

	p := Pos{Row: row, Col: col}
	cell := s.board.at(p)
	if s.GameOver() || cell.Revealed || cell.Flagged {
		return s.result(nil), nil
	}

	cell.Revealed = true
	if cell.Mine {
		cell.Exploded = true
		changed := append([]Pos{p}, s.revealMines()...)
		s.finish(StatusLost)
		return s.result(changed), nil
	}

	s.revealedSafe++
	changed := []Pos{p}
	if cell.Adjacent == 0 {
		changed = s.flood(p, changed)
	}

	if s.revealedSafe == s.board.cfg.SafeCells() {
		changed = append(changed, s.revealMines()...)
		s.finish(StatusWon)
	}
	return s.result(changed), nil
}

// flood reveals the connected zero region around start and its numbered border.
// start must already be revealed and have no adjacent mines.
func (s *Session) flood(start Pos, changed []Pos) []Pos {
	stack := []Pos{start}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		s.board.neighbors(p, func(n Pos) {
			c := s.board.at(n)
			if c.Revealed || c.Flagged || c.Mine {
				return
			}
			c.Revealed = true
			s.revealedSafe++
			changed = append(changed, n)
			if c.Adjacent == 0 {
				stack = append(stack, n)
			}
		})
	}
	return changed
}

// revealMines discloses every mine that is still hidden and returns their positions.
func (s *Session) revealMines() []Pos {
	var changed []Pos
	for _, p := range s.board.mines {
		c := s.board.at(p)
		if c.Revealed {
			continue
		}
		c.Revealed = true
		changed = append(changed, p)
	}
	return changed
}

func (s *Session) finish(status Status) {
	s.status = status
	s.endedAt = s.clock()
}

func (s *Session) result(changed []Pos) Result {
	r := Result{
		Changed:  changed,
		Status:   s.status,
		Terminal: s.status.Terminal(),
		Won:      s.status == StatusWon,
	}
	if r.Terminal {
		r.ElapsedSeconds = s.ElapsedSeconds()
	}
	return r
}

// ToggleFlag inverts the flag on an unrevealed cell.
// It is a no-op after the game ended or on revealed cells.
func (s *Session) ToggleFlag(row, col int) (FlagResult, error) {
	if err := s.check(row, col); err != nil {
		return FlagResult{}, err
	}

	p := Pos{Row: row, Col: col}
	cell := s.board.at(p)
	if s.GameOver() || cell.Revealed {
		return FlagResult{Pos: p, Flagged: cell.Flagged}, nil
	}

	cell.Flagged = !cell.Flagged
	if cell.Flagged {
		s.flags++
	} else {
		s.flags--
	}
	return FlagResult{Pos: p, Flagged: cell.Flagged, Changed: true}, nil
}

// IsMineAt reports whether (row, col) holds a mine without touching any state.
func (s *Session) IsMineAt(row, col int) (bool, error) {
	if err := s.check(row, col); err != nil {
		return false, err
	}
	return s.board.cells[row][col].Mine, nil
}

// Cell returns a copy of the cell at (row, col).
func (s *Session) Cell(row, col int) (Cell, error) {
	if err := s.check(row, col); err != nil {
		return Cell{}, err
	}
	return s.board.cells[row][col], nil
}

func (s *Session) check(row, col int) error {
	if s.board == nil || !s.board.inBounds(row, col) {
		rows, cols := 0, 0
		if s.board != nil {
			rows, cols = s.board.cfg.Rows, s.board.cfg.Cols
		}
		return fmt.Errorf("%w: (%d,%d) on a %dx%d board", ErrOutOfBounds, row, col, rows, cols)
	}
	return nil
}

// Config returns the board configuration.
func (s *Session) Config() Config {
	if s.board == nil {
		return Config{}
	}
	return s.board.cfg
}

// Rows returns the number of rows.
func (s *Session) Rows() int { return s.Config().Rows }

// Cols returns the number of columns.
func (s *Session) Cols() int { return s.Config().Cols }

// Status returns the current state machine position.
func (s *Session) Status() Status { return s.status }

// GameOver reports whether the session reached Won or Lost.
func (s *Session) GameOver() bool { return s.status.Terminal() }

// RevealedSafe returns the number of revealed mine-free cells.
func (s *Session) RevealedSafe() int { return s.revealedSafe }

// Flags returns the number of flagged cells.
func (s *Session) Flags() int { return s.flags }

// MinesLeft returns mines minus flags. It goes negative when over-flagged.
func (s *Session) MinesLeft() int { return s.Config().Mines - s.flags }

// MineLocations returns a copy of the mine positions in placement order.
func (s *Session) MineLocations() []Pos {
	if s.board == nil {
		return nil
	}
	out := make([]Pos, len(s.board.mines))
	copy(out, s.board.mines)
	return out
}

// Elapsed returns the time since NewGame, frozen once the session ended.
func (s *Session) Elapsed() time.Duration {
	if s.startedAt.IsZero() {
		return 0
	}
	end := s.endedAt
	if end.IsZero() {
		end = s.clock()
	}
	d := end.Sub(s.startedAt)
	if d < 0 {
		return 0
	}
	return d
}

// ElapsedSeconds returns Elapsed truncated to whole seconds.
func (s *Session) ElapsedSeconds() int {
	return int(s.Elapsed() / time.Second)
}
