// Package engine implements the Minesweeper board state machine.
// It has no dependencies on rendering or persistence: presentation layers call
// NewGame, Reveal, ToggleFlag and IsMineAt and re-render from the returned
// result descriptors.
package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Config describes the board dimensions and mine count of a session.
type Config struct {
	Rows  int `json:"rows" yaml:"rows" toml:"rows"`
	Cols  int `json:"cols" yaml:"cols" toml:"cols"`
	Mines int `json:"mines" yaml:"mines" toml:"mines"`
}

// Cells returns the total number of cells on the board.
func (c Config) Cells() int {
	return c.Rows * c.Cols
}

// SafeCells returns the number of mine-free cells.
func (c Config) SafeCells() int {
	return c.Cells() - c.Mines
}

// Validate checks that the board is non-empty and leaves at least one safe cell.
func (c Config) Validate() error {
	if c.Rows <= 0 {
		return fmt.Errorf("%w: rows must be positive, got %d", ErrInvalidConfiguration, c.Rows)
	}
	if c.Cols <= 0 {
		return fmt.Errorf("%w: cols must be positive, got %d", ErrInvalidConfiguration, c.Cols)
	}
	if c.Mines <= 0 {
		return fmt.Errorf("%w: mines must be positive, got %d", ErrInvalidConfiguration, c.Mines)
	}
	if c.Rows > math.MaxInt/c.Cols {
		return fmt.Errorf("%w: %dx%d board is too large", ErrInvalidConfiguration, c.Rows, c.Cols)
	}
	if c.Mines >= c.Cells() {
		return fmt.Errorf("%w: %d mines do not fit a %dx%d board", ErrInvalidConfiguration, c.Mines, c.Rows, c.Cols)
	}
	return nil
}

// Limits caps the board size a front end accepts. Zero fields are uncapped.
type Limits struct {
	MaxRows int `json:"max_rows" yaml:"max_rows" toml:"max_rows"`
	MaxCols int `json:"max_cols" yaml:"max_cols" toml:"max_cols"`
}

// Check validates c and rejects boards larger than l.
func (l Limits) Check(c Config) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if l.MaxRows > 0 && c.Rows > l.MaxRows {
		return fmt.Errorf("%w: rows must be at most %d, got %d", ErrInvalidConfiguration, l.MaxRows, c.Rows)
	}
	if l.MaxCols > 0 && c.Cols > l.MaxCols {
		return fmt.Errorf("%w: cols must be at most %d, got %d", ErrInvalidConfiguration, l.MaxCols, c.Cols)
	}
	return nil
}

// Key returns the best-time record key for this configuration, e.g. "9x9-10".
func (c Config) Key() string {
	return fmt.Sprintf("%dx%d-%d", c.Rows, c.Cols, c.Mines)
}

// String implements fmt.Stringer.
func (c Config) String() string {
	return c.Key()
}

// ParseConfig parses a board description in key form ("16x30-99").
// The result is validated.
func ParseConfig(s string) (Config, error) {
	var cfg Config

	dims, mines, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return cfg, fmt.Errorf("%w: %q is not in ROWSxCOLS-MINES form", ErrInvalidConfiguration, s)
	}
	rows, cols, ok := strings.Cut(strings.ToLower(dims), "x")
	if !ok {
		return cfg, fmt.Errorf("%w: %q is not in ROWSxCOLS-MINES form", ErrInvalidConfiguration, s)
	}

	var err error
	if cfg.Rows, err = strconv.Atoi(rows); err != nil {
		return cfg, fmt.Errorf("%w: bad rows %q", ErrInvalidConfiguration, rows)
	}
	if cfg.Cols, err = strconv.Atoi(cols); err != nil {
		return cfg, fmt.Errorf("%w: bad cols %q", ErrInvalidConfiguration, cols)
	}
	if cfg.Mines, err = strconv.Atoi(mines); err != nil {
		return cfg, fmt.Errorf("%w: bad mines %q", ErrInvalidConfiguration, mines)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
