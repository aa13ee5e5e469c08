package engine

import "errors"

var (
	// ErrInvalidConfiguration is returned by NewGame for unusable rows/cols/mines.
	ErrInvalidConfiguration = errors.New("engine: invalid configuration")

	// ErrOutOfBounds is returned by cell operations given coordinates outside the grid.
	ErrOutOfBounds = errors.New("engine: coordinates out of bounds")
)
