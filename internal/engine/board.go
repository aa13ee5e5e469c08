package engine

import (
	"fmt"
	"math/rand"
)

// Pos is a 0-indexed grid position.
type Pos struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Cell holds the state of a single grid square.
type Cell struct {
	Mine     bool // Fixed at game start
	Adjacent int  // Mines among the 8 neighbours; unused when Mine is set
	Revealed bool
	Flagged  bool
	Exploded bool // The mine that ended a lost game
}

// board owns the grid and the derived mine list.
// Invariant: len(mines) == cfg.Mines == number of cells with Mine set.
type board struct {
	cfg   Config
	cells [][]Cell
	mines []Pos
}

func newBoard(cfg Config) *board {
	cells := make([][]Cell, cfg.Rows)
	for r := range cells {
		cells[r] = make([]Cell, cfg.Cols)
	}
	return &board{
		cfg:   cfg,
		cells: cells,
		mines: make([]Pos, 0, cfg.Mines),
	}
}

func (b *board) inBounds(row, col int) bool {
	return row >= 0 && row < b.cfg.Rows && col >= 0 && col < b.cfg.Cols
}

func (b *board) at(p Pos) *Cell {
	return &b.cells[p.Row][p.Col]
}

// neighbors calls fn for each Moore neighbour of p, clipped to the grid.
func (b *board) neighbors(p Pos, fn func(Pos)) {
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			r, c := p.Row+dr, p.Col+dc
			if b.inBounds(r, c) {
				fn(Pos{Row: r, Col: c})
			}
		}
	}
}

func (b *board) setMine(p Pos) {
	b.at(p).Mine = true
	b.mines = append(b.mines, p)
}

// placeRandom places cfg.Mines mines uniformly at random without replacement.
// Sparse boards use rejection sampling, boards more than half mined a partial
// shuffle of the cell indices.
func (b *board) placeRandom(rng *rand.Rand) {
	total := b.cfg.Cells()
	if b.cfg.Mines*2 <= total {
		for len(b.mines) < b.cfg.Mines {
			p := Pos{Row: rng.Intn(b.cfg.Rows), Col: rng.Intn(b.cfg.Cols)}
			if b.at(p).Mine {
				continue
			}
			b.setMine(p)
		}
		return
	}

	idx := make([]int, total)
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < b.cfg.Mines; i++ {
		j := i + rng.Intn(total-i)
		idx[i], idx[j] = idx[j], idx[i]
		b.setMine(Pos{Row: idx[i] / b.cfg.Cols, Col: idx[i] % b.cfg.Cols})
	}
}

// placeFixed places mines at the given positions.
func (b *board) placeFixed(layout []Pos) error {
	if len(layout) != b.cfg.Mines {
		return fmt.Errorf("%w: layout has %d mines, want %d", ErrInvalidConfiguration, len(layout), b.cfg.Mines)
	}
	for _, p := range layout {
		if !b.inBounds(p.Row, p.Col) {
			return fmt.Errorf("%w: mine at (%d,%d) is outside the board", ErrInvalidConfiguration, p.Row, p.Col)
		}
		if b.at(p).Mine {
			return fmt.Errorf("%w: duplicate mine at (%d,%d)", ErrInvalidConfiguration, p.Row, p.Col)
		}
		b.setMine(p)
	}
	return nil
}

// computeAdjacent fills Adjacent for every non-mine cell. Called once after placement.
func (b *board) computeAdjacent() {
	for r := range b.cells {
		for c := range b.cells[r] {
			p := Pos{Row: r, Col: c}
			cell := b.at(p)
			if cell.Mine {
				continue
			}
			count := 0
			b.neighbors(p, func(n Pos) {
				if b.at(n).Mine {
					count++
				}
			})
			cell.Adjacent = count
		}
	}
}
