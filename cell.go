package main

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Position identifies a cell on the grid
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// CellState is the traversal tag a cell carries. A cell has exactly one.
type CellState int

const (
	StateEmpty CellState = iota
	StateBarrier
	StateStart
	StateEnd
	StateOpen
	StateClosed
	StatePath
)

var stateNames = [...]string{
	StateEmpty:   "empty",
	StateBarrier: "barrier",
	StateStart:   "start",
	StateEnd:     "end",
	StateOpen:    "open",
	StateClosed:  "closed",
	StatePath:    "path",
}

func (s CellState) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler
func (s CellState) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(stateNames) {
		return nil, fmt.Errorf("unknown cell state %d", int(s))
	}
	return []byte(stateNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *CellState) UnmarshalText(text []byte) error {
	for i, name := range stateNames {
		if name == string(text) {
			*s = CellState(i)
			return nil
		}
	}
	return fmt.Errorf("unknown cell state %q", text)
}

// Cell is a single grid unit. Neighbor lists hold arena indices into the
// owning Grid and are only valid right after Grid.RefreshNeighbors.
type Cell struct {
	pos      Position
	size     int
	state    CellState
	neighbor []int // orthogonal
	diagonal []int
}

// Position returns the cell's (row, col)
func (c *Cell) Position() Position { return c.pos }

// State returns the current tag
func (c *Cell) State() CellState { return c.state }

// SetState replaces the current tag
func (c *Cell) SetState(state CellState) { c.state = state }

// IsBarrier reports whether the cell blocks traversal
func (c *Cell) IsBarrier() bool { return c.state == StateBarrier }

// OrthogonalNeighbors returns the passable up/down/left/right cells
func (c *Cell) OrthogonalNeighbors() []int { return c.neighbor }

// DiagonalNeighbors returns the passable diagonal cells that do not cut a corner
func (c *Cell) DiagonalNeighbors() []int { return c.diagonal }

// Bounds returns the pixel box of the cell. Rows run along the x axis.
func (c *Cell) Bounds() orb.Bound {
	x := float64(c.pos.Row * c.size)
	y := float64(c.pos.Col * c.size)
	return orb.Bound{
		Min: orb.Point{x, y},
		Max: orb.Point{x + float64(c.size), y + float64(c.size)},
	}
}
