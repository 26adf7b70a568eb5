package main

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidGrid = errors.New("invalid grid dimensions")
	ErrOutOfBounds = errors.New("position out of bounds")
)

// Grid is a square arena of cells indexed row*rows+col.
// The outer ring is forced to Barrier on construction.
type Grid struct {
	rows     int
	width    int
	cellSize int
	cells    []Cell
}

// MaxGridRows bounds rows so rows*rows cannot overflow or exhaust memory
const MaxGridRows = 1000

var (
	orthogonalSteps = [4]Position{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	diagonalSteps   = [4]Position{{1, 1}, {-1, 1}, {1, -1}, {-1, -1}}
)

// BuildGrid allocates a rows x rows grid drawn pixelWidth pixels wide.
// The cell size is the integer quotient; leftover pixels are not covered.
func BuildGrid(rows, pixelWidth int) (*Grid, error) {
	if rows < 2 {
		return nil, fmt.Errorf("%w: need at least 2 rows, got %d", ErrInvalidGrid, rows)
	}
	if rows > MaxGridRows {
		return nil, fmt.Errorf("%w: at most %d rows, got %d", ErrInvalidGrid, MaxGridRows, rows)
	}
	if pixelWidth < rows {
		return nil, fmt.Errorf("%w: width %d is narrower than %d rows", ErrInvalidGrid, pixelWidth, rows)
	}

	g := &Grid{
		rows:     rows,
		width:    pixelWidth,
		cellSize: pixelWidth / rows,
		cells:    make([]Cell, rows*rows),
	}
	for i := range g.cells {
		g.cells[i] = Cell{pos: g.PositionOf(i), size: g.cellSize}
	}

	for i := range g.cells {
		if g.OnBorder(g.cells[i].pos) {
			g.cells[i].state = StateBarrier
		}
	}
	return g, nil
}

// Rows returns the number of rows (and columns)
func (g *Grid) Rows() int { return g.rows }

// Width returns the pixel width the grid was built for
func (g *Grid) Width() int { return g.width }

// CellSize returns the pixel size of one cell
func (g *Grid) CellSize() int { return g.cellSize }

// Len returns the number of cells
func (g *Grid) Len() int { return len(g.cells) }

func (g *Grid) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < g.rows && p.Col >= 0 && p.Col < g.rows
}

// OnBorder reports whether p lies on the outer ring
func (g *Grid) OnBorder(p Position) bool {
	last := g.rows - 1
	return p.Row == 0 || p.Row == last || p.Col == 0 || p.Col == last
}

// Index returns the arena index of p. p must be in bounds.
func (g *Grid) Index(p Position) int { return p.Row*g.rows + p.Col }

// PositionOf is the inverse of Index
func (g *Grid) PositionOf(idx int) Position {
	return Position{Row: idx / g.rows, Col: idx % g.rows}
}

// Cell returns the cell at p, or nil when p is outside the grid
func (g *Grid) Cell(p Position) *Cell {
	if !g.InBounds(p) {
		return nil
	}
	return &g.cells[g.Index(p)]
}

// At returns the cell stored at arena index idx
func (g *Grid) At(idx int) *Cell { return &g.cells[idx] }

// States returns a copy of every cell's tag in arena order
func (g *Grid) States() []CellState {
	states := make([]CellState, len(g.cells))
	for i := range g.cells {
		states[i] = g.cells[i].state
	}
	return states
}

// ClearSearch drops the Open, Closed and Path tags left by a previous run.
// Barriers and endpoints are kept.
func (g *Grid) ClearSearch() {
	for i := range g.cells {
		switch g.cells[i].state {
		case StateOpen, StateClosed, StatePath:
			g.cells[i].state = StateEmpty
		}
	}
}

// RefreshNeighbors recomputes every cell's neighbor lists against the current
// barrier layout. Lists go stale as soon as a barrier changes.
func (g *Grid) RefreshNeighbors() {
	for i := range g.cells {
		g.updateNeighbors(i)
		g.updateDiagonalNeighbors(i)
	}
}

func (g *Grid) passable(p Position) bool {
	return g.InBounds(p) && !g.cells[g.Index(p)].IsBarrier()
}

func (g *Grid) updateNeighbors(idx int) {
	c := &g.cells[idx]
	c.neighbor = c.neighbor[:0]
	for _, d := range orthogonalSteps {
		next := Position{c.pos.Row + d.Row, c.pos.Col + d.Col}
		if g.passable(next) {
			c.neighbor = append(c.neighbor, g.Index(next))
		}
	}
}

// A diagonal step is legal only if both flanking orthogonal cells are
// passable, so the search never squeezes between two barrier corners.
func (g *Grid) updateDiagonalNeighbors(idx int) {
	c := &g.cells[idx]
	c.diagonal = c.diagonal[:0]
	for _, d := range diagonalSteps {
		next := Position{c.pos.Row + d.Row, c.pos.Col + d.Col}
		if !g.passable(next) {
			continue
		}
		if !g.passable(Position{c.pos.Row + d.Row, c.pos.Col}) ||
			!g.passable(Position{c.pos.Row, c.pos.Col + d.Col}) {
			continue
		}
		c.diagonal = append(c.diagonal, g.Index(next))
	}
}
