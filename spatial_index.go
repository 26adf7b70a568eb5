package main

import (
	"cmp"
	"errors"
	"slices"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

var ErrNoCell = errors.New("no cell at that pixel")

// CellEntry wraps a cell's pixel box for R-tree storage
type CellEntry struct {
	Pos  Position
	Box  orb.Bound
	BBox rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (e *CellEntry) Bounds() rtreego.Rect {
	return e.BBox
}

// CellIndex answers pixel -> cell queries for a grid layout
type CellIndex struct {
	tree *rtreego.Rtree
}

// NewCellIndex indexes the pixel box of every cell of g. Only the layout is
// captured, so the index stays valid until the grid is rebuilt.
func NewCellIndex(g *Grid) (*CellIndex, error) {
	tree := rtreego.NewTree(2, 25, 50) // 2D, min 25, max 50 entries per node

	size := float64(g.CellSize())
	for idx := 0; idx < g.Len(); idx++ {
		box := g.At(idx).Bounds()
		bbox, err := rtreego.NewRect(rtreego.Point{box.Min[0], box.Min[1]}, []float64{size, size})
		if err != nil {
			return nil, err
		}
		tree.Insert(&CellEntry{Pos: g.PositionOf(idx), Box: box, BBox: bbox})
	}

	return &CellIndex{tree: tree}, nil
}

// Size returns the number of indexed cells
func (ci *CellIndex) Size() int {
	return ci.tree.Size()
}

// CellAt returns the cell under pixel (x, y). Boxes are half-open so a pixel
// on a shared edge belongs to the cell to its right/below. Pixels in the
// uncovered remainder past rows*cellSize return ErrNoCell.
func (ci *CellIndex) CellAt(x, y float64) (Position, error) {
	hit := rtreego.Point{x, y}.ToRect(0.5)
	for _, item := range ci.tree.SearchIntersect(hit) {
		entry := item.(*CellEntry)
		if x >= entry.Box.Min[0] && x < entry.Box.Max[0] &&
			y >= entry.Box.Min[1] && y < entry.Box.Max[1] {
			return entry.Pos, nil
		}
	}
	return Position{}, ErrNoCell
}

// QueryRegion returns the cells whose pixel box overlaps the given rectangle,
// in arena order
func (ci *CellIndex) QueryRegion(minX, minY, maxX, maxY float64) []Position {
	if maxX < minX {
		minX, maxX = maxX, minX
	}
	if maxY < minY {
		minY, maxY = maxY, minY
	}
	bbox, err := rtreego.NewRect(
		rtreego.Point{minX, minY},
		[]float64{maxX - minX + 1, maxY - minY + 1},
	)
	if err != nil {
		return []Position{}
	}

	results := ci.tree.SearchIntersect(bbox)
	positions := make([]Position, 0, len(results))
	for _, item := range results {
		entry := item.(*CellEntry)
		// rtree overlap may count touching edges; keep strict overlaps only
		if entry.Box.Min[0] < maxX+1 && entry.Box.Max[0] > minX &&
			entry.Box.Min[1] < maxY+1 && entry.Box.Max[1] > minY {
			positions = append(positions, entry.Pos)
		}
	}
	slices.SortFunc(positions, func(a, b Position) int {
		if a.Row != b.Row {
			return cmp.Compare(a.Row, b.Row)
		}
		return cmp.Compare(a.Col, b.Col)
	})
	return positions
}
