package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGrid(t *testing.T, rows int) *Grid {
	t.Helper()
	g, err := BuildGrid(rows, rows*10)
	require.NoError(t, err)
	return g
}

func setBarriers(g *Grid, ps ...Position) {
	for _, p := range ps {
		g.Cell(p).SetState(StateBarrier)
	}
}

func positionsOf(g *Grid, idxs []int) []Position {
	out := make([]Position, 0, len(idxs))
	for _, idx := range idxs {
		out = append(out, g.PositionOf(idx))
	}
	return out
}

func TestBuildGrid_BorderIsBarrier(t *testing.T) {
	g, err := BuildGrid(10, 500)
	require.NoError(t, err)
	assert.Equal(t, 10, g.Rows())
	assert.Equal(t, 50, g.CellSize())
	assert.Equal(t, 100, g.Len())

	for row := 0; row < 10; row++ {
		for col := 0; col < 10; col++ {
			state := g.Cell(Position{row, col}).State()
			if row == 0 || row == 9 || col == 0 || col == 9 {
				assert.Equal(t, StateBarrier, state, "border cell (%d,%d)", row, col)
			} else {
				assert.Equal(t, StateEmpty, state, "interior cell (%d,%d)", row, col)
			}
		}
	}
}

func TestBuildGrid_CellSizeTruncates(t *testing.T) {
	g, err := BuildGrid(7, 100)
	require.NoError(t, err)
	assert.Equal(t, 14, g.CellSize())
	assert.Equal(t, 100, g.Width())
}

func TestBuildGrid_TwoRowsIsAllBorder(t *testing.T) {
	g, err := BuildGrid(2, 20)
	require.NoError(t, err)
	for _, s := range g.States() {
		assert.Equal(t, StateBarrier, s)
	}
}

func TestBuildGrid_RejectsDegenerateDimensions(t *testing.T) {
	for _, tc := range []struct {
		name        string
		rows, width int
	}{
		{"one row", 1, 100},
		{"zero rows", 0, 100},
		{"negative rows", -3, 100},
		{"narrower than rows", 10, 9},
		{"too many rows", MaxGridRows + 1, 100000},
		{"rows squared overflows", 1 << 32, 1 << 32},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildGrid(tc.rows, tc.width)
			assert.ErrorIs(t, err, ErrInvalidGrid)
		})
	}
}

func TestGrid_OnBorder(t *testing.T) {
	g := newTestGrid(t, 5)
	assert.True(t, g.OnBorder(Position{0, 2}))
	assert.True(t, g.OnBorder(Position{4, 4}))
	assert.True(t, g.OnBorder(Position{2, 0}))
	assert.False(t, g.OnBorder(Position{1, 3}))
	assert.False(t, g.OnBorder(Position{3, 3}))
}

func TestGrid_IndexRoundTrip(t *testing.T) {
	g := newTestGrid(t, 6)
	for idx := 0; idx < g.Len(); idx++ {
		assert.Equal(t, idx, g.Index(g.PositionOf(idx)))
	}
	assert.Equal(t, Position{2, 3}, g.PositionOf(15))
	assert.Nil(t, g.Cell(Position{6, 0}))
	assert.Nil(t, g.Cell(Position{0, -1}))
	assert.False(t, g.InBounds(Position{-1, 2}))
}

func TestRefreshNeighbors_OpenInterior(t *testing.T) {
	g := newTestGrid(t, 5)
	g.RefreshNeighbors()

	center := g.Cell(Position{2, 2})
	assert.Equal(t, []Position{{3, 2}, {1, 2}, {2, 3}, {2, 1}}, positionsOf(g, center.OrthogonalNeighbors()))
	assert.Equal(t, []Position{{3, 3}, {1, 3}, {3, 1}, {1, 1}}, positionsOf(g, center.DiagonalNeighbors()))

	corner := g.Cell(Position{1, 1})
	assert.Equal(t, []Position{{2, 1}, {1, 2}}, positionsOf(g, corner.OrthogonalNeighbors()))
	assert.Equal(t, []Position{{2, 2}}, positionsOf(g, corner.DiagonalNeighbors()))
}

func TestRefreshNeighbors_EdgeCellsStayInBounds(t *testing.T) {
	g := newTestGrid(t, 4)
	// Open the border so bounds checks, not barriers, do the limiting
	for idx := 0; idx < g.Len(); idx++ {
		g.At(idx).SetState(StateEmpty)
	}
	g.RefreshNeighbors()

	assert.Equal(t, []Position{{1, 0}, {0, 1}}, positionsOf(g, g.Cell(Position{0, 0}).OrthogonalNeighbors()))
	assert.Equal(t, []Position{{1, 1}}, positionsOf(g, g.Cell(Position{0, 0}).DiagonalNeighbors()))
	assert.Equal(t, []Position{{2, 3}, {3, 2}}, positionsOf(g, g.Cell(Position{3, 3}).OrthogonalNeighbors()))
	assert.Equal(t, []Position{{2, 2}}, positionsOf(g, g.Cell(Position{3, 3}).DiagonalNeighbors()))
}

func TestRefreshNeighbors_NoCornerCutting(t *testing.T) {
	g := newTestGrid(t, 5)
	// 2x2 block (1,1) (1,2) / (2,1) (2,2) with the off-diagonal pair blocked
	setBarriers(g, Position{1, 2}, Position{2, 1})
	g.RefreshNeighbors()

	a := g.Index(Position{1, 1})
	b := g.Index(Position{2, 2})
	assert.NotContains(t, g.At(a).DiagonalNeighbors(), b)
	assert.NotContains(t, g.At(b).DiagonalNeighbors(), a)
	assert.Empty(t, g.At(a).DiagonalNeighbors())
	assert.Empty(t, g.At(a).OrthogonalNeighbors())
	assert.Equal(t, []Position{{3, 3}}, positionsOf(g, g.At(b).DiagonalNeighbors()))
}

func TestRefreshNeighbors_SingleFlankBlocksDiagonal(t *testing.T) {
	g := newTestGrid(t, 5)
	setBarriers(g, Position{1, 2})
	g.RefreshNeighbors()

	assert.NotContains(t, g.Cell(Position{1, 1}).DiagonalNeighbors(), g.Index(Position{2, 2}))
	assert.Contains(t, g.Cell(Position{1, 1}).OrthogonalNeighbors(), g.Index(Position{2, 1}))
}

func TestRefreshNeighbors_ExcludesBarriers(t *testing.T) {
	g := newTestGrid(t, 6)
	setBarriers(g, Position{2, 3}, Position{3, 3})
	g.RefreshNeighbors()

	for _, idx := range g.Cell(Position{2, 2}).OrthogonalNeighbors() {
		assert.False(t, g.At(idx).IsBarrier())
	}
	for _, idx := range g.Cell(Position{2, 2}).DiagonalNeighbors() {
		assert.False(t, g.At(idx).IsBarrier())
	}
	assert.NotContains(t, g.Cell(Position{2, 2}).OrthogonalNeighbors(), g.Index(Position{2, 3}))
}

func TestRefreshNeighbors_Idempotent(t *testing.T) {
	g := newTestGrid(t, 8)
	setBarriers(g, Position{3, 3}, Position{3, 4}, Position{5, 2}, Position{2, 6})

	g.RefreshNeighbors()
	firstOrth := make([][]int, g.Len())
	firstDiag := make([][]int, g.Len())
	for idx := 0; idx < g.Len(); idx++ {
		firstOrth[idx] = append([]int(nil), g.At(idx).OrthogonalNeighbors()...)
		firstDiag[idx] = append([]int(nil), g.At(idx).DiagonalNeighbors()...)
	}

	g.RefreshNeighbors()
	for idx := 0; idx < g.Len(); idx++ {
		assert.Equal(t, firstOrth[idx], append([]int(nil), g.At(idx).OrthogonalNeighbors()...))
		assert.Equal(t, firstDiag[idx], append([]int(nil), g.At(idx).DiagonalNeighbors()...))
	}
}

func TestRefreshNeighbors_PicksUpNewBarriers(t *testing.T) {
	g := newTestGrid(t, 5)
	g.RefreshNeighbors()
	target := g.Index(Position{2, 3})
	require.Contains(t, g.Cell(Position{2, 2}).OrthogonalNeighbors(), target)

	setBarriers(g, Position{2, 3})
	// stale until refreshed
	assert.Contains(t, g.Cell(Position{2, 2}).OrthogonalNeighbors(), target)
	g.RefreshNeighbors()
	assert.NotContains(t, g.Cell(Position{2, 2}).OrthogonalNeighbors(), target)
}

func TestGrid_ClearSearchKeepsLayout(t *testing.T) {
	g := newTestGrid(t, 5)
	g.Cell(Position{1, 1}).SetState(StateStart)
	g.Cell(Position{3, 3}).SetState(StateEnd)
	g.Cell(Position{2, 2}).SetState(StatePath)
	g.Cell(Position{1, 2}).SetState(StateOpen)
	g.Cell(Position{2, 1}).SetState(StateClosed)
	g.Cell(Position{1, 3}).SetState(StateBarrier)

	g.ClearSearch()

	assert.Equal(t, StateStart, g.Cell(Position{1, 1}).State())
	assert.Equal(t, StateEnd, g.Cell(Position{3, 3}).State())
	assert.Equal(t, StateBarrier, g.Cell(Position{1, 3}).State())
	assert.Equal(t, StateEmpty, g.Cell(Position{2, 2}).State())
	assert.Equal(t, StateEmpty, g.Cell(Position{1, 2}).State())
	assert.Equal(t, StateEmpty, g.Cell(Position{2, 1}).State())
	assert.Equal(t, StateBarrier, g.Cell(Position{0, 0}).State())
}
