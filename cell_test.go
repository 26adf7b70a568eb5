package main

import (
	"encoding/json"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellState_Text(t *testing.T) {
	for _, s := range []CellState{StateEmpty, StateBarrier, StateStart, StateEnd, StateOpen, StateClosed, StatePath} {
		text, err := s.MarshalText()
		require.NoError(t, err)

		var back CellState
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, s, back)
	}

	var s CellState
	assert.Error(t, s.UnmarshalText([]byte("lava")))
	_, err := CellState(42).MarshalText()
	assert.Error(t, err)
	assert.Equal(t, "state(42)", CellState(42).String())
}

func TestCellState_JSONSlice(t *testing.T) {
	data, err := json.Marshal([]CellState{StateBarrier, StatePath})
	require.NoError(t, err)
	assert.JSONEq(t, `["barrier","path"]`, string(data))

	var back []CellState
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, []CellState{StateBarrier, StatePath}, back)
}

func TestCell_StateAndPosition(t *testing.T) {
	g := newTestGrid(t, 5)
	c := g.Cell(Position{2, 3})
	assert.Equal(t, Position{2, 3}, c.Position())
	assert.Equal(t, StateEmpty, c.State())
	assert.False(t, c.IsBarrier())

	c.SetState(StateBarrier)
	assert.True(t, c.IsBarrier())
	assert.Equal(t, StateBarrier, g.Cell(Position{2, 3}).State())
}

func TestCell_BoundsFollowRowsOnXAxis(t *testing.T) {
	g, err := BuildGrid(10, 500)
	require.NoError(t, err)

	b := g.Cell(Position{2, 3}).Bounds()
	assert.Equal(t, orb.Point{100, 150}, b.Min)
	assert.Equal(t, orb.Point{150, 200}, b.Max)
}
