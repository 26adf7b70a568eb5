package main

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Background colour per state
var stateColors = map[CellState]lipgloss.Color{
	StateEmpty:   "#FFFFFF",
	StateBarrier: "#000000",
	StateStart:   "#FFA500",
	StateEnd:     "#40E0D0",
	StateOpen:    "#00FF00",
	StateClosed:  "#FF0000",
	StatePath:    "#800080",
}

var stateGlyphs = map[CellState]string{
	StateEmpty:   ".",
	StateBarrier: "#",
	StateStart:   "S",
	StateEnd:     "E",
	StateOpen:    "o",
	StateClosed:  "x",
	StatePath:    "*",
}

// GridRenderer draws a grid as one coloured glyph per cell, one line per row
type GridRenderer struct {
	styles map[CellState]lipgloss.Style
}

// NewGridRenderer builds a renderer whose colour profile matches out. Colour
// is dropped when out is not a terminal.
func NewGridRenderer(out io.Writer) *GridRenderer {
	return newGridRenderer(lipgloss.NewRenderer(out))
}

// NewANSIGridRenderer always emits true-colour escape codes, for clients
// that draw the board in their own terminal
func NewANSIGridRenderer(out io.Writer) *GridRenderer {
	r := lipgloss.NewRenderer(out)
	r.SetColorProfile(termenv.TrueColor)
	return newGridRenderer(r)
}

func newGridRenderer(r *lipgloss.Renderer) *GridRenderer {
	styles := make(map[CellState]lipgloss.Style, len(stateColors))
	for state, color := range stateColors {
		fg := lipgloss.Color("#000000")
		if state == StateBarrier || state == StatePath {
			fg = "#FFFFFF"
		}
		styles[state] = r.NewStyle().Background(color).Foreground(fg)
	}
	return &GridRenderer{styles: styles}
}

func (gr *GridRenderer) Render(g *Grid) string {
	var b strings.Builder
	for row := 0; row < g.Rows(); row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := 0; col < g.Rows(); col++ {
			state := g.Cell(Position{Row: row, Col: col}).State()
			b.WriteString(gr.styles[state].Render(stateGlyphs[state]))
		}
	}
	return b.String()
}
