package main

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// GridLines returns the separator lines between cells, one horizontal and
// one vertical per row, spanning the full pixel width
func GridLines(g *Grid) []orb.LineString {
	width := float64(g.Width())
	lines := make([]orb.LineString, 0, 2*g.Rows())
	for i := 0; i < g.Rows(); i++ {
		offset := float64(i * g.CellSize())
		lines = append(lines,
			orb.LineString{{0, offset}, {width, offset}},
			orb.LineString{{offset, 0}, {offset, width}},
		)
	}
	return lines
}

// GridGeoJSON exports every non-empty cell as a polygon tagged with its state,
// plus the grid lines, for map-style front ends
func GridGeoJSON(g *Grid) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for idx := 0; idx < g.Len(); idx++ {
		cell := g.At(idx)
		if cell.State() == StateEmpty {
			continue
		}
		f := geojson.NewFeature(cell.Bounds().ToPolygon())
		f.Properties["kind"] = "cell"
		f.Properties["row"] = cell.Position().Row
		f.Properties["col"] = cell.Position().Col
		f.Properties["state"] = cell.State().String()
		fc.Append(f)
	}

	for _, line := range GridLines(g) {
		f := geojson.NewFeature(line)
		f.Properties["kind"] = "line"
		fc.Append(f)
	}
	return fc
}
