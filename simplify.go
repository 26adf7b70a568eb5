package main

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"
)

// PathSummary breaks a found path down into its step kinds
type PathSummary struct {
	OrthogonalSteps int        `json:"orthogonalSteps"`
	DiagonalSteps   int        `json:"diagonalSteps"`
	Cost            int        `json:"cost"`
	Waypoints       []Position `json:"waypoints"`
}

// waypointThreshold is in cell units. Any real turn moves the middle point
// at least ~0.7 cells off the chord.
const waypointThreshold = 0.1

// SummarizePath counts the steps of path and keeps only its turning points.
// Consecutive positions must be 8-adjacent, as RunSearch returns them.
func SummarizePath(path []Position) PathSummary {
	var summary PathSummary
	for i := 1; i < len(path); i++ {
		dr := path[i].Row - path[i-1].Row
		dc := path[i].Col - path[i-1].Col
		if dr != 0 && dc != 0 {
			summary.DiagonalSteps++
		} else {
			summary.OrthogonalSteps++
		}
	}
	summary.Cost = summary.OrthogonalSteps*OrthogonalCost + summary.DiagonalSteps*DiagonalCost
	summary.Waypoints = Waypoints(path)
	return summary
}

// Waypoints collapses straight runs of path down to their end points using
// Douglas-Peucker over cell coordinates
func Waypoints(path []Position) []Position {
	if len(path) <= 2 {
		return append([]Position(nil), path...)
	}

	line := make(orb.LineString, 0, len(path))
	for _, p := range path {
		line = append(line, orb.Point{float64(p.Row), float64(p.Col)})
	}
	simplified := simplify.DouglasPeucker(waypointThreshold).Simplify(line).(orb.LineString)

	waypoints := make([]Position, 0, len(simplified))
	for _, pt := range simplified {
		waypoints = append(waypoints, Position{Row: int(pt[0]), Col: int(pt[1])})
	}
	return waypoints
}
