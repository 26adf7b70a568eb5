package main

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Step costs share one integer unit with the heuristic: 10 per orthogonal
// step, 14 (10*sqrt 2, truncated) per diagonal step.
const (
	OrthogonalCost = 10
	DiagonalCost   = 14
)

// Heuristic estimates the remaining cost between two cells as ten times the
// Euclidean distance, rounded. It can overestimate long diagonal runs by a
// point or two because DiagonalCost is truncated.
func Heuristic(a, b Position) int {
	d := planar.Distance(
		orb.Point{float64(a.Row), float64(a.Col)},
		orb.Point{float64(b.Row), float64(b.Col)},
	)
	return int(math.Round(10 * d))
}
