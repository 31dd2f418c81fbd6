package stroke

import (
	"math"

	"github.com/gopostscript/postforge/internal/pathbuild"
)

// roundJoinArc returns the arc vertices filling the outer wedge at the path
// vertex v between inEnd and outStart, both at distance r from v, per
// spec.md §4.7 step 4 "Round". ccw selects the sweep direction consistent
// with the offset side.
func roundJoinArc(v, inEnd, outStart pathbuild.Point, r float64, ccw bool) []pathbuild.Point {
	a0 := math.Atan2(inEnd.Y-v.Y, inEnd.X-v.X)
	a1 := math.Atan2(outStart.Y-v.Y, outStart.X-v.X)
	if ccw {
		for a1 < a0 {
			a1 += 2 * math.Pi
		}
	} else {
		for a1 > a0 {
			a1 -= 2 * math.Pi
		}
	}
	const maxStep = math.Pi / 16
	n := int(math.Ceil(math.Abs(a1-a0) / maxStep))
	if n < 1 {
		n = 1
	}
	step := (a1 - a0) / float64(n)
	pts := make([]pathbuild.Point, 0, n+1)
	pts = append(pts, inEnd)
	a := a0
	for i := 0; i < n; i++ {
		a += step
		pts = append(pts, pathbuild.Point{X: v.X + r*math.Cos(a), Y: v.Y + r*math.Sin(a)})
	}
	return pts
}
