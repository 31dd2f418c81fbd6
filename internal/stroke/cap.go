package stroke

import (
	"math"

	"github.com/gopostscript/postforge/internal/pathbuild"
)

// capPoints returns the vertices closing off an open subpath end at
// endpoint, where tangentDir points outward along the path direction (i.e.
// away from the subpath body, toward where the cap extends), per spec.md
// §4.7 step 5. half is the half stroke width.
func capPoints(endpoint, tangentDir pathbuild.Point, half float64, cap CapStyle) []pathbuild.Point {
	nrm := pathbuild.Point{X: -tangentDir.Y, Y: tangentDir.X}
	left := pathbuild.Point{X: endpoint.X + nrm.X*half, Y: endpoint.Y + nrm.Y*half}
	right := pathbuild.Point{X: endpoint.X - nrm.X*half, Y: endpoint.Y - nrm.Y*half}

	switch cap {
	case ButtCap:
		return []pathbuild.Point{left, right}
	case SquareCap:
		ext := pathbuild.Point{X: endpoint.X + tangentDir.X*half, Y: endpoint.Y + tangentDir.Y*half}
		return []pathbuild.Point{
			left,
			{X: ext.X + nrm.X*half, Y: ext.Y + nrm.Y*half},
			{X: ext.X - nrm.X*half, Y: ext.Y - nrm.Y*half},
			right,
		}
	default: // RoundCap
		a0 := math.Atan2(left.Y-endpoint.Y, left.X-endpoint.X)
		a1 := math.Atan2(right.Y-endpoint.Y, right.X-endpoint.X)
		for a1 < a0 {
			a1 += 2 * math.Pi
		}
		const maxStep = math.Pi / 16
		n := int(math.Ceil((a1 - a0) / maxStep))
		if n < 1 {
			n = 1
		}
		step := (a1 - a0) / float64(n)
		pts := make([]pathbuild.Point, 0, n+1)
		pts = append(pts, left)
		a := a0
		for i := 0; i < n; i++ {
			a += step
			pts = append(pts, pathbuild.Point{X: endpoint.X + half*math.Cos(a), Y: endpoint.Y + half*math.Sin(a)})
		}
		return pts
	}
}
