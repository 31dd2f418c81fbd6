// Package inside implements the point-in-path insideness tests of
// spec.md §4.8 (`infill`, `ineofill`, `instroke`): horizontal ray casting
// against the flattened path, with both the nonzero-winding and even-odd
// fill rules.
package inside

import (
	"github.com/gopostscript/postforge/internal/pathbuild"
	"github.com/gopostscript/postforge/internal/stroke"
)

// Rule selects the fill rule used to turn a ray's crossing list into an
// inside/outside verdict, per spec.md §4.8.
type Rule int

const (
	NonZero Rule = iota
	EvenOdd
)

// crossing records one edge crossing of the horizontal test ray: the
// signed direction (+1 if the edge goes upward through the ray, -1 if
// downward), used by the nonzero winding rule.
type crossing struct {
	x   float64
	dir int
}

// PointInPath reports whether pt is inside the path under the given fill
// rule, per spec.md §4.8 `infill`/`ineofill`. The path must already be in
// the same coordinate space as pt (device space, per spec.md §4.6).
func PointInPath(path *pathbuild.Path, pt pathbuild.Point, rule Rule, flatness float64) bool {
	lines := path.Polylines(flatness)
	var crossings []crossing
	for _, line := range lines {
		n := len(line)
		if n < 2 {
			continue
		}
		for i := 0; i < n-1; i++ {
			a, b := line[i], line[i+1]
			if c, ok := rayCrossing(a, b, pt); ok {
				crossings = append(crossings, c)
			}
		}
		// close the ring if the flattener didn't already repeat the start
		// point (Polylines does append it for ClosePath subpaths, so this
		// is usually a no-op; guard for open subpaths used as fill paths,
		// which PostScript implicitly closes for filling purposes).
		if line[0] != line[n-1] {
			if c, ok := rayCrossing(line[n-1], line[0], pt); ok {
				crossings = append(crossings, c)
			}
		}
	}

	switch rule {
	case EvenOdd:
		count := 0
		for _, c := range crossings {
			if c.x > pt.X {
				count++
			}
		}
		return count%2 == 1
	default: // NonZero
		winding := 0
		for _, c := range crossings {
			if c.x > pt.X {
				winding += c.dir
			}
		}
		return winding != 0
	}
}

// rayCrossing tests whether the horizontal ray from pt going in +X crosses
// segment a-b, using the half-open [a.Y, b.Y) convention on the lower
// endpoint to avoid double-counting vertices shared by adjacent edges.
func rayCrossing(a, b, pt pathbuild.Point) (crossing, bool) {
	if a.Y == b.Y {
		return crossing{}, false
	}
	dir := 1
	lo, hi := a, b
	if a.Y > b.Y {
		dir = -1
		lo, hi = b, a
	}
	if pt.Y < lo.Y || pt.Y >= hi.Y {
		return crossing{}, false
	}
	t := (pt.Y - lo.Y) / (hi.Y - lo.Y)
	x := lo.X + (hi.X-lo.X)*t
	return crossing{x: x, dir: dir}, true
}

// InStroke reports whether pt falls inside the stroked outline path would
// produce under params, per spec.md §4.8 `instroke`: it strokes the path
// and tests the result with the nonzero rule, since a stroke outline's
// self-overlaps (at joins and closed rings) must not cancel out.
func InStroke(path *pathbuild.Path, ctm pathbuild.Matrix, params stroke.Params, pt pathbuild.Point) bool {
	outline := stroke.Stroke(path, ctm, params)
	return PointInPath(outline, pt, NonZero, params.FlattenessOrDefault())
}
