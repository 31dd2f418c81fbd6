package stroke

import (
	"math"

	"github.com/gopostscript/postforge/internal/pathbuild"
)

// pieceKind distinguishes the two segment shapes a stroked run is built
// from: straight chords and cubic Béziers, kept distinct through dashing
// and offsetting so curved input stays curved in the outline, per
// spec.md §4.7 step 3.
type pieceKind uint8

const (
	lineSeg pieceKind = iota
	curveSeg
)

// piece is one segment of a run: either a line (P0-P3, P1/P2 unused) or a
// cubic Bézier (P0,P1,P2,P3 all meaningful), grounded on
// original_source/postforge/operators/strokepath_algorithm.py, which keeps
// its path segments tagged this way ('line'/'curve') all the way through
// dash splitting and offsetting instead of flattening up front.
type piece struct {
	Kind           pieceKind
	P0, P1, P2, P3 pathbuild.Point
}

// length approximates the piece's arc length: exact for a line, sampled for
// a curve (sufficient for dash-length accounting and offset decisions,
// neither of which need exact arc length).
func (pc piece) length() float64 {
	if pc.Kind == lineSeg {
		return dist(pc.P0, pc.P3)
	}
	return cubicLength(pc.P0, pc.P1, pc.P2, pc.P3, 16)
}

// startTangent is the unit direction leaving P0, skipping coincident
// control points the way PLRM's curve-degeneracy handling does.
func (pc piece) startTangent() pathbuild.Point {
	if pc.Kind == lineSeg {
		return dir(pc.P0, pc.P3)
	}
	if pc.P1 != pc.P0 {
		return dir(pc.P0, pc.P1)
	}
	if pc.P2 != pc.P0 {
		return dir(pc.P0, pc.P2)
	}
	return dir(pc.P0, pc.P3)
}

// endTangent is the unit direction arriving at P3.
func (pc piece) endTangent() pathbuild.Point {
	if pc.Kind == lineSeg {
		return dir(pc.P0, pc.P3)
	}
	if pc.P2 != pc.P3 {
		return dir(pc.P2, pc.P3)
	}
	if pc.P1 != pc.P3 {
		return dir(pc.P1, pc.P3)
	}
	return dir(pc.P0, pc.P3)
}

func dist(a, b pathbuild.Point) float64 { return math.Hypot(b.X-a.X, b.Y-a.Y) }

func negate(p pathbuild.Point) pathbuild.Point { return pathbuild.Point{X: -p.X, Y: -p.Y} }

// cubicPoint evaluates the cubic Bézier (p0,p1,p2,p3) at parameter t.
func cubicPoint(p0, p1, p2, p3 pathbuild.Point, t float64) pathbuild.Point {
	u := 1 - t
	a, bb, c, dd := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
	return pathbuild.Point{
		X: a*p0.X + bb*p1.X + c*p2.X + dd*p3.X,
		Y: a*p0.Y + bb*p1.Y + c*p2.Y + dd*p3.Y,
	}
}

// cubicLength approximates arc length by summing chords of a steps-point
// sampling -- adequate for dash accounting and flatness decisions.
func cubicLength(p0, p1, p2, p3 pathbuild.Point, steps int) float64 {
	total := 0.0
	prev := p0
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		pt := cubicPoint(p0, p1, p2, p3, t)
		total += dist(prev, pt)
		prev = pt
	}
	return total
}

// tForLength searches for the parameter t at which the cubic's arc length
// from p0 reaches target (clamped to [0, full length]), by bisection over
// the sampled length function, grounded on strokepath_algorithm.py's
// _find_cubic_t_for_length.
func tForLength(p0, p1, p2, p3 pathbuild.Point, target float64) float64 {
	lo, hi := 0.0, 1.0
	for i := 0; i < 30; i++ {
		mid := (lo + hi) / 2
		if cubicLengthTo(p0, p1, p2, p3, mid, 12) < target {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

// cubicLengthTo measures the arc length of the cubic's [0,t] sub-range
// without first splitting the curve, by sampling cubicPoint directly.
func cubicLengthTo(p0, p1, p2, p3 pathbuild.Point, t float64, steps int) float64 {
	total := 0.0
	prev := p0
	for i := 1; i <= steps; i++ {
		tt := t * float64(i) / float64(steps)
		pt := cubicPoint(p0, p1, p2, p3, tt)
		total += dist(prev, pt)
		prev = pt
	}
	return total
}
