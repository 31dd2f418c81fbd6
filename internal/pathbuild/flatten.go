package pathbuild

import "math"

// SplitCubic performs de Casteljau subdivision of the cubic (p0,p1,p2,p3)
// at parameter t, returning the two halves' control points.
func SplitCubic(p0, p1, p2, p3 Point, t float64) (a0, a1, a2, a3, b0, b1, b2, b3 Point) {
	lerp := func(u, v Point) Point { return Point{X: u.X + (v.X-u.X)*t, Y: u.Y + (v.Y-u.Y)*t} }
	p01 := lerp(p0, p1)
	p12 := lerp(p1, p2)
	p23 := lerp(p2, p3)
	p012 := lerp(p01, p12)
	p123 := lerp(p12, p23)
	p0123 := lerp(p012, p123)
	return p0, p01, p012, p0123, p0123, p123, p23, p3
}

// chordDistance returns the perpendicular distance of ctrl from the line
// through p0-p3 (its distance from p0 when p0 == p3); FlatEnough applies it
// to both control points, the standard flatness test used throughout
// spec.md §4.6 and §4.7.
func chordDistance(p0, p3, ctrl Point) float64 {
	dx, dy := p3.X-p0.X, p3.Y-p0.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return math.Hypot(ctrl.X-p0.X, ctrl.Y-p0.Y)
	}
	// perpendicular distance from ctrl to the line p0-p3
	return math.Abs((ctrl.X-p0.X)*dy-(ctrl.Y-p0.Y)*dx) / l
}

// FlatEnough reports whether the cubic is within tol of its chord, testing
// both control points, per spec.md §4.6.
func FlatEnough(p0, p1, p2, p3 Point, tol float64) bool {
	return chordDistance(p0, p3, p1) <= tol && chordDistance(p0, p3, p2) <= tol
}

// FlattenCubic recursively subdivides (p0,p1,p2,p3) via de Casteljau until
// each piece satisfies FlatEnough, appending line endpoints (excluding p0)
// to out. Recursion depth is capped to guard against numerical pathology.
func FlattenCubic(p0, p1, p2, p3 Point, tol float64, out []Point) []Point {
	return flattenCubicDepth(p0, p1, p2, p3, tol, out, 0)
}

func flattenCubicDepth(p0, p1, p2, p3 Point, tol float64, out []Point, depth int) []Point {
	if depth >= 24 || FlatEnough(p0, p1, p2, p3, tol) {
		return append(out, p3)
	}
	a0, a1, a2, a3, b0, b1, b2, b3 := SplitCubic(p0, p1, p2, p3, 0.5)
	out = flattenCubicDepth(a0, a1, a2, a3, tol, out, depth+1)
	out = flattenCubicDepth(b0, b1, b2, b3, tol, out, depth+1)
	return out
}

// Flatten replaces each cubic of the path with a polyline approximation at
// the given flatness, per spec.md §4.6 `flattenpath`; lines, moves, and
// closes pass through unchanged.
func (p *Path) Flatten(flatness float64) *Path {
	out := New()
	for _, sp := range p.Subpaths {
		var cur Point
		for _, s := range sp.Segs {
			switch s.Kind {
			case MoveTo:
				out.MoveTo(s.P)
				cur = s.P
			case LineTo:
				out.LineTo(s.P)
				cur = s.P
			case CurveTo:
				pts := FlattenCubic(cur, s.P1, s.P2, s.P3, flatness, nil)
				for _, pt := range pts {
					out.LineTo(pt)
				}
				cur = s.P3
			case ClosePath:
				out.ClosePath()
			}
		}
	}
	return out
}

// Polylines flattens each subpath to a []Point polyline without allocating
// a new Path, for the insideness tests, which only need line segments.
func (p *Path) Polylines(flatness float64) [][]Point {
	var res [][]Point
	for _, sp := range p.Subpaths {
		if len(sp.Segs) == 0 {
			continue
		}
		var line []Point
		var cur Point
		for _, s := range sp.Segs {
			switch s.Kind {
			case MoveTo:
				if len(line) > 1 {
					res = append(res, line)
				}
				line = []Point{s.P}
				cur = s.P
			case LineTo:
				line = append(line, s.P)
				cur = s.P
			case CurveTo:
				pts := FlattenCubic(cur, s.P1, s.P2, s.P3, flatness, nil)
				line = append(line, pts...)
				cur = s.P3
			case ClosePath:
				if len(line) > 0 && (line[0] != line[len(line)-1]) {
					line = append(line, line[0])
				}
			}
		}
		if len(line) > 1 {
			res = append(res, line)
		}
	}
	return res
}
