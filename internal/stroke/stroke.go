// Package stroke implements the stroker (spec.md §4.7): it turns a path,
// together with line width/cap/join/miter-limit/dash parameters, into a
// filled outline path suitable for nonzero-rule fill. This is the hardest
// subsystem per spec.md §2 (15% of the core), so it is split across several
// files mirroring the pipeline stages named in spec.md: dash walking
// (dash.go), offsetting (offset.go), joins (join.go), caps (cap.go), and
// assembly (this file).
//
// Curve segments are kept as cubics through dash splitting and offsetting
// (piece.go's piece type) rather than flattened to polylines up front:
// offsetting uses adaptive Tiller-Hanson subdivision (flatness and tangent
// tests, de Casteljau split, depth-capped), grounded on
// original_source/postforge/operators/strokepath_algorithm.py's
// _offset_cubic_recursive_raw and split_cubic/_find_cubic_t_for_length, so
// a curved input path produces a curved outline instead of a polygon
// approximation. Dash-length walking, join outer/inner determination,
// miter-limit fallback, and cap synthesis are implemented per spec.md §4.7
// in full.
package stroke

import (
	"math"

	"github.com/gopostscript/postforge/internal/pathbuild"
)

// CapStyle selects the stroke end-cap shape.
type CapStyle int

const (
	ButtCap CapStyle = iota
	RoundCap
	SquareCap
)

// JoinStyle selects the stroke join shape.
type JoinStyle int

const (
	MiterJoin JoinStyle = iota
	RoundJoin
	BevelJoin
)

// Params bundles the graphics-state stroke parameters consumed by Stroke,
// per spec.md §4.7.
type Params struct {
	Width      float64
	Cap        CapStyle
	Join       JoinStyle
	MiterLimit float64
	Dash       []float64
	DashOffset float64
	Flatness   float64
}

func (p Params) flatness() float64 {
	return p.FlattenessOrDefault()
}

// FlattenessOrDefault returns p.Flatness, or the standard 0.2 device-unit
// default when unset, per spec.md §4.7.
func (p Params) FlattenessOrDefault() float64 {
	if p.Flatness <= 0 {
		return 0.2
	}
	return p.Flatness
}

// Stroke builds the filled outline of path under ctm and params, per
// spec.md §4.7. path is in device space (CTM already applied, per spec.md
// §4.6); ctm is passed separately only to decide the anisotropy handling
// and to map the result back if user-space stroking was used.
func Stroke(path *pathbuild.Path, ctm pathbuild.Matrix, p Params) *pathbuild.Path {
	width := p.Width
	if width <= 0 {
		width = 1
	}

	work := path
	var backTransform *pathbuild.Matrix
	if ctm.Anisotropic() {
		inv, ok := ctm.Invert()
		if ok {
			work = transformPath(path, inv)
			// user-space width clamped to at least one device pixel.
			scale := ctm.AvgScale()
			if scale <= 0 {
				scale = 1
			}
			minUserWidth := 1 / scale
			if width < minUserWidth {
				width = minUserWidth
			}
			backTransform = &ctm
		}
	} else {
		scale := ctm.AvgScale()
		if scale <= 0 {
			scale = 1
		}
		width *= scale
		if width < 1 {
			width = 1
		}
	}

	out := pathbuild.New()
	runs := buildRuns(work)
	for _, run := range runs {
		units := dashUnits(run, p.Dash, p.DashOffset)
		for _, u := range units {
			appendOutline(out, u, width, p)
		}
	}

	if backTransform != nil {
		out = transformPath(out, *backTransform)
	}
	return out
}

// run is one subpath kept as an ordered piece chain (lines and cubics, not
// flattened), and whether it was closed (ClosePath present) in the
// original path. A subpath with no segments at all (a bare moveto) carries
// HasPoint/Point instead, so a round cap can still emit a dot for it
// (spec.md §4.7 step 6).
type run struct {
	Pieces   []piece
	Closed   bool
	HasPoint bool
	Point    pathbuild.Point
}

// buildRuns converts each subpath of p into a run, preserving CurveTo
// segments as curveSeg pieces instead of flattening them, per spec.md
// §4.7 step 3.
func buildRuns(p *pathbuild.Path) []run {
	var runs []run
	for _, sp := range p.Subpaths {
		if len(sp.Segs) == 0 {
			continue
		}
		var pieces []piece
		var cur, start pathbuild.Point
		haveStart := false
		closed := false
		for _, s := range sp.Segs {
			switch s.Kind {
			case pathbuild.MoveTo:
				cur = s.P
				start = s.P
				haveStart = true
			case pathbuild.LineTo:
				if dist(cur, s.P) > 0 {
					pieces = append(pieces, piece{Kind: lineSeg, P0: cur, P3: s.P})
				}
				cur = s.P
			case pathbuild.CurveTo:
				pieces = append(pieces, piece{Kind: curveSeg, P0: cur, P1: s.P1, P2: s.P2, P3: s.P3})
				cur = s.P3
			case pathbuild.ClosePath:
				if haveStart && dist(cur, start) > 0 {
					pieces = append(pieces, piece{Kind: lineSeg, P0: cur, P3: start})
					cur = start
				}
				closed = true
			}
		}
		if len(pieces) == 0 {
			runs = append(runs, run{HasPoint: haveStart, Point: start})
			continue
		}
		runs = append(runs, run{Pieces: pieces, Closed: closed})
	}
	return runs
}

func transformPath(p *pathbuild.Path, m pathbuild.Matrix) *pathbuild.Path {
	out := pathbuild.New()
	for _, sp := range p.Subpaths {
		for _, s := range sp.Segs {
			switch s.Kind {
			case pathbuild.MoveTo:
				out.MoveTo(m.Apply(s.P))
			case pathbuild.LineTo:
				out.LineTo(m.Apply(s.P))
			case pathbuild.CurveTo:
				out.CurveTo(m.Apply(s.P1), m.Apply(s.P2), m.Apply(s.P3))
			case pathbuild.ClosePath:
				out.ClosePath()
			}
		}
	}
	return out
}

// unit is one contiguous "on" phase to be outlined: either a whole original
// subpath (no dashing) or one dash run, still as a piece chain. Closed is
// also true for the merged last+first dash run of a closed, fully-on
// original subpath (spec.md §4.7 step 2), which is outlined as one closed
// loop rather than two open ones.
type unit struct {
	Pieces   []piece
	Closed   bool
	HasPoint bool
	Point    pathbuild.Point
}

func dashUnits(r run, dash []float64, offset float64) []unit {
	if len(r.Pieces) == 0 {
		return []unit{{HasPoint: r.HasPoint, Point: r.Point}}
	}
	if len(dash) == 0 || allZero(dash) {
		return []unit{{Pieces: r.Pieces, Closed: r.Closed}}
	}
	return walkDash(r, dash, offset)
}

func allZero(d []float64) bool {
	for _, v := range d {
		if v > 0 {
			return false
		}
	}
	return true
}

// appendOutline builds the filled outline for one unit and appends it (one
// or two subpaths) to out, per spec.md §4.7 steps 3-6.
func appendOutline(out *pathbuild.Path, u unit, width float64, p Params) {
	pieces := u.Pieces
	if len(pieces) == 0 {
		if u.HasPoint && p.Cap == RoundCap {
			emitCircle(out, u.Point, width/2)
		}
		return
	}

	half := width / 2
	if u.Closed {
		outer := offsetSegs(pieces, half, true, p)
		inner := offsetSegs(pieces, -half, true, p)
		emitClosedSegs(out, outer)
		emitClosedSegs(out, reverseSegs(inner))
		return
	}

	left := offsetSegs(pieces, half, false, p)
	right := offsetSegs(pieces, -half, false, p)

	last := pieces[len(pieces)-1]
	first := pieces[0]

	var loop []piece
	loop = append(loop, left...)
	loop = append(loop, pointsToLineSegs(capPoints(last.P3, last.endTangent(), half, p.Cap))...)
	loop = append(loop, reverseSegs(right)...)
	loop = append(loop, pointsToLineSegs(capPoints(first.P0, negate(first.startTangent()), half, p.Cap))...)
	emitClosedSegs(out, loop)
}

// pointsToLineSegs converts a polyline (as produced by capPoints or a join
// arc) into a chain of lineSeg pieces.
func pointsToLineSegs(pts []pathbuild.Point) []piece {
	var segs []piece
	for i := 0; i+1 < len(pts); i++ {
		segs = append(segs, piece{Kind: lineSeg, P0: pts[i], P3: pts[i+1]})
	}
	return segs
}

func emitClosedSegs(out *pathbuild.Path, segs []piece) {
	if len(segs) == 0 {
		return
	}
	out.MoveTo(segs[0].P0)
	for _, s := range segs {
		if s.Kind == curveSeg {
			out.CurveTo(s.P1, s.P2, s.P3)
		} else {
			out.LineTo(s.P3)
		}
	}
	out.ClosePath()
}

// reverseSegs reverses a piece chain's traversal order and, for curves, its
// control-point order, the way pathbuild.Path.ReversePath swaps P1/P2.
func reverseSegs(segs []piece) []piece {
	n := len(segs)
	out := make([]piece, n)
	for i, s := range segs {
		j := n - 1 - i
		if s.Kind == curveSeg {
			out[j] = piece{Kind: curveSeg, P0: s.P3, P1: s.P2, P2: s.P1, P3: s.P0}
		} else {
			out[j] = piece{Kind: lineSeg, P0: s.P3, P3: s.P0}
		}
	}
	return out
}

func emitCircle(out *pathbuild.Path, c pathbuild.Point, r float64) {
	out.Arc(c, r, 0, 360)
	out.ClosePath()
}

func dir(a, b pathbuild.Point) pathbuild.Point {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return pathbuild.Point{X: 1}
	}
	return pathbuild.Point{X: dx / l, Y: dy / l}
}
