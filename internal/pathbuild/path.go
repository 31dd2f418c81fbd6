// Package pathbuild implements the path-construction subsystem: building
// subpaths of MoveTo/LineTo/CurveTo/ClosePath primitives in device space,
// arc synthesis, flattening, bounding-box computation, and reversepath
// (spec.md §4.6). It has no knowledge of the stack machine or operators;
// internal/ops calls it the way the teacher's asm package calls into vm for
// opcode constants, as a plain data-structure library.
package pathbuild

import "math"

// Point is a 2D device-space point.
type Point struct{ X, Y float64 }

// Seg is one path primitive. Kind selects which fields are meaningful.
type Seg struct {
	Kind SegKind
	P    Point // MoveTo, LineTo endpoint
	P1   Point // CurveTo first control point
	P2   Point // CurveTo second control point
	P3   Point // CurveTo endpoint
}

// SegKind enumerates path primitive kinds, per spec.md §3 "Path".
type SegKind uint8

const (
	MoveTo SegKind = iota
	LineTo
	CurveTo
	ClosePath
)

// Subpath is an ordered sequence of primitives; invariant: the first Seg is
// always MoveTo, and ClosePath (if present) is terminal.
type Subpath struct {
	Segs []Seg
}

// Path is an ordered sequence of subpaths, stored in device space (CTM
// already applied at construction time), per spec.md §4.6.
type Path struct {
	Subpaths []Subpath

	// CurrentValid reports whether CurrentPoint holds a defined point.
	CurrentValid bool
	Current      Point

	// StartValid/Start is the most recent MoveTo point of the open
	// subpath, used by ClosePath and by relative-move operators.
	StartValid bool
	Start      Point
}

// Clone deep-copies the path; used by gsave/save snapshotting.
func (p *Path) Clone() *Path {
	if p == nil {
		return nil
	}
	np := &Path{CurrentValid: p.CurrentValid, Current: p.Current, StartValid: p.StartValid, Start: p.Start}
	np.Subpaths = make([]Subpath, len(p.Subpaths))
	for i, sp := range p.Subpaths {
		np.Subpaths[i].Segs = append([]Seg(nil), sp.Segs...)
	}
	return np
}

// New returns an empty path with no current point, per "newpath is
// idempotent" (spec.md §8).
func New() *Path { return &Path{} }

// IsEmpty reports whether the path has no subpaths.
func (p *Path) IsEmpty() bool { return len(p.Subpaths) == 0 }

func (p *Path) last() *Subpath {
	if len(p.Subpaths) == 0 {
		return nil
	}
	return &p.Subpaths[len(p.Subpaths)-1]
}

// MoveTo starts a new subpath at pt. Two consecutive MoveTos in the same
// subpath are forbidden per spec.md §3: the second replaces the first.
func (p *Path) MoveTo(pt Point) {
	if sp := p.last(); sp != nil && len(sp.Segs) == 1 && sp.Segs[0].Kind == MoveTo {
		sp.Segs[0].P = pt
	} else {
		p.Subpaths = append(p.Subpaths, Subpath{Segs: []Seg{{Kind: MoveTo, P: pt}}})
	}
	p.Current, p.CurrentValid = pt, true
	p.Start, p.StartValid = pt, true
}

// LineTo appends a line segment to the current subpath, implicitly doing a
// MoveTo first if there is no current point.
func (p *Path) LineTo(pt Point) {
	if !p.CurrentValid {
		p.MoveTo(pt)
		return
	}
	sp := p.last()
	sp.Segs = append(sp.Segs, Seg{Kind: LineTo, P: pt})
	p.Current = pt
}

// CurveTo appends a cubic Bézier to the current subpath.
func (p *Path) CurveTo(p1, p2, p3 Point) {
	if !p.CurrentValid {
		p.MoveTo(p1)
	}
	sp := p.last()
	sp.Segs = append(sp.Segs, Seg{Kind: CurveTo, P1: p1, P2: p2, P3: p3})
	p.Current = p3
}

// ClosePath closes the current subpath with a straight segment back to its
// starting MoveTo, per spec.md §4.6; it is a no-op on an empty path.
func (p *Path) ClosePath() {
	sp := p.last()
	if sp == nil || len(sp.Segs) == 0 {
		return
	}
	if sp.Segs[len(sp.Segs)-1].Kind == ClosePath {
		return
	}
	sp.Segs = append(sp.Segs, Seg{Kind: ClosePath})
	p.Current = sp.Segs[0].P
	p.Start = sp.Segs[0].P
}

// Reset clears the path and invalidates the current point (newpath).
func (p *Path) Reset() {
	p.Subpaths = nil
	p.CurrentValid = false
	p.StartValid = false
}

// endpointOf returns the on-curve point a segment ends at (P for MoveTo and
// LineTo, P3 for CurveTo); ClosePath yields the zero Point.
func endpointOf(s Seg) Point {
	switch s.Kind {
	case MoveTo, LineTo:
		return s.P
	case CurveTo:
		return s.P3
	default:
		return Point{}
	}
}

// ReversePath rebuilds each subpath traversing its segments in reverse,
// swapping CurveTo control points, per spec.md §4.6.
func (p *Path) ReversePath() {
	for si, sp := range p.Subpaths {
		if len(sp.Segs) == 0 {
			continue
		}
		closed := sp.Segs[len(sp.Segs)-1].Kind == ClosePath
		segs := sp.Segs
		if closed {
			segs = segs[:len(segs)-1]
		}
		pts := make([]Point, len(segs))
		for i, s := range segs {
			pts[i] = endpointOf(s)
		}
		start := segs[0].P // MoveTo
		rev := make([]Seg, 0, len(segs))
		rev = append(rev, Seg{Kind: MoveTo, P: pts[len(pts)-1]})
		for i := len(segs) - 1; i >= 1; i-- {
			cur := segs[i]
			prevPt := pts[i-1]
			switch cur.Kind {
			case LineTo:
				rev = append(rev, Seg{Kind: LineTo, P: prevPt})
			case CurveTo:
				rev = append(rev, Seg{Kind: CurveTo, P1: cur.P2, P2: cur.P1, P3: prevPt})
			}
		}
		_ = start
		if closed {
			rev = append(rev, Seg{Kind: ClosePath})
		}
		p.Subpaths[si].Segs = rev
	}
}

// BBox is an axis-aligned bounding box.
type BBox struct{ X0, Y0, X1, Y1 float64 }

// Empty reports whether the box has never been extended.
func (b BBox) Empty() bool { return b.X0 > b.X1 }

// EmptyBBox returns a BBox in the "not yet extended" state.
func EmptyBBox() BBox { return BBox{X0: math.Inf(1), Y0: math.Inf(1), X1: math.Inf(-1), Y1: math.Inf(-1)} }

func (b *BBox) extend(pt Point) {
	if pt.X < b.X0 {
		b.X0 = pt.X
	}
	if pt.Y < b.Y0 {
		b.Y0 = pt.Y
	}
	if pt.X > b.X1 {
		b.X1 = pt.X
	}
	if pt.Y > b.Y1 {
		b.Y1 = pt.Y
	}
}

// DeviceBBox computes the enclosing axis-aligned box of the path in device
// space, including cubic control points (a conservative but cheap bound;
// it can be larger than the box of the curves themselves).
func (p *Path) DeviceBBox() BBox {
	b := EmptyBBox()
	for _, sp := range p.Subpaths {
		for _, s := range sp.Segs {
			switch s.Kind {
			case MoveTo, LineTo:
				b.extend(s.P)
			case CurveTo:
				b.extend(s.P1)
				b.extend(s.P2)
				b.extend(s.P3)
			}
		}
	}
	return b
}
