package pathbuild

import (
	"math"
	"testing"
)

func TestMoveToCollapsesConsecutive(t *testing.T) {
	p := New()
	p.MoveTo(Point{0, 0})
	p.MoveTo(Point{1, 1})
	if len(p.Subpaths) != 1 {
		t.Fatalf("expected 1 subpath, got %d", len(p.Subpaths))
	}
	if p.Subpaths[0].Segs[0].P != (Point{1, 1}) {
		t.Fatalf("second moveto should replace the first")
	}
}

func TestNewpathIdempotent(t *testing.T) {
	p := New()
	p.MoveTo(Point{1, 2})
	p.LineTo(Point{3, 4})
	p.Reset()
	p.Reset()
	if !p.IsEmpty() || p.CurrentValid {
		t.Fatalf("newpath should leave an empty path with no current point")
	}
}

func TestReversePathPreservesBBox(t *testing.T) {
	p := New()
	p.MoveTo(Point{0, 0})
	p.LineTo(Point{10, 0})
	p.CurveTo(Point{10, 5}, Point{5, 10}, Point{0, 10})
	p.ClosePath()

	before := p.DeviceBBox()
	p.ReversePath()
	after := p.DeviceBBox()
	if before != after {
		t.Fatalf("reversepath changed bbox: %v -> %v", before, after)
	}
}

func TestArctCollinearDegradesToLineTo(t *testing.T) {
	p := New()
	p.MoveTo(Point{0, 0})
	p.Arct(Point{5, 0}, Point{10, 0}, 2)
	seg := p.Subpaths[0].Segs[len(p.Subpaths[0].Segs)-1]
	if seg.Kind != LineTo || seg.P != (Point{5, 0}) {
		t.Fatalf("expected degraded lineto to (5,0), got %+v", seg)
	}
}

func TestFlattenToleranceBound(t *testing.T) {
	p0, p1, p2, p3 := Point{0, 0}, Point{0, 10}, Point{10, 10}, Point{10, 0}
	const tol = 0.01
	pts := FlattenCubic(p0, p1, p2, p3, tol, nil)
	if len(pts) == 0 {
		t.Fatalf("expected at least one flattened point")
	}
	// every sampled point of the curve lies within tol of the polyline.
	poly := append([]Point{p0}, pts...)
	for i := 0; i <= 200; i++ {
		u := float64(i) / 200
		v := 1 - u
		c := Point{
			v*v*v*p0.X + 3*v*v*u*p1.X + 3*v*u*u*p2.X + u*u*u*p3.X,
			v*v*v*p0.Y + 3*v*v*u*p1.Y + 3*v*u*u*p2.Y + u*u*u*p3.Y,
		}
		best := math.Inf(1)
		for j := 1; j < len(poly); j++ {
			a, b := poly[j-1], poly[j]
			dx, dy := b.X-a.X, b.Y-a.Y
			s := 0.0
			if l2 := dx*dx + dy*dy; l2 > 0 {
				s = math.Max(0, math.Min(1, ((c.X-a.X)*dx+(c.Y-a.Y)*dy)/l2))
			}
			if d := math.Hypot(c.X-a.X-s*dx, c.Y-a.Y-s*dy); d < best {
				best = d
			}
		}
		if best > tol+1e-9 {
			t.Fatalf("curve point %v (t=%v) is %v from the flattened polyline, tolerance %v", c, u, best, tol)
		}
	}
}

func TestMatrixInvertRoundTrip(t *testing.T) {
	m := Matrix{A: 2, B: 0.5, C: -0.3, D: 1.5, E: 10, F: -4}
	inv, ok := m.Invert()
	if !ok {
		t.Fatal("expected invertible matrix")
	}
	pt := Point{3.25, -7.5}
	got := inv.Apply(m.Apply(pt))
	if abs(got.X-pt.X) > 1e-6 || abs(got.Y-pt.Y) > 1e-6 {
		t.Fatalf("round trip mismatch: %v vs %v", got, pt)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
