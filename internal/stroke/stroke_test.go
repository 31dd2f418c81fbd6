package stroke

import (
	"math"
	"testing"

	"github.com/gopostscript/postforge/internal/pathbuild"
)

func TestDashProducesExpectedRuns(t *testing.T) {
	p := pathbuild.New()
	p.MoveTo(pathbuild.Point{X: 0, Y: 0})
	p.LineTo(pathbuild.Point{X: 100, Y: 0})

	params := Params{Width: 2, Cap: ButtCap, Join: MiterJoin, MiterLimit: 10, Dash: []float64{20, 10}}
	out := Stroke(p, pathbuild.Identity(), params)

	if len(out.Subpaths) != 4 {
		t.Fatalf("expected 4 dash rectangles (3 full + 1 half), got %d", len(out.Subpaths))
	}
	wantStarts := []float64{0, 30, 60, 90}
	for i, sp := range out.Subpaths {
		minX := math.Inf(1)
		for _, s := range sp.Segs {
			if s.Kind == pathbuild.MoveTo || s.Kind == pathbuild.LineTo {
				if s.P.X < minX {
					minX = s.P.X
				}
			}
		}
		if math.Abs(minX-wantStarts[i]) > 1e-6 {
			t.Fatalf("rectangle %d starts at x=%v, want %v", i, minX, wantStarts[i])
		}
	}
}

func TestMiterFallsBackToBevelBeyondLimit(t *testing.T) {
	p := pathbuild.New()
	p.MoveTo(pathbuild.Point{X: -10, Y: 0})
	p.LineTo(pathbuild.Point{X: 0, Y: 0})
	angle := 10 * math.Pi / 180
	p.LineTo(pathbuild.Point{X: 10 * math.Cos(math.Pi-angle), Y: 10 * math.Sin(math.Pi-angle)})

	params := Params{Width: 1, Cap: ButtCap, Join: MiterJoin, MiterLimit: 2}
	out := Stroke(p, pathbuild.Identity(), params)
	if len(out.Subpaths) == 0 {
		t.Fatal("expected an outline subpath")
	}
	maxDist := 0.0
	for _, s := range out.Subpaths[0].Segs {
		if s.Kind == pathbuild.MoveTo || s.Kind == pathbuild.LineTo {
			d := math.Hypot(s.P.X, s.P.Y)
			// the butt-cap corners at the far ends of both 10-unit legs lie
			// ~10 units from the vertex; only the join region is measured.
			if d > 9 {
				continue
			}
			if d > maxDist {
				maxDist = d
			}
		}
	}
	// a true miter at 10 degrees would reach ~1/sin(5deg) ~= 11.5 half-widths
	// (~5.7 units) from the vertex; a bevel fallback stays within a couple
	// half-widths.
	if maxDist > 3 {
		t.Fatalf("expected bevel fallback (short outline), got vertex distance %v", maxDist)
	}
}

func TestRoundCapOnZeroLengthSubpathEmitsDot(t *testing.T) {
	p := pathbuild.New()
	p.MoveTo(pathbuild.Point{X: 5, Y: 5})

	params := Params{Width: 4, Cap: RoundCap, Join: RoundJoin, MiterLimit: 10}
	out := Stroke(p, pathbuild.Identity(), params)
	if len(out.Subpaths) != 1 {
		t.Fatalf("expected a single dot subpath, got %d", len(out.Subpaths))
	}
}

func TestCurvedStrokePreservesCurveSegments(t *testing.T) {
	p := pathbuild.New()
	p.MoveTo(pathbuild.Point{X: 0, Y: 0})
	p.CurveTo(pathbuild.Point{X: 0, Y: 50}, pathbuild.Point{X: 50, Y: 100}, pathbuild.Point{X: 100, Y: 100})

	params := Params{Width: 4, Cap: ButtCap, Join: MiterJoin, MiterLimit: 10}
	out := Stroke(p, pathbuild.Identity(), params)

	if !hasCurveSeg(out) {
		t.Fatal("expected the curved input to produce a curved outline, got only line segments")
	}
}

func TestDashedCurveSplitsMidCubicKeepingCurveGeometry(t *testing.T) {
	p := pathbuild.New()
	p.MoveTo(pathbuild.Point{X: 0, Y: 0})
	p.CurveTo(pathbuild.Point{X: 0, Y: 100}, pathbuild.Point{X: 100, Y: 100}, pathbuild.Point{X: 100, Y: 0})

	params := Params{Width: 2, Cap: ButtCap, Join: MiterJoin, MiterLimit: 10, Dash: []float64{40, 20}}
	out := Stroke(p, pathbuild.Identity(), params)

	if len(out.Subpaths) < 2 {
		t.Fatalf("expected multiple dash segments from a dashed curve, got %d", len(out.Subpaths))
	}
	if !hasCurveSeg(out) {
		t.Fatal("expected at least one dash unit to retain curve geometry after mid-cubic splitting")
	}
}

func TestCurvedStrokeOffsetStaysRoughlyParallelToHalfWidth(t *testing.T) {
	p := pathbuild.New()
	p.MoveTo(pathbuild.Point{X: 0, Y: 0})
	p.CurveTo(pathbuild.Point{X: 0, Y: 100}, pathbuild.Point{X: 100, Y: 100}, pathbuild.Point{X: 100, Y: 0})

	const width = 10.0
	params := Params{Width: width, Cap: ButtCap, Join: RoundJoin, MiterLimit: 10}
	out := Stroke(p, pathbuild.Identity(), params)

	// the curve's midpoint B(0.5) is (50,75); the offset outline should
	// have a vertex about half the stroke width from it -- checked loosely,
	// within one full width.
	mid := pathbuild.Point{X: 50, Y: 75}
	closest := math.Inf(1)
	for _, sp := range out.Subpaths {
		for _, s := range sp.Segs {
			var pt pathbuild.Point
			switch s.Kind {
			case pathbuild.LineTo, pathbuild.MoveTo:
				pt = s.P
			case pathbuild.CurveTo:
				pt = s.P3
			default:
				continue
			}
			d := math.Hypot(pt.X-mid.X, pt.Y-mid.Y)
			if d < closest {
				closest = d
			}
		}
	}
	if closest > width {
		t.Fatalf("expected an offset vertex within one stroke width of the curve's midpoint, closest was %v", closest)
	}
}

func hasCurveSeg(p *pathbuild.Path) bool {
	for _, sp := range p.Subpaths {
		for _, s := range sp.Segs {
			if s.Kind == pathbuild.CurveTo {
				return true
			}
		}
	}
	return false
}

func TestClosedSquareOutlineHasOuterAndInnerRing(t *testing.T) {
	p := pathbuild.New()
	p.MoveTo(pathbuild.Point{X: 0, Y: 0})
	p.LineTo(pathbuild.Point{X: 10, Y: 0})
	p.LineTo(pathbuild.Point{X: 10, Y: 10})
	p.LineTo(pathbuild.Point{X: 0, Y: 10})
	p.ClosePath()

	params := Params{Width: 2, Cap: ButtCap, Join: MiterJoin, MiterLimit: 10}
	out := Stroke(p, pathbuild.Identity(), params)
	if len(out.Subpaths) != 2 {
		t.Fatalf("expected outer+inner ring, got %d subpaths", len(out.Subpaths))
	}
}
