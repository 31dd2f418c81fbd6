package inside

import (
	"testing"

	"github.com/gopostscript/postforge/internal/pathbuild"
)

func square() *pathbuild.Path {
	p := pathbuild.New()
	p.MoveTo(pathbuild.Point{X: 0, Y: 0})
	p.LineTo(pathbuild.Point{X: 10, Y: 0})
	p.LineTo(pathbuild.Point{X: 10, Y: 10})
	p.LineTo(pathbuild.Point{X: 0, Y: 10})
	p.ClosePath()
	return p
}

func TestPointInPathNonZeroInsideAndOutside(t *testing.T) {
	p := square()
	if !PointInPath(p, pathbuild.Point{X: 5, Y: 5}, NonZero, 0.1) {
		t.Fatal("center of square should be inside")
	}
	if PointInPath(p, pathbuild.Point{X: 15, Y: 5}, NonZero, 0.1) {
		t.Fatal("point outside square should not be inside")
	}
}

func TestEvenOddCancelsOverlappingSquares(t *testing.T) {
	p := pathbuild.New()
	p.MoveTo(pathbuild.Point{X: 0, Y: 0})
	p.LineTo(pathbuild.Point{X: 20, Y: 0})
	p.LineTo(pathbuild.Point{X: 20, Y: 20})
	p.LineTo(pathbuild.Point{X: 0, Y: 20})
	p.ClosePath()
	p.MoveTo(pathbuild.Point{X: 5, Y: 5})
	p.LineTo(pathbuild.Point{X: 15, Y: 5})
	p.LineTo(pathbuild.Point{X: 15, Y: 15})
	p.LineTo(pathbuild.Point{X: 5, Y: 15})
	p.ClosePath()

	center := pathbuild.Point{X: 10, Y: 10}
	if PointInPath(p, center, EvenOdd, 0.1) {
		t.Fatal("even-odd rule should treat doubly-wound region as outside")
	}
	if !PointInPath(p, center, NonZero, 0.1) {
		t.Fatal("nonzero rule should treat doubly-wound region as inside")
	}
}
