package pathbuild

import "math"

// bezierArc approximates the arc of angle (a0..a1 radians, ccw positive) on
// a circle of radius r centered at c with cubic Béziers, splitting into
// pieces of at most 90°, using the standard α = 4·tan(θ/4)/3 coefficient
// (spec.md §4.6).
func bezierArc(c Point, r, a0, a1 float64) []Seg {
	const maxStep = math.Pi / 2
	delta := a1 - a0
	n := int(math.Ceil(math.Abs(delta) / maxStep))
	if n < 1 {
		n = 1
	}
	step := delta / float64(n)
	segs := make([]Seg, 0, n)
	a := a0
	for k := 0; k < n; k++ {
		b := a + step
		p0 := Point{c.X + r*math.Cos(a), c.Y + r*math.Sin(a)}
		p3 := Point{c.X + r*math.Cos(b), c.Y + r*math.Sin(b)}
		alpha := 4.0 / 3.0 * math.Tan((b-a)/4)
		p1 := Point{p0.X - alpha*r*math.Sin(a), p0.Y + alpha*r*math.Cos(a)}
		p2 := Point{p3.X + alpha*r*math.Sin(b), p3.Y - alpha*r*math.Cos(b)}
		segs = append(segs, Seg{Kind: CurveTo, P1: p1, P2: p2, P3: p3})
		a = b
	}
	return segs
}

// Arc appends a straight segment from the current point (if any) to the arc
// start, then the arc itself, counterclockwise from a0 to a1 degrees, per
// spec.md §4.6 `arc`.
func (p *Path) Arc(c Point, r, a0Deg, a1Deg float64) {
	p.arcImpl(c, r, a0Deg, a1Deg, true)
}

// Arcn is Arc traversed clockwise, per spec.md §4.6 `arcn`.
func (p *Path) Arcn(c Point, r, a0Deg, a1Deg float64) {
	p.arcImpl(c, r, a0Deg, a1Deg, false)
}

func (p *Path) arcImpl(c Point, r, a0Deg, a1Deg float64, ccw bool) {
	a0 := a0Deg * math.Pi / 180
	a1 := a1Deg * math.Pi / 180
	if ccw {
		for a1 < a0 {
			a1 += 2 * math.Pi
		}
	} else {
		for a1 > a0 {
			a1 -= 2 * math.Pi
		}
	}
	start := Point{c.X + r*math.Cos(a0), c.Y + r*math.Sin(a0)}
	if p.CurrentValid {
		p.LineTo(start)
	} else {
		p.MoveTo(start)
	}
	for _, s := range bezierArc(c, r, a0, a1) {
		p.CurveTo(s.P1, s.P2, s.P3)
	}
}

// Arct computes the tangent circle inscribed in the angle formed by
// (current, p1, p2) with radius r and appends a line-then-arc to it,
// degrading to a lineto p1 when the three points are collinear, per
// spec.md §4.6 `arct`. Returns the two tangent points (t1 on the
// current->p1 leg, t2 on the p1->p2 leg) for `arcto`.
func (p *Path) Arct(p1, p2 Point, r float64) (t1, t2 Point) {
	if !p.CurrentValid {
		p.MoveTo(p1)
		return p1, p1
	}
	p0 := p.Current
	v1 := Point{p0.X - p1.X, p0.Y - p1.Y}
	v2 := Point{p2.X - p1.X, p2.Y - p1.Y}
	l1 := math.Hypot(v1.X, v1.Y)
	l2 := math.Hypot(v2.X, v2.Y)
	if l1 == 0 || l2 == 0 {
		p.LineTo(p1)
		return p1, p1
	}
	u1 := Point{v1.X / l1, v1.Y / l1}
	u2 := Point{v2.X / l2, v2.Y / l2}
	cross := u1.X*u2.Y - u1.Y*u2.X
	dot := u1.X*u2.X + u1.Y*u2.Y
	if math.Abs(cross) < 1e-9 {
		// collinear (dot==+-1): degrade to a lineto p1.
		p.LineTo(p1)
		return p1, p1
	}
	theta := math.Acos(clamp(dot, -1, 1))
	dist := r / math.Tan(theta/2)
	if dist > l1 {
		dist = l1
	}
	if dist > l2 {
		dist = l2
	}
	t1 = Point{p1.X + u1.X*dist, p1.Y + u1.Y*dist}
	t2 = Point{p1.X + u2.X*dist, p1.Y + u2.Y*dist}

	// bisector direction gives the center, offset by r along the inward normal.
	bis := Point{u1.X + u2.X, u1.Y + u2.Y}
	bl := math.Hypot(bis.X, bis.Y)
	if bl == 0 {
		p.LineTo(p1)
		return p1, p1
	}
	bis = Point{bis.X / bl, bis.Y / bl}
	centerDist := r / math.Sin(theta/2)
	center := Point{p1.X + bis.X*centerDist, p1.Y + bis.Y*centerDist}

	a0 := math.Atan2(t1.Y-center.Y, t1.X-center.X)
	a1 := math.Atan2(t2.Y-center.Y, t2.X-center.X)

	p.LineTo(t1)
	// choose the short way around consistent with cross product sign
	if cross > 0 {
		for a1 > a0 {
			a1 -= 2 * math.Pi
		}
	} else {
		for a1 < a0 {
			a1 += 2 * math.Pi
		}
	}
	for _, s := range bezierArc(center, r, a0, a1) {
		p.CurveTo(s.P1, s.P2, s.P3)
	}
	return t1, t2
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// PathBBox returns the device-space bounding box transformed to user space
// through inv (the inverse CTM), rounded to six decimals to suppress
// round-trip noise, per spec.md §4.6 `pathbbox`.
func (p *Path) PathBBox(inv Matrix) BBox {
	b := EmptyBBox()
	db := p.DeviceBBox()
	if db.Empty() {
		return BBox{}
	}
	corners := []Point{
		{db.X0, db.Y0}, {db.X1, db.Y0}, {db.X1, db.Y1}, {db.X0, db.Y1},
	}
	for _, c := range corners {
		b.extend(inv.Apply(c))
	}
	round6 := func(v float64) float64 { return math.Round(v*1e6) / 1e6 }
	return BBox{round6(b.X0), round6(b.Y0), round6(b.X1), round6(b.Y1)}
}
