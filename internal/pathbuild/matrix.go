package pathbuild

import "math"

// Matrix is a PostScript-style affine transform [a b c d e f]:
//
//	x' = a*x + c*y + e
//	y' = b*x + d*y + f
type Matrix struct{ A, B, C, D, E, F float64 }

// Identity is the identity matrix.
func Identity() Matrix { return Matrix{A: 1, D: 1} }

// Apply transforms pt by m.
func (m Matrix) Apply(pt Point) Point {
	return Point{X: m.A*pt.X + m.C*pt.Y + m.E, Y: m.B*pt.X + m.D*pt.Y + m.F}
}

// ApplyVector applies only the linear part of m (no translation), used for
// the relative path operators' displacements.
func (m Matrix) ApplyVector(pt Point) Point {
	return Point{X: m.A*pt.X + m.C*pt.Y, Y: m.B*pt.X + m.D*pt.Y}
}

// Mul returns m composed with n such that (m.Mul(n)).Apply(p) == n.Apply(m.Apply(p)),
// matching PostScript's concat semantics (CTM' = matrix x CTM).
func (m Matrix) Mul(n Matrix) Matrix {
	return Matrix{
		A: m.A*n.A + m.B*n.C,
		B: m.A*n.B + m.B*n.D,
		C: m.C*n.A + m.D*n.C,
		D: m.C*n.B + m.D*n.D,
		E: m.E*n.A + m.F*n.C + n.E,
		F: m.E*n.B + m.F*n.D + n.F,
	}
}

// Det returns the determinant of the linear part.
func (m Matrix) Det() float64 { return m.A*m.D - m.B*m.C }

// Invert returns the inverse matrix; ok is false for a singular matrix
// (caller should raise undefinedresult).
func (m Matrix) Invert() (Matrix, bool) {
	det := m.Det()
	if det == 0 {
		return Matrix{}, false
	}
	id := 1 / det
	a := m.D * id
	b := -m.B * id
	c := -m.C * id
	d := m.A * id
	e := -(m.E*a + m.F*c)
	f := -(m.E*b + m.F*d)
	return Matrix{A: a, B: b, C: c, D: d, E: e, F: f}, true
}

// SingularValues returns the two singular values of the matrix's linear
// part, largest first, used by the stroker's anisotropy test (spec.md
// §4.7 step 1).
func (m Matrix) SingularValues() (s1, s2 float64) {
	// Singular values of [[a c][b d]] via the eigenvalues of M^T M.
	e := m.A*m.A + m.B*m.B
	f := m.A*m.C + m.B*m.D
	g := f
	h := m.C*m.C + m.D*m.D
	tr := e + h
	det := e*h - f*g
	disc := math.Sqrt(math.Max(0, tr*tr/4-det))
	l1 := tr/2 + disc
	l2 := tr/2 - disc
	if l1 < 0 {
		l1 = 0
	}
	if l2 < 0 {
		l2 = 0
	}
	s1, s2 = math.Sqrt(l1), math.Sqrt(l2)
	if s1 < s2 {
		s1, s2 = s2, s1
	}
	return s1, s2
}

// Anisotropic reports whether the matrix distorts direction-dependent
// lengths enough to require user-space stroking, per spec.md §4.7 step 1
// (ratio > 1.01).
func (m Matrix) Anisotropic() bool {
	s1, s2 := m.SingularValues()
	if s2 == 0 {
		return true
	}
	return s1/s2 > 1.01
}

// AvgScale returns an isotropic approximation of the matrix's scale factor,
// used to turn a user-space line width into a device-space width.
func (m Matrix) AvgScale() float64 {
	s1, s2 := m.SingularValues()
	return math.Sqrt(s1 * s2)
}
