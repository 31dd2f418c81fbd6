package ops

import (
	"github.com/gopostscript/postforge/internal/dispatch"
	"github.com/gopostscript/postforge/internal/estack"
	"github.com/gopostscript/postforge/internal/object"
	"github.com/gopostscript/postforge/internal/pathbuild"
)

// RegisterPath binds the path-construction operators
// (original_source/postforge/operators/path.py, path_query.py), per
// spec.md §4.0/§4.6. Points are transformed by the current CTM into device
// space before being appended, per spec.md §4.6's "path stored in device
// space" design.
func RegisterPath(r *Registry) {
	r.Add("newpath", func(m *estack.Machine) error {
		m.CurrentGState().Path.Reset()
		return nil
	})
	r.Add("moveto", pt2(func(m *estack.Machine, p pathbuild.Point) error {
		m.CurrentGState().Path.MoveTo(p)
		return nil
	}))
	r.Add("lineto", pt2(func(m *estack.Machine, p pathbuild.Point) error {
		if !m.CurrentGState().Path.CurrentValid {
			return dispatch.New(dispatch.NoCurrentPoint, "lineto")
		}
		m.CurrentGState().Path.LineTo(p)
		return nil
	}))
	r.Add("rmoveto", relPt2(func(m *estack.Machine, p pathbuild.Point) error {
		m.CurrentGState().Path.MoveTo(p)
		return nil
	}))
	r.Add("rlineto", relPt2(func(m *estack.Machine, p pathbuild.Point) error {
		m.CurrentGState().Path.LineTo(p)
		return nil
	}))
	r.Add("curveto", func(m *estack.Machine) error {
		nums, err := popFloats(m, "curveto", 6)
		if err != nil {
			return err
		}
		g := m.CurrentGState()
		p1 := g.CTM.Apply(pathbuild.Point{X: nums[0], Y: nums[1]})
		p2 := g.CTM.Apply(pathbuild.Point{X: nums[2], Y: nums[3]})
		p3 := g.CTM.Apply(pathbuild.Point{X: nums[4], Y: nums[5]})
		g.Path.CurveTo(p1, p2, p3)
		return nil
	})
	r.Add("closepath", func(m *estack.Machine) error {
		m.CurrentGState().Path.ClosePath()
		return nil
	})
	r.Add("arc", arcOp(true))
	r.Add("arcn", arcOp(false))
	r.Add("arct", func(m *estack.Machine) error {
		nums, err := popFloats(m, "arct", 5)
		if err != nil {
			return err
		}
		g := m.CurrentGState()
		p1 := g.CTM.Apply(pathbuild.Point{X: nums[0], Y: nums[1]})
		p2 := g.CTM.Apply(pathbuild.Point{X: nums[2], Y: nums[3]})
		g.Path.Arct(p1, p2, nums[4])
		return nil
	})
	r.Add("currentpoint", func(m *estack.Machine) error {
		g := m.CurrentGState()
		if !g.Path.CurrentValid {
			return dispatch.New(dispatch.NoCurrentPoint, "currentpoint")
		}
		inv, ok := g.CTM.Invert()
		if !ok {
			return dispatch.New(dispatch.UndefinedResult, "currentpoint")
		}
		up := inv.Apply(g.Path.Current)
		m.Operand.Push(object.NewReal(up.X))
		m.Operand.Push(object.NewReal(up.Y))
		return nil
	})
	r.Add("pathbbox", func(m *estack.Machine) error {
		g := m.CurrentGState()
		inv, ok := g.CTM.Invert()
		if !ok {
			return dispatch.New(dispatch.UndefinedResult, "pathbbox")
		}
		b := g.Path.PathBBox(inv)
		m.Operand.Push(object.NewReal(b.X0))
		m.Operand.Push(object.NewReal(b.Y0))
		m.Operand.Push(object.NewReal(b.X1))
		m.Operand.Push(object.NewReal(b.Y1))
		return nil
	})
	r.Add("reversepath", func(m *estack.Machine) error {
		m.CurrentGState().Path.ReversePath()
		return nil
	})
	r.Add("flattenpath", func(m *estack.Machine) error {
		g := m.CurrentGState()
		g.Path = g.Path.Flatten(g.Stroke.FlattenessOrDefault())
		return nil
	})
}

// pt2 wraps an operator that consumes a user-space (x,y) pair, transforming
// it through the current CTM before calling fn.
func pt2(fn func(m *estack.Machine, p pathbuild.Point) error) estack.OperatorFunc {
	return func(m *estack.Machine) error {
		y, err := popNumber(m, "moveto")
		if err != nil {
			return err
		}
		x, err := popNumber(m, "moveto")
		if err != nil {
			return err
		}
		g := m.CurrentGState()
		return fn(m, g.CTM.Apply(pathbuild.Point{X: x.Float64(), Y: y.Float64()}))
	}
}

// relPt2 wraps an operator taking a user-space (dx,dy) pair relative to the
// current point, transformed through the CTM's linear part only.
func relPt2(fn func(m *estack.Machine, p pathbuild.Point) error) estack.OperatorFunc {
	return func(m *estack.Machine) error {
		dy, err := popNumber(m, "rmoveto")
		if err != nil {
			return err
		}
		dx, err := popNumber(m, "rmoveto")
		if err != nil {
			return err
		}
		g := m.CurrentGState()
		if !g.Path.CurrentValid {
			return dispatch.New(dispatch.NoCurrentPoint, "rmoveto")
		}
		v := g.CTM.ApplyVector(pathbuild.Point{X: dx.Float64(), Y: dy.Float64()})
		return fn(m, pathbuild.Point{X: g.Path.Current.X + v.X, Y: g.Path.Current.Y + v.Y})
	}
}

func popFloats(m *estack.Machine, op string, n int) ([]float64, error) {
	out := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		v, err := popNumber(m, op)
		if err != nil {
			return nil, err
		}
		out[i] = v.Float64()
	}
	return out, nil
}

func arcOp(ccw bool) estack.OperatorFunc {
	return func(m *estack.Machine) error {
		nums, err := popFloats(m, "arc", 5)
		if err != nil {
			return err
		}
		g := m.CurrentGState()
		c := g.CTM.Apply(pathbuild.Point{X: nums[0], Y: nums[1]})
		// The radius and angles are defined in user space; since Path is
		// stored in device space (spec.md §4.6), an anisotropic CTM would
		// distort a user-space circle into a device-space ellipse that
		// bezierArc cannot represent directly. This implementation uses
		// the CTM's average scale for the device-space radius, a
		// documented simplification for non-uniform transforms
		// (DESIGN.md); arc/arcn under a uniform scale+rotate CTM (the
		// overwhelming common case) are exact.
		r := nums[2] * g.CTM.AvgScale()
		if ccw {
			g.Path.Arc(c, r, nums[3], nums[4])
		} else {
			g.Path.Arcn(c, r, nums[3], nums[4])
		}
		return nil
	}
}
