package ops

import (
	"github.com/gopostscript/postforge/internal/estack"
	"github.com/gopostscript/postforge/internal/inside"
	"github.com/gopostscript/postforge/internal/object"
	"github.com/gopostscript/postforge/internal/pathbuild"
	"github.com/gopostscript/postforge/internal/stroke"
)

// RegisterStrokeAndInside binds the stroking and insideness-test operators
// (original_source/postforge/operators/strokepath.py,
// strokepath_algorithm.py, insideness.py, insideness_algorithm.py), per
// spec.md §4.0/§4.7/§4.8. `stroke`/`fill`/`eofill` push the corresponding
// displist record for the host rasteriser to execute rather than painting
// pixels themselves, per spec.md §1's rasteriser Non-goal; the path engine
// only hands the rasteriser a geometry description.
func RegisterStrokeAndInside(r *Registry, emit DisplayListSink) {
	r.Add("setlinewidth", func(m *estack.Machine) error {
		v, err := popNumber(m, "setlinewidth")
		if err != nil {
			return err
		}
		m.CurrentGState().Stroke.Width = v.Float64()
		return nil
	})
	r.Add("currentlinewidth", func(m *estack.Machine) error {
		m.Operand.Push(object.NewReal(m.CurrentGState().Stroke.Width))
		return nil
	})
	r.Add("setlinecap", func(m *estack.Machine) error {
		v, err := popInt(m, "setlinecap")
		if err != nil {
			return err
		}
		if v < 0 || v > 2 {
			return rangeErr("setlinecap")
		}
		m.CurrentGState().Stroke.Cap = stroke.CapStyle(v)
		return nil
	})
	r.Add("currentlinecap", func(m *estack.Machine) error {
		m.Operand.Push(object.NewInt(int64(m.CurrentGState().Stroke.Cap)))
		return nil
	})
	r.Add("setlinejoin", func(m *estack.Machine) error {
		v, err := popInt(m, "setlinejoin")
		if err != nil {
			return err
		}
		if v < 0 || v > 2 {
			return rangeErr("setlinejoin")
		}
		m.CurrentGState().Stroke.Join = stroke.JoinStyle(v)
		return nil
	})
	r.Add("currentlinejoin", func(m *estack.Machine) error {
		m.Operand.Push(object.NewInt(int64(m.CurrentGState().Stroke.Join)))
		return nil
	})
	r.Add("setmiterlimit", func(m *estack.Machine) error {
		v, err := popNumber(m, "setmiterlimit")
		if err != nil {
			return err
		}
		if v.Float64() < 1 {
			return rangeErr("setmiterlimit")
		}
		m.CurrentGState().Stroke.MiterLimit = v.Float64()
		return nil
	})
	r.Add("currentmiterlimit", func(m *estack.Machine) error {
		m.Operand.Push(object.NewReal(m.CurrentGState().Stroke.MiterLimit))
		return nil
	})
	r.Add("setdash", func(m *estack.Machine) error {
		offset, err := popNumber(m, "setdash")
		if err != nil {
			return err
		}
		arr, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		if arr.Tag != object.Array && arr.Tag != object.PackedArray {
			return typeErr("setdash")
		}
		elems, err := m.VM.GetArray(arr)
		if err != nil {
			return err
		}
		dash := make([]float64, len(elems))
		for i, e := range elems {
			if !e.IsNumber() || e.Float64() < 0 {
				return rangeErr("setdash")
			}
			dash[i] = e.Float64()
		}
		g := m.CurrentGState()
		g.Stroke.Dash = dash
		g.Stroke.DashOffset = offset.Float64()
		return nil
	})
	r.Add("currentdash", func(m *estack.Machine) error {
		g := m.CurrentGState()
		arr := m.VM.NewArray(m.CurrentOrigin(), len(g.Stroke.Dash))
		for i, v := range g.Stroke.Dash {
			if err := m.VM.PutArray(arr, i, object.NewReal(v)); err != nil {
				return err
			}
		}
		m.Operand.Push(arr)
		m.Operand.Push(object.NewReal(g.Stroke.DashOffset))
		return nil
	})

	r.Add("stroke", func(m *estack.Machine) error {
		g := m.CurrentGState()
		outline := stroke.Stroke(g.Path, g.CTM, g.Stroke)
		emit.Fill(outline, inside.NonZero, g.Color.R, g.Color.G, g.Color.B)
		g.Path.Reset()
		return nil
	})
	r.Add("fill", fillOp(inside.NonZero, emit))
	r.Add("eofill", fillOp(inside.EvenOdd, emit))

	r.Add("infill", insideOp(inside.NonZero, false))
	r.Add("ineofill", insideOp(inside.EvenOdd, false))
	r.Add("instroke", insideOp(inside.NonZero, true))
}

// DisplayListSink is the boundary the language core paints through, per
// spec.md §6: a real implementation is the displist package's recorder,
// appending fill records for an external rasteriser to consume (`stroke`
// records its outline as a nonzero fill).
type DisplayListSink interface {
	Fill(path *pathbuild.Path, rule inside.Rule, r, g, b float64)
}

func fillOp(rule inside.Rule, emit DisplayListSink) estack.OperatorFunc {
	return func(m *estack.Machine) error {
		g := m.CurrentGState()
		emit.Fill(g.Path, rule, g.Color.R, g.Color.G, g.Color.B)
		g.Path.Reset()
		return nil
	}
}

func insideOp(rule inside.Rule, strokeTest bool) estack.OperatorFunc {
	return func(m *estack.Machine) error {
		y, err := popNumber(m, "infill")
		if err != nil {
			return err
		}
		x, err := popNumber(m, "infill")
		if err != nil {
			return err
		}
		g := m.CurrentGState()
		pt := g.CTM.Apply(pathbuild.Point{X: x.Float64(), Y: y.Float64()})
		var ok bool
		if strokeTest {
			ok = inside.InStroke(g.Path, g.CTM, g.Stroke, pt)
		} else {
			ok = inside.PointInPath(g.Path, pt, rule, g.Stroke.FlattenessOrDefault())
		}
		m.Operand.Push(object.NewBool(ok))
		return nil
	}
}
