package ops

import (
	"github.com/gopostscript/postforge/internal/estack"
	"github.com/gopostscript/postforge/internal/object"
)

// RegisterColor binds the graphics-state-local color operators
// (original_source/postforge/operators/device_color_state.py), per
// spec.md §4.0: only the flat RGB the stroker/path engine hands to the
// display list is tracked here; device color space conversion and
// halftoning are out of scope (spec.md §1) and belong to the rasteriser.
func RegisterColor(r *Registry) {
	r.Add("setgray", func(m *estack.Machine) error {
		v, err := popNumber(m, "setgray")
		if err != nil {
			return err
		}
		g := clampUnit(v.Float64())
		m.CurrentGState().Color = estack.Color{R: g, G: g, B: g}
		return nil
	})
	r.Add("currentgray", func(m *estack.Machine) error {
		c := m.CurrentGState().Color
		m.Operand.Push(object.NewReal((c.R + c.G + c.B) / 3))
		return nil
	})
	r.Add("setrgbcolor", func(m *estack.Machine) error {
		vals, err := popFloats(m, "setrgbcolor", 3)
		if err != nil {
			return err
		}
		m.CurrentGState().Color = estack.Color{R: clampUnit(vals[0]), G: clampUnit(vals[1]), B: clampUnit(vals[2])}
		return nil
	})
	r.Add("currentrgbcolor", func(m *estack.Machine) error {
		c := m.CurrentGState().Color
		m.Operand.Push(object.NewReal(c.R))
		m.Operand.Push(object.NewReal(c.G))
		m.Operand.Push(object.NewReal(c.B))
		return nil
	})
	r.Add("sethsbcolor", func(m *estack.Machine) error {
		vals, err := popFloats(m, "sethsbcolor", 3)
		if err != nil {
			return err
		}
		rr, gg, bb := hsbToRGB(vals[0], vals[1], vals[2])
		m.CurrentGState().Color = estack.Color{R: rr, G: gg, B: bb}
		return nil
	})
	r.Add("setcmykcolor", func(m *estack.Machine) error {
		vals, err := popFloats(m, "setcmykcolor", 4)
		if err != nil {
			return err
		}
		c, mg, y, k := vals[0], vals[1], vals[2], vals[3]
		m.CurrentGState().Color = estack.Color{
			R: clampUnit(1 - min1(1, c+k)),
			G: clampUnit(1 - min1(1, mg+k)),
			B: clampUnit(1 - min1(1, y+k)),
		}
		return nil
	})
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func min1(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// hsbToRGB converts PostScript's hue/saturation/brightness color (all in
// [0,1], hue as a fraction of a full turn) to RGB, per PLRM `sethsbcolor`.
func hsbToRGB(h, s, b float64) (r, g, bl float64) {
	if s == 0 {
		return b, b, b
	}
	h = h - float64(int(h))
	if h < 0 {
		h++
	}
	h *= 6
	i := int(h)
	f := h - float64(i)
	p := b * (1 - s)
	q := b * (1 - s*f)
	t := b * (1 - s*(1-f))
	switch i % 6 {
	case 0:
		return b, t, p
	case 1:
		return q, b, p
	case 2:
		return p, b, t
	case 3:
		return p, q, b
	case 4:
		return t, p, b
	default:
		return b, p, q
	}
}
