package ops

import (
	"github.com/gopostscript/postforge/internal/estack"
	"github.com/gopostscript/postforge/internal/inside"
	"github.com/gopostscript/postforge/internal/object"
	"github.com/gopostscript/postforge/internal/pathbuild"
	"github.com/gopostscript/postforge/internal/stroke"
)

// userpath opcodes: the encoded form of spec.md §2 item 7 "User paths
// (encoded and procedural forms)". PLRM defines a larger opcode table
// (covering ucache hints and arct); this core implements the subset that
// maps directly onto internal/pathbuild's primitives, a scope
// simplification recorded in DESIGN.md -- procedural user paths (a plain
// executable array of operator names run through the ordinary evaluator)
// need no special casing at all, since `moveto`/`lineto`/... already
// operate on whatever is current when the procedure executes.
const (
	upSetBBox   = 0 // llx lly urx ury
	upMoveTo    = 1 // x y
	upRMoveTo   = 2 // dx dy
	upLineTo    = 3 // x y
	upRLineTo   = 4 // dx dy
	upCurveTo   = 5 // x1 y1 x2 y2 x3 y3
	upRCurveTo  = 6 // dx1 dy1 dx2 dy2 dx3 dy3
	upClosePath = 7
)

var upNargs = map[int64]int{
	upSetBBox: 4, upMoveTo: 2, upRMoveTo: 2, upLineTo: 2, upRLineTo: 2,
	upCurveTo: 6, upRCurveTo: 6, upClosePath: 0,
}

// RegisterUserPath binds the user-path operators
// (original_source/postforge/operators/userpath.py), per spec.md §2 item 7.
func RegisterUserPath(r *Registry, emit DisplayListSink) {
	r.Add("uappend", func(m *estack.Machine) error {
		v, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		return appendUserPath(m, v, m.CurrentGState().Path)
	})
	r.Add("upath", func(m *estack.Machine) error {
		_, err := m.Operand.Pop() // ucache bool, advisory only: no path cache kept
		if err != nil {
			return err
		}
		arr, err := encodeUserPath(m)
		if err != nil {
			return err
		}
		m.Operand.Push(arr)
		return nil
	})
	r.Add("ustrokepath", func(m *estack.Machine) error {
		v, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		up := pathbuild.New()
		if err := appendUserPath(m, v, up); err != nil {
			return err
		}
		g := m.CurrentGState()
		g.Path = stroke.Stroke(up, g.CTM, g.Stroke)
		return nil
	})
	r.Add("ufill", func(m *estack.Machine) error {
		v, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		up := pathbuild.New()
		if err := appendUserPath(m, v, up); err != nil {
			return err
		}
		g := m.CurrentGState()
		emit.Fill(up, inside.NonZero, g.Color.R, g.Color.G, g.Color.B)
		return nil
	})
}

func appendUserPath(m *estack.Machine, arr object.Object, into *pathbuild.Path) error {
	if arr.Tag != object.Array && arr.Tag != object.PackedArray {
		return typeErr("uappend")
	}
	elems, err := m.VM.GetArray(arr)
	if err != nil {
		return err
	}
	g := m.CurrentGState()
	i := 0
	next := func() (float64, error) {
		if i >= len(elems) || !elems[i].IsNumber() {
			return 0, rangeErr("uappend")
		}
		v := elems[i].Float64()
		i++
		return v, nil
	}
	for i < len(elems) {
		if !elems[i].IsNumber() {
			return typeErr("uappend")
		}
		op := int64(elems[i].Float64())
		n, ok := upNargs[op]
		if !ok {
			return rangeErr("uappend")
		}
		i++
		args := make([]float64, n)
		for a := 0; a < n; a++ {
			v, err := next()
			if err != nil {
				return err
			}
			args[a] = v
		}
		switch op {
		case upSetBBox:
			// advisory bbox hint; the path engine computes its own bbox on
			// demand (pathbuild.Path.PathBBox), so this is a no-op.
		case upMoveTo:
			into.MoveTo(g.CTM.Apply(pathbuild.Point{X: args[0], Y: args[1]}))
		case upRMoveTo:
			into.MoveTo(relTo(into, g, args[0], args[1]))
		case upLineTo:
			into.LineTo(g.CTM.Apply(pathbuild.Point{X: args[0], Y: args[1]}))
		case upRLineTo:
			into.LineTo(relTo(into, g, args[0], args[1]))
		case upCurveTo:
			into.CurveTo(
				g.CTM.Apply(pathbuild.Point{X: args[0], Y: args[1]}),
				g.CTM.Apply(pathbuild.Point{X: args[2], Y: args[3]}),
				g.CTM.Apply(pathbuild.Point{X: args[4], Y: args[5]}),
			)
		case upRCurveTo:
			p1 := relTo(into, g, args[0], args[1])
			p2 := relTo(into, g, args[2], args[3])
			p3 := relTo(into, g, args[4], args[5])
			into.CurveTo(p1, p2, p3)
		case upClosePath:
			into.ClosePath()
		}
	}
	return nil
}

func relTo(p *pathbuild.Path, g *estack.GState, dx, dy float64) pathbuild.Point {
	v := g.CTM.ApplyVector(pathbuild.Point{X: dx, Y: dy})
	base := p.Current
	return pathbuild.Point{X: base.X + v.X, Y: base.Y + v.Y}
}

// encodeUserPath converts the current device-space path back to an
// encoded user path in user space, per `upath`.
func encodeUserPath(m *estack.Machine) (object.Object, error) {
	g := m.CurrentGState()
	inv, ok := g.CTM.Invert()
	if !ok {
		return object.Object{}, rangeErr("upath")
	}
	var out []object.Object
	push := func(op int64, pts ...pathbuild.Point) {
		out = append(out, object.NewInt(op))
		for _, p := range pts {
			up := inv.Apply(p)
			out = append(out, object.NewReal(up.X), object.NewReal(up.Y))
		}
	}
	for _, sp := range g.Path.Subpaths {
		for _, s := range sp.Segs {
			switch s.Kind {
			case pathbuild.MoveTo:
				push(upMoveTo, s.P)
			case pathbuild.LineTo:
				push(upLineTo, s.P)
			case pathbuild.CurveTo:
				push(upCurveTo, s.P1, s.P2, s.P3)
			case pathbuild.ClosePath:
				out = append(out, object.NewInt(upClosePath))
			}
		}
	}
	return m.VM.NewArrayFrom(m.CurrentOrigin(), out), nil
}
