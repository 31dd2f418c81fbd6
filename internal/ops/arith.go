package ops

import (
	"math"

	"github.com/gopostscript/postforge/internal/estack"
	"github.com/gopostscript/postforge/internal/object"
)

// RegisterArithmetic binds the arithmetic operators and the boolean/bitwise
// operators (and, or, xor, not, bitshift), per spec.md §4.1. The relational
// operators (eq, ne, gt, ge, lt, le) live in relational.go.
func RegisterArithmetic(r *Registry) {
	binNumeric := func(op string, fn func(a, b float64) float64) estack.OperatorFunc {
		return func(m *estack.Machine) error {
			b, err := popNumber(m, op)
			if err != nil {
				return err
			}
			a, err := popNumber(m, op)
			if err != nil {
				return err
			}
			m.Operand.Push(object.CoerceResult(a.Tag == object.Int, b.Tag == object.Int, fn(a.Float64(), b.Float64())))
			return nil
		}
	}
	unaryNumeric := func(op string, fn func(a float64) float64) estack.OperatorFunc {
		return func(m *estack.Machine) error {
			a, err := popNumber(m, op)
			if err != nil {
				return err
			}
			m.Operand.Push(object.CoerceResult(a.Tag == object.Int, a.Tag == object.Int, fn(a.Float64())))
			return nil
		}
	}

	r.Add("add", binNumeric("add", func(a, b float64) float64 { return a + b }))
	r.Add("sub", binNumeric("sub", func(a, b float64) float64 { return a - b }))
	r.Add("mul", binNumeric("mul", func(a, b float64) float64 { return a * b }))
	r.Add("idiv", func(m *estack.Machine) error {
		b, err := popInt(m, "idiv")
		if err != nil {
			return err
		}
		a, err := popInt(m, "idiv")
		if err != nil {
			return err
		}
		if b == 0 {
			return rangeErr("idiv")
		}
		m.Operand.Push(object.NewInt(a / b))
		return nil
	})
	r.Add("mod", func(m *estack.Machine) error {
		b, err := popInt(m, "mod")
		if err != nil {
			return err
		}
		a, err := popInt(m, "mod")
		if err != nil {
			return err
		}
		if b == 0 {
			return rangeErr("mod")
		}
		m.Operand.Push(object.NewInt(a % b))
		return nil
	})
	r.Add("div", func(m *estack.Machine) error {
		b, err := popNumber(m, "div")
		if err != nil {
			return err
		}
		a, err := popNumber(m, "div")
		if err != nil {
			return err
		}
		if b.Float64() == 0 {
			return rangeErr("div")
		}
		m.Operand.Push(object.NewReal(a.Float64() / b.Float64()))
		return nil
	})
	r.Add("neg", unaryNumeric("neg", func(a float64) float64 { return -a }))
	r.Add("abs", unaryNumeric("abs", math.Abs))
	r.Add("ceiling", unaryNumeric("ceiling", math.Ceil))
	r.Add("floor", unaryNumeric("floor", math.Floor))
	r.Add("round", unaryNumeric("round", math.Round))
	r.Add("truncate", unaryNumeric("truncate", math.Trunc))
	r.Add("sqrt", func(m *estack.Machine) error {
		a, err := popNumber(m, "sqrt")
		if err != nil {
			return err
		}
		if a.Float64() < 0 {
			return rangeErr("sqrt")
		}
		m.Operand.Push(object.NewReal(math.Sqrt(a.Float64())))
		return nil
	})
	r.Add("sin", func(m *estack.Machine) error { return unaryDegrees(m, "sin", math.Sin) })
	r.Add("cos", func(m *estack.Machine) error { return unaryDegrees(m, "cos", math.Cos) })
	r.Add("atan", func(m *estack.Machine) error {
		den, err := popNumber(m, "atan")
		if err != nil {
			return err
		}
		num, err := popNumber(m, "atan")
		if err != nil {
			return err
		}
		a := math.Atan2(num.Float64(), den.Float64()) * 180 / math.Pi
		if a < 0 {
			a += 360
		}
		m.Operand.Push(object.NewReal(a))
		return nil
	})
	r.Add("exp", func(m *estack.Machine) error {
		exp, err := popNumber(m, "exp")
		if err != nil {
			return err
		}
		base, err := popNumber(m, "exp")
		if err != nil {
			return err
		}
		m.Operand.Push(object.NewReal(math.Pow(base.Float64(), exp.Float64())))
		return nil
	})
	r.Add("ln", func(m *estack.Machine) error {
		a, err := popNumber(m, "ln")
		if err != nil {
			return err
		}
		m.Operand.Push(object.NewReal(math.Log(a.Float64())))
		return nil
	})
	r.Add("log", func(m *estack.Machine) error {
		a, err := popNumber(m, "log")
		if err != nil {
			return err
		}
		m.Operand.Push(object.NewReal(math.Log10(a.Float64())))
		return nil
	})

	bitwise := func(op string, fn func(a, b int64) int64) estack.OperatorFunc {
		return func(m *estack.Machine) error {
			b, err := m.Operand.Pop()
			if err != nil {
				return err
			}
			a, err := m.Operand.Pop()
			if err != nil {
				return err
			}
			if a.Tag == object.Bool && b.Tag == object.Bool {
				bv := fn(boolInt(a.Bool()), boolInt(b.Bool()))
				m.Operand.Push(object.NewBool(bv != 0))
				return nil
			}
			if !a.IsNumber() || !b.IsNumber() {
				return typeErr(op)
			}
			m.Operand.Push(object.NewInt(fn(a.Int64(), b.Int64())))
			return nil
		}
	}
	r.Add("and", bitwise("and", func(a, b int64) int64 { return a & b }))
	r.Add("or", bitwise("or", func(a, b int64) int64 { return a | b }))
	r.Add("xor", bitwise("xor", func(a, b int64) int64 { return a ^ b }))
	r.Add("not", func(m *estack.Machine) error {
		v, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		switch v.Tag {
		case object.Bool:
			m.Operand.Push(object.NewBool(!v.Bool()))
		case object.Int:
			m.Operand.Push(object.NewInt(^v.Int64()))
		default:
			return typeErr("not")
		}
		return nil
	})
	r.Add("bitshift", func(m *estack.Machine) error {
		shift, err := popInt(m, "bitshift")
		if err != nil {
			return err
		}
		v, err := popInt(m, "bitshift")
		if err != nil {
			return err
		}
		if shift >= 0 {
			m.Operand.Push(object.NewInt(v << uint(shift)))
		} else {
			m.Operand.Push(object.NewInt(v >> uint(-shift)))
		}
		return nil
	})
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func unaryDegrees(m *estack.Machine, op string, fn func(float64) float64) error {
	a, err := popNumber(m, op)
	if err != nil {
		return err
	}
	m.Operand.Push(object.NewReal(fn(a.Float64() * math.Pi / 180)))
	return nil
}
