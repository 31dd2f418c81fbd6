package ops

import (
	"strconv"

	"github.com/gopostscript/postforge/internal/estack"
	"github.com/gopostscript/postforge/internal/object"
)

// RegisterConvert binds the type-conversion operators
// (original_source/postforge/operators/type_convert.py), per spec.md §4.0.
func RegisterConvert(r *Registry) {
	r.Add("cvi", func(m *estack.Machine) error {
		v, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		switch v.Tag {
		case object.Int:
			m.Operand.Push(v)
		case object.Real:
			m.Operand.Push(object.NewInt(int64(v.Float64())))
		case object.String:
			s, err := stringBytes(m, v)
			if err != nil {
				return err
			}
			n, perr := strconv.ParseInt(string(s), 10, 64)
			if perr != nil {
				return typeErr("cvi")
			}
			m.Operand.Push(object.NewInt(n))
		default:
			return typeErr("cvi")
		}
		return nil
	})
	r.Add("cvr", func(m *estack.Machine) error {
		v, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		switch v.Tag {
		case object.Int, object.Real:
			m.Operand.Push(object.NewReal(v.Float64()))
		case object.String:
			s, err := stringBytes(m, v)
			if err != nil {
				return err
			}
			f, perr := strconv.ParseFloat(string(s), 64)
			if perr != nil {
				return typeErr("cvr")
			}
			m.Operand.Push(object.NewReal(f))
		default:
			return typeErr("cvr")
		}
		return nil
	})
	r.Add("cvn", func(m *estack.Machine) error {
		v, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		if v.Tag != object.String {
			return typeErr("cvn")
		}
		s, err := stringBytes(m, v)
		if err != nil {
			return err
		}
		id := r.Intern(string(s))
		m.Operand.Push(object.NameObject(id, v.Attr.Executable))
		return nil
	})
	r.Add("cvrs", func(m *estack.Machine) error {
		radix, err := popInt(m, "cvrs")
		if err != nil {
			return err
		}
		dest, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		n, err := popInt(m, "cvrs")
		if err != nil {
			return err
		}
		if radix < 2 || radix > 36 {
			return rangeErr("cvrs")
		}
		text := strconv.FormatInt(n, int(radix))
		if dest.Tag != object.String {
			return typeErr("cvrs")
		}
		if len(text) > dest.Length() {
			return rangeErr("cvrs")
		}
		if err := m.VM.PutString(dest.WithView(0, len(text)), []byte(text)); err != nil {
			return err
		}
		m.Operand.Push(dest.WithView(0, len(text)))
		return nil
	})
	r.Add("cvx", func(m *estack.Machine) error {
		v, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		m.Operand.Push(v.WithExecutable(true))
		return nil
	})
	r.Add("cvlit", func(m *estack.Machine) error {
		v, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		m.Operand.Push(v.WithExecutable(false))
		return nil
	})
}

func stringBytes(m *estack.Machine, v object.Object) ([]byte, error) {
	return m.VM.GetString(v)
}
