package ops

import (
	"github.com/gopostscript/postforge/internal/estack"
	"github.com/gopostscript/postforge/internal/object"
)

// RegisterAccess binds the access-attribute operators
// (original_source/postforge/operators/misc.py), per spec.md §4.0/§3
// "Access attributes" and §8 "Access monotonicity".
func RegisterAccess(r *Registry) {
	lower := func(op string, acc object.Access) estack.OperatorFunc {
		return func(m *estack.Machine) error {
			v, err := m.Operand.Pop()
			if err != nil {
				return err
			}
			if !v.IsComposite() && v.Tag != object.Name {
				return typeErr(op)
			}
			m.Operand.Push(v.WithAccess(acc))
			return nil
		}
	}
	r.Add("executeonly", lower("executeonly", object.AccessExecuteOnly))
	r.Add("noaccess", lower("noaccess", object.AccessNone))
	r.Add("readonly", lower("readonly", object.AccessReadOnly))

	r.Add("rcheck", func(m *estack.Machine) error {
		v, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		m.Operand.Push(object.NewBool(v.Attr.Access != object.AccessNone))
		return nil
	})
	r.Add("wcheck", func(m *estack.Machine) error {
		v, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		writable := v.Attr.Access == object.AccessUnlimited
		m.Operand.Push(object.NewBool(writable))
		return nil
	})
	r.Add("xcheck", func(m *estack.Machine) error {
		v, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		m.Operand.Push(object.NewBool(v.Attr.Executable))
		return nil
	})
}
