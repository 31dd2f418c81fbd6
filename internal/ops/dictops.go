package ops

import (
	"github.com/gopostscript/postforge/internal/estack"
	"github.com/gopostscript/postforge/internal/object"
)

// RegisterDict binds the dictionary operators
// (original_source/postforge/operators/dict.py), per spec.md §4.0.
func RegisterDict(r *Registry) {
	r.Add("dict", func(m *estack.Machine) error {
		n, err := popInt(m, "dict")
		if err != nil {
			return err
		}
		if n < 0 {
			return rangeErr("dict")
		}
		m.Operand.Push(m.VM.NewDict(m.CurrentOrigin(), int(n)))
		return nil
	})
	r.Add("maxlength", func(m *estack.Machine) error {
		v, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		d, err := m.VM.Dict(v)
		if err != nil {
			return err
		}
		m.Operand.Push(object.NewInt(int64(d.Capacity)))
		return nil
	})
	r.Add("begin", func(m *estack.Machine) error {
		v, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		if v.Tag != object.Dict {
			return typeErr("begin")
		}
		m.Dicts.Push(v)
		return nil
	})
	r.Add("end", func(m *estack.Machine) error { return m.Dicts.Pop() })
	r.Add("def", func(m *estack.Machine) error {
		val, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		key, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		return m.Dicts.Define(key, val)
	})
	r.Add("load", func(m *estack.Machine) error {
		key, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		v, err := m.Dicts.Lookup(key)
		if err != nil {
			return typeErr("load")
		}
		m.Operand.Push(v)
		return nil
	})
	r.Add("store", func(m *estack.Machine) error {
		val, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		key, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		owner, found, err := m.Dicts.Where(key)
		if err != nil {
			return err
		}
		if !found {
			return m.Dicts.Define(key, val)
		}
		return m.VM.DictPut(owner, key, val)
	})
	r.Add("currentdict", func(m *estack.Machine) error {
		m.Operand.Push(m.Dicts.Current())
		return nil
	})
	r.Add("countdictstack", func(m *estack.Machine) error {
		m.Operand.Push(object.NewInt(int64(m.Dicts.Len())))
		return nil
	})
	r.Add("where", func(m *estack.Machine) error {
		key, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		owner, found, err := m.Dicts.Where(key)
		if err != nil {
			return err
		}
		if !found {
			m.Operand.Push(object.NewBool(false))
			return nil
		}
		m.Operand.Push(owner)
		m.Operand.Push(object.NewBool(true))
		return nil
	})
	r.Add("undef", func(m *estack.Machine) error {
		key, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		v, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		d, err := m.VM.Dict(v)
		if err != nil {
			return err
		}
		d.Delete(key)
		return nil
	})
	r.Add("known", func(m *estack.Machine) error {
		key, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		v, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		d, err := m.VM.Dict(v)
		if err != nil {
			return err
		}
		_, ok := d.Get(key)
		m.Operand.Push(object.NewBool(ok))
		return nil
	})
}
