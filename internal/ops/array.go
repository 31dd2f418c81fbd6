package ops

import (
	"github.com/gopostscript/postforge/internal/dispatch"
	"github.com/gopostscript/postforge/internal/estack"
	"github.com/gopostscript/postforge/internal/object"
)

// RegisterArray binds the array and packed-array operators
// (original_source/postforge/operators/array.py, packed_array.py), per
// spec.md §4.0.
func RegisterArray(r *Registry) {
	r.Add("array", func(m *estack.Machine) error {
		n, err := popInt(m, "array")
		if err != nil {
			return err
		}
		if n < 0 {
			return rangeErr("array")
		}
		m.Operand.Push(m.VM.NewArray(m.CurrentOrigin(), int(n)))
		return nil
	})
	r.Add("length", func(m *estack.Machine) error {
		v, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		switch v.Tag {
		case object.Array, object.PackedArray, object.String:
			m.Operand.Push(object.NewInt(int64(v.Length())))
		case object.Dict:
			d, err := m.VM.Dict(v)
			if err != nil {
				return err
			}
			m.Operand.Push(object.NewInt(int64(d.Len())))
		default:
			return typeErr("length")
		}
		return nil
	})
	r.Add("get", func(m *estack.Machine) error {
		key, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		v, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		switch v.Tag {
		case object.Array, object.PackedArray:
			if !key.IsNumber() {
				return typeErr("get")
			}
			idx := int64(key.Float64())
			elems, err := m.VM.GetArray(v)
			if err != nil {
				return err
			}
			if idx < 0 || int(idx) >= len(elems) {
				return rangeErr("get")
			}
			m.Operand.Push(elems[idx])
		case object.String:
			if !key.IsNumber() {
				return typeErr("get")
			}
			idx := int64(key.Float64())
			b, err := m.VM.GetString(v)
			if err != nil {
				return err
			}
			if idx < 0 || int(idx) >= len(b) {
				return rangeErr("get")
			}
			m.Operand.Push(object.NewInt(int64(b[idx])))
		case object.Dict:
			d, err := m.VM.Dict(v)
			if err != nil {
				return err
			}
			val, ok := d.Get(key)
			if !ok {
				return dispatch.New(dispatch.Undefined, "get")
			}
			m.Operand.Push(val)
		default:
			return typeErr("get")
		}
		return nil
	})
	r.Add("put", func(m *estack.Machine) error {
		val, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		key, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		v, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		switch v.Tag {
		case object.Array, object.PackedArray:
			if !key.IsNumber() {
				return typeErr("put")
			}
			idx := int64(key.Float64())
			if idx < 0 || int(idx) >= v.Length() {
				return rangeErr("put")
			}
			return m.VM.PutArray(v, int(idx), val)
		case object.String:
			if !key.IsNumber() || val.Tag != object.Int {
				return typeErr("put")
			}
			idx := int64(key.Float64())
			if idx < 0 || int(idx) >= v.Length() {
				return rangeErr("put")
			}
			return m.VM.PutString(v.WithView(int(idx), 1), []byte{byte(val.Int64())})
		case object.Dict:
			return m.VM.DictPut(v, key, val)
		default:
			return typeErr("put")
		}
	})
	r.Add("getinterval", func(m *estack.Machine) error {
		count, err := popInt(m, "getinterval")
		if err != nil {
			return err
		}
		start, err := popInt(m, "getinterval")
		if err != nil {
			return err
		}
		v, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		if !v.IsComposite() || (v.Tag != object.Array && v.Tag != object.PackedArray && v.Tag != object.String) {
			return typeErr("getinterval")
		}
		if start < 0 || count < 0 || int(start+count) > v.Length() {
			return rangeErr("getinterval")
		}
		m.Operand.Push(v.WithView(int(start), int(count)))
		return nil
	})
	r.Add("putinterval", func(m *estack.Machine) error {
		src, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		start, err := popInt(m, "putinterval")
		if err != nil {
			return err
		}
		dst, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		switch dst.Tag {
		case object.Array, object.PackedArray:
			elems, err := m.VM.GetArray(src)
			if err != nil {
				return err
			}
			if start < 0 || int(start)+len(elems) > dst.Length() {
				return rangeErr("putinterval")
			}
			for i, e := range elems {
				if err := m.VM.PutArray(dst, int(start)+i, e); err != nil {
					return err
				}
			}
		case object.String:
			b, err := m.VM.GetString(src)
			if err != nil {
				return err
			}
			if start < 0 || int(start)+len(b) > dst.Length() {
				return rangeErr("putinterval")
			}
			if err := m.VM.PutString(dst.WithView(int(start), len(b)), b); err != nil {
				return err
			}
		default:
			return typeErr("putinterval")
		}
		return nil
	})
	r.Add("copy", func(m *estack.Machine) error {
		// `copy` is overloaded: an integer argument means the stack form
		// already bound in stack.go; a composite argument means the
		// array/string/dict aggregate-copy form. Re-dispatch on the top
		// operand's tag rather than colliding names in the Registry map.
		top, err := m.Operand.Top()
		if err != nil {
			return err
		}
		if top.IsNumber() {
			return stackCopy(m)
		}
		return aggregateCopy(m)
	})
	r.Add("forall", func(m *estack.Machine) error {
		proc, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		v, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		var items []object.Object
		switch v.Tag {
		case object.Array, object.PackedArray:
			items, err = m.VM.GetArray(v)
			if err != nil {
				return err
			}
		case object.String:
			b, err := m.VM.GetString(v)
			if err != nil {
				return err
			}
			items = make([]object.Object, len(b))
			for i, c := range b {
				items[i] = object.NewInt(int64(c))
			}
		case object.Dict:
			d, err := m.VM.Dict(v)
			if err != nil {
				return err
			}
			for _, k := range d.Keys() {
				val, _ := d.Get(k)
				items = append(items, k, val)
			}
		default:
			return typeErr("forall")
		}
		m.PushLoop(estack.Frame{LoopKind: estack.LoopForall, Body: proc, ForallItems: items})
		return nil
	})
}

// aggregateCopy implements the array/string/dict form of `copy`: copies
// elements of the second-from-top composite into the top composite
// (which must be at least as long), per PLRM `copy`.
func aggregateCopy(m *estack.Machine) error {
	dst, err := m.Operand.Pop()
	if err != nil {
		return err
	}
	src, err := m.Operand.Pop()
	if err != nil {
		return err
	}
	if src.Tag != dst.Tag {
		return typeErr("copy")
	}
	switch src.Tag {
	case object.Array, object.PackedArray:
		elems, err := m.VM.GetArray(src)
		if err != nil {
			return err
		}
		if len(elems) > dst.Length() {
			return rangeErr("copy")
		}
		for i, e := range elems {
			if err := m.VM.PutArray(dst, i, e); err != nil {
				return err
			}
		}
		m.Operand.Push(dst.WithView(0, len(elems)))
	case object.String:
		b, err := m.VM.GetString(src)
		if err != nil {
			return err
		}
		if len(b) > dst.Length() {
			return rangeErr("copy")
		}
		if err := m.VM.PutString(dst.WithView(0, len(b)), b); err != nil {
			return err
		}
		m.Operand.Push(dst.WithView(0, len(b)))
	case object.Dict:
		sd, err := m.VM.Dict(src)
		if err != nil {
			return err
		}
		for _, k := range sd.Keys() {
			v, _ := sd.Get(k)
			if err := m.VM.DictPut(dst, k, v); err != nil {
				return err
			}
		}
		m.Operand.Push(dst)
	default:
		return typeErr("copy")
	}
	return nil
}
