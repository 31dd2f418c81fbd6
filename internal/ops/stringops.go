package ops

import (
	"bytes"

	"github.com/gopostscript/postforge/internal/estack"
	"github.com/gopostscript/postforge/internal/object"
)

// RegisterString binds the string operators
// (original_source/postforge/operators/string.py), per spec.md §4.0.
// `length`/`get`/`put`/`getinterval`/`putinterval`/`copy`/`forall` already
// handle String alongside Array in array.go, since PostScript overloads
// those names across composite types; this file covers the string-only
// operators.
func RegisterString(r *Registry) {
	r.Add("string", func(m *estack.Machine) error {
		n, err := popInt(m, "string")
		if err != nil {
			return err
		}
		if n < 0 {
			return rangeErr("string")
		}
		m.Operand.Push(m.VM.NewString(m.CurrentOrigin(), int(n)))
		return nil
	})
	r.Add("anchorsearch", func(m *estack.Machine) error {
		return searchImpl(m, true)
	})
	r.Add("search", func(m *estack.Machine) error {
		return searchImpl(m, false)
	})
}

func searchImpl(m *estack.Machine, anchored bool) error {
	seekObj, err := m.Operand.Pop()
	if err != nil {
		return err
	}
	strObj, err := m.Operand.Pop()
	if err != nil {
		return err
	}
	if seekObj.Tag != object.String || strObj.Tag != object.String {
		return typeErr("search")
	}
	s, err := m.VM.GetString(strObj)
	if err != nil {
		return err
	}
	seek, err := m.VM.GetString(seekObj)
	if err != nil {
		return err
	}
	var idx int
	if anchored {
		if !bytes.HasPrefix(s, seek) {
			m.Operand.Push(strObj)
			m.Operand.Push(object.NewBool(false))
			return nil
		}
		idx = 0
	} else {
		idx = bytes.Index(s, seek)
		if idx < 0 {
			m.Operand.Push(strObj)
			m.Operand.Push(object.NewBool(false))
			return nil
		}
	}
	pre := strObj.WithView(0, idx)
	match := strObj.WithView(idx, len(seek))
	post := strObj.WithView(idx+len(seek), len(s)-idx-len(seek))
	if anchored {
		m.Operand.Push(post)
		m.Operand.Push(match)
		m.Operand.Push(object.NewBool(true))
		return nil
	}
	m.Operand.Push(post)
	m.Operand.Push(match)
	m.Operand.Push(pre)
	m.Operand.Push(object.NewBool(true))
	return nil
}
