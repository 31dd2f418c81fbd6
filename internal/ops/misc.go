package ops

import (
	"github.com/pkg/errors"

	"github.com/gopostscript/postforge/internal/dispatch"
	"github.com/gopostscript/postforge/internal/estack"
	"github.com/gopostscript/postforge/internal/object"
)

// ErrQuit is returned by the `quit` operator to signal the interpreter's
// top-level loop (the ps package) to stop, distinct from a PostScript-level
// error: quitting is requested behavior, not a fault.
var ErrQuit = errors.New("quit")

// RegisterMisc binds the remaining bookkeeping operators
// (original_source/postforge/operators/misc.py), per spec.md §4.0: mark
// and literal array/dict construction (`[`, `]`, `<<`, `>>`, bound here so
// they work even when reached indirectly through `get`/`exec` rather than
// the tokeniser's structural handling of the same four delimiters), `bind`,
// introspection (`type`, `countexecstack`), and `quit`.
func RegisterMisc(r *Registry) {
	r.Add("mark", func(m *estack.Machine) error {
		m.Operand.Push(object.MarkObject)
		return nil
	})
	r.Add("[", func(m *estack.Machine) error {
		m.Operand.Push(object.MarkObject)
		return nil
	})
	r.Add("]", func(m *estack.Machine) error {
		items, err := popToMark(m, "]")
		if err != nil {
			return err
		}
		m.Operand.Push(m.VM.NewArrayFrom(m.CurrentOrigin(), items))
		return nil
	})
	r.Add("<<", func(m *estack.Machine) error {
		m.Operand.Push(object.MarkObject)
		return nil
	})
	r.Add(">>", func(m *estack.Machine) error {
		items, err := popToMark(m, ">>")
		if err != nil {
			return err
		}
		if len(items)%2 != 0 {
			return dispatch.New(dispatch.RangeCheck, ">>")
		}
		d := m.VM.NewDict(m.CurrentOrigin(), len(items)/2)
		for i := 0; i < len(items); i += 2 {
			if err := m.VM.DictPut(d, items[i], items[i+1]); err != nil {
				return err
			}
		}
		m.Operand.Push(d)
		return nil
	})
	r.Add("cleartomark", func(m *estack.Machine) error {
		_, err := popToMark(m, "cleartomark")
		return err
	})
	r.Add("counttomark", func(m *estack.Machine) error {
		n, err := countToMark(m, "counttomark")
		if err != nil {
			return err
		}
		m.Operand.Push(object.NewInt(int64(n)))
		return nil
	})
	r.Add("type", func(m *estack.Machine) error {
		v, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		id := r.Intern(v.Tag.String())
		m.Operand.Push(object.NameObject(id, false))
		return nil
	})
	r.Add("bind", func(m *estack.Machine) error {
		v, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		bound, err := bindProc(m, v)
		if err != nil {
			return err
		}
		m.Operand.Push(bound)
		return nil
	})
	r.Add("countexecstack", func(m *estack.Machine) error {
		m.Operand.Push(object.NewInt(int64(len(m.Exec))))
		return nil
	})
	r.Add("quit", func(m *estack.Machine) error { return ErrQuit })
}

func popToMark(m *estack.Machine, op string) ([]object.Object, error) {
	n, err := countToMark(m, op)
	if err != nil {
		return nil, err
	}
	items, err := m.Operand.PopN(n)
	if err != nil {
		return nil, err
	}
	if _, err := m.Operand.Pop(); err != nil { // discard the mark itself
		return nil, err
	}
	return items, nil
}

func countToMark(m *estack.Machine, op string) (int, error) {
	for i := 0; i < m.Operand.Len(); i++ {
		v, err := m.Operand.Index(i)
		if err != nil {
			return 0, err
		}
		if v.Tag == object.Mark {
			return i, nil
		}
	}
	return 0, dispatch.New(dispatch.UnmatchedMark, op)
}

// bindProc replaces every executable-name reference inside proc that
// currently resolves (via systemdict only, per PLRM `bind`'s "only binds
// operators, not user names defined later") to an Operator with that
// Operator Object directly, recursing into nested executable procedures,
// per spec.md §4.0 `bind`. Other elements pass through unchanged.
func bindProc(m *estack.Machine, proc object.Object) (object.Object, error) {
	if proc.Tag != object.Array && proc.Tag != object.PackedArray {
		return proc, nil
	}
	if !proc.Attr.Executable {
		return proc, nil
	}
	elems, err := m.VM.GetArray(proc)
	if err != nil {
		return proc, err
	}
	for i, e := range elems {
		if e.Tag == object.Name && e.Attr.Executable {
			if v, err := m.Dicts.Lookup(e); err == nil && v.Tag == object.Operator {
				if err := m.VM.PutArray(proc, i, v); err != nil {
					return proc, err
				}
			}
			continue
		}
		if (e.Tag == object.Array || e.Tag == object.PackedArray) && e.Attr.Executable {
			if _, err := bindProc(m, e); err != nil {
				return proc, err
			}
		}
	}
	return proc, nil
}
