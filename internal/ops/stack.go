package ops

import (
	"github.com/gopostscript/postforge/internal/estack"
	"github.com/gopostscript/postforge/internal/object"
)

// RegisterStack binds the operand-stack manipulation operators, per
// spec.md §4.3 "Operand stack".
func RegisterStack(r *Registry) {
	r.Add("pop", func(m *estack.Machine) error {
		_, err := m.Operand.Pop()
		return err
	})
	r.Add("exch", func(m *estack.Machine) error {
		b, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		a, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		m.Operand.Push(b)
		m.Operand.Push(a)
		return nil
	})
	r.Add("dup", func(m *estack.Machine) error {
		v, err := m.Operand.Top()
		if err != nil {
			return err
		}
		m.Operand.Push(v)
		return nil
	})
	// "copy" itself is registered once, in array.go, since the operator is
	// overloaded between this integer form (stackCopy) and the
	// array/string/dict aggregate form (aggregateCopy); array.go dispatches
	// on the top operand's type before calling either.
	r.Add("index", func(m *estack.Machine) error {
		n, err := popInt(m, "index")
		if err != nil {
			return err
		}
		if n < 0 {
			return rangeErr("index")
		}
		v, err := m.Operand.Index(int(n))
		if err != nil {
			return err
		}
		m.Operand.Push(v)
		return nil
	})
	r.Add("roll", func(m *estack.Machine) error {
		j, err := popInt(m, "roll")
		if err != nil {
			return err
		}
		n, err := popInt(m, "roll")
		if err != nil {
			return err
		}
		if n < 0 {
			return rangeErr("roll")
		}
		return m.Operand.Roll(int(n), int(j))
	})
	r.Add("clear", func(m *estack.Machine) error {
		m.Operand.Clear()
		return nil
	})
	r.Add("count", func(m *estack.Machine) error {
		m.Operand.Push(object.NewInt(int64(m.Operand.Len())))
		return nil
	})
}

// stackCopy implements the integer form of `copy`: duplicates the top n
// operand-stack entries in place.
func stackCopy(m *estack.Machine) error {
	n, err := popInt(m, "copy")
	if err != nil {
		return err
	}
	if n < 0 {
		return rangeErr("copy")
	}
	vals := make([]object.Object, n)
	for i := range vals {
		v, err := m.Operand.Index(int(n) - 1 - i)
		if err != nil {
			return err
		}
		vals[i] = v
	}
	for _, v := range vals {
		m.Operand.Push(v)
	}
	return nil
}
