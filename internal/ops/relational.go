package ops

import (
	"bytes"

	"github.com/gopostscript/postforge/internal/estack"
	"github.com/gopostscript/postforge/internal/object"
)

// RegisterRelational binds the relational operators that compare two
// objects (original_source/postforge/operators/
// relational.py), per spec.md §4.0. eq/ne accept any pair of objects;
// gt/ge/lt/le accept either two numbers or two strings (compared
// byte-wise, lexicographically) and raise typecheck on any other
// combination, per PLRM's relational operator descriptions.
func RegisterRelational(r *Registry) {
	r.Add("eq", relOp("eq", func(m *estack.Machine, op string, a, b object.Object) (bool, error) {
		return object.Equal(a, b), nil
	}))
	r.Add("ne", relOp("ne", func(m *estack.Machine, op string, a, b object.Object) (bool, error) {
		return !object.Equal(a, b), nil
	}))
	r.Add("gt", relOp("gt", ordered(func(c int) bool { return c > 0 })))
	r.Add("ge", relOp("ge", ordered(func(c int) bool { return c >= 0 })))
	r.Add("lt", relOp("lt", ordered(func(c int) bool { return c < 0 })))
	r.Add("le", relOp("le", ordered(func(c int) bool { return c <= 0 })))
}

func relOp(op string, fn func(m *estack.Machine, op string, a, b object.Object) (bool, error)) estack.OperatorFunc {
	return func(m *estack.Machine) error {
		b, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		a, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		result, err := fn(m, op, a, b)
		if err != nil {
			return err
		}
		m.Operand.Push(object.NewBool(result))
		return nil
	}
}

// ordered builds the comparison function gt/ge/lt/le share: both numeric
// (compared as float64) or both strings (compared byte-wise), everything
// else is a typecheck.
func ordered(test func(cmp int) bool) func(m *estack.Machine, op string, a, b object.Object) (bool, error) {
	return func(m *estack.Machine, op string, a, b object.Object) (bool, error) {
		switch {
		case a.IsNumber() && b.IsNumber():
			return test(compareFloat(a.Float64(), b.Float64())), nil
		case a.Tag == object.String && b.Tag == object.String:
			if !readableString(a) || !readableString(b) {
				return false, accessErr(op)
			}
			sa, err := m.VM.GetString(a)
			if err != nil {
				return false, err
			}
			sb, err := m.VM.GetString(b)
			if err != nil {
				return false, err
			}
			return test(bytes.Compare(sa, sb)), nil
		default:
			return false, typeErr(op)
		}
	}
}

// readableString reports whether a String Object's access permits reading
// its bytes for a relational comparison: execute-only and no-access
// strings may not be read this way, per PLRM.
func readableString(o object.Object) bool {
	return o.Attr.Access != object.AccessExecuteOnly && o.Attr.Access != object.AccessNone
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
