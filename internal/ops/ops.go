// Package ops implements the PostScript operator library (spec.md §4.0's
// supplemented feature list): each file groups operators the way
// original_source/postforge/operators/*.py does (stack, arithmetic,
// control flow, arrays, dictionaries, strings, VM, path construction,
// stroking/insideness, and a handful of miscellaneous operators), each
// registered against a Machine's systemdict by name.
package ops

import (
	"github.com/gopostscript/postforge/internal/dispatch"
	"github.com/gopostscript/postforge/internal/estack"
	"github.com/gopostscript/postforge/internal/object"
)

// Names interns operator and well-known key names into Name Objects and
// hands out the next free dynamic id for names that aren't in the fixed
// sysnames table, per spec.md §4.2 "System name table".
type Names interface {
	Intern(name string) uint64
}

// Registry accumulates (name -> opcode) bindings as each file's
// registerXxx function runs, then Install populates systemdict in one pass.
type Registry struct {
	names Names
	fns   map[string]estack.OperatorFunc
}

// NewRegistry creates an empty Registry.
func NewRegistry(names Names) *Registry {
	return &Registry{names: names, fns: make(map[string]estack.OperatorFunc)}
}

// Add binds name to fn.
func (r *Registry) Add(name string, fn estack.OperatorFunc) {
	r.fns[name] = fn
}

// Intern exposes the Registry's shared Names table to operator
// implementations that must construct a Name Object at run time (e.g.
// `cvn`), rather than only at registration time.
func (r *Registry) Intern(name string) uint64 {
	return r.names.Intern(name)
}

// Install registers every accumulated operator on m and defines it in
// systemdict (an Object the caller must have already allocated as a
// Global Dict), per spec.md §4.3 "systemdict bootstrap".
func (r *Registry) Install(m *estack.Machine, systemdict object.Object) error {
	for name, fn := range r.fns {
		id := r.names.Intern(name)
		m.RegisterOperator(id, fn)
		key := object.NameObject(id, false)
		op := estack.OperatorObject(id)
		if err := m.VM.DictPut(systemdict, key, op); err != nil {
			return err
		}
	}
	return nil
}

// typeErr builds a typecheck PostScriptError for operator op.
func typeErr(op string) error { return dispatch.New(dispatch.TypeCheck, op) }

// rangeErr builds a rangecheck PostScriptError for operator op.
func rangeErr(op string) error { return dispatch.New(dispatch.RangeCheck, op) }

// accessErr builds an invalidaccess PostScriptError for operator op.
func accessErr(op string) error { return dispatch.New(dispatch.InvalidAccess, op) }

func popNumber(m *estack.Machine, op string) (object.Object, error) {
	v, err := m.Operand.Pop()
	if err != nil {
		return object.Object{}, err
	}
	if !v.IsNumber() {
		return object.Object{}, typeErr(op)
	}
	return v, nil
}

func popInt(m *estack.Machine, op string) (int64, error) {
	v, err := popNumber(m, op)
	if err != nil {
		return 0, err
	}
	if v.Tag == object.Int {
		return v.Int64(), nil
	}
	return int64(v.Float64()), nil
}
