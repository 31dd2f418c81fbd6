package estack

import (
	"github.com/pkg/errors"

	"github.com/gopostscript/postforge/internal/object"
	"github.com/gopostscript/postforge/internal/vmem"
)

// ErrUndefined is returned when a name cannot be found on the dictionary
// stack, per spec.md §5 `undefined`.
var ErrUndefined = errors.New("undefined")

// ErrDictStackUnderflow is returned by Pop when only systemdict remains.
var ErrDictStackUnderflow = errors.New("dictstackunderflow")

// DictStack is the PostScript dictionary stack, per spec.md §4.3. Lookups
// search from the top (innermost) dictionary down to the bottom
// (systemdict), matching PLRM scoping.
type DictStack struct {
	dicts []object.Object // each a Dict-tag Object
	vm    *vmem.VM
}

// NewDictStack creates a DictStack backed by vm, with systemdict (sealed by
// the caller after population) as its only entry.
func NewDictStack(vm *vmem.VM, systemdict object.Object) *DictStack {
	return &DictStack{vm: vm, dicts: []object.Object{systemdict}}
}

// Push pushes d (must be a Dict Object) as the current dictionary, per
// `begin`.
func (s *DictStack) Push(d object.Object) { s.dicts = append(s.dicts, d) }

// Pop pops the current dictionary, per `end`. Never pops the bottom
// (systemdict) entry.
func (s *DictStack) Pop() error {
	if len(s.dicts) <= 1 {
		return ErrDictStackUnderflow
	}
	s.dicts = s.dicts[:len(s.dicts)-1]
	return nil
}

// Current returns the dictionary on top of the stack, per `currentdict`.
func (s *DictStack) Current() object.Object { return s.dicts[len(s.dicts)-1] }

// Len reports the number of dictionaries on the stack, per `countdictstack`.
func (s *DictStack) Len() int { return len(s.dicts) }

// Lookup searches the stack from top to bottom for key, per `load` and
// name execution.
func (s *DictStack) Lookup(key object.Object) (object.Object, error) {
	for i := len(s.dicts) - 1; i >= 0; i-- {
		d, err := s.vm.Dict(s.dicts[i])
		if err != nil {
			return object.Object{}, err
		}
		if v, ok := d.Get(key); ok {
			return v, nil
		}
	}
	return object.Object{}, ErrUndefined
}

// Where reports which dictionary (top to bottom) defines key, per `where`.
func (s *DictStack) Where(key object.Object) (object.Object, bool, error) {
	for i := len(s.dicts) - 1; i >= 0; i-- {
		d, err := s.vm.Dict(s.dicts[i])
		if err != nil {
			return object.Object{}, false, err
		}
		if _, ok := d.Get(key); ok {
			return s.dicts[i], true, nil
		}
	}
	return object.Object{}, false, nil
}

// Define stores key=val in the current dictionary, per `def`.
func (s *DictStack) Define(key, val object.Object) error {
	return s.vm.DictPut(s.Current(), key, val)
}
