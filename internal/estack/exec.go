package estack

import (
	"github.com/pkg/errors"

	"github.com/gopostscript/postforge/internal/object"
	"github.com/gopostscript/postforge/internal/vmem"
)

// FrameKind distinguishes the records placed on the execution stack, per
// spec.md §4.3 "no native recursion for control flow": `for`/`repeat`/
// `loop` push a LoopFrame instead of the operator recursively driving a Go
// loop, so that `exit` can unwind exactly one enclosing loop by popping
// frames rather than needing an exception per nesting level.
type FrameKind uint8

const (
	FrameProc FrameKind = iota
	FrameLoop
)

// LoopKind selects which of the four PostScript loop operators (`for`,
// `repeat`, `loop`, `forall`) a FrameLoop implements.
type LoopKind uint8

const (
	LoopFor LoopKind = iota
	LoopRepeat
	LoopInfinite
	LoopForall
)

// Frame is one execution-stack record.
type Frame struct {
	Kind FrameKind

	// FrameProc
	Proc object.Object
	Pos  int

	// FrameLoop
	LoopKind  LoopKind
	Cur       float64
	Limit     float64
	Inc       float64
	Remaining int
	Body      object.Object
	IsInt     bool // `for`: push Cur as Int rather than Real when all three args were integers

	// LoopForall
	ForallItems []object.Object
	ForallIdx   int
}

// ErrExit is the sentinel an `exit` operator implementation returns to
// unwind to the nearest enclosing FrameLoop.
var ErrExit = errors.New("estack: exit")

// ErrStop is the sentinel a `stop` operator implementation returns. It
// propagates up through drive() like any other operator error -- `stopped`
// starts its own Run call, so ErrStop always reaches exactly that Run's
// return value, with no marker frame needed to locate it.
var ErrStop = errors.New("estack: stop")

// OperatorFunc is a builtin operator implementation, registered by
// internal/ops and invoked directly by the evaluator loop (not recursively
// through Run), per spec.md §4.3.
type OperatorFunc func(m *Machine) error

// Machine bundles the four PostScript machine stacks and drives the
// evaluator loop, per spec.md §4.3.
type Machine struct {
	Operand OperandStack
	Dicts   *DictStack
	Exec    []Frame
	VM      *vmem.VM

	operators map[uint64]OperatorFunc
	gstates   []*GState
	global    bool // currentglobal: VM allocation mode for composite-creating operators
}

// SetGlobal sets the VM allocation mode composite-creating operators
// (array, dict, string, ...) use, per `setglobal`.
func (m *Machine) SetGlobal(g bool) { m.global = g }

// CurrentGlobal reports the VM allocation mode, per `currentglobal`.
func (m *Machine) CurrentGlobal() bool { return m.global }

// CurrentOrigin is CurrentGlobal expressed as an object.Origin, for
// internal/ops composite-allocating operators.
func (m *Machine) CurrentOrigin() object.Origin {
	if m.global {
		return object.Global
	}
	return object.Local
}

// NewMachine creates a Machine over vm with systemdict as the bottom of
// the dictionary stack and a single default graphics state.
func NewMachine(vm *vmem.VM, systemdict object.Object) *Machine {
	return &Machine{
		Dicts:     NewDictStack(vm, systemdict),
		VM:        vm,
		operators: make(map[uint64]OperatorFunc),
		gstates:   []*GState{NewGState()},
	}
}

// RegisterOperator binds opcode (an interned name id, per spec.md §3 Name)
// to fn, for the internal/ops library to populate at init.
func (m *Machine) RegisterOperator(opcode uint64, fn OperatorFunc) {
	m.operators[opcode] = fn
}

// OperatorObject constructs the Operator Object bound to opcode, for
// systemdict population.
func OperatorObject(opcode uint64) object.Object {
	return object.Object{Tag: object.Operator, Handle: opcode, Attr: object.Attr{Executable: true}}
}

// PushExec pushes a procedure frame directly onto the execution stack
// without running the evaluator loop; used by `exec` and by control
// operators (`if`, `ifelse`, `for`, `repeat`, `loop`, `forall`) to schedule
// a body for the *current* Run invocation's loop to pick up next, per
// spec.md §4.3's no-recursion design.
func (m *Machine) PushExec(proc object.Object) {
	m.Exec = append(m.Exec, Frame{Kind: FrameProc, Proc: proc})
}

// PushLoop pushes a loop record.
func (m *Machine) PushLoop(f Frame) {
	f.Kind = FrameLoop
	m.Exec = append(m.Exec, f)
}

// Run executes proc (an executable Array/PackedArray Object) to
// completion: it drives the shared evaluator loop until the execution
// stack unwinds back below the depth it started at, per spec.md §4.3.
func (m *Machine) Run(proc object.Object) error {
	base := len(m.Exec)
	m.PushExec(proc)
	return m.drive(base)
}

// ExecObject immediately dispatches obj as "the next executed object"
// (look up executable names, call operators, schedule executable
// procedures, or push literals), per the `exec` operator. Unlike Run, it
// does not loop: if obj schedules a procedure, that procedure is picked up
// by whichever drive() call is currently running (or, at top level, by the
// next Run).
func (m *Machine) ExecObject(obj object.Object) error {
	return m.execNext(obj)
}

// drive runs the evaluator loop until len(m.Exec) == base. On any error it
// truncates the execution stack back to base before returning, since a
// PostScript error (or an uncaught `stop`) abandons the rest of the
// currently executing context -- exactly the frames this drive call owns -
// leaving the caller (Run, or `stopped`) with clean stack state, per
// spec.md §4.3/§5.
func (m *Machine) drive(base int) (err error) {
	defer func() {
		if err != nil {
			m.Exec = m.Exec[:base]
		}
	}()
	for len(m.Exec) > base {
		top := &m.Exec[len(m.Exec)-1]
		switch top.Kind {
		case FrameProc:
			elems, getErr := m.VM.GetArray(top.Proc)
			if getErr != nil {
				return getErr
			}
			if top.Pos >= len(elems) {
				m.Exec = m.Exec[:len(m.Exec)-1]
				continue
			}
			obj := elems[top.Pos]
			top.Pos++
			if execErr := m.execNext(obj); execErr != nil {
				if execErr == ErrExit {
					if !m.unwindToLoop(base) {
						return errors.New("exit: not inside a loop")
					}
					continue
				}
				return execErr
			}
		case FrameLoop:
			switch top.LoopKind {
			case LoopFor:
				done := (top.Inc > 0 && top.Cur > top.Limit) || (top.Inc < 0 && top.Cur < top.Limit)
				if done {
					m.Exec = m.Exec[:len(m.Exec)-1]
					continue
				}
				if top.IsInt {
					m.Operand.Push(object.NewInt(int64(top.Cur)))
				} else {
					m.Operand.Push(object.NewReal(top.Cur))
				}
				top.Cur += top.Inc
				m.PushExec(top.Body)
			case LoopRepeat:
				if top.Remaining <= 0 {
					m.Exec = m.Exec[:len(m.Exec)-1]
					continue
				}
				top.Remaining--
				m.PushExec(top.Body)
			case LoopInfinite:
				m.PushExec(top.Body)
			case LoopForall:
				if top.ForallIdx >= len(top.ForallItems) {
					m.Exec = m.Exec[:len(m.Exec)-1]
					continue
				}
				m.Operand.Push(top.ForallItems[top.ForallIdx])
				top.ForallIdx++
				m.PushExec(top.Body)
			}
		}
	}
	return nil
}

func (m *Machine) unwindToLoop(base int) bool {
	for len(m.Exec) > base {
		f := m.Exec[len(m.Exec)-1]
		m.Exec = m.Exec[:len(m.Exec)-1]
		if f.Kind == FrameLoop {
			return true
		}
	}
	return false
}

// execNext applies the single "next executed object" rule, per spec.md
// §4.3: an executable name is looked up and the result is (recursively)
// handled the same way; everything else, including an executable array
// encountered directly (e.g. a `{ ... }` literal just scanned, or fetched
// from an array being iterated), is pushed as data -- PostScript only runs
// a procedure when it is *reached via name lookup or `exec`*, never merely
// by appearing in a token/array stream.
func (m *Machine) execNext(obj object.Object) error {
	if obj.Tag == object.Name && obj.Attr.Executable {
		val, err := m.Dicts.Lookup(obj)
		if err != nil {
			return err
		}
		return m.execLookedUp(val)
	}
	m.Operand.Push(obj)
	return nil
}

func (m *Machine) execLookedUp(val object.Object) error {
	switch {
	case val.Tag == object.Operator:
		fn, ok := m.operators[val.Handle]
		if !ok {
			return errors.Errorf("undefined: unbound operator id %d", val.Handle)
		}
		return fn(m)
	case (val.Tag == object.Array || val.Tag == object.PackedArray) && val.Attr.Executable:
		m.PushExec(val)
		return nil
	default:
		m.Operand.Push(val)
		return nil
	}
}
