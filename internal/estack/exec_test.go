package estack

import (
	"testing"

	"github.com/gopostscript/postforge/internal/object"
	"github.com/gopostscript/postforge/internal/vmem"
)

func newTestMachine(t *testing.T) *Machine {
	t.Helper()
	vm := vmem.New()
	sysdict := vm.NewDict(object.Global, 16)
	return NewMachine(vm, sysdict)
}

func procOf(t *testing.T, m *Machine, objs ...object.Object) object.Object {
	t.Helper()
	return m.VM.NewArrayFrom(object.Local, objs).WithExecutable(true)
}

func TestRunPushesLiteralsInOrder(t *testing.T) {
	m := newTestMachine(t)
	proc := procOf(t, m, object.NewInt(1), object.NewInt(2), object.NewInt(3))
	if err := m.Run(proc); err != nil {
		t.Fatal(err)
	}
	if m.Operand.Len() != 3 {
		t.Fatalf("expected 3 operands, got %d", m.Operand.Len())
	}
	top, _ := m.Operand.Pop()
	if top.Int64() != 3 {
		t.Fatalf("expected top=3, got %v", top.Int64())
	}
}

func TestForLoopPushesEachIndex(t *testing.T) {
	m := newTestMachine(t)
	body := procOf(t, m) // empty body; `for` just needs something to run each iter
	m.PushLoop(Frame{LoopKind: LoopFor, Cur: 1, Limit: 3, Inc: 1, Body: body, IsInt: true})
	if err := m.drive(0); err != nil {
		t.Fatal(err)
	}
	vals, err := m.Operand.PopN(3)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range vals {
		if v.Int64() != int64(i+1) {
			t.Fatalf("index %d: got %v want %v", i, v.Int64(), i+1)
		}
	}
}

func TestExitUnwindsEnclosingLoop(t *testing.T) {
	m := newTestMachine(t)
	nameID := uint64(500)
	m.RegisterOperator(nameID, func(m *Machine) error { return ErrExit })
	exitName := object.NameObject(nameID, true)
	body := procOf(t, m, exitName)
	m.PushLoop(Frame{LoopKind: LoopRepeat, Remaining: 5, Body: body})
	if err := m.drive(0); err != nil {
		t.Fatal(err)
	}
	if len(m.Exec) != 0 {
		t.Fatalf("expected exec stack empty after exit, got %d frames", len(m.Exec))
	}
}

func TestRepeatRunsBodyExactCount(t *testing.T) {
	m := newTestMachine(t)
	nameID := uint64(501)
	count := 0
	m.RegisterOperator(nameID, func(m *Machine) error { count++; return nil })
	body := procOf(t, m, object.NameObject(nameID, true))
	m.PushLoop(Frame{LoopKind: LoopRepeat, Remaining: 4, Body: body})
	if err := m.drive(0); err != nil {
		t.Fatal(err)
	}
	if count != 4 {
		t.Fatalf("expected body to run 4 times, got %d", count)
	}
}

func TestExecutableArrayFromLookupRuns(t *testing.T) {
	m := newTestMachine(t)
	nameID := uint64(502)
	ran := false
	m.RegisterOperator(nameID, func(m *Machine) error { ran = true; return nil })
	inner := procOf(t, m, object.NameObject(nameID, true))
	key := object.NameObject(600, false)
	if err := m.Dicts.Define(key, inner); err != nil {
		t.Fatal(err)
	}
	outer := procOf(t, m, object.NameObject(600, true))
	if err := m.Run(outer); err != nil {
		t.Fatal(err)
	}
	if !ran {
		t.Fatal("expected procedure bound to name to run when the name is executed")
	}
}

// TestStopInsideNestedLoopSurfacesFromRunAndLeavesExecStackClean mirrors how
// ops.stopped uses Run/ErrStop: a `stop` nested inside a repeat loop must be
// visible as Run's return value, must short-circuit everything after it in
// the loop body, and must leave the exec stack exactly as it was before Run.
func TestStopInsideNestedLoopSurfacesFromRunAndLeavesExecStackClean(t *testing.T) {
	m := newTestMachine(t)
	stopID := uint64(504)
	markerID := uint64(505)
	reached := false
	m.RegisterOperator(stopID, func(m *Machine) error { return ErrStop })
	m.RegisterOperator(markerID, func(m *Machine) error { reached = true; return nil })

	// repeat { stop markerID } -- markerID must never run once stop fires.
	innerBody := procOf(t, m, object.NameObject(stopID, true), object.NameObject(markerID, true))
	repeatID := uint64(506)
	m.RegisterOperator(repeatID, func(m *Machine) error {
		m.PushLoop(Frame{LoopKind: LoopRepeat, Remaining: 3, Body: innerBody})
		return nil
	})
	proc := procOf(t, m, object.NameObject(repeatID, true))

	base := len(m.Exec)
	runErr := m.Run(proc)
	if runErr != ErrStop {
		t.Fatalf("expected ErrStop from Run, got %v", runErr)
	}
	if len(m.Exec) != base {
		t.Fatalf("expected exec stack restored to base %d, got %d frames", base, len(m.Exec))
	}
	if reached {
		t.Fatal("marker after stop must not run")
	}
}

func TestLiteralProcedureIsPushedNotRun(t *testing.T) {
	m := newTestMachine(t)
	nameID := uint64(503)
	ran := false
	m.RegisterOperator(nameID, func(m *Machine) error { ran = true; return nil })
	inner := procOf(t, m, object.NameObject(nameID, true))
	outer := procOf(t, m, inner)
	if err := m.Run(outer); err != nil {
		t.Fatal(err)
	}
	if ran {
		t.Fatal("a procedure literal scanned directly must not auto-execute")
	}
	if m.Operand.Len() != 1 {
		t.Fatalf("expected the procedure itself pushed as data, got %d operands", m.Operand.Len())
	}
}
