package ops

import (
	"testing"

	"github.com/gopostscript/postforge/internal/estack"
	"github.com/gopostscript/postforge/internal/names"
	"github.com/gopostscript/postforge/internal/object"
	"github.com/gopostscript/postforge/internal/vmem"
)

func newRelationalTestMachine(t *testing.T) *arrayTestMachine {
	t.Helper()
	vm := vmem.New()
	sys := vm.NewDict(object.Global, 64)
	m := estack.NewMachine(vm, sys)
	tbl := names.New()
	r := NewRegistry(tbl)
	RegisterRelational(r)
	if err := r.Install(m, sys); err != nil {
		t.Fatal(err)
	}
	return &arrayTestMachine{m: m, tbl: tbl, sys: sys}
}

func TestGtComparesNumbersNumerically(t *testing.T) {
	a := newRelationalTestMachine(t)
	m := a.m
	m.Operand.Push(object.NewInt(3))
	m.Operand.Push(object.NewReal(2.5))
	if err := a.call(t, "gt"); err != nil {
		t.Fatal(err)
	}
	top, err := m.Operand.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if !top.Bool() {
		t.Fatal("expected 3 gt 2.5 to be true")
	}
}

func TestLtComparesStringsLexicographically(t *testing.T) {
	a := newRelationalTestMachine(t)
	m := a.m
	m.Operand.Push(m.VM.NewStringFrom(object.Local, []byte("abc")))
	m.Operand.Push(m.VM.NewStringFrom(object.Local, []byte("abd")))
	if err := a.call(t, "lt"); err != nil {
		t.Fatal(err)
	}
	top, err := m.Operand.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if !top.Bool() {
		t.Fatal("expected \"abc\" lt \"abd\" to be true")
	}
}

func TestGeOnEqualStringsIsTrue(t *testing.T) {
	a := newRelationalTestMachine(t)
	m := a.m
	m.Operand.Push(m.VM.NewStringFrom(object.Local, []byte("same")))
	m.Operand.Push(m.VM.NewStringFrom(object.Local, []byte("same")))
	if err := a.call(t, "ge"); err != nil {
		t.Fatal(err)
	}
	top, err := m.Operand.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if !top.Bool() {
		t.Fatal("expected two byte-identical strings to compare ge true")
	}
}

func TestGtRejectsMixedNumberAndStringWithTypeCheck(t *testing.T) {
	a := newRelationalTestMachine(t)
	m := a.m
	m.Operand.Push(object.NewInt(1))
	m.Operand.Push(m.VM.NewStringFrom(object.Local, []byte("1")))
	if err := a.call(t, "gt"); err == nil {
		t.Fatal("expected a typecheck error comparing a number against a string")
	}
}

func TestLtRejectsExecuteOnlyStringWithInvalidAccess(t *testing.T) {
	a := newRelationalTestMachine(t)
	m := a.m
	s := m.VM.NewStringFrom(object.Local, []byte("x")).WithAccess(object.AccessExecuteOnly)
	m.Operand.Push(s)
	m.Operand.Push(m.VM.NewStringFrom(object.Local, []byte("y")))
	if err := a.call(t, "lt"); err == nil {
		t.Fatal("expected an invalidaccess error comparing an executeonly string")
	}
}

func TestEqTreatsByteIdenticalDistinctStringsAsNotEqual(t *testing.T) {
	a := newRelationalTestMachine(t)
	m := a.m
	m.Operand.Push(m.VM.NewStringFrom(object.Local, []byte("x")))
	m.Operand.Push(m.VM.NewStringFrom(object.Local, []byte("x")))
	if err := a.call(t, "eq"); err != nil {
		t.Fatal(err)
	}
	top, err := m.Operand.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if top.Bool() {
		t.Fatal("expected two distinct string objects to compare eq false (identity, not content)")
	}
}
