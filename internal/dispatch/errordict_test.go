package dispatch

import (
	"testing"

	"github.com/gopostscript/postforge/internal/estack"
	"github.com/gopostscript/postforge/internal/object"
	"github.com/gopostscript/postforge/internal/vmem"
)

func TestHandleRunsReboundRecoveryProc(t *testing.T) {
	vm := vmem.New()
	sysdict := vm.NewDict(object.Global, 16)
	machine := estack.NewMachine(vm, sysdict)

	errordictKey := object.NameObject(1, false)
	errordict := vm.NewDict(object.Global, 8)
	if err := machine.Dicts.Define(errordictKey, errordict); err != nil {
		t.Fatal(err)
	}

	rangeCheckKey := object.NameObject(2, false)
	ran := false
	opID := uint64(900)
	machine.RegisterOperator(opID, func(m *Machine) error { ran = true; return nil })
	proc := vm.NewArrayFrom(object.Local, []object.Object{object.NameObject(opID, true)}).WithExecutable(true)
	if err := vm.DictPut(errordict, rangeCheckKey, proc); err != nil {
		t.Fatal(err)
	}

	h := NewHandler(machine, map[Kind]object.Object{RangeCheck: rangeCheckKey})
	if err := h.Handle(errordictKey, New(RangeCheck, "get")); err != nil {
		t.Fatal(err)
	}
	if !ran {
		t.Fatal("expected rangecheck recovery procedure to run")
	}
}
