package ops

import (
	"testing"

	"github.com/gopostscript/postforge/internal/estack"
	"github.com/gopostscript/postforge/internal/names"
	"github.com/gopostscript/postforge/internal/object"
	"github.com/gopostscript/postforge/internal/vmem"
)

// arrayTestMachine bundles a Machine with RegisterArray/RegisterStack
// installed and the Names table used to intern operator names, so tests
// can invoke an operator the same way the evaluator would: look up an
// executable Name in systemdict and dispatch on the bound Operator Object.
type arrayTestMachine struct {
	m   *estack.Machine
	tbl *names.Table
	sys object.Object
}

func newArrayTestMachine(t *testing.T) *arrayTestMachine {
	t.Helper()
	vm := vmem.New()
	sys := vm.NewDict(object.Global, 64)
	m := estack.NewMachine(vm, sys)
	tbl := names.New()
	r := NewRegistry(tbl)
	RegisterArray(r)
	RegisterStack(r)
	if err := r.Install(m, sys); err != nil {
		t.Fatal(err)
	}
	return &arrayTestMachine{m: m, tbl: tbl, sys: sys}
}

func (a *arrayTestMachine) call(t *testing.T, op string) error {
	t.Helper()
	return a.m.ExecObject(object.NameObject(a.tbl.Intern(op), true))
}

func (a *arrayTestMachine) name(s string) object.Object {
	return object.NameObject(a.tbl.Intern(s), false)
}

func TestArrayGetPutRoundTrip(t *testing.T) {
	a := newArrayTestMachine(t)
	m := a.m
	arr := m.VM.NewArray(object.Local, 3)
	m.Operand.Push(arr)
	m.Operand.Push(object.NewInt(1))
	m.Operand.Push(object.NewInt(42))
	if err := a.call(t, "put"); err != nil {
		t.Fatal(err)
	}
	m.Operand.Push(arr)
	m.Operand.Push(object.NewInt(1))
	if err := a.call(t, "get"); err != nil {
		t.Fatal(err)
	}
	top, err := m.Operand.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if top.Int64() != 42 {
		t.Fatalf("expected 42, got %v", top.Int64())
	}
}

func TestDictGetPutRoundTrip(t *testing.T) {
	a := newArrayTestMachine(t)
	m := a.m
	key := a.name("foo")
	d := m.VM.NewDict(object.Local, 4)
	m.Operand.Push(d)
	m.Operand.Push(key)
	m.Operand.Push(object.NewInt(7))
	if err := a.call(t, "put"); err != nil {
		t.Fatal(err)
	}
	m.Operand.Push(d)
	m.Operand.Push(key)
	if err := a.call(t, "get"); err != nil {
		t.Fatal(err)
	}
	top, err := m.Operand.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if top.Int64() != 7 {
		t.Fatalf("expected 7, got %v", top.Int64())
	}
}

func TestDictGetMissingKeyIsUndefined(t *testing.T) {
	a := newArrayTestMachine(t)
	m := a.m
	d := m.VM.NewDict(object.Local, 4)
	m.Operand.Push(d)
	m.Operand.Push(a.name("missing"))
	if err := a.call(t, "get"); err == nil {
		t.Fatal("expected an error for a missing dict key")
	}
}

func TestGetOutOfRangeIndexIsRangeCheck(t *testing.T) {
	a := newArrayTestMachine(t)
	m := a.m
	arr := m.VM.NewArray(object.Local, 2)
	m.Operand.Push(arr)
	m.Operand.Push(object.NewInt(5))
	if err := a.call(t, "get"); err == nil {
		t.Fatal("expected a rangecheck error for an out-of-bounds index")
	}
}

func TestPutRejectsNonNumericArrayIndex(t *testing.T) {
	a := newArrayTestMachine(t)
	m := a.m
	arr := m.VM.NewArray(object.Local, 2)
	m.Operand.Push(arr)
	m.Operand.Push(a.name("notanumber"))
	m.Operand.Push(object.NewInt(1))
	if err := a.call(t, "put"); err == nil {
		t.Fatal("expected a typecheck error for a non-numeric array index")
	}
}

func TestLengthReportsArrayStringAndDictSizes(t *testing.T) {
	a := newArrayTestMachine(t)
	m := a.m

	arr := m.VM.NewArray(object.Local, 5)
	m.Operand.Push(arr)
	if err := a.call(t, "length"); err != nil {
		t.Fatal(err)
	}
	top, err := m.Operand.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if top.Int64() != 5 {
		t.Fatalf("expected array length 5, got %v", top.Int64())
	}

	s := m.VM.NewStringFrom(object.Local, []byte("hello"))
	m.Operand.Push(s)
	if err := a.call(t, "length"); err != nil {
		t.Fatal(err)
	}
	top, err = m.Operand.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if top.Int64() != 5 {
		t.Fatalf("expected string length 5, got %v", top.Int64())
	}

	d := m.VM.NewDict(object.Local, 4)
	if err := m.VM.DictPut(d, a.name("k"), object.NewInt(1)); err != nil {
		t.Fatal(err)
	}
	m.Operand.Push(d)
	if err := a.call(t, "length"); err != nil {
		t.Fatal(err)
	}
	top, err = m.Operand.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if top.Int64() != 1 {
		t.Fatalf("expected dict length 1, got %v", top.Int64())
	}
}

func TestGetIntervalOnStrings(t *testing.T) {
	a := newArrayTestMachine(t)
	m := a.m
	s := m.VM.NewStringFrom(object.Local, []byte("hello world"))
	m.Operand.Push(s)
	m.Operand.Push(object.NewInt(6))
	m.Operand.Push(object.NewInt(5))
	if err := a.call(t, "getinterval"); err != nil {
		t.Fatal(err)
	}
	sub, err := m.Operand.Pop()
	if err != nil {
		t.Fatal(err)
	}
	b, err := m.VM.GetString(sub)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "world" {
		t.Fatalf("expected %q, got %q", "world", b)
	}
}

func TestAggregateCopyDict(t *testing.T) {
	a := newArrayTestMachine(t)
	m := a.m
	key := a.name("k")
	src := m.VM.NewDict(object.Local, 4)
	if err := m.VM.DictPut(src, key, object.NewInt(3)); err != nil {
		t.Fatal(err)
	}
	dst := m.VM.NewDict(object.Local, 4)
	m.Operand.Push(src)
	m.Operand.Push(dst)
	if err := a.call(t, "copy"); err != nil {
		t.Fatal(err)
	}
	d, err := m.VM.Dict(dst)
	if err != nil {
		t.Fatal(err)
	}
	v, ok := d.Get(key)
	if !ok || v.Int64() != 3 {
		t.Fatalf("expected dst to contain k=3 after copy, got %v %v", v, ok)
	}
}

func TestCopyDispatchesToStackFormForNumericArgument(t *testing.T) {
	a := newArrayTestMachine(t)
	m := a.m
	m.Operand.Push(object.NewInt(1))
	m.Operand.Push(object.NewInt(2))
	m.Operand.Push(object.NewInt(2)) // n=2: copy top 2 elements
	if err := a.call(t, "copy"); err != nil {
		t.Fatal(err)
	}
	if m.Operand.Len() != 4 {
		t.Fatalf("expected 4 operands after stack-form copy, got %d", m.Operand.Len())
	}
}

func TestForallSumsArrayElements(t *testing.T) {
	a := newArrayTestMachine(t)
	m := a.m
	r := NewRegistry(a.tbl)
	RegisterArithmetic(r)
	if err := r.Install(m, a.sys); err != nil {
		t.Fatal(err)
	}
	arr := m.VM.NewArrayFrom(object.Local, []object.Object{object.NewInt(1), object.NewInt(2), object.NewInt(3)})
	m.Operand.Push(object.NewInt(0))
	m.Operand.Push(arr)
	body := m.VM.NewArrayFrom(object.Local, []object.Object{a.name("add")}).WithExecutable(true)
	m.Operand.Push(body)
	wrapper := m.VM.NewArrayFrom(object.Local, []object.Object{a.name("forall")}).WithExecutable(true)
	if err := m.Run(wrapper); err != nil {
		t.Fatal(err)
	}
	top, err := m.Operand.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if top.Int64() != 6 {
		t.Fatalf("expected forall to sum to 6, got %v", top.Int64())
	}
}
