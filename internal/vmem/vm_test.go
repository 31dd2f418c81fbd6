package vmem

import (
	"bytes"
	"testing"

	"github.com/gopostscript/postforge/internal/object"
)

func TestSaveRestoreUndoesStringMutation(t *testing.T) {
	vm := New()
	s := vm.NewStringFrom(object.Local, []byte("hello"))
	save := vm.Save()
	if err := vm.PutString(s, []byte("world")); err != nil {
		t.Fatal(err)
	}
	got, _ := vm.GetString(s)
	if !bytes.Equal(got, []byte("world")) {
		t.Fatalf("mutation did not apply: %q", got)
	}
	if err := vm.Restore(save); err != nil {
		t.Fatal(err)
	}
	got, err := vm.GetString(s)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte("hello")) {
		t.Fatalf("restore did not undo mutation: %q", got)
	}
}

func TestRestoreInvalidatesCompositesCreatedAfterSave(t *testing.T) {
	vm := New()
	save := vm.Save()
	s := vm.NewStringFrom(object.Local, []byte("new"))
	if err := vm.Restore(save); err != nil {
		t.Fatal(err)
	}
	if _, err := vm.GetString(s); err == nil {
		t.Fatal("expected invalidrestore error for composite allocated after the save point")
	}
}

func TestNestedRestoreUnwindsOnlyToTargetLevel(t *testing.T) {
	vm := New()
	s := vm.NewStringFrom(object.Local, []byte("aaaa"))
	outer := vm.Save()
	vm.PutString(s, []byte("bbbb"))
	inner := vm.Save()
	vm.PutString(s, []byte("cccc"))
	_ = inner

	if err := vm.Restore(outer); err != nil {
		t.Fatal(err)
	}
	got, err := vm.GetString(s)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte("aaaa")) {
		t.Fatalf("expected outer restore to undo both mutations, got %q", got)
	}
}

func TestDictPutRejectsLocalIntoGlobal(t *testing.T) {
	vm := New()
	gd := vm.NewDict(object.Global, 4)
	local := vm.NewStringFrom(object.Local, []byte("x"))
	key := object.NameObject(1, false)
	if err := vm.DictPut(gd, key, local); err == nil {
		t.Fatal("expected invalidaccess storing a local composite into a global dict")
	}
}

func TestArrayPutAndGetRoundTrip(t *testing.T) {
	vm := New()
	a := vm.NewArray(object.Local, 3)
	if err := vm.PutArray(a, 1, object.NewInt(42)); err != nil {
		t.Fatal(err)
	}
	elems, err := vm.GetArray(a)
	if err != nil {
		t.Fatal(err)
	}
	if elems[1].Int64() != 42 {
		t.Fatalf("expected 42, got %v", elems[1].Int64())
	}
}

func TestReadOnlyStringRejectsPut(t *testing.T) {
	vm := New()
	s := vm.NewStringFrom(object.Local, []byte("abc"))
	s = s.WithAccess(object.AccessReadOnly)
	if err := vm.PutString(s, []byte("xyz")); err == nil {
		t.Fatal("expected invalidaccess on read-only string")
	}
}
