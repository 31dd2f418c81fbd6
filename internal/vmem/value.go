// Package vmem implements the VM memory model of spec.md §3/§8: the local
// and global composite-object address spaces, save/restore with
// copy-on-write snapshots (full deep copy at job level), invalid-restore
// detection, and dictionaries.
package vmem

import "github.com/gopostscript/postforge/internal/object"

// Value is the backing storage for one composite Object. It is one of
// StringVal, ArrayVal, or *Dict.
type Value interface {
	clone() Value
}

// StringVal backs a String Object.
type StringVal []byte

func (v StringVal) clone() Value {
	c := make(StringVal, len(v))
	copy(c, v)
	return c
}

// ArrayVal backs an Array or PackedArray Object.
type ArrayVal []object.Object

func (v ArrayVal) clone() Value {
	c := make(ArrayVal, len(v))
	copy(c, v)
	return c
}
