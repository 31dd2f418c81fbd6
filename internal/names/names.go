// Package names interns PostScript name strings into the small integer ids
// shared by every Name Object, operator binding, and dictionary key in the
// interpreter, per spec.md §4.2 "System name table". The fixed sysnames
// table seeds the low ids so binary system-name references (spec.md §6)
// line up with this table from process start; any name not in that
// table is assigned the next free id above sysnames.Count, the same
// append-only growth the teacher's vm/opcodes.go reverse-lookup map uses
// for user-defined labels.
package names

import "github.com/gopostscript/postforge/internal/sysnames"

// Table is the process-wide name interner, satisfying internal/ops.Names.
type Table struct {
	byName map[string]uint64
	byID   map[uint64]string
	next   uint64
}

// New seeds a Table from the fixed system name table.
func New() *Table {
	t := &Table{
		byName: make(map[string]uint64),
		byID:   make(map[uint64]string),
		next:   sysnames.Count,
	}
	for i, n := range sysnames.Table {
		if n == "" {
			continue
		}
		t.byName[n] = uint64(i)
		t.byID[uint64(i)] = n
	}
	return t
}

// Intern returns the id bound to name, allocating a fresh one if name has
// never been seen.
func (t *Table) Intern(name string) uint64 {
	if id, ok := t.byName[name]; ok {
		return id
	}
	id := t.next
	t.next++
	t.byName[name] = id
	t.byID[id] = name
	return id
}

// Name returns the string interned under id, if any.
func (t *Table) Name(id uint64) (string, bool) {
	n, ok := t.byID[id]
	return n, ok
}
