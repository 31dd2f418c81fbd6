package names

import (
	"testing"

	"github.com/gopostscript/postforge/internal/sysnames"
)

func TestInternReusesExistingSysnameID(t *testing.T) {
	tbl := New()
	id, ok := Index(t, tbl, "add")
	if !ok {
		t.Skip("add not present in seedNames table")
	}
	got := tbl.Intern("add")
	if got != id {
		t.Fatalf("expected sysnames id %d for %q, got %d", id, "add", got)
	}
}

func Index(t *testing.T, tbl *Table, name string) (uint64, bool) {
	t.Helper()
	for id, n := range tbl.byID {
		if n == name {
			return id, true
		}
	}
	return 0, false
}

func TestInternAssignsFreshIDsAboveSysnamesForUnknownNames(t *testing.T) {
	tbl := New()
	a := tbl.Intern("myUserDefinedName")
	b := tbl.Intern("myUserDefinedName")
	if a != b {
		t.Fatalf("expected stable id across repeated Intern calls, got %d then %d", a, b)
	}
	if a < sysnames.Count {
		t.Fatalf("expected a fresh id at or above sysnames.Count (%d), got %d", sysnames.Count, a)
	}
	c := tbl.Intern("anotherUserName")
	if c == a {
		t.Fatalf("expected distinct ids for distinct names")
	}
	if name, ok := tbl.Name(a); !ok || name != "myUserDefinedName" {
		t.Fatalf("Name(%d) = %q, %v; want myUserDefinedName, true", a, name, ok)
	}
}
