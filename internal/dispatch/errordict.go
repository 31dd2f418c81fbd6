package dispatch

import (
	"github.com/gopostscript/postforge/internal/estack"
	"github.com/gopostscript/postforge/internal/object"
)

// Handler looks up and invokes the errordict procedure bound to a
// PostScriptError's Kind, per spec.md §5 "errordict is looked up
// dynamically on each error" (an Open Question resolved in DESIGN.md: a
// user program may redefine individual errordict entries at any time, so
// the lookup is repeated per error rather than cached at startup).
type Handler struct {
	m           *Machine
	nameForKind map[Kind]object.Object
}

// Machine is the subset of estack.Machine the error handler needs: access
// to the dictionary stack (to find errordict, which a program may shadow)
// and the ability to run the recovery procedure.
type Machine = estack.Machine

// NewHandler creates a Handler bound to the interned Name Objects for each
// error Kind (populated once at VM bootstrap, since error names never
// change). errordict itself is re-resolved by name on every Handle call so
// that a program redefining `errordict` takes effect immediately.
func NewHandler(m *Machine, names map[Kind]object.Object) *Handler {
	return &Handler{m: m, nameForKind: names}
}

// Handle looks up errordict (by re-walking the dictionary stack under the
// fixed key each time, per the Open Question above) and runs the procedure
// bound to err.Kind. Nothing is pushed for the procedure: the failing
// operator's name is not placed on the operand stack, and no `$error`
// dictionary is maintained. Returns the lookup error if errordict cannot be
// found, err itself if errordict has no entry for err.Kind, and otherwise
// whatever the procedure's run returns.
func (h *Handler) Handle(errordictKey object.Object, err *PostScriptError) error {
	dictObj, lookupErr := h.m.Dicts.Lookup(errordictKey)
	if lookupErr != nil {
		return lookupErr
	}
	d, derr := h.m.VM.Dict(dictObj)
	if derr != nil {
		return derr
	}
	nameObj, ok := h.nameForKind[err.Kind]
	if !ok {
		return err
	}
	proc, ok := d.Get(nameObj)
	if !ok {
		return err
	}
	return h.m.Run(proc)
}
