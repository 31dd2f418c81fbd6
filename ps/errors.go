package ps

import (
	"github.com/pkg/errors"

	"github.com/gopostscript/postforge/internal/dispatch"
	"github.com/gopostscript/postforge/internal/estack"
	"github.com/gopostscript/postforge/internal/vmem"
)

// classify maps the plain Go sentinel errors the lower layers return
// directly (estack.OperandStack/DictStack underflow, dictionary-lookup
// failure, internal/vmem's access/restore/type guards) onto the
// PostScript error taxonomy, so that every error reaching recover() in
// scan.go -- whether an internal/ops operator already wrapped it with
// dispatch.New or not -- can be handed to errordict uniformly, per
// spec.md §5. Errors internal/ops already wraps itself pass through
// classify unchanged (the type switch below only matches the raw
// sentinels, not *dispatch.PostScriptError).
func classify(err error) *dispatch.PostScriptError {
	if perr, ok := err.(*dispatch.PostScriptError); ok {
		return perr
	}
	switch {
	case errors.Is(err, estack.ErrStackUnderflow):
		return dispatch.Wrap(dispatch.StackUnderflow, "", err)
	case errors.Is(err, estack.ErrDictStackUnderflow):
		return dispatch.Wrap(dispatch.DictStackUnderflow, "", err)
	case errors.Is(err, estack.ErrUndefined):
		return dispatch.Wrap(dispatch.Undefined, "", err)
	case errors.Is(err, vmem.ErrInvalidAccess):
		return dispatch.Wrap(dispatch.InvalidAccess, "", err)
	case errors.Is(err, vmem.ErrInvalidRestore):
		return dispatch.Wrap(dispatch.InvalidRestore, "", err)
	case errors.Is(err, vmem.ErrTypeCheck):
		return dispatch.Wrap(dispatch.TypeCheck, "", err)
	default:
		return nil
	}
}
