package ps

import (
	"github.com/gopostscript/postforge/internal/bytestream"
	"github.com/gopostscript/postforge/internal/dispatch"
	"github.com/gopostscript/postforge/internal/object"
	"github.com/gopostscript/postforge/internal/ops"
	"github.com/gopostscript/postforge/internal/token"
)

// exec drives the scan/execute loop over r until EOF or `quit`.
//
// Only `{`/`}` defer execution (spec.md §4.2): `[`, `]`, `<<`, and `>>` are
// ordinary systemdict operators that the tokeniser merely recognizes as
// tokens of their own instead of routing them through the general name
// scanner, so outside of a `{...}` they execute immediately exactly like
// any other name would, via the same Name-Object-then-execNext path.
func (ip *Interpreter) exec(r bytestream.Reader) error {
	sc := token.New(r)
	for {
		tok, err := sc.Next()
		if err != nil {
			if herr := ip.recover(dispatch.Wrap(dispatch.SyntaxError, "--scan--", err)); herr != nil {
				return herr
			}
			continue
		}
		if tok.Kind == token.EOF {
			if len(ip.builders) > 0 {
				return ip.recover(dispatch.New(dispatch.SyntaxError, "--eof-in-procedure--"))
			}
			return nil
		}
		if tok.Kind == token.ProcEnd && len(ip.builders) == 0 {
			if herr := ip.recover(dispatch.New(dispatch.SyntaxError, "}")); herr != nil {
				return herr
			}
			continue
		}
		obj, ok := ip.tokenObject(tok)
		if !ok {
			continue // `{` only opened a construction buffer
		}
		if err := ip.consume(obj); err != nil {
			if err == ops.ErrQuit {
				return nil
			}
			if herr := ip.recover(err); herr != nil {
				return herr
			}
		}
	}
}

// tokenObject converts one scanned Token into the Object it denotes,
// reporting ok=false for a Token that produced no Object (a bare ProcStart,
// which only opens a builder).
func (ip *Interpreter) tokenObject(tok token.Token) (object.Object, bool) {
	switch tok.Kind {
	case token.Number:
		return tok.Obj, true
	case token.StringTok:
		return ip.vm.NewStringFrom(ip.Machine.CurrentOrigin(), tok.Bytes), true
	case token.NameTok:
		return ip.name(tok.Text, !tok.Literal), true
	case token.ArrayStart:
		return ip.name("[", true), true
	case token.ArrayEnd:
		return ip.name("]", true), true
	case token.DictStart:
		return ip.name("<<", true), true
	case token.DictEnd:
		return ip.name(">>", true), true
	case token.ProcStart:
		ip.builders = append(ip.builders, nil)
		return object.Object{}, false
	case token.ProcEnd:
		return ip.closeBuilder(), true
	default:
		return object.Object{}, false
	}
}

// closeBuilder pops the innermost construction buffer and turns it into an
// executable Array Object, per spec.md §4.2 "{ ... } builds a procedure".
func (ip *Interpreter) closeBuilder() object.Object {
	if len(ip.builders) == 0 {
		return object.Object{} // not reached from exec, which reports an unmatched `}` as a syntax error first
	}
	top := len(ip.builders) - 1
	elems := ip.builders[top]
	ip.builders = ip.builders[:top]
	return ip.vm.NewArrayFrom(ip.Machine.CurrentOrigin(), elems).WithExecutable(true)
}

// consume feeds obj into a construction buffer if one is open, or executes
// it immediately at top level otherwise.
func (ip *Interpreter) consume(obj object.Object) error {
	if len(ip.builders) > 0 {
		top := len(ip.builders) - 1
		ip.builders[top] = append(ip.builders[top], obj)
		return nil
	}
	// Run drives obj (and anything it schedules: `if`, `for`, `repeat`,
	// `loop`, ...) to completion, reusing the same no-native-recursion
	// evaluator loop Run uses for an explicit procedure body, rather than
	// the ps package needing its own copy of that loop.
	wrapper := ip.vm.NewArrayFrom(ip.Machine.CurrentOrigin(), []object.Object{obj}).WithExecutable(true)
	return ip.Machine.Run(wrapper)
}

// recover hands a PostScript-level error to errordict, per spec.md §5. Only
// a *dispatch.PostScriptError is recoverable this way; anything else (a
// Go-internal error, or an error an error procedure itself raised and
// declined to handle) aborts the run.
func (ip *Interpreter) recover(err error) error {
	perr := classify(err)
	if perr == nil {
		return err
	}
	return ip.handler.Handle(ip.name("errordict", false), perr)
}
