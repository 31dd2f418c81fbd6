// Package dispatch implements the PostScript error taxonomy and errordict
// handling of spec.md §5: the fixed set of error names, the PostScriptError
// type operators raise, and dynamic errordict lookup/invocation per error.
package dispatch

import "fmt"

// Kind enumerates the 26 standard PostScript error names, per spec.md §5.
type Kind uint8

const (
	DictFull Kind = iota
	DictStackOverflow
	DictStackUnderflow
	ExecStackOverflow
	ExecStackUnderflow
	FileNotFound
	InvalidAccess
	InvalidExit
	InvalidFileAccess
	InvalidFont
	InvalidRestore
	IOError
	LimitCheck
	NoCurrentPoint
	RangeCheck
	StackOverflow
	StackUnderflow
	SyntaxError
	TimeoutErr
	TypeCheck
	Undefined
	UndefinedFileName
	UndefinedResource
	UndefinedResult
	UnmatchedMark
	VMError
)

var names = [...]string{
	"dictfull",
	"dictstackoverflow",
	"dictstackunderflow",
	"execstackoverflow",
	"execstackunderflow",
	"filenotfound",
	"invalidaccess",
	"invalidexit",
	"invalidfileaccess",
	"invalidfont",
	"invalidrestore",
	"ioerror",
	"limitcheck",
	"nocurrentpoint",
	"rangecheck",
	"stackoverflow",
	"stackunderflow",
	"syntaxerror",
	"timeout",
	"typecheck",
	"undefined",
	"undefinedfilename",
	"undefinedresource",
	"undefinedresult",
	"unmatchedmark",
	"VMerror",
}

// Name returns the PostScript error name for k.
func (k Kind) Name() string {
	if int(k) < len(names) {
		return names[k]
	}
	return "unknownerror"
}

// PostScriptError is the error type every operator raises for a
// PostScript-level error condition (as opposed to a Go-internal bug),
// carrying the offending operator's name, which Error includes in its
// message.
type PostScriptError struct {
	Kind    Kind
	Op      string
	Wrapped error
}

func (e *PostScriptError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s in %s", e.Kind.Name(), e.Op)
	}
	return e.Kind.Name()
}

func (e *PostScriptError) Unwrap() error { return e.Wrapped }

// New constructs a PostScriptError.
func New(k Kind, op string) *PostScriptError {
	return &PostScriptError{Kind: k, Op: op}
}

// Wrap attaches op and a Go error to a PostScriptError of the given Kind.
func Wrap(k Kind, op string, err error) *PostScriptError {
	return &PostScriptError{Kind: k, Op: op, Wrapped: err}
}
