// Package ps assembles the language core -- tokeniser, stack machine,
// operator library, VM memory model, error dispatch -- into a single
// Interpreter, the way vm.New assembles an ngaro vm.Instance from Options.
// It owns the one piece none of those packages own by themselves: the
// top-level scan/execute loop, and the `{ ... }` procedure-construction
// buffer that defers execution of everything between a matching pair of
// braces (spec.md §4.2/§4.3).
package ps

import (
	"io"

	"github.com/pkg/errors"

	"github.com/gopostscript/postforge/displist"
	"github.com/gopostscript/postforge/internal/bytestream"
	"github.com/gopostscript/postforge/internal/dispatch"
	"github.com/gopostscript/postforge/internal/estack"
	"github.com/gopostscript/postforge/internal/names"
	"github.com/gopostscript/postforge/internal/object"
	"github.com/gopostscript/postforge/internal/ops"
	"github.com/gopostscript/postforge/internal/vmem"
)

// Option configures an Interpreter at construction time.
type Option func(*Interpreter) error

// DisplayList supplies an alternate internal/ops.DisplayListSink (e.g. a
// test double, or a recorder that forwards straight to a rasteriser)
// instead of the default *displist.List.
func DisplayList(sink ops.DisplayListSink) Option {
	return func(ip *Interpreter) error { ip.sink = sink; return nil }
}

// DictCapacity overrides the starting capacity hint for systemdict and
// userdict (advisory only, per internal/vmem.Dict.Put); errordict is sized
// to the number of error kinds.
func DictCapacity(n int) Option {
	return func(ip *Interpreter) error {
		if n <= 0 {
			return errors.New("ps: DictCapacity must be positive")
		}
		ip.dictCapacity = n
		return nil
	}
}

// Interpreter is one PostScript execution context: one VM, one Machine,
// one display list, per spec.md §1's "language core" scope. It has no
// notion of files, fonts, images, or devices -- those are out of scope
// (spec.md §1 Non-goals) and belong to whatever embeds this package.
type Interpreter struct {
	vm      *vmem.VM
	Machine *estack.Machine
	names   *names.Table
	sink    ops.DisplayListSink
	handler *dispatch.Handler

	systemdict object.Object
	userdict   object.Object
	errordict  object.Object

	dictCapacity int

	// builders holds one slice per currently-open `{`: tokens scanned
	// while len(builders) > 0 are appended to the innermost slice instead
	// of being executed, per spec.md §4.2 "procedures are not executed
	// while being scanned".
	builders [][]object.Object
}

// New constructs an Interpreter with a freshly bootstrapped systemdict.
func New(opts ...Option) (*Interpreter, error) {
	ip := &Interpreter{
		vm:           vmem.New(),
		names:        names.New(),
		dictCapacity: 200,
	}
	ip.sink = displist.New()
	for _, opt := range opts {
		if err := opt(ip); err != nil {
			return nil, err
		}
	}

	ip.systemdict = ip.vm.NewDict(object.Global, ip.dictCapacity)
	ip.Machine = estack.NewMachine(ip.vm, ip.systemdict)

	r := ops.NewRegistry(ip.names)
	ops.RegisterStack(r)
	ops.RegisterArithmetic(r)
	ops.RegisterRelational(r)
	ops.RegisterControl(r)
	ops.RegisterConvert(r)
	ops.RegisterArray(r)
	ops.RegisterDict(r)
	ops.RegisterString(r)
	ops.RegisterVM(r)
	ops.RegisterPath(r)
	ops.RegisterStrokeAndInside(r, ip.sink)
	ops.RegisterColor(r)
	ops.RegisterAccess(r)
	ops.RegisterMisc(r)
	ops.RegisterUserPath(r, ip.sink)
	if err := r.Install(ip.Machine, ip.systemdict); err != nil {
		return nil, err
	}

	ip.userdict = ip.vm.NewDict(object.Local, ip.dictCapacity)
	if err := ip.vm.DictPut(ip.systemdict, ip.name("userdict", false), ip.userdict); err != nil {
		return nil, err
	}
	if err := ip.vm.DictPut(ip.systemdict, ip.name("systemdict", false), ip.systemdict); err != nil {
		return nil, err
	}
	ip.Machine.Dicts.Push(ip.userdict)

	ip.errordict = ip.vm.NewDict(object.Global, len(kindNames))
	if err := ip.vm.DictPut(ip.systemdict, ip.name("errordict", false), ip.errordict); err != nil {
		return nil, err
	}
	ip.handler = dispatch.NewHandler(ip.Machine, ip.kindToName())

	// `true`, `false`, and `null` are plain literal bindings, not
	// operators: looking the name up pushes the value itself, per PLRM.
	for n, v := range map[string]object.Object{
		"true": object.NewBool(true), "false": object.NewBool(false), "null": object.NullObject,
	} {
		if err := ip.vm.DictPut(ip.systemdict, ip.name(n, false), v); err != nil {
			return nil, err
		}
	}

	return ip, nil
}

// kindNames lists every dispatch.Kind in declaration order, used both to
// size errordict and to build the Kind->Name table NewHandler needs.
var kindNames = []dispatch.Kind{
	dispatch.DictFull, dispatch.DictStackOverflow, dispatch.DictStackUnderflow,
	dispatch.ExecStackOverflow, dispatch.ExecStackUnderflow, dispatch.FileNotFound,
	dispatch.InvalidAccess, dispatch.InvalidExit, dispatch.InvalidFileAccess,
	dispatch.InvalidFont, dispatch.InvalidRestore, dispatch.IOError,
	dispatch.LimitCheck, dispatch.NoCurrentPoint, dispatch.RangeCheck,
	dispatch.StackOverflow, dispatch.StackUnderflow, dispatch.SyntaxError,
	dispatch.TimeoutErr, dispatch.TypeCheck, dispatch.Undefined,
	dispatch.UndefinedFileName, dispatch.UndefinedResource, dispatch.UndefinedResult,
	dispatch.UnmatchedMark, dispatch.VMError,
}

func (ip *Interpreter) kindToName() map[dispatch.Kind]object.Object {
	m := make(map[dispatch.Kind]object.Object, len(kindNames))
	for _, k := range kindNames {
		m[k] = ip.name(k.Name(), false)
	}
	return m
}

func (ip *Interpreter) name(s string, executable bool) object.Object {
	return object.NameObject(ip.names.Intern(s), executable)
}

// VM exposes the underlying memory model, for callers that need to inspect
// VM state directly (tests, a host embedding this package).
func (ip *Interpreter) VM() *vmem.VM { return ip.vm }

// DisplayList returns the sink passed via DisplayList, or the default
// *displist.List if none was supplied -- nil if a non-*displist.List sink
// was installed.
func (ip *Interpreter) DisplayList() *displist.List {
	l, _ := ip.sink.(*displist.List)
	return l
}

// Define binds key=val directly in userdict, a convenience for embedding
// code that wants to pre-seed names before running a program (e.g.
// exposing host callbacks as Operator Objects).
func (ip *Interpreter) Define(key string, val object.Object) error {
	return ip.vm.DictPut(ip.userdict, ip.name(key, false), val)
}

// ExecString runs src to completion as a sequence of top-level PostScript
// tokens, per spec.md §4.2/§4.3. A `quit` anywhere in src stops the loop
// and ExecString returns nil (quitting is normal completion, not failure);
// any PostScript-level error that errordict's handler does not itself
// recover from is returned to the caller.
func (ip *Interpreter) ExecString(src string) error {
	return ip.exec(bytestream.NewBytes([]byte(src)))
}

// Exec runs r to completion the same way ExecString does.
func (ip *Interpreter) Exec(r io.Reader) error {
	st := bytestream.New(r)
	defer st.Close()
	return ip.exec(st)
}
