// Package object implements the tagged Object value model shared by every
// other piece of the interpreter: the tokeniser produces Objects, the stack
// machine operates on Objects, and the VM owns the backing storage that
// composite Objects reference.
package object

import "math"

// Tag identifies the kind of value an Object holds.
type Tag uint8

// Object tags, per spec.md §3.
const (
	Null Tag = iota
	Int
	Real
	Bool
	Mark
	Name
	String
	Array
	PackedArray
	Dict
	Operator
	File
	Save
	GState
	FontID
)

func (t Tag) String() string {
	switch t {
	case Null:
		return "nulltype"
	case Int:
		return "integertype"
	case Real:
		return "realtype"
	case Bool:
		return "booleantype"
	case Mark:
		return "marktype"
	case Name:
		return "nametype"
	case String:
		return "stringtype"
	case Array:
		return "arraytype"
	case PackedArray:
		return "packedarraytype"
	case Dict:
		return "dicttype"
	case Operator:
		return "operatortype"
	case File:
		return "filetype"
	case Save:
		return "savetype"
	case GState:
		return "gstatetype"
	case FontID:
		return "fonttype"
	default:
		return "unknowntype"
	}
}

// Access is the object access attribute.
type Access uint8

const (
	AccessUnlimited Access = iota
	AccessReadOnly
	AccessExecuteOnly
	AccessNone
)

// Origin is the VM address space a composite was allocated in.
type Origin uint8

const (
	Local Origin = iota
	Global
)

// Attr bundles the literal/executable, access, and VM-origin attributes
// that every Object carries, per spec.md §3.
type Attr struct {
	Executable bool
	Access     Access
	Origin     Origin
}

// Object is a small, comparable, tagged value. Composite objects (String,
// Array, PackedArray, Dict) do not embed their backing storage inline: Handle
// is an index into an arena owned by the VM (internal/vmem), so that copies
// of an Object share storage exactly as spec.md §3 "Composite sharing"
// requires.
type Object struct {
	Tag    Tag
	Attr   Attr
	num    uint64 // Int: int64 bits. Real: float64 bits. Bool: 0/1.
	Handle uint64 // composites: arena handle. Name: interned id. Operator: opcode id.
}

// NewInt constructs an integer Object.
func NewInt(v int64) Object {
	return Object{Tag: Int, num: uint64(v)}
}

// NewReal constructs a real Object.
func NewReal(v float64) Object {
	return Object{Tag: Real, num: math.Float64bits(v)}
}

// NewBool constructs a boolean Object.
func NewBool(v bool) Object {
	var n uint64
	if v {
		n = 1
	}
	return Object{Tag: Bool, num: n}
}

// NullObject is the canonical null Object.
var NullObject = Object{Tag: Null}

// MarkObject is the canonical mark Object.
var MarkObject = Object{Tag: Mark}

// Int64 returns the integer value; valid only when Tag == Int.
func (o Object) Int64() int64 { return int64(o.num) }

// Float64 returns the Object as a float64, valid for both Int and Real.
func (o Object) Float64() float64 {
	if o.Tag == Int {
		return float64(int64(o.num))
	}
	return math.Float64frombits(o.num)
}

// Bool returns the boolean value; valid only when Tag == Bool.
func (o Object) Bool() bool { return o.num != 0 }

// IsNumber reports whether the Object is Int or Real.
func (o Object) IsNumber() bool { return o.Tag == Int || o.Tag == Real }

// IsComposite reports whether the Object's value lives in backing storage
// owned by the VM arena (String, Array, PackedArray, Dict, GState, File,
// Save).
func (o Object) IsComposite() bool {
	switch o.Tag {
	case String, Array, PackedArray, Dict, GState, File, Save:
		return true
	default:
		return false
	}
}

// WithExecutable returns a copy of o with the executable attribute set.
func (o Object) WithExecutable(exec bool) Object {
	o.Attr.Executable = exec
	return o
}

// WithAccess returns a copy of o with access lowered to acc, refusing to
// raise access (spec.md §8 "Access monotonicity").
func (o Object) WithAccess(acc Access) Object {
	if acc > o.Attr.Access {
		o.Attr.Access = acc
	}
	return o
}

// WithOrigin returns a copy of o tagged with the given VM origin.
func (o Object) WithOrigin(origin Origin) Object {
	o.Attr.Origin = origin
	return o
}

// NameObject constructs a name Object (interned id supplied by the caller's
// name table), literal by default.
func NameObject(id uint64, executable bool) Object {
	return Object{Tag: Name, Handle: id, Attr: Attr{Executable: executable}}
}

// CompositeRef constructs a composite Object referencing the whole of the
// arena-backed value at handle.
func CompositeRef(tag Tag, handle uint64, origin Origin) Object {
	return Object{Tag: tag, Handle: handle, Attr: Attr{Origin: origin}}
}

// CompositeView constructs a composite Object referencing a (start,length)
// window into the arena-backed value at handle, per spec.md §3 "Composite
// sharing": `getinterval` and PostScript substrings/subarrays are views
// sharing the same backing store as the object they were taken from, so a
// String or Array Object packs its view bounds into num (otherwise unused
// for composites) rather than copying. Dict and the other composite tags
// have no sub-range notion and always view the whole object.
func CompositeView(tag Tag, handle uint64, origin Origin, start, length int) Object {
	o := CompositeRef(tag, handle, origin)
	o.num = uint64(uint32(start))<<32 | uint64(uint32(length))
	return o
}

// Start returns the view's starting index into its backing store; 0 for
// objects constructed with CompositeRef.
func (o Object) Start() int { return int(uint32(o.num >> 32)) }

// Length returns the view's length. Only meaningful for String, Array, and
// PackedArray; other composite tags ignore it and the arena reports the
// backing store's full length directly.
func (o Object) Length() int { return int(uint32(o.num)) }

// WithView returns a copy of o narrowed to the (start,length) window,
// relative to o's own current view, per `getinterval`.
func (o Object) WithView(start, length int) Object {
	o.num = uint64(uint32(o.Start()+start))<<32 | uint64(uint32(length))
	return o
}

// Equal implements the PostScript eq semantics for simple objects: same tag
// family and same value. Names compare equal by interned id regardless of
// literal/executable, matching spec.md §3 "Name".
func Equal(a, b Object) bool {
	if a.IsNumber() && b.IsNumber() {
		return a.Float64() == b.Float64()
	}
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case Null, Mark:
		return true
	case Bool:
		return a.Bool() == b.Bool()
	case Name:
		return a.Handle == b.Handle
	default:
		return a.Handle == b.Handle
	}
}
