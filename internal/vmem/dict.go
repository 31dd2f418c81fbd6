package vmem

import (
	"math"

	"github.com/gopostscript/postforge/internal/object"
)

// dictKey turns an Object into a comparable Go value suitable for map
// lookup: simple objects key on their value, composites key on identity
// (origin+handle), matching PostScript dictionary key equality (spec.md §3
// "Name"/`eq`).
type dictKey struct {
	tag    object.Tag
	num    uint64
	handle uint64
	origin object.Origin
}

func keyOf(o object.Object) dictKey {
	switch o.Tag {
	case object.Int, object.Real:
		return dictKey{tag: object.Int, num: math.Float64bits(o.Float64())}
	case object.Bool:
		n := uint64(0)
		if o.Bool() {
			n = 1
		}
		return dictKey{tag: object.Bool, num: n}
	case object.Name:
		return dictKey{tag: object.Name, handle: o.Handle}
	default:
		return dictKey{tag: o.Tag, handle: o.Handle, origin: o.Attr.Origin}
	}
}

// Dict is an insertion-ordered PostScript dictionary, per spec.md §3.5 and
// §4.5 dict operators.
type Dict struct {
	Access   object.Access
	Capacity int // hint from the `dict` operator's size argument; 0 = unbounded
	order    []object.Object
	vals     []object.Object
	index    map[dictKey]int
}

// NewDict creates an empty dictionary with the given capacity hint.
func NewDict(capacity int) *Dict {
	return &Dict{Capacity: capacity, index: make(map[dictKey]int)}
}

func (d *Dict) clone() Value {
	c := &Dict{Access: d.Access, Capacity: d.Capacity, index: make(map[dictKey]int, len(d.index))}
	c.order = append([]object.Object(nil), d.order...)
	c.vals = append([]object.Object(nil), d.vals...)
	for k, v := range d.index {
		c.index[k] = v
	}
	return c
}

// Len returns the number of entries currently defined.
func (d *Dict) Len() int { return len(d.order) }

// Get looks up key, per `get`/`load`.
func (d *Dict) Get(key object.Object) (object.Object, bool) {
	i, ok := d.index[keyOf(key)]
	if !ok {
		return object.Object{}, false
	}
	return d.vals[i], true
}

// Put defines or redefines key, per `put`/`def`. It never shrinks or grows
// Capacity; Capacity is advisory bookkeeping for `dict`'s size hint, not an
// enforced ceiling -- this implementation lets dictionaries grow past their
// declared capacity rather than raising a dictfull error, a deliberate
// simplification recorded in DESIGN.md.
func (d *Dict) Put(key, val object.Object) {
	k := keyOf(key)
	if i, ok := d.index[k]; ok {
		d.vals[i] = val
		return
	}
	d.index[k] = len(d.order)
	d.order = append(d.order, key)
	d.vals = append(d.vals, val)
}

// Delete removes key, per `undef`. No-op if absent.
func (d *Dict) Delete(key object.Object) {
	k := keyOf(key)
	i, ok := d.index[k]
	if !ok {
		return
	}
	delete(d.index, k)
	d.order = append(d.order[:i], d.order[i+1:]...)
	d.vals = append(d.vals[:i], d.vals[i+1:]...)
	for kk, idx := range d.index {
		if idx > i {
			d.index[kk] = idx - 1
		}
	}
}

// Keys returns the defined keys in insertion order, for `forall`.
func (d *Dict) Keys() []object.Object { return d.order }

// Each calls fn for every (key, value) pair in insertion order, stopping
// early if fn returns false.
func (d *Dict) Each(fn func(key, val object.Object) bool) {
	for i, k := range d.order {
		if !fn(k, d.vals[i]) {
			return
		}
	}
}
