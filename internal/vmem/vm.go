package vmem

import (
	"github.com/pkg/errors"

	"github.com/gopostscript/postforge/internal/object"
)

// ErrInvalidAccess is returned when an operation violates an Object's
// access attribute (spec.md §3 "Access attributes").
var ErrInvalidAccess = errors.New("invalidaccess")

// ErrInvalidRestore is returned when an operation references a composite
// that was allocated after the save point an enclosing restore rewound to,
// per spec.md §8 "Invalid restore detection".
var ErrInvalidRestore = errors.New("invalidrestore")

// ErrTypeCheck is returned when an Object's tag does not match the storage
// kind the accessor expected.
var ErrTypeCheck = errors.New("typecheck")

// saveLevel is one outstanding save() call's undo information.
type saveLevel struct {
	timestamp uint64
	jobLevel  bool

	// non-job-level (COW): populated lazily, the first time a cell is
	// mutated after this save, with that cell's pre-mutation value.
	localSnap map[uint64]Value

	// job-level (outermost save): a full deep copy taken eagerly, since
	// a job-level restore also resets the global VM, per spec.md §3.
	localFull  map[uint64]*cell
	globalFull map[uint64]*cell
}

// VM owns the local and global composite address spaces and the save
// stack, per spec.md §3 and §8.
type VM struct {
	Local  *space
	Global *space

	epoch      uint64
	saveStack  []*saveLevel
	saveTokens map[uint64]int // save timestamp -> index into saveStack, for O(1) Restore lookup
}

// New creates a VM with empty local and global spaces at epoch 0 (before
// any save).
func New() *VM {
	return &VM{
		Local:      newSpace(object.Local),
		Global:     newSpace(object.Global),
		saveTokens: make(map[uint64]int),
	}
}

// Save pushes a new save level and returns its Save Object, per spec.md §4.4
// `save`. The outermost (job-level) save snapshots both spaces in full;
// nested saves record copy-on-write snapshots of the local space only --
// global-VM mutations are not undone by a nested restore, matching
// PostScript's local/global save semantics.
func (vm *VM) Save() object.Object {
	vm.epoch++
	lvl := &saveLevel{timestamp: vm.epoch}
	if len(vm.saveStack) == 0 {
		lvl.jobLevel = true
		lvl.localFull = vm.Local.snapshotAll()
		lvl.globalFull = vm.Global.snapshotAll()
	} else {
		lvl.localSnap = make(map[uint64]Value)
	}
	vm.saveTokens[lvl.timestamp] = len(vm.saveStack)
	vm.saveStack = append(vm.saveStack, lvl)
	return object.CompositeRef(object.Save, lvl.timestamp, object.Local)
}

// Restore rewinds the VM to the state captured by save, discarding any
// saves nested within it, per spec.md §4.4 `restore`.
func (vm *VM) Restore(save object.Object) error {
	if save.Tag != object.Save {
		return errors.Wrap(ErrTypeCheck, "restore")
	}
	idx, ok := vm.saveTokens[save.Handle]
	if !ok {
		return errors.Wrap(ErrInvalidRestore, "restore: stale save object")
	}
	lvl := vm.saveStack[idx]

	if lvl.jobLevel {
		vm.Local.restoreFull(lvl.localFull)
		vm.Global.restoreFull(lvl.globalFull)
	} else {
		// apply the closest-to-idx snapshot for each handle touched at or
		// above idx, so the final value is exactly what it was when idx's
		// save was taken: walking upward from idx, the first snapshot found
		// for a handle is the one recorded closest to idx's save.
		applied := make(map[uint64]bool)
		for i := idx; i < len(vm.saveStack); i++ {
			for h, v := range vm.saveStack[i].localSnap {
				if applied[h] {
					continue
				}
				if c, ok := vm.Local.get(h); ok {
					c.value = v
				}
				applied[h] = true
			}
		}
	}

	for i := idx; i < len(vm.saveStack); i++ {
		delete(vm.saveTokens, vm.saveStack[i].timestamp)
	}
	vm.saveStack = vm.saveStack[:idx]
	vm.epoch = lvl.timestamp - 1
	return nil
}

// recordMutation records, the first time a handle is touched after a save,
// its pre-mutation value in every active non-job-level save level's
// snapshot map (copy-on-write, spec.md §8 "save/restore" performance note).
// Job-level saves already hold a full copy and need no per-mutation
// bookkeeping.
func (vm *VM) recordMutation(h uint64, current Value) {
	for _, lvl := range vm.saveStack {
		if lvl.jobLevel {
			continue
		}
		if _, already := lvl.localSnap[h]; already {
			continue
		}
		lvl.localSnap[h] = current.clone()
	}
}

// checkLive returns ErrInvalidRestore if o's composite was allocated after
// the current save watermark permits (i.e. it belonged to a save frame
// since discarded by Restore), per spec.md §8.
func (vm *VM) checkLive(o object.Object) error {
	if !o.IsComposite() || o.Tag == object.Save {
		return nil
	}
	sp := vm.spaceOf(o.Attr.Origin)
	c, ok := sp.get(o.Handle)
	if !ok {
		return errors.Wrap(ErrInvalidRestore, "reference to freed composite")
	}
	if o.Attr.Origin == object.Local && c.created > vm.epoch {
		return errors.Wrap(ErrInvalidRestore, "reference allocated after current save point")
	}
	return nil
}

// SaveDepth reports the number of outstanding save levels, for `vmstatus`.
func (vm *VM) SaveDepth() int { return len(vm.saveStack) }

func (vm *VM) spaceOf(origin object.Origin) *space {
	if origin == object.Global {
		return vm.Global
	}
	return vm.Local
}

// NewString allocates a String Object of length n in the given space.
func (vm *VM) NewString(origin object.Origin, n int) object.Object {
	h := vm.spaceOf(origin).alloc(vm.epoch, make(StringVal, n))
	return object.CompositeView(object.String, h, origin, 0, n)
}

// NewStringFrom allocates a String Object initialized from data.
func (vm *VM) NewStringFrom(origin object.Origin, data []byte) object.Object {
	v := make(StringVal, len(data))
	copy(v, data)
	h := vm.spaceOf(origin).alloc(vm.epoch, v)
	return object.CompositeView(object.String, h, origin, 0, len(data))
}

// NewArray allocates an Array Object of length n, every slot null.
func (vm *VM) NewArray(origin object.Origin, n int) object.Object {
	h := vm.spaceOf(origin).alloc(vm.epoch, make(ArrayVal, n))
	return object.CompositeView(object.Array, h, origin, 0, n)
}

// NewArrayFrom allocates an Array Object initialized from elems.
func (vm *VM) NewArrayFrom(origin object.Origin, elems []object.Object) object.Object {
	v := make(ArrayVal, len(elems))
	copy(v, elems)
	h := vm.spaceOf(origin).alloc(vm.epoch, v)
	return object.CompositeView(object.Array, h, origin, 0, len(elems))
}

// NewDict allocates a Dict Object with the given capacity hint.
func (vm *VM) NewDict(origin object.Origin, capacity int) object.Object {
	h := vm.spaceOf(origin).alloc(vm.epoch, NewDict(capacity))
	return object.CompositeRef(object.Dict, h, origin)
}

// GetString returns the bytes a String Object views.
func (vm *VM) GetString(o object.Object) ([]byte, error) {
	if err := vm.checkLive(o); err != nil {
		return nil, err
	}
	if o.Tag != object.String {
		return nil, errors.Wrap(ErrTypeCheck, "getstring")
	}
	c, ok := vm.spaceOf(o.Attr.Origin).get(o.Handle)
	if !ok {
		return nil, errors.Wrap(ErrInvalidRestore, "getstring")
	}
	sv := c.value.(StringVal)
	return sv[o.Start() : o.Start()+o.Length()], nil
}

// PutString overwrites the view's bytes in place, per `putinterval`/`copy`
// destructive string ops. Mutating any composite is a write, so it triggers
// the copy-on-write snapshot for every save level still outstanding.
func (vm *VM) PutString(o object.Object, data []byte) error {
	if err := vm.checkLive(o); err != nil {
		return err
	}
	if o.Tag != object.String {
		return errors.Wrap(ErrTypeCheck, "putstring")
	}
	if o.Attr.Access == object.AccessReadOnly || o.Attr.Access == object.AccessNone {
		return errors.Wrap(ErrInvalidAccess, "putstring")
	}
	sp := vm.spaceOf(o.Attr.Origin)
	c, ok := sp.get(o.Handle)
	if !ok {
		return errors.Wrap(ErrInvalidRestore, "putstring")
	}
	vm.recordMutation(o.Handle, c.value)
	sv := c.value.(StringVal)
	if len(data) > o.Length() {
		return errors.Wrap(ErrTypeCheck, "putstring: data longer than view")
	}
	copy(sv[o.Start():o.Start()+o.Length()], data)
	return nil
}

// GetArray returns the Objects an Array or PackedArray view covers.
func (vm *VM) GetArray(o object.Object) ([]object.Object, error) {
	if err := vm.checkLive(o); err != nil {
		return nil, err
	}
	if o.Tag != object.Array && o.Tag != object.PackedArray {
		return nil, errors.Wrap(ErrTypeCheck, "getarray")
	}
	c, ok := vm.spaceOf(o.Attr.Origin).get(o.Handle)
	if !ok {
		return nil, errors.Wrap(ErrInvalidRestore, "getarray")
	}
	av := c.value.(ArrayVal)
	return av[o.Start() : o.Start()+o.Length()], nil
}

// PutArray overwrites element i (relative to the view) of an Array, per
// `put`. Storing a Local composite into a Global array is rejected, per
// spec.md §3 "local-into-global restriction".
func (vm *VM) PutArray(o object.Object, i int, val object.Object) error {
	if err := vm.checkLive(o); err != nil {
		return err
	}
	if o.Tag != object.Array && o.Tag != object.PackedArray {
		return errors.Wrap(ErrTypeCheck, "putarray")
	}
	if o.Attr.Access == object.AccessReadOnly || o.Attr.Access == object.AccessNone {
		return errors.Wrap(ErrInvalidAccess, "putarray")
	}
	if o.Attr.Origin == object.Global && val.IsComposite() && val.Attr.Origin == object.Local {
		return errors.Wrap(ErrInvalidAccess, "putarray: local composite into global array")
	}
	sp := vm.spaceOf(o.Attr.Origin)
	c, ok := sp.get(o.Handle)
	if !ok {
		return errors.Wrap(ErrInvalidRestore, "putarray")
	}
	vm.recordMutation(o.Handle, c.value)
	av := c.value.(ArrayVal)
	av[o.Start()+i] = val
	return nil
}

// Dict returns the *Dict backing a Dict Object.
func (vm *VM) Dict(o object.Object) (*Dict, error) {
	if err := vm.checkLive(o); err != nil {
		return nil, err
	}
	if o.Tag != object.Dict {
		return nil, errors.Wrap(ErrTypeCheck, "dict")
	}
	c, ok := vm.spaceOf(o.Attr.Origin).get(o.Handle)
	if !ok {
		return nil, errors.Wrap(ErrInvalidRestore, "dict")
	}
	return c.value.(*Dict), nil
}

// DictPut defines key=val in o, recording the copy-on-write snapshot and
// rejecting local-into-global stores, per `def`/`put` on dictionaries.
func (vm *VM) DictPut(o object.Object, key, val object.Object) error {
	d, err := vm.Dict(o)
	if err != nil {
		return err
	}
	if o.Attr.Access == object.AccessReadOnly || o.Attr.Access == object.AccessNone {
		return errors.Wrap(ErrInvalidAccess, "dictput")
	}
	if o.Attr.Origin == object.Global && val.IsComposite() && val.Attr.Origin == object.Local {
		return errors.Wrap(ErrInvalidAccess, "dictput: local composite into global dict")
	}
	vm.recordMutation(o.Handle, d)
	d.Put(key, val)
	return nil
}
