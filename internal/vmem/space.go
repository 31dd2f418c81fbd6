package vmem

import "github.com/gopostscript/postforge/internal/object"

// cell is one arena slot: the epoch it was allocated at (the save-stack
// depth's timestamp active at allocation time) and its current value.
type cell struct {
	created uint64
	value   Value
}

// space is one VM address space (local or global), an arena of composite
// backing values addressed by handle, per spec.md §3 "Local and global VM".
type space struct {
	origin  object.Origin
	cells   map[uint64]*cell
	nextH   uint64
}

func newSpace(origin object.Origin) *space {
	return &space{origin: origin, cells: make(map[uint64]*cell), nextH: 1}
}

func (s *space) alloc(epoch uint64, v Value) uint64 {
	h := s.nextH
	s.nextH++
	s.cells[h] = &cell{created: epoch, value: v}
	return h
}

func (s *space) get(h uint64) (*cell, bool) {
	c, ok := s.cells[h]
	return c, ok
}

// snapshotAll returns a full deep copy of every cell, for the job-level
// save (spec.md §3 "save/restore").
func (s *space) snapshotAll() map[uint64]*cell {
	out := make(map[uint64]*cell, len(s.cells))
	for h, c := range s.cells {
		out[h] = &cell{created: c.created, value: c.value.clone()}
	}
	return out
}

func (s *space) restoreFull(snap map[uint64]*cell) {
	s.cells = make(map[uint64]*cell, len(snap))
	for h, c := range snap {
		s.cells[h] = c
	}
}
