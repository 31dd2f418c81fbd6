// Package displist implements the recorder the language core paints
// through, per spec.md §6: a flat, append-only list of device-space fill
// records, the seam the interpreter hands off to a host rasteriser across
// (one record per `fill`/`eofill`/`stroke`/`ufill`, color-resolved; paths
// keep their curve segments). It owns no pixels and does no
// compositing; it only captures what the language core decided to paint,
// the way the teacher's vm.Image is a flat memory buffer the surrounding
// program interprets, not an opcode interpreter in its own right.
package displist

import (
	"github.com/gopostscript/postforge/internal/inside"
	"github.com/gopostscript/postforge/internal/pathbuild"
)

// Color is a flat, already-resolved RGB triple in [0,1], per spec.md §4.9
// "color is tracked only as the flat RGB the path engine hands to the
// display list".
type Color struct{ R, G, B float64 }

// Record is one painted shape, device-space, ready for a rasteriser to
// scan-convert.
type Record struct {
	Path  *pathbuild.Path
	Rule  inside.Rule
	Color Color
}

// List accumulates Records in paint order until Reset is called. No
// operator in this module calls Reset: page-boundary operators
// (`showpage`, `copypage`) are not bound.
type List struct {
	records []Record
}

// New returns an empty List.
func New() *List { return &List{} }

// Fill implements internal/ops.DisplayListSink: it records path (cloned,
// so later mutation of the current path through further path operators
// cannot retroactively change an already-recorded shape) filled under rule
// with the given flat color.
func (l *List) Fill(path *pathbuild.Path, rule inside.Rule, r, g, b float64) {
	l.records = append(l.records, Record{Path: path.Clone(), Rule: rule, Color: Color{R: r, G: g, B: b}})
}

// Records returns the recorded shapes in paint order.
func (l *List) Records() []Record { return l.records }

// Len reports the number of recorded shapes.
func (l *List) Len() int { return len(l.records) }

// Reset clears the list, for a host starting a new page.
func (l *List) Reset() { l.records = l.records[:0] }
