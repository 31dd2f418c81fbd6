package estack

import (
	"github.com/gopostscript/postforge/internal/pathbuild"
	"github.com/gopostscript/postforge/internal/stroke"
)

// Color is the flattened graphics-state color, tracked locally since the
// language core does not decode device color spaces (spec.md §1 Non-goal);
// only the RGB triple a consumer needs to render a flat fill/stroke is
// kept. Gray and CMYK setters convert into it immediately, per PLRM's
// "current color space" simplification for DeviceGray/DeviceRGB/DeviceCMYK.
type Color struct {
	R, G, B float64
}

// GState is the PostScript graphics state gsave/grestore snapshots, per
// spec.md §3 "Graphics state". Only the language-core-relevant fields are
// tracked; font/halftone/transfer-function state is out of scope (spec.md
// §1) and left to the rasteriser.
type GState struct {
	CTM    pathbuild.Matrix
	Path   *pathbuild.Path
	Clip   *pathbuild.Path
	Stroke stroke.Params
	Color  Color
}

// NewGState returns the PostScript-default graphics state: identity CTM,
// an empty path, no clip, a 1-unit butt-capped miter stroke, and black.
func NewGState() *GState {
	return &GState{
		CTM:    pathbuild.Identity(),
		Path:   pathbuild.New(),
		Stroke: stroke.Params{Width: 1, MiterLimit: 10},
	}
}

// Clone deep-copies g for gsave, per spec.md §4.5 "gsave copies the
// current path by reference"... actually PostScript gsave shares the path
// until the next path-construction op, but this implementation clones
// eagerly since internal/pathbuild.Path has no copy-on-write of its own;
// documented as a simplification in DESIGN.md.
func (g *GState) Clone() *GState {
	ng := *g
	ng.Path = g.Path.Clone()
	ng.Clip = g.Clip.Clone()
	ng.Stroke.Dash = append([]float64(nil), g.Stroke.Dash...)
	return &ng
}

// GSave pushes a copy of the current graphics state, per `gsave`.
func (m *Machine) GSave() {
	m.gstates = append(m.gstates, m.gstates[len(m.gstates)-1].Clone())
}

// GRestore pops to the previous graphics state, per `grestore`. A no-op at
// the bottom of the stack would silently discard the initial state, so
// this mirrors PostScript's actual behavior of never popping below the
// context's original gstate.
func (m *Machine) GRestore() error {
	if len(m.gstates) <= 1 {
		return nil
	}
	m.gstates = m.gstates[:len(m.gstates)-1]
	return nil
}

// GRestoreAll pops every graphics state pushed since the current save
// level began, per `grestoreall`; since this implementation does not track
// gstate depth per save level separately, it collapses to the bottom
// gstate, matching `grestoreall`'s "restore to the state gsave'd at the
// start of the current save level" intent when no nested save/gsave
// interleaving distinction is needed by the language core.
func (m *Machine) GRestoreAll() {
	m.gstates = m.gstates[:1]
}

// CurrentGState returns the top-of-stack graphics state.
func (m *Machine) CurrentGState() *GState {
	return m.gstates[len(m.gstates)-1]
}
