package stroke

import (
	"math"

	"github.com/gopostscript/postforge/internal/pathbuild"
)

// walkDash walks the arc length of run r's piece chain applying the dash
// pattern dash (doubled if of odd length, per spec.md §4.7 step 2) starting
// offset units into the pattern, and returns one unit per "on" run. A dash
// boundary that falls inside a curveSeg piece splits the cubic at the
// correct parameter via tForLength/pathbuild.SplitCubic instead of
// degrading it to a flattened polyline, grounded on
// strokepath_algorithm.py's split_cubic/_find_cubic_t_for_length. When
// r.Closed and the walk wraps back to its own starting phase still "on",
// the trailing run is spliced onto the first run into a single closed unit
// (the "closed, fully-on" merge named in stroke.go's doc comment); a
// pattern whose first dash alone outlasts the entire ring degenerates to
// the whole ring as one closed unit.
func walkDash(r run, dash []float64, offset float64) []unit {
	d := append([]float64(nil), dash...)
	if len(d)%2 == 1 {
		d = append(d, d...)
	}
	total := 0.0
	for _, v := range d {
		total += v
	}
	if total <= 0 {
		return []unit{{Pieces: r.Pieces, Closed: r.Closed}}
	}

	off := math.Mod(offset, total)
	if off < 0 {
		off += total
	}
	idx, remaining := dashStart(d, off)
	on := idx%2 == 0
	firstOn := on

	var units []unit
	var cur []piece

	for _, pc := range r.Pieces {
		segLen := pc.length()
		if segLen <= 1e-9 {
			continue
		}
		pos := 0.0
		remainingPiece := pc
		for pos < segLen-1e-9 {
			step := remaining
			if segLen-pos < step {
				step = segLen - pos
			}
			before, after := splitPieceAtLength(remainingPiece, step, segLen-pos)
			pos += step
			remaining -= step
			if on {
				cur = append(cur, before)
			}
			remainingPiece = after
			if remaining <= 1e-9 {
				if on {
					if len(cur) > 0 {
						units = append(units, unit{Pieces: cur, Closed: false})
					}
					cur = nil
				} else {
					cur = nil
				}
				idx = (idx + 1) % len(d)
				remaining = d[idx]
				on = !on
			}
		}
	}

	if r.Closed && firstOn && on && len(units) == 0 {
		return []unit{{Pieces: r.Pieces, Closed: true}}
	}
	if r.Closed && firstOn && on && len(units) > 0 {
		first := units[0]
		merged := append(append([]piece(nil), cur...), first.Pieces...)
		units[0] = unit{Pieces: merged, Closed: true}
		return units
	}
	if on && len(cur) > 0 {
		units = append(units, unit{Pieces: cur, Closed: false})
	}
	return units
}

// splitPieceAtLength splits pc (whose current arc length is segLen) into
// the sub-piece covering [0,step] and the sub-piece covering [step,segLen].
// When step consumes the whole remaining length, after is the zero piece
// and callers must not use it.
func splitPieceAtLength(pc piece, step, segLen float64) (before, after piece) {
	if step >= segLen-1e-9 {
		return pc, piece{}
	}
	if pc.Kind == lineSeg {
		t := step / segLen
		mid := lerpPoint(pc.P0, pc.P3, t)
		return piece{Kind: lineSeg, P0: pc.P0, P3: mid}, piece{Kind: lineSeg, P0: mid, P3: pc.P3}
	}
	t := tForLength(pc.P0, pc.P1, pc.P2, pc.P3, step)
	a0, a1, a2, a3, b0, b1, b2, b3 := pathbuild.SplitCubic(pc.P0, pc.P1, pc.P2, pc.P3, t)
	return piece{Kind: curveSeg, P0: a0, P1: a1, P2: a2, P3: a3},
		piece{Kind: curveSeg, P0: b0, P1: b1, P2: b2, P3: b3}
}

func dashStart(d []float64, off float64) (idx int, remaining float64) {
	pos := off
	for i, v := range d {
		if pos < v {
			return i, v - pos
		}
		pos -= v
	}
	return 0, d[0]
}

func lerpPoint(a, b pathbuild.Point, t float64) pathbuild.Point {
	return pathbuild.Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}
