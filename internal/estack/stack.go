// Package estack implements the PostScript execution engine (spec.md §4.3):
// the operand, dictionary, and execution stacks, the graphics-state stack
// (GSave/GRestore/GRestoreAll in gstate.go, bound as operators by
// internal/ops/vmops.go), and the main evaluator loop. Deferred `{ ... }`
// procedure construction is done by the ps package's scanner, not here.
package estack

import (
	"github.com/pkg/errors"

	"github.com/gopostscript/postforge/internal/object"
)

// ErrStackUnderflow is returned by Pop/Index/Roll when the stack does not
// hold enough elements.
var ErrStackUnderflow = errors.New("stackunderflow")

// OperandStack is the PostScript operand stack, per spec.md §4.3.
type OperandStack struct {
	data []object.Object
}

// Push pushes v.
func (s *OperandStack) Push(v object.Object) { s.data = append(s.data, v) }

// Pop pops and returns the top value.
func (s *OperandStack) Pop() (object.Object, error) {
	if len(s.data) == 0 {
		return object.Object{}, ErrStackUnderflow
	}
	v := s.data[len(s.data)-1]
	s.data = s.data[:len(s.data)-1]
	return v, nil
}

// Top returns the top value without popping it.
func (s *OperandStack) Top() (object.Object, error) {
	if len(s.data) == 0 {
		return object.Object{}, ErrStackUnderflow
	}
	return s.data[len(s.data)-1], nil
}

// Index returns the value n entries below the top (0 = top), per `index`.
func (s *OperandStack) Index(n int) (object.Object, error) {
	i := len(s.data) - 1 - n
	if i < 0 || n < 0 {
		return object.Object{}, ErrStackUnderflow
	}
	return s.data[i], nil
}

// Len returns the number of values currently on the stack.
func (s *OperandStack) Len() int { return len(s.data) }

// PopN pops the top n values, returning them bottom-to-top, for operators
// that consume a variable-length argument run (e.g. the array-building
// `]` close, `moveto`-family operators).
func (s *OperandStack) PopN(n int) ([]object.Object, error) {
	if n > len(s.data) {
		return nil, ErrStackUnderflow
	}
	i := len(s.data) - n
	out := append([]object.Object(nil), s.data[i:]...)
	s.data = s.data[:i]
	return out, nil
}

// Clear empties the stack, per `clear`.
func (s *OperandStack) Clear() { s.data = s.data[:0] }

// Roll performs the `roll` operator: rotates the top n elements by j
// positions (positive j rolls toward the top).
func (s *OperandStack) Roll(n, j int) error {
	if n < 0 || n > len(s.data) {
		return ErrStackUnderflow
	}
	if n == 0 {
		return nil
	}
	j = ((j % n) + n) % n
	if j == 0 {
		return nil
	}
	seg := s.data[len(s.data)-n:]
	rotated := make([]object.Object, n)
	for i, v := range seg {
		rotated[(i+j)%n] = v
	}
	copy(seg, rotated)
	return nil
}

// All returns the stack contents bottom-to-top, for `==`-style dumps and
// tests; the returned slice aliases internal storage and must not be
// retained across further Push/Pop calls.
func (s *OperandStack) All() []object.Object { return s.data }
