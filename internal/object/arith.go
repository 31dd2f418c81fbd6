package object

import "math"

// CoerceResult builds the result Object for a binary arithmetic op per
// spec.md §4.1: the result is an integer when both operands were integers
// and the mathematical result fits a 32-bit signed range, else a real.
func CoerceResult(aIsInt, bIsInt bool, result float64) Object {
	if aIsInt && bIsInt && result == math.Trunc(result) &&
		result >= math.MinInt32 && result <= math.MaxInt32 {
		return NewInt(int64(result))
	}
	return NewReal(result)
}

// ParseIntLiteral parses a decimal integer; on 32-bit-signed overflow it
// promotes to a real per spec.md §4.2, returning promoted=true.
func ParseIntLiteral(v int64, overflowed bool) (Object, bool) {
	if overflowed || v < math.MinInt32 || v > math.MaxInt32 {
		return NewReal(float64(v)), true
	}
	return NewInt(v), false
}
