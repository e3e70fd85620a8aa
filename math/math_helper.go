// Package math includes integer helpers used by consensus code, such as the
// integer square root and overflow-checked uint64 arithmetic.
package math

import (
	"math/bits"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/thomaso-mirodin/intmath/u64"
)

var (
	// ErrAddOverflow is returned when an addition wraps around 2^64.
	ErrAddOverflow = errors.New("addition overflows")
	// ErrMulOverflow is returned when a multiplication wraps around 2^64.
	ErrMulOverflow = errors.New("multiplication overflows")
	// ErrSubUnderflow is returned when a subtraction goes below zero.
	ErrSubUnderflow = errors.New("subtraction underflows")
	// ErrDivByZero is returned for a zero divisor.
	ErrDivByZero = errors.New("integer divide by zero")
)

// IntegerSquareRoot is the largest integer x such that x**2 <= n.
//
// Spec pseudocode definition:
//
//	def integer_squareroot(n: uint64) -> uint64:
//	    x = n
//	    y = (x + 1) // 2
//	    while y < x:
//	        x = y
//	        y = (x + n // x) // 2
//	    return x
func IntegerSquareRoot(n uint64) uint64 {
	return u64.Sqrt(n)
}

// Add64 adds a and b, returning an error on overflow.
func Add64(a, b uint64) (uint64, error) {
	res, carry := bits.Add64(a, b, 0)
	if carry > 0 {
		return 0, ErrAddOverflow
	}
	return res, nil
}

// Sub64 subtracts b from a, returning an error on underflow.
func Sub64(a, b uint64) (uint64, error) {
	res, borrow := bits.Sub64(a, b, 0)
	if borrow > 0 {
		return 0, ErrSubUnderflow
	}
	return res, nil
}

// Mul64 multiplies a by b, returning an error on overflow.
func Mul64(a, b uint64) (uint64, error) {
	overflow, res := bits.Mul64(a, b)
	if overflow > 0 {
		return 0, ErrMulOverflow
	}
	return res, nil
}

// Div64 divides a by b, returning an error for a zero divisor.
func Div64(a, b uint64) (uint64, error) {
	if b == 0 {
		return 0, ErrDivByZero
	}
	return a / b, nil
}

// MulDiv64 returns a*b/d. The product is held in 256 bits, so only a quotient that
// does not fit in 64 bits is an overflow.
func MulDiv64(a, b, d uint64) (uint64, error) {
	if d == 0 {
		return 0, ErrDivByZero
	}
	res := new(uint256.Int).Mul(new(uint256.Int).SetUint64(a), new(uint256.Int).SetUint64(b))
	res.Div(res, new(uint256.Int).SetUint64(d))
	if !res.IsUint64() {
		return 0, ErrMulOverflow
	}
	return res.Uint64(), nil
}

// SaturatingSub returns a-b, or 0 when b is larger than a.
func SaturatingSub(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}

// Max returns the larger integer of the two
// given ones.This is used over the Max function
// in the standard math library because that max function
// has to check for some special floating point cases
// making it slower by a magnitude of 10.
func Max(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}

// Min returns the smaller integer of the two
// given ones.
func Min(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}
