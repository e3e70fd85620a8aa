package math_test

import (
	stdmath "math"
	"testing"

	"github.com/prysmaticlabs/epoch-rewards/math"
	"github.com/prysmaticlabs/epoch-rewards/testing/assert"
	"github.com/prysmaticlabs/epoch-rewards/testing/require"
)

func TestIntegerSquareRoot(t *testing.T) {
	tt := []struct {
		number uint64
		root   uint64
	}{
		{number: 0, root: 0},
		{number: 1, root: 1},
		{number: 3, root: 1},
		{number: 4, root: 2},
		{number: 15, root: 3},
		{number: 16, root: 4},
		{number: 20, root: 4},
		{number: 200, root: 14},
		{number: 1987, root: 44},
		{number: 34989843, root: 5915},
		{number: 97282, root: 311},
		{number: 1 << 32, root: 1 << 16},
		{number: (1 << 32) + 1, root: 1 << 16},
		{number: 1 << 62, root: 1 << 31},
		{number: stdmath.MaxUint64, root: 4294967295},
	}

	for _, testVals := range tt {
		root := math.IntegerSquareRoot(testVals.number)
		assert.Equal(t, testVals.root, root, "Wrong root for %d", testVals.number)
	}
}

func TestIntegerSquareRoot_IsFloor(t *testing.T) {
	for n := uint64(0); n < 5000; n++ {
		r := math.IntegerSquareRoot(n)
		require.Equal(t, true, r*r <= n, "root too large for %d", n)
		require.Equal(t, true, (r+1)*(r+1) > n, "root too small for %d", n)
	}
}

func TestAdd64(t *testing.T) {
	tests := []struct {
		a, b    uint64
		res     uint64
		wantErr error
	}{
		{a: 0, b: 0, res: 0},
		{a: 1 << 32, b: 1 << 32, res: 1 << 33},
		{a: stdmath.MaxUint64 - 1, b: 1, res: stdmath.MaxUint64},
		{a: stdmath.MaxUint64, b: 1, wantErr: math.ErrAddOverflow},
		{a: stdmath.MaxUint64, b: stdmath.MaxUint64, wantErr: math.ErrAddOverflow},
	}
	for _, tt := range tests {
		got, err := math.Add64(tt.a, tt.b)
		if tt.wantErr != nil {
			assert.ErrorIs(t, err, tt.wantErr)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.res, got)
	}
}

func TestSub64(t *testing.T) {
	got, err := math.Sub64(10, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), got)

	_, err = math.Sub64(3, 10)
	assert.ErrorIs(t, err, math.ErrSubUnderflow)
}

func TestMul64(t *testing.T) {
	tests := []struct {
		a, b    uint64
		res     uint64
		wantErr error
	}{
		{a: 0, b: stdmath.MaxUint64, res: 0},
		{a: 32_000_000_000, b: 64, res: 2_048_000_000_000},
		{a: 1 << 32, b: 1 << 31, res: 1 << 63},
		{a: 1 << 32, b: 1 << 32, wantErr: math.ErrMulOverflow},
		{a: stdmath.MaxUint64, b: 2, wantErr: math.ErrMulOverflow},
	}
	for _, tt := range tests {
		got, err := math.Mul64(tt.a, tt.b)
		if tt.wantErr != nil {
			assert.ErrorIs(t, err, tt.wantErr)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.res, got)
	}
}

func TestDiv64(t *testing.T) {
	got, err := math.Div64(17, 5)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), got)

	_, err = math.Div64(17, 0)
	assert.ErrorIs(t, err, math.ErrDivByZero)
}

func TestSaturatingSub(t *testing.T) {
	assert.Equal(t, uint64(0), math.SaturatingSub(5, 6))
	assert.Equal(t, uint64(0), math.SaturatingSub(0, stdmath.MaxUint64))
	assert.Equal(t, uint64(1), math.SaturatingSub(6, 5))
}

func TestMinMax(t *testing.T) {
	assert.Equal(t, uint64(5), math.Max(5, 3))
	assert.Equal(t, uint64(3), math.Min(5, 3))
}

func TestMulDiv64(t *testing.T) {
	tests := []struct {
		a, b, d uint64
		res     uint64
		wantErr error
	}{
		{a: 357771, b: 32, d: 64, res: 178885},
		{a: 0, b: stdmath.MaxUint64, d: 1, res: 0},
		// Product exceeds 64 bits but the quotient does not.
		{a: stdmath.MaxUint64, b: 1 << 10, d: 1 << 11, res: stdmath.MaxUint64 / 2},
		{a: stdmath.MaxUint64, b: 2, d: 1, wantErr: math.ErrMulOverflow},
		{a: 1, b: 1, d: 0, wantErr: math.ErrDivByZero},
	}
	for _, tt := range tests {
		got, err := math.MulDiv64(tt.a, tt.b, tt.d)
		if tt.wantErr != nil {
			assert.ErrorIs(t, err, tt.wantErr)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.res, got, "MulDiv64(%d, %d, %d)", tt.a, tt.b, tt.d)
	}
}
