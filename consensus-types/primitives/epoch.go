package primitives

import (
	"fmt"

	"github.com/prysmaticlabs/epoch-rewards/math"
)

// Epoch represents a single epoch.
type Epoch uint64

// Add increases epoch by x, panics on overflow.
func (e Epoch) Add(x uint64) Epoch {
	res, err := math.Add64(uint64(e), x)
	if err != nil {
		panic(fmt.Sprintf("epoch addition overflow: %d + %d", e, x))
	}
	return Epoch(res)
}

// SafeAdd increases epoch by x, returning an error on overflow.
func (e Epoch) SafeAdd(x uint64) (Epoch, error) {
	res, err := math.Add64(uint64(e), x)
	return Epoch(res), err
}

// Sub subtracts x from the epoch, panics on underflow.
func (e Epoch) Sub(x uint64) Epoch {
	res, err := math.Sub64(uint64(e), x)
	if err != nil {
		panic(fmt.Sprintf("epoch subtraction underflow: %d - %d", e, x))
	}
	return Epoch(res)
}

// SafeSub subtracts x from the epoch, returning an error on underflow.
func (e Epoch) SafeSub(x uint64) (Epoch, error) {
	res, err := math.Sub64(uint64(e), x)
	return Epoch(res), err
}

// Mul multiplies epoch by x, panics on overflow.
func (e Epoch) Mul(x uint64) Epoch {
	res, err := math.Mul64(uint64(e), x)
	if err != nil {
		panic(fmt.Sprintf("epoch multiplication overflow: %d * %d", e, x))
	}
	return Epoch(res)
}

// MaxEpoch returns the larger of the two epochs.
func MaxEpoch(a, b Epoch) Epoch {
	if a > b {
		return a
	}
	return b
}
