package primitives

import (
	"fmt"

	"github.com/prysmaticlabs/epoch-rewards/math"
)

// Slot represents a single slot.
type Slot uint64

// Add increases slot by x, panics on overflow.
func (s Slot) Add(x uint64) Slot {
	res, err := math.Add64(uint64(s), x)
	if err != nil {
		panic(fmt.Sprintf("slot addition overflow: %d + %d", s, x))
	}
	return Slot(res)
}

// SafeAdd increases slot by x, returning an error on overflow.
func (s Slot) SafeAdd(x uint64) (Slot, error) {
	res, err := math.Add64(uint64(s), x)
	return Slot(res), err
}

// Sub subtracts x from the slot, panics on underflow.
func (s Slot) Sub(x uint64) Slot {
	res, err := math.Sub64(uint64(s), x)
	if err != nil {
		panic(fmt.Sprintf("slot subtraction underflow: %d - %d", s, x))
	}
	return Slot(res)
}

// SafeSub subtracts x from the slot, returning an error on underflow.
func (s Slot) SafeSub(x uint64) (Slot, error) {
	res, err := math.Sub64(uint64(s), x)
	return Slot(res), err
}

// ModSlot returns the remainder of the slot divided by x.
func (s Slot) ModSlot(x Slot) Slot {
	if x == 0 {
		panic("slot modulo by zero")
	}
	return s % x
}
