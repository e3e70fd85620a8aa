package state_native

import (
	"github.com/pkg/errors"
)

// BlockRoots kept track of in the beacon state.
func (b *BeaconState) BlockRoots() [][]byte {
	b.lock.RLock()
	defer b.lock.RUnlock()

	if b.blockRoots == nil {
		return nil
	}
	res := make([][]byte, len(b.blockRoots))
	for i, r := range b.blockRoots {
		res[i] = copyBytes(r)
	}
	return res
}

// BlockRootAtIndex retrieves a specific block root based on an
// input index value.
func (b *BeaconState) BlockRootAtIndex(idx uint64) ([]byte, error) {
	b.lock.RLock()
	defer b.lock.RUnlock()

	if uint64(len(b.blockRoots)) <= idx {
		return nil, errors.Errorf("index %d out of range of block roots with length %d", idx, len(b.blockRoots))
	}
	return copyBytes(b.blockRoots[idx]), nil
}
