package state_native

import (
	"github.com/prysmaticlabs/epoch-rewards/consensus-types/primitives"
	ethpb "github.com/prysmaticlabs/epoch-rewards/proto/prysm/v1alpha1"
)

// PreviousJustifiedCheckpoint denoting an epoch and block root.
func (b *BeaconState) PreviousJustifiedCheckpoint() *ethpb.Checkpoint {
	b.lock.RLock()
	defer b.lock.RUnlock()

	return ethpb.CopyCheckpoint(b.previousJustifiedCheckpoint)
}

// CurrentJustifiedCheckpoint denoting an epoch and block root.
func (b *BeaconState) CurrentJustifiedCheckpoint() *ethpb.Checkpoint {
	b.lock.RLock()
	defer b.lock.RUnlock()

	return ethpb.CopyCheckpoint(b.currentJustifiedCheckpoint)
}

// FinalizedCheckpoint denoting an epoch and block root.
func (b *BeaconState) FinalizedCheckpoint() *ethpb.Checkpoint {
	b.lock.RLock()
	defer b.lock.RUnlock()

	return ethpb.CopyCheckpoint(b.finalizedCheckpoint)
}

// FinalizedCheckpointEpoch returns the epoch value of the finalized checkpoint.
func (b *BeaconState) FinalizedCheckpointEpoch() primitives.Epoch {
	b.lock.RLock()
	defer b.lock.RUnlock()

	if b.finalizedCheckpoint == nil {
		return 0
	}
	return b.finalizedCheckpoint.Epoch
}
