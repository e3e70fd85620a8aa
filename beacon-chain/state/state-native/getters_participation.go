package state_native

import (
	ethpb "github.com/prysmaticlabs/epoch-rewards/proto/prysm/v1alpha1"
	"github.com/prysmaticlabs/epoch-rewards/runtime/version"
)

// PreviousEpochAttestations corresponding to blocks on the beacon chain.
func (b *BeaconState) PreviousEpochAttestations() ([]*ethpb.PendingAttestation, error) {
	if b.version != version.Phase0 {
		return nil, errNotSupported("PreviousEpochAttestations", b.version)
	}

	b.lock.RLock()
	defer b.lock.RUnlock()

	return ethpb.CopyPendingAttestationSlice(b.previousEpochAttestations), nil
}

// CurrentEpochAttestations corresponding to blocks on the beacon chain.
func (b *BeaconState) CurrentEpochAttestations() ([]*ethpb.PendingAttestation, error) {
	if b.version != version.Phase0 {
		return nil, errNotSupported("CurrentEpochAttestations", b.version)
	}

	b.lock.RLock()
	defer b.lock.RUnlock()

	return ethpb.CopyPendingAttestationSlice(b.currentEpochAttestations), nil
}

// PreviousEpochParticipation corresponding to participation bits on the beacon chain.
func (b *BeaconState) PreviousEpochParticipation() ([]byte, error) {
	if b.version == version.Phase0 {
		return nil, errNotSupported("PreviousEpochParticipation", b.version)
	}

	b.lock.RLock()
	defer b.lock.RUnlock()

	return copyBytes(b.previousEpochParticipation), nil
}

// CurrentEpochParticipation corresponding to participation bits on the beacon chain.
func (b *BeaconState) CurrentEpochParticipation() ([]byte, error) {
	if b.version == version.Phase0 {
		return nil, errNotSupported("CurrentEpochParticipation", b.version)
	}

	b.lock.RLock()
	defer b.lock.RUnlock()

	return copyBytes(b.currentEpochParticipation), nil
}
