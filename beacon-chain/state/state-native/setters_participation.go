package state_native

import (
	ethpb "github.com/prysmaticlabs/epoch-rewards/proto/prysm/v1alpha1"
	"github.com/prysmaticlabs/epoch-rewards/runtime/version"
)

// SetPreviousEpochAttestations for the beacon state. Updates the entire
// list to a new value by overwriting the previous one.
func (b *BeaconState) SetPreviousEpochAttestations(val []*ethpb.PendingAttestation) error {
	if b.version != version.Phase0 {
		return errNotSupported("SetPreviousEpochAttestations", b.version)
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	b.previousEpochAttestations = ethpb.CopyPendingAttestationSlice(val)
	return nil
}

// AppendPreviousEpochAttestations for the beacon state. Appends the new value
// to the end of list.
func (b *BeaconState) AppendPreviousEpochAttestations(val *ethpb.PendingAttestation) error {
	if b.version != version.Phase0 {
		return errNotSupported("AppendPreviousEpochAttestations", b.version)
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	b.previousEpochAttestations = append(b.previousEpochAttestations, ethpb.CopyPendingAttestation(val))
	return nil
}

// SetPreviousParticipationBits for the beacon state. Updates the entire
// list to a new value by overwriting the previous one.
func (b *BeaconState) SetPreviousParticipationBits(val []byte) error {
	if b.version == version.Phase0 {
		return errNotSupported("SetPreviousParticipationBits", b.version)
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	b.previousEpochParticipation = copyBytes(val)
	return nil
}

// ModifyPreviousParticipationBits modifies the previous participation bitfield via
// the provided mutator function.
func (b *BeaconState) ModifyPreviousParticipationBits(mutator func(val []byte) ([]byte, error)) error {
	if b.version == version.Phase0 {
		return errNotSupported("ModifyPreviousParticipationBits", b.version)
	}

	b.lock.Lock()
	participation := copyBytes(b.previousEpochParticipation)
	b.lock.Unlock()

	participation, err := mutator(participation)
	if err != nil {
		return err
	}

	b.lock.Lock()
	defer b.lock.Unlock()
	b.previousEpochParticipation = participation
	return nil
}
