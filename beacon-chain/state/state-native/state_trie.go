// Package state_native is an in-memory beacon state implementation for the
// phase0 and altair state shapes.
package state_native

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/epoch-rewards/beacon-chain/state"
	"github.com/prysmaticlabs/epoch-rewards/consensus-types/primitives"
	ethpb "github.com/prysmaticlabs/epoch-rewards/proto/prysm/v1alpha1"
	"github.com/prysmaticlabs/epoch-rewards/runtime/version"
)

// BeaconState defines a struct containing utilities for the Ethereum Beacon Chain state, defining
// getters and setters for its respective values and helpful functions such as Copy.
type BeaconState struct {
	version                     int
	slot                        primitives.Slot
	blockRoots                  [][]byte
	validators                  []*ethpb.Validator
	balances                    []uint64
	previousEpochAttestations   []*ethpb.PendingAttestation
	currentEpochAttestations    []*ethpb.PendingAttestation
	previousEpochParticipation  []byte
	currentEpochParticipation   []byte
	inactivityScores            []uint64
	previousJustifiedCheckpoint *ethpb.Checkpoint
	currentJustifiedCheckpoint  *ethpb.Checkpoint
	finalizedCheckpoint         *ethpb.Checkpoint

	lock sync.RWMutex
}

// InitializeFromProtoPhase0 the beacon state from a protobuf representation.
func InitializeFromProtoPhase0(st *ethpb.BeaconState) (state.BeaconState, error) {
	if st == nil {
		return nil, errors.New("received nil state")
	}
	return InitializeFromProtoUnsafePhase0(&ethpb.BeaconState{
		Slot:                        st.Slot,
		BlockRoots:                  ethpb.CopyRoots(st.BlockRoots),
		Validators:                  ethpb.CopyValidatorSlice(st.Validators),
		Balances:                    copyUint64s(st.Balances),
		PreviousEpochAttestations:   ethpb.CopyPendingAttestationSlice(st.PreviousEpochAttestations),
		CurrentEpochAttestations:    ethpb.CopyPendingAttestationSlice(st.CurrentEpochAttestations),
		PreviousJustifiedCheckpoint: ethpb.CopyCheckpoint(st.PreviousJustifiedCheckpoint),
		CurrentJustifiedCheckpoint:  ethpb.CopyCheckpoint(st.CurrentJustifiedCheckpoint),
		FinalizedCheckpoint:         ethpb.CopyCheckpoint(st.FinalizedCheckpoint),
	})
}

// InitializeFromProtoAltair the beacon state from a protobuf representation.
func InitializeFromProtoAltair(st *ethpb.BeaconStateAltair) (state.BeaconState, error) {
	if st == nil {
		return nil, errors.New("received nil state")
	}
	return InitializeFromProtoUnsafeAltair(&ethpb.BeaconStateAltair{
		Slot:                        st.Slot,
		BlockRoots:                  ethpb.CopyRoots(st.BlockRoots),
		Validators:                  ethpb.CopyValidatorSlice(st.Validators),
		Balances:                    copyUint64s(st.Balances),
		PreviousEpochParticipation:  copyBytes(st.PreviousEpochParticipation),
		CurrentEpochParticipation:   copyBytes(st.CurrentEpochParticipation),
		InactivityScores:            copyUint64s(st.InactivityScores),
		PreviousJustifiedCheckpoint: ethpb.CopyCheckpoint(st.PreviousJustifiedCheckpoint),
		CurrentJustifiedCheckpoint:  ethpb.CopyCheckpoint(st.CurrentJustifiedCheckpoint),
		FinalizedCheckpoint:         ethpb.CopyCheckpoint(st.FinalizedCheckpoint),
	})
}

// InitializeFromProtoUnsafePhase0 directly uses the beacon state protobuf fields
// and sets them as fields of the BeaconState type.
func InitializeFromProtoUnsafePhase0(st *ethpb.BeaconState) (state.BeaconState, error) {
	if st == nil {
		return nil, errors.New("received nil state")
	}
	if len(st.Validators) != len(st.Balances) {
		return nil, errors.Errorf("validator registry has %d entries but balances has %d", len(st.Validators), len(st.Balances))
	}
	return &BeaconState{
		version:                     version.Phase0,
		slot:                        st.Slot,
		blockRoots:                  st.BlockRoots,
		validators:                  st.Validators,
		balances:                    st.Balances,
		previousEpochAttestations:   st.PreviousEpochAttestations,
		currentEpochAttestations:    st.CurrentEpochAttestations,
		previousJustifiedCheckpoint: st.PreviousJustifiedCheckpoint,
		currentJustifiedCheckpoint:  st.CurrentJustifiedCheckpoint,
		finalizedCheckpoint:         st.FinalizedCheckpoint,
	}, nil
}

// InitializeFromProtoUnsafeAltair directly uses the beacon state protobuf fields
// and sets them as fields of the BeaconState type.
func InitializeFromProtoUnsafeAltair(st *ethpb.BeaconStateAltair) (state.BeaconState, error) {
	if st == nil {
		return nil, errors.New("received nil state")
	}
	if len(st.Validators) != len(st.Balances) {
		return nil, errors.Errorf("validator registry has %d entries but balances has %d", len(st.Validators), len(st.Balances))
	}
	return &BeaconState{
		version:                     version.Altair,
		slot:                        st.Slot,
		blockRoots:                  st.BlockRoots,
		validators:                  st.Validators,
		balances:                    st.Balances,
		previousEpochParticipation:  st.PreviousEpochParticipation,
		currentEpochParticipation:   st.CurrentEpochParticipation,
		inactivityScores:            st.InactivityScores,
		previousJustifiedCheckpoint: st.PreviousJustifiedCheckpoint,
		currentJustifiedCheckpoint:  st.CurrentJustifiedCheckpoint,
		finalizedCheckpoint:         st.FinalizedCheckpoint,
	}, nil
}

// Copy returns a deep copy of the beacon state.
func (b *BeaconState) Copy() state.BeaconState {
	b.lock.RLock()
	defer b.lock.RUnlock()

	return &BeaconState{
		version:                     b.version,
		slot:                        b.slot,
		blockRoots:                  ethpb.CopyRoots(b.blockRoots),
		validators:                  ethpb.CopyValidatorSlice(b.validators),
		balances:                    copyUint64s(b.balances),
		previousEpochAttestations:   ethpb.CopyPendingAttestationSlice(b.previousEpochAttestations),
		currentEpochAttestations:    ethpb.CopyPendingAttestationSlice(b.currentEpochAttestations),
		previousEpochParticipation:  copyBytes(b.previousEpochParticipation),
		currentEpochParticipation:   copyBytes(b.currentEpochParticipation),
		inactivityScores:            copyUint64s(b.inactivityScores),
		previousJustifiedCheckpoint: ethpb.CopyCheckpoint(b.previousJustifiedCheckpoint),
		currentJustifiedCheckpoint:  ethpb.CopyCheckpoint(b.currentJustifiedCheckpoint),
		finalizedCheckpoint:         ethpb.CopyCheckpoint(b.finalizedCheckpoint),
	}
}

// ToProto the beacon state into a protobuf for usage.
func (b *BeaconState) ToProto() interface{} {
	if b == nil {
		return nil
	}
	b.lock.RLock()
	defer b.lock.RUnlock()

	switch b.version {
	case version.Phase0:
		return &ethpb.BeaconState{
			Slot:                        b.slot,
			BlockRoots:                  ethpb.CopyRoots(b.blockRoots),
			Validators:                  ethpb.CopyValidatorSlice(b.validators),
			Balances:                    copyUint64s(b.balances),
			PreviousEpochAttestations:   ethpb.CopyPendingAttestationSlice(b.previousEpochAttestations),
			CurrentEpochAttestations:    ethpb.CopyPendingAttestationSlice(b.currentEpochAttestations),
			PreviousJustifiedCheckpoint: ethpb.CopyCheckpoint(b.previousJustifiedCheckpoint),
			CurrentJustifiedCheckpoint:  ethpb.CopyCheckpoint(b.currentJustifiedCheckpoint),
			FinalizedCheckpoint:         ethpb.CopyCheckpoint(b.finalizedCheckpoint),
		}
	case version.Altair:
		return &ethpb.BeaconStateAltair{
			Slot:                        b.slot,
			BlockRoots:                  ethpb.CopyRoots(b.blockRoots),
			Validators:                  ethpb.CopyValidatorSlice(b.validators),
			Balances:                    copyUint64s(b.balances),
			PreviousEpochParticipation:  copyBytes(b.previousEpochParticipation),
			CurrentEpochParticipation:   copyBytes(b.currentEpochParticipation),
			InactivityScores:            copyUint64s(b.inactivityScores),
			PreviousJustifiedCheckpoint: ethpb.CopyCheckpoint(b.previousJustifiedCheckpoint),
			CurrentJustifiedCheckpoint:  ethpb.CopyCheckpoint(b.currentJustifiedCheckpoint),
			FinalizedCheckpoint:         ethpb.CopyCheckpoint(b.finalizedCheckpoint),
		}
	default:
		return nil
	}
}

// IsNil checks if the state and the underlying validator registry are nil.
func (b *BeaconState) IsNil() bool {
	return b == nil || b.validators == nil
}

func copyUint64s(input []uint64) []uint64 {
	if input == nil {
		return nil
	}
	res := make([]uint64, len(input))
	copy(res, input)
	return res
}

func copyBytes(input []byte) []byte {
	if input == nil {
		return nil
	}
	res := make([]byte, len(input))
	copy(res, input)
	return res
}
