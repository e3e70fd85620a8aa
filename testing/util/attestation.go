package util

import (
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/epoch-rewards/beacon-chain/core/helpers"
	"github.com/prysmaticlabs/epoch-rewards/beacon-chain/state"
	"github.com/prysmaticlabs/epoch-rewards/config/params"
	types "github.com/prysmaticlabs/epoch-rewards/consensus-types/primitives"
	ethpb "github.com/prysmaticlabs/epoch-rewards/proto/prysm/v1alpha1"
)

// PendingAttestationConfig describes a previous epoch attestation to build with
// NewPendingAttestation.
type PendingAttestationConfig struct {
	Indices []types.ValidatorIndex
	// SlotOffset is added to the previous epoch start slot to obtain the attestation slot.
	SlotOffset     types.Slot
	WrongTarget    bool
	WrongHead      bool
	InclusionDelay types.Slot
	ProposerIndex  types.ValidatorIndex
}

// NewPendingAttestation builds a pending attestation voting in the previous epoch of st.
// Target and head roots are read from the state's block roots unless the config asks
// for a wrong vote, in which case a root no block has is used.
func NewPendingAttestation(cfg *params.BeaconChainConfig, st state.ReadOnlyBeaconState, c *PendingAttestationConfig) (*ethpb.PendingAttestation, error) {
	prevEpoch := helpers.PrevEpoch(cfg, st)
	startSlot, err := helpers.StartSlot(cfg, prevEpoch)
	if err != nil {
		return nil, err
	}
	slot := startSlot + c.SlotOffset

	targetRoot, err := helpers.BlockRoot(cfg, st, prevEpoch)
	if err != nil {
		return nil, errors.Wrap(err, "could not get target root")
	}
	headRoot, err := helpers.BlockRootAtSlot(cfg, st, slot)
	if err != nil {
		return nil, errors.Wrap(err, "could not get head root")
	}
	if c.WrongTarget {
		targetRoot = badRoot()
	}
	if c.WrongHead {
		headRoot = badRoot()
	}
	delay := c.InclusionDelay
	if delay == 0 {
		delay = cfg.MinAttestationInclusionDelay
	}
	indices := make([]types.ValidatorIndex, len(c.Indices))
	copy(indices, c.Indices)

	return &ethpb.PendingAttestation{
		AttestingIndices: indices,
		Data: &ethpb.AttestationData{
			Slot:            slot,
			BeaconBlockRoot: headRoot,
			Source:          st.PreviousJustifiedCheckpoint(),
			Target:          &ethpb.Checkpoint{Epoch: prevEpoch, Root: targetRoot},
		},
		InclusionDelay: delay,
		ProposerIndex:  c.ProposerIndex,
	}, nil
}

// ParticipationFlags returns the participation byte for the given timely votes.
func ParticipationFlags(cfg *params.BeaconChainConfig, source, target, head bool) byte {
	var b byte
	if source {
		b |= 1 << cfg.TimelySourceFlagIndex
	}
	if target {
		b |= 1 << cfg.TimelyTargetFlagIndex
	}
	if head {
		b |= 1 << cfg.TimelyHeadFlagIndex
	}
	return b
}

// ValidatorIndices returns the indices 0..n-1.
func ValidatorIndices(n uint64) []types.ValidatorIndex {
	indices := make([]types.ValidatorIndex, n)
	for i := range indices {
		indices[i] = types.ValidatorIndex(i)
	}
	return indices
}

func badRoot() []byte {
	root := make([]byte, rootLength)
	for i := range root {
		root[i] = 0xff
	}
	return root
}
