// Package eth holds the consensus containers read by epoch processing. They
// mirror the beacon chain SSZ containers field for field, with json tags so
// snapshots can be stored as yaml fixtures.
package eth

import (
	"github.com/prysmaticlabs/epoch-rewards/consensus-types/primitives"
)

// Validator is a single entry of the validator registry.
type Validator struct {
	PublicKey                  []byte           `json:"public_key,omitempty"`
	EffectiveBalance           uint64           `json:"effective_balance"`
	Slashed                    bool             `json:"slashed"`
	ActivationEligibilityEpoch primitives.Epoch `json:"activation_eligibility_epoch"`
	ActivationEpoch            primitives.Epoch `json:"activation_epoch"`
	ExitEpoch                  primitives.Epoch `json:"exit_epoch"`
	WithdrawableEpoch          primitives.Epoch `json:"withdrawable_epoch"`
}

// Checkpoint is an epoch and the block root at its start slot.
type Checkpoint struct {
	Epoch primitives.Epoch `json:"epoch"`
	Root  []byte           `json:"root"`
}

// AttestationData is the vote cast by an attestation.
type AttestationData struct {
	Slot            primitives.Slot           `json:"slot"`
	CommitteeIndex  primitives.CommitteeIndex `json:"committee_index"`
	BeaconBlockRoot []byte                    `json:"beacon_block_root"`
	Source          *Checkpoint               `json:"source"`
	Target          *Checkpoint               `json:"target"`
}

// PendingAttestation is an attestation already included on chain and kept in
// the state until epoch processing. AttestingIndices are the decoded
// aggregation bits; the same index may appear in several attestations.
type PendingAttestation struct {
	AttestingIndices []primitives.ValidatorIndex `json:"attesting_indices"`
	Data             *AttestationData            `json:"data"`
	InclusionDelay   primitives.Slot             `json:"inclusion_delay"`
	ProposerIndex    primitives.ValidatorIndex   `json:"proposer_index"`
}

// BeaconState is the phase0 state subset consumed by epoch processing.
type BeaconState struct {
	Slot                        primitives.Slot       `json:"slot"`
	BlockRoots                  [][]byte              `json:"block_roots"`
	Validators                  []*Validator          `json:"validators"`
	Balances                    []uint64              `json:"balances"`
	PreviousEpochAttestations   []*PendingAttestation `json:"previous_epoch_attestations"`
	CurrentEpochAttestations    []*PendingAttestation `json:"current_epoch_attestations"`
	PreviousJustifiedCheckpoint *Checkpoint           `json:"previous_justified_checkpoint"`
	CurrentJustifiedCheckpoint  *Checkpoint           `json:"current_justified_checkpoint"`
	FinalizedCheckpoint         *Checkpoint           `json:"finalized_checkpoint"`
}

// BeaconStateAltair is the altair state subset consumed by epoch processing.
// Participation holds one flag byte per validator.
type BeaconStateAltair struct {
	Slot                        primitives.Slot `json:"slot"`
	BlockRoots                  [][]byte        `json:"block_roots"`
	Validators                  []*Validator    `json:"validators"`
	Balances                    []uint64        `json:"balances"`
	PreviousEpochParticipation  []byte          `json:"previous_epoch_participation"`
	CurrentEpochParticipation   []byte          `json:"current_epoch_participation"`
	InactivityScores            []uint64        `json:"inactivity_scores"`
	PreviousJustifiedCheckpoint *Checkpoint     `json:"previous_justified_checkpoint"`
	CurrentJustifiedCheckpoint  *Checkpoint     `json:"current_justified_checkpoint"`
	FinalizedCheckpoint         *Checkpoint     `json:"finalized_checkpoint"`
}
