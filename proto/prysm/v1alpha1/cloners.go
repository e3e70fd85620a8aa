package eth

import (
	"github.com/prysmaticlabs/epoch-rewards/consensus-types/primitives"
)

// CopyValidator copies the provided validator.
func CopyValidator(val *Validator) *Validator {
	if val == nil {
		return nil
	}
	return &Validator{
		PublicKey:                  safeCopyBytes(val.PublicKey),
		EffectiveBalance:           val.EffectiveBalance,
		Slashed:                    val.Slashed,
		ActivationEligibilityEpoch: val.ActivationEligibilityEpoch,
		ActivationEpoch:            val.ActivationEpoch,
		ExitEpoch:                  val.ExitEpoch,
		WithdrawableEpoch:          val.WithdrawableEpoch,
	}
}

// CopyCheckpoint copies the provided checkpoint.
func CopyCheckpoint(cp *Checkpoint) *Checkpoint {
	if cp == nil {
		return nil
	}
	return &Checkpoint{
		Epoch: cp.Epoch,
		Root:  safeCopyBytes(cp.Root),
	}
}

// CopyAttestationData copies the provided AttestationData object.
func CopyAttestationData(attData *AttestationData) *AttestationData {
	if attData == nil {
		return nil
	}
	return &AttestationData{
		Slot:            attData.Slot,
		CommitteeIndex:  attData.CommitteeIndex,
		BeaconBlockRoot: safeCopyBytes(attData.BeaconBlockRoot),
		Source:          CopyCheckpoint(attData.Source),
		Target:          CopyCheckpoint(attData.Target),
	}
}

// CopyPendingAttestation copies the provided pending attestation object.
func CopyPendingAttestation(att *PendingAttestation) *PendingAttestation {
	if att == nil {
		return nil
	}
	var indices []primitives.ValidatorIndex
	if att.AttestingIndices != nil {
		indices = make([]primitives.ValidatorIndex, len(att.AttestingIndices))
		copy(indices, att.AttestingIndices)
	}
	return &PendingAttestation{
		AttestingIndices: indices,
		Data:             CopyAttestationData(att.Data),
		InclusionDelay:   att.InclusionDelay,
		ProposerIndex:    att.ProposerIndex,
	}
}

// CopyPendingAttestationSlice copies the provided slice of pending attestation objects.
func CopyPendingAttestationSlice(input []*PendingAttestation) []*PendingAttestation {
	if input == nil {
		return nil
	}
	res := make([]*PendingAttestation, len(input))
	for i := 0; i < len(res); i++ {
		res[i] = CopyPendingAttestation(input[i])
	}
	return res
}

// CopyValidatorSlice copies the provided validator registry.
func CopyValidatorSlice(input []*Validator) []*Validator {
	if input == nil {
		return nil
	}
	res := make([]*Validator, len(input))
	for i := range input {
		res[i] = CopyValidator(input[i])
	}
	return res
}

// CopyRoots copies a slice of 32 byte roots.
func CopyRoots(input [][]byte) [][]byte {
	if input == nil {
		return nil
	}
	res := make([][]byte, len(input))
	for i := range input {
		res[i] = safeCopyBytes(input[i])
	}
	return res
}

func safeCopyBytes(cp []byte) []byte {
	if cp != nil {
		copied := make([]byte, len(cp))
		copy(copied, cp)
		return copied
	}
	return nil
}
