package precompute

import (
	"bytes"
	"context"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/epoch-rewards/beacon-chain/core/helpers"
	"github.com/prysmaticlabs/epoch-rewards/beacon-chain/state"
	"github.com/prysmaticlabs/epoch-rewards/config/params"
	types "github.com/prysmaticlabs/epoch-rewards/consensus-types/primitives"
	"github.com/prysmaticlabs/epoch-rewards/math"
	"github.com/prysmaticlabs/epoch-rewards/monitoring/tracing"
	ethpb "github.com/prysmaticlabs/epoch-rewards/proto/prysm/v1alpha1"
	"go.opencensus.io/trace"
)

// ProcessAttestations process the attestations in state and update individual validator's pre computes,
// it also tracks and updates epoch attesting balances.
func ProcessAttestations(
	ctx context.Context,
	st state.ReadOnlyBeaconState,
	cfg *params.BeaconChainConfig,
	vp []*Validator,
	pBal *Balance,
) ([]*Validator, *Balance, error) {
	_, span := trace.StartSpan(ctx, "precomputeEpoch.ProcessAttestations")
	defer span.End()

	// Nothing was attested before genesis.
	if helpers.CurrentEpoch(cfg, st) == cfg.GenesisEpoch {
		return vp, EnsureBalancesLowerBound(cfg, pBal), nil
	}

	prevAtt, err := st.PreviousEpochAttestations()
	if err != nil {
		return nil, nil, err
	}
	v := &Validator{}
	for _, a := range prevAtt {
		if err := validateAttestation(a, len(vp)); err != nil {
			tracing.AnnotateError(span, err)
			return nil, nil, err
		}
		v.IsPrevEpochAttester, v.IsPrevEpochTargetAttester, v.IsPrevEpochHeadAttester, err = AttestedPrevEpoch(st, cfg, a)
		if err != nil {
			tracing.AnnotateError(span, err)
			return nil, nil, errors.Wrap(err, "could not check validator attested previous epoch")
		}
		vp, err = UpdateValidator(vp, v, a.AttestingIndices, a, a.Data.Slot)
		if err != nil {
			tracing.AnnotateError(span, err)
			return nil, nil, err
		}
	}

	pBal, err = UpdateBalance(cfg, vp, pBal)
	if err != nil {
		return nil, nil, err
	}
	return vp, pBal, nil
}

func validateAttestation(a *ethpb.PendingAttestation, numValidators int) error {
	if a == nil || a.Data == nil || a.Data.Target == nil {
		return errors.New("nil attestation data")
	}
	if a.InclusionDelay == 0 {
		return errors.New("attestation with inclusion delay of 0")
	}
	for _, idx := range a.AttestingIndices {
		if uint64(idx) >= uint64(numValidators) {
			return errors.Errorf("attesting index %d out of range of %d validators", idx, numValidators)
		}
	}
	if uint64(a.ProposerIndex) >= uint64(numValidators) {
		return errors.Errorf("proposer index %d out of range of %d validators", a.ProposerIndex, numValidators)
	}
	return nil
}

// AttestedPrevEpoch returns true if attestation `a` attested once in previous epoch and epoch boundary block and/or the same head.
func AttestedPrevEpoch(s state.ReadOnlyBeaconState, cfg *params.BeaconChainConfig, a *ethpb.PendingAttestation) (bool, bool, bool, error) {
	prevEpoch := helpers.PrevEpoch(cfg, s)
	var votedPrevEpoch, votedTarget, votedHead bool
	// Did validator vote previous epoch.
	if a.Data.Target.Epoch == prevEpoch {
		votedPrevEpoch = true
		same, err := SameTarget(s, cfg, a, prevEpoch)
		if err != nil {
			return false, false, false, errors.Wrap(err, "could not check same target")
		}
		if same {
			votedTarget = true
		}

		if votedTarget {
			same, err = SameHead(s, cfg, a)
			if err != nil {
				return false, false, false, errors.Wrap(err, "could not check same head")
			}
			if same {
				votedHead = true
			}
		}
	}
	return votedPrevEpoch, votedTarget, votedHead, nil
}

// SameTarget returns true if attestation `a` attested to the same target block in state.
func SameTarget(s state.ReadOnlyBeaconState, cfg *params.BeaconChainConfig, a *ethpb.PendingAttestation, e types.Epoch) (bool, error) {
	r, err := helpers.BlockRoot(cfg, s, e)
	if err != nil {
		return false, err
	}
	return bytes.Equal(a.Data.Target.Root, r), nil
}

// SameHead returns true if attestation `a` attested to the same block by attestation slot in state.
func SameHead(s state.ReadOnlyBeaconState, cfg *params.BeaconChainConfig, a *ethpb.PendingAttestation) (bool, error) {
	r, err := helpers.BlockRootAtSlot(cfg, s, a.Data.Slot)
	if err != nil {
		return false, err
	}
	return bytes.Equal(a.Data.BeaconBlockRoot, r), nil
}

// UpdateValidator updates pre computed validator store. Votes are merged as a set union so an
// index named by several attestations is recorded once; the earliest inclusion wins.
func UpdateValidator(vp []*Validator, record *Validator, indices []types.ValidatorIndex, a *ethpb.PendingAttestation, aSlot types.Slot) ([]*Validator, error) {
	inclusionSlot, err := aSlot.SafeAdd(uint64(a.InclusionDelay))
	if err != nil {
		return nil, errors.Wrap(err, "could not compute inclusion slot")
	}

	for _, i := range indices {
		if uint64(i) >= uint64(len(vp)) {
			return nil, errors.Errorf("attesting index %d out of range of %d validators", i, len(vp))
		}
		if record.IsPrevEpochAttester {
			vp[i].IsPrevEpochAttester = true
			// Update attestation inclusion info if inclusion slot is lower than before
			if inclusionSlot < vp[i].InclusionSlot {
				vp[i].InclusionSlot = inclusionSlot
				vp[i].InclusionDistance = a.InclusionDelay
				vp[i].ProposerIndex = a.ProposerIndex
			}
		}
		if record.IsPrevEpochTargetAttester {
			vp[i].IsPrevEpochTargetAttester = true
		}
		if record.IsPrevEpochHeadAttester {
			vp[i].IsPrevEpochHeadAttester = true
		}
	}
	return vp, nil
}

// UpdateBalance updates pre computed balance store.
func UpdateBalance(cfg *params.BeaconChainConfig, vp []*Validator, bBal *Balance) (*Balance, error) {
	var err error
	for _, v := range vp {
		if v.IsSlashed {
			continue
		}
		if v.IsPrevEpochAttester {
			if bBal.PrevEpochAttested, err = math.Add64(bBal.PrevEpochAttested, v.CurrentEpochEffectiveBalance); err != nil {
				return nil, err
			}
		}
		if v.IsPrevEpochTargetAttester {
			if bBal.PrevEpochTargetAttested, err = math.Add64(bBal.PrevEpochTargetAttested, v.CurrentEpochEffectiveBalance); err != nil {
				return nil, err
			}
		}
		if v.IsPrevEpochHeadAttester {
			if bBal.PrevEpochHeadAttested, err = math.Add64(bBal.PrevEpochHeadAttested, v.CurrentEpochEffectiveBalance); err != nil {
				return nil, err
			}
		}
	}
	return EnsureBalancesLowerBound(cfg, bBal), nil
}

// EnsureBalancesLowerBound ensures all the balances such as active current epoch, active previous epoch and more
// have EffectiveBalanceIncrement(1 eth) as a lower bound.
func EnsureBalancesLowerBound(cfg *params.BeaconChainConfig, bBal *Balance) *Balance {
	ebi := cfg.EffectiveBalanceIncrement
	if ebi > bBal.ActiveCurrentEpoch {
		bBal.ActiveCurrentEpoch = ebi
	}
	if ebi > bBal.ActivePrevEpoch {
		bBal.ActivePrevEpoch = ebi
	}
	if ebi > bBal.PrevEpochAttested {
		bBal.PrevEpochAttested = ebi
	}
	if ebi > bBal.PrevEpochTargetAttested {
		bBal.PrevEpochTargetAttested = ebi
	}
	if ebi > bBal.PrevEpochHeadAttested {
		bBal.PrevEpochHeadAttested = ebi
	}
	return bBal
}
