package precompute

import (
	"context"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/epoch-rewards/beacon-chain/state"
	"github.com/prysmaticlabs/epoch-rewards/config/params"
	"github.com/prysmaticlabs/epoch-rewards/runtime/version"
	"github.com/prysmaticlabs/go-bitfield"
)

// EligibilityResolver marks the previous epoch votes of every precomputed validator from the
// participation record of the state, and tallies the attesting balances.
type EligibilityResolver interface {
	ResolveEligibility(ctx context.Context, st state.ReadOnlyBeaconState, cfg *params.BeaconChainConfig, vp []*Validator, bal *Balance) ([]*Validator, *Balance, error)
	// IncludesInclusionRewards reports whether the participation record carries inclusion
	// delays and proposers.
	IncludesInclusionRewards() bool
}

type attestationResolver struct{}

// ResolveEligibility from pending attestations.
func (attestationResolver) ResolveEligibility(ctx context.Context, st state.ReadOnlyBeaconState, cfg *params.BeaconChainConfig, vp []*Validator, bal *Balance) ([]*Validator, *Balance, error) {
	return ProcessAttestations(ctx, st, cfg, vp, bal)
}

func (attestationResolver) IncludesInclusionRewards() bool {
	return true
}

type participationResolver struct{}

// ResolveEligibility from participation flags.
func (participationResolver) ResolveEligibility(ctx context.Context, st state.ReadOnlyBeaconState, cfg *params.BeaconChainConfig, vp []*Validator, bal *Balance) ([]*Validator, *Balance, error) {
	return ProcessEpochParticipation(ctx, st, cfg, vp, bal)
}

func (participationResolver) IncludesInclusionRewards() bool {
	return false
}

// ResolverForVersion returns the eligibility resolver reading the participation record
// shape of the given state version.
func ResolverForVersion(v int) (EligibilityResolver, error) {
	switch v {
	case version.Phase0:
		return attestationResolver{}, nil
	case version.Altair:
		return participationResolver{}, nil
	default:
		return nil, errors.Errorf("no eligibility resolver for state version %d", v)
	}
}

// Eligibility holds, per vote dimension, the unslashed validators that voted correctly
// in the previous epoch.
type Eligibility struct {
	Source bitfield.Bitlist
	Target bitfield.Bitlist
	Head   bitfield.Bitlist
}

// NewEligibility derives the eligibility sets from resolved validator records.
func NewEligibility(vp []*Validator) *Eligibility {
	n := uint64(len(vp))
	e := &Eligibility{
		Source: bitfield.NewBitlist(n),
		Target: bitfield.NewBitlist(n),
		Head:   bitfield.NewBitlist(n),
	}
	for i, v := range vp {
		if v.IsSlashed {
			continue
		}
		if v.IsPrevEpochAttester {
			e.Source.SetBitAt(uint64(i), true)
		}
		if v.IsPrevEpochTargetAttester {
			e.Target.SetBitAt(uint64(i), true)
		}
		if v.IsPrevEpochHeadAttester {
			e.Head.SetBitAt(uint64(i), true)
		}
	}
	return e
}

// Counts returns the number of source, target and head attesters.
func (e *Eligibility) Counts() (source, target, head uint64) {
	return e.Source.Count(), e.Target.Count(), e.Head.Count()
}
