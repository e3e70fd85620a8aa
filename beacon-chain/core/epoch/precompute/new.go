// Package precompute provides gathering of nicely-structured
// data important to feed into epoch processing, such as attesting
// records and balances, for faster computation.
package precompute

import (
	"context"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/epoch-rewards/beacon-chain/core/helpers"
	"github.com/prysmaticlabs/epoch-rewards/beacon-chain/state"
	"github.com/prysmaticlabs/epoch-rewards/config/params"
	"github.com/prysmaticlabs/epoch-rewards/math"
	"go.opencensus.io/trace"
)

// New gets called at the beginning of process epoch cycle to return
// pre computed instances of validators attesting records and total
// balances attested in an epoch.
func New(ctx context.Context, s state.ReadOnlyBeaconState, cfg *params.BeaconChainConfig) ([]*Validator, *Balance, error) {
	_, span := trace.StartSpan(ctx, "precomputeEpoch.New")
	defer span.End()

	if s.NumValidators() != s.BalancesLength() {
		return nil, nil, errors.Errorf("validator registry has %d entries but balances has %d", s.NumValidators(), s.BalancesLength())
	}

	pValidators := make([]*Validator, s.NumValidators())
	pBal := &Balance{}

	currentEpoch := helpers.CurrentEpoch(cfg, s)
	prevEpoch := helpers.PrevEpoch(cfg, s)

	if err := s.ReadFromEveryValidator(func(idx int, val state.ReadOnlyValidator) error {
		// Was validator withdrawable or slashed
		withdrawable := helpers.IsWithdrawableValidatorUsingTrie(val, currentEpoch)
		pVal := &Validator{
			IsSlashed:                    val.Slashed(),
			IsWithdrawableCurrentEpoch:   withdrawable,
			CurrentEpochEffectiveBalance: val.EffectiveBalance(),
			InclusionSlot:                farFutureSlot,
			InclusionDistance:            farFutureSlot,
		}
		var err error
		// Was validator active current epoch
		if helpers.IsActiveValidatorUsingTrie(val, currentEpoch) {
			pVal.IsActiveCurrentEpoch = true
			pBal.ActiveCurrentEpoch, err = math.Add64(pBal.ActiveCurrentEpoch, val.EffectiveBalance())
			if err != nil {
				return err
			}
		}
		// Was validator active previous epoch
		if helpers.IsActiveValidatorUsingTrie(val, prevEpoch) {
			pVal.IsActivePrevEpoch = true
			pBal.ActivePrevEpoch, err = math.Add64(pBal.ActivePrevEpoch, val.EffectiveBalance())
			if err != nil {
				return err
			}
		}
		pValidators[idx] = pVal
		return nil
	}); err != nil {
		return nil, nil, errors.Wrap(err, "failed to initialize precompute")
	}
	return pValidators, pBal, nil
}
