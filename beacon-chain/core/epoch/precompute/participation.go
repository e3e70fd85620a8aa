package precompute

import (
	"context"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/epoch-rewards/beacon-chain/core/helpers"
	"github.com/prysmaticlabs/epoch-rewards/beacon-chain/state"
	"github.com/prysmaticlabs/epoch-rewards/config/params"
	"go.opencensus.io/trace"
)

// ProcessEpochParticipation processes the epoch participation in state and updates individual validator's pre computes,
// it also tracks and updates epoch attesting balances.
func ProcessEpochParticipation(
	ctx context.Context,
	st state.ReadOnlyBeaconState,
	cfg *params.BeaconChainConfig,
	vp []*Validator,
	bal *Balance,
) ([]*Validator, *Balance, error) {
	_, span := trace.StartSpan(ctx, "precomputeEpoch.ProcessEpochParticipation")
	defer span.End()

	if helpers.CurrentEpoch(cfg, st) == cfg.GenesisEpoch {
		return vp, EnsureBalancesLowerBound(cfg, bal), nil
	}

	pp, err := st.PreviousEpochParticipation()
	if err != nil {
		return nil, nil, err
	}
	if pp == nil {
		return nil, nil, state.ErrNilParticipation
	}
	if len(pp) != len(vp) {
		return nil, nil, errors.Errorf("participation has %d entries but validator registry has %d", len(pp), len(vp))
	}
	sourceIdx := cfg.TimelySourceFlagIndex
	targetIdx := cfg.TimelyTargetFlagIndex
	headIdx := cfg.TimelyHeadFlagIndex
	for i, b := range pp {
		// Flags of validators outside the previous epoch's active set carry no weight.
		if !vp[i].IsActivePrevEpoch {
			continue
		}
		if HasValidatorFlag(b, sourceIdx) {
			vp[i].IsPrevEpochAttester = true
		}
		if HasValidatorFlag(b, targetIdx) {
			vp[i].IsPrevEpochTargetAttester = true
		}
		if HasValidatorFlag(b, headIdx) {
			vp[i].IsPrevEpochHeadAttester = true
		}
	}
	bal, err = UpdateBalance(cfg, vp, bal)
	if err != nil {
		return nil, nil, err
	}
	return vp, bal, nil
}

// HasValidatorFlag returns true if the flag at position has set.
func HasValidatorFlag(flag, flagPosition uint8) bool {
	return ((flag >> flagPosition) & 1) == 1
}

// AddValidatorFlag adds new validator flag to existing one.
func AddValidatorFlag(flag, flagPosition uint8) (uint8, error) {
	if flagPosition > 7 {
		return flag, errors.New("flag position exceeds length")
	}
	return flag | (1 << flagPosition), nil
}
