package precompute

import (
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/epoch-rewards/config/params"
	"github.com/prysmaticlabs/epoch-rewards/math"
)

// BaseReward takes the effective balance of a validator and the total active balance of the
// epoch and returns the validator's base reward.
//
// Spec pseudocode definition:
//  def get_base_reward(state: BeaconState, index: ValidatorIndex) -> Gwei:
//    total_balance = get_total_active_balance(state)
//    effective_balance = state.validators[index].effective_balance
//    return Gwei(effective_balance * BASE_REWARD_FACTOR // integer_squareroot(total_balance) // BASE_REWARDS_PER_EPOCH)
func BaseReward(cfg *params.BeaconChainConfig, effectiveBalance, totalActiveBalance uint64) (uint64, error) {
	balanceSqrt := math.IntegerSquareRoot(totalActiveBalance)
	// Balance square root cannot be 0, this prevents division by 0.
	if balanceSqrt == 0 {
		balanceSqrt = 1
	}
	numerator, err := math.Mul64(effectiveBalance, cfg.BaseRewardFactor)
	if err != nil {
		return 0, errors.Wrap(err, "could not compute base reward")
	}
	perEpoch, err := math.Div64(numerator, balanceSqrt)
	if err != nil {
		return 0, err
	}
	br, err := math.Div64(perEpoch, cfg.BaseRewardsPerEpoch)
	if err != nil {
		return 0, errors.Wrap(err, "could not compute base reward")
	}
	return br, nil
}
