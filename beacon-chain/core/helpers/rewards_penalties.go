package helpers

import (
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/epoch-rewards/beacon-chain/state"
	"github.com/prysmaticlabs/epoch-rewards/config/params"
	types "github.com/prysmaticlabs/epoch-rewards/consensus-types/primitives"
	"github.com/prysmaticlabs/epoch-rewards/math"
)

// TotalBalance returns the total amount at stake in Gwei
// of input validators.
//
// Spec pseudocode definition:
//  def get_total_balance(state: BeaconState, indices: Set[ValidatorIndex]) -> Gwei:
//    """
//    Return the combined effective balance of the ``indices``.
//    ``EFFECTIVE_BALANCE_INCREMENT`` Gwei minimum to avoid divisions by zero.
//    Math safe up to ~10B ETH, afterwhich this overflows uint64.
//    """
//    return Gwei(max(EFFECTIVE_BALANCE_INCREMENT, sum([state.validators[index].effective_balance for index in indices])))
func TotalBalance(cfg *params.BeaconChainConfig, st state.ReadOnlyValidators, indices []types.ValidatorIndex) (uint64, error) {
	total := uint64(0)
	for _, idx := range indices {
		val, err := st.ValidatorAtIndexReadOnly(idx)
		if err != nil {
			return 0, err
		}
		total, err = math.Add64(total, val.EffectiveBalance())
		if err != nil {
			return 0, errors.Wrap(err, "could not sum effective balances")
		}
	}

	// EFFECTIVE_BALANCE_INCREMENT is the lower bound for total balance.
	if total < cfg.EffectiveBalanceIncrement {
		return cfg.EffectiveBalanceIncrement, nil
	}
	return total, nil
}

// TotalActiveBalance returns the total amount at stake in Gwei
// of active validators.
//
// Spec pseudocode definition:
//  def get_total_active_balance(state: BeaconState) -> Gwei:
//    """
//    Return the combined effective balance of the active validators.
//    Note: ``get_total_balance`` returns ``EFFECTIVE_BALANCE_INCREMENT`` Gwei minimum to avoid divisions by zero.
//    """
//    return get_total_balance(state, set(get_active_validator_indices(state, get_current_epoch(state))))
func TotalActiveBalance(cfg *params.BeaconChainConfig, st state.ReadOnlyBeaconState) (uint64, error) {
	total := uint64(0)
	epoch := CurrentEpoch(cfg, st)
	if err := st.ReadFromEveryValidator(func(idx int, val state.ReadOnlyValidator) error {
		if !IsActiveValidatorUsingTrie(val, epoch) {
			return nil
		}
		var err error
		total, err = math.Add64(total, val.EffectiveBalance())
		return err
	}); err != nil {
		return 0, errors.Wrap(err, "could not sum active balances")
	}

	// EFFECTIVE_BALANCE_INCREMENT is the lower bound for total balance.
	if total < cfg.EffectiveBalanceIncrement {
		return cfg.EffectiveBalanceIncrement, nil
	}
	return total, nil
}

// IncreaseBalance increases validator with the given 'index' balance by 'delta' in Gwei.
//
// Spec pseudocode definition:
//  def increase_balance(state: BeaconState, index: ValidatorIndex, delta: Gwei) -> None:
//    """
//    Increase the validator balance at index ``index`` by ``delta``.
//    """
//    state.balances[index] += delta
func IncreaseBalance(st state.BeaconState, idx types.ValidatorIndex, delta uint64) error {
	balAtIdx, err := st.BalanceAtIndex(idx)
	if err != nil {
		return err
	}
	newBal, err := IncreaseBalanceWithVal(balAtIdx, delta)
	if err != nil {
		return err
	}
	return st.UpdateBalancesAtIndex(idx, newBal)
}

// IncreaseBalanceWithVal increases validator with the given 'index' balance by 'delta' in Gwei.
// This method is flattened version of the spec method, taking in the raw balance and returning
// the post balance.
func IncreaseBalanceWithVal(currBalance, delta uint64) (uint64, error) {
	return math.Add64(currBalance, delta)
}

// DecreaseBalance decreases validator with the given 'index' balance by 'delta' in Gwei.
//
// Spec pseudocode definition:
//  def decrease_balance(state: BeaconState, index: ValidatorIndex, delta: Gwei) -> None:
//    """
//    Decrease the validator balance at index ``index`` by ``delta``, with underflow protection.
//    """
//    state.balances[index] = 0 if delta > state.balances[index] else state.balances[index] - delta
func DecreaseBalance(st state.BeaconState, idx types.ValidatorIndex, delta uint64) error {
	balAtIdx, err := st.BalanceAtIndex(idx)
	if err != nil {
		return err
	}
	return st.UpdateBalancesAtIndex(idx, DecreaseBalanceWithVal(balAtIdx, delta))
}

// DecreaseBalanceWithVal decreases validator with the given 'index' balance by 'delta' in Gwei.
// This method is flattened version of the spec method, taking in the raw balance and returning
// the post balance.
func DecreaseBalanceWithVal(currBalance, delta uint64) uint64 {
	return math.SaturatingSub(currBalance, delta)
}

// FinalityDelay returns the finality delay using the beacon state.
//
// Spec code:
//  def get_finality_delay(state: BeaconState) -> uint64:
//    return get_previous_epoch(state) - state.finalized_checkpoint.epoch
func FinalityDelay(prevEpoch, finalizedEpoch types.Epoch) types.Epoch {
	if finalizedEpoch > prevEpoch {
		return 0
	}
	return prevEpoch - finalizedEpoch
}

// IsInInactivityLeak returns true if the state is experiencing inactivity leak.
// The delay is measured from the previous epoch, see FinalityDelay.
//
// Spec code:
//  def is_in_inactivity_leak(state: BeaconState) -> bool:
//    return get_finality_delay(state) > MIN_EPOCHS_TO_INACTIVITY_PENALTY
func IsInInactivityLeak(cfg *params.BeaconChainConfig, prevEpoch, finalizedEpoch types.Epoch) bool {
	return FinalityDelay(prevEpoch, finalizedEpoch) > cfg.MinEpochsToInactivityPenalty
}
