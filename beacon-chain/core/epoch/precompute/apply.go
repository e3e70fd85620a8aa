package precompute

import (
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/epoch-rewards/beacon-chain/core/helpers"
	"github.com/prysmaticlabs/epoch-rewards/beacon-chain/state"
)

// ApplyDeltas commits the delta table to the balances of the state. New balances are computed
// from the pre-state balances in full before a single write, so an error leaves the state
// untouched. Penalties beyond a balance clamp it at zero.
func ApplyDeltas(st state.BeaconState, vp []*Validator, table DeltaTable) (state.BeaconState, error) {
	balances := st.Balances()
	if len(balances) != len(table) || len(vp) != len(table) {
		return nil, errors.Errorf("delta table has %d entries, precomputed registry %d, balances %d", len(table), len(vp), len(balances))
	}

	newBalances := make([]uint64, len(balances))
	for i, bal := range balances {
		reward, err := table[i].TotalReward()
		if err != nil {
			return nil, errors.Wrapf(err, "could not sum rewards of validator %d", i)
		}
		penalty, err := table[i].TotalPenalty()
		if err != nil {
			return nil, errors.Wrapf(err, "could not sum penalties of validator %d", i)
		}
		increased, err := helpers.IncreaseBalanceWithVal(bal, reward)
		if err != nil {
			return nil, errors.Wrapf(err, "could not increase balance of validator %d", i)
		}
		newBalances[i] = helpers.DecreaseBalanceWithVal(increased, penalty)
	}
	if err := st.SetBalances(newBalances); err != nil {
		return nil, errors.Wrap(err, "could not set balances")
	}
	for i := range vp {
		vp[i].BeforeEpochTransitionBalance = balances[i]
		vp[i].AfterEpochTransitionBalance = newBalances[i]
	}
	return st, nil
}
