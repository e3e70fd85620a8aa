package epoch

import (
	"context"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/prysmaticlabs/epoch-rewards/config/params"
	types "github.com/prysmaticlabs/epoch-rewards/consensus-types/primitives"
	ethpb "github.com/prysmaticlabs/epoch-rewards/proto/prysm/v1alpha1"
	"github.com/prysmaticlabs/epoch-rewards/runtime/version"
	"github.com/prysmaticlabs/epoch-rewards/testing/require"
)

func TestFuzzProcessRewardsAndPenalties_1000(t *testing.T) {
	cfg := params.MainnetConfig()
	fuzzer := fuzz.NewWithSeed(0)
	const n = 16

	for i := 0; i < 1000; i++ {
		var (
			effective [n]uint64
			balances  [n]uint64
			slashed   [n]bool
			flags     [n]byte
			finalized uint8
			epoch     uint8
		)
		fuzzer.Fuzz(&effective)
		fuzzer.Fuzz(&balances)
		fuzzer.Fuzz(&slashed)
		fuzzer.Fuzz(&flags)
		fuzzer.Fuzz(&finalized)
		fuzzer.Fuzz(&epoch)

		st := buildState(t, cfg, version.Altair, cfg.SlotsPerEpoch*types.Slot(epoch), n)
		for j := 0; j < n; j++ {
			v, err := st.ValidatorAtIndex(types.ValidatorIndex(j))
			require.NoError(t, err)
			// Keep the registry total below the point where effective balances could overflow a sum.
			v.EffectiveBalance = effective[j] % (cfg.MaxEffectiveBalance + 1)
			v.Slashed = slashed[j]
			require.NoError(t, st.UpdateValidatorAtIndex(types.ValidatorIndex(j), v))
		}
		// Keep room above every balance for the rewards of one epoch.
		bals := make([]uint64, n)
		for j := range bals {
			bals[j] = balances[j] >> 1
		}
		require.NoError(t, st.SetBalances(bals))
		require.NoError(t, st.SetPreviousParticipationBits(flags[:]))
		require.NoError(t, st.SetFinalizedCheckpoint(&ethpb.Checkpoint{Epoch: types.Epoch(finalized), Root: make([]byte, 32)}))

		post, report, err := ProcessRewardsAndPenaltiesWithReport(context.Background(), cfg, st)
		require.NoError(t, err)
		after := post.Balances()
		for j := range after {
			reward, err := report.Deltas[j].TotalReward()
			require.NoError(t, err)
			penalty, err := report.Deltas[j].TotalPenalty()
			require.NoError(t, err)
			want := uint64(0)
			if bals[j]+reward > penalty {
				want = bals[j] + reward - penalty
			}
			require.Equal(t, want, after[j], "balance of validator %d at iteration %d", j, i)
		}
	}
}
