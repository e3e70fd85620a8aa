package precompute

import (
	"context"
	"runtime"
	"testing"

	"github.com/prysmaticlabs/epoch-rewards/beacon-chain/state"
	"github.com/prysmaticlabs/epoch-rewards/config/params"
	types "github.com/prysmaticlabs/epoch-rewards/consensus-types/primitives"
	"github.com/prysmaticlabs/epoch-rewards/math"
	"github.com/prysmaticlabs/epoch-rewards/testing/assert"
	"github.com/prysmaticlabs/epoch-rewards/testing/require"
	"github.com/prysmaticlabs/epoch-rewards/testing/util"
)

func resolve(t *testing.T, cfg *params.BeaconChainConfig, st state.BeaconState) (EligibilityResolver, []*Validator, *Balance) {
	r, err := ResolverForVersion(st.Version())
	require.NoError(t, err)
	vp, bal, err := New(context.Background(), st, cfg)
	require.NoError(t, err)
	vp, bal, err = r.ResolveEligibility(context.Background(), st, cfg, vp, bal)
	require.NoError(t, err)
	return r, vp, bal
}

func TestProcessRewardsAndPenaltiesPrecompute(t *testing.T) {
	cfg := params.MainnetConfig()
	st := phase0State(t, cfg, cfg.SlotsPerEpoch*2, 64)
	appendAttestation(t, cfg, st, &util.PendingAttestationConfig{Indices: util.ValidatorIndices(32), ProposerIndex: 63})

	r, vp, bal := resolve(t, cfg, st)
	st, table, err := ProcessRewardsAndPenaltiesPrecompute(context.Background(), st, cfg, r, bal, vp)
	require.NoError(t, err)
	require.Equal(t, 64, len(table))

	// Base reward of 357771 with half the stake attesting.
	assert.Equal(t, Delta{Reward: 178885}, table[0].Source)
	assert.Equal(t, Delta{Reward: 178885}, table[0].Target)
	assert.Equal(t, Delta{Reward: 178885}, table[0].Head)
	assert.Equal(t, Delta{Reward: 313050}, table[0].InclusionDelay)
	assert.Equal(t, Delta{Penalty: 357771}, table[40].Source)
	assert.Equal(t, Delta{Reward: 32 * 44721}, table[63].Proposer)

	balances := st.Balances()
	assert.Equal(t, uint64(32000849705), balances[0], "Attester balance")
	assert.Equal(t, uint64(31998926687), balances[40], "Non attester balance")
	assert.Equal(t, uint64(31998926687+32*44721), balances[63], "Proposer balance")
	assert.Equal(t, uint64(32e9), vp[0].BeforeEpochTransitionBalance)
	assert.Equal(t, uint64(32000849705), vp[0].AfterEpochTransitionBalance)
}

func TestProcessRewardsAndPenaltiesPrecompute_Altair(t *testing.T) {
	cfg := params.MainnetConfig()
	st := altairState(t, cfg, cfg.SlotsPerEpoch*2, 64)
	flags := make([]byte, 64)
	for i := 0; i < 32; i++ {
		flags[i] = util.ParticipationFlags(cfg, true, true, true)
	}
	require.NoError(t, st.SetPreviousParticipationBits(flags))

	r, vp, bal := resolve(t, cfg, st)
	st, table, err := ProcessRewardsAndPenaltiesPrecompute(context.Background(), st, cfg, r, bal, vp)
	require.NoError(t, err)
	assert.Equal(t, Delta{}, table[0].InclusionDelay)
	assert.Equal(t, Delta{}, table[0].Proposer)
	assert.Equal(t, uint64(32000536655), st.Balances()[0])
	assert.Equal(t, uint64(31998926687), st.Balances()[40])
}

func TestProcessRewardsAndPenaltiesPrecompute_Leak(t *testing.T) {
	cfg := params.MainnetConfig()
	// Previous epoch 10 with nothing finalized since genesis.
	slot := cfg.SlotsPerEpoch * 11

	t.Run("phase0", func(t *testing.T) {
		st := phase0State(t, cfg, slot, 64)
		appendAttestation(t, cfg, st, &util.PendingAttestationConfig{Indices: util.ValidatorIndices(63), ProposerIndex: 63})
		r, vp, bal := resolve(t, cfg, st)
		st, table, err := ProcessRewardsAndPenaltiesPrecompute(context.Background(), st, cfg, r, bal, vp)
		require.NoError(t, err)
		assert.Equal(t, uint64(32e9), st.Balances()[0], "Perfect attester nets zero while leaking")
		assert.Equal(t, Delta{Reward: 63 * 44721}, table[63].Proposer, "Proposer credited while leaking")
		assert.Equal(t, 4*uint64(357771)-44721+32e9*10/cfg.InactivityPenaltyQuotient, table[63].Inactivity.Penalty)
	})
	t.Run("altair", func(t *testing.T) {
		st := altairState(t, cfg, slot, 64)
		flags := make([]byte, 64)
		for i := 0; i < 63; i++ {
			flags[i] = util.ParticipationFlags(cfg, true, true, true)
		}
		require.NoError(t, st.SetPreviousParticipationBits(flags))
		r, vp, bal := resolve(t, cfg, st)
		st, table, err := ProcessRewardsAndPenaltiesPrecompute(context.Background(), st, cfg, r, bal, vp)
		require.NoError(t, err)
		assert.Equal(t, uint64(32e9), st.Balances()[0], "Perfect attester nets zero while leaking")
		assert.Equal(t, 3*uint64(357771)+32e9*10/cfg.InactivityPenaltyQuotient, table[63].Inactivity.Penalty)
	})
}

func TestProcessRewardsAndPenaltiesPrecompute_Genesis(t *testing.T) {
	cfg := params.MainnetConfig()
	st := phase0State(t, cfg, 5, 8)
	r, vp, bal := resolve(t, cfg, st)
	before := st.Balances()
	st, table, err := ProcessRewardsAndPenaltiesPrecompute(context.Background(), st, cfg, r, bal, vp)
	require.NoError(t, err)
	assert.DeepEqual(t, before, st.Balances())
	assert.Equal(t, 8, len(table))
}

func TestProcessRewardsAndPenaltiesPrecompute_BadPrecompute(t *testing.T) {
	cfg := params.MainnetConfig()
	st := phase0State(t, cfg, cfg.SlotsPerEpoch*2, 8)
	r, vp, bal := resolve(t, cfg, st)
	_, _, err := ProcessRewardsAndPenaltiesPrecompute(context.Background(), st, cfg, r, bal, vp[:4])
	assert.ErrorContains(t, "precomputed registries not the same length as state registries", err)
}

func TestAttestationsDelta_IndependentOfWorkerCount(t *testing.T) {
	cfg := params.MainnetConfig()
	st := phase0State(t, cfg, cfg.SlotsPerEpoch*2, 257)
	appendAttestation(t, cfg, st, &util.PendingAttestationConfig{Indices: util.ValidatorIndices(100), ProposerIndex: 3})
	appendAttestation(t, cfg, st, &util.PendingAttestationConfig{
		Indices: []types.ValidatorIndex{150, 151, 152}, WrongHead: true, InclusionDelay: 3, ProposerIndex: 200,
	})
	_, vp, bal := resolve(t, cfg, st)
	e := NewEligibility(vp)

	prev := runtime.GOMAXPROCS(1)
	single, err := AttestationsDelta(context.Background(), st, cfg, true, bal, vp, e)
	runtime.GOMAXPROCS(prev)
	require.NoError(t, err)

	runtime.GOMAXPROCS(16)
	many, err := AttestationsDelta(context.Background(), st, cfg, true, bal, vp, e)
	runtime.GOMAXPROCS(prev)
	require.NoError(t, err)

	assert.DeepEqual(t, single, many)
}

func TestAttestationsDelta_Ineligible(t *testing.T) {
	cfg := params.MainnetConfig()
	st := phase0State(t, cfg, cfg.SlotsPerEpoch*2, 4)
	exited, err := st.ValidatorAtIndex(0)
	require.NoError(t, err)
	exited.ExitEpoch = 0
	exited.WithdrawableEpoch = 0
	require.NoError(t, st.UpdateValidatorAtIndex(0, exited))
	slashed, err := st.ValidatorAtIndex(1)
	require.NoError(t, err)
	slashed.Slashed = true
	slashed.ExitEpoch = 0
	require.NoError(t, st.UpdateValidatorAtIndex(1, slashed))

	_, vp, bal := resolve(t, cfg, st)
	table, err := AttestationsDelta(context.Background(), st, cfg, true, bal, vp, NewEligibility(vp))
	require.NoError(t, err)
	assert.Equal(t, Deltas{}, table[0], "Exited and withdrawable validator is not eligible")
	assert.Equal(t, true, table[1].Source.Penalty > 0, "Slashed validator not yet withdrawable is penalized")
	assert.Equal(t, table[1].Source.Penalty, table[1].Head.Penalty)
}

func TestEligibleForRewards(t *testing.T) {
	tests := []struct {
		name string
		v    *Validator
		want bool
	}{
		{name: "active previous epoch", v: &Validator{IsActivePrevEpoch: true}, want: true},
		{name: "slashed not withdrawable", v: &Validator{IsSlashed: true}, want: true},
		{name: "slashed and withdrawable", v: &Validator{IsSlashed: true, IsWithdrawableCurrentEpoch: true}, want: false},
		{name: "inactive", v: &Validator{}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EligibleForRewards(tt.v))
		})
	}
}

func TestProposersDelta(t *testing.T) {
	cfg := params.MainnetConfig()
	eb := cfg.MaxEffectiveBalance
	vp := []*Validator{
		{IsPrevEpochAttester: true, CurrentEpochEffectiveBalance: eb, ProposerIndex: 2},
		{IsPrevEpochAttester: true, CurrentEpochEffectiveBalance: eb, ProposerIndex: 2},
		{IsSlashed: true, IsPrevEpochAttester: true, CurrentEpochEffectiveBalance: eb, ProposerIndex: 0},
	}
	bal := &Balance{ActiveCurrentEpoch: 3 * eb}
	table := make(DeltaTable, 3)
	require.NoError(t, ProposersDelta(cfg, bal, vp, NewEligibility(vp), table))
	br, err := BaseReward(cfg, eb, 3*eb)
	require.NoError(t, err)
	assert.Equal(t, 2*(br/cfg.ProposerRewardQuotient), table[2].Proposer.Reward)
	assert.Equal(t, uint64(0), table[0].Proposer.Reward, "Slashed attester credits no proposer")

	vp[0].ProposerIndex = 7
	err = ProposersDelta(cfg, bal, vp, NewEligibility(vp), make(DeltaTable, 3))
	assert.ErrorContains(t, "proposer index 7 out of range of 3 validators", err)
}

func TestDeltas_Totals(t *testing.T) {
	d := Deltas{
		Source:         Delta{Reward: 1},
		Target:         Delta{Reward: 2, Penalty: 3},
		Head:           Delta{Penalty: 4},
		InclusionDelay: Delta{Reward: 5},
		Proposer:       Delta{Reward: 6},
		Inactivity:     Delta{Penalty: 7},
	}
	r, err := d.TotalReward()
	require.NoError(t, err)
	assert.Equal(t, uint64(14), r)
	p, err := d.TotalPenalty()
	require.NoError(t, err)
	assert.Equal(t, uint64(14), p)

	rewards, penalties, err := DeltaTable{d, d}.Totals()
	require.NoError(t, err)
	assert.Equal(t, uint64(28), rewards)
	assert.Equal(t, uint64(28), penalties)

	overflow := Deltas{Source: Delta{Reward: ^uint64(0)}, Proposer: Delta{Reward: 1}}
	_, err = overflow.TotalReward()
	assert.ErrorIs(t, err, math.ErrAddOverflow)
}

func TestAttestationsDelta_ZeroIncrement(t *testing.T) {
	cfg := params.MainnetConfig()
	cfg.EffectiveBalanceIncrement = 0
	st, err := util.NewBeaconState(util.WithSlot(cfg.SlotsPerEpoch * 2))
	require.NoError(t, err)
	_, err = AttestationsDelta(context.Background(), st, cfg, true, &Balance{}, []*Validator{}, NewEligibility(nil))
	assert.ErrorContains(t, "effective balance increment is zero", err)
}

func TestAttestationDelta_LongLeakDoesNotOverflow(t *testing.T) {
	cfg := params.MainnetConfig()
	vp := []*Validator{{IsActivePrevEpoch: true, CurrentEpochEffectiveBalance: 32e9}}
	bal := &Balance{ActiveCurrentEpoch: 32e9, ActivePrevEpoch: 32e9}
	// 32e9 * 2^40 does not fit in 64 bits, the scaled penalty does.
	rc := &rewardContext{
		cfg:               cfg,
		bal:               bal,
		eligibility:       NewEligibility(vp),
		inclusionRewards:  true,
		leaking:           true,
		finalityDelay:     types.Epoch(1 << 40),
		increment:         cfg.EffectiveBalanceIncrement,
		totalIncrements:   32,
		flagDimensionsLen: 3,
	}
	d, err := attestationDelta(rc, vp[0], 0)
	require.NoError(t, err)

	br, err := BaseReward(cfg, 32e9, 32e9)
	require.NoError(t, err)
	offset := cfg.BaseRewardsPerEpoch*br - br/cfg.ProposerRewardQuotient
	extra := uint64(32e9) * (1 << 40 / cfg.InactivityPenaltyQuotient)
	assert.Equal(t, offset+extra, d.Inactivity.Penalty)
	assert.Equal(t, br, d.Source.Penalty)
}
