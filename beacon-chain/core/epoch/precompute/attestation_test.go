package precompute

import (
	"context"
	"testing"

	"github.com/prysmaticlabs/epoch-rewards/beacon-chain/state"
	"github.com/prysmaticlabs/epoch-rewards/config/params"
	types "github.com/prysmaticlabs/epoch-rewards/consensus-types/primitives"
	ethpb "github.com/prysmaticlabs/epoch-rewards/proto/prysm/v1alpha1"
	"github.com/prysmaticlabs/epoch-rewards/testing/assert"
	"github.com/prysmaticlabs/epoch-rewards/testing/require"
	"github.com/prysmaticlabs/epoch-rewards/testing/util"
)

func phase0State(t *testing.T, cfg *params.BeaconChainConfig, slot types.Slot, n uint64) state.BeaconState {
	st, err := util.NewBeaconState(util.WithValidators(cfg, n), util.WithSlot(slot), util.FillRootsNaturalOpt)
	require.NoError(t, err)
	return st
}

func altairState(t *testing.T, cfg *params.BeaconChainConfig, slot types.Slot, n uint64) state.BeaconState {
	st, err := util.NewBeaconStateAltair(util.WithValidatorsAltair(cfg, n), util.WithSlotAltair(slot), util.FillRootsNaturalOptAltair)
	require.NoError(t, err)
	return st
}

func appendAttestation(t *testing.T, cfg *params.BeaconChainConfig, st state.BeaconState, c *util.PendingAttestationConfig) {
	att, err := util.NewPendingAttestation(cfg, st, c)
	require.NoError(t, err)
	require.NoError(t, st.AppendPreviousEpochAttestations(att))
}

func TestProcessAttestations(t *testing.T) {
	cfg := params.MainnetConfig()
	st := phase0State(t, cfg, cfg.SlotsPerEpoch*2, 8)

	// 0 and 1 vote everything, 2 and 3 miss the head, 4 and 5 miss the target.
	appendAttestation(t, cfg, st, &util.PendingAttestationConfig{Indices: []types.ValidatorIndex{0, 1}, ProposerIndex: 7})
	appendAttestation(t, cfg, st, &util.PendingAttestationConfig{Indices: []types.ValidatorIndex{2, 3}, WrongHead: true, ProposerIndex: 7})
	appendAttestation(t, cfg, st, &util.PendingAttestationConfig{Indices: []types.ValidatorIndex{4, 5}, WrongTarget: true, ProposerIndex: 7})

	vp, bp, err := New(context.Background(), st, cfg)
	require.NoError(t, err)
	vp, bp, err = ProcessAttestations(context.Background(), st, cfg, vp, bp)
	require.NoError(t, err)

	for i := 0; i < 6; i++ {
		assert.Equal(t, true, vp[i].IsPrevEpochAttester, "validator %d should be a source attester", i)
	}
	for i := 0; i < 4; i++ {
		assert.Equal(t, true, vp[i].IsPrevEpochTargetAttester, "validator %d should be a target attester", i)
	}
	assert.Equal(t, false, vp[4].IsPrevEpochTargetAttester)
	assert.Equal(t, false, vp[5].IsPrevEpochTargetAttester)
	assert.Equal(t, true, vp[0].IsPrevEpochHeadAttester)
	assert.Equal(t, true, vp[1].IsPrevEpochHeadAttester)
	assert.Equal(t, false, vp[2].IsPrevEpochHeadAttester)
	assert.Equal(t, false, vp[4].IsPrevEpochHeadAttester, "wrong target never counts for head")
	assert.Equal(t, false, vp[6].IsPrevEpochAttester)
	assert.Equal(t, types.Slot(1), vp[0].InclusionDistance)
	assert.Equal(t, types.ValidatorIndex(7), vp[0].ProposerIndex)
	assert.Equal(t, farFutureSlot, vp[6].InclusionDistance)

	eb := cfg.MaxEffectiveBalance
	assert.Equal(t, 6*eb, bp.PrevEpochAttested)
	assert.Equal(t, 4*eb, bp.PrevEpochTargetAttested)
	assert.Equal(t, 2*eb, bp.PrevEpochHeadAttested)
}

func TestProcessAttestations_SlashedNotTallied(t *testing.T) {
	cfg := params.MainnetConfig()
	st := phase0State(t, cfg, cfg.SlotsPerEpoch*2, 4)
	v, err := st.ValidatorAtIndex(0)
	require.NoError(t, err)
	v.Slashed = true
	require.NoError(t, st.UpdateValidatorAtIndex(0, v))
	appendAttestation(t, cfg, st, &util.PendingAttestationConfig{Indices: []types.ValidatorIndex{0, 1}})

	vp, bp, err := New(context.Background(), st, cfg)
	require.NoError(t, err)
	vp, bp, err = ProcessAttestations(context.Background(), st, cfg, vp, bp)
	require.NoError(t, err)
	assert.Equal(t, cfg.MaxEffectiveBalance, bp.PrevEpochAttested)
	assert.Equal(t, false, NewEligibility(vp).Source.BitAt(0))
	assert.Equal(t, true, NewEligibility(vp).Source.BitAt(1))
}

func TestProcessAttestations_EarliestInclusionWins(t *testing.T) {
	cfg := params.MainnetConfig()
	st := phase0State(t, cfg, cfg.SlotsPerEpoch*2, 4)
	appendAttestation(t, cfg, st, &util.PendingAttestationConfig{Indices: []types.ValidatorIndex{0}, InclusionDelay: 4, ProposerIndex: 1})
	appendAttestation(t, cfg, st, &util.PendingAttestationConfig{Indices: []types.ValidatorIndex{0}, InclusionDelay: 2, ProposerIndex: 2})
	// Same inclusion slot as the previous one, first one stays.
	appendAttestation(t, cfg, st, &util.PendingAttestationConfig{Indices: []types.ValidatorIndex{0}, SlotOffset: 1, InclusionDelay: 1, ProposerIndex: 3})

	vp, bp, err := New(context.Background(), st, cfg)
	require.NoError(t, err)
	vp, _, err = ProcessAttestations(context.Background(), st, cfg, vp, bp)
	require.NoError(t, err)
	assert.Equal(t, types.Slot(2), vp[0].InclusionDistance)
	assert.Equal(t, types.ValidatorIndex(2), vp[0].ProposerIndex)
}

func TestProcessAttestations_Genesis(t *testing.T) {
	cfg := params.MainnetConfig()
	st := phase0State(t, cfg, 1, 4)
	require.NoError(t, st.AppendPreviousEpochAttestations(&ethpb.PendingAttestation{
		AttestingIndices: []types.ValidatorIndex{0, 1, 2, 3},
		Data:             &ethpb.AttestationData{Target: &ethpb.Checkpoint{}},
		InclusionDelay:   1,
	}))
	vp, bp, err := New(context.Background(), st, cfg)
	require.NoError(t, err)
	vp, bp, err = ProcessAttestations(context.Background(), st, cfg, vp, bp)
	require.NoError(t, err)
	source, target, head := NewEligibility(vp).Counts()
	assert.Equal(t, uint64(0), source+target+head)
	assert.Equal(t, cfg.EffectiveBalanceIncrement, bp.PrevEpochAttested)
}

func TestProcessAttestations_InvalidRecords(t *testing.T) {
	cfg := params.MainnetConfig()
	tests := []struct {
		name    string
		att     *ethpb.PendingAttestation
		wantErr string
	}{
		{
			name:    "nil data",
			att:     &ethpb.PendingAttestation{InclusionDelay: 1},
			wantErr: "nil attestation data",
		},
		{
			name: "zero inclusion delay",
			att: &ethpb.PendingAttestation{
				Data: &ethpb.AttestationData{Target: &ethpb.Checkpoint{}},
			},
			wantErr: "attestation with inclusion delay of 0",
		},
		{
			name: "attester out of range",
			att: &ethpb.PendingAttestation{
				AttestingIndices: []types.ValidatorIndex{4},
				Data:             &ethpb.AttestationData{Target: &ethpb.Checkpoint{}},
				InclusionDelay:   1,
			},
			wantErr: "attesting index 4 out of range of 4 validators",
		},
		{
			name: "proposer out of range",
			att: &ethpb.PendingAttestation{
				Data:           &ethpb.AttestationData{Target: &ethpb.Checkpoint{}},
				InclusionDelay: 1,
				ProposerIndex:  9,
			},
			wantErr: "proposer index 9 out of range of 4 validators",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := phase0State(t, cfg, cfg.SlotsPerEpoch*2, 4)
			require.NoError(t, st.SetPreviousEpochAttestations([]*ethpb.PendingAttestation{tt.att}))
			vp, bp, err := New(context.Background(), st, cfg)
			require.NoError(t, err)
			_, _, err = ProcessAttestations(context.Background(), st, cfg, vp, bp)
			assert.ErrorContains(t, tt.wantErr, err)
		})
	}
}

func TestSameHead(t *testing.T) {
	cfg := params.MainnetConfig()
	st := phase0State(t, cfg, cfg.SlotsPerEpoch*2, 1)
	att, err := util.NewPendingAttestation(cfg, st, &util.PendingAttestationConfig{SlotOffset: 3})
	require.NoError(t, err)
	same, err := SameHead(st, cfg, att)
	require.NoError(t, err)
	assert.Equal(t, true, same)

	att.Data.BeaconBlockRoot = []byte{'A'}
	same, err = SameHead(st, cfg, att)
	require.NoError(t, err)
	assert.Equal(t, false, same)
}

func TestSameTarget(t *testing.T) {
	cfg := params.MainnetConfig()
	st := phase0State(t, cfg, cfg.SlotsPerEpoch*2, 1)
	att, err := util.NewPendingAttestation(cfg, st, &util.PendingAttestationConfig{})
	require.NoError(t, err)
	same, err := SameTarget(st, cfg, att, 1)
	require.NoError(t, err)
	assert.Equal(t, true, same)

	att.Data.Target.Root = []byte{'A'}
	same, err = SameTarget(st, cfg, att, 1)
	require.NoError(t, err)
	assert.Equal(t, false, same)
}

func TestUpdateBalance(t *testing.T) {
	cfg := params.MainnetConfig()
	vp := []*Validator{
		{IsPrevEpochAttester: true, CurrentEpochEffectiveBalance: 100 * cfg.EffectiveBalanceIncrement},
		{IsPrevEpochAttester: true, IsPrevEpochTargetAttester: true, CurrentEpochEffectiveBalance: 100 * cfg.EffectiveBalanceIncrement},
		{IsPrevEpochAttester: true, IsPrevEpochTargetAttester: true, IsPrevEpochHeadAttester: true, CurrentEpochEffectiveBalance: 100 * cfg.EffectiveBalanceIncrement},
		{IsSlashed: true, IsPrevEpochAttester: true, IsPrevEpochTargetAttester: true, IsPrevEpochHeadAttester: true, CurrentEpochEffectiveBalance: 100 * cfg.EffectiveBalanceIncrement},
	}
	wanted := &Balance{
		ActiveCurrentEpoch:      cfg.EffectiveBalanceIncrement,
		ActivePrevEpoch:         cfg.EffectiveBalanceIncrement,
		PrevEpochAttested:       300 * cfg.EffectiveBalanceIncrement,
		PrevEpochTargetAttested: 200 * cfg.EffectiveBalanceIncrement,
		PrevEpochHeadAttested:   100 * cfg.EffectiveBalanceIncrement,
	}
	pBal, err := UpdateBalance(cfg, vp, &Balance{})
	require.NoError(t, err)
	assert.DeepEqual(t, wanted, pBal, "Incorrect balance calculations")
}

func TestEnsureBalancesLowerBound(t *testing.T) {
	cfg := params.MainnetConfig()
	got := EnsureBalancesLowerBound(cfg, &Balance{PrevEpochAttested: 5 * cfg.EffectiveBalanceIncrement})
	assert.Equal(t, cfg.EffectiveBalanceIncrement, got.ActiveCurrentEpoch)
	assert.Equal(t, cfg.EffectiveBalanceIncrement, got.PrevEpochHeadAttested)
	assert.Equal(t, 5*cfg.EffectiveBalanceIncrement, got.PrevEpochAttested)
}
