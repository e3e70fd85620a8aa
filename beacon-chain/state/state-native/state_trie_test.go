package state_native_test

import (
	"testing"

	statenative "github.com/prysmaticlabs/epoch-rewards/beacon-chain/state/state-native"
	"github.com/prysmaticlabs/epoch-rewards/consensus-types/primitives"
	ethpb "github.com/prysmaticlabs/epoch-rewards/proto/prysm/v1alpha1"
	"github.com/prysmaticlabs/epoch-rewards/runtime/version"
	"github.com/prysmaticlabs/epoch-rewards/testing/assert"
	"github.com/prysmaticlabs/epoch-rewards/testing/require"
)

func testPhase0Proto() *ethpb.BeaconState {
	return &ethpb.BeaconState{
		Slot:       64,
		BlockRoots: [][]byte{{'a'}, {'b'}, {'c'}},
		Validators: []*ethpb.Validator{
			{EffectiveBalance: 32e9, ExitEpoch: 100, WithdrawableEpoch: 100},
			{EffectiveBalance: 31e9, ExitEpoch: 100, WithdrawableEpoch: 100},
		},
		Balances: []uint64{32e9, 31e9},
		PreviousEpochAttestations: []*ethpb.PendingAttestation{
			{
				AttestingIndices: []primitives.ValidatorIndex{0, 1},
				Data:             &ethpb.AttestationData{Target: &ethpb.Checkpoint{Epoch: 1}, Source: &ethpb.Checkpoint{}},
				InclusionDelay:   1,
			},
		},
		FinalizedCheckpoint: &ethpb.Checkpoint{Epoch: 1, Root: []byte{'f'}},
	}
}

func testAltairProto() *ethpb.BeaconStateAltair {
	return &ethpb.BeaconStateAltair{
		Slot:                       64,
		BlockRoots:                 [][]byte{{'a'}, {'b'}},
		Validators:                 []*ethpb.Validator{{EffectiveBalance: 32e9}},
		Balances:                   []uint64{32e9},
		PreviousEpochParticipation: []byte{7},
		CurrentEpochParticipation:  []byte{0},
		InactivityScores:           []uint64{0},
		FinalizedCheckpoint:        &ethpb.Checkpoint{Epoch: 1},
	}
}

func TestInitializeFromProtoPhase0(t *testing.T) {
	tests := []struct {
		name  string
		state *ethpb.BeaconState
		error string
	}{
		{
			name:  "nil state",
			state: nil,
			error: "received nil state",
		},
		{
			name:  "mismatched balances",
			state: &ethpb.BeaconState{Validators: []*ethpb.Validator{{}}, Balances: []uint64{}},
			error: "validator registry has 1 entries but balances has 0",
		},
		{
			name:  "empty state",
			state: &ethpb.BeaconState{},
		},
		{
			name:  "full state",
			state: testPhase0Proto(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := statenative.InitializeFromProtoPhase0(tt.state)
			if tt.error != "" {
				assert.ErrorContains(t, tt.error, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, version.Phase0, st.Version())
		})
	}
}

func TestInitializeFromProtoAltair(t *testing.T) {
	_, err := statenative.InitializeFromProtoAltair(nil)
	assert.ErrorContains(t, "received nil state", err)

	st, err := statenative.InitializeFromProtoAltair(testAltairProto())
	require.NoError(t, err)
	assert.Equal(t, version.Altair, st.Version())
	assert.Equal(t, 1, st.NumValidators())
}

func TestInitializeFromProto_CopiesInput(t *testing.T) {
	pb := testPhase0Proto()
	st, err := statenative.InitializeFromProtoPhase0(pb)
	require.NoError(t, err)

	pb.Balances[0] = 1
	pb.Validators[1].Slashed = true
	pb.PreviousEpochAttestations[0].AttestingIndices[0] = 5

	bal, err := st.BalanceAtIndex(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(32e9), bal)
	v, err := st.ValidatorAtIndexReadOnly(1)
	require.NoError(t, err)
	assert.Equal(t, false, v.Slashed())
	atts, err := st.PreviousEpochAttestations()
	require.NoError(t, err)
	assert.Equal(t, primitives.ValidatorIndex(0), atts[0].AttestingIndices[0])
}

func TestBeaconState_Copy(t *testing.T) {
	st, err := statenative.InitializeFromProtoAltair(testAltairProto())
	require.NoError(t, err)
	cp := st.Copy()

	require.NoError(t, cp.SetBalances([]uint64{1}))
	require.NoError(t, cp.SetPreviousParticipationBits([]byte{0}))
	require.NoError(t, cp.SetSlot(1000))

	assert.DeepEqual(t, []uint64{32e9}, st.Balances())
	p, err := st.PreviousEpochParticipation()
	require.NoError(t, err)
	assert.DeepEqual(t, []byte{7}, p)
	assert.Equal(t, primitives.Slot(64), st.Slot())
	assert.Equal(t, st.Version(), cp.Version())
}

func TestBeaconState_ToProto(t *testing.T) {
	pb := testPhase0Proto()
	st, err := statenative.InitializeFromProtoPhase0(pb)
	require.NoError(t, err)
	got, ok := st.(*statenative.BeaconState).ToProto().(*ethpb.BeaconState)
	require.Equal(t, true, ok)
	assert.DeepEqual(t, pb, got)

	apb := testAltairProto()
	ast, err := statenative.InitializeFromProtoAltair(apb)
	require.NoError(t, err)
	agot, ok := ast.(*statenative.BeaconState).ToProto().(*ethpb.BeaconStateAltair)
	require.Equal(t, true, ok)
	assert.DeepEqual(t, apb, agot)
}
