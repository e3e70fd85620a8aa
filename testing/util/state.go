package util

import (
	"encoding/binary"

	"github.com/prysmaticlabs/epoch-rewards/beacon-chain/state"
	statenative "github.com/prysmaticlabs/epoch-rewards/beacon-chain/state/state-native"
	"github.com/prysmaticlabs/epoch-rewards/config/params"
	types "github.com/prysmaticlabs/epoch-rewards/consensus-types/primitives"
	ethpb "github.com/prysmaticlabs/epoch-rewards/proto/prysm/v1alpha1"
)

const rootLength = 32

// FillRootsNaturalOpt is meant to be used as an option when calling NewBeaconState.
// It fills block roots with big endian representations of natural numbers starting with 0.
// Example: 16 becomes 0x00...10.
func FillRootsNaturalOpt(state *ethpb.BeaconState) error {
	state.BlockRoots = prepareRoots()
	return nil
}

// FillRootsNaturalOptAltair is meant to be used as an option when calling NewBeaconStateAltair.
// It fills block roots with big endian representations of natural numbers starting with 0.
// Example: 16 becomes 0x00...10.
func FillRootsNaturalOptAltair(state *ethpb.BeaconStateAltair) error {
	state.BlockRoots = prepareRoots()
	return nil
}

// NewBeaconState creates a phase0 beacon state with empty fields. Block roots are
// sized to the default config's historical root window.
func NewBeaconState(options ...func(state *ethpb.BeaconState) error) (state.BeaconState, error) {
	seed := &ethpb.BeaconState{
		Slot:                        0,
		BlockRoots:                  filledByteSlice2D(uint64(params.BeaconConfig().SlotsPerHistoricalRoot), rootLength),
		Validators:                  make([]*ethpb.Validator, 0),
		Balances:                    make([]uint64, 0),
		PreviousEpochAttestations:   make([]*ethpb.PendingAttestation, 0),
		CurrentEpochAttestations:    make([]*ethpb.PendingAttestation, 0),
		PreviousJustifiedCheckpoint: &ethpb.Checkpoint{Root: make([]byte, rootLength)},
		CurrentJustifiedCheckpoint:  &ethpb.Checkpoint{Root: make([]byte, rootLength)},
		FinalizedCheckpoint:         &ethpb.Checkpoint{Root: make([]byte, rootLength)},
	}

	for _, opt := range options {
		err := opt(seed)
		if err != nil {
			return nil, err
		}
	}

	var st, err = statenative.InitializeFromProtoUnsafePhase0(seed)
	if err != nil {
		return nil, err
	}

	return st.Copy(), nil
}

// NewBeaconStateAltair creates an altair beacon state with empty fields. Block roots are
// sized to the default config's historical root window.
func NewBeaconStateAltair(options ...func(state *ethpb.BeaconStateAltair) error) (state.BeaconState, error) {
	seed := &ethpb.BeaconStateAltair{
		Slot:                        0,
		BlockRoots:                  filledByteSlice2D(uint64(params.BeaconConfig().SlotsPerHistoricalRoot), rootLength),
		Validators:                  make([]*ethpb.Validator, 0),
		Balances:                    make([]uint64, 0),
		PreviousEpochParticipation:  make([]byte, 0),
		CurrentEpochParticipation:   make([]byte, 0),
		InactivityScores:            make([]uint64, 0),
		PreviousJustifiedCheckpoint: &ethpb.Checkpoint{Root: make([]byte, rootLength)},
		CurrentJustifiedCheckpoint:  &ethpb.Checkpoint{Root: make([]byte, rootLength)},
		FinalizedCheckpoint:         &ethpb.Checkpoint{Root: make([]byte, rootLength)},
	}

	for _, opt := range options {
		err := opt(seed)
		if err != nil {
			return nil, err
		}
	}

	var st, err = statenative.InitializeFromProtoUnsafeAltair(seed)
	if err != nil {
		return nil, err
	}

	return st.Copy(), nil
}

// NewValidators returns n validators active since genesis with the maximum
// effective balance, along with their matching balances.
func NewValidators(cfg *params.BeaconChainConfig, n uint64) ([]*ethpb.Validator, []uint64) {
	validators := make([]*ethpb.Validator, n)
	balances := make([]uint64, n)
	for i := uint64(0); i < n; i++ {
		pubkey := make([]byte, 48)
		binary.LittleEndian.PutUint64(pubkey, i)
		validators[i] = &ethpb.Validator{
			PublicKey:                  pubkey,
			EffectiveBalance:           cfg.MaxEffectiveBalance,
			ActivationEligibilityEpoch: cfg.GenesisEpoch,
			ActivationEpoch:            cfg.GenesisEpoch,
			ExitEpoch:                  cfg.FarFutureEpoch,
			WithdrawableEpoch:          cfg.FarFutureEpoch,
		}
		balances[i] = cfg.MaxEffectiveBalance
	}
	return validators, balances
}

// WithValidators is an option for NewBeaconState that installs n genesis validators.
func WithValidators(cfg *params.BeaconChainConfig, n uint64) func(state *ethpb.BeaconState) error {
	return func(state *ethpb.BeaconState) error {
		state.Validators, state.Balances = NewValidators(cfg, n)
		return nil
	}
}

// WithValidatorsAltair is an option for NewBeaconStateAltair that installs n genesis
// validators with empty participation.
func WithValidatorsAltair(cfg *params.BeaconChainConfig, n uint64) func(state *ethpb.BeaconStateAltair) error {
	return func(state *ethpb.BeaconStateAltair) error {
		state.Validators, state.Balances = NewValidators(cfg, n)
		state.PreviousEpochParticipation = make([]byte, n)
		state.CurrentEpochParticipation = make([]byte, n)
		state.InactivityScores = make([]uint64, n)
		return nil
	}
}

// WithSlot is an option for NewBeaconState that sets the state slot.
func WithSlot(slot types.Slot) func(state *ethpb.BeaconState) error {
	return func(state *ethpb.BeaconState) error {
		state.Slot = slot
		return nil
	}
}

// WithSlotAltair is an option for NewBeaconStateAltair that sets the state slot.
func WithSlotAltair(slot types.Slot) func(state *ethpb.BeaconStateAltair) error {
	return func(state *ethpb.BeaconStateAltair) error {
		state.Slot = slot
		return nil
	}
}

// SSZ will fill 2D byte slices with their respective values, so we must fill these in too for round
// trip testing.
func filledByteSlice2D(length, innerLen uint64) [][]byte {
	b := make([][]byte, length)
	for i := uint64(0); i < length; i++ {
		b[i] = make([]byte, innerLen)
	}
	return b
}

func prepareRoots() [][]byte {
	rootsLen := params.BeaconConfig().SlotsPerHistoricalRoot
	roots := make([][]byte, rootsLen)
	for j := range roots {
		roots[j] = make([]byte, rootLength)
		binary.BigEndian.PutUint64(roots[j][rootLength-8:], uint64(j))
	}
	return roots
}
