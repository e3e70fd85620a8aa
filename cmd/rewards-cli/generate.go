package main

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/epoch-rewards/beacon-chain/core/helpers"
	"github.com/prysmaticlabs/epoch-rewards/beacon-chain/state"
	statenative "github.com/prysmaticlabs/epoch-rewards/beacon-chain/state/state-native"
	"github.com/prysmaticlabs/epoch-rewards/cmd/flags"
	"github.com/prysmaticlabs/epoch-rewards/config/params"
	types "github.com/prysmaticlabs/epoch-rewards/consensus-types/primitives"
	ethpb "github.com/prysmaticlabs/epoch-rewards/proto/prysm/v1alpha1"
	"github.com/prysmaticlabs/epoch-rewards/runtime/version"
	"github.com/urfave/cli/v2"
)

// registrySpec describes a generated registry and its previous epoch participation.
type registrySpec struct {
	fork       int
	validators uint64
	epoch      types.Epoch
	finalized  types.Epoch
	// participation is the percentage of validators, lowest indices first, that cast
	// correct source, target and head votes.
	participation uint64
	slashed       uint64
}

var generateFlags = struct {
	Fork          string
	Validators    uint64
	Epoch         uint64
	Finalized     uint64
	Participation uint64
	Slashed       uint64
	Out           string
}{}

var forkFlag = flags.EnumValue{
	Name:        "fork",
	Usage:       "Participation record shape of the generated state (phase0, altair)",
	Destination: &generateFlags.Fork,
	Enum:        []string{version.String(version.Phase0), version.String(version.Altair)},
	Value:       version.String(version.Altair),
}.GenericFlag()

var registryFlags = []cli.Flag{
	forkFlag,
	&cli.Uint64Flag{
		Name:        "validators",
		Usage:       "Number of validators in the registry",
		Value:       1024,
		Destination: &generateFlags.Validators,
	},
	&cli.Uint64Flag{
		Name:        "epoch",
		Usage:       "Current epoch of the generated state",
		Value:       2,
		Destination: &generateFlags.Epoch,
	},
	&cli.Uint64Flag{
		Name:        "finalized-epoch",
		Usage:       "Epoch of the finalized checkpoint",
		Destination: &generateFlags.Finalized,
	},
	&cli.Uint64Flag{
		Name:        "participation",
		Usage:       "Percentage of validators voting correctly in the previous epoch",
		Value:       100,
		Destination: &generateFlags.Participation,
	},
	&cli.Uint64Flag{
		Name:        "slashed",
		Usage:       "Number of slashed validators, taken from the highest indices",
		Destination: &generateFlags.Slashed,
	},
	flags.ChainConfigFileFlag,
	flags.ConfigNameFlag,
}

var generateCommand = &cli.Command{
	Name:     "generate",
	Category: "epoch-processing",
	Usage:    "Generate a pre state snapshot with a synthetic registry and participation record",
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:        "out",
			Usage:       "Path to write the generated state file(yaml) to",
			Required:    true,
			Destination: &generateFlags.Out,
		},
	}, registryFlags...),
	Action: generateAction,
}

func registrySpecFromFlags() (*registrySpec, error) {
	f := generateFlags
	fork, ok := version.FromString(f.Fork)
	if !ok {
		return nil, errors.Errorf("unknown fork %q", f.Fork)
	}
	if f.Participation > 100 {
		return nil, errors.Errorf("participation %d is not a percentage", f.Participation)
	}
	if f.Slashed > f.Validators {
		return nil, errors.Errorf("cannot slash %d of %d validators", f.Slashed, f.Validators)
	}
	return &registrySpec{
		fork:          fork,
		validators:    f.Validators,
		epoch:         types.Epoch(f.Epoch),
		finalized:     types.Epoch(f.Finalized),
		participation: f.Participation,
		slashed:       f.Slashed,
	}, nil
}

func generateAction(c *cli.Context) error {
	cfg, err := chainConfig(c)
	if err != nil {
		return err
	}
	spec, err := registrySpecFromFlags()
	if err != nil {
		return err
	}
	st, err := generateState(cfg, spec)
	if err != nil {
		return err
	}
	if err := statenative.SaveYAML(generateFlags.Out, st); err != nil {
		return errors.Wrap(err, "could not save generated state")
	}
	log.WithField("path", generateFlags.Out).Info("Wrote generated state")
	return nil
}

// generateState builds a state at the first slot of spec.epoch with spec.validators
// genesis validators and block roots filled with natural numbers.
func generateState(cfg *params.BeaconChainConfig, spec *registrySpec) (state.BeaconState, error) {
	slot, err := helpers.StartSlot(cfg, spec.epoch)
	if err != nil {
		return nil, err
	}
	validators := make([]*ethpb.Validator, spec.validators)
	balances := make([]uint64, spec.validators)
	for i := range validators {
		pubkey := make([]byte, 48)
		binary.LittleEndian.PutUint64(pubkey, uint64(i))
		validators[i] = &ethpb.Validator{
			PublicKey:                  pubkey,
			EffectiveBalance:           cfg.MaxEffectiveBalance,
			ActivationEligibilityEpoch: cfg.GenesisEpoch,
			ActivationEpoch:            cfg.GenesisEpoch,
			ExitEpoch:                  cfg.FarFutureEpoch,
			WithdrawableEpoch:          cfg.FarFutureEpoch,
			Slashed:                    uint64(i) >= spec.validators-spec.slashed,
		}
		balances[i] = cfg.MaxEffectiveBalance
	}
	roots := make([][]byte, cfg.SlotsPerHistoricalRoot)
	for i := range roots {
		roots[i] = make([]byte, 32)
		binary.BigEndian.PutUint64(roots[i][24:], uint64(i))
	}
	finalized := &ethpb.Checkpoint{Epoch: spec.finalized, Root: make([]byte, 32)}
	justified := &ethpb.Checkpoint{Epoch: spec.finalized, Root: make([]byte, 32)}

	var st state.BeaconState
	switch spec.fork {
	case version.Phase0:
		st, err = statenative.InitializeFromProtoUnsafePhase0(&ethpb.BeaconState{
			Slot:                        slot,
			BlockRoots:                  roots,
			Validators:                  validators,
			Balances:                    balances,
			PreviousJustifiedCheckpoint: justified,
			CurrentJustifiedCheckpoint:  ethpb.CopyCheckpoint(justified),
			FinalizedCheckpoint:         finalized,
		})
	case version.Altair:
		st, err = statenative.InitializeFromProtoUnsafeAltair(&ethpb.BeaconStateAltair{
			Slot:                        slot,
			BlockRoots:                  roots,
			Validators:                  validators,
			Balances:                    balances,
			PreviousEpochParticipation:  make([]byte, spec.validators),
			CurrentEpochParticipation:   make([]byte, spec.validators),
			InactivityScores:            make([]uint64, spec.validators),
			PreviousJustifiedCheckpoint: justified,
			CurrentJustifiedCheckpoint:  ethpb.CopyCheckpoint(justified),
			FinalizedCheckpoint:         finalized,
		})
	default:
		return nil, errors.Errorf("unsupported fork %s", version.String(spec.fork))
	}
	if err != nil {
		return nil, err
	}
	if err := recordParticipation(cfg, st, spec.participants()); err != nil {
		return nil, err
	}
	return st, nil
}

// participants returns the indices of the participating validators.
func (s *registrySpec) participants() []types.ValidatorIndex {
	n := s.validators * s.participation / 100
	indices := make([]types.ValidatorIndex, n)
	for i := range indices {
		indices[i] = types.ValidatorIndex(i)
	}
	return indices
}

// recordParticipation replaces the previous epoch participation record of st with correct
// source, target and head votes of the given validators. Aggregated records spread the
// attesters over the slots of the epoch, each included one slot later.
func recordParticipation(cfg *params.BeaconChainConfig, st state.BeaconState, participants []types.ValidatorIndex) error {
	if helpers.CurrentEpoch(cfg, st) == cfg.GenesisEpoch {
		return nil
	}
	if st.Version() == version.Altair {
		bits := make([]byte, st.NumValidators())
		full := byte(0)
		for _, idx := range cfg.ParticipationFlagIndices() {
			full |= 1 << idx
		}
		for _, idx := range participants {
			bits[idx] = full
		}
		return st.SetPreviousParticipationBits(bits)
	}

	prevEpoch := helpers.PrevEpoch(cfg, st)
	start, err := helpers.StartSlot(cfg, prevEpoch)
	if err != nil {
		return err
	}
	targetRoot, err := helpers.BlockRoot(cfg, st, prevEpoch)
	if err != nil {
		return errors.Wrap(err, "could not get target root")
	}
	bySlot := make([][]types.ValidatorIndex, cfg.SlotsPerEpoch)
	for _, idx := range participants {
		offset := uint64(idx) % uint64(cfg.SlotsPerEpoch)
		bySlot[offset] = append(bySlot[offset], idx)
	}
	atts := make([]*ethpb.PendingAttestation, 0, len(bySlot))
	for offset, indices := range bySlot {
		if len(indices) == 0 {
			continue
		}
		slot := start + types.Slot(offset)
		headRoot, err := helpers.BlockRootAtSlot(cfg, st, slot)
		if err != nil {
			return errors.Wrap(err, "could not get head root")
		}
		atts = append(atts, &ethpb.PendingAttestation{
			AttestingIndices: indices,
			Data: &ethpb.AttestationData{
				Slot:            slot,
				BeaconBlockRoot: headRoot,
				Source:          st.PreviousJustifiedCheckpoint(),
				Target:          &ethpb.Checkpoint{Epoch: prevEpoch, Root: targetRoot},
			},
			InclusionDelay: cfg.MinAttestationInclusionDelay,
			ProposerIndex:  types.ValidatorIndex(uint64(slot+1) % uint64(st.NumValidators())),
		})
	}
	return st.SetPreviousEpochAttestations(atts)
}
