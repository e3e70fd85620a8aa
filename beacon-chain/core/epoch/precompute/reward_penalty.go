package precompute

import (
	"context"
	"runtime"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/epoch-rewards/beacon-chain/core/helpers"
	"github.com/prysmaticlabs/epoch-rewards/beacon-chain/state"
	"github.com/prysmaticlabs/epoch-rewards/config/params"
	types "github.com/prysmaticlabs/epoch-rewards/consensus-types/primitives"
	"github.com/prysmaticlabs/epoch-rewards/math"
	"go.opencensus.io/trace"
	"golang.org/x/sync/errgroup"
)

// Delta is a reward and a penalty in Gwei.
type Delta struct {
	Reward  uint64
	Penalty uint64
}

// Deltas are the reward and penalty components of a single validator for one epoch.
type Deltas struct {
	Source         Delta
	Target         Delta
	Head           Delta
	InclusionDelay Delta
	Proposer       Delta
	Inactivity     Delta
}

func (d *Deltas) components() []Delta {
	return []Delta{d.Source, d.Target, d.Head, d.InclusionDelay, d.Proposer, d.Inactivity}
}

// TotalReward sums the reward side of every component.
func (d *Deltas) TotalReward() (uint64, error) {
	total := uint64(0)
	for _, c := range d.components() {
		var err error
		if total, err = math.Add64(total, c.Reward); err != nil {
			return 0, err
		}
	}
	return total, nil
}

// TotalPenalty sums the penalty side of every component.
func (d *Deltas) TotalPenalty() (uint64, error) {
	total := uint64(0)
	for _, c := range d.components() {
		var err error
		if total, err = math.Add64(total, c.Penalty); err != nil {
			return 0, err
		}
	}
	return total, nil
}

// DeltaTable holds the deltas of every validator, index aligned with the registry.
type DeltaTable []Deltas

// Totals returns the sum of all rewards and all penalties in the table.
func (t DeltaTable) Totals() (rewards, penalties uint64, err error) {
	for i := range t {
		r, err := t[i].TotalReward()
		if err != nil {
			return 0, 0, err
		}
		p, err := t[i].TotalPenalty()
		if err != nil {
			return 0, 0, err
		}
		if rewards, err = math.Add64(rewards, r); err != nil {
			return 0, 0, err
		}
		if penalties, err = math.Add64(penalties, p); err != nil {
			return 0, 0, err
		}
	}
	return rewards, penalties, nil
}

// rewardContext is the epoch wide input shared by every validator's delta. It is read only
// once built.
type rewardContext struct {
	cfg               *params.BeaconChainConfig
	bal               *Balance
	eligibility       *Eligibility
	inclusionRewards  bool
	leaking           bool
	finalityDelay     types.Epoch
	increment         uint64
	totalIncrements   uint64
	flagDimensionsLen uint64
}

// ProcessRewardsAndPenaltiesPrecompute processes the rewards and penalties of individual validator.
// This is an optimized version by passing in precomputed validator attesting records and and total epoch balances.
func ProcessRewardsAndPenaltiesPrecompute(
	ctx context.Context,
	st state.BeaconState,
	cfg *params.BeaconChainConfig,
	resolver EligibilityResolver,
	pBal *Balance,
	vp []*Validator,
) (state.BeaconState, DeltaTable, error) {
	ctx, span := trace.StartSpan(ctx, "precomputeEpoch.ProcessRewardsAndPenaltiesPrecompute")
	defer span.End()

	// Can't process rewards and penalties in genesis epoch.
	if helpers.CurrentEpoch(cfg, st) == cfg.GenesisEpoch {
		return st, make(DeltaTable, len(vp)), nil
	}

	numOfVals := st.NumValidators()
	// Guard against an out-of-bounds using validator balance precompute.
	if len(vp) != numOfVals || len(vp) != st.BalancesLength() {
		return st, nil, errors.New("precomputed registries not the same length as state registries")
	}

	eligibility := NewEligibility(vp)
	table, err := AttestationsDelta(ctx, st, cfg, resolver.IncludesInclusionRewards(), pBal, vp, eligibility)
	if err != nil {
		return nil, nil, errors.Wrap(err, "could not get attestation delta")
	}
	if resolver.IncludesInclusionRewards() {
		if err := ProposersDelta(cfg, pBal, vp, eligibility, table); err != nil {
			return nil, nil, errors.Wrap(err, "could not get proposer delta")
		}
	}
	st, err = ApplyDeltas(st, vp, table)
	if err != nil {
		return nil, nil, err
	}
	return st, table, nil
}

// AttestationsDelta computes and returns the rewards and penalties differences for individual validators based on the
// voting records. Validators are split in chunks computed concurrently; each chunk writes only its own rows.
func AttestationsDelta(
	ctx context.Context,
	st state.ReadOnlyBeaconState,
	cfg *params.BeaconChainConfig,
	inclusionRewards bool,
	pBal *Balance,
	vp []*Validator,
	eligibility *Eligibility,
) (DeltaTable, error) {
	ctx, span := trace.StartSpan(ctx, "precomputeEpoch.AttestationsDelta")
	defer span.End()

	if cfg.EffectiveBalanceIncrement == 0 {
		return nil, errors.New("effective balance increment is zero")
	}
	prevEpoch := helpers.PrevEpoch(cfg, st)
	finalizedEpoch := st.FinalizedCheckpointEpoch()
	rc := &rewardContext{
		cfg:               cfg,
		bal:               pBal,
		eligibility:       eligibility,
		inclusionRewards:  inclusionRewards,
		leaking:           helpers.IsInInactivityLeak(cfg, prevEpoch, finalizedEpoch),
		finalityDelay:     helpers.FinalityDelay(prevEpoch, finalizedEpoch),
		increment:         cfg.EffectiveBalanceIncrement,
		totalIncrements:   pBal.ActiveCurrentEpoch / cfg.EffectiveBalanceIncrement,
		flagDimensionsLen: uint64(len(cfg.ParticipationFlagIndices())),
	}
	if rc.totalIncrements == 0 {
		rc.totalIncrements = 1
	}

	table := make(DeltaTable, len(vp))
	if len(vp) == 0 {
		return table, nil
	}
	workers := runtime.GOMAXPROCS(0)
	chunk := (len(vp) + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for start := 0; start < len(vp); start += chunk {
		start, end := start, start+chunk
		if end > len(vp) {
			end = len(vp)
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				d, err := attestationDelta(rc, vp[i], uint64(i))
				if err != nil {
					return errors.Wrapf(err, "could not compute delta of validator %d", i)
				}
				table[i] = d
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return table, nil
}

// EligibleForRewards for validator.
//
// Spec code:
//  if is_active_validator(v, previous_epoch) or (v.slashed and previous_epoch + 1 < v.withdrawable_epoch)
func EligibleForRewards(v *Validator) bool {
	return v.IsActivePrevEpoch || (v.IsSlashed && !v.IsWithdrawableCurrentEpoch)
}

func attestationDelta(rc *rewardContext, v *Validator, idx uint64) (Deltas, error) {
	d := Deltas{}
	if !EligibleForRewards(v) {
		return d, nil
	}

	cfg := rc.cfg
	vb := v.CurrentEpochEffectiveBalance
	br, err := BaseReward(cfg, vb, rc.bal.ActiveCurrentEpoch)
	if err != nil {
		return d, err
	}
	proposerReward := br / cfg.ProposerRewardQuotient

	// Process source reward / penalty
	inSource := rc.eligibility.Source.BitAt(idx)
	if d.Source, err = rc.componentDelta(inSource, br, rc.bal.PrevEpochAttested); err != nil {
		return d, err
	}
	if inSource && rc.inclusionRewards {
		if v.InclusionDistance == 0 {
			return d, errors.New("attestation with inclusion distance of 0")
		}
		maxAttesterReward := br - proposerReward
		d.InclusionDelay.Reward = maxAttesterReward / uint64(v.InclusionDistance)
	}

	// Process target reward / penalty
	inTarget := rc.eligibility.Target.BitAt(idx)
	if d.Target, err = rc.componentDelta(inTarget, br, rc.bal.PrevEpochTargetAttested); err != nil {
		return d, err
	}

	// Process head reward / penalty
	if d.Head, err = rc.componentDelta(rc.eligibility.Head.BitAt(idx), br, rc.bal.PrevEpochHeadAttested); err != nil {
		return d, err
	}

	// Process finality delay penalty
	if rc.leaking {
		// If validator is performing optimally, this cancels all rewards for a neutral balance.
		var offset uint64
		if rc.inclusionRewards {
			offset, err = math.Mul64(cfg.BaseRewardsPerEpoch, br)
			if err != nil {
				return d, err
			}
			if offset, err = math.Sub64(offset, proposerReward); err != nil {
				return d, err
			}
		} else {
			offset, err = math.Mul64(rc.flagDimensionsLen, br)
			if err != nil {
				return d, err
			}
		}
		d.Inactivity.Penalty = offset
		// Apply an additional penalty to validators that did not vote on the correct target or has been slashed.
		// Equivalent to the following condition from the spec:
		// `index not in get_unslashed_attesting_indices(state, matching_target_attestations)`
		if !inTarget {
			extra, err := math.MulDiv64(vb, uint64(rc.finalityDelay), cfg.InactivityPenaltyQuotient)
			if err != nil {
				return d, err
			}
			if d.Inactivity.Penalty, err = math.Add64(d.Inactivity.Penalty, extra); err != nil {
				return d, err
			}
		}
	}
	return d, nil
}

// componentDelta is the source, target or head delta of a validator.
func (rc *rewardContext) componentDelta(attested bool, br, attestedBalance uint64) (Delta, error) {
	if !attested {
		return Delta{Penalty: br}, nil
	}
	if rc.leaking {
		// Since full base reward will be canceled out by inactivity penalty deltas,
		// optimal participation receives full base reward compensation here.
		return Delta{Reward: br}, nil
	}
	reward, err := math.MulDiv64(br, attestedBalance/rc.increment, rc.totalIncrements)
	if err != nil {
		return Delta{}, err
	}
	return Delta{Reward: reward}, nil
}

// ProposersDelta computes the rewards of proposers for the attestations they included, and folds
// them into the table. Proposers are credited even during an inactivity leak.
func ProposersDelta(cfg *params.BeaconChainConfig, pBal *Balance, vp []*Validator, eligibility *Eligibility, table DeltaTable) error {
	if len(table) != len(vp) {
		return errors.New("delta table not the same length as precomputed registry")
	}
	for i, v := range vp {
		// Only apply inclusion rewards to proposer only if the attested hasn't been slashed.
		if !eligibility.Source.BitAt(uint64(i)) {
			continue
		}
		if uint64(v.ProposerIndex) >= uint64(len(table)) {
			return errors.Errorf("proposer index %d out of range of %d validators", v.ProposerIndex, len(table))
		}
		br, err := BaseReward(cfg, v.CurrentEpochEffectiveBalance, pBal.ActiveCurrentEpoch)
		if err != nil {
			return err
		}
		proposerReward := br / cfg.ProposerRewardQuotient
		p := &table[v.ProposerIndex].Proposer
		if p.Reward, err = math.Add64(p.Reward, proposerReward); err != nil {
			return err
		}
	}
	return nil
}
