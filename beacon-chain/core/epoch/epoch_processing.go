// Package epoch contains epoch processing libraries. These libraries
// process new balances for the validators at the epoch boundary from
// the participation record of the previous epoch.
package epoch

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/epoch-rewards/beacon-chain/core/epoch/precompute"
	"github.com/prysmaticlabs/epoch-rewards/beacon-chain/core/helpers"
	"github.com/prysmaticlabs/epoch-rewards/beacon-chain/state"
	"github.com/prysmaticlabs/epoch-rewards/config/params"
	types "github.com/prysmaticlabs/epoch-rewards/consensus-types/primitives"
	"github.com/prysmaticlabs/epoch-rewards/monitoring/tracing"
	ethpb "github.com/prysmaticlabs/epoch-rewards/proto/prysm/v1alpha1"
	"github.com/prysmaticlabs/epoch-rewards/runtime/logging"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"
)

var log = logrus.WithField("prefix", "epoch")

// Report is the full outcome of a rewards and penalties pass over one epoch.
type Report struct {
	Summary    *logging.EpochSummary
	Validators []*precompute.Validator
	Balance    *precompute.Balance
	Deltas     precompute.DeltaTable
}

// ProcessRewardsAndPenalties processes the rewards and penalties of every validator for the
// previous epoch and writes the resulting balances to the state. It reads the validator registry,
// the participation record, the slot and the finalized checkpoint, and writes balances only.
// At the genesis epoch it is a no-op.
func ProcessRewardsAndPenalties(ctx context.Context, cfg *params.BeaconChainConfig, st state.BeaconState) (state.BeaconState, error) {
	st, _, err := ProcessRewardsAndPenaltiesWithReport(ctx, cfg, st)
	return st, err
}

// ProcessRewardsAndPenaltiesWithReport is ProcessRewardsAndPenalties returning the per validator
// records and deltas of the pass.
func ProcessRewardsAndPenaltiesWithReport(ctx context.Context, cfg *params.BeaconChainConfig, st state.BeaconState) (state.BeaconState, *Report, error) {
	ctx, span := trace.StartSpan(ctx, "epoch.ProcessRewardsAndPenalties")
	defer span.End()

	if st == nil {
		return nil, nil, errors.New("nil state")
	}
	if cfg == nil {
		return nil, nil, errors.New("nil beacon chain config")
	}
	start := time.Now()
	currentEpoch := helpers.CurrentEpoch(cfg, st)
	span.AddAttributes(trace.Int64Attribute("epoch", int64(currentEpoch)))

	fail := func(err error, msg string) (state.BeaconState, *Report, error) {
		tracing.AnnotateError(span, err)
		log.WithError(err).WithField("epoch", currentEpoch).Warn(msg)
		return nil, nil, errors.Wrap(err, msg)
	}

	resolver, err := precompute.ResolverForVersion(st.Version())
	if err != nil {
		return fail(err, "could not select eligibility resolver")
	}
	vp, bal, err := precompute.New(ctx, st, cfg)
	if err != nil {
		return fail(err, "could not initialize epoch validators")
	}
	vp, bal, err = resolver.ResolveEligibility(ctx, st, cfg, vp, bal)
	if err != nil {
		return fail(err, "could not resolve eligibility")
	}

	if currentEpoch == cfg.GenesisEpoch {
		log.WithField("epoch", currentEpoch).Debug("Skipping rewards and penalties at genesis")
		return st, &Report{
			Summary:    &logging.EpochSummary{Epoch: currentEpoch},
			Validators: vp,
			Balance:    bal,
			Deltas:     make(precompute.DeltaTable, len(vp)),
		}, nil
	}

	prevEpoch := helpers.PrevEpoch(cfg, st)
	finalizedEpoch := st.FinalizedCheckpointEpoch()
	st, table, err := precompute.ProcessRewardsAndPenaltiesPrecompute(ctx, st, cfg, resolver, bal, vp)
	if err != nil {
		return fail(err, "could not process rewards and penalties")
	}
	rewards, penalties, err := table.Totals()
	if err != nil {
		return fail(err, "could not total deltas")
	}

	source, target, head := precompute.NewEligibility(vp).Counts()
	summary := &logging.EpochSummary{
		Epoch:           currentEpoch,
		Leaking:         helpers.IsInInactivityLeak(cfg, prevEpoch, finalizedEpoch),
		FinalityDelay:   helpers.FinalityDelay(prevEpoch, finalizedEpoch),
		SourceAttesters: source,
		TargetAttesters: target,
		HeadAttesters:   head,
		TotalRewards:    rewards,
		TotalPenalties:  penalties,
	}
	for _, v := range vp {
		if v.IsActiveCurrentEpoch {
			summary.ActiveValidators++
		}
	}
	recordEpochMetrics(summary, time.Since(start))
	log.WithFields(logging.EpochSummaryFields(summary)).Debug("Processed rewards and penalties")

	return st, &Report{
		Summary:    summary,
		Validators: vp,
		Balance:    bal,
		Deltas:     table,
	}, nil
}

// UnslashedAttestingIndices returns all the attesting indices from a list of attestations,
// it sorts the indices and filters out the slashed ones.
//
// Spec pseudocode definition:
//  def get_unslashed_attesting_indices(state: BeaconState,
//                                      attestations: Sequence[PendingAttestation]) -> Set[ValidatorIndex]:
//    output = set()  # type: Set[ValidatorIndex]
//    for a in attestations:
//        output = output.union(get_attesting_indices(state, a.data, a.aggregation_bits))
//    return set(filter(lambda index: not state.validators[index].slashed, output))
func UnslashedAttestingIndices(st state.ReadOnlyBeaconState, atts []*ethpb.PendingAttestation) ([]types.ValidatorIndex, error) {
	var setIndices []types.ValidatorIndex
	seen := make(map[types.ValidatorIndex]bool)

	for _, att := range atts {
		if att == nil {
			return nil, errors.New("nil attestation")
		}
		for _, idx := range att.AttestingIndices {
			if seen[idx] {
				continue
			}
			seen[idx] = true
			v, err := st.ValidatorAtIndexReadOnly(idx)
			if err != nil {
				return nil, err
			}
			if !v.Slashed() {
				setIndices = append(setIndices, idx)
			}
		}
	}
	// Sort the attesting set indices by increasing order.
	sort.Slice(setIndices, func(i, j int) bool { return setIndices[i] < setIndices[j] })
	return setIndices, nil
}

// AttestingBalance returns the total balance from all the attesting indices.
//
// WARNING: This method allocates a new copy of the attesting validator indices set and is
// considered to be very memory expensive. Avoid using this unless you really
// need to get attesting balance from attestations.
//
// Spec pseudocode definition:
//  def get_attesting_balance(state: BeaconState, attestations: Sequence[PendingAttestation]) -> Gwei:
//    """
//    Return the combined effective balance of the set of unslashed validators participating in ``attestations``.
//    Note: ``get_total_balance`` returns ``EFFECTIVE_BALANCE_INCREMENT`` Gwei minimum to avoid divisions by zero.
//    """
//    return get_total_balance(state, get_unslashed_attesting_indices(state, attestations))
func AttestingBalance(ctx context.Context, cfg *params.BeaconChainConfig, st state.ReadOnlyBeaconState, atts []*ethpb.PendingAttestation) (uint64, error) {
	_, span := trace.StartSpan(ctx, "epoch.AttestingBalance")
	defer span.End()

	indices, err := UnslashedAttestingIndices(st, atts)
	if err != nil {
		return 0, errors.Wrap(err, "could not get attesting indices")
	}
	return helpers.TotalBalance(cfg, st, indices)
}
