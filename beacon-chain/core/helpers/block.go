package helpers

import (
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/epoch-rewards/beacon-chain/state"
	"github.com/prysmaticlabs/epoch-rewards/config/params"
	types "github.com/prysmaticlabs/epoch-rewards/consensus-types/primitives"
)

// BlockRootAtSlot returns the block root stored in the BeaconState for a recent slot.
// It returns an error if the requested block root is not within the slot range.
//
// Spec pseudocode definition:
//  def get_block_root_at_slot(state: BeaconState, slot: Slot) -> Root:
//    """
//    Return the block root at a recent ``slot``.
//    """
//    assert slot < state.slot <= slot + SLOTS_PER_HISTORICAL_ROOT
//    return state.block_roots[slot % SLOTS_PER_HISTORICAL_ROOT]
func BlockRootAtSlot(cfg *params.BeaconChainConfig, st state.ReadOnlyBeaconState, slot types.Slot) ([]byte, error) {
	if cfg.SlotsPerHistoricalRoot == 0 {
		return nil, errors.New("slots per historical root is zero")
	}
	stateSlot := st.Slot()
	if slot >= stateSlot {
		return nil, errors.Errorf("slot %d is not within range %d to %d", slot, earliestSlot(cfg, stateSlot), stateSlot)
	}
	upper, err := slot.SafeAdd(uint64(cfg.SlotsPerHistoricalRoot))
	if err == nil && stateSlot > upper {
		return nil, errors.Errorf("slot %d is not within range %d to %d", slot, earliestSlot(cfg, stateSlot), stateSlot)
	}
	return st.BlockRootAtIndex(uint64(slot.ModSlot(cfg.SlotsPerHistoricalRoot)))
}

// BlockRoot returns the block root stored in the BeaconState for epoch start slot.
//
// Spec pseudocode definition:
//  def get_block_root(state: BeaconState, epoch: Epoch) -> Root:
//    """
//    Return the block root at the start of a recent ``epoch``.
//    """
//    return get_block_root_at_slot(state, compute_start_slot_at_epoch(epoch))
func BlockRoot(cfg *params.BeaconChainConfig, st state.ReadOnlyBeaconState, epoch types.Epoch) ([]byte, error) {
	s, err := StartSlot(cfg, epoch)
	if err != nil {
		return nil, err
	}
	return BlockRootAtSlot(cfg, st, s)
}

func earliestSlot(cfg *params.BeaconChainConfig, stateSlot types.Slot) types.Slot {
	if stateSlot < cfg.SlotsPerHistoricalRoot {
		return cfg.GenesisSlot
	}
	return stateSlot - cfg.SlotsPerHistoricalRoot
}
