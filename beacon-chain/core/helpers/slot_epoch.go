package helpers

import (
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/epoch-rewards/beacon-chain/state"
	"github.com/prysmaticlabs/epoch-rewards/config/params"
	types "github.com/prysmaticlabs/epoch-rewards/consensus-types/primitives"
	"github.com/prysmaticlabs/epoch-rewards/math"
)

// SlotToEpoch returns the epoch number of the input slot.
//
// Spec pseudocode definition:
//  def compute_epoch_at_slot(slot: Slot) -> Epoch:
//    """
//    Return the epoch number at ``slot``.
//    """
//    return Epoch(slot // SLOTS_PER_EPOCH)
func SlotToEpoch(cfg *params.BeaconChainConfig, slot types.Slot) types.Epoch {
	return types.Epoch(slot / cfg.SlotsPerEpoch)
}

// CurrentEpoch returns the current epoch number calculated from
// the slot number stored in beacon state.
//
// Spec pseudocode definition:
//  def get_current_epoch(state: BeaconState) -> Epoch:
//    """
//    Return the current epoch.
//    """
//    return compute_epoch_at_slot(state.slot)
func CurrentEpoch(cfg *params.BeaconChainConfig, st state.ReadOnlyBeaconState) types.Epoch {
	return SlotToEpoch(cfg, st.Slot())
}

// PrevEpoch returns the previous epoch number calculated from
// the slot number stored in beacon state. It also checks for
// underflow condition.
//
// Spec pseudocode definition:
//  def get_previous_epoch(state: BeaconState) -> Epoch:
//    """`
//    Return the previous epoch (unless the current epoch is ``GENESIS_EPOCH``).
//    """
//    current_epoch = get_current_epoch(state)
//    return GENESIS_EPOCH if current_epoch == GENESIS_EPOCH else Epoch(current_epoch - 1)
func PrevEpoch(cfg *params.BeaconChainConfig, st state.ReadOnlyBeaconState) types.Epoch {
	currentEpoch := CurrentEpoch(cfg, st)
	if currentEpoch == cfg.GenesisEpoch {
		return cfg.GenesisEpoch
	}
	return currentEpoch - 1
}

// StartSlot returns the first slot number of the
// current epoch.
//
// Spec pseudocode definition:
//  def compute_start_slot_at_epoch(epoch: Epoch) -> Slot:
//    """
//    Return the start slot of ``epoch``.
//    """
//    return Slot(epoch * SLOTS_PER_EPOCH)
func StartSlot(cfg *params.BeaconChainConfig, epoch types.Epoch) (types.Slot, error) {
	slot, err := math.Mul64(uint64(cfg.SlotsPerEpoch), uint64(epoch))
	if err != nil {
		return 0, errors.Errorf("start slot calculation overflows: %v", err)
	}
	return types.Slot(slot), nil
}

// IsEpochStart returns true if the given slot number is an epoch starting slot
// number.
func IsEpochStart(cfg *params.BeaconChainConfig, slot types.Slot) bool {
	return slot%cfg.SlotsPerEpoch == 0
}
