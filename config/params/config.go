// Package params defines the protocol constants consumed by epoch reward
// and penalty processing.
package params

import (
	types "github.com/prysmaticlabs/epoch-rewards/consensus-types/primitives"
)

// BeaconChainConfig contains the constant configs that drive epoch processing.
type BeaconChainConfig struct {
	PresetBase string `yaml:"PRESET_BASE" spec:"true"`
	ConfigName string `yaml:"CONFIG_NAME" spec:"true"`

	// Time parameters.
	SlotsPerEpoch                types.Slot  `yaml:"SLOTS_PER_EPOCH" spec:"true"`
	SlotsPerHistoricalRoot       types.Slot  `yaml:"SLOTS_PER_HISTORICAL_ROOT" spec:"true"`
	MinAttestationInclusionDelay types.Slot  `yaml:"MIN_ATTESTATION_INCLUSION_DELAY" spec:"true"`
	MinEpochsToInactivityPenalty types.Epoch `yaml:"MIN_EPOCHS_TO_INACTIVITY_PENALTY" spec:"true"`
	GenesisSlot                  types.Slot  `yaml:"GENESIS_SLOT"`
	GenesisEpoch                 types.Epoch `yaml:"GENESIS_EPOCH"`
	FarFutureEpoch               types.Epoch `yaml:"FAR_FUTURE_EPOCH"`
	AltairForkEpoch              types.Epoch `yaml:"ALTAIR_FORK_EPOCH" spec:"true"`

	// Gwei values.
	MaxEffectiveBalance       uint64 `yaml:"MAX_EFFECTIVE_BALANCE" spec:"true"`
	EjectionBalance           uint64 `yaml:"EJECTION_BALANCE" spec:"true"`
	EffectiveBalanceIncrement uint64 `yaml:"EFFECTIVE_BALANCE_INCREMENT" spec:"true"`
	GweiPerEth                uint64

	// Reward and penalty quotients.
	BaseRewardFactor          uint64 `yaml:"BASE_REWARD_FACTOR" spec:"true"`
	BaseRewardsPerEpoch       uint64 `yaml:"BASE_REWARDS_PER_EPOCH"`
	ProposerRewardQuotient    uint64 `yaml:"PROPOSER_REWARD_QUOTIENT" spec:"true"`
	InactivityPenaltyQuotient uint64 `yaml:"INACTIVITY_PENALTY_QUOTIENT" spec:"true"`

	// Validator registry.
	MinPerEpochChurnLimit  uint64 `yaml:"MIN_PER_EPOCH_CHURN_LIMIT" spec:"true"`
	ValidatorRegistryLimit uint64 `yaml:"VALIDATOR_REGISTRY_LIMIT" spec:"true"`

	// Participation flags.
	TimelySourceFlagIndex uint8 `yaml:"TIMELY_SOURCE_FLAG_INDEX" spec:"true"`
	TimelyTargetFlagIndex uint8 `yaml:"TIMELY_TARGET_FLAG_INDEX" spec:"true"`
	TimelyHeadFlagIndex   uint8 `yaml:"TIMELY_HEAD_FLAG_INDEX" spec:"true"`
}

// ParticipationFlagIndices returns the source, target and head flag indices
// in that order.
func (b *BeaconChainConfig) ParticipationFlagIndices() []uint8 {
	return []uint8{b.TimelySourceFlagIndex, b.TimelyTargetFlagIndex, b.TimelyHeadFlagIndex}
}
