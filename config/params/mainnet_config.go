package params

import (
	"math"
)

// MainnetConfig returns the configuration to be used in the main network.
func MainnetConfig() *BeaconChainConfig {
	return mainnetBeaconConfig.Copy()
}

var mainnetBeaconConfig = &BeaconChainConfig{
	PresetBase: "mainnet",
	ConfigName: ConfigNames[Mainnet],

	// Time parameter constants.
	SlotsPerEpoch:                32,
	SlotsPerHistoricalRoot:       8192,
	MinAttestationInclusionDelay: 1,
	MinEpochsToInactivityPenalty: 4,
	GenesisSlot:                  0,
	GenesisEpoch:                 0,
	FarFutureEpoch:               math.MaxUint64,
	AltairForkEpoch:              74240,

	// Gwei value constants.
	MaxEffectiveBalance:       32 * 1e9,
	EjectionBalance:           16 * 1e9,
	EffectiveBalanceIncrement: 1 * 1e9,
	GweiPerEth:                1e9,

	// Reward and penalty quotients constants.
	BaseRewardFactor:          64,
	BaseRewardsPerEpoch:       4,
	ProposerRewardQuotient:    8,
	InactivityPenaltyQuotient: 67108864,

	// Validator registry.
	MinPerEpochChurnLimit:  4,
	ValidatorRegistryLimit: 1099511627776,

	// Participation flag indices.
	TimelySourceFlagIndex: 0,
	TimelyTargetFlagIndex: 1,
	TimelyHeadFlagIndex:   2,
}
