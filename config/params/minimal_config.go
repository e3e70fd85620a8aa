package params

// MinimalSpecConfig retrieves the minimal config used in spec tests.
func MinimalSpecConfig() *BeaconChainConfig {
	minimalConfig := mainnetBeaconConfig.Copy()
	minimalConfig.PresetBase = "minimal"
	minimalConfig.ConfigName = ConfigNames[Minimal]

	// Time parameters
	minimalConfig.SlotsPerEpoch = 8
	minimalConfig.SlotsPerHistoricalRoot = 64
	minimalConfig.AltairForkEpoch = 0

	// Reward and penalty quotients
	minimalConfig.InactivityPenaltyQuotient = 1 << 25

	return minimalConfig
}
