package params

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prysmaticlabs/epoch-rewards/testing/assert"
	"github.com/prysmaticlabs/epoch-rewards/testing/require"
)

func TestUnmarshalConfig_RoundTrip(t *testing.T) {
	for _, cfg := range []*BeaconChainConfig{MainnetConfig(), MinimalSpecConfig()} {
		t.Run(cfg.ConfigName, func(t *testing.T) {
			got, err := UnmarshalConfig(ConfigToYaml(cfg))
			require.NoError(t, err)
			assert.DeepEqual(t, cfg.SlotsPerEpoch, got.SlotsPerEpoch)
			assert.Equal(t, cfg.PresetBase, got.PresetBase)
			assert.Equal(t, cfg.ConfigName, got.ConfigName)
			assert.Equal(t, cfg.BaseRewardFactor, got.BaseRewardFactor)
			assert.Equal(t, cfg.InactivityPenaltyQuotient, got.InactivityPenaltyQuotient)
			assert.Equal(t, cfg.MinEpochsToInactivityPenalty, got.MinEpochsToInactivityPenalty)
		})
	}
}

func TestUnmarshalConfig_MinimalPresetBase(t *testing.T) {
	cfg, err := UnmarshalConfig([]byte("PRESET_BASE: 'minimal'\nBASE_REWARD_FACTOR: 32"))
	require.NoError(t, err)
	assert.Equal(t, MinimalSpecConfig().SlotsPerEpoch, cfg.SlotsPerEpoch)
	assert.Equal(t, uint64(32), cfg.BaseRewardFactor)
	assert.Equal(t, "devnet", cfg.ConfigName)
}

func TestUnmarshalConfig_UnknownField(t *testing.T) {
	_, err := UnmarshalConfig([]byte("BASE_REWARD_FACTORR: 32"))
	assert.ErrorContains(t, "failed to parse chain config yaml", err)
}

func TestUnmarshalConfig_RejectsZeroQuotient(t *testing.T) {
	_, err := UnmarshalConfig([]byte("PROPOSER_REWARD_QUOTIENT: 0"))
	assert.ErrorContains(t, "PROPOSER_REWARD_QUOTIENT must be non-zero", err)
}

func TestUnmarshalConfig_RejectsDuplicateFlag(t *testing.T) {
	_, err := UnmarshalConfig([]byte("TIMELY_HEAD_FLAG_INDEX: 1"))
	assert.ErrorContains(t, "used twice", err)
}

func TestLoadChainConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("CONFIG_NAME: 'leaky'\nMIN_EPOCHS_TO_INACTIVITY_PENALTY: 2"), 0600))

	cfg, err := LoadChainConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "leaky", cfg.ConfigName)
	assert.Equal(t, MainnetConfig().SlotsPerEpoch, cfg.SlotsPerEpoch)
	assert.Equal(t, uint64(2), uint64(cfg.MinEpochsToInactivityPenalty))

	_, err = LoadChainConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, "failed to read chain config file", err)
}
