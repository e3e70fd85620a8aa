package params

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// UnmarshalConfig applies the yaml chain config in bytes on top of the preset
// it names (mainnet unless PRESET_BASE says minimal). Unknown keys are
// rejected so a typo cannot silently fall back to a default constant.
func UnmarshalConfig(yamlFile []byte) (*BeaconChainConfig, error) {
	conf := MainnetConfig()
	hasConfigName := false
	for _, line := range strings.Split(string(yamlFile), "\n") {
		if strings.HasPrefix(line, "CONFIG_NAME") {
			hasConfigName = true
		}
		if strings.HasPrefix(line, "PRESET_BASE: 'minimal'") ||
			strings.HasPrefix(line, `PRESET_BASE: "minimal"`) ||
			strings.HasPrefix(line, "PRESET_BASE: minimal") ||
			strings.HasPrefix(line, "# Minimal preset") {
			conf = MinimalSpecConfig()
		}
	}
	if err := yaml.UnmarshalStrict(yamlFile, conf); err != nil {
		return nil, errors.Wrap(err, "failed to parse chain config yaml")
	}
	if !hasConfigName {
		conf.ConfigName = "devnet"
	}
	if err := conf.validate(); err != nil {
		return nil, err
	}
	log.Debugf("Config file values: %+v", conf)
	return conf, nil
}

// LoadChainConfigFile reads and unmarshals the chain config file at the given path.
func LoadChainConfigFile(chainConfigFileName string) (*BeaconChainConfig, error) {
	yamlFile, err := os.ReadFile(chainConfigFileName) // #nosec G304
	if err != nil {
		return nil, errors.Wrap(err, "failed to read chain config file")
	}
	return UnmarshalConfig(yamlFile)
}

// ConfigToYaml takes a provided config and outputs its contents
// in yaml. This allows custom configs to be read back by LoadChainConfigFile.
func ConfigToYaml(cfg *BeaconChainConfig) []byte {
	lines := []string{}
	lines = append(lines, fmt.Sprintf("PRESET_BASE: '%s'", cfg.PresetBase))
	lines = append(lines, fmt.Sprintf("CONFIG_NAME: '%s'", cfg.ConfigName))
	lines = append(lines, fmt.Sprintf("SLOTS_PER_EPOCH: %d", cfg.SlotsPerEpoch))
	lines = append(lines, fmt.Sprintf("SLOTS_PER_HISTORICAL_ROOT: %d", cfg.SlotsPerHistoricalRoot))
	lines = append(lines, fmt.Sprintf("MIN_ATTESTATION_INCLUSION_DELAY: %d", cfg.MinAttestationInclusionDelay))
	lines = append(lines, fmt.Sprintf("MIN_EPOCHS_TO_INACTIVITY_PENALTY: %d", cfg.MinEpochsToInactivityPenalty))
	lines = append(lines, fmt.Sprintf("ALTAIR_FORK_EPOCH: %d", cfg.AltairForkEpoch))
	lines = append(lines, fmt.Sprintf("MAX_EFFECTIVE_BALANCE: %d", cfg.MaxEffectiveBalance))
	lines = append(lines, fmt.Sprintf("EJECTION_BALANCE: %d", cfg.EjectionBalance))
	lines = append(lines, fmt.Sprintf("EFFECTIVE_BALANCE_INCREMENT: %d", cfg.EffectiveBalanceIncrement))
	lines = append(lines, fmt.Sprintf("BASE_REWARD_FACTOR: %d", cfg.BaseRewardFactor))
	lines = append(lines, fmt.Sprintf("BASE_REWARDS_PER_EPOCH: %d", cfg.BaseRewardsPerEpoch))
	lines = append(lines, fmt.Sprintf("PROPOSER_REWARD_QUOTIENT: %d", cfg.ProposerRewardQuotient))
	lines = append(lines, fmt.Sprintf("INACTIVITY_PENALTY_QUOTIENT: %d", cfg.InactivityPenaltyQuotient))
	lines = append(lines, fmt.Sprintf("MIN_PER_EPOCH_CHURN_LIMIT: %d", cfg.MinPerEpochChurnLimit))
	lines = append(lines, fmt.Sprintf("TIMELY_SOURCE_FLAG_INDEX: %d", cfg.TimelySourceFlagIndex))
	lines = append(lines, fmt.Sprintf("TIMELY_TARGET_FLAG_INDEX: %d", cfg.TimelyTargetFlagIndex))
	lines = append(lines, fmt.Sprintf("TIMELY_HEAD_FLAG_INDEX: %d", cfg.TimelyHeadFlagIndex))

	return []byte(strings.Join(lines, "\n"))
}

// validate rejects configs that would divide by zero during epoch processing.
func (b *BeaconChainConfig) validate() error {
	switch {
	case b.SlotsPerEpoch == 0:
		return errors.New("SLOTS_PER_EPOCH must be non-zero")
	case b.SlotsPerHistoricalRoot == 0:
		return errors.New("SLOTS_PER_HISTORICAL_ROOT must be non-zero")
	case b.EffectiveBalanceIncrement == 0:
		return errors.New("EFFECTIVE_BALANCE_INCREMENT must be non-zero")
	case b.BaseRewardsPerEpoch == 0:
		return errors.New("BASE_REWARDS_PER_EPOCH must be non-zero")
	case b.ProposerRewardQuotient == 0:
		return errors.New("PROPOSER_REWARD_QUOTIENT must be non-zero")
	case b.InactivityPenaltyQuotient == 0:
		return errors.New("INACTIVITY_PENALTY_QUOTIENT must be non-zero")
	}
	flags := map[uint8]bool{}
	for _, f := range b.ParticipationFlagIndices() {
		if f > 7 {
			return errors.Errorf("participation flag index %d does not fit in a byte", f)
		}
		if flags[f] {
			return errors.Errorf("participation flag index %d used twice", f)
		}
		flags[f] = true
	}
	return nil
}
