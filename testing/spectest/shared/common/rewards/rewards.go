package rewards

import (
	"context"
	"path"
	"testing"

	"github.com/prysmaticlabs/epoch-rewards/beacon-chain/core/epoch"
	statenative "github.com/prysmaticlabs/epoch-rewards/beacon-chain/state/state-native"
	"github.com/prysmaticlabs/epoch-rewards/config/params"
	types "github.com/prysmaticlabs/epoch-rewards/consensus-types/primitives"
	"github.com/prysmaticlabs/epoch-rewards/testing/assert"
	"github.com/prysmaticlabs/epoch-rewards/testing/require"
	"github.com/prysmaticlabs/epoch-rewards/testing/spectest/utils"
)

// Meta is the expected epoch summary of a fixture case.
type Meta struct {
	Description     string      `spec-name:"description"`
	TotalRewards    uint64      `spec-name:"total_rewards"`
	TotalPenalties  uint64      `spec-name:"total_penalties"`
	InactivityLeak  bool        `spec-name:"inactivity_leak"`
	FinalityDelay   types.Epoch `spec-name:"finality_delay"`
	SourceAttesters uint64      `spec-name:"source_attesters"`
	TargetAttesters uint64      `spec-name:"target_attesters"`
	HeadAttesters   uint64      `spec-name:"head_attesters"`
}

// RunRewardsAndPenaltiesTests executes "rewards" tests.
func RunRewardsAndPenaltiesTests(t *testing.T, config, fork string) {
	cfg := utils.Config(t, config)
	testFolders, testsFolderPath := utils.TestFolders(t, config, fork, "rewards")
	for _, folder := range testFolders {
		t.Run(folder.Name(), func(t *testing.T) {
			folderPath := path.Join(testsFolderPath, folder.Name())
			RunEpochOperationTest(t, cfg, folderPath)
		})
	}
}

// RunEpochOperationTest processes the rewards and penalties of pre.yaml_snappy and compares the
// result against post.yaml_snappy and meta.yaml.
func RunEpochOperationTest(t *testing.T, cfg *params.BeaconChainConfig, testFolderPath string) {
	preState, err := statenative.LoadYAML(path.Join(testFolderPath, "pre.yaml"+statenative.SnappySuffix))
	require.NoError(t, err)
	postState, err := statenative.LoadYAML(path.Join(testFolderPath, "post.yaml"+statenative.SnappySuffix))
	require.NoError(t, err)
	metaFile, err := utils.FileBytes(testFolderPath, "meta.yaml")
	require.NoError(t, err)
	meta := &Meta{}
	require.NoError(t, utils.UnmarshalYaml(metaFile, meta), "Failed to unmarshal meta.yaml")

	got, report, err := epoch.ProcessRewardsAndPenaltiesWithReport(context.Background(), cfg, preState)
	require.NoError(t, err, meta.Description)

	want, ok := postState.(*statenative.BeaconState)
	require.Equal(t, true, ok)
	processed, ok := got.(*statenative.BeaconState)
	require.Equal(t, true, ok)
	assert.DeepEqual(t, want.Balances(), processed.Balances(), meta.Description)
	assert.DeepEqual(t, want.ToProto(), processed.ToProto())

	s := report.Summary
	assert.Equal(t, meta.TotalRewards, s.TotalRewards, "Total rewards")
	assert.Equal(t, meta.TotalPenalties, s.TotalPenalties, "Total penalties")
	assert.Equal(t, meta.InactivityLeak, s.Leaking, "Inactivity leak")
	assert.Equal(t, meta.FinalityDelay, s.FinalityDelay, "Finality delay")
	assert.Equal(t, meta.SourceAttesters, s.SourceAttesters, "Source attesters")
	assert.Equal(t, meta.TargetAttesters, s.TargetAttesters, "Target attesters")
	assert.Equal(t, meta.HeadAttesters, s.HeadAttesters, "Head attesters")
}
