package utils

import (
	"os"
	"path/filepath"
	"testing"

	types "github.com/prysmaticlabs/epoch-rewards/consensus-types/primitives"
	"github.com/prysmaticlabs/epoch-rewards/testing/assert"
	"github.com/prysmaticlabs/epoch-rewards/testing/require"
)

func TestConfig(t *testing.T) {
	require.Equal(t, types.Slot(8), Config(t, "minimal").SlotsPerEpoch)
	require.Equal(t, types.Slot(32), Config(t, "mainnet").SlotsPerEpoch)
}

func TestUnmarshalYaml_SpecNameTag(t *testing.T) {
	type fixture struct {
		Delay types.Epoch `spec-name:"finality_delay"`
		Leak  bool        `spec-name:"inactivity_leak"`
		Other uint64      `json:"plain"`
	}
	f := &fixture{}
	require.NoError(t, UnmarshalYaml([]byte("finality_delay: 9\ninactivity_leak: true\nplain: 4\n"), f))
	assert.Equal(t, types.Epoch(9), f.Delay)
	assert.Equal(t, true, f.Leak)
	assert.Equal(t, uint64(4), f.Other, "Fields without a spec-name tag fall back to their json tag")
}

func TestTestFolders(t *testing.T) {
	folders, folderPath := TestFolders(t, "minimal", "altair", "rewards")
	names := make(map[string]bool, len(folders))
	for _, f := range folders {
		names[f.Name()] = true
	}
	assert.Equal(t, true, names["mixed_participation"])
	assert.Equal(t, true, names["inactivity_leak"])

	_, err := FileBytes(folderPath, "mixed_participation", "meta.yaml")
	require.NoError(t, err)
}

func TestTestFolders_ReportOutput(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SPEC_TEST_REPORT_OUTPUT_DIR", dir)
	TestFolders(t, "minimal", "phase0", "rewards")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Equal(t, 1, len(entries))
	enc, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, "minimal/phase0/rewards", string(enc))
}
