// Package utils locates and decodes the epoch processing fixtures under
// testing/spectest/tests.
package utils

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/ghodss/yaml"
	jsoniter "github.com/json-iterator/go"
	"github.com/prysmaticlabs/epoch-rewards/config/params"
	"github.com/prysmaticlabs/epoch-rewards/testing/require"
)

var json = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	TagKey:                 "spec-name",
}.Froze()

// UnmarshalYaml using a customized json encoder that supports "spec-name"
// override tag.
func UnmarshalYaml(y []byte, dest interface{}) error {
	j, err := yaml.YAMLToJSON(y)
	if err != nil {
		return err
	}
	return json.Unmarshal(j, dest)
}

// Config returns the chain config preset a fixture directory is named after.
func Config(t testing.TB, config string) *params.BeaconChainConfig {
	cfg, ok := params.ByName(config)
	if !ok {
		t.Fatalf("Unknown config preset %q", config)
	}
	return cfg
}

// TestFolders returns the result of ReadDir on the passed in fixture directory
// along with its path.
func TestFolders(t testing.TB, config, forkOrPhase, folderPath string) ([]os.DirEntry, string) {
	testsFolderPath := path.Join(fixturesRoot(), config, forkOrPhase, folderPath)
	testFolders, err := os.ReadDir(testsFolderPath)
	require.NoError(t, err)

	if len(testFolders) == 0 {
		t.Fatalf("No test folders found at %s", testsFolderPath)
	}
	err = saveSpecTest(path.Join(config, forkOrPhase, folderPath))
	require.NoError(t, err)
	return testFolders, testsFolderPath
}

// FileBytes reads a file of a single fixture case.
func FileBytes(filePaths ...string) ([]byte, error) {
	return os.ReadFile(filepath.Join(filePaths...)) // #nosec G304
}

func fixturesRoot() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "tests")
}

func saveSpecTest(testFolder string) error {
	baseDir := os.Getenv("SPEC_TEST_REPORT_OUTPUT_DIR")
	if baseDir == "" {
		return nil // Do nothing if spec test report not requested.
	}
	fullPath := path.Join(baseDir, fmt.Sprintf("%x_tests.txt", testFolder))
	return os.WriteFile(fullPath, []byte(testFolder), 0600)
}
