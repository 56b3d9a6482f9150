// Package testutil provides shared test helpers for creating config files
// and dataset fixtures.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// SetupTestConfig creates a minimal config file and all required directories
// for testing. Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	dirs := []string{"data", "tmp", "output", "cache"}
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, d), 0755))
	}

	configContent := fmt.Sprintf(`data_dir: %s
temp_dir: %s
output_dir: %s
session_max_duration: 600
sessions_to_create: 1
create_all_sessions: false
extra_sessions: 0
tts:
  cache_directory: %s
voices:
  instructor: narrator
  challenge_male: [cm1]
  challenge_female: [cf1]
  answer_male: [am1]
  answer_female: [af1]
`,
		filepath.Join(tmpDir, "data"),
		filepath.Join(tmpDir, "tmp"),
		filepath.Join(tmpDir, "output"),
		filepath.Join(tmpDir, "cache"),
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// WriteDataset writes a pipe-delimited vocabulary source file for the given
// dataset name under dataDir and returns its path.
func WriteDataset(t *testing.T, dataDir, dataset string, records []string) string {
	t.Helper()

	header := "flags|chapter|alt pronounce|pronoun|verb|gender|syllabary|pronounce|english|intro note|end note\n"
	contents := header
	for _, record := range records {
		contents += record + "\n"
	}

	path := filepath.Join(dataDir, dataset+".txt")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}
