package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupTestConfig(t *testing.T) {
	tmpDir := t.TempDir()

	cfgPath := SetupTestConfig(t, tmpDir)

	assert.Equal(t, filepath.Join(tmpDir, "config.yml"), cfgPath)
	for _, d := range []string{"data", "tmp", "output", "cache"} {
		assert.DirExists(t, filepath.Join(tmpDir, d))
	}

	contents, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "session_max_duration: 600")
	assert.Contains(t, string(contents), "instructor: narrator")
}

func TestWriteDataset(t *testing.T) {
	dataDir := t.TempDir()

	path := WriteDataset(t, dataDir, "animals", []string{
		"|1||||f|ᎣᏏᏲ|osiyo|Hello||",
	})

	assert.Equal(t, filepath.Join(dataDir, "animals.txt"), path)
	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "osiyo|Hello")
}
