package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	got, err := Load(writeConfig(t, "data_dir: data\n"))

	require.NoError(t, err)
	assert.Equal(t, "data", got.DataDir)
	assert.Equal(t, float64(3570), got.SessionMaxDuration)
	assert.Equal(t, 7, got.NewCardMaxTries)
	assert.Equal(t, 28, got.NewCardsMaxPerSession)
	assert.Equal(t, 14, got.NewCardsPerSession)
	assert.Equal(t, 1, got.NewCardsIncrement)
	assert.Equal(t, 6, got.ReviewCardMaxTries)
	assert.Equal(t, 42, got.ReviewCardsMaxPerSession)
	assert.Equal(t, 14, got.ReviewCardsPerSession)
	assert.Equal(t, 2, got.ReviewCardsIncrement)
	assert.Equal(t, 2, got.ExtraSessions)
	assert.True(t, got.BreakOnEndNote)
	assert.InDelta(t, 1.3, got.Alpha, 1e-9)
	assert.Equal(t, "chr", got.TTS.TargetLanguage)
	assert.NotEmpty(t, got.Voices.Instructor)
}

func TestLoad_CustomValues(t *testing.T) {
	got, err := Load(writeConfig(t, `session_max_duration: 1800
new_cards_per_session: 4
new_cards_max_per_session: 8
review_cards_per_session: 6
extra_sessions: 0
create_mp4: true
voices:
  instructor: narrator
  challenge_male: [cm1, cm2]
  challenge_female: [cf1]
  answer_male: [am1]
  answer_female: [af1]
datasets:
  animals:
    title: Animal Words
    about: Common animal vocabulary.
`))

	require.NoError(t, err)
	assert.Equal(t, float64(1800), got.SessionMaxDuration)
	assert.Equal(t, 4, got.NewCardsPerSession)
	assert.Equal(t, 8, got.NewCardsMaxPerSession)
	assert.Equal(t, 0, got.ExtraSessions)
	assert.True(t, got.CreateMP4)
	assert.Equal(t, "narrator", got.Voices.Instructor)
	assert.Equal(t, []string{"cm1", "cm2"}, got.Voices.ChallengeMale)
	assert.Equal(t, "Animal Words", got.DatasetTitle("animals"))
	assert.Equal(t, "Common animal vocabulary.", got.DatasetAbout("animals"))
	assert.Equal(t, filepath.Join("data", "animals.txt"), got.DatasetSource("animals"))
}

func TestLoad_InvalidYAML(t *testing.T) {
	got, err := Load(writeConfig(t, "data_dir: data\n  broken [[[\n"))

	assert.Error(t, err)
	assert.Nil(t, got)
	assert.Contains(t, err.Error(), "configuration file found but could not be read")
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		wantMsg  string
	}{
		{
			name:     "negative session duration",
			contents: "session_max_duration: -1\n",
			wantMsg:  "session_max_duration",
		},
		{
			name:     "zero max tries",
			contents: "new_card_max_tries: 0\n",
			wantMsg:  "new_card_max_tries",
		},
		{
			name:     "per session above max",
			contents: "new_cards_per_session: 30\nnew_cards_max_per_session: 28\n",
			wantMsg:  "new_cards_per_session 30 exceeds new_cards_max_per_session 28",
		},
		{
			name:     "empty voice pool",
			contents: "voices:\n  challenge_male: []\n",
			wantMsg:  "challenge_male",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(writeConfig(t, tt.contents))

			assert.Error(t, err)
			assert.Nil(t, got)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	originalDir, err := os.Getwd()
	require.NoError(t, err)
	defer func() {
		require.NoError(t, os.Chdir(originalDir))
	}()
	require.NoError(t, os.Chdir(t.TempDir()))

	got, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "data", got.DataDir)
	assert.Equal(t, 14, got.NewCardsPerSession)
}

func TestSaveRoundTrip(t *testing.T) {
	cfg, err := Load(writeConfig(t, "data_dir: corpus\nextra_sessions: 3\n"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, Save(cfg, path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "corpus", got.DataDir)
	assert.Equal(t, 3, got.ExtraSessions)
}
