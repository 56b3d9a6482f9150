package session

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/lessonforge/lessonforge/internal/audio"
	"github.com/lessonforge/lessonforge/internal/config"
	"github.com/lessonforge/lessonforge/internal/interval"
	"github.com/lessonforge/lessonforge/internal/leitner"
	mock_audio "github.com/lessonforge/lessonforge/internal/mocks/audio"
	mock_tts "github.com/lessonforge/lessonforge/internal/mocks/tts"
	"github.com/lessonforge/lessonforge/internal/prompts"
	"github.com/lessonforge/lessonforge/internal/scheduler"
	"github.com/lessonforge/lessonforge/internal/tts"
)

func testSessionConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		OutputDir:          t.TempDir(),
		SessionMaxDuration: 600,

		SessionsToCreate:  0,
		CreateAllSessions: true,
		ExtraSessions:     1,
		BreakOnEndNote:    true,

		NewCardMaxTries:       7,
		NewCardsMaxPerSession: 28,
		NewCardsPerSession:    2,
		NewCardsIncrement:     0,

		ReviewCardMaxTries:       6,
		ReviewCardsMaxPerSession: 42,
		ReviewCardsPerSession:    14,
		ReviewCardsIncrement:     2,
	}
}

func stubSynthesizer(t *testing.T, duration float64) *mock_tts.MockSynthesizer {
	t.Helper()
	synth := mock_tts.NewMockSynthesizer(gomock.NewController(t))
	synth.EXPECT().
		Synthesize(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, voice, text string) (audio.Clip, error) {
			return audio.Clip{Path: text + ".mp3", Voice: voice, Text: text, Duration: duration}, nil
		}).
		AnyTimes()
	return synth
}

func newTestRunner(t *testing.T, cfg *config.Config, cards []*leitner.Card) *Runner {
	t.Helper()
	ctrl := gomock.NewController(t)

	exporter := mock_audio.NewMockExporter(ctrl)
	exporter.EXPECT().
		Export(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	rng := rand.New(rand.NewSource(1234))
	mainDeck := leitner.NewDeck("main", rng)
	for _, card := range cards {
		mainDeck.Append(card)
	}
	mainDeck.SortBySortKey()

	schedCfg := scheduler.Config{
		NewCardMaxTries:       cfg.NewCardMaxTries,
		NewCardTriesDecrement: cfg.NewCardTriesDecrement,
		NewCardsMaxPerSession: cfg.NewCardsMaxPerSession,
		NewCardsPerSession:    cfg.NewCardsPerSession,
		NewCardsIncrement:     cfg.NewCardsIncrement,

		ReviewCardMaxTries:       cfg.ReviewCardMaxTries,
		ReviewCardTriesDecrement: cfg.ReviewCardTriesDecrement,
		ReviewCardsMaxPerSession: cfg.ReviewCardsMaxPerSession,
		ReviewCardsPerSession:    cfg.ReviewCardsPerSession,
		ReviewCardsIncrement:     cfg.ReviewCardsIncrement,
	}
	tables := interval.NewTables()
	sched := scheduler.New(schedCfg, tables, mainDeck, rng)

	synth := stubSynthesizer(t, 1.0)

	return NewRunner(Params{
		Config:          cfg,
		Dataset:         "animals",
		Scheduler:       sched,
		Tables:          tables,
		Instructor:      prompts.NewInstructor(synth, "narrator"),
		ChallengeSynth:  synth,
		AnswerSynth:     synth,
		ChallengeVoices: tts.NewSelector([]string{"cm1", "cm2"}, []string{"cf1", "cf2"}, rng),
		AnswerVoices:    tts.NewSelector([]string{"am1"}, []string{"af1"}, rng),
		Exporter:        exporter,
	})
}

func makeCards(n int) []*leitner.Card {
	cards := make([]*leitner.Card, 0, n)
	for i := 1; i <= n; i++ {
		card := leitner.NewCard(i)
		card.Challenge = fmt.Sprintf("challenge %d", i)
		card.Answer = fmt.Sprintf("answer %d", i)
		card.SetSortKey(card.Challenge)
		cards = append(cards, card)
	}
	return cards
}

func TestRunSession_IntroducesOnlyUpToCap(t *testing.T) {
	cfg := testSessionConfig(t)
	runner := newTestRunner(t, cfg, makeCards(3))

	result, err := runner.runSession(context.Background(), 0)
	require.NoError(t, err)

	require.Len(t, result.Introduced, 2)
	assert.Equal(t, "0001", result.Introduced[0].ID)
	assert.Equal(t, "0002", result.Introduced[1].ID)
	assert.Equal(t, 1, runner.sched.Main.Len())
}

func TestRunSession_CompletedCardsAdvanceLeitnerBox(t *testing.T) {
	cfg := testSessionConfig(t)
	runner := newTestRunner(t, cfg, makeCards(2))

	_, err := runner.runSession(context.Background(), 0)
	require.NoError(t, err)

	require.True(t, runner.sched.Finished.HasCards())
	for _, card := range runner.sched.Finished.Cards() {
		assert.GreaterOrEqual(t, card.Stats.LeitnerBox, 1, "card %s", card.ID())
	}
	assert.False(t, runner.sched.Active.HasCards())
	assert.False(t, runner.sched.Discards.HasCards())
}

func TestRunSession_NoConsecutiveRepeats(t *testing.T) {
	cfg := testSessionConfig(t)
	cfg.NewCardsPerSession = 4
	runner := newTestRunner(t, cfg, makeCards(4))

	result, err := runner.runSession(context.Background(), 0)
	require.NoError(t, err)

	contents, err := os.ReadFile(result.SubtitlePath)
	require.NoError(t, err)

	var cues []string
	for _, block := range strings.Split(string(contents), "\n\n") {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		if len(lines) >= 3 {
			cues = append(cues, lines[2])
		}
	}
	require.NotEmpty(t, cues)
	for i := 1; i < len(cues); i++ {
		assert.NotEqual(t, cues[i-1], cues[i], "cue %d repeats its predecessor", i)
	}
}

func TestRunSession_RespectsDurationBudget(t *testing.T) {
	cfg := testSessionConfig(t)
	cfg.SessionMaxDuration = 120
	cfg.NewCardsPerSession = 28
	runner := newTestRunner(t, cfg, makeCards(40))

	result, err := runner.runSession(context.Background(), 0)
	require.NoError(t, err)

	// One card presentation may start just under the limit, so allow a
	// single presentation of overshoot.
	assert.Less(t, result.Duration, cfg.SessionMaxDuration+60)
}

func TestRunSession_EndNoteStopsNewCards(t *testing.T) {
	cfg := testSessionConfig(t)
	cfg.NewCardsPerSession = 10
	cards := makeCards(3)
	cards[0].EndNote = "That concludes the greetings."
	runner := newTestRunner(t, cfg, cards)

	result, err := runner.runSession(context.Background(), 0)
	require.NoError(t, err)

	require.Len(t, result.Introduced, 1)
	assert.Equal(t, "0001", result.Introduced[0].ID)
	assert.Equal(t, 2, runner.sched.Main.Len())
}

func TestRunSession_WritesOutputs(t *testing.T) {
	cfg := testSessionConfig(t)
	runner := newTestRunner(t, cfg, makeCards(2))

	result, err := runner.runSession(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(cfg.OutputDir, "animals-0001.mp3"), result.OutputPath)
	assert.FileExists(t, result.SubtitlePath)
	assert.FileExists(t, result.ManifestPath)

	manifest, err := os.ReadFile(result.ManifestPath)
	require.NoError(t, err)
	assert.Contains(t, string(manifest), "dataset: animals")
	assert.Contains(t, string(manifest), "session: 1")
}

func TestRun_ExhaustsMainDeckPlusExtraSessions(t *testing.T) {
	cfg := testSessionConfig(t)
	cfg.NewCardsPerSession = 10
	runner := newTestRunner(t, cfg, makeCards(3))

	results, err := runner.Run(context.Background())
	require.NoError(t, err)

	// Session 1 drains the main deck; one extra review session follows.
	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].SessionNumber)
	assert.Equal(t, 2, results[1].SessionNumber)
	assert.False(t, runner.sched.Main.HasCards())
}

func TestRun_CancelledContext(t *testing.T) {
	cfg := testSessionConfig(t)
	runner := newTestRunner(t, cfg, makeCards(2))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
