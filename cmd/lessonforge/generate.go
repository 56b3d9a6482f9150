package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/lessonforge/lessonforge/internal/artifact"
	"github.com/lessonforge/lessonforge/internal/audio"
	"github.com/lessonforge/lessonforge/internal/config"
	"github.com/lessonforge/lessonforge/internal/deckstore"
	"github.com/lessonforge/lessonforge/internal/dictionary"
	"github.com/lessonforge/lessonforge/internal/interval"
	"github.com/lessonforge/lessonforge/internal/leitner"
	"github.com/lessonforge/lessonforge/internal/prompts"
	"github.com/lessonforge/lessonforge/internal/review"
	"github.com/lessonforge/lessonforge/internal/scheduler"
	"github.com/lessonforge/lessonforge/internal/session"
	"github.com/lessonforge/lessonforge/internal/tts"
)

func newGenerateCommand() *cobra.Command {
	var (
		dataset string
		mp4     bool
		fresh   bool
		seed    int64
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the audio sessions for a dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("mp4") {
				cfg.CreateMP4 = mp4
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runGenerate(ctx, cfg, dataset, fresh, seed)
		},
	}

	cmd.Flags().StringVar(&dataset, "dataset", "", "dataset name under the data directory")
	cmd.Flags().BoolVar(&mp4, "mp4", false, "render an MP4 per session (overrides config)")
	cmd.Flags().BoolVar(&fresh, "fresh", false, "ignore saved deck state and start over")
	cmd.Flags().Int64Var(&seed, "seed", 0, "RNG seed for reproducible runs (0 = time-based)")
	_ = cmd.MarkFlagRequired("dataset")

	return cmd
}

func runGenerate(ctx context.Context, cfg *config.Config, dataset string, fresh bool, seed int64) error {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	mainDeck, err := dictionary.Load(cfg.DatasetSource(dataset), rng)
	if err != nil {
		return fmt.Errorf("dictionary.Load > %w", err)
	}
	mainDeck.SortBySortKey()
	color.Green("Loaded %d cards from %s", mainDeck.Len(), cfg.DatasetSource(dataset))

	title := cfg.DatasetTitle(dataset)
	if _, err := review.WriteSheets(cfg.OutputDir, dataset, title, mainDeck); err != nil {
		return fmt.Errorf("review.WriteSheets > %w", err)
	}

	ffmpeg := audio.NewFFmpeg("", "", cfg.TempDir)
	cache := tts.NewCache(cfg.TTS.CacheDir, ffmpeg)
	if err := cache.EnsureDir(); err != nil {
		return fmt.Errorf("cache.EnsureDir > %w", err)
	}

	answerSynth := tts.NewHTTPClient(cfg.TTS.Endpoint, cfg.TTS.APIKey, cfg.TTS.SampleRate, cache, tts.DefaultMaxRetryAttempts)
	defer func() {
		_ = answerSynth.Close()
	}()

	var challengeSynth tts.Synthesizer = answerSynth
	if cfg.TTS.CommandPath != "" {
		challengeSynth = tts.NewExecClient(cfg.TTS.CommandPath, cfg.TTS.RefVoiceDir, cfg.TTS.TargetLanguage, cfg.Alpha, cache)
	}

	instructor := prompts.NewInstructor(answerSynth, cfg.Voices.Instructor)
	if err := instructor.Prepare(ctx); err != nil {
		return fmt.Errorf("instructor.Prepare > %w", err)
	}

	tables := interval.NewTables()
	sched := scheduler.New(schedulerConfig(cfg), tables, mainDeck, rng)

	db, err := deckstore.Open(filepath.Join(cfg.DataDir, "lessonforge.db"))
	if err != nil {
		return fmt.Errorf("deckstore.Open > %w", err)
	}
	defer func() {
		_ = db.Close()
	}()
	repo := deckstore.NewRepository(db)

	decks := map[string]*leitner.Deck{
		deckstore.DeckMain:     sched.Main,
		deckstore.DeckActive:   sched.Active,
		deckstore.DeckDiscards: sched.Discards,
		deckstore.DeckFinished: sched.Finished,
	}

	startSession := 0
	if !fresh {
		snap, err := repo.Load(ctx, dataset)
		if err != nil && !errors.Is(err, deckstore.ErrNotFound) {
			return fmt.Errorf("repo.Load > %w", err)
		}
		if snap != nil {
			cardsByID := map[string]*leitner.Card{}
			for _, card := range mainDeck.Cards() {
				cardsByID[card.ID()] = card
			}
			if err := snap.Restore(cardsByID, decks); err != nil {
				return fmt.Errorf("snap.Restore > %w", err)
			}
			startSession = snap.SessionsCompleted
			color.Yellow("Resuming %s at session %d", dataset, startSession+1)
		}
	}

	runner := session.NewRunner(session.Params{
		Config:          cfg,
		Dataset:         dataset,
		Scheduler:       sched,
		Tables:          tables,
		Instructor:      instructor,
		ChallengeSynth:  challengeSynth,
		AnswerSynth:     answerSynth,
		ChallengeVoices: tts.NewSelector(cfg.Voices.ChallengeMale, cfg.Voices.ChallengeFemale, rng),
		AnswerVoices:    tts.NewSelector(cfg.Voices.AnswerMale, cfg.Voices.AnswerFemale, rng),
		Exporter:        ffmpeg,
		StartSession:    startSession,
	})

	results, runErr := runner.Run(ctx)

	// Whatever the run produced is worth keeping, even on failure.
	if len(results) > 0 {
		snap := deckstore.Capture(dataset, startSession+len(results), decks)
		if err := repo.Save(ctx, snap); err != nil {
			return fmt.Errorf("repo.Save > %w", err)
		}
	}
	if runErr != nil {
		return fmt.Errorf("runner.Run > %w", runErr)
	}

	if cfg.CreateMP4 {
		if err := buildVideos(ctx, cfg, dataset, title, results); err != nil {
			return fmt.Errorf("buildVideos > %w", err)
		}
	}

	color.Green("Produced %d sessions.", len(results))
	return nil
}

func buildVideos(ctx context.Context, cfg *config.Config, dataset, title string, results []session.Result) error {
	builder := artifact.NewBuilder("", "",
		filepath.Join(cfg.DataDir, "svg", "title_template.svg"), cfg.OutputDir)

	for _, result := range results {
		card := artifact.TitleCard{
			Tags: artifact.Tags{
				Album:  title,
				Title:  fmt.Sprintf("Session %d", result.SessionNumber),
				Artist: "Lessonforge",
			},
			NewCards:    len(result.Introduced) + len(result.Hidden),
			ReviewCards: result.Reviews,
		}
		pngPath, err := builder.RenderTitlePNG(ctx, dataset, result.SessionNumber, card)
		if err != nil {
			return fmt.Errorf("builder.RenderTitlePNG(%d) > %w", result.SessionNumber, err)
		}
		mp4Path, err := builder.BuildMP4(ctx, dataset, result.SessionNumber, card.Tags,
			pngPath, result.OutputPath, result.SubtitlePath)
		if err != nil {
			return fmt.Errorf("builder.BuildMP4(%d) > %w", result.SessionNumber, err)
		}
		color.Cyan("Created %s", mp4Path)
	}
	return nil
}

func schedulerConfig(cfg *config.Config) scheduler.Config {
	return scheduler.Config{
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
}
