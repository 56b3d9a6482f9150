// Package session drives lesson production: it pulls cards from the
// scheduler, narrates them through the synthesizers, and renders one audio
// file, subtitle file, and manifest per session.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/lessonforge/lessonforge/internal/audio"
	"github.com/lessonforge/lessonforge/internal/config"
	"github.com/lessonforge/lessonforge/internal/interval"
	"github.com/lessonforge/lessonforge/internal/leitner"
	"github.com/lessonforge/lessonforge/internal/prompts"
	"github.com/lessonforge/lessonforge/internal/scheduler"
	"github.com/lessonforge/lessonforge/internal/tts"
)

// duplicateCooldown is the delay pushed onto a card that came back as the
// very next selection, deferring it instead of playing it twice in a row.
const duplicateCooldown = 32.0

// Runner assembles sessions until the course is complete.
type Runner struct {
	cfg        *config.Config
	dataset    string
	sched      *scheduler.Scheduler
	tables     *interval.Tables
	instructor *prompts.Instructor

	challengeSynth  tts.Synthesizer
	answerSynth     tts.Synthesizer
	challengeVoices *tts.Selector
	answerVoices    *tts.Selector

	exporter audio.Exporter

	startSession int
	prevCardID   string
}

// Params collects the Runner collaborators.
type Params struct {
	Config     *config.Config
	Dataset    string
	Scheduler  *scheduler.Scheduler
	Tables     *interval.Tables
	Instructor *prompts.Instructor

	ChallengeSynth  tts.Synthesizer
	AnswerSynth     tts.Synthesizer
	ChallengeVoices *tts.Selector
	AnswerVoices    *tts.Selector

	Exporter audio.Exporter

	// StartSession is the zero-based index of the first session to produce,
	// used when resuming a course from saved deck state.
	StartSession int
}

func NewRunner(p Params) *Runner {
	return &Runner{
		cfg:             p.Config,
		dataset:         p.Dataset,
		sched:           p.Scheduler,
		tables:          p.Tables,
		instructor:      p.Instructor,
		challengeSynth:  p.ChallengeSynth,
		answerSynth:     p.AnswerSynth,
		challengeVoices: p.ChallengeVoices,
		answerVoices:    p.AnswerVoices,
		exporter:        p.Exporter,
		startSession:    p.StartSession,
	}
}

// Result summarizes one produced session.
type Result struct {
	SessionNumber int
	OutputPath    string
	SubtitlePath  string
	ManifestPath  string
	Duration      float64

	Introduced []CardSummary
	Hidden     []CardSummary
	Reviews    int
	Challenges int
}

// CardSummary is the manifest view of a card.
type CardSummary struct {
	ID        string `yaml:"id"`
	Challenge string `yaml:"challenge"`
	Answer    string `yaml:"answer"`
}

func summarize(card *leitner.Card) CardSummary {
	return CardSummary{ID: card.ID(), Challenge: card.Challenge, Answer: card.Answer}
}

// Run produces sessions until the main deck is exhausted plus the configured
// number of trailing review sessions, or until the session count limit when
// create_all_sessions is off. Cancellation is checked between sessions so a
// session is never rendered half-finished.
func (r *Runner) Run(ctx context.Context) ([]Result, error) {
	var results []Result

	keepGoing := r.cfg.CreateAllSessions
	extraRemaining := r.cfg.ExtraSessions

	for sessionIndex := r.startSession; len(results) < r.cfg.SessionsToCreate || keepGoing; sessionIndex++ {
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("session run cancelled > %w", err)
		}

		result, err := r.runSession(ctx, sessionIndex)
		if err != nil {
			return results, fmt.Errorf("r.runSession(%d) > %w", sessionIndex+1, err)
		}
		results = append(results, *result)

		if keepGoing && !r.sched.Main.HasCards() {
			if extraRemaining == 0 {
				keepGoing = false
			} else {
				extraRemaining--
			}
		}
	}

	return results, nil
}

func (r *Runner) runSession(ctx context.Context, sessionIndex int) (*Result, error) {
	r.sched.BeginSession(sessionIndex)

	title := r.cfg.DatasetTitle(r.dataset)
	color.Green("=== SESSION: %04d", sessionIndex+1)

	leadIn, err := r.buildLeadIn(ctx, title, sessionIndex)
	if err != nil {
		return nil, fmt.Errorf("r.buildLeadIn > %w", err)
	}
	leadOut, err := r.buildLeadOut(ctx, sessionIndex)
	if err != nil {
		return nil, fmt.Errorf("r.buildLeadOut > %w", err)
	}

	main := audio.NewTrack()
	main.AppendSilence(0.1)

	result := &Result{SessionNumber: sessionIndex + 1}
	var subtitles []audio.SrtEntry
	newCount := 0

	for leadIn.Duration()+leadOut.Duration()+main.Duration() < r.cfg.SessionMaxDuration {
		startLength := main.Duration()

		card, err := r.sched.NextCard(r.prevCardID)
		if err != nil {
			return nil, fmt.Errorf("sched.NextCard > %w", err)
		}
		if card == nil {
			break
		}

		stats := &card.Stats
		isNew := stats.NewCard
		introduce := isNew && !r.sched.SkipNew(card)
		extraDelay := stats.ShowAgainDelay

		if card.ID() == r.prevCardID {
			stats.ShowAgainDelay = duplicateCooldown
			continue
		}
		r.prevCardID = card.ID()

		if isNew {
			if introduce {
				slog.Debug("introducing card", "card", card.ID(),
					"challenge", card.Challenge, "tries", stats.TriesRemaining)
				result.Introduced = append(result.Introduced, summarize(card))
			} else {
				stats.NewCard = false
				card.ResetTriesRemaining(r.sched.HideTries())
				slog.Debug("hiding known card", "card", card.ID(),
					"challenge", card.Challenge, "tries", stats.TriesRemaining)
				result.Hidden = append(result.Hidden, summarize(card))
			}
			newCount++
			if newCount >= r.sched.MaxNewCards() {
				r.sched.StopNewCards()
			}
			stats.NewCard = false

			main.AppendSilence(2)
			if err := r.appendPrompt(ctx, main, prompts.TagNewPhrase, 1); err != nil {
				return nil, err
			}
			if introduce && card.IntroNote != "" {
				note, err := r.instructor.Say(ctx, card.IntroNote)
				if err != nil {
					return nil, fmt.Errorf("instructor.Say(intro note) > %w", err)
				}
				main.AppendClip(note)
				main.AppendSilence(1)
			}
		} else {
			result.Challenges++
			if extraDelay > 0 {
				main.AppendSilence(math.Min(7, extraDelay))
			}
			if err := r.appendPrompt(ctx, main, prompts.TagTranslate, 1); err != nil {
				return nil, err
			}
		}

		challenge, err := r.challengeSynth.Synthesize(ctx, r.challengeVoices.Next(card.Sex), card.Challenge)
		if err != nil {
			return nil, fmt.Errorf("challengeSynth.Synthesize(%s) > %w", card.ID(), err)
		}
		cueStart := leadIn.Duration() + main.Duration()
		subtitles = append(subtitles, audio.SrtEntry{
			Seq:   len(subtitles) + 1,
			Start: cueStart,
			End:   cueStart + challenge.Duration,
			Text:  card.Challenge,
		})
		main.AppendClip(challenge)

		if introduce {
			repeat, err := r.challengeSynth.Synthesize(ctx, r.challengeVoices.Next(card.Sex), card.Challenge)
			if err != nil {
				return nil, fmt.Errorf("challengeSynth.Synthesize(%s repeat) > %w", card.ID(), err)
			}
			main.AppendSilence(2)
			if err := r.appendPrompt(ctx, main, prompts.TagListenAgain, 2); err != nil {
				return nil, err
			}
			main.AppendClip(repeat)
			main.AppendSilence(2)
			if err := r.appendPrompt(ctx, main, prompts.TagTargetMeans, 1); err != nil {
				return nil, err
			}
		} else {
			// Recall gap sized to the utterance being recalled.
			main.AppendSilence(challenge.Duration)
		}

		answer, err := r.answerSynth.Synthesize(ctx, r.answerVoices.Next(card.Sex), card.Answer)
		if err != nil {
			return nil, fmt.Errorf("answerSynth.Synthesize(%s) > %w", card.ID(), err)
		}
		main.AppendClip(answer)
		switch {
		case sessionIndex == 0:
			main.AppendSilence(3)
		case sessionIndex < 5:
			main.AppendSilence(2)
		default:
			main.AppendSilence(1)
		}

		if introduce && card.EndNote != "" {
			note, err := r.instructor.Say(ctx, card.EndNote)
			if err != nil {
				return nil, fmt.Errorf("instructor.Say(end note) > %w", err)
			}
			main.AppendClip(note)
			main.AppendSilence(2)
			if r.cfg.BreakOnEndNote {
				r.sched.StopNewCards()
			}
		}

		deltaTick := main.Duration() - startLength
		r.sched.Active.UpdateTime(deltaTick)
		r.sched.Discards.UpdateTime(deltaTick)
		r.sched.Finished.UpdateTime(deltaTick)
		stats.TotalShownTime += deltaTick

		stats.PimsleurSlotInc()
		stats.ShowAgainDelay = r.tables.NextPimsleurInterval(stats.PimsleurSlot) + 1.0
	}

	if err := r.sched.Reconcile(); err != nil {
		return nil, fmt.Errorf("sched.Reconcile > %w", err)
	}
	result.Reviews = r.sched.ReviewCount()

	combined := audio.NewTrack()
	combined.AppendTrack(leadIn)
	combined.AppendTrack(main)
	combined.AppendTrack(leadOut)
	result.Duration = combined.Duration()

	if err := r.writeOutputs(ctx, result, combined, subtitles); err != nil {
		return nil, fmt.Errorf("r.writeOutputs > %w", err)
	}

	color.Cyan("New cards: %d. Review cards: %d. %02d:%02d.",
		newCount, result.Reviews, int(result.Duration)/60, int(result.Duration)%60)
	return result, nil
}

func (r *Runner) buildLeadIn(ctx context.Context, title string, sessionIndex int) (*audio.Track, error) {
	track := audio.NewTrack()
	track.AppendSilence(1)

	titleClip, err := r.instructor.Say(ctx, title+".")
	if err != nil {
		return nil, fmt.Errorf("instructor.Say(title) > %w", err)
	}
	track.AppendClip(titleClip)
	track.AppendSilence(1)

	if sessionIndex == 0 {
		if about := r.cfg.DatasetAbout(r.dataset); about != "" {
			aboutClip, err := r.instructor.Say(ctx, about)
			if err != nil {
				return nil, fmt.Errorf("instructor.Say(about) > %w", err)
			}
			track.AppendClip(aboutClip)
			track.AppendSilence(1)
		}
		for _, tag := range []string{prompts.TagFirstSession, prompts.TagKeepGoing, prompts.TagLeadInChime} {
			if err := r.appendPrompt(ctx, track, tag, 2); err != nil {
				return nil, err
			}
		}
	}

	opening, err := r.instructor.Say(ctx, prompts.SessionOpening(title, sessionIndex+1))
	if err != nil {
		return nil, fmt.Errorf("instructor.Say(opening) > %w", err)
	}
	track.AppendClip(opening)
	track.AppendSilence(1)
	return track, nil
}

func (r *Runner) buildLeadOut(ctx context.Context, sessionIndex int) (*audio.Track, error) {
	track := audio.NewTrack()
	track.AppendSilence(3)

	closing, err := r.instructor.Say(ctx, prompts.SessionClosing(sessionIndex+1))
	if err != nil {
		return nil, fmt.Errorf("instructor.Say(closing) > %w", err)
	}
	track.AppendClip(closing)
	track.AppendSilence(2)

	if err := r.appendPrompt(ctx, track, prompts.TagSessionEnd, 3); err != nil {
		return nil, err
	}
	return track, nil
}

func (r *Runner) appendPrompt(ctx context.Context, track *audio.Track, tag string, trailingSilence float64) error {
	clip, err := r.instructor.Get(ctx, tag)
	if err != nil {
		return fmt.Errorf("instructor.Get(%s) > %w", tag, err)
	}
	track.AppendClip(clip)
	track.AppendSilence(trailingSilence)
	return nil
}

func (r *Runner) writeOutputs(ctx context.Context, result *Result, combined *audio.Track, subtitles []audio.SrtEntry) error {
	if err := os.MkdirAll(r.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("os.MkdirAll(%s) > %w", r.cfg.OutputDir, err)
	}
	base := fmt.Sprintf("%s-%04d", r.dataset, result.SessionNumber)

	result.OutputPath = filepath.Join(r.cfg.OutputDir, base+".mp3")
	if err := r.exporter.Export(ctx, combined, result.OutputPath); err != nil {
		return fmt.Errorf("exporter.Export(%s) > %w", result.OutputPath, err)
	}

	result.SubtitlePath = filepath.Join(r.cfg.OutputDir, base+".srt")
	subtitleFile, err := os.Create(result.SubtitlePath)
	if err != nil {
		return fmt.Errorf("os.Create(%s) > %w", result.SubtitlePath, err)
	}
	defer func() {
		_ = subtitleFile.Close()
	}()
	if err := audio.WriteSrt(subtitleFile, subtitles); err != nil {
		return fmt.Errorf("audio.WriteSrt > %w", err)
	}

	result.ManifestPath = filepath.Join(r.cfg.OutputDir, base+".yaml")
	if err := writeManifest(result.ManifestPath, r.dataset, result); err != nil {
		return fmt.Errorf("writeManifest > %w", err)
	}
	return nil
}
