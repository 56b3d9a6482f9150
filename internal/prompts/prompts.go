// Package prompts prepares the instructor narration used between exercise
// cards: fixed structural phrases plus per-session announcements.
package prompts

import (
	"context"
	"fmt"

	"github.com/lessonforge/lessonforge/internal/audio"
	"github.com/lessonforge/lessonforge/internal/tts"
)

// Tags for the fixed structural phrases.
const (
	TagListen       = "listen"
	TagListenAgain  = "listen_again"
	TagTranslate    = "translate"
	TagNewPhrase    = "new_phrase"
	TagInYourOwn    = "in_your_own"
	TagSessionEnd   = "session_end"
	TagCourseEnd    = "course_end"
	TagKeepGoing    = "keep_going"
	TagLeadInChime  = "lead_in"
	TagTargetMeans  = "target_means"
	TagAgainSlower  = "again_slower"
	TagFirstSession = "first_session"
)

var phrases = map[string]string{
	TagListen:       "Listen.",
	TagListenAgain:  "Listen again.",
	TagTranslate:    "Translate.",
	TagNewPhrase:    "Here is a new phrase.",
	TagInYourOwn:    "Now say it on your own.",
	TagSessionEnd:   "This is the end of this session. Rest and listen to the next session tomorrow.",
	TagCourseEnd:    "This is the end of this course. Congratulations on seeing it through.",
	TagKeepGoing:    "Keep practicing. You are doing well.",
	TagLeadInChime:  "Find a quiet place and listen carefully. Repeat out loud when asked.",
	TagTargetMeans:  "Which means.",
	TagAgainSlower:  "Once more, a little slower.",
	TagFirstSession: "Welcome. In each session you will hear new phrases, then be asked to recall them.",
}

// Instructor synthesizes narration with a single fixed voice and memoizes
// the resulting clips by text.
type Instructor struct {
	synth tts.Synthesizer
	voice string
	clips map[string]audio.Clip
}

func NewInstructor(synth tts.Synthesizer, voice string) *Instructor {
	return &Instructor{
		synth: synth,
		voice: voice,
		clips: map[string]audio.Clip{},
	}
}

// Prepare synthesizes every structural phrase up front so session assembly
// never pauses for instructor audio.
func (ins *Instructor) Prepare(ctx context.Context) error {
	for tag, text := range phrases {
		if _, err := ins.Say(ctx, text); err != nil {
			return fmt.Errorf("ins.Say(%s) > %w", tag, err)
		}
	}
	return nil
}

// Get returns the clip for a structural tag.
func (ins *Instructor) Get(ctx context.Context, tag string) (audio.Clip, error) {
	text, ok := phrases[tag]
	if !ok {
		return audio.Clip{}, fmt.Errorf("unknown prompt tag %q", tag)
	}
	return ins.Say(ctx, text)
}

// Say synthesizes arbitrary narration in the instructor voice.
func (ins *Instructor) Say(ctx context.Context, text string) (audio.Clip, error) {
	normalized := tts.NormalizeText(text)
	if clip, ok := ins.clips[normalized]; ok {
		return clip, nil
	}

	clip, err := ins.synth.Synthesize(ctx, ins.voice, normalized)
	if err != nil {
		return audio.Clip{}, fmt.Errorf("synth.Synthesize > %w", err)
	}
	ins.clips[normalized] = clip
	return clip, nil
}

// SessionOpening builds the announcement that starts a numbered session.
func SessionOpening(title string, sessionNumber int) string {
	return fmt.Sprintf("%s. Session %d. Listen, repeat, and respond out loud.", title, sessionNumber)
}

// SessionClosing builds the announcement before the session end phrase.
func SessionClosing(sessionNumber int) string {
	return fmt.Sprintf("You have completed session %d.", sessionNumber)
}
