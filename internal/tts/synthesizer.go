// Package tts provides the text-to-speech collaborators consumed by the
// session runner: an HTTP synthesizer for instruction/answer audio, an
// external-command synthesizer for the target language, a shared on-disk MP3
// cache, and gender-aware voice rotation.
package tts

import (
	"context"

	"github.com/lessonforge/lessonforge/internal/audio"
)

//go:generate mockgen -source=synthesizer.go -destination=../mocks/tts/mock_synthesizer.go -package=mock_tts

// Synthesizer returns a cached or freshly synthesized clip for (voice, text).
// The session runner only interprets the clip duration; audio content is
// opaque to the scheduling core.
type Synthesizer interface {
	Synthesize(ctx context.Context, voice, text string) (audio.Clip, error)
}

// Prober measures the duration of an audio file.
type Prober interface {
	Probe(ctx context.Context, path string) (float64, error)
}
