// Package audio assembles lesson audio from synthesized clips. Track keeps
// pure duration accounting so the scheduler's clocks can be advanced without
// touching any audio tool; rendering happens once per session through an
// Exporter.
package audio

import "context"

// Clip is a synthesized or cached audio file with its measured duration in
// seconds.
type Clip struct {
	Path     string
	Voice    string
	Text     string
	Duration float64
}

// Segment is one entry of a track: either a clip or a span of silence.
type Segment struct {
	Clip    *Clip
	Silence float64
}

// Track is an ordered list of segments with running duration accounting.
type Track struct {
	segments []Segment
	duration float64
}

// NewTrack returns an empty track.
func NewTrack() *Track {
	return &Track{}
}

// AppendClip adds a clip to the end of the track.
func (t *Track) AppendClip(c Clip) {
	t.segments = append(t.segments, Segment{Clip: &c})
	t.duration += c.Duration
}

// AppendSilence adds a span of silence in seconds.
func (t *Track) AppendSilence(secs float64) {
	if secs <= 0 {
		return
	}
	t.segments = append(t.segments, Segment{Silence: secs})
	t.duration += secs
}

// AppendTrack concatenates another track's segments onto this one.
func (t *Track) AppendTrack(other *Track) {
	t.segments = append(t.segments, other.segments...)
	t.duration += other.duration
}

// Duration returns the accumulated track length in seconds.
func (t *Track) Duration() float64 {
	return t.duration
}

// Segments returns the ordered segment list for rendering.
func (t *Track) Segments() []Segment {
	return t.segments
}

//go:generate mockgen -source=track.go -destination=../mocks/audio/mock_exporter.go -package=mock_audio

// Exporter renders a track to a single audio file.
type Exporter interface {
	Export(ctx context.Context, track *Track, outputPath string) error
}
