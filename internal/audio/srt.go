package audio

import (
	"fmt"
	"io"
)

// SrtEntry is one SubRip subtitle cue. Start and End are positions in
// seconds from the beginning of the track.
type SrtEntry struct {
	Seq   int
	Start float64
	End   float64
	Text  string
}

// SrtTimestamp formats a position in seconds as an SRT timestamp,
// HH:MM:SS,mmm.
func SrtTimestamp(position float64) string {
	ms := int(position*1000) % 1000
	seconds := int(position) % 60
	minutes := int(position/60) % 60
	hours := int(position / 3600)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, ms)
}

// WriteSrt writes the entries as a SubRip document.
func WriteSrt(w io.Writer, entries []SrtEntry) error {
	for _, entry := range entries {
		if _, err := fmt.Fprintf(w, "%d\n%s --> %s\n%s\n\n",
			entry.Seq, SrtTimestamp(entry.Start), SrtTimestamp(entry.End), entry.Text); err != nil {
			return fmt.Errorf("fmt.Fprintf > %w", err)
		}
	}
	return nil
}
