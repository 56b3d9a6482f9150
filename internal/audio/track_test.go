package audio

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrack_DurationAccounting(t *testing.T) {
	track := NewTrack()
	assert.Equal(t, 0.0, track.Duration())

	track.AppendClip(Clip{Path: "a.mp3", Duration: 2.5})
	track.AppendSilence(1.0)
	track.AppendClip(Clip{Path: "b.mp3", Duration: 0.5})

	assert.Equal(t, 4.0, track.Duration())
	assert.Len(t, track.Segments(), 3)
}

func TestTrack_AppendSilence_IgnoresNonPositive(t *testing.T) {
	track := NewTrack()
	track.AppendSilence(0)
	track.AppendSilence(-3)
	assert.Empty(t, track.Segments())
	assert.Equal(t, 0.0, track.Duration())
}

func TestTrack_AppendTrack(t *testing.T) {
	lead := NewTrack()
	lead.AppendClip(Clip{Path: "intro.mp3", Duration: 3})

	body := NewTrack()
	body.AppendSilence(2)

	lead.AppendTrack(body)
	assert.Equal(t, 5.0, lead.Duration())
	assert.Len(t, lead.Segments(), 2)
}

func TestSrtTimestamp(t *testing.T) {
	tests := []struct {
		name     string
		position float64
		expected string
	}{
		{name: "zero", position: 0, expected: "00:00:00,000"},
		{name: "sub-second", position: 0.5, expected: "00:00:00,500"},
		{name: "minutes", position: 65.25, expected: "00:01:05,250"},
		{name: "hours", position: 3661.001, expected: "01:01:01,001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SrtTimestamp(tt.position))
		})
	}
}

func TestWriteSrt(t *testing.T) {
	var buf bytes.Buffer
	err := WriteSrt(&buf, []SrtEntry{
		{Seq: 1, Start: 0, End: 2.5, Text: "Osiyo."},
		{Seq: 2, Start: 3, End: 4, Text: "Hello."},
	})
	require.NoError(t, err)

	expected := "1\n00:00:00,000 --> 00:00:02,500\nOsiyo.\n\n" +
		"2\n00:00:03,000 --> 00:00:04,000\nHello.\n\n"
	assert.Equal(t, expected, buf.String())
}
