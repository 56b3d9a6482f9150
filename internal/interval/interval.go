// Package interval provides the spacing tables for the dual scheduler: a
// Pimsleur-style exponential table for re-shows within a session, and an
// SM-2-like geometric table for gaps between sessions.
package interval

import "math"

const (
	pimsleurSlots = 15
	sessionBoxes  = 15

	secondsPerDay = 60 * 60 * 24
)

// Tables holds the precomputed interval tables. Construct once with
// NewTables; lookups are read-only and saturate at the table bounds.
type Tables struct {
	pimsleur    []float64
	sessionSecs []float64
	sessionDays []int
}

// NewTables precomputes all three tables.
func NewTables() *Tables {
	t := &Tables{
		pimsleur:    make([]float64, 0, pimsleurSlots),
		sessionSecs: make([]float64, 0, sessionBoxes+1),
		sessionDays: make([]int, 0, sessionBoxes+1),
	}

	secs := 1.0
	for i := 0; i < pimsleurSlots; i++ {
		secs *= 5.0
		t.pimsleur = append(t.pimsleur, secs)
	}

	days := 4.0
	t.sessionSecs = append(t.sessionSecs, secondsPerDay)
	for i := 0; i < sessionBoxes; i++ {
		t.sessionSecs = append(t.sessionSecs, secondsPerDay*days)
		days *= 1.7
	}

	days = 4.0
	t.sessionDays = append(t.sessionDays, 1)
	for i := 0; i < sessionBoxes; i++ {
		t.sessionDays = append(t.sessionDays, int(math.Ceil(days)))
		days *= 1.7
	}

	return t
}

// NextPimsleurInterval returns the in-session delay in seconds before a card
// should be shown again: 5s, 25s, 125s and so on. Out-of-range inputs
// saturate at the nearest table bound.
func (t *Tables) NextPimsleurInterval(correctInARow int) float64 {
	return t.pimsleur[clamp(correctInARow, len(t.pimsleur))]
}

// NextSessionIntervalSecs returns the long-term gap in seconds for a card in
// the given Leitner box: one day for box 0, then four days grown by a factor
// of 1.7 per box.
func (t *Tables) NextSessionIntervalSecs(box int) float64 {
	return t.sessionSecs[clamp(box, len(t.sessionSecs))]
}

// NextSessionIntervalDays returns the same progression in whole days,
// ceiling-rounded, for scheduling across calendar days.
func (t *Tables) NextSessionIntervalDays(box int) int {
	return t.sessionDays[clamp(box, len(t.sessionDays))]
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}
