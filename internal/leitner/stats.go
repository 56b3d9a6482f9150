package leitner

// CardStats is the mutable scheduling state of a card. LeitnerBox and the
// show-again delay survive between sessions; the rest is per-session state.
type CardStats struct {
	Correct        bool    `db:"correct" yaml:"correct"`
	LeitnerBox     int     `db:"leitner_box" yaml:"leitner_box"`
	PimsleurSlot   int     `db:"pimsleur_slot" yaml:"pimsleur_slot"`
	ShowAgainDelay float64 `db:"show_again_delay" yaml:"show_again_delay"`
	Shown          int     `db:"shown" yaml:"shown"`
	TotalShownTime float64 `db:"total_shown_time" yaml:"total_shown_time"`
	TriesRemaining int     `db:"tries_remaining" yaml:"tries_remaining"`
	NewCard        bool    `db:"new_card" yaml:"new_card"`
	NextSessionShow int    `db:"next_session_show" yaml:"next_session_show"`
}

// LeitnerBoxInc advances the card one long-term mastery level.
func (s *CardStats) LeitnerBoxInc() {
	s.LeitnerBox++
}

// LeitnerBoxDec drops the card one mastery level, floored at zero.
func (s *CardStats) LeitnerBoxDec() {
	if s.LeitnerBox > 0 {
		s.LeitnerBox--
	}
}

// PimsleurSlotInc advances the short-term repetition counter.
func (s *CardStats) PimsleurSlotInc() {
	s.PimsleurSlot++
}

// PimsleurSlotDec drops the short-term repetition counter, floored at zero.
func (s *CardStats) PimsleurSlotDec() {
	if s.PimsleurSlot > 0 {
		s.PimsleurSlot--
	}
}

// TriesRemainingInc grants one more presentation this session.
func (s *CardStats) TriesRemainingInc() {
	s.TriesRemaining++
}

// TriesRemainingDec consumes one presentation, floored at zero.
func (s *CardStats) TriesRemainingDec() {
	if s.TriesRemaining > 0 {
		s.TriesRemaining--
	}
}
