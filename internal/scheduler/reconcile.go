package scheduler

import (
	"errors"
	"strings"

	"github.com/lessonforge/lessonforge/internal/leitner"
)

var (
	// ErrActiveDeckNotEmpty indicates cards were lost or double-counted
	// while flushing the active deck at end of session.
	ErrActiveDeckNotEmpty = errors.New("active deck should be empty after flush")

	// ErrDiscardsDeckNotEmpty indicates the end-of-session reconciliation
	// left cards stranded in the discards deck.
	ErrDiscardsDeckNotEmpty = errors.New("discards deck should be empty after reconciliation")
)

// Reconcile performs end-of-session teardown: completed discards are bumped
// into the finished deck, the active deck is flushed into discards, cards
// that were shown at least as often as their remaining budget are forced to
// finish, and every survivor moves to the finished deck with a small
// staggered delay so next session's sort is stable.
//
// Either deck left non-empty afterwards means the partition invariant is
// broken, which is fatal for the run.
func (s *Scheduler) Reconcile() error {
	s.BumpCompleted()

	for _, card := range s.Active.Cards() {
		s.Discards.Append(card)
	}
	if s.Active.HasCards() {
		return ErrActiveDeckNotEmpty
	}

	secondsOffset := 0.0
	for _, card := range s.Discards.Cards() {
		if card.Stats.Shown >= card.Stats.TriesRemaining {
			card.Stats.TriesRemaining = 0
			s.BumpCompleted()
			continue
		}
		card.Stats.ShowAgainDelay = secondsOffset
		secondsOffset++
		s.Finished.Append(card)
	}
	if s.Discards.HasCards() {
		return ErrDiscardsDeckNotEmpty
	}
	return nil
}

// rebuildStemCounts tallies bound pronouns and verb stems across the
// finished deck. Once a stem combination is well represented among mastered
// cards, further "new" cards using it are hidden rather than introduced.
func (s *Scheduler) rebuildStemCounts() {
	s.boundPronounCounts = map[string]int{}
	s.verbStemCounts = map[string]int{}
	for _, card := range s.Finished.Cards() {
		pronoun := strings.TrimSpace(card.BoundPronoun)
		if pronoun == "" {
			continue
		}
		s.boundPronounCounts[pronoun]++
		s.verbStemCounts[strings.TrimSpace(card.VerbStem)]++
	}
}

// SkipNew reports whether a new card's content is already familiar enough
// that the long-form introduction should be skipped. Cards marked with "*"
// are always skipped as new material.
func (s *Scheduler) SkipNew(card *leitner.Card) bool {
	if strings.Contains(card.ID(), "*") {
		return true
	}
	if card.BoundPronoun == "*" || card.VerbStem == "*" {
		return true
	}
	pronounCount, ok := s.boundPronounCounts[card.BoundPronoun]
	if !ok {
		return false
	}
	stemCount, ok := s.verbStemCounts[card.VerbStem]
	if !ok {
		return false
	}
	return pronounCount > 2 && stemCount > 4
}
