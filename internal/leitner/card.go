// Package leitner holds the card model and the deck containers used by the
// session scheduler. A card carries immutable vocabulary content plus the
// mutable scheduling stats that move it between decks.
package leitner

import (
	"fmt"
	"unicode/utf8"
)

// Card is a single challenge/answer vocabulary unit. Content fields are set
// once by the dictionary loader; Stats are mutated only by the scheduler and
// the session runner.
type Card struct {
	id string

	Challenge     string
	Answer        string
	ChallengeAlts []string
	IntroNote     string
	EndNote       string
	BoundPronoun  string
	VerbStem      string
	Syllabary     string
	Sex           string

	sortKey string

	Stats CardStats

	deck *Deck
}

// NewCard creates a card with a zero-padded numeric id.
func NewCard(id int) *Card {
	return &Card{id: fmt.Sprintf("%04d", id)}
}

// ID returns the card id, zero-padded to at least four characters.
func (c *Card) ID() string {
	id := c.id
	for len(id) < 4 {
		id = "0" + id
	}
	return id
}

// SetID stores an already formatted id. Short ids are padded on read.
func (c *Card) SetID(id string) {
	c.id = id
}

// SetSortKey records the raw curriculum sort key.
func (c *Card) SetSortKey(key string) {
	c.sortKey = key
}

// SortKey prefixes the raw key with its length so that shorter entries sort
// before longer ones regardless of lexical content.
func (c *Card) SortKey() string {
	return fmt.Sprintf("%03d-%s", utf8.RuneCountInString(c.sortKey), c.sortKey)
}

// Deck returns the deck that currently owns this card, or nil.
func (c *Card) Deck() *Deck {
	return c.deck
}

// NextSessionThreshold returns how many presentations the card should get
// given its mastery level. Cards in higher Leitner boxes need fewer shows.
func (c *Card) NextSessionThreshold(maxShows int) int {
	tries := maxShows - c.Stats.LeitnerBox
	if tries < 1 {
		return 1
	}
	return tries
}

// ResetStats clears the per-session presentation counters when a card comes
// back into circulation as a review card.
func (c *Card) ResetStats() {
	c.Stats.Correct = true
	c.Stats.Shown = 0
	c.Stats.TotalShownTime = 0
}

// ResetTriesRemaining recomputes the presentation budget from the given
// per-session maximum, discounted by the card's Leitner box.
func (c *Card) ResetTriesRemaining(maxTries int) {
	c.Stats.TriesRemaining = c.NextSessionThreshold(maxTries)
}
