package leitner

import (
	"math/rand"
	"sort"
)

// Deck is an ordered collection of cards representing one stage of the
// scheduling pipeline. A card belongs to exactly one deck at a time; Append
// transfers ownership atomically.
//
// Decks are not safe for concurrent use. The session runner drives all four
// decks from a single goroutine.
type Deck struct {
	name  string
	cards []*Card
	rng   *rand.Rand
}

// NewDeck creates an empty deck. The RNG is used to break ties when sorting
// by show-again delay; tests inject a seeded instance for determinism.
func NewDeck(name string, rng *rand.Rand) *Deck {
	return &Deck{name: name, rng: rng}
}

// Name returns the deck name used in logs and invariant errors.
func (d *Deck) Name() string {
	return d.name
}

// Append adds the card to the end of this deck. If the card currently
// belongs to another deck it is removed there first, so the remove-then-insert
// pair behaves as one ownership transfer.
func (d *Deck) Append(c *Card) {
	if c.deck != nil {
		c.deck.remove(c)
	}
	d.cards = append(d.cards, c)
	c.deck = d
}

func (d *Deck) remove(c *Card) {
	for i, card := range d.cards {
		if card == c {
			d.cards = append(d.cards[:i], d.cards[i+1:]...)
			c.deck = nil
			return
		}
	}
}

// TopCard returns the first card without removing it, or nil when empty.
func (d *Deck) TopCard() *Card {
	if len(d.cards) == 0 {
		return nil
	}
	return d.cards[0]
}

// HasCards reports whether the deck is non-empty.
func (d *Deck) HasCards() bool {
	return len(d.cards) > 0
}

// Len returns the number of cards in the deck.
func (d *Deck) Len() int {
	return len(d.cards)
}

// Cards returns a snapshot of the deck contents. Callers iterate the
// snapshot while moving cards between decks.
func (d *Deck) Cards() []*Card {
	out := make([]*Card, len(d.cards))
	copy(out, d.cards)
	return out
}

// UpdateTime advances the session clock for every card in the deck,
// decrementing show-again delays and flooring them at zero.
func (d *Deck) UpdateTime(deltaSecs float64) {
	for _, c := range d.cards {
		delay := c.Stats.ShowAgainDelay - deltaSecs
		if delay < 0 {
			delay = 0
		}
		c.Stats.ShowAgainDelay = delay
	}
}

// SortByShowAgain orders the deck ascending by show-again delay. The deck is
// shuffled first so that cards with equal delay surface in random order
// rather than insertion order.
func (d *Deck) SortByShowAgain() {
	if d.rng != nil {
		d.rng.Shuffle(len(d.cards), func(i, j int) {
			d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
		})
	}
	sort.SliceStable(d.cards, func(i, j int) bool {
		return d.cards[i].Stats.ShowAgainDelay < d.cards[j].Stats.ShowAgainDelay
	})
}

// SortBySortKey orders the deck by curriculum sort key.
func (d *Deck) SortBySortKey() {
	sort.SliceStable(d.cards, func(i, j int) bool {
		return d.cards[i].SortKey() < d.cards[j].SortKey()
	})
}

// NextShowTime returns the remaining cooldown of the top card, floored at
// zero. An empty deck reports zero.
func (d *Deck) NextShowTime() float64 {
	if len(d.cards) == 0 {
		return 0
	}
	delay := d.cards[0].Stats.ShowAgainDelay
	if delay < 0 {
		return 0
	}
	return delay
}
