package deckstore

import (
	"fmt"

	"github.com/lessonforge/lessonforge/internal/leitner"
)

// Capture builds a snapshot from the in-memory decks. Deck order is
// preserved through the position column.
func Capture(dataset string, sessionsCompleted int, decks map[string]*leitner.Deck) Snapshot {
	snap := Snapshot{
		Dataset:           dataset,
		SessionsCompleted: sessionsCompleted,
	}
	for _, name := range []string{DeckMain, DeckActive, DeckDiscards, DeckFinished} {
		deck := decks[name]
		if deck == nil {
			continue
		}
		for position, card := range deck.Cards() {
			snap.Cards = append(snap.Cards, CardState{
				CardID:    card.ID(),
				Deck:      name,
				Position:  position,
				CardStats: card.Stats,
			})
		}
	}
	return snap
}

// Restore moves the cards named by the snapshot into their saved decks and
// reapplies their statistics. Cards in the snapshot that are no longer in
// the dataset are skipped; cards not in the snapshot stay where they are.
func (snap *Snapshot) Restore(cardsByID map[string]*leitner.Card, decks map[string]*leitner.Deck) error {
	for _, state := range snap.Cards {
		card, ok := cardsByID[state.CardID]
		if !ok {
			continue
		}
		deck, ok := decks[state.Deck]
		if !ok {
			return fmt.Errorf("saved card %s references unknown deck %q", state.CardID, state.Deck)
		}
		card.Stats = state.CardStats
		deck.Append(card)
	}
	return nil
}
