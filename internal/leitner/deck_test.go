package leitner

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(1234))
}

func TestDeck_Append_TransfersOwnership(t *testing.T) {
	rng := testRNG()
	deckA := NewDeck("a", rng)
	deckB := NewDeck("b", rng)

	card := NewCard(1)
	deckA.Append(card)
	require.Equal(t, deckA, card.Deck())
	require.Equal(t, 1, deckA.Len())

	deckB.Append(card)

	assert.Equal(t, 0, deckA.Len())
	assert.Equal(t, 1, deckB.Len())
	assert.Equal(t, deckB, card.Deck())

	// Re-appending to the same deck must not duplicate the card.
	deckB.Append(card)
	assert.Equal(t, 1, deckB.Len())
}

func TestDeck_TopCard(t *testing.T) {
	deck := NewDeck("test", testRNG())
	assert.Nil(t, deck.TopCard())
	assert.False(t, deck.HasCards())

	first := NewCard(1)
	second := NewCard(2)
	deck.Append(first)
	deck.Append(second)

	assert.Equal(t, first, deck.TopCard())
	assert.Equal(t, 2, deck.Len())
	assert.True(t, deck.HasCards())
}

func TestDeck_UpdateTime(t *testing.T) {
	deck := NewDeck("test", testRNG())

	card := NewCard(1)
	card.Stats.ShowAgainDelay = 10
	deck.Append(card)

	other := NewCard(2)
	other.Stats.ShowAgainDelay = 3
	deck.Append(other)

	deck.UpdateTime(5)

	assert.Equal(t, 5.0, card.Stats.ShowAgainDelay)
	assert.Equal(t, 0.0, other.Stats.ShowAgainDelay, "delay must floor at zero")

	deck.UpdateTime(100)
	assert.Equal(t, 0.0, card.Stats.ShowAgainDelay)
}

func TestDeck_SortByShowAgain(t *testing.T) {
	deck := NewDeck("test", testRNG())
	delays := []float64{50, 10, 30, 0, 20}
	for i, delay := range delays {
		card := NewCard(i + 1)
		card.Stats.ShowAgainDelay = delay
		deck.Append(card)
	}

	deck.SortByShowAgain()

	var sorted []float64
	for _, card := range deck.Cards() {
		sorted = append(sorted, card.Stats.ShowAgainDelay)
	}
	assert.Equal(t, []float64{0, 10, 20, 30, 50}, sorted)
}

func TestDeck_SortByShowAgain_ShufflesTies(t *testing.T) {
	// With all delays equal the pre-shuffle must eventually change the order,
	// otherwise identical-delay cards always surface in insertion order.
	deck := NewDeck("test", testRNG())
	for i := 1; i <= 10; i++ {
		deck.Append(NewCard(i))
	}
	original := make([]string, 0, 10)
	for _, card := range deck.Cards() {
		original = append(original, card.ID())
	}

	changed := false
	for i := 0; i < 20 && !changed; i++ {
		deck.SortByShowAgain()
		for j, card := range deck.Cards() {
			if card.ID() != original[j] {
				changed = true
				break
			}
		}
	}
	assert.True(t, changed, "tie order never changed across sorts")
}

func TestDeck_NextShowTime(t *testing.T) {
	deck := NewDeck("test", testRNG())
	assert.Equal(t, 0.0, deck.NextShowTime())

	card := NewCard(1)
	card.Stats.ShowAgainDelay = 12.5
	deck.Append(card)
	assert.Equal(t, 12.5, deck.NextShowTime())
}
