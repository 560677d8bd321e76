package deck_test

import (
	"testing"

	"github.com/alexander-fenster/durak/deck"
	"github.com/stretchr/testify/assert"
)

func TestRankOrdering(t *testing.T) {
	for i := 1; i < len(deck.Ranks); i++ {
		lower, higher := deck.Ranks[i-1], deck.Ranks[i]
		assert.True(t, deck.RankGreater(higher, lower), "%s should be greater than %s", higher, lower)
		assert.False(t, deck.RankGreater(lower, higher), "%s should not be greater than %s", lower, higher)
	}

	for _, rank := range deck.Ranks {
		assert.False(t, deck.RankGreater(rank, rank), "%s should not be greater than itself", rank)
	}
}

func TestRankValue(t *testing.T) {
	assert.Equal(t, 6, deck.Six.Value())
	assert.Equal(t, 10, deck.Ten.Value())
	assert.Equal(t, 11, deck.Jack.Value())
	assert.Equal(t, 14, deck.Ace.Value())
}

func TestCardString(t *testing.T) {
	assert.Equal(t, "6♠", deck.Card{Rank: deck.Six, Suite: deck.Spades}.String())
	assert.Equal(t, "10♥", deck.Card{Rank: deck.Ten, Suite: deck.Hearts}.String())
	assert.Equal(t, "A♣", deck.Card{Rank: deck.Ace, Suite: deck.Clubs}.String())
}
