package deck_test

import (
	"testing"

	"github.com/alexander-fenster/durak/deck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeck(t *testing.T) {
	d := deck.New()
	require.Len(t, d, 36)

	seen := map[deck.Card]bool{}
	for _, card := range d {
		assert.False(t, seen[card], "duplicate card %s", card)
		seen[card] = true
	}
}

func TestShuffleKeepsCards(t *testing.T) {
	d := deck.New()
	d.Shuffle()
	require.Len(t, d, 36)

	seen := map[deck.Card]bool{}
	for _, card := range d {
		seen[card] = true
	}
	assert.Len(t, seen, 36)
}

func TestDraw(t *testing.T) {
	d := deck.Deck{
		{Rank: deck.Six, Suite: deck.Hearts},
		{Rank: deck.Queen, Suite: deck.Clubs},
	}

	first, ok := d.Draw()
	require.True(t, ok)
	assert.Equal(t, deck.Card{Rank: deck.Six, Suite: deck.Hearts}, first)

	second, ok := d.Draw()
	require.True(t, ok)
	assert.Equal(t, deck.Card{Rank: deck.Queen, Suite: deck.Clubs}, second)

	_, ok = d.Draw()
	assert.False(t, ok)
}

func TestLast(t *testing.T) {
	d := deck.Deck{
		{Rank: deck.Six, Suite: deck.Hearts},
		{Rank: deck.Queen, Suite: deck.Hearts},
	}

	last, ok := d.Last()
	require.True(t, ok)
	assert.Equal(t, deck.Card{Rank: deck.Queen, Suite: deck.Hearts}, last)
	assert.Len(t, d, 2, "Last should not remove the card")

	empty := deck.Deck{}
	_, ok = empty.Last()
	assert.False(t, ok)
}
