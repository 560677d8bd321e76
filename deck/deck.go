package deck

import "math/rand"

// Deck is an ordered pile of cards. Cards are drawn from the front;
// the last card determines the trump suite in a game of durak.
type Deck []Card

// New creates a full 36-card deck, not yet shuffled
func New() Deck {
	cards := make(Deck, 0, len(Ranks)*len(Suites))
	for _, rank := range Ranks {
		for _, suite := range Suites {
			cards = append(cards, Card{Rank: rank, Suite: suite})
		}
	}
	return cards
}

// Shuffle shuffles the deck in place
func (d Deck) Shuffle() {
	rand.Shuffle(len(d), func(i, j int) {
		d[i], d[j] = d[j], d[i]
	})
}

// Draw removes and returns the top card. The second return value is
// false if the deck is empty.
func (d *Deck) Draw() (Card, bool) {
	if len(*d) == 0 {
		return Card{}, false
	}
	card := (*d)[0]
	*d = (*d)[1:]
	return card, true
}

// Last returns the bottom card of the deck without removing it.
// In durak the bottom card is shown to everyone as the trump card.
func (d Deck) Last() (Card, bool) {
	if len(d) == 0 {
		return Card{}, false
	}
	return d[len(d)-1], true
}
