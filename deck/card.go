package deck

// Suite represents a card suite
type Suite string

const (
	Clubs    Suite = "♣"
	Diamonds Suite = "♦"
	Hearts   Suite = "♥"
	Spades   Suite = "♠"
)

// Suites lists all suites in a fixed order
var Suites = []Suite{Clubs, Diamonds, Hearts, Spades}

// Rank represents a card rank, from Six to Ace
type Rank string

const (
	Six   Rank = "6"
	Seven Rank = "7"
	Eight Rank = "8"
	Nine  Rank = "9"
	Ten   Rank = "10"
	Jack  Rank = "J"
	Queen Rank = "Q"
	King  Rank = "K"
	Ace   Rank = "A"
)

// Ranks lists all ranks from the lowest to the highest
var Ranks = []Rank{Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

var rankValues = map[Rank]int{
	Six:   6,
	Seven: 7,
	Eight: 8,
	Nine:  9,
	Ten:   10,
	Jack:  11,
	Queen: 12,
	King:  13,
	Ace:   14,
}

// Value returns the numeric value of the rank (6 to 14)
func (r Rank) Value() int {
	return rankValues[r]
}

// RankGreater reports whether rank a is strictly higher than rank b
func RankGreater(a, b Rank) bool {
	return a.Value() > b.Value()
}

// Card is an immutable rank and suite pair. Cards are compared by value,
// so two Card values with the same rank and suite are the same card.
type Card struct {
	Rank  Rank  `json:"rank"`
	Suite Suite `json:"suite"`
}

func (c Card) String() string {
	return string(c.Rank) + string(c.Suite)
}
