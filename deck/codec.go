package deck

import (
	"fmt"
	"regexp"
)

// ErrBadCardToken is returned when a card token cannot be decoded.
// It is distinct from game-rule errors: a malformed token is a client
// input problem, not a rejected move.
var ErrBadCardToken = fmt.Errorf("bad card token")

var cardTokenRe = regexp.MustCompile(`^(6|7|8|9|10|J|Q|K|A)([♣♦♥♠CDHS])$`)

var suiteLetters = map[string]Suite{
	"C": Clubs,
	"D": Diamonds,
	"H": Hearts,
	"S": Spades,
}

// ParseCard decodes a two-part card token such as "10♠" or "QH".
// The suite may be given as a glyph or as one of the letters C, D, H, S.
func ParseCard(token string) (Card, error) {
	match := cardTokenRe.FindStringSubmatch(token)
	if match == nil {
		return Card{}, fmt.Errorf("%w: cannot parse card name %q", ErrBadCardToken, token)
	}
	suite, ok := suiteLetters[match[2]]
	if !ok {
		suite = Suite(match[2])
	}
	return Card{Rank: Rank(match[1]), Suite: suite}, nil
}
