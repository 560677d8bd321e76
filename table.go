package durak

import (
	"time"

	"github.com/alexander-fenster/durak/deck"
)

// PlayerInfo is the public view of a seated player: name and hand size only
type PlayerInfo struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Table is a read-only snapshot of a game, safe to serialize as-is.
// Absent players (no attacker yet, no winner) have a zero id; player ids
// start at 1.
type Table struct {
	GameID            int                `json:"gameId"`
	StartTime         time.Time          `json:"startTime"`
	AttackingCards    []deck.Card        `json:"attackingCards"`
	DefendingCards    []*deck.Card       `json:"defendingCards"`
	TrumpCard         *deck.Card         `json:"trumpCard,omitempty"`
	Trump             deck.Suite         `json:"trump"`
	DeckCount         int                `json:"deckCount"`
	Status            Status             `json:"status"`
	AttackingPlayerID int                `json:"attackingPlayerId,omitempty"`
	DefendingPlayerID int                `json:"defendingPlayerId,omitempty"`
	WinnerPlayerID    int                `json:"winnerPlayerId,omitempty"`
	LoserPlayerID     int                `json:"loserPlayerId,omitempty"`
	Players           map[int]PlayerInfo `json:"players"`
	NextGameID        int                `json:"nextGameId,omitempty"`
}

// PlayerTable is a per-player view: the shared table plus the player's
// own hand and identity token
type PlayerTable struct {
	PlayerID  int         `json:"playerId"`
	PlayerKey string      `json:"playerKey"`
	Cards     []deck.Card `json:"cards"`
	Table
}
