package durak

import (
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/alexander-fenster/durak/deck"
)

// GameOpts override game construction defaults, mainly for tests:
// a fixed deck instead of a shuffled one, and a smaller hand size.
type GameOpts struct {
	Deck     deck.Deck
	HandSize int
}

// GameStore is a process-wide registry of games by id. Games idle for
// longer than the timeout are evicted on the next sweep; this is memory
// reclamation, not a correctness requirement, and nothing survives a
// process restart.
type GameStore struct {
	mu    sync.RWMutex
	games map[int]*Game
	ttl   time.Duration
}

// NewGameStore constructs a GameStore evicting games older than ttl
func NewGameStore(ttl time.Duration) *GameStore {
	return &GameStore{
		games: map[int]*Game{},
		ttl:   ttl,
	}
}

// NewGame creates a game hosted by host, deals the host's hand and
// registers the game under a fresh id. Expired games are swept first.
func (s *GameStore) NewGame(host *Player, opts GameOpts) *Game {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()

	id := rand.Intn(10000)
	for {
		if _, exists := s.games[id]; !exists {
			break
		}
		id = rand.Intn(10000)
	}

	handSize := opts.HandSize
	if handSize == 0 {
		handSize = DefaultHandSize
	}

	var cards deck.Deck
	if opts.Deck == nil {
		cards = deck.New()
		cards.Shuffle()
	} else {
		// fixed deck for deterministic tests
		cards = make(deck.Deck, len(opts.Deck))
		copy(cards, opts.Deck)
	}

	game := &Game{
		id:        id,
		store:     s,
		status:    StatusNotStarted,
		deck:      cards,
		startTime: time.Now(),
		handSize:  handSize,
	}
	if last, ok := cards.Last(); ok {
		game.trump = last.Suite
	}

	game.players = []*Player{host}
	host.joinGame(game)
	game.deal(host)

	s.games[id] = game
	return game
}

// Find looks up a game by id
func (s *GameStore) Find(id int) (*Game, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	game, ok := s.games[id]
	return game, ok
}

// Sweep evicts games older than the store's timeout
func (s *GameStore) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
}

func (s *GameStore) sweepLocked() {
	now := time.Now()
	for id, game := range s.games {
		if now.Sub(game.startTime) > s.ttl {
			log.Printf("deleting expired game %d", id)
			delete(s.games, id)
		}
	}
}
