package durak

import (
	"log"
	"sync"
	"time"

	uuid "github.com/satori/go.uuid"

	"github.com/alexander-fenster/durak/deck"
)

// Player is a seat at a game: a hand of cards, a stable numeric id within
// the game, and an opaque key the transport uses to address the player.
// A player is in at most one game at a time, but moves between games on
// a rematch, so the mutable fields get their own lock: a game's mutex
// only covers the game the player is currently leaving or entering, not
// concurrent readers still holding the other one. Lock order is always
// game before player; nothing under p.mu calls back into a game.
type Player struct {
	mu         sync.Mutex
	id         int
	key        string
	name       string
	cards      []deck.Card
	game       *Game
	next       *Player
	createTime time.Time
}

// NewPlayer constructs a player. The optional cards are used by tests
// to build fixed hands; real hands are dealt by the game.
func NewPlayer(id int, name string, cards ...deck.Card) *Player {
	return &Player{
		id:         id,
		key:        uuid.NewV4().String(),
		name:       name,
		cards:      cards,
		createTime: time.Now(),
	}
}

// ID returns the player's numeric id, unique within their game
func (p *Player) ID() int {
	return p.id
}

// Key returns the opaque identity token issued at creation time
func (p *Player) Key() string {
	return p.key
}

// Name returns the display name
func (p *Player) Name() string {
	return p.name
}

// CreateTime returns the time the player was created or last joined a game.
// The idle sweep uses it to evict stale players.
func (p *Player) CreateTime() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.createTime
}

// Count returns the number of cards in the player's hand
func (p *Player) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.cards)
}

// Cards returns a copy of the player's hand
func (p *Player) Cards() []deck.Card {
	p.mu.Lock()
	defer p.mu.Unlock()
	cards := make([]deck.Card, len(p.cards))
	copy(cards, p.cards)
	return cards
}

// Game returns the game the player is seated at, or nil
func (p *Player) Game() *Game {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.game
}

// take puts a card into the player's hand
func (p *Player) take(card deck.Card) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cards = append(p.cards, card)
}

// remove takes a card out of the player's hand, failing if it is not there
func (p *Player) remove(card deck.Card) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for idx, held := range p.cards {
		if held == card {
			p.cards = append(p.cards[:idx], p.cards[idx+1:]...)
			return nil
		}
	}
	return newError(KindInvalidCard,
		"card %s is not in the possession of player %d %s", card, p.id, p.name)
}

// joinGame seats the player at a game, clearing their hand and
// restarting their idle-sweep clock
func (p *Player) joinGame(game *Game) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cards = nil
	p.createTime = time.Now()
	p.game = game
}

func (p *Player) setNext(next *Player) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.next = next
}

func (p *Player) nextPlayer() *Player {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.next
}

// currentGame resolves the player's game for a forwarded operation
func (p *Player) currentGame() (*Game, error) {
	game := p.Game()
	if game == nil {
		return nil, newError(KindIllegalState, "player %d %s is not in a game", p.id, p.name)
	}
	return game, nil
}

// Start starts the player's current game
func (p *Player) Start() error {
	game, err := p.currentGame()
	if err != nil {
		return err
	}
	return game.Start()
}

// Attack plays the first card of a turn
func (p *Player) Attack(card deck.Card) error {
	game, err := p.currentGame()
	if err != nil {
		return err
	}
	return game.Attack(p, card)
}

// Defend beats an attacking card on the table with a card from the hand
func (p *Player) Defend(attackingCard, defendingCard deck.Card) error {
	game, err := p.currentGame()
	if err != nil {
		return err
	}
	return game.Defend(p, attackingCard, defendingCard)
}

// AddCard throws a rank-matching card into the current turn
func (p *Player) AddCard(card deck.Card) error {
	game, err := p.currentGame()
	if err != nil {
		return err
	}
	return game.AddCard(p, card)
}

// Pass signals the player has nothing more to add this turn
func (p *Player) Pass() error {
	game, err := p.currentGame()
	if err != nil {
		return err
	}
	return game.Pass(p)
}

// PickUp gives up the defence and takes the cards on the table
func (p *Player) PickUp() error {
	game, err := p.currentGame()
	if err != nil {
		return err
	}
	return game.PickUp(p)
}

// NextGame moves the player to the rematch of their finished game,
// creating it if this player is first to ask
func (p *Player) NextGame() (PlayerTable, error) {
	game, err := p.currentGame()
	if err != nil {
		return PlayerTable{}, err
	}

	nextGame, err := game.NextGame(p)
	if err != nil {
		return PlayerTable{}, err
	}
	// creating the rematch seats its host, so the asking player's game is
	// already the new one for whoever asked first; everyone else joins here
	if current := p.Game(); current == nil || nextGame.ID() != current.ID() {
		if err := nextGame.AddPlayer(p); err != nil {
			return PlayerTable{}, err
		}
	}
	return p.Table()
}

// Table returns the player's view of their game: the shared table plus
// the player's own hand and key
func (p *Player) Table() (PlayerTable, error) {
	game, err := p.currentGame()
	if err != nil {
		return PlayerTable{}, err
	}
	return game.playerTable(p), nil
}

// PlayerStore is a process-wide registry of players by key. Entries are
// evicted after the idle timeout; there is no persistence across restarts.
type PlayerStore struct {
	mu      sync.RWMutex
	players map[string]*Player
	ttl     time.Duration
}

// NewPlayerStore constructs a PlayerStore evicting players idle for ttl
func NewPlayerStore(ttl time.Duration) *PlayerStore {
	return &PlayerStore{
		players: map[string]*Player{},
		ttl:     ttl,
	}
}

// NewPlayer creates and registers a player, sweeping expired ones first
func (s *PlayerStore) NewPlayer(id int, name string) *Player {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()

	player := NewPlayer(id, name)
	s.players[player.key] = player
	return player
}

// Find looks up a player by key
func (s *PlayerStore) Find(key string) (*Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	player, ok := s.players[key]
	return player, ok
}

// Sweep evicts players idle for longer than the store's timeout
func (s *PlayerStore) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
}

func (s *PlayerStore) sweepLocked() {
	now := time.Now()
	for key, player := range s.players {
		if now.Sub(player.CreateTime()) > s.ttl {
			log.Printf("deleting player %s by timeout", key)
			delete(s.players, key)
		}
	}
}
