package durak

import (
	"sync"
	"time"

	"github.com/alexander-fenster/durak/deck"
)

// Status is the state of the game state machine
type Status string

const (
	StatusNotStarted           Status = "NOT STARTED"
	StatusWaitingForAttack     Status = "WAITING FOR ATTACK"
	StatusWaitingForDefence    Status = "WAITING FOR DEFENCE"
	StatusWaitingForMore       Status = "WAITING FOR MORE"
	StatusWaitingForMoreToTake Status = "WAITING FOR MORE TO TAKE"
	StatusFinished             Status = "FINISHED"
	// StatusBroken is terminal: it is entered only when the turn-order
	// search runs past a full ring traversal, which cannot happen unless
	// an invariant was already violated.
	StatusBroken Status = "BROKEN"
)

const (
	// DefaultHandSize is the number of cards dealt to each player
	DefaultHandSize = 6
	// maxPlayers is the seating limit
	maxPlayers = 6
	// maxAttackCards is the hard durak rule: at most 6 cards per attack
	maxAttackCards = 6
)

// FindFirstPlayer selects the player who attacks first: the one holding
// the lowest-ranked trump card, or the first listed player if nobody
// holds a trump. Ties go to the earliest player in the list.
func FindFirstPlayer(players []*Player, trump deck.Suite) *Player {
	var first *Player
	var lowestTrumpRank deck.Rank
	for _, player := range players {
		var playerLowest deck.Rank
		for _, card := range player.Cards() {
			if card.Suite == trump &&
				(playerLowest == "" || deck.RankGreater(playerLowest, card.Rank)) {
				playerLowest = card.Rank
			}
		}
		if playerLowest != "" &&
			(lowestTrumpRank == "" || deck.RankGreater(lowestTrumpRank, playerLowest)) {
			lowestTrumpRank = playerLowest
			first = player
		}
	}

	if first == nil {
		first = players[0]
	}
	return first
}

// Beats reports whether defendingCard beats attackingCard given the
// trump suite: same suite and strictly higher rank, or trump against
// non-trump. A card never beats itself.
func Beats(defendingCard, attackingCard deck.Card, trump deck.Suite) bool {
	if defendingCard.Suite == attackingCard.Suite {
		return deck.RankGreater(defendingCard.Rank, attackingCard.Rank)
	}
	if defendingCard.Suite == trump && attackingCard.Suite != trump {
		return true
	}
	return false
}

// Game owns all mutable state of one durak session: the deck, the trump,
// the table, the seating and turn pointers. Every mutating operation is
// serialized behind the game's mutex; validation fully precedes mutation,
// so a rejected operation leaves the game unchanged.
type Game struct {
	mu             sync.Mutex
	id             int
	store          *GameStore
	status         Status
	players        []*Player
	deck           deck.Deck
	trump          deck.Suite
	attacking      *Player
	defending      *Player
	attackingCards []deck.Card
	defendingCards []*deck.Card
	drawCardsOrder []*Player
	passedPlayers  []*Player
	winner         *Player
	emptyHands     []*Player
	loser          *Player
	nextGameID     int
	startTime      time.Time
	handSize       int
}

// ID returns the game id, unique within the registry
func (g *Game) ID() int {
	return g.id
}

// StartTime returns the game's creation time (the idle-sweep clock)
func (g *Game) StartTime() time.Time {
	return g.startTime
}

// PlayersCount returns the number of seated players
func (g *Game) PlayersCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.players)
}

// PlayerKeys returns the identity keys of all seated players. The
// transport uses them to address notifications after a state change.
func (g *Game) PlayerKeys() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	keys := make([]string, 0, len(g.players))
	for _, player := range g.players {
		keys = append(keys, player.key)
	}
	return keys
}

// requireStatus rejects an operation outside its legal statuses.
// A broken game rejects everything.
func (g *Game) requireStatus(verb string, legal ...Status) error {
	if g.status == StatusBroken {
		return newError(KindBroken, "game %d is broken, cannot %s", g.id, verb)
	}
	for _, status := range legal {
		if g.status == status {
			return nil
		}
	}
	return newError(KindIllegalState, "cannot %s now, the game status is %s", verb, g.status)
}

// deal tops up the player's hand from the deck, deck-permitting
func (g *Game) deal(player *Player) {
	for player.Count() < g.handSize {
		card, ok := g.deck.Draw()
		if !ok {
			return
		}
		player.take(card)
	}
}

// afterWithCards finds the next player in seating order holding at least
// one card. More than six consecutive skips means the ring is corrupt;
// the game is marked broken.
func (g *Game) afterWithCards(player *Player) (*Player, error) {
	skipped := 0
	player = player.nextPlayer()
	for player.Count() == 0 {
		player = player.nextPlayer()
		skipped++
		if skipped >= maxPlayers {
			g.status = StatusBroken
			return nil, newError(KindBroken, "internal error: broken state in game %d", g.id)
		}
	}
	return player, nil
}

// beatenCount returns the number of attack slots already beaten
func (g *Game) beatenCount() int {
	count := 0
	for _, card := range g.defendingCards {
		if card != nil {
			count++
		}
	}
	return count
}

// AddPlayer seats a player and deals them a hand. Seating is open only
// before the game starts, for up to 6 players.
func (g *Game) AddPlayer(player *Player) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.status != StatusNotStarted {
		return newError(KindIllegalState, "game %d has started already, cannot add player", g.id)
	}
	if len(g.players) >= maxPlayers {
		return newError(KindCapacityExceeded, "too many players in game %d", g.id)
	}
	g.players = append(g.players, player)
	player.joinGame(g)
	g.deal(player)
	return nil
}

// Start freezes the seating, builds the circular turn order and selects
// the first attacker. Starting an already started game is a no-op.
func (g *Game) Start() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.status != StatusNotStarted {
		// the game has started already; ignore the start attempt
		return nil
	}
	if len(g.players) < 2 {
		return newError(KindIllegalState, "cannot start game %d with less than 2 players", g.id)
	}

	g.status = StatusWaitingForAttack

	// close the ring: seating order is fixed from here on
	for idx, player := range g.players {
		player.setNext(g.players[(idx+1)%len(g.players)])
	}

	g.attacking = FindFirstPlayer(g.players, g.trump)
	defending, err := g.afterWithCards(g.attacking)
	if err != nil {
		return err
	}
	g.defending = defending
	return nil
}

// Attack places the first card of a turn
func (g *Game) Attack(player *Player, card deck.Card) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.requireStatus("attack", StatusWaitingForAttack); err != nil {
		return err
	}
	if g.attacking.id != player.id {
		return newError(KindWrongActor,
			"expected attack from %d %s, but instead %d %s attacked",
			g.attacking.id, g.attacking.name, player.id, player.name)
	}
	if g.defending.Count() < 1 {
		return newError(KindIllegalState,
			"defending player %d %s has no cards", g.defending.id, g.defending.name)
	}

	if err := g.attacking.remove(card); err != nil {
		return err
	}
	g.attackingCards = []deck.Card{card}
	g.defendingCards = []*deck.Card{nil}
	g.drawCardsOrder = []*Player{player}
	g.passedPlayers = nil
	g.status = StatusWaitingForDefence
	return nil
}

// Defend beats an unbeaten attacking card on the table
func (g *Game) Defend(player *Player, attackingCard, defendingCard deck.Card) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.requireStatus("defend", StatusWaitingForDefence, StatusWaitingForMore); err != nil {
		return err
	}
	if g.defending.id != player.id {
		return newError(KindWrongActor,
			"expected defence from %d %s, but instead %d %s defends",
			g.defending.id, g.defending.name, player.id, player.name)
	}

	attackingCardIdx := -1
	for idx, card := range g.attackingCards {
		if card == attackingCard {
			attackingCardIdx = idx
			break
		}
	}
	if attackingCardIdx == -1 {
		return newError(KindInvalidCard,
			"card %s is not one of the attacking cards", attackingCard)
	}
	if g.defendingCards[attackingCardIdx] != nil {
		return newError(KindInvalidCard,
			"card %s is already beaten by %s", attackingCard, g.defendingCards[attackingCardIdx])
	}
	if !Beats(defendingCard, attackingCard, g.trump) {
		return newError(KindInvalidCard,
			"card %s does not beat card %s with trump suite %s", defendingCard, attackingCard, g.trump)
	}

	if err := g.defending.remove(defendingCard); err != nil {
		return err
	}
	beaten := defendingCard
	g.defendingCards[attackingCardIdx] = &beaten
	g.passedPlayers = nil
	g.status = StatusWaitingForMore
	return nil
}

// AddCard throws a rank-matching card into the turn. Any non-defending
// player may reinforce, up to 6 attack slots and never beyond what the
// defender's current hand could absorb. The capacity check always uses
// the defender's live hand count, which shrinks as a forced pickup grows.
func (g *Game) AddCard(player *Player, card deck.Card) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	err := g.requireStatus("add cards",
		StatusWaitingForDefence, StatusWaitingForMore, StatusWaitingForMoreToTake)
	if err != nil {
		return err
	}
	if player.id == g.defending.id {
		return newError(KindWrongActor,
			"cannot add cards to themselves (player %d %s is defending)", player.id, player.name)
	}
	if len(g.attackingCards)-g.beatenCount() >= g.defending.Count() {
		return newError(KindCapacityExceeded,
			"cannot add more cards since player %d %s only has %d cards",
			g.defending.id, g.defending.name, g.defending.Count())
	}
	if len(g.attackingCards) >= maxAttackCards {
		return newError(KindCapacityExceeded,
			"cannot add more cards since there can only be %d cards in one attack", maxAttackCards)
	}

	sameRankFound := false
	for _, cardOnTable := range g.attackingCards {
		if cardOnTable.Rank == card.Rank {
			sameRankFound = true
			break
		}
	}
	if !sameRankFound {
		for _, cardOnTable := range g.defendingCards {
			if cardOnTable != nil && cardOnTable.Rank == card.Rank {
				sameRankFound = true
				break
			}
		}
	}
	if !sameRankFound {
		return newError(KindInvalidCard, "cannot add card %s to the cards on the table", card)
	}

	if err := player.remove(card); err != nil {
		return err
	}
	g.attackingCards = append(g.attackingCards, card)
	g.defendingCards = append(g.defendingCards, nil)
	if !g.inDrawOrder(player) {
		g.drawCardsOrder = append(g.drawCardsOrder, player)
	}
	// reinforcing an active defence invalidates earlier passes; during a
	// forced pickup they stay valid
	if g.status != StatusWaitingForMoreToTake {
		g.passedPlayers = nil
	}

	if g.status == StatusWaitingForMoreToTake &&
		len(g.attackingCards) >= g.defending.Count()+g.beatenCount() {
		// nobody can add any more cards and the defending player is
		// picking the cards
		return g.endOfTurn()
	}
	return nil
}

// Pass signals the player has nothing more to add this sub-round.
// Passing twice is a no-op. The defender never passes. When every
// non-defending player holding cards has passed, the turn ends.
func (g *Game) Pass(player *Player) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	err := g.requireStatus("pass", StatusWaitingForMore, StatusWaitingForMoreToTake)
	if err != nil {
		return err
	}
	if g.defending.id == player.id {
		return newError(KindWrongActor,
			"the defending player %d %s cannot pass", player.id, player.name)
	}

	for _, passed := range g.passedPlayers {
		if passed.id == player.id {
			return nil
		}
	}

	if player.Count() > 0 {
		g.passedPlayers = append(g.passedPlayers, player)
	}

	if len(g.passedPlayers) == g.eligiblePassers() {
		// all players with cards in hands passed other than the defender
		return g.endOfTurn()
	}
	return nil
}

// PickUp gives up the defence: the defender will take the table. Other
// players may still reinforce until the defender's capacity is reached.
func (g *Game) PickUp(player *Player) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	err := g.requireStatus("take", StatusWaitingForDefence, StatusWaitingForMore)
	if err != nil {
		return err
	}
	if g.defending.id != player.id {
		return newError(KindWrongActor,
			"expected defence from %d %s, but instead %d %s wants to take cards",
			g.defending.id, g.defending.name, player.id, player.name)
	}

	g.status = StatusWaitingForMoreToTake

	if len(g.attackingCards) >= g.defending.Count()+g.beatenCount() {
		// the defending player cannot take any more cards
		return g.endOfTurn()
	}
	return nil
}

// NextGame lazily creates the rematch hosted by player and memoizes its
// id, so every player of the finished game lands in the same new game.
func (g *Game) NextGame(player *Player) (*Game, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.status != StatusFinished {
		return nil, newError(KindIllegalState, "the current game %d is not yet finished", g.id)
	}
	if g.nextGameID == 0 {
		next := g.store.NewGame(player, GameOpts{})
		g.nextGameID = next.ID()
	}
	next, ok := g.store.Find(g.nextGameID)
	if !ok {
		return nil, newError(KindNotFound, "game %d was not found", g.nextGameID)
	}
	return next, nil
}

// inDrawOrder reports whether the player already contributed a card this turn
func (g *Game) inDrawOrder(player *Player) bool {
	for _, p := range g.drawCardsOrder {
		if p.id == player.id {
			return true
		}
	}
	return false
}

// eligiblePassers counts players whose explicit pass the turn waits for
func (g *Game) eligiblePassers() int {
	count := 0
	for _, p := range g.players {
		if p.id != g.defending.id && p.Count() > 0 {
			count++
		}
	}
	return count
}

// endOfTurn resolves the turn: a picking-up defender takes the table,
// everyone who contributed draws back up to the hand size (defender
// last), the game-end condition is checked, and the next attacker and
// defender are selected. Called with the game lock held.
func (g *Game) endOfTurn() error {
	if g.status == StatusWaitingForMoreToTake {
		// the defending player takes all the cards
		for _, card := range g.attackingCards {
			g.defending.take(card)
		}
		for _, card := range g.defendingCards {
			if card != nil {
				g.defending.take(*card)
			}
		}
	}

	// deal more cards to the players in the order they first contributed,
	// the defender last
	toDeal := append(append([]*Player{}, g.drawCardsOrder...), g.defending)
	for _, player := range toDeal {
		g.deal(player)
		if player.Count() == 0 {
			if g.winner == nil {
				g.winner = player
			}
			g.emptyHands = append(g.emptyHands, player)
		}
	}

	// is the game over?
	if len(g.emptyHands) == len(g.players)-1 {
		// one player lost
		for _, player := range g.players {
			if player.Count() > 0 {
				g.loser = player
				break
			}
		}
		g.status = StatusFinished
		return nil
	}
	if len(g.emptyHands) == len(g.players) {
		// nobody has lost
		g.status = StatusFinished
		return nil
	}

	g.attackingCards = nil
	g.defendingCards = nil

	// who attacks next? after a pickup the former defender is skipped
	from := g.attacking
	if g.status == StatusWaitingForMoreToTake {
		from = g.defending
	}
	attacking, err := g.afterWithCards(from)
	if err != nil {
		return err
	}
	defending, err := g.afterWithCards(attacking)
	if err != nil {
		return err
	}
	g.attacking = attacking
	g.defending = defending
	g.status = StatusWaitingForAttack
	return nil
}

// Table returns a read-only snapshot of the game
func (g *Game) Table() Table {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.tableLocked()
}

// playerTable returns the table as seen by one player, including their hand
func (g *Game) playerTable(player *Player) PlayerTable {
	g.mu.Lock()
	defer g.mu.Unlock()
	return PlayerTable{
		PlayerID:  player.id,
		PlayerKey: player.key,
		Cards:     player.Cards(),
		Table:     g.tableLocked(),
	}
}

func (g *Game) tableLocked() Table {
	players := make(map[int]PlayerInfo, len(g.players))
	for _, player := range g.players {
		players[player.id] = PlayerInfo{Name: player.name, Count: player.Count()}
	}

	attackingCards := make([]deck.Card, len(g.attackingCards))
	copy(attackingCards, g.attackingCards)
	defendingCards := make([]*deck.Card, len(g.defendingCards))
	for idx, card := range g.defendingCards {
		if card != nil {
			copied := *card
			defendingCards[idx] = &copied
		}
	}

	table := Table{
		GameID:         g.id,
		StartTime:      g.startTime,
		AttackingCards: attackingCards,
		DefendingCards: defendingCards,
		Trump:          g.trump,
		DeckCount:      len(g.deck),
		Status:         g.status,
		Players:        players,
		NextGameID:     g.nextGameID,
	}
	if trumpCard, ok := g.deck.Last(); ok {
		table.TrumpCard = &trumpCard
	}
	if g.attacking != nil {
		table.AttackingPlayerID = g.attacking.id
	}
	if g.defending != nil {
		table.DefendingPlayerID = g.defending.id
	}
	if g.winner != nil {
		table.WinnerPlayerID = g.winner.id
	}
	if g.loser != nil {
		table.LoserPlayerID = g.loser.id
	}
	return table
}
