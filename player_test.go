package durak

import (
	"testing"
	"time"

	"github.com/alexander-fenster/durak/deck"
	utils "github.com/alexander-fenster/durak/internal"
)

func TestPlayerTakeAndRemove(t *testing.T) {
	player := NewPlayer(1, "player1", sixH)
	player.take(sixS)
	utils.AssertDeepEqual(t, player.Cards(), []deck.Card{sixH, sixS})

	err := player.remove(queenC)
	utils.AssertErrored(t, err)
	utils.AssertEqual(t, KindOf(err), KindInvalidCard)
	utils.AssertEqual(t, player.Count(), 2)

	utils.AssertNoError(t, player.remove(sixH))
	utils.AssertDeepEqual(t, player.Cards(), []deck.Card{sixS})
}

func TestPlayerOperationsWithoutGame(t *testing.T) {
	player := NewPlayer(1, "loner", sixH)

	utils.AssertEqual(t, KindOf(player.Attack(sixH)), KindIllegalState)
	utils.AssertEqual(t, KindOf(player.Defend(sixH, sixS)), KindIllegalState)
	utils.AssertEqual(t, KindOf(player.AddCard(sixH)), KindIllegalState)
	utils.AssertEqual(t, KindOf(player.Pass()), KindIllegalState)
	utils.AssertEqual(t, KindOf(player.PickUp()), KindIllegalState)
	utils.AssertEqual(t, KindOf(player.Start()), KindIllegalState)

	_, err := player.Table()
	utils.AssertEqual(t, KindOf(err), KindIllegalState)
	_, err = player.NextGame()
	utils.AssertEqual(t, KindOf(err), KindIllegalState)
}

func TestJoinGameResetsHand(t *testing.T) {
	fixedDeck := deck.Deck{sixH, sixS, queenC, sevenH, jackD, queenH}

	store := newTestStore()
	host := NewPlayer(1, "host", aceC, aceS)
	before := host.CreateTime()
	time.Sleep(time.Millisecond)

	store.NewGame(host, GameOpts{Deck: fixedDeck, HandSize: 2})

	// the stale hand is gone and the idle clock restarts
	utils.AssertDeepEqual(t, host.Cards(), []deck.Card{sixH, sixS})
	utils.AssertTrue(t, host.CreateTime().After(before))
}

func TestPlayerTableView(t *testing.T) {
	fixedDeck := deck.Deck{sixH, sixS, queenC, sevenH, jackD, queenH}

	store := newTestStore()
	player1 := NewPlayer(1, "player1")
	player2 := NewPlayer(2, "player2")
	game := store.NewGame(player1, GameOpts{Deck: fixedDeck, HandSize: 2})
	utils.AssertNoError(t, game.AddPlayer(player2))

	table, err := player2.Table()
	utils.AssertNoError(t, err)
	utils.AssertEqual(t, table.PlayerID, 2)
	utils.AssertEqual(t, table.PlayerKey, player2.Key())
	utils.AssertDeepEqual(t, table.Cards, []deck.Card{queenC, sevenH})
	utils.AssertEqual(t, table.GameID, game.ID())
	utils.AssertEqual(t, table.DeckCount, 2)
	// the other player's hand is only visible as a count
	utils.AssertDeepEqual(t, table.Players[1], PlayerInfo{Name: "player1", Count: 2})
}

func TestPlayerStore(t *testing.T) {
	store := NewPlayerStore(time.Hour)

	player := store.NewPlayer(1, "Hermione")
	utils.AssertNotEmptyString(t, player.Key())

	found, ok := store.Find(player.Key())
	utils.AssertTrue(t, ok)
	utils.AssertEqual(t, found, player)

	_, ok = store.Find("no-such-key")
	utils.AssertTrue(t, !ok)
}

func TestPlayerStoreSweep(t *testing.T) {
	store := NewPlayerStore(time.Millisecond)

	stale := store.NewPlayer(1, "stale")
	time.Sleep(5 * time.Millisecond)
	store.Sweep()

	_, ok := store.Find(stale.Key())
	utils.AssertTrue(t, !ok)
}

// TestSnapshotsDuringRematch hammers snapshot reads while both players
// move to the rematch. The hand and the game backref are written under
// the new game's lock while readers still resolve the old one, so the
// race detector exercises the player's own lock here.
func TestSnapshotsDuringRematch(t *testing.T) {
	_, player1, player2 := finishedGame(t)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			player1.Table()
			player2.Table()
		}
	}()

	table2, err := player2.NextGame()
	utils.AssertNoError(t, err)
	table1, err := player1.NextGame()
	utils.AssertNoError(t, err)
	<-done

	utils.AssertEqual(t, table1.GameID, table2.GameID)
}
