package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/handlers"

	"github.com/alexander-fenster/durak"
	"github.com/alexander-fenster/durak/deck"
)

var gameIDRe = regexp.MustCompile(`^\d{1,4}$`)

// GameServer translates the HTTP verbs onto game operations. All state
// lives in the injected stores; the server itself only routes, decodes
// card tokens and fans out notifications after each mutation.
type GameServer struct {
	games   *durak.GameStore
	players *durak.PlayerStore
	hub     *Hub
	handler http.Handler
}

// playerHandler is an endpoint acting on a resolved player
type playerHandler func(w http.ResponseWriter, r *http.Request, player *durak.Player)

// New constructs a GameServer around the given stores
func New(games *durak.GameStore, players *durak.PlayerStore, cfg Config) *GameServer {
	s := &GameServer{
		games:   games,
		players: players,
		hub:     NewHub(cfg.SubscribeTimeout),
	}

	router := chi.NewRouter()
	router.Route("/durak/v1", func(r chi.Router) {
		r.Post("/player/{playerName}/newGame", s.handleNewGame)
		r.Post("/player/{playerName}/joinGame/{gameID}", s.handleJoinGame)
		r.Post("/playerKey/{playerKey}/nextGame", s.withPlayer(s.handleNextGame))
		r.Post("/playerKey/{playerKey}/start", s.withPlayer(s.handleStart))
		r.Post("/playerKey/{playerKey}/getTable", s.withPlayer(s.handleGetTable))
		r.Post("/playerKey/{playerKey}/attack/{card}", s.withPlayer(s.handleAttack))
		r.Post("/playerKey/{playerKey}/addCard/{card}", s.withPlayer(s.handleAddCard))
		r.Post("/playerKey/{playerKey}/defend/{attackingCard}/{defendingCard}", s.withPlayer(s.handleDefend))
		r.Post("/playerKey/{playerKey}/pass", s.withPlayer(s.handlePass))
		r.Post("/playerKey/{playerKey}/pickUp", s.withPlayer(s.handlePickUp))
		r.Get("/subscribe/{playerKey}", s.withPlayer(s.handleSubscribe))
		r.Get("/ws/{playerKey}", s.withPlayer(s.handleWS))
	})

	s.handler = handlers.LoggingHandler(os.Stdout, handlers.CORS()(router))
	return s
}

// ServeHTTP serves http
func (s *GameServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// withPlayer resolves the playerKey path parameter before running h
func (s *GameServer) withPlayer(h playerHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "playerKey")
		player, ok := s.players.Find(key)
		if !ok {
			http.Error(w, "player "+key+" was not found", http.StatusNotFound)
			return
		}
		h(w, r, player)
	}
}

// param returns a path parameter with percent-encoding undone, so card
// tokens with suite glyphs survive the URL
func param(r *http.Request, name string) string {
	value := chi.URLParam(r, name)
	if unescaped, err := url.PathUnescape(value); err == nil {
		return unescaped
	}
	return value
}

func (s *GameServer) handleNewGame(w http.ResponseWriter, r *http.Request) {
	playerName := param(r, "playerName")
	host := s.players.NewPlayer(1, playerName)
	game := s.games.NewGame(host, durak.GameOpts{})
	log.Printf("new game request from %s, game %d created", playerName, game.ID())
	s.writeTable(w, host)
}

func (s *GameServer) handleJoinGame(w http.ResponseWriter, r *http.Request) {
	playerName := param(r, "playerName")
	gameIDParam := chi.URLParam(r, "gameID")
	if !gameIDRe.MatchString(gameIDParam) {
		http.Error(w, "game ID must be a 4 digit number", http.StatusBadRequest)
		return
	}
	gameID, _ := strconv.Atoi(gameIDParam)

	game, ok := s.games.Find(gameID)
	if !ok {
		http.Error(w, "game ID "+gameIDParam+" was not found", http.StatusNotFound)
		return
	}

	log.Printf("request from %s to join game %d", playerName, gameID)
	player := s.players.NewPlayer(game.PlayersCount()+1, playerName)
	if err := game.AddPlayer(player); err != nil {
		writeError(w, err)
		return
	}
	s.writeTable(w, player)
	s.notify(game)
}

func (s *GameServer) handleNextGame(w http.ResponseWriter, r *http.Request, player *durak.Player) {
	finished := player.Game()
	table, err := player.NextGame()
	if err != nil {
		writeError(w, err)
		return
	}
	log.Printf("request from %s to have one more game %d", player.Name(), table.GameID)
	writeJSON(w, table)
	// players still watching the finished table learn the rematch id
	s.notify(finished)
	s.notify(player.Game())
}

func (s *GameServer) handleStart(w http.ResponseWriter, r *http.Request, player *durak.Player) {
	if err := player.Start(); err != nil {
		writeError(w, err)
		return
	}
	log.Printf("game started by %s", player.Name())
	s.writeTable(w, player)
	s.notify(player.Game())
}

func (s *GameServer) handleGetTable(w http.ResponseWriter, r *http.Request, player *durak.Player) {
	s.writeTable(w, player)
}

func (s *GameServer) handleAttack(w http.ResponseWriter, r *http.Request, player *durak.Player) {
	card, err := deck.ParseCard(param(r, "card"))
	if err != nil {
		writeError(w, err)
		return
	}
	if err := player.Attack(card); err != nil {
		writeError(w, err)
		return
	}
	s.writeTable(w, player)
	s.notify(player.Game())
}

func (s *GameServer) handleAddCard(w http.ResponseWriter, r *http.Request, player *durak.Player) {
	card, err := deck.ParseCard(param(r, "card"))
	if err != nil {
		writeError(w, err)
		return
	}
	if err := player.AddCard(card); err != nil {
		writeError(w, err)
		return
	}
	s.writeTable(w, player)
	s.notify(player.Game())
}

func (s *GameServer) handleDefend(w http.ResponseWriter, r *http.Request, player *durak.Player) {
	attackingCard, err := deck.ParseCard(param(r, "attackingCard"))
	if err != nil {
		writeError(w, err)
		return
	}
	defendingCard, err := deck.ParseCard(param(r, "defendingCard"))
	if err != nil {
		writeError(w, err)
		return
	}
	if err := player.Defend(attackingCard, defendingCard); err != nil {
		writeError(w, err)
		return
	}
	s.writeTable(w, player)
	s.notify(player.Game())
}

func (s *GameServer) handlePass(w http.ResponseWriter, r *http.Request, player *durak.Player) {
	if err := player.Pass(); err != nil {
		writeError(w, err)
		return
	}
	s.writeTable(w, player)
	s.notify(player.Game())
}

func (s *GameServer) handlePickUp(w http.ResponseWriter, r *http.Request, player *durak.Player) {
	if err := player.PickUp(); err != nil {
		writeError(w, err)
		return
	}
	s.writeTable(w, player)
	s.notify(player.Game())
}

// writeTable responds with the caller's view of their game
func (s *GameServer) writeTable(w http.ResponseWriter, player *durak.Player) {
	table, err := player.Table()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, table)
}

// notify delivers fresh per-player snapshots to all subscribers of the game
func (s *GameServer) notify(game *durak.Game) {
	if game == nil {
		return
	}
	s.hub.Notify(game.PlayerKeys(), func(key string) (durak.PlayerTable, bool) {
		player, ok := s.players.Find(key)
		if !ok {
			return durak.PlayerTable{}, false
		}
		table, err := player.Table()
		if err != nil {
			return durak.PlayerTable{}, false
		}
		return table, true
	})
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("writing response: %v", err)
	}
}

// writeError maps a rejected operation onto an HTTP status: malformed
// card tokens and rule violations are client errors, missing entities
// are 404, and a broken game is a server fault.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusConflict
	switch {
	case errors.Is(err, deck.ErrBadCardToken):
		status = http.StatusBadRequest
	case durak.KindOf(err) == durak.KindNotFound:
		status = http.StatusNotFound
	case durak.KindOf(err) == durak.KindBroken, durak.KindOf(err) == durak.KindUnknown:
		status = http.StatusInternalServerError
	}
	http.Error(w, err.Error(), status)
}
