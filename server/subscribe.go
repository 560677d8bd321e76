package server

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/alexander-fenster/durak"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// subscription is a single delivery slot for one player. The channel is
// buffered to one element: Notify replaces a pending snapshot rather
// than blocking on a slow reader.
type subscription struct {
	ch chan durak.PlayerTable
}

// Hub tracks one subscription per player key. A player opening a second
// subscription kicks the first; hung subscriptions give up after the
// configured timeout.
type Hub struct {
	mu      sync.Mutex
	subs    map[string]*subscription
	timeout time.Duration
}

// NewHub constructs a Hub with the given long-poll timeout
func NewHub(timeout time.Duration) *Hub {
	return &Hub{
		subs:    make(map[string]*subscription),
		timeout: timeout,
	}
}

// Subscribe registers a delivery slot for the player key, closing any
// previous slot so its waiter unblocks
func (h *Hub) Subscribe(key string) *subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	if old, ok := h.subs[key]; ok {
		log.Printf("ending old subscription for player %s", key)
		close(old.ch)
	}
	sub := &subscription{ch: make(chan durak.PlayerTable, 1)}
	h.subs[key] = sub
	return sub
}

// Cancel removes the subscription if it is still the current one for
// the key. A newer subscription for the same key is left alone.
func (h *Hub) Cancel(key string, sub *subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if current, ok := h.subs[key]; ok && current == sub {
		delete(h.subs, key)
	}
}

// Notify pushes a fresh snapshot to every subscribed player among keys.
// view produces the per-player snapshot; players without an active
// subscription are skipped.
func (h *Hub) Notify(keys []string, view func(key string) (durak.PlayerTable, bool)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, key := range keys {
		sub, ok := h.subs[key]
		if !ok {
			continue
		}
		table, ok := view(key)
		if !ok {
			continue
		}
		// drop a stale pending snapshot so the latest one wins
		select {
		case <-sub.ch:
		default:
		}
		sub.ch <- table
	}
}

// handleSubscribe is the long-poll endpoint: it parks the request until
// the player's game changes, then responds with the fresh table. The
// client is expected to re-subscribe immediately after each response;
// the request times out with 408 if nothing happens.
func (s *GameServer) handleSubscribe(w http.ResponseWriter, r *http.Request, player *durak.Player) {
	sub := s.hub.Subscribe(player.Key())
	defer s.hub.Cancel(player.Key(), sub)

	select {
	case table, ok := <-sub.ch:
		if !ok {
			// kicked by a newer subscription from the same player
			http.Error(w, "subscription superseded", http.StatusRequestTimeout)
			return
		}
		writeJSON(w, table)
	case <-time.After(s.hub.timeout):
		log.Printf("ending stale subscription for player %s", player.Name())
		http.Error(w, "subscription timed out", http.StatusRequestTimeout)
	case <-r.Context().Done():
	}
}

// handleWS upgrades to a websocket and streams table snapshots: the
// current table immediately, then one message per game change
func (s *GameServer) handleWS(w http.ResponseWriter, r *http.Request, player *durak.Player) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade for %s: %v", player.Name(), err)
		return
	}
	sub := s.hub.Subscribe(player.Key())

	go s.writePump(conn, player, sub)
	go s.readPump(conn, player, sub)
}

// writePump owns all writes on the connection: the initial snapshot,
// game updates and keepalive pings
func (s *GameServer) writePump(conn *websocket.Conn, player *durak.Player, sub *subscription) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.hub.Cancel(player.Key(), sub)
		conn.Close()
	}()

	if table, err := player.Table(); err == nil {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(table); err != nil {
			return
		}
	}

	for {
		select {
		case table, ok := <-sub.ch:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(table); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames and keeps the read deadline fresh
// off pong replies; all game actions arrive over the REST endpoints
func (s *GameServer) readPump(conn *websocket.Conn, player *durak.Player, sub *subscription) {
	defer func() {
		s.hub.Cancel(player.Key(), sub)
		conn.Close()
	}()
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
