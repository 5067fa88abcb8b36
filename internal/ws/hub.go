// internal/ws/hub.go
package ws

import (
	"encoding/json"
	"sync"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"gouno/internal/game"
)

// client is one websocket connection subscribed to a game. Writes go
// through the buffered send channel so a slow client never blocks the
// game loop.
type client struct {
	userID uuid.UUID
	gameID uuid.UUID
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
	once   sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.done) })
}

// Hub tracks every connected client per game and fans game events out to
// them. It implements game.Notifier.
type Hub struct {
	mu    sync.RWMutex
	games map[uuid.UUID]map[*client]struct{}
	log   *logrus.Logger
}

var _ game.Notifier = (*Hub)(nil)

// NewHub builds an empty hub.
func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		games: make(map[uuid.UUID]map[*client]struct{}),
		log:   logger,
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.games[c.gameID]
	if !ok {
		clients = make(map[*client]struct{})
		h.games[c.gameID] = clients
	}
	clients[c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.games[c.gameID]; ok {
		delete(clients, c)
		if len(clients) == 0 {
			delete(h.games, c.gameID)
		}
	}
	c.close()
}

// Notify broadcasts a game event to every client watching that game.
// Clients whose send buffer is full miss the event; they resync with a
// state request, so dropping beats blocking here.
func (h *Hub) Notify(gameID uuid.UUID, ev game.Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		h.log.WithError(err).WithField("event", ev.Type).Error("encoding game event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.games[gameID] {
		select {
		case c.send <- payload:
		default:
			h.log.WithFields(logrus.Fields{
				"game_id": gameID,
				"user_id": c.userID,
			}).Warn("client send buffer full, dropping event")
		}
	}
}
