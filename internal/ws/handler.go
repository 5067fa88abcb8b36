// internal/ws/handler.go
package ws

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"gouno/engine"
	"gouno/internal/auth"
	"gouno/internal/game"
	"gouno/internal/models"
)

// intent is a client-to-server game command.
type intent struct {
	Action string `json:"action"`
	Card   string `json:"card,omitempty"`
	Color  string `json:"color,omitempty"`

	// Start-only tuning; zero means the server default.
	HandSize       int `json:"handSize,omitempty"`
	DeckMultiplier int `json:"deckMultiplier,omitempty"`
}

// outError is the error envelope sent back to a single client.
type outError struct {
	Type    string `json:"type"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// outState wraps a state snapshot reply.
type outState struct {
	Type  string        `json:"type"`
	State game.GameView `json:"state"`
}

// Server serves the realtime game endpoint.
type Server struct {
	Manager *game.Manager
	Hub     *Hub
	Issuer  *auth.Issuer
	Log     *logrus.Logger
}

const sendBuffer = 32

// HandleGame upgrades /ws/game/{id} to a websocket, authenticates the
// caller and pumps intents into the game until the connection drops.
func (s *Server) HandleGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid game id", http.StatusBadRequest)
		return
	}
	g, err := s.Manager.Get(gameID)
	if err != nil {
		http.Error(w, "game not found", http.StatusNotFound)
		return
	}

	claims, err := s.Issuer.Verify(requestToken(r))
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.Log.WithError(err).Warn("websocket accept failed")
		return
	}

	c := &client{
		userID: claims.UserID,
		gameID: gameID,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
	}
	s.Hub.register(c)
	defer s.Hub.unregister(c)

	go s.writeLoop(c)

	// Fresh connections get a state snapshot before any events.
	s.sendState(c, g)

	s.readLoop(r.Context(), c, g, claims)
	conn.Close(websocket.StatusNormalClosure, "")
}

// requestToken pulls the session token off the upgrade request: the
// query string first, falling back to a REST-style bearer header.
func requestToken(r *http.Request) string {
	if t := r.URL.Query().Get("token"); t != "" {
		return t
	}
	return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
}

// writeLoop drains the client's send channel onto the wire.
func (s *Server) writeLoop(c *client) {
	for {
		select {
		case payload := <-c.send:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := c.conn.Write(ctx, websocket.MessageText, payload)
			cancel()
			if err != nil {
				c.close()
				return
			}
		case <-c.done:
			return
		}
	}
}

// readLoop parses intents until the connection or the context ends.
func (s *Server) readLoop(ctx context.Context, c *client, g *game.UnoGame, claims *auth.Claims) {
	for {
		var in intent
		if err := readJSON(ctx, c.conn, &in); err != nil {
			return
		}
		s.dispatch(ctx, c, g, claims, in)
	}
}

// dispatch routes one intent to the matching game operation, reporting
// failures back on the same connection.
func (s *Server) dispatch(ctx context.Context, c *client, g *game.UnoGame, claims *auth.Claims, in intent) {
	var err error
	switch in.Action {
	case "join":
		user := &models.User{ID: claims.UserID, Username: claims.Username}
		_, err = g.Join(ctx, user)
	case "leave":
		err = g.Leave(ctx, claims.UserID)
	case "start":
		err = g.Start(ctx, claims.UserID, game.StartOptions{
			HandSize:       in.HandSize,
			DeckMultiplier: in.DeckMultiplier,
		})
	case "play":
		card, ok := engine.ParseCard(in.Card)
		if !ok {
			s.sendError(c, game.Errorf(game.KindValidation, "unknown card %q", in.Card))
			return
		}
		chosen := engine.ColorBlack
		if in.Color != "" {
			parsed, ok := engine.ParseColor(in.Color)
			if !ok {
				s.sendError(c, game.Errorf(game.KindValidation, "unknown color %q", in.Color))
				return
			}
			chosen = parsed
		}
		err = g.PlayCard(ctx, claims.UserID, card, chosen)
	case "draw":
		err = g.DrawCard(ctx, claims.UserID)
	case "challenge":
		err = g.Challenge(ctx, claims.UserID)
	case "state":
		s.sendState(c, g)
		return
	default:
		s.sendError(c, game.Errorf(game.KindValidation, "unknown action %q", in.Action))
		return
	}

	if err != nil {
		s.sendError(c, err)
	}
}

// sendState pushes a per-viewer snapshot to one client.
func (s *Server) sendState(c *client, g *game.UnoGame) {
	view := g.GetGameState(c.userID)
	s.sendJSON(c, outState{Type: "state", State: view})
}

// sendError maps a game error onto the wire envelope.
func (s *Server) sendError(c *client, err error) {
	kind := "internal"
	var ge *game.Error
	if asGameError(err, &ge) {
		kind = ge.Kind.String()
	}
	s.sendJSON(c, outError{Type: "error", Kind: kind, Message: err.Error()})
}
