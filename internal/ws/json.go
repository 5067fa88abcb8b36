// internal/ws/json.go
package ws

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"gouno/internal/game"
)

// readJSON reads one JSON message from the connection.
func readJSON(ctx context.Context, conn *websocket.Conn, v interface{}) error {
	return wsjson.Read(ctx, conn, v)
}

// sendJSON queues a JSON message on the client's send channel, dropping
// it if the buffer is full.
func (s *Server) sendJSON(c *client, v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		s.Log.WithError(err).Error("encoding outbound message")
		return
	}
	select {
	case c.send <- payload:
	default:
		s.Log.WithField("user_id", c.userID).Warn("client send buffer full, dropping message")
	}
}

// asGameError extracts a *game.Error from an error chain.
func asGameError(err error, target **game.Error) bool {
	return errors.As(err, target)
}
