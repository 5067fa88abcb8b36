// internal/game/store.go
package game

import (
	"context"

	"github.com/google/uuid"

	"gouno/engine"
	"gouno/internal/models"
)

// LoadedGame is the stored form of a game, as returned by Store.LoadGame
// for rehydration after a restart.
type LoadedGame struct {
	GameID  uuid.UUID
	HostID  uuid.UUID
	Players []*models.Player
	Data    engine.GameData
	Draw    []engine.Card
	Discard []engine.Card
	Hands   [][]engine.Card
	Started bool
}

// Store persists game state. Implementations must be safe for concurrent
// use; the game serializes its own calls but different games share one
// store.
//
// Save calls are transactional from the game's point of view: if a call
// returns an error the game rolls its in-memory state back and surfaces
// a storage error to the caller, so implementations should not apply
// partial writes.
type Store interface {
	// CreateGame inserts a new game row in the lobby phase.
	CreateGame(ctx context.Context, gameID, hostID uuid.UUID) error
	// LoadGame fetches everything needed to rebuild a game in memory.
	LoadGame(ctx context.Context, gameID uuid.UUID) (*LoadedGame, error)
	// DeleteGame removes a game and its players.
	DeleteGame(ctx context.Context, gameID uuid.UUID) error

	// CreatePlayer inserts a player membership row.
	CreatePlayer(ctx context.Context, p *models.Player) error
	// RemovePlayer deletes a player membership row.
	RemovePlayer(ctx context.Context, playerID uuid.UUID) error

	// SaveGameData stores the rule-state scalars (legal color/content,
	// pending penalties, direction, turn).
	SaveGameData(ctx context.Context, gameID uuid.UUID, data engine.GameData) error
	// SavePiles stores every pile of the table: draw, discard and all
	// hands.
	SavePiles(ctx context.Context, gameID uuid.UUID, t *engine.Table) error

	// RecordResult bumps the win counter for the winner and the loss
	// counter for everyone else.
	RecordResult(ctx context.Context, winnerUserID uuid.UUID, loserUserIDs []uuid.UUID) error
}

// Notifier delivers game events to whoever is listening. Delivery is
// fire and forget: the game never blocks on, retries, or rolls back for
// a notification.
type Notifier interface {
	Notify(gameID uuid.UUID, ev Event)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(gameID uuid.UUID, ev Event)

func (f NotifierFunc) Notify(gameID uuid.UUID, ev Event) { f(gameID, ev) }

// MultiNotifier fans one event out to several notifiers, e.g. the
// websocket hub for connected clients plus the Redis publisher for
// other server instances.
func MultiNotifier(notifiers ...Notifier) Notifier {
	return NotifierFunc(func(gameID uuid.UUID, ev Event) {
		for _, n := range notifiers {
			n.Notify(gameID, ev)
		}
	})
}
