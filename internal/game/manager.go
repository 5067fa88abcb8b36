// internal/game/manager.go
package game

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"gouno/engine"
	"gouno/internal/models"
)

// Manager owns every live game instance, keyed by game ID. It is the
// only place games are created and retired; everything else holds a
// *UnoGame obtained from here.
type Manager struct {
	mu    sync.RWMutex
	games map[uuid.UUID]*UnoGame

	store    Store
	notifier Notifier
	log      *logrus.Logger
}

// NewManager builds an empty manager around the shared collaborators.
func NewManager(store Store, notifier Notifier, logger *logrus.Logger) *Manager {
	return &Manager{
		games:    make(map[uuid.UUID]*UnoGame),
		store:    store,
		notifier: notifier,
		log:      logger,
	}
}

// CreateGame creates a new game with host as its first player and
// registers it.
func (m *Manager) CreateGame(ctx context.Context, host *models.User) (*UnoGame, error) {
	g, err := NewUnoGame(ctx, host, m.store, m.notifier, m.log)
	if err != nil {
		return nil, err
	}
	g.OnDestroy = m.remove

	m.mu.Lock()
	m.games[g.ID] = g
	m.mu.Unlock()
	return g, nil
}

// Get returns the game with the given ID.
func (m *Manager) Get(gameID uuid.UUID) (*UnoGame, error) {
	m.mu.RLock()
	g, ok := m.games[gameID]
	m.mu.RUnlock()
	if !ok {
		return nil, Errorf(KindNotFound, "game %s not found", gameID)
	}
	return g, nil
}

// ResumeGame returns the live game if it is registered, or rebuilds it
// from storage after a server restart. The resumed game picks up
// exactly where the last persisted operation left it; a challenge
// window open at the moment of the crash does not survive.
func (m *Manager) ResumeGame(ctx context.Context, gameID uuid.UUID) (*UnoGame, error) {
	if g, err := m.Get(gameID); err == nil {
		return g, nil
	}

	loaded, err := m.store.LoadGame(ctx, gameID)
	if err != nil {
		return nil, WrapError(KindNotFound, err, "loading game")
	}

	g := &UnoGame{
		ID:            loaded.GameID,
		HostID:        loaded.HostID,
		Players:       loaded.Players,
		Started:       loaded.Started,
		FailExtraDraw: DefaultFailExtraDraw,
		store:         m.store,
		notifier:      m.notifier,
		OnDestroy:     m.remove,
		log:           m.log.WithField("game_id", loaded.GameID),
	}
	if loaded.Started {
		g.Table = engine.RestoreTable(loaded.Draw, loaded.Discard, loaded.Hands, loaded.Data, randomSeed())
	}

	m.mu.Lock()
	// Another caller may have resumed it concurrently; first one wins.
	if existing, ok := m.games[gameID]; ok {
		m.mu.Unlock()
		return existing, nil
	}
	m.games[gameID] = g
	m.mu.Unlock()

	m.log.WithField("game_id", gameID).Info("game resumed from storage")
	return g, nil
}

// GameSummary is the lobby-listing projection of a game.
type GameSummary struct {
	GameID   uuid.UUID `json:"gameId"`
	Players  int       `json:"players"`
	Roster   []string  `json:"roster"`
	Started  bool      `json:"started"`
	GameOver bool      `json:"gameOver"`
}

// ListGames returns a summary of every registered game, ordered by ID
// for a stable listing.
func (m *Manager) ListGames() []GameSummary {
	m.mu.RLock()
	games := make([]*UnoGame, 0, len(m.games))
	for _, g := range m.games {
		games = append(games, g)
	}
	m.mu.RUnlock()

	// Per-game locks are taken outside the registry lock; a game
	// destroying itself re-enters the registry via remove.
	out := make([]GameSummary, 0, len(games))
	for _, g := range games {
		g.mu.Lock()
		roster := make([]string, len(g.Players))
		for i, p := range g.Players {
			roster[i] = p.DisplayName
		}
		out = append(out, GameSummary{
			GameID:   g.ID,
			Players:  len(g.Players),
			Roster:   roster,
			Started:  g.Started,
			GameOver: g.GameOver,
		})
		g.mu.Unlock()
	}

	sort.Slice(out, func(i, j int) bool { return out[i].GameID.String() < out[j].GameID.String() })
	return out
}

// remove drops a destroyed game from the registry.
func (m *Manager) remove(gameID uuid.UUID) {
	m.mu.Lock()
	delete(m.games, gameID)
	m.mu.Unlock()
	m.log.WithField("game_id", gameID).Info("game removed from registry")
}
