// internal/game/events.go
package game

import "github.com/google/uuid"

// EventType labels a game event broadcast to clients.
type EventType string

const (
	EventPlayerJoin      EventType = "player_join"
	EventPlayerLeave     EventType = "player_leave"
	EventGameStart       EventType = "game_start"
	EventPlayerTurn      EventType = "game_player_turn"
	EventCardPlayed      EventType = "player_card_played"
	EventCardDrawn       EventType = "player_card_drawn"     // Public: player drew (count only).
	EventPenaltyDrawn    EventType = "player_penalty_drawn"  // Public: player served a pending penalty.
	EventPileReshuffled  EventType = "game_pile_reshuffled"  // Public: discard recycled into the draw pile.
	EventPileExhausted   EventType = "game_pile_exhausted"   // Public: a draw could not be served.
	EventChallenge       EventType = "player_challenge"      // Public: wild-draw-four challenge resolved.
	EventGameEnd         EventType = "game_end"
	EventGameDestroyed   EventType = "game_destroyed"
)

// Event is the structure broadcast for every game state change. Payload
// carries event-specific fields; it never contains another player's
// hidden cards.
type Event struct {
	Type    EventType              `json:"type"`
	GameID  uuid.UUID              `json:"gameId"`
	UserID  uuid.UUID              `json:"userId,omitempty"`
	Seat    *int                   `json:"seat,omitempty"`
	Card    string                 `json:"card,omitempty"`
	Color   string                 `json:"color,omitempty"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}
