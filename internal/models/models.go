// internal/models/models.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. Password handling lives in internal/auth;
// only the bcrypt hash is ever stored here.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Wins         int       `json:"wins"`
	Losses       int       `json:"losses"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Player is a user's membership in a single game. Seat is the player's
// position at the table and doubles as the hand index inside the engine.
// Lobby departures compact the later seats down; once the game starts a
// seat is fixed for its lifetime, even after the player leaves.
type Player struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	GameID      uuid.UUID `json:"gameId"`
	DisplayName string    `json:"displayName"`
	Seat        int       `json:"seat"`
	IsHost      bool      `json:"isHost"`
	IsActive    bool      `json:"isActive"`
	Connected   bool      `json:"connected"`
}
