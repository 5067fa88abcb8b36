// internal/game/view.go
package game

import (
	"github.com/google/uuid"

	"gouno/engine"
)

// PlayerView is one player's seat as seen by a specific observer. Hand
// is populated only for the observer themself; everyone else gets the
// count alone.
type PlayerView struct {
	UserID        uuid.UUID `json:"userId"`
	DisplayName   string    `json:"displayName"`
	Seat          int       `json:"seat"`
	IsHost        bool      `json:"isHost"`
	IsActive      bool      `json:"isActive"`
	HandSize      int       `json:"handSize"`
	IsCurrentTurn bool      `json:"isCurrentTurn"`
	Hand          []string  `json:"hand,omitempty"`
}

// GameView is the full game state redacted for one observer. It carries
// everything a client needs to render the table without ever exposing
// another player's cards or the draw pile order.
type GameView struct {
	GameID       uuid.UUID    `json:"gameId"`
	Started      bool         `json:"started"`
	GameOver     bool         `json:"gameOver"`
	WinnerID     uuid.UUID    `json:"winnerId,omitempty"`
	CurrentSeat  int          `json:"currentSeat"`
	Clockwise    bool         `json:"clockwise"`
	LegalColor   string       `json:"legalColor,omitempty"`
	LegalContent string       `json:"legalContent,omitempty"`
	PendingDraw  int          `json:"pendingDraw,omitempty"` // only set while a penalty is pending
	DiscardTop   string       `json:"discardTop,omitempty"`
	DrawSize     int          `json:"drawSize"`
	DiscardSize  int          `json:"discardSize"`
	CanChallenge bool         `json:"canChallenge,omitempty"`
	Players      []PlayerView `json:"players"`
}

// GetGameState builds the state snapshot for the given observer. A
// viewer that is not in the game still gets the public surface with
// every hand redacted.
func (g *UnoGame) GetGameState(viewerID uuid.UUID) GameView {
	g.mu.Lock()
	defer g.mu.Unlock()

	view := GameView{
		GameID:   g.ID,
		Started:  g.Started,
		GameOver: g.GameOver,
		WinnerID: g.WinnerID,
	}

	if g.Started {
		data := g.Table.Data
		view.CurrentSeat = data.TurnSeat
		view.Clockwise = data.Clockwise
		view.LegalColor = data.LegalColor.String()
		view.LegalContent = data.LegalContent.String()
		if data.PenaltyPending() {
			view.PendingDraw = data.PendingDraw
		}
		if top := g.Table.Discard.Top(); top != engine.EmptyCard {
			view.DiscardTop = top.String()
		}
		view.DrawSize = g.Table.Draw.Count()
		view.DiscardSize = g.Table.Discard.Count()
	} else {
		view.CurrentSeat = engine.NoTurn
	}

	view.Players = make([]PlayerView, len(g.Players))
	for i, p := range g.Players {
		pv := PlayerView{
			UserID:      p.UserID,
			DisplayName: p.DisplayName,
			Seat:        p.Seat,
			IsHost:      p.IsHost,
			IsActive:    p.IsActive,
		}
		if g.Started {
			hand := &g.Table.Hands[p.Seat]
			pv.HandSize = hand.Count()
			pv.IsCurrentTurn = !g.GameOver && g.Table.Data.TurnSeat == p.Seat
			if p.UserID == viewerID {
				pv.Hand = make([]string, hand.Count())
				for j, c := range hand.Cards {
					pv.Hand[j] = c.String()
				}
				if g.challenge.Open && g.challenge.TargetSeat == p.Seat {
					view.CanChallenge = true
				}
			}
		}
		view.Players[i] = pv
	}
	return view
}
