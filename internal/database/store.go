// internal/database/store.go
package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"gouno/engine"
	"gouno/internal/game"
	"gouno/internal/models"
)

// DB implements the game.Store contract.
var _ game.Store = (*DB)(nil)

// CreateGame inserts a game row.
func (db *DB) CreateGame(ctx context.Context, gameID, hostID uuid.UUID) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO games (id, host_id) VALUES ($1, $2)`, gameID, hostID)
	if err != nil {
		return fmt.Errorf("inserting game %s: %w", gameID, err)
	}
	return nil
}

// LoadGame reassembles a stored game: the game row, its players, the
// rule state and the piles. A game with no pile row has not started.
func (db *DB) LoadGame(ctx context.Context, gameID uuid.UUID) (*game.LoadedGame, error) {
	loaded := &game.LoadedGame{GameID: gameID}

	err := db.Pool.QueryRow(ctx,
		`SELECT host_id FROM games WHERE id = $1`, gameID).Scan(&loaded.HostID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("game %s not found", gameID)
	}
	if err != nil {
		return nil, fmt.Errorf("fetching game %s: %w", gameID, err)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, display_name, seat, is_host, is_active
		 FROM players WHERE game_id = $1 ORDER BY seat`, gameID)
	if err != nil {
		return nil, fmt.Errorf("fetching players for %s: %w", gameID, err)
	}
	defer rows.Close()
	for rows.Next() {
		p := &models.Player{GameID: gameID}
		if err := rows.Scan(&p.ID, &p.UserID, &p.DisplayName, &p.Seat, &p.IsHost, &p.IsActive); err != nil {
			return nil, fmt.Errorf("scanning player: %w", err)
		}
		loaded.Players = append(loaded.Players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating players: %w", err)
	}

	var legalColor, legalContent int16
	err = db.Pool.QueryRow(ctx,
		`SELECT legal_color, legal_content, pending_draw, pending_skip, clockwise, turn_seat
		 FROM game_data WHERE game_id = $1`, gameID).
		Scan(&legalColor, &legalContent, &loaded.Data.PendingDraw,
			&loaded.Data.PendingSkip, &loaded.Data.Clockwise, &loaded.Data.TurnSeat)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("fetching game data for %s: %w", gameID, err)
	}
	loaded.Data.LegalColor = engine.Color(legalColor)
	loaded.Data.LegalContent = engine.Content(legalContent)

	var draw, discard, hands []byte
	err = db.Pool.QueryRow(ctx,
		`SELECT draw_pile, discard, hands FROM game_piles WHERE game_id = $1`, gameID).
		Scan(&draw, &discard, &hands)
	if errors.Is(err, pgx.ErrNoRows) {
		return loaded, nil // lobby game, nothing dealt yet
	}
	if err != nil {
		return nil, fmt.Errorf("fetching piles for %s: %w", gameID, err)
	}
	if err := json.Unmarshal(draw, &loaded.Draw); err != nil {
		return nil, fmt.Errorf("decoding draw pile: %w", err)
	}
	if err := json.Unmarshal(discard, &loaded.Discard); err != nil {
		return nil, fmt.Errorf("decoding discard pile: %w", err)
	}
	if err := json.Unmarshal(hands, &loaded.Hands); err != nil {
		return nil, fmt.Errorf("decoding hands: %w", err)
	}
	loaded.Started = true
	return loaded, nil
}

// DeleteGame removes a game; players, piles and rule state cascade.
func (db *DB) DeleteGame(ctx context.Context, gameID uuid.UUID) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM games WHERE id = $1`, gameID)
	if err != nil {
		return fmt.Errorf("deleting game %s: %w", gameID, err)
	}
	return nil
}

// CreatePlayer inserts a player membership row.
func (db *DB) CreatePlayer(ctx context.Context, p *models.Player) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO players (id, user_id, game_id, display_name, seat, is_host, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.UserID, p.GameID, p.DisplayName, p.Seat, p.IsHost, p.IsActive)
	if err != nil {
		return fmt.Errorf("inserting player %s: %w", p.ID, err)
	}
	return nil
}

// RemovePlayer deletes a player membership row.
func (db *DB) RemovePlayer(ctx context.Context, playerID uuid.UUID) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM players WHERE id = $1`, playerID)
	if err != nil {
		return fmt.Errorf("deleting player %s: %w", playerID, err)
	}
	return nil
}

// SaveGameData upserts the rule-state scalars for a game.
func (db *DB) SaveGameData(ctx context.Context, gameID uuid.UUID, data engine.GameData) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO game_data (game_id, legal_color, legal_content, pending_draw, pending_skip, clockwise, turn_seat)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (game_id) DO UPDATE SET
			legal_color = EXCLUDED.legal_color,
			legal_content = EXCLUDED.legal_content,
			pending_draw = EXCLUDED.pending_draw,
			pending_skip = EXCLUDED.pending_skip,
			clockwise = EXCLUDED.clockwise,
			turn_seat = EXCLUDED.turn_seat,
			updated_at = now()`,
		gameID, int16(data.LegalColor), int16(data.LegalContent),
		data.PendingDraw, data.PendingSkip, data.Clockwise, data.TurnSeat)
	if err != nil {
		return fmt.Errorf("saving game data for %s: %w", gameID, err)
	}
	return nil
}

// SavePiles upserts the full pile state as JSONB. Cards are stored in
// their packed byte form; hands are keyed by seat order.
func (db *DB) SavePiles(ctx context.Context, gameID uuid.UUID, t *engine.Table) error {
	draw, err := json.Marshal(t.Draw.Cards)
	if err != nil {
		return fmt.Errorf("encoding draw pile: %w", err)
	}
	discard, err := json.Marshal(t.Discard.Cards)
	if err != nil {
		return fmt.Errorf("encoding discard pile: %w", err)
	}
	hands := make([][]engine.Card, len(t.Hands))
	for i := range t.Hands {
		hands[i] = t.Hands[i].Cards
	}
	handsJSON, err := json.Marshal(hands)
	if err != nil {
		return fmt.Errorf("encoding hands: %w", err)
	}

	_, err = db.Pool.Exec(ctx,
		`INSERT INTO game_piles (game_id, draw_pile, discard, hands)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (game_id) DO UPDATE SET
			draw_pile = EXCLUDED.draw_pile,
			discard = EXCLUDED.discard,
			hands = EXCLUDED.hands,
			updated_at = now()`,
		gameID, draw, discard, handsJSON)
	if err != nil {
		return fmt.Errorf("saving piles for %s: %w", gameID, err)
	}
	return nil
}

// RecordResult bumps the winner's win counter and every loser's loss
// counter in one transaction.
func (db *DB) RecordResult(ctx context.Context, winnerUserID uuid.UUID, loserUserIDs []uuid.UUID) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("starting result transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE users SET wins = wins + 1 WHERE id = $1`, winnerUserID); err != nil {
		return fmt.Errorf("recording win for %s: %w", winnerUserID, err)
	}
	for _, loser := range loserUserIDs {
		if _, err := tx.Exec(ctx,
			`UPDATE users SET losses = losses + 1 WHERE id = $1`, loser); err != nil {
			return fmt.Errorf("recording loss for %s: %w", loser, err)
		}
	}
	return tx.Commit(ctx)
}
