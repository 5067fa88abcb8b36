// internal/game/game.go
package game

import (
	"context"
	cryptorand "crypto/rand"
	"encoding/binary"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"gouno/engine"
	"gouno/internal/models"
)

const (
	// MinPlayers and MaxPlayers bound the lobby size.
	MinPlayers = 2
	MaxPlayers = 10

	// HandSize is the number of cards dealt to every seat.
	HandSize = 7

	// DefaultFailExtraDraw is added on top of the pending penalty when a
	// wild-draw-four challenge fails, so the default failed challenge
	// costs 4+2 = 6 cards.
	DefaultFailExtraDraw = 2
)

// OnDestroyFunc is called after a game removes itself (host left or the
// game finished and was torn down), so the owning manager can drop it.
type OnDestroyFunc func(gameID uuid.UUID)

// challengeState tracks the window between a wild-draw-four play and the
// next player's response. PriorHand is the player's hand as it stood
// right after the play (the played card already on the discard);
// PrevColor is the legal color the wild-draw-four overrode.
type challengeState struct {
	Open       bool
	PriorHand  []engine.Card
	PrevColor  engine.Color
	PlayerSeat int // seat that played the wild-draw-four
	TargetSeat int // seat allowed to challenge
}

// UnoGame is one game instance: the lobby membership, the engine table,
// and the collaborators that persist and broadcast its state. All
// exported methods serialize on the internal mutex; no call ever sees a
// half-applied state.
type UnoGame struct {
	ID     uuid.UUID
	HostID uuid.UUID // user ID of the player who created the game

	Players []*models.Player
	Table   *engine.Table

	Started  bool
	GameOver bool
	WinnerID uuid.UUID // user ID, set when GameOver

	// FailExtraDraw is the surcharge for a failed wild-draw-four
	// challenge, on top of serving the pending penalty.
	FailExtraDraw int

	challenge challengeState

	store     Store
	notifier  Notifier
	OnDestroy OnDestroyFunc

	log *logrus.Entry
	mu  sync.Mutex
}

// NewUnoGame builds a game in the lobby phase with the host as its first
// player. The game row and the host's player row are persisted before
// the game is returned.
func NewUnoGame(ctx context.Context, host *models.User, store Store, notifier Notifier, logger *logrus.Logger) (*UnoGame, error) {
	id := uuid.New()
	g := &UnoGame{
		ID:            id,
		HostID:        host.ID,
		FailExtraDraw: DefaultFailExtraDraw,
		store:         store,
		notifier:      notifier,
		log:           logger.WithField("game_id", id),
	}
	if err := store.CreateGame(ctx, id, host.ID); err != nil {
		return nil, WrapError(KindStorage, err, "creating game")
	}
	hostPlayer := &models.Player{
		ID:          uuid.New(),
		UserID:      host.ID,
		GameID:      id,
		DisplayName: host.Username,
		Seat:        0,
		IsHost:      true,
		IsActive:    true,
	}
	if err := store.CreatePlayer(ctx, hostPlayer); err != nil {
		return nil, WrapError(KindStorage, err, "creating host player")
	}
	g.Players = append(g.Players, hostPlayer)
	g.log.WithField("host", host.Username).Info("game created")
	return g, nil
}

// Join adds a user to the lobby. Fails once the game has started or the
// lobby is full.
func (g *UnoGame) Join(ctx context.Context, user *models.User) (*models.Player, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.Started {
		return nil, Errorf(KindStateConflict, "game already started")
	}
	if len(g.Players) >= MaxPlayers {
		return nil, Errorf(KindStateConflict, "game is full")
	}
	if g.playerByUser(user.ID) != nil {
		return nil, Errorf(KindStateConflict, "user %s already joined", user.ID)
	}

	p := &models.Player{
		ID:          uuid.New(),
		UserID:      user.ID,
		GameID:      g.ID,
		DisplayName: user.Username,
		Seat:        len(g.Players),
		IsActive:    true,
	}
	if err := g.store.CreatePlayer(ctx, p); err != nil {
		return nil, WrapError(KindStorage, err, "creating player")
	}
	g.Players = append(g.Players, p)

	g.log.WithFields(logrus.Fields{"user": user.Username, "seat": p.Seat}).Info("player joined")
	g.fire(Event{Type: EventPlayerJoin, GameID: g.ID, UserID: user.ID, Seat: seatPtr(p.Seat),
		Payload: map[string]interface{}{"displayName": p.DisplayName}})
	return p, nil
}

// Leave removes a user from the game.
//
// In the lobby the player row is deleted and later seats shift down. In
// a running game the host leaving destroys the whole game; anyone else
// is marked inactive (their hand stays on the table), with the turn
// advanced first if it was theirs. A running game left with one active
// player ends in that player's favor.
func (g *UnoGame) Leave(ctx context.Context, userID uuid.UUID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.playerByUser(userID)
	if p == nil {
		return Errorf(KindNotFound, "user %s is not in game %s", userID, g.ID)
	}

	if p.IsHost {
		return g.destroy(ctx)
	}

	if !g.Started {
		if err := g.store.RemovePlayer(ctx, p.ID); err != nil {
			return WrapError(KindStorage, err, "removing player")
		}
		for i, pl := range g.Players {
			if pl.ID == p.ID {
				g.Players = append(g.Players[:i], g.Players[i+1:]...)
				break
			}
		}
		for i, pl := range g.Players {
			pl.Seat = i
		}
		g.fire(Event{Type: EventPlayerLeave, GameID: g.ID, UserID: userID})
		return nil
	}

	if g.GameOver {
		// Finished game: leaving is bookkeeping only.
		p.IsActive = false
		return nil
	}

	dataBefore := g.Table.Data
	chBefore := g.challenge

	// Turn holder leaves: move the turn along before deactivating, so
	// the next player is computed from the old rotation.
	if g.Table.Data.TurnSeat == p.Seat {
		if err := g.advanceTurnLocked(0); err != nil {
			return err
		}
	}
	p.IsActive = false
	if g.challenge.Open && g.challenge.TargetSeat == p.Seat {
		g.challenge = challengeState{}
	}

	if err := g.store.SaveGameData(ctx, g.ID, g.Table.Data); err != nil {
		p.IsActive = true
		g.Table.Data = dataBefore
		g.challenge = chBefore
		return WrapError(KindStorage, err, "saving game data")
	}

	g.log.WithField("seat", p.Seat).Info("player left running game")
	g.fire(Event{Type: EventPlayerLeave, GameID: g.ID, UserID: userID, Seat: seatPtr(p.Seat)})

	if seats := g.activeSeats(); len(seats) == 1 {
		return g.endGame(ctx, seats[0])
	}
	g.fireTurn()
	return nil
}

// StartOptions tunes the deal. Zero values pick the defaults: a hand of
// HandSize cards from deckMultiplierFor(players) decks.
type StartOptions struct {
	DeckMultiplier int
	HandSize       int
}

// Start deals the table and begins play. Only the host may start, and
// only from the lobby with enough players.
func (g *UnoGame) Start(ctx context.Context, userID uuid.UUID, opts StartOptions) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.Started {
		return Errorf(KindStateConflict, "game already started")
	}
	if userID != g.HostID {
		return Errorf(KindRuleViolation, "only the host can start the game")
	}
	if len(g.Players) < MinPlayers {
		return Errorf(KindStateConflict, "need at least %d players, have %d", MinPlayers, len(g.Players))
	}

	if opts.DeckMultiplier <= 0 {
		opts.DeckMultiplier = deckMultiplierFor(len(g.Players))
	}
	if opts.HandSize <= 0 {
		opts.HandSize = HandSize
	}

	t := engine.NewTable(len(g.Players), opts.DeckMultiplier, randomSeed())
	if err := t.Deal(opts.HandSize); err != nil {
		return WrapError(KindFatal, err, "dealing")
	}

	// First turn goes to the lowest active seat.
	first, err := engine.AdvanceTurn(seatsOf(g.Players), engine.NoTurn, t.Data.Clockwise, 0)
	if err != nil {
		return WrapError(KindFatal, err, "assigning first turn")
	}
	t.Data.TurnSeat = first

	if err := g.store.SavePiles(ctx, g.ID, t); err != nil {
		return WrapError(KindStorage, err, "saving piles")
	}
	if err := g.store.SaveGameData(ctx, g.ID, t.Data); err != nil {
		return WrapError(KindStorage, err, "saving game data")
	}

	g.Table = t
	g.Started = true
	g.log.WithFields(logrus.Fields{"players": len(g.Players), "top": t.Discard.Top().String()}).Info("game started")
	g.fire(Event{Type: EventGameStart, GameID: g.ID,
		Payload: map[string]interface{}{"top": t.Discard.Top().String(), "players": len(g.Players)}})
	g.fireTurn()
	return nil
}

// PlayCard plays a card from the user's hand onto the discard pile.
// chosen names the color for a black card and is ignored otherwise. A
// rejected play leaves every pile and counter exactly as it was.
func (g *UnoGame) PlayCard(ctx context.Context, userID uuid.UUID, card engine.Card, chosen engine.Color) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.requireTurn(userID)
	if err != nil {
		return err
	}

	handIdx := g.Table.Hands[p.Seat].IndexOf(card)
	if handIdx < 0 {
		return Errorf(KindValidation, "card %s is not in your hand", card)
	}

	prevColor := g.Table.Data.LegalColor
	res := engine.EvaluatePlay(g.Table.Data, g.Table.Discard.Top(), card, chosen)
	if !res.Legal {
		return Errorf(KindRuleViolation, "%s", res.Reason)
	}

	snap := g.Table.Save()
	chBefore := g.challenge

	if _, err := g.Table.Hands[p.Seat].MoveIndex(handIdx, &g.Table.Discard); err != nil {
		return WrapError(KindFatal, err, "moving played card")
	}
	g.Table.Data = res.Data

	// Any action by the challenge target closes the window; a stacked
	// wild-draw-four opens a fresh one below.
	g.challenge = challengeState{}
	if card.Content() == engine.ContentWildDrawFour {
		g.challenge = challengeState{
			Open:       true,
			PriorHand:  append([]engine.Card(nil), g.Table.Hands[p.Seat].Cards...),
			PrevColor:  prevColor,
			PlayerSeat: p.Seat,
		}
	}

	won := g.Table.Hands[p.Seat].Count() == 0
	if !won {
		skip := g.Table.Data.PendingSkip
		g.Table.Data.PendingSkip = 0
		if err := g.advanceTurnLocked(skip); err != nil {
			g.Table.Restore(snap)
			return err
		}
	}
	if g.challenge.Open {
		g.challenge.TargetSeat = g.Table.Data.TurnSeat
	}

	if err := g.persistTable(ctx); err != nil {
		g.Table.Restore(snap)
		g.challenge = chBefore
		return err
	}

	ev := Event{Type: EventCardPlayed, GameID: g.ID, UserID: userID, Seat: seatPtr(p.Seat), Card: card.String()}
	if card.IsWild() {
		ev.Color = chosen.String()
	}
	ev.Payload = map[string]interface{}{"handSize": g.Table.Hands[p.Seat].Count()}
	g.fire(ev)

	if won {
		return g.endGame(ctx, p.Seat)
	}
	g.fireTurn()
	return nil
}

// DrawCard draws for the user holding the turn.
//
// With a penalty pending the full amount is drawn and the turn moves on;
// without one a single card is drawn and the turn stays, letting the
// player follow up with a play. If the piles cannot serve the draw the
// table is left untouched, the player's turn is skipped, and a
// pile-exhausted error is returned.
func (g *UnoGame) DrawCard(ctx context.Context, userID uuid.UUID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.requireTurn(userID)
	if err != nil {
		return err
	}

	snap := g.Table.Save()

	amount := 1
	penalty := g.Table.Data.PenaltyPending()
	if penalty {
		amount = g.Table.Data.PendingDraw
	}

	reshuffled := false
	for i := 0; i < amount; i++ {
		if g.Table.Draw.Count() == 0 {
			reshuffled = true
		}
		if _, derr := g.Table.DrawOne(p.Seat); derr != nil {
			g.Table.Restore(snap)
			return g.handleExhausted(ctx, p, derr)
		}
	}

	g.challenge = challengeState{}
	if penalty {
		g.Table.Data.PendingDraw = engine.NoPendingDraw
		if err := g.advanceTurnLocked(0); err != nil {
			g.Table.Restore(snap)
			return err
		}
	}

	if err := g.persistTable(ctx); err != nil {
		g.Table.Restore(snap)
		return err
	}

	if reshuffled {
		g.fire(Event{Type: EventPileReshuffled, GameID: g.ID})
	}
	evType := EventCardDrawn
	if penalty {
		evType = EventPenaltyDrawn
	}
	g.fire(Event{Type: evType, GameID: g.ID, UserID: userID, Seat: seatPtr(p.Seat),
		Payload: map[string]interface{}{"count": amount, "handSize": g.Table.Hands[p.Seat].Count()}})
	if penalty {
		g.fireTurn()
	}
	return nil
}

// Challenge contests the legality of the wild-draw-four just played.
// Only the player next in turn may challenge, and only before acting
// otherwise. On success the wild-draw-four player serves the pending
// penalty and the challenger keeps the turn; on failure the challenger
// serves the penalty plus FailExtraDraw and the turn moves on.
func (g *UnoGame) Challenge(ctx context.Context, userID uuid.UUID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.requireTurn(userID)
	if err != nil {
		return err
	}
	if !g.challenge.Open || g.challenge.TargetSeat != p.Seat {
		return Errorf(KindStateConflict, "nothing to challenge")
	}

	ch := g.challenge
	wasLegal := engine.EvaluateChallenge(ch.PriorHand, ch.PrevColor)

	snap := g.Table.Save()
	pending := g.Table.Data.PendingDraw

	var drawerSeat, amount int
	if wasLegal {
		// Challenge fails: the challenger serves the penalty with a
		// surcharge, and their turn is forfeit.
		drawerSeat, amount = p.Seat, pending+g.FailExtraDraw
	} else {
		// Challenge succeeds: the bluffer draws instead and the
		// challenger plays on unburdened.
		drawerSeat, amount = ch.PlayerSeat, pending
	}

	reshuffled := false
	for i := 0; i < amount; i++ {
		if g.Table.Draw.Count() == 0 {
			reshuffled = true
		}
		if _, derr := g.Table.DrawOne(drawerSeat); derr != nil {
			g.Table.Restore(snap)
			// The window is spent either way; a re-challenge against a
			// turn that has moved on would only be rejected.
			g.challenge = challengeState{}
			return g.handleExhausted(ctx, p, derr)
		}
	}
	g.Table.Data.PendingDraw = engine.NoPendingDraw
	g.challenge = challengeState{}

	if wasLegal {
		if err := g.advanceTurnLocked(0); err != nil {
			g.Table.Restore(snap)
			return err
		}
	}

	if err := g.persistTable(ctx); err != nil {
		g.Table.Restore(snap)
		g.challenge = ch
		return err
	}

	if reshuffled {
		g.fire(Event{Type: EventPileReshuffled, GameID: g.ID})
	}
	g.log.WithFields(logrus.Fields{"challenger": p.Seat, "legal": wasLegal, "drawn": amount}).Info("challenge resolved")
	g.fire(Event{Type: EventChallenge, GameID: g.ID, UserID: userID, Seat: seatPtr(p.Seat),
		Payload: map[string]interface{}{"success": !wasLegal, "drawerSeat": drawerSeat, "count": amount}})
	if wasLegal {
		g.fireTurn()
	}
	return nil
}

// ---------------------------------------------------------------------------
// internal helpers. Assumes lock is held by caller.
// ---------------------------------------------------------------------------

// requireTurn validates that the game is running and the user holds the
// turn, returning their player record.
func (g *UnoGame) requireTurn(userID uuid.UUID) (*models.Player, error) {
	if !g.Started {
		return nil, Errorf(KindStateConflict, "game has not started")
	}
	if g.GameOver {
		return nil, Errorf(KindStateConflict, "game is over")
	}
	p := g.playerByUser(userID)
	if p == nil {
		return nil, Errorf(KindNotFound, "user %s is not in game %s", userID, g.ID)
	}
	if !p.IsActive {
		return nil, Errorf(KindStateConflict, "player has left the game")
	}
	if g.Table.Data.TurnSeat != p.Seat {
		return nil, Errorf(KindStateConflict, "not your turn")
	}
	return p, nil
}

// advanceTurnLocked moves TurnSeat to the next active seat, skipping
// `skip` additional players. An empty rotation is fatal.
func (g *UnoGame) advanceTurnLocked(skip int) error {
	seats := g.activeSeats()
	next, err := engine.AdvanceTurn(seats, g.Table.Data.TurnSeat, g.Table.Data.Clockwise, skip)
	if err != nil {
		g.GameOver = true
		return WrapError(KindFatal, err, "advancing turn")
	}
	g.Table.Data.TurnSeat = next
	return nil
}

// handleExhausted finishes a draw that the piles could not serve: the
// already-restored table is persisted as-is, the blocked player's turn
// is skipped, and the typed failure is surfaced to the caller.
func (g *UnoGame) handleExhausted(ctx context.Context, p *models.Player, cause error) error {
	g.log.WithField("seat", p.Seat).Warn("draw failed, piles exhausted; skipping turn")

	if aerr := g.advanceTurnLocked(0); aerr != nil {
		return aerr
	}
	if serr := g.store.SaveGameData(ctx, g.ID, g.Table.Data); serr != nil {
		return WrapError(KindStorage, serr, "saving game data after exhausted draw")
	}
	g.fire(Event{Type: EventPileExhausted, GameID: g.ID, UserID: p.UserID, Seat: seatPtr(p.Seat)})
	g.fireTurn()
	return WrapError(KindPileExhausted, cause, "cannot serve draw")
}

// persistTable saves piles and rule state together.
func (g *UnoGame) persistTable(ctx context.Context) error {
	if err := g.store.SavePiles(ctx, g.ID, g.Table); err != nil {
		return WrapError(KindStorage, err, "saving piles")
	}
	if err := g.store.SaveGameData(ctx, g.ID, g.Table.Data); err != nil {
		return WrapError(KindStorage, err, "saving game data")
	}
	return nil
}

// endGame finishes the game in favor of winnerSeat, records win/loss
// counters and broadcasts the result.
func (g *UnoGame) endGame(ctx context.Context, winnerSeat int) error {
	winner := g.playerBySeat(winnerSeat)
	if winner == nil {
		return Errorf(KindFatal, "winner seat %d has no player", winnerSeat)
	}
	g.GameOver = true
	g.WinnerID = winner.UserID
	g.challenge = challengeState{}
	for _, pl := range g.Players {
		if pl.UserID != winner.UserID {
			pl.IsActive = false
		}
	}

	var losers []uuid.UUID
	for _, pl := range g.Players {
		if pl.UserID != winner.UserID {
			losers = append(losers, pl.UserID)
		}
	}
	if err := g.store.RecordResult(ctx, winner.UserID, losers); err != nil {
		// The game result stands even if the counters fail to persist.
		g.log.WithError(err).Error("recording game result")
	}

	g.log.WithFields(logrus.Fields{"winner": winner.DisplayName, "seat": winnerSeat}).Info("game over")
	g.fire(Event{Type: EventGameEnd, GameID: g.ID, UserID: winner.UserID, Seat: seatPtr(winnerSeat),
		Payload: map[string]interface{}{"winner": winner.DisplayName}})
	return nil
}

// destroy tears the game down entirely (host left). The game row and all
// player rows are deleted and the manager callback is invoked.
func (g *UnoGame) destroy(ctx context.Context) error {
	if err := g.store.DeleteGame(ctx, g.ID); err != nil {
		return WrapError(KindStorage, err, "deleting game")
	}
	g.GameOver = true
	g.log.Info("game destroyed by host")
	g.fire(Event{Type: EventGameDestroyed, GameID: g.ID})
	if g.OnDestroy != nil {
		g.OnDestroy(g.ID)
	}
	return nil
}

func (g *UnoGame) playerByUser(userID uuid.UUID) *models.Player {
	for _, p := range g.Players {
		if p.UserID == userID {
			return p
		}
	}
	return nil
}

func (g *UnoGame) playerBySeat(seat int) *models.Player {
	for _, p := range g.Players {
		if p.Seat == seat {
			return p
		}
	}
	return nil
}

// activeSeats returns the seats still in the rotation, ascending.
func (g *UnoGame) activeSeats() []int {
	seats := make([]int, 0, len(g.Players))
	for _, p := range g.Players {
		if p.IsActive {
			seats = append(seats, p.Seat)
		}
	}
	return seats
}

// fire broadcasts an event. Notification is fire and forget; a nil
// notifier only logs.
func (g *UnoGame) fire(ev Event) {
	if g.notifier == nil {
		g.log.WithField("event", ev.Type).Debug("no notifier configured, dropping event")
		return
	}
	g.notifier.Notify(g.ID, ev)
}

// fireTurn announces the seat now holding the turn.
func (g *UnoGame) fireTurn() {
	if g.GameOver {
		return
	}
	seat := g.Table.Data.TurnSeat
	ev := Event{Type: EventPlayerTurn, GameID: g.ID, Seat: seatPtr(seat)}
	if p := g.playerBySeat(seat); p != nil {
		ev.UserID = p.UserID
	}
	if g.Table.Data.PenaltyPending() {
		ev.Payload = map[string]interface{}{"pendingDraw": g.Table.Data.PendingDraw}
	}
	g.fire(ev)
}

func seatsOf(players []*models.Player) []int {
	seats := make([]int, len(players))
	for i, p := range players {
		seats[i] = p.Seat
	}
	return seats
}

func seatPtr(s int) *int { return &s }

// deckMultiplierFor sizes the shoe to the table: one standard deck keeps
// seven-card hands workable up to six seats, two beyond that.
func deckMultiplierFor(players int) int {
	if players > 6 {
		return 2
	}
	return 1
}

// randomSeed draws a shuffle seed from the OS entropy source.
func randomSeed() uint64 {
	var b [8]byte
	if _, err := cryptorand.Read(b[:]); err != nil {
		return 1
	}
	return binary.LittleEndian.Uint64(b[:])
}
