package engine

import (
	"errors"
	"fmt"
)

// ErrPileExhausted means the draw pile is empty and the discard pile cannot
// refill it (or refilling cannot produce a usable top card). The caller
// decides what to do with it, typically skipping the requesting player. The
// engine never retries past its single bounded attempt.
var ErrPileExhausted = errors.New("draw and discard piles exhausted")

// Table holds the complete pile state of one game: the draw pile, the
// discard pile, one hand per seat, and the rule-state GameData. Hand index
// equals seat position. Card conservation is structural: cards only move
// between the table's piles, so their total count never changes after
// NewTable.
type Table struct {
	Draw    Pile
	Discard Pile
	Hands   []Pile
	Data    GameData
	RNG     RNG
}

// NewTable builds a table for the given number of seats with multiplier
// standard decks in the draw pile, unshuffled. Call Deal to shuffle and
// distribute.
func NewTable(seats int, deckMultiplier int, seed uint64) *Table {
	t := &Table{
		Draw:    Pile{ID: PileDraw, Cards: BuildDeck(deckMultiplier)},
		Discard: NewPile(PileDiscard),
		Hands:   make([]Pile, seats),
		Data:    NewGameData(),
		RNG:     NewRNG(seed),
	}
	for i := range t.Hands {
		t.Hands[i] = NewPile(PileHand)
	}
	return t
}

// RestoreTable rebuilds a table from persisted pile contents. The card
// slices are copied; seed reseeds the RNG for future shuffles.
func RestoreTable(draw, discard []Card, hands [][]Card, data GameData, seed uint64) *Table {
	t := &Table{
		Draw:    Pile{ID: PileDraw, Cards: append([]Card(nil), draw...)},
		Discard: Pile{ID: PileDiscard, Cards: append([]Card(nil), discard...)},
		Hands:   make([]Pile, len(hands)),
		Data:    data,
		RNG:     NewRNG(seed),
	}
	for i, h := range hands {
		t.Hands[i] = Pile{ID: PileHand, Cards: append([]Card(nil), h...)}
	}
	return t
}

// CardCount returns the total number of cards across every pile. Constant
// for the lifetime of the table.
func (t *Table) CardCount() int {
	n := t.Draw.Count() + t.Discard.Count()
	for i := range t.Hands {
		n += t.Hands[i].Count()
	}
	return n
}

// Deal shuffles the draw pile and distributes handSize cards to every seat,
// one card at a time around the table, recovering from draw-pile exhaustion
// per DrawOne. It then flips the starting discard card and computes the
// initial GameData.
func (t *Table) Deal(handSize int) error {
	t.Draw.Shuffle(&t.RNG)

	for c := 0; c < handSize; c++ {
		for seat := range t.Hands {
			if _, err := t.DrawOne(seat); err != nil {
				return fmt.Errorf("dealing %d cards to seat %d: %w", handSize, seat, err)
			}
		}
	}

	return t.flipStart()
}

// flipStart flips the top of the draw pile onto the discard pile until a
// non-black card is showing, then computes GameData from it. Black flips go
// back under a reshuffle. The attempt count is bounded: a deck that somehow
// holds only black cards must surface PileExhausted, not spin.
func (t *Table) flipStart() error {
	for attempt := 0; attempt < maxStartFlips; attempt++ {
		if t.Draw.Count() == 0 {
			if err := t.refillDraw(); err != nil {
				return err
			}
		}
		card, err := t.Draw.MoveTop(&t.Discard)
		if err != nil {
			return ErrPileExhausted
		}
		if !card.IsWild() {
			data, ok := dataFromTop(t.Data, card)
			if !ok {
				return ErrPileExhausted
			}
			t.Data = data
			return nil
		}
		// Black card showing: fold it back into the draw pile and reshuffle.
		if _, err := t.Discard.MoveTop(&t.Draw); err != nil {
			return ErrPileExhausted
		}
		t.Draw.Shuffle(&t.RNG)
	}
	return ErrPileExhausted
}

// maxStartFlips bounds flipStart. A standard deck is over 90% non-black, so
// the bound exists only to keep a degenerate deck from looping forever.
const maxStartFlips = 32

// DrawOne moves the top card of the draw pile into the given seat's hand.
// On an empty draw pile it makes exactly one recovery attempt (discard minus
// its top card is reshuffled into the draw pile) before giving up with
// ErrPileExhausted, leaving the piles unchanged by the failed attempt.
func (t *Table) DrawOne(seat int) (Card, error) {
	if seat < 0 || seat >= len(t.Hands) {
		return EmptyCard, fmt.Errorf("seat %d out of range", seat)
	}
	if t.Draw.Count() == 0 {
		if err := t.refillDraw(); err != nil {
			return EmptyCard, err
		}
	}
	return t.Draw.MoveTop(&t.Hands[seat])
}

// refillDraw rebuilds an empty draw pile from the discard pile: all but the
// top discard card move over and are shuffled. One attempt only; if the
// discard has nothing to give (all cards are in hands), the condition is
// terminal for this request.
func (t *Table) refillDraw() error {
	if t.Discard.Count() <= 1 {
		return ErrPileExhausted
	}

	top, _ := t.Discard.MoveTop(&t.Draw) // set aside; restored below
	t.Discard.MoveAll(&t.Draw)
	// The set-aside top ended up at the bottom of the draw pile; every other
	// card above it belongs to the refill. Pull it back out before shuffling.
	t.Draw.Cards = t.Draw.Cards[1:]
	t.Discard.Cards = append(t.Discard.Cards, top)

	t.Draw.Shuffle(&t.RNG)
	return nil
}

// Snapshot is a deep copy of the table for rollback support. The
// orchestrator saves one before applying deltas and restores it if a
// mid-operation failure would otherwise leave a half-applied state.
type Snapshot struct {
	table Table
}

// Save returns a snapshot of the current table state.
func (t *Table) Save() Snapshot {
	s := Snapshot{table: *t}
	s.table.Draw.Cards = append([]Card(nil), t.Draw.Cards...)
	s.table.Discard.Cards = append([]Card(nil), t.Discard.Cards...)
	s.table.Hands = make([]Pile, len(t.Hands))
	for i := range t.Hands {
		s.table.Hands[i] = t.Hands[i]
		s.table.Hands[i].Cards = append([]Card(nil), t.Hands[i].Cards...)
	}
	return s
}

// Restore replaces the table state with the given snapshot.
func (t *Table) Restore(s Snapshot) {
	*t = s.table
	t.Draw.Cards = append([]Card(nil), s.table.Draw.Cards...)
	t.Discard.Cards = append([]Card(nil), s.table.Discard.Cards...)
	t.Hands = make([]Pile, len(s.table.Hands))
	for i := range s.table.Hands {
		t.Hands[i] = s.table.Hands[i]
		t.Hands[i].Cards = append([]Card(nil), s.table.Hands[i].Cards...)
	}
}
