package engine

import "fmt"

// PileID tags a pile with its logical owner.
type PileID uint8

const (
	PileDraw PileID = iota
	PileDiscard
	PileHand
)

func (id PileID) String() string {
	switch id {
	case PileDraw:
		return "draw"
	case PileDiscard:
		return "discard"
	case PileHand:
		return "hand"
	}
	return "?"
}

// Pile is an ordered sequence of cards with a single logical owner. Index 0
// is the bottom; the top of the pile is the last element. A card belongs to
// exactly one pile at a time: the only way cards enter or leave a pile is a
// transfer, never a copy.
type Pile struct {
	ID    PileID
	Cards []Card
}

// NewPile returns an empty pile with the given identity.
func NewPile(id PileID) Pile {
	return Pile{ID: id}
}

// Count returns the number of cards in the pile.
func (p *Pile) Count() int { return len(p.Cards) }

// Top returns the top card, or EmptyCard if the pile is empty.
func (p *Pile) Top() Card {
	if len(p.Cards) == 0 {
		return EmptyCard
	}
	return p.Cards[len(p.Cards)-1]
}

// IndexOf returns the index of the first occurrence of card, or -1.
func (p *Pile) IndexOf(card Card) int {
	for i, c := range p.Cards {
		if c == card {
			return i
		}
	}
	return -1
}

// MoveTop transfers the top card of p onto the top of dst. The removal and
// append happen inside this call; there is no state in which the card is in
// zero or two piles.
func (p *Pile) MoveTop(dst *Pile) (Card, error) {
	if len(p.Cards) == 0 {
		return EmptyCard, fmt.Errorf("%s pile is empty", p.ID)
	}
	card := p.Cards[len(p.Cards)-1]
	p.Cards = p.Cards[:len(p.Cards)-1]
	dst.Cards = append(dst.Cards, card)
	return card, nil
}

// MoveIndex transfers the card at index i of p onto the top of dst,
// preserving the relative order of the remaining cards.
func (p *Pile) MoveIndex(i int, dst *Pile) (Card, error) {
	if i < 0 || i >= len(p.Cards) {
		return EmptyCard, fmt.Errorf("index %d out of range for %s pile of %d cards", i, p.ID, len(p.Cards))
	}
	card := p.Cards[i]
	p.Cards = append(p.Cards[:i], p.Cards[i+1:]...)
	dst.Cards = append(dst.Cards, card)
	return card, nil
}

// MoveAll transfers every card of p onto dst, bottom first, leaving p empty.
func (p *Pile) MoveAll(dst *Pile) {
	dst.Cards = append(dst.Cards, p.Cards...)
	p.Cards = p.Cards[:0]
}

// Shuffle applies a Fisher–Yates shuffle, producing a uniformly random
// permutation of the pile under the given RNG.
func (p *Pile) Shuffle(rng *RNG) {
	for i := len(p.Cards) - 1; i > 0; i-- {
		j := rng.N(i + 1)
		p.Cards[i], p.Cards[j] = p.Cards[j], p.Cards[i]
	}
}
