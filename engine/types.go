// Package engine implements the Uno card game rules.
//
// The package is pure: it performs no I/O, holds no locks, and touches no
// shared state. Every operation either returns a new consistent value or a
// typed failure; committing results is the caller's job. This makes the
// engine directly usable from the service orchestrator and from tests
// without any setup.
package engine

import "strings"

// Color is packed into the upper 4 bits of Card.
type Color uint8

const (
	ColorRed    Color = 0
	ColorYellow Color = 1
	ColorGreen  Color = 2
	ColorBlue   Color = 3
	ColorBlack  Color = 4
)

// Content is packed into the lower 4 bits of Card.
// Values 0–9 are the number cards; the rest are actions and wilds.
type Content uint8

const (
	ContentZero         Content = 0
	ContentOne          Content = 1
	ContentTwo          Content = 2
	ContentThree        Content = 3
	ContentFour         Content = 4
	ContentFive         Content = 5
	ContentSix          Content = 6
	ContentSeven        Content = 7
	ContentEight        Content = 8
	ContentNine         Content = 9
	ContentSkip         Content = 10
	ContentReverse      Content = 11
	ContentDrawTwo      Content = 12
	ContentWild         Content = 13
	ContentWildDrawFour Content = 14
)

// Kind classifies a card by its gameplay role.
type Kind uint8

const (
	KindNumber Kind = iota
	KindAction
	KindWild
)

// Card is a packed uint8: upper 4 bits = color, lower 4 bits = content.
type Card uint8

// EmptyCard represents the absence of a card.
const EmptyCard Card = 0xFF

// NewCard constructs a Card from color and content.
func NewCard(color Color, content Content) Card {
	return Card((uint8(color) << 4) | (uint8(content) & 0x0F))
}

// Color returns the color bits (upper 4).
func (c Card) Color() Color { return Color(uint8(c) >> 4) }

// Content returns the content bits (lower 4).
func (c Card) Content() Content { return Content(uint8(c) & 0x0F) }

// Kind derives the card's role from its content.
func (c Card) Kind() Kind {
	switch {
	case c.Content() <= ContentNine:
		return KindNumber
	case c.Content() >= ContentWild:
		return KindWild
	default:
		return KindAction
	}
}

// IsWild reports whether the card is black (wild or wild-draw-four).
func (c Card) IsWild() bool { return c.Color() == ColorBlack }

// colorNames and contentNames give the wire/log spellings of the enums.
var colorNames = [...]string{"red", "yellow", "green", "blue", "black"}

var contentNames = [...]string{
	"0", "1", "2", "3", "4", "5", "6", "7", "8", "9",
	"skip", "reverse", "drawtwo", "wild", "wildfour",
}

func (c Color) String() string {
	if int(c) < len(colorNames) {
		return colorNames[c]
	}
	return "?"
}

func (c Content) String() string {
	if int(c) < len(contentNames) {
		return contentNames[c]
	}
	return "?"
}

func (c Card) String() string {
	if c == EmptyCard {
		return "empty"
	}
	return c.Color().String() + " " + c.Content().String()
}

// ParseColor maps a wire color name back to a Color. The second return is
// false for unknown names and for "black", which is never selectable.
func ParseColor(s string) (Color, bool) {
	switch s {
	case "red":
		return ColorRed, true
	case "yellow":
		return ColorYellow, true
	case "green":
		return ColorGreen, true
	case "blue":
		return ColorBlue, true
	}
	return ColorBlack, false
}

// ParseCard maps a wire card name ("red 5", "black wildfour") back to a
// Card. The second return is false for anything that does not name a card
// in the deck.
func ParseCard(s string) (Card, bool) {
	sp := strings.IndexByte(s, ' ')
	if sp < 0 {
		return EmptyCard, false
	}
	colorName, contentName := s[:sp], s[sp+1:]
	var color Color
	switch colorName {
	case "black":
		color = ColorBlack
	default:
		c, ok := ParseColor(colorName)
		if !ok {
			return EmptyCard, false
		}
		color = c
	}
	for i, name := range contentNames {
		if name == contentName {
			content := Content(i)
			if (color == ColorBlack) != (content >= ContentWild) {
				return EmptyCard, false
			}
			return NewCard(color, content), true
		}
	}
	return EmptyCard, false
}

// NoPendingDraw is the sentinel value of GameData.PendingDraw meaning "no
// penalty pending": a player with nothing owed still draws one card on a
// voluntary draw. Any value above it is a forced penalty accumulated from
// stacked draw-two / wild-draw-four plays.
const NoPendingDraw = 1

// NoTurn is the GameData.TurnSeat value before the first turn is assigned.
const NoTurn = -1

// GameData is the mutable per-session rule state: the color and content the
// next play must match, the accumulated draw penalty, pending skips, play
// direction, and the seat holding the turn.
type GameData struct {
	LegalColor   Color
	LegalContent Content
	PendingDraw  int
	PendingSkip  int
	Clockwise    bool
	TurnSeat     int
}

// NewGameData returns GameData for a freshly started game with no turn
// assigned yet.
func NewGameData() GameData {
	return GameData{
		PendingDraw: NoPendingDraw,
		Clockwise:   true,
		TurnSeat:    NoTurn,
	}
}

// PenaltyPending reports whether the next player owes a forced draw.
func (d GameData) PenaltyPending() bool {
	return d.PendingDraw > NoPendingDraw &&
		(d.LegalContent == ContentDrawTwo || d.LegalContent == ContentWildDrawFour)
}

// ---------------------------------------------------------------------------
// xorshift64 RNG, inline, no interface
// ---------------------------------------------------------------------------

// RNG is a xorshift64 generator. Seed it from a cryptographically adequate
// source (the service layer uses crypto/rand) so shuffles are fair; the
// engine itself only requires that the seed is nonzero.
type RNG uint64

// NewRNG returns an RNG with the given seed, substituting 1 for 0 since
// xorshift cannot start at 0.
func NewRNG(seed uint64) RNG {
	if seed == 0 {
		seed = 1
	}
	return RNG(seed)
}

func (r *RNG) next() uint64 {
	x := uint64(*r)
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	*r = RNG(x)
	return x
}

// N returns a random number in [0, n).
func (r *RNG) N(n int) int {
	return int(r.next() % uint64(n))
}
