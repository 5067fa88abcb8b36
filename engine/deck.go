package engine

// DeckSize is the number of cards in a single standard Uno deck:
// per color, one zero, two each of 1–9, skip, reverse and draw-two
// (25 × 4 = 100), plus four wilds and four wild-draw-fours.
const DeckSize = 108

// BuildDeck returns multiplier standard decks' worth of cards, unshuffled.
// A multiplier below 1 is treated as 1.
func BuildDeck(multiplier int) []Card {
	if multiplier < 1 {
		multiplier = 1
	}
	deck := make([]Card, 0, multiplier*DeckSize)
	for m := 0; m < multiplier; m++ {
		for color := ColorRed; color <= ColorBlue; color++ {
			deck = append(deck, NewCard(color, ContentZero))
			for content := ContentOne; content <= ContentDrawTwo; content++ {
				deck = append(deck, NewCard(color, content), NewCard(color, content))
			}
		}
		for i := 0; i < 4; i++ {
			deck = append(deck, NewCard(ColorBlack, ContentWild))
			deck = append(deck, NewCard(ColorBlack, ContentWildDrawFour))
		}
	}
	return deck
}
