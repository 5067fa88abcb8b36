package engine

import "fmt"

// PlayResult is the outcome of evaluating a proposed play. When Legal is
// true, Data carries the full GameData that results from committing the play
// (turn seat untouched; advancing is the turn engine's job). When Legal is
// false, Reason says why and Data is the input unchanged.
type PlayResult struct {
	Legal  bool
	Reason string
	Data   GameData
}

func illegal(data GameData, reason string) PlayResult {
	return PlayResult{Legal: false, Reason: reason, Data: data}
}

// EvaluatePlay decides whether played may go on top of the discard under the
// current GameData, and computes the resulting rule-state deltas. chosen is
// the color selected for a black card; it is ignored for colored cards.
//
// Legality, in order:
//  1. Under a pending draw-two / wild-draw-four penalty, only a card of the
//     same stacking content is playable.
//  2. Otherwise the card must match the legal color, match the legal
//     content, or be black.
//  3. A black card additionally requires a valid chosen color.
func EvaluatePlay(data GameData, top Card, played Card, chosen Color) PlayResult {
	if data.PenaltyPending() && played.Content() != data.LegalContent {
		return illegal(data, fmt.Sprintf("must play a %s or draw %d cards", data.LegalContent, data.PendingDraw))
	}

	if !data.PenaltyPending() &&
		played.Color() != data.LegalColor &&
		played.Content() != data.LegalContent &&
		!played.IsWild() {
		return illegal(data, "card does not match the legal color "+data.LegalColor.String()+
			" or content "+data.LegalContent.String())
	}

	effective := played.Color()
	if played.IsWild() {
		if chosen >= ColorBlack {
			return illegal(data, "a black card requires choosing red, yellow, green or blue")
		}
		effective = chosen
	}

	out := data
	out.LegalColor = effective
	out.LegalContent = played.Content()

	switch played.Content() {
	case ContentWildDrawFour:
		if data.PendingDraw > NoPendingDraw {
			out.PendingDraw = data.PendingDraw + 4
		} else {
			out.PendingDraw = 4
		}
	case ContentDrawTwo:
		if data.PendingDraw > NoPendingDraw && data.LegalContent == ContentDrawTwo {
			out.PendingDraw = data.PendingDraw + 2
		} else {
			out.PendingDraw = 2
		}
	case ContentReverse:
		out.Clockwise = !data.Clockwise
	case ContentSkip:
		out.PendingSkip = data.PendingSkip + 1
	}

	return PlayResult{Legal: true, Data: out}
}

// dataFromTop recomputes the legal color/content from a discard top card.
// Fails when the top is black: a black top with no chosen color means the
// session cannot proceed until recovery replaces it.
func dataFromTop(data GameData, top Card) (GameData, bool) {
	if top == EmptyCard || top.IsWild() {
		return data, false
	}
	out := data
	out.LegalColor = top.Color()
	out.LegalContent = top.Content()
	return out, true
}
