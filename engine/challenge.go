package engine

// EvaluateChallenge settles a challenge against a wild-draw-four play.
//
// priorHand is the hand of the player who played the wild-draw-four, as it
// stood at the moment of the play (they have not drawn since; the played
// card itself is already on the discard pile). legalColorBefore is the legal
// color that the wild-draw-four overrode.
//
// The play was legal, and the challenge fails, only if the hand held no
// card of that color. Other black cards never count as a color match.
func EvaluateChallenge(priorHand []Card, legalColorBefore Color) (wildFourWasLegal bool) {
	for _, c := range priorHand {
		if !c.IsWild() && c.Color() == legalColorBefore {
			return false
		}
	}
	return true
}
