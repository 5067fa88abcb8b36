package engine

import "testing"

// baseData returns GameData mid-game with a red 5 showing and no penalty.
func baseData() GameData {
	d := NewGameData()
	d.LegalColor = ColorRed
	d.LegalContent = ContentFive
	d.TurnSeat = 0
	return d
}

func TestEvaluatePlayMatching(t *testing.T) {
	top := NewCard(ColorRed, ContentFive)
	tests := []struct {
		name   string
		played Card
		legal  bool
	}{
		{"same color", NewCard(ColorRed, ContentNine), true},
		{"same content", NewCard(ColorBlue, ContentFive), true},
		{"same color action", NewCard(ColorRed, ContentSkip), true},
		{"no match", NewCard(ColorBlue, ContentNine), false},
		{"wrong action", NewCard(ColorGreen, ContentReverse), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := EvaluatePlay(baseData(), top, tt.played, ColorBlack)
			if res.Legal != tt.legal {
				t.Errorf("EvaluatePlay(%v on %v).Legal = %v, want %v (%s)", tt.played, top, res.Legal, tt.legal, res.Reason)
			}
		})
	}
}

func TestEvaluatePlayBlackNeedsColor(t *testing.T) {
	top := NewCard(ColorRed, ContentFive)
	wild := NewCard(ColorBlack, ContentWild)

	res := EvaluatePlay(baseData(), top, wild, ColorBlack)
	if res.Legal {
		t.Fatal("wild without a chosen color must be illegal")
	}

	res = EvaluatePlay(baseData(), top, wild, ColorGreen)
	if !res.Legal {
		t.Fatalf("wild with chosen green rejected: %s", res.Reason)
	}
	if res.Data.LegalColor != ColorGreen {
		t.Errorf("LegalColor = %v, want the chosen green", res.Data.LegalColor)
	}
	if res.Data.LegalContent != ContentWild {
		t.Errorf("LegalContent = %v, want wild", res.Data.LegalContent)
	}
}

func TestEvaluatePlayWildOnAnything(t *testing.T) {
	// Black cards ignore the color/content match entirely.
	top := NewCard(ColorBlue, ContentTwo)
	d := baseData()
	d.LegalColor = ColorBlue
	d.LegalContent = ContentTwo
	res := EvaluatePlay(d, top, NewCard(ColorBlack, ContentWildDrawFour), ColorRed)
	if !res.Legal {
		t.Fatalf("wild-draw-four rejected: %s", res.Reason)
	}
	if res.Data.PendingDraw != 4 {
		t.Errorf("PendingDraw = %d, want 4", res.Data.PendingDraw)
	}
}

func TestEvaluatePlayDeltas(t *testing.T) {
	top := NewCard(ColorRed, ContentFive)

	res := EvaluatePlay(baseData(), top, NewCard(ColorRed, ContentDrawTwo), ColorBlack)
	if !res.Legal || res.Data.PendingDraw != 2 {
		t.Errorf("draw-two: legal=%v PendingDraw=%d, want legal 2", res.Legal, res.Data.PendingDraw)
	}

	res = EvaluatePlay(baseData(), top, NewCard(ColorRed, ContentReverse), ColorBlack)
	if !res.Legal || res.Data.Clockwise {
		t.Errorf("reverse: legal=%v Clockwise=%v, want legal counter-clockwise", res.Legal, res.Data.Clockwise)
	}

	res = EvaluatePlay(baseData(), top, NewCard(ColorRed, ContentSkip), ColorBlack)
	if !res.Legal || res.Data.PendingSkip != 1 {
		t.Errorf("skip: legal=%v PendingSkip=%d, want legal 1", res.Legal, res.Data.PendingSkip)
	}

	res = EvaluatePlay(baseData(), top, NewCard(ColorRed, ContentNine), ColorBlack)
	if !res.Legal {
		t.Fatalf("number play rejected: %s", res.Reason)
	}
	if res.Data.LegalColor != ColorRed || res.Data.LegalContent != ContentNine {
		t.Errorf("legal pair = %v/%v, want red/9", res.Data.LegalColor, res.Data.LegalContent)
	}
	if res.Data.PendingDraw != NoPendingDraw {
		t.Errorf("number play must not create a penalty, PendingDraw = %d", res.Data.PendingDraw)
	}
}

// TestEvaluatePlayMustStack covers the penalty gate: under a pending
// draw-two only another draw-two is playable, mirrored for wild-draw-four.
func TestEvaluatePlayMustStack(t *testing.T) {
	d := baseData()
	d.LegalColor = ColorRed
	d.LegalContent = ContentDrawTwo
	d.PendingDraw = 2
	top := NewCard(ColorRed, ContentDrawTwo)

	// A red 5 matches the legal color but cannot answer a pending draw-two.
	res := EvaluatePlay(d, top, NewCard(ColorRed, ContentFive), ColorBlack)
	if res.Legal {
		t.Fatal("color match must not beat a pending draw-two")
	}

	// Even a wild is not a draw-two.
	res = EvaluatePlay(d, top, NewCard(ColorBlack, ContentWild), ColorBlue)
	if res.Legal {
		t.Fatal("wild must not beat a pending draw-two")
	}

	// Stacking another draw-two accumulates the penalty.
	res = EvaluatePlay(d, top, NewCard(ColorBlue, ContentDrawTwo), ColorBlack)
	if !res.Legal {
		t.Fatalf("stacking draw-two rejected: %s", res.Reason)
	}
	if res.Data.PendingDraw != 4 {
		t.Errorf("stacked PendingDraw = %d, want 4", res.Data.PendingDraw)
	}
}

func TestEvaluatePlayWildFourStacking(t *testing.T) {
	d := baseData()
	d.LegalColor = ColorGreen
	d.LegalContent = ContentWildDrawFour
	d.PendingDraw = 4
	top := NewCard(ColorBlack, ContentWildDrawFour)

	res := EvaluatePlay(d, top, NewCard(ColorBlack, ContentWildDrawFour), ColorYellow)
	if !res.Legal {
		t.Fatalf("stacking wild-draw-four rejected: %s", res.Reason)
	}
	if res.Data.PendingDraw != 8 {
		t.Errorf("stacked PendingDraw = %d, want 8", res.Data.PendingDraw)
	}
	if res.Data.LegalColor != ColorYellow {
		t.Errorf("LegalColor = %v, want the newly chosen yellow", res.Data.LegalColor)
	}

	// A lone skip card cannot answer the pending wild-draw-four.
	res = EvaluatePlay(d, top, NewCard(ColorGreen, ContentSkip), ColorBlack)
	if res.Legal {
		t.Fatal("skip must not beat a pending wild-draw-four")
	}
}

// TestEvaluatePlayRejectionPure verifies a rejected play returns the input
// GameData untouched.
func TestEvaluatePlayRejectionPure(t *testing.T) {
	d := baseData()
	res := EvaluatePlay(d, NewCard(ColorRed, ContentFive), NewCard(ColorBlue, ContentNine), ColorBlack)
	if res.Legal {
		t.Fatal("expected rejection")
	}
	if res.Data != d {
		t.Errorf("rejection mutated GameData: %+v != %+v", res.Data, d)
	}
	if res.Reason == "" {
		t.Error("rejection must carry a reason")
	}
}
