package engine

import "testing"

func TestAdvanceTurnClockwise(t *testing.T) {
	seats := []int{2, 0, 1, 3} // unordered on purpose
	next, err := AdvanceTurn(seats, 1, true, 0)
	if err != nil {
		t.Fatal(err)
	}
	if next != 2 {
		t.Errorf("next = %d, want 2", next)
	}
	// Wraps from the highest seat back to the lowest.
	next, _ = AdvanceTurn(seats, 3, true, 0)
	if next != 0 {
		t.Errorf("wrap next = %d, want 0", next)
	}
}

func TestAdvanceTurnCounterClockwise(t *testing.T) {
	seats := []int{0, 1, 2, 3}
	next, err := AdvanceTurn(seats, 1, false, 0)
	if err != nil {
		t.Fatal(err)
	}
	if next != 0 {
		t.Errorf("next = %d, want 0", next)
	}
	next, _ = AdvanceTurn(seats, 0, false, 0)
	if next != 3 {
		t.Errorf("wrap next = %d, want 3", next)
	}
}

func TestAdvanceTurnSkips(t *testing.T) {
	seats := []int{0, 1, 2}
	next, err := AdvanceTurn(seats, 0, true, 1)
	if err != nil {
		t.Fatal(err)
	}
	if next != 2 {
		t.Errorf("skip 1: next = %d, want 2", next)
	}
	// Skips wrap modulo the active player count.
	next, _ = AdvanceTurn(seats, 0, true, 3)
	if next != 1 {
		t.Errorf("skip 3 of 3 players: next = %d, want 1", next)
	}
}

func TestAdvanceTurnFirstTurn(t *testing.T) {
	next, err := AdvanceTurn([]int{4, 2, 7}, NoTurn, true, 0)
	if err != nil {
		t.Fatal(err)
	}
	if next != 2 {
		t.Errorf("first turn = %d, want the lowest active seat 2", next)
	}
}

func TestAdvanceTurnNoActivePlayers(t *testing.T) {
	if _, err := AdvanceTurn(nil, 0, true, 0); err != ErrNoActivePlayers {
		t.Errorf("err = %v, want ErrNoActivePlayers", err)
	}
}

// TestAdvanceTurnVisitsEveryone checks the fairness property: with no skips,
// N active players are each visited exactly once every N turns, in either
// direction.
func TestAdvanceTurnVisitsEveryone(t *testing.T) {
	for _, clockwise := range []bool{true, false} {
		seats := []int{0, 1, 2, 3, 4}
		cur := NoTurn
		seen := make(map[int]int)
		for i := 0; i < 2*len(seats); i++ {
			next, err := AdvanceTurn(seats, cur, clockwise, 0)
			if err != nil {
				t.Fatal(err)
			}
			seen[next]++
			cur = next
		}
		for _, seat := range seats {
			if seen[seat] != 2 {
				t.Errorf("clockwise=%v: seat %d visited %d times in 2 full rounds, want 2", clockwise, seat, seen[seat])
			}
		}
	}
}
