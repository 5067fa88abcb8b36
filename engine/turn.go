package engine

import (
	"errors"
	"sort"
)

// ErrNoActivePlayers is returned when a turn cannot be assigned because no
// player is active. This is fatal for a session: it must be surfaced to the
// orchestrator, never retried.
var ErrNoActivePlayers = errors.New("no active players")

// AdvanceTurn computes the seat holding the next turn.
//
// activeSeats is the set of seats still in the game, in any order; they are
// ordered ascending by seat position, reversed when clockwise is false. The
// next turn lands 1+skip positions past currentSeat, wrapping around. When
// currentSeat is NoTurn (first turn of the game) the lowest active seat is
// chosen deterministically.
func AdvanceTurn(activeSeats []int, currentSeat int, clockwise bool, skip int) (int, error) {
	if len(activeSeats) == 0 {
		return NoTurn, ErrNoActivePlayers
	}

	order := make([]int, len(activeSeats))
	copy(order, activeSeats)
	sort.Ints(order)

	if currentSeat == NoTurn {
		return order[0], nil
	}

	if !clockwise {
		for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
			order[i], order[j] = order[j], order[i]
		}
	}

	cur := 0
	for i, seat := range order {
		if seat == currentSeat {
			cur = i
			break
		}
	}

	return order[(cur+1+skip)%len(order)], nil
}
