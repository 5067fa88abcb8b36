// internal/game/errors.go
package game

import (
	"errors"
	"fmt"
)

// Kind classifies a game error so transports can map it onto a client
// response without string matching.
type Kind int

const (
	// KindValidation covers malformed input: unknown cards, bad colors,
	// references to players that are not in the game.
	KindValidation Kind = iota
	// KindRuleViolation covers well-formed requests the rules reject,
	// e.g. playing a card that does not match the discard.
	KindRuleViolation
	// KindStateConflict covers requests that are inapplicable to the
	// current lifecycle phase or turn, e.g. playing before the game
	// started or out of turn.
	KindStateConflict
	// KindPileExhausted reports that a draw could not be served even
	// after recycling the discard pile.
	KindPileExhausted
	// KindStorage reports a persistence failure; the in-memory state
	// has been rolled back to the last stored snapshot.
	KindStorage
	// KindNotFound reports a missing game or player lookup.
	KindNotFound
	// KindFatal reports an unrecoverable inconsistency. The game is
	// unusable afterwards.
	KindFatal
)

var kindNames = [...]string{
	"validation",
	"rule_violation",
	"state_conflict",
	"pile_exhausted",
	"storage",
	"not_found",
	"fatal",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Error is the error type returned by all game operations.
type Error struct {
	Kind Kind
	Msg  string
	Err  error // wrapped cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Errorf builds an *Error with a formatted message.
func Errorf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// WrapError builds an *Error around a cause.
func WrapError(kind Kind, err error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// IsKind reports whether err is (or wraps) a game *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind == kind
	}
	return false
}
