package durak

import (
	"errors"
	"fmt"
)

// Kind classifies a rejected operation. Every kind is a synchronous,
// non-retryable rejection: validation happens before any mutation, so a
// failed operation leaves the game unchanged.
type Kind int

const (
	// KindUnknown is the zero value for errors that did not come from this package
	KindUnknown Kind = iota
	// KindIllegalState rejects an operation not valid in the current game status
	KindIllegalState
	// KindWrongActor rejects a call from a player not authorized for the operation
	KindWrongActor
	// KindInvalidCard rejects a card the actor does not hold, or that fails
	// the beats relation or the rank-match rule
	KindInvalidCard
	// KindCapacityExceeded rejects seating beyond 6 players, a 7th attack
	// slot, or a reinforcement beyond the defender's hand capacity
	KindCapacityExceeded
	// KindNotFound reports a missing game or player
	KindNotFound
	// KindBroken reports an internal invariant violation; the game is unusable
	KindBroken
)

var kindNames = []string{
	"unknown",
	"illegal state",
	"wrong actor",
	"invalid card",
	"capacity exceeded",
	"not found",
	"broken",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Error is a rejected game operation
type Error struct {
	Kind Kind
	msg  string
}

func (e *Error) Error() string {
	return e.msg
}

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

// KindOf extracts the Kind from an error, or KindUnknown if the error
// did not originate from a game operation.
func KindOf(err error) Kind {
	var gameErr *Error
	if errors.As(err, &gameErr) {
		return gameErr.Kind
	}
	return KindUnknown
}
