package game

import (
	"errors"
	"fmt"
)

// ErrIllegalAction is wrapped by every IllegalActionError.
var ErrIllegalAction = errors.New("illegal action")

// IllegalActionError reports an attempt to play, alt-play or activate a card
// whose legality predicate is false. It always points at a bug in the caller
// or in a card's capability, never at a game outcome.
type IllegalActionError struct {
	Action string
	Card   string
	Reason string
	Turn   int
}

func (e *IllegalActionError) Error() string {
	return fmt.Sprintf("turn %d: cannot %s %s: %s", e.Turn, e.Action, e.Card, e.Reason)
}

func (e *IllegalActionError) Unwrap() error {
	return ErrIllegalAction
}

func (s *State) illegal(action string, c *Card, reason string) error {
	name := "<nil>"
	if c != nil {
		name = c.Name()
	}
	return &IllegalActionError{Action: action, Card: name, Reason: reason, Turn: s.Turn}
}
