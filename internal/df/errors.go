package df

import (
	"errors"
	"fmt"
)

var (
	// ErrNoFortress means the target has no playable fortress loaded, for
	// example while it sits on a menu or the embark screen.
	ErrNoFortress = errors.New("no active fortress")
	// ErrRejected marks a creature that is not part of the fortress population.
	ErrRejected = errors.New("creature rejected")
)

// RejectError explains why a creature was left out of a snapshot.
type RejectError struct {
	Address uint64
	Reason  string
}

func (e *RejectError) Error() string {
	return fmt.Sprintf("creature at 0x%X rejected: %s", e.Address, e.Reason)
}

func (e *RejectError) Unwrap() error { return ErrRejected }

func reject(addr uint64, format string, args ...any) error {
	return &RejectError{Address: addr, Reason: fmt.Sprintf(format, args...)}
}
