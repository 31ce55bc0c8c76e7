package verification

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadySettled means funds for this milestone already moved; no
	// second settlement is ever issued.
	ErrAlreadySettled = errors.New("milestone already settled")
	// ErrConcurrentVerification means another verification attempt for the
	// same milestone is in flight.
	ErrConcurrentVerification = errors.New("verification already in progress for this milestone")
	// ErrAwaitingSettlement means the milestone passed verification but its
	// payment is failed or pending; it must go through the retry path, not
	// a fresh verification.
	ErrAwaitingSettlement = errors.New("milestone awaits settlement; re-verification not allowed")
	// ErrNotRetryable means settlement retry was requested for a milestone
	// that is not in payment_failed.
	ErrNotRetryable = errors.New("milestone is not in payment_failed")
	// ErrStatusConflict means a conditional status update matched no row:
	// the status changed underneath the caller.
	ErrStatusConflict = errors.New("milestone status changed concurrently")
)

// OracleUnavailableError is a network/parse failure of the vision oracle.
// The milestone state is left untouched, so the request is safe to retry.
type OracleUnavailableError struct {
	Err error
}

func (e *OracleUnavailableError) Error() string {
	return fmt.Sprintf("verification oracle unavailable: %v", e.Err)
}

func (e *OracleUnavailableError) Unwrap() error {
	return e.Err
}
