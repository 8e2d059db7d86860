package tower

import (
	"errors"
	"fmt"
)

// ErrUnknownFlight matches every UnknownFlightError.
var ErrUnknownFlight = errors.New("unknown flight")

// UnknownFlightError is returned when a flight number has no registered participant.
type UnknownFlightError struct {
	Flight string
}

func (e *UnknownFlightError) Error() string {
	return fmt.Sprintf("flight not registered: %s", e.Flight)
}

func (e *UnknownFlightError) Unwrap() error { return ErrUnknownFlight }
