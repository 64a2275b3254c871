package domain

import (
	"errors"
	"fmt"
)

// Error classes. Concrete errors wrap one of these so callers can classify with errors.Is.
var (
	// ErrValidation is the class of malformed input errors. Never retried.
	ErrValidation = errors.New("validation error")

	// ErrNotFound is the class of missing entity errors
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is the class of access errors. Never retried.
	ErrUnauthorized = errors.New("authorization error")

	// ErrTransientStore is the class of retryable store failures
	ErrTransientStore = errors.New("transient store error")
)

var (
	// ErrInvalidFeedID is returned when a feed ID is malformed
	ErrInvalidFeedID = fmt.Errorf("%w: invalid feed id", ErrValidation)

	// ErrInvalidDirection is returned when a feed direction is not upcoming or past
	ErrInvalidDirection = fmt.Errorf("%w: invalid direction", ErrValidation)

	// ErrInvalidCursor is returned when a pagination cursor cannot be decoded or does not match the query
	ErrInvalidCursor = fmt.Errorf("%w: invalid cursor", ErrValidation)

	// ErrInvalidEvent is returned when an event misses required fields
	ErrInvalidEvent = fmt.Errorf("%w: invalid event", ErrValidation)

	// ErrInvalidMetadata is returned when event metadata does not match its declared kind
	ErrInvalidMetadata = fmt.Errorf("%w: invalid event metadata", ErrValidation)

	// ErrEventNotFound is returned when an event does not exist
	ErrEventNotFound = fmt.Errorf("%w: event", ErrNotFound)

	// ErrEventAlreadyExists is returned when ingesting an event ID twice
	ErrEventAlreadyExists = fmt.Errorf("%w: event already exists", ErrValidation)

	// ErrFeedAccessDenied is returned when reading another user's private personal feed
	ErrFeedAccessDenied = fmt.Errorf("%w: feed access denied", ErrUnauthorized)
)

// IsRetryable reports whether an operation failing with err may be retried as a whole
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrValidation) &&
		!errors.Is(err, ErrNotFound) &&
		!errors.Is(err, ErrUnauthorized)
}
