package apod

import (
	"errors"
	"fmt"
)

// Kind classifies why a picture could not be produced.
type Kind int

const (
	// Transport covers dns, connect and timeout failures.
	Transport Kind = iota
	// UpstreamStatus is any answer other than 200 OK.
	UpstreamStatus
	// MalformedPayload is a 200 OK whose body is not usable.
	MalformedPayload
)

func (k Kind) String() string {
	switch k {
	case Transport:
		return "transport"
	case UpstreamStatus:
		return "upstream status"
	case MalformedPayload:
		return "malformed payload"
	}

	return "unknown"
}

// Error is returned by every failed picture request.
type Error struct {
	Kind Kind
	// StatusCode is set for UpstreamStatus errors.
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("apod %s error", e.Kind)
	}
	return fmt.Sprintf("apod %s error: %s", e.Kind, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsKind reports whether err carries an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}
