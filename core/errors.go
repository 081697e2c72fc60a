package core

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPath is returned when a path string is malformed (invalid
	// UTF-8 or an empty interior segment) or a key contains '/'.
	ErrInvalidPath = errors.New("invalid path")

	// ErrEmptyPath is returned when a path is blank after trimming whitespace
	// and surrounding slashes.
	ErrEmptyPath = errors.New("path must be a non empty string")

	// ErrUnsupportedEvent is returned when a listener is requested for an
	// event kind outside value, child_added, child_changed and child_removed.
	ErrUnsupportedEvent = errors.New("unsupported event")

	// ErrNotFound is returned (through a task) when a one-shot value read
	// targets a location without data.
	ErrNotFound = errors.New("no data at location")

	// ErrInvalidValue is returned when a value cannot be represented in the
	// tree (channels, functions, complex numbers, non-string map keys).
	ErrInvalidValue = errors.New("invalid value")

	// ErrInvalidQuery is returned by Query.Get when the query was built with
	// conflicting or malformed constraints.
	ErrInvalidQuery = errors.New("invalid query")
)

// PathError records the path that failed validation together with the
// underlying sentinel.
type PathError struct {
	Path   string
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *PathError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%v %q: %s", e.Err, e.Path, e.Reason)
	}
	return fmt.Sprintf("%v %q", e.Err, e.Path)
}

// Unwrap returns the sentinel so callers can use errors.Is.
func (e *PathError) Unwrap() error { return e.Err }

// EventError reports a listener registration for an unknown event name.
type EventError struct {
	Event string
}

func (e *EventError) Error() string {
	return fmt.Sprintf("not yet implemented: event '%s'", e.Event)
}

func (e *EventError) Unwrap() error { return ErrUnsupportedEvent }

// ValueError reports a value the codec could not convert. Location is the
// slash separated position of the offending entry relative to the write
// target ("" for the top level value).
type ValueError struct {
	Location string
	Reason   string
}

func (e *ValueError) Error() string {
	if e.Location == "" {
		return fmt.Sprintf("%v: %s", ErrInvalidValue, e.Reason)
	}
	return fmt.Sprintf("%v at %q: %s", ErrInvalidValue, e.Location, e.Reason)
}

func (e *ValueError) Unwrap() error { return ErrInvalidValue }
