package pipeline

import "errors"

// Error kinds. Every error returned by a Hook wraps exactly one of them
// together with its cause, so callers can test with errors.Is.
var (
	// ErrConfiguration marks invalid or incomplete configuration. Nothing is written.
	ErrConfiguration = errors.New("configuration error")
	// ErrClock marks an unusable clock reading. Nothing is written.
	ErrClock = errors.New("clock error")
	// ErrIO marks failed writes. Every destination was attempted first.
	ErrIO = errors.New("write failure")
)
