// Package storage writes the build info file to its destinations.
// It defines the Destination interface (port) with implementations for
// local directories and S3 prefixes, and WriteAll, which fans a file out
// to every destination and reports each failure.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNoDestinations is returned when there is nowhere to write.
var ErrNoDestinations = errors.New("storage: no destinations configured")

// Destination is a place that receives a copy of the build info file.
type Destination interface {
	// Target returns where filename ends up, for logs and error messages.
	Target(filename string) string

	// Write stores content as filename, replacing any previous copy.
	// Readers must never observe a partially written file.
	Write(ctx context.Context, filename string, content []byte) error
}

// DestinationError reports a failed write to one destination.
type DestinationError struct {
	Target string
	Err    error
}

func (e *DestinationError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Target, e.Err)
}

func (e *DestinationError) Unwrap() error {
	return e.Err
}

// WriteAll writes content as filename to every destination.
// An empty destination list fails with ErrNoDestinations before anything is touched.
// A failing destination does not stop the others: every destination is attempted
// and all failures are returned joined, each as a *DestinationError.
// The targets written successfully are returned either way.
func WriteAll(ctx context.Context, dests []Destination, filename string, content []byte) ([]string, error) {
	if len(dests) == 0 {
		return nil, ErrNoDestinations
	}

	written := make([]string, 0, len(dests))
	var errs []error
	for _, d := range dests {
		target := d.Target(filename)
		if err := d.Write(ctx, filename, content); err != nil {
			errs = append(errs, &DestinationError{Target: target, Err: err})
			continue
		}
		written = append(written, target)
	}
	return written, errors.Join(errs...)
}

// FailedTargets lists the targets named by the DestinationErrors inside err.
func FailedTargets(err error) []string {
	if err == nil {
		return nil
	}
	var targets []string
	var walk func(error)
	walk = func(err error) {
		if de, ok := err.(*DestinationError); ok {
			targets = append(targets, de.Target)
			return
		}
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, e := range joined.Unwrap() {
				walk(e)
			}
			return
		}
		if next := errors.Unwrap(err); next != nil {
			walk(next)
		}
	}
	walk(err)
	return targets
}

// isPattern reports whether a destination entry holds glob syntax.
func isPattern(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}
