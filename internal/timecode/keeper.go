// Package timecode turns the current time into a short build code.
// A TimeKeeper measures whole seconds since a fixed zero instant and an
// Encoder renders that counter, xor-masked, in a base-24 alphabet.
package timecode

import (
	"errors"
	"fmt"
	"time"
)

// ZeroInstant is the reference point all codes are measured from.
// It must never change or codes stop being comparable between builds.
var ZeroInstant = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// ErrBeforeZeroInstant is returned when the clock reads earlier than the zero instant.
var ErrBeforeZeroInstant = errors.New("timecode: clock is before zero instant")

// Reading is a single capture of the clock.
// The same reading feeds both the datetime stamp and the code.
type Reading struct {
	// Instant is the wall-clock time that was read.
	Instant time.Time
	// Elapsed is the number of whole seconds between the zero instant and Instant.
	Elapsed uint64
}

// TimeKeeper reads the clock relative to a zero instant.
type TimeKeeper struct {
	zero time.Time
	now  func() time.Time
}

// Option configures a TimeKeeper.
type Option func(*TimeKeeper)

// WithClock replaces time.Now as the clock source.
func WithClock(now func() time.Time) Option {
	return func(k *TimeKeeper) {
		if now != nil {
			k.now = now
		}
	}
}

// WithZeroInstant overrides ZeroInstant. Only tests should need it.
func WithZeroInstant(zero time.Time) Option {
	return func(k *TimeKeeper) {
		k.zero = zero
	}
}

// NewTimeKeeper creates a TimeKeeper measuring from ZeroInstant with the system clock.
func NewTimeKeeper(opts ...Option) *TimeKeeper {
	k := &TimeKeeper{
		zero: ZeroInstant,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Read captures the clock once and computes the elapsed seconds, truncated toward zero.
func (k *TimeKeeper) Read() (Reading, error) {
	now := k.now()
	d := now.Sub(k.zero)
	if d < 0 {
		return Reading{}, fmt.Errorf("%w: %s is before %s",
			ErrBeforeZeroInstant, now.UTC().Format(time.RFC3339), k.zero.UTC().Format(time.RFC3339))
	}
	return Reading{
		Instant: now,
		Elapsed: uint64(d / time.Second),
	}, nil
}

// At returns the instant elapsed seconds after the zero instant.
func (k *TimeKeeper) At(elapsed uint64) time.Time {
	return k.zero.Add(time.Duration(elapsed) * time.Second) //nolint:gosec // 32-bit counters cannot overflow a Duration
}
