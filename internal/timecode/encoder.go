package timecode

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Alphabet holds the symbols codes are written with, least significant first.
// Vowels and look-alike letters are left out so no words or ambiguous glyphs appear.
const Alphabet = "0123456789bcdfghjkmpqrsx"

// DefaultMask is the xor mask used when none is configured.
const DefaultMask uint32 = 0xff00ff00

const base = uint32(len(Alphabet))

// ErrInvalidCode is returned when a code cannot be decoded.
var ErrInvalidCode = errors.New("timecode: invalid code")

// Encoder renders 32-bit counters as short codes.
// The mask only varies how codes look between projects. It is not a secret.
type Encoder struct {
	mask uint32
}

// NewEncoder creates an Encoder using mask.
func NewEncoder(mask uint32) *Encoder {
	return &Encoder{mask: mask}
}

// Mask returns the configured xor mask.
func (e *Encoder) Mask() uint32 {
	return e.mask
}

// Code narrows elapsed seconds to 32 bits and encodes them.
// Codes repeat after 2^32 seconds, roughly 136 years past the zero instant.
func (e *Encoder) Code(elapsed uint64) string {
	return e.Encode(uint32(elapsed)) //nolint:gosec // wrapping to 32 bits is intended
}

// Encode xors v with the mask and writes the result in base 24, most significant
// symbol first, without leading zeros. A masked value of zero encodes as "0".
func (e *Encoder) Encode(v uint32) string {
	masked := v ^ e.mask
	if masked == 0 {
		return Alphabet[:1]
	}

	// 24^7 > 2^32, so seven symbols always suffice.
	var buf [7]byte
	i := len(buf)
	for masked > 0 {
		i--
		buf[i] = Alphabet[masked%base]
		masked /= base
	}
	return string(buf[i:])
}

// Decode reverses Encode and returns the unmasked counter.
func (e *Encoder) Decode(code string) (uint32, error) {
	if code == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidCode)
	}
	if len(code) > 1 && code[0] == Alphabet[0] {
		return 0, fmt.Errorf("%w: %q has a leading zero", ErrInvalidCode, code)
	}

	var v uint64
	for _, r := range code {
		digit := strings.IndexRune(Alphabet, r)
		if digit < 0 {
			return 0, fmt.Errorf("%w: %q contains %q", ErrInvalidCode, code, r)
		}
		v = v*uint64(base) + uint64(digit)
		if v > math.MaxUint32 {
			return 0, fmt.Errorf("%w: %q overflows 32 bits", ErrInvalidCode, code)
		}
	}
	return uint32(v) ^ e.mask, nil
}
