package timecode

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlphabet(t *testing.T) {
	require.Len(t, Alphabet, 24)

	seen := make(map[rune]bool)
	for _, r := range Alphabet {
		assert.False(t, seen[r], "duplicate symbol %q", r)
		seen[r] = true
	}
	for _, vowel := range "aeiouyl" {
		assert.False(t, seen[vowel], "alphabet must not contain %q", vowel)
	}
}

func TestEncoder_Encode(t *testing.T) {
	tests := []struct {
		name  string
		mask  uint32
		value uint32
		want  string
	}{
		{"zero", 0, 0, "0"},
		{"single digit", 0, 7, "7"},
		{"last symbol", 0, 23, "x"},
		{"base", 0, 24, "10"},
		{"two symbols max", 0, 24*24 - 1, "xx"},
		{"three symbols", 0, 24 * 24, "100"},
		{"max uint32", 0, math.MaxUint32, "sc994bh"},
		{"unmasked elapsed", 0, 757425600, "3x2sh00"},
		{"default mask", DefaultMask, 757425600, "mbmjcr8"},
		{"default mask next second", DefaultMask, 757425601, "mbmjcr9"},
		{"default mask at zero", DefaultMask, 0, "s9706j0"},
		{"value equal to mask", DefaultMask, DefaultMask, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewEncoder(tt.mask).Encode(tt.value))
		})
	}
}

func TestEncoder_Code_NarrowsTo32Bits(t *testing.T) {
	enc := NewEncoder(DefaultMask)

	assert.Equal(t, enc.Encode(5), enc.Code(5))
	assert.Equal(t, enc.Encode(5), enc.Code(1<<32+5))
	assert.Equal(t, enc.Encode(math.MaxUint32), enc.Code(math.MaxUint32))
}

func TestEncoder_Encode_Deterministic(t *testing.T) {
	a := NewEncoder(0x11223344)
	b := NewEncoder(0x11223344)

	for _, v := range []uint32{0, 1, 42, 757425600, math.MaxUint32} {
		assert.Equal(t, a.Encode(v), a.Encode(v))
		assert.Equal(t, a.Encode(v), b.Encode(v))
	}
}

func TestEncoder_Encode_Symbols(t *testing.T) {
	for _, mask := range []uint32{0, DefaultMask, 0x11223344} {
		enc := NewEncoder(mask)
		for v := uint32(0); v < 5000; v++ {
			code := enc.Encode(v * 858_993)
			require.NotEmpty(t, code)
			require.LessOrEqual(t, len(code), 7)
			for _, r := range code {
				require.True(t, strings.ContainsRune(Alphabet, r), "code %q has %q", code, r)
			}
			if len(code) > 1 {
				require.NotEqual(t, byte('0'), code[0], "code %q has a leading zero", code)
			}
		}
	}
}

func TestEncoder_Encode_Injective(t *testing.T) {
	enc := NewEncoder(DefaultMask)
	seen := make(map[string]uint32)

	check := func(v uint32) {
		code := enc.Encode(v)
		if prev, ok := seen[code]; ok && prev != v {
			t.Fatalf("Encode(%d) and Encode(%d) both produced %q", prev, v, code)
		}
		seen[code] = v
	}

	// A dense run around the mask exercises the masked-zero case.
	for v := DefaultMask - 3000; v < DefaultMask+3000; v++ {
		check(v)
	}
	// A dense run from zero plus a sparse sweep of the whole domain.
	for v := uint32(0); v < 20000; v++ {
		check(v)
	}
	for v := uint64(0); v <= math.MaxUint32; v += 65_521 {
		check(uint32(v))
	}
}

func TestEncoder_Encode_ConsecutiveSecondsDiffer(t *testing.T) {
	enc := NewEncoder(DefaultMask)
	for v := uint32(757425600); v < 757425600+600; v++ {
		assert.NotEqual(t, enc.Encode(v), enc.Encode(v+1))
	}
}

func TestEncoder_Decode(t *testing.T) {
	t.Run("round trips", func(t *testing.T) {
		for _, mask := range []uint32{0, DefaultMask} {
			enc := NewEncoder(mask)
			for _, v := range []uint32{0, 1, 23, 24, 757425600, mask, math.MaxUint32} {
				got, err := enc.Decode(enc.Encode(v))
				require.NoError(t, err)
				assert.Equal(t, v, got)
			}
		}
	})

	tests := []struct {
		name string
		code string
	}{
		{"empty", ""},
		{"vowel", "ab"},
		{"upper case", "B"},
		{"leading zero", "0b"},
		{"overflow", "xxxxxxx"},
		{"too long", "10000000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEncoder(0).Decode(tt.code)
			assert.ErrorIs(t, err, ErrInvalidCode)
		})
	}
}

func TestEncoder_Mask(t *testing.T) {
	assert.Equal(t, DefaultMask, NewEncoder(DefaultMask).Mask())
}
