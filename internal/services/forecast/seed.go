package forecast

import (
	"math/bits"
	"unicode/utf16"
)

// Value maps (seed, salt) to a reproducible number in [0, 1).
// Length and characters are counted in UTF-16 code units so that the same
// seed yields the same stream as browser-side implementations.
func Value(seed string, salt int) float64 {
	units := utf16.Encode([]rune(seed))

	h := uint32(1779033703) ^ uint32(len(units)+salt)
	for _, u := range units {
		h = (h ^ uint32(u)) * 3432918353
		h = bits.RotateLeft32(h, 13)
	}
	h = (h ^ h>>16) * 2246822507
	h = (h ^ h>>13) * 3266489909
	h ^= h >> 16

	return float64(h) / 4294967296
}
