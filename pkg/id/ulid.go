// Package id generates the ULIDs used for submission IDs, provider
// message IDs, and archived-attachment object keys.
package id

import (
	"crypto/rand"
	"encoding/binary"
	"time"
)

// Crockford's Base32 alphabet. I, L, O and U are excluded so IDs stay
// unambiguous when read back from logs or object keys.
const alphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// NewULID returns a 26-character ULID: a 50-bit millisecond timestamp
// in the first 10 characters, 80 random bits in the last 16. String
// ordering therefore matches creation order, which keeps object keys
// and submission IDs listable by time.
func NewULID() string {
	ms := uint64(time.Now().UnixMilli())

	entropy := make([]byte, 10)
	if _, err := rand.Read(entropy); err != nil {
		// Degraded fallback when the system entropy source is broken.
		binary.BigEndian.PutUint64(entropy[:8], uint64(time.Now().UnixNano()))
	}

	var b [26]byte

	for i := 9; i >= 0; i-- {
		b[i] = alphabet[ms&0x1F]
		ms >>= 5
	}

	// 80 random bits stream out five at a time through a carry buffer;
	// 80/5 leaves no remainder, so the buffer drains exactly.
	var acc uint64
	bits, out := 0, 10
	for _, by := range entropy {
		acc = acc<<8 | uint64(by)
		bits += 8
		for bits >= 5 {
			bits -= 5
			b[out] = alphabet[(acc>>bits)&0x1F]
			out++
		}
	}

	return string(b[:])
}
