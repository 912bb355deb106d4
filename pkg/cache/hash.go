package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash returns the hex-encoded SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ShortHash returns the first n characters of Hash(data). Values of n
// outside [1, 64] yield the full digest. Frame ETags use a 16 character
// prefix.
func ShortHash(data []byte, n int) string {
	h := Hash(data)
	if n < 1 || n > len(h) {
		return h
	}
	return h[:n]
}
