package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashSize is the length in bytes of the digests returned by Hash.
const HashSize = sha256.Size

// Hash returns the SHA-256 digest of the concatenation of the given byte
// slices.
func Hash(data ...[]byte) []byte {
	h := sha256.New()
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}

// HashString hashes the UTF-8 bytes of s.
func HashString(s string) []byte {
	return Hash([]byte(s))
}

// HashHex returns the lowercase hex rendering of the digest of data.
func HashHex(data ...[]byte) string {
	return hex.EncodeToString(Hash(data...))
}
