package common

import (
	"crypto/rand"
	"encoding/hex"
)

// MakeRandHexString hex encodes size bytes from crypto/rand. Session tokens
// are built with it, so the result is 2*size characters long.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GenerateRandByteArray returns size bytes read from crypto/rand.
func GenerateRandByteArray(size int) []byte {
	b := make([]byte, size)
	_, _ = rand.Read(b)
	return b
}

// WipeByteArray zeroes b in place. Passwords read from the terminal are
// wiped once hashed.
func WipeByteArray(b []byte) {
	clear(b)
}
