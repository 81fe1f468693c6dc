package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashKey returns a stable hex identifier for an arbitrary key, so raw client
// identifiers such as IP addresses never end up in logs.
func HashKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
