// Package checksum fingerprints file content so unchanged posts are not rewritten.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// SumString is Sum for string content.
func SumString(s string) string {
	return Sum([]byte(s))
}
