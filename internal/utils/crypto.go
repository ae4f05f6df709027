// internal/utils/crypto.go
package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashString keys workspaces by session cookie without keeping the cookie
// itself in maps or logs.
func HashString(input string) string {
	hasher := sha256.New()
	hasher.Write([]byte(input))
	return hex.EncodeToString(hasher.Sum(nil))
}

// ShortHash is a loggable prefix of HashString.
func ShortHash(input string) string {
	return HashString(input)[:12]
}
