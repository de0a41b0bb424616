package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// hashKey builds "prefix:sha256(parts)". Parts are joined with NUL so that
// ("ab", "c") and ("a", "bc") hash differently.
func hashKey(prefix string, parts ...string) string {
	return prefix + ":" + Hash([]byte(strings.Join(parts, "\x00")))
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
