// Package checksum derives the stable short hash a registry uses to
// key a module's download URL, independent of file content.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// urlHashLength is the number of hex characters kept from the full
// digest — enough to make collisions between distinct URLs practically
// impossible for a single game's module count, short enough to stay
// usable as a cache directory name.
const urlHashLength = 8

// URLHash derives a short, stable identifier for a module's download
// URL. It is the same digest regardless of when or how many times the
// URL is hashed, making it usable as a cache key without needing to
// have fetched or verified the content behind it.
func URLHash(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])[:urlHashLength]
}
