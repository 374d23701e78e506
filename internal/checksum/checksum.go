// Package checksum provides the content digests behind change detection and
// HTTP caching.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Combine folds per-document digests into one order-independent digest.
// Used as the snapshot ETag: it changes iff any document changes.
func Combine(sums []string) string {
	sorted := make([]string, len(sums))
	copy(sorted, sums)
	sort.Strings(sorted)
	return Sum([]byte(strings.Join(sorted, "\n")))
}
