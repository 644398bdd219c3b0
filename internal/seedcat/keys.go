package seedcat

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// CanonicalPairKey derives the order-independent, bundle-independent matchup
// identifier: a digest of the sorted union of every participating asset key.
// Swapping sides or reordering a bundle's members yields the same key.
func CanonicalPairKey(left, right []string) string {
	all := make([]string, 0, len(left)+len(right))
	all = append(all, left...)
	all = append(all, right...)
	sort.Strings(all)
	sum := sha256.Sum256([]byte(strings.Join(all, "|")))
	return hex.EncodeToString(sum[:16])
}
