package seedcat

import "math"

// tierBucket is one midpoint bucket. Buckets are ordered by ascending upper
// bound; an asset lands in the first bucket whose bound covers its midpoint.
type tierBucket struct {
	Name string
	Max  float64
}

// The last bucket is open-ended and catches every midpoint above 3m.
var tierTable = []tierBucket{
	{"1k", 1_000},
	{"5k", 5_000},
	{"10k", 10_000},
	{"25k", 25_000},
	{"50k", 50_000},
	{"100k", 100_000},
	{"250k", 250_000},
	{"500k", 500_000},
	{"1m", 1_000_000},
	{"3m", 3_000_000},
	{"3m+", math.Inf(1)},
}

// TierIndexFor maps a midpoint value onto the tier table.
func TierIndexFor(midpoint float64) int {
	for i, b := range tierTable {
		if midpoint <= b.Max {
			return i
		}
	}
	return len(tierTable) - 1
}

// TierName returns the display name for a tier index.
func TierName(index int) string {
	if index < 0 {
		index = 0
	}
	if index >= len(tierTable) {
		index = len(tierTable) - 1
	}
	return tierTable[index].Name
}

// TierCount reports the size of the tier table.
func TierCount() int { return len(tierTable) }
