package seedcat

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"sort"
	"strconv"
	"strings"
)

// Candidate is one generated matchup before it hits the store.
type Candidate struct {
	PairKey   string
	LeftKeys  []string
	RightKeys []string
	Mode      string
	Prompt    string
	Closeness float64
	Featured  bool
}

// RandFactory builds the pseudo-random source used by team-mode sampling.
// It is injected so tests can fix the sequence; production uses
// DefaultRandFactory with a seed derived from the input itself, which makes
// regeneration from the same seed text reproducible.
type RandFactory func(seed int64) *rand.Rand

func DefaultRandFactory(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Generate builds the deduplicated candidate set across the configured modes
// and flags the closest FeaturedCount matchups.
func Generate(assets []ParsedAsset, cfg GeneratorConfig, newRand RandFactory) ([]Candidate, error) {
	if newRand == nil {
		newRand = DefaultRandFactory
	}

	sorted := make([]ParsedAsset, len(assets))
	copy(sorted, assets)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Midpoint != sorted[j].Midpoint {
			return sorted[i].Midpoint < sorted[j].Midpoint
		}
		return sorted[i].Key < sorted[j].Key
	})

	var merged []Candidate
	seen := make(map[string]bool)
	for _, mode := range cfg.Modes {
		left, right, err := parseMode(mode)
		if err != nil {
			return nil, err
		}

		var cands []Candidate
		if left == 1 && right == 1 {
			cands = generateOneVsOne(sorted, cfg)
		} else {
			cands = generateTeams(sorted, mode, left, right, cfg, newRand)
		}
		for _, c := range cands {
			if seen[c.PairKey] {
				continue
			}
			seen[c.PairKey] = true
			merged = append(merged, c)
		}
	}

	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Closeness != merged[j].Closeness {
			return merged[i].Closeness < merged[j].Closeness
		}
		return merged[i].PairKey < merged[j].PairKey
	})
	for i := 0; i < len(merged) && i < cfg.FeaturedCount; i++ {
		merged[i].Featured = true
	}
	return merged, nil
}

func parseMode(mode string) (int, int, error) {
	parts := strings.Split(strings.ToLower(mode), "v")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid matchup mode %q", mode)
	}
	left, err := strconv.Atoi(parts[0])
	if err != nil || left < 1 {
		return 0, 0, fmt.Errorf("invalid matchup mode %q", mode)
	}
	right, err := strconv.Atoi(parts[1])
	if err != nil || right < 1 {
		return 0, 0, fmt.Errorf("invalid matchup mode %q", mode)
	}
	return left, right, nil
}

// generateOneVsOne pairs each asset with its nearest neighbors by sorted
// midpoint position, then runs a coverage pass that searches outward
// (alternating left/right) until every asset sits in at least
// MinPairsPerAsset pairs or the pool is exhausted.
func generateOneVsOne(sorted []ParsedAsset, cfg GeneratorConfig) []Candidate {
	var out []Candidate
	seen := make(map[string]bool)
	counts := make(map[string]int)

	add := func(a, b ParsedAsset) bool {
		key := CanonicalPairKey([]string{a.Key}, []string{b.Key})
		if seen[key] {
			return false
		}
		seen[key] = true
		counts[a.Key]++
		counts[b.Key]++
		out = append(out, Candidate{
			PairKey:   key,
			LeftKeys:  []string{a.Key},
			RightKeys: []string{b.Key},
			Mode:      "1v1",
			Prompt:    PromptFor(key),
			Closeness: relativeGap(a.Midpoint, b.Midpoint),
		})
		return true
	}

	for i := range sorted {
		for j := i + 1; j <= i+cfg.NeighborWindow && j < len(sorted); j++ {
			if compatible(sorted[i], sorted[j]) {
				add(sorted[i], sorted[j])
			}
		}
	}

	for i := range sorted {
		for d := 1; counts[sorted[i].Key] < cfg.MinPairsPerAsset && d < len(sorted); d++ {
			if j := i - d; j >= 0 && compatible(sorted[i], sorted[j]) {
				add(sorted[i], sorted[j])
			}
			if counts[sorted[i].Key] >= cfg.MinPairsPerAsset {
				break
			}
			if j := i + d; j < len(sorted) && compatible(sorted[i], sorted[j]) {
				add(sorted[i], sorted[j])
			}
		}
	}
	return out
}

// compatible applies the tier rule: tier indices at most one apart, and when
// exactly one apart the numeric ranges must overlap.
func compatible(a, b ParsedAsset) bool {
	dt := a.TierIndex - b.TierIndex
	if dt < 0 {
		dt = -dt
	}
	if dt > 1 {
		return false
	}
	if dt == 1 && !rangesOverlap(a.MinValue, a.MaxValue, b.MinValue, b.MaxValue) {
		return false
	}
	return true
}

func rangesOverlap(aMin, aMax, bMin, bMax float64) bool {
	return aMin <= bMax && bMin <= aMax
}

// generateTeams samples disjoint bundles of the required sizes with a PRNG
// seeded from the mode and the full key list. Sampling is bounded by
// MaxSampleAttempts so generation terminates even when the pool cannot fill
// TeamPairsPerMode distinct candidates.
func generateTeams(sorted []ParsedAsset, mode string, left, right int, cfg GeneratorConfig, newRand RandFactory) []Candidate {
	need := left + right
	if len(sorted) < need {
		return nil
	}
	rng := newRand(teamSeed(mode, sorted))

	var out []Candidate
	seen := make(map[string]bool)
	for attempts := 0; attempts < cfg.MaxSampleAttempts && len(out) < cfg.TeamPairsPerMode; attempts++ {
		idx := sampleDistinct(rng, len(sorted), need)

		leftSide := make([]ParsedAsset, left)
		rightSide := make([]ParsedAsset, right)
		for i := 0; i < left; i++ {
			leftSide[i] = sorted[idx[i]]
		}
		for i := 0; i < right; i++ {
			rightSide[i] = sorted[idx[left+i]]
		}

		if tierSpread(leftSide, rightSide) > cfg.TierSpreadCap {
			continue
		}

		leftAgg := aggregateSide(leftSide)
		rightAgg := aggregateSide(rightSide)
		if !compatible(leftAgg, rightAgg) {
			continue
		}

		leftKeys := sideKeys(leftSide)
		rightKeys := sideKeys(rightSide)
		key := CanonicalPairKey(leftKeys, rightKeys)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, Candidate{
			PairKey:   key,
			LeftKeys:  leftKeys,
			RightKeys: rightKeys,
			Mode:      mode,
			Prompt:    PromptFor(key),
			Closeness: relativeGap(leftAgg.Midpoint, rightAgg.Midpoint),
		})
	}
	return out
}

// aggregateSide sums member ranges and re-derives the tier from the
// aggregate midpoint, so a bundle competes at its combined value.
func aggregateSide(members []ParsedAsset) ParsedAsset {
	var agg ParsedAsset
	for _, m := range members {
		agg.MinValue += m.MinValue
		agg.MaxValue += m.MaxValue
	}
	agg.Midpoint = (agg.MinValue + agg.MaxValue) / 2
	agg.TierIndex = TierIndexFor(agg.Midpoint)
	return agg
}

func tierSpread(sides ...[]ParsedAsset) int {
	lo, hi := -1, -1
	for _, side := range sides {
		for _, m := range side {
			if lo == -1 || m.TierIndex < lo {
				lo = m.TierIndex
			}
			if hi == -1 || m.TierIndex > hi {
				hi = m.TierIndex
			}
		}
	}
	if lo == -1 {
		return 0
	}
	return hi - lo
}

func sideKeys(members []ParsedAsset) []string {
	keys := make([]string, len(members))
	for i, m := range members {
		keys[i] = m.Key
	}
	sort.Strings(keys)
	return keys
}

// sampleDistinct draws n distinct indices in [0, pool).
func sampleDistinct(rng *rand.Rand, pool, n int) []int {
	idx := make([]int, 0, n)
	used := make(map[int]bool, n)
	for len(idx) < n {
		i := rng.Intn(pool)
		if used[i] {
			continue
		}
		used[i] = true
		idx = append(idx, i)
	}
	return idx
}

func teamSeed(mode string, assets []ParsedAsset) int64 {
	keys := make([]string, len(assets))
	for i, a := range assets {
		keys[i] = a.Key
	}
	sort.Strings(keys)
	h := fnv.New64a()
	_, _ = h.Write([]byte(mode))
	for _, k := range keys {
		_, _ = h.Write([]byte("|"))
		_, _ = h.Write([]byte(k))
	}
	return int64(h.Sum64())
}

// relativeGap is the midpoint distance scaled by the larger side.
func relativeGap(a, b float64) float64 {
	max := a
	if b > max {
		max = b
	}
	if max <= 0 {
		return 0
	}
	gap := a - b
	if gap < 0 {
		gap = -gap
	}
	return gap / max
}
