package seedcat

import (
	"reflect"
	"testing"
)

func tierTestAssets() []ParsedAsset {
	keys := []string{"a", "b", "c", "d", "e", "f"}
	assets := make([]ParsedAsset, len(keys))
	for i, k := range keys {
		// Close midpoints inside one tier so every pair is compatible.
		minV := 4000.0 + float64(i)*200
		maxV := minV + 1000
		mid := (minV + maxV) / 2
		assets[i] = ParsedAsset{
			Key:       k,
			Label:     k,
			MinValue:  minV,
			MaxValue:  maxV,
			Midpoint:  mid,
			TierIndex: TierIndexFor(mid),
		}
	}
	return assets
}

func TestGenerateOneVsOneCoverage(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	cfg.Modes = []string{"1v1"}
	cfg.NeighborWindow = 2
	cfg.MinPairsPerAsset = 2
	cfg.FeaturedCount = 3

	cands, err := Generate(tierTestAssets(), cfg, nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(cands) == 0 {
		t.Fatalf("no candidates generated")
	}

	counts := map[string]int{}
	seen := map[string]bool{}
	for _, c := range cands {
		if seen[c.PairKey] {
			t.Fatalf("duplicate pair key %q", c.PairKey)
		}
		seen[c.PairKey] = true
		counts[c.LeftKeys[0]]++
		counts[c.RightKeys[0]]++
	}
	for _, a := range tierTestAssets() {
		if counts[a.Key] < cfg.MinPairsPerAsset {
			t.Fatalf("asset %q appears in %d pairs, want at least %d", a.Key, counts[a.Key], cfg.MinPairsPerAsset)
		}
	}

	featured := 0
	for _, c := range cands {
		if c.Featured {
			featured++
		}
	}
	if featured != cfg.FeaturedCount {
		t.Fatalf("featured count %d, want %d", featured, cfg.FeaturedCount)
	}
	// Featured pairs are the closest ones; the list is sorted by closeness.
	for i := 1; i < len(cands); i++ {
		if cands[i].Closeness < cands[i-1].Closeness {
			t.Fatalf("candidates not sorted by closeness at %d", i)
		}
		if cands[i].Featured && !cands[i-1].Featured {
			t.Fatalf("featured flag not on a closeness prefix")
		}
	}
}

func TestGenerateIncompatibleTiers(t *testing.T) {
	assets := []ParsedAsset{
		{Key: "small", MinValue: 900, MaxValue: 1000, Midpoint: 950, TierIndex: TierIndexFor(950)},
		{Key: "huge", MinValue: 2_000_000, MaxValue: 3_000_000, Midpoint: 2_500_000, TierIndex: TierIndexFor(2_500_000)},
	}
	cfg := DefaultGeneratorConfig()
	cfg.Modes = []string{"1v1"}

	cands, err := Generate(assets, cfg, nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(cands) != 0 {
		t.Fatalf("tier-incompatible assets must not pair: %+v", cands)
	}
}

func TestGenerateTeamsReproducible(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	cfg.Modes = []string{"2v2"}
	cfg.TeamPairsPerMode = 5

	assets := tierTestAssets()
	first, err := Generate(assets, cfg, nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	second, err := Generate(assets, cfg, nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("team generation is not reproducible")
	}

	for _, c := range first {
		if len(c.LeftKeys) != 2 || len(c.RightKeys) != 2 {
			t.Fatalf("wrong bundle sizes: %+v", c)
		}
		members := map[string]bool{}
		for _, k := range append(append([]string{}, c.LeftKeys...), c.RightKeys...) {
			if members[k] {
				t.Fatalf("asset %q on both sides of %q", k, c.PairKey)
			}
			members[k] = true
		}
	}
}

func TestGenerateTeamsTerminatesOnSmallPool(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	cfg.Modes = []string{"2v2"}

	// Pool smaller than the required member count.
	cands, err := Generate(tierTestAssets()[:3], cfg, nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(cands) != 0 {
		t.Fatalf("expected no candidates from a 3-asset pool in 2v2")
	}
}

func TestGenerateRejectsBadMode(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	cfg.Modes = []string{"2x2"}
	if _, err := Generate(tierTestAssets(), cfg, nil); err == nil {
		t.Fatalf("expected error for malformed mode")
	}
}
