package seedcat

import (
	"strings"
	"testing"
)

func TestParseSeedBasic(t *testing.T) {
	raw := strings.Join([]string{
		"# comment",
		"key,seed_range",
		"pikachu_m,4k-8k",
		"dratini_f,20k-35k",
		"mew_u,900k-1.4m",
	}, "\n")

	result := ParseSeed(raw)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Assets) != 3 {
		t.Fatalf("expected 3 assets, got %d", len(result.Assets))
	}

	// Output is sorted by key.
	if result.Assets[0].Key != "dratini_f" || result.Assets[2].Key != "pikachu_m" {
		t.Fatalf("assets not sorted by key: %v", result.Assets)
	}

	pika := result.Assets[2]
	if pika.MinValue != 4000 || pika.MaxValue != 8000 || pika.Midpoint != 6000 {
		t.Fatalf("range mismatch: %+v", pika)
	}
	if pika.Label != "Pikachu (M)" {
		t.Fatalf("label mismatch: %q", pika.Label)
	}
}

func TestParseSeedRangeGrammar(t *testing.T) {
	cases := []struct {
		token    string
		min, max float64
	}{
		{"500", 500, 500},
		{"2m", 2_000_000, 2_000_000},
		{"4-8k", 4000, 8000},      // lower bound inherits k
		{"4k-8", 4000, 8000},      // upper bound inherits k
		{"3-9", 3, 9},             // both omit, multiplier 1
		{"1.5m-2mx", 1.5e6, 2e6},  // mx == m
		{"10x-20kx", 10, 20_000},  // explicit units, no inheritance
	}
	for _, tc := range cases {
		minV, maxV, err := parseRangeToken(tc.token)
		if err != nil {
			t.Fatalf("parseRangeToken(%q): %v", tc.token, err)
		}
		if minV != tc.min || maxV != tc.max {
			t.Fatalf("parseRangeToken(%q) = (%v, %v), want (%v, %v)", tc.token, minV, maxV, tc.min, tc.max)
		}
	}
}

func TestParseSeedErrorsAreNonFatal(t *testing.T) {
	raw := strings.Join([]string{
		"good_a,1k",
		"only_one_field",
		"bad key,2k",
		"bad_unit,5q",
		"inverted,9k-2k",
		"good_a,3k", // duplicate, later occurrence dropped
		"good_b,2k",
	}, "\n")

	result := ParseSeed(raw)
	if len(result.Assets) != 2 {
		t.Fatalf("expected 2 assets, got %d: %+v", len(result.Assets), result.Assets)
	}
	if len(result.Errors) != 5 {
		t.Fatalf("expected 5 errors, got %d: %v", len(result.Errors), result.Errors)
	}
	if result.Assets[0].Key != "good_a" || result.Assets[0].MinValue != 1000 {
		t.Fatalf("duplicate should keep the first occurrence: %+v", result.Assets[0])
	}
}

func TestParseSeedDeterminism(t *testing.T) {
	a := ParseSeed(defaultSeedText)
	b := ParseSeed(defaultSeedText)
	if len(a.Errors) != 0 {
		t.Fatalf("default seed has errors: %v", a.Errors)
	}
	if len(a.Assets) != len(b.Assets) {
		t.Fatalf("non-deterministic parse: %d vs %d", len(a.Assets), len(b.Assets))
	}
	for i := range a.Assets {
		if a.Assets[i] != b.Assets[i] {
			t.Fatalf("asset %d differs between runs", i)
		}
	}
}

func TestTierTable(t *testing.T) {
	if TierCount() < 10 {
		t.Fatalf("tier table too small: %d", TierCount())
	}
	cases := []struct {
		midpoint float64
		name     string
	}{
		{500, "1k"},
		{6000, "10k"},
		{100_000, "100k"},
		{2_500_000, "3m"},
		{9_000_000, "3m+"}, // open-ended last bucket
	}
	for _, tc := range cases {
		if got := TierName(TierIndexFor(tc.midpoint)); got != tc.name {
			t.Fatalf("tier for %v = %q, want %q", tc.midpoint, got, tc.name)
		}
	}
	if TierIndexFor(1e12) != TierCount()-1 {
		t.Fatalf("huge midpoint must land in the last bucket")
	}
}

func TestDeriveLabel(t *testing.T) {
	cases := map[string]string{
		"pikachu_m":        "Pikachu (M)",
		"dark_charizard_f": "Dark Charizard (F)",
		"shiny_mewtwo_u":   "Shiny Mewtwo (U)",
		"ditto":            "Ditto",
	}
	for key, want := range cases {
		if got := deriveLabel(key); got != want {
			t.Fatalf("deriveLabel(%q) = %q, want %q", key, got, want)
		}
	}
}
