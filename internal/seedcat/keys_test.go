package seedcat

import "testing"

func TestCanonicalPairKeySymmetry(t *testing.T) {
	left := []string{"pikachu_m", "raichu_f"}
	right := []string{"dratini_m"}

	ab := CanonicalPairKey(left, right)
	ba := CanonicalPairKey(right, left)
	if ab != ba {
		t.Fatalf("pair key not symmetric: %q vs %q", ab, ba)
	}

	// Stable under member reordering inside a bundle.
	shuffled := CanonicalPairKey([]string{"raichu_f", "pikachu_m"}, right)
	if shuffled != ab {
		t.Fatalf("pair key depends on member order: %q vs %q", shuffled, ab)
	}

	other := CanonicalPairKey([]string{"pikachu_m"}, right)
	if other == ab {
		t.Fatalf("different bundles produced the same key")
	}
	if len(ab) != 32 {
		t.Fatalf("unexpected key length %d", len(ab))
	}
}

func TestPromptForStable(t *testing.T) {
	key := CanonicalPairKey([]string{"a"}, []string{"b"})
	p1 := PromptFor(key)
	p2 := PromptFor(key)
	if p1 == "" {
		t.Fatalf("empty prompt")
	}
	if p1 != p2 {
		t.Fatalf("prompt not stable for the same key: %q vs %q", p1, p2)
	}
}
