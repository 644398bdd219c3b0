package rating

import (
	"math"
	"testing"
)

const tolerance = 1e-3

func TestUpdateEloDecisive(t *testing.T) {
	// Two equal 1500s, 7 LEFT vs 3 RIGHT. K = 24*min(2, sqrt(10/5)) ~ 33.9411,
	// delta = K*(0.7-0.5) ~ 6.7882.
	up := UpdateElo(1500, 1500, 7, 3, 1)
	if !up.AffectsScore {
		t.Fatalf("expected AffectsScore")
	}
	if up.Result != ResultLeft {
		t.Fatalf("result = %q, want left", up.Result)
	}
	if math.Abs(up.KFactor-33.9411) > tolerance {
		t.Fatalf("K = %v, want ~33.9411", up.KFactor)
	}
	if math.Abs(up.LeftDelta-6.7882) > tolerance {
		t.Fatalf("left delta = %v, want ~6.7882", up.LeftDelta)
	}
	if math.Abs(up.LeftRating-1506.7882) > tolerance || math.Abs(up.RightRating-1493.2118) > tolerance {
		t.Fatalf("ratings = %v / %v", up.LeftRating, up.RightRating)
	}
}

func TestUpdateEloZeroSum(t *testing.T) {
	up := UpdateElo(1620.5, 1410.25, 5, 9, 1)
	if sum := up.LeftDelta + up.RightDelta; math.Abs(sum) > tolerance {
		t.Fatalf("deltas not zero-sum: %v", sum)
	}
}

func TestUpdateEloThresholdGating(t *testing.T) {
	up := UpdateElo(1500, 1480, 1, 0, 3)
	if up.AffectsScore {
		t.Fatalf("below-threshold update must not affect score")
	}
	if up.LeftRating != 1500 || up.RightRating != 1480 {
		t.Fatalf("ratings changed below threshold: %v / %v", up.LeftRating, up.RightRating)
	}
	if up.LeftDelta != 0 || up.RightDelta != 0 {
		t.Fatalf("deltas must be zero below threshold")
	}
	if up.Result != ResultLeft {
		t.Fatalf("result still derives from votes, got %q", up.Result)
	}
}

func TestUpdateEloKFactorCap(t *testing.T) {
	// 100 votes: sqrt(100/5) ~ 4.47, capped at 2, so K = 48.
	up := UpdateElo(1500, 1500, 100, 0, 1)
	if math.Abs(up.KFactor-48) > tolerance {
		t.Fatalf("K = %v, want 48", up.KFactor)
	}
}

func TestUpdateEloTie(t *testing.T) {
	up := UpdateElo(1500, 1500, 4, 4, 1)
	if up.Result != ResultTie {
		t.Fatalf("result = %q, want tie", up.Result)
	}
	// Equal ratings and a split vote: no movement.
	if math.Abs(up.LeftDelta) > tolerance {
		t.Fatalf("tie between equals moved ratings: %v", up.LeftDelta)
	}
}

func TestUpdateTeamEloConservation(t *testing.T) {
	left := []float64{1550, 1450}
	right := []float64{1500, 1520, 1480}
	up := UpdateTeamElo(left, right, 8, 2, 1)
	if !up.AffectsScore {
		t.Fatalf("expected AffectsScore")
	}

	var leftSum, rightSum float64
	for _, d := range up.LeftDeltas {
		leftSum += d
	}
	for _, d := range up.RightDeltas {
		rightSum += d
	}
	if math.Abs(leftSum-up.LeftTeamDelta) > tolerance {
		t.Fatalf("left member deltas %v do not sum to team delta %v", leftSum, up.LeftTeamDelta)
	}
	if math.Abs(rightSum-up.RightTeamDelta) > tolerance {
		t.Fatalf("right member deltas %v do not sum to team delta %v", rightSum, up.RightTeamDelta)
	}
	if math.Abs(up.LeftTeamDelta+up.RightTeamDelta) > tolerance {
		t.Fatalf("team deltas not zero-sum")
	}

	// Stronger members absorb more of the move.
	if math.Abs(up.LeftDeltas[0]) <= math.Abs(up.LeftDeltas[1]) {
		t.Fatalf("higher-rated member should carry the larger delta: %v", up.LeftDeltas)
	}
}

func TestUpdateTeamEloThresholdGating(t *testing.T) {
	left := []float64{1500, 1500}
	right := []float64{1500, 1500}
	up := UpdateTeamElo(left, right, 1, 0, 5)
	if up.AffectsScore {
		t.Fatalf("below-threshold team update must not affect score")
	}
	for i, r := range up.LeftRatings {
		if r != left[i] {
			t.Fatalf("left rating %d changed below threshold", i)
		}
	}
	for i, r := range up.RightRatings {
		if r != right[i] {
			t.Fatalf("right rating %d changed below threshold", i)
		}
	}
}

func TestTeamRatingFormula(t *testing.T) {
	// A single-member team must rate exactly as the member does.
	up := UpdateTeamElo([]float64{1500}, []float64{1500}, 7, 3, 1)
	single := UpdateElo(1500, 1500, 7, 3, 1)
	if math.Abs(up.LeftTeamRating-1500) > tolerance {
		t.Fatalf("single-member team rating = %v, want 1500", up.LeftTeamRating)
	}
	if math.Abs(up.LeftDeltas[0]-single.LeftDelta) > tolerance {
		t.Fatalf("single-member team delta %v differs from single update %v", up.LeftDeltas[0], single.LeftDelta)
	}
}
