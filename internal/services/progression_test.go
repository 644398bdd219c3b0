package services

import (
	"testing"
	"time"

	types "github.com/darknesspwnsu/tppcnomics-analytics/internal/domain"
)

func voterAt(streak int, lastVotedAt time.Time) *types.Voter {
	return &types.Voter{StreakDays: streak, LastVotedAt: &lastVotedAt}
}

func TestComputeProgression(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

	cases := []struct {
		name       string
		prior      *types.Voter
		wantStreak int
		wantXP     int
	}{
		{"first vote ever", nil, 1, 11},
		{"no prior timestamp", &types.Voter{StreakDays: 3}, 1, 11},
		{"yesterday extends", voterAt(4, now.AddDate(0, 0, -1)), 5, 15},
		{"same day unchanged", voterAt(4, now.Add(-2 * time.Hour)), 4, 14},
		{"three day gap resets", voterAt(9, now.AddDate(0, 0, -3)), 1, 11},
		{"long streak caps xp", voterAt(11, now.AddDate(0, 0, -1)), 12, 17},
	}
	for _, tc := range cases {
		streak, xp := computeProgression(tc.prior, now)
		if streak != tc.wantStreak || xp != tc.wantXP {
			t.Fatalf("%s: got (streak=%d, xp=%d), want (streak=%d, xp=%d)",
				tc.name, streak, xp, tc.wantStreak, tc.wantXP)
		}
	}
}

func TestComputeProgressionCalendarDayBoundary(t *testing.T) {
	// 23:50 yesterday to 00:10 today is under an hour apart but crosses the
	// UTC day boundary, so the streak extends.
	now := time.Date(2026, 3, 10, 0, 10, 0, 0, time.UTC)
	last := time.Date(2026, 3, 9, 23, 50, 0, 0, time.UTC)
	streak, xp := computeProgression(voterAt(2, last), now)
	if streak != 3 || xp != 13 {
		t.Fatalf("got (streak=%d, xp=%d), want (3, 13)", streak, xp)
	}
}
