package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/darknesspwnsu/tppcnomics-analytics/internal/domain"
	"github.com/darknesspwnsu/tppcnomics-analytics/internal/seedcat"
)

// SeedAsset inserts a managed active asset keyed by key.
func SeedAsset(tb testing.TB, tx *gorm.DB, key, tier string) *types.Asset {
	tb.Helper()
	asset := &types.Asset{
		ID:      uuid.New(),
		Key:     key,
		Label:   key,
		Tier:    tier,
		Active:  true,
		Managed: true,
	}
	if err := tx.Create(asset).Error; err != nil {
		tb.Fatalf("seed asset %q: %v", key, err)
	}
	return asset
}

// SeedPair inserts an active pair between the given bundles with the
// canonical pair key derived the same way the generator does.
func SeedPair(tb testing.TB, tx *gorm.DB, mode string, left, right []string) *types.VotingPair {
	tb.Helper()
	pair := &types.VotingPair{
		ID:        uuid.New(),
		PairKey:   seedcat.CanonicalPairKey(left, right),
		LeftKeys:  types.EncodeKeys(left),
		RightKeys: types.EncodeKeys(right),
		Mode:      mode,
		Prompt:    "Which would you rather have?",
		Active:    true,
	}
	if err := tx.Create(pair).Error; err != nil {
		tb.Fatalf("seed pair %v vs %v: %v", left, right, err)
	}
	return pair
}

// SeedVoter inserts a voter row with an existing streak.
func SeedVoter(tb testing.TB, tx *gorm.DB, visitorID string, streakDays int, lastVotedAt time.Time) *types.Voter {
	tb.Helper()
	voter := &types.Voter{
		ID:          uuid.New(),
		VisitorID:   visitorID,
		StreakDays:  streakDays,
		LastVotedAt: &lastVotedAt,
	}
	if err := tx.Create(voter).Error; err != nil {
		tb.Fatalf("seed voter %q: %v", visitorID, err)
	}
	return voter
}
