package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/darknesspwnsu/tppcnomics-analytics/internal/data/repos/catalog"
	"github.com/darknesspwnsu/tppcnomics-analytics/internal/data/repos/testutil"
	"github.com/darknesspwnsu/tppcnomics-analytics/internal/data/repos/votes"
	types "github.com/darknesspwnsu/tppcnomics-analytics/internal/domain"
	errs "github.com/darknesspwnsu/tppcnomics-analytics/internal/pkg/errors"
)

func newSelector(t *testing.T, tx *gorm.DB) (MatchupSelectorService, catalog.VotingPairRepo, votes.VoteEventRepo) {
	t.Helper()
	log := testutil.Logger(t)
	pairRepo := catalog.NewVotingPairRepo(tx, log)
	eventRepo := votes.NewVoteEventRepo(tx, log)
	return NewMatchupSelectorService(log, pairRepo, eventRepo, nil), pairRepo, eventRepo
}

func voteOn(t *testing.T, eventRepo votes.VoteEventRepo, visitorID string, pair *types.VotingPair, at time.Time) {
	t.Helper()
	err := eventRepo.Create(context.Background(), nil, &types.VoteEvent{
		ID:        uuid.New(),
		PairID:    pair.ID,
		PairKey:   pair.PairKey,
		VoterID:   visitorID,
		Side:      types.SideLeft,
		LeftKeys:  pair.LeftKeys,
		RightKeys: pair.RightKeys,
		CreatedAt: at,
	})
	if err != nil {
		t.Fatalf("voteOn: %v", err)
	}
}

func TestSelectMatchupReturnsEligiblePair(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	selector, _, _ := newSelector(t, tx)
	p1 := testutil.SeedPair(t, tx, "1v1", []string{"sel_a"}, []string{"sel_b"})
	p2 := testutil.SeedPair(t, tx, "1v1", []string{"sel_a"}, []string{"sel_c"})

	pair, err := selector.SelectMatchup(ctx, "visitor-select", "", nil)
	if err != nil {
		t.Fatalf("SelectMatchup: %v", err)
	}
	if pair.ID != p1.ID && pair.ID != p2.ID {
		t.Fatalf("selected unknown pair %v", pair.ID)
	}
}

func TestSelectMatchupHonorsExclusions(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	selector, _, eventRepo := newSelector(t, tx)
	p1 := testutil.SeedPair(t, tx, "1v1", []string{"excl_a"}, []string{"excl_b"})
	p2 := testutil.SeedPair(t, tx, "1v1", []string{"excl_a"}, []string{"excl_c"})
	p3 := testutil.SeedPair(t, tx, "1v1", []string{"excl_b"}, []string{"excl_c"})

	now := time.Now().UTC()
	voteOn(t, eventRepo, "visitor-excl", p1, now.Add(-2*time.Minute))
	voteOn(t, eventRepo, "visitor-excl", p2, now.Add(-time.Minute))

	// Only p3 is left after the exclusion window.
	for i := 0; i < 5; i++ {
		pair, err := selector.SelectMatchup(ctx, "visitor-excl", "", nil)
		if err != nil {
			t.Fatalf("SelectMatchup: %v", err)
		}
		if pair.ID != p3.ID {
			t.Fatalf("expected p3, got %v", pair.ID)
		}
	}
}

func TestSelectMatchupLiveness(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	selector, _, eventRepo := newSelector(t, tx)
	p1 := testutil.SeedPair(t, tx, "1v1", []string{"live_a"}, []string{"live_b"})

	// The exclusion window covers the entire pool; selection must still
	// return the pair rather than report unavailable.
	voteOn(t, eventRepo, "visitor-live", p1, time.Now().UTC())
	pair, err := selector.SelectMatchup(ctx, "visitor-live", "", &p1.ID)
	if err != nil {
		t.Fatalf("SelectMatchup: %v", err)
	}
	if pair.ID != p1.ID {
		t.Fatalf("expected the only pair back, got %v", pair.ID)
	}
}

func TestSelectMatchupUnavailable(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	selector, _, _ := newSelector(t, tx)
	testutil.SeedPair(t, tx, "1v1", []string{"un_a"}, []string{"un_b"})

	// No pair matches the mode filter.
	_, err := selector.SelectMatchup(ctx, "visitor-none", "9v9", nil)
	if !errors.Is(err, errs.ErrNoMatchupAvailable) {
		t.Fatalf("expected ErrNoMatchupAvailable, got %v", err)
	}
}

func TestSelectMatchupModeFilter(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	selector, _, _ := newSelector(t, tx)
	testutil.SeedPair(t, tx, "1v1", []string{"mode_a"}, []string{"mode_b"})
	team := testutil.SeedPair(t, tx, "2v2", []string{"mode_a", "mode_b"}, []string{"mode_c", "mode_d"})

	pair, err := selector.SelectMatchup(ctx, "visitor-mode", "2v2", nil)
	if err != nil {
		t.Fatalf("SelectMatchup: %v", err)
	}
	if pair.ID != team.ID {
		t.Fatalf("mode filter ignored: got %v", pair.ID)
	}
}
