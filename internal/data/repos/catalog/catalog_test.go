package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/darknesspwnsu/tppcnomics-analytics/internal/data/repos/testutil"
	types "github.com/darknesspwnsu/tppcnomics-analytics/internal/domain"
)

func TestAssetRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewAssetRepo(db, testutil.Logger(t))

	a := &types.Asset{ID: uuid.New(), Key: "assetrepo_a", Label: "A", Tier: "10k", Active: true, Managed: true}
	b := &types.Asset{ID: uuid.New(), Key: "assetrepo_b", Label: "B", Tier: "10k", Active: true, Managed: true}
	if err := repo.CreateIgnoreDuplicates(ctx, tx, []*types.Asset{a, b}); err != nil {
		t.Fatalf("CreateIgnoreDuplicates: %v", err)
	}

	// Re-inserting the same key is a no-op, not an error.
	dup := &types.Asset{ID: uuid.New(), Key: "assetrepo_a", Label: "other", Tier: "1k"}
	if err := repo.CreateIgnoreDuplicates(ctx, tx, []*types.Asset{dup}); err != nil {
		t.Fatalf("duplicate insert: %v", err)
	}
	rows, err := repo.GetByKeys(ctx, tx, []string{"assetrepo_a"})
	if err != nil || len(rows) != 1 {
		t.Fatalf("GetByKeys: err=%v len=%d", err, len(rows))
	}
	if rows[0].ID != a.ID || rows[0].Label != "A" {
		t.Fatalf("duplicate insert overwrote the original row: %+v", rows[0])
	}

	if rows, err := repo.GetByIDs(ctx, tx, []uuid.UUID{b.ID}); err != nil || len(rows) != 1 {
		t.Fatalf("GetByIDs: err=%v len=%d", err, len(rows))
	}

	keys, err := repo.ActiveManagedKeys(ctx, tx)
	if err != nil {
		t.Fatalf("ActiveManagedKeys: %v", err)
	}
	if !containsString(keys, "assetrepo_a") || !containsString(keys, "assetrepo_b") {
		t.Fatalf("active managed keys missing fixtures: %v", keys)
	}

	if n, err := repo.SetActiveByKeys(ctx, tx, []string{"assetrepo_a"}, false); err != nil || n != 1 {
		t.Fatalf("SetActiveByKeys: err=%v n=%d", err, n)
	}
	keys, _ = repo.ActiveManagedKeys(ctx, tx)
	if containsString(keys, "assetrepo_a") {
		t.Fatalf("deactivated asset still listed active")
	}

	if _, err := repo.DeactivateManagedNotIn(ctx, tx, []string{"assetrepo_a"}); err != nil {
		t.Fatalf("DeactivateManagedNotIn: %v", err)
	}
	keys, _ = repo.ActiveManagedKeys(ctx, tx)
	if containsString(keys, "assetrepo_b") {
		t.Fatalf("stale asset not deactivated")
	}
}

func TestVotingPairRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewVotingPairRepo(db, testutil.Logger(t))

	p1 := testutil.SeedPair(t, tx, "1v1", []string{"vpr_a"}, []string{"vpr_b"})
	p2 := testutil.SeedPair(t, tx, "1v1", []string{"vpr_a"}, []string{"vpr_c"})
	p3 := testutil.SeedPair(t, tx, "2v2", []string{"vpr_a", "vpr_b"}, []string{"vpr_c", "vpr_d"})

	if got, err := repo.GetByID(ctx, tx, p1.ID); err != nil || got == nil || got.PairKey != p1.PairKey {
		t.Fatalf("GetByID: err=%v got=%+v", err, got)
	}
	if got, err := repo.GetByID(ctx, tx, uuid.New()); err != nil || got != nil {
		t.Fatalf("GetByID for missing row must be (nil, nil), got err=%v got=%+v", err, got)
	}

	if n, err := repo.CountActive(ctx, tx); err != nil || n != 3 {
		t.Fatalf("CountActive: err=%v n=%d", err, n)
	}

	if n, err := repo.SetFeaturedByPairKeys(ctx, tx, []string{p1.PairKey}, true); err != nil || n != 1 {
		t.Fatalf("SetFeaturedByPairKeys: err=%v n=%d", err, n)
	}
	if n, err := repo.CountEligible(ctx, tx, PairFilter{}, true, nil); err != nil || n != 1 {
		t.Fatalf("CountEligible featured: err=%v n=%d", err, n)
	}
	if n, err := repo.CountEligible(ctx, tx, PairFilter{Mode: "1v1"}, false, nil); err != nil || n != 1 {
		t.Fatalf("CountEligible 1v1 normal: err=%v n=%d", err, n)
	}
	if n, err := repo.CountEligible(ctx, tx, PairFilter{}, false, []uuid.UUID{p2.ID, p3.ID}); err != nil || n != 0 {
		t.Fatalf("CountEligible with exclusions: err=%v n=%d", err, n)
	}

	got, err := repo.GetEligibleAtOffset(ctx, tx, PairFilter{Mode: "2v2"}, false, nil, 0)
	if err != nil || got == nil || got.ID != p3.ID {
		t.Fatalf("GetEligibleAtOffset: err=%v got=%+v", err, got)
	}
	if got, err := repo.GetEligibleAtOffset(ctx, tx, PairFilter{Mode: "2v2"}, false, nil, 5); err != nil || got != nil {
		t.Fatalf("offset past the bucket must be (nil, nil), got err=%v got=%+v", err, got)
	}

	if _, err := repo.ClearFeaturedNotIn(ctx, tx, []string{p2.PairKey}); err != nil {
		t.Fatalf("ClearFeaturedNotIn: %v", err)
	}
	if n, _ := repo.CountEligible(ctx, tx, PairFilter{}, true, nil); n != 0 {
		t.Fatalf("featured flag survived ClearFeaturedNotIn")
	}

	if n, err := repo.DeactivateByPairKeys(ctx, tx, []string{p3.PairKey}); err != nil || n != 1 {
		t.Fatalf("DeactivateByPairKeys: err=%v n=%d", err, n)
	}
	if _, err := repo.DeactivateNotIn(ctx, tx, []string{p1.PairKey}); err != nil {
		t.Fatalf("DeactivateNotIn: %v", err)
	}
	if n, _ := repo.CountActive(ctx, tx); n != 1 {
		t.Fatalf("expected only p1 active, CountActive=%d", n)
	}
	if n, err := repo.SetActiveByPairKeys(ctx, tx, []string{p2.PairKey}, true); err != nil || n != 1 {
		t.Fatalf("SetActiveByPairKeys: err=%v n=%d", err, n)
	}

	active, err := repo.GetActive(ctx, tx)
	if err != nil || len(active) != 2 {
		t.Fatalf("GetActive: err=%v len=%d", err, len(active))
	}
}

func TestIngestionCursorRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewIngestionCursorRepo(db, testutil.Logger(t))

	if got, err := repo.Get(ctx, tx, "cursor_test"); err != nil || got != nil {
		t.Fatalf("missing cursor must be (nil, nil), got err=%v got=%+v", err, got)
	}

	if err := repo.Upsert(ctx, tx, "cursor_test", "v1"); err != nil {
		t.Fatalf("Upsert insert: %v", err)
	}
	if err := repo.Upsert(ctx, tx, "cursor_test", "v2"); err != nil {
		t.Fatalf("Upsert update: %v", err)
	}

	got, err := repo.Get(ctx, tx, "cursor_test")
	if err != nil || got == nil {
		t.Fatalf("Get: err=%v got=%+v", err, got)
	}
	if got.Version != "v2" {
		t.Fatalf("cursor version = %q, want v2", got.Version)
	}
}

func containsString(xs []string, want string) bool {
	for _, x := range xs {
		if x == want {
			return true
		}
	}
	return false
}
