package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/darknesspwnsu/tppcnomics-analytics/internal/data/repos/catalog"
	types "github.com/darknesspwnsu/tppcnomics-analytics/internal/domain"
	"github.com/darknesspwnsu/tppcnomics-analytics/internal/logger"
	errs "github.com/darknesspwnsu/tppcnomics-analytics/internal/pkg/errors"
	"github.com/darknesspwnsu/tppcnomics-analytics/internal/seedcat"
)

const seedSourceName = "seed"

type CatalogSyncService interface {
	EnsureCatalogCurrent(ctx context.Context) error
}

type catalogSyncService struct {
	log        *logger.Logger
	source     seedcat.Source
	cache      *seedcat.Cache
	cfg        seedcat.GeneratorConfig
	assetRepo  catalog.AssetRepo
	pairRepo   catalog.VotingPairRepo
	cursorRepo catalog.IngestionCursorRepo
}

func NewCatalogSyncService(
	log *logger.Logger,
	source seedcat.Source,
	cfg seedcat.GeneratorConfig,
	assetRepo catalog.AssetRepo,
	pairRepo catalog.VotingPairRepo,
	cursorRepo catalog.IngestionCursorRepo,
) CatalogSyncService {
	return &catalogSyncService{
		log:        log.With("service", "CatalogSyncService"),
		source:     source,
		cache:      seedcat.NewCache(),
		cfg:        cfg,
		assetRepo:  assetRepo,
		pairRepo:   pairRepo,
		cursorRepo: cursorRepo,
	}
}

// EnsureCatalogCurrent reconciles the live catalog against the configured
// seed. Safe to call on every cold start: the version cursor plus a liveness
// check short-circuit the common case, inserts skip duplicates, and the
// reconciliation pass is a pure function of seed vs store. Two instances
// racing on the same version converge; an asset may flap briefly, which is
// an accepted transient since selection tolerates a stale-by-one view.
func (s *catalogSyncService) EnsureCatalogCurrent(ctx context.Context) error {
	cursor, err := s.cursorRepo.Get(ctx, nil, seedSourceName)
	if err != nil {
		return fmt.Errorf("load ingestion cursor: %w", err)
	}
	if cursor != nil {
		// Version comparison happens before any fetch or parse so the
		// common cold start with a current cursor costs one version probe
		// and one count.
		version, vErr := s.source.Version(ctx)
		if vErr != nil {
			s.log.Warn("seed version unavailable", "error", vErr)
		} else if version == cursor.Version {
			active, err := s.pairRepo.CountActive(ctx, nil)
			if err != nil {
				return fmt.Errorf("count active pairs: %w", err)
			}
			if active > 0 {
				return nil
			}
			s.log.Warn("cursor current but no active pairs, reconciling", "version", version)
		}
	}

	snap, err := s.loadSnapshot(ctx, s.source)
	if err != nil {
		// An invalid seed never mutates live data. If there is no live
		// catalog at all, fall back to the built-in default so the system
		// is never empty.
		s.log.Warn("seed rejected, keeping live catalog", "error", err)
		active, cErr := s.pairRepo.CountActive(ctx, nil)
		if cErr != nil {
			return fmt.Errorf("count active pairs: %w", cErr)
		}
		if active > 0 {
			return nil
		}
		snap, err = s.loadSnapshot(ctx, seedcat.DefaultSource())
		if err != nil {
			return fmt.Errorf("default seed rejected: %w", err)
		}
	}

	if err := s.apply(ctx, snap); err != nil {
		return err
	}
	if err := s.cursorRepo.Upsert(ctx, nil, seedSourceName, snap.Version); err != nil {
		return fmt.Errorf("upsert ingestion cursor: %w", err)
	}
	s.log.Info("catalog synchronized",
		"version", snap.Version,
		"assets", len(snap.Result.Assets),
		"pairs", len(snap.Candidates))
	return nil
}

// loadSnapshot fetches, parses, generates and validates one seed version,
// memoized by version in the service-owned cache.
func (s *catalogSyncService) loadSnapshot(ctx context.Context, source seedcat.Source) (*seedcat.Snapshot, error) {
	version, err := source.Version(ctx)
	if err != nil {
		return nil, fmt.Errorf("seed version: %w", err)
	}
	if snap, ok := s.cache.Get(version); ok {
		return snap, nil
	}

	raw, err := source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch seed: %w", err)
	}
	result := seedcat.ParseSeed(raw)
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("%w: %d rejected lines, first: %v",
			errs.ErrSeedInvalid, len(result.Errors), result.Errors[0])
	}
	if len(result.Assets) < s.cfg.MinAssets {
		return nil, fmt.Errorf("%w: %d assets, need at least %d",
			errs.ErrSeedInvalid, len(result.Assets), s.cfg.MinAssets)
	}

	candidates, err := seedcat.Generate(result.Assets, s.cfg, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrSeedInvalid, err)
	}
	if len(candidates) < s.cfg.MinPairs {
		return nil, fmt.Errorf("%w: %d pairs, need at least %d",
			errs.ErrSeedInvalid, len(candidates), s.cfg.MinPairs)
	}

	snap := &seedcat.Snapshot{Version: version, Result: result, Candidates: candidates}
	s.cache.Put(snap)
	return snap, nil
}

func (s *catalogSyncService) apply(ctx context.Context, snap *seedcat.Snapshot) error {
	now := time.Now().UTC()

	assetRows := make([]*types.Asset, 0, len(snap.Result.Assets))
	assetKeys := make([]string, 0, len(snap.Result.Assets))
	for _, pa := range snap.Result.Assets {
		meta, _ := json.Marshal(types.AssetMetadata{
			SeedRange: pa.SeedRange,
			MinValue:  pa.MinValue,
			MaxValue:  pa.MaxValue,
			Midpoint:  pa.Midpoint,
			TierIndex: pa.TierIndex,
		})
		assetRows = append(assetRows, &types.Asset{
			ID:        uuid.New(),
			Key:       pa.Key,
			Label:     pa.Label,
			Tier:      seedcat.TierName(pa.TierIndex),
			Active:    true,
			Managed:   true,
			Metadata:  datatypes.JSON(meta),
			CreatedAt: now,
			UpdatedAt: now,
		})
		assetKeys = append(assetKeys, pa.Key)
	}

	pairRows := make([]*types.VotingPair, 0, len(snap.Candidates))
	pairKeys := make([]string, 0, len(snap.Candidates))
	var featuredKeys []string
	for _, c := range snap.Candidates {
		pairRows = append(pairRows, &types.VotingPair{
			ID:        uuid.New(),
			PairKey:   c.PairKey,
			LeftKeys:  types.EncodeKeys(c.LeftKeys),
			RightKeys: types.EncodeKeys(c.RightKeys),
			Mode:      c.Mode,
			Prompt:    c.Prompt,
			Closeness: c.Closeness,
			Featured:  c.Featured,
			Active:    true,
			CreatedAt: now,
			UpdatedAt: now,
		})
		pairKeys = append(pairKeys, c.PairKey)
		if c.Featured {
			featuredKeys = append(featuredKeys, c.PairKey)
		}
	}

	// Insert-missing, then flip activation separately. Existing rows keep
	// their identity and history.
	if err := s.assetRepo.CreateIgnoreDuplicates(ctx, nil, assetRows); err != nil {
		return fmt.Errorf("insert assets: %w", err)
	}
	if err := s.pairRepo.CreateIgnoreDuplicates(ctx, nil, pairRows); err != nil {
		return fmt.Errorf("insert pairs: %w", err)
	}

	if _, err := s.assetRepo.SetActiveByKeys(ctx, nil, assetKeys, true); err != nil {
		return fmt.Errorf("reactivate assets: %w", err)
	}
	if _, err := s.assetRepo.DeactivateManagedNotIn(ctx, nil, assetKeys); err != nil {
		return fmt.Errorf("deactivate stale assets: %w", err)
	}

	if _, err := s.pairRepo.SetActiveByPairKeys(ctx, nil, pairKeys, true); err != nil {
		return fmt.Errorf("reactivate pairs: %w", err)
	}
	if _, err := s.pairRepo.DeactivateNotIn(ctx, nil, pairKeys); err != nil {
		return fmt.Errorf("deactivate stale pairs: %w", err)
	}

	if _, err := s.pairRepo.SetFeaturedByPairKeys(ctx, nil, featuredKeys, true); err != nil {
		return fmt.Errorf("mark featured pairs: %w", err)
	}
	if _, err := s.pairRepo.ClearFeaturedNotIn(ctx, nil, featuredKeys); err != nil {
		return fmt.Errorf("clear stale featured flags: %w", err)
	}

	return s.deactivateOrphanedPairs(ctx, assetKeys)
}

// deactivateOrphanedPairs hides any active pair referencing an asset outside
// the eligible set, even when the pair key itself is still present.
func (s *catalogSyncService) deactivateOrphanedPairs(ctx context.Context, eligibleKeys []string) error {
	eligible := make(map[string]bool, len(eligibleKeys))
	for _, k := range eligibleKeys {
		eligible[k] = true
	}

	active, err := s.pairRepo.GetActive(ctx, nil)
	if err != nil {
		return fmt.Errorf("load active pairs: %w", err)
	}
	var orphaned []string
	for _, p := range active {
		left, right, err := p.Sides()
		if err != nil {
			s.log.Warn("undecodable pair sides, deactivating", "pair_key", p.PairKey, "error", err)
			orphaned = append(orphaned, p.PairKey)
			continue
		}
		for _, k := range append(left, right...) {
			if !eligible[k] {
				orphaned = append(orphaned, p.PairKey)
				break
			}
		}
	}
	if len(orphaned) == 0 {
		return nil
	}
	n, err := s.pairRepo.DeactivateByPairKeys(ctx, nil, orphaned)
	if err != nil {
		return fmt.Errorf("deactivate orphaned pairs: %w", err)
	}
	s.log.Info("deactivated pairs with ineligible sides", "count", n)
	return nil
}
