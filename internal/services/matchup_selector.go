package services

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	redisclient "github.com/darknesspwnsu/tppcnomics-analytics/internal/clients/redis"
	"github.com/darknesspwnsu/tppcnomics-analytics/internal/data/repos/catalog"
	"github.com/darknesspwnsu/tppcnomics-analytics/internal/data/repos/votes"
	types "github.com/darknesspwnsu/tppcnomics-analytics/internal/domain"
	"github.com/darknesspwnsu/tppcnomics-analytics/internal/logger"
	errs "github.com/darknesspwnsu/tppcnomics-analytics/internal/pkg/errors"
)

const (
	featuredWeight  = 2
	exclusionWindow = 20
)

type MatchupSelectorService interface {
	SelectMatchup(ctx context.Context, visitorID string, mode string, justShownID *uuid.UUID) (*types.VotingPair, error)
}

type matchupSelectorService struct {
	log       *logger.Logger
	pairRepo  catalog.VotingPairRepo
	eventRepo votes.VoteEventRepo
	recency   redisclient.RecencyStore
}

func NewMatchupSelectorService(
	log *logger.Logger,
	pairRepo catalog.VotingPairRepo,
	eventRepo votes.VoteEventRepo,
	recency redisclient.RecencyStore,
) MatchupSelectorService {
	return &matchupSelectorService{
		log:       log.With("service", "MatchupSelectorService"),
		pairRepo:  pairRepo,
		eventRepo: eventRepo,
		recency:   recency,
	}
}

// SelectMatchup returns one active eligible pair for the visitor. Featured
// pairs are twice as likely per row as normal ones. When the visitor's
// exclusion window eats the whole pool, selection retries without exclusions,
// so ErrNoMatchupAvailable means the store truly has zero eligible rows.
func (ms *matchupSelectorService) SelectMatchup(ctx context.Context, visitorID string, mode string, justShownID *uuid.UUID) (*types.VotingPair, error) {
	filter := catalog.PairFilter{Mode: mode}
	exclude := ms.exclusions(ctx, visitorID, justShownID)

	pair, err := ms.pick(ctx, filter, exclude)
	if err != nil {
		return nil, err
	}
	if pair == nil && len(exclude) > 0 {
		pair, err = ms.pick(ctx, filter, nil)
		if err != nil {
			return nil, err
		}
	}
	if pair == nil {
		return nil, errs.ErrNoMatchupAvailable
	}
	return pair, nil
}

func (ms *matchupSelectorService) pick(ctx context.Context, filter catalog.PairFilter, exclude []uuid.UUID) (*types.VotingPair, error) {
	var featuredCount, normalCount int64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		featuredCount, err = ms.pairRepo.CountEligible(gctx, nil, filter, true, exclude)
		return err
	})
	g.Go(func() error {
		var err error
		normalCount, err = ms.pairRepo.CountEligible(gctx, nil, filter, false, exclude)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("count eligible pairs: %w", err)
	}
	if featuredCount == 0 && normalCount == 0 {
		return nil, nil
	}

	weighted := featuredCount*featuredWeight + normalCount
	featured := rand.Int63n(weighted) < featuredCount*featuredWeight
	count := featuredCount
	if !featured {
		count = normalCount
	}
	if count == 0 {
		featured = !featured
		count = featuredCount + normalCount - count
	}

	offset := rand.Intn(int(count))
	pair, err := ms.pairRepo.GetEligibleAtOffset(ctx, nil, filter, featured, exclude, offset)
	if err != nil {
		return nil, fmt.Errorf("fetch eligible pair: %w", err)
	}
	return pair, nil
}

// exclusions merges the cached recent-pairs window with the explicit
// just-shown id. The vote log backs the cache up; selection proceeds with
// whatever it could get.
func (ms *matchupSelectorService) exclusions(ctx context.Context, visitorID string, justShownID *uuid.UUID) []uuid.UUID {
	var ids []uuid.UUID
	if ms.recency != nil {
		cached, err := ms.recency.RecentPairs(ctx, visitorID)
		if err != nil {
			ms.log.Warn("recent pairs cache unavailable", "error", err)
		} else {
			ids = cached
		}
	}
	if len(ids) == 0 && visitorID != "" {
		fromLog, err := ms.eventRepo.RecentPairIDsByVoter(ctx, nil, visitorID, exclusionWindow)
		if err != nil {
			ms.log.Warn("recent pairs lookup failed", "error", err)
		} else {
			ids = fromLog
		}
	}
	if justShownID != nil {
		ids = append(ids, *justShownID)
	}
	return ids
}
