package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	redisclient "github.com/darknesspwnsu/tppcnomics-analytics/internal/clients/redis"
	"github.com/darknesspwnsu/tppcnomics-analytics/internal/data/repos/catalog"
	"github.com/darknesspwnsu/tppcnomics-analytics/internal/data/repos/votes"
	types "github.com/darknesspwnsu/tppcnomics-analytics/internal/domain"
	"github.com/darknesspwnsu/tppcnomics-analytics/internal/logger"
	errs "github.com/darknesspwnsu/tppcnomics-analytics/internal/pkg/errors"
	"github.com/darknesspwnsu/tppcnomics-analytics/internal/rating"
)

// VoteReceipt is the committed outcome returned to the caller.
type VoteReceipt struct {
	VoteID     uuid.UUID `json:"vote_id"`
	XPGained   int       `json:"xp_gained"`
	StreakDays int       `json:"streak_days"`
	Side       string    `json:"side"`
}

type VoteService interface {
	RecordVote(ctx context.Context, visitorID string, pairID uuid.UUID, side string) (*VoteReceipt, error)
}

type voteService struct {
	db        *gorm.DB
	log       *logger.Logger
	pairRepo  catalog.VotingPairRepo
	assetRepo catalog.AssetRepo
	scoreRepo votes.AssetScoreRepo
	eventRepo votes.VoteEventRepo
	voterRepo votes.VoterRepo
	recency   redisclient.RecencyStore
	minVotes  int
	retry     RetryPolicy
}

func NewVoteService(
	db *gorm.DB,
	log *logger.Logger,
	pairRepo catalog.VotingPairRepo,
	assetRepo catalog.AssetRepo,
	scoreRepo votes.AssetScoreRepo,
	eventRepo votes.VoteEventRepo,
	voterRepo votes.VoterRepo,
	recency redisclient.RecencyStore,
	minVotes int,
) VoteService {
	if minVotes <= 0 {
		minVotes = 1
	}
	return &voteService{
		db:        db,
		log:       log.With("service", "VoteService"),
		pairRepo:  pairRepo,
		assetRepo: assetRepo,
		scoreRepo: scoreRepo,
		eventRepo: eventRepo,
		voterRepo: voterRepo,
		recency:   recency,
		minVotes:  minVotes,
		retry: RetryPolicy{
			MaxAttempts: 5,
			Retryable:   isSerializationConflict,
		},
	}
}

// RecordVote applies one vote atomically: voter progression, the immutable
// event record, and (for decisive votes) the rating update. The transaction
// runs at serializable isolation and is retried on serialization conflicts
// only; every other error aborts immediately.
func (vs *voteService) RecordVote(ctx context.Context, visitorID string, pairID uuid.UUID, side string) (*VoteReceipt, error) {
	if side != types.SideLeft && side != types.SideRight && side != types.SideSkip {
		return nil, fmt.Errorf("%w: side %q", errs.ErrInvalidVote, side)
	}
	if visitorID == "" {
		return nil, fmt.Errorf("%w: missing visitor id", errs.ErrInvalidVote)
	}

	pair, err := vs.pairRepo.GetByID(ctx, nil, pairID)
	if err != nil {
		return nil, fmt.Errorf("load pair: %w", err)
	}
	if pair == nil {
		return nil, fmt.Errorf("%w: pair %s", errs.ErrNotFound, pairID)
	}
	if !pair.Active {
		return nil, fmt.Errorf("%w: pair %s is inactive", errs.ErrInvalidVote, pairID)
	}
	leftKeys, rightKeys, err := pair.Sides()
	if err != nil {
		return nil, fmt.Errorf("decode pair sides: %w", err)
	}

	// Read-only snapshot outside the critical section. Progression is
	// recomputed from it; the increments inside the transaction stay additive
	// so a concurrent vote by the same visitor cannot lose an update.
	prior, err := vs.voterRepo.GetByVisitorID(ctx, nil, visitorID)
	if err != nil {
		return nil, fmt.Errorf("load voter: %w", err)
	}
	now := time.Now().UTC()
	streak, xpGain := computeProgression(prior, now)

	var voteID uuid.UUID
	attempt := func() error {
		return vs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := vs.voterRepo.ApplyProgress(ctx, tx, votes.VoterProgress{
				VisitorID:   visitorID,
				XPGained:    xpGain,
				StreakDays:  streak,
				LastVotedAt: now,
			}); err != nil {
				return fmt.Errorf("apply voter progress: %w", err)
			}

			event := &types.VoteEvent{
				ID:        uuid.New(),
				PairID:    pair.ID,
				PairKey:   pair.PairKey,
				VoterID:   visitorID,
				Side:      side,
				LeftKeys:  pair.LeftKeys,
				RightKeys: pair.RightKeys,
				CreatedAt: now,
			}
			switch side {
			case types.SideLeft:
				event.SelectedKeys = pair.LeftKeys
			case types.SideRight:
				event.SelectedKeys = pair.RightKeys
			}
			if err := vs.eventRepo.Create(ctx, tx, event); err != nil {
				return fmt.Errorf("append vote event: %w", err)
			}
			voteID = event.ID

			if side == types.SideSkip {
				return nil
			}
			return vs.applyRating(ctx, tx, leftKeys, rightKeys, side, now)
		}, &sql.TxOptions{Isolation: sql.LevelSerializable})
	}

	var lastErr error
	for attempts := 1; ; attempts++ {
		lastErr = attempt()
		if lastErr == nil {
			break
		}
		if !shouldRetry(vs.retry, attempts, lastErr) {
			if isSerializationConflict(lastErr) {
				return nil, fmt.Errorf("%w: %v", errs.ErrRetryExhausted, lastErr)
			}
			return nil, lastErr
		}
		delay := computeBackoff(vs.retry, attempts)
		vs.log.Warn("vote transaction conflict, retrying",
			"pair_id", pairID, "attempt", attempts, "backoff", delay)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	// Best-effort: feed the recency window so the selector avoids repeats.
	if vs.recency != nil {
		if err := vs.recency.PushRecentPair(ctx, visitorID, pair.ID); err != nil {
			vs.log.Warn("failed to push recent pair", "pair_id", pair.ID, "error", err)
		}
	}

	return &VoteReceipt{
		VoteID:     voteID,
		XPGained:   xpGain,
		StreakDays: streak,
		Side:       side,
	}, nil
}

// applyRating loads both sides' score rows inside the transaction, runs the
// rating engine, and persists the outcome. Counters are additive; the Elo
// value is an absolute write computed from the in-transaction read.
func (vs *voteService) applyRating(ctx context.Context, tx *gorm.DB, leftKeys, rightKeys []string, side string, now time.Time) error {
	votesLeft, votesRight := 0, 1
	if side == types.SideLeft {
		votesLeft, votesRight = 1, 0
	}

	allKeys := append(append([]string{}, leftKeys...), rightKeys...)
	assets, err := vs.assetRepo.GetByKeys(ctx, tx, allKeys)
	if err != nil {
		return fmt.Errorf("load side assets: %w", err)
	}
	assetByKey := make(map[string]*types.Asset, len(assets))
	for _, a := range assets {
		assetByKey[a.Key] = a
	}
	for _, k := range allKeys {
		if assetByKey[k] == nil {
			return fmt.Errorf("%w: asset %q referenced by pair", errs.ErrNotFound, k)
		}
	}

	assetIDs := make([]uuid.UUID, 0, len(allKeys))
	for _, k := range allKeys {
		assetIDs = append(assetIDs, assetByKey[k].ID)
	}
	if err := vs.scoreRepo.EnsureRows(ctx, tx, assetIDs); err != nil {
		return fmt.Errorf("ensure score rows: %w", err)
	}
	scores, err := vs.scoreRepo.GetByAssetIDs(ctx, tx, assetIDs)
	if err != nil {
		return fmt.Errorf("load scores: %w", err)
	}
	scoreByAsset := make(map[uuid.UUID]*types.AssetScore, len(scores))
	for _, s := range scores {
		scoreByAsset[s.AssetID] = s
	}

	ratingOf := func(key string) float64 {
		return scoreByAsset[assetByKey[key].ID].Elo
	}

	var (
		leftRatings  []float64
		rightRatings []float64
		result       rating.Result
		affects      bool
	)
	if len(leftKeys) == 1 && len(rightKeys) == 1 {
		up := rating.UpdateElo(ratingOf(leftKeys[0]), ratingOf(rightKeys[0]), votesLeft, votesRight, vs.minVotes)
		leftRatings = []float64{up.LeftRating}
		rightRatings = []float64{up.RightRating}
		result, affects = up.Result, up.AffectsScore
	} else {
		lr := make([]float64, len(leftKeys))
		for i, k := range leftKeys {
			lr[i] = ratingOf(k)
		}
		rr := make([]float64, len(rightKeys))
		for i, k := range rightKeys {
			rr[i] = ratingOf(k)
		}
		up := rating.UpdateTeamElo(lr, rr, votesLeft, votesRight, vs.minVotes)
		leftRatings = up.LeftRatings
		rightRatings = up.RightRatings
		result, affects = up.Result, up.AffectsScore
	}
	if !affects {
		return nil
	}

	persist := func(keys []string, newRatings []float64, won bool, votesFor, votesAgainst int) error {
		for i, k := range keys {
			outcome := votes.ScoreOutcome{
				AssetID:      assetByKey[k].ID,
				Elo:          newRatings[i],
				Won:          won && result != rating.ResultTie,
				Lost:         !won && result != rating.ResultTie,
				Tied:         result == rating.ResultTie,
				VotesFor:     votesFor,
				VotesAgainst: votesAgainst,
			}
			if err := vs.scoreRepo.ApplyVoteOutcome(ctx, tx, outcome, now); err != nil {
				return fmt.Errorf("apply score for %q: %w", k, err)
			}
		}
		return nil
	}
	if err := persist(leftKeys, leftRatings, result == rating.ResultLeft, votesLeft, votesRight); err != nil {
		return err
	}
	return persist(rightKeys, rightRatings, result == rating.ResultRight, votesRight, votesLeft)
}

// computeProgression applies the streak rules against UTC calendar days:
// last vote yesterday extends the streak, same day leaves it unchanged, any
// larger gap resets to 1. XP gain is 10 plus the streak capped at 7.
func computeProgression(prior *types.Voter, now time.Time) (streakDays, xpGain int) {
	streakDays = 1
	if prior != nil && prior.LastVotedAt != nil {
		today := now.UTC().Truncate(24 * time.Hour)
		lastDay := prior.LastVotedAt.UTC().Truncate(24 * time.Hour)
		switch today.Sub(lastDay) {
		case 0:
			if prior.StreakDays > 0 {
				streakDays = prior.StreakDays
			}
		case 24 * time.Hour:
			streakDays = prior.StreakDays + 1
		}
	}
	xp := streakDays
	if xp > 7 {
		xp = 7
	}
	return streakDays, 10 + xp
}

// isSerializationConflict matches postgres serialization_failure (40001) and
// deadlock_detected (40P01), the only error classes worth retrying.
func isSerializationConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
