package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	redisclient "github.com/darknesspwnsu/tppcnomics-analytics/internal/clients/redis"
	"github.com/darknesspwnsu/tppcnomics-analytics/internal/data/repos/catalog"
	"github.com/darknesspwnsu/tppcnomics-analytics/internal/data/repos/votes"
	"github.com/darknesspwnsu/tppcnomics-analytics/internal/logger"
)

const leaderboardCacheTTL = 30 * time.Second

// LeaderboardEntry is one ranked asset snapshot.
type LeaderboardEntry struct {
	Key        string  `json:"key"`
	Label      string  `json:"label"`
	Tier       string  `json:"tier"`
	Elo        float64 `json:"elo"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	Ties       int     `json:"ties"`
	PollsCount int     `json:"polls_count"`
}

type LeaderboardService interface {
	TopAssets(ctx context.Context, limit int) ([]LeaderboardEntry, error)
}

type leaderboardService struct {
	log       *logger.Logger
	scoreRepo votes.AssetScoreRepo
	assetRepo catalog.AssetRepo
	recency   redisclient.RecencyStore
}

func NewLeaderboardService(
	log *logger.Logger,
	scoreRepo votes.AssetScoreRepo,
	assetRepo catalog.AssetRepo,
	recency redisclient.RecencyStore,
) LeaderboardService {
	return &leaderboardService{
		log:       log.With("service", "LeaderboardService"),
		scoreRepo: scoreRepo,
		assetRepo: assetRepo,
		recency:   recency,
	}
}

// TopAssets returns the highest-rated assets. Snapshots are cached briefly;
// a stale-by-a-few-votes ranking is acceptable here.
func (ls *leaderboardService) TopAssets(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	cacheKey := fmt.Sprintf("top:%d", limit)

	if ls.recency != nil {
		if payload, ok, err := ls.recency.GetCachedLeaderboard(ctx, cacheKey); err == nil && ok {
			var entries []LeaderboardEntry
			if err := json.Unmarshal([]byte(payload), &entries); err == nil {
				return entries, nil
			}
		}
	}

	scores, err := ls.scoreRepo.TopByElo(ctx, nil, limit)
	if err != nil {
		return nil, fmt.Errorf("load top scores: %w", err)
	}
	assetIDs := make([]uuid.UUID, 0, len(scores))
	for _, s := range scores {
		assetIDs = append(assetIDs, s.AssetID)
	}
	assets, err := ls.assetRepo.GetByIDs(ctx, nil, assetIDs)
	if err != nil {
		return nil, fmt.Errorf("load assets: %w", err)
	}
	labelByID := make(map[uuid.UUID]int, len(assets))
	for i, a := range assets {
		labelByID[a.ID] = i
	}

	entries := make([]LeaderboardEntry, 0, len(scores))
	for _, s := range scores {
		i, ok := labelByID[s.AssetID]
		if !ok {
			continue
		}
		a := assets[i]
		entries = append(entries, LeaderboardEntry{
			Key:        a.Key,
			Label:      a.Label,
			Tier:       a.Tier,
			Elo:        s.Elo,
			Wins:       s.Wins,
			Losses:     s.Losses,
			Ties:       s.Ties,
			PollsCount: s.PollsCount,
		})
	}

	if ls.recency != nil {
		if payload, err := json.Marshal(entries); err == nil {
			if err := ls.recency.SetCachedLeaderboard(ctx, cacheKey, string(payload), leaderboardCacheTTL); err != nil {
				ls.log.Warn("failed to cache leaderboard", "error", err)
			}
		}
	}
	return entries, nil
}
