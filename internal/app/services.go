package app

import (
	"fmt"

	"gorm.io/gorm"

	redisclient "github.com/darknesspwnsu/tppcnomics-analytics/internal/clients/redis"
	"github.com/darknesspwnsu/tppcnomics-analytics/internal/logger"
	"github.com/darknesspwnsu/tppcnomics-analytics/internal/seedcat"
	"github.com/darknesspwnsu/tppcnomics-analytics/internal/services"
)

type Services struct {
	CatalogSync services.CatalogSyncService
	Selector    services.MatchupSelectorService
	Vote        services.VoteService
	Leaderboard services.LeaderboardService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, recency redisclient.RecencyStore) (Services, error) {
	genCfg, err := seedcat.LoadGeneratorConfig(cfg.GeneratorConfigPath)
	if err != nil {
		return Services{}, fmt.Errorf("load generator config: %w", err)
	}

	var source seedcat.Source
	if cfg.SeedPath != "" {
		source = seedcat.NewFileSource(cfg.SeedPath)
	} else {
		source = seedcat.DefaultSource()
	}

	return Services{
		CatalogSync: services.NewCatalogSyncService(log, source, genCfg, repos.Asset, repos.VotingPair, repos.IngestionCursor),
		Selector:    services.NewMatchupSelectorService(log, repos.VotingPair, repos.VoteEvent, recency),
		Vote:        services.NewVoteService(db, log, repos.VotingPair, repos.Asset, repos.AssetScore, repos.VoteEvent, repos.Voter, recency, cfg.MinVotes),
		Leaderboard: services.NewLeaderboardService(log, repos.AssetScore, repos.Asset, recency),
	}, nil
}
