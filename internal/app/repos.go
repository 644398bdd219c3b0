package app

import (
	"gorm.io/gorm"

	"github.com/darknesspwnsu/tppcnomics-analytics/internal/data/repos/catalog"
	"github.com/darknesspwnsu/tppcnomics-analytics/internal/data/repos/votes"
	"github.com/darknesspwnsu/tppcnomics-analytics/internal/logger"
)

type Repos struct {
	Asset           catalog.AssetRepo
	VotingPair      catalog.VotingPairRepo
	IngestionCursor catalog.IngestionCursorRepo
	AssetScore      votes.AssetScoreRepo
	VoteEvent       votes.VoteEventRepo
	Voter           votes.VoterRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		Asset:           catalog.NewAssetRepo(db, log),
		VotingPair:      catalog.NewVotingPairRepo(db, log),
		IngestionCursor: catalog.NewIngestionCursorRepo(db, log),
		AssetScore:      votes.NewAssetScoreRepo(db, log),
		VoteEvent:       votes.NewVoteEventRepo(db, log),
		Voter:           votes.NewVoterRepo(db, log),
	}
}
