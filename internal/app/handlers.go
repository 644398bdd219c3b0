package app

import (
	"github.com/darknesspwnsu/tppcnomics-analytics/internal/handlers"
	"github.com/darknesspwnsu/tppcnomics-analytics/internal/logger"
)

type Handlers struct {
	Matchup     *handlers.MatchupHandler
	Vote        *handlers.VoteHandler
	Leaderboard *handlers.LeaderboardHandler
}

func wireHandlers(log *logger.Logger, svcs Services) Handlers {
	return Handlers{
		Matchup:     handlers.NewMatchupHandler(log, svcs.Selector),
		Vote:        handlers.NewVoteHandler(log, svcs.Vote),
		Leaderboard: handlers.NewLeaderboardHandler(log, svcs.Leaderboard),
	}
}
