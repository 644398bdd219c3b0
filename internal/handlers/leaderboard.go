package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/darknesspwnsu/tppcnomics-analytics/internal/logger"
	"github.com/darknesspwnsu/tppcnomics-analytics/internal/services"
)

type LeaderboardHandler struct {
	log         *logger.Logger
	leaderboard services.LeaderboardService
}

func NewLeaderboardHandler(log *logger.Logger, leaderboard services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{
		log:         log.With("handler", "LeaderboardHandler"),
		leaderboard: leaderboard,
	}
}

func (h *LeaderboardHandler) Get(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))
	entries, err := h.leaderboard.TopAssets(c.Request.Context(), limit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, entries)
}
