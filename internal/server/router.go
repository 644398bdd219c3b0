package server

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/darknesspwnsu/tppcnomics-analytics/internal/handlers"
	"github.com/darknesspwnsu/tppcnomics-analytics/internal/logger"
	"github.com/darknesspwnsu/tppcnomics-analytics/internal/middleware"
)

type RouterConfig struct {
	Log                *logger.Logger
	VisitorMiddleware  *middleware.VisitorMiddleware
	MatchupHandler     *handlers.MatchupHandler
	VoteHandler        *handlers.VoteHandler
	LeaderboardHandler *handlers.LeaderboardHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("tppcnomics-analytics"))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestLogger(cfg.Log))

	router.GET("/healthz", handlers.HealthCheck)

	api := router.Group("/api/v1")
	api.Use(cfg.VisitorMiddleware.Identify())
	{
		api.GET("/matchup", cfg.MatchupHandler.Get)
		api.POST("/votes", cfg.VoteHandler.Create)
		api.GET("/leaderboard", cfg.LeaderboardHandler.Get)
	}

	return router
}
