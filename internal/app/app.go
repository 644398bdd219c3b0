package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	redisclient "github.com/darknesspwnsu/tppcnomics-analytics/internal/clients/redis"
	"github.com/darknesspwnsu/tppcnomics-analytics/internal/db"
	"github.com/darknesspwnsu/tppcnomics-analytics/internal/logger"
	"github.com/darknesspwnsu/tppcnomics-analytics/internal/middleware"
	"github.com/darknesspwnsu/tppcnomics-analytics/internal/observability"
	"github.com/darknesspwnsu/tppcnomics-analytics/internal/server"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	recency  redisclient.RecencyStore
	otelStop func(context.Context) error
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	otelStop := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "tppcnomics-analytics",
		Environment: cfg.Environment,
	})

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	// Redis is optional: selection falls back to the vote log and the
	// leaderboard skips its cache when the store is unavailable.
	recency, err := redisclient.NewRecencyStore(log, cfg.ExclusionWindow)
	if err != nil {
		log.Warn("redis unavailable, running without recency cache", "error", err)
		recency = nil
	}

	reposet := wireRepos(theDB, log)
	serviceset, err := wireServices(theDB, log, cfg, reposet, recency)
	if err != nil {
		log.Sync()
		return nil, err
	}
	handlerset := wireHandlers(log, serviceset)

	visitorMW := middleware.NewVisitorMiddleware(log, cfg.JWTSecretKey, cfg.VisitorCookieTTL)
	router := server.NewRouter(server.RouterConfig{
		Log:                log,
		VisitorMiddleware:  visitorMW,
		MatchupHandler:     handlerset.Matchup,
		VoteHandler:        handlerset.Vote,
		LeaderboardHandler: handlerset.Leaderboard,
	})

	return &App{
		Log:      log,
		DB:       theDB,
		Router:   router,
		Cfg:      cfg,
		Repos:    reposet,
		Services: serviceset,
		recency:  recency,
		otelStop: otelStop,
	}, nil
}

// Start runs the catalog synchronizer once so the store is populated before
// the first request. Safe on every cold start.
func (a *App) Start(ctx context.Context) {
	if a == nil {
		return
	}
	if err := a.Services.CatalogSync.EnsureCatalogCurrent(ctx); err != nil {
		a.Log.Error("catalog synchronization failed", "error", err)
	}
}

func (a *App) Run(addr string) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.recency != nil {
		_ = a.recency.Close()
	}
	if a.otelStop != nil {
		_ = a.otelStop(context.Background())
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
