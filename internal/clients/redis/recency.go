package redis

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/darknesspwnsu/tppcnomics-analytics/internal/logger"
)

// RecencyStore keeps the sliding window of pairs each visitor saw most
// recently. Everything here is best-effort: callers fall back to the vote
// log when the window is missing or Redis is down.
type RecencyStore interface {
	PushRecentPair(ctx context.Context, visitorID string, pairID uuid.UUID) error
	RecentPairs(ctx context.Context, visitorID string) ([]uuid.UUID, error)
	GetCachedLeaderboard(ctx context.Context, key string) (string, bool, error)
	SetCachedLeaderboard(ctx context.Context, key, payload string, ttl time.Duration) error
	Close() error
}

type recencyStore struct {
	log       *logger.Logger
	rdb       *goredis.Client
	window    int
	windowTTL time.Duration
}

func NewRecencyStore(log *logger.Logger, window int) (RecencyStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	if window <= 0 {
		window = 10
	}
	return &recencyStore{
		log:       log.With("service", "RedisRecencyStore"),
		rdb:       rdb,
		window:    window,
		windowTTL: 24 * time.Hour,
	}, nil
}

func recentPairsKey(visitorID string) string {
	return "matchup:recent:" + visitorID
}

func (s *recencyStore) PushRecentPair(ctx context.Context, visitorID string, pairID uuid.UUID) error {
	if s == nil || s.rdb == nil {
		return fmt.Errorf("recency store not initialized")
	}
	key := recentPairsKey(visitorID)
	pipe := s.rdb.Pipeline()
	pipe.LPush(ctx, key, pairID.String())
	pipe.LTrim(ctx, key, 0, int64(s.window-1))
	pipe.Expire(ctx, key, s.windowTTL)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *recencyStore) RecentPairs(ctx context.Context, visitorID string) ([]uuid.UUID, error) {
	if s == nil || s.rdb == nil {
		return nil, fmt.Errorf("recency store not initialized")
	}
	raw, err := s.rdb.LRange(ctx, recentPairsKey(visitorID), 0, int64(s.window-1)).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(raw))
	for _, v := range raw {
		id, err := uuid.Parse(v)
		if err != nil {
			s.log.Warn("bad recent pair entry", "visitor_id", visitorID, "value", v)
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *recencyStore) GetCachedLeaderboard(ctx context.Context, key string) (string, bool, error) {
	if s == nil || s.rdb == nil {
		return "", false, fmt.Errorf("recency store not initialized")
	}
	val, err := s.rdb.Get(ctx, "leaderboard:"+key).Result()
	if err == goredis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *recencyStore) SetCachedLeaderboard(ctx context.Context, key, payload string, ttl time.Duration) error {
	if s == nil || s.rdb == nil {
		return fmt.Errorf("recency store not initialized")
	}
	return s.rdb.Set(ctx, "leaderboard:"+key, payload, ttl).Err()
}

func (s *recencyStore) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}
