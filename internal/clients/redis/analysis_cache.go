package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/clausewise/clausewise-backend/internal/logger"
	"github.com/clausewise/clausewise-backend/internal/types"
	"github.com/clausewise/clausewise-backend/internal/utils"
)

// AnalysisCache is a read-through cache for latest-analysis lookups.
// Misses return (nil, nil); every entry is invalidated when a new analysis
// run supersedes it.
type AnalysisCache interface {
	Get(ctx context.Context, documentID uuid.UUID) (*types.Analysis, error)
	Set(ctx context.Context, analysis *types.Analysis) error
	Invalidate(ctx context.Context, documentID uuid.UUID) error
	Close() error
}

type analysisCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// NewAnalysisCache connects using REDIS_ADDR. Callers treat a construction
// error as "cache disabled" rather than fatal.
func NewAnalysisCache(log *logger.Logger) (AnalysisCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ttlSeconds := utils.GetEnvAsInt("REDIS_ANALYSIS_TTL_SECONDS", 300, log)

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

	return &analysisCache{
		log: log.With("service", "RedisAnalysisCache"),
		rdb: rdb,
		ttl: time.Duration(ttlSeconds) * time.Second,
	}, nil
}

func cacheKey(documentID uuid.UUID) string {
	return "analysis:latest:" + documentID.String()
}

func (c *analysisCache) Get(ctx context.Context, documentID uuid.UUID) (*types.Analysis, error) {
	raw, err := c.rdb.Get(ctx, cacheKey(documentID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var analysis types.Analysis
	if err := json.Unmarshal(raw, &analysis); err != nil {
		c.log.Warn("Dropping undecodable cache entry", "document_id", documentID, "error", err)
		_ = c.rdb.Del(ctx, cacheKey(documentID)).Err()
		return nil, nil
	}
	return &analysis, nil
}

func (c *analysisCache) Set(ctx context.Context, analysis *types.Analysis) error {
	if analysis == nil {
		return nil
	}
	raw, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}
	return c.rdb.Set(ctx, cacheKey(analysis.DocumentID), raw, c.ttl).Err()
}

func (c *analysisCache) Invalidate(ctx context.Context, documentID uuid.UUID) error {
	return c.rdb.Del(ctx, cacheKey(documentID)).Err()
}

func (c *analysisCache) Close() error {
	return c.rdb.Close()
}
