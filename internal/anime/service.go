package anime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const trendingKeyPrefix = "anime:trending"

// Catalog is the upstream lookup surface the service depends on.
type Catalog interface {
	Search(ctx context.Context, query string, page, perPage int) (Page, error)
	Trending(ctx context.Context, page, perPage int) (Page, error)
	Detail(ctx context.Context, id int) (Anime, error)
}

// Service fronts the catalog with a Redis cache for the trending listing.
// Search and detail lookups always go upstream.
type Service struct {
	catalog     Catalog
	redis       *redis.Client
	logger      *slog.Logger
	trendingTTL time.Duration
}

// NewService constructs a Service. A nil redis client disables caching.
func NewService(catalog Catalog, rdb *redis.Client, logger *slog.Logger, trendingTTL time.Duration) *Service {
	if trendingTTL <= 0 {
		trendingTTL = 10 * time.Minute
	}
	return &Service{catalog: catalog, redis: rdb, logger: logger, trendingTTL: trendingTTL}
}

// Search proxies a catalog search.
func (s *Service) Search(ctx context.Context, query string, page, perPage int) (Page, error) {
	return s.catalog.Search(ctx, query, page, perPage)
}

// Detail proxies a catalog detail lookup.
func (s *Service) Detail(ctx context.Context, id int) (Anime, error) {
	return s.catalog.Detail(ctx, id)
}

// Trending serves the trending listing from Redis when fresh, falling back
// to the upstream catalog and repopulating the cache on a miss. Cache
// failures degrade to upstream reads, never to request failures.
func (s *Service) Trending(ctx context.Context, page, perPage int) (Page, error) {
	key := s.trendingKey(page, perPage)
	if s.redis != nil {
		cached, err := s.redis.Get(ctx, key).Bytes()
		if err == nil {
			var result Page
			if err := json.Unmarshal(cached, &result); err == nil {
				return result, nil
			}
		} else if err != redis.Nil && s.logger != nil {
			s.logger.Warn("trending cache read", slog.Any("error", err))
		}
	}

	result, err := s.catalog.Trending(ctx, page, perPage)
	if err != nil {
		return Page{}, err
	}
	s.storeTrending(ctx, key, result)
	return result, nil
}

// WarmTrending refreshes the first trending page in the cache. Called by
// the background warmup job.
func (s *Service) WarmTrending(ctx context.Context, perPage int) error {
	result, err := s.catalog.Trending(ctx, 1, perPage)
	if err != nil {
		return err
	}
	s.storeTrending(ctx, s.trendingKey(1, perPage), result)
	return nil
}

func (s *Service) storeTrending(ctx context.Context, key string, result Page) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, data, s.trendingTTL).Err(); err != nil && s.logger != nil {
		s.logger.Warn("trending cache write", slog.Any("error", err))
	}
}

func (s *Service) trendingKey(page, perPage int) string {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 || perPage > 50 {
		perPage = 20
	}
	return fmt.Sprintf("%s:%d:%d", trendingKeyPrefix, page, perPage)
}
