package anime_test

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anitrack/anitrack/internal/anime"
)

type stubCatalog struct {
	page        anime.Page
	err         error
	trendingHit atomic.Int64
}

func (s *stubCatalog) Search(ctx context.Context, query string, page, perPage int) (anime.Page, error) {
	return s.page, s.err
}

func (s *stubCatalog) Trending(ctx context.Context, page, perPage int) (anime.Page, error) {
	s.trendingHit.Add(1)
	return s.page, s.err
}

func (s *stubCatalog) Detail(ctx context.Context, id int) (anime.Anime, error) {
	if s.err != nil {
		return anime.Anime{}, s.err
	}
	if len(s.page.Items) == 0 {
		return anime.Anime{}, errors.New("not found")
	}
	return s.page.Items[0], nil
}

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func samplePage() anime.Page {
	return anime.Page{
		Items:    []anime.Anime{{ID: 5114, Title: "Hagane no Renkinjutsushi", Episodes: 64}},
		PageInfo: anime.PageInfo{CurrentPage: 1, PerPage: 20, Total: 1, LastPage: 1},
	}
}

func TestTrendingCachesSecondRead(t *testing.T) {
	catalog := &stubCatalog{page: samplePage()}
	svc := anime.NewService(catalog, testRedis(t), slog.Default(), time.Minute)
	ctx := context.Background()

	first, err := svc.Trending(ctx, 1, 20)
	require.NoError(t, err)
	second, err := svc.Trending(ctx, 1, 20)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), catalog.trendingHit.Load(), "second read must come from cache")
}

func TestTrendingCacheKeyedByWindow(t *testing.T) {
	catalog := &stubCatalog{page: samplePage()}
	svc := anime.NewService(catalog, testRedis(t), slog.Default(), time.Minute)
	ctx := context.Background()

	_, err := svc.Trending(ctx, 1, 20)
	require.NoError(t, err)
	_, err = svc.Trending(ctx, 2, 20)
	require.NoError(t, err)

	assert.Equal(t, int64(2), catalog.trendingHit.Load(), "different pages never share a cache entry")
}

func TestTrendingExpiredEntryGoesUpstream(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	catalog := &stubCatalog{page: samplePage()}
	svc := anime.NewService(catalog, rdb, slog.Default(), time.Minute)
	ctx := context.Background()

	_, err := svc.Trending(ctx, 1, 20)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = svc.Trending(ctx, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), catalog.trendingHit.Load())
}

func TestTrendingWithoutRedisStillServes(t *testing.T) {
	catalog := &stubCatalog{page: samplePage()}
	svc := anime.NewService(catalog, nil, slog.Default(), time.Minute)

	page, err := svc.Trending(context.Background(), 1, 20)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
}

func TestTrendingUpstreamFailurePropagates(t *testing.T) {
	catalog := &stubCatalog{err: errors.New("upstream down")}
	svc := anime.NewService(catalog, testRedis(t), slog.Default(), time.Minute)

	_, err := svc.Trending(context.Background(), 1, 20)
	assert.Error(t, err)
}

func TestWarmTrendingPopulatesCache(t *testing.T) {
	catalog := &stubCatalog{page: samplePage()}
	svc := anime.NewService(catalog, testRedis(t), slog.Default(), time.Minute)
	ctx := context.Background()

	require.NoError(t, svc.WarmTrending(ctx, 20))

	_, err := svc.Trending(ctx, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), catalog.trendingHit.Load(), "warmed page must be served from cache")
}
