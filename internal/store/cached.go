package store

import (
	"context"

	"github.com/wonny/briefing/internal/contracts"
	"github.com/wonny/briefing/pkg/redis"
)

// CachedSource puts a Redis JSON cache in front of another source.
// With a disabled cache every call passes through.
type CachedSource struct {
	next  Source
	cache *redis.Cache
}

// NewCachedSource wraps next with cache
func NewCachedSource(next Source, cache *redis.Cache) *CachedSource {
	return &CachedSource{next: next, cache: cache}
}

// Dates lists ranking dates
func (s *CachedSource) Dates(ctx context.Context) ([]string, error) {
	return redis.GetOrSet(ctx, s.cache, redis.DatesKey(), redis.TTLShort, func() ([]string, error) {
		return s.next.Dates(ctx)
	})
}

// WebCacheDates lists web cache dates
func (s *CachedSource) WebCacheDates(ctx context.Context) ([]string, error) {
	return redis.GetOrSet(ctx, s.cache, redis.WebCacheKey("dates"), redis.TTLShort, func() ([]string, error) {
		return s.next.WebCacheDates(ctx)
	})
}

// Ranking loads a ranking snapshot. Past snapshots never change.
func (s *CachedSource) Ranking(ctx context.Context, date string) (*contracts.RankingSnapshot, error) {
	return redis.GetOrSet(ctx, s.cache, redis.RankingKey(date), redis.TTLDaily, func() (*contracts.RankingSnapshot, error) {
		return s.next.Ranking(ctx, date)
	})
}

// WebCache loads a web cache document
func (s *CachedSource) WebCache(ctx context.Context, date string) (*contracts.WebCache, error) {
	return redis.GetOrSet(ctx, s.cache, redis.WebCacheKey(date), redis.TTLMedium, func() (*contracts.WebCache, error) {
		return s.next.WebCache(ctx, date)
	})
}

// Invalidate drops every cached entry
func (s *CachedSource) Invalidate(ctx context.Context) (int, error) {
	return s.cache.Flush(ctx)
}
