package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/placement-cell-api/pkg/errors"
)

// Cache keys. Everything derived from the ledger or round matrices lives under
// statsKeyPattern so a single invalidation clears it.
const (
	statsKeyPattern      = "stats:*"
	cacheKeyDashboard    = "stats:dashboard"
	cacheKeyGlobal       = "stats:global"
	cacheKeyFunnels      = "stats:funnels"
	cacheKeyPerformance  = "stats:performance"
	cacheKeyAllStudents  = "stats:all_students"
	cacheKeyRecruiters   = "stats:recruiters"
	cacheKeyCompanies    = "stats:companies"
	cacheKeyStudentsList = "stats:students"
)

// CacheRepository abstracts persistence for cached payloads.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CacheService wraps the statistics cache and records hit/miss metrics.
type CacheService struct {
	repo       CacheRepository
	metrics    *MetricsService
	defaultTTL time.Duration
	logger     *zap.Logger
	enabled    bool
}

// NewCacheService constructs a cache service.
func NewCacheService(repo CacheRepository, metrics *MetricsService, defaultTTL time.Duration, logger *zap.Logger, enabled bool) *CacheService {
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{repo: repo, metrics: metrics, defaultTTL: defaultTTL, logger: logger, enabled: enabled}
}

// Enabled indicates whether caching is active.
func (s *CacheService) Enabled() bool {
	return s != nil && s.enabled && s.repo != nil
}

// Get loads a cached entry into dest and reports whether it was a hit. Backend
// failures are logged and treated as misses so callers fall back to computing.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) bool {
	if !s.Enabled() {
		return false
	}
	start := time.Now()
	err := s.repo.Get(ctx, key, dest)
	s.metrics.RecordCacheOperation(err == nil, time.Since(start))
	if err != nil && !errors.Is(err, appErrors.ErrCacheMiss) {
		s.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
	}
	return err == nil
}

// Set stores the value using the default TTL when ttl is not positive.
func (s *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if !s.Enabled() {
		return
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	start := time.Now()
	err := s.repo.Set(ctx, key, value, ttl)
	s.metrics.ObserveCacheWrite(time.Since(start))
	if err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate removes cached values matching pattern.
func (s *CacheService) Invalidate(ctx context.Context, pattern string) error {
	if !s.Enabled() {
		return nil
	}
	if err := s.repo.DeleteByPattern(ctx, pattern); err != nil {
		s.logger.Warn("cache invalidate failed", zap.String("pattern", pattern), zap.Error(err))
		return err
	}
	return nil
}

// InvalidateStats drops every cached statistic. Called after ledger mutations
// and source reloads.
func (s *CacheService) InvalidateStats(ctx context.Context) error {
	return s.Invalidate(ctx, statsKeyPattern)
}

// cached is the read-through helper used by the statistics services.
func cached[T any](ctx context.Context, cache *CacheService, key string, compute func(context.Context) (T, error)) (T, bool, error) {
	var out T
	if cache.Get(ctx, key, &out) {
		return out, true, nil
	}
	out, err := compute(ctx)
	if err != nil {
		return out, false, err
	}
	cache.Set(ctx, key, out, 0)
	return out, false, nil
}
