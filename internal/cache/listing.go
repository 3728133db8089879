// internal/cache/listing.go

// Package cache holds the Redis-backed cache for the activity listing. The
// registry stays authoritative; a cold or unreachable cache only costs a
// registry snapshot.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "activities-service/internal/common/errors"
	"activities-service/internal/common/logger"
	"activities-service/internal/common/metrics"
	"activities-service/internal/registry"
)

const listingKey = "activities:listing:v1"

// Listing caches the serialized activity listing with a TTL.
type Listing struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

// NewListing creates a listing cache over an existing Redis client.
func NewListing(rdb *redis.Client, ttl time.Duration, log logger.Logger) *Listing {
	return &Listing{
		rdb:    rdb,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "listing-cache"}),
	}
}

// Get returns the cached listing, or ok=false on miss or cache failure.
func (l *Listing) Get(ctx context.Context) (map[string]registry.Activity, bool) {
	if l == nil || l.rdb == nil {
		return nil, false
	}

	val, err := l.rdb.Get(ctx, listingKey).Result()
	if err != nil {
		if err != redis.Nil {
			l.logger.WithError(apperrors.NewCacheUnavailableError(err)).Warn(
				"listing cache read failed", nil)
		}
		metrics.ListingCacheResults.WithLabelValues("miss").Inc()
		return nil, false
	}

	var listing map[string]registry.Activity
	if err := json.Unmarshal([]byte(val), &listing); err != nil {
		l.logger.WithError(err).Warn("listing cache entry corrupt, dropping", nil)
		_ = l.rdb.Del(ctx, listingKey).Err()
		metrics.ListingCacheResults.WithLabelValues("miss").Inc()
		return nil, false
	}

	metrics.ListingCacheResults.WithLabelValues("hit").Inc()
	return listing, true
}

// Set stores the listing snapshot with the configured TTL.
func (l *Listing) Set(ctx context.Context, listing map[string]registry.Activity) {
	if l == nil || l.rdb == nil {
		return
	}

	data, err := json.Marshal(listing)
	if err != nil {
		l.logger.WithError(err).Error("failed to serialize listing for cache", nil)
		return
	}

	if err := l.rdb.Set(ctx, listingKey, data, l.ttl).Err(); err != nil {
		l.logger.WithError(apperrors.NewCacheUnavailableError(err)).Warn(
			"listing cache write failed", nil)
	}
}

// Invalidate drops the cached listing. Called after every successful roster
// mutation so readers never see a stale roster beyond the in-flight request.
func (l *Listing) Invalidate(ctx context.Context) {
	if l == nil || l.rdb == nil {
		return
	}

	if err := l.rdb.Del(ctx, listingKey).Err(); err != nil {
		l.logger.WithError(apperrors.NewCacheUnavailableError(err)).Warn(
			"listing cache invalidation failed", nil)
	}
}
