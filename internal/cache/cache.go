// Package cache memoizes enriched recommendation lists in Redis. Lookups are
// best effort: any Redis failure is logged and treated as a miss.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"business-recommender/internal/common/config"
	apperrors "business-recommender/internal/common/errors"
	"business-recommender/internal/common/logger"
	"business-recommender/internal/common/metrics"
	"business-recommender/internal/models"
)

const (
	DefaultTTL       = 10 * time.Minute
	DefaultKeyPrefix = "recommend"
)

// RecommendationCache stores []models.Recommendation as JSON under a key
// derived from the request.
type RecommendationCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
	logger logger.Logger
}

func New(client *redis.Client, cfg config.CacheConfig, log logger.Logger) *RecommendationCache {
	ttl := time.Duration(cfg.TTL) * time.Second
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RecommendationCache{
		client: client,
		ttl:    ttl,
		prefix: prefix,
		logger: log.WithFields(map[string]interface{}{"component": "recommendation-cache"}),
	}
}

// Key identifies one request: algorithm, k, catalog version and a digest of
// the normalized profile. Skill order does not change the key.
func (c *RecommendationCache) Key(algorithm string, k int, catalogVersion string, profile models.NormalizedProfile) string {
	return fmt.Sprintf("%s:%s:%d:%s:%s", c.prefix, algorithm, k, catalogVersion, profileDigest(profile))
}

func profileDigest(profile models.NormalizedProfile) string {
	skills := append([]string(nil), profile.Skills...)
	sort.Strings(skills)

	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%s|%t|%s",
		profile.Experience, profile.Location, profile.Education,
		profile.BusinessType, profile.Team, strings.Join(skills, "\x1f"))
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached list. Misses, Redis errors and undecodable entries all
// report false.
func (c *RecommendationCache) Get(ctx context.Context, key string) ([]models.Recommendation, bool) {
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.RecommendationCacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
	if err != nil {
		metrics.RecommendationCacheLookups.WithLabelValues("error").Inc()
		c.unavailable("cache read failed", key, err)
		return nil, false
	}

	var recs []models.Recommendation
	if err := json.Unmarshal(val, &recs); err != nil {
		metrics.RecommendationCacheLookups.WithLabelValues("error").Inc()
		c.logger.Warn("discarding undecodable cache entry", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return nil, false
	}

	metrics.RecommendationCacheLookups.WithLabelValues("hit").Inc()
	return recs, true
}

// Set stores recs for the configured TTL. Failures are logged only.
func (c *RecommendationCache) Set(ctx context.Context, key string, recs []models.Recommendation) {
	data, err := json.Marshal(recs)
	if err != nil {
		c.logger.Warn("cache encode failed", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.unavailable("cache write failed", key, err)
	}
}

func (c *RecommendationCache) unavailable(msg, key string, err error) {
	stdErr := apperrors.NewCacheUnavailableError(err)
	c.logger.Warn(msg, map[string]interface{}{
		"key":   key,
		"code":  string(stdErr.Code),
		"error": stdErr.Details,
	})
}
