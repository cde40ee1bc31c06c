package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"business-recommender/internal/common/config"
	"business-recommender/internal/common/logger"
	"business-recommender/internal/models"
)

func newMiniredisCache(t *testing.T, cfg config.CacheConfig) (*RecommendationCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return New(client, cfg, logger.NewTestLogger(t)), mr
}

func sampleRecommendations() []models.Recommendation {
	return []models.Recommendation{
		{ID: "tailoring", Name: "Tailoring", BusinessType: models.CategoryGoods, ConfidenceScore: 90, Score: 1.88},
		{ID: "boutique", Name: "Boutique", BusinessType: models.CategoryGoods, ConfidenceScore: 90, Score: 1.2},
	}
}

func TestRecommendationCache_RoundTrip(t *testing.T) {
	c, mr := newMiniredisCache(t, config.CacheConfig{TTL: 60, KeyPrefix: "test"})
	ctx := context.Background()

	profile := models.UserProfile{Skills: []string{"sewing"}}.Normalize()
	key := c.Key("rule", 5, "2024.1", profile)

	_, ok := c.Get(ctx, key)
	assert.False(t, ok)

	c.Set(ctx, key, sampleRecommendations())

	got, ok := c.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, sampleRecommendations(), got)
	assert.Equal(t, 60*time.Second, mr.TTL(key))

	mr.FastForward(61 * time.Second)
	_, ok = c.Get(ctx, key)
	assert.False(t, ok)
}

func TestRecommendationCache_Key(t *testing.T) {
	c, _ := newMiniredisCache(t, config.CacheConfig{})

	a := models.UserProfile{Skills: []string{"sewing", "cooking"}}.Normalize()
	b := models.UserProfile{Skills: []string{"Cooking", "sewing"}}.Normalize()
	other := models.UserProfile{Skills: []string{"sewing", "cooking"}, Experience: "expert"}.Normalize()

	key := c.Key("rule", 5, "v1", a)
	assert.Contains(t, key, DefaultKeyPrefix+":rule:5:v1:")
	assert.Equal(t, key, c.Key("rule", 5, "v1", b))
	assert.NotEqual(t, key, c.Key("rule", 5, "v1", other))
	assert.NotEqual(t, key, c.Key("ml", 5, "v1", a))
	assert.NotEqual(t, key, c.Key("rule", 3, "v1", a))
	assert.NotEqual(t, key, c.Key("rule", 5, "v2", a))
}

func TestRecommendationCache_CorruptEntryIsMiss(t *testing.T) {
	c, mr := newMiniredisCache(t, config.CacheConfig{})
	require.NoError(t, mr.Set("recommend:bad", "{not json"))

	_, ok := c.Get(context.Background(), "recommend:bad")
	assert.False(t, ok)
}

func TestRecommendationCache_RedisErrors(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := New(client, config.CacheConfig{TTL: 30}, logger.NewTestLogger(t))
	ctx := context.Background()

	mock.ExpectGet("k").SetErr(errors.New("connection refused"))
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)

	data, err := json.Marshal(sampleRecommendations())
	require.NoError(t, err)
	mock.ExpectSet("k", data, 30*time.Second).SetErr(errors.New("connection refused"))
	assert.NotPanics(t, func() { c.Set(ctx, "k", sampleRecommendations()) })

	assert.NoError(t, mock.ExpectationsWereMet())
}
