package service

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric"

	"business-recommender/internal/catalog"
	"business-recommender/internal/common/errors"
	"business-recommender/internal/common/logger"
	"business-recommender/internal/common/observability"
	"business-recommender/internal/enrichment"
	"business-recommender/internal/history"
	"business-recommender/internal/models"
	"business-recommender/internal/recommender"
)

type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]models.Recommendation
	gets    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]models.Recommendation{}}
}

func (c *memoryCache) Key(algorithm string, k int, version string, profile models.NormalizedProfile) string {
	return algorithm + "|" + version + "|" + string(rune('0'+k)) + "|" + string(profile.Experience)
}

func (c *memoryCache) Get(_ context.Context, key string) ([]models.Recommendation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	recs, ok := c.entries[key]
	return recs, ok
}

func (c *memoryCache) Set(_ context.Context, key string, recs []models.Recommendation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = recs
}

type memoryHistory struct {
	mu        sync.Mutex
	records   []history.Record
	insertErr error
	listErr   error
	lastLimit int
}

func (h *memoryHistory) Insert(_ context.Context, rec history.Record) (history.Record, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.insertErr != nil {
		return history.Record{}, h.insertErr
	}
	h.records = append(h.records, rec)
	return rec, nil
}

func (h *memoryHistory) List(_ context.Context, limit int) ([]history.Record, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastLimit = limit
	if h.listErr != nil {
		return nil, h.listErr
	}
	return h.records, nil
}

func newTestService(t *testing.T, cache Cache, hist HistoryStore) *RecommendationService {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)

	rule, err := recommender.NewEngine(cat, recommender.AlgorithmRule, recommender.Options{TeamBonus: 1.1})
	require.NoError(t, err)
	ml, err := recommender.NewEngine(cat, recommender.AlgorithmML, recommender.Options{
		Statistical: recommender.FitSkillAffinityModel(cat),
	})
	require.NoError(t, err)

	store, err := enrichment.Default(logger.NewNoOpLogger())
	require.NoError(t, err)

	deps := Dependencies{
		Engines:       []*recommender.Engine{rule, ml},
		Enrichment:    store,
		Observability: observability.NewWithReader("test", metric.NewManualReader(), logger.NewNoOpLogger()),
		Logger:        logger.NewTestLogger(t),
	}
	if cache != nil {
		deps.Cache = cache
	}
	if hist != nil {
		deps.History = hist
	}

	svc, err := New(Config{DefaultAlgorithm: recommender.AlgorithmRule, TopK: 5, QuickTopK: 3, HistoryDefaultLimit: 20, HistoryMaxLimit: 100}, deps)
	require.NoError(t, err)
	return svc
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{}, Dependencies{})
	assert.Error(t, err)

	cat, err := catalog.Default()
	require.NoError(t, err)
	ml, err := recommender.NewEngine(cat, recommender.AlgorithmML, recommender.Options{})
	require.NoError(t, err)

	_, err = New(Config{DefaultAlgorithm: recommender.AlgorithmRule}, Dependencies{Engines: []*recommender.Engine{ml}})
	assert.Error(t, err)
}

func TestRecommend_EnrichedTailoring(t *testing.T) {
	svc := newTestService(t, nil, nil)

	resp, err := svc.Recommend(context.Background(), Request{
		Profile: models.UserProfile{Skills: []string{"sewing"}, Experience: "expert", Location: "rural", Education: "graduate"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Recommendations)

	top := resp.Recommendations[0]
	assert.Equal(t, "tailoring", top.ID)
	assert.Equal(t, "Tailoring", top.Name)
	assert.Equal(t, models.CategoryGoods, top.BusinessType)
	assert.Equal(t, 95, top.ConfidenceScore)
	assert.InDelta(t, 1.88, top.Score, 1e-9)
	assert.Nil(t, top.MLScore)
	assert.NotEmpty(t, top.Resources)
	assert.Equal(t, "40-60%", top.Financials.ProfitMargin)
	assert.Equal(t, models.DataSources, top.DataSources)
	assert.Equal(t, "Rule-based Algorithm", resp.Algorithm.Model)
	assert.False(t, resp.Fallback)
}

func TestRecommend_MLVariant(t *testing.T) {
	svc := newTestService(t, nil, nil)

	resp, err := svc.Recommend(context.Background(), Request{
		Profile:   models.UserProfile{Skills: []string{"sewing"}},
		Algorithm: "ml",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Recommendations)
	assert.Equal(t, "Machine Learning Model", resp.Algorithm.Model)
	assert.NotNil(t, resp.Recommendations[0].MLScore)
}

func TestRecommend_Fallback(t *testing.T) {
	svc := newTestService(t, nil, nil)

	resp, err := svc.Recommend(context.Background(), Request{
		Profile: models.UserProfile{Skills: []string{"nonexistent_skill_xyz"}},
	})
	require.NoError(t, err)
	assert.True(t, resp.Fallback)

	ids := make([]string, 0, len(resp.Recommendations))
	for _, r := range resp.Recommendations {
		ids = append(ids, r.ID)
		assert.True(t, r.Fallback)
		assert.Equal(t, 84, r.ConfidenceScore)
	}
	assert.Equal(t, []string{"tailoring", "cooking", "handicrafts"}, ids)
}

func goodsBusiness(id, skill string) models.BusinessProfile {
	return models.BusinessProfile{
		ID:              id,
		Category:        models.CategoryGoods,
		CanonicalSkills: []string{skill},
		LocationAffinity: map[models.LocationClass]float64{
			models.LocationUrban: 1, models.LocationSemiUrban: 1, models.LocationRural: 1,
		},
		ExperienceMultiplier: map[models.ExperienceLevel]float64{
			models.ExperienceNone: 0.5, models.ExperienceBeginner: 0.8,
			models.ExperienceIntermediate: 1.0, models.ExperienceExpert: 1.2,
		},
		EducationBonus: map[models.EducationLevel]float64{
			models.EducationNone: 0, models.EducationTenth: 0.1, models.EducationTwelfth: 0.2,
			models.EducationGraduate: 0.3, models.EducationPG: 0.4,
		},
	}
}

func TestRecommend_NoFallbackForFilterIsEmptySuccess(t *testing.T) {
	cat, err := catalog.New("custom", []models.BusinessProfile{
		goodsBusiness("tailoring", "sewing"),
		goodsBusiness("pottery", "pottery"),
	})
	require.NoError(t, err)
	rule, err := recommender.NewEngine(cat, recommender.AlgorithmRule, recommender.Options{})
	require.NoError(t, err)
	store, err := enrichment.Default(logger.NewNoOpLogger())
	require.NoError(t, err)

	svc, err := New(Config{DefaultAlgorithm: recommender.AlgorithmRule}, Dependencies{
		Engines:    []*recommender.Engine{rule},
		Enrichment: store,
		Logger:     logger.NewTestLogger(t),
	})
	require.NoError(t, err)

	resp, err := svc.Recommend(context.Background(), Request{
		Profile: models.UserProfile{Skills: []string{"welding"}, BusinessType: "service"},
	})
	require.NoError(t, err)
	assert.NotNil(t, resp.Recommendations)
	assert.Empty(t, resp.Recommendations)
	assert.False(t, resp.Fallback)
}

func TestRecommend_InvalidAlgorithm(t *testing.T) {
	svc := newTestService(t, nil, nil)

	_, err := svc.Recommend(context.Background(), Request{
		Profile:   models.UserProfile{Skills: []string{"sewing"}},
		Algorithm: "neural",
	})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidAlgorithm, errors.AsStandardError(err).Code)
}

func TestRecommend_CancelledContext(t *testing.T) {
	svc := newTestService(t, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Recommend(ctx, Request{Profile: models.UserProfile{Skills: []string{"sewing"}}})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeRecommendTimeout, errors.AsStandardError(err).Code)
}

func TestRecommend_UsesCache(t *testing.T) {
	cache := newMemoryCache()
	svc := newTestService(t, cache, nil)
	req := Request{Profile: models.UserProfile{Skills: []string{"cooking"}}}

	first, err := svc.Recommend(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Len(t, cache.entries, 1)

	second, err := svc.Recommend(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Recommendations, second.Recommendations)
	assert.Equal(t, 2, cache.gets)
}

func TestRecommend_WritesHistory(t *testing.T) {
	hist := &memoryHistory{}
	svc := newTestService(t, nil, hist)

	resp, err := svc.Recommend(context.Background(), Request{
		Profile:   models.UserProfile{Skills: []string{"teaching"}},
		Algorithm: "ml",
		UserID:    "user-1",
	})
	require.NoError(t, err)

	require.Len(t, hist.records, 1)
	rec := hist.records[0]
	assert.Equal(t, "user-1", rec.UserID)
	assert.Equal(t, "ml", rec.Algorithm)
	assert.Equal(t, []string{"teaching"}, rec.UserInput.Skills)
	assert.Equal(t, resp.Recommendations, rec.Results)
}

func TestRecommend_HistoryFailureIsNotSurfaced(t *testing.T) {
	hist := &memoryHistory{insertErr: stderrors.New("connection refused")}
	svc := newTestService(t, nil, hist)

	resp, err := svc.Recommend(context.Background(), Request{Profile: models.UserProfile{Skills: []string{"sewing"}}})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Recommendations)
}

func TestQuickRecommend(t *testing.T) {
	svc := newTestService(t, nil, nil)

	got, err := svc.QuickRecommend(context.Background(), models.UserProfile{
		Skills:       []string{"teaching", "communication"},
		BusinessType: "service",
	}, "")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "daycare", got[0].ID)
	assert.Equal(t, "Daycare", got[0].Name)
	assert.Equal(t, models.CategoryService, got[0].BusinessType)
	assert.Equal(t, 94, got[0].ConfidenceScore)

	_, err = svc.QuickRecommend(context.Background(), models.UserProfile{}, "neural")
	assert.Error(t, err)
}

func TestHistory(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		svc := newTestService(t, nil, nil)
		assert.False(t, svc.HistoryEnabled())

		_, err := svc.History(context.Background(), 10)
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeHistoryDisabled, errors.AsStandardError(err).Code)
	})

	t.Run("limits", func(t *testing.T) {
		hist := &memoryHistory{records: []history.Record{{Algorithm: "rule"}}}
		svc := newTestService(t, nil, hist)

		got, err := svc.History(context.Background(), 0)
		require.NoError(t, err)
		assert.Len(t, got, 1)
		assert.Equal(t, 20, hist.lastLimit)

		_, err = svc.History(context.Background(), 1000)
		require.NoError(t, err)
		assert.Equal(t, 100, hist.lastLimit)

		_, err = svc.History(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, 7, hist.lastLimit)
	})

	t.Run("read failure", func(t *testing.T) {
		hist := &memoryHistory{listErr: stderrors.New("timeout")}
		svc := newTestService(t, nil, hist)

		_, err := svc.History(context.Background(), 5)
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeHistoryReadFailed, errors.AsStandardError(err).Code)
	})
}
