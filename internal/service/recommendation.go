// Package service runs a recommendation request end to end: algorithm
// selection, scoring, enrichment, caching and history. It is shared by the
// HTTP API and the Zeebe worker.
package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"business-recommender/internal/common/errors"
	"business-recommender/internal/common/logger"
	"business-recommender/internal/common/metrics"
	"business-recommender/internal/common/observability"
	"business-recommender/internal/enrichment"
	"business-recommender/internal/history"
	"business-recommender/internal/models"
	"business-recommender/internal/recommender"
)

// Request sources, used as a metric attribute.
const (
	SourceHTTP   = "http"
	SourceWorker = "worker"
)

// Cache is the optional recommendation cache. Implementations must swallow
// their own failures.
type Cache interface {
	Key(algorithm string, k int, catalogVersion string, profile models.NormalizedProfile) string
	Get(ctx context.Context, key string) ([]models.Recommendation, bool)
	Set(ctx context.Context, key string, recs []models.Recommendation)
}

// HistoryStore is the optional recommendation history.
type HistoryStore interface {
	Insert(ctx context.Context, rec history.Record) (history.Record, error)
	List(ctx context.Context, limit int) ([]history.Record, error)
}

type Config struct {
	DefaultAlgorithm    recommender.Algorithm
	TopK                int
	QuickTopK           int
	HistoryDefaultLimit int
	HistoryMaxLimit     int
}

type Dependencies struct {
	Engines       []*recommender.Engine
	Enrichment    *enrichment.Store
	Cache         Cache
	History       HistoryStore
	Observability *observability.Observability
	Logger        logger.Logger
}

// Request is one recommendation request. K <= 0 selects the configured TopK.
type Request struct {
	Profile   models.UserProfile
	Algorithm string
	UserID    string
	K         int
	Source    string
}

type Response struct {
	Recommendations []models.Recommendation `json:"recommendations"`
	Algorithm       models.AlgorithmInfo    `json:"algorithm"`
	Fallback        bool                    `json:"fallback"`
	Cached          bool                    `json:"-"`
}

type RecommendationService struct {
	cfg        Config
	engines    map[recommender.Algorithm]*recommender.Engine
	enrichment *enrichment.Store
	cache      Cache
	history    HistoryStore
	obs        *observability.Observability
	logger     logger.Logger
}

func New(cfg Config, deps Dependencies) (*RecommendationService, error) {
	if len(deps.Engines) == 0 {
		return nil, fmt.Errorf("service: at least one engine is required")
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNoOpLogger()
	}
	if deps.Enrichment == nil {
		deps.Enrichment = enrichment.Empty()
	}

	engines := make(map[recommender.Algorithm]*recommender.Engine, len(deps.Engines))
	for _, e := range deps.Engines {
		engines[e.Algorithm()] = e
	}
	if cfg.DefaultAlgorithm == "" {
		cfg.DefaultAlgorithm = recommender.AlgorithmRule
	}
	if _, ok := engines[cfg.DefaultAlgorithm]; !ok {
		return nil, fmt.Errorf("service: no engine for default algorithm %q", cfg.DefaultAlgorithm)
	}
	if cfg.TopK <= 0 {
		cfg.TopK = 5
	}
	if cfg.QuickTopK <= 0 {
		cfg.QuickTopK = 3
	}
	if cfg.HistoryDefaultLimit <= 0 {
		cfg.HistoryDefaultLimit = 20
	}
	if cfg.HistoryMaxLimit < cfg.HistoryDefaultLimit {
		cfg.HistoryMaxLimit = cfg.HistoryDefaultLimit
	}

	return &RecommendationService{
		cfg:        cfg,
		engines:    engines,
		enrichment: deps.Enrichment,
		cache:      deps.Cache,
		history:    deps.History,
		obs:        deps.Observability,
		logger:     deps.Logger.WithFields(map[string]interface{}{"component": "recommendation-service"}),
	}, nil
}

func (s *RecommendationService) engine(name string) (*recommender.Engine, error) {
	algorithm, ok := recommender.ParseAlgorithm(name, s.cfg.DefaultAlgorithm)
	if !ok {
		return nil, errors.NewInvalidAlgorithmError(name)
	}
	e, ok := s.engines[algorithm]
	if !ok {
		return nil, errors.NewInvalidAlgorithmError(name)
	}
	return e, nil
}

// ==========================
// Recommend
// ==========================

// Recommend returns up to K enriched recommendations. Cache and history
// failures are logged and never returned.
func (s *RecommendationService) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	source := req.Source
	if source == "" {
		source = SourceHTTP
	}

	e, err := s.engine(req.Algorithm)
	if err != nil {
		s.record(ctx, source, req.Algorithm, "invalid", start, 0)
		return nil, err
	}
	algorithm := e.Algorithm()

	k := req.K
	if k <= 0 {
		k = s.cfg.TopK
	}

	if err := ctx.Err(); err != nil {
		s.record(ctx, source, string(algorithm), "timeout", start, 0)
		return nil, errors.NewRecommendationTimeoutError(err)
	}

	log := s.logger.WithFields(map[string]interface{}{
		"algorithm": string(algorithm),
		"source":    source,
		"k":         k,
	})

	normalized := req.Profile.Normalize()
	var cacheKey string
	if s.cache != nil {
		cacheKey = s.cache.Key(string(algorithm), k, e.Catalog().Version(), normalized)
		if recs, ok := s.cache.Get(ctx, cacheKey); ok {
			resp := &Response{
				Recommendations: recs,
				Algorithm:       algorithm.Info(),
				Fallback:        len(recs) > 0 && recs[0].Fallback,
				Cached:          true,
			}
			log.Debug("recommendations served from cache", map[string]interface{}{"count": len(recs)})
			s.finish(ctx, req, source, algorithm, resp, start)
			return resp, nil
		}
	}

	result := e.Recommend(req.Profile, k)
	recs := s.enrich(e, result)

	if len(recs) == 0 {
		log.Warn("no candidates survived ranking", map[string]interface{}{
			"businessType": string(normalized.BusinessType),
		})
	}

	if s.cache != nil {
		s.cache.Set(ctx, cacheKey, recs)
	}

	resp := &Response{
		Recommendations: recs,
		Algorithm:       algorithm.Info(),
		Fallback:        result.Fallback,
	}

	log.Info("recommendations generated", map[string]interface{}{
		"count":          len(recs),
		"fallback":       result.Fallback,
		"catalogVersion": result.CatalogVersion,
	})

	s.finish(ctx, req, source, algorithm, resp, start)
	return resp, nil
}

func (s *RecommendationService) enrich(e *recommender.Engine, result recommender.Result) []models.Recommendation {
	recs := make([]models.Recommendation, 0, len(result.Candidates))
	for _, c := range result.Candidates {
		b, ok := e.Catalog().Get(c.BusinessID)
		if !ok {
			continue
		}
		rec := s.enrichment.Join(b)
		rec.ConfidenceScore = c.Confidence
		rec.Score = c.RawScore
		rec.MLScore = c.StatisticalScore
		rec.Fallback = c.Fallback
		recs = append(recs, rec)
	}
	return recs
}

func (s *RecommendationService) finish(ctx context.Context, req Request, source string, algorithm recommender.Algorithm, resp *Response, start time.Time) {
	metrics.RecommendationsServed.WithLabelValues(string(algorithm), strconv.FormatBool(resp.Fallback)).Inc()
	s.record(ctx, source, string(algorithm), "success", start, len(resp.Recommendations))

	if s.history == nil {
		return
	}
	_, err := s.history.Insert(ctx, history.Record{
		UserID:    req.UserID,
		UserInput: req.Profile,
		Algorithm: string(algorithm),
		Results:   resp.Recommendations,
	})
	if err != nil {
		metrics.HistoryWriteFailures.Inc()
		s.logger.WithError(errors.NewHistoryWriteFailedError(err)).Warn("failed to store recommendation history", map[string]interface{}{
			"algorithm": string(algorithm),
		})
	}
}

func (s *RecommendationService) record(ctx context.Context, source, algorithm, status string, start time.Time, returned int) {
	if s.obs == nil {
		return
	}
	s.obs.RecordRecommendation(ctx, source, algorithm, status, time.Since(start), returned)
}

// ==========================
// Quick recommend
// ==========================

// QuickRecommend returns QuickTopK reduced recommendations without
// enrichment, caching or history.
func (s *RecommendationService) QuickRecommend(ctx context.Context, profile models.UserProfile, algorithmName string) ([]models.QuickRecommendation, error) {
	start := time.Now()

	e, err := s.engine(algorithmName)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.NewRecommendationTimeoutError(err)
	}

	result := e.Recommend(profile, s.cfg.QuickTopK)

	out := make([]models.QuickRecommendation, 0, len(result.Candidates))
	for _, c := range result.Candidates {
		b, ok := e.Catalog().Get(c.BusinessID)
		if !ok {
			continue
		}
		out = append(out, models.QuickRecommendation{
			ID:              b.ID,
			Name:            b.Name,
			BusinessType:    b.Category,
			Score:           c.RawScore,
			ConfidenceScore: c.Confidence,
		})
	}

	metrics.RecommendationsServed.WithLabelValues(string(e.Algorithm()), strconv.FormatBool(result.Fallback)).Inc()
	s.record(ctx, "quick", string(e.Algorithm()), "success", start, len(out))
	return out, nil
}

// ==========================
// History
// ==========================

// HistoryEnabled reports whether a history store is configured.
func (s *RecommendationService) HistoryEnabled() bool {
	return s.history != nil
}

// History lists recent records. limit <= 0 selects the default; larger
// values are capped at the configured maximum.
func (s *RecommendationService) History(ctx context.Context, limit int) ([]history.Record, error) {
	if s.history == nil {
		return nil, errors.NewHistoryDisabledError()
	}
	if limit <= 0 {
		limit = s.cfg.HistoryDefaultLimit
	}
	if limit > s.cfg.HistoryMaxLimit {
		limit = s.cfg.HistoryMaxLimit
	}

	records, err := s.history.List(ctx, limit)
	if err != nil {
		return nil, errors.NewHistoryReadFailedError(err)
	}
	return records, nil
}
