// Package api exposes the recommendation service over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"business-recommender/internal/common/logger"
	"business-recommender/internal/common/validation"
	"business-recommender/internal/service"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

type Config struct {
	CORSOrigins    []string
	RequestTimeout time.Duration
	// Checks run on GET /ready, keyed by dependency name.
	Checks map[string]ReadinessCheck
}

type Server struct {
	service *service.RecommendationService
	schema  *validation.Schema
	cfg     Config
	logger  logger.Logger
}

func NewServer(svc *service.RecommendationService, cfg Config, log logger.Logger) *Server {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	return &Server{
		service: svc,
		schema:  validation.MustSchema(validation.RecommendationRequestSchema),
		cfg:     cfg,
		logger:  log.WithFields(map[string]interface{}{"component": "http-api"}),
	}
}

// Router builds the chi router with every route mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(corsMiddleware(s.cfg.CORSOrigins))
	r.Use(instrument(s.logger))
	r.Use(recoverJSON(s.logger))

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/recommend", s.handleRecommend)
	r.Route("/api", func(r chi.Router) {
		r.Post("/recommend", s.handleRecommend)
		r.Post("/recommend/quick", s.handleQuickRecommend)
		r.Get("/recommendations", s.handleHistory)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Success: false, Error: "not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Success: false, Error: "method not allowed"})
	})

	return r
}
