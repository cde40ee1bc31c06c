package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"business-recommender/internal/common/errors"
	"business-recommender/internal/history"
	"business-recommender/internal/models"
	"business-recommender/internal/service"
)

type recommendRequest struct {
	models.UserProfile
	UserID string `json:"userId,omitempty"`
}

type recommendResponse struct {
	Success         bool                    `json:"success"`
	Recommendations []models.Recommendation `json:"recommendations"`
	Algorithm       models.AlgorithmInfo    `json:"algorithm"`
}

type quickResponse struct {
	Success         bool                         `json:"success"`
	Recommendations []models.QuickRecommendation `json:"recommendations"`
}

type historyResponse struct {
	Success         bool             `json:"success"`
	Recommendations []history.Record `json:"recommendations"`
}

// ==========================
// Probes
// ==========================

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	defer cancel()

	checks := make(map[string]string, len(s.cfg.Checks))
	ready := true
	for name, check := range s.cfg.Checks {
		if err := check(ctx); err != nil {
			ready = false
			checks[name] = err.Error()
			continue
		}
		checks[name] = "ok"
	}

	status, code := "ready", http.StatusOK
	if !ready {
		status, code = "not_ready", http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]interface{}{
		"status": status,
		"checks": checks,
	})
}

// ==========================
// Recommendations
// ==========================

// decodeRequest reads, schema-validates and decodes a recommendation body.
// It writes the 400 response itself and reports false on failure.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (recommendRequest, bool) {
	var req recommendRequest

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, s.logger, errors.NewInvalidRequestError(err.Error()))
		return req, false
	}

	if result := s.schema.ValidateJSON(body); !result.Valid {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Success: false,
			Error:   "Invalid input data",
			Code:    string(errors.ErrCodeInvalidRequest),
			Details: result.Errors,
		})
		return req, false
	}

	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, s.logger, errors.NewInvalidRequestError(err.Error()))
		return req, false
	}
	return req, true
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	defer cancel()

	resp, err := s.service.Recommend(ctx, service.Request{
		Profile:   req.UserProfile,
		Algorithm: r.URL.Query().Get("algorithm"),
		UserID:    req.UserID,
		Source:    service.SourceHTTP,
	})
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, recommendResponse{
		Success:         true,
		Recommendations: resp.Recommendations,
		Algorithm:       resp.Algorithm,
	})
}

func (s *Server) handleQuickRecommend(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	defer cancel()

	recs, err := s.service.QuickRecommend(ctx, req.UserProfile, r.URL.Query().Get("algorithm"))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, quickResponse{Success: true, Recommendations: recs})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, s.logger, errors.NewInvalidRequestError("limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	records, err := s.service.History(r.Context(), limit)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, historyResponse{Success: true, Recommendations: records})
}
