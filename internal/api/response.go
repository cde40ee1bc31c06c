package api

import (
	"encoding/json"
	"net/http"

	"business-recommender/internal/common/errors"
	"business-recommender/internal/common/logger"
)

type errorResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps err to its HTTP status. Internal failures hide the cause
// from the client and are logged instead.
func writeError(w http.ResponseWriter, log logger.Logger, err error) {
	stdErr := errors.AsStandardError(err)
	status := errors.HTTPStatus(stdErr.Code)

	resp := errorResponse{
		Success: false,
		Error:   stdErr.Message,
		Code:    string(stdErr.Code),
	}
	if status < http.StatusInternalServerError && stdErr.Details != "" {
		resp.Details = stdErr.Details
	}

	if status >= http.StatusInternalServerError {
		log.Error("request failed", map[string]interface{}{
			"code":  string(stdErr.Code),
			"error": err.Error(),
		})
	}

	writeJSON(w, status, resp)
}
