package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wonny/briefing/internal/contracts"
	"github.com/wonny/briefing/pkg/logger"
)

// ErrorResponse is the JSON body of every non-2xx response
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{
		Error:     message,
		RequestID: w.Header().Get(RequestIDHeader),
	})
}

// RequestIDHeader carries the per-request id set by the router middleware
const RequestIDHeader = "X-Request-ID"

// respondServiceError maps sentinel errors to status codes
func respondServiceError(w http.ResponseWriter, log *logger.Logger, err error) {
	switch {
	case errors.Is(err, contracts.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, contracts.ErrInvalidDate):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		log.WithError(err).Error("Request failed")
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
