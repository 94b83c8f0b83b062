package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/mathbuddy/internal/diagnostic"
	"github.com/abhisek/mathbuddy/internal/tutor"
)

// APIError is the body of every error response.
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ErrorEnvelope wraps APIError as {"error": {...}}.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// classify maps engine errors to an HTTP status and a stable code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, diagnostic.ErrQuestionMismatch):
		return http.StatusBadRequest, "question_mismatch"
	case errors.Is(err, diagnostic.ErrInvalidInput), errors.Is(err, tutor.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, diagnostic.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, diagnostic.ErrSessionComplete):
		return http.StatusConflict, "session_complete"
	case errors.Is(err, tutor.ErrUpstreamUnavailable):
		return http.StatusBadGateway, "upstream_unavailable"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func respondError(c *gin.Context, err error) {
	status, code := classify(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	if status == http.StatusBadGateway {
		msg = "the tutor is unavailable, please try again"
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: APIError{Message: msg, Code: code}})
}
