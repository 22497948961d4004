package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/balkashynov/punch/internal/auth"
	"github.com/balkashynov/punch/internal/clock"
	"github.com/balkashynov/punch/internal/db"
	"github.com/balkashynov/punch/internal/geofence"
	"github.com/balkashynov/punch/internal/settings"
	"github.com/balkashynov/punch/internal/staff"
)

// retryAfter is sent with 503 responses, in seconds
const retryAfter = "1"

func statusOf(err error) int {
	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, clock.ErrAlreadyClockedIn), errors.Is(err, clock.ErrNotClockedIn):
		return http.StatusConflict
	case errors.Is(err, geofence.ErrInvalidCoordinate),
		errors.Is(err, staff.ErrInvalidRole),
		errors.Is(err, staff.ErrInvalidWorker),
		errors.Is(err, settings.ErrInvalidSettings):
		return http.StatusBadRequest
	case errors.Is(err, db.ErrNotFound), errors.Is(err, staff.ErrWorkerNotFound):
		return http.StatusNotFound
	case clock.IsRetryable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as a JSON error response
func (s *Server) fail(c *gin.Context, err error) {
	status := statusOf(err)
	msg := err.Error()

	switch {
	case status == http.StatusServiceUnavailable:
		c.Header("Retry-After", retryAfter)
		s.log.Warn("request timed out", "path", c.FullPath(), "error", err, "request_id", c.GetString(requestIDKey))
	case status >= http.StatusInternalServerError:
		s.log.Error("request failed", "path", c.FullPath(), "error", err, "request_id", c.GetString(requestIDKey))
		msg = "internal error"
	}
	c.JSON(status, gin.H{"error": msg})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "detail": err.Error()})
}
