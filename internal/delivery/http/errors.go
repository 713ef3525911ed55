package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wardrobe/backend/internal/domain"
)

// statusFor maps domain errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrGarmentNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrVisionUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrVisionAPIFailure):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes {"error": ...}. Internal errors are logged and their
// details withheld from the client.
func respondError(c *gin.Context, err error, detail string) {
	status := statusFor(err)

	message := err.Error()
	if detail != "" {
		message = err.Error() + ": " + detail
	}
	if status == http.StatusInternalServerError {
		slog.Default().Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err)
		message = "internal server error"
	}

	c.AbortWithStatusJSON(status, gin.H{"error": message})
}
