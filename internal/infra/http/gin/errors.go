package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"hotelops/internal/app/commands"
	dashboardapp "hotelops/internal/app/handlers/dashboard"
	"hotelops/internal/app/metrics"
	"hotelops/internal/app/policies"
	"hotelops/internal/app/queries"
	"hotelops/internal/domain/pricing"
)

const retryAfterSeconds = "5"

// statusFor maps application errors to HTTP statuses. A missing hotel is
// reported as 404 even when it surfaced as unavailable metrics.
func statusFor(err error) int {
	switch {
	case errors.Is(err, metrics.ErrHotelIDRequired):
		return http.StatusBadRequest
	case pricing.IsValidationError(err) != nil:
		return http.StatusBadRequest
	case errors.Is(err, policies.ErrNotFound):
		return http.StatusNotFound
	case metrics.IsMetricsUnavailable(err) != nil:
		return http.StatusServiceUnavailable
	case errors.Is(err, dashboardapp.ErrArchiveDisabled):
		return http.StatusNotImplemented
	case errors.Is(err, queries.ErrHandlerNotFound), errors.Is(err, commands.ErrHandlerNotFound):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func respondWithError(c *gin.Context, logger *slog.Logger, err error) {
	status := statusFor(err)
	if logger != nil {
		level := slog.LevelWarn
		if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "request failed",
			"status", status, "path", c.FullPath(), "hotel_id", c.Param("hotelId"), "error", err)
	}
	_ = c.Error(err)

	body := gin.H{"error": err.Error()}
	if v := pricing.IsValidationError(err); v != nil {
		body["field"] = v.Field
	}
	if status == http.StatusServiceUnavailable {
		c.Header("Retry-After", retryAfterSeconds)
		body["retryable"] = true
	}
	c.JSON(status, body)
}
