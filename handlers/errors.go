package handlers

import (
	"errors"
	"net/http"

	"servio/middleware"
	"servio/models"
	"servio/services/booking"
	"servio/services/commission"
	"servio/services/revenue"
	"servio/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps a service error onto an HTTP status and writes it.
func respondError(c *gin.Context, err error) {
	var invalidTransition *booking.InvalidTransitionError
	var invalidRate *commission.InvalidRateError
	var invalidAmount *commission.InvalidAmountError

	switch {
	case errors.As(err, &invalidTransition):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"error":     err.Error(),
			"current":   invalidTransition.Current,
			"requested": invalidTransition.Requested,
			"allowed":   booking.AllowedFrom(invalidTransition.Current),
		})
	case errors.Is(err, booking.ErrRescheduleNotAllowed):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrConcurrentModification):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "booking was modified concurrently, reload and retry"})
	case errors.As(err, &invalidRate), errors.As(err, &invalidAmount),
		errors.Is(err, booking.ErrUnknownStatus),
		errors.Is(err, booking.ErrInvalidDate),
		errors.Is(err, booking.ErrInvalidNote),
		errors.Is(err, commission.ErrInvalidPaymentStatus),
		errors.Is(err, revenue.ErrInvalidTimeframe):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found", "details": err.Error()})
	case errors.Is(err, models.ErrForbidden):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, models.ErrStoreUnavailable), errors.Is(err, utils.ErrLockNotAcquired):
		getLogger(c).Warn("dependency unavailable", zap.Error(err), zap.String("path", c.FullPath()))
		c.Header("Retry-After", "1")
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "service temporarily unavailable, retry"})
	default:
		getLogger(c).Error("request failed", zap.Error(err), zap.String("path", c.FullPath()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// requireActor returns the authenticated actor or writes 401.
func requireActor(c *gin.Context) (models.Actor, bool) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
	return actor, ok
}
