package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reviewly/backend/internal/cache"
	"github.com/reviewly/backend/internal/repository"
	"github.com/reviewly/backend/internal/sentiment"
)

// ErrorResponse sends a standardized error response and logs at caller if needed
func ErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// RepoErrorResponse maps engine errors onto HTTP statuses. Unrecognized
// errors become a 500 with the fallback message so internals never leak.
func RepoErrorResponse(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		ErrorResponse(c, http.StatusNotFound, "Not found")
	case errors.Is(err, repository.ErrDuplicateReport):
		ErrorResponse(c, http.StatusConflict, "Review already reported")
	case errors.Is(err, repository.ErrDuplicateReview):
		ErrorResponse(c, http.StatusConflict, "You already reviewed this product")
	case errors.Is(err, repository.ErrDuplicateWord):
		ErrorResponse(c, http.StatusConflict, "Banned word already exists")
	case errors.Is(err, sentiment.ErrUnavailable):
		ErrorResponse(c, http.StatusServiceUnavailable, "Content analysis is temporarily unavailable")
	default:
		ErrorResponse(c, http.StatusInternalServerError, fallback)
	}
}

// invalidateAnalytics drops cached rankings after a write that changes
// what the aggregations would report. Best effort: the cache entries
// expire on their TTL anyway.
func invalidateAnalytics(redis *cache.RedisClient) {
	if redis == nil {
		return
	}
	if err := redis.InvalidateAnalytics("analytics:"); err != nil {
		log.Printf("Failed to invalidate analytics cache: %v", err)
	}
}
