package handlers

import (
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/reviewly/backend/internal/cache"
	"github.com/reviewly/backend/internal/models"
	"github.com/reviewly/backend/internal/repository"
)

// AnalyticsHandler serves the windowed aggregations. Ranking endpoints
// go through the redis cache when one is configured; windowed per-product
// queries are cheap enough to hit the database every time.
type AnalyticsHandler struct {
	analyticsRepo *repository.AnalyticsRepository
	productRepo   *repository.ProductRepository
	redis         *cache.RedisClient
	cacheTTL      time.Duration
}

func NewAnalyticsHandler(analyticsRepo *repository.AnalyticsRepository, productRepo *repository.ProductRepository, redis *cache.RedisClient, cacheTTL time.Duration) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsRepo: analyticsRepo,
		productRepo:   productRepo,
		redis:         redis,
		cacheTTL:      cacheTTL,
	}
}

func parseDays(c *gin.Context, fallback int) (int, bool) {
	raw := c.Query("days")
	if raw == "" {
		return fallback, true
	}
	d, err := strconv.Atoi(raw)
	if err != nil || d <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid days parameter")
		return 0, false
	}
	return d, true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ProductAnalytics returns the trailing-window rating summary for one
// product. Averages are rounded to two decimals; a product with no
// qualifying reviews reports zero, not an error.
func (h *AnalyticsHandler) ProductAnalytics(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid product ID")
		return
	}

	days, ok := parseDays(c, 30)
	if !ok {
		return
	}

	product, err := h.productRepo.GetByID(id)
	if err != nil {
		RepoErrorResponse(c, err, "Failed to get product")
		return
	}

	avg, count, err := h.analyticsRepo.ProductAverageRating(id, days)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to compute product analytics")
		return
	}

	c.JSON(http.StatusOK, models.ProductAnalytics{
		ProductID:             id,
		ProductName:           product.Name,
		AverageRatingLastDays: round2(avg),
		ReviewCountLastDays:   count,
		PeriodDays:            days,
	})
}

// TopReviewers ranks users by visible review count
func (h *AnalyticsHandler) TopReviewers(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 100 {
			ErrorResponse(c, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = n
	}

	cacheKey := fmt.Sprintf("analytics:top_reviewers:%d", limit)
	var cached []models.TopReviewer
	if h.cacheGet(cacheKey, &cached) {
		c.JSON(http.StatusOK, cached)
		return
	}

	reviewers, err := h.analyticsRepo.TopReviewers(limit)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to rank reviewers")
		return
	}

	h.cacheSet(cacheKey, reviewers)
	c.JSON(http.StatusOK, reviewers)
}

// TopProducts ranks products by windowed average rating
func (h *AnalyticsHandler) TopProducts(c *gin.Context) {
	days, ok := parseDays(c, 30)
	if !ok {
		return
	}

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 100 {
			ErrorResponse(c, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = n
	}

	cacheKey := fmt.Sprintf("analytics:top_products:%d:%d", days, limit)
	var cached []models.TopRatedProduct
	if h.cacheGet(cacheKey, &cached) {
		c.JSON(http.StatusOK, cached)
		return
	}

	products, err := h.analyticsRepo.TopRatedProducts(days, limit)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to rank products")
		return
	}
	for i := range products {
		products[i].AverageRating = round2(products[i].AverageRating)
	}

	h.cacheSet(cacheKey, products)
	c.JSON(http.StatusOK, products)
}

// TopLikedReview returns the visible review with the most helpful marks
func (h *AnalyticsHandler) TopLikedReview(c *gin.Context) {
	review, err := h.analyticsRepo.TopLikedReview()
	if err != nil {
		RepoErrorResponse(c, err, "Failed to get top liked review")
		return
	}

	c.JSON(http.StatusOK, review)
}

// SearchReviews does a keyword search over visible review text.
// The q parameter is required.
func (h *AnalyticsHandler) SearchReviews(c *gin.Context) {
	keyword := strings.TrimSpace(c.Query("q"))
	if keyword == "" {
		ErrorResponse(c, http.StatusBadRequest, "Query parameter q is required")
		return
	}

	results, err := h.analyticsRepo.SearchReviews(keyword)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to search reviews")
		return
	}

	c.JSON(http.StatusOK, results)
}

// cacheGet reads a cached ranking. Cache errors are logged, never
// surfaced: analytics always fall back to the database.
func (h *AnalyticsHandler) cacheGet(key string, dest interface{}) bool {
	if h.redis == nil {
		return false
	}
	hit, err := h.redis.GetAnalytics(key, dest)
	if err != nil {
		log.Printf("Failed to read analytics cache %s: %v", key, err)
		return false
	}
	return hit
}

func (h *AnalyticsHandler) cacheSet(key string, value interface{}) {
	if h.redis == nil {
		return
	}
	if err := h.redis.SetAnalytics(key, value, h.cacheTTL); err != nil {
		log.Printf("Failed to write analytics cache %s: %v", key, err)
	}
}
