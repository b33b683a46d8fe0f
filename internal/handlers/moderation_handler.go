package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/reviewly/backend/internal/cache"
	"github.com/reviewly/backend/internal/models"
	"github.com/reviewly/backend/internal/moderation"
	"github.com/reviewly/backend/internal/repository"
)

// ModerationHandler exposes the admin moderation surface: the approval
// gate, the pending and flagged queues, and the banned word list.
type ModerationHandler struct {
	gate       *moderation.Gate
	reviewRepo *repository.ReviewRepository
	wordRepo   *repository.BannedWordRepository
	redis      *cache.RedisClient
}

func NewModerationHandler(gate *moderation.Gate, reviewRepo *repository.ReviewRepository, wordRepo *repository.BannedWordRepository, redis *cache.RedisClient) *ModerationHandler {
	return &ModerationHandler{
		gate:       gate,
		reviewRepo: reviewRepo,
		wordRepo:   wordRepo,
		redis:      redis,
	}
}

type approveRequest struct {
	Visible *bool `json:"visible" binding:"required"`
}

type disapproveRequest struct {
	Reason string `json:"reason" binding:"max=1000"`
}

// Approve sets a review's visibility. Approving a review already in the
// requested state is a no-op and does not notify again.
func (h *ModerationHandler) Approve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid review ID")
		return
	}

	var req approveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.gate.Approve(id, *req.Visible)
	if err != nil {
		RepoErrorResponse(c, err, "Failed to update review visibility")
		return
	}
	if !result.AlreadyInState {
		// visibility feeds every cached ranking
		invalidateAnalytics(h.redis)
	}

	c.JSON(http.StatusOK, result)
}

// Disapprove rejects a review: it is hidden, the author is notified when
// a reason is given, and the review is deleted.
func (h *ModerationHandler) Disapprove(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid review ID")
		return
	}

	var req disapproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.gate.Disapprove(id, req.Reason); err != nil {
		RepoErrorResponse(c, err, "Failed to disapprove review")
		return
	}
	invalidateAnalytics(h.redis)

	c.JSON(http.StatusOK, gin.H{"message": "Review rejected"})
}

// Pending lists reviews awaiting moderation, newest first
func (h *ModerationHandler) Pending(c *gin.Context) {
	reviews, err := h.reviewRepo.ListPending()
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to list pending reviews")
		return
	}

	c.JSON(http.StatusOK, reviews)
}

// Flagged lists reviews the pipeline flagged for banned words, optionally
// filtered by ?severity=1..3 and restricted to a trailing ?days= window.
func (h *ModerationHandler) Flagged(c *gin.Context) {
	days := 0
	if raw := c.Query("days"); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil || d < 0 {
			ErrorResponse(c, http.StatusBadRequest, "Invalid days parameter")
			return
		}
		days = d
	}

	reviews, err := h.reviewRepo.ListFlagged(days)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to list flagged reviews")
		return
	}

	if raw := c.Query("severity"); raw != "" {
		s, err := strconv.Atoi(raw)
		if err != nil || !models.Severity(s).Valid() {
			ErrorResponse(c, http.StatusBadRequest, "Invalid severity parameter")
			return
		}

		words, err := h.wordRepo.ListBySeverity(models.Severity(s))
		if err != nil {
			ErrorResponse(c, http.StatusInternalServerError, "Failed to load banned words")
			return
		}

		filtered := []models.Review{}
		for _, rv := range reviews {
			if moderation.FilterBySeverity(rv.BannedWordsFound, words) {
				filtered = append(filtered, rv)
			}
		}
		reviews = filtered
	}

	c.JSON(http.StatusOK, reviews)
}

// AddBannedWord appends a word to the scan list. The word takes effect
// on the next analysis; existing reviews are not rescanned.
func (h *ModerationHandler) AddBannedWord(c *gin.Context) {
	var req models.CreateBannedWordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	word := &models.BannedWord{
		ID:       uuid.New(),
		Word:     strings.TrimSpace(req.Word),
		Severity: req.Severity,
	}
	if word.Word == "" {
		ErrorResponse(c, http.StatusBadRequest, "Word must not be blank")
		return
	}

	if err := h.wordRepo.Add(word); err != nil {
		RepoErrorResponse(c, err, "Failed to add banned word")
		return
	}

	c.JSON(http.StatusCreated, word)
}

// RemoveBannedWord drops a word from the scan list
func (h *ModerationHandler) RemoveBannedWord(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid word ID")
		return
	}

	if err := h.wordRepo.Remove(id); err != nil {
		RepoErrorResponse(c, err, "Failed to remove banned word")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Banned word removed"})
}

// ListBannedWords returns the scan list in insertion order, optionally
// filtered by ?severity=
func (h *ModerationHandler) ListBannedWords(c *gin.Context) {
	if raw := c.Query("severity"); raw != "" {
		s, err := strconv.Atoi(raw)
		if err != nil || !models.Severity(s).Valid() {
			ErrorResponse(c, http.StatusBadRequest, "Invalid severity parameter")
			return
		}

		words, err := h.wordRepo.ListBySeverity(models.Severity(s))
		if err != nil {
			ErrorResponse(c, http.StatusInternalServerError, "Failed to list banned words")
			return
		}
		c.JSON(http.StatusOK, words)
		return
	}

	words, err := h.wordRepo.List()
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to list banned words")
		return
	}

	c.JSON(http.StatusOK, words)
}
