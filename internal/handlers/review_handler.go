package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/reviewly/backend/internal/cache"
	"github.com/reviewly/backend/internal/middleware"
	"github.com/reviewly/backend/internal/models"
	"github.com/reviewly/backend/internal/moderation"
	"github.com/reviewly/backend/internal/notify"
	"github.com/reviewly/backend/internal/repository"
)

type ReviewHandler struct {
	reviewRepo      *repository.ReviewRepository
	productRepo     *repository.ProductRepository
	interactionRepo *repository.InteractionRepository
	commentRepo     *repository.CommentRepository
	pipeline        *moderation.Pipeline
	dispatcher      *notify.Dispatcher
	redis           *cache.RedisClient
}

func NewReviewHandler(
	reviewRepo *repository.ReviewRepository,
	productRepo *repository.ProductRepository,
	interactionRepo *repository.InteractionRepository,
	commentRepo *repository.CommentRepository,
	pipeline *moderation.Pipeline,
	dispatcher *notify.Dispatcher,
	redis *cache.RedisClient,
) *ReviewHandler {
	return &ReviewHandler{
		reviewRepo:      reviewRepo,
		productRepo:     productRepo,
		interactionRepo: interactionRepo,
		commentRepo:     commentRepo,
		pipeline:        pipeline,
		dispatcher:      dispatcher,
		redis:           redis,
	}
}

func isAdmin(c *gin.Context) bool {
	v, exists := c.Get("is_admin")
	return exists && v.(bool)
}

// Create submits a new review. The text is analyzed before anything is
// persisted; if analysis fails the review is not stored at all. New
// reviews start hidden until a moderator approves them.
func (h *ReviewHandler) Create(c *gin.Context) {
	userID := middleware.UserID(c)

	var req models.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.productRepo.GetByID(req.ProductID); err != nil {
		RepoErrorResponse(c, err, "Failed to get product")
		return
	}

	result, err := h.pipeline.Analyze(c.Request.Context(), req.Text)
	if err != nil {
		RepoErrorResponse(c, err, "Failed to analyze review")
		return
	}

	review := &models.Review{
		ID:        uuid.New(),
		ProductID: req.ProductID,
		UserID:    userID,
		Rating:    req.Rating,
		Text:      req.Text,
		Visible:   false,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	result.Apply(review)

	if err := review.Validate(); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.reviewRepo.Create(review); err != nil {
		RepoErrorResponse(c, err, "Failed to create review")
		return
	}

	c.JSON(http.StatusCreated, review)
}

// Update rewrites the author's own review. The new text goes through the
// same analysis as creation, and both land in one statement so readers
// never see fresh text with stale derived fields.
func (h *ReviewHandler) Update(c *gin.Context) {
	userID := middleware.UserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid review ID")
		return
	}

	var req models.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	review, err := h.reviewRepo.GetByID(id)
	if err != nil {
		RepoErrorResponse(c, err, "Failed to get review")
		return
	}

	if review.UserID != userID {
		ErrorResponse(c, http.StatusForbidden, "You can only edit your own reviews")
		return
	}

	result, err := h.pipeline.Analyze(c.Request.Context(), req.Text)
	if err != nil {
		RepoErrorResponse(c, err, "Failed to analyze review")
		return
	}

	review.Rating = req.Rating
	review.Text = req.Text
	result.Apply(review)

	if err := review.Validate(); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.reviewRepo.UpdateAnalyzed(review); err != nil {
		RepoErrorResponse(c, err, "Failed to update review")
		return
	}
	invalidateAnalytics(h.redis)

	c.JSON(http.StatusOK, review)
}

// Get returns the review detail with engagement counts and the viewer's
// own state. Each read bumps the view counter. Hidden reviews are only
// shown to their author and to admins.
func (h *ReviewHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid review ID")
		return
	}

	viewerID := middleware.UserID(c)
	review, err := h.reviewRepo.GetDetail(id, viewerID)
	if err != nil {
		RepoErrorResponse(c, err, "Failed to get review")
		return
	}

	if !review.Visible && review.UserID != viewerID && !isAdmin(c) {
		ErrorResponse(c, http.StatusNotFound, "Not found")
		return
	}

	views, err := h.reviewRepo.IncrementViews(id)
	if err != nil {
		RepoErrorResponse(c, err, "Failed to record view")
		return
	}
	review.Views = views

	c.JSON(http.StatusOK, review)
}

// List returns visible reviews with optional product/rating filters
func (h *ReviewHandler) List(c *gin.Context) {
	var req models.ListReviewsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	reviews, err := h.reviewRepo.List(&req)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to list reviews")
		return
	}

	c.JSON(http.StatusOK, reviews)
}

// Delete removes a review. Authors can delete their own; admins any.
func (h *ReviewHandler) Delete(c *gin.Context) {
	userID := middleware.UserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid review ID")
		return
	}

	review, err := h.reviewRepo.GetByID(id)
	if err != nil {
		RepoErrorResponse(c, err, "Failed to get review")
		return
	}

	if review.UserID != userID && !isAdmin(c) {
		ErrorResponse(c, http.StatusForbidden, "You can only delete your own reviews")
		return
	}

	if err := h.reviewRepo.Delete(id); err != nil {
		RepoErrorResponse(c, err, "Failed to delete review")
		return
	}
	invalidateAnalytics(h.redis)

	c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
}

// Interact toggles the viewer's helpful/unhelpful reaction. Repeating
// the same reaction removes it; the opposite reaction replaces it. The
// response carries the resulting state and fresh tallies.
func (h *ReviewHandler) Interact(c *gin.Context) {
	userID := middleware.UserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid review ID")
		return
	}

	var req models.InteractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	review, err := h.reviewRepo.GetByID(id)
	if err != nil {
		RepoErrorResponse(c, err, "Failed to get review")
		return
	}

	result, err := h.interactionRepo.Toggle(id, userID, *req.Helpful)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to record interaction")
		return
	}

	if result.Action == models.InteractionCreated && *req.Helpful && review.UserID != userID {
		trigger := userID
		actionURL := fmt.Sprintf("/reviews/%s", review.ID)
		_, err := h.dispatcher.Notify(notify.Notification{
			Recipient:   review.UserID,
			Message:     "Someone found your review helpful",
			Type:        models.NotificationLike,
			ReviewID:    &review.ID,
			TriggerUser: &trigger,
			ActionURL:   &actionURL,
		})
		if err != nil && !errors.Is(err, notify.ErrSelfNotification) {
			// interaction is already committed; the missed notice is not worth a 500
			log.Printf("Failed to notify review author of like: %v", err)
		}
	}

	c.JSON(http.StatusOK, result)
}

// Vote records the viewer's agreement vote. Unlike Interact, repeating
// the same value just overwrites it in place.
func (h *ReviewHandler) Vote(c *gin.Context) {
	userID := middleware.UserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid review ID")
		return
	}

	var req models.InteractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.reviewRepo.GetByID(id); err != nil {
		RepoErrorResponse(c, err, "Failed to get review")
		return
	}

	vote, err := h.interactionRepo.RecordVote(id, userID, *req.Helpful)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	c.JSON(http.StatusOK, vote)
}

// Report files a write-once report against a review. A second report
// from the same user is a conflict and never changes the stored reason.
func (h *ReviewHandler) Report(c *gin.Context) {
	userID := middleware.UserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid review ID")
		return
	}

	var req models.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.reviewRepo.GetByID(id); err != nil {
		RepoErrorResponse(c, err, "Failed to get review")
		return
	}

	report, err := h.interactionRepo.RecordReport(id, userID, req.Reason)
	if err != nil {
		RepoErrorResponse(c, err, "Failed to record report")
		return
	}

	c.JSON(http.StatusCreated, report)
}

// CreateComment adds a comment to a review and notifies the review
// author, unless they commented on their own review.
func (h *ReviewHandler) CreateComment(c *gin.Context) {
	userID := middleware.UserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid review ID")
		return
	}

	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	review, err := h.reviewRepo.GetByID(id)
	if err != nil {
		RepoErrorResponse(c, err, "Failed to get review")
		return
	}

	comment := &models.ReviewComment{
		ID:       uuid.New(),
		ReviewID: id,
		UserID:   userID,
		Text:     req.Text,
	}

	if err := h.commentRepo.Create(comment); err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to create comment")
		return
	}

	if review.UserID != userID {
		trigger := userID
		actionURL := fmt.Sprintf("/reviews/%s", review.ID)
		_, err := h.dispatcher.Notify(notify.Notification{
			Recipient:   review.UserID,
			Message:     "Someone commented on your review",
			Type:        models.NotificationComment,
			ReviewID:    &review.ID,
			TriggerUser: &trigger,
			ActionURL:   &actionURL,
		})
		if err != nil && !errors.Is(err, notify.ErrSelfNotification) {
			log.Printf("Failed to notify review author of comment: %v", err)
		}
	}

	c.JSON(http.StatusCreated, comment)
}

// ListComments returns a review's comments, oldest first
func (h *ReviewHandler) ListComments(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid review ID")
		return
	}

	if _, err := h.reviewRepo.GetByID(id); err != nil {
		RepoErrorResponse(c, err, "Failed to get review")
		return
	}

	comments, err := h.commentRepo.ListByReview(id)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to list comments")
		return
	}

	c.JSON(http.StatusOK, comments)
}
