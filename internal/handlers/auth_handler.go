package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/reviewly/backend/internal/auth"
	"github.com/reviewly/backend/internal/middleware"
	"github.com/reviewly/backend/internal/models"
	"github.com/reviewly/backend/internal/repository"
)

type AuthHandler struct {
	userRepo    *repository.UserRepository
	reviewRepo  *repository.ReviewRepository
	commentRepo *repository.CommentRepository
	jwtService  *auth.JWTService
}

func NewAuthHandler(
	userRepo *repository.UserRepository,
	reviewRepo *repository.ReviewRepository,
	commentRepo *repository.CommentRepository,
	jwtService *auth.JWTService,
) *AuthHandler {
	return &AuthHandler{
		userRepo:    userRepo,
		reviewRepo:  reviewRepo,
		commentRepo: commentRepo,
		jwtService:  jwtService,
	}
}

// Register handles user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        req.Email,
		DisplayName:  req.DisplayName,
		PasswordHash: hashedPassword,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := h.userRepo.Create(user); err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	token, err := h.jwtService.GenerateToken(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	c.JSON(http.StatusCreated, models.LoginResponse{
		Token: token,
		User:  *user,
	})
}

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.userRepo.GetByEmail(req.Email)
	if err != nil {
		ErrorResponse(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		ErrorResponse(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.jwtService.GenerateToken(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	c.JSON(http.StatusOK, models.LoginResponse{
		Token: token,
		User:  *user,
	})
}

// GetMe returns the current user
func (h *AuthHandler) GetMe(c *gin.Context) {
	uid := middleware.UserID(c)

	user, err := h.userRepo.GetByID(uid)
	if err != nil {
		RepoErrorResponse(c, err, "Failed to get user")
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetProfile returns the user's activity summary: own reviews, likes
// received, comment count and the reviews they liked
func (h *AuthHandler) GetProfile(c *gin.Context) {
	uid := middleware.UserID(c)

	user, err := h.userRepo.GetByID(uid)
	if err != nil {
		RepoErrorResponse(c, err, "Failed to get user")
		return
	}

	reviews, err := h.reviewRepo.ListByUser(uid)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to load reviews")
		return
	}

	likedReviews, err := h.reviewRepo.ListLikedByUser(uid)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to load liked reviews")
		return
	}

	likesReceived, err := h.userRepo.LikesReceived(uid)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to count likes")
		return
	}

	commentsCount, err := h.commentRepo.CountByUser(uid)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to count comments")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":           user,
		"reviews_count":  len(reviews),
		"likes_received": likesReceived,
		"comments_count": commentsCount,
		"reviews":        reviews,
		"liked_reviews":  likedReviews,
	})
}
