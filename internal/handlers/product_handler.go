package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/reviewly/backend/internal/models"
	"github.com/reviewly/backend/internal/repository"
)

type ProductHandler struct {
	productRepo *repository.ProductRepository
	reviewRepo  *repository.ReviewRepository
}

func NewProductHandler(productRepo *repository.ProductRepository, reviewRepo *repository.ReviewRepository) *ProductHandler {
	return &ProductHandler{
		productRepo: productRepo,
		reviewRepo:  reviewRepo,
	}
}

// List returns products with rating aggregates, optional search and sorting
func (h *ProductHandler) List(c *gin.Context) {
	var req models.ListProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	products, err := h.productRepo.List(req.Search, req.Sort)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to list products")
		return
	}

	c.JSON(http.StatusOK, products)
}

// Get returns one product with its aggregates
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid product ID")
		return
	}

	product, err := h.productRepo.GetByID(id)
	if err != nil {
		RepoErrorResponse(c, err, "Failed to get product")
		return
	}

	c.JSON(http.StatusOK, product)
}

// Reviews returns the visible reviews for a product
func (h *ProductHandler) Reviews(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid product ID")
		return
	}

	if _, err := h.productRepo.GetByID(id); err != nil {
		RepoErrorResponse(c, err, "Failed to get product")
		return
	}

	reviews, err := h.reviewRepo.List(&models.ListReviewsRequest{ProductID: &id})
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to list reviews")
		return
	}

	c.JSON(http.StatusOK, reviews)
}

// Create creates a product (admin only, enforced by routing)
func (h *ProductHandler) Create(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	product := &models.Product{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		CreatedAt:   time.Now(),
	}

	if err := h.productRepo.Create(product); err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to create product")
		return
	}

	c.JSON(http.StatusCreated, product)
}

// Update applies partial changes to a product (admin only)
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.productRepo.Update(id, &req)
	if err != nil {
		RepoErrorResponse(c, err, "Failed to update product")
		return
	}

	c.JSON(http.StatusOK, product)
}

// Delete removes a product (admin only)
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid product ID")
		return
	}

	if err := h.productRepo.Delete(id); err != nil {
		RepoErrorResponse(c, err, "Failed to delete product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

// Stats returns per-product approved/pending counts (admin only)
func (h *ProductHandler) Stats(c *gin.Context) {
	stats, err := h.productRepo.Stats()
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to load product stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}
