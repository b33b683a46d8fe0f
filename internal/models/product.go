package models

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	// Aggregates filled by list/detail queries
	AverageRating *float64 `json:"average_rating,omitempty"`
	ReviewsCount  int      `json:"reviews_count"`
}

// ProductStats summarizes moderation state of a product's reviews
type ProductStats struct {
	ProductID     uuid.UUID `json:"product_id"`
	ProductName   string    `json:"product_name"`
	AverageRating *float64  `json:"average_rating"`
	ApprovedCount int       `json:"approved_count"`
	PendingCount  int       `json:"pending_count"`
}

type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Description string  `json:"description" binding:"required"`
	Price       float64 `json:"price" binding:"required,gt=0"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
}

type ListProductsRequest struct {
	Search string `form:"search"`
	Sort   string `form:"sort"` // price_asc, price_desc, rating, reviews
}
