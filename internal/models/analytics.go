package models

import "github.com/google/uuid"

// ProductAnalytics is the windowed rating summary for one product
type ProductAnalytics struct {
	ProductID             uuid.UUID `json:"product_id"`
	ProductName           string    `json:"product"`
	AverageRatingLastDays float64   `json:"average_rating_last_days"`
	ReviewCountLastDays   int       `json:"review_count_last_days"`
	PeriodDays            int       `json:"period_days"`
}

// TopReviewer ranks a user by visible review count
type TopReviewer struct {
	UserID      uuid.UUID `json:"user_id"`
	DisplayName string    `json:"display_name"`
	ReviewCount int       `json:"review_count"`
}

// TopRatedProduct ranks a product by windowed average rating
type TopRatedProduct struct {
	ProductID     uuid.UUID `json:"product_id"`
	ProductName   string    `json:"product_name"`
	AverageRating float64   `json:"average_rating"`
	ReviewCount   int       `json:"review_count"`
}
