package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Sentiment labels assigned by the content analysis pipeline
const (
	SentimentPositive = "Positive"
	SentimentNegative = "Negative"
	SentimentNeutral  = "Neutral"
)

type Review struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Rating    int       `json:"rating" db:"rating"`
	Text      string    `json:"review_text" db:"review_text"`
	Visible   bool      `json:"visible" db:"visible"`
	Views     int       `json:"views" db:"views"`

	// Derived fields, written only by the content analysis pipeline
	SentimentLabel      string   `json:"sentiment_label" db:"sentiment_label"`
	SentimentScore      float64  `json:"sentiment_score" db:"sentiment_score"`
	ContainsBannedWords bool     `json:"contains_banned_words" db:"contains_banned_words"`
	BannedWordsFound    []string `json:"banned_words_found,omitempty" db:"banned_words_found"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	Author      *User  `json:"author,omitempty"`
	ProductName string `json:"product_name,omitempty"`

	// Engagement aggregates filled by detail queries
	Likes          int   `json:"likes"`
	Dislikes       int   `json:"dislikes"`
	CommentsCount  int   `json:"comments_count"`
	UserInteracted *bool `json:"user_interacted,omitempty"`
	HasReport      bool  `json:"has_report"`
}

// Validate checks rating and text before any state change
func (r *Review) Validate() error {
	if r.Rating < 1 || r.Rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5")
	}
	if r.Text == "" {
		return fmt.Errorf("review text is required")
	}
	return nil
}

type CreateReviewRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Rating    int       `json:"rating" binding:"required,min=1,max=5"`
	Text      string    `json:"review_text" binding:"required,max=10000"`
}

type UpdateReviewRequest struct {
	Rating int    `json:"rating" binding:"required,min=1,max=5"`
	Text   string `json:"review_text" binding:"required,max=10000"`
}

type ListReviewsRequest struct {
	ProductID *uuid.UUID `form:"product"`
	Rating    *int       `form:"rating"`
	SortBy    string     `form:"sort_by"` // newest, highest_rating, most_interactive
	Limit     int        `form:"limit"`
	Offset    int        `form:"offset"`
}

// ReviewSearchResult is a keyword search hit
type ReviewSearchResult struct {
	ReviewID    uuid.UUID `json:"review_id"`
	ProductName string    `json:"product"`
	UserName    string    `json:"user"`
	Rating      int       `json:"rating"`
	Text        string    `json:"text"`
	CreatedAt   time.Time `json:"created_at"`
}
