package models

import (
	"time"

	"github.com/google/uuid"
)

type ReviewComment struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ReviewID  uuid.UUID `json:"review_id" db:"review_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Text      string    `json:"text" db:"comment_text"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Author *User `json:"author,omitempty"`
}

type CreateCommentRequest struct {
	Text string `json:"text" binding:"required,max=5000"`
}
