package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification types
const (
	NotificationComment = "comment"
	NotificationLike    = "like"
	NotificationReply   = "reply"
	NotificationFollow  = "follow"
	NotificationSystem  = "system"
)

type Notification struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	UserID        uuid.UUID  `json:"user_id" db:"user_id"`
	Message       string     `json:"message" db:"message"`
	Type          string     `json:"type" db:"type"`
	Read          bool       `json:"read" db:"read"`
	ReadAt        *time.Time `json:"read_at,omitempty" db:"read_at"`
	ReviewID      *uuid.UUID `json:"review_id,omitempty" db:"review_id"`
	TriggerUserID *uuid.UUID `json:"trigger_user_id,omitempty" db:"trigger_user_id"`
	ActionURL     *string    `json:"action_url,omitempty" db:"action_url"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}
