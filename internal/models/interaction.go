package models

import (
	"time"

	"github.com/google/uuid"
)

// InteractionAction describes what a toggle submission did to the ledger
type InteractionAction string

const (
	InteractionCreated InteractionAction = "created"
	InteractionUpdated InteractionAction = "updated"
	InteractionRemoved InteractionAction = "removed"
)

// ReviewInteraction is the toggleable helpful/unhelpful reaction. The
// "no reaction" state is encoded by row absence.
type ReviewInteraction struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ReviewID  uuid.UUID `json:"review_id" db:"review_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Helpful   bool      `json:"helpful" db:"helpful"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// InteractionResult reports the outcome of a toggle submission.
// State is nil when the interaction was removed.
type InteractionResult struct {
	Action   InteractionAction `json:"action"`
	State    *bool             `json:"state"`
	Likes    int               `json:"likes"`
	Dislikes int               `json:"dislikes"`
}

// ReviewVote is the overwrite-only agreement record. Unlike
// ReviewInteraction it is never deleted on repeat, only updated.
type ReviewVote struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ReviewID  uuid.UUID `json:"review_id" db:"review_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Helpful   bool      `json:"helpful" db:"helpful"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ReviewReport is write-once per (review, user)
type ReviewReport struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ReviewID  uuid.UUID `json:"review_id" db:"review_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Reason    string    `json:"reason" db:"reason"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type InteractRequest struct {
	Helpful *bool `json:"helpful" binding:"required"`
}

type ReportRequest struct {
	Reason string `json:"reason" binding:"required,max=1000"`
}
