package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Severity is the admin-assigned importance tier of a banned word
type Severity int

const (
	SeverityLow    Severity = 1
	SeverityMedium Severity = 2
	SeverityHigh   Severity = 3
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "Low"
	case SeverityMedium:
		return "Medium"
	case SeverityHigh:
		return "High"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// Valid reports whether s is a known severity tier
func (s Severity) Valid() bool {
	return s >= SeverityLow && s <= SeverityHigh
}

// BannedWord is an admin-managed word scanned for by the analysis pipeline
type BannedWord struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Word      string    `json:"word" db:"word"`
	Severity  Severity  `json:"severity" db:"severity"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type CreateBannedWordRequest struct {
	Word     string   `json:"word" binding:"required,max=255"`
	Severity Severity `json:"severity" binding:"required,min=1,max=3"`
}
