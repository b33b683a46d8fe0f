package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/reviewly/backend/internal/database"
	"github.com/reviewly/backend/internal/models"
)

type InteractionRepository struct {
	db *database.DB
}

func NewInteractionRepository(db *database.DB) *InteractionRepository {
	return &InteractionRepository{db: db}
}

// decideToggle maps the current stored reaction and the submitted value
// onto the three-state transition: absent -> created, same value ->
// removed, opposite value -> updated. current is nil when no row exists;
// the returned state is nil when the transition removes the row.
func decideToggle(current *bool, submitted bool) (models.InteractionAction, *bool) {
	switch {
	case current == nil:
		state := submitted
		return models.InteractionCreated, &state
	case *current == submitted:
		// repeat of the same reaction undoes it
		return models.InteractionRemoved, nil
	default:
		state := submitted
		return models.InteractionUpdated, &state
	}
}

// Toggle runs the interaction transition for (review, user). The whole
// transition executes in one transaction with the current row locked,
// and the UNIQUE(review_id, user_id) constraint backstops the insert
// race, so two concurrent submissions can never leave two rows.
func (r *InteractionRepository) Toggle(reviewID, userID uuid.UUID, helpful bool) (*models.InteractionResult, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var current *bool
	var stored bool
	err = tx.QueryRow(
		`SELECT helpful FROM review_interactions WHERE review_id = $1 AND user_id = $2 FOR UPDATE`,
		reviewID, userID,
	).Scan(&stored)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return nil, fmt.Errorf("failed to lock interaction: %w", err)
	default:
		current = &stored
	}

	action, state := decideToggle(current, helpful)
	result := &models.InteractionResult{Action: action, State: state}

	switch action {
	case models.InteractionCreated:
		_, err = tx.Exec(
			`INSERT INTO review_interactions (id, review_id, user_id, helpful, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, NOW(), NOW())
			 ON CONFLICT (review_id, user_id) DO UPDATE SET helpful = EXCLUDED.helpful, updated_at = NOW()`,
			uuid.New(), reviewID, userID, helpful,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create interaction: %w", err)
		}

	case models.InteractionRemoved:
		_, err = tx.Exec(
			`DELETE FROM review_interactions WHERE review_id = $1 AND user_id = $2`,
			reviewID, userID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to remove interaction: %w", err)
		}

	case models.InteractionUpdated:
		_, err = tx.Exec(
			`UPDATE review_interactions SET helpful = $3, updated_at = NOW() WHERE review_id = $1 AND user_id = $2`,
			reviewID, userID, helpful,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to update interaction: %w", err)
		}
	}

	err = tx.QueryRow(
		`SELECT COUNT(*) FILTER (WHERE helpful), COUNT(*) FILTER (WHERE NOT helpful)
		 FROM review_interactions WHERE review_id = $1`,
		reviewID,
	).Scan(&result.Likes, &result.Dislikes)
	if err != nil {
		return nil, fmt.Errorf("failed to count interactions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit interaction: %w", err)
	}

	return result, nil
}

// Counts returns the helpful/unhelpful tallies for a review
func (r *InteractionRepository) Counts(reviewID uuid.UUID) (likes, dislikes int, err error) {
	err = r.db.QueryRow(
		`SELECT COUNT(*) FILTER (WHERE helpful), COUNT(*) FILTER (WHERE NOT helpful)
		 FROM review_interactions WHERE review_id = $1`,
		reviewID,
	).Scan(&likes, &dislikes)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count interactions: %w", err)
	}
	return likes, dislikes, nil
}

// UserState returns the user's current reaction, or nil when absent
func (r *InteractionRepository) UserState(reviewID, userID uuid.UUID) (*bool, error) {
	var helpful bool
	err := r.db.QueryRow(
		`SELECT helpful FROM review_interactions WHERE review_id = $1 AND user_id = $2`,
		reviewID, userID,
	).Scan(&helpful)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get interaction state: %w", err)
	}
	return &helpful, nil
}

// RecordVote upserts the parallel overwrite-only vote ledger. Repeating
// the same value is a no-op update, never a delete.
func (r *InteractionRepository) RecordVote(reviewID, userID uuid.UUID, helpful bool) (*models.ReviewVote, error) {
	query := `
		INSERT INTO review_votes (id, review_id, user_id, helpful, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (review_id, user_id) DO UPDATE SET helpful = EXCLUDED.helpful, updated_at = NOW()
		RETURNING id, review_id, user_id, helpful, created_at, updated_at
	`

	vote := &models.ReviewVote{}
	err := r.db.QueryRow(query, uuid.New(), reviewID, userID, helpful).Scan(
		&vote.ID,
		&vote.ReviewID,
		&vote.UserID,
		&vote.Helpful,
		&vote.CreatedAt,
		&vote.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record vote: %w", err)
	}

	return vote, nil
}

// RecordReport creates a write-once report. The unique constraint decides
// the race between two first-time reports; the loser sees ErrDuplicateReport
// and the stored reason is never touched.
func (r *InteractionRepository) RecordReport(reviewID, userID uuid.UUID, reason string) (*models.ReviewReport, error) {
	query := `
		INSERT INTO review_reports (id, review_id, user_id, reason, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (review_id, user_id) DO NOTHING
		RETURNING id, review_id, user_id, reason, created_at
	`

	report := &models.ReviewReport{}
	err := r.db.QueryRow(query, uuid.New(), reviewID, userID, reason).Scan(
		&report.ID,
		&report.ReviewID,
		&report.UserID,
		&report.Reason,
		&report.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("review %s user %s: %w", reviewID, userID, ErrDuplicateReport)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to record report: %w", err)
	}

	return report, nil
}
