package repository

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/reviewly/backend/internal/database"
	"github.com/reviewly/backend/internal/models"
)

type BannedWordRepository struct {
	db *database.DB
}

func NewBannedWordRepository(db *database.DB) *BannedWordRepository {
	return &BannedWordRepository{db: db}
}

// Add inserts a banned word; the word is unique case-insensitively
func (r *BannedWordRepository) Add(word *models.BannedWord) error {
	query := `
		INSERT INTO banned_words (id, word, severity, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`

	err := r.db.QueryRow(query, word.ID, word.Word, word.Severity).Scan(&word.ID, &word.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("word %q: %w", word.Word, ErrDuplicateWord)
		}
		return fmt.Errorf("failed to add banned word: %w", err)
	}

	return nil
}

// Remove deletes a banned word by ID
func (r *BannedWordRepository) Remove(id uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM banned_words WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to remove banned word: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("banned word %s: %w", id, ErrNotFound)
	}

	return nil
}

// List returns all banned words in admin insertion order. The analysis
// pipeline reads this as its per-call snapshot, so match ordering in
// analysis results follows this ordering.
func (r *BannedWordRepository) List() ([]models.BannedWord, error) {
	query := `SELECT id, word, severity, created_at FROM banned_words ORDER BY created_at ASC, id ASC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query banned words: %w", err)
	}
	defer rows.Close()

	words := []models.BannedWord{}
	for rows.Next() {
		var w models.BannedWord
		if err := rows.Scan(&w.ID, &w.Word, &w.Severity, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan banned word: %w", err)
		}
		words = append(words, w)
	}

	return words, nil
}

// ListBySeverity returns banned words of one severity tier, insertion order
func (r *BannedWordRepository) ListBySeverity(severity models.Severity) ([]models.BannedWord, error) {
	query := `SELECT id, word, severity, created_at FROM banned_words WHERE severity = $1 ORDER BY created_at ASC, id ASC`

	rows, err := r.db.Query(query, severity)
	if err != nil {
		return nil, fmt.Errorf("failed to query banned words: %w", err)
	}
	defer rows.Close()

	words := []models.BannedWord{}
	for rows.Next() {
		var w models.BannedWord
		if err := rows.Scan(&w.ID, &w.Word, &w.Severity, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan banned word: %w", err)
		}
		words = append(words, w)
	}

	return words, nil
}
