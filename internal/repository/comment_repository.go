package repository

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/reviewly/backend/internal/database"
	"github.com/reviewly/backend/internal/models"
)

type CommentRepository struct {
	db *database.DB
}

func NewCommentRepository(db *database.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create creates a comment on a review
func (r *CommentRepository) Create(comment *models.ReviewComment) error {
	query := `
		INSERT INTO review_comments (id, review_id, user_id, comment_text, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`

	err := r.db.QueryRow(
		query,
		comment.ID,
		comment.ReviewID,
		comment.UserID,
		comment.Text,
	).Scan(&comment.ID, &comment.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	return nil
}

// ListByReview retrieves comments for a review, oldest first
func (r *CommentRepository) ListByReview(reviewID uuid.UUID) ([]models.ReviewComment, error) {
	query := `
		SELECT c.id, c.review_id, c.user_id, c.comment_text, c.created_at,
		       u.id, u.email, u.display_name, u.is_admin, u.created_at, u.updated_at
		FROM review_comments c
		INNER JOIN users u ON c.user_id = u.id
		WHERE c.review_id = $1
		ORDER BY c.created_at ASC
	`

	rows, err := r.db.Query(query, reviewID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := []models.ReviewComment{}
	for rows.Next() {
		var c models.ReviewComment
		var author models.User
		err := rows.Scan(
			&c.ID,
			&c.ReviewID,
			&c.UserID,
			&c.Text,
			&c.CreatedAt,
			&author.ID,
			&author.Email,
			&author.DisplayName,
			&author.IsAdmin,
			&author.CreatedAt,
			&author.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		c.Author = &author
		comments = append(comments, c)
	}

	return comments, nil
}

// CountByUser counts comments written by a user
func (r *CommentRepository) CountByUser(userID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM review_comments WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count comments: %w", err)
	}
	return count, nil
}
