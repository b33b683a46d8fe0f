package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/reviewly/backend/internal/database"
	"github.com/reviewly/backend/internal/models"
)

type ReviewRepository struct {
	db *database.DB
}

func NewReviewRepository(db *database.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// banned_words_found is stored comma-joined; NULL means the scan found
// nothing, which keeps "scanned, clean" distinct from an empty string.
func joinFoundWords(words []string) sql.NullString {
	if len(words) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{String: strings.Join(words, ", "), Valid: true}
}

func splitFoundWords(s sql.NullString) []string {
	if !s.Valid || s.String == "" {
		return nil
	}
	return strings.Split(s.String, ", ")
}

// Create persists a fully analyzed review. The caller must have run the
// content analysis pipeline first; a review row never exists without its
// derived fields matching the text.
func (r *ReviewRepository) Create(review *models.Review) error {
	query := `
		INSERT INTO reviews (id, product_id, user_id, rating, review_text, visible, views,
		                     sentiment_label, sentiment_score, contains_banned_words, banned_words_found,
		                     created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		review.ID,
		review.ProductID,
		review.UserID,
		review.Rating,
		review.Text,
		review.Visible,
		review.SentimentLabel,
		review.SentimentScore,
		review.ContainsBannedWords,
		joinFoundWords(review.BannedWordsFound),
		review.CreatedAt,
		review.UpdatedAt,
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("product %s user %s: %w", review.ProductID, review.UserID, ErrDuplicateReview)
		}
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

// GetByID retrieves a review by ID
func (r *ReviewRepository) GetByID(id uuid.UUID) (*models.Review, error) {
	query := `
		SELECT id, product_id, user_id, rating, review_text, visible, views,
		       sentiment_label, sentiment_score, contains_banned_words, banned_words_found,
		       created_at, updated_at
		FROM reviews
		WHERE id = $1
	`

	review := &models.Review{}
	var found sql.NullString
	err := r.db.QueryRow(query, id).Scan(
		&review.ID,
		&review.ProductID,
		&review.UserID,
		&review.Rating,
		&review.Text,
		&review.Visible,
		&review.Views,
		&review.SentimentLabel,
		&review.SentimentScore,
		&review.ContainsBannedWords,
		&found,
		&review.CreatedAt,
		&review.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("review %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	review.BannedWordsFound = splitFoundWords(found)
	return review, nil
}

// GetDetail retrieves a review with author, product name, engagement
// counts and the viewer's own interaction and report state. viewerID may
// be uuid.Nil for anonymous readers.
func (r *ReviewRepository) GetDetail(id, viewerID uuid.UUID) (*models.Review, error) {
	query := `
		SELECT rv.id, rv.product_id, rv.user_id, rv.rating, rv.review_text, rv.visible, rv.views,
		       rv.sentiment_label, rv.sentiment_score, rv.contains_banned_words, rv.banned_words_found,
		       rv.created_at, rv.updated_at,
		       u.id, u.email, u.display_name, u.is_admin, u.created_at, u.updated_at,
		       p.name,
		       COUNT(ri.id) FILTER (WHERE ri.helpful),
		       COUNT(ri.id) FILTER (WHERE NOT ri.helpful),
		       (SELECT COUNT(*) FROM review_comments rc WHERE rc.review_id = rv.id),
		       (SELECT helpful FROM review_interactions WHERE review_id = rv.id AND user_id = $2),
		       EXISTS (SELECT 1 FROM review_reports WHERE review_id = rv.id AND user_id = $2)
		FROM reviews rv
		INNER JOIN users u ON rv.user_id = u.id
		INNER JOIN products p ON rv.product_id = p.id
		LEFT JOIN review_interactions ri ON ri.review_id = rv.id
		WHERE rv.id = $1
		GROUP BY rv.id, u.id, p.name
	`

	review := &models.Review{}
	author := &models.User{}
	var found sql.NullString
	var viewerState sql.NullBool
	err := r.db.QueryRow(query, id, viewerID).Scan(
		&review.ID,
		&review.ProductID,
		&review.UserID,
		&review.Rating,
		&review.Text,
		&review.Visible,
		&review.Views,
		&review.SentimentLabel,
		&review.SentimentScore,
		&review.ContainsBannedWords,
		&found,
		&review.CreatedAt,
		&review.UpdatedAt,
		&author.ID,
		&author.Email,
		&author.DisplayName,
		&author.IsAdmin,
		&author.CreatedAt,
		&author.UpdatedAt,
		&review.ProductName,
		&review.Likes,
		&review.Dislikes,
		&review.CommentsCount,
		&viewerState,
		&review.HasReport,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("review %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review detail: %w", err)
	}

	review.BannedWordsFound = splitFoundWords(found)
	review.Author = author
	if viewerState.Valid {
		review.UserInteracted = &viewerState.Bool
	}

	return review, nil
}

// IncrementViews bumps the view counter in place and returns the new
// value. The increment happens in SQL so concurrent reads never lose
// updates.
func (r *ReviewRepository) IncrementViews(id uuid.UUID) (int, error) {
	var views int
	err := r.db.QueryRow(`UPDATE reviews SET views = views + 1 WHERE id = $1 RETURNING views`, id).Scan(&views)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("review %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to increment views: %w", err)
	}
	return views, nil
}

// List retrieves visible reviews with optional product/rating filters and sorting
func (r *ReviewRepository) List(req *models.ListReviewsRequest) ([]models.Review, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}

	query := `
		SELECT rv.id, rv.product_id, rv.user_id, rv.rating, rv.review_text, rv.visible, rv.views,
		       rv.sentiment_label, rv.sentiment_score, rv.contains_banned_words, rv.banned_words_found,
		       rv.created_at, rv.updated_at,
		       u.display_name, p.name,
		       COUNT(ri.id) FILTER (WHERE ri.helpful),
		       COUNT(ri.id) FILTER (WHERE NOT ri.helpful)
		FROM reviews rv
		INNER JOIN users u ON rv.user_id = u.id
		INNER JOIN products p ON rv.product_id = p.id
		LEFT JOIN review_interactions ri ON ri.review_id = rv.id
		WHERE rv.visible = true
		  AND ($1::uuid IS NULL OR rv.product_id = $1)
		  AND ($2::int IS NULL OR rv.rating = $2)
		GROUP BY rv.id, u.display_name, p.name
	`

	switch req.SortBy {
	case "highest_rating":
		query += " ORDER BY rv.rating DESC, rv.created_at DESC"
	case "most_interactive":
		query += " ORDER BY COUNT(ri.id) DESC, rv.created_at DESC"
	default: // newest
		query += " ORDER BY rv.created_at DESC"
	}
	query += " LIMIT $3 OFFSET $4"

	rows, err := r.db.Query(query, req.ProductID, req.Rating, limit, req.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	return scanReviewRows(rows)
}

func scanReviewRows(rows *sql.Rows) ([]models.Review, error) {
	reviews := []models.Review{}
	for rows.Next() {
		var rv models.Review
		var found sql.NullString
		var authorName string
		err := rows.Scan(
			&rv.ID,
			&rv.ProductID,
			&rv.UserID,
			&rv.Rating,
			&rv.Text,
			&rv.Visible,
			&rv.Views,
			&rv.SentimentLabel,
			&rv.SentimentScore,
			&rv.ContainsBannedWords,
			&found,
			&rv.CreatedAt,
			&rv.UpdatedAt,
			&authorName,
			&rv.ProductName,
			&rv.Likes,
			&rv.Dislikes,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		rv.BannedWordsFound = splitFoundWords(found)
		rv.Author = &models.User{ID: rv.UserID, DisplayName: authorName}
		reviews = append(reviews, rv)
	}
	return reviews, nil
}

// ListByUser retrieves a user's own reviews, visible or not
func (r *ReviewRepository) ListByUser(userID uuid.UUID) ([]models.Review, error) {
	query := `
		SELECT rv.id, rv.product_id, rv.user_id, rv.rating, rv.review_text, rv.visible, rv.views,
		       rv.sentiment_label, rv.sentiment_score, rv.contains_banned_words, rv.banned_words_found,
		       rv.created_at, rv.updated_at,
		       u.display_name, p.name,
		       COUNT(ri.id) FILTER (WHERE ri.helpful),
		       COUNT(ri.id) FILTER (WHERE NOT ri.helpful)
		FROM reviews rv
		INNER JOIN users u ON rv.user_id = u.id
		INNER JOIN products p ON rv.product_id = p.id
		LEFT JOIN review_interactions ri ON ri.review_id = rv.id
		WHERE rv.user_id = $1
		GROUP BY rv.id, u.display_name, p.name
		ORDER BY rv.created_at DESC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user reviews: %w", err)
	}
	defer rows.Close()

	return scanReviewRows(rows)
}

// ListLikedByUser retrieves visible reviews the user marked helpful
func (r *ReviewRepository) ListLikedByUser(userID uuid.UUID) ([]models.Review, error) {
	query := `
		SELECT rv.id, rv.product_id, rv.user_id, rv.rating, rv.review_text, rv.visible, rv.views,
		       rv.sentiment_label, rv.sentiment_score, rv.contains_banned_words, rv.banned_words_found,
		       rv.created_at, rv.updated_at,
		       u.display_name, p.name,
		       COUNT(ri.id) FILTER (WHERE ri.helpful),
		       COUNT(ri.id) FILTER (WHERE NOT ri.helpful)
		FROM reviews rv
		INNER JOIN users u ON rv.user_id = u.id
		INNER JOIN products p ON rv.product_id = p.id
		LEFT JOIN review_interactions ri ON ri.review_id = rv.id
		WHERE rv.visible = true
		  AND EXISTS (
			SELECT 1 FROM review_interactions mine
			WHERE mine.review_id = rv.id AND mine.user_id = $1 AND mine.helpful
		  )
		GROUP BY rv.id, u.display_name, p.name
		ORDER BY rv.created_at DESC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list liked reviews: %w", err)
	}
	defer rows.Close()

	return scanReviewRows(rows)
}

// UpdateAnalyzed rewrites a review's rating, text and derived fields in
// one statement, so readers never observe new text with stale analysis.
func (r *ReviewRepository) UpdateAnalyzed(review *models.Review) error {
	query := `
		UPDATE reviews
		SET rating = $2,
		    review_text = $3,
		    sentiment_label = $4,
		    sentiment_score = $5,
		    contains_banned_words = $6,
		    banned_words_found = $7,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(
		query,
		review.ID,
		review.Rating,
		review.Text,
		review.SentimentLabel,
		review.SentimentScore,
		review.ContainsBannedWords,
		joinFoundWords(review.BannedWordsFound),
	).Scan(&review.UpdatedAt)

	if err == sql.ErrNoRows {
		return fmt.Errorf("review %s: %w", review.ID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}

	return nil
}

// SetVisible flips the moderation visibility flag
func (r *ReviewRepository) SetVisible(id uuid.UUID, visible bool) error {
	result, err := r.db.Exec(`UPDATE reviews SET visible = $2, updated_at = NOW() WHERE id = $1`, id, visible)
	if err != nil {
		return fmt.Errorf("failed to set review visibility: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("review %s: %w", id, ErrNotFound)
	}

	return nil
}

// Delete deletes a review
func (r *ReviewRepository) Delete(id uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("review %s: %w", id, ErrNotFound)
	}

	return nil
}

// ListPending retrieves reviews awaiting moderation, newest first
func (r *ReviewRepository) ListPending() ([]models.Review, error) {
	query := `
		SELECT rv.id, rv.product_id, rv.user_id, rv.rating, rv.review_text, rv.visible, rv.views,
		       rv.sentiment_label, rv.sentiment_score, rv.contains_banned_words, rv.banned_words_found,
		       rv.created_at, rv.updated_at,
		       u.display_name, p.name,
		       COUNT(ri.id) FILTER (WHERE ri.helpful),
		       COUNT(ri.id) FILTER (WHERE NOT ri.helpful)
		FROM reviews rv
		INNER JOIN users u ON rv.user_id = u.id
		INNER JOIN products p ON rv.product_id = p.id
		LEFT JOIN review_interactions ri ON ri.review_id = rv.id
		WHERE rv.visible = false
		GROUP BY rv.id, u.display_name, p.name
		ORDER BY rv.created_at DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending reviews: %w", err)
	}
	defer rows.Close()

	return scanReviewRows(rows)
}

// ListFlagged retrieves reviews the pipeline flagged for banned words,
// optionally restricted to a trailing window of days. Severity filtering
// happens in the caller against the stored match list.
func (r *ReviewRepository) ListFlagged(windowDays int) ([]models.Review, error) {
	query := `
		SELECT rv.id, rv.product_id, rv.user_id, rv.rating, rv.review_text, rv.visible, rv.views,
		       rv.sentiment_label, rv.sentiment_score, rv.contains_banned_words, rv.banned_words_found,
		       rv.created_at, rv.updated_at,
		       u.display_name, p.name,
		       COUNT(ri.id) FILTER (WHERE ri.helpful),
		       COUNT(ri.id) FILTER (WHERE NOT ri.helpful)
		FROM reviews rv
		INNER JOIN users u ON rv.user_id = u.id
		INNER JOIN products p ON rv.product_id = p.id
		LEFT JOIN review_interactions ri ON ri.review_id = rv.id
		WHERE rv.contains_banned_words = true
		  AND ($1 <= 0 OR rv.created_at >= NOW() - make_interval(days => $1))
		GROUP BY rv.id, u.display_name, p.name
		ORDER BY rv.created_at DESC
	`

	rows, err := r.db.Query(query, windowDays)
	if err != nil {
		return nil, fmt.Errorf("failed to list flagged reviews: %w", err)
	}
	defer rows.Close()

	return scanReviewRows(rows)
}
