package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/reviewly/backend/internal/database"
	"github.com/reviewly/backend/internal/models"
)

// AnalyticsRepository holds the windowed aggregations over visible
// reviews. Every query here counts only visible = true rows unless noted.
type AnalyticsRepository struct {
	db *database.DB
}

func NewAnalyticsRepository(db *database.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// ProductAverageRating averages ratings over the trailing window. The
// boundary is inclusive at now - windowDays. Zero average and count when
// no reviews qualify, never an error.
func (r *AnalyticsRepository) ProductAverageRating(productID uuid.UUID, windowDays int) (avg float64, count int, err error) {
	query := `
		SELECT COALESCE(AVG(rating), 0), COUNT(*)
		FROM reviews
		WHERE product_id = $1
		  AND visible = true
		  AND created_at >= NOW() - make_interval(days => $2)
	`

	err = r.db.QueryRow(query, productID, windowDays).Scan(&avg, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to compute product average rating: %w", err)
	}

	return avg, count, nil
}

// TopReviewers ranks users by visible review count, descending. Ties have
// no defined order beyond the stable user id tiebreak.
func (r *AnalyticsRepository) TopReviewers(limit int) ([]models.TopReviewer, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT u.id, u.display_name, COUNT(rv.id)
		FROM users u
		INNER JOIN reviews rv ON rv.user_id = u.id AND rv.visible = true
		GROUP BY u.id, u.display_name
		ORDER BY COUNT(rv.id) DESC, u.id
		LIMIT $1
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top reviewers: %w", err)
	}
	defer rows.Close()

	reviewers := []models.TopReviewer{}
	for rows.Next() {
		var tr models.TopReviewer
		if err := rows.Scan(&tr.UserID, &tr.DisplayName, &tr.ReviewCount); err != nil {
			return nil, fmt.Errorf("failed to scan top reviewer: %w", err)
		}
		reviewers = append(reviewers, tr)
	}

	return reviewers, nil
}

// TopRatedProducts ranks products by average rating over the window,
// excluding products with zero qualifying reviews.
func (r *AnalyticsRepository) TopRatedProducts(windowDays, limit int) ([]models.TopRatedProduct, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT p.id, p.name, AVG(rv.rating), COUNT(rv.id)
		FROM products p
		INNER JOIN reviews rv ON rv.product_id = p.id
			AND rv.visible = true
			AND rv.created_at >= NOW() - make_interval(days => $1)
		GROUP BY p.id, p.name
		HAVING COUNT(rv.id) >= 1
		ORDER BY AVG(rv.rating) DESC, p.id
		LIMIT $2
	`

	rows, err := r.db.Query(query, windowDays, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top rated products: %w", err)
	}
	defer rows.Close()

	products := []models.TopRatedProduct{}
	for rows.Next() {
		var tp models.TopRatedProduct
		if err := rows.Scan(&tp.ProductID, &tp.ProductName, &tp.AverageRating, &tp.ReviewCount); err != nil {
			return nil, fmt.Errorf("failed to scan top rated product: %w", err)
		}
		products = append(products, tp)
	}

	return products, nil
}

// SearchReviews does a case-insensitive substring match over visible
// review text. Keyword validation happens at the handler.
func (r *AnalyticsRepository) SearchReviews(keyword string) ([]models.ReviewSearchResult, error) {
	query := `
		SELECT rv.id, p.name, u.display_name, rv.rating, rv.review_text, rv.created_at
		FROM reviews rv
		INNER JOIN products p ON rv.product_id = p.id
		INNER JOIN users u ON rv.user_id = u.id
		WHERE rv.visible = true
		  AND rv.review_text ILIKE '%' || $1 || '%'
		ORDER BY rv.created_at DESC
	`

	rows, err := r.db.Query(query, keyword)
	if err != nil {
		return nil, fmt.Errorf("failed to search reviews: %w", err)
	}
	defer rows.Close()

	results := []models.ReviewSearchResult{}
	for rows.Next() {
		var res models.ReviewSearchResult
		err := rows.Scan(&res.ReviewID, &res.ProductName, &res.UserName, &res.Rating, &res.Text, &res.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		results = append(results, res)
	}

	return results, nil
}

// TopLikedReview returns the visible review with the most helpful
// interactions; ties go to the most recent.
func (r *AnalyticsRepository) TopLikedReview() (*models.Review, error) {
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
		GROUP BY rv.id, u.display_name, p.name
		ORDER BY COUNT(ri.id) FILTER (WHERE ri.helpful) DESC, rv.created_at DESC
		LIMIT 1
	`

	row := r.db.QueryRow(query)

	var rv models.Review
	var found sql.NullString
	var authorName string
	err := row.Scan(
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

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no visible reviews: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get top liked review: %w", err)
	}

	rv.BannedWordsFound = splitFoundWords(found)
	rv.Author = &models.User{ID: rv.UserID, DisplayName: authorName}
	return &rv, nil
}
