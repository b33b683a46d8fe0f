package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/reviewly/backend/internal/database"
	"github.com/reviewly/backend/internal/models"
)

type NotificationRepository struct {
	db *database.DB
}

func NewNotificationRepository(db *database.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create persists a notification record
func (r *NotificationRepository) Create(n *models.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, message, type, read, review_id, trigger_user_id, action_url, created_at)
		VALUES ($1, $2, $3, $4, false, $5, $6, $7, NOW())
		RETURNING id, created_at
	`

	err := r.db.QueryRow(
		query,
		n.ID,
		n.UserID,
		n.Message,
		n.Type,
		n.ReviewID,
		n.TriggerUserID,
		n.ActionURL,
	).Scan(&n.ID, &n.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// GetByID retrieves a notification
func (r *NotificationRepository) GetByID(id uuid.UUID) (*models.Notification, error) {
	query := `
		SELECT id, user_id, message, type, read, read_at, review_id, trigger_user_id, action_url, created_at
		FROM notifications
		WHERE id = $1
	`

	n := &models.Notification{}
	err := r.db.QueryRow(query, id).Scan(
		&n.ID,
		&n.UserID,
		&n.Message,
		&n.Type,
		&n.Read,
		&n.ReadAt,
		&n.ReviewID,
		&n.TriggerUserID,
		&n.ActionURL,
		&n.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("notification %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}

	return n, nil
}

// ListByUser retrieves a user's notifications, newest first
func (r *NotificationRepository) ListByUser(userID uuid.UUID, limit, offset int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}

	query := `
		SELECT id, user_id, message, type, read, read_at, review_id, trigger_user_id, action_url, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		err := rows.Scan(
			&n.ID,
			&n.UserID,
			&n.Message,
			&n.Type,
			&n.Read,
			&n.ReadAt,
			&n.ReviewID,
			&n.TriggerUserID,
			&n.ActionURL,
			&n.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}

	return notifications, nil
}

// UnreadCount counts a user's unread notifications
func (r *NotificationRepository) UnreadCount(userID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = false`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead flips read/read_at once; already-read rows are left untouched
// so repeated calls keep the original read_at.
func (r *NotificationRepository) MarkRead(id uuid.UUID) error {
	_, err := r.db.Exec(
		`UPDATE notifications SET read = true, read_at = NOW() WHERE id = $1 AND read = false`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

// MarkAllRead flips every unread notification for the user and returns
// how many rows changed
func (r *NotificationRepository) MarkAllRead(userID uuid.UUID) (int, error) {
	result, err := r.db.Exec(
		`UPDATE notifications SET read = true, read_at = NOW() WHERE user_id = $1 AND read = false`,
		userID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rows), nil
}

// ClearAll deletes every notification for the user
func (r *NotificationRepository) ClearAll(userID uuid.UUID) (int, error) {
	result, err := r.db.Exec(`DELETE FROM notifications WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear notifications: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rows), nil
}

// DeleteOlderThan deletes the user's notifications created before the cutoff
func (r *NotificationRepository) DeleteOlderThan(userID uuid.UUID, cutoff time.Time) (int, error) {
	result, err := r.db.Exec(
		`DELETE FROM notifications WHERE user_id = $1 AND created_at < $2`,
		userID, cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old notifications: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rows), nil
}
