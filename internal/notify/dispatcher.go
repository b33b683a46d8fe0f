package notify

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/reviewly/backend/internal/models"
)

// ErrSelfNotification is returned when recipient and trigger user are
// the same. Callers are expected to skip notifying a user about their
// own action; the dispatcher enforces it as a hard invariant anyway.
var ErrSelfNotification = errors.New("recipient and trigger user are the same")

// ErrNotOwner is returned when a user acts on someone else's notification
var ErrNotOwner = errors.New("notification belongs to another user")

// Store is the persistence surface the dispatcher needs
type Store interface {
	Create(n *models.Notification) error
	GetByID(id uuid.UUID) (*models.Notification, error)
	MarkRead(id uuid.UUID) error
	MarkAllRead(userID uuid.UUID) (int, error)
	ClearAll(userID uuid.UUID) (int, error)
	DeleteOlderThan(userID uuid.UUID, cutoff time.Time) (int, error)
}

// Publisher announces created notifications for downstream consumers.
// Delivery itself is someone else's problem; this only emits the event.
type Publisher interface {
	PublishNotification(n *models.Notification) error
}

// Notification carries the inputs for one notification record
type Notification struct {
	Recipient   uuid.UUID
	Message     string
	Type        string
	ReviewID    *uuid.UUID
	TriggerUser *uuid.UUID
	ActionURL   *string
}

// Dispatcher creates notification records and owns their read lifecycle
type Dispatcher struct {
	store     Store
	publisher Publisher
}

// NewDispatcher creates a dispatcher. publisher may be nil when no event
// bus is available.
func NewDispatcher(store Store, publisher Publisher) *Dispatcher {
	return &Dispatcher{
		store:     store,
		publisher: publisher,
	}
}

// Notify creates a notification record. No delivery happens here.
func (d *Dispatcher) Notify(input Notification) (*models.Notification, error) {
	if input.TriggerUser != nil && *input.TriggerUser == input.Recipient {
		return nil, ErrSelfNotification
	}
	if input.Message == "" {
		return nil, fmt.Errorf("notification message is required")
	}
	if input.Type == "" {
		input.Type = models.NotificationSystem
	}

	n := &models.Notification{
		ID:            uuid.New(),
		UserID:        input.Recipient,
		Message:       input.Message,
		Type:          input.Type,
		ReviewID:      input.ReviewID,
		TriggerUserID: input.TriggerUser,
		ActionURL:     input.ActionURL,
	}

	if err := d.store.Create(n); err != nil {
		return nil, fmt.Errorf("failed to dispatch notification: %w", err)
	}

	if d.publisher != nil {
		if err := d.publisher.PublishNotification(n); err != nil {
			// The record exists; a lost event only delays the badge
			log.Printf("Failed to publish notification event: %v", err)
		}
	}

	return n, nil
}

// MarkRead flips a notification to read. Calling it on an already-read
// notification is a no-op, not an error. The recipient must own the
// notification.
func (d *Dispatcher) MarkRead(id, userID uuid.UUID) (*models.Notification, error) {
	n, err := d.store.GetByID(id)
	if err != nil {
		return nil, err
	}

	if n.UserID != userID {
		return nil, fmt.Errorf("notification %s: %w", id, ErrNotOwner)
	}

	if n.Read {
		return n, nil
	}

	if err := d.store.MarkRead(id); err != nil {
		return nil, err
	}

	return d.store.GetByID(id)
}

// MarkAllRead flips every unread notification for the user, returning
// the number changed. Idempotent: a second call returns 0.
func (d *Dispatcher) MarkAllRead(userID uuid.UUID) (int, error) {
	return d.store.MarkAllRead(userID)
}

// Clear deletes the user's notifications, either all of them or only
// those older than the given number of days.
func (d *Dispatcher) Clear(userID uuid.UUID, olderThanDays int) (int, error) {
	if olderThanDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -olderThanDays)
		return d.store.DeleteOlderThan(userID, cutoff)
	}
	return d.store.ClearAll(userID)
}
