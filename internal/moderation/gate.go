package moderation

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/reviewly/backend/internal/models"
	"github.com/reviewly/backend/internal/notify"
)

// ReviewStore is the review persistence surface the gate needs
type ReviewStore interface {
	GetByID(id uuid.UUID) (*models.Review, error)
	SetVisible(id uuid.UUID, visible bool) error
	Delete(id uuid.UUID) error
}

// ProductStore resolves product names for notification messages
type ProductStore interface {
	GetByID(id uuid.UUID) (*models.Product, error)
}

// Notifier creates notification records for moderation decisions
type Notifier interface {
	Notify(input notify.Notification) (*models.Notification, error)
}

// GateResult reports a moderation decision. AlreadyInState marks the
// idempotent no-op case: the review was already at the requested
// visibility and no notification was created.
type GateResult struct {
	Review         *models.Review `json:"review"`
	AlreadyInState bool           `json:"already_in_state"`
}

// Gate approves and disapproves reviews. Authorization is the caller's
// concern; the gate assumes the acting user was already cleared.
type Gate struct {
	reviews  ReviewStore
	products ProductStore
	notifier Notifier
}

func NewGate(reviews ReviewStore, products ProductStore, notifier Notifier) *Gate {
	return &Gate{
		reviews:  reviews,
		products: products,
		notifier: notifier,
	}
}

// Approve sets the review's visibility. Idempotent: approving a review
// already in the requested state returns AlreadyInState without flipping
// anything or notifying again. The author is notified only on the
// false -> true transition.
func (g *Gate) Approve(reviewID uuid.UUID, visible bool) (*GateResult, error) {
	review, err := g.reviews.GetByID(reviewID)
	if err != nil {
		return nil, err
	}

	if review.Visible == visible {
		return &GateResult{Review: review, AlreadyInState: true}, nil
	}

	if err := g.reviews.SetVisible(reviewID, visible); err != nil {
		return nil, err
	}
	review.Visible = visible

	if visible {
		product, err := g.products.GetByID(review.ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve product for approval notice: %w", err)
		}

		actionURL := fmt.Sprintf("/reviews/%s", review.ID)
		_, err = g.notifier.Notify(notify.Notification{
			Recipient: review.UserID,
			Message:   fmt.Sprintf("Your review of %s was approved", product.Name),
			Type:      models.NotificationSystem,
			ReviewID:  &review.ID,
			ActionURL: &actionURL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to notify author of approval: %w", err)
		}
	}

	return &GateResult{Review: review}, nil
}

// Disapprove hides the review, notifies the author when a reason is
// given, and then deletes the row. The notification is created before
// the delete so its review reference is valid at creation time; the
// stored message carries the product name so it stays meaningful after
// the row is gone.
func (g *Gate) Disapprove(reviewID uuid.UUID, reason string) error {
	review, err := g.reviews.GetByID(reviewID)
	if err != nil {
		return err
	}

	if err := g.reviews.SetVisible(reviewID, false); err != nil {
		return err
	}

	if reason != "" {
		product, err := g.products.GetByID(review.ProductID)
		if err != nil {
			return fmt.Errorf("failed to resolve product for rejection notice: %w", err)
		}

		_, err = g.notifier.Notify(notify.Notification{
			Recipient: review.UserID,
			Message:   fmt.Sprintf("Your review of %s was rejected: %s", product.Name, reason),
			Type:      models.NotificationSystem,
			ReviewID:  &review.ID,
		})
		if err != nil {
			return fmt.Errorf("failed to notify author of rejection: %w", err)
		}
	}

	if err := g.reviews.Delete(reviewID); err != nil {
		return err
	}

	return nil
}
