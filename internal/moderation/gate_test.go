package moderation

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/reviewly/backend/internal/models"
	"github.com/reviewly/backend/internal/notify"
)

type fakeReviewStore struct {
	reviews map[uuid.UUID]*models.Review
	deleted []uuid.UUID
	ops     []string
}

func (f *fakeReviewStore) GetByID(id uuid.UUID) (*models.Review, error) {
	rv, ok := f.reviews[id]
	if !ok {
		return nil, fmt.Errorf("review %s: not found", id)
	}
	copied := *rv
	return &copied, nil
}

func (f *fakeReviewStore) SetVisible(id uuid.UUID, visible bool) error {
	rv, ok := f.reviews[id]
	if !ok {
		return fmt.Errorf("review %s: not found", id)
	}
	rv.Visible = visible
	f.ops = append(f.ops, fmt.Sprintf("setVisible:%v", visible))
	return nil
}

func (f *fakeReviewStore) Delete(id uuid.UUID) error {
	if _, ok := f.reviews[id]; !ok {
		return fmt.Errorf("review %s: not found", id)
	}
	delete(f.reviews, id)
	f.deleted = append(f.deleted, id)
	f.ops = append(f.ops, "delete")
	return nil
}

type fakeProductStore struct {
	products map[uuid.UUID]*models.Product
}

func (f *fakeProductStore) GetByID(id uuid.UUID) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: not found", id)
	}
	return p, nil
}

type fakeNotifier struct {
	sent []notify.Notification
	ops  *[]string
}

func (f *fakeNotifier) Notify(input notify.Notification) (*models.Notification, error) {
	f.sent = append(f.sent, input)
	if f.ops != nil {
		*f.ops = append(*f.ops, "notify")
	}
	return &models.Notification{ID: uuid.New(), UserID: input.Recipient, Message: input.Message}, nil
}

func newGateFixture() (*Gate, *fakeReviewStore, *fakeNotifier, uuid.UUID) {
	productID := uuid.New()
	reviewID := uuid.New()
	authorID := uuid.New()

	reviews := &fakeReviewStore{reviews: map[uuid.UUID]*models.Review{
		reviewID: {
			ID:        reviewID,
			ProductID: productID,
			UserID:    authorID,
			Rating:    4,
			Text:      "solid product",
			Visible:   false,
		},
	}}
	products := &fakeProductStore{products: map[uuid.UUID]*models.Product{
		productID: {ID: productID, Name: "Widget"},
	}}
	notifier := &fakeNotifier{ops: &reviews.ops}

	return NewGate(reviews, products, notifier), reviews, notifier, reviewID
}

func TestGateApprove(t *testing.T) {
	gate, reviews, notifier, reviewID := newGateFixture()

	result, err := gate.Approve(reviewID, true)
	if err != nil {
		t.Fatalf("Approve() error = %v", err)
	}
	if result.AlreadyInState {
		t.Error("AlreadyInState = true on first approval")
	}
	if !reviews.reviews[reviewID].Visible {
		t.Error("review not visible after approval")
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("sent %d notifications, want 1", len(notifier.sent))
	}

	n := notifier.sent[0]
	if n.Recipient != reviews.reviews[reviewID].UserID {
		t.Errorf("notification recipient = %s, want review author", n.Recipient)
	}
	if !strings.Contains(n.Message, "Widget") {
		t.Errorf("notification message %q does not name the product", n.Message)
	}
	if !strings.Contains(n.Message, "approved") {
		t.Errorf("notification message %q does not mention approval", n.Message)
	}
}

func TestGateApproveIdempotent(t *testing.T) {
	gate, _, notifier, reviewID := newGateFixture()

	if _, err := gate.Approve(reviewID, true); err != nil {
		t.Fatalf("first Approve() error = %v", err)
	}

	result, err := gate.Approve(reviewID, true)
	if err != nil {
		t.Fatalf("second Approve() error = %v", err)
	}
	if !result.AlreadyInState {
		t.Error("AlreadyInState = false on repeat approval")
	}
	if len(notifier.sent) != 1 {
		t.Errorf("sent %d notifications after repeat approval, want 1", len(notifier.sent))
	}
}

func TestGateApproveHideDoesNotNotify(t *testing.T) {
	gate, reviews, notifier, reviewID := newGateFixture()

	if _, err := gate.Approve(reviewID, true); err != nil {
		t.Fatalf("Approve(true) error = %v", err)
	}
	if _, err := gate.Approve(reviewID, false); err != nil {
		t.Fatalf("Approve(false) error = %v", err)
	}

	if reviews.reviews[reviewID].Visible {
		t.Error("review still visible after hiding")
	}
	// only the original approval notice
	if len(notifier.sent) != 1 {
		t.Errorf("sent %d notifications, want 1", len(notifier.sent))
	}
}

func TestGateDisapproveWithReason(t *testing.T) {
	gate, reviews, notifier, reviewID := newGateFixture()

	if err := gate.Disapprove(reviewID, "spam"); err != nil {
		t.Fatalf("Disapprove() error = %v", err)
	}

	if _, ok := reviews.reviews[reviewID]; ok {
		t.Error("review still present after disapproval")
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("sent %d notifications, want 1", len(notifier.sent))
	}
	msg := notifier.sent[0].Message
	if !strings.Contains(msg, "Widget") || !strings.Contains(msg, "spam") {
		t.Errorf("rejection message %q missing product name or reason", msg)
	}

	want := []string{"setVisible:false", "notify", "delete"}
	if len(reviews.ops) != len(want) {
		t.Fatalf("ops = %v, want %v", reviews.ops, want)
	}
	for i := range want {
		if reviews.ops[i] != want[i] {
			t.Errorf("ops[%d] = %q, want %q", i, reviews.ops[i], want[i])
		}
	}
}

func TestGateDisapproveWithoutReason(t *testing.T) {
	gate, reviews, notifier, reviewID := newGateFixture()

	if err := gate.Disapprove(reviewID, ""); err != nil {
		t.Fatalf("Disapprove() error = %v", err)
	}

	if _, ok := reviews.reviews[reviewID]; ok {
		t.Error("review still present after disapproval")
	}
	if len(notifier.sent) != 0 {
		t.Errorf("sent %d notifications without a reason, want 0", len(notifier.sent))
	}
}
