package notify

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/reviewly/backend/internal/models"
)

type fakeStore struct {
	notifications map[uuid.UUID]*models.Notification
	markReadCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{notifications: make(map[uuid.UUID]*models.Notification)}
}

func (f *fakeStore) Create(n *models.Notification) error {
	n.CreatedAt = time.Now()
	f.notifications[n.ID] = n
	return nil
}

func (f *fakeStore) GetByID(id uuid.UUID) (*models.Notification, error) {
	n, ok := f.notifications[id]
	if !ok {
		return nil, fmt.Errorf("notification %s: not found", id)
	}
	copied := *n
	return &copied, nil
}

func (f *fakeStore) MarkRead(id uuid.UUID) error {
	n, ok := f.notifications[id]
	if !ok {
		return fmt.Errorf("notification %s: not found", id)
	}
	if !n.Read {
		now := time.Now()
		n.Read = true
		n.ReadAt = &now
	}
	f.markReadCalls++
	return nil
}

func (f *fakeStore) MarkAllRead(userID uuid.UUID) (int, error) {
	count := 0
	for _, n := range f.notifications {
		if n.UserID == userID && !n.Read {
			now := time.Now()
			n.Read = true
			n.ReadAt = &now
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) ClearAll(userID uuid.UUID) (int, error) {
	count := 0
	for id, n := range f.notifications {
		if n.UserID == userID {
			delete(f.notifications, id)
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) DeleteOlderThan(userID uuid.UUID, cutoff time.Time) (int, error) {
	count := 0
	for id, n := range f.notifications {
		if n.UserID == userID && n.CreatedAt.Before(cutoff) {
			delete(f.notifications, id)
			count++
		}
	}
	return count, nil
}

func TestNotify(t *testing.T) {
	store := newFakeStore()
	dispatcher := NewDispatcher(store, nil)

	recipient := uuid.New()
	trigger := uuid.New()

	n, err := dispatcher.Notify(Notification{
		Recipient:   recipient,
		Message:     "Someone commented on your review",
		Type:        models.NotificationComment,
		TriggerUser: &trigger,
	})
	if err != nil {
		t.Fatalf("Notify() error = %v", err)
	}

	if n.UserID != recipient {
		t.Errorf("UserID = %s, want %s", n.UserID, recipient)
	}
	if n.Read {
		t.Error("new notification is already read")
	}
	if len(store.notifications) != 1 {
		t.Errorf("stored %d notifications, want 1", len(store.notifications))
	}
}

func TestNotifyRejectsSelf(t *testing.T) {
	store := newFakeStore()
	dispatcher := NewDispatcher(store, nil)

	user := uuid.New()
	_, err := dispatcher.Notify(Notification{
		Recipient:   user,
		Message:     "self notice",
		TriggerUser: &user,
	})

	if !errors.Is(err, ErrSelfNotification) {
		t.Fatalf("Notify() error = %v, want ErrSelfNotification", err)
	}
	if len(store.notifications) != 0 {
		t.Errorf("stored %d notifications, want 0", len(store.notifications))
	}
}

func TestNotifyDefaultsToSystemType(t *testing.T) {
	dispatcher := NewDispatcher(newFakeStore(), nil)

	n, err := dispatcher.Notify(Notification{
		Recipient: uuid.New(),
		Message:   "maintenance tonight",
	})
	if err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	if n.Type != models.NotificationSystem {
		t.Errorf("Type = %q, want %q", n.Type, models.NotificationSystem)
	}
}

func TestNotifyRequiresMessage(t *testing.T) {
	dispatcher := NewDispatcher(newFakeStore(), nil)

	if _, err := dispatcher.Notify(Notification{Recipient: uuid.New()}); err == nil {
		t.Fatal("Notify() with empty message succeeded, want error")
	}
}

func TestMarkRead(t *testing.T) {
	store := newFakeStore()
	dispatcher := NewDispatcher(store, nil)

	recipient := uuid.New()
	n, err := dispatcher.Notify(Notification{Recipient: recipient, Message: "hello"})
	if err != nil {
		t.Fatalf("Notify() error = %v", err)
	}

	read, err := dispatcher.MarkRead(n.ID, recipient)
	if err != nil {
		t.Fatalf("MarkRead() error = %v", err)
	}
	if !read.Read {
		t.Error("notification not read after MarkRead")
	}
	if read.ReadAt == nil {
		t.Error("ReadAt not set after MarkRead")
	}
	firstReadAt := *read.ReadAt

	// repeat is a no-op and keeps the original timestamp
	again, err := dispatcher.MarkRead(n.ID, recipient)
	if err != nil {
		t.Fatalf("repeat MarkRead() error = %v", err)
	}
	if !again.Read {
		t.Error("notification unread after repeat MarkRead")
	}
	if again.ReadAt == nil || !again.ReadAt.Equal(firstReadAt) {
		t.Errorf("ReadAt changed on repeat: %v, want %v", again.ReadAt, firstReadAt)
	}
	if store.markReadCalls != 1 {
		t.Errorf("store MarkRead called %d times, want 1", store.markReadCalls)
	}
}

func TestMarkReadOwnership(t *testing.T) {
	store := newFakeStore()
	dispatcher := NewDispatcher(store, nil)

	n, err := dispatcher.Notify(Notification{Recipient: uuid.New(), Message: "hello"})
	if err != nil {
		t.Fatalf("Notify() error = %v", err)
	}

	if _, err := dispatcher.MarkRead(n.ID, uuid.New()); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("MarkRead() by stranger error = %v, want ErrNotOwner", err)
	}
	if store.notifications[n.ID].Read {
		t.Error("stranger's MarkRead flipped the notification")
	}
}

func TestMarkAllReadIdempotent(t *testing.T) {
	store := newFakeStore()
	dispatcher := NewDispatcher(store, nil)

	recipient := uuid.New()
	for i := 0; i < 3; i++ {
		if _, err := dispatcher.Notify(Notification{Recipient: recipient, Message: "hi"}); err != nil {
			t.Fatalf("Notify() error = %v", err)
		}
	}

	count, err := dispatcher.MarkAllRead(recipient)
	if err != nil {
		t.Fatalf("MarkAllRead() error = %v", err)
	}
	if count != 3 {
		t.Errorf("MarkAllRead() = %d, want 3", count)
	}

	count, err = dispatcher.MarkAllRead(recipient)
	if err != nil {
		t.Fatalf("repeat MarkAllRead() error = %v", err)
	}
	if count != 0 {
		t.Errorf("repeat MarkAllRead() = %d, want 0", count)
	}
}

func TestClear(t *testing.T) {
	store := newFakeStore()
	dispatcher := NewDispatcher(store, nil)

	recipient := uuid.New()
	old, err := dispatcher.Notify(Notification{Recipient: recipient, Message: "old"})
	if err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	store.notifications[old.ID].CreatedAt = time.Now().AddDate(0, 0, -10)

	if _, err := dispatcher.Notify(Notification{Recipient: recipient, Message: "fresh"}); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}

	count, err := dispatcher.Clear(recipient, 7)
	if err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Clear(7 days) = %d, want 1", count)
	}

	count, err = dispatcher.Clear(recipient, 0)
	if err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Clear(all) = %d, want 1 remaining", count)
	}
	if len(store.notifications) != 0 {
		t.Errorf("%d notifications left after Clear", len(store.notifications))
	}
}
