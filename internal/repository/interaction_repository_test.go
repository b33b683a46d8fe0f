package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/reviewly/backend/internal/database"
	"github.com/reviewly/backend/internal/models"
)

func boolPtr(v bool) *bool {
	return &v
}

func TestDecideToggle(t *testing.T) {
	tests := []struct {
		name       string
		current    *bool
		submitted  bool
		wantAction models.InteractionAction
		wantState  *bool
	}{
		{"no row, helpful", nil, true, models.InteractionCreated, boolPtr(true)},
		{"no row, unhelpful", nil, false, models.InteractionCreated, boolPtr(false)},
		{"repeat helpful undoes", boolPtr(true), true, models.InteractionRemoved, nil},
		{"repeat unhelpful undoes", boolPtr(false), false, models.InteractionRemoved, nil},
		{"helpful to unhelpful", boolPtr(true), false, models.InteractionUpdated, boolPtr(false)},
		{"unhelpful to helpful", boolPtr(false), true, models.InteractionUpdated, boolPtr(true)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, state := decideToggle(tt.current, tt.submitted)
			if action != tt.wantAction {
				t.Errorf("decideToggle() action = %q, want %q", action, tt.wantAction)
			}
			if (state == nil) != (tt.wantState == nil) {
				t.Fatalf("decideToggle() state = %v, want %v", state, tt.wantState)
			}
			if state != nil && *state != *tt.wantState {
				t.Errorf("decideToggle() state = %v, want %v", *state, *tt.wantState)
			}
		})
	}
}

// Applying each decision back as the next call's current state drives
// the full lifecycle: the same value round-trips to no reaction, and
// alternating values flip a single state without ever stacking.
func TestDecideToggleLifecycle(t *testing.T) {
	var state *bool

	action, state := decideToggle(state, true)
	if action != models.InteractionCreated || state == nil || !*state {
		t.Fatalf("first submit: action = %q, state = %v", action, state)
	}

	action, state = decideToggle(state, true)
	if action != models.InteractionRemoved || state != nil {
		t.Fatalf("repeat submit: action = %q, state = %v, want removed with no state", action, state)
	}

	// alternate values from scratch
	_, state = decideToggle(nil, true)
	for i := 0; i < 6; i++ {
		submitted := i%2 == 1 // false, true, false, ...
		action, state = decideToggle(state, submitted)
		if action != models.InteractionUpdated {
			t.Fatalf("alternation step %d: action = %q, want updated", i, action)
		}
		if state == nil || *state != submitted {
			t.Fatalf("alternation step %d: state = %v, want %v", i, state, submitted)
		}
	}
}

func newMockRepo(t *testing.T) (*InteractionRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewInteractionRepository(&database.DB{DB: db}), mock
}

func expectCounts(mock sqlmock.Sqlmock, likes, dislikes int) {
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"likes", "dislikes"}).AddRow(likes, dislikes))
}

func TestToggleCreates(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT helpful FROM review_interactions").
		WillReturnRows(sqlmock.NewRows([]string{"helpful"}))
	mock.ExpectExec("INSERT INTO review_interactions").
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectCounts(mock, 1, 0)
	mock.ExpectCommit()

	result, err := repo.Toggle(uuid.New(), uuid.New(), true)
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if result.Action != models.InteractionCreated {
		t.Errorf("Action = %q, want created", result.Action)
	}
	if result.State == nil || !*result.State {
		t.Errorf("State = %v, want true", result.State)
	}
	if result.Likes != 1 || result.Dislikes != 0 {
		t.Errorf("counts = %d/%d, want 1/0", result.Likes, result.Dislikes)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestToggleRepeatDeletes(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT helpful FROM review_interactions").
		WillReturnRows(sqlmock.NewRows([]string{"helpful"}).AddRow(true))
	mock.ExpectExec("DELETE FROM review_interactions").
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectCounts(mock, 0, 0)
	mock.ExpectCommit()

	result, err := repo.Toggle(uuid.New(), uuid.New(), true)
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if result.Action != models.InteractionRemoved {
		t.Errorf("Action = %q, want removed", result.Action)
	}
	if result.State != nil {
		t.Errorf("State = %v, want nil after undo", result.State)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestToggleOppositeUpdates(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT helpful FROM review_interactions").
		WillReturnRows(sqlmock.NewRows([]string{"helpful"}).AddRow(true))
	mock.ExpectExec("UPDATE review_interactions").
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectCounts(mock, 0, 1)
	mock.ExpectCommit()

	result, err := repo.Toggle(uuid.New(), uuid.New(), false)
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if result.Action != models.InteractionUpdated {
		t.Errorf("Action = %q, want updated", result.Action)
	}
	if result.State == nil || *result.State {
		t.Errorf("State = %v, want false", result.State)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestRecordReport(t *testing.T) {
	repo, mock := newMockRepo(t)

	reviewID := uuid.New()
	userID := uuid.New()
	reportID := uuid.New()

	mock.ExpectQuery("INSERT INTO review_reports").
		WillReturnRows(sqlmock.NewRows([]string{"id", "review_id", "user_id", "reason", "created_at"}).
			AddRow(reportID.String(), reviewID.String(), userID.String(), "spam", time.Now()))

	report, err := repo.RecordReport(reviewID, userID, "spam")
	if err != nil {
		t.Fatalf("RecordReport() error = %v", err)
	}
	if report.Reason != "spam" {
		t.Errorf("Reason = %q, want %q", report.Reason, "spam")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

// The ON CONFLICT DO NOTHING insert returns zero rows when a report
// already exists; the loser of the race sees DuplicateReport and the
// stored reason is never touched.
func TestRecordReportDuplicate(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("INSERT INTO review_reports").
		WillReturnRows(sqlmock.NewRows([]string{"id", "review_id", "user_id", "reason", "created_at"}))

	_, err := repo.RecordReport(uuid.New(), uuid.New(), "second opinion")
	if !errors.Is(err, ErrDuplicateReport) {
		t.Fatalf("RecordReport() error = %v, want ErrDuplicateReport", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
