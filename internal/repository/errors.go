package repository

import (
	"errors"

	"github.com/lib/pq"
)

// Sentinel errors callers match with errors.Is to map onto HTTP statuses.
var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicateReport = errors.New("review already reported by this user")
	ErrDuplicateReview = errors.New("user already reviewed this product")
	ErrDuplicateWord   = errors.New("banned word already exists")
)

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (code 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
