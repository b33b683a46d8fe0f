package moderation

import (
	"strings"

	"github.com/reviewly/backend/internal/models"
)

// Match scans text for banned words with case-insensitive substring
// containment. Matches keep the literal stored word forms, follow the
// order of the word list, and are deduplicated by word identity.
func Match(text string, words []models.BannedWord) []models.BannedWord {
	if len(words) == 0 || text == "" {
		return nil
	}

	lower := strings.ToLower(text)
	seen := make(map[string]struct{}, len(words))

	var matches []models.BannedWord
	for _, w := range words {
		key := strings.ToLower(w.Word)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		if strings.Contains(lower, key) {
			seen[key] = struct{}{}
			matches = append(matches, w)
		}
	}

	return matches
}

// FilterBySeverity keeps the matched word names that appear in the given
// severity word list, used by the admin flagged-review filter.
func FilterBySeverity(found []string, severityWords []models.BannedWord) bool {
	if len(found) == 0 || len(severityWords) == 0 {
		return false
	}

	set := make(map[string]struct{}, len(severityWords))
	for _, w := range severityWords {
		set[strings.ToLower(w.Word)] = struct{}{}
	}

	for _, f := range found {
		if _, ok := set[strings.ToLower(f)]; ok {
			return true
		}
	}

	return false
}
