package moderation

import (
	"testing"

	"github.com/google/uuid"
	"github.com/reviewly/backend/internal/models"
)

func wordList(words ...string) []models.BannedWord {
	list := make([]models.BannedWord, 0, len(words))
	for _, w := range words {
		list = append(list, models.BannedWord{
			ID:       uuid.New(),
			Word:     w,
			Severity: models.SeverityMedium,
		})
	}
	return list
}

func matchedWords(matches []models.BannedWord) []string {
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m.Word)
	}
	return names
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		words []models.BannedWord
		want  []string
	}{
		{
			name:  "simple match",
			text:  "this product is vulgar and offensive",
			words: wordList("vulgar", "offensive"),
			want:  []string{"vulgar", "offensive"},
		},
		{
			name:  "matches follow list order not text order",
			text:  "offensive and vulgar",
			words: wordList("vulgar", "offensive"),
			want:  []string{"vulgar", "offensive"},
		},
		{
			name:  "case insensitive both ways",
			text:  "This is VULGAR content",
			words: wordList("Vulgar"),
			want:  []string{"Vulgar"},
		},
		{
			name:  "substring containment",
			text:  "absolutely scammy behaviour",
			words: wordList("scam"),
			want:  []string{"scam"},
		},
		{
			name:  "repeated occurrences reported once",
			text:  "spam spam spam",
			words: wordList("spam"),
			want:  []string{"spam"},
		},
		{
			name:  "no matches",
			text:  "a perfectly clean review",
			words: wordList("vulgar", "offensive"),
			want:  nil,
		},
		{
			name:  "empty word list",
			text:  "anything at all",
			words: nil,
			want:  nil,
		},
		{
			name:  "empty text",
			text:  "",
			words: wordList("vulgar"),
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchedWords(Match(tt.text, tt.words))
			if len(got) != len(tt.want) {
				t.Fatalf("Match() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Match()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestMatchKeepsStoredForm(t *testing.T) {
	words := wordList("Vulgar")
	matches := Match("really vulgar stuff", words)
	if len(matches) != 1 {
		t.Fatalf("Match() returned %d matches, want 1", len(matches))
	}
	if matches[0].Word != "Vulgar" {
		t.Errorf("Match() returned word %q, want stored form %q", matches[0].Word, "Vulgar")
	}
}

func TestFilterBySeverity(t *testing.T) {
	high := wordList("scam", "fraud")

	tests := []struct {
		name  string
		found []string
		words []models.BannedWord
		want  bool
	}{
		{"match present", []string{"vulgar", "scam"}, high, true},
		{"case insensitive", []string{"SCAM"}, high, true},
		{"no overlap", []string{"vulgar"}, high, false},
		{"nothing found", nil, high, false},
		{"empty severity list", []string{"scam"}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FilterBySeverity(tt.found, tt.words); got != tt.want {
				t.Errorf("FilterBySeverity() = %v, want %v", got, tt.want)
			}
		})
	}
}
