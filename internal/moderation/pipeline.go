package moderation

import (
	"context"
	"fmt"

	"github.com/reviewly/backend/internal/models"
	"github.com/reviewly/backend/internal/sentiment"
)

// WordSource provides the banned-word snapshot for one analysis call.
// The admin table is re-read per call so edits take effect immediately.
type WordSource interface {
	List() ([]models.BannedWord, error)
}

// AnalysisResult carries the derived moderation fields for a review
// text. BannedWordsFound is nil, not empty, when the scan was clean.
type AnalysisResult struct {
	SentimentLabel   string
	SentimentScore   float64
	ContainsBanned   bool
	BannedWordsFound []string
}

// Apply writes the derived fields onto a review
func (r *AnalysisResult) Apply(review *models.Review) {
	review.SentimentLabel = r.SentimentLabel
	review.SentimentScore = r.SentimentScore
	review.ContainsBannedWords = r.ContainsBanned
	review.BannedWordsFound = r.BannedWordsFound
}

// LabelForScore maps a polarity score onto the three-way label. The
// boundaries are open: exactly 0.1 and -0.1 are Neutral.
func LabelForScore(score float64) string {
	switch {
	case score > 0.1:
		return models.SentimentPositive
	case score < -0.1:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

// Pipeline runs content analysis whenever review text is set. It has no
// side effects beyond the returned result; persisting the derived fields
// is the caller's job, and the caller must not persist the review at all
// if analysis fails.
type Pipeline struct {
	classifier sentiment.Classifier
	words      WordSource
}

func NewPipeline(classifier sentiment.Classifier, words WordSource) *Pipeline {
	return &Pipeline{
		classifier: classifier,
		words:      words,
	}
}

// Analyze scores sentiment and scans for banned words. Deterministic for
// a given text and word set.
func (p *Pipeline) Analyze(ctx context.Context, text string) (*AnalysisResult, error) {
	score, err := p.classifier.Score(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to score sentiment: %w", err)
	}

	words, err := p.words.List()
	if err != nil {
		return nil, fmt.Errorf("failed to load banned words: %w", err)
	}

	matches := Match(text, words)

	result := &AnalysisResult{
		SentimentLabel: LabelForScore(score),
		SentimentScore: score,
		ContainsBanned: len(matches) > 0,
	}
	for _, m := range matches {
		result.BannedWordsFound = append(result.BannedWordsFound, m.Word)
	}

	return result, nil
}
