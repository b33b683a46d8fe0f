package moderation

import (
	"context"
	"errors"
	"testing"

	"github.com/reviewly/backend/internal/models"
)

type stubClassifier struct {
	score float64
	err   error
}

func (s *stubClassifier) Score(_ context.Context, _ string) (float64, error) {
	return s.score, s.err
}

type stubWordSource struct {
	words []models.BannedWord
	err   error
}

func (s *stubWordSource) List() ([]models.BannedWord, error) {
	return s.words, s.err
}

func TestLabelForScore(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0.9, models.SentimentPositive},
		{0.1001, models.SentimentPositive},
		{0.1, models.SentimentNeutral},
		{0, models.SentimentNeutral},
		{-0.1, models.SentimentNeutral},
		{-0.1001, models.SentimentNegative},
		{-0.9, models.SentimentNegative},
	}

	for _, tt := range tests {
		if got := LabelForScore(tt.score); got != tt.want {
			t.Errorf("LabelForScore(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestPipelineAnalyze(t *testing.T) {
	pipeline := NewPipeline(
		&stubClassifier{score: 0.5},
		&stubWordSource{words: wordList("vulgar", "offensive")},
	)

	result, err := pipeline.Analyze(context.Background(), "this product is vulgar and offensive")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if result.SentimentLabel != models.SentimentPositive {
		t.Errorf("SentimentLabel = %q, want %q", result.SentimentLabel, models.SentimentPositive)
	}
	if result.SentimentScore != 0.5 {
		t.Errorf("SentimentScore = %v, want 0.5", result.SentimentScore)
	}
	if !result.ContainsBanned {
		t.Error("ContainsBanned = false, want true")
	}
	if len(result.BannedWordsFound) != 2 || result.BannedWordsFound[0] != "vulgar" || result.BannedWordsFound[1] != "offensive" {
		t.Errorf("BannedWordsFound = %v, want [vulgar offensive]", result.BannedWordsFound)
	}
}

func TestPipelineAnalyzeCleanText(t *testing.T) {
	pipeline := NewPipeline(
		&stubClassifier{score: -0.3},
		&stubWordSource{words: wordList("vulgar")},
	)

	result, err := pipeline.Analyze(context.Background(), "a disappointing purchase")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if result.SentimentLabel != models.SentimentNegative {
		t.Errorf("SentimentLabel = %q, want %q", result.SentimentLabel, models.SentimentNegative)
	}
	if result.ContainsBanned {
		t.Error("ContainsBanned = true, want false")
	}
	if result.BannedWordsFound != nil {
		t.Errorf("BannedWordsFound = %v, want nil for a clean scan", result.BannedWordsFound)
	}
}

func TestPipelineAnalyzeClassifierFailure(t *testing.T) {
	scorerErr := errors.New("scorer down")
	pipeline := NewPipeline(
		&stubClassifier{err: scorerErr},
		&stubWordSource{words: wordList("vulgar")},
	)

	result, err := pipeline.Analyze(context.Background(), "any text")
	if err == nil {
		t.Fatal("Analyze() error = nil, want error")
	}
	if !errors.Is(err, scorerErr) {
		t.Errorf("Analyze() error = %v, want wrapped %v", err, scorerErr)
	}
	if result != nil {
		t.Errorf("Analyze() result = %v, want nil on failure", result)
	}
}

func TestPipelineAnalyzeWordSourceFailure(t *testing.T) {
	listErr := errors.New("db down")
	pipeline := NewPipeline(
		&stubClassifier{score: 0},
		&stubWordSource{err: listErr},
	)

	if _, err := pipeline.Analyze(context.Background(), "any text"); !errors.Is(err, listErr) {
		t.Errorf("Analyze() error = %v, want wrapped %v", err, listErr)
	}
}

func TestPipelineAnalyzeDeterministic(t *testing.T) {
	pipeline := NewPipeline(
		&stubClassifier{score: 0.1},
		&stubWordSource{words: wordList("vulgar", "offensive", "scam")},
	)

	first, err := pipeline.Analyze(context.Background(), "offensive scam, truly vulgar")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	for i := 0; i < 5; i++ {
		got, err := pipeline.Analyze(context.Background(), "offensive scam, truly vulgar")
		if err != nil {
			t.Fatalf("Analyze() error = %v", err)
		}
		if got.SentimentLabel != first.SentimentLabel || got.SentimentScore != first.SentimentScore {
			t.Fatalf("Analyze() sentiment changed across runs: %+v vs %+v", got, first)
		}
		if len(got.BannedWordsFound) != len(first.BannedWordsFound) {
			t.Fatalf("Analyze() matches changed across runs: %v vs %v", got.BannedWordsFound, first.BannedWordsFound)
		}
		for j := range got.BannedWordsFound {
			if got.BannedWordsFound[j] != first.BannedWordsFound[j] {
				t.Fatalf("Analyze() match order changed across runs: %v vs %v", got.BannedWordsFound, first.BannedWordsFound)
			}
		}
	}
}
