package sentiment

import (
	"context"
	"testing"
)

func TestLexiconClassifierScore(t *testing.T) {
	classifier := NewLexiconClassifier()

	tests := []struct {
		name string
		text string
		want float64
	}{
		{
			name: "single positive word",
			text: "This product is amazing",
			want: 0.9,
		},
		{
			name: "single negative word",
			text: "Totally broken on arrival",
			want: -0.7,
		},
		{
			name: "mixed words average",
			text: "good but slow", // (0.5 + -0.3) / 2
			want: 0.1,
		},
		{
			name: "no lexicon words",
			text: "The box contained a product",
			want: 0,
		},
		{
			name: "empty text",
			text: "",
			want: 0,
		},
		{
			name: "case insensitive",
			text: "AMAZING",
			want: 0.9,
		},
		{
			name: "punctuation does not block matches",
			text: "Great, really great!",
			want: 0.7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := classifier.Score(context.Background(), tt.text)
			if err != nil {
				t.Fatalf("Score() error = %v", err)
			}
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLexiconClassifierDeterministic(t *testing.T) {
	classifier := NewLexiconClassifier()
	text := "great product but the delivery was terrible and slow"

	first, err := classifier.Score(context.Background(), text)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	for i := 0; i < 10; i++ {
		got, err := classifier.Score(context.Background(), text)
		if err != nil {
			t.Fatalf("Score() error = %v", err)
		}
		if got != first {
			t.Errorf("Score() = %v on repeat, want %v", got, first)
		}
	}
}
