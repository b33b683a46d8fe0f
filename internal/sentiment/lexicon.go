package sentiment

import (
	"context"
	"strings"
	"unicode"
)

// lexicon maps lowercase words to polarity weights. Word scores are
// averaged over the number of scored words to stay within [-1, 1].
var lexicon = map[string]float64{
	"amazing":      0.9,
	"awesome":      0.9,
	"excellent":    0.9,
	"fantastic":    0.9,
	"perfect":      0.9,
	"love":         0.8,
	"loved":        0.8,
	"great":        0.7,
	"wonderful":    0.7,
	"best":         0.7,
	"good":         0.5,
	"nice":         0.5,
	"solid":        0.4,
	"useful":       0.4,
	"helpful":      0.4,
	"fine":         0.2,
	"okay":         0.1,
	"ok":           0.1,
	"average":      0.0,
	"mediocre":     -0.3,
	"slow":         -0.3,
	"expensive":    -0.3,
	"disappointed": -0.6,
	"poor":         -0.6,
	"bad":          -0.6,
	"broken":       -0.7,
	"useless":      -0.8,
	"waste":        -0.8,
	"terrible":     -0.9,
	"horrible":     -0.9,
	"awful":        -0.9,
	"worst":        -0.9,
	"hate":         -0.8,
	"hated":        -0.8,
	"defective":    -0.7,
	"refund":       -0.4,
	"scam":         -0.9,
}

// LexiconClassifier scores text against the embedded lexicon. It is the
// default scorer when no external endpoint is configured, never fails,
// and is safe for concurrent use.
type LexiconClassifier struct{}

func NewLexiconClassifier() *LexiconClassifier {
	return &LexiconClassifier{}
}

// Score averages lexicon weights over matched words. Text without any
// lexicon word scores 0.
func (c *LexiconClassifier) Score(_ context.Context, text string) (float64, error) {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	var sum float64
	matched := 0
	for _, w := range words {
		if weight, ok := lexicon[w]; ok {
			sum += weight
			matched++
		}
	}

	if matched == 0 {
		return 0, nil
	}

	return sum / float64(matched), nil
}
