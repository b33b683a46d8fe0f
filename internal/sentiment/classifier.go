package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
)

// ErrUnavailable is returned when the polarity scorer cannot produce a
// score. Callers must fail the whole review write rather than persist
// stale or default moderation fields.
var ErrUnavailable = errors.New("sentiment classifier unavailable")

// Classifier scores text polarity in [-1.0, 1.0]
type Classifier interface {
	Score(ctx context.Context, text string) (float64, error)
}

type scoreRequest struct {
	Text string `json:"text"`
}

type scoreResponse struct {
	Score float64 `json:"score"`
}

// HTTPClassifier calls an external polarity scorer over HTTP. Requests
// run behind a circuit breaker so a dead scorer fails fast instead of
// stalling every review write until its timeout.
type HTTPClassifier struct {
	url     string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[float64]
}

// NewHTTPClassifier creates a classifier for the given scoring endpoint
// with a bounded per-call timeout.
func NewHTTPClassifier(url string, timeout time.Duration) *HTTPClassifier {
	settings := gobreaker.Settings{
		Name:     "sentiment-scorer",
		Interval: 60 * time.Second,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("Sentiment breaker %s: %s -> %s", name, from, to)
		},
	}

	return &HTTPClassifier{
		url:     url,
		client:  &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker[float64](settings),
	}
}

// Score posts the text to the scoring endpoint and returns its polarity
func (c *HTTPClassifier) Score(ctx context.Context, text string) (float64, error) {
	score, err := c.breaker.Execute(func() (float64, error) {
		return c.score(ctx, text)
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return score, nil
}

func (c *HTTPClassifier) score(ctx context.Context, text string) (float64, error) {
	body, err := json.Marshal(scoreRequest{Text: text})
	if err != nil {
		return 0, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("scorer request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("scorer returned status %d", resp.StatusCode)
	}

	var sr scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return 0, fmt.Errorf("failed to decode scorer response: %w", err)
	}

	if sr.Score < -1.0 || sr.Score > 1.0 {
		return 0, fmt.Errorf("scorer returned out-of-range score %f", sr.Score)
	}

	return sr.Score, nil
}
