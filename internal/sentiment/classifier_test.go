package sentiment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func scorerServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestHTTPClassifierScore(t *testing.T) {
	server := scorerServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req scoreRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if req.Text != "great product" {
			t.Errorf("scorer received text %q", req.Text)
		}
		json.NewEncoder(w).Encode(scoreResponse{Score: 0.42})
	})

	classifier := NewHTTPClassifier(server.URL, 2*time.Second)
	score, err := classifier.Score(context.Background(), "great product")
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if score != 0.42 {
		t.Errorf("Score() = %v, want 0.42", score)
	}
}

func TestHTTPClassifierServerError(t *testing.T) {
	server := scorerServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	classifier := NewHTTPClassifier(server.URL, 2*time.Second)
	_, err := classifier.Score(context.Background(), "any text")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Score() error = %v, want ErrUnavailable", err)
	}
}

func TestHTTPClassifierOutOfRangeScore(t *testing.T) {
	server := scorerServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(scoreResponse{Score: 3.5})
	})

	classifier := NewHTTPClassifier(server.URL, 2*time.Second)
	if _, err := classifier.Score(context.Background(), "any text"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Score() error = %v, want ErrUnavailable", err)
	}
}

func TestHTTPClassifierUnreachable(t *testing.T) {
	classifier := NewHTTPClassifier("http://127.0.0.1:1", 500*time.Millisecond)
	if _, err := classifier.Score(context.Background(), "any text"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Score() error = %v, want ErrUnavailable", err)
	}
}
