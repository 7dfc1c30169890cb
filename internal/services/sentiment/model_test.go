package sentiment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"NewsPull/internal/domain/models"
	"NewsPull/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func modelServer(t *testing.T, score float64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if len(req.Text) > 512 {
			t.Errorf("text not truncated: %d bytes", len(req.Text))
		}
		_ = json.NewEncoder(w).Encode(map[string]float64{"score": score})
	}))
}

func TestModelBoundaryLabels(t *testing.T) {
	cases := []struct {
		score float64
		label models.Label
	}{
		{0.6, models.VeryBullish},
		{0.5, models.Bullish},
		{0.2, models.Bullish},
		{0.1, models.Neutral},
		{-0.1, models.Neutral},
		{-0.2, models.Bearish},
		{-0.5, models.Bearish},
		{-0.6, models.VeryBearish},
	}
	for _, c := range cases {
		srv := modelServer(t, c.score)
		s := NewModelScorer(srv.URL, 5*time.Second, 0, 0, testLogger(t))
		res, err := s.Score(context.Background(), models.Article{ID: "a1", Title: "headline"})
		srv.Close()
		if err != nil {
			t.Fatalf("score %v: unexpected error %v", c.score, err)
		}
		if res.Label != c.label {
			t.Fatalf("score %v: expected %s, got %s", c.score, c.label, res.Label)
		}
		if res.Strategy != models.StrategyModel {
			t.Fatalf("unexpected strategy %s", res.Strategy)
		}
	}
}

func TestModelTruncatesInput(t *testing.T) {
	srv := modelServer(t, 0.3)
	defer srv.Close()
	s := NewModelScorer(srv.URL, 5*time.Second, 0, 0, testLogger(t))

	long := make([]byte, 5000)
	for i := range long {
		long[i] = 'x'
	}
	_, err := s.Score(context.Background(), models.Article{ID: "a1", Title: string(long)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestModelFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	s := NewModelScorer(srv.URL, 5*time.Second, 0, 0, testLogger(t))

	_, err := s.Score(context.Background(), models.Article{ID: "a1", Title: "headline"})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestModelTimeoutIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()
	s := NewModelScorer(srv.URL, 20*time.Millisecond, 0, 0, testLogger(t))

	_, err := s.Score(context.Background(), models.Article{ID: "a1", Title: "headline"})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable on timeout, got %v", err)
	}
}

func TestModelCachesByArticleID(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_ = json.NewEncoder(w).Encode(map[string]float64{"score": 0.4})
	}))
	defer srv.Close()
	s := NewModelScorer(srv.URL, 5*time.Second, time.Minute, 0, testLogger(t))

	a := models.Article{ID: "a1", Title: "headline"}
	for i := 0; i < 3; i++ {
		if _, err := s.Score(context.Background(), a); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if calls != 1 {
		t.Fatalf("expected one upstream call, got %d", calls)
	}
}

func TestModelClampsScore(t *testing.T) {
	srv := modelServer(t, 3.7)
	defer srv.Close()
	s := NewModelScorer(srv.URL, 5*time.Second, 0, 0, testLogger(t))

	res, err := s.Score(context.Background(), models.Article{ID: "a1", Title: "headline"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Score != 1 {
		t.Fatalf("expected clamp to 1, got %v", res.Score)
	}
}
