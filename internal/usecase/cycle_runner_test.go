package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"NewsPull/internal/domain/models"
	drepo "NewsPull/internal/domain/repository"
	"NewsPull/internal/services/sentiment"
	"NewsPull/pkg/logger"
)

type fakeFeed struct {
	name     string
	articles []models.Article
}

func (f *fakeFeed) Fetch(_ context.Context) ([]models.Article, error) { return f.articles, nil }
func (f *fakeFeed) Name() string                                      { return f.name }

type fakeDedup struct {
	mu      sync.Mutex
	seen    map[string]bool
	markErr error
	marks   []string
}

func newFakeDedup() *fakeDedup { return &fakeDedup{seen: map[string]bool{}} }

func (d *fakeDedup) Seen(_ context.Context, id string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.seen[id], nil
}

func (d *fakeDedup) Mark(_ context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.markErr != nil {
		return d.markErr
	}
	d.seen[id] = true
	d.marks = append(d.marks, id)
	return nil
}

type fakeScorer struct {
	mu     sync.Mutex
	scores map[string]float64
	fail   map[string]bool
	calls  map[string]int
}

func (s *fakeScorer) Score(_ context.Context, a models.Article) (models.SentimentResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = map[string]int{}
	}
	s.calls[a.ID]++
	if s.fail[a.ID] {
		return models.SentimentResult{}, sentiment.ErrUnavailable
	}
	sc := s.scores[a.ID]
	return models.SentimentResult{Score: sc, Label: sentiment.LabelFromScore(sc), Strategy: models.StrategyModel}, nil
}

func (s *fakeScorer) Strategy() models.Strategy { return models.StrategyModel }

type noopMetrics struct{}

func (noopMetrics) RecordArticle(string)            {}
func (noopMetrics) RecordMention(string, string)    {}
func (noopMetrics) RecordSkip(string)               {}
func (noopMetrics) RecordError(string)              {}
func (noopMetrics) RecordTickerScore(string, float64) {}
func (noopMetrics) RecordLatency(string, float64)   {}

func runnerLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

const teslaWatchlist = `
tickers:
  - symbol: TSLA
    name: Tesla
    aliases: [TSLA, Tesla]
`

func newTestRunner(t *testing.T, feed *fakeFeed, dedup *fakeDedup, scorer *fakeScorer) *CycleRunner {
	t.Helper()
	idx := testIndex(t, teslaWatchlist)
	return NewCycleRunner(
		[]drepo.FeedSource{feed},
		dedup,
		scorer,
		NewDisambiguator(idx, 30),
		idx,
		nil,
		noopMetrics{},
		runnerLogger(t),
		4,
		time.Second,
		5,
	)
}

func articlesAbout(n int) []models.Article {
	out := make([]models.Article, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.Article{
			ID:          fmt.Sprintf("a%d", i),
			Title:       fmt.Sprintf("Tesla update %d", i),
			PublishedAt: time.Date(2026, 8, 1, 12, i, 0, 0, time.UTC),
		})
	}
	return out
}

func TestRunAggregatesAndMarks(t *testing.T) {
	feed := &fakeFeed{name: "rss", articles: articlesAbout(5)}
	dedup := newFakeDedup()
	scorer := &fakeScorer{scores: map[string]float64{"a0": 0.8, "a1": 0.6, "a2": -0.2, "a3": 0.1, "a4": 0.3}}
	r := newTestRunner(t, feed, dedup, scorer)

	rep, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.Processed != 5 || rep.Duplicates != 0 {
		t.Fatalf("unexpected counts: %+v", rep)
	}
	tsla, ok := rep.Tickers["TSLA"]
	if !ok || tsla.ArticleCount != 5 {
		t.Fatalf("expected 5 TSLA articles, got %+v", tsla)
	}
	if avg := tsla.Average(); avg != 0.32 {
		t.Fatalf("expected average 0.32, got %v", avg)
	}
	if len(dedup.marks) != 5 {
		t.Fatalf("expected 5 marks, got %d", len(dedup.marks))
	}
	if r.Latest() != rep {
		t.Fatalf("Latest must return the last report")
	}
}

// The same identity appearing twice in one batch aggregates once.
func TestRunAtMostOncePerIdentity(t *testing.T) {
	arts := articlesAbout(3)
	arts = append(arts, arts[0], arts[1])
	feed := &fakeFeed{name: "rss", articles: arts}
	dedup := newFakeDedup()
	scorer := &fakeScorer{scores: map[string]float64{}}
	r := newTestRunner(t, feed, dedup, scorer)

	rep, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.Processed != 3 {
		t.Fatalf("expected 3 processed, got %d", rep.Processed)
	}
	if rep.Duplicates != 2 {
		t.Fatalf("expected 2 duplicates, got %d", rep.Duplicates)
	}
	if rep.Market.ArticleCount != 3 {
		t.Fatalf("market must aggregate each identity once, got %d", rep.Market.ArticleCount)
	}
}

func TestRunSkipsSeenAcrossRuns(t *testing.T) {
	feed := &fakeFeed{name: "rss", articles: articlesAbout(4)}
	dedup := newFakeDedup()
	dedup.seen["a1"] = true
	dedup.seen["a2"] = true
	scorer := &fakeScorer{scores: map[string]float64{}}
	r := newTestRunner(t, feed, dedup, scorer)

	rep, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.Processed != 2 || rep.Duplicates != 2 {
		t.Fatalf("unexpected counts: processed=%d duplicates=%d", rep.Processed, rep.Duplicates)
	}
}

// Articles whose scoring fails are counted, excluded from aggregates, and
// never marked seen.
func TestRunScoringFailureSkipsWithoutMark(t *testing.T) {
	feed := &fakeFeed{name: "rss", articles: articlesAbout(3)}
	dedup := newFakeDedup()
	scorer := &fakeScorer{scores: map[string]float64{}, fail: map[string]bool{"a1": true}}
	r := newTestRunner(t, feed, dedup, scorer)

	rep, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.Processed != 2 {
		t.Fatalf("expected 2 processed, got %d", rep.Processed)
	}
	if rep.SkippedTotal() != 1 {
		t.Fatalf("expected 1 skipped, got %d", rep.SkippedTotal())
	}
	if rep.Market.ArticleCount != 2 {
		t.Fatalf("skipped article must not reach aggregates, got %d", rep.Market.ArticleCount)
	}
	if dedup.seen["a1"] {
		t.Fatalf("skipped article must not be marked seen")
	}
}

func TestRunMarkFailureIsWarning(t *testing.T) {
	feed := &fakeFeed{name: "rss", articles: articlesAbout(2)}
	dedup := newFakeDedup()
	dedup.markErr = fmt.Errorf("redis down")
	scorer := &fakeScorer{scores: map[string]float64{}}
	r := newTestRunner(t, feed, dedup, scorer)

	rep, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("mark failure must not abort the cycle: %v", err)
	}
	if rep.Processed != 2 {
		t.Fatalf("expected processing to continue, got %d", rep.Processed)
	}
	if len(rep.Warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %v", rep.Warnings)
	}
}

func TestRunRejectsConcurrentCycle(t *testing.T) {
	feed := &fakeFeed{name: "rss", articles: articlesAbout(1)}
	r := newTestRunner(t, feed, newFakeDedup(), &fakeScorer{scores: map[string]float64{}})

	r.running.Store(true)
	if _, err := r.Run(context.Background()); err != ErrCycleInProgress {
		t.Fatalf("expected ErrCycleInProgress, got %v", err)
	}
	r.running.Store(false)
}
