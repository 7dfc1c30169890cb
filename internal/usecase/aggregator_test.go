package usecase

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"NewsPull/internal/domain/models"
)

func accepted(symbol, articleID string) []models.Mention {
	return []models.Mention{{ArticleID: articleID, Symbol: symbol, Accepted: true}}
}

func scored(score float64) models.SentimentResult {
	return models.SentimentResult{Score: score, Strategy: models.StrategyModel}
}

func TestAggregatorExactAverage(t *testing.T) {
	scores := []float64{0.8, 0.6, -0.2, 0.1, 0.3}
	agg := NewAggregator(5)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i, s := range scores {
		a := models.Article{ID: fmt.Sprintf("a%d", i), Title: "t", PublishedAt: base.Add(time.Duration(i) * time.Minute)}
		agg.Fold(accepted("X", a.ID), scored(s), a)
	}
	// five off-ticker articles still hit the market aggregate
	for i := 0; i < 5; i++ {
		a := models.Article{ID: fmt.Sprintf("m%d", i), Title: "t", PublishedAt: base}
		agg.Fold(nil, scored(0), a)
	}

	market, tickers := agg.Snapshot()
	x, ok := tickers["X"]
	if !ok {
		t.Fatalf("expected aggregate for X")
	}
	if x.ArticleCount != 5 {
		t.Fatalf("expected 5 articles for X, got %d", x.ArticleCount)
	}
	if avg := x.Average(); avg != 0.32 {
		t.Fatalf("expected average 0.32, got %v", avg)
	}
	if market.ArticleCount != 10 {
		t.Fatalf("market must count every article, got %d", market.ArticleCount)
	}
	if len(x.TopHeadlines) == 0 || x.TopHeadlines[0].Result.Score != 0.8 {
		t.Fatalf("top headline must be the 0.8 article, got %+v", x.TopHeadlines)
	}
	for i := 1; i < len(x.TopHeadlines); i++ {
		prev := x.TopHeadlines[i-1].Result.Score
		cur := x.TopHeadlines[i].Result.Score
		if abs(cur) > abs(prev) {
			t.Fatalf("headlines not ordered by |score|: %v then %v", prev, cur)
		}
	}
}

func TestAggregatorOrderIndependent(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	type item struct {
		a models.Article
		r models.SentimentResult
	}
	var items []item
	for i := 0; i < 20; i++ {
		items = append(items, item{
			a: models.Article{ID: fmt.Sprintf("a%d", i), PublishedAt: base.Add(time.Duration(i) * time.Hour)},
			r: scored(float64(i%7)/10 - 0.3),
		})
	}

	fold := func(order []int) (models.TickerAggregate, models.TickerAggregate) {
		agg := NewAggregator(5)
		for _, i := range order {
			agg.Fold(accepted("X", items[i].a.ID), items[i].r, items[i].a)
		}
		market, tickers := agg.Snapshot()
		return market, tickers["X"]
	}

	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	m1, x1 := fold(order)
	rand.New(rand.NewSource(42)).Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	m2, x2 := fold(order)

	if x1.ScoreSum != x2.ScoreSum || x1.ArticleCount != x2.ArticleCount {
		t.Fatalf("ticker aggregate depends on fold order: %+v vs %+v", x1, x2)
	}
	if m1.ScoreSum != m2.ScoreSum || m1.ArticleCount != m2.ArticleCount {
		t.Fatalf("market aggregate depends on fold order")
	}
	for i := range x1.TopHeadlines {
		if x1.TopHeadlines[i].Article.ID != x2.TopHeadlines[i].Article.ID {
			t.Fatalf("top headlines depend on fold order at %d", i)
		}
	}
}

func TestAggregatorTopKBoundAndTies(t *testing.T) {
	agg := NewAggregator(3)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	// equal |score|, different timestamps; newest must rank first
	for i := 0; i < 5; i++ {
		a := models.Article{ID: fmt.Sprintf("a%d", i), PublishedAt: base.Add(time.Duration(i) * time.Minute)}
		agg.Fold(accepted("X", a.ID), scored(0.5), a)
	}
	_, tickers := agg.Snapshot()
	x := tickers["X"]
	if len(x.TopHeadlines) != 3 {
		t.Fatalf("expected top-3 cap, got %d", len(x.TopHeadlines))
	}
	if x.TopHeadlines[0].Article.ID != "a4" {
		t.Fatalf("newest must win the tie, got %s", x.TopHeadlines[0].Article.ID)
	}
}

func TestAggregatorSymbolCountedOncePerArticle(t *testing.T) {
	agg := NewAggregator(5)
	a := models.Article{ID: "a1", PublishedAt: time.Now()}
	mentions := []models.Mention{
		{ArticleID: "a1", Symbol: "X", MatchedAlias: "X", Accepted: true},
		{ArticleID: "a1", Symbol: "X", MatchedAlias: "XCorp", Accepted: true},
	}
	agg.Fold(mentions, scored(0.4), a)
	_, tickers := agg.Snapshot()
	if tickers["X"].ArticleCount != 1 {
		t.Fatalf("two aliases of one symbol must count once, got %d", tickers["X"].ArticleCount)
	}
}

func TestAggregatorRejectedMentionIgnored(t *testing.T) {
	agg := NewAggregator(5)
	a := models.Article{ID: "a1", PublishedAt: time.Now()}
	mentions := []models.Mention{{ArticleID: "a1", Symbol: "X", Accepted: false, RejectionReason: "no_context"}}
	agg.Fold(mentions, scored(0.4), a)
	market, tickers := agg.Snapshot()
	if _, ok := tickers["X"]; ok {
		t.Fatalf("rejected mention must not create a ticker aggregate")
	}
	if market.ArticleCount != 1 {
		t.Fatalf("market aggregate must still count the article")
	}
}
