package usecase

import (
	"sort"
	"sync"

	"NewsPull/internal/domain/models"
	"NewsPull/internal/services/sentiment"
)

// Aggregator folds scored articles into per-ticker and market-wide running
// aggregates. All mutation happens under one mutex so folds from concurrent
// workers serialize; the final state does not depend on fold order.
type Aggregator struct {
	mu      sync.Mutex
	topK    int
	market  *models.TickerAggregate
	tickers map[string]*models.TickerAggregate
}

func NewAggregator(topK int) *Aggregator {
	if topK <= 0 {
		topK = 5
	}
	return &Aggregator{
		topK:    topK,
		market:  &models.TickerAggregate{Symbol: models.MarketSymbol},
		tickers: make(map[string]*models.TickerAggregate),
	}
}

// Fold records one scored article. Every article contributes to the market
// aggregate; each symbol among the accepted mentions is credited once no
// matter how many aliases matched.
func (g *Aggregator) Fold(mentions []models.Mention, res models.SentimentResult, a models.Article) {
	symbols := make(map[string]bool)
	for _, m := range mentions {
		if m.Accepted {
			symbols[m.Symbol] = true
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.fold(g.market, res, a)
	for sym := range symbols {
		agg, ok := g.tickers[sym]
		if !ok {
			agg = &models.TickerAggregate{Symbol: sym}
			g.tickers[sym] = agg
		}
		g.fold(agg, res, a)
	}
}

func (g *Aggregator) fold(agg *models.TickerAggregate, res models.SentimentResult, a models.Article) {
	agg.ArticleCount++
	agg.ScoreSum += res.Score
	agg.TopHeadlines = append(agg.TopHeadlines, models.RankedHeadline{Article: a, Result: res})
	sortHeadlines(agg.TopHeadlines)
	if len(agg.TopHeadlines) > g.topK {
		agg.TopHeadlines = agg.TopHeadlines[:g.topK]
	}
}

// sortHeadlines orders by |score| descending, most recent first on ties.
// Article ID is the final tiebreak so ordering is total and fold-order
// independent.
func sortHeadlines(hs []models.RankedHeadline) {
	sort.Slice(hs, func(i, j int) bool {
		ai, aj := abs(hs[i].Result.Score), abs(hs[j].Result.Score)
		if ai != aj {
			return ai > aj
		}
		ti, tj := hs[i].Article.PublishedAt, hs[j].Article.PublishedAt
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return hs[i].Article.ID < hs[j].Article.ID
	})
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// Snapshot returns deep copies with labels derived from the mean score.
// Safe to call at any point during a cycle.
func (g *Aggregator) Snapshot() (models.TickerAggregate, map[string]models.TickerAggregate) {
	g.mu.Lock()
	defer g.mu.Unlock()

	market := copyAggregate(g.market)
	tickers := make(map[string]models.TickerAggregate, len(g.tickers))
	for sym, agg := range g.tickers {
		tickers[sym] = copyAggregate(agg)
	}
	return market, tickers
}

func copyAggregate(agg *models.TickerAggregate) models.TickerAggregate {
	out := models.TickerAggregate{
		Symbol:       agg.Symbol,
		ArticleCount: agg.ArticleCount,
		ScoreSum:     agg.ScoreSum,
		TopHeadlines: make([]models.RankedHeadline, len(agg.TopHeadlines)),
	}
	copy(out.TopHeadlines, agg.TopHeadlines)
	if out.ArticleCount > 0 {
		out.Label = sentiment.LabelFromScore(out.Average())
	} else {
		out.Label = models.Neutral
	}
	return out
}
