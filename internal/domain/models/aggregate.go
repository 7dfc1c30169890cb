package models

import "time"

// RankedHeadline is one article kept in an aggregate's top list.
type RankedHeadline struct {
	Article Article         `json:"article"`
	Result  SentimentResult `json:"result"`
}

// TickerAggregate holds running statistics for one ticker over one scan
// cycle. Average is recomputed on read, never stored.
type TickerAggregate struct {
	Symbol       string           `json:"symbol"`
	ArticleCount int              `json:"article_count"`
	ScoreSum     float64          `json:"score_sum"`
	TopHeadlines []RankedHeadline `json:"top_headlines"`
	Label        Label            `json:"label,omitempty"`
}

// Average returns ScoreSum/ArticleCount, or 0 for an empty aggregate.
func (a *TickerAggregate) Average() float64 {
	if a.ArticleCount == 0 {
		return 0
	}
	return a.ScoreSum / float64(a.ArticleCount)
}

// MarketSymbol keys the aggregate that accumulates every processed article.
const MarketSymbol = "overall"

// CycleReport is the read-only outcome of one scan cycle handed to the
// reporting layer.
type CycleReport struct {
	StartedAt  time.Time                  `json:"started_at"`
	FinishedAt time.Time                  `json:"finished_at"`
	Market     TickerAggregate            `json:"market"`
	Tickers    map[string]TickerAggregate `json:"tickers"`
	Processed  int                        `json:"processed"`
	Duplicates int                        `json:"duplicates"`
	Skipped    map[string]int             `json:"skipped,omitempty"`
	Warnings   []string                   `json:"warnings,omitempty"`
}

// SkippedTotal sums skipped articles across reasons.
func (r *CycleReport) SkippedTotal() int {
	n := 0
	for _, v := range r.Skipped {
		n += v
	}
	return n
}
