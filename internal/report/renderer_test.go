package report

import (
	"strings"
	"testing"
	"time"

	"NewsPull/internal/domain/models"
)

func sampleReport() *models.CycleReport {
	return &models.CycleReport{
		StartedAt:  time.Date(2026, 8, 21, 21, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2026, 8, 21, 21, 2, 0, 0, time.UTC),
		Market: models.TickerAggregate{
			Symbol:       models.MarketSymbol,
			ArticleCount: 10,
			ScoreSum:     3.2,
			Label:        models.Bullish,
		},
		Tickers: map[string]models.TickerAggregate{
			"TSLA": {
				Symbol:       "TSLA",
				ArticleCount: 2,
				ScoreSum:     -0.4,
				Label:        models.Bearish,
				TopHeadlines: []models.RankedHeadline{
					{
						Article: models.Article{ID: "a1", Title: "Tesla recalls vehicles", Link: "https://x/1", Source: "wire"},
						Result:  models.SentimentResult{Score: -0.3, Label: models.Bearish},
					},
				},
			},
			"NVDA": {
				Symbol:       "NVDA",
				ArticleCount: 3,
				ScoreSum:     1.8,
				Label:        models.VeryBullish,
			},
		},
		Processed:  10,
		Duplicates: 4,
		Skipped:    map[string]int{"score_unavailable": 1},
	}
}

func TestRenderSubject(t *testing.T) {
	subject, _, err := Render(sampleReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if subject != "Ticker Sentiment 2026-08-21: BULLISH" {
		t.Fatalf("unexpected subject %q", subject)
	}
}

func TestRenderSubjectHumanizesLabel(t *testing.T) {
	r := sampleReport()
	r.Market.Label = models.VeryBullish
	subject, _, err := Render(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(subject, "VERY BULLISH") {
		t.Fatalf("label underscores must become spaces, got %q", subject)
	}
}

func TestRenderBody(t *testing.T) {
	_, html, err := Render(sampleReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"TSLA", "NVDA", "Tesla recalls vehicles", "https://x/1", "4 duplicates", "1 skipped"} {
		if !strings.Contains(html, want) {
			t.Fatalf("body missing %q:\n%s", want, html)
		}
	}
	// highest average first
	if strings.Index(html, "NVDA") > strings.Index(html, "TSLA") {
		t.Fatalf("tickers must be ordered by mean score descending")
	}
}

func TestRenderNilReport(t *testing.T) {
	if _, _, err := Render(nil); err == nil {
		t.Fatalf("expected error for nil report")
	}
}
