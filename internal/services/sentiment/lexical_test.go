package sentiment

import (
	"context"
	"testing"

	"NewsPull/internal/domain/models"
)

var bullish = []string{"surge", "soar", "rally", "beat", "strong", "record"}
var bearish = []string{"plunge", "crash", "miss", "slump", "weak"}

func TestLexicalScoreBoundaryLabels(t *testing.T) {
	cases := []struct {
		raw   int
		label models.Label
	}{
		{3, models.VeryBullish},
		{2, models.Bullish},
		{1, models.Bullish},
		{0, models.Neutral},
		{-1, models.Bearish},
		{-2, models.Bearish},
		{-3, models.VeryBearish},
	}
	for _, c := range cases {
		if got := LabelFromRaw(c.raw); got != c.label {
			t.Fatalf("raw %d: expected %s, got %s", c.raw, c.label, got)
		}
	}
}

func TestNormalizeRawClamps(t *testing.T) {
	if got := NormalizeRaw(7); got != 1 {
		t.Fatalf("expected clamp to 1, got %v", got)
	}
	if got := NormalizeRaw(-9); got != -1 {
		t.Fatalf("expected clamp to -1, got %v", got)
	}
	if got := NormalizeRaw(2); got != 0.4 {
		t.Fatalf("expected 0.4, got %v", got)
	}
}

func TestLexicalScoreHeadline(t *testing.T) {
	s := NewLexicalScorer([]string{"surge", "strong"}, nil)
	a := models.Article{ID: "a1", Title: "S&P 500 Surges to Record High on Strong Earnings Beat"}
	res, err := s.Score(context.Background(), a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// raw = 2: "Surges" and "Strong"
	if res.Label != models.Bullish {
		t.Fatalf("raw 2 must label BULLISH, got %s", res.Label)
	}
	if res.Score != 0.4 {
		t.Fatalf("expected normalized 0.4, got %v", res.Score)
	}
	if res.Strategy != models.StrategyLexical {
		t.Fatalf("unexpected strategy %s", res.Strategy)
	}
}

func TestLexicalScoreMixed(t *testing.T) {
	s := NewLexicalScorer(bullish, bearish)
	a := models.Article{
		ID:      "a1",
		Title:   "Shares rally on earnings beat",
		Summary: "Rivals slump as demand stays weak",
	}
	res, err := s.Score(context.Background(), a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// bullish: rally, beat; bearish: slump, weak
	if res.Score != 0 || res.Label != models.Neutral {
		t.Fatalf("expected neutral zero, got %+v", res)
	}
}

func TestLexicalScoreEmptyText(t *testing.T) {
	s := NewLexicalScorer(bullish, bearish)
	res, err := s.Score(context.Background(), models.Article{ID: "a1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Score != 0 || res.Label != models.Neutral {
		t.Fatalf("empty text must be neutral zero, got %+v", res)
	}
}

func TestLexicalNoInteriorKeywordMatch(t *testing.T) {
	s := NewLexicalScorer([]string{"gain"}, nil)
	a := models.Article{ID: "a1", Title: "again and again"}
	res, err := s.Score(context.Background(), a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Score != 0 {
		t.Fatalf("keyword must not match inside a word, got %v", res.Score)
	}
}
