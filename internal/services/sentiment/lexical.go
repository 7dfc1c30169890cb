package sentiment

import (
	"context"

	"NewsPull/internal/domain/models"
	"NewsPull/internal/services/text"
)

// LexicalScorer counts bullish and bearish keywords anchored at word
// starts, so "surge" also counts "surges". Deterministic and never fails.
type LexicalScorer struct {
	bullish []string
	bearish []string
}

func NewLexicalScorer(bullish, bearish []string) *LexicalScorer {
	return &LexicalScorer{bullish: bullish, bearish: bearish}
}

func (s *LexicalScorer) Score(_ context.Context, a models.Article) (models.SentimentResult, error) {
	body := a.Text()
	raw := text.CountStems(body, s.bullish) - text.CountStems(body, s.bearish)
	return models.SentimentResult{
		Score:    NormalizeRaw(raw),
		Label:    LabelFromRaw(raw),
		Strategy: models.StrategyLexical,
	}, nil
}

func (s *LexicalScorer) Strategy() models.Strategy { return models.StrategyLexical }
